package controller

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"go-parley/internal/infrastructure/auth"
	"go-parley/internal/infrastructure/realtime"
	"go-parley/internal/pkg/chat/application/usecase"
	chat "go-parley/internal/pkg/chat/domain"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// conversationListSnapshot is sent once when a client subscribes.
// Incremental add/remove frames follow as the queue worker fans them out.
type conversationListSnapshot struct {
	Conversations []chat.Conversation `json:"conversations"`
}

// ConversationSocketController serves the conversation-list subscription
// socket. Subscribers receive a snapshot on connect, then live
// add_conversation and remove_conversation frames. The socket is
// outbound-only; inbound frames are ignored.
type ConversationSocketController struct {
	hub      *realtime.Hub
	sessions *auth.SessionStore
	listUC   *usecase.ListConversationsUseCase
	log      *slog.Logger

	inflightTimeout time.Duration
}

func NewConversationSocketController(hub *realtime.Hub, sessions *auth.SessionStore, listUC *usecase.ListConversationsUseCase, log *slog.Logger) *ConversationSocketController {
	return &ConversationSocketController{
		hub:             hub,
		sessions:        sessions,
		listUC:          listUC,
		log:             log,
		inflightTimeout: 5 * time.Second,
	}
}

func (ctl *ConversationSocketController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		ws, err := wsUpgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			ctl.log.Warn("websocket upgrade failed", "err", err)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), ctl.inflightTimeout)
		user, err := ctl.sessions.Resolve(ctx, c.Request)
		cancel()
		if err != nil {
			closeWith(ws, CloseUnauthenticated, "authentication required")
			return
		}

		conn := realtime.NewConnection(user.ID, ws)
		ctl.hub.Join(chat.ConversationListGroup, conn)
		conn.Start()
		defer func() {
			ctl.hub.Leave(chat.ConversationListGroup, conn)
			conn.Close(websocket.CloseNormalClosure, "session closed")
		}()

		ctl.sendSnapshot(c.Request.Context(), conn)

		ws.SetReadLimit(1 << 20)
		_ = ws.SetReadDeadline(time.Now().Add(defaultReadTimeout))
		ws.SetPongHandler(func(string) error {
			return ws.SetReadDeadline(time.Now().Add(defaultReadTimeout))
		})

		// Drain inbound frames so control messages keep flowing.
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				return
			}
		}
	}
}

func (ctl *ConversationSocketController) sendSnapshot(parent context.Context, conn *realtime.Connection) {
	ctx, cancel := context.WithTimeout(parent, ctl.inflightTimeout)
	defer cancel()

	convs, err := ctl.listUC.Execute(ctx)
	if err != nil {
		ctl.log.Error("conversation snapshot failed", "err", err)
		ctl.replyError(conn, "failed to load conversations")
		return
	}
	if convs == nil {
		convs = []chat.Conversation{}
	}
	if payload, err := json.Marshal(conversationListSnapshot{Conversations: convs}); err == nil {
		_ = conn.Send(payload)
	}
}

func (ctl *ConversationSocketController) replyError(conn *realtime.Connection, message string) {
	if payload, err := json.Marshal(errorFrame{Error: message}); err == nil {
		_ = conn.Send(payload)
	}
}
