package controller

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"go-parley/internal/infrastructure/auth"
	"go-parley/internal/infrastructure/realtime"
	"go-parley/internal/pkg/chat/application/service"
	chat "go-parley/internal/pkg/chat/domain"
	repository "go-parley/internal/pkg/chat/persistence/repository/port"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// Application close codes sent after the upgrade. The handshake always
// succeeds; rejections arrive as close frames so browser clients can read
// the code.
const (
	CloseUnauthenticated      = 4001
	CloseConversationNotFound = 4404
	CloseInternalError        = 4500
)

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins for now; plug a proper checker when auth is added.
		return true
	},
}

const defaultReadTimeout = 60 * time.Second

// inboundFrame is the only shape clients send on a conversation socket.
type inboundFrame struct {
	Text string `json:"text"`
}

// errorFrame is delivered only to the offending session. Errors on the
// send path never terminate the connection.
type errorFrame struct {
	Error string `json:"error"`
}

type historyFrame struct {
	Type     string         `json:"type"`
	Messages []chat.Message `json:"messages"`
}

type userListFrame struct {
	Type  string             `json:"type"`
	Users []chat.UserProfile `json:"users"`
}

type userStatusFrame struct {
	Type      string           `json:"type"`
	Status    string           `json:"status"`
	Timestamp string           `json:"timestamp"`
	User      chat.UserProfile `json:"user"`
}

// messageFrame is the broadcast shape for a chat message. It carries no
// type tag; clients treat any frame without one as a message.
type messageFrame struct {
	Sender    string           `json:"sender"`
	Text      string           `json:"text"`
	Timestamp string           `json:"timestamp"`
	User      chat.UserProfile `json:"user"`
}

// ChatSocketController handles the websocket endpoint carrying one
// conversation's realtime traffic.
type ChatSocketController struct {
	hub           *realtime.Hub
	sessions      *auth.SessionStore
	conversations repository.ConversationRepository
	store         *service.MessageStore
	presence      *service.Presence
	throttle      *service.Throttle
	cleanup       *service.Cleanup
	log           *slog.Logger

	perSecond       int
	perMinute       int
	inflightTimeout time.Duration
}

func NewChatSocketController(
	hub *realtime.Hub,
	sessions *auth.SessionStore,
	conversations repository.ConversationRepository,
	store *service.MessageStore,
	presence *service.Presence,
	throttle *service.Throttle,
	cleanup *service.Cleanup,
	perSecond, perMinute int,
	log *slog.Logger,
) *ChatSocketController {
	return &ChatSocketController{
		hub:             hub,
		sessions:        sessions,
		conversations:   conversations,
		store:           store,
		presence:        presence,
		throttle:        throttle,
		cleanup:         cleanup,
		log:             log,
		perSecond:       perSecond,
		perMinute:       perMinute,
		inflightTimeout: 5 * time.Second,
	}
}

// Handle upgrades the HTTP connection and runs the conversation session
// until the client disconnects.
func (ctl *ChatSocketController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		conversationID := c.Param("conversationId")

		ws, err := wsUpgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			// Upgrade already wrote the response; just log and return.
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

		ctx, cancel = context.WithTimeout(c.Request.Context(), ctl.inflightTimeout)
		_, err = ctl.conversations.Get(ctx, conversationID)
		cancel()
		if err != nil {
			if errors.Is(err, chat.ErrNotFound) {
				closeWith(ws, CloseConversationNotFound, "conversation not found")
			} else {
				ctl.log.Error("conversation lookup failed", "conversation", conversationID, "err", err)
				closeWith(ws, CloseInternalError, "internal error")
			}
			return
		}

		group := chat.GroupName(conversationID)
		conn := realtime.NewConnection(user.ID, ws)
		ctl.hub.Join(group, conn)
		conn.Start()
		defer ctl.teardown(group, conversationID, conn, user)

		ctl.broadcastStatus(group, "joined", user)

		ctx, cancel = context.WithTimeout(c.Request.Context(), ctl.inflightTimeout)
		err = ctl.presence.AddActive(ctx, conversationID, user.ID)
		cancel()
		if err != nil {
			ctl.replyError(conn, "failed to record presence")
		}

		ctl.sendUserList(c.Request.Context(), conn, conversationID)
		ctl.sendHistory(c.Request.Context(), conn, conversationID)

		ws.SetReadLimit(1 << 20) // 1MB payload cap
		_ = ws.SetReadDeadline(time.Now().Add(defaultReadTimeout))
		ws.SetPongHandler(func(string) error {
			return ws.SetReadDeadline(time.Now().Add(defaultReadTimeout))
		})

		for {
			_, data, err := ws.ReadMessage()
			if err != nil {
				return
			}
			ctl.handleInbound(c, conn, group, conversationID, user, data)
		}
	}
}

func (ctl *ChatSocketController) handleInbound(c *gin.Context, conn *realtime.Connection, group, conversationID string, user chat.UserProfile, data []byte) {
	var frame inboundFrame
	if err := json.Unmarshal(data, &frame); err != nil {
		ctl.replyError(conn, "invalid payload")
		return
	}
	text := strings.TrimSpace(frame.Text)
	if text == "" {
		ctl.replyError(conn, "Message text is required")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), ctl.inflightTimeout)
	defer cancel()

	if err := ctl.throttle.Check(ctx, ctl.perSecond, ctl.perMinute, user.ID, conversationID); err != nil {
		if errors.Is(err, chat.ErrRateLimited) {
			ctl.replyError(conn, err.Error())
			return
		}
	}

	msg := chat.NewMessage(user.ID, text, time.Now())
	if err := ctl.store.Push(ctx, conversationID, msg); err != nil {
		ctl.log.Error("message store failed", "conversation", conversationID, "err", err)
		ctl.replyError(conn, "failed to store message")
		return
	}

	out := messageFrame{
		Sender:    msg.Sender,
		Text:      msg.Text,
		Timestamp: msg.Timestamp,
		User:      user,
	}
	payload, err := json.Marshal(out)
	if err != nil {
		ctl.replyError(conn, "failed to encode message")
		return
	}
	ctl.hub.Broadcast(group, payload)
}

// teardown unwinds a session in the reverse of setup order. The request
// context is gone by the time a disconnect runs, so bookkeeping gets a
// fresh one.
func (ctl *ChatSocketController) teardown(group, conversationID string, conn *realtime.Connection, user chat.UserProfile) {
	ctx, cancel := context.WithTimeout(context.Background(), ctl.inflightTimeout)
	defer cancel()

	ctl.broadcastStatus(group, "left", user)
	ctl.hub.Leave(group, conn)

	if err := ctl.presence.RemoveActive(ctx, conversationID, user.ID); err != nil {
		ctl.log.Error("presence remove on disconnect failed", "conversation", conversationID, "user", user.ID, "err", err)
	}
	ctl.cleanup.CleanupIfEmpty(ctx, conversationID)

	conn.Close(websocket.CloseNormalClosure, "session closed")
}

func (ctl *ChatSocketController) broadcastStatus(group, status string, user chat.UserProfile) {
	frame := userStatusFrame{
		Type:      "user_status",
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		User:      user,
	}
	if payload, err := json.Marshal(frame); err == nil {
		ctl.hub.Broadcast(group, payload)
	}
}

func (ctl *ChatSocketController) sendUserList(parent context.Context, conn *realtime.Connection, conversationID string) {
	ctx, cancel := context.WithTimeout(parent, ctl.inflightTimeout)
	defer cancel()

	users, err := ctl.presence.ResolveActiveUsers(ctx, conversationID)
	if err != nil {
		ctl.log.Error("active user resolution failed", "conversation", conversationID, "err", err)
		ctl.replyError(conn, "failed to load active users")
		return
	}
	if users == nil {
		users = []chat.UserProfile{}
	}
	if payload, err := json.Marshal(userListFrame{Type: "user_list", Users: users}); err == nil {
		_ = conn.Send(payload)
	}
}

func (ctl *ChatSocketController) sendHistory(parent context.Context, conn *realtime.Connection, conversationID string) {
	ctx, cancel := context.WithTimeout(parent, ctl.inflightTimeout)
	defer cancel()

	msgs, err := ctl.store.FromArchive(ctx, conversationID)
	if err != nil {
		ctl.log.Error("history load failed", "conversation", conversationID, "err", err)
		ctl.replyError(conn, "failed to load history")
		return
	}
	if msgs == nil {
		msgs = []chat.Message{}
	}
	if payload, err := json.Marshal(historyFrame{Type: "history", Messages: msgs}); err == nil {
		_ = conn.Send(payload)
	}
}

func (ctl *ChatSocketController) replyError(conn *realtime.Connection, message string) {
	if payload, err := json.Marshal(errorFrame{Error: message}); err == nil {
		_ = conn.Send(payload)
	}
}

// closeWith rejects a session that never made it past setup. The socket is
// already upgraded, so the refusal travels as a close frame.
func closeWith(ws *websocket.Conn, code int, reason string) {
	deadline := time.Now().Add(time.Second)
	_ = ws.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(code, reason), deadline)
	_ = ws.Close()
}
