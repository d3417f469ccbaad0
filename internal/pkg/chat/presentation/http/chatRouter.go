package http

import (
	"log/slog"

	"go-parley/internal/infrastructure/auth"
	qport "go-parley/internal/infrastructure/queue/port"
	"go-parley/internal/infrastructure/realtime"
	"go-parley/internal/pkg/chat/application/service"
	"go-parley/internal/pkg/chat/application/usecase"
	repository "go-parley/internal/pkg/chat/persistence/repository/port"
	"go-parley/internal/pkg/chat/presentation/controller"

	"github.com/gin-gonic/gin"
)

// Deps carries everything the chat endpoints need, constructed once in
// main and passed down.
type Deps struct {
	Hub           *realtime.Hub
	Sessions      *auth.SessionStore
	Conversations repository.ConversationRepository
	Store         *service.MessageStore
	Presence      *service.Presence
	Throttle      *service.Throttle
	Cleanup       *service.Cleanup
	Queue         qport.Client
	Log           *slog.Logger

	ThrottlePerSecond int
	ThrottlePerMinute int
}

// RegisterRoutes registers chat-related HTTP endpoints under the given router group
// It constructs per-endpoint controllers and binds them directly to routes.
func RegisterRoutes(g *gin.RouterGroup, d Deps) {
	convCtl := controller.NewConversationController(d.Conversations, d.Sessions, d.Queue, d.Log)
	chatSocketCtl := controller.NewChatSocketController(
		d.Hub, d.Sessions, d.Conversations,
		d.Store, d.Presence, d.Throttle, d.Cleanup,
		d.ThrottlePerSecond, d.ThrottlePerMinute, d.Log,
	)
	listSocketCtl := controller.NewConversationSocketController(
		d.Hub, d.Sessions, usecase.NewListConversationsUseCase(d.Conversations), d.Log,
	)

	// Conversation CRUD and participant membership.
	g.GET("/conversations", convCtl.List())
	g.POST("/conversations", convCtl.Create())
	g.GET("/conversations/:conversationId", convCtl.Get())
	g.DELETE("/conversations/:conversationId", convCtl.Delete())
	g.POST("/conversations/:conversationId/participants", convCtl.Join())
	g.DELETE("/conversations/:conversationId/participants", convCtl.Leave())

	// GET /api/v1/ws/chat/:conversationId -> realtime conversation traffic
	g.GET("/ws/chat/:conversationId", chatSocketCtl.Handle())

	// GET /api/v1/ws/conversations -> conversation-list subscription
	g.GET("/ws/conversations", listSocketCtl.Handle())
}
