package controller

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"go-parley/internal/infrastructure/auth"
	qport "go-parley/internal/infrastructure/queue/port"
	"go-parley/internal/pkg/chat/application/task"
	"go-parley/internal/pkg/chat/application/usecase"
	chat "go-parley/internal/pkg/chat/domain"
	repository "go-parley/internal/pkg/chat/persistence/repository/port"

	"github.com/gin-gonic/gin"
)

// ConversationController handles conversation CRUD and participant
// membership. Create and delete publish change events to the queue so
// list subscribers see them; publishing is best-effort and never fails
// the request.
type ConversationController struct {
	createUC *usecase.CreateConversationUseCase
	deleteUC *usecase.DeleteConversationUseCase
	listUC   *usecase.ListConversationsUseCase
	joinUC   *usecase.JoinConversationUseCase
	leaveUC  *usecase.LeaveConversationUseCase

	conversations repository.ConversationRepository
	sessions      *auth.SessionStore
	queue         qport.Client
	log           *slog.Logger

	inflightTimeout time.Duration
}

func NewConversationController(repo repository.ConversationRepository, sessions *auth.SessionStore, queue qport.Client, log *slog.Logger) *ConversationController {
	return &ConversationController{
		createUC:        usecase.NewCreateConversationUseCase(repo),
		deleteUC:        usecase.NewDeleteConversationUseCase(repo),
		listUC:          usecase.NewListConversationsUseCase(repo),
		joinUC:          usecase.NewJoinConversationUseCase(repo),
		leaveUC:         usecase.NewLeaveConversationUseCase(repo),
		conversations:   repo,
		sessions:        sessions,
		queue:           queue,
		log:             log,
		inflightTimeout: 3 * time.Second,
	}
}

type createConversationRequest struct {
	Title string `json:"title" binding:"required"`
}

// List returns all conversations, oldest first.
func (ctl *ConversationController) List() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := ctl.withTimeout(c)
		defer cancel()

		convs, err := ctl.listUC.Execute(ctx)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list conversations"})
			return
		}
		if convs == nil {
			convs = []chat.Conversation{}
		}
		c.JSON(http.StatusOK, gin.H{"conversations": convs})
	}
}

// Create opens a new conversation and notifies list subscribers.
func (ctl *ConversationController) Create() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createConversationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "title is required"})
			return
		}

		ctx, cancel := ctl.withTimeout(c)
		defer cancel()

		conv, err := ctl.createUC.Execute(ctx, usecase.CreateConversationInput{Title: req.Title})
		if err != nil {
			if errors.Is(err, usecase.ErrPersistence) {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create conversation"})
			} else {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			}
			return
		}

		ctl.publishEvent(conv.ID, task.ActionAdd)
		c.JSON(http.StatusCreated, gin.H{"id": conv.ID})
	}
}

// Get returns a single conversation by id.
func (ctl *ConversationController) Get() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := ctl.withTimeout(c)
		defer cancel()

		conv, err := ctl.conversations.Get(ctx, c.Param("conversationId"))
		if err != nil {
			if errors.Is(err, chat.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "conversation not found"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load conversation"})
			}
			return
		}
		c.JSON(http.StatusOK, conv)
	}
}

// Delete removes a conversation and notifies list subscribers.
func (ctl *ConversationController) Delete() gin.HandlerFunc {
	return func(c *gin.Context) {
		conversationID := c.Param("conversationId")

		ctx, cancel := ctl.withTimeout(c)
		defer cancel()

		if err := ctl.deleteUC.Execute(ctx, conversationID); err != nil {
			if errors.Is(err, chat.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "conversation not found"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete conversation"})
			}
			return
		}

		ctl.publishEvent(conversationID, task.ActionRemove)
		c.Status(http.StatusNoContent)
	}
}

// Join adds the authenticated user to the conversation's participants.
func (ctl *ConversationController) Join() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := ctl.withTimeout(c)
		defer cancel()

		user, err := ctl.sessions.Resolve(ctx, c.Request)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		err = ctl.joinUC.Execute(ctx, usecase.JoinConversationInput{
			ConversationID: c.Param("conversationId"),
			UserID:         user.ID,
		})
		if err != nil {
			if errors.Is(err, chat.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "conversation not found"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to join conversation"})
			}
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// Leave removes the authenticated user from the conversation's participants.
func (ctl *ConversationController) Leave() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := ctl.withTimeout(c)
		defer cancel()

		user, err := ctl.sessions.Resolve(ctx, c.Request)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		if err := ctl.leaveUC.Execute(ctx, c.Param("conversationId"), user.ID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to leave conversation"})
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func (ctl *ConversationController) withTimeout(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), ctl.inflightTimeout)
}

func (ctl *ConversationController) publishEvent(conversationID, action string) {
	ctx, cancel := context.WithTimeout(context.Background(), ctl.inflightTimeout)
	defer cancel()
	if err := task.EnqueueConversationEvent(ctx, ctl.queue, conversationID, action); err != nil {
		ctl.log.Warn("conversation event publish failed", "conversation", conversationID, "action", action, "err", err)
	}
}
