package repository

import (
	"context"

	chat "go-parley/internal/pkg/chat/domain"
)

// ConversationRepository is the durable conversation and participant store.
// Participant membership is long-lived and distinct from transient presence.
// Get and Delete return chat.ErrNotFound (wrapped) for unknown ids.
type ConversationRepository interface {
	Create(ctx context.Context, title string) (chat.Conversation, error)
	Get(ctx context.Context, id string) (chat.Conversation, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]chat.Conversation, error)

	AddParticipant(ctx context.Context, conversationID, userID string) error
	RemoveParticipant(ctx context.Context, conversationID, userID string) error
	ListParticipantIDs(ctx context.Context, conversationID string) ([]string, error)
}
