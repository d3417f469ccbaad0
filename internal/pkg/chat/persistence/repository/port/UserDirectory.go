package repository

import (
	"context"

	chat "go-parley/internal/pkg/chat/domain"
)

// UserDirectory resolves stable user ids to display profiles. Identity
// management itself is an external collaborator; the chat pipeline only
// reads from it.
type UserDirectory interface {
	FindByID(ctx context.Context, id string) (chat.UserProfile, error)
	FindByIDs(ctx context.Context, ids []string) ([]chat.UserProfile, error)
}
