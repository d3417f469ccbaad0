package repository

import "context"

// PresenceRepository tracks which user ids currently hold open sessions in
// a conversation, as a set keyed per conversation. Membership is ephemeral
// and reconstructed purely from live connections; it is never persisted
// durably. Mutations must be atomic per user id.
type PresenceRepository interface {
	AddActive(ctx context.Context, conversationID, userID string) error
	RemoveActive(ctx context.Context, conversationID, userID string) error
	ActiveIDs(ctx context.Context, conversationID string) ([]string, error)
	ActiveCount(ctx context.Context, conversationID string) (int64, error)

	// DeleteSet removes the backing set record entirely.
	DeleteSet(ctx context.Context, conversationID string) error
}
