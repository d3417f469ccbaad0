package repository

import (
	"context"

	chat "go-parley/internal/pkg/chat/domain"
)

// MessageCache is the fast, non-durable side of the dual message store.
// Messages are an ordered append-only list per conversation; the list may
// be cleared independently of durable history when a conversation goes
// inactive.
type MessageCache interface {
	PushMessage(ctx context.Context, conversationID string, m chat.Message) error
	GetMessages(ctx context.Context, conversationID string) ([]chat.Message, error)

	// GetMessagesBySender filters the current cache contents by sender.
	// Deliberately cache-only: throttling needs recent activity, which is
	// always warm while a conversation is active.
	GetMessagesBySender(ctx context.Context, conversationID, senderID string) ([]chat.Message, error)

	// ClearMessages drops the conversation's cached list and reports how
	// many keys were removed. Idempotent.
	ClearMessages(ctx context.Context, conversationID string) (int64, error)
}

// MessageArchive is the durable system of record. Reads come back ordered
// by timestamp ascending.
type MessageArchive interface {
	PushMessage(ctx context.Context, conversationID string, m chat.Message) error
	GetMessages(ctx context.Context, conversationID string) ([]chat.Message, error)
}
