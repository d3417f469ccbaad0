package service

import (
	"context"
	"fmt"
	"log/slog"

	chat "go-parley/internal/pkg/chat/domain"
	repository "go-parley/internal/pkg/chat/persistence/repository/port"
)

// MessageStore is the dual message store: every send is written to the
// fast cache and to durable storage. The cache is authoritative for
// low-latency reads, the archive for recovery and backfill. There is no
// transaction across the two writes; a crash in between leaves them
// inconsistent and recovery favors the archive (the cache is rebuilt
// lazily on the next history read).
type MessageStore struct {
	cache   repository.MessageCache
	archive repository.MessageArchive
	log     *slog.Logger
}

func NewMessageStore(cache repository.MessageCache, archive repository.MessageArchive, log *slog.Logger) *MessageStore {
	return &MessageStore{cache: cache, archive: archive, log: log}
}

// Push validates the message and writes it cache-first, then durably.
// Either write failing fails the send with chat.ErrStorage; a write that
// already succeeded is preserved, not rolled back.
func (s *MessageStore) Push(ctx context.Context, conversationID string, m chat.Message) error {
	if err := m.Validate(); err != nil {
		return err
	}
	if err := s.cache.PushMessage(ctx, conversationID, m); err != nil {
		s.log.Error("cache write failed", "conversation", conversationID, "err", err)
		return fmt.Errorf("%w: cache write: %v", chat.ErrStorage, err)
	}
	if err := s.archive.PushMessage(ctx, conversationID, m); err != nil {
		s.log.Error("durable write failed", "conversation", conversationID, "err", err)
		return fmt.Errorf("%w: durable write: %v", chat.ErrStorage, err)
	}
	return nil
}

// FromCache returns the cached list verbatim.
func (s *MessageStore) FromCache(ctx context.Context, conversationID string) ([]chat.Message, error) {
	msgs, err := s.cache.GetMessages(ctx, conversationID)
	if err != nil {
		s.log.Error("cache read failed", "conversation", conversationID, "err", err)
		return nil, fmt.Errorf("%w: %v", chat.ErrRetrieval, err)
	}
	return msgs, nil
}

// FromArchive returns durable history ordered by timestamp ascending and,
// when the cache holds nothing for the conversation, replays the rows into
// it. Repopulation is best-effort: its failures are logged, never surfaced.
func (s *MessageStore) FromArchive(ctx context.Context, conversationID string) ([]chat.Message, error) {
	msgs, err := s.archive.GetMessages(ctx, conversationID)
	if err != nil {
		s.log.Error("durable read failed", "conversation", conversationID, "err", err)
		return nil, fmt.Errorf("%w: %v", chat.ErrRetrieval, err)
	}

	cached, err := s.cache.GetMessages(ctx, conversationID)
	if err != nil {
		s.log.Warn("skipping cache repopulation", "conversation", conversationID, "err", err)
		return msgs, nil
	}
	if len(cached) > 0 {
		return msgs, nil
	}
	for _, m := range msgs {
		if err := s.cache.PushMessage(ctx, conversationID, m); err != nil {
			s.log.Warn("cache repopulation failed", "conversation", conversationID, "err", err)
			break
		}
	}
	return msgs, nil
}

// BySender filters the cache's current contents by sender. It feeds the
// throttle guard, which only needs recent activity, and never falls
// through to a durable scan.
func (s *MessageStore) BySender(ctx context.Context, conversationID, senderID string) ([]chat.Message, error) {
	msgs, err := s.cache.GetMessagesBySender(ctx, conversationID, senderID)
	if err != nil {
		s.log.Error("sender history read failed", "conversation", conversationID, "sender", senderID, "err", err)
		return nil, fmt.Errorf("%w: %v", chat.ErrRetrieval, err)
	}
	return msgs, nil
}

// ClearCache drops the conversation's cached messages. Idempotent; a clear
// with nothing to remove is logged and succeeds.
func (s *MessageStore) ClearCache(ctx context.Context, conversationID string) error {
	removed, err := s.cache.ClearMessages(ctx, conversationID)
	if err != nil {
		s.log.Error("cache clear failed", "conversation", conversationID, "err", err)
		return fmt.Errorf("%w: %v", chat.ErrStorage, err)
	}
	if removed == 0 {
		s.log.Debug("no cached messages to clear", "conversation", conversationID)
	}
	return nil
}
