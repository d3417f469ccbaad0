package service

import (
	"context"
	"log/slog"
)

// cacheCleaner and presenceCleaner are the slices of MessageStore and
// Presence the coordinator needs.
type cacheCleaner interface {
	ClearCache(ctx context.Context, conversationID string) error
}

type presenceCleaner interface {
	ListActiveIDs(ctx context.Context, conversationID string) ([]string, error)
	DeleteSetIfEmpty(ctx context.Context, conversationID string) error
}

// Cleanup purges a conversation's fast-store state once its active-user
// set drains. Cleanup is a best-effort optimization, never required for
// correctness: a stale cache is tolerated and a missing presence set is
// rebuilt on the next join, so every failure here is swallowed and logged.
//
// A join racing the emptiness check can see its fresh state deleted; this
// is an accepted eventual-consistency gap (see DESIGN.md).
type Cleanup struct {
	store    cacheCleaner
	presence presenceCleaner
	log      *slog.Logger
}

func NewCleanup(store cacheCleaner, presence presenceCleaner, log *slog.Logger) *Cleanup {
	return &Cleanup{store: store, presence: presence, log: log}
}

// CleanupIfEmpty runs after every presence removal. Steps are sequential
// and non-compensating: a cache-clear failure aborts before the set delete
// is attempted.
func (c *Cleanup) CleanupIfEmpty(ctx context.Context, conversationID string) {
	ids, err := c.presence.ListActiveIDs(ctx, conversationID)
	if err != nil {
		c.log.Error("cleanup skipped, active set unreadable", "conversation", conversationID, "err", err)
		return
	}
	if len(ids) > 0 {
		return
	}
	if err := c.store.ClearCache(ctx, conversationID); err != nil {
		c.log.Error("cleanup aborted, cache clear failed", "conversation", conversationID, "err", err)
		return
	}
	if err := c.presence.DeleteSetIfEmpty(ctx, conversationID); err != nil {
		c.log.Error("cleanup presence set delete failed", "conversation", conversationID, "err", err)
	}
}
