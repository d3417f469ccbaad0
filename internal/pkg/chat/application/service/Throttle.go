package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/samber/lo"

	chat "go-parley/internal/pkg/chat/domain"
)

// senderHistory is the slice of the message store the guard needs.
type senderHistory interface {
	BySender(ctx context.Context, conversationID, senderID string) ([]chat.Message, error)
}

// Throttle rejects a sender's message when it violates a per-second gap or
// a per-minute count, computed from that sender's cached history. The
// guard fails open: an error while fetching history allows the message; it
// rejects only on an explicit limit breach.
type Throttle struct {
	history senderHistory
	log     *slog.Logger
	now     func() time.Time
}

func NewThrottle(history senderHistory, log *slog.Logger) *Throttle {
	return &Throttle{history: history, log: log, now: time.Now}
}

// Check returns nil to allow, chat.ErrRateLimited (wrapped with the
// breached limit) to reject. perSecond is the minimum number of seconds
// between two messages; perMinute the maximum count in a 60s window.
func (t *Throttle) Check(ctx context.Context, perSecond, perMinute int, userID, conversationID string) error {
	msgs, err := t.history.BySender(ctx, conversationID, userID)
	if err != nil {
		t.log.Warn("throttle history unavailable, allowing message", "conversation", conversationID, "user", userID, "err", err)
		return nil
	}
	if len(msgs) == 0 {
		return nil
	}

	now := t.now().UTC()

	// Insertion order is chronological; the last entry is the most recent
	// send. No re-sort.
	last := msgs[len(msgs)-1]
	if at, err := last.SentAt(); err != nil {
		t.log.Warn("unparseable timestamp in sender history", "conversation", conversationID, "err", err)
	} else if now.Sub(at) < time.Duration(perSecond)*time.Second {
		return fmt.Errorf("%w: too many messages per second", chat.ErrRateLimited)
	}

	cutoff := now.Add(-time.Minute)
	recent := lo.Filter(msgs, func(m chat.Message, _ int) bool {
		at, err := m.SentAt()
		return err == nil && at.After(cutoff)
	})
	if len(recent) > perMinute {
		return fmt.Errorf("%w: too many messages per minute", chat.ErrRateLimited)
	}
	return nil
}
