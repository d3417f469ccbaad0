package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	chat "go-parley/internal/pkg/chat/domain"
)

type fakeHistory struct {
	msgs []chat.Message
	err  error
}

func (f *fakeHistory) BySender(context.Context, string, string) ([]chat.Message, error) {
	return f.msgs, f.err
}

func newThrottleAt(history *fakeHistory, now time.Time) *Throttle {
	th := NewThrottle(history, quietLogger())
	th.now = func() time.Time { return now }
	return th
}

func TestThrottleAllowsFirstMessage(t *testing.T) {
	th := newThrottleAt(&fakeHistory{}, time.Now())
	require.NoError(t, th.Check(context.Background(), 1, 30, "alice", "conv-1"))
}

func TestThrottleRejectsRapidFire(t *testing.T) {
	now := time.Now().UTC()
	history := &fakeHistory{msgs: []chat.Message{
		chat.NewMessage("alice", "previous", now.Add(-100*time.Millisecond)),
	}}
	th := newThrottleAt(history, now)

	err := th.Check(context.Background(), 1, 30, "alice", "conv-1")
	require.ErrorIs(t, err, chat.ErrRateLimited)
}

func TestThrottleRejectsPerMinuteBreach(t *testing.T) {
	now := time.Now().UTC()
	var msgs []chat.Message
	for i := 0; i < 6; i++ {
		msgs = append(msgs, chat.NewMessage("alice", "burst", now.Add(-time.Duration(50-i*5)*time.Second)))
	}
	th := newThrottleAt(&fakeHistory{msgs: msgs}, now)

	// The last message was 25s ago, so the per-second gap is satisfied;
	// six messages inside the minute breach the limit of five.
	err := th.Check(context.Background(), 1, 5, "alice", "conv-1")
	require.ErrorIs(t, err, chat.ErrRateLimited)
}

func TestThrottleAllowsSpacedMessages(t *testing.T) {
	now := time.Now().UTC()
	history := &fakeHistory{msgs: []chat.Message{
		chat.NewMessage("alice", "old", now.Add(-10*time.Minute)),
		chat.NewMessage("alice", "older", now.Add(-5*time.Minute)),
		chat.NewMessage("alice", "recent", now.Add(-90*time.Second)),
	}}
	th := newThrottleAt(history, now)

	require.NoError(t, th.Check(context.Background(), 1, 5, "alice", "conv-1"))
}

func TestThrottleFailsOpenOnHistoryError(t *testing.T) {
	th := newThrottleAt(&fakeHistory{err: errors.New("cache down")}, time.Now())
	require.NoError(t, th.Check(context.Background(), 1, 5, "alice", "conv-1"))
}
