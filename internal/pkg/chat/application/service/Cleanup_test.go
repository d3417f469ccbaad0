package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeCacheCleaner struct {
	cleared []string
	err     error
}

func (f *fakeCacheCleaner) ClearCache(_ context.Context, conversationID string) error {
	if f.err != nil {
		return f.err
	}
	f.cleared = append(f.cleared, conversationID)
	return nil
}

type fakePresenceCleaner struct {
	ids     []string
	idsErr  error
	deleted []string
}

func (f *fakePresenceCleaner) ListActiveIDs(context.Context, string) ([]string, error) {
	return f.ids, f.idsErr
}

func (f *fakePresenceCleaner) DeleteSetIfEmpty(_ context.Context, conversationID string) error {
	f.deleted = append(f.deleted, conversationID)
	return nil
}

func TestCleanupRunsWhenSetDrains(t *testing.T) {
	req := require.New(t)
	store := &fakeCacheCleaner{}
	presence := &fakePresenceCleaner{}

	NewCleanup(store, presence, quietLogger()).CleanupIfEmpty(context.Background(), "conv-1")

	req.Equal([]string{"conv-1"}, store.cleared)
	req.Equal([]string{"conv-1"}, presence.deleted)
}

func TestCleanupSkipsActiveConversation(t *testing.T) {
	req := require.New(t)
	store := &fakeCacheCleaner{}
	presence := &fakePresenceCleaner{ids: []string{"bob"}}

	NewCleanup(store, presence, quietLogger()).CleanupIfEmpty(context.Background(), "conv-1")

	req.Empty(store.cleared)
	req.Empty(presence.deleted)
}

func TestCleanupAbortsWhenCacheClearFails(t *testing.T) {
	req := require.New(t)
	store := &fakeCacheCleaner{err: errors.New("cache down")}
	presence := &fakePresenceCleaner{}

	NewCleanup(store, presence, quietLogger()).CleanupIfEmpty(context.Background(), "conv-1")

	// The set delete never runs after a failed clear.
	req.Empty(presence.deleted)
}

func TestCleanupSkipsWhenSetUnreadable(t *testing.T) {
	req := require.New(t)
	store := &fakeCacheCleaner{}
	presence := &fakePresenceCleaner{idsErr: errors.New("cache down")}

	NewCleanup(store, presence, quietLogger()).CleanupIfEmpty(context.Background(), "conv-1")

	req.Empty(store.cleared)
	req.Empty(presence.deleted)
}
