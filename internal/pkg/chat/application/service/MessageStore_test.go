package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	cacheAdapter "go-parley/internal/infrastructure/cache/adapter"
	chat "go-parley/internal/pkg/chat/domain"
	repoAdapter "go-parley/internal/pkg/chat/persistence/repository/adapter"
	repository "go-parley/internal/pkg/chat/persistence/repository/port"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type storeFixture struct {
	store   *MessageStore
	cache   repository.MessageCache
	archive repository.MessageArchive
}

func newStoreFixture() storeFixture {
	cache := repoAdapter.NewCacheMessageRepository(cacheAdapter.NewMemoryCache())
	archive := repoAdapter.NewMemoryMessageArchive()
	return storeFixture{
		store:   NewMessageStore(cache, archive, quietLogger()),
		cache:   cache,
		archive: archive,
	}
}

type failingArchive struct{}

func (failingArchive) PushMessage(context.Context, string, chat.Message) error {
	return errors.New("archive down")
}

func (failingArchive) GetMessages(context.Context, string) ([]chat.Message, error) {
	return nil, errors.New("archive down")
}

func TestPushWritesBothStores(t *testing.T) {
	req := require.New(t)
	f := newStoreFixture()
	ctx := context.Background()

	msg := chat.NewMessage("alice", "hello", time.Now())
	req.NoError(f.store.Push(ctx, "conv-1", msg))

	cached, err := f.store.FromCache(ctx, "conv-1")
	req.NoError(err)
	req.Len(cached, 1)
	req.Equal(msg, cached[0])

	archived, err := f.archive.GetMessages(ctx, "conv-1")
	req.NoError(err)
	req.Len(archived, 1)
	req.Equal(msg, archived[0])
}

func TestPushRejectsInvalidMessage(t *testing.T) {
	req := require.New(t)
	f := newStoreFixture()
	ctx := context.Background()

	err := f.store.Push(ctx, "conv-1", chat.Message{Sender: "alice", Text: "   ", Timestamp: "2025-01-01T00:00:00Z"})
	req.ErrorIs(err, chat.ErrValidation)

	cached, err := f.store.FromCache(ctx, "conv-1")
	req.NoError(err)
	req.Empty(cached)
}

func TestPushArchiveFailurePreservesCacheWrite(t *testing.T) {
	req := require.New(t)
	cache := repoAdapter.NewCacheMessageRepository(cacheAdapter.NewMemoryCache())
	store := NewMessageStore(cache, failingArchive{}, quietLogger())
	ctx := context.Background()

	msg := chat.NewMessage("alice", "hello", time.Now())
	err := store.Push(ctx, "conv-1", msg)
	req.ErrorIs(err, chat.ErrStorage)

	// The cache write had already happened and is not rolled back.
	cached, err := cache.GetMessages(ctx, "conv-1")
	req.NoError(err)
	req.Len(cached, 1)
}

func TestFromArchiveRepopulatesEmptyCache(t *testing.T) {
	req := require.New(t)
	f := newStoreFixture()
	ctx := context.Background()

	first := chat.NewMessage("alice", "one", time.Now().Add(-2*time.Minute))
	second := chat.NewMessage("bob", "two", time.Now().Add(-time.Minute))
	req.NoError(f.archive.PushMessage(ctx, "conv-1", first))
	req.NoError(f.archive.PushMessage(ctx, "conv-1", second))

	msgs, err := f.store.FromArchive(ctx, "conv-1")
	req.NoError(err)
	req.Equal([]chat.Message{first, second}, msgs)

	cached, err := f.store.FromCache(ctx, "conv-1")
	req.NoError(err)
	req.Equal([]chat.Message{first, second}, cached)

	// A second read finds the cache warm and must not duplicate entries.
	_, err = f.store.FromArchive(ctx, "conv-1")
	req.NoError(err)
	cached, err = f.store.FromCache(ctx, "conv-1")
	req.NoError(err)
	req.Len(cached, 2)
}

func TestFromArchiveLeavesWarmCacheAlone(t *testing.T) {
	req := require.New(t)
	f := newStoreFixture()
	ctx := context.Background()

	archived := chat.NewMessage("alice", "durable", time.Now().Add(-time.Hour))
	req.NoError(f.archive.PushMessage(ctx, "conv-1", archived))

	warm := chat.NewMessage("bob", "already cached", time.Now())
	req.NoError(f.cache.PushMessage(ctx, "conv-1", warm))

	msgs, err := f.store.FromArchive(ctx, "conv-1")
	req.NoError(err)
	req.Equal([]chat.Message{archived}, msgs)

	cached, err := f.store.FromCache(ctx, "conv-1")
	req.NoError(err)
	req.Equal([]chat.Message{warm}, cached)
}

func TestBySenderReadsCacheOnly(t *testing.T) {
	req := require.New(t)
	f := newStoreFixture()
	ctx := context.Background()

	// Archived but not cached: must not show up.
	req.NoError(f.archive.PushMessage(ctx, "conv-1", chat.NewMessage("alice", "cold", time.Now().Add(-time.Hour))))

	fromAlice := chat.NewMessage("alice", "warm", time.Now())
	req.NoError(f.cache.PushMessage(ctx, "conv-1", fromAlice))
	req.NoError(f.cache.PushMessage(ctx, "conv-1", chat.NewMessage("bob", "other", time.Now())))

	msgs, err := f.store.BySender(ctx, "conv-1", "alice")
	req.NoError(err)
	req.Equal([]chat.Message{fromAlice}, msgs)
}

func TestClearCacheIsIdempotent(t *testing.T) {
	req := require.New(t)
	f := newStoreFixture()
	ctx := context.Background()

	req.NoError(f.store.Push(ctx, "conv-1", chat.NewMessage("alice", "hello", time.Now())))
	req.NoError(f.store.ClearCache(ctx, "conv-1"))

	cached, err := f.store.FromCache(ctx, "conv-1")
	req.NoError(err)
	req.Empty(cached)

	req.NoError(f.store.ClearCache(ctx, "conv-1"))
}
