package auth

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	cacheAdapter "go-parley/internal/infrastructure/cache/adapter"
	chat "go-parley/internal/pkg/chat/domain"
	repoAdapter "go-parley/internal/pkg/chat/persistence/repository/adapter"
)

func newTestStore(ttl time.Duration) (*SessionStore, *repoAdapter.MemoryUserDirectory) {
	cache := cacheAdapter.NewMemoryCache()
	users := repoAdapter.NewMemoryUserDirectory()
	return NewSessionStore(cache, users, ttl), users
}

func requestWithCookie(token string) *http.Request {
	r, _ := http.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		r.AddCookie(&http.Cookie{Name: SessionCookie, Value: token})
	}
	return r
}

func TestIssueAndResolve(t *testing.T) {
	req := require.New(t)
	store, users := newTestStore(time.Hour)
	ctx := context.Background()

	users.Add(chat.UserProfile{ID: "alice", Email: "alice@example.com"})

	token, err := store.Issue(ctx, "alice")
	req.NoError(err)
	req.NotEmpty(token)

	user, err := store.Resolve(ctx, requestWithCookie(token))
	req.NoError(err)
	req.Equal("alice@example.com", user.Email)
}

func TestResolveWithoutCookie(t *testing.T) {
	store, _ := newTestStore(time.Hour)
	_, err := store.Resolve(context.Background(), requestWithCookie(""))
	require.ErrorIs(t, err, ErrUnauthenticated)
}

func TestResolveUnknownToken(t *testing.T) {
	store, _ := newTestStore(time.Hour)
	_, err := store.Resolve(context.Background(), requestWithCookie("bogus"))
	require.ErrorIs(t, err, ErrUnauthenticated)
}

func TestRevokedSessionStopsResolving(t *testing.T) {
	req := require.New(t)
	store, users := newTestStore(time.Hour)
	ctx := context.Background()

	users.Add(chat.UserProfile{ID: "alice"})
	token, err := store.Issue(ctx, "alice")
	req.NoError(err)

	req.NoError(store.Revoke(ctx, token))
	_, err = store.Resolve(ctx, requestWithCookie(token))
	req.ErrorIs(err, ErrUnauthenticated)
}

func TestExpiredSessionStopsResolving(t *testing.T) {
	req := require.New(t)
	store, users := newTestStore(10 * time.Millisecond)
	ctx := context.Background()

	users.Add(chat.UserProfile{ID: "alice"})
	token, err := store.Issue(ctx, "alice")
	req.NoError(err)

	time.Sleep(30 * time.Millisecond)
	_, err = store.Resolve(ctx, requestWithCookie(token))
	req.ErrorIs(err, ErrUnauthenticated)
}
