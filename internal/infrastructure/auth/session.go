package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	cacheport "go-parley/internal/infrastructure/cache/port"
	chat "go-parley/internal/pkg/chat/domain"
	repository "go-parley/internal/pkg/chat/persistence/repository/port"
)

// SessionCookie is the cookie carrying the opaque session token. Identity
// itself is established out-of-band by the identity service; this package
// only resolves tokens back to users.
const SessionCookie = "sessionid"

// ErrUnauthenticated is returned when no valid session accompanies a request.
var ErrUnauthenticated = errors.New("auth: no authenticated user")

func sessionKey(token string) string { return "session:" + token }

// SessionStore resolves session cookies against the fast store.
type SessionStore struct {
	cache cacheport.Cache
	users repository.UserDirectory
	ttl   time.Duration
}

func NewSessionStore(cache cacheport.Cache, users repository.UserDirectory, ttl time.Duration) *SessionStore {
	return &SessionStore{cache: cache, users: users, ttl: ttl}
}

// Issue creates a session for the user and returns the opaque token.
func (s *SessionStore) Issue(ctx context.Context, userID string) (string, error) {
	if userID == "" {
		return "", errors.New("auth: user id is required")
	}
	token := uuid.NewString()
	if err := s.cache.Set(ctx, sessionKey(token), userID, s.ttl); err != nil {
		return "", fmt.Errorf("auth: store session: %w", err)
	}
	return token, nil
}

// Revoke invalidates a session token. Revoking an unknown token is a no-op.
func (s *SessionStore) Revoke(ctx context.Context, token string) error {
	_, err := s.cache.Del(ctx, sessionKey(token))
	return err
}

// Resolve maps the request's session cookie to a user profile. Missing or
// expired sessions yield ErrUnauthenticated.
func (s *SessionStore) Resolve(ctx context.Context, r *http.Request) (chat.UserProfile, error) {
	c, err := r.Cookie(SessionCookie)
	if err != nil || c.Value == "" {
		return chat.UserProfile{}, ErrUnauthenticated
	}
	userID, err := s.cache.Get(ctx, sessionKey(c.Value))
	if errors.Is(err, cacheport.ErrMiss) {
		return chat.UserProfile{}, ErrUnauthenticated
	}
	if err != nil {
		return chat.UserProfile{}, fmt.Errorf("auth: session lookup: %w", err)
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return chat.UserProfile{}, fmt.Errorf("auth: resolve user %s: %w", userID, err)
	}
	return user, nil
}
