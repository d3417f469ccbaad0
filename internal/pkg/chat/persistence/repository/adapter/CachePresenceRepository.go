package adapter

import (
	"context"

	cacheport "go-parley/internal/infrastructure/cache/port"
	repository "go-parley/internal/pkg/chat/persistence/repository/port"
)

// CachePresenceRepository stores each conversation's active-user ids as a
// set under "active_users:<conversation id>". Set mutations are atomic per
// key, so concurrent sessions need no extra locking.
type CachePresenceRepository struct {
	cache cacheport.Cache
}

func NewCachePresenceRepository(cache cacheport.Cache) *CachePresenceRepository {
	return &CachePresenceRepository{cache: cache}
}

var _ repository.PresenceRepository = (*CachePresenceRepository)(nil)

func presenceKey(conversationID string) string {
	return "active_users:" + conversationID
}

func (r *CachePresenceRepository) AddActive(ctx context.Context, conversationID, userID string) error {
	return r.cache.AddSet(ctx, presenceKey(conversationID), userID)
}

func (r *CachePresenceRepository) RemoveActive(ctx context.Context, conversationID, userID string) error {
	return r.cache.RemoveSet(ctx, presenceKey(conversationID), userID)
}

func (r *CachePresenceRepository) ActiveIDs(ctx context.Context, conversationID string) ([]string, error) {
	return r.cache.SetMembers(ctx, presenceKey(conversationID))
}

func (r *CachePresenceRepository) ActiveCount(ctx context.Context, conversationID string) (int64, error) {
	return r.cache.SetCard(ctx, presenceKey(conversationID))
}

func (r *CachePresenceRepository) DeleteSet(ctx context.Context, conversationID string) error {
	_, err := r.cache.Del(ctx, presenceKey(conversationID))
	return err
}
