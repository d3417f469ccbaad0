package adapter

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/samber/lo"

	cacheport "go-parley/internal/infrastructure/cache/port"
	chat "go-parley/internal/pkg/chat/domain"
	repository "go-parley/internal/pkg/chat/persistence/repository/port"
)

// CacheMessageRepository keeps each conversation's messages as a JSON list
// under "chat:<conversation id>" in the fast store.
type CacheMessageRepository struct {
	cache cacheport.Cache
}

func NewCacheMessageRepository(cache cacheport.Cache) *CacheMessageRepository {
	return &CacheMessageRepository{cache: cache}
}

var _ repository.MessageCache = (*CacheMessageRepository)(nil)

func messageKey(conversationID string) string {
	return "chat:" + conversationID
}

func (r *CacheMessageRepository) PushMessage(ctx context.Context, conversationID string, m chat.Message) error {
	raw, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("encode message: %w", err)
	}
	return r.cache.PushList(ctx, messageKey(conversationID), string(raw))
}

func (r *CacheMessageRepository) GetMessages(ctx context.Context, conversationID string) ([]chat.Message, error) {
	raws, err := r.cache.ListRange(ctx, messageKey(conversationID))
	if err != nil {
		return nil, err
	}
	msgs := make([]chat.Message, 0, len(raws))
	for _, raw := range raws {
		var m chat.Message
		if err := json.Unmarshal([]byte(raw), &m); err != nil {
			return nil, fmt.Errorf("decode cached message: %w", err)
		}
		msgs = append(msgs, m)
	}
	return msgs, nil
}

func (r *CacheMessageRepository) GetMessagesBySender(ctx context.Context, conversationID, senderID string) ([]chat.Message, error) {
	msgs, err := r.GetMessages(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	return lo.Filter(msgs, func(m chat.Message, _ int) bool {
		return m.Sender == senderID
	}), nil
}

func (r *CacheMessageRepository) ClearMessages(ctx context.Context, conversationID string) (int64, error) {
	return r.cache.Del(ctx, messageKey(conversationID))
}
