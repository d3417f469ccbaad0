package service

import (
	"context"
	"fmt"
	"log/slog"

	chat "go-parley/internal/pkg/chat/domain"
	repository "go-parley/internal/pkg/chat/persistence/repository/port"
)

// Presence tracks which users currently hold open sessions per
// conversation. Membership is boolean per user id, not a connection count:
// a user with two tabs appears once, and either tab's disconnect evicts
// them. Known gap, kept on purpose; see DESIGN.md.
type Presence struct {
	repo  repository.PresenceRepository
	users repository.UserDirectory
	log   *slog.Logger
}

func NewPresence(repo repository.PresenceRepository, users repository.UserDirectory, log *slog.Logger) *Presence {
	return &Presence{repo: repo, users: users, log: log}
}

// AddActive records the user as connected to the conversation.
func (p *Presence) AddActive(ctx context.Context, conversationID, userID string) error {
	if err := p.repo.AddActive(ctx, conversationID, userID); err != nil {
		p.log.Error("presence add failed", "conversation", conversationID, "user", userID, "err", err)
		return fmt.Errorf("%w: %v", chat.ErrStorage, err)
	}
	return nil
}

// RemoveActive drops the user from the conversation's active set.
func (p *Presence) RemoveActive(ctx context.Context, conversationID, userID string) error {
	if err := p.repo.RemoveActive(ctx, conversationID, userID); err != nil {
		p.log.Error("presence remove failed", "conversation", conversationID, "user", userID, "err", err)
		return fmt.Errorf("%w: %v", chat.ErrStorage, err)
	}
	return nil
}

// ListActiveIDs returns current membership; empty when the conversation
// has no active-set record.
func (p *Presence) ListActiveIDs(ctx context.Context, conversationID string) ([]string, error) {
	ids, err := p.repo.ActiveIDs(ctx, conversationID)
	if err != nil {
		p.log.Error("presence read failed", "conversation", conversationID, "err", err)
		return nil, fmt.Errorf("%w: %v", chat.ErrRetrieval, err)
	}
	return ids, nil
}

// ResolveActiveUsers maps the active ids through the user directory. An
// empty id set short-circuits without a directory call.
func (p *Presence) ResolveActiveUsers(ctx context.Context, conversationID string) ([]chat.UserProfile, error) {
	ids, err := p.ListActiveIDs(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}
	users, err := p.users.FindByIDs(ctx, ids)
	if err != nil {
		p.log.Error("directory lookup failed", "conversation", conversationID, "err", err)
		return nil, fmt.Errorf("%w: %v", chat.ErrRetrieval, err)
	}
	return users, nil
}

// DeleteSetIfEmpty removes the backing set only when its cardinality is
// exactly zero. The check guards against deleting a set a concurrent
// session just populated.
func (p *Presence) DeleteSetIfEmpty(ctx context.Context, conversationID string) error {
	size, err := p.repo.ActiveCount(ctx, conversationID)
	if err != nil {
		p.log.Error("presence size check failed", "conversation", conversationID, "err", err)
		return fmt.Errorf("%w: %v", chat.ErrRetrieval, err)
	}
	if size > 0 {
		p.log.Debug("presence set still populated, keeping it", "conversation", conversationID, "size", size)
		return nil
	}
	if err := p.repo.DeleteSet(ctx, conversationID); err != nil {
		p.log.Error("presence set delete failed", "conversation", conversationID, "err", err)
		return fmt.Errorf("%w: %v", chat.ErrStorage, err)
	}
	return nil
}
