package usecase

import (
	"context"
	"errors"
	"fmt"

	chat "go-parley/internal/pkg/chat/domain"
	repository "go-parley/internal/pkg/chat/persistence/repository/port"
)

// DeleteConversationUseCase removes a conversation and its durable history.
type DeleteConversationUseCase struct {
	Repo repository.ConversationRepository
}

func NewDeleteConversationUseCase(repo repository.ConversationRepository) *DeleteConversationUseCase {
	return &DeleteConversationUseCase{Repo: repo}
}

// Execute deletes the conversation. chat.ErrNotFound passes through so
// callers can map it to a 404.
func (uc *DeleteConversationUseCase) Execute(ctx context.Context, conversationID string) error {
	if conversationID == "" {
		return fmt.Errorf("conversation_id is required")
	}
	if err := uc.Repo.Delete(ctx, conversationID); err != nil {
		if errors.Is(err, chat.ErrNotFound) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return nil
}
