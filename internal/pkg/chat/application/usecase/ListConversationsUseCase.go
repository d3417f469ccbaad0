package usecase

import (
	"context"
	"fmt"

	chat "go-parley/internal/pkg/chat/domain"
	repository "go-parley/internal/pkg/chat/persistence/repository/port"
)

// ListConversationsUseCase returns all conversations, oldest first.
type ListConversationsUseCase struct {
	Repo repository.ConversationRepository
}

func NewListConversationsUseCase(repo repository.ConversationRepository) *ListConversationsUseCase {
	return &ListConversationsUseCase{Repo: repo}
}

func (uc *ListConversationsUseCase) Execute(ctx context.Context) ([]chat.Conversation, error) {
	convs, err := uc.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return convs, nil
}
