package usecase

import (
	"context"
	"fmt"
	"strings"

	chat "go-parley/internal/pkg/chat/domain"
	repository "go-parley/internal/pkg/chat/persistence/repository/port"
)

// CreateConversationInput carries the required data to open a new conversation.
type CreateConversationInput struct {
	Title string
}

// CreateConversationUseCase handles creation of a new conversation.
// Hexagonal: depends on the repository port only.
type CreateConversationUseCase struct {
	Repo repository.ConversationRepository
}

func NewCreateConversationUseCase(repo repository.ConversationRepository) *CreateConversationUseCase {
	return &CreateConversationUseCase{Repo: repo}
}

// Execute persists a conversation and returns it.
func (uc *CreateConversationUseCase) Execute(ctx context.Context, in CreateConversationInput) (chat.Conversation, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return chat.Conversation{}, fmt.Errorf("title is required")
	}
	conv, err := uc.Repo.Create(ctx, title)
	if err != nil {
		return chat.Conversation{}, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return conv, nil
}
