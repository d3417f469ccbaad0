package usecase

import (
	"context"
	"errors"
	"fmt"

	chat "go-parley/internal/pkg/chat/domain"
	repository "go-parley/internal/pkg/chat/persistence/repository/port"
)

// JoinConversationInput validates a request to add a user to a
// conversation's durable membership. Membership is independent of
// transient presence.
type JoinConversationInput struct {
	ConversationID string
	UserID         string
}

// JoinConversationUseCase registers the user as a participant.
type JoinConversationUseCase struct {
	Repo repository.ConversationRepository
}

func NewJoinConversationUseCase(repo repository.ConversationRepository) *JoinConversationUseCase {
	return &JoinConversationUseCase{Repo: repo}
}

func (uc *JoinConversationUseCase) Execute(ctx context.Context, in JoinConversationInput) error {
	if in.ConversationID == "" || in.UserID == "" {
		return fmt.Errorf("conversation_id and user_id are required")
	}
	if _, err := uc.Repo.Get(ctx, in.ConversationID); err != nil {
		if errors.Is(err, chat.ErrNotFound) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if err := uc.Repo.AddParticipant(ctx, in.ConversationID, in.UserID); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return nil
}
