package usecase

import (
	"context"
	"fmt"

	repository "go-parley/internal/pkg/chat/persistence/repository/port"
)

// LeaveConversationUseCase removes a user from a conversation's durable
// membership. Removing an absent participant is a no-op.
type LeaveConversationUseCase struct {
	Repo repository.ConversationRepository
}

func NewLeaveConversationUseCase(repo repository.ConversationRepository) *LeaveConversationUseCase {
	return &LeaveConversationUseCase{Repo: repo}
}

func (uc *LeaveConversationUseCase) Execute(ctx context.Context, conversationID, userID string) error {
	if conversationID == "" || userID == "" {
		return fmt.Errorf("conversation_id and user_id are required")
	}
	if err := uc.Repo.RemoveParticipant(ctx, conversationID, userID); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return nil
}
