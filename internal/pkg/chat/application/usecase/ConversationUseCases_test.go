package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	chat "go-parley/internal/pkg/chat/domain"
	repoAdapter "go-parley/internal/pkg/chat/persistence/repository/adapter"
)

func TestCreateConversationRequiresTitle(t *testing.T) {
	uc := NewCreateConversationUseCase(repoAdapter.NewMemoryConversationRepository())
	_, err := uc.Execute(context.Background(), CreateConversationInput{Title: "   "})
	require.Error(t, err)
}

func TestCreateAndListConversations(t *testing.T) {
	req := require.New(t)
	repo := repoAdapter.NewMemoryConversationRepository()
	ctx := context.Background()

	conv, err := NewCreateConversationUseCase(repo).Execute(ctx, CreateConversationInput{Title: "general"})
	req.NoError(err)
	req.NotEmpty(conv.ID)
	req.Equal("general", conv.DisplayTitle())

	convs, err := NewListConversationsUseCase(repo).Execute(ctx)
	req.NoError(err)
	req.Len(convs, 1)
}

func TestJoinUnknownConversation(t *testing.T) {
	uc := NewJoinConversationUseCase(repoAdapter.NewMemoryConversationRepository())
	err := uc.Execute(context.Background(), JoinConversationInput{ConversationID: "missing", UserID: "alice"})
	require.ErrorIs(t, err, chat.ErrNotFound)
}

func TestDeleteUnknownConversation(t *testing.T) {
	uc := NewDeleteConversationUseCase(repoAdapter.NewMemoryConversationRepository())
	err := uc.Execute(context.Background(), "missing")
	require.ErrorIs(t, err, chat.ErrNotFound)
}
