package controller_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	chat "go-parley/internal/pkg/chat/domain"
)

func TestConversationSocketRejectsUnauthenticated(t *testing.T) {
	e := newEnv(t)
	conn := e.dial(t, "/api/v1/ws/conversations", "")
	expectClose(t, conn, 4001)
}

func TestConversationSocketSendsSnapshot(t *testing.T) {
	req := require.New(t)
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.conversations.Create(ctx, "general")
	req.NoError(err)
	_, err = e.conversations.Create(ctx, "random")
	req.NoError(err)

	token := e.login(t, chat.UserProfile{ID: "alice"})
	conn := e.dial(t, "/api/v1/ws/conversations", token)

	frame := readFrame(t, conn)
	req.Len(frame["conversations"], 2)

	req.Eventually(func() bool {
		return e.hub.Members(chat.ConversationListGroup) == 1
	}, time.Second, 10*time.Millisecond)

	req.NoError(conn.Close())
	req.Eventually(func() bool {
		return e.hub.Members(chat.ConversationListGroup) == 0
	}, time.Second, 10*time.Millisecond)
}
