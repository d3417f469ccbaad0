package task

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	qport "go-parley/internal/infrastructure/queue/port"
	"go-parley/internal/infrastructure/realtime"
	chat "go-parley/internal/pkg/chat/domain"
)

type fakeQueueServer struct {
	handlers map[string]qport.Handler
}

func newFakeQueueServer() *fakeQueueServer {
	return &fakeQueueServer{handlers: make(map[string]qport.Handler)}
}

func (f *fakeQueueServer) Register(taskType string, h qport.Handler) { f.handlers[taskType] = h }
func (f *fakeQueueServer) Run(context.Context) error                { return nil }
func (f *fakeQueueServer) Stop(context.Context) error               { return nil }

type fakeQueueClient struct {
	tasks []qport.Task
	opts  []qport.EnqueueOption
}

func (f *fakeQueueClient) Enqueue(_ context.Context, t qport.Task, opts ...qport.EnqueueOption) (string, error) {
	f.tasks = append(f.tasks, t)
	f.opts = append(f.opts, opts...)
	return "task-id", nil
}

func (f *fakeQueueClient) Close() error { return nil }

type fakeSubscriber struct {
	id   string
	recv [][]byte
}

func (s *fakeSubscriber) ID() string { return s.id }

func (s *fakeSubscriber) Send(payload []byte) error {
	s.recv = append(s.recv, payload)
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestEnqueueConversationEvent(t *testing.T) {
	req := require.New(t)
	client := &fakeQueueClient{}

	req.NoError(EnqueueConversationEvent(context.Background(), client, "conv-1", ActionAdd))

	req.Len(client.tasks, 1)
	req.Equal(ConversationEventTaskType, client.tasks[0].Type)
	req.Len(client.opts, 1)
	req.Equal("events", client.opts[0].Queue)

	var p ConversationEventPayload
	req.NoError(json.Unmarshal(client.tasks[0].Payload, &p))
	req.Equal("conv-1", p.ID)
	req.Equal(ActionAdd, p.Action)
}

func TestConversationEventFansOutToSubscribers(t *testing.T) {
	req := require.New(t)
	srv := newFakeQueueServer()
	hub := realtime.NewHub()

	sub := &fakeSubscriber{id: "s1"}
	hub.Join(chat.ConversationListGroup, sub)

	RegisterConversationEventTask(srv, hub, testLogger())
	handler, ok := srv.handlers[ConversationEventTaskType]
	req.True(ok)

	payload, err := json.Marshal(ConversationEventPayload{ID: "conv-1", Action: ActionRemove})
	req.NoError(err)
	req.NoError(handler(context.Background(), qport.Task{Type: ConversationEventTaskType, Payload: payload}))

	req.Len(sub.recv, 1)
	var frame map[string]string
	req.NoError(json.Unmarshal(sub.recv[0], &frame))
	req.Equal("remove_conversation", frame["type"])
	req.Equal("conv-1", frame["id"])
}

func TestConversationEventDropsBadPayloads(t *testing.T) {
	req := require.New(t)
	srv := newFakeQueueServer()
	hub := realtime.NewHub()

	sub := &fakeSubscriber{id: "s1"}
	hub.Join(chat.ConversationListGroup, sub)

	RegisterConversationEventTask(srv, hub, testLogger())
	handler := srv.handlers[ConversationEventTaskType]

	// Malformed JSON and unknown actions are dropped, not retried.
	req.NoError(handler(context.Background(), qport.Task{Payload: []byte("{")}))

	payload, _ := json.Marshal(ConversationEventPayload{ID: "conv-1", Action: "rename"})
	req.NoError(handler(context.Background(), qport.Task{Payload: payload}))

	req.Empty(sub.recv)
}
