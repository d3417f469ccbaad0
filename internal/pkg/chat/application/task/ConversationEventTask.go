package task

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	qport "go-parley/internal/infrastructure/queue/port"
	"go-parley/internal/infrastructure/realtime"
	chat "go-parley/internal/pkg/chat/domain"
)

// ConversationEventTaskType is the queue task name for conversation-list
// change notifications emitted by the CRUD layer.
const ConversationEventTaskType = "conversation:event"

// Actions carried in the payload.
const (
	ActionAdd    = "add"
	ActionRemove = "remove"
)

// ConversationEventPayload is the JSON payload transported via the queue.
type ConversationEventPayload struct {
	ID     string `json:"id"`
	Action string `json:"action"`
}

// conversationListFrame is what subscribers of the conversation-list group
// receive.
type conversationListFrame struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

// EnqueueConversationEvent publishes a create/delete notification. Best
// effort from the caller's point of view; the queue retries delivery.
func EnqueueConversationEvent(ctx context.Context, client qport.Client, conversationID, action string) error {
	payload, err := json.Marshal(ConversationEventPayload{ID: conversationID, Action: action})
	if err != nil {
		return err
	}
	_, err = client.Enqueue(ctx, qport.Task{Type: ConversationEventTaskType, Payload: payload},
		qport.EnqueueOption{Queue: "events", MaxRetry: 3})
	return err
}

// RegisterConversationEventTask binds the worker that fans the event out to
// every session joined to the conversation-list group.
func RegisterConversationEventTask(srv qport.Server, hub *realtime.Hub, log *slog.Logger) {
	srv.Register(ConversationEventTaskType, func(ctx context.Context, t qport.Task) error {
		var p ConversationEventPayload
		if err := json.Unmarshal(t.Payload, &p); err != nil {
			// malformed payload: retrying will not help
			log.Error("dropping malformed conversation event", "err", err)
			return nil
		}

		var frameType string
		switch p.Action {
		case ActionAdd:
			frameType = "add_conversation"
		case ActionRemove:
			frameType = "remove_conversation"
		default:
			log.Error("dropping conversation event with unknown action", "action", p.Action)
			return nil
		}

		frame, err := json.Marshal(conversationListFrame{Type: frameType, ID: p.ID})
		if err != nil {
			return fmt.Errorf("encode conversation event: %w", err)
		}
		hub.Broadcast(chat.ConversationListGroup, frame)
		return nil
	})
}
