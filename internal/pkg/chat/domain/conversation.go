package chat

import "time"

// Conversation is the durable room entity. Participant membership lives in
// the durable store and is independent of transient presence.
type Conversation struct {
	ID        string    `db:"id" json:"id"`
	Title     *string   `db:"title" json:"title"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// DisplayTitle falls back to a short id when no title was given.
func (c Conversation) DisplayTitle() string {
	if c.Title != nil && *c.Title != "" {
		return *c.Title
	}
	if len(c.ID) >= 8 {
		return "conversation " + c.ID[:8]
	}
	return "conversation " + c.ID
}

// GroupName is the broadcast group carrying one conversation's traffic.
func GroupName(conversationID string) string {
	return "chat_" + conversationID
}

// ConversationListGroup carries add/remove notifications for the
// conversation list, independent of any single conversation.
const ConversationListGroup = "conversations"
