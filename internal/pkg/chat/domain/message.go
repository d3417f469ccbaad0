package chat

import (
	"fmt"
	"strings"
	"time"
)

// Message is one immutable chat entry. The timestamp travels as an
// ISO-8601 string so the wire shape, the cache payload and the durable
// row all agree on the same representation.
type Message struct {
	Sender    string `json:"sender"`
	Text      string `json:"text"`
	Timestamp string `json:"timestamp"`
}

// NewMessage stamps a message with the given send time, normalized to UTC.
func NewMessage(sender string, text string, at time.Time) Message {
	return Message{
		Sender:    sender,
		Text:      text,
		Timestamp: at.UTC().Format(time.RFC3339Nano),
	}
}

// Validate reports whether the message carries all required fields.
func (m Message) Validate() error {
	if m.Sender == "" || strings.TrimSpace(m.Text) == "" || m.Timestamp == "" {
		return fmt.Errorf("%w: sender, text and timestamp are required", ErrValidation)
	}
	return nil
}

// SentAt parses the message timestamp. See ParseTimestamp.
func (m Message) SentAt() (time.Time, error) {
	return ParseTimestamp(m.Timestamp)
}

// Layouts accepted for timestamps that were written without a UTC offset.
// Values parsed through these are taken as UTC.
var naiveLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
}

// ParseTimestamp interprets an ISO-8601 timestamp. Offset-less values are
// assumed to be UTC rather than rejected, since older cache payloads carry
// them.
func ParseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	for _, layout := range naiveLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: malformed timestamp %q", ErrValidation, s)
}
