package chat

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewMessageNormalizesToUTC(t *testing.T) {
	req := require.New(t)

	loc := time.FixedZone("CET", 3600)
	at := time.Date(2025, 3, 14, 10, 30, 0, 123456789, loc)

	m := NewMessage("user-1", "hello", at)
	req.Equal("user-1", m.Sender)
	req.Equal("hello", m.Text)

	parsed, err := m.SentAt()
	req.NoError(err)
	req.True(parsed.Equal(at))
	req.Equal(time.UTC, parsed.Location())
}

func TestMessageValidate(t *testing.T) {
	req := require.New(t)
	now := time.Now()

	req.NoError(NewMessage("u", "hi", now).Validate())

	cases := []Message{
		{Sender: "", Text: "hi", Timestamp: "2025-01-01T00:00:00Z"},
		{Sender: "u", Text: "", Timestamp: "2025-01-01T00:00:00Z"},
		{Sender: "u", Text: "   ", Timestamp: "2025-01-01T00:00:00Z"},
		{Sender: "u", Text: "hi", Timestamp: ""},
	}
	for _, m := range cases {
		err := m.Validate()
		req.ErrorIs(err, ErrValidation)
	}
}

func TestParseTimestampAcceptsNaiveLayouts(t *testing.T) {
	req := require.New(t)

	parsed, err := ParseTimestamp("2025-01-02T15:04:05")
	req.NoError(err)
	req.Equal(time.Date(2025, 1, 2, 15, 4, 5, 0, time.UTC), parsed)

	parsed, err = ParseTimestamp("2025-01-02T15:04:05.123456")
	req.NoError(err)
	req.Equal(time.Date(2025, 1, 2, 15, 4, 5, 123456000, time.UTC), parsed)

	_, err = ParseTimestamp("not a timestamp")
	req.ErrorIs(err, ErrValidation)
}
