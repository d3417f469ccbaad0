package realtime

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeSession struct {
	id      string
	recv    [][]byte
	sendErr error
}

func (s *fakeSession) ID() string { return s.id }

func (s *fakeSession) Send(payload []byte) error {
	if s.sendErr != nil {
		return s.sendErr
	}
	s.recv = append(s.recv, payload)
	return nil
}

func TestHubJoinBroadcastLeave(t *testing.T) {
	req := require.New(t)
	hub := NewHub()

	a := &fakeSession{id: "a"}
	b := &fakeSession{id: "b"}
	outsider := &fakeSession{id: "c"}

	hub.Join("room", a)
	hub.Join("room", b)
	hub.Join("other", outsider)

	delivered := hub.Broadcast("room", []byte("hello"))
	req.Equal(2, delivered)
	req.Len(a.recv, 1)
	req.Len(b.recv, 1)
	req.Empty(outsider.recv)

	hub.Leave("room", a)
	delivered = hub.Broadcast("room", []byte("again"))
	req.Equal(1, delivered)
	req.Len(a.recv, 1)
	req.Len(b.recv, 2)
}

func TestHubDropsEmptyGroups(t *testing.T) {
	req := require.New(t)
	hub := NewHub()

	s := &fakeSession{id: "a"}
	hub.Join("room", s)
	req.Equal(1, hub.Groups())
	req.Equal(1, hub.Members("room"))

	hub.Leave("room", s)
	req.Equal(0, hub.Groups())
	req.Equal(0, hub.Members("room"))
}

func TestHubBroadcastCountsOnlySuccessfulSends(t *testing.T) {
	req := require.New(t)
	hub := NewHub()

	ok := &fakeSession{id: "ok"}
	broken := &fakeSession{id: "broken", sendErr: errors.New("buffer full")}
	hub.Join("room", ok)
	hub.Join("room", broken)

	req.Equal(1, hub.Broadcast("room", []byte("hello")))
}

func TestHubBroadcastToUnknownGroup(t *testing.T) {
	require.Equal(t, 0, NewHub().Broadcast("missing", []byte("hello")))
}
