package realtime

import (
	"sync"
)

// Session is the minimal view of a connected client the hub needs.
// *Connection satisfies it; tests supply in-memory fakes.
type Session interface {
	ID() string
	Send(payload []byte) error
}

// Hub multiplexes named broadcast groups. A payload sent to a group is
// delivered to every session currently joined under that name; sessions
// joined later receive nothing retroactively. Join and leave are
// independent of message delivery.
type Hub struct {
	mu     sync.RWMutex
	groups map[string]map[string]Session // group name -> sessionID -> session
}

// NewHub constructs an initialized Hub.
func NewHub() *Hub {
	return &Hub{groups: make(map[string]map[string]Session)}
}

// Join adds the session to the named group.
func (h *Hub) Join(group string, s Session) {
	h.mu.Lock()
	members := h.groups[group]
	if members == nil {
		members = make(map[string]Session)
		h.groups[group] = members
	}
	members[s.ID()] = s
	h.mu.Unlock()
}

// Leave removes the session from the named group. Empty groups are dropped
// so the registry does not accumulate dead names.
func (h *Hub) Leave(group string, s Session) {
	h.mu.Lock()
	members := h.groups[group]
	delete(members, s.ID())
	if len(members) == 0 {
		delete(h.groups, group)
	}
	h.mu.Unlock()
}

// Broadcast writes payload to every member of the group and returns the
// number of successful deliveries. Send never blocks the hub: sessions
// buffer outbound writes themselves.
func (h *Hub) Broadcast(group string, payload []byte) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered := 0
	for _, s := range h.groups[group] {
		if err := s.Send(payload); err == nil {
			delivered++
		}
	}
	return delivered
}

// Members reports how many sessions are currently joined to the group.
func (h *Hub) Members(group string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.groups[group])
}

// Groups reports the number of live groups. Used by health reporting.
func (h *Hub) Groups() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.groups)
}
