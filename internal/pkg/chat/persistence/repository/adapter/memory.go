package adapter

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	chat "go-parley/internal/pkg/chat/domain"
	repository "go-parley/internal/pkg/chat/persistence/repository/port"
)

// In-memory doubles for the durable side. They back tests and single-node
// development runs; the fast-store doubles live in the cache adapter
// package since the cache repositories are generic over the cache port.

// MemoryMessageArchive keeps durable history in process memory, ordered by
// timestamp on read like the SQL adapter.
type MemoryMessageArchive struct {
	mu   sync.RWMutex
	byID map[string][]chat.Message
}

func NewMemoryMessageArchive() *MemoryMessageArchive {
	return &MemoryMessageArchive{byID: make(map[string][]chat.Message)}
}

var _ repository.MessageArchive = (*MemoryMessageArchive)(nil)

func (r *MemoryMessageArchive) PushMessage(_ context.Context, conversationID string, m chat.Message) error {
	if _, err := m.SentAt(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[conversationID] = append(r.byID[conversationID], m)
	return nil
}

func (r *MemoryMessageArchive) GetMessages(_ context.Context, conversationID string) ([]chat.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	src := r.byID[conversationID]
	out := make([]chat.Message, len(src))
	copy(out, src)
	sort.SliceStable(out, func(i, j int) bool {
		a, errA := out[i].SentAt()
		b, errB := out[j].SentAt()
		if errA != nil || errB != nil {
			return false
		}
		return a.Before(b)
	})
	return out, nil
}

// MemoryConversationRepository is the in-process conversation store.
type MemoryConversationRepository struct {
	mu           sync.RWMutex
	convs        map[string]chat.Conversation
	participants map[string]map[string]struct{}
	order        []string
}

func NewMemoryConversationRepository() *MemoryConversationRepository {
	return &MemoryConversationRepository{
		convs:        make(map[string]chat.Conversation),
		participants: make(map[string]map[string]struct{}),
	}
}

var _ repository.ConversationRepository = (*MemoryConversationRepository)(nil)

func (r *MemoryConversationRepository) Create(_ context.Context, title string) (chat.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	conv := chat.Conversation{ID: uuid.NewString(), CreatedAt: time.Now().UTC()}
	if title != "" {
		conv.Title = &title
	}
	r.convs[conv.ID] = conv
	r.participants[conv.ID] = make(map[string]struct{})
	r.order = append(r.order, conv.ID)
	return conv, nil
}

func (r *MemoryConversationRepository) Get(_ context.Context, id string) (chat.Conversation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	conv, ok := r.convs[id]
	if !ok {
		return chat.Conversation{}, fmt.Errorf("%w: %s", chat.ErrNotFound, id)
	}
	return conv, nil
}

func (r *MemoryConversationRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.convs[id]; !ok {
		return fmt.Errorf("%w: %s", chat.ErrNotFound, id)
	}
	delete(r.convs, id)
	delete(r.participants, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *MemoryConversationRepository) List(_ context.Context) ([]chat.Conversation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]chat.Conversation, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.convs[id])
	}
	return out, nil
}

func (r *MemoryConversationRepository) AddParticipant(_ context.Context, conversationID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	members, ok := r.participants[conversationID]
	if !ok {
		return fmt.Errorf("%w: %s", chat.ErrNotFound, conversationID)
	}
	members[userID] = struct{}{}
	return nil
}

func (r *MemoryConversationRepository) RemoveParticipant(_ context.Context, conversationID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	members, ok := r.participants[conversationID]
	if !ok {
		return fmt.Errorf("%w: %s", chat.ErrNotFound, conversationID)
	}
	delete(members, userID)
	return nil
}

func (r *MemoryConversationRepository) ListParticipantIDs(_ context.Context, conversationID string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	members := r.participants[conversationID]
	out := make([]string, 0, len(members))
	for id := range members {
		out = append(out, id)
	}
	sort.Strings(out)
	return out, nil
}

// MemoryUserDirectory resolves profiles seeded through Add.
type MemoryUserDirectory struct {
	mu    sync.RWMutex
	users map[string]chat.UserProfile
}

func NewMemoryUserDirectory() *MemoryUserDirectory {
	return &MemoryUserDirectory{users: make(map[string]chat.UserProfile)}
}

var _ repository.UserDirectory = (*MemoryUserDirectory)(nil)

func (r *MemoryUserDirectory) Add(u chat.UserProfile) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[u.ID] = u
}

func (r *MemoryUserDirectory) FindByID(_ context.Context, id string) (chat.UserProfile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return chat.UserProfile{}, fmt.Errorf("%w: user %s", chat.ErrNotFound, id)
	}
	return u, nil
}

func (r *MemoryUserDirectory) FindByIDs(_ context.Context, ids []string) ([]chat.UserProfile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]chat.UserProfile, 0, len(ids))
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}
