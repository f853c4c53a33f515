package messages

import (
	"context"
	"sort"
	"sync"
)

// InMemoryRepository keeps all messages in one slice, assigning IDs from a
// counter. Used when the server runs without a database and in tests.
type InMemoryRepository struct {
	mu     sync.RWMutex
	nextID int64
	msgs   []Message
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{nextID: 1}
}

func (r *InMemoryRepository) ListInvolving(_ context.Context, email string) ([]Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []Message
	for _, m := range r.msgs {
		if m.From == email || m.To == email {
			result = append(result, m)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Timestamp != result[j].Timestamp {
			return result[i].Timestamp < result[j].Timestamp
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

func (r *InMemoryRepository) Create(_ context.Context, msg *Message) (*Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	msg.ID = r.nextID
	r.nextID++
	r.msgs = append(r.msgs, *msg)
	return msg, nil
}

func (r *InMemoryRepository) DeleteBetween(_ context.Context, a, b string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.msgs[:0]
	for _, m := range r.msgs {
		between := (m.From == a && m.To == b) || (m.From == b && m.To == a)
		if !between {
			kept = append(kept, m)
		}
	}
	r.msgs = kept
	return nil
}
