package contacts

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/pr-poehali-dev/onlimess/internal/common"
)

// InMemoryRepository keeps address books in memory, keyed by owner.
type InMemoryRepository struct {
	mu    sync.RWMutex
	books map[string]map[string]Contact
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{books: make(map[string]map[string]Contact)}
}

func (r *InMemoryRepository) ListByOwner(_ context.Context, ownerEmail string) ([]Contact, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	book := r.books[ownerEmail]
	result := make([]Contact, 0, len(book))
	for _, c := range book {
		result = append(result, c)
	}
	sort.Slice(result, func(i, j int) bool {
		a, b := strings.ToLower(result[i].DisplayName), strings.ToLower(result[j].DisplayName)
		if a != b {
			return a < b
		}
		return result[i].Email < result[j].Email
	})
	return result, nil
}

func (r *InMemoryRepository) Create(_ context.Context, contact *Contact) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	book, ok := r.books[contact.OwnerEmail]
	if !ok {
		book = make(map[string]Contact)
		r.books[contact.OwnerEmail] = book
	}
	if _, ok := book[contact.Email]; ok {
		return common.ErrAlreadyExists
	}
	book[contact.Email] = *contact
	return nil
}

func (r *InMemoryRepository) UpdateName(_ context.Context, ownerEmail, email, displayName string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	book := r.books[ownerEmail]
	c, ok := book[email]
	if !ok {
		return common.ErrNotFound
	}
	c.DisplayName = displayName
	book[email] = c
	return nil
}

func (r *InMemoryRepository) Delete(_ context.Context, ownerEmail, email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	book := r.books[ownerEmail]
	if _, ok := book[email]; !ok {
		return common.ErrNotFound
	}
	delete(book, email)
	return nil
}
