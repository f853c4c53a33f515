package users

import (
	"context"
	"sort"
	"sync"

	"github.com/pr-poehali-dev/onlimess/internal/common"
)

// InMemoryRepository keeps accounts in a map. Used when the server runs
// without a database and in service tests.
type InMemoryRepository struct {
	mu    sync.RWMutex
	users map[string]User
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{users: make(map[string]User)}
}

func (r *InMemoryRepository) Create(_ context.Context, user *User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.Username]; ok {
		return common.ErrAlreadyExists
	}
	if user.Email != "" && r.emailTaken(user.Email, user.Username) {
		return common.ErrAlreadyExists
	}
	r.users[user.Username] = *user
	return nil
}

func (r *InMemoryRepository) GetByUsername(_ context.Context, username string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[username]
	if !ok {
		return nil, common.ErrNotFound
	}
	return &user, nil
}

func (r *InMemoryRepository) GetByEmail(_ context.Context, email string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.users {
		if user.Email != "" && user.Email == email {
			u := user
			return &u, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *InMemoryRepository) Update(_ context.Context, user *User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.Username]; !ok {
		return common.ErrNotFound
	}
	if user.Email != "" && r.emailTaken(user.Email, user.Username) {
		return common.ErrAlreadyExists
	}
	r.users[user.Username] = *user
	return nil
}

func (r *InMemoryRepository) List(_ context.Context) ([]User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]User, 0, len(r.users))
	for _, user := range r.users {
		result = append(result, user)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Username < result[j].Username })
	return result, nil
}

func (r *InMemoryRepository) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.users)), nil
}

// emailTaken is called with r.mu held.
func (r *InMemoryRepository) emailTaken(email, exceptUsername string) bool {
	for _, user := range r.users {
		if user.Username != exceptUsername && user.Email == email {
			return true
		}
	}
	return false
}
