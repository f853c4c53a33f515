package messages

import (
	"context"
	"fmt"
	"time"

	"github.com/pr-poehali-dev/onlimess/internal/common"
)

// Service implements message operations for one sender or reader at a time.
type Service struct {
	repo Repository

	// now is a clock seam for tests.
	now func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// List returns every message the address has sent or received, ordered by
// timestamp then ID.
func (s *Service) List(ctx context.Context, email string) ([]Message, error) {
	return s.repo.ListInvolving(ctx, email)
}

// Send stores a new message. The sender's timestamp is kept when provided
// so the conversation order matches what the sender saw; a zero timestamp
// takes the server clock.
func (s *Service) Send(ctx context.Context, from, to, text string, timestamp int64) (*Message, error) {
	if text == "" {
		return nil, fmt.Errorf("%w: empty message", common.ErrValidation)
	}
	if !common.ValidEmail(to) {
		return nil, fmt.Errorf("%w: recipient must end with %s", common.ErrValidation, common.ReservedDomain)
	}
	if timestamp <= 0 {
		timestamp = s.now().UnixMilli()
	}

	return s.repo.Create(ctx, &Message{From: from, To: to, Text: text, Timestamp: timestamp})
}

// DeleteConversation removes every message between the owner and the given
// address, in both directions.
func (s *Service) DeleteConversation(ctx context.Context, ownerEmail, withEmail string) error {
	return s.repo.DeleteBetween(ctx, ownerEmail, withEmail)
}
