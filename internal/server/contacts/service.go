package contacts

import (
	"context"
	"errors"
	"fmt"

	"github.com/pr-poehali-dev/onlimess/internal/common"
)

// NameResolver looks up the registered display name for an address. The
// users service implements it.
type NameResolver interface {
	DisplayNameByEmail(ctx context.Context, email string) (string, error)
}

// Service implements address-book operations for one owner at a time.
type Service struct {
	repo     Repository
	resolver NameResolver
}

func NewService(repo Repository, resolver NameResolver) *Service {
	return &Service{repo: repo, resolver: resolver}
}

// List returns the owner's address book ordered by alias.
func (s *Service) List(ctx context.Context, ownerEmail string) ([]Contact, error) {
	return s.repo.ListByOwner(ctx, ownerEmail)
}

// Add inserts a new entry. An empty alias defaults to the registered display
// name of the address, falling back to the address itself when it belongs
// to no account yet.
func (s *Service) Add(ctx context.Context, ownerEmail, email, displayName string) (*Contact, error) {
	if !common.ValidEmail(email) {
		return nil, fmt.Errorf("%w: address must end with %s", common.ErrValidation, common.ReservedDomain)
	}
	if email == ownerEmail {
		return nil, fmt.Errorf("%w: cannot add yourself", common.ErrValidation)
	}

	if displayName == "" {
		name, err := s.resolver.DisplayNameByEmail(ctx, email)
		switch {
		case err == nil:
			displayName = name
		case errors.Is(err, common.ErrNotFound):
			displayName = email
		default:
			return nil, err
		}
	}

	contact := &Contact{OwnerEmail: ownerEmail, Email: email, DisplayName: displayName}
	if err := s.repo.Create(ctx, contact); err != nil {
		return nil, err
	}
	return contact, nil
}

// Rename changes the alias of an existing entry. A blank alias is a no-op,
// matching the edit flow where an empty submit keeps the old name.
func (s *Service) Rename(ctx context.Context, ownerEmail, email, displayName string) error {
	if displayName == "" {
		return nil
	}
	return s.repo.UpdateName(ctx, ownerEmail, email, displayName)
}

// Remove deletes an entry from the owner's book.
func (s *Service) Remove(ctx context.Context, ownerEmail, email string) error {
	return s.repo.Delete(ctx, ownerEmail, email)
}
