package contacts

import "context"

type Repository interface {
	ListByOwner(ctx context.Context, ownerEmail string) ([]Contact, error)
	Create(ctx context.Context, contact *Contact) error
	UpdateName(ctx context.Context, ownerEmail, email, displayName string) error
	Delete(ctx context.Context, ownerEmail, email string) error
}
