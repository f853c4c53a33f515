package messages

import "context"

type Repository interface {
	ListInvolving(ctx context.Context, email string) ([]Message, error)
	Create(ctx context.Context, msg *Message) (*Message, error)
	DeleteBetween(ctx context.Context, a, b string) error
}
