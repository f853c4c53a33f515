// Package api defines the operations the client requires from the identity
// and message store, independent of transport, plus an HTTP implementation.
package api

import (
	"context"

	"github.com/pr-poehali-dev/onlimess/internal/client/models"
)

// Client is the store adapter. The same engine works whether the store is a
// remote service or local durable storage; only this interface matters.
//
// All methods honor context cancellation. Methods other than Login require
// an access token previously installed via Login or SetToken.
type Client interface {
	// Login authenticates and returns the session projection with a fresh
	// access token. Fails with common.ErrInvalidCredentials on no match and
	// common.ErrAccountFrozen when the matched account is frozen.
	Login(ctx context.Context, username, password string) (*models.Session, error)

	// CompleteSetup finishes first-login setup and returns the updated
	// session (the token is reissued because the email changes).
	CompleteSetup(ctx context.Context, displayName, email string) (*models.Session, error)

	// Profile re-reads the authenticated user's record, including the
	// current frozen flag.
	Profile(ctx context.Context) (*models.User, error)

	// Admin operations.
	CreateUser(ctx context.Context, username, password string) error
	ToggleFrozen(ctx context.Context, username string) error
	ListUsers(ctx context.Context) ([]models.RosterEntry, error)

	// Contact operations, scoped to the authenticated owner.
	ListContacts(ctx context.Context) ([]models.Contact, error)
	AddContact(ctx context.Context, email, displayName string) error
	RenameContact(ctx context.Context, email, displayName string) error
	RemoveContact(ctx context.Context, email string) error

	// Message operations, scoped to the authenticated owner.
	ListMessages(ctx context.Context) ([]models.Message, error)
	SendMessage(ctx context.Context, to, text string, timestamp int64) (*models.Message, error)
	DeleteConversation(ctx context.Context, withIdentity string) error

	// SetToken installs a previously persisted access token, used when a
	// restart resumes a stored session without re-login.
	SetToken(token string)

	Close() error
}
