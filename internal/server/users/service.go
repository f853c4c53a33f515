package users

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pr-poehali-dev/onlimess/internal/common"
	"github.com/pr-poehali-dev/onlimess/internal/server/auth"
)

// Service implements account operations: credential checks, first-login
// profile setup, and the admin roster actions.
type Service struct {
	repo     Repository
	hasher   *auth.Hasher
	secret   []byte
	tokenTTL time.Duration
}

func NewService(repo Repository, hasher *auth.Hasher, secret []byte, tokenTTL time.Duration) *Service {
	return &Service{repo: repo, hasher: hasher, secret: secret, tokenTTL: tokenTTL}
}

// Login verifies credentials and mints an access token. Unknown usernames
// and wrong passwords are indistinguishable to the caller. Frozen accounts
// cannot start new sessions.
func (s *Service) Login(ctx context.Context, username, password string) (*User, string, error) {
	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, "", common.ErrInvalidCredentials
		}
		return nil, "", common.ErrInternal
	}
	if !s.hasher.Verify(user.PasswordHash, password) {
		return nil, "", common.ErrInvalidCredentials
	}
	if user.IsFrozen {
		return nil, "", common.ErrAccountFrozen
	}

	token, err := auth.GenerateToken(user.Username, user.IsAdmin, s.secret, s.tokenTTL)
	if err != nil {
		return nil, "", fmt.Errorf("issuing token: %w", err)
	}
	return user, token, nil
}

// CompleteSetup assigns the display name and permanent email address on an
// account's first login. It runs at most once per account and returns a
// fresh token for the completed profile.
func (s *Service) CompleteSetup(ctx context.Context, username, displayName, email string) (*User, string, error) {
	if displayName == "" || email == "" {
		return nil, "", fmt.Errorf("%w: display name and email required", common.ErrValidation)
	}
	if !common.ValidEmail(email) {
		return nil, "", fmt.Errorf("%w: email must end with %s", common.ErrValidation, common.ReservedDomain)
	}

	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return nil, "", err
	}
	if user.HasLoggedIn {
		return nil, "", fmt.Errorf("%w: profile setup already completed", common.ErrValidation)
	}

	user.DisplayName = displayName
	user.Email = email
	user.HasLoggedIn = true
	if err := s.repo.Update(ctx, user); err != nil {
		if errors.Is(err, common.ErrAlreadyExists) {
			return nil, "", fmt.Errorf("%w: email already taken", common.ErrAlreadyExists)
		}
		return nil, "", err
	}

	token, err := auth.GenerateToken(user.Username, user.IsAdmin, s.secret, s.tokenTTL)
	if err != nil {
		return nil, "", fmt.Errorf("issuing token: %w", err)
	}
	return user, token, nil
}

// Get returns the account for a username.
func (s *Service) Get(ctx context.Context, username string) (*User, error) {
	return s.repo.GetByUsername(ctx, username)
}

// Create registers a new account with empty profile fields. The account
// enters first-login setup on its first successful login.
func (s *Service) Create(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return fmt.Errorf("%w: username and password required", common.ErrValidation)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrInternal, err)
	}

	return s.repo.Create(ctx, &User{Username: username, PasswordHash: hash})
}

// ToggleFrozen flips the frozen flag on an account and returns the updated
// record.
func (s *Service) ToggleFrozen(ctx context.Context, username string) (*User, error) {
	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	user.IsFrozen = !user.IsFrozen
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// List returns all accounts ordered by username.
func (s *Service) List(ctx context.Context) ([]User, error) {
	return s.repo.List(ctx)
}

// DisplayNameByEmail resolves the registered display name for an email
// address, used as the default alias when a contact is added without one.
func (s *Service) DisplayNameByEmail(ctx context.Context, email string) (string, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if user.DisplayName == "" {
		return user.Username, nil
	}
	return user.DisplayName, nil
}

// EnsureAdmin seeds the bootstrap administrator into an empty store. The
// seeded account skips first-login setup so the roster actions are usable
// immediately.
func (s *Service) EnsureAdmin(ctx context.Context, username, password, email, displayName string) error {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	if password == "" {
		return fmt.Errorf("%w: bootstrap admin password not configured", common.ErrValidation)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrInternal, err)
	}

	return s.repo.Create(ctx, &User{
		Username:     username,
		PasswordHash: hash,
		Email:        email,
		DisplayName:  displayName,
		IsAdmin:      true,
		HasLoggedIn:  true,
	})
}
