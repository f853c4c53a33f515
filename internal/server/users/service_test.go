package users

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pr-poehali-dev/onlimess/internal/common"
	"github.com/pr-poehali-dev/onlimess/internal/server/auth"
)

func newService(t *testing.T) *Service {
	t.Helper()
	return NewService(NewInMemoryRepository(), auth.NewHasher(4), []byte("test-secret"), time.Hour)
}

func TestLogin(t *testing.T) {
	s := newService(t)
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, "alice", "pw"))

	user, token, err := s.Login(ctx, "alice", "pw")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.Equal(t, "alice", user.Username)
	require.False(t, user.HasLoggedIn)

	_, _, err = s.Login(ctx, "alice", "wrong")
	require.ErrorIs(t, err, common.ErrInvalidCredentials)

	_, _, err = s.Login(ctx, "nobody", "pw")
	require.ErrorIs(t, err, common.ErrInvalidCredentials)
}

func TestLoginFrozen(t *testing.T) {
	s := newService(t)
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, "bob", "pw"))
	_, err := s.ToggleFrozen(ctx, "bob")
	require.NoError(t, err)

	_, _, err = s.Login(ctx, "bob", "pw")
	require.ErrorIs(t, err, common.ErrAccountFrozen)

	// Unfreezing restores access.
	_, err = s.ToggleFrozen(ctx, "bob")
	require.NoError(t, err)
	_, _, err = s.Login(ctx, "bob", "pw")
	require.NoError(t, err)
}

func TestCompleteSetup(t *testing.T) {
	s := newService(t)
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, "alice", "pw"))

	_, _, err := s.CompleteSetup(ctx, "alice", "", "alice@OnliMess")
	require.ErrorIs(t, err, common.ErrValidation)

	_, _, err = s.CompleteSetup(ctx, "alice", "Alice", "alice@gmail.com")
	require.ErrorIs(t, err, common.ErrValidation)

	user, token, err := s.CompleteSetup(ctx, "alice", "Alice", "alice@OnliMess")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.True(t, user.HasLoggedIn)
	require.Equal(t, "alice@OnliMess", user.Email)

	// Setup is one-shot.
	_, _, err = s.CompleteSetup(ctx, "alice", "Alice2", "alice2@OnliMess")
	require.ErrorIs(t, err, common.ErrValidation)
}

func TestCompleteSetupDuplicateEmail(t *testing.T) {
	s := newService(t)
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, "alice", "pw"))
	require.NoError(t, s.Create(ctx, "bob", "pw"))

	_, _, err := s.CompleteSetup(ctx, "alice", "Alice", "shared@OnliMess")
	require.NoError(t, err)

	_, _, err = s.CompleteSetup(ctx, "bob", "Bob", "shared@OnliMess")
	require.ErrorIs(t, err, common.ErrAlreadyExists)
}

func TestCreateDuplicate(t *testing.T) {
	s := newService(t)
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, "alice", "pw"))
	require.ErrorIs(t, s.Create(ctx, "alice", "pw2"), common.ErrAlreadyExists)
	require.ErrorIs(t, s.Create(ctx, "", "pw"), common.ErrValidation)
}

func TestDisplayNameByEmail(t *testing.T) {
	s := newService(t)
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, "alice", "pw"))
	_, _, err := s.CompleteSetup(ctx, "alice", "Alice", "alice@OnliMess")
	require.NoError(t, err)

	name, err := s.DisplayNameByEmail(ctx, "alice@OnliMess")
	require.NoError(t, err)
	require.Equal(t, "Alice", name)

	_, err = s.DisplayNameByEmail(ctx, "ghost@OnliMess")
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestEnsureAdmin(t *testing.T) {
	s := newService(t)
	ctx := context.Background()

	require.NoError(t, s.EnsureAdmin(ctx, "skzry", "root-pw", "admin@OnliMess", "Administrator"))

	user, token, err := s.Login(ctx, "skzry", "root-pw")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.True(t, user.IsAdmin)
	require.True(t, user.HasLoggedIn)

	// A non-empty store is left untouched.
	require.NoError(t, s.EnsureAdmin(ctx, "other", "pw", "o@OnliMess", "Other"))
	_, err = s.Get(ctx, "other")
	require.ErrorIs(t, err, common.ErrNotFound)
}
