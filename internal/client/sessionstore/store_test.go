package sessionstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pr-poehali-dev/onlimess/internal/client/models"
	"github.com/pr-poehali-dev/onlimess/internal/common"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), "file:sessionstore?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = s.Clear(context.Background())
		_ = s.Close()
	})
	return s
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	session := &models.Session{
		Username:    "alice",
		Email:       "alice@OnliMess",
		DisplayName: "Alice",
		HasLoggedIn: true,
		AccessToken: "token-1",
	}
	require.NoError(t, s.Save(ctx, session))

	got, err := s.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, session, got)
}

func TestSaveOverwritesPrevious(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, &models.Session{Username: "alice"}))
	require.NoError(t, s.Save(ctx, &models.Session{Username: "bob"}))

	got, err := s.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, "bob", got.Username)
}

func TestLoadEmptyStore(t *testing.T) {
	s := openStore(t)

	_, err := s.Load(context.Background())
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestClear(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, &models.Session{Username: "alice"}))
	require.NoError(t, s.Clear(ctx))

	_, err := s.Load(ctx)
	require.ErrorIs(t, err, common.ErrNotFound)

	require.NoError(t, s.Clear(ctx), "clearing twice is fine")
}
