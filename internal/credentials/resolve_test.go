package credentials

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"

	"github.com/avocavo/nutrition-go/internal/keystore"
	"github.com/avocavo/nutrition-go/internal/session"
)

func setup(t *testing.T) (*session.FileStore, keystore.Store) {
	t.Helper()
	keyring.MockInit()
	sessions, err := session.NewFileStore(t.TempDir())
	require.NoError(t, err)
	return sessions, keystore.NewKeyring()
}

func TestResolve_SessionKeyWinsOverEnv(t *testing.T) {
	ctx := context.Background()
	sessions, keys := setup(t)

	require.NoError(t, sessions.Save(&session.Session{Email: "user@example.com"}))
	require.NoError(t, keys.Set(ctx, "user@example.com", "avc_session_key"))
	t.Setenv(EnvAPIKey, "avc_env_key")

	require.Equal(t, "avc_session_key", Resolve(ctx, sessions, keys))
}

func TestResolve_EnvWhenNoSession(t *testing.T) {
	ctx := context.Background()
	sessions, keys := setup(t)

	t.Setenv(EnvAPIKey, "avc_env_key")

	require.Equal(t, "avc_env_key", Resolve(ctx, sessions, keys))
}

func TestResolve_EnvWhenSessionKeyMissing(t *testing.T) {
	ctx := context.Background()
	sessions, keys := setup(t)

	// session exists but its key was removed from the keyring
	require.NoError(t, sessions.Save(&session.Session{Email: "user@example.com"}))
	t.Setenv(EnvAPIKey, "avc_env_key")

	require.Equal(t, "avc_env_key", Resolve(ctx, sessions, keys))
}

func TestResolve_NothingAvailable_Empty(t *testing.T) {
	ctx := context.Background()
	sessions, keys := setup(t)

	t.Setenv(EnvAPIKey, "")

	require.Empty(t, Resolve(ctx, sessions, keys))
}
