// Package credentials resolves the API key a client should use.
package credentials

import (
	"context"
	"os"

	"github.com/avocavo/nutrition-go/internal/keystore"
	"github.com/avocavo/nutrition-go/internal/logging"
	"github.com/avocavo/nutrition-go/internal/session"
)

// EnvAPIKey is the out-of-band key source for non-interactive use.
const EnvAPIKey = "AVOCAVO_API_KEY"

// Resolve returns the active API key. Precedence: the logged-in session's
// stored key first, then the AVOCAVO_API_KEY environment variable. An empty
// string means no key is available.
func Resolve(ctx context.Context, sessions *session.FileStore, keys keystore.Store) string {
	if sess := sessions.Load(); sess != nil && sess.Email != "" {
		if key, err := keys.Get(ctx, sess.Email); err == nil && key != "" {
			return key
		}
	}
	return os.Getenv(EnvAPIKey)
}

// ResolveDefault resolves against the default session file and OS keyring.
func ResolveDefault(ctx context.Context) string {
	sessions, err := session.NewFileStore("")
	if err != nil {
		return os.Getenv(EnvAPIKey)
	}
	keys := keystore.NewFallback(keystore.NewKeyring(), sessions, logging.Discard())
	return Resolve(ctx, sessions, keys)
}
