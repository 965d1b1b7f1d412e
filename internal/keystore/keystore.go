// Package keystore stores API keys in the OS secure-credential facility
// (macOS Keychain, Windows Credential Manager, Linux Secret Service), keyed
// by service name and account email. When the facility is unavailable, the
// Fallback decorator degrades to a plaintext field inside the session file.
package keystore

import (
	"context"
	"errors"
)

// ServiceName is the credential-facility service under which all Avocavo
// keys are stored.
const ServiceName = "avocavo-nutrition"

// ErrNotFound reports that no key is stored for the given email.
var ErrNotFound = errors.New("api key not found")

// Store persists API keys by account email.
//
// Implementations return errors rather than swallowing them; the auth flow
// decides which storage failures are fatal (none are, by policy).
type Store interface {
	// Set stores the API key for email, overwriting any previous value.
	Set(ctx context.Context, email, apiKey string) error

	// Get returns the stored API key for email, or ErrNotFound.
	Get(ctx context.Context, email string) (string, error)

	// Delete removes the stored key. Deleting an absent key is not an error.
	Delete(ctx context.Context, email string) error
}
