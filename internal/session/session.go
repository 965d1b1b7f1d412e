// Package session persists the logged-in user's identity metadata in a JSON
// file under the per-user config directory (~/.avocavo/config.json). The file
// is not a credential store: the API key lives in the OS keyring. The one
// exception is the api_key_fallback field, written only when the keyring is
// unavailable (see internal/keystore).
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const (
	configDirName  = ".avocavo"
	configFileName = "config.json"
)

// Session describes the locally persisted identity of the logged-in user.
type Session struct {
	Email      string `json:"email,omitempty"`
	UserID     int    `json:"user_id,omitempty"`
	APITier    string `json:"api_tier,omitempty"`
	LoggedInAt string `json:"logged_in_at,omitempty"`

	// APIKeyFallback holds the raw API key only when the OS keyring write
	// failed at login time. Plaintext on disk, accepted availability
	// tradeoff inherited from the service design.
	APIKeyFallback string `json:"api_key_fallback,omitempty"`
}

// FileStore reads and writes the session file.
type FileStore struct {
	path string
}

// NewFileStore returns a store rooted at dir. An empty dir selects the
// per-user default, ~/.avocavo.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		dir = filepath.Join(home, configDirName)
	}
	return &FileStore{path: filepath.Join(dir, configFileName)}, nil
}

// Path returns the location of the session file.
func (s *FileStore) Path() string { return s.path }

// Save serializes sess as indented JSON, creating the config directory if
// needed. An existing fallback key in the file is preserved unless sess
// carries its own, so saving a fresh session after a degraded key write does
// not drop the only copy of the key.
func (s *FileStore) Save(sess *Session) error {
	out := *sess
	if out.APIKeyFallback == "" {
		if cur := s.Load(); cur != nil {
			out.APIKeyFallback = cur.APIKeyFallback
		}
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := json.MarshalIndent(&out, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

// Load returns the persisted session, or nil if the file is missing,
// unreadable, or not valid JSON. All three collapse to "no session".
func (s *FileStore) Load() *Session {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil
	}
	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil
	}
	return &sess
}

// Clear deletes the session file. Deleting an absent file is not an error.
func (s *FileStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove session: %w", err)
	}
	return nil
}

// SetFallbackKey merges the raw API key into the session file, keeping
// whatever identity fields are already there.
func (s *FileStore) SetFallbackKey(key string) error {
	sess := s.Load()
	if sess == nil {
		sess = &Session{}
	}
	sess.APIKeyFallback = key
	return s.Save(sess)
}

// FallbackKey returns the fallback API key from the session file, or "".
func (s *FileStore) FallbackKey() string {
	if sess := s.Load(); sess != nil {
		return sess.APIKeyFallback
	}
	return ""
}
