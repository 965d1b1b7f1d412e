// Package auth manages the login session for the Avocavo nutrition API:
// credential exchange, secure key storage, and local session state.
//
// There is no ambient singleton. Construct a Manager explicitly and share it
// where a process-wide session is wanted:
//
//	mgr, err := auth.NewManager()
//	if err != nil {
//		log.Fatal(err)
//	}
//	result, err := mgr.Login(ctx, "user@example.com", password)
package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/avocavo/nutrition-go/api"
	"github.com/avocavo/nutrition-go/internal/credentials"
	"github.com/avocavo/nutrition-go/internal/keystore"
	"github.com/avocavo/nutrition-go/internal/logging"
	"github.com/avocavo/nutrition-go/internal/session"
)

// Manager orchestrates login, logout, and session resolution. A Session
// without a retrievable key counts as not logged in; both halves live in
// different places (JSON file vs OS keyring) and are reconciled here.
type Manager struct {
	baseURL  string
	http     *http.Client
	sessions *session.FileStore
	keys     keystore.Store
	log      logging.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithBaseURL points the manager at a non-production endpoint.
func WithBaseURL(u string) Option {
	return func(m *Manager) { m.baseURL = u }
}

// WithHTTPClient replaces the underlying transport.
func WithHTTPClient(h *http.Client) Option {
	return func(m *Manager) { m.http = h }
}

// WithConfigDir relocates the session file, e.g. for tests.
func WithConfigDir(dir string) Option {
	return func(m *Manager) {
		st, err := session.NewFileStore(dir)
		if err == nil {
			m.sessions = st
		}
	}
}

// WithKeystore replaces the credential store.
func WithKeystore(s keystore.Store) Option {
	return func(m *Manager) { m.keys = s }
}

// WithLogger attaches a logger for storage diagnostics.
func WithLogger(l logging.Logger) Option {
	return func(m *Manager) { m.log = l }
}

// NewManager builds a Manager against the production endpoint, the per-user
// session file, and the OS keyring with file fallback.
func NewManager(opts ...Option) (*Manager, error) {
	m := &Manager{
		baseURL: api.DefaultBaseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
		log:     logging.Discard(),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.sessions == nil {
		st, err := session.NewFileStore("")
		if err != nil {
			return nil, fmt.Errorf("init session store: %w", err)
		}
		m.sessions = st
	}
	if m.keys == nil {
		m.keys = keystore.NewFallback(keystore.NewKeyring(), m.sessions, m.log)
	}
	return m, nil
}

// LoginResult summarizes a successful login. MaskedKey shows only the key's
// 12-character prefix; the full key never leaves the stores.
type LoginResult struct {
	Email     string
	APITier   string
	MaskedKey string
	Message   string
}

// User is the merged view of the persisted session and its stored key.
type User struct {
	Email      string
	UserID     int
	APITier    string
	APIKey     string
	LoggedInAt string
}

type loginResponse struct {
	Success bool `json:"success"`
	User    struct {
		ID      int    `json:"id"`
		Email   string `json:"email"`
		APIKey  string `json:"api_key"`
		APITier string `json:"api_tier"`
	} `json:"user"`
	Timestamp string `json:"timestamp"`
	Error     string `json:"error"`
}

// Login exchanges credentials for an API key and persists it. Authentication
// failures are always surfaced; failures of the local stores are logged and
// swallowed so a broken keyring cannot block login.
func (m *Manager) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	payload, err := m.postLogin(ctx, email, password)
	if err != nil {
		return nil, err
	}

	if !payload.Success {
		msg := payload.Error
		if msg == "" {
			msg = "login failed"
		}
		return nil, &api.AuthenticationError{Message: msg}
	}
	if payload.User.APIKey == "" {
		return nil, &api.AuthenticationError{Message: "no API key received"}
	}

	tier := payload.User.APITier
	if tier == "" {
		tier = "developer"
	}

	// Best effort from here on.
	if err := m.keys.Set(ctx, email, payload.User.APIKey); err != nil {
		m.log.Warn(ctx, "could not store API key", "error", err)
	}
	sess := &session.Session{
		Email:      email,
		UserID:     payload.User.ID,
		APITier:    tier,
		LoggedInAt: payload.Timestamp,
	}
	if err := m.sessions.Save(sess); err != nil {
		m.log.Warn(ctx, "could not save session", "error", err)
	}

	return &LoginResult{
		Email:     email,
		APITier:   tier,
		MaskedKey: api.MaskKey(payload.User.APIKey),
		Message:   "successfully logged in",
	}, nil
}

func (m *Manager) postLogin(ctx context.Context, email, password string) (*loginResponse, error) {
	body, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return nil, fmt.Errorf("encode credentials: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.baseURL+"/api/auth/login", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.http.Do(req)
	if err != nil {
		return nil, &api.APIError{Message: fmt.Sprintf("connection error: %v", err)}
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, &api.AuthenticationError{Message: "invalid email or password"}
	case resp.StatusCode != http.StatusOK:
		return nil, &api.AuthenticationError{Message: fmt.Sprintf("login failed: status %d", resp.StatusCode)}
	}

	var payload loginResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, &api.AuthenticationError{Message: fmt.Sprintf("login failed: %v", err)}
	}
	return &payload, nil
}

// Logout removes the stored key and the session file. It always succeeds:
// logging out twice, or without ever logging in, is not an error, and local
// storage failures are logged rather than raised.
func (m *Manager) Logout(ctx context.Context) {
	if sess := m.sessions.Load(); sess != nil && sess.Email != "" {
		if err := m.keys.Delete(ctx, sess.Email); err != nil {
			m.log.Warn(ctx, "could not remove stored API key", "error", err)
		}
	}
	if err := m.sessions.Clear(); err != nil {
		m.log.Warn(ctx, "could not remove session file", "error", err)
	}
}

// CurrentUser returns the logged-in user, or nil when there is no session or
// its key can no longer be retrieved.
func (m *Manager) CurrentUser(ctx context.Context) *User {
	sess := m.sessions.Load()
	if sess == nil || sess.Email == "" {
		return nil
	}
	key, err := m.keys.Get(ctx, sess.Email)
	if err != nil || key == "" {
		return nil
	}
	return &User{
		Email:      sess.Email,
		UserID:     sess.UserID,
		APITier:    sess.APITier,
		APIKey:     key,
		LoggedInAt: sess.LoggedInAt,
	}
}

// IsLoggedIn reports whether CurrentUser would return a user.
func (m *Manager) IsLoggedIn(ctx context.Context) bool {
	return m.CurrentUser(ctx) != nil
}

// ResolveKey returns the API key a client should use: the session's stored
// key first, then AVOCAVO_API_KEY, then "".
func (m *Manager) ResolveKey(ctx context.Context) string {
	return credentials.Resolve(ctx, m.sessions, m.keys)
}
