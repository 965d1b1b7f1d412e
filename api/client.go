package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/avocavo/nutrition-go/internal/credentials"
)

const (
	// DefaultBaseURL is the production endpoint.
	DefaultBaseURL = "https://app.avocavo.app"

	// DefaultTimeout bounds every request unless overridden at construction.
	DefaultTimeout = 30 * time.Second

	userAgent    = "avocavo-nutrition-go/1.0.0"
	apiKeyHeader = "X-API-Key"
)

// Client talks to the Avocavo nutrition HTTP API. Each operation issues one
// request and blocks until response or timeout; the client never retries.
//
// A Client is safe for concurrent use: headers are built per request, so the
// unauthenticated health check cannot disturb calls in flight.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at a non-production endpoint.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithTimeout overrides the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// WithHTTPClient replaces the underlying transport, e.g. for proxies or tests.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// NewClient builds a Client. An empty apiKey is resolved from the logged-in
// session or the AVOCAVO_API_KEY environment variable; if nothing resolves,
// construction fails before any network activity.
func NewClient(apiKey string, opts ...Option) (*Client, error) {
	c := &Client{
		baseURL: DefaultBaseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.apiKey == "" {
		c.apiKey = credentials.ResolveDefault(context.Background())
	}
	if c.apiKey == "" {
		return nil, &AuthenticationError{Message: "no API key provided; either:\n" +
			"1. log in: auth.NewManager() then Login(ctx, email, password)\n" +
			"2. pass a key: api.NewClient(\"your_key\")\n" +
			"3. set the environment: export AVOCAVO_API_KEY=your_key"}
	}
	return c, nil
}

// AnalyzeIngredient returns nutrition data for one quantified ingredient,
// e.g. "2 cups flour".
func (c *Client) AnalyzeIngredient(ctx context.Context, ingredient string) (*IngredientResult, error) {
	body := map[string]string{"ingredient": ingredient}
	data, err := c.do(ctx, http.MethodPost, "/api/v1/nutrition/ingredient", body, true)
	if err != nil {
		return nil, err
	}
	return parseIngredientResult(data, ingredient)
}

// AnalyzeRecipe returns total and per-serving nutrition for a recipe.
func (c *Client) AnalyzeRecipe(ctx context.Context, ingredients []string, servings int) (*RecipeResult, error) {
	body := map[string]any{"ingredients": ingredients, "servings": servings}
	data, err := c.do(ctx, http.MethodPost, "/api/v1/nutrition/recipe", body, true)
	if err != nil {
		return nil, err
	}
	return parseRecipeResult(data, ingredients, servings)
}

// AnalyzeBatch analyzes multiple ingredients in a single request. Available
// on trial tier and above; the server enforces the plan's batch limit.
func (c *Client) AnalyzeBatch(ctx context.Context, ingredients []string) (*BatchResult, error) {
	body := map[string]any{"ingredients": ingredients}
	data, err := c.do(ctx, http.MethodPost, "/api/v1/nutrition/batch", body, true)
	if err != nil {
		return nil, err
	}
	return parseBatchResult(data, ingredients)
}

// AccountUsage fetches the account's subscription state and current usage.
func (c *Client) AccountUsage(ctx context.Context) (*Account, error) {
	data, err := c.do(ctx, http.MethodGet, "/api/v1/account/usage", nil, true)
	if err != nil {
		return nil, err
	}
	return parseAccount(data)
}

// ListAPIKeys returns the raw key inventory for the current user.
func (c *Client) ListAPIKeys(ctx context.Context) (map[string]any, error) {
	return c.passthrough(ctx, http.MethodGet, "/api/keys", nil)
}

// CreateAPIKey provisions a new key. The full key value appears only in this
// response; description and environment are omitted when empty.
func (c *Client) CreateAPIKey(ctx context.Context, name, description, environment string) (map[string]any, error) {
	body := map[string]any{"name": name}
	if description != "" {
		body["description"] = description
	}
	if environment != "" {
		body["environment"] = environment
	}
	return c.passthrough(ctx, http.MethodPost, "/api/keys", body)
}

// APIKeyUpdate carries the metadata fields to change; nil fields are left
// untouched server-side.
type APIKeyUpdate struct {
	Name        *string
	Description *string
	Environment *string
}

// UpdateAPIKey changes an existing key's metadata.
func (c *Client) UpdateAPIKey(ctx context.Context, keyID int, update APIKeyUpdate) (map[string]any, error) {
	body := map[string]any{}
	if update.Name != nil {
		body["name"] = *update.Name
	}
	if update.Description != nil {
		body["description"] = *update.Description
	}
	if update.Environment != nil {
		body["environment"] = *update.Environment
	}
	return c.passthrough(ctx, http.MethodPut, fmt.Sprintf("/api/keys/%d", keyID), body)
}

// DeleteAPIKey deactivates a key.
func (c *Client) DeleteAPIKey(ctx context.Context, keyID int) (map[string]any, error) {
	return c.passthrough(ctx, http.MethodDelete, fmt.Sprintf("/api/keys/%d", keyID), nil)
}

// RegenerateAPIKey rotates a key's value, keeping its metadata. The new value
// appears only in this response.
func (c *Client) RegenerateAPIKey(ctx context.Context, keyID int) (map[string]any, error) {
	return c.passthrough(ctx, http.MethodPost, fmt.Sprintf("/api/keys/%d/regenerate", keyID), nil)
}

// UsageSummary returns aggregated usage across all of the user's keys.
func (c *Client) UsageSummary(ctx context.Context) (map[string]any, error) {
	return c.passthrough(ctx, http.MethodGet, "/api/keys/usage", nil)
}

// VerifyFDCID returns detailed reference data for a USDA food entry.
func (c *Client) VerifyFDCID(ctx context.Context, fdcID int) (map[string]any, error) {
	return c.passthrough(ctx, http.MethodGet, fmt.Sprintf("/api/v1/nutrition/verify/%d", fdcID), nil)
}

// HealthCheck probes the API without authentication. The client's own key is
// left out of this one request and untouched for subsequent calls.
func (c *Client) HealthCheck(ctx context.Context) (map[string]any, error) {
	data, err := c.do(ctx, http.MethodGet, "/api/v1/health", nil, false)
	if err != nil {
		return nil, err
	}
	return decodePassthrough(data)
}

func (c *Client) passthrough(ctx context.Context, method, path string, body any) (map[string]any, error) {
	data, err := c.do(ctx, method, path, body, true)
	if err != nil {
		return nil, err
	}
	return decodePassthrough(data)
}

func decodePassthrough(data []byte) (map[string]any, error) {
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return out, nil
}

// do executes one request and classifies the outcome. A 200 returns the raw
// body; everything else maps to the error taxonomy.
func (c *Client) do(ctx context.Context, method, path string, body any, authenticated bool) ([]byte, error) {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("X-Request-Id", uuid.NewString())
	if authenticated {
		req.Header.Set(apiKeyHeader, c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, classifyTransport(err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &APIError{Message: fmt.Sprintf("read response: %v", err)}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, classifyStatus(resp.StatusCode, data)
	}
	return data, nil
}

func classifyTransport(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &APIError{Message: "request timeout, please try again"}
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return &APIError{Message: "request timeout, please try again"}
	}
	return &APIError{Message: fmt.Sprintf("connection error: %v", err)}
}

func classifyStatus(status int, body []byte) error {
	var payload struct {
		Error string `json:"error"`
		Limit int    `json:"limit"`
		Usage int    `json:"usage"`
	}
	// Error bodies are not guaranteed to be JSON; decode best-effort.
	_ = json.Unmarshal(body, &payload)

	switch {
	case status == http.StatusUnauthorized:
		return &AuthenticationError{Message: "invalid API key, check your credentials"}
	case status == http.StatusPaymentRequired:
		return &AuthenticationError{Message: "trial expired or payment required, upgrade your plan"}
	case status == http.StatusForbidden:
		msg := payload.Error
		if msg == "" {
			msg = "feature not available on your plan"
		}
		return &ValidationError{Message: msg, StatusCode: status}
	case status == http.StatusTooManyRequests:
		msg := payload.Error
		if msg == "" {
			msg = "rate limit exceeded"
		}
		return &RateLimitError{Message: msg, Limit: payload.Limit, Usage: payload.Usage, StatusCode: status}
	case status >= 500:
		return &APIError{Message: "server error, please try again later", StatusCode: status}
	default:
		msg := payload.Error
		if msg == "" {
			msg = fmt.Sprintf("HTTP %d", status)
		}
		var raw map[string]any
		_ = json.Unmarshal(body, &raw)
		return &ValidationError{Message: msg, StatusCode: status, Body: raw}
	}
}
