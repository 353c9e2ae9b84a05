package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/rs/zerolog"
)

// ErrNoFreelancer is returned when an operation requires a bound
// freelancer id and the client has none.
var ErrNoFreelancer = errors.New("no freelancer bound to this client")

// APIError is a non-2xx response from the escrow service.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("escrow api: %s (%s, status %d)", e.Message, e.Code, e.StatusCode)
	}
	return fmt.Sprintf("escrow api: %s (status %d)", e.Code, e.StatusCode)
}

// ActionStatus is the lifecycle of a dispatched mutation.
type ActionStatus string

const (
	ActionPending ActionStatus = "pending"
	ActionSuccess ActionStatus = "success"
	ActionError   ActionStatus = "error"
)

// ActionState records the most recent mutation. Only one state is
// tracked; concurrent mutations race on it last-writer-wins, while each
// call still returns its own result independently.
type ActionState struct {
	Action string
	Status ActionStatus
	Err    error
}

// Config for a Client.
type Config struct {
	BaseURL      string
	FreelancerID string
	AuthToken    string
	HTTPClient   *http.Client
	Cache        *OverviewCache
	Logger       zerolog.Logger
}

// Client talks to the escrow service on behalf of a single freelancer.
// It owns no persisted state; authoritative data lives server-side and
// the client's job is caching, refresh-after-write and action-state
// bookkeeping.
type Client struct {
	baseURL      string
	freelancerID string
	authToken    string
	httpClient   *http.Client
	cache        *OverviewCache
	logger       zerolog.Logger

	mu          sync.Mutex
	actionState ActionState
}

// New creates a Client. A nil HTTPClient falls back to
// http.DefaultClient; a nil Cache gets a private 45s cache.
func New(cfg Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	cache := cfg.Cache
	if cache == nil {
		cache = NewOverviewCache(0)
	}

	return &Client{
		baseURL:      cfg.BaseURL,
		freelancerID: cfg.FreelancerID,
		authToken:    cfg.AuthToken,
		httpClient:   httpClient,
		cache:        cache,
		logger:       cfg.Logger,
	}
}

// ActionState returns the most recently recorded mutation state.
func (c *Client) ActionState() ActionState {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.actionState
}

func (c *Client) setActionState(state ActionState) {
	c.mu.Lock()
	c.actionState = state
	c.mu.Unlock()
}

// doJSON performs one HTTP exchange and decodes the response into out.
func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf := &bytes.Buffer{}
		if err := json.NewEncoder(buf).Encode(body); err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = buf
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.authToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}

		var envelope struct {
			Error   string `json:"error"`
			Message string `json:"message"`
		}
		if decodeErr := json.NewDecoder(resp.Body).Decode(&envelope); decodeErr == nil {
			apiErr.Code = envelope.Error
			apiErr.Message = envelope.Message
		}

		return apiErr
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}

func (c *Client) escrowPath(suffix string) string {
	return fmt.Sprintf("/api/v1/freelancers/%s/escrow%s", c.freelancerID, suffix)
}
