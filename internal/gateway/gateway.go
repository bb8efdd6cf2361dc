package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/charmbracelet/log"
	"github.com/desertmoss/mrx/internal/shared"
)

const defaultBaseURL = "http://localhost:8000"

// TokenSource supplies the bearer credential for outbound requests and accepts
// the forced invalidation triggered by an authentication failure.
//
// Implemented by session.Session.
type TokenSource interface {
	// Token returns the current bearer token and whether one is present.
	Token() (string, bool)

	// Invalidate clears the session exactly as a logout would.
	Invalidate()
}

// Client provides typed access to the MusicRec backend HTTP API.
//
// All requests pass through a single helper that attaches authorization and
// detects session expiry; callers never talk to the backend any other way.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	logger     *log.Logger
}

// New creates a backend client. A nil http.Client falls back to
// http.DefaultClient and an empty baseURL to the local development server.
// tokens may be nil for a client that never authenticates.
func New(baseURL string, client *http.Client, tokens TokenSource, logger *log.Logger) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: client,
		tokens:     tokens,
		logger:     logger,
	}
}

// BaseURL returns the configured backend base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// do performs a JSON request against the backend and decodes the response into
// result when non-nil. The bearer token is attached when the TokenSource holds
// one; a 401 on such a request invalidates the session before returning.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, payload, result any) error {
	fullURL := c.baseURL + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	authenticated := c.attachToken(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if err := c.checkStatus(resp.StatusCode, raw, path, authenticated); err != nil {
		return err
	}

	if result != nil {
		if err := json.Unmarshal(raw, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// attachToken sets the Authorization header when a token is available and
// reports whether the request is authenticated.
func (c *Client) attachToken(req *http.Request) bool {
	if c.tokens == nil {
		return false
	}
	tok, ok := c.tokens.Token()
	if !ok {
		return false
	}
	req.Header.Set("Authorization", "Bearer "+tok)
	return true
}

// checkStatus converts non-2xx responses into classified errors. A 401 on an
// authenticated request clears the session before the error is returned; a 401
// on an unauthenticated one (a rejected login) leaves session state alone.
func (c *Client) checkStatus(status int, body []byte, path string, authenticated bool) error {
	if status >= 200 && status < 300 {
		return nil
	}

	detail := errorDetail(body, status)

	if status == http.StatusUnauthorized {
		if authenticated {
			c.logger.Warn("session rejected by backend, clearing token", "path", path)
			c.tokens.Invalidate()
			return fmt.Errorf("%w: %s", shared.ErrSessionExpired, detail)
		}
		return fmt.Errorf("%w: %s", shared.ErrAuthFailed, detail)
	}

	return fmt.Errorf("%w: %s", shared.ErrAPIRequest, detail)
}

// errorDetail extracts the FastAPI {"detail": "..."} message from an error body,
// falling back to the bare status code.
func errorDetail(body []byte, status int) string {
	var e struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &e); err == nil && e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("status %d", status)
}

// RawResponse represents a raw API response with status and body.
type RawResponse struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	IsJSON     bool
	JSONData   any
}

// Get performs a GET request to the specified path and returns the raw response.
//
// Unlike the typed methods, raw requests never fail on non-2xx status codes; the
// caller inspects StatusCode. Session invalidation on 401 still applies.
func (c *Client) Get(ctx context.Context, path string) (*RawResponse, error) {
	return c.raw(ctx, http.MethodGet, path, nil)
}

// Post performs a POST request with the given JSON data and returns the raw response.
func (c *Client) Post(ctx context.Context, path string, data []byte) (*RawResponse, error) {
	return c.raw(ctx, http.MethodPost, path, data)
}

func (c *Client) raw(ctx context.Context, method, path string, data []byte) (*RawResponse, error) {
	var body io.Reader
	if data != nil {
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	authenticated := c.attachToken(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized && authenticated {
		c.logger.Warn("session rejected by backend, clearing token", "path", path)
		c.tokens.Invalidate()
	}

	rawResp := &RawResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       raw,
	}

	var jsonData any
	if err := json.Unmarshal(raw, &jsonData); err == nil {
		rawResp.IsJSON = true
		rawResp.JSONData = jsonData
	}

	return rawResp, nil
}
