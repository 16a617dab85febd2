// Package client talks to the Cuidado Mais Família API. Client implements
// the identity provider and role source the session store consumes, so a
// front end drives its session entirely through one Client.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/cuidadomaisfamilia/cuidado-api/pkg/dto"
	"github.com/cuidadomaisfamilia/cuidado-api/pkg/identity"
	"github.com/rs/zerolog"
)

const apiPrefix = "/api/v1"

type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenStore
	logger     zerolog.Logger
	now        func() time.Time

	refreshMu sync.Mutex

	mu        sync.Mutex
	listeners map[int]func(*identity.Identity)
	nextID    int
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpClient = h }
}

func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New returns a client for the API at baseURL. A nil store keeps the
// session in memory.
func New(baseURL string, tokens TokenStore, opts ...Option) *Client {
	if tokens == nil {
		tokens = NewMemoryTokenStore()
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		tokens:     tokens,
		logger:     zerolog.Nop(),
		now:        time.Now,
		listeners:  make(map[int]func(*identity.Identity)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// OnSessionChange registers callback for sign-in, sign-out and token
// invalidation. The callback receives nil when the session ended.
func (c *Client) OnSessionChange(callback func(*identity.Identity)) func() {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.listeners[id] = callback
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.listeners, id)
			c.mu.Unlock()
		})
	}
}

func (c *Client) emit(next *identity.Identity) {
	c.mu.Lock()
	fns := make([]func(*identity.Identity), 0, len(c.listeners))
	for _, fn := range c.listeners {
		fns = append(fns, fn)
	}
	c.mu.Unlock()

	for _, fn := range fns {
		fn(next)
	}
}

// invalidate drops the stored session and tells listeners it ended.
func (c *Client) invalidate() {
	if err := c.tokens.Clear(); err != nil {
		c.logger.Warn().Err(err).Msg("failed to clear stored session")
	}
	c.emit(nil)
}

func (c *Client) saveSession(user dto.UserResponse, pair dto.TokenResponse) error {
	return c.tokens.Save(&Tokens{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresAt:    c.now().Add(time.Duration(pair.ExpiresIn) * time.Second),
		UserID:       user.ID.String(),
	})
}

func (c *Client) newRequest(ctx context.Context, method, path string, body any, accessToken string) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+apiPrefix+path, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}
	return req, nil
}

// send performs one request. Non-2xx responses come back as *APIError.
func (c *Client) send(ctx context.Context, method, path string, body, out any, accessToken string) error {
	req, err := c.newRequest(ctx, method, path, body, accessToken)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return decodeAPIError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}
	data, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return apiErr
	}

	var body dto.ErrorResponse
	if json.Unmarshal(data, &body) == nil && body.Code != "" {
		apiErr.Code = body.Code
		apiErr.Message = body.Message
		apiErr.Fields = body.Fields
		return apiErr
	}

	// Errors raised by the framework itself carry {"error": "..."}.
	var plain struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(data, &plain) == nil && plain.Error != "" {
		apiErr.Message = plain.Error
	} else {
		apiErr.Message = strings.TrimSpace(string(data))
	}
	return apiErr
}

// authed performs a request with the stored access token. A 401 triggers a
// single refresh and retry.
func (c *Client) authed(ctx context.Context, method, path string, body, out any) error {
	tokens, err := c.tokens.Load()
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	if tokens == nil {
		return ErrNotSignedIn
	}

	err = c.send(ctx, method, path, body, out, tokens.AccessToken)
	if StatusOf(err) != http.StatusUnauthorized {
		return err
	}

	if err := c.refresh(ctx, tokens.RefreshToken); err != nil {
		return err
	}
	tokens, err = c.tokens.Load()
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	if tokens == nil {
		return ErrNotSignedIn
	}
	return c.send(ctx, method, path, body, out, tokens.AccessToken)
}

// refresh exchanges the refresh token. Concurrent callers holding the same
// stale token share one exchange. A rejected token ends the session.
func (c *Client) refresh(ctx context.Context, stale string) error {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	current, err := c.tokens.Load()
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	if current == nil {
		return ErrNotSignedIn
	}
	if current.RefreshToken != stale {
		return nil
	}

	var pair dto.TokenResponse
	err = c.send(ctx, http.MethodPost, "/auth/refresh", dto.RefreshTokenRequest{RefreshToken: stale}, &pair, "")
	if err != nil {
		if status := StatusOf(err); status >= 400 && status < 500 {
			c.logger.Info().Int("status", status).Msg("refresh rejected, session ended")
			c.invalidate()
			return fmt.Errorf("%w: %w", ErrSessionExpired, err)
		}
		return err
	}

	current.AccessToken = pair.AccessToken
	current.RefreshToken = pair.RefreshToken
	current.ExpiresAt = c.now().Add(time.Duration(pair.ExpiresIn) * time.Second)
	return c.tokens.Save(current)
}

func isSessionGone(err error) bool {
	return errors.Is(err, ErrNotSignedIn) || errors.Is(err, ErrSessionExpired)
}
