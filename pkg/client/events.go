package client

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cuidadomaisfamilia/cuidado-api/pkg/dto"
)

const (
	minReconnectDelay = time.Second
	maxReconnectDelay = 30 * time.Second
)

var (
	errSessionEnded = errors.New("session ended")
	errStreamClosed = errors.New("event stream closed")
)

// WatchSession follows the server's session event stream and turns events
// into session changes for the OnSessionChange listeners. It reconnects with
// backoff, returns nil once the session ends and ctx.Err() when ctx is done.
func (c *Client) WatchSession(ctx context.Context) error {
	delay := minReconnectDelay
	for {
		connected, err := c.streamOnce(ctx)
		switch {
		case errors.Is(err, errSessionEnded), isSessionGone(err):
			return nil
		case ctx.Err() != nil:
			return ctx.Err()
		}
		if connected {
			delay = minReconnectDelay
		}
		c.logger.Debug().Err(err).Dur("retry_in", delay).Msg("session event stream interrupted")

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		delay = min(delay*2, maxReconnectDelay)
	}
}

func (c *Client) streamOnce(ctx context.Context) (bool, error) {
	tokens, err := c.tokens.Load()
	if err != nil {
		return false, err
	}
	if tokens == nil {
		return false, ErrNotSignedIn
	}

	resp, err := c.openStream(ctx, tokens.AccessToken)
	if StatusOf(err) == http.StatusUnauthorized {
		if err := c.refresh(ctx, tokens.RefreshToken); err != nil {
			return false, err
		}
		if tokens, err = c.tokens.Load(); err != nil || tokens == nil {
			return false, ErrNotSignedIn
		}
		resp, err = c.openStream(ctx, tokens.AccessToken)
	}
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	return true, c.readEvents(ctx, resp.Body)
}

func (c *Client) openStream(ctx context.Context, accessToken string) (*http.Response, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/session/events", nil, accessToken)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")

	// The regular client's timeout would cut the stream.
	streaming := &http.Client{Transport: c.httpClient.Transport}
	resp, err := streaming.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		return nil, decodeAPIError(resp)
	}
	return resp, nil
}

// readEvents parses the text/event-stream framing: field lines terminated
// by a blank line.
func (c *Client) readEvents(ctx context.Context, body io.Reader) error {
	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 4096), 1<<20)

	var name string
	var data []string
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			if len(data) > 0 {
				if err := c.dispatch(ctx, name, strings.Join(data, "\n")); err != nil {
					return err
				}
			}
			name, data = "", data[:0]
			continue
		}

		field, value, _ := strings.Cut(line, ":")
		value = strings.TrimPrefix(value, " ")
		switch field {
		case "event":
			name = value
		case "data":
			data = append(data, value)
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	return errStreamClosed
}

func (c *Client) dispatch(ctx context.Context, name, payload string) error {
	if name == dto.EventConnected {
		return nil
	}

	var event dto.SessionEvent
	if err := json.Unmarshal([]byte(payload), &event); err != nil {
		c.logger.Warn().Err(err).Str("event", name).Msg("ignoring malformed session event")
		return nil
	}

	switch {
	case event.EndsSession():
		c.logger.Info().Str("type", event.Type).Msg("session ended by server")
		c.invalidate()
		return errSessionEnded
	case event.Type == dto.EventProfileUpdated && event.User != nil:
		c.emit(event.User.Identity())
	case event.Type == dto.EventRoleChanged:
		// Re-announcing the identity makes listeners fetch the role again.
		user, err := c.Me(ctx)
		if err != nil {
			c.logger.Warn().Err(err).Msg("failed to reload identity after role change")
			return nil
		}
		c.emit(user.Identity())
	}
	return nil
}
