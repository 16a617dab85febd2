package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cuidadomaisfamilia/cuidado-api/pkg/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeEvent(t *testing.T, w http.ResponseWriter, event dto.SessionEvent) {
	t.Helper()
	data, err := json.Marshal(event)
	require.NoError(t, err)
	_, _ = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, data)
	w.(http.Flusher).Flush()
}

func newStreamingClient(t *testing.T, api *fakeAPI, stream http.HandlerFunc) *Client {
	t.Helper()
	mux := http.NewServeMux()
	mux.Handle("/", api.handler())
	mux.HandleFunc("GET /api/v1/session/events", func(w http.ResponseWriter, r *http.Request) {
		if !api.authorized(r) {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid or expired token"})
			return
		}
		w.Header().Set("Content-Type", "text/event-stream")
		stream(w, r)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	c := New(server.URL, nil)
	_, err := c.SignIn(context.Background(), "ana@example.com", "segredo")
	require.NoError(t, err)
	return c
}

func TestWatchSession_AppliesEvents(t *testing.T) {
	renamed := testUser()
	name := "Ana Paula"
	renamed.DisplayName = &name

	c := newStreamingClient(t, &fakeAPI{}, func(w http.ResponseWriter, r *http.Request) {
		writeEvent(t, w, dto.SessionEvent{Type: dto.EventConnected, UserID: testUserID})
		writeEvent(t, w, dto.SessionEvent{Type: dto.EventProfileUpdated, UserID: testUserID, User: &renamed})
		writeEvent(t, w, dto.SessionEvent{Type: dto.EventRoleChanged, UserID: testUserID})
		writeEvent(t, w, dto.SessionEvent{Type: dto.EventRevoked, UserID: testUserID})
	})
	rec := &recorder{}
	c.OnSessionChange(rec.record)

	err := c.WatchSession(context.Background())

	require.NoError(t, err)
	events := rec.all()
	require.Len(t, events, 3)
	assert.Equal(t, "Ana Paula", *events[0].DisplayName)
	assert.Equal(t, "Ana", *events[1].DisplayName)
	assert.Nil(t, events[2])

	tokens, err := c.tokens.Load()
	require.NoError(t, err)
	assert.Nil(t, tokens)
}

func TestWatchSession_IgnoresMalformedEvents(t *testing.T) {
	c := newStreamingClient(t, &fakeAPI{}, func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprint(w, ": keep-alive\n\nevent: profile_updated\ndata: {not json\n\n")
		writeEvent(t, w, dto.SessionEvent{Type: dto.EventSignedOut, UserID: testUserID})
	})
	rec := &recorder{}
	c.OnSessionChange(rec.record)

	require.NoError(t, c.WatchSession(context.Background()))
	assert.Len(t, rec.all(), 1)
}

func TestWatchSession_RejectedRefreshStops(t *testing.T) {
	api := &fakeAPI{}
	c := newStreamingClient(t, api, func(w http.ResponseWriter, r *http.Request) {
		t.Error("stream should not open")
	})
	api.rejectRefresh = true
	require.NoError(t, c.tokens.Save(&Tokens{AccessToken: "stale", RefreshToken: "refresh-0"}))
	rec := &recorder{}
	c.OnSessionChange(rec.record)

	err := c.WatchSession(context.Background())

	require.NoError(t, err)
	assert.Len(t, rec.all(), 1)
	assert.Nil(t, rec.all()[0])
}

func TestWatchSession_StopsWithContext(t *testing.T) {
	c := newStreamingClient(t, &fakeAPI{}, func(w http.ResponseWriter, r *http.Request) {
		writeEvent(t, w, dto.SessionEvent{Type: dto.EventConnected, UserID: testUserID})
		<-r.Context().Done()
	})

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	err := c.WatchSession(ctx)

	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
