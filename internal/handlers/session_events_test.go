package handlers

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/cuidadomaisfamilia/cuidado-api/internal/events"
	"github.com/cuidadomaisfamilia/cuidado-api/internal/middleware"
	"github.com/cuidadomaisfamilia/cuidado-api/internal/services"
	"github.com/cuidadomaisfamilia/cuidado-api/pkg/dto"
	"github.com/cuidadomaisfamilia/cuidado-api/tests/testutil"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestSessionEventsHandler_HubClosed(t *testing.T) {
	hub := new(testutil.MockHub)
	jwtSvc := testutil.TestJWTService()
	h := NewSessionEventsHandler(hub, nil)

	app := drift.New()
	app.Use(middleware.Auth(jwtSvc))
	app.Get("/session/events", h.Stream)

	hub.On("Register", mock.Anything).Return(events.ErrHubClosed)

	rec := testutil.DoJSON(app, http.MethodGet, "/session/events", nil, testutil.GenerateUserToken(t, jwtSvc, uuid.New(), "ana@example.com"))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	hub.AssertNotCalled(t, "Unregister", mock.Anything)
}

func TestSessionEventsHandler_Unauthenticated(t *testing.T) {
	h := NewSessionEventsHandler(new(testutil.MockHub), nil)
	app := drift.New()
	app.Use(middleware.Auth(testutil.TestJWTService()))
	app.Get("/session/events", h.Stream)

	rec := testutil.DoJSON(app, http.MethodGet, "/session/events", nil, "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSessionEventsHandler_StreamsSessionEvents(t *testing.T) {
	hub := events.NewHub()
	hubCtx, stopHub := context.WithCancel(context.Background())
	defer stopHub()
	go hub.Run(hubCtx)

	jwtSvc := testutil.TestJWTService()
	h := NewSessionEventsHandler(hub, nil)
	app := drift.New()
	app.Use(middleware.Auth(jwtSvc))
	app.Get("/session/events", h.Stream)

	server := httptest.NewServer(app)
	defer server.Close()

	userID, sessionID := uuid.New(), uuid.New()
	token := testutil.GenerateSessionToken(t, jwtSvc, services.TokenSubject{
		UserID: userID, SessionID: sessionID, AuthTime: time.Now(),
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL+"/session/events", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	lines := bufio.NewScanner(resp.Body)
	waitFor := func(fragment string) {
		t.Helper()
		for lines.Scan() {
			if strings.Contains(lines.Text(), fragment) {
				return
			}
		}
		t.Fatalf("stream ended before %q", fragment)
	}

	waitFor(dto.EventConnected)
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	require.NoError(t, hub.Publish(ctx, dto.SessionEvent{Type: dto.EventSignedOut, UserID: userID, SessionID: uuid.New()}))
	require.NoError(t, hub.Publish(ctx, dto.SessionEvent{Type: dto.EventRevoked, UserID: userID}))

	waitFor(`"type":"revoked"`)
}
