package testutil

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cuidadomaisfamilia/cuidado-api/internal/services"
	"github.com/cuidadomaisfamilia/cuidado-api/pkg/dto"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// TestJWTService signs tokens the way the server does, with a fixed secret.
func TestJWTService() *services.JWTService {
	return services.NewJWTService("test-secret-key", 15*time.Minute, 24*time.Hour)
}

// GenerateUserToken signs an access token for a member who just signed in.
func GenerateUserToken(t *testing.T, jwtSvc *services.JWTService, userID uuid.UUID, email string) string {
	t.Helper()
	return GenerateSessionToken(t, jwtSvc, services.TokenSubject{
		UserID:    userID,
		Email:     email,
		Role:      "user",
		SessionID: uuid.New(),
		AuthTime:  time.Now(),
	})
}

// GenerateSessionToken signs an access token for sub with jwtSvc
func GenerateSessionToken(t *testing.T, jwtSvc *services.JWTService, sub services.TokenSubject) string {
	t.Helper()
	pair, err := jwtSvc.GenerateTokenPair(sub)
	require.NoError(t, err)
	return pair.AccessToken
}

// DoJSON sends body as JSON to app, with a bearer token when one is given.
func DoJSON(app http.Handler, method, path string, body any, token string) *httptest.ResponseRecorder {
	reader := bytes.NewReader(nil)
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, req)
	return rec
}

func DecodeJSON(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), "body: %s", rec.Body.String())
}

// DecodeError reads the error body every failed API call returns.
func DecodeError(t *testing.T, rec *httptest.ResponseRecorder) dto.ErrorResponse {
	t.Helper()
	var resp dto.ErrorResponse
	DecodeJSON(t, rec, &resp)
	return resp
}
