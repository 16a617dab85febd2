package handlers

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/cuidadomaisfamilia/cuidado-api/internal/config"
	"github.com/cuidadomaisfamilia/cuidado-api/internal/middleware"
	"github.com/cuidadomaisfamilia/cuidado-api/internal/models"
	"github.com/cuidadomaisfamilia/cuidado-api/internal/services"
	"github.com/cuidadomaisfamilia/cuidado-api/pkg/autherr"
	"github.com/cuidadomaisfamilia/cuidado-api/pkg/dto"
	"github.com/cuidadomaisfamilia/cuidado-api/pkg/identity"
	"github.com/cuidadomaisfamilia/cuidado-api/tests/testutil"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	driftmw "github.com/m1z23r/drift/pkg/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type authMocks struct {
	identity  *testutil.MockIdentityService
	users     *testutil.MockUserService
	roles     *testutil.MockRoleService
	tokens    *testutil.MockTokenService
	email     *testutil.MockEmailService
	publisher *testutil.MockPublisher
}

func setupAuthTest(t *testing.T) (*authMocks, http.Handler, *services.JWTService) {
	t.Helper()
	m := &authMocks{
		identity:  new(testutil.MockIdentityService),
		users:     new(testutil.MockUserService),
		roles:     new(testutil.MockRoleService),
		tokens:    new(testutil.MockTokenService),
		email:     new(testutil.MockEmailService),
		publisher: new(testutil.MockPublisher),
	}
	jwtSvc := testutil.TestJWTService()
	cfg := &config.Config{
		RecentLoginWindow: 5 * time.Minute,
		AppResetURL:       "cuidadomaisfamilia://reset-password",
	}

	h := NewAuthHandler(cfg, m.identity, m.users, m.roles, m.tokens, jwtSvc, m.email, NewNotifier(m.publisher, nil), nil)

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Post("/auth/register", h.Register)
	app.Post("/auth/login", h.Login)
	app.Post("/auth/refresh", h.RefreshToken)
	app.Post("/auth/logout", h.Logout)
	app.Post("/auth/password-reset", h.RequestPasswordReset)
	app.Post("/auth/password-reset/confirm", h.ConfirmPasswordReset)

	protected := app.Group("/auth")
	protected.Use(middleware.Auth(jwtSvc))
	protected.Post("/logout-all", h.LogoutAll)
	protected.Post("/password", h.ChangePassword)

	return m, app, jwtSvc
}

func testUser() *models.User {
	name := "Ana"
	return &models.User{ID: uuid.New(), Email: "ana@example.com", DisplayName: &name}
}

func TestAuthHandler_Register_Success(t *testing.T) {
	m, app, jwtSvc := setupAuthTest(t)
	user := testUser()

	m.identity.On("Register", mock.Anything, "ana@example.com", "segredo", "Ana").Return(user, nil)
	m.tokens.On("StoreRefreshToken", mock.Anything, mock.MatchedBy(func(tok *models.RefreshToken) bool {
		return tok.UserID == user.ID && tok.SessionID != uuid.Nil && len(tok.TokenHash) == 64
	})).Return(nil)

	rec := testutil.DoJSON(app, http.MethodPost, "/auth/register", dto.RegisterRequest{
		Email: "ana@example.com", Password: "segredo", DisplayName: "Ana",
	}, "")

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var resp dto.AuthResponse
	testutil.DecodeJSON(t, rec, &resp)
	assert.Equal(t, user.ID, resp.User.ID)
	assert.Equal(t, identity.RoleUser, resp.User.Role)

	claims, err := jwtSvc.ValidateAccessToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "user", claims.Role)
	assert.True(t, claims.RecentLogin(time.Minute, time.Now()))
	m.identity.AssertExpectations(t)
	m.tokens.AssertExpectations(t)
}

func TestAuthHandler_Register_EmailTaken(t *testing.T) {
	m, app, _ := setupAuthTest(t)

	m.identity.On("Register", mock.Anything, "ana@example.com", "segredo", "").
		Return(nil, autherr.New(autherr.KindEmailAlreadyInUse))

	rec := testutil.DoJSON(app, http.MethodPost, "/auth/register", dto.RegisterRequest{
		Email: "ana@example.com", Password: "segredo",
	}, "")

	assert.Equal(t, http.StatusConflict, rec.Code)
	resp := testutil.DecodeError(t, rec)
	assert.Equal(t, "email-already-in-use", resp.Code)
	assert.Equal(t, autherr.Message(autherr.KindEmailAlreadyInUse), resp.Message)
	m.tokens.AssertNotCalled(t, "StoreRefreshToken", mock.Anything, mock.Anything)
}

func TestAuthHandler_Login(t *testing.T) {
	testCases := []struct {
		name     string
		authErr  error
		role     identity.Role
		roleErr  error
		status   int
		code     string
		wantRole identity.Role
	}{
		{name: "admin", role: identity.RoleAdmin, status: http.StatusOK, wantRole: identity.RoleAdmin},
		{name: "no role record", role: identity.RoleUnknown, roleErr: services.ErrRoleNotFound, status: http.StatusOK, wantRole: identity.RoleUnknown},
		{name: "role lookup fails", role: identity.RoleUnknown, roleErr: errors.New("timeout"), status: http.StatusOK, wantRole: identity.RoleUnknown},
		{name: "wrong password", authErr: autherr.New(autherr.KindWrongPassword), status: http.StatusUnauthorized, code: "wrong-password"},
		{name: "unknown user", authErr: autherr.New(autherr.KindUserNotFound), status: http.StatusUnauthorized, code: "user-not-found"},
		{name: "disabled", authErr: autherr.New(autherr.KindUserDisabled), status: http.StatusForbidden, code: "user-disabled"},
		{name: "unexpected failure", authErr: errors.New("db down"), status: http.StatusInternalServerError, code: CodeInternal},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			m, app, _ := setupAuthTest(t)
			user := testUser()

			if tc.authErr != nil {
				m.identity.On("Authenticate", mock.Anything, "ana@example.com", "segredo").Return(nil, tc.authErr)
			} else {
				m.identity.On("Authenticate", mock.Anything, "ana@example.com", "segredo").Return(user, nil)
				m.roles.On("GetRole", mock.Anything, user.ID).Return(tc.role, tc.roleErr)
				m.tokens.On("StoreRefreshToken", mock.Anything, mock.Anything).Return(nil)
			}

			rec := testutil.DoJSON(app, http.MethodPost, "/auth/login", dto.LoginRequest{Email: "ana@example.com", Password: "segredo"}, "")

			require.Equal(t, tc.status, rec.Code, rec.Body.String())
			if tc.code != "" {
				assert.Equal(t, tc.code, testutil.DecodeError(t, rec).Code)
				return
			}
			var resp dto.AuthResponse
			testutil.DecodeJSON(t, rec, &resp)
			assert.Equal(t, tc.wantRole, resp.User.Role)
			assert.NotEmpty(t, resp.RefreshToken)
		})
	}
}

func TestAuthHandler_Refresh_KeepsSessionAndAuthTime(t *testing.T) {
	m, app, jwtSvc := setupAuthTest(t)
	user := testUser()
	sessionID := uuid.New()
	authTime := time.Now().Add(-3 * time.Hour).Truncate(time.Second)

	old, err := jwtSvc.GenerateTokenPair(services.TokenSubject{UserID: user.ID, Email: user.Email, SessionID: sessionID, AuthTime: authTime})
	require.NoError(t, err)

	m.tokens.On("RevokeRefreshToken", mock.Anything, services.HashToken(old.RefreshToken)).Return(&models.RefreshToken{
		UserID:    user.ID,
		SessionID: sessionID,
		AuthTime:  authTime,
		ExpiresAt: time.Now().Add(time.Hour),
	}, nil)
	m.users.On("GetByID", mock.Anything, user.ID).Return(user, nil)
	m.roles.On("GetRole", mock.Anything, user.ID).Return(identity.RoleAdmin, nil)
	m.tokens.On("StoreRefreshToken", mock.Anything, mock.MatchedBy(func(tok *models.RefreshToken) bool {
		return tok.SessionID == sessionID && tok.AuthTime.Equal(authTime)
	})).Return(nil)

	rec := testutil.DoJSON(app, http.MethodPost, "/auth/refresh", dto.RefreshTokenRequest{RefreshToken: old.RefreshToken}, "")

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp dto.TokenResponse
	testutil.DecodeJSON(t, rec, &resp)
	claims, err := jwtSvc.ValidateAccessToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, sessionID, claims.SessionID)
	assert.Equal(t, "admin", claims.Role)
	assert.False(t, claims.RecentLogin(5*time.Minute, time.Now()))
	m.tokens.AssertExpectations(t)
}

func TestAuthHandler_Refresh_Rejections(t *testing.T) {
	m, app, jwtSvc := setupAuthTest(t)
	user := testUser()
	disabled := testUser()
	disabled.Disabled = true

	spent, err := jwtSvc.GenerateTokenPair(services.TokenSubject{UserID: user.ID, SessionID: uuid.New(), AuthTime: time.Now()})
	require.NoError(t, err)
	blocked, err := jwtSvc.GenerateTokenPair(services.TokenSubject{UserID: disabled.ID, SessionID: uuid.New(), AuthTime: time.Now()})
	require.NoError(t, err)

	m.tokens.On("RevokeRefreshToken", mock.Anything, services.HashToken(spent.RefreshToken)).Return(nil, services.ErrTokenNotFound)
	m.tokens.On("RevokeRefreshToken", mock.Anything, services.HashToken(blocked.RefreshToken)).Return(&models.RefreshToken{
		UserID: disabled.ID, ExpiresAt: time.Now().Add(time.Hour),
	}, nil)
	m.users.On("GetByID", mock.Anything, disabled.ID).Return(disabled, nil)

	rec := testutil.DoJSON(app, http.MethodPost, "/auth/refresh", dto.RefreshTokenRequest{RefreshToken: "garbage"}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = testutil.DoJSON(app, http.MethodPost, "/auth/refresh", dto.RefreshTokenRequest{}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = testutil.DoJSON(app, http.MethodPost, "/auth/refresh", dto.RefreshTokenRequest{RefreshToken: spent.RefreshToken}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "invalid-token", testutil.DecodeError(t, rec).Code)

	rec = testutil.DoJSON(app, http.MethodPost, "/auth/refresh", dto.RefreshTokenRequest{RefreshToken: blocked.RefreshToken}, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "user-disabled", testutil.DecodeError(t, rec).Code)
}

func TestAuthHandler_Logout_PublishesSignedOut(t *testing.T) {
	m, app, _ := setupAuthTest(t)
	userID, sessionID := uuid.New(), uuid.New()

	m.tokens.On("RevokeRefreshToken", mock.Anything, services.HashToken("refresh")).
		Return(&models.RefreshToken{UserID: userID, SessionID: sessionID}, nil)
	m.publisher.On("Publish", mock.Anything, dto.SessionEvent{
		Type: dto.EventSignedOut, UserID: userID, SessionID: sessionID,
	}).Return(nil)

	rec := testutil.DoJSON(app, http.MethodPost, "/auth/logout", dto.RefreshTokenRequest{RefreshToken: "refresh"}, "")

	assert.Equal(t, http.StatusOK, rec.Code)
	m.publisher.AssertExpectations(t)
}

func TestAuthHandler_Logout_UnknownToken(t *testing.T) {
	m, app, _ := setupAuthTest(t)

	m.tokens.On("RevokeRefreshToken", mock.Anything, mock.Anything).Return(nil, services.ErrTokenNotFound)

	rec := testutil.DoJSON(app, http.MethodPost, "/auth/logout", dto.RefreshTokenRequest{RefreshToken: "stale"}, "")

	assert.Equal(t, http.StatusOK, rec.Code)
	m.publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestAuthHandler_LogoutAll_PublishesRevoked(t *testing.T) {
	m, app, jwtSvc := setupAuthTest(t)
	userID := uuid.New()

	m.tokens.On("RevokeAllUserTokens", mock.Anything, userID).Return(nil)
	m.publisher.On("Publish", mock.Anything, dto.SessionEvent{Type: dto.EventRevoked, UserID: userID}).
		Return(errors.New("redis down"))

	rec := testutil.DoJSON(app, http.MethodPost, "/auth/logout-all", nil, testutil.GenerateUserToken(t, jwtSvc, userID, "ana@example.com"))

	assert.Equal(t, http.StatusOK, rec.Code)
	m.publisher.AssertExpectations(t)
}

func TestAuthHandler_PasswordReset(t *testing.T) {
	m, app, _ := setupAuthTest(t)
	user := testUser()

	m.identity.On("CreatePasswordReset", mock.Anything, "ana@example.com").Return(user, "raw-token", nil)
	m.email.On("SendPasswordReset", "ana@example.com", "cuidadomaisfamilia://reset-password?token=raw-token").Return(nil)
	m.identity.On("CreatePasswordReset", mock.Anything, "nobody@example.com").
		Return(nil, "", autherr.New(autherr.KindUserNotFound))

	rec := testutil.DoJSON(app, http.MethodPost, "/auth/password-reset", dto.PasswordResetRequest{Email: "ana@example.com"}, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = testutil.DoJSON(app, http.MethodPost, "/auth/password-reset", dto.PasswordResetRequest{Email: "nobody@example.com"}, "")
	assert.Equal(t, "user-not-found", testutil.DecodeError(t, rec).Code)
	m.email.AssertExpectations(t)
}

func TestAuthHandler_ConfirmPasswordReset(t *testing.T) {
	m, app, _ := setupAuthTest(t)
	userID := uuid.New()

	m.identity.On("ConfirmPasswordReset", mock.Anything, "good", "nova-senha").Return(userID, nil)
	m.identity.On("ConfirmPasswordReset", mock.Anything, "spent", "nova-senha").
		Return(uuid.Nil, autherr.New(autherr.KindInvalidToken))
	m.tokens.On("RevokeAllUserTokens", mock.Anything, userID).Return(nil)
	m.publisher.On("Publish", mock.Anything, dto.SessionEvent{Type: dto.EventRevoked, UserID: userID}).Return(nil)

	rec := testutil.DoJSON(app, http.MethodPost, "/auth/password-reset/confirm", dto.PasswordResetConfirmRequest{Token: "good", NewPassword: "nova-senha"}, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = testutil.DoJSON(app, http.MethodPost, "/auth/password-reset/confirm", dto.PasswordResetConfirmRequest{Token: "spent", NewPassword: "nova-senha"}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid-token", testutil.DecodeError(t, rec).Code)
	m.publisher.AssertExpectations(t)
}

func TestAuthHandler_ChangePassword(t *testing.T) {
	m, app, jwtSvc := setupAuthTest(t)
	userID := uuid.New()
	fresh := testutil.GenerateSessionToken(t, jwtSvc, services.TokenSubject{UserID: userID, SessionID: uuid.New(), AuthTime: time.Now()})
	stale := testutil.GenerateSessionToken(t, jwtSvc, services.TokenSubject{UserID: userID, SessionID: uuid.New(), AuthTime: time.Now().Add(-time.Hour)})

	m.identity.On("ChangePassword", mock.Anything, userID, "segredo", "nova-senha").Return(nil)
	m.identity.On("ChangePassword", mock.Anything, userID, "errada", "nova-senha").
		Return(autherr.New(autherr.KindWrongPassword))

	rec := testutil.DoJSON(app, http.MethodPost, "/auth/password", dto.ChangePasswordRequest{CurrentPassword: "segredo", NewPassword: "nova-senha"}, stale)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "requires-recent-login", testutil.DecodeError(t, rec).Code)

	rec = testutil.DoJSON(app, http.MethodPost, "/auth/password", dto.ChangePasswordRequest{CurrentPassword: "segredo", NewPassword: "nova-senha"}, fresh)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = testutil.DoJSON(app, http.MethodPost, "/auth/password", dto.ChangePasswordRequest{CurrentPassword: "errada", NewPassword: "nova-senha"}, fresh)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "wrong-password", testutil.DecodeError(t, rec).Code)
	m.identity.AssertNumberOfCalls(t, "ChangePassword", 2)
}
