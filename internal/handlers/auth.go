package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cuidadomaisfamilia/cuidado-api/internal/config"
	"github.com/cuidadomaisfamilia/cuidado-api/internal/metrics"
	"github.com/cuidadomaisfamilia/cuidado-api/internal/middleware"
	"github.com/cuidadomaisfamilia/cuidado-api/internal/models"
	"github.com/cuidadomaisfamilia/cuidado-api/internal/services"
	"github.com/cuidadomaisfamilia/cuidado-api/pkg/autherr"
	"github.com/cuidadomaisfamilia/cuidado-api/pkg/dto"
	"github.com/cuidadomaisfamilia/cuidado-api/pkg/identity"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/rs/zerolog/log"
)

type AuthHandler struct {
	cfg             *config.Config
	identityService IdentityServiceInterface
	userService     UserServiceInterface
	roleService     RoleServiceInterface
	tokenService    TokenServiceInterface
	jwtService      JWTServiceInterface
	emailService    EmailServiceInterface
	notifier        *Notifier
	metrics         *metrics.Metrics
	now             func() time.Time
}

func NewAuthHandler(
	cfg *config.Config,
	identityService IdentityServiceInterface,
	userService UserServiceInterface,
	roleService RoleServiceInterface,
	tokenService TokenServiceInterface,
	jwtService JWTServiceInterface,
	emailService EmailServiceInterface,
	notifier *Notifier,
	m *metrics.Metrics,
) *AuthHandler {
	return &AuthHandler{
		cfg:             cfg,
		identityService: identityService,
		userService:     userService,
		roleService:     roleService,
		tokenService:    tokenService,
		jwtService:      jwtService,
		emailService:    emailService,
		notifier:        notifier,
		metrics:         m,
		now:             time.Now,
	}
}

func outcome(err error) string {
	if err == nil {
		return "ok"
	}
	if kind := autherr.KindOf(err); kind != "" {
		return string(kind)
	}
	return "error"
}

// lookupRole treats a missing record and a failed lookup alike: the session
// still starts, without a role.
func (h *AuthHandler) lookupRole(ctx context.Context, userID uuid.UUID) identity.Role {
	role, err := h.roleService.GetRole(ctx, userID)
	if err != nil && !errors.Is(err, services.ErrRoleNotFound) {
		log.Warn().Err(err).Str("user_id", userID.String()).Msg("role lookup failed during sign-in")
	}
	return role
}

// issueSession signs a token pair for the session and records its refresh
// token.
func (h *AuthHandler) issueSession(ctx context.Context, user *models.User, role identity.Role, sessionID uuid.UUID, authTime time.Time) (*services.TokenPair, error) {
	pair, err := h.jwtService.GenerateTokenPair(services.TokenSubject{
		UserID:    user.ID,
		Email:     user.Email,
		Role:      role.String(),
		SessionID: sessionID,
		AuthTime:  authTime,
	})
	if err != nil {
		return nil, err
	}

	err = h.tokenService.StoreRefreshToken(ctx, &models.RefreshToken{
		UserID:    user.ID,
		SessionID: sessionID,
		TokenHash: services.HashToken(pair.RefreshToken),
		AuthTime:  authTime,
		ExpiresAt: h.now().Add(h.jwtService.RefreshExpiry()),
	})
	if err != nil {
		return nil, err
	}
	return pair, nil
}

func tokenResponse(pair *services.TokenPair) dto.TokenResponse {
	return dto.TokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresIn:    pair.ExpiresIn,
	}
}

func (h *AuthHandler) Register(c *drift.Context) {
	var req dto.RegisterRequest
	if err := c.BindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, CodeBadRequest, "invalid request body")
		return
	}

	ctx := c.Request.Context()

	user, err := h.identityService.Register(ctx, req.Email, req.Password, req.DisplayName)
	h.metrics.AuthAttempt("register", outcome(err))
	if err != nil {
		writeAuthError(c, err)
		return
	}

	pair, err := h.issueSession(ctx, user, identity.RoleUser, uuid.New(), h.now())
	if err != nil {
		writeInternal(c, err, "failed to issue session")
		return
	}

	_ = c.JSON(http.StatusCreated, dto.AuthResponse{
		TokenResponse: tokenResponse(pair),
		User:          userResponse(user, identity.RoleUser),
	})
}

func (h *AuthHandler) Login(c *drift.Context) {
	var req dto.LoginRequest
	if err := c.BindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, CodeBadRequest, "invalid request body")
		return
	}

	ctx := c.Request.Context()

	user, err := h.identityService.Authenticate(ctx, req.Email, req.Password)
	h.metrics.AuthAttempt("login", outcome(err))
	if err != nil {
		writeAuthError(c, err)
		return
	}

	role := h.lookupRole(ctx, user.ID)
	pair, err := h.issueSession(ctx, user, role, uuid.New(), h.now())
	if err != nil {
		writeInternal(c, err, "failed to issue session")
		return
	}

	_ = c.JSON(http.StatusOK, dto.AuthResponse{
		TokenResponse: tokenResponse(pair),
		User:          userResponse(user, role),
	})
}

// RefreshToken spends the presented refresh token and issues a new pair for
// the same session. auth_time carries over unchanged.
func (h *AuthHandler) RefreshToken(c *drift.Context) {
	var req dto.RefreshTokenRequest
	if err := c.BindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, CodeBadRequest, "invalid request body")
		return
	}

	if req.RefreshToken == "" {
		writeError(c, http.StatusBadRequest, CodeBadRequest, "refresh_token is required")
		return
	}

	userID, err := h.jwtService.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		writeError(c, http.StatusUnauthorized, string(autherr.KindInvalidToken), "invalid refresh token")
		return
	}

	ctx := c.Request.Context()

	stored, err := h.tokenService.RevokeRefreshToken(ctx, services.HashToken(req.RefreshToken))
	if errors.Is(err, services.ErrTokenNotFound) {
		writeError(c, http.StatusUnauthorized, string(autherr.KindInvalidToken), "refresh token not found or expired")
		return
	}
	if err != nil {
		writeInternal(c, err, "failed to consume refresh token")
		return
	}
	if stored.UserID != userID || h.now().After(stored.ExpiresAt) {
		writeError(c, http.StatusUnauthorized, string(autherr.KindInvalidToken), "refresh token not found or expired")
		return
	}

	user, err := h.userService.GetByID(ctx, userID)
	if err != nil {
		writeError(c, http.StatusUnauthorized, string(autherr.KindUserNotFound), autherr.Message(autherr.KindUserNotFound))
		return
	}
	if user.Disabled {
		writeAuthError(c, autherr.New(autherr.KindUserDisabled))
		return
	}

	pair, err := h.issueSession(ctx, user, h.lookupRole(ctx, user.ID), stored.SessionID, stored.AuthTime)
	if err != nil {
		writeInternal(c, err, "failed to issue session")
		return
	}

	_ = c.JSON(http.StatusOK, tokenResponse(pair))
}

// Logout ends the session the refresh token belongs to. Unknown tokens are
// not an error.
func (h *AuthHandler) Logout(c *drift.Context) {
	var req dto.RefreshTokenRequest
	if err := c.BindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, CodeBadRequest, "invalid request body")
		return
	}

	if req.RefreshToken != "" {
		ctx := c.Request.Context()
		stored, err := h.tokenService.RevokeRefreshToken(ctx, services.HashToken(req.RefreshToken))
		switch {
		case err == nil:
			h.notifier.Notify(ctx, dto.SessionEvent{
				Type:      dto.EventSignedOut,
				UserID:    stored.UserID,
				SessionID: stored.SessionID,
			})
		case !errors.Is(err, services.ErrTokenNotFound):
			log.Warn().Err(err).Msg("failed to revoke refresh token on logout")
		}
	}

	_ = c.JSON(http.StatusOK, dto.MessageResponse{Message: "logged out"})
}

func (h *AuthHandler) LogoutAll(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	ctx := c.Request.Context()

	if err := h.tokenService.RevokeAllUserTokens(ctx, userID); err != nil {
		writeInternal(c, err, "failed to revoke tokens")
		return
	}
	h.notifier.Notify(ctx, dto.SessionEvent{Type: dto.EventRevoked, UserID: userID})

	_ = c.JSON(http.StatusOK, dto.MessageResponse{Message: "all sessions logged out"})
}

func (h *AuthHandler) resetLink(token string) string {
	sep := "?"
	if strings.Contains(h.cfg.AppResetURL, "?") {
		sep = "&"
	}
	return h.cfg.AppResetURL + sep + "token=" + url.QueryEscape(token)
}

func (h *AuthHandler) RequestPasswordReset(c *drift.Context) {
	var req dto.PasswordResetRequest
	if err := c.BindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, CodeBadRequest, "invalid request body")
		return
	}

	user, token, err := h.identityService.CreatePasswordReset(c.Request.Context(), req.Email)
	if err != nil {
		writeAuthError(c, err)
		return
	}

	if err := h.emailService.SendPasswordReset(user.Email, h.resetLink(token)); err != nil {
		writeInternal(c, err, "failed to send password reset email")
		return
	}

	_ = c.JSON(http.StatusOK, dto.MessageResponse{Message: "E-mail de redefinição de senha enviado."})
}

// ConfirmPasswordReset sets the new password and ends every session of the
// user.
func (h *AuthHandler) ConfirmPasswordReset(c *drift.Context) {
	var req dto.PasswordResetConfirmRequest
	if err := c.BindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, CodeBadRequest, "invalid request body")
		return
	}

	ctx := c.Request.Context()

	userID, err := h.identityService.ConfirmPasswordReset(ctx, req.Token, req.NewPassword)
	if err != nil {
		writeAuthError(c, err)
		return
	}

	if err := h.tokenService.RevokeAllUserTokens(ctx, userID); err != nil {
		log.Warn().Err(err).Str("user_id", userID.String()).Msg("failed to revoke sessions after password reset")
	}
	h.notifier.Notify(ctx, dto.SessionEvent{Type: dto.EventRevoked, UserID: userID})

	_ = c.JSON(http.StatusOK, dto.MessageResponse{Message: "Senha redefinida com sucesso."})
}

func (h *AuthHandler) ChangePassword(c *drift.Context) {
	userID := middleware.GetUserID(c)
	claims := middleware.GetClaims(c)
	if userID == uuid.Nil || claims == nil {
		c.Unauthorized("not authenticated")
		return
	}

	var req dto.ChangePasswordRequest
	if err := c.BindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, CodeBadRequest, "invalid request body")
		return
	}

	if !claims.RecentLogin(h.cfg.RecentLoginWindow, h.now()) {
		writeAuthError(c, autherr.New(autherr.KindRequiresRecentLogin))
		return
	}

	if err := h.identityService.ChangePassword(c.Request.Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		writeAuthError(c, err)
		return
	}

	_ = c.JSON(http.StatusOK, dto.MessageResponse{Message: "Senha alterada com sucesso."})
}
