package client

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/cuidadomaisfamilia/cuidado-api/pkg/dto"
	"github.com/cuidadomaisfamilia/cuidado-api/pkg/identity"
)

// SignUp creates the account, signs it in and announces the new session.
func (c *Client) SignUp(ctx context.Context, email, password, displayName string) (*identity.Identity, error) {
	var resp dto.AuthResponse
	err := c.send(ctx, http.MethodPost, "/auth/register", dto.RegisterRequest{
		Email:       email,
		Password:    password,
		DisplayName: displayName,
	}, &resp, "")
	if err != nil {
		return nil, err
	}
	return c.startSession(resp)
}

func (c *Client) SignIn(ctx context.Context, email, password string) (*identity.Identity, error) {
	var resp dto.AuthResponse
	err := c.send(ctx, http.MethodPost, "/auth/login", dto.LoginRequest{Email: email, Password: password}, &resp, "")
	if err != nil {
		return nil, err
	}
	return c.startSession(resp)
}

// startSession stores the tokens and emits the signed-in identity. The
// server does not publish sign-ins, so this is where they originate.
func (c *Client) startSession(resp dto.AuthResponse) (*identity.Identity, error) {
	if err := c.saveSession(resp.User, resp.TokenResponse); err != nil {
		return nil, err
	}
	id := resp.User.Identity()
	c.emit(id)
	return id, nil
}

// SignOut ends this session. The local session is dropped even when the
// server cannot be reached.
func (c *Client) SignOut(ctx context.Context) error {
	tokens, err := c.tokens.Load()
	if err != nil {
		return err
	}
	if tokens == nil {
		return nil
	}

	err = c.send(ctx, http.MethodPost, "/auth/logout", dto.RefreshTokenRequest{RefreshToken: tokens.RefreshToken}, nil, "")
	if err != nil {
		c.logger.Warn().Err(err).Msg("server logout failed, dropping local session anyway")
	}
	c.invalidate()
	return nil
}

// SignOutEverywhere revokes every session of the account.
func (c *Client) SignOutEverywhere(ctx context.Context) error {
	if err := c.authed(ctx, http.MethodPost, "/auth/logout-all", nil, nil); err != nil {
		return err
	}
	c.invalidate()
	return nil
}

func (c *Client) SendPasswordReset(ctx context.Context, email string) error {
	return c.send(ctx, http.MethodPost, "/auth/password-reset", dto.PasswordResetRequest{Email: email}, nil, "")
}

func (c *Client) ConfirmPasswordReset(ctx context.Context, token, newPassword string) error {
	return c.send(ctx, http.MethodPost, "/auth/password-reset/confirm", dto.PasswordResetConfirmRequest{
		Token:       token,
		NewPassword: newPassword,
	}, nil, "")
}

// ChangePassword fails with autherr.KindRequiresRecentLogin when the session
// was not started recently enough.
func (c *Client) ChangePassword(ctx context.Context, current, next string) error {
	return c.authed(ctx, http.MethodPost, "/auth/password", dto.ChangePasswordRequest{
		CurrentPassword: current,
		NewPassword:     next,
	}, nil)
}

func (c *Client) Me(ctx context.Context) (*dto.UserResponse, error) {
	var user dto.UserResponse
	if err := c.authed(ctx, http.MethodGet, "/users/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateProfile changes the display name and avatar; nil or empty values
// keep the current ones. Listeners receive the updated identity.
func (c *Client) UpdateProfile(ctx context.Context, displayName, avatarURL *string) (*dto.UserResponse, error) {
	var user dto.UserResponse
	err := c.authed(ctx, http.MethodPatch, "/users/me", dto.UpdateUserRequest{
		DisplayName: displayName,
		AvatarURL:   avatarURL,
	}, &user)
	if err != nil {
		return nil, err
	}
	c.emit(user.Identity())
	return &user, nil
}

// CurrentIdentity returns the signed-in identity, or nil when there is no
// usable stored session.
func (c *Client) CurrentIdentity(ctx context.Context) (*identity.Identity, error) {
	user, err := c.Me(ctx)
	if isSessionGone(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return user.Identity(), nil
}

// FetchRole reads the role record of the identity. A missing record is
// identity.RoleUnknown with a nil error.
func (c *Client) FetchRole(ctx context.Context, identityID string) (identity.Role, error) {
	var resp dto.RoleResponse
	err := c.authed(ctx, http.MethodGet, "/users/"+url.PathEscape(identityID)+"/role", nil, &resp)
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
		return identity.RoleUnknown, nil
	}
	if err != nil {
		return identity.RoleUnknown, err
	}
	return resp.Role, nil
}
