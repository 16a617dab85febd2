package services

import (
	"context"
	"errors"

	"github.com/cuidadomaisfamilia/cuidado-api/internal/database"
	"github.com/cuidadomaisfamilia/cuidado-api/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type TokenService struct {
	db *database.DB
}

func NewTokenService(db *database.DB) *TokenService {
	return &TokenService{db: db}
}

func (s *TokenService) StoreRefreshToken(ctx context.Context, token *models.RefreshToken) error {
	_, err := s.db.Pool.Exec(ctx, `
		INSERT INTO refresh_tokens (user_id, session_id, token_hash, auth_time, expires_at)
		VALUES ($1, $2, $3, $4, $5)
	`, token.UserID, token.SessionID, token.TokenHash, token.AuthTime, token.ExpiresAt)
	return err
}

// RevokeRefreshToken deletes the token and returns what it belonged to. It
// is the single consume step of a refresh, so a token can be spent only once.
func (s *TokenService) RevokeRefreshToken(ctx context.Context, tokenHash string) (*models.RefreshToken, error) {
	var token models.RefreshToken
	err := s.db.Pool.QueryRow(ctx, `
		DELETE FROM refresh_tokens WHERE token_hash = $1
		RETURNING id, user_id, session_id, token_hash, auth_time, expires_at
	`, tokenHash).Scan(
		&token.ID, &token.UserID, &token.SessionID, &token.TokenHash, &token.AuthTime, &token.ExpiresAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrTokenNotFound
	}
	if err != nil {
		return nil, err
	}
	return &token, nil
}

func (s *TokenService) RevokeAllUserTokens(ctx context.Context, userID uuid.UUID) error {
	_, err := s.db.Pool.Exec(ctx, `DELETE FROM refresh_tokens WHERE user_id = $1`, userID)
	return err
}

// CleanupExpired drops expired refresh tokens and spent or expired password
// reset tokens.
func (s *TokenService) CleanupExpired(ctx context.Context) error {
	if _, err := s.db.Pool.Exec(ctx, `DELETE FROM refresh_tokens WHERE expires_at < NOW()`); err != nil {
		return err
	}
	_, err := s.db.Pool.Exec(ctx, `DELETE FROM password_resets WHERE expires_at < NOW() OR used_at IS NOT NULL`)
	return err
}
