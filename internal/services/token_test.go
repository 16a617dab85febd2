package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cuidadomaisfamilia/cuidado-api/internal/database"
	"github.com/cuidadomaisfamilia/cuidado-api/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var refreshTokenColumns = []string{"id", "user_id", "session_id", "token_hash", "auth_time", "expires_at"}

func setupTokenService(t *testing.T) (*TokenService, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	db := &database.DB{Pool: mock}
	return NewTokenService(db), mock
}

func TestTokenService_StoreRefreshToken(t *testing.T) {
	svc, mock := setupTokenService(t)
	ctx := context.Background()
	token := &models.RefreshToken{
		UserID:    uuid.New(),
		SessionID: uuid.New(),
		TokenHash: "abc123hash",
		AuthTime:  time.Now(),
		ExpiresAt: time.Now().Add(24 * time.Hour),
	}

	mock.ExpectExec(`INSERT INTO refresh_tokens`).
		WithArgs(token.UserID, token.SessionID, token.TokenHash, token.AuthTime, token.ExpiresAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := svc.StoreRefreshToken(ctx, token)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTokenService_RevokeRefreshToken(t *testing.T) {
	svc, mock := setupTokenService(t)
	userID, sessionID := uuid.New(), uuid.New()

	rows := pgxmock.NewRows(refreshTokenColumns).
		AddRow(uuid.New(), userID, sessionID, "hash", time.Now(), time.Now().Add(time.Hour))
	mock.ExpectQuery(`DELETE FROM refresh_tokens WHERE token_hash`).
		WithArgs("hash").
		WillReturnRows(rows)

	token, err := svc.RevokeRefreshToken(context.Background(), "hash")

	require.NoError(t, err)
	assert.Equal(t, sessionID, token.SessionID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTokenService_RevokeRefreshToken_Unknown(t *testing.T) {
	svc, mock := setupTokenService(t)

	mock.ExpectQuery(`DELETE FROM refresh_tokens WHERE token_hash`).
		WithArgs("gone").
		WillReturnError(pgx.ErrNoRows)

	_, err := svc.RevokeRefreshToken(context.Background(), "gone")

	assert.ErrorIs(t, err, ErrTokenNotFound)
}

func TestTokenService_RevokeAllUserTokens(t *testing.T) {
	svc, mock := setupTokenService(t)
	userID := uuid.New()

	mock.ExpectExec(`DELETE FROM refresh_tokens WHERE user_id`).
		WithArgs(userID).
		WillReturnResult(pgxmock.NewResult("DELETE", 3))

	err := svc.RevokeAllUserTokens(context.Background(), userID)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTokenService_CleanupExpired(t *testing.T) {
	svc, mock := setupTokenService(t)

	mock.ExpectExec(`DELETE FROM refresh_tokens WHERE expires_at`).
		WillReturnResult(pgxmock.NewResult("DELETE", 10))
	mock.ExpectExec(`DELETE FROM password_resets`).
		WillReturnResult(pgxmock.NewResult("DELETE", 2))

	err := svc.CleanupExpired(context.Background())

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTokenService_CleanupExpired_StopsOnError(t *testing.T) {
	svc, mock := setupTokenService(t)

	mock.ExpectExec(`DELETE FROM refresh_tokens WHERE expires_at`).
		WillReturnError(errors.New("connection reset"))

	err := svc.CleanupExpired(context.Background())

	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
