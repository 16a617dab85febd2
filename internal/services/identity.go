package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/cuidadomaisfamilia/cuidado-api/internal/database"
	"github.com/cuidadomaisfamilia/cuidado-api/internal/models"
	"github.com/cuidadomaisfamilia/cuidado-api/pkg/autherr"
	"github.com/cuidadomaisfamilia/cuidado-api/pkg/identity"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"
)

const (
	MinPasswordLength = 6

	uniqueViolation = "23505"
)

// IdentityService owns credentials: registration, password sign-in,
// password change and reset.
type IdentityService struct {
	db          *database.DB
	cost        int
	resetExpiry time.Duration
}

func NewIdentityService(db *database.DB, resetExpiry time.Duration) *IdentityService {
	return &IdentityService{
		db:          db,
		cost:        bcrypt.DefaultCost,
		resetExpiry: resetExpiry,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func checkEmail(email string) error {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return autherr.New(autherr.KindInvalidEmail)
	}
	return nil
}

func checkPassword(password string) error {
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return autherr.New(autherr.KindWeakPassword)
	}
	return nil
}

// Register creates the identity and its "user" role record together.
func (s *IdentityService) Register(ctx context.Context, email, password, displayName string) (*models.User, error) {
	email = normalizeEmail(email)
	if err := checkEmail(email); err != nil {
		return nil, err
	}
	if err := checkPassword(password); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	var name *string
	if n := strings.TrimSpace(displayName); n != "" {
		name = &n
	}

	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	user, err := scanUser(tx.QueryRow(ctx, `
		INSERT INTO users (email, password_hash, display_name)
		VALUES ($1, $2, $3)
		RETURNING `+userColumns,
		email, string(hash), name))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, autherr.New(autherr.KindEmailAlreadyInUse)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO user_roles (user_id, role) VALUES ($1, $2)
	`, user.ID, identity.RoleValueUser); err != nil {
		return nil, fmt.Errorf("failed to create role: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate checks an e-mail and password pair.
func (s *IdentityService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	email = normalizeEmail(email)
	if err := checkEmail(email); err != nil {
		return nil, err
	}

	user, err := scanUser(s.db.Pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users WHERE email = $1
	`, email))
	if errors.Is(err, ErrUserNotFound) {
		return nil, autherr.Wrap(autherr.KindUserNotFound, err)
	}
	if err != nil {
		return nil, err
	}

	if user.Disabled {
		return nil, autherr.New(autherr.KindUserDisabled)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, autherr.New(autherr.KindWrongPassword)
	}
	return user, nil
}

// ChangePassword replaces the password after checking the current one.
func (s *IdentityService) ChangePassword(ctx context.Context, userID uuid.UUID, current, next string) error {
	var hash string
	err := s.db.Pool.QueryRow(ctx, `SELECT password_hash FROM users WHERE id = $1`, userID).Scan(&hash)
	if errors.Is(err, pgx.ErrNoRows) {
		return autherr.Wrap(autherr.KindUserNotFound, ErrUserNotFound)
	}
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(current)); err != nil {
		return autherr.New(autherr.KindWrongPassword)
	}
	if err := checkPassword(next); err != nil {
		return err
	}

	newHash, err := bcrypt.GenerateFromPassword([]byte(next), s.cost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	_, err = s.db.Pool.Exec(ctx, `
		UPDATE users SET password_hash = $1, updated_at = NOW() WHERE id = $2
	`, string(newHash), userID)
	return err
}

// CreatePasswordReset issues a one-time reset token for the e-mail. The raw
// token is returned for delivery; only its hash is stored.
func (s *IdentityService) CreatePasswordReset(ctx context.Context, email string) (*models.User, string, error) {
	email = normalizeEmail(email)
	if err := checkEmail(email); err != nil {
		return nil, "", err
	}

	user, err := scanUser(s.db.Pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users WHERE email = $1
	`, email))
	if errors.Is(err, ErrUserNotFound) {
		return nil, "", autherr.Wrap(autherr.KindUserNotFound, err)
	}
	if err != nil {
		return nil, "", err
	}
	if user.Disabled {
		return nil, "", autherr.New(autherr.KindUserDisabled)
	}

	token, err := randomToken()
	if err != nil {
		return nil, "", err
	}

	_, err = s.db.Pool.Exec(ctx, `
		INSERT INTO password_resets (user_id, token_hash, expires_at)
		VALUES ($1, $2, $3)
	`, user.ID, HashToken(token), time.Now().Add(s.resetExpiry))
	if err != nil {
		return nil, "", fmt.Errorf("failed to store reset token: %w", err)
	}

	return user, token, nil
}

// ConfirmPasswordReset spends a reset token and sets the new password. It
// returns the user whose password changed.
func (s *IdentityService) ConfirmPasswordReset(ctx context.Context, token, newPassword string) (uuid.UUID, error) {
	if err := checkPassword(newPassword); err != nil {
		return uuid.Nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.cost)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to hash password: %w", err)
	}

	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return uuid.Nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var userID uuid.UUID
	err = tx.QueryRow(ctx, `
		UPDATE password_resets SET used_at = NOW()
		WHERE token_hash = $1 AND used_at IS NULL AND expires_at > NOW()
		RETURNING user_id
	`, HashToken(token)).Scan(&userID)
	if errors.Is(err, pgx.ErrNoRows) {
		return uuid.Nil, autherr.New(autherr.KindInvalidToken)
	}
	if err != nil {
		return uuid.Nil, err
	}

	if _, err := tx.Exec(ctx, `
		UPDATE users SET password_hash = $1, updated_at = NOW() WHERE id = $2
	`, string(hash), userID); err != nil {
		return uuid.Nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return uuid.Nil, err
	}
	return userID, nil
}

func randomToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return hex.EncodeToString(b), nil
}
