package services

import (
	"context"
	"errors"

	"github.com/cuidadomaisfamilia/cuidado-api/internal/database"
	"github.com/cuidadomaisfamilia/cuidado-api/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const userColumns = `id, email, password_hash, display_name, avatar_url, disabled, created_at, updated_at`

type UserService struct {
	db *database.DB
}

func NewUserService(db *database.DB) *UserService {
	return &UserService{db: db}
}

func scanUser(row pgx.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.DisplayName,
		&user.AvatarURL, &user.Disabled, &user.CreatedAt, &user.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return scanUser(s.db.Pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users WHERE id = $1
	`, id))
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return scanUser(s.db.Pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users WHERE email = $1
	`, normalizeEmail(email)))
}

// UpdateProfile sets the display name and avatar. Nil or empty values keep
// what is stored.
func (s *UserService) UpdateProfile(ctx context.Context, id uuid.UUID, displayName, avatarURL *string) (*models.User, error) {
	return scanUser(s.db.Pool.QueryRow(ctx, `
		UPDATE users
		SET display_name = COALESCE(NULLIF($1, ''), display_name),
			avatar_url = COALESCE(NULLIF($2, ''), avatar_url),
			updated_at = NOW()
		WHERE id = $3
		RETURNING `+userColumns,
		displayName, avatarURL, id))
}

// SetDisabled blocks or unblocks sign-in for the user.
func (s *UserService) SetDisabled(ctx context.Context, id uuid.UUID, disabled bool) error {
	tag, err := s.db.Pool.Exec(ctx, `
		UPDATE users SET disabled = $1, updated_at = NOW() WHERE id = $2
	`, disabled, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}
