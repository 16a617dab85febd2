package services

import (
	"context"
	"errors"

	"github.com/cuidadomaisfamilia/cuidado-api/internal/database"
	"github.com/cuidadomaisfamilia/cuidado-api/pkg/identity"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type RoleService struct {
	db *database.DB
}

func NewRoleService(db *database.DB) *RoleService {
	return &RoleService{db: db}
}

// GetRole returns ErrRoleNotFound when the user has no role record. A stored
// value outside the known set comes back as identity.RoleUnknown.
func (s *RoleService) GetRole(ctx context.Context, userID uuid.UUID) (identity.Role, error) {
	var role string
	err := s.db.Pool.QueryRow(ctx, `SELECT role FROM user_roles WHERE user_id = $1`, userID).Scan(&role)
	if errors.Is(err, pgx.ErrNoRows) {
		return identity.RoleUnknown, ErrRoleNotFound
	}
	if err != nil {
		return identity.RoleUnknown, err
	}
	return identity.ParseRole(role), nil
}

func (s *RoleService) IsAdmin(ctx context.Context, userID uuid.UUID) (bool, error) {
	role, err := s.GetRole(ctx, userID)
	if errors.Is(err, ErrRoleNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return identity.Classify(role).IsAdmin, nil
}

func (s *RoleService) SetRole(ctx context.Context, userID uuid.UUID, role identity.Role) error {
	if !role.Known() {
		return ErrInvalidRole
	}
	_, err := s.db.Pool.Exec(ctx, `
		INSERT INTO user_roles (user_id, role)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET role = EXCLUDED.role, updated_at = NOW()
	`, userID, role.String())
	return err
}

// SetRoleByEmail writes the role for the user with the given e-mail and
// returns that user's id.
func (s *RoleService) SetRoleByEmail(ctx context.Context, email string, role identity.Role) (uuid.UUID, error) {
	if !role.Known() {
		return uuid.Nil, ErrInvalidRole
	}
	var userID uuid.UUID
	err := s.db.Pool.QueryRow(ctx, `
		INSERT INTO user_roles (user_id, role)
		SELECT id, $2 FROM users WHERE email = $1
		ON CONFLICT (user_id) DO UPDATE SET role = EXCLUDED.role, updated_at = NOW()
		RETURNING user_id
	`, normalizeEmail(email), role.String()).Scan(&userID)
	if errors.Is(err, pgx.ErrNoRows) {
		return uuid.Nil, ErrUserNotFound
	}
	return userID, err
}
