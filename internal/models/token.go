package models

import (
	"time"

	"github.com/google/uuid"
)

// RefreshToken is a stored refresh token. SessionID stays the same across
// rotations so that one sign-in can be addressed as a whole.
type RefreshToken struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	SessionID uuid.UUID
	TokenHash string
	AuthTime  time.Time
	ExpiresAt time.Time
}
