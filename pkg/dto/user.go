package dto

import (
	"github.com/cuidadomaisfamilia/cuidado-api/pkg/identity"
	"github.com/google/uuid"
)

type UserResponse struct {
	ID          uuid.UUID     `json:"id"`
	Email       string        `json:"email"`
	DisplayName *string       `json:"display_name,omitempty"`
	AvatarURL   *string       `json:"avatar_url,omitempty"`
	Role        identity.Role `json:"role"`
}

func (u UserResponse) Identity() *identity.Identity {
	email := u.Email
	return &identity.Identity{
		ID:          u.ID.String(),
		Email:       &email,
		DisplayName: u.DisplayName,
		AvatarURL:   u.AvatarURL,
	}
}

// UpdateUserRequest updates the profile. Absent or empty values keep the
// current ones.
type UpdateUserRequest struct {
	DisplayName *string `json:"display_name,omitempty"`
	AvatarURL   *string `json:"avatar_url,omitempty"`
}

type RoleResponse struct {
	UserID uuid.UUID     `json:"user_id"`
	Role   identity.Role `json:"role"`
}
