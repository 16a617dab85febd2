package dto

import (
	"github.com/cuidadomaisfamilia/cuidado-api/pkg/identity"
	"github.com/google/uuid"
)

// Session event types sent on the session event stream.
const (
	EventConnected      = "connected"
	EventSignedIn       = "signed_in"
	EventSignedOut      = "signed_out"
	EventRevoked        = "revoked"
	EventProfileUpdated = "profile_updated"
	EventRoleChanged    = "role_changed"
)

type SessionEvent struct {
	Type   string    `json:"type"`
	UserID uuid.UUID `json:"user_id"`
	// SessionID narrows the event to one signed-in session; uuid.Nil
	// addresses every session of the user.
	SessionID uuid.UUID     `json:"session_id"`
	User      *UserResponse `json:"user,omitempty"`
	Role      identity.Role `json:"role,omitempty"`
}

// EndsSession reports whether the event means the receiving session is over.
func (e SessionEvent) EndsSession() bool {
	return e.Type == EventSignedOut || e.Type == EventRevoked
}
