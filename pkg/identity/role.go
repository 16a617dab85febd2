package identity

import "encoding/json"

// Role is the authorization label stored separately from the identity record.
// RoleUnknown stands for an absent role record and is kept distinct from
// RoleUser even though both are non-admin.
type Role int

const (
	RoleUnknown Role = iota
	RoleUser
	RoleAdmin
)

// Stored values of the role record.
const (
	RoleValueUser  = "user"
	RoleValueAdmin = "admin"
)

// ParseRole maps a stored role value to a Role. Anything unrecognised,
// including the empty string, is RoleUnknown.
func ParseRole(value string) Role {
	switch value {
	case RoleValueAdmin:
		return RoleAdmin
	case RoleValueUser:
		return RoleUser
	default:
		return RoleUnknown
	}
}

// String returns the stored value, or "" for RoleUnknown.
func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return RoleValueAdmin
	case RoleUser:
		return RoleValueUser
	default:
		return ""
	}
}

// Known reports whether a role record was present.
func (r Role) Known() bool {
	return r == RoleUser || r == RoleAdmin
}

// Label is the badge shown on the profile screen.
func (r Role) Label() string {
	if r == RoleAdmin {
		return "Administrador"
	}
	return "Usuário"
}

// MarshalJSON encodes RoleUnknown as null.
func (r Role) MarshalJSON() ([]byte, error) {
	if !r.Known() {
		return []byte("null"), nil
	}
	return json.Marshal(r.String())
}

// UnmarshalJSON accepts null or a stored role value.
func (r *Role) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*r = RoleUnknown
		return nil
	}
	var value string
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}
	*r = ParseRole(value)
	return nil
}

// Classification is what the UI derives from a role.
type Classification struct {
	IsAdmin bool
}

// Classify derives UI permissions from a role. Only RoleAdmin is admin.
func Classify(r Role) Classification {
	return Classification{IsAdmin: r == RoleAdmin}
}
