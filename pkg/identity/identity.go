// Package identity holds the identity and role types shared by the server,
// the client SDK and the session core.
package identity

// Identity is an authenticated principal as reported by the identity provider.
// ID is stable for the lifetime of a session; the optional fields change only
// through explicit profile updates.
type Identity struct {
	ID          string  `json:"id"`
	Email       *string `json:"email,omitempty"`
	DisplayName *string `json:"display_name,omitempty"`
	AvatarURL   *string `json:"avatar_url,omitempty"`
}

// SameAs reports whether both identities refer to the same principal.
// Two nil identities are the same; nil and non-nil are not.
func (i *Identity) SameAs(other *Identity) bool {
	if i == nil || other == nil {
		return i == nil && other == nil
	}
	return i.ID == other.ID
}
