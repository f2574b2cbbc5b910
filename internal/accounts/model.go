// Package accounts defines the account data model, the storage repository
// contract, and the create-or-authenticate service shared by the CLI and
// the HTTP server.
package accounts

import (
	"strings"
	"time"
)

// Role is the privilege level associated with an account.
type Role string

const (
	RoleUser      Role = "user"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

// Account is one registered identity. The JSON form is also the persisted
// shape of the current-session pointer, so it includes the verbatim secret.
type Account struct {
	// ID is an opaque unique identifier, stable for the account's lifetime.
	ID string `json:"id"`

	// DisplayName is the username exactly as typed at sign-up. Lower-cased,
	// it doubles as the lookup key (see Key).
	DisplayName string `json:"display_name"`

	// Secret is the credential stored verbatim. Comparison during
	// authentication is byte-for-byte.
	Secret string `json:"secret"`

	// AvatarRef optionally holds embedded image data (a data-URI string).
	AvatarRef string `json:"avatar_ref,omitempty"`

	// Role defaults to RoleUser. RoleAdmin never survives initialization.
	Role Role `json:"role"`

	// Followers and Following are sets of account IDs. No operation in this
	// codebase populates them; they exist for persisted-shape compatibility.
	Followers []string `json:"followers"`
	Following []string `json:"following"`

	// CreatedAt is the account creation time in UTC.
	CreatedAt time.Time `json:"created_at"`
}

// Key returns the account-table lookup key for a username: the lower-cased
// form, so "Alice" and "alice" address the same account.
func Key(username string) string {
	return strings.ToLower(username)
}

// Key returns the lookup key of this account.
func (a *Account) Key() string {
	return Key(a.DisplayName)
}

// PublicAccount is the externally visible projection of an Account.
// It never carries the secret.
type PublicAccount struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"display_name"`
	AvatarRef   string    `json:"avatar_ref,omitempty"`
	Role        Role      `json:"role"`
	Followers   []string  `json:"followers"`
	Following   []string  `json:"following"`
	CreatedAt   time.Time `json:"created_at"`
}

// Public returns the secret-free projection of the account.
func (a *Account) Public() PublicAccount {
	return PublicAccount{
		ID:          a.ID,
		DisplayName: a.DisplayName,
		AvatarRef:   a.AvatarRef,
		Role:        a.Role,
		Followers:   a.Followers,
		Following:   a.Following,
		CreatedAt:   a.CreatedAt,
	}
}
