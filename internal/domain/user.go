package domain

import "time"

// AuthProvider identifies how an account proves its identity.
type AuthProvider string

const (
	AuthProviderLocal  AuthProvider = "local"
	AuthProviderGoogle AuthProvider = "google"
)

// User represents an account row. PasswordHash is set only for local-provider
// accounts; GoogleID is set once the account completed Google sign-in.
type User struct {
	ID           int64        `json:"id" db:"id"`
	Email        string       `json:"email" db:"email"`
	PasswordHash *string      `json:"-" db:"password_hash"`
	FirstName    string       `json:"first_name" db:"first_name"`
	LastName     string       `json:"last_name" db:"last_name"`
	GoogleID     *string      `json:"-" db:"google_id"`
	AuthProvider AuthProvider `json:"auth_provider" db:"auth_provider"`
	CreatedAt    time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at" db:"updated_at"`
}

// UserSummary is the public view of a user returned by auth endpoints and
// embedded in the OAuth callback redirect.
type UserSummary struct {
	ID           int64        `json:"id"`
	Email        string       `json:"email"`
	FirstName    string       `json:"firstName"`
	LastName     string       `json:"lastName"`
	AuthProvider AuthProvider `json:"authProvider"`
}

// Summary returns the public view of the user.
func (u User) Summary() UserSummary {
	return UserSummary{
		ID:           u.ID,
		Email:        u.Email,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		AuthProvider: u.AuthProvider,
	}
}
