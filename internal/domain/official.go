package domain

import "time"

// Official represents a public official or executive listed on the site.
type Official struct {
	ID        int64     `json:"id" db:"id"`
	FirstName string    `json:"first_name" db:"first_name"`
	LastName  string    `json:"last_name" db:"last_name"`
	Position  string    `json:"position" db:"position"`
	City      *string   `json:"city,omitempty" db:"city"`
	Bio       *string   `json:"bio,omitempty" db:"bio"`
	Verified  bool      `json:"verified" db:"verified"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
