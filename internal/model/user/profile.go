package user

import "time"

// Profile is the account identity row. Created once per authenticated
// account; only the email is mutable afterwards.
type Profile struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
}
