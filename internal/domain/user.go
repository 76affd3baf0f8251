package domain

import "time"

// User is a registered volunteer. Created on first registration (idempotent
// by name) and immutable afterwards; history and reset rows reference users
// but never own them.
type User struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
