package models

import "time"

// User defines an administrator account based on the 'users' table.
// Students never get one of these; they enter through access tokens.
type User struct {
	ID        int64     `json:"id" db:"id"`
	Email     string    `json:"email" db:"email"`
	Password  string    `json:"-" db:"password"` // bcrypt hash, excluded from JSON
	FullName  string    `json:"fullName" db:"full_name"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
