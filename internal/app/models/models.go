package models

// RoleType represents a portal role
type RoleType string

const (
	RoleAdmin   RoleType = "admin"
	RoleStudent RoleType = "student"
)

// Session is the explicit identity payload handed to a caller after a
// successful login or token redemption. It replaces any ambient
// "current user" state: every operation that needs an identity receives
// one of these.
type Session struct {
	ID    int64    `json:"id"`
	Name  string   `json:"name"`
	Email string   `json:"email"`
	Role  RoleType `json:"role"`
}
