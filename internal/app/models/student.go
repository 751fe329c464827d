package models

import "time"

// Student defines a roster entry based on the 'students' table.
//
// AccessToken together with IsAccessUsed implements the one-time access
// protocol: at most one non-consumed token value is redeemable per student
// at any time. Issuing or resetting overwrites the previous value, so an
// old link can never authenticate again.
type Student struct {
	ID           int64      `json:"id" db:"id"`
	Name         string     `json:"name" db:"name"`
	Email        string     `json:"email" db:"email"`
	Progress     int        `json:"progress" db:"progress"`
	LastActive   *time.Time `json:"lastActive,omitempty" db:"last_active"`
	AccessToken  string     `json:"accessToken" db:"access_token"`
	IsAccessUsed bool       `json:"isAccessUsed" db:"is_access_used"`
	CreatedAt    time.Time  `json:"createdAt" db:"created_at"`
}

// AccessInfo is the identity subset returned by token validation, enough to
// render a verification prompt without granting access yet.
type AccessInfo struct {
	StudentID int64  `json:"studentId"`
	Name      string `json:"name"`
	Email     string `json:"email"`
}
