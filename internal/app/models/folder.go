package models

import "time"

// Folder defines a study-material container based on the 'folders' table.
// The hierarchy is one level deep: folders contain files, never folders.
type Folder struct {
	ID          int64     `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description *string   `json:"description,omitempty" db:"description"`
	Owner       string    `json:"owner" db:"owner"`
	OwnerEmail  string    `json:"ownerEmail" db:"owner_email"`
	OwnerAvatar *string   `json:"ownerAvatar,omitempty" db:"owner_avatar"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}
