package model

import (
	"time"
)

const (
	RoleUser   = "User"
	RoleAdmin  = "Admin"
	RoleEditor = "Editor"
	RoleViewer = "Viewer"
)

func ValidRole(role string) bool {
	switch role {
	case RoleUser, RoleAdmin, RoleEditor, RoleViewer:
		return true
	}
	return false
}

type User struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	Handle       string `json:"handle"`
	PasswordHash string `json:"-"` // Not exposed
	Role         string `json:"role"`
	Provider     string `json:"provider"`

	// ResetToken and ResetTokenExpiry are set together on a reset request
	// and cleared together on completion. Expiry is lazy: rows keep stale
	// tokens until the next lookup filters them out.
	ResetToken       *string    `json:"-"`
	ResetTokenExpiry *time.Time `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
