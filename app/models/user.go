package models

import (
	"time"
)

// UserMetadata is the free-form identity metadata carried by a principal.
// Role, when present, wins over the users table.
type UserMetadata struct {
	Role string `json:"role,omitempty"`
}

// AuthUser is an identity known to the auth provider.
type AuthUser struct {
	ID           string       `gorm:"size:36;not null;uniqueIndex;primary_key" json:"id"`
	Email        string       `gorm:"size:100;not null;uniqueIndex" json:"email"`
	PasswordHash string       `gorm:"size:255;not null" json:"-"`
	Metadata     UserMetadata `gorm:"type:text;serializer:json" json:"user_metadata"`
	LastSignInAt *time.Time   `json:"last_sign_in_at"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`

	// StoredRole is the users table role, filled in by admin listings.
	StoredRole string `gorm:"-" json:"-"`
}

func (AuthUser) TableName() string {
	return "auth_users"
}

// User is the optional public profile row whose role column is consulted
// when the identity metadata has no role.
type User struct {
	ID        string    `gorm:"size:36;not null;uniqueIndex;primary_key" json:"id"`
	Email     string    `gorm:"size:100" json:"email"`
	Role      string    `gorm:"size:20;not null" json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
