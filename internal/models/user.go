// Package models defines the data structures that map to database
// collections and provides the core types used throughout the application.
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role represents a user's permission level in the system.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// DefaultAvatar is the avatar filename assigned to new accounts.
const DefaultAvatar = "default-avatar.jpg"

// User represents a registered account with authentication and optional
// TOTP second-factor fields.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"password" json:"-"` // Never serialize the hash
	Avatar       string             `bson:"avatar" json:"avatar"`
	Bio          string             `bson:"bio,omitempty" json:"bio,omitempty"`
	Role         Role               `bson:"role" json:"role"`
	IsActive     bool               `bson:"isActive" json:"isActive"`
	LastLogin    *time.Time         `bson:"lastLogin,omitempty" json:"lastLogin,omitempty"`
	TOTPSecret   *string            `bson:"totpSecret,omitempty" json:"-"` // Nullable; set during 2FA setup
	TOTPEnabled  bool               `bson:"totpEnabled" json:"totpEnabled"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// IsAdmin returns true if the user has the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// PublicProfile is the projection of a user safe to return to clients.
// It never includes the password hash or TOTP secret.
type PublicProfile struct {
	ID        primitive.ObjectID `json:"id"`
	Name      string             `json:"name"`
	Email     string             `json:"email"`
	Avatar    string             `json:"avatar"`
	Bio       string             `json:"bio,omitempty"`
	Role      Role               `json:"role"`
	CreatedAt time.Time          `json:"createdAt"`
}

// Public projects out the password hash and internal fields.
func (u *User) Public() PublicProfile {
	return PublicProfile{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Avatar:    u.Avatar,
		Bio:       u.Bio,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}

// AuthorRef is the minimal author projection embedded in post and comment
// responses.
type AuthorRef struct {
	ID     primitive.ObjectID `json:"id"`
	Name   string             `json:"name"`
	Avatar string             `json:"avatar"`
}

// Ref returns the minimal author projection for embedding in responses.
func (u *User) Ref() AuthorRef {
	return AuthorRef{ID: u.ID, Name: u.Name, Avatar: u.Avatar}
}
