// Package models defines the data structures that map to database tables
// and provides the core types used throughout the application.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Admin is a back-office account with full write access to content.
// Admins are created through the environment-gated setup endpoint and
// are never deleted in-app.
type Admin struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"` // Never serialize the hash
	TOTPSecret   *string   `json:"-"` // Nullable; set during 2FA setup
	TOTPEnabled  bool      `json:"totp_enabled"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Needs2FA reports whether this admin must supply a TOTP code at login.
func (a *Admin) Needs2FA() bool {
	return a.TOTPEnabled
}

// User is a reader account. A user always has at least one credential
// path: a local password hash, a linked Google account, or a
// Firebase-verified signup.
type User struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone,omitempty"`
	Designation  string    `json:"designation,omitempty"`
	PasswordHash *string   `json:"-"` // Nullable when googleId/firebaseUid present
	GoogleID     *string   `json:"-"`
	FirebaseUID  *string   `json:"-"`
	IsVerified   bool      `json:"is_verified"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// HasCredential reports whether the user satisfies the at-least-one
// credential-path invariant.
func (u *User) HasCredential() bool {
	return u.PasswordHash != nil || u.GoogleID != nil || u.FirebaseUID != nil
}
