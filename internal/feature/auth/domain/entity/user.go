// Package entity defines the domain entities for the auth feature.
package entity

import (
	"strings"
	"time"
)

// User represents a registered account in the identity store.
type User struct {
	// ID is an opaque identifier (UUID string).
	ID string `gorm:"primaryKey;size:36"`

	UserName string `gorm:"size:256"`
	// NormalizedUserName is the upper-cased user name used for lookups. It is unique.
	NormalizedUserName string `gorm:"size:256;uniqueIndex"`

	Email           string `gorm:"size:256"`
	NormalizedEmail string `gorm:"size:256;index"`
	EmailConfirmed  bool

	// PasswordHash stores an argon2id (or legacy bcrypt) hash, never plaintext.
	PasswordHash string `gorm:"size:512"`

	FirstName string `gorm:"size:256"`
	LastName  string `gorm:"size:256"`

	SecurityStamp    string `gorm:"size:64"`
	ConcurrencyStamp string `gorm:"size:64"`

	PhoneNumber          string `gorm:"size:64"`
	PhoneNumberConfirmed bool
	TwoFactorEnabled     bool

	LockoutEnd        *time.Time
	LockoutEnabled    bool
	AccessFailedCount int

	CreatedAt time.Time
	UpdatedAt time.Time

	Claims []UserClaim `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// IsLockedOut reports whether lockout applies at now.
func (u *User) IsLockedOut(now time.Time) bool {
	return u.LockoutEnabled && u.LockoutEnd != nil && u.LockoutEnd.After(now)
}

// Normalize upper-cases a user name or email for lookup.
func Normalize(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// UserClaim is a (type, value) pair attached to a user and copied into issued tokens.
type UserClaim struct {
	ID         uint   `gorm:"primaryKey"`
	UserID     string `gorm:"size:36;index;not null"`
	ClaimType  string `gorm:"size:256;not null"`
	ClaimValue string `gorm:"size:1024"`
}

type Role struct {
	ID               string `gorm:"primaryKey;size:36"`
	Name             string `gorm:"size:256"`
	NormalizedName   string `gorm:"size:256;uniqueIndex"`
	ConcurrencyStamp string `gorm:"size:64"`
}

// UserRole is the membership join between users and roles.
type UserRole struct {
	UserID string `gorm:"primaryKey;size:36"`
	RoleID string `gorm:"primaryKey;size:36"`
}

// UserLogin links a user to an external login provider.
type UserLogin struct {
	LoginProvider       string `gorm:"primaryKey;size:128"`
	ProviderKey         string `gorm:"primaryKey;size:128"`
	ProviderDisplayName string `gorm:"size:256"`
	UserID              string `gorm:"size:36;index;not null"`
}
