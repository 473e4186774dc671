package models

import (
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/rs/zerolog/log"
)

// AuthSource represents the authentication source for the owner account.
type AuthSource string

const (
	// AuthSourceLocal indicates the owner authenticates with a local database password.
	AuthSourceLocal AuthSource = "local"
	// AuthSourceOIDC indicates the owner authenticates via OpenID Connect.
	AuthSourceOIDC AuthSource = "oidc"
)

// User is the page owner's account. The application is single-owner: any
// authenticated user may edit and publish; there are no roles or groups.
type User struct {
	// ID is the unique identifier for the user.
	ID uint64 `gorm:"primaryKey"`
	// Active indicates whether the account can log in.
	Active bool
	// Username is the unique username for login.
	Username string `gorm:"unique;size:100;not null"`
	// Email is the owner's email address.
	Email string `gorm:"size:255"`
	// Password is the Argon2id hashed password (local authentication only).
	Password string `gorm:"size:255"`
	// TOTPSecret, when non-empty, requires a valid TOTP code at login.
	TOTPSecret string `gorm:"size:64"`
	// AuthSource indicates how this user authenticates (local or oidc).
	AuthSource AuthSource `gorm:"type:varchar(20);not null;default:'local'"`
	// ExternalID is the OIDC subject claim for federated owners.
	ExternalID string `gorm:"size:255"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HashPassword hashes a plaintext password using the Argon2id algorithm.
func HashPassword(password string) string {
	hashedPassword, err := argon2id.CreateHash(password, argon2id.DefaultParams)
	if err != nil {
		log.Fatal().Msgf("failed to hash password: %v", err)
	}

	return hashedPassword
}

// VerifyPassword verifies a plaintext password against the stored hash using
// constant-time comparison.
func (u *User) VerifyPassword(password string) bool {
	match, err := argon2id.ComparePasswordAndHash(password, u.Password)
	if err != nil {
		log.Error().Msgf("failed to verify password: %v", err)
		return false
	}

	return match
}
