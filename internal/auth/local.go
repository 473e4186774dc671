// Package auth implements owner authentication: local password login with
// optional TOTP, and optional OIDC sign-in. The application is single-owner,
// so authorization is binary: an authenticated session edits everything.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/pquerna/otp/totp"
	"gorm.io/gorm"

	"github.com/linkforge/linkforge/internal/db/models"
)

// LocalProvider handles local database authentication.
type LocalProvider struct {
	db *gorm.DB
}

// NewLocalProvider creates a new local authentication provider.
func NewLocalProvider(db *gorm.DB) *LocalProvider {
	return &LocalProvider{
		db: db,
	}
}

// Authenticate verifies username, password and, when the account has a TOTP
// secret enrolled, the 2FA code.
func (p *LocalProvider) Authenticate(username, password, totpCode string) (*models.User, error) {
	var user models.User

	err := p.db.Where("username = ? AND auth_source = ?", username, models.AuthSourceLocal).
		First(&user).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	if !user.Active {
		return nil, ErrUserAccountDisabled
	}

	if !user.VerifyPassword(password) {
		return nil, ErrInvalidPassword
	}

	if user.TOTPSecret != "" && !totp.Validate(totpCode, user.TOTPSecret) {
		return nil, ErrInvalidTOTPCode
	}

	user.UpdatedAt = time.Now()
	p.db.Save(&user)

	return &user, nil
}

// ChangePassword changes the owner's password after verifying the old one.
func (p *LocalProvider) ChangePassword(userID uint64, oldPassword, newPassword string) error {
	var user models.User
	if err := p.db.Where("id = ? AND auth_source = ?", userID, models.AuthSourceLocal).
		First(&user).Error; err != nil {
		return fmt.Errorf("user not found: %w", err)
	}

	if !user.VerifyPassword(oldPassword) {
		return ErrInvalidPassword
	}

	hashedPassword := models.HashPassword(newPassword)

	return p.db.Model(&models.User{}).
		Where("id = ?", userID).
		Update("password", hashedPassword).Error
}

// EnrollTOTP generates and stores a new TOTP secret for the owner and
// returns the otpauth provisioning URL for the authenticator app.
func (p *LocalProvider) EnrollTOTP(userID uint64, issuer, accountName string) (string, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      issuer,
		AccountName: accountName,
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate totp secret: %w", err)
	}

	err = p.db.Model(&models.User{}).
		Where("id = ?", userID).
		Update("totp_secret", key.Secret()).Error
	if err != nil {
		return "", err
	}

	return key.URL(), nil
}

// DisableTOTP removes the owner's TOTP secret.
func (p *LocalProvider) DisableTOTP(userID uint64) error {
	return p.db.Model(&models.User{}).
		Where("id = ?", userID).
		Update("totp_secret", "").Error
}
