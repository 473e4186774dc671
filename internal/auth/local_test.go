package auth

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/linkforge/linkforge/internal/db/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to create test database")

	err = db.AutoMigrate(&models.User{})
	require.NoError(t, err, "failed to migrate test database")

	return db
}

func seedOwner(t *testing.T, db *gorm.DB, totpSecret string) *models.User {
	t.Helper()

	owner := &models.User{
		Active:     true,
		Username:   "owner",
		Email:      "owner@example.com",
		Password:   models.HashPassword("correct horse"),
		TOTPSecret: totpSecret,
		AuthSource: models.AuthSourceLocal,
	}
	require.NoError(t, db.Create(owner).Error)

	return owner
}

func TestAuthenticate(t *testing.T) {
	db := setupTestDB(t)
	seedOwner(t, db, "")

	p := NewLocalProvider(db)

	user, err := p.Authenticate("owner", "correct horse", "")
	require.NoError(t, err)
	assert.Equal(t, "owner", user.Username)

	_, err = p.Authenticate("owner", "wrong", "")
	require.ErrorIs(t, err, ErrInvalidPassword)

	_, err = p.Authenticate("nobody", "correct horse", "")
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestAuthenticateDisabledAccount(t *testing.T) {
	db := setupTestDB(t)
	owner := seedOwner(t, db, "")
	require.NoError(t, db.Model(owner).Update("active", false).Error)

	_, err := NewLocalProvider(db).Authenticate("owner", "correct horse", "")
	require.ErrorIs(t, err, ErrUserAccountDisabled)
}

func TestAuthenticateTOTP(t *testing.T) {
	db := setupTestDB(t)
	p := NewLocalProvider(db)

	key, err := totp.Generate(totp.GenerateOpts{Issuer: "linkforge", AccountName: "owner"})
	require.NoError(t, err)

	seedOwner(t, db, key.Secret())

	_, err = p.Authenticate("owner", "correct horse", "")
	require.ErrorIs(t, err, ErrInvalidTOTPCode)

	_, err = p.Authenticate("owner", "correct horse", "000000")
	require.ErrorIs(t, err, ErrInvalidTOTPCode)

	code, err := totp.GenerateCode(key.Secret(), time.Now())
	require.NoError(t, err)

	user, err := p.Authenticate("owner", "correct horse", code)
	require.NoError(t, err)
	assert.Equal(t, "owner", user.Username)
}

func TestChangePassword(t *testing.T) {
	db := setupTestDB(t)
	owner := seedOwner(t, db, "")
	p := NewLocalProvider(db)

	require.ErrorIs(t, p.ChangePassword(owner.ID, "wrong", "new password"), ErrInvalidPassword)
	require.NoError(t, p.ChangePassword(owner.ID, "correct horse", "new password"))

	_, err := p.Authenticate("owner", "new password", "")
	require.NoError(t, err)
}

func TestEnrollAndDisableTOTP(t *testing.T) {
	db := setupTestDB(t)
	owner := seedOwner(t, db, "")
	p := NewLocalProvider(db)

	url, err := p.EnrollTOTP(owner.ID, "linkforge", "owner@example.com")
	require.NoError(t, err)
	assert.Contains(t, url, "otpauth://totp/")

	var reloaded models.User
	require.NoError(t, db.First(&reloaded, owner.ID).Error)
	assert.NotEmpty(t, reloaded.TOTPSecret)

	require.NoError(t, p.DisableTOTP(owner.ID))
	require.NoError(t, db.First(&reloaded, owner.ID).Error)
	assert.Empty(t, reloaded.TOTPSecret)
}
