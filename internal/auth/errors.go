package auth

import "errors"

var (
	// ErrNoIDToken is returned when the OAuth2 token response doesn't contain an ID token.
	// This typically indicates a misconfigured OIDC provider or an incomplete flow.
	ErrNoIDToken = errors.New("no id_token in token response")

	// ErrUserAccountDisabled is returned when attempting to authenticate a disabled account.
	ErrUserAccountDisabled = errors.New("user account is disabled")

	// ErrInvalidPassword is returned when the provided password is incorrect.
	ErrInvalidPassword = errors.New("invalid password")

	// ErrInvalidTOTPCode is returned when the account requires a TOTP code and
	// the provided code is missing or wrong.
	ErrInvalidTOTPCode = errors.New("invalid totp code")

	// ErrUserNotFound is returned when the account cannot be found.
	ErrUserNotFound = errors.New("user not found")

	// ErrOIDCDisabled is returned when OIDC is disabled via configuration.
	ErrOIDCDisabled = errors.New("oidc authentication is disabled")

	// ErrUnknownOIDCSubject is returned when the verified ID token does not
	// match the owner account. LinkForge is single-owner: callback logins
	// never auto-provision accounts.
	ErrUnknownOIDCSubject = errors.New("oidc subject does not match the owner account")
)
