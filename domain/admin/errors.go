package admin

import "errors"

// Sentinel errors for the admin domain. Their text is the client-facing message.
var (
	ErrInvalidCredentials     = errors.New("Invalid email or password")
	ErrAuthenticationRequired = errors.New("Authentication required")
	ErrInvalidOrExpiredToken  = errors.New("Invalid or expired session")
	ErrInvalidToken           = errors.New("Invalid or expired reset token")
	ErrTokenExpired           = errors.New("Reset token has expired")
	ErrWeakPassword           = errors.New("Password must be at least 8 characters long")
	ErrAdminExists            = errors.New("Admin user already exists")
	ErrAdminNotFound          = errors.New("admin user not found")
)

const (
	storeUnavailableMessage = "Service temporarily unavailable"
	resetRequestedMessage   = "If an account exists for that email, a password reset link has been sent"
)
