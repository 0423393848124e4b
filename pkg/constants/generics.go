package constants

import "time"

// RFC 3339 date-time format string.
// Use this format for all date-time serialization and communication with external systems.
const RFC3339DateTimeFormat = "2006-01-02T15:04:05Z07:00"

// Default rate limiting configuration
const (
	// DefaultRateLimitRequests is the default number of requests allowed per time window
	DefaultRateLimitRequests = 100
	// DefaultRateLimitWindowMinutes is the default time window for rate limiting
	DefaultRateLimitWindowMinutes = 1

	// WaitlistSubmissionRequestsPerMinute caps public signups per client IP.
	WaitlistSubmissionRequestsPerMinute = 30
	// AdminAuthRequestsPerMinute caps login and password-reset attempts per client IP.
	AdminAuthRequestsPerMinute = 10
)

// Admin session and password reset lifetimes.
const (
	AdminRole              = "admin"
	SessionCookieName      = "admin_token"
	SessionTTL             = 7 * 24 * time.Hour
	PasswordResetTTL       = time.Hour
	MinAdminPasswordLength = 8
	AdminPasswordHashCost  = 12
)

// DefaultRateLimitWindow returns the default rate limit window duration
func DefaultRateLimitWindow() time.Duration {
	return time.Duration(DefaultRateLimitWindowMinutes) * time.Minute
}
