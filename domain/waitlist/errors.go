package waitlist

import "errors"

// Sentinel errors for the waitlist domain. Their text is the client-facing message.
var (
	ErrDuplicateEmail = errors.New("This email is already registered")
	ErrEntryNotFound  = errors.New("Waitlist member not found")
)

const storeUnavailableMessage = "Service temporarily unavailable"
