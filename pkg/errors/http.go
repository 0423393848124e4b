package errors

import (
	"errors"
)

const genericErrorMessage = "An unexpected error occurred"

func HTTPStatusCode(err error) int {
	if err == nil {
		return StatusInternalServerError
	}

	switch GetErrorType(err) {
	case ErrorTypeNotFound:
		return StatusNotFound
	case ErrorTypeInvalidRequest:
		return StatusBadRequest
	case ErrorTypeConflict:
		return StatusConflict
	case ErrorTypeUnauthorized:
		return StatusUnauthorized
	case ErrorTypeTooManyRequests:
		return StatusTooManyRequests
	case ErrorTypeRequestTimeout:
		return StatusRequestTimeout
	case ErrorTypeMethodNotAllowed:
		return StatusMethodNotAllowed
	default:
		// DATABASE_ERROR, SERVICE_UNAVAILABLE and anything unrecognised
		// are server-side faults.
		return StatusInternalServerError
	}
}

func GetHumanReadableMessage(err error) string {
	if err == nil {
		return genericErrorMessage
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		if appErr.Type == ErrorTypeDatabaseError || appErr.Type == ErrorTypeInternalServerError {
			return genericErrorMessage
		}
		return appErr.Message
	}

	// SECURITY: avoid leaking internal error strings (DB errors, stack messages, etc.)
	return genericErrorMessage
}
