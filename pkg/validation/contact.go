// Package validation checks registrant contact details before they reach the store.
package validation

import (
	"errors"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	ErrMissingField   = errors.New("All fields are required")
	ErrInvalidEmail   = errors.New("Please enter a valid email address")
	ErrInvalidPhone   = errors.New("Please enter a valid 10-digit phone number")
	ErrInvalidPincode = errors.New("Please enter a valid 6-digit pincode")
)

// simpleEmailPattern is deliberately loose: something@something.something, no whitespace.
var simpleEmailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

const (
	phoneTag   = "len=10,numeric_ascii"
	pincodeTag = "len=6,numeric_ascii"
)

type ContactFields struct {
	Name    string
	Email   string
	Phone   string
	Pincode string
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func engine() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		_ = validate.RegisterValidation("simple_email", func(fl validator.FieldLevel) bool {
			return simpleEmailPattern.MatchString(fl.Field().String())
		})
		_ = validate.RegisterValidation("numeric_ascii", func(fl validator.FieldLevel) bool {
			s := fl.Field().String()
			for i := 0; i < len(s); i++ {
				if s[i] < '0' || s[i] > '9' {
					return false
				}
			}
			return s != ""
		})
	})
	return validate
}

// ValidateContact returns the first failing rule: presence, email, phone, pincode.
// Presence is checked on trimmed values; format checks see the raw input.
func ValidateContact(fields ContactFields) error {
	v := engine()

	for _, value := range []string{fields.Name, fields.Email, fields.Phone, fields.Pincode} {
		if v.Var(strings.TrimSpace(value), "required") != nil {
			return ErrMissingField
		}
	}

	if v.Var(fields.Email, "simple_email") != nil {
		return ErrInvalidEmail
	}

	if v.Var(fields.Phone, phoneTag) != nil {
		return ErrInvalidPhone
	}

	if v.Var(fields.Pincode, pincodeTag) != nil {
		return ErrInvalidPincode
	}

	return nil
}

// NormalizeEmail is the canonical stored form used for the uniqueness check.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateEmail applies the contact email rule on its own.
func ValidateEmail(email string) error {
	if engine().Var(email, "simple_email") != nil {
		return ErrInvalidEmail
	}
	return nil
}
