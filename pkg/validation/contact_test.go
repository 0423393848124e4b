package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validContact() ContactFields {
	return ContactFields{
		Name:    "Asha",
		Email:   "asha@example.com",
		Phone:   "9876543210",
		Pincode: "560001",
	}
}

func TestValidateContact(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*ContactFields)
		wantErr error
	}{
		{name: "valid", mutate: func(*ContactFields) {}},
		{name: "missing name", mutate: func(c *ContactFields) { c.Name = "" }, wantErr: ErrMissingField},
		{name: "whitespace email", mutate: func(c *ContactFields) { c.Email = "   " }, wantErr: ErrMissingField},
		{name: "missing phone", mutate: func(c *ContactFields) { c.Phone = "" }, wantErr: ErrMissingField},
		{name: "missing pincode", mutate: func(c *ContactFields) { c.Pincode = "" }, wantErr: ErrMissingField},
		{name: "email without at", mutate: func(c *ContactFields) { c.Email = "asha.example.com" }, wantErr: ErrInvalidEmail},
		{name: "email without tld", mutate: func(c *ContactFields) { c.Email = "asha@example" }, wantErr: ErrInvalidEmail},
		{name: "email with space", mutate: func(c *ContactFields) { c.Email = "as ha@example.com" }, wantErr: ErrInvalidEmail},
		{name: "short phone", mutate: func(c *ContactFields) { c.Phone = "987654321" }, wantErr: ErrInvalidPhone},
		{name: "long phone", mutate: func(c *ContactFields) { c.Phone = "98765432101" }, wantErr: ErrInvalidPhone},
		{name: "phone with letters", mutate: func(c *ContactFields) { c.Phone = "98765abcde" }, wantErr: ErrInvalidPhone},
		{name: "phone with plus", mutate: func(c *ContactFields) { c.Phone = "+987654321" }, wantErr: ErrInvalidPhone},
		{name: "short pincode", mutate: func(c *ContactFields) { c.Pincode = "56001" }, wantErr: ErrInvalidPincode},
		{name: "pincode with letters", mutate: func(c *ContactFields) { c.Pincode = "56000A" }, wantErr: ErrInvalidPincode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields := validContact()
			tt.mutate(&fields)

			err := ValidateContact(fields)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestValidateContact_ShortCircuitsInOrder(t *testing.T) {
	err := ValidateContact(ContactFields{Name: "Asha", Email: "bad", Phone: "1", Pincode: "1"})
	assert.ErrorIs(t, err, ErrInvalidEmail)

	err = ValidateContact(ContactFields{Name: "Asha", Email: "asha@example.com", Phone: "1", Pincode: "1"})
	assert.ErrorIs(t, err, ErrInvalidPhone)
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "asha@example.com", NormalizeEmail("  Asha@Example.COM "))
}

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, ValidateEmail("ops@choosepure.in"))
	assert.ErrorIs(t, ValidateEmail("ops@choosepure"), ErrInvalidEmail)
	assert.ErrorIs(t, ValidateEmail(""), ErrInvalidEmail)
}
