package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatusCode(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, StatusInternalServerError},
		{"invalid request", NewInvalidRequestError("bad", nil), StatusBadRequest},
		{"not found", NewNotFoundError("missing", nil), StatusNotFound},
		{"unauthorized", NewUnauthorizedError("nope", nil), StatusUnauthorized},
		{"service unavailable", NewServiceUnavailableError("down", nil), StatusInternalServerError},
		{"database", NewDatabaseError("boom", nil), StatusInternalServerError},
		{"wrapped", fmt.Errorf("outer: %w", NewInvalidRequestError("bad", nil)), StatusBadRequest},
		{"plain", errors.New("plain"), StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, HTTPStatusCode(tc.err))
		})
	}
}

func TestGetHumanReadableMessage_HidesInternalDetail(t *testing.T) {
	assert.Equal(t, "This email is already registered",
		GetHumanReadableMessage(NewInvalidRequestError("This email is already registered", errors.New("pq: duplicate key"))))
	assert.Equal(t, genericErrorMessage, GetHumanReadableMessage(NewDatabaseError("insert into waitlist_entries failed", nil)))
	assert.Equal(t, genericErrorMessage, GetHumanReadableMessage(errors.New("dial tcp 10.0.0.1:5432: connection refused")))
}

func TestIsDuplicateKeyError(t *testing.T) {
	assert.True(t, IsDuplicateKeyError(errors.New(`ERROR: duplicate key value violates unique constraint "idx_email" (SQLSTATE 23505)`)))
	assert.True(t, IsDuplicateKeyError(errors.New("UNIQUE constraint failed: waitlist_entries.email")))
	assert.True(t, IsDuplicateKeyError(errors.New("Error 1062 (23000): Duplicate entry 'a@b.co' for key 'email'")))
	assert.True(t, IsDuplicateKeyError(NewConflictError("exists", nil)))
	assert.False(t, IsDuplicateKeyError(errors.New("connection reset by peer")))
	assert.False(t, IsDuplicateKeyError(nil))
}
