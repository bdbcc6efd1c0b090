package application

import (
	"errors"
	"sort"
	"strings"
)

var (
	// ErrInvalidCredentials is returned for both an unknown identifier and a wrong password.
	ErrInvalidCredentials = errors.New("User not found")
	ErrEmailNotVerified   = errors.New("email not verified")
	ErrInvalidOTP         = errors.New("invalid or expired otp")
	ErrInvalidGoogleToken = errors.New("invalid google token")

	ErrUserNotFound  = errors.New("user not found")
	ErrAlreadyActive = errors.New("account already active")
	ErrNotFound      = errors.New("resource not found")

	ErrConflict         = errors.New("resource already exists")
	ErrInvalidReference = errors.New("referenced resource does not exist")

	ErrMailDispatch       = errors.New("failed to send verification email")
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// ValidationError carries per-field messages keyed by JSON field name.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+" "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func newValidationError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}
