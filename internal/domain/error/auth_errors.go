// Package error defines domain-specific errors for the family budget application.
package error

import "errors"

// Session domain errors.
var (
	// ErrNotAuthenticated is returned when an operation needs a cloud identity and there is none.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrInvalidToken is returned when a token is invalid or malformed.
	ErrInvalidToken = errors.New("invalid token")

	// ErrRequiresConnection is returned by operations that only exist on the remote backend.
	ErrRequiresConnection = errors.New("operation requires a connection")
)

// AuthErrorCode defines error codes for session errors.
// Format: AUTH-XXYYYY where XX is category and YYYY is specific error.
type AuthErrorCode string

const (
	ErrCodeInvalidToken       AuthErrorCode = "AUTH-030001"
	ErrCodeMissingToken       AuthErrorCode = "AUTH-030003"
	ErrCodeNotAuthenticated   AuthErrorCode = "AUTH-030004"
	ErrCodeRequiresConnection AuthErrorCode = "AUTH-060001"
	ErrCodeRateLimited        AuthErrorCode = "AUTH-070001"
)

// AuthError represents a session error with code and message.
type AuthError struct {
	Code    AuthErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *AuthError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *AuthError) Unwrap() error {
	return e.Err
}

// NewAuthError creates a new AuthError with the given code and message.
func NewAuthError(code AuthErrorCode, message string, err error) *AuthError {
	return &AuthError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
