// Package error defines domain-specific errors for the family budget application.
package error

import "errors"

// Month domain errors.
var (
	// ErrMonthNotFound is returned when a month is not found.
	ErrMonthNotFound = errors.New("month not found")

	// ErrInvalidMonth is returned when the year or month number is out of range.
	ErrInvalidMonth = errors.New("invalid month")

	// ErrLimitsMustSumTo100 is returned when category limit percentages do not add up to 100.
	ErrLimitsMustSumTo100 = errors.New("category limits must sum to 100%")

	// ErrExpenseNotFound is returned when an expense is not found.
	ErrExpenseNotFound = errors.New("expense not found")
)

// MonthErrorCode defines error codes for month and expense errors.
// Format: MON-XXYYYY where XX is category and YYYY is specific error.
type MonthErrorCode string

const (
	ErrCodeMonthNotFound   MonthErrorCode = "MON-010001"
	ErrCodeExpenseNotFound MonthErrorCode = "MON-010002"
	ErrCodeInvalidMonth    MonthErrorCode = "MON-020001"
	ErrCodeInvalidLimits   MonthErrorCode = "MON-020002"
)

// MonthError represents a month error with code and message.
type MonthError struct {
	Code    MonthErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *MonthError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *MonthError) Unwrap() error {
	return e.Err
}

// NewMonthError creates a new MonthError with the given code and message.
func NewMonthError(code MonthErrorCode, message string, err error) *MonthError {
	return &MonthError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
