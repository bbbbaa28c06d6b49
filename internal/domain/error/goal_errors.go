// Package error defines domain-specific errors for the family budget application.
package error

import "errors"

// Goal domain errors.
var (
	// ErrGoalNotFound is returned when a goal is not found in the system.
	ErrGoalNotFound = errors.New("goal not found")

	// ErrSubcategoryAlreadyLinked is returned when another active goal is already linked to the subcategory.
	ErrSubcategoryAlreadyLinked = errors.New("an active goal is already linked to this subcategory")

	// ErrCategoryAlreadyLinked is returned when another active goal is already linked to the category.
	ErrCategoryAlreadyLinked = errors.New("an active goal is already linked to this category")

	// ErrAmbiguousGoalLink is returned when a goal links both a subcategory and a category.
	ErrAmbiguousGoalLink = errors.New("a goal can link a subcategory or a category, not both")

	// ErrInvalidGoalCategory is returned when a goal links a category other than the discretionary one.
	ErrInvalidGoalCategory = errors.New("only the discretionary category can be linked to a goal")

	// ErrGoalEntryNotFound is returned when a goal entry is not found.
	ErrGoalEntryNotFound = errors.New("goal entry not found")

	// ErrAutomaticEntryProtected is returned when an expense-generated entry is edited directly.
	ErrAutomaticEntryProtected = errors.New("automatic goal entries can only be changed through their expense")
)

// GoalErrorCode defines error codes for goal errors.
// Format: GOL-XXYYYY where XX is category and YYYY is specific error.
type GoalErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeGoalNotFound        GoalErrorCode = "GOL-010001"
	ErrCodeSubcategoryLinked   GoalErrorCode = "GOL-010002"
	ErrCodeCategoryLinked      GoalErrorCode = "GOL-010003"
	ErrCodeAmbiguousGoalLink   GoalErrorCode = "GOL-010004"
	ErrCodeInvalidGoalCategory GoalErrorCode = "GOL-010005"
	ErrCodeMissingGoalFields   GoalErrorCode = "GOL-010006"

	// Entry errors (02XXXX)
	ErrCodeGoalEntryNotFound GoalErrorCode = "GOL-020001"
	ErrCodeAutomaticEntry    GoalErrorCode = "GOL-020002"
)

// GoalError represents a goal error with code and message.
type GoalError struct {
	Code    GoalErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *GoalError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *GoalError) Unwrap() error {
	return e.Err
}

// NewGoalError creates a new GoalError with the given code and message.
func NewGoalError(code GoalErrorCode, message string, err error) *GoalError {
	return &GoalError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
