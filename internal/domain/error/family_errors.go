// Package error defines domain-specific errors for the family budget application.
package error

import "errors"

// Family domain errors.
var (
	// ErrFamilyNotFound is returned when a family is not found in the system.
	ErrFamilyNotFound = errors.New("family not found")

	// ErrFamilyNameRequired is returned when the family name is empty.
	ErrFamilyNameRequired = errors.New("family name is required")

	// ErrFamilyNameTooLong is returned when the family name exceeds the maximum length.
	ErrFamilyNameTooLong = errors.New("family name too long")

	// ErrNotFamilyMember is returned when a user is not a member of the family.
	ErrNotFamilyMember = errors.New("user is not a member of this family")

	// ErrNotFamilyAdmin is returned when a plain member tries to perform admin actions.
	ErrNotFamilyAdmin = errors.New("only family owners and admins can perform this action")

	// ErrOwnerCannotLeave is returned when the owner leaves while other members remain.
	ErrOwnerCannotLeave = errors.New("the owner cannot leave while other members remain")

	// ErrOfflineFamilyMembership is returned for membership operations on an offline family.
	ErrOfflineFamilyMembership = errors.New("offline families have no shared membership")

	// ErrInvitationNotFound is returned when an invitation is not found.
	ErrInvitationNotFound = errors.New("invitation not found")

	// ErrInvitationExpired is returned when an invitation has expired.
	ErrInvitationExpired = errors.New("invitation has expired")

	// ErrInvitationNotPending is returned when an invitation was already answered.
	ErrInvitationNotPending = errors.New("invitation is no longer pending")

	// ErrInvitationAlreadyExists is returned when a pending invitation already exists for the email.
	ErrInvitationAlreadyExists = errors.New("invitation already exists for this email")

	// ErrInvitationWrongRecipient is returned when a user answers an invitation addressed to someone else.
	ErrInvitationWrongRecipient = errors.New("invitation was sent to another email")

	// ErrUserAlreadyMember is returned when a user is already a member of the family.
	ErrUserAlreadyMember = errors.New("user is already a member of this family")

	// ErrCannotInviteSelf is returned when a user tries to invite themselves.
	ErrCannotInviteSelf = errors.New("cannot invite yourself")

	// ErrStaleSelection is returned when the current family changed while its data was loading.
	ErrStaleSelection = errors.New("family selection changed while loading")
)

// FamilyErrorCode defines error codes for family errors.
// Format: FAM-XXYYYY where XX is category and YYYY is specific error.
type FamilyErrorCode string

const (
	// Resource not found errors (01XXXX)
	ErrCodeFamilyNotFound     FamilyErrorCode = "FAM-010001"
	ErrCodeInvitationNotFound FamilyErrorCode = "FAM-010002"

	// Validation errors (02XXXX)
	ErrCodeFamilyNameRequired FamilyErrorCode = "FAM-020001"
	ErrCodeFamilyNameTooLong  FamilyErrorCode = "FAM-020002"
	ErrCodeInvalidEmail       FamilyErrorCode = "FAM-020003"

	// Conflict errors (03XXXX)
	ErrCodeInvitationExists  FamilyErrorCode = "FAM-030001"
	ErrCodeUserAlreadyMember FamilyErrorCode = "FAM-030002"

	// Authorization errors (04XXXX)
	ErrCodeNotFamilyAdmin  FamilyErrorCode = "FAM-040001"
	ErrCodeNotFamilyMember FamilyErrorCode = "FAM-040002"

	// Invitation errors (05XXXX)
	ErrCodeInvitationExpired    FamilyErrorCode = "FAM-050001"
	ErrCodeInvitationNotPending FamilyErrorCode = "FAM-050002"
	ErrCodeCannotInviteSelf     FamilyErrorCode = "FAM-050003"
	ErrCodeWrongRecipient       FamilyErrorCode = "FAM-050004"

	// Business logic errors (06XXXX)
	ErrCodeOwnerCannotLeave  FamilyErrorCode = "FAM-060001"
	ErrCodeOfflineMembership FamilyErrorCode = "FAM-060002"
	ErrCodeStaleSelection    FamilyErrorCode = "FAM-060003"
)

// FamilyError represents a family error with code and message.
type FamilyError struct {
	Code    FamilyErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *FamilyError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *FamilyError) Unwrap() error {
	return e.Err
}

// NewFamilyError creates a new FamilyError with the given code and message.
func NewFamilyError(code FamilyErrorCode, message string, err error) *FamilyError {
	return &FamilyError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
