package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/family-budget/backend/internal/domain/valueobject"
)

// MemberRole represents the role of a member in a family.
type MemberRole string

const (
	MemberRoleOwner  MemberRole = "owner"
	MemberRoleAdmin  MemberRole = "admin"
	MemberRoleMember MemberRole = "member"
)

// InvitationStatus represents the status of a family invitation.
type InvitationStatus string

const (
	InvitationStatusPending  InvitationStatus = "pending"
	InvitationStatusAccepted InvitationStatus = "accepted"
	InvitationStatusRejected InvitationStatus = "rejected"
	InvitationStatusExpired  InvitationStatus = "expired"
)

// Family is the root aggregate every other budget record belongs to.
type Family struct {
	ID        string    `json:"id"`
	Name      string    `json:"name" validate:"required,max=100"`
	OwnerID   string    `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
	// IsOffline is derived, never persisted remotely.
	IsOffline bool `json:"is_offline"`
}

// NewFamily creates a family with a server-style identifier.
func NewFamily(name, ownerID string) *Family {
	return &Family{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(name),
		OwnerID:   ownerID,
		CreatedAt: time.Now().UTC(),
	}
}

// NewOfflineFamily creates a family that only ever lives on this device.
func NewOfflineFamily(name, ownerID string) *Family {
	return &Family{
		ID:        valueobject.NewLocalID(valueobject.LocalIDPrefixFamily),
		Name:      strings.TrimSpace(name),
		OwnerID:   ownerID,
		CreatedAt: time.Now().UTC(),
		IsOffline: true,
	}
}

// RecordID implements Record.
func (f *Family) RecordID() string { return f.ID }

// SyncEntity implements Record.
func (f *Family) SyncEntity() SyncEntity { return SyncEntityFamily }

// FamilyMember represents a user's membership in a family.
type FamilyMember struct {
	ID       string     `json:"id"`
	FamilyID string     `json:"family_id" validate:"required"`
	UserID   string     `json:"user_id" validate:"required"`
	Role     MemberRole `json:"role" validate:"required,oneof=owner admin member"`
	JoinedAt time.Time  `json:"joined_at"`
}

// NewFamilyMember creates a new FamilyMember entity.
func NewFamilyMember(familyID, userID string, role MemberRole) *FamilyMember {
	id := uuid.NewString()
	if valueobject.IsLocalID(familyID) {
		id = valueobject.NewLocalID(valueobject.LocalIDPrefixGeneric)
	}

	return &FamilyMember{
		ID:       id,
		FamilyID: familyID,
		UserID:   userID,
		Role:     role,
		JoinedAt: time.Now().UTC(),
	}
}

// RecordID implements Record.
func (m *FamilyMember) RecordID() string { return m.ID }

// SyncEntity implements Record.
func (m *FamilyMember) SyncEntity() SyncEntity { return SyncEntityFamilyMember }

// FamilyInvitation represents an invitation to join a family.
type FamilyInvitation struct {
	ID        string           `json:"id"`
	FamilyID  string           `json:"family_id" validate:"required"`
	Email     string           `json:"email" validate:"required,email"`
	InvitedBy string           `json:"invited_by" validate:"required"`
	Status    InvitationStatus `json:"status" validate:"required,oneof=pending accepted rejected expired"`
	CreatedAt time.Time        `json:"created_at"`
	ExpiresAt time.Time        `json:"expires_at"`
}

// NewFamilyInvitation creates a pending invitation.
func NewFamilyInvitation(familyID, email, invitedBy string, expiresAt time.Time) *FamilyInvitation {
	return &FamilyInvitation{
		ID:        uuid.NewString(),
		FamilyID:  familyID,
		Email:     strings.ToLower(strings.TrimSpace(email)),
		InvitedBy: invitedBy,
		Status:    InvitationStatusPending,
		CreatedAt: time.Now().UTC(),
		ExpiresAt: expiresAt,
	}
}

// IsExpired checks if the invitation has expired.
func (i *FamilyInvitation) IsExpired() bool {
	return time.Now().UTC().After(i.ExpiresAt)
}

// UserPreference is the server-side record of a user's selected family.
type UserPreference struct {
	UserID          string    `json:"user_id" validate:"required"`
	CurrentFamilyID *string   `json:"current_family_id"`
	UpdatedAt       time.Time `json:"updated_at"`
}
