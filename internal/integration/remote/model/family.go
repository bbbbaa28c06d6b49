// Package model defines database models for the remote backend.
package model

import (
	"time"

	"github.com/family-budget/backend/internal/domain/entity"
)

// FamilyModel represents the families table in the database.
type FamilyModel struct {
	ID        string    `gorm:"type:varchar(255);primaryKey"`
	Name      string    `gorm:"type:varchar(100);not null"`
	OwnerID   string    `gorm:"type:varchar(255);not null;index"`
	CreatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for the FamilyModel.
func (FamilyModel) TableName() string {
	return "families"
}

// ToEntity converts a FamilyModel to a domain Family entity.
func (m *FamilyModel) ToEntity() *entity.Family {
	return &entity.Family{
		ID:        m.ID,
		Name:      m.Name,
		OwnerID:   m.OwnerID,
		CreatedAt: m.CreatedAt,
	}
}

// FamilyFromEntity creates a FamilyModel from a domain Family entity.
func FamilyFromEntity(family *entity.Family) *FamilyModel {
	return &FamilyModel{
		ID:        family.ID,
		Name:      family.Name,
		OwnerID:   family.OwnerID,
		CreatedAt: family.CreatedAt,
	}
}

// FamilyMemberModel represents the family_members table in the database.
type FamilyMemberModel struct {
	ID       string    `gorm:"type:varchar(255);primaryKey"`
	FamilyID string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_family_member"`
	UserID   string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_family_member;index"`
	Role     string    `gorm:"type:varchar(20);not null;default:'member'"`
	JoinedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for the FamilyMemberModel.
func (FamilyMemberModel) TableName() string {
	return "family_members"
}

// ToEntity converts a FamilyMemberModel to a domain FamilyMember entity.
func (m *FamilyMemberModel) ToEntity() *entity.FamilyMember {
	return &entity.FamilyMember{
		ID:       m.ID,
		FamilyID: m.FamilyID,
		UserID:   m.UserID,
		Role:     entity.MemberRole(m.Role),
		JoinedAt: m.JoinedAt,
	}
}

// FamilyMemberFromEntity creates a FamilyMemberModel from a domain FamilyMember entity.
func FamilyMemberFromEntity(member *entity.FamilyMember) *FamilyMemberModel {
	return &FamilyMemberModel{
		ID:       member.ID,
		FamilyID: member.FamilyID,
		UserID:   member.UserID,
		Role:     string(member.Role),
		JoinedAt: member.JoinedAt,
	}
}

// FamilyInvitationModel represents the family_invitations table in the database.
type FamilyInvitationModel struct {
	ID        string    `gorm:"type:varchar(255);primaryKey"`
	FamilyID  string    `gorm:"type:varchar(255);not null;index"`
	Email     string    `gorm:"type:varchar(255);not null;index"`
	InvitedBy string    `gorm:"type:varchar(255);not null"`
	Status    string    `gorm:"type:varchar(20);not null;default:'pending'"`
	CreatedAt time.Time `gorm:"not null"`
	ExpiresAt time.Time `gorm:"not null"`
}

// TableName returns the table name for the FamilyInvitationModel.
func (FamilyInvitationModel) TableName() string {
	return "family_invitations"
}

// ToEntity converts a FamilyInvitationModel to a domain FamilyInvitation entity.
func (m *FamilyInvitationModel) ToEntity() *entity.FamilyInvitation {
	return &entity.FamilyInvitation{
		ID:        m.ID,
		FamilyID:  m.FamilyID,
		Email:     m.Email,
		InvitedBy: m.InvitedBy,
		Status:    entity.InvitationStatus(m.Status),
		CreatedAt: m.CreatedAt,
		ExpiresAt: m.ExpiresAt,
	}
}

// FamilyInvitationFromEntity creates a FamilyInvitationModel from a domain FamilyInvitation entity.
func FamilyInvitationFromEntity(inv *entity.FamilyInvitation) *FamilyInvitationModel {
	return &FamilyInvitationModel{
		ID:        inv.ID,
		FamilyID:  inv.FamilyID,
		Email:     inv.Email,
		InvitedBy: inv.InvitedBy,
		Status:    string(inv.Status),
		CreatedAt: inv.CreatedAt,
		ExpiresAt: inv.ExpiresAt,
	}
}

// UserPreferenceModel represents the user_preferences table in the database.
type UserPreferenceModel struct {
	UserID          string    `gorm:"type:varchar(255);primaryKey"`
	CurrentFamilyID *string   `gorm:"type:varchar(255)"`
	UpdatedAt       time.Time `gorm:"not null"`
}

// TableName returns the table name for the UserPreferenceModel.
func (UserPreferenceModel) TableName() string {
	return "user_preferences"
}

// ToEntity converts a UserPreferenceModel to a domain UserPreference entity.
func (m *UserPreferenceModel) ToEntity() *entity.UserPreference {
	return &entity.UserPreference{
		UserID:          m.UserID,
		CurrentFamilyID: m.CurrentFamilyID,
		UpdatedAt:       m.UpdatedAt,
	}
}

// UserPreferenceFromEntity creates a UserPreferenceModel from a domain UserPreference entity.
func UserPreferenceFromEntity(pref *entity.UserPreference) *UserPreferenceModel {
	return &UserPreferenceModel{
		UserID:          pref.UserID,
		CurrentFamilyID: pref.CurrentFamilyID,
		UpdatedAt:       pref.UpdatedAt,
	}
}
