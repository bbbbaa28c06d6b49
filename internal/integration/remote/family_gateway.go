package remote

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/family-budget/backend/internal/domain/entity"
	"github.com/family-budget/backend/internal/domain/validation"
	"github.com/family-budget/backend/internal/integration/remote/model"
)

// ListFamiliesForUser retrieves all families the user is a member of.
func (g *gateway) ListFamiliesForUser(ctx context.Context, userID string) ([]*entity.Family, error) {
	var models []model.FamilyModel
	result := g.db.WithContext(ctx).
		Joins("JOIN family_members ON family_members.family_id = families.id").
		Where("family_members.user_id = ?", userID).
		Order("families.created_at ASC").
		Find(&models)
	if result.Error != nil {
		return nil, result.Error
	}

	families := make([]*entity.Family, len(models))
	for i := range models {
		families[i] = models[i].ToEntity()
	}
	return families, nil
}

// GetFamily retrieves a family by its ID.
func (g *gateway) GetFamily(ctx context.Context, id string) (*entity.Family, error) {
	var m model.FamilyModel
	found, err := g.findOne(ctx, &m, "id = ?", id)
	if err != nil || !found {
		return nil, err
	}
	return m.ToEntity(), nil
}

// CreateFamily creates a family together with its owner membership in one transaction.
func (g *gateway) CreateFamily(ctx context.Context, family *entity.Family, owner *entity.FamilyMember) error {
	if err := validation.Struct(family); err != nil {
		return err
	}
	if err := validation.Struct(owner); err != nil {
		return err
	}

	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(model.FamilyFromEntity(family)).Error; err != nil {
			return fmt.Errorf("failed to create family: %w", err)
		}
		if err := tx.Create(model.FamilyMemberFromEntity(owner)).Error; err != nil {
			return fmt.Errorf("failed to create owner membership: %w", err)
		}
		return nil
	})
}

// DeleteFamily removes a family and cascades to every record it owns.
func (g *gateway) DeleteFamily(ctx context.Context, id string) error {
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		children := []any{
			&model.GoalEntryModel{},
			&model.GoalModel{},
			&model.ExpenseModel{},
			&model.RecurringExpenseModel{},
			&model.SubcategoryModel{},
			&model.CategoryLimitModel{},
			&model.IncomeSourceModel{},
			&model.MonthModel{},
			&model.FamilyInvitationModel{},
			&model.FamilyMemberModel{},
		}
		for _, child := range children {
			if err := tx.Where("family_id = ?", id).Delete(child).Error; err != nil {
				return err
			}
		}

		if err := tx.Model(&model.UserPreferenceModel{}).
			Where("current_family_id = ?", id).
			Update("current_family_id", nil).Error; err != nil {
			return err
		}

		return tx.Delete(&model.FamilyModel{}, "id = ?", id).Error
	})
}

// ListMembers retrieves all members of a family.
func (g *gateway) ListMembers(ctx context.Context, familyID string) ([]*entity.FamilyMember, error) {
	var models []model.FamilyMemberModel
	result := g.db.WithContext(ctx).
		Where("family_id = ?", familyID).
		Order("joined_at ASC").
		Find(&models)
	if result.Error != nil {
		return nil, result.Error
	}

	members := make([]*entity.FamilyMember, len(models))
	for i := range models {
		members[i] = models[i].ToEntity()
	}
	return members, nil
}

// GetMember retrieves a membership by family and user.
func (g *gateway) GetMember(ctx context.Context, familyID, userID string) (*entity.FamilyMember, error) {
	var m model.FamilyMemberModel
	found, err := g.findOne(ctx, &m, "family_id = ? AND user_id = ?", familyID, userID)
	if err != nil || !found {
		return nil, err
	}
	return m.ToEntity(), nil
}

// CreateMember adds a member to a family.
func (g *gateway) CreateMember(ctx context.Context, member *entity.FamilyMember) error {
	return g.create(ctx, member, model.FamilyMemberFromEntity(member))
}

// DeleteMember removes a membership.
func (g *gateway) DeleteMember(ctx context.Context, id string) error {
	return g.db.WithContext(ctx).Delete(&model.FamilyMemberModel{}, "id = ?", id).Error
}

// CreateInvitation stores a new invitation.
func (g *gateway) CreateInvitation(ctx context.Context, invitation *entity.FamilyInvitation) error {
	return g.create(ctx, invitation, model.FamilyInvitationFromEntity(invitation))
}

// GetInvitation retrieves an invitation by its ID.
func (g *gateway) GetInvitation(ctx context.Context, id string) (*entity.FamilyInvitation, error) {
	var m model.FamilyInvitationModel
	found, err := g.findOne(ctx, &m, "id = ?", id)
	if err != nil || !found {
		return nil, err
	}
	return m.ToEntity(), nil
}

// ListInvitationsByEmail retrieves the invitations addressed to an email, newest first.
func (g *gateway) ListInvitationsByEmail(ctx context.Context, email string) ([]*entity.FamilyInvitation, error) {
	var models []model.FamilyInvitationModel
	result := g.db.WithContext(ctx).
		Where("email = ?", email).
		Order("created_at DESC").
		Find(&models)
	if result.Error != nil {
		return nil, result.Error
	}

	invitations := make([]*entity.FamilyInvitation, len(models))
	for i := range models {
		invitations[i] = models[i].ToEntity()
	}
	return invitations, nil
}

// FindPendingInvitation retrieves the pending invitation of a family for an email.
func (g *gateway) FindPendingInvitation(ctx context.Context, familyID, email string) (*entity.FamilyInvitation, error) {
	var m model.FamilyInvitationModel
	found, err := g.findOne(ctx, &m, "family_id = ? AND email = ? AND status = ?",
		familyID, email, string(entity.InvitationStatusPending))
	if err != nil || !found {
		return nil, err
	}
	return m.ToEntity(), nil
}

// UpdateInvitation saves an invitation status change.
func (g *gateway) UpdateInvitation(ctx context.Context, invitation *entity.FamilyInvitation) error {
	return g.save(ctx, invitation, model.FamilyInvitationFromEntity(invitation))
}

// GetPreference retrieves the stored preference of a user.
func (g *gateway) GetPreference(ctx context.Context, userID string) (*entity.UserPreference, error) {
	var m model.UserPreferenceModel
	found, err := g.findOne(ctx, &m, "user_id = ?", userID)
	if err != nil || !found {
		return nil, err
	}
	return m.ToEntity(), nil
}

// UpsertPreference stores the preference of a user.
func (g *gateway) UpsertPreference(ctx context.Context, pref *entity.UserPreference) error {
	return g.save(ctx, pref, model.UserPreferenceFromEntity(pref))
}
