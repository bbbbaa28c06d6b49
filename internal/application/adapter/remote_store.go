// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"

	"github.com/family-budget/backend/internal/domain/entity"
	"github.com/family-budget/backend/internal/domain/valueobject"
)

// FamilyGateway defines the remote operations on families, members, invitations and preferences.
type FamilyGateway interface {
	// ListFamiliesForUser retrieves all families the user is a member of.
	ListFamiliesForUser(ctx context.Context, userID string) ([]*entity.Family, error)

	// GetFamily retrieves a family by its ID, or nil when absent.
	GetFamily(ctx context.Context, id string) (*entity.Family, error)

	// CreateFamily creates a family together with its owner membership.
	CreateFamily(ctx context.Context, family *entity.Family, owner *entity.FamilyMember) error

	// DeleteFamily removes a family; the backend cascades to its children.
	DeleteFamily(ctx context.Context, id string) error

	// ListMembers retrieves all members of a family.
	ListMembers(ctx context.Context, familyID string) ([]*entity.FamilyMember, error)

	// GetMember retrieves a membership by family and user, or nil when absent.
	GetMember(ctx context.Context, familyID, userID string) (*entity.FamilyMember, error)

	// CreateMember adds a member to a family.
	CreateMember(ctx context.Context, member *entity.FamilyMember) error

	// DeleteMember removes a membership.
	DeleteMember(ctx context.Context, id string) error

	// CreateInvitation stores a new invitation.
	CreateInvitation(ctx context.Context, invitation *entity.FamilyInvitation) error

	// GetInvitation retrieves an invitation by its ID, or nil when absent.
	GetInvitation(ctx context.Context, id string) (*entity.FamilyInvitation, error)

	// ListInvitationsByEmail retrieves the invitations addressed to an email.
	ListInvitationsByEmail(ctx context.Context, email string) ([]*entity.FamilyInvitation, error)

	// FindPendingInvitation retrieves the pending invitation of a family for an email, or nil.
	FindPendingInvitation(ctx context.Context, familyID, email string) (*entity.FamilyInvitation, error)

	// UpdateInvitation saves an invitation status change.
	UpdateInvitation(ctx context.Context, invitation *entity.FamilyInvitation) error

	// GetPreference retrieves the stored preference of a user, or nil.
	GetPreference(ctx context.Context, userID string) (*entity.UserPreference, error)

	// UpsertPreference stores the preference of a user.
	UpsertPreference(ctx context.Context, pref *entity.UserPreference) error
}

// MonthGateway defines the remote operations on months, category limits and income sources.
type MonthGateway interface {
	ListMonths(ctx context.Context, familyID string) ([]*entity.Month, error)
	GetMonth(ctx context.Context, id string) (*entity.Month, error)
	CreateMonth(ctx context.Context, month *entity.Month) error
	DeleteMonth(ctx context.Context, id string) error

	ListCategoryLimits(ctx context.Context, monthID string) ([]*entity.CategoryLimit, error)
	// ReplaceCategoryLimits swaps every limit of the month in one transaction.
	ReplaceCategoryLimits(ctx context.Context, familyID, monthID string, limits map[valueobject.CategoryKey]float64) ([]*entity.CategoryLimit, error)
	DeleteCategoryLimits(ctx context.Context, monthID string) error

	ListIncomeSources(ctx context.Context, monthID string) ([]*entity.IncomeSource, error)
	GetIncomeSource(ctx context.Context, id string) (*entity.IncomeSource, error)
	CreateIncomeSource(ctx context.Context, source *entity.IncomeSource) error
	UpdateIncomeSource(ctx context.Context, source *entity.IncomeSource) error
	DeleteIncomeSource(ctx context.Context, id string) error
}

// ExpenseGateway defines the remote operations on expenses and recurring expenses.
type ExpenseGateway interface {
	ListExpenses(ctx context.Context, familyID, monthID string) ([]*entity.Expense, error)
	GetExpense(ctx context.Context, id string) (*entity.Expense, error)
	CreateExpense(ctx context.Context, expense *entity.Expense) error
	UpdateExpense(ctx context.Context, expense *entity.Expense) error
	DeleteExpense(ctx context.Context, id string) error

	ListRecurringExpenses(ctx context.Context, familyID string) ([]*entity.RecurringExpense, error)
	GetRecurringExpense(ctx context.Context, id string) (*entity.RecurringExpense, error)
	CreateRecurringExpense(ctx context.Context, expense *entity.RecurringExpense) error
	UpdateRecurringExpense(ctx context.Context, expense *entity.RecurringExpense) error
	DeleteRecurringExpense(ctx context.Context, id string) error
}

// SubcategoryGateway defines the remote operations on subcategories.
type SubcategoryGateway interface {
	ListSubcategories(ctx context.Context, familyID string) ([]*entity.Subcategory, error)
	GetSubcategory(ctx context.Context, id string) (*entity.Subcategory, error)
	CreateSubcategory(ctx context.Context, subcategory *entity.Subcategory) error
	UpdateSubcategory(ctx context.Context, subcategory *entity.Subcategory) error
	DeleteSubcategory(ctx context.Context, id string) error
}

// GoalGateway defines the remote operations on goals and goal entries.
type GoalGateway interface {
	ListGoals(ctx context.Context, familyID string) ([]*entity.Goal, error)
	GetGoal(ctx context.Context, id string) (*entity.Goal, error)
	CreateGoal(ctx context.Context, goal *entity.Goal) error
	UpdateGoal(ctx context.Context, goal *entity.Goal) error
	DeleteGoal(ctx context.Context, id string) error

	// ListGoalEntries retrieves the entries of every given goal in a single query.
	ListGoalEntries(ctx context.Context, goalIDs []string) ([]*entity.GoalEntry, error)
	GetGoalEntry(ctx context.Context, id string) (*entity.GoalEntry, error)
	FindGoalEntryByExpense(ctx context.Context, expenseID string) (*entity.GoalEntry, error)
	CreateGoalEntry(ctx context.Context, entry *entity.GoalEntry) error
	UpdateGoalEntry(ctx context.Context, entry *entity.GoalEntry) error
	DeleteGoalEntry(ctx context.Context, id string) error
}

// RemoteStore is the relational backend. Every method validates its payload before the call
// and returns a non-nil error on both validation and transport failures.
type RemoteStore interface {
	FamilyGateway
	MonthGateway
	ExpenseGateway
	SubcategoryGateway
	GoalGateway
}
