// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"
	"encoding/json"

	"github.com/family-budget/backend/internal/domain/entity"
)

// Collection names a group of records in the local store.
type Collection string

const (
	CollectionFamilies          Collection = "families"
	CollectionFamilyMembers     Collection = "family_members"
	CollectionMonths            Collection = "months"
	CollectionExpenses          Collection = "expenses"
	CollectionRecurringExpenses Collection = "recurring_expenses"
	CollectionSubcategories     Collection = "subcategories"
	CollectionGoals             Collection = "goals"
	CollectionGoalEntries       Collection = "goal_entries"
	CollectionCategoryLimits    Collection = "category_limits"
	CollectionIncomeSources     Collection = "income_sources"
)

// FamilyScopedCollections are removed when an offline family is deleted.
var FamilyScopedCollections = []Collection{
	CollectionGoalEntries,
	CollectionGoals,
	CollectionExpenses,
	CollectionRecurringExpenses,
	CollectionSubcategories,
	CollectionCategoryLimits,
	CollectionIncomeSources,
	CollectionMonths,
	CollectionFamilyMembers,
}

// Index names a record field that can be queried with GetAllByIndex.
type Index string

const (
	IndexFamilyID  Index = "family_id"
	IndexMonthID   Index = "month_id"
	IndexGoalID    Index = "goal_id"
	IndexExpenseID Index = "expense_id"
	IndexUserID    Index = "user_id"
)

// LocalStore is the on-device persistent store. Records are JSON documents keyed by id.
type LocalStore interface {
	// GetAll returns every record of the collection.
	GetAll(ctx context.Context, collection Collection) ([]json.RawMessage, error)

	// GetAllByIndex returns the records whose index field equals value.
	GetAllByIndex(ctx context.Context, collection Collection, index Index, value string) ([]json.RawMessage, error)

	// Get returns the record with the given id, or nil when absent.
	Get(ctx context.Context, collection Collection, id string) (json.RawMessage, error)

	// Put inserts or replaces the record with the given id.
	Put(ctx context.Context, collection Collection, id string, record json.RawMessage) error

	// Delete removes the record with the given id. Deleting a missing record is not an error.
	Delete(ctx context.Context, collection Collection, id string) error

	// Clear removes every record of the collection.
	Clear(ctx context.Context, collection Collection) error

	// Sync returns the pending-sync queue.
	Sync() SyncQueue
}

// SyncQueue is the durable list of mutations waiting to reach the remote backend.
// Draining it is the responsibility of an external collaborator.
type SyncQueue interface {
	// Add appends an item to the queue.
	Add(ctx context.Context, item *entity.SyncQueueItem) error

	// GetAll returns every queued item, oldest first.
	GetAll(ctx context.Context) ([]*entity.SyncQueueItem, error)

	// GetByFamily returns the queued items of a family, oldest first.
	GetByFamily(ctx context.Context, familyID string) ([]*entity.SyncQueueItem, error)

	// Remove deletes a queued item.
	Remove(ctx context.Context, id string) error

	// Clear empties the queue.
	Clear(ctx context.Context) error
}
