package entity

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SyncEntity names the kind of record a sync queue item refers to.
type SyncEntity string

const (
	SyncEntityFamily           SyncEntity = "family"
	SyncEntityFamilyMember     SyncEntity = "family_member"
	SyncEntityMonth            SyncEntity = "month"
	SyncEntityCategoryLimit    SyncEntity = "category_limit"
	SyncEntityIncomeSource     SyncEntity = "income_source"
	SyncEntityExpense          SyncEntity = "expense"
	SyncEntityRecurringExpense SyncEntity = "recurring_expense"
	SyncEntitySubcategory      SyncEntity = "subcategory"
	SyncEntityGoal             SyncEntity = "goal"
	SyncEntityGoalEntry        SyncEntity = "goal_entry"
)

// SyncAction is the mutation a sync queue item replays.
type SyncAction string

const (
	SyncActionInsert SyncAction = "insert"
	SyncActionUpdate SyncAction = "update"
	SyncActionDelete SyncAction = "delete"
)

// SyncQueueItem is a mutation of an online family that still has to reach the remote backend.
type SyncQueueItem struct {
	ID        string          `json:"id"`
	Type      SyncEntity      `json:"type"`
	Action    SyncAction      `json:"action"`
	Payload   json.RawMessage `json:"payload"`
	FamilyID  string          `json:"family_id"`
	CreatedAt time.Time       `json:"created_at"`
}

// NewSyncQueueItem serializes record into a queue item for familyID.
func NewSyncQueueItem(action SyncAction, familyID string, record Record) (*SyncQueueItem, error) {
	payload, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal sync payload: %w", err)
	}

	return &SyncQueueItem{
		ID:        uuid.NewString(),
		Type:      record.SyncEntity(),
		Action:    action,
		Payload:   payload,
		FamilyID:  familyID,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// Tombstone identifies a deleted record in a delete sync item.
type Tombstone struct {
	Entity SyncEntity `json:"-"`
	ID     string     `json:"id"`
}

// NewTombstone creates a new Tombstone.
func NewTombstone(entity SyncEntity, id string) *Tombstone {
	return &Tombstone{Entity: entity, ID: id}
}

// RecordID implements Record.
func (t *Tombstone) RecordID() string { return t.ID }

// SyncEntity implements Record.
func (t *Tombstone) SyncEntity() SyncEntity { return t.Entity }
