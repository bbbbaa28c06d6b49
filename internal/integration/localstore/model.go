package localstore

import (
	"encoding/json"
	"time"

	"github.com/family-budget/backend/internal/domain/entity"
)

// RecordModel represents one JSON document of a local collection.
type RecordModel struct {
	Collection string    `gorm:"type:varchar(64);primaryKey"`
	ID         string    `gorm:"type:varchar(255);primaryKey"`
	Data       string    `gorm:"type:text;not null"`
	CreatedAt  time.Time `gorm:"not null;index"`
	UpdatedAt  time.Time `gorm:"not null"`
}

// TableName returns the table name for the RecordModel.
func (RecordModel) TableName() string {
	return "local_records"
}

// SyncQueueModel represents the sync_queue table. Seq keeps insertion order.
type SyncQueueModel struct {
	Seq       int64     `gorm:"primaryKey;autoIncrement"`
	ID        string    `gorm:"type:varchar(64);uniqueIndex;not null"`
	Type      string    `gorm:"type:varchar(32);not null"`
	Action    string    `gorm:"type:varchar(16);not null"`
	Payload   string    `gorm:"type:text;not null"`
	FamilyID  string    `gorm:"type:varchar(255);not null;index"`
	CreatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for the SyncQueueModel.
func (SyncQueueModel) TableName() string {
	return "sync_queue"
}

// ToEntity converts a SyncQueueModel to a domain SyncQueueItem.
func (m *SyncQueueModel) ToEntity() *entity.SyncQueueItem {
	return &entity.SyncQueueItem{
		ID:        m.ID,
		Type:      entity.SyncEntity(m.Type),
		Action:    entity.SyncAction(m.Action),
		Payload:   json.RawMessage(m.Payload),
		FamilyID:  m.FamilyID,
		CreatedAt: m.CreatedAt,
	}
}

// SyncQueueFromEntity creates a SyncQueueModel from a domain SyncQueueItem.
func SyncQueueFromEntity(item *entity.SyncQueueItem) *SyncQueueModel {
	return &SyncQueueModel{
		ID:        item.ID,
		Type:      string(item.Type),
		Action:    string(item.Action),
		Payload:   string(item.Payload),
		FamilyID:  item.FamilyID,
		CreatedAt: item.CreatedAt,
	}
}

// EmailJobModel represents the email_queue table.
type EmailJobModel struct {
	ID          string    `gorm:"type:varchar(64);primaryKey"`
	Template    string    `gorm:"type:varchar(64);not null"`
	Recipient   string    `gorm:"type:varchar(255);not null"`
	ReplyTo     string    `gorm:"type:varchar(255)"`
	RefID       string    `gorm:"type:varchar(255);index"`
	Data        string    `gorm:"type:text;not null"`
	Status      string    `gorm:"type:varchar(16);not null;index:idx_email_queue_due,priority:1"`
	Attempts    int       `gorm:"not null"`
	MaxAttempts int       `gorm:"not null"`
	LastError   string    `gorm:"type:text"`
	MessageID   string    `gorm:"type:varchar(255)"`
	CreatedAt   time.Time `gorm:"not null"`
	ScheduledAt time.Time `gorm:"not null;index:idx_email_queue_due,priority:2"`
	ProcessedAt *time.Time
}

// TableName returns the table name for the EmailJobModel.
func (EmailJobModel) TableName() string {
	return "email_queue"
}

// ToEntity converts an EmailJobModel to a domain EmailJob.
func (m *EmailJobModel) ToEntity() *entity.EmailJob {
	data := map[string]string{}
	// Rows are only written by EmailJobFromEntity, so Data is always a JSON object.
	_ = json.Unmarshal([]byte(m.Data), &data)
	return &entity.EmailJob{
		ID:          m.ID,
		Template:    entity.EmailTemplate(m.Template),
		Recipient:   m.Recipient,
		ReplyTo:     m.ReplyTo,
		RefID:       m.RefID,
		Data:        data,
		Status:      entity.EmailStatus(m.Status),
		Attempts:    m.Attempts,
		MaxAttempts: m.MaxAttempts,
		LastError:   m.LastError,
		MessageID:   m.MessageID,
		CreatedAt:   m.CreatedAt,
		ScheduledAt: m.ScheduledAt,
		ProcessedAt: m.ProcessedAt,
	}
}

// EmailJobFromEntity creates an EmailJobModel from a domain EmailJob.
func EmailJobFromEntity(job *entity.EmailJob) (*EmailJobModel, error) {
	data := job.Data
	if data == nil {
		data = map[string]string{}
	}
	encoded, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return &EmailJobModel{
		ID:          job.ID,
		Template:    string(job.Template),
		Recipient:   job.Recipient,
		ReplyTo:     job.ReplyTo,
		RefID:       job.RefID,
		Data:        string(encoded),
		Status:      string(job.Status),
		Attempts:    job.Attempts,
		MaxAttempts: job.MaxAttempts,
		LastError:   job.LastError,
		MessageID:   job.MessageID,
		CreatedAt:   job.CreatedAt,
		ScheduledAt: job.ScheduledAt,
		ProcessedAt: job.ProcessedAt,
	}, nil
}

// Models lists every model of the local store for migration.
func Models() []any {
	return []any{&RecordModel{}, &SyncQueueModel{}, &EmailJobModel{}}
}
