// Package entity defines the core business entities for the domain layer.
package entity

// Record is an entity that can be stored by id in the local store and carried in a sync queue item.
type Record interface {
	RecordID() string
	SyncEntity() SyncEntity
}
