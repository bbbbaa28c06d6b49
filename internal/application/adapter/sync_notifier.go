// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"

	"github.com/family-budget/backend/internal/domain/entity"
)

// SyncNotifier wakes up the external collaborator that drains the sync queue.
// Notification is best-effort: the queue item is already durable when it is called.
type SyncNotifier interface {
	NotifyEnqueued(ctx context.Context, item *entity.SyncQueueItem) error
}
