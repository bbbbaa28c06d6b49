package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/family-budget/backend/internal/application/adapter"
	"github.com/family-budget/backend/internal/domain/entity"
)

// Dispatcher runs reads and writes through the dual-mode sequence.
type Dispatcher struct {
	policy   *Policy
	local    adapter.LocalStore
	notifier adapter.SyncNotifier
	locks    *KeyedMutex
}

// NewDispatcher creates a dispatcher. notifier may be nil.
func NewDispatcher(policy *Policy, local adapter.LocalStore, notifier adapter.SyncNotifier) *Dispatcher {
	return &Dispatcher{
		policy:   policy,
		local:    local,
		notifier: notifier,
		locks:    NewKeyedMutex(),
	}
}

// Local returns the local store.
func (d *Dispatcher) Local() adapter.LocalStore {
	return d.local
}

// Resolve returns the storage mode for familyID.
func (d *Dispatcher) Resolve(ctx context.Context, familyID string) Mode {
	return d.policy.Resolve(ctx, familyID)
}

// Online reports whether the remote backend is reachable right now.
func (d *Dispatcher) Online(ctx context.Context) bool {
	return d.policy.Online(ctx)
}

// Lock serializes read-modify-write sequences on one record within this process.
// The returned function releases the lock.
func (d *Dispatcher) Lock(kind entity.SyncEntity, id string) func() {
	return d.locks.Lock(string(kind) + ":" + id)
}

// Write describes one mutation and how each store performs it.
type Write[T entity.Record] struct {
	Action entity.SyncAction
	Remote func(ctx context.Context) (T, error)
	Local  func(ctx context.Context) (T, error)
}

// Mutate performs w for familyID.
//
// Offline mode writes locally. Online mode writes remotely once; on failure it writes
// locally instead. The write is queued for sync whenever it did not reach the remote
// backend, unless the family is offline-origin.
func Mutate[T entity.Record](ctx context.Context, d *Dispatcher, familyID string, w Write[T]) (T, error) {
	mode := d.Resolve(ctx, familyID)

	if !mode.Offline {
		result, err := w.Remote(ctx)
		if err == nil {
			return result, nil
		}
		slog.Warn("Remote write failed, falling back to local store",
			"action", w.Action,
			"family_id", familyID,
			"error", err,
		)
	}

	result, err := w.Local(ctx)
	if err != nil {
		return result, err
	}

	if !mode.LocalFamily {
		if err := d.enqueue(ctx, w.Action, familyID, result); err != nil {
			return result, err
		}
	}

	return result, nil
}

// Read performs a read for familyID: locally in offline mode, remotely otherwise with a
// local fallback on failure. Reads are never queued.
func Read[T any](ctx context.Context, d *Dispatcher, familyID string, remote, local func(ctx context.Context) (T, error)) (T, error) {
	mode := d.Resolve(ctx, familyID)

	if !mode.Offline {
		result, err := remote(ctx)
		if err == nil {
			return result, nil
		}
		slog.Warn("Remote read failed, falling back to local store",
			"family_id", familyID,
			"error", err,
		)
	}

	return local(ctx)
}

func (d *Dispatcher) enqueue(ctx context.Context, action entity.SyncAction, familyID string, record entity.Record) error {
	item, err := entity.NewSyncQueueItem(action, familyID, record)
	if err != nil {
		return err
	}

	if err := d.local.Sync().Add(ctx, item); err != nil {
		return fmt.Errorf("failed to enqueue sync item: %w", err)
	}

	slog.Debug("Sync item enqueued",
		"item_id", item.ID,
		"type", item.Type,
		"action", item.Action,
		"family_id", familyID,
	)

	if d.notifier != nil {
		if err := d.notifier.NotifyEnqueued(ctx, item); err != nil {
			slog.Warn("Failed to notify sync queue consumer", "item_id", item.ID, "error", err)
		}
	}

	return nil
}
