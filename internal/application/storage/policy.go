// Package storage decides, per operation, whether the local store or the remote backend
// serves it, and runs the fallback and sync-queue rules around that decision.
package storage

import (
	"context"

	"github.com/family-budget/backend/internal/application/adapter"
	"github.com/family-budget/backend/internal/domain/valueobject"
)

// Mode is the storage decision for one operation.
type Mode struct {
	// Offline routes the operation to the local store.
	Offline bool
	// LocalFamily marks an offline-origin family. Its mutations are never sync-queued.
	LocalFamily bool
}

// Policy resolves the storage mode from a family id and the connectivity signal.
type Policy struct {
	connectivity adapter.Connectivity
}

// NewPolicy creates a new storage policy.
func NewPolicy(connectivity adapter.Connectivity) *Policy {
	return &Policy{
		connectivity: connectivity,
	}
}

// Resolve returns the storage mode for familyID.
func (p *Policy) Resolve(ctx context.Context, familyID string) Mode {
	if valueobject.IsLocalID(familyID) {
		return Mode{Offline: true, LocalFamily: true}
	}
	return Mode{Offline: !p.connectivity.IsOnline(ctx)}
}

// Online reports whether the remote backend is reachable right now.
func (p *Policy) Online(ctx context.Context) bool {
	return p.connectivity.IsOnline(ctx)
}
