// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import "context"

// Connectivity reports network reachability. It is read at call time, never subscribed to.
type Connectivity interface {
	IsOnline(ctx context.Context) bool
}

// PreferenceCache is the fast cache holding the current family id across reloads,
// independent of the main local store.
type PreferenceCache interface {
	// GetCurrentFamilyID returns the cached family id, or "" when none is cached.
	GetCurrentFamilyID(ctx context.Context, scope string) (string, error)

	// SetCurrentFamilyID caches the family id. An empty id clears the entry.
	SetCurrentFamilyID(ctx context.Context, scope, familyID string) error
}
