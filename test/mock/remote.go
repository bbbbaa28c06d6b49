package mock

import (
	"context"
	"sync"

	"github.com/family-budget/backend/internal/application/adapter"
	"github.com/family-budget/backend/internal/domain/entity"
)

// UnreachableRemote is a RemoteStore that must never be called: every method panics.
type UnreachableRemote struct {
	adapter.RemoteStore
}

// Connectivity is a connectivity signal tests can flip.
type Connectivity struct {
	mu     sync.RWMutex
	online bool
}

// NewConnectivity creates a signal with the given initial state.
func NewConnectivity(online bool) *Connectivity {
	return &Connectivity{online: online}
}

// IsOnline implements adapter.Connectivity.
func (c *Connectivity) IsOnline(_ context.Context) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.online
}

// SetOnline changes the signal.
func (c *Connectivity) SetOnline(online bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.online = online
}

// SyncNotifier records every notified sync item.
type SyncNotifier struct {
	mu    sync.Mutex
	Items []*entity.SyncQueueItem
	Err   error
}

// NotifyEnqueued implements adapter.SyncNotifier.
func (n *SyncNotifier) NotifyEnqueued(_ context.Context, item *entity.SyncQueueItem) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Items = append(n.Items, item)
	return n.Err
}

// Count returns the number of notifications received.
func (n *SyncNotifier) Count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.Items)
}

// InvitationNotifier records every invitation notice.
type InvitationNotifier struct {
	mu      sync.Mutex
	Notices []adapter.InvitationNotice
	Err     error
}

// NotifyInvitation implements adapter.InvitationNotifier.
func (n *InvitationNotifier) NotifyInvitation(_ context.Context, notice adapter.InvitationNotice) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Notices = append(n.Notices, notice)
	return n.Err
}

// PreferenceCache is an in-memory adapter.PreferenceCache.
type PreferenceCache struct {
	mu     sync.Mutex
	values map[string]string
}

// NewPreferenceCache creates an empty cache.
func NewPreferenceCache() *PreferenceCache {
	return &PreferenceCache{values: map[string]string{}}
}

// GetCurrentFamilyID implements adapter.PreferenceCache.
func (p *PreferenceCache) GetCurrentFamilyID(_ context.Context, scope string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.values[scope], nil
}

// SetCurrentFamilyID implements adapter.PreferenceCache.
func (p *PreferenceCache) SetCurrentFamilyID(_ context.Context, scope, familyID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if familyID == "" {
		delete(p.values, scope)
		return nil
	}
	p.values[scope] = familyID
	return nil
}
