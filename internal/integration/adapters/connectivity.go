package adapters

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/family-budget/backend/internal/application/adapter"
)

// Pinger is the reachability check of the remote backend.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ConnectivityProbe reports the remote backend as online when its last ping succeeded.
// Results are cached for the probe interval so that every storage call does not ping.
// At most one ping runs at a time and no lock is held while it runs; callers that
// already have a result keep using it until the running ping finishes.
type ConnectivityProbe struct {
	pinger       Pinger
	timeout      time.Duration
	interval     time.Duration
	forceOffline bool
	pings        singleflight.Group

	mu         sync.Mutex
	online     bool
	checkedAt  time.Time
	refreshing bool
	now        func() time.Time
}

var _ adapter.Connectivity = (*ConnectivityProbe)(nil)

// NewConnectivityProbe creates a probe. With forceOffline, the probe never reports online.
func NewConnectivityProbe(pinger Pinger, timeout, interval time.Duration, forceOffline bool) *ConnectivityProbe {
	return &ConnectivityProbe{
		pinger:       pinger,
		timeout:      timeout,
		interval:     interval,
		forceOffline: forceOffline,
		now:          time.Now,
	}
}

// IsOnline implements adapter.Connectivity.
func (p *ConnectivityProbe) IsOnline(ctx context.Context) bool {
	if p.forceOffline || p.pinger == nil {
		return false
	}

	p.mu.Lock()
	checked := !p.checkedAt.IsZero()
	if checked && (p.refreshing || p.now().Sub(p.checkedAt) < p.interval) {
		online := p.online
		p.mu.Unlock()
		return online
	}
	p.refreshing = true
	p.mu.Unlock()

	v, _, _ := p.pings.Do("ping", func() (any, error) {
		return p.ping(ctx), nil
	})
	return v.(bool)
}

// ping runs one reachability check and records its result.
func (p *ConnectivityProbe) ping(ctx context.Context) bool {
	// The result is shared, so one caller giving up must not mark the backend offline.
	pingCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.timeout)
	defer cancel()

	online := p.pinger.Ping(pingCtx) == nil

	p.mu.Lock()
	defer p.mu.Unlock()
	if online != p.online {
		slog.Info("Connectivity changed", "online", online)
	}
	p.online = online
	p.checkedAt = p.now()
	p.refreshing = false
	return online
}
