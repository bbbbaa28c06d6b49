package adapters

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	domainerror "github.com/family-budget/backend/internal/domain/error"
	"github.com/family-budget/backend/test/mock"
)

func TestTokenService_RoundTrip(t *testing.T) {
	svc := NewTokenService("secret")

	token, err := svc.IssueToken("user-1", "user@example.com", time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	session, err := svc.ParseSession(context.Background(), token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if session.UserID != "user-1" || session.Email != "user@example.com" || !session.HasCloudIdentity() {
		t.Errorf("unexpected session %+v", session)
	}
}

func TestTokenService_Rejects(t *testing.T) {
	svc := NewTokenService("secret")
	expired, _ := svc.IssueToken("user-1", "user@example.com", -time.Minute)
	foreign, _ := NewTokenService("other-secret").IssueToken("user-1", "user@example.com", time.Minute)

	tests := []struct {
		name  string
		token string
	}{
		{name: "garbage", token: "not-a-token"},
		{name: "expired", token: expired},
		{name: "wrong secret", token: foreign},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ParseSession(context.Background(), tt.token)
			if !errors.Is(err, domainerror.ErrInvalidToken) {
				t.Errorf("expected invalid token, got %v", err)
			}
		})
	}
}

func TestRedisPreferenceCache(t *testing.T) {
	ctx := context.Background()
	client, server := mock.NewRedis()
	defer server.Close()
	cache := NewRedisPreferenceCache(client, "test")

	got, err := cache.GetCurrentFamilyID(ctx, "user-1")
	if err != nil || got != "" {
		t.Fatalf("expected empty cache, got %q, %v", got, err)
	}

	if err := cache.SetCurrentFamilyID(ctx, "user-1", "family-a"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_ = cache.SetCurrentFamilyID(ctx, "device", "offline-b")

	if got, _ := cache.GetCurrentFamilyID(ctx, "user-1"); got != "family-a" {
		t.Errorf("expected family-a, got %q", got)
	}
	if !server.Exists("test:current-family:device") {
		t.Error("expected namespaced key")
	}

	_ = cache.SetCurrentFamilyID(ctx, "user-1", "")
	if got, _ := cache.GetCurrentFamilyID(ctx, "user-1"); got != "" {
		t.Errorf("expected cleared entry, got %q", got)
	}
}

func TestMemoryPreferenceCache(t *testing.T) {
	ctx := context.Background()
	cache := NewMemoryPreferenceCache()

	_ = cache.SetCurrentFamilyID(ctx, "user-1", "family-a")
	_ = cache.SetCurrentFamilyID(ctx, "device", "offline-b")

	if got, _ := cache.GetCurrentFamilyID(ctx, "user-1"); got != "family-a" {
		t.Errorf("expected family-a, got %q", got)
	}
	if got, _ := cache.GetCurrentFamilyID(ctx, "device"); got != "offline-b" {
		t.Errorf("expected offline-b, got %q", got)
	}

	_ = cache.SetCurrentFamilyID(ctx, "user-1", "")
	if got, _ := cache.GetCurrentFamilyID(ctx, "user-1"); got != "" {
		t.Errorf("expected cleared entry, got %q", got)
	}
}

type fakePinger struct {
	err   error
	calls int
}

func (p *fakePinger) Ping(context.Context) error {
	p.calls++
	return p.err
}

func TestConnectivityProbe(t *testing.T) {
	ctx := context.Background()
	pinger := &fakePinger{}
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	probe := NewConnectivityProbe(pinger, time.Second, 10*time.Second, false)
	probe.now = func() time.Time { return now }

	if !probe.IsOnline(ctx) {
		t.Fatal("expected online")
	}

	pinger.err = errors.New("connection refused")
	if !probe.IsOnline(ctx) || pinger.calls != 1 {
		t.Errorf("expected cached result within the interval, calls=%d", pinger.calls)
	}

	now = now.Add(11 * time.Second)
	if probe.IsOnline(ctx) {
		t.Error("expected offline after a failed ping")
	}

	forced := NewConnectivityProbe(&fakePinger{}, time.Second, time.Second, true)
	if forced.IsOnline(ctx) {
		t.Error("forced offline probe must never report online")
	}
}

// gatedPinger blocks every ping until gate is closed.
type gatedPinger struct {
	calls   atomic.Int32
	entered chan struct{}
	gate    chan struct{}
	err     error
}

func newGatedPinger() *gatedPinger {
	return &gatedPinger{entered: make(chan struct{}, 16), gate: make(chan struct{})}
}

func (p *gatedPinger) Ping(context.Context) error {
	p.calls.Add(1)
	p.entered <- struct{}{}
	<-p.gate
	return p.err
}

func TestConnectivityProbe_ConcurrentCallers(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("first check is shared", func(t *testing.T) {
		pinger := newGatedPinger()
		probe := NewConnectivityProbe(pinger, time.Second, 10*time.Second, false)
		probe.now = func() time.Time { return now }

		var wg sync.WaitGroup
		results := make(chan bool, 5)
		for i := 0; i < 5; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				results <- probe.IsOnline(ctx)
			}()
		}

		<-pinger.entered
		close(pinger.gate)
		wg.Wait()
		close(results)

		for online := range results {
			if !online {
				t.Error("expected every caller to see online")
			}
		}
		if calls := pinger.calls.Load(); calls != 1 {
			t.Errorf("expected a single ping, got %d", calls)
		}
	})

	t.Run("slow refresh does not block other callers", func(t *testing.T) {
		pinger := newGatedPinger()
		probe := NewConnectivityProbe(pinger, time.Second, 10*time.Second, false)
		clock := now
		probe.now = func() time.Time { return clock }

		// Seed an online result.
		close(pinger.gate)
		if !probe.IsOnline(ctx) {
			t.Fatal("expected online")
		}
		<-pinger.entered

		pinger.gate = make(chan struct{})
		pinger.err = errors.New("timeout")
		clock = clock.Add(11 * time.Second)

		refreshed := make(chan bool, 1)
		go func() { refreshed <- probe.IsOnline(ctx) }()
		<-pinger.entered

		other := make(chan bool, 1)
		go func() { other <- probe.IsOnline(ctx) }()
		select {
		case online := <-other:
			if !online {
				t.Error("expected the previous result while the refresh runs")
			}
		case <-time.After(time.Second):
			t.Fatal("caller blocked behind the running ping")
		}

		close(pinger.gate)
		if <-refreshed {
			t.Error("expected the refreshing caller to see the failed ping")
		}
		if probe.IsOnline(ctx) {
			t.Error("expected offline once the refresh finished")
		}
		if calls := pinger.calls.Load(); calls != 2 {
			t.Errorf("expected two pings, got %d", calls)
		}
	})
}
