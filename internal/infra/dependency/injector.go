// Package dependency provides dependency injection for the application.
package dependency

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/family-budget/backend/config"
	"github.com/family-budget/backend/internal/application/adapter"
	"github.com/family-budget/backend/internal/application/storage"
	"github.com/family-budget/backend/internal/application/usecase/consistency"
	"github.com/family-budget/backend/internal/application/usecase/expense"
	"github.com/family-budget/backend/internal/application/usecase/family"
	"github.com/family-budget/backend/internal/application/usecase/goal"
	"github.com/family-budget/backend/internal/application/usecase/month"
	"github.com/family-budget/backend/internal/application/usecase/recurring"
	"github.com/family-budget/backend/internal/application/usecase/session"
	"github.com/family-budget/backend/internal/application/usecase/subcategory"
	"github.com/family-budget/backend/internal/infra/db"
	"github.com/family-budget/backend/internal/infra/server/router"
	"github.com/family-budget/backend/internal/integration/adapters"
	"github.com/family-budget/backend/internal/integration/amqp"
	"github.com/family-budget/backend/internal/integration/email"
	"github.com/family-budget/backend/internal/integration/email/templates"
	"github.com/family-budget/backend/internal/integration/entrypoint/controller"
	"github.com/family-budget/backend/internal/integration/entrypoint/middleware"
	"github.com/family-budget/backend/internal/integration/localstore"
	"github.com/family-budget/backend/internal/integration/remote"
)

// Injector holds all application dependencies.
type Injector struct {
	Config *config.Config
	Router *router.Router

	// EmailWorker is nil when invitation emails are disabled.
	EmailWorker       *email.Worker
	InviteRateLimiter *middleware.RateLimiter

	closers []func() error
}

// NewInjector creates a new dependency injector with all dependencies wired.
// remoteDB may be nil, in which case every operation runs against the local store.
func NewInjector(cfg *config.Config, remoteDB, localDB *db.Database) *Injector {
	inj := &Injector{Config: cfg}

	// Storage: local store, remote gateway and the connectivity policy between them
	localStore := localstore.NewStore(localDB.DB())

	var remoteStore adapter.RemoteStore
	var pinger adapters.Pinger
	forceOffline := cfg.Sync.ForceOffline
	if remoteDB != nil {
		remoteStore = remote.NewGateway(remoteDB.DB())
		pinger = remoteDB
	} else {
		forceOffline = true
	}
	probe := adapters.NewConnectivityProbe(pinger, cfg.Sync.ProbeTimeout, cfg.Sync.ProbeInterval, forceOffline)

	var syncNotifier adapter.SyncNotifier
	if publisher := inj.newPublisher(cfg.AMQP); publisher != nil {
		syncNotifier = publisher
	}
	dispatcher := storage.NewDispatcher(storage.NewPolicy(probe), localStore, syncNotifier)

	// Ambient adapters
	tokenService := adapters.NewTokenService(cfg.JWT.Secret)
	preferenceCache := inj.newPreferenceCache(cfg.Redis)

	var invitationNotifier adapter.InvitationNotifier
	if worker := newEmailWorker(cfg.Email, localstore.NewEmailQueue(localDB.DB())); worker != nil {
		inj.EmailWorker = worker
		invitationNotifier = worker
	}

	// Use cases
	familyService := family.NewService(dispatcher, remoteStore, preferenceCache, invitationNotifier, cfg.Email.InvitationTTL)
	subcategoryService := subcategory.NewService(dispatcher, remoteStore)
	goalService := goal.NewService(dispatcher, remoteStore)
	entryService := goal.NewEntryService(dispatcher, remoteStore)
	linker := consistency.NewLinker(dispatcher, goalService, entryService, remoteStore)
	expenseService := expense.NewService(dispatcher, remoteStore, linker)
	recurringService := recurring.NewService(dispatcher, remoteStore)
	monthService := month.NewService(dispatcher, remoteStore, expenseService, recurringService, adapters.IncludeRecurring)
	orchestrator := session.NewOrchestrator(familyService, monthService, goalService, subcategoryService, recurringService)

	// Controllers
	dbHealthChecker := func() bool { return false }
	if remoteDB != nil {
		dbHealthChecker = remoteDB.HealthCheck
	}
	healthController := controller.NewHealthController(dbHealthChecker, probe, localStore)
	familyController := controller.NewFamilyController(familyService, orchestrator)
	monthController := controller.NewMonthController(monthService)
	expenseController := controller.NewExpenseController(expenseService)
	recurringController := controller.NewRecurringController(recurringService)
	subcategoryController := controller.NewSubcategoryController(subcategoryService)
	goalController := controller.NewGoalController(goalService, entryService)

	// Test and e2e runs send many invitations from one address.
	inviteLimit := cfg.Email.InviteLimit
	if cfg.Server.Environment == "e2e" || cfg.Server.Environment == "test" {
		inviteLimit = 1000
	}
	inj.InviteRateLimiter = middleware.NewRateLimiter(inviteLimit, cfg.Email.InviteWindow)
	authMiddleware := middleware.NewAuthMiddleware(tokenService)

	inj.Router = router.NewRouter(
		healthController,
		familyController,
		monthController,
		expenseController,
		recurringController,
		subcategoryController,
		goalController,
		inj.InviteRateLimiter,
		authMiddleware,
	)

	return inj
}

// Close releases the broker and cache connections.
func (i *Injector) Close() {
	for _, closeFn := range i.closers {
		if err := closeFn(); err != nil {
			slog.Error("Failed to close dependency", "error", err)
		}
	}
}

// newPublisher connects to the sync broker, or returns nil when it is disabled or unreachable.
func (i *Injector) newPublisher(cfg config.AMQPConfig) *amqp.Publisher {
	if !cfg.Enabled {
		return nil
	}

	publisher, err := amqp.NewPublisher(cfg.URL, cfg.Exchange, cfg.Queue, cfg.Timeout)
	if err != nil {
		slog.Warn("Sync broker unavailable, queue notifications disabled", "error", err)
		return nil
	}
	i.closers = append(i.closers, publisher.Close)
	return publisher
}

// newPreferenceCache returns the Redis cache, or an in-process cache when Redis is not configured
// or does not answer.
func (i *Injector) newPreferenceCache(cfg config.RedisConfig) adapter.PreferenceCache {
	if cfg.URL == "" {
		return adapters.NewMemoryPreferenceCache()
	}

	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		slog.Warn("Invalid Redis URL, using in-process preference cache", "error", err)
		return adapters.NewMemoryPreferenceCache()
	}
	if cfg.Password != "" {
		opts.Password = cfg.Password
	}
	if cfg.DB != 0 {
		opts.DB = cfg.DB
	}

	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		slog.Warn("Redis unavailable, using in-process preference cache", "error", err)
		_ = client.Close()
		return adapters.NewMemoryPreferenceCache()
	}

	i.closers = append(i.closers, client.Close)
	return adapters.NewRedisPreferenceCache(client, cfg.KeyPrefix)
}

// newEmailWorker builds the invitation email worker on the local email queue, or returns
// nil when emails are disabled.
func newEmailWorker(cfg config.EmailConfig, queue adapter.EmailQueue) *email.Worker {
	if !cfg.NotificationsOn || cfg.ResendAPIKey == "" {
		slog.Info("Invitation emails disabled")
		return nil
	}

	renderer, err := templates.NewRenderer()
	if err != nil {
		slog.Error("Failed to load email templates", "error", err)
		return nil
	}

	workerConfig := email.DefaultWorkerConfig()
	workerConfig.AppBaseURL = cfg.AppBaseURL
	sender := email.NewResendClient(cfg.ResendAPIKey, cfg.FromName, cfg.FromEmail)
	return email.NewWorker(queue, sender, renderer, workerConfig)
}
