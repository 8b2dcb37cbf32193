package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"admissions_crm_backend/internal/adapters"
	"admissions_crm_backend/internal/ai"
	"admissions_crm_backend/internal/appointments"
	appointmentsservice "admissions_crm_backend/internal/appointments/service"
	"admissions_crm_backend/internal/catalog"
	"admissions_crm_backend/internal/dashboard"
	"admissions_crm_backend/internal/events"
	"admissions_crm_backend/internal/exports"
	apphttp "admissions_crm_backend/internal/http"
	"admissions_crm_backend/internal/http/router"
	"admissions_crm_backend/internal/identity"
	"admissions_crm_backend/internal/leads"
	"admissions_crm_backend/internal/messaging"
	"admissions_crm_backend/internal/scheduler"
	"admissions_crm_backend/platform/config"
	"admissions_crm_backend/platform/db"
	"admissions_crm_backend/platform/logger"
	"admissions_crm_backend/platform/validator"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, cfg, "migrations")
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()
	log.Info("database connection established")

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	var rdb *redis.Client
	var reminderScheduler appointmentsservice.ReminderScheduler
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.GetRedisAddr(),
			Password: cfg.GetRedisPassword(),
			DB:       cfg.GetRedisDB(),
		})

		reminderClient, err := scheduler.NewClient(cfg, cfg.GetReminderLeadTime())
		if err != nil {
			log.Error("failed to initialize reminder scheduler client", "error", err)
		} else {
			reminderScheduler = reminderClient
			defer func() { _ = reminderClient.Close() }()
		}
	} else {
		log.Warn("REDIS_ADDR not configured; dashboard cache and appointment reminders disabled")
	}

	// Shared validator instance for dependency injection
	val := validator.New()

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	identityModule := identity.NewModule(pool, cfg, val, log)
	catalogModule := catalog.NewModule(pool, val, log)

	advisorDirectory := adapters.NewAdvisorDirectoryAdapter(identityModule.Service())
	leadsModule := leads.NewModule(pool, catalogModule.Service(), advisorDirectory, eventBus, val, log)
	leadsService := leadsModule.Service()

	appointmentsModule := appointments.NewModule(pool, leadsService, reminderScheduler, eventBus, val, log)

	messagingModule, err := messaging.NewModule(cfg, leadsService, advisorDirectory, eventBus, val, log)
	if err != nil {
		log.Error("failed to initialize messaging module", "error", err)
		panic("failed to initialize messaging module: " + err.Error())
	}

	aiModule, err := ai.NewModule(ctx, cfg, leadsService, catalogModule.Service(), log)
	if err != nil {
		log.Error("failed to initialize AI module", "error", err)
		panic("failed to initialize AI module: " + err.Error())
	}

	exportsModule := exports.NewModule(leadsService, catalogModule.Service(), log)

	dashboardAdvisors := adapters.NewDashboardAdvisorAdapter(identityModule.Service())
	dashboardModule := dashboard.NewModule(leadsService, catalogModule.Service(), dashboardAdvisors, rdb, log)

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   db.NewPoolAdapter(pool),
		EventBus: eventBus,
		Modules: []apphttp.Module{
			identityModule,
			catalogModule,
			leadsModule,
			appointmentsModule,
			dashboardModule,
			messagingModule,
			aiModule,
			exportsModule,
		},
	}

	engine := router.New(app)

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- engine.Run(cfg.HTTPAddr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
	case err := <-srvErr:
		if err != nil {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return errors.New(name + ": invalid retry attempts")
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
