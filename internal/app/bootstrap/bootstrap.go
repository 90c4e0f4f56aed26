package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	electionservice "ballot/contexts/governance/election-service"
	postgresadapter "ballot/contexts/governance/election-service/adapters/postgres"
	workerapp "ballot/contexts/governance/election-service/application/workers"
	"ballot/internal/platform/config"
	"ballot/internal/platform/db"
	"ballot/internal/platform/httpserver"
	"ballot/internal/platform/messaging"

	"github.com/robfig/cron/v3"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

const bootstrapModule = "internal/app/bootstrap"

type APIApp struct {
	server    *httpserver.Server
	postgres  *db.Postgres
	scheduler *relayScheduler
	announcer *workerapp.ResultsAnnouncer
	logger    *slog.Logger
}

type WorkerApp struct {
	postgres  *db.Postgres
	scheduler *relayScheduler
	announcer workerapp.ResultsAnnouncer
	logger    *slog.Logger
}

// BuildAPI wires the HTTP process. With the memory store the outbox lives in
// this process, so the API also runs the relay and the results announcer.
func BuildAPI(ctx context.Context) (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")
	bus := messaging.NewBus(0, logger)

	app := &APIApp{logger: logger}
	var module electionservice.Module
	switch cfg.StoreDriver {
	case config.StorePostgres:
		pg, repo, err := connectRepository(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		app.postgres = pg
		module = electionservice.NewModule(electionservice.Dependencies{
			Elections:       repo,
			Outbox:          repo,
			Publisher:       bus,
			Clock:           postgresadapter.SystemClock{},
			IDGen:           postgresadapter.UUIDGenerator{},
			OutboxBatchSize: cfg.OutboxBatchSize,
			Logger:          logger,
		})
	default:
		module = electionservice.NewInMemoryModule(nil, bus, logger)
		module.OutboxRelay.BatchSize = cfg.OutboxBatchSize

		scheduler, err := newRelayScheduler(cfg.OutboxRelaySchedule, module.OutboxRelay, logger)
		if err != nil {
			return nil, err
		}
		app.scheduler = scheduler
		app.announcer = &workerapp.ResultsAnnouncer{
			Subscriber:    bus,
			ConsumerGroup: cfg.ResultsAnnouncerGroupID,
			Disabled:      !cfg.EnableResultsAnnouncer,
			Logger:        logger,
		}
	}

	app.server = httpserver.New(module, httpserver.Options{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		EnableSwagger:  cfg.EnableSwagger,
	}, logger, normalizeAddr(cfg.HTTPPort))
	return app, nil
}

// BuildWorker wires the relay process for the Postgres store.
func BuildWorker(ctx context.Context) (*WorkerApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "worker")
	if cfg.StoreDriver != config.StorePostgres {
		return nil, errors.New("worker requires STORE_DRIVER=postgres")
	}

	pg, repo, err := connectRepository(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	bus := messaging.NewBus(0, logger)
	relay := workerapp.OutboxRelay{
		Outbox:    repo,
		Publisher: bus,
		Clock:     postgresadapter.SystemClock{},
		BatchSize: cfg.OutboxBatchSize,
		Logger:    logger,
	}
	scheduler, err := newRelayScheduler(cfg.OutboxRelaySchedule, relay, logger)
	if err != nil {
		_ = pg.Close()
		return nil, err
	}

	return &WorkerApp{
		postgres:  pg,
		scheduler: scheduler,
		announcer: workerapp.ResultsAnnouncer{
			Subscriber:    bus,
			ConsumerGroup: cfg.ResultsAnnouncerGroupID,
			Disabled:      !cfg.EnableResultsAnnouncer,
			Logger:        logger,
		},
		logger: logger,
	}, nil
}

func connectRepository(ctx context.Context, cfg config.Config, logger *slog.Logger) (*db.Postgres, *postgresadapter.Repository, error) {
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, nil, errors.New("POSTGRES_DSN is required")
	}
	pg, err := db.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		return nil, nil, err
	}
	repo := postgresadapter.NewRepository(pg.DB, logger)
	if cfg.AutoMigrate {
		if err := repo.AutoMigrate(ctx); err != nil {
			_ = pg.Close()
			return nil, nil, fmt.Errorf("migrate election schema: %w", err)
		}
	}
	return pg, repo, nil
}

func (a *APIApp) Run(ctx context.Context) error {
	if a.announcer != nil {
		if err := a.announcer.Start(ctx); err != nil {
			return err
		}
	}
	if a.scheduler != nil {
		a.scheduler.Start(ctx)
		defer a.scheduler.Stop()
	}
	a.logger.Info("api app started",
		"event", "bootstrap_api_started",
		"module", bootstrapModule,
		"layer", "platform",
		"in_process_relay", a.scheduler != nil,
	)
	return a.server.Start(ctx)
}

func (a *APIApp) Close() error {
	if a.postgres != nil {
		return a.postgres.Close()
	}
	return nil
}

func (w *WorkerApp) Run(ctx context.Context) error {
	if err := w.announcer.Start(ctx); err != nil {
		return err
	}
	w.scheduler.Start(ctx)
	defer w.scheduler.Stop()

	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", bootstrapModule,
		"layer", "platform",
		"relay_schedule", w.scheduler.schedule,
	)
	<-ctx.Done()
	return nil
}

func (w *WorkerApp) Close() error {
	if w.postgres != nil {
		return w.postgres.Close()
	}
	return nil
}

// relayScheduler runs OutboxRelay.RunOnce on a cron schedule. Runs never
// overlap; a cycle still in flight when the next tick fires is skipped.
type relayScheduler struct {
	cron     *cron.Cron
	relay    workerapp.OutboxRelay
	schedule string
	logger   *slog.Logger
	ctx      context.Context
}

func newRelayScheduler(schedule string, relay workerapp.OutboxRelay, logger *slog.Logger) (*relayScheduler, error) {
	if strings.TrimSpace(schedule) == "" {
		schedule = "@every 2s"
	}
	s := &relayScheduler{
		cron: cron.New(cron.WithChain(
			cron.Recover(cron.DefaultLogger),
			cron.SkipIfStillRunning(cron.DefaultLogger),
		)),
		relay:    relay,
		schedule: schedule,
		logger:   logger,
		ctx:      context.Background(),
	}
	if _, err := s.cron.AddFunc(schedule, s.runOnce); err != nil {
		return nil, fmt.Errorf("invalid OUTBOX_RELAY_SCHEDULE %q: %w", schedule, err)
	}
	return s, nil
}

func (s *relayScheduler) Start(ctx context.Context) {
	s.ctx = ctx
	s.cron.Start()
}

func (s *relayScheduler) Stop() {
	<-s.cron.Stop().Done()
}

func (s *relayScheduler) runOnce() {
	if s.ctx.Err() != nil {
		return
	}
	if err := s.relay.RunOnce(s.ctx); err != nil {
		s.logger.Warn("outbox relay cycle failed, retrying on next tick",
			"event", "bootstrap_outbox_relay_failed",
			"module", bootstrapModule,
			"layer", "platform",
			"error", err.Error(),
		)
	}
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}
