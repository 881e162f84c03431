package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	caseservice "github.com/eslamene/Meen-Ma3ana-sub004/contexts/case-management/case-service"
	messagingadapter "github.com/eslamene/Meen-Ma3ana-sub004/contexts/case-management/case-service/adapters/messaging"
	postgresadapter "github.com/eslamene/Meen-Ma3ana-sub004/contexts/case-management/case-service/adapters/postgres"
	workerapp "github.com/eslamene/Meen-Ma3ana-sub004/contexts/case-management/case-service/application/workers"
	"github.com/eslamene/Meen-Ma3ana-sub004/contexts/case-management/case-service/domain/lifecycle"
	"github.com/eslamene/Meen-Ma3ana-sub004/internal/platform/config"
	"github.com/eslamene/Meen-Ma3ana-sub004/internal/platform/db"
	"github.com/eslamene/Meen-Ma3ana-sub004/internal/platform/httpserver"
	"github.com/eslamene/Meen-Ma3ana-sub004/internal/platform/messaging"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

type APIApp struct {
	server          *httpserver.Server
	postgres        *db.Postgres
	consumer        workerapp.NotificationConsumer
	deliveryEnabled bool
	logger          *slog.Logger
}

type WorkerApp struct {
	postgres        *db.Postgres
	goalCloser      workerapp.GoalCloser
	consumer        workerapp.NotificationConsumer
	pollInterval    time.Duration
	closureEnabled  bool
	deliveryEnabled bool
	logger          *slog.Logger
}

func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	module, bus := buildCaseModule(pg, logger)
	server := httpserver.New(module, logger, normalizeAddr(cfg.HTTPPort))
	return &APIApp{
		server:   server,
		postgres: pg,
		consumer: workerapp.NotificationConsumer{
			Subscriber:    bus,
			ConsumerGroup: "case-service-notifications-api",
			Logger:        logger,
		},
		deliveryEnabled: cfg.EnableNotificationDelivery,
		logger:          logger,
	}, nil
}

func BuildWorker() (*WorkerApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "worker")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	module, bus := buildCaseModule(pg, logger)
	return &WorkerApp{
		postgres:   pg,
		goalCloser: module.GoalCloser,
		consumer: workerapp.NotificationConsumer{
			Subscriber:    bus,
			ConsumerGroup: "case-service-notifications-worker",
			Logger:        logger,
		},
		pollInterval:    cfg.WorkerPollInterval,
		closureEnabled:  cfg.EnableGoalClosure,
		deliveryEnabled: cfg.EnableNotificationDelivery,
		logger:          logger,
	}, nil
}

// buildCaseModule wires the case-management module against postgres and the
// in-process bus. Each process owns its bus, so the notification consumer
// runs next to the publisher.
func buildCaseModule(pg *db.Postgres, logger *slog.Logger) (caseservice.Module, *messaging.Bus) {
	repo := postgresadapter.NewRepository(pg.DB, logger)
	bus := messaging.NewBus(logger)

	module := caseservice.NewModule(caseservice.Dependencies{
		Cases:         repo,
		History:       repo,
		Users:         repo,
		Contributions: repo,
		Updates:       repo,
		Rules:         repo,
		Notifier: messagingadapter.EventNotifier{
			Publisher: bus,
			Logger:    logger,
		},
		Policy:      lifecycle.DefaultPolicy(),
		Clock:       postgresadapter.SystemClock{},
		IDGenerator: postgresadapter.UUIDGenerator{},
		Logger:      logger,
	})
	return module, bus
}

func (a *APIApp) Run(ctx context.Context) error {
	if a.deliveryEnabled {
		if err := a.consumer.Start(ctx); err != nil {
			return err
		}
	}

	a.logger.Info("api app started",
		"event", "bootstrap_api_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
	)
	return a.server.Start()
}

func (a *APIApp) Close() error {
	if a.postgres != nil {
		return a.postgres.Close()
	}
	return nil
}

func (w *WorkerApp) Run(ctx context.Context) error {
	if w.deliveryEnabled {
		if err := w.consumer.Start(ctx); err != nil {
			return err
		}
	}

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"poll_interval", w.pollInterval.String(),
		"goal_closure_enabled", w.closureEnabled,
	)

	for {
		if w.closureEnabled {
			if _, err := w.goalCloser.RunOnce(ctx); err != nil {
				return err
			}
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (w *WorkerApp) Close() error {
	if w.postgres != nil {
		return w.postgres.Close()
	}
	return nil
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
