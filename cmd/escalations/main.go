package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/novacorp/hr-assistant/internal/config"
	"github.com/novacorp/hr-assistant/internal/core/domain"
	"github.com/novacorp/hr-assistant/internal/infrastructure/queue/nats"
	"github.com/novacorp/hr-assistant/internal/infrastructure/repository/postgres"
	"github.com/novacorp/hr-assistant/internal/observability/logging"
	"github.com/novacorp/hr-assistant/internal/observability/metrics"
)

func main() {
	cfg := config.Load()
	logger := logging.NewJSONLogger("hr-assistant-escalations", cfg.LogLevel)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		logger.Error("open_postgres_failed", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	repo := postgres.NewEscalationRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		logger.Error("ensure_schema_failed", "error", err)
		os.Exit(1)
	}

	queue, err := nats.New(cfg.NATSURL, cfg.NATSSubject)
	if err != nil {
		logger.Error("init_queue_failed", "error", err)
		os.Exit(1)
	}
	defer queue.Close()

	workerMetrics := metrics.NewWorkerMetrics("hr-assistant-escalations")
	metricsServer := &http.Server{
		Addr:    ":" + cfg.WorkerMetricsPort,
		Handler: workerMetrics.Handler(),
	}
	go func() {
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("metrics_server_failed", "error", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metricsServer.Shutdown(shutdownCtx)
	}()

	logger.Info("worker_subscribed", "subject", cfg.NATSSubject)
	err = queue.SubscribeEscalationRaised(ctx, func(handlerCtx context.Context, event domain.EscalationEvent) error {
		workerMetrics.StartEvent()
		start := time.Now()

		ticketCtx, cancel := context.WithTimeout(handlerCtx, 30*time.Second)
		defer cancel()

		ticket := &domain.EscalationTicket{
			ID:              event.ID,
			Query:           event.Query,
			UserRole:        event.UserRole,
			Reason:          event.Reason,
			ConfidenceScore: event.ConfidenceScore,
			Status:          domain.TicketOpen,
			CreatedAt:       event.Timestamp,
		}
		createErr := repo.CreateTicket(ticketCtx, ticket)
		workerMetrics.FinishEvent("hr-assistant-escalations", time.Since(start), createErr)
		if createErr != nil {
			logger.Error("ticket_create_failed", "ticket_id", event.ID, "error", createErr)
			return createErr
		}

		logger.Info("ticket_recorded",
			"ticket_id", event.ID,
			"reason", event.Reason,
			"user_role", event.UserRole,
			"confidence_score", event.ConfidenceScore,
		)
		return nil
	})
	if err != nil {
		logger.Error("worker_subscribe_failed", "error", err)
		os.Exit(1)
	}
}
