package cmd

import (
	"context"
	"fmt"
	"time"

	"swertres/application"
	"swertres/config"
	"swertres/database"
	"swertres/domain/schedule"
	"swertres/infrastructure"
	"swertres/repository"

	log "github.com/sirupsen/logrus"
)

// Run initializes and starts the draw engine
func Run(ctx context.Context) error {
	log.Info("Starting swertres draw engine...")

	// Load configuration
	cfg := config.Get()

	// Build the draw calendar in the configured lottery timezone
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return fmt.Errorf("failed to load timezone %s: %w", cfg.Timezone, err)
	}
	calendar := schedule.NewCalendar(loc)

	// Initialize database connection
	log.Info("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.GetDatabaseURL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()
	log.Info("Database connection established successfully")

	// Initialize NATS event publisher
	log.Infof("Connecting to NATS at %s...", cfg.NATSServers)
	natsClient := infrastructure.NewNATSClient(cfg.NATSServers)
	if err := natsClient.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to NATS: %w", err)
	}
	defer natsClient.Close()

	publisher := infrastructure.NewNATSEventPublisher(natsClient, infrastructure.NewEventSubjectMapper())
	if err := publisher.EnsureLottoEventStream(); err != nil {
		return fmt.Errorf("failed to ensure event stream: %w", err)
	}

	// Initialize unit of work factory
	uowFactory := repository.NewUnitOfWorkFactory(db)

	// Start background workers
	maintenanceWorker := application.NewDrawMaintenanceWorker(uowFactory, calendar, cfg.DrawHorizonDays, nil)
	stopMaintenance := maintenanceWorker.Start(ctx)
	defer stopMaintenance()

	sweepWorker := application.NewStatusSweepWorker(uowFactory, calendar, nil)
	stopSweep := sweepWorker.Start(ctx)
	defer stopSweep()

	// Wait for context cancellation
	log.Infof("Draw engine is running in %s mode...", cfg.Environment)
	<-ctx.Done()

	// Cleanup resources
	log.Info("Shutting down draw engine...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	select {
	case <-shutdownCtx.Done():
		log.Warn("Shutdown timeout exceeded")
	case <-time.After(1 * time.Second):
		log.Info("Shutdown completed")
	}

	return nil
}
