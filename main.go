package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"swertres/application"
	"swertres/cmd"
	"swertres/config"
	"swertres/database"
	"swertres/domain/entities"
	"swertres/domain/interfaces"
	"swertres/domain/schedule"
	"swertres/infrastructure"
	"swertres/repository"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "migrate":
			if err := handleMigrationCommand(); err != nil {
				log.Fatal("Migration error:", err)
			}
			return
		case "draws":
			if err := handleDrawsCommand(); err != nil {
				log.Fatal("Draws error:", err)
			}
			return
		case "result":
			if err := handleResultCommand(); err != nil {
				log.Fatal("Result error:", err)
			}
			return
		}
	}

	// Normal engine operation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Println("Received shutdown signal, shutting down gracefully...")
		cancel()
	}()

	if err := cmd.Run(ctx); err != nil {
		log.Fatal("Application error:", err)
	}
}

func handleMigrationCommand() error {
	if len(os.Args) < 3 {
		return fmt.Errorf("usage: swertres migrate [up|down|status] [args...]")
	}

	command := os.Args[2]
	switch command {
	case "up":
		return database.MigrateUp()
	case "down":
		steps := "1"
		if len(os.Args) > 3 {
			steps = os.Args[3]
		}
		return database.MigrateDown(steps)
	case "status":
		return database.MigrateStatus()
	default:
		return fmt.Errorf("unknown migration command: %s", command)
	}
}

// handleDrawsCommand runs a one-shot draw maintenance pass, for operators who
// want to extend the horizon without waiting for the worker.
func handleDrawsCommand() error {
	if len(os.Args) < 3 || os.Args[2] != "ensure" {
		return fmt.Errorf("usage: swertres draws ensure [horizon-days]")
	}

	cfg := config.Get()
	horizonDays := cfg.DrawHorizonDays
	if len(os.Args) > 3 {
		parsed, err := strconv.Atoi(os.Args[3])
		if err != nil || parsed <= 0 {
			return fmt.Errorf("invalid horizon-days: %s", os.Args[3])
		}
		horizonDays = parsed
	}

	ctx := context.Background()
	calendar, uowFactory, cleanup, err := buildAdminDependencies(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	worker := application.NewDrawMaintenanceWorker(uowFactory, calendar, horizonDays, nil)
	summary, err := worker.RunOnce(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Draw maintenance: %d created, %d already present\n", summary.Created, summary.Skipped)
	return nil
}

// handleResultCommand posts a winning number for a closed draw and settles it.
func handleResultCommand() error {
	if len(os.Args) < 4 {
		return fmt.Errorf("usage: swertres result <draw-id> <winning-number>")
	}

	drawID, err := strconv.ParseInt(os.Args[2], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid draw-id: %s", os.Args[2])
	}
	winningNumber := os.Args[3]
	if err := entities.ValidateCombination(entities.WagerTypeStraight, winningNumber); err != nil {
		return fmt.Errorf("invalid winning number %q: %w", winningNumber, err)
	}

	ctx := context.Background()
	cfg := config.Get()
	calendar, uowFactory, cleanup, err := buildAdminDependencies(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	publisher := buildEventPublisher(ctx, cfg)

	processor := application.NewResultProcessor(uowFactory, publisher, calendar, nil)
	summary, err := processor.ProcessResult(ctx, drawID, winningNumber)
	if err != nil {
		return err
	}

	fmt.Printf("Draw %d settled with %s: %d winners, total payout %s\n",
		summary.DrawID, summary.WinningNumber, summary.WinnerCount, summary.TotalPayout)
	return nil
}

// buildAdminDependencies wires the shared infrastructure for one-shot admin
// commands.
func buildAdminDependencies(ctx context.Context, cfg *config.Config) (*schedule.Calendar, application.UnitOfWorkFactory, func(), error) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load timezone %s: %w", cfg.Timezone, err)
	}

	db, err := database.NewConnection(ctx, cfg.GetDatabaseURL())
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return schedule.NewCalendar(loc), repository.NewUnitOfWorkFactory(db), db.Close, nil
}

// buildEventPublisher connects to NATS for admin commands, falling back to a
// no-op publisher when the broker is unreachable: settlement must not depend
// on notification delivery.
func buildEventPublisher(ctx context.Context, cfg *config.Config) interfaces.EventPublisher {
	natsClient := infrastructure.NewNATSClient(cfg.NATSServers)
	if err := natsClient.Connect(ctx); err != nil {
		log.Printf("NATS unavailable, notifications will be skipped: %v", err)
		return infrastructure.NewNoopEventPublisher()
	}
	return infrastructure.NewNATSEventPublisher(natsClient, infrastructure.NewEventSubjectMapper())
}
