package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"scooter-rent-backend/internal/config"
	"scooter-rent-backend/internal/export"
	"scooter-rent-backend/internal/jobs"
	"scooter-rent-backend/internal/logger"
	"scooter-rent-backend/internal/repository/postgres"
	"scooter-rent-backend/internal/scheduler"
	"scooter-rent-backend/internal/service"
	"scooter-rent-backend/internal/utils"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	runOnce := flag.String("run-once", "", "Run a specific job once and exit (e.g., 'send-overdue-reminders', 'all-daily')")
	flag.Parse()

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("Failed to load .env file: %v", err)
	}

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Scooter Rent Cronjob Runner...", "log_level", cfg.Log.Level, "timezone", cfg.Schedule.Timezone)

	// Initialize Database
	logger.Info("Connecting to database...", "host", cfg.Database.Host, "port", cfg.Database.Port)
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Test database connection
	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Initialize Repositories
	store := postgres.NewStore(db)
	settings := service.Settings{
		DefaultWeeks: int(cfg.Schedule.DefaultWeeks),
		Fines: utils.FineSchedule{
			Friday:         cfg.Schedule.FridayFine,
			WednesdayThurs: cfg.Schedule.MidweekFine,
			SaturdayToTue:  cfg.Schedule.EarlyFine,
			OverduePerWeek: cfg.Schedule.OverdueFine,
		},
		ConfirmationTTL: cfg.ConfirmationTTL(),
		Location:        cfg.Location(),
		AdminChatIDs:    cfg.AdminChatIDs(),
	}

	// Initialize Services
	var notifier service.Notifier
	if cfg.Telegram.Enabled {
		notifier, err = service.NewTelegramNotifier(cfg.Telegram.BotToken)
		if err != nil {
			logger.Error("Failed to initialize telegram bot", "error", err)
			log.Fatalf("Failed to initialize telegram bot: %v", err)
		}
	} else {
		notifier = service.NewLogNotifier()
	}

	jobServices := &jobs.Services{
		Reminder:     service.NewReminderService(store, store.Notifications, notifier, settings),
		Postponement: service.NewPostponementService(store, notifier, store.Notifications, settings),
		Confirmation: service.NewConfirmationService(store, store.Confirmations, settings),
		Export:       service.NewExportService(store, export.NewGenerator(), settings),
	}

	// Initialize Job Runner
	jobRunner := jobs.NewJobRunner(jobServices, cfg)

	// Check if running a single job
	if *runOnce != "" {
		logger.Info("Running job once", "job", *runOnce)
		if err := jobRunner.RunByName(*runOnce); err != nil {
			logger.Error("Unknown job name", "job", *runOnce)
			fmt.Printf("Available jobs:\n")
			for _, name := range jobRunner.JobNames() {
				fmt.Printf("  - %s\n", name)
			}
			os.Exit(1)
		}
		logger.Info("Job execution completed", "job", *runOnce)
		return
	}

	// Initialize Scheduler
	cronScheduler := scheduler.NewScheduler(jobRunner)

	// Start scheduler
	cronScheduler.Start()
	logger.Info("Cronjob scheduler is running. Press Ctrl+C to stop.", "jobs", cronScheduler.Entries())

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Graceful shutdown
	logger.Info("Shutting down cronjob scheduler...")
	cronScheduler.Stop()
	logger.Info("Cronjob scheduler stopped. Goodbye!")
}
