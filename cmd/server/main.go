package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	httpapi "scooter-rent-backend/internal/api/http"
	"scooter-rent-backend/internal/config"
	"scooter-rent-backend/internal/domain"
	"scooter-rent-backend/internal/export"
	"scooter-rent-backend/internal/logger"
	"scooter-rent-backend/internal/repository/postgres"
	"scooter-rent-backend/internal/security"
	"scooter-rent-backend/internal/service"
	"scooter-rent-backend/internal/utils"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	migrate := flag.Bool("migrate", true, "Apply database migrations on startup")
	flag.Parse()

	// Secrets may come from a local .env file
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
	logger.Info("Starting Scooter Rent Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)
	logger.Info("Schedule configuration", "timezone", cfg.Schedule.Timezone, "default_weeks", cfg.Schedule.DefaultWeeks)

	// Initialize Database
	logger.Debug("Connecting to database...", "connection_string", fmt.Sprintf("%s@%s:%d/%s", cfg.Database.User, cfg.Database.Host, cfg.Database.Port, cfg.Database.Database))
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

	if *migrate {
		if err := postgres.Migrate(context.Background(), db); err != nil {
			logger.Error("Failed to apply migrations", "error", err)
			log.Fatalf("Failed to apply migrations: %v", err)
		}
	}

	// Initialize Repositories
	store := postgres.NewStore(db)
	settings := newSettings(cfg)

	// Initialize Notifier
	var notifier service.Notifier
	if cfg.Telegram.Enabled {
		notifier, err = service.NewTelegramNotifier(cfg.Telegram.BotToken)
		if err != nil {
			logger.Error("Failed to initialize telegram bot", "error", err)
			log.Fatalf("Failed to initialize telegram bot: %v", err)
		}
	} else {
		logger.Info("Telegram disabled, messages are logged only")
		notifier = service.NewLogNotifier()
	}

	// Initialize Security
	tokenManager := security.NewTokenManager(cfg.JWT.Secret, cfg.AccessTokenTTL())

	// Initialize Services
	handlers := &httpapi.Handlers{
		Auth:          service.NewAuthService(admins(cfg), tokenManager),
		Clients:       service.NewClientService(store.Clients),
		Schedule:      service.NewScheduleService(store, settings),
		Postponements: service.NewPostponementService(store, notifier, store.Notifications, settings),
		Payments:      service.NewPaymentService(store, settings),
		Confirmations: service.NewConfirmationService(store, store.Confirmations, settings),
		Export:        service.NewExportService(store, export.NewGenerator(), settings),
	}

	srv := &http.Server{
		Addr:              cfg.GetServerAddress(),
		Handler:           httpapi.NewRouter(handlers, tokenManager),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server error", "error", err)
			log.Fatalf("Failed to serve: %v", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Graceful shutdown
	logger.Info("Shutting down HTTP server...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("HTTP server shutdown failed", "error", err)
	}
	logger.Info("HTTP server stopped")
}

func newSettings(cfg *config.Config) service.Settings {
	return service.Settings{
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
}

func admins(cfg *config.Config) []domain.Admin {
	out := make([]domain.Admin, 0, len(cfg.Admins))
	for _, a := range cfg.Admins {
		out = append(out, domain.Admin{Username: a.Username, PasswordHash: a.PasswordHash, TelegramID: a.TelegramID})
	}
	return out
}
