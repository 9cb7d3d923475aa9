package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	httpapi "classbook-backend/internal/api/http"
	"classbook-backend/internal/config"
	"classbook-backend/internal/lock"
	"classbook-backend/internal/logger"
	"classbook-backend/internal/repository/postgres"
	"classbook-backend/internal/security"
	"classbook-backend/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Classbook Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)

	// Initialize Database
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

	// Initialize Security
	tokenManager := security.NewTokenManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry)

	// Initialize Services
	emailSvc := service.NewEmailService(cfg.Email)
	gateway := service.NewLoggingGateway()
	scheduleLocks := lock.NewKeyedLock()

	bookingSvc := service.NewBookingService(
		store.BookingRepository,
		store.ScheduleRepository,
		store.LedgerRepository,
		store.MemberRepository,
		store.NotificationRepository,
		emailSvc,
		scheduleLocks,
		cfg.Booking,
	)
	packageSvc := service.NewPackageService(
		store.PackageRepository,
		store.LedgerRepository,
		store.MemberRepository,
		store.NotificationRepository,
		bookingSvc,
		emailSvc,
		gateway,
	)
	authSvc := service.NewAuthService(store.MemberRepository, tokenManager)
	memberSvc := service.NewMemberService(store.MemberRepository)
	noteSvc := service.NewNotificationService(store.NotificationRepository)

	// Initialize Router
	router := httpapi.NewRouter(httpapi.RouterDeps{
		Auth:         authSvc,
		Booking:      bookingSvc,
		Package:      packageSvc,
		Member:       memberSvc,
		Notification: noteSvc,
		Tokens:       tokenManager,
	})

	server := &http.Server{
		Addr:         cfg.GetServerAddress(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", "address", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server failed", "error", err)
			log.Fatalf("HTTP server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown failed", "error", err)
	}
	logger.Info("Server stopped")
}
