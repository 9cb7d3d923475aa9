package main

import (
	"database/sql"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"

	"classbook-backend/internal/config"
	"classbook-backend/internal/jobs"
	"classbook-backend/internal/lock"
	"classbook-backend/internal/logger"
	"classbook-backend/internal/repository/postgres"
	"classbook-backend/internal/scheduler"
	"classbook-backend/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	runOnce := flag.String("run-once", "", "Run a specific job once and exit (e.g., 'complete-finished-classes', 'expire-packages', 'all')")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Classbook Cronjob Runner...", "log_level", cfg.Log.Level)

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

	jobServices := &jobs.Services{
		Booking: bookingSvc,
		Package: packageSvc,
		Email:   emailSvc,
	}

	// Initialize Job Runner
	jobRunner := jobs.NewJobRunner(store, jobServices, cfg)

	// Check if running a single job
	if *runOnce != "" {
		logger.Info("Running job once", "job", *runOnce)
		runJobOnce(jobRunner, *runOnce)
		logger.Info("Job execution completed", "job", *runOnce)
		return
	}

	// Initialize Scheduler
	cronScheduler := scheduler.NewScheduler(jobRunner)

	// Start scheduler
	cronScheduler.Start()
	logger.Info("Cronjob scheduler is running. Press Ctrl+C to stop.")

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	cronScheduler.Stop()
}

func runJobOnce(jobRunner *jobs.JobRunner, jobName string) {
	switch jobName {
	case "complete-finished-classes":
		jobRunner.CompleteFinishedClasses()
	case "expire-packages":
		jobRunner.ExpirePackages()
	case "send-class-reminders":
		jobRunner.SendClassReminders()
	case "check-waitlist-health":
		jobRunner.CheckWaitlistHealth()
	case "cleanup-old-bookings":
		jobRunner.CleanupOldBookings()
	case "all":
		jobRunner.RunAllSweeps()
	default:
		logger.Error("Unknown job name", "job", jobName)
		os.Exit(1)
	}
}
