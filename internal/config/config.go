package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Email     EmailConfig     `yaml:"email"`
	JWT       JWTConfig       `yaml:"jwt"`
	Log       LogConfig       `yaml:"log"`
	Booking   BookingConfig   `yaml:"booking"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// DatabaseConfig contains PostgreSQL connection settings
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"ssl_mode"`
}

// EmailConfig contains SendGrid settings
type EmailConfig struct {
	APIKey    string `yaml:"api_key"`
	FromEmail string `yaml:"from_email"`
	FromName  string `yaml:"from_name"`
}

// JWTConfig contains JWT token settings
type JWTConfig struct {
	Secret            string `yaml:"secret"`
	AccessTokenExpiry int    `yaml:"access_token_expiry_minutes"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "text"
}

// BookingConfig contains the booking policy knobs. All cutoffs are relative
// to the class start time.
type BookingConfig struct {
	PreBookingCutoffMinutes int `yaml:"pre_booking_cutoff_minutes"`
	CancellationCutoffHours int `yaml:"cancellation_cutoff_hours"`
	CheckInBeforeMinutes    int `yaml:"checkin_before_minutes"`
	CheckInAfterMinutes     int `yaml:"checkin_after_minutes"`
	HighWaitlistThreshold   int `yaml:"high_waitlist_threshold"`
	LockTTLSeconds          int `yaml:"lock_ttl_seconds"`
	ReminderWindowHours     int `yaml:"reminder_window_hours"`
}

// SchedulerConfig contains cron schedule settings (6-field specs, UTC)
type SchedulerConfig struct {
	CompleteFinishedClasses string `yaml:"complete_finished_classes"`
	ExpirePackages          string `yaml:"expire_packages"`
	SendClassReminders      string `yaml:"send_class_reminders"`
	CheckWaitlistHealth     string `yaml:"check_waitlist_health"`
	CleanupOldBookings      string `yaml:"cleanup_old_bookings"`
}

// Load reads configuration from a YAML file
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Override with environment variables if present
	cfg.overrideWithEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// overrideWithEnv overrides config values with environment variables
func (c *Config) overrideWithEnv() {
	// Database
	if val := os.Getenv("DB_HOST"); val != "" {
		c.Database.Host = val
	}
	if val := os.Getenv("DB_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Database.Port)
	}
	if val := os.Getenv("DB_USER"); val != "" {
		c.Database.User = val
	}
	if val := os.Getenv("DB_PASSWORD"); val != "" {
		c.Database.Password = val
	}
	if val := os.Getenv("DB_NAME"); val != "" {
		c.Database.Database = val
	}
	if val := os.Getenv("DB_SSL_MODE"); val != "" {
		c.Database.SSLMode = val
	}

	// Email
	if val := os.Getenv("SENDGRID_API_KEY"); val != "" {
		c.Email.APIKey = val
	}
	if val := os.Getenv("EMAIL_FROM"); val != "" {
		c.Email.FromEmail = val
	}

	// JWT
	if val := os.Getenv("JWT_SECRET"); val != "" {
		c.JWT.Secret = val
	}

	// Server
	if val := os.Getenv("SERVER_HOST"); val != "" {
		c.Server.Host = val
	}
	if val := os.Getenv("SERVER_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Server.Port)
	}

	// Log
	if val := os.Getenv("LOG_LEVEL"); val != "" {
		c.Log.Level = val
	}
	if val := os.Getenv("LOG_FORMAT"); val != "" {
		c.Log.Format = val
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database user is required")
	}
	if c.Database.Database == "" {
		return fmt.Errorf("database name is required")
	}

	if c.Email.FromEmail == "" {
		return fmt.Errorf("email from address is required")
	}

	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}
	if len(c.JWT.Secret) < 32 {
		return fmt.Errorf("JWT secret must be at least 32 characters")
	}
	if c.JWT.AccessTokenExpiry == 0 {
		c.JWT.AccessTokenExpiry = 60
	}

	// Booking policy defaults
	if c.Booking.PreBookingCutoffMinutes == 0 {
		c.Booking.PreBookingCutoffMinutes = 30
	}
	if c.Booking.CancellationCutoffHours == 0 {
		c.Booking.CancellationCutoffHours = 4
	}
	if c.Booking.CheckInBeforeMinutes == 0 {
		c.Booking.CheckInBeforeMinutes = 15
	}
	if c.Booking.CheckInAfterMinutes == 0 {
		c.Booking.CheckInAfterMinutes = 30
	}
	if c.Booking.HighWaitlistThreshold == 0 {
		c.Booking.HighWaitlistThreshold = 10
	}
	if c.Booking.LockTTLSeconds == 0 {
		c.Booking.LockTTLSeconds = 30
	}
	if c.Booking.ReminderWindowHours == 0 {
		c.Booking.ReminderWindowHours = 2
	}

	// Scheduler defaults
	if c.Scheduler.CompleteFinishedClasses == "" {
		c.Scheduler.CompleteFinishedClasses = "0 */5 * * * *" // every 5 minutes
	}
	if c.Scheduler.ExpirePackages == "" {
		c.Scheduler.ExpirePackages = "0 0 2 * * *" // 2 AM UTC
	}
	if c.Scheduler.SendClassReminders == "" {
		c.Scheduler.SendClassReminders = "0 0 * * * *" // hourly
	}
	if c.Scheduler.CheckWaitlistHealth == "" {
		c.Scheduler.CheckWaitlistHealth = "0 */15 * * * *" // every 15 minutes
	}
	if c.Scheduler.CleanupOldBookings == "" {
		c.Scheduler.CleanupOldBookings = "0 0 3 1 * *" // 1st of month at 3 AM UTC
	}

	return nil
}

// GetDatabaseConnectionString returns a PostgreSQL connection string
func (c *Config) GetDatabaseConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Database,
		c.Database.SSLMode,
	)
}

// GetServerAddress returns the HTTP server address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
