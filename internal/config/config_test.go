package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

const minimalConfig = `
server:
  host: "0.0.0.0"
  port: 8080
database:
  host: "localhost"
  port: 5432
  user: "classbook"
  database: "classbook"
  ssl_mode: "disable"
email:
  from_email: "noreply@classbook.test"
jwt:
  secret: "0123456789abcdef0123456789abcdef"
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoad_BookingPolicyDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalConfig))
	assert.NoError(t, err)

	assert.Equal(t, 30, cfg.Booking.PreBookingCutoffMinutes)
	assert.Equal(t, 4, cfg.Booking.CancellationCutoffHours)
	assert.Equal(t, 15, cfg.Booking.CheckInBeforeMinutes)
	assert.Equal(t, 30, cfg.Booking.CheckInAfterMinutes)
	assert.Equal(t, 10, cfg.Booking.HighWaitlistThreshold)
	assert.Equal(t, 30, cfg.Booking.LockTTLSeconds)
	assert.Equal(t, 2, cfg.Booking.ReminderWindowHours)

	assert.Equal(t, "0 */5 * * * *", cfg.Scheduler.CompleteFinishedClasses)
	assert.Equal(t, "0 0 2 * * *", cfg.Scheduler.ExpirePackages)
}

func TestLoad_ExplicitOverrides(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalConfig+`
booking:
  cancellation_cutoff_hours: 6
  high_waitlist_threshold: 25
`))
	assert.NoError(t, err)
	assert.Equal(t, 6, cfg.Booking.CancellationCutoffHours)
	assert.Equal(t, 25, cfg.Booking.HighWaitlistThreshold)
	assert.Equal(t, 30, cfg.Booking.PreBookingCutoffMinutes)
}

func TestLoad_RejectsShortJWTSecret(t *testing.T) {
	bad := `
server:
  port: 8080
database:
  host: "localhost"
  user: "classbook"
  database: "classbook"
email:
  from_email: "noreply@classbook.test"
jwt:
  secret: "tooshort"
`
	_, err := Load(writeConfig(t, bad))
	assert.Error(t, err)
}
