package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	JWT       JWTConfig       `yaml:"jwt"`
	Admins    []AdminConfig   `yaml:"admins"`
	Telegram  TelegramConfig  `yaml:"telegram"`
	Log       LogConfig       `yaml:"log"`
	Schedule  ScheduleConfig  `yaml:"schedule"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Export    ExportConfig    `yaml:"export"`
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

// JWTConfig contains JWT token settings
type JWTConfig struct {
	Secret            string `yaml:"secret"`
	AccessTokenExpiry int    `yaml:"access_token_expiry_minutes"`
}

// AdminConfig is an operator allowed to use the admin API.
type AdminConfig struct {
	Username     string `yaml:"username"`
	PasswordHash string `yaml:"password_hash"` // bcrypt
	TelegramID   int64  `yaml:"telegram_id"`
}

// TelegramConfig contains bot settings for reminders
type TelegramConfig struct {
	Enabled  bool   `yaml:"enabled"`
	BotToken string `yaml:"bot_token"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "text"
}

// ScheduleConfig holds the payment schedule rules.
type ScheduleConfig struct {
	DefaultWeeks         int32  `yaml:"default_weeks"`
	FridayFine           int32  `yaml:"friday_fine"`
	MidweekFine          int32  `yaml:"midweek_fine"` // Wednesday and Thursday
	EarlyFine            int32  `yaml:"early_fine"`   // Saturday through Tuesday
	OverdueFine          int32  `yaml:"overdue_fine"`
	ConfirmationTTLHours int    `yaml:"confirmation_ttl_hours"`
	Timezone             string `yaml:"timezone"`
}

// SchedulerConfig contains cron schedule settings, evaluated in the
// schedule time zone
type SchedulerConfig struct {
	SendDueTodayReminders  string `yaml:"send_due_today_reminders"`
	SendOverdueReminders   string `yaml:"send_overdue_reminders"`
	SendPostponedReminders string `yaml:"send_postponed_reminders"`
	ReconcilePostponements string `yaml:"reconcile_postponements"`
	ExpireConfirmations    string `yaml:"expire_confirmations"`
	ExportSchedules        string `yaml:"export_schedules"`
}

// ExportConfig controls where scheduled workbook exports are written.
type ExportConfig struct {
	OutputDir string `yaml:"output_dir"`
}

// Load reads configuration from a YAML file
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse builds a configuration from raw YAML, applying environment overrides
// and defaults.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

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

	// Telegram
	if val := os.Getenv("TELEGRAM_BOT_TOKEN"); val != "" {
		c.Telegram.BotToken = val
	}
	if val := os.Getenv("TELEGRAM_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			c.Telegram.Enabled = b
		}
	}

	// Log
	if val := os.Getenv("LOG_LEVEL"); val != "" {
		c.Log.Level = val
	}
	if val := os.Getenv("LOG_FORMAT"); val != "" {
		c.Log.Format = val
	}

	// Schedule
	if val := os.Getenv("SCHEDULE_DEFAULT_WEEKS"); val != "" {
		fmt.Sscanf(val, "%d", &c.Schedule.DefaultWeeks)
	}
	if val := os.Getenv("SCHEDULE_TIMEZONE"); val != "" {
		c.Schedule.Timezone = val
	}

	// Export
	if val := os.Getenv("EXPORT_OUTPUT_DIR"); val != "" {
		c.Export.OutputDir = val
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
	if c.Database.Port == 0 {
		c.Database.Port = 5432
	}
	if c.Database.Port < 0 || c.Database.Port > 65535 {
		return fmt.Errorf("invalid database port: %d", c.Database.Port)
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
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

	for i, a := range c.Admins {
		if a.Username == "" || a.PasswordHash == "" {
			return fmt.Errorf("admin %d: username and password_hash are required", i)
		}
	}

	if c.Telegram.Enabled && c.Telegram.BotToken == "" {
		return fmt.Errorf("telegram bot token is required when telegram is enabled")
	}

	// Schedule defaults
	if c.Schedule.DefaultWeeks == 0 {
		c.Schedule.DefaultWeeks = 10
	}
	if c.Schedule.DefaultWeeks < 0 {
		return fmt.Errorf("invalid default weeks: %d", c.Schedule.DefaultWeeks)
	}
	if c.Schedule.FridayFine == 0 {
		c.Schedule.FridayFine = 1500
	}
	if c.Schedule.MidweekFine == 0 {
		c.Schedule.MidweekFine = 1000
	}
	if c.Schedule.OverdueFine == 0 {
		c.Schedule.OverdueFine = 1500
	}
	if c.Schedule.EarlyFine < 0 || c.Schedule.MidweekFine < 0 || c.Schedule.FridayFine < 0 || c.Schedule.OverdueFine < 0 {
		return fmt.Errorf("fines must not be negative")
	}
	if c.Schedule.ConfirmationTTLHours == 0 {
		c.Schedule.ConfirmationTTLHours = 24
	}
	if c.Schedule.Timezone == "" {
		c.Schedule.Timezone = "Europe/Moscow"
	}
	if _, err := time.LoadLocation(c.Schedule.Timezone); err != nil {
		return fmt.Errorf("invalid schedule timezone %q: %w", c.Schedule.Timezone, err)
	}

	// Scheduler defaults
	if c.Scheduler.SendDueTodayReminders == "" {
		c.Scheduler.SendDueTodayReminders = "0 0 7 * * FRI" // Fridays at 7 AM
	}
	if c.Scheduler.SendOverdueReminders == "" {
		c.Scheduler.SendOverdueReminders = "0 0 8 * * *" // Daily at 8 AM
	}
	if c.Scheduler.SendPostponedReminders == "" {
		c.Scheduler.SendPostponedReminders = "0 30 7 * * *" // Daily at 7:30 AM
	}
	if c.Scheduler.ReconcilePostponements == "" {
		c.Scheduler.ReconcilePostponements = "0 */30 * * * *" // Every 30 minutes
	}
	if c.Scheduler.ExpireConfirmations == "" {
		c.Scheduler.ExpireConfirmations = "0 0 * * * *" // Hourly
	}
	if c.Scheduler.ExportSchedules == "" {
		c.Scheduler.ExportSchedules = "0 0 22 * * *" // Daily at 10 PM
	}

	if c.Export.OutputDir == "" {
		c.Export.OutputDir = "./exports"
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

// GetServerAddress returns the HTTP listen address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// Location returns the time zone that decides what "today" is.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Schedule.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// ConfirmationTTL is how long a pending payment confirmation stays valid.
func (c *Config) ConfirmationTTL() time.Duration {
	return time.Duration(c.Schedule.ConfirmationTTLHours) * time.Hour
}

// AccessTokenTTL is the lifetime of admin access tokens.
func (c *Config) AccessTokenTTL() time.Duration {
	return time.Duration(c.JWT.AccessTokenExpiry) * time.Minute
}

// FindAdmin looks up an admin by username, case-insensitively.
func (c *Config) FindAdmin(username string) (AdminConfig, bool) {
	for _, a := range c.Admins {
		if strings.EqualFold(a.Username, username) {
			return a, true
		}
	}
	return AdminConfig{}, false
}

// AdminChatIDs returns the Telegram chats of admins that have one.
func (c *Config) AdminChatIDs() []int64 {
	var ids []int64
	for _, a := range c.Admins {
		if a.TelegramID != 0 {
			ids = append(ids, a.TelegramID)
		}
	}
	return ids
}
