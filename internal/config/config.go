// Package config loads the BrightDay configuration.
//
// Values come from a YAML file overridden by BRIGHTDAY_* environment
// variables, with env-default tags filling the gaps. On first run the file
// is created with the defaults so there is something to edit.
package config

import (
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/sakif/brightday/internal/calendar"
)

// Storage drivers.
const (
	DriverSQLite   = "sqlite"
	DriverRedis    = "redis"
	DriverPostgres = "postgres"
)

// Config is the root application configuration.
type Config struct {
	Server       ServerConfig       `yaml:"server"`
	Storage      StorageConfig      `yaml:"storage"`
	Calendar     CalendarConfig     `yaml:"calendar"`
	Streak       StreakConfig       `yaml:"streak"`
	Achievements AchievementsConfig `yaml:"achievements"`
	Auth         AuthConfig         `yaml:"auth"`
	Log          LogConfig          `yaml:"log"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"BRIGHTDAY_SERVER_HOST"             env-default:"127.0.0.1"`
	Port            int           `yaml:"port"             env:"BRIGHTDAY_SERVER_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"BRIGHTDAY_SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"BRIGHTDAY_SERVER_WRITE_TIMEOUT"    env-default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"BRIGHTDAY_SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"BRIGHTDAY_SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// StorageConfig selects and configures the snapshot backend.
type StorageConfig struct {
	Driver         string `yaml:"driver"           env:"BRIGHTDAY_STORAGE_DRIVER"           env-default:"sqlite"`
	SQLitePath     string `yaml:"sqlite_path"      env:"BRIGHTDAY_STORAGE_SQLITE_PATH"      env-default:"data/brightday.db"`
	RedisAddr      string `yaml:"redis_addr"       env:"BRIGHTDAY_STORAGE_REDIS_ADDR"       env-default:"localhost:6379"`
	RedisPassword  string `yaml:"redis_password"   env:"BRIGHTDAY_STORAGE_REDIS_PASSWORD"`
	RedisDB        int    `yaml:"redis_db"         env:"BRIGHTDAY_STORAGE_REDIS_DB"         env-default:"0"`
	RedisKeyPrefix string `yaml:"redis_key_prefix" env:"BRIGHTDAY_STORAGE_REDIS_KEY_PREFIX" env-default:"brightday:"`
	PostgresDSN    string `yaml:"postgres_dsn"     env:"BRIGHTDAY_STORAGE_POSTGRES_DSN"`
}

// CalendarConfig controls what "today" means and how months are laid out.
type CalendarConfig struct {
	// Timezone is an IANA name, or "Local" for the host zone.
	Timezone string `yaml:"timezone"   env:"BRIGHTDAY_CALENDAR_TIMEZONE"   env-default:"Local"`
	// WeekStart is "sunday" or "monday".
	WeekStart string `yaml:"week_start" env:"BRIGHTDAY_CALENDAR_WEEK_START" env-default:"sunday"`
}

// StreakConfig schedules the daily streak rollover.
type StreakConfig struct {
	RolloverCron string `yaml:"rollover_cron" env:"BRIGHTDAY_STREAK_ROLLOVER_CRON" env-default:"5 0 * * *"`
	Disabled     bool   `yaml:"disabled"      env:"BRIGHTDAY_STREAK_DISABLED"      env-default:"false"`
}

// AchievementsConfig tunes the achievement banner.
type AchievementsConfig struct {
	HideDelay time.Duration `yaml:"hide_delay" env:"BRIGHTDAY_ACHIEVEMENTS_HIDE_DELAY" env-default:"300ms"`
}

// AuthConfig enables the optional passcode login. Auth is off while
// JWTSecret is empty.
type AuthConfig struct {
	JWTSecret    string        `yaml:"jwt_secret"    env:"BRIGHTDAY_AUTH_JWT_SECRET"`
	PasscodeHash string        `yaml:"passcode_hash" env:"BRIGHTDAY_AUTH_PASSCODE_HASH"`
	TokenTTL     time.Duration `yaml:"token_ttl"     env:"BRIGHTDAY_AUTH_TOKEN_TTL"     env-default:"168h"`
	SecureCookie bool          `yaml:"secure_cookie" env:"BRIGHTDAY_AUTH_SECURE_COOKIE" env-default:"false"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"BRIGHTDAY_LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"BRIGHTDAY_LOG_FORMAT" env-default:"text"`
}

// Default returns the configuration written on first run. It matches the
// env-default tags.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "127.0.0.1",
			Port:            8080,
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Storage: StorageConfig{
			Driver:         DriverSQLite,
			SQLitePath:     "data/brightday.db",
			RedisAddr:      "localhost:6379",
			RedisKeyPrefix: "brightday:",
		},
		Calendar: CalendarConfig{
			Timezone:  "Local",
			WeekStart: "sunday",
		},
		Streak: StreakConfig{
			RolloverCron: "5 0 * * *",
		},
		Achievements: AchievementsConfig{
			HideDelay: 300 * time.Millisecond,
		},
		Auth: AuthConfig{
			TokenTTL: 168 * time.Hour,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Addr returns the host:port the HTTP server listens on.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// Location resolves the configured timezone.
func (c CalendarConfig) Location() (*time.Location, error) {
	tz := strings.TrimSpace(c.Timezone)
	if tz == "" || strings.EqualFold(tz, "local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("unknown timezone %q: %w", tz, err)
	}
	return loc, nil
}

// FirstWeekday returns the weekday the month grid starts on.
func (c CalendarConfig) FirstWeekday() time.Weekday {
	return calendar.ParseWeekday(strings.ToLower(strings.TrimSpace(c.WeekStart)))
}

// Enabled reports whether passcode auth is switched on.
func (a AuthConfig) Enabled() bool {
	return a.JWTSecret != ""
}

// SlogLevel maps the configured level name to a slog.Level.
func (l LogConfig) SlogLevel() slog.Level {
	switch strings.ToLower(strings.TrimSpace(l.Level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
