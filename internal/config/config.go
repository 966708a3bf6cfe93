package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port      string
	AppOrigin string

	ClerkSecretKey string

	DatabaseURL string
	DBMaxConns  int32
	DBMinConns  int32

	RedisURL string
	CacheTTL time.Duration

	LogLevel string
	LogFile  string

	RateLimitRPS   float64
	RateLimitBurst int

	MetricsUser string
	MetricsPass string
	PprofSecret string

	FCMCredentialsFile string
	// FCMServiceAccount is base64 encoded service account JSON.
	FCMServiceAccount string

	BackfillAt ClockTime
	ReminderAt ClockTime
}

// ClockTime is a wall-clock time of day in UTC, written HH:MM.
type ClockTime struct {
	Hour   uint
	Minute uint
}

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

func ParseClockTime(s string) (ClockTime, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return ClockTime{}, fmt.Errorf("invalid time of day %q, want HH:MM", s)
	}
	return ClockTime{Hour: uint(t.Hour()), Minute: uint(t.Minute())}, nil
}

// Load reads .env when present and then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

func FromEnv() (*Config, error) {
	cfg := &Config{
		Port:               getEnv("PORT", "3333"),
		AppOrigin:          getEnv("APP_ORIGIN", "http://localhost:3000"),
		ClerkSecretKey:     os.Getenv("CLERK_SECRET_KEY"),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		RedisURL:           os.Getenv("REDIS_URL"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		LogFile:            os.Getenv("LOG_FILE"),
		MetricsUser:        os.Getenv("METRICS_USER"),
		MetricsPass:        os.Getenv("METRICS_PASS"),
		PprofSecret:        os.Getenv("PPROF_SECRET"),
		FCMCredentialsFile: getEnv("FCM_CREDENTIALS_FILE", "./serviceAccountKey.json"),
		FCMServiceAccount:  os.Getenv("FCM_SERVICE_ACCOUNT_JSON"),
	}

	if cfg.ClerkSecretKey == "" {
		return nil, fmt.Errorf("CLERK_SECRET_KEY environment variable is not set")
	}
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is not set")
	}

	var err error
	if cfg.DBMaxConns, err = getInt32("DB_MAX_CONNS", 25); err != nil {
		return nil, err
	}
	if cfg.DBMinConns, err = getInt32("DB_MIN_CONNS", 5); err != nil {
		return nil, err
	}
	if cfg.DBMinConns > cfg.DBMaxConns {
		return nil, fmt.Errorf("DB_MIN_CONNS (%d) exceeds DB_MAX_CONNS (%d)", cfg.DBMinConns, cfg.DBMaxConns)
	}

	if cfg.CacheTTL, err = getDuration("CACHE_TTL", 5*time.Minute); err != nil {
		return nil, err
	}

	burst, err := getInt32("RATE_LIMIT_BURST", 30)
	if err != nil {
		return nil, err
	}
	cfg.RateLimitBurst = int(burst)

	rps := getEnv("RATE_LIMIT_RPS", "5")
	cfg.RateLimitRPS, err = strconv.ParseFloat(rps, 64)
	if err != nil || cfg.RateLimitRPS <= 0 {
		return nil, fmt.Errorf("RATE_LIMIT_RPS must be a positive number, got %q", rps)
	}

	if cfg.BackfillAt, err = ParseClockTime(getEnv("BACKFILL_AT", "00:05")); err != nil {
		return nil, fmt.Errorf("BACKFILL_AT: %w", err)
	}
	if cfg.ReminderAt, err = ParseClockTime(getEnv("REMINDER_AT", "19:00")); err != nil {
		return nil, fmt.Errorf("REMINDER_AT: %w", err)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt32(key string, fallback int32) (int32, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}

	n, err := strconv.ParseInt(v, 10, 32)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", key, v)
	}
	return int32(n), nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}

	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%s must be a positive duration, got %q", key, v)
	}
	return d, nil
}
