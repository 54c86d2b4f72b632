package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

type Config struct {
	AppEnv          string
	LogLevel        slog.Level
	HTTPAddr        string
	ShutdownTimeout time.Duration

	// Driver is the database/sql driver name: "sqlite3" or "pgx".
	Driver string
	// DSN, when set, is passed to the driver verbatim. Required for pgx.
	DSN string
	// Path is the sqlite dataset file, opened read-only.
	Path            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration

	Reference Reference
}

// Reference pins values that are otherwise derived from the dataset.
// Zero values mean "compute from the store".
type Reference struct {
	LatestDate     time.Time
	TobsStation    string
	TobsEndDate    time.Time
	TobsWindowDays int
}

func LoadFromEnv() (Config, error) {
	appEnv := envOrDefault("APP_ENV", "dev")
	switch appEnv {
	case "dev", "prod":
	default:
		return Config{}, fmt.Errorf("invalid APP_ENV %q (allowed: dev, prod)", appEnv)
	}

	level, err := parseLogLevel(envOrDefault("LOG_LEVEL", "info"))
	if err != nil {
		return Config{}, err
	}

	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return Config{}, err
	}
	if shutdownTimeout <= 0 {
		return Config{}, fmt.Errorf("invalid SHUTDOWN_TIMEOUT %q: must be > 0", os.Getenv("SHUTDOWN_TIMEOUT"))
	}

	driver := envOrDefault("DB_DRIVER", "sqlite3")
	switch driver {
	case "sqlite3", "pgx":
	default:
		return Config{}, fmt.Errorf("invalid DB_DRIVER %q (allowed: sqlite3, pgx)", driver)
	}
	dsn := strings.TrimSpace(os.Getenv("DB_DSN"))
	if driver == "pgx" && dsn == "" {
		return Config{}, fmt.Errorf("DB_DSN is required when DB_DRIVER is pgx")
	}

	maxOpenConns, err := parseInt("DB_MAX_OPEN_CONNS", "4")
	if err != nil {
		return Config{}, err
	}
	maxIdleConns, err := parseInt("DB_MAX_IDLE_CONNS", "4")
	if err != nil {
		return Config{}, err
	}
	connMaxLifetime, err := parseDuration("DB_CONN_MAX_LIFETIME", "0s")
	if err != nil {
		return Config{}, err
	}

	ref, err := loadReference()
	if err != nil {
		return Config{}, err
	}

	return Config{
		AppEnv:          appEnv,
		LogLevel:        level,
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		ShutdownTimeout: shutdownTimeout,
		Driver:          driver,
		DSN:             dsn,
		Path:            envOrDefault("SQLITE_PATH", "resources/hawaii.sqlite"),
		MaxOpenConns:    maxOpenConns,
		MaxIdleConns:    maxIdleConns,
		ConnMaxLifetime: connMaxLifetime,
		Reference:       ref,
	}, nil
}

func loadReference() (Reference, error) {
	latest, err := parseDate("CLIMATE_REFERENCE_DATE")
	if err != nil {
		return Reference{}, err
	}
	tobsEnd, err := parseDate("CLIMATE_TOBS_END_DATE")
	if err != nil {
		return Reference{}, err
	}
	windowDays, err := parseInt("CLIMATE_TOBS_WINDOW_DAYS", "365")
	if err != nil {
		return Reference{}, err
	}
	if windowDays <= 0 {
		return Reference{}, fmt.Errorf("invalid CLIMATE_TOBS_WINDOW_DAYS %d: must be > 0", windowDays)
	}
	return Reference{
		LatestDate:     latest,
		TobsStation:    strings.TrimSpace(os.Getenv("CLIMATE_TOBS_STATION")),
		TobsEndDate:    tobsEnd,
		TobsWindowDays: windowDays,
	}, nil
}

func envOrDefault(name, def string) string {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return def
	}
	return v
}

func parseInt(name, def string) (int, error) {
	s := envOrDefault(name, def)
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", name, s, err)
	}
	return n, nil
}

func parseDuration(name, def string) (time.Duration, error) {
	s := envOrDefault(name, def)
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", name, s, err)
	}
	return d, nil
}

// parseDate returns the zero time when the variable is unset.
func parseDate(name string) (time.Time, error) {
	s := strings.TrimSpace(os.Getenv(name))
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s %q (expected YYYY-MM-DD)", name, s)
	}
	return t, nil
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL %q (allowed: debug, info, warn, error)", s)
	}
}
