package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	ListenAddr  string
	DBPath      string
	StorageKey  string
	CORSOrigins []string
	RateLimit   int
	LogLevel    slog.Level
}

// Load reads the configuration from ARCANE_* environment variables. Values
// from a .env file in the working directory are used for variables that are
// not already set.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{
		ListenAddr: getEnv("ARCANE_LISTEN_ADDR", ":8080"),
		DBPath:     getEnv("ARCANE_DB_PATH", "arcanejobs.db"),
		StorageKey: strings.TrimSpace(getEnv("ARCANE_STORAGE_KEY", "jobApplications")),
	}
	if cfg.StorageKey == "" {
		return nil, errors.New("ARCANE_STORAGE_KEY must not be blank")
	}

	for _, o := range strings.Split(getEnv("ARCANE_CORS_ORIGINS", ""), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			cfg.CORSOrigins = append(cfg.CORSOrigins, o)
		}
	}

	var err error
	cfg.RateLimit, err = getEnvInt("ARCANE_RATE_LIMIT", 10)
	if err != nil {
		return nil, fmt.Errorf("ARCANE_RATE_LIMIT: %w", err)
	}
	if cfg.RateLimit < 0 {
		return nil, errors.New("ARCANE_RATE_LIMIT must be >= 0")
	}

	cfg.LogLevel, err = ParseLevel(getEnv("ARCANE_LOG_LEVEL", "info"))
	if err != nil {
		return nil, fmt.Errorf("ARCANE_LOG_LEVEL: %w", err)
	}

	return cfg, nil
}

// ParseLevel maps debug|info|warn|error to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("unknown log level %q", s)
	}
	return l, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid integer %q", v)
	}
	return n, nil
}
