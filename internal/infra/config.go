package infra

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv           string
	Port             string
	EngineBaseURL    string
	PollInterval     time.Duration
	ReconnectDelay   time.Duration
	HistoryLimit     int
	ParamsPath       string
	AllowedOrigins   []string
	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:           getEnv("APP_ENV", "development"),
		Port:             getEnv("PORT", "8090"),
		EngineBaseURL:    os.Getenv("ENGINE_BASE_URL"),
		PollInterval:     time.Millisecond * time.Duration(getEnvInt("POLL_INTERVAL_MS", 2000)),
		ReconnectDelay:   time.Millisecond * time.Duration(getEnvInt("RECONNECT_DELAY_MS", 5000)),
		HistoryLimit:     getEnvInt("HISTORY_LIMIT", 100),
		ParamsPath:       getEnv("PARAMS_PATH", "./data/last-params.json"),
		AllowedOrigins:   []string{getEnv("UI_ORIGIN", "http://localhost:5173")},
		HTTPReadTimeout:  time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout: time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 30)),
		HTTPIdleTimeout:  time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
	}

	if cfg.EngineBaseURL == "" {
		return nil, fmt.Errorf("ENGINE_BASE_URL is required")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}
