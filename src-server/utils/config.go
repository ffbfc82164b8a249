package utils

import (
	"log/slog"
	"os"
	"time"
)

type Config struct {
	port         string
	databasePath string
	hostname     string

	sessionExpire            time.Duration
	metricCollectionInterval time.Duration
}

func NewConfig() *Config {
	return &Config{
		port: func() string {
			port := os.Getenv("PORT")
			if port == "" {
				port = "8080"
			}
			slog.Debug("env", "PORT", port)
			return port
		}(),

		databasePath: func() string {
			databasePath := os.Getenv("DATABASE_PATH")
			if databasePath == "" {
				databasePath = "./sqlite.db"
			}
			slog.Debug("env", "DATABASE_PATH", databasePath)
			return databasePath
		}(),

		hostname: func() string {
			hostname := os.Getenv("HOSTNAME")
			if hostname == "" {
				slog.Warn("HOSTNAME is not set")
				hostname = "localhost:8080"
			}
			slog.Debug("env", "HOSTNAME", hostname)
			return hostname
		}(),

		sessionExpire: func() time.Duration {
			sessionExpire := os.Getenv("SESSION_EXPIRE")
			if sessionExpire == "" {
				slog.Warn("SESSION_EXPIRE is not set")
				sessionExpire = "168h" // 1 week
			}
			duration, err := time.ParseDuration(sessionExpire)
			if err != nil {
				slog.Error("invalid SESSION_EXPIRE", "error", err)
				os.Exit(1)
			}
			slog.Debug("env", "SESSION_EXPIRE", sessionExpire, "duration", duration)
			return duration
		}(),

		metricCollectionInterval: func() time.Duration {
			interval := os.Getenv("METRIC_COLLECTION_INTERVAL")
			if interval == "" {
				interval = "60s"
			}
			duration, err := time.ParseDuration(interval)
			if err != nil {
				slog.Error("invalid METRIC_COLLECTION_INTERVAL", "error", err)
				os.Exit(1)
			}
			slog.Debug("env", "METRIC_COLLECTION_INTERVAL", interval, "duration", duration)
			return duration
		}(),
	}
}

// Get PORT env, default to 8080
func (c *Config) GetPort() string {
	return c.port
}

// Get DATABASE_PATH env, default to ./sqlite.db
func (c *Config) GetDatabasePath() string {
	return c.databasePath
}

// Get HOSTNAME env
func (c *Config) GetHostname() string {
	return c.hostname
}

// Get SESSION_EXPIRE env
func (c *Config) GetSessionExpire() time.Duration {
	return c.sessionExpire
}

// Get METRIC_COLLECTION_INTERVAL env
func (c *Config) GetMetricCollectionInterval() time.Duration {
	return c.metricCollectionInterval
}
