package config

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Config holds the settings of the HTTP service, read from TIMETABLING_* variables
type Config struct {
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	Server   struct {
		Port            string `env:"PORT" envDefault:"8080"`
		ReadTimeout     int    `env:"READ_TIMEOUT" envDefault:"10"`
		WriteTimeout    int    `env:"WRITE_TIMEOUT" envDefault:"300"`
		IdleTimeout     int    `env:"IDLE_TIMEOUT" envDefault:"60"`
		ShutdownTimeout int    `env:"SHUTDOWN_TIMEOUT" envDefault:"10"`
	} `envPrefix:"SERVER_"`
	Store struct {
		Path string `env:"PATH" envDefault:"timetabling.db"`
	} `envPrefix:"STORE_"`
	Scheduler struct {
		ConfigFile    string `env:"CONFIG_FILE"`
		MaxTimeBudget int    `env:"MAX_TIME_BUDGET" envDefault:"120"` // Seconds; caps every request's budget
		HistoryLimit  int    `env:"HISTORY_LIMIT" envDefault:"50"`
	} `envPrefix:"SCHEDULER_"`
}

func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: "TIMETABLING_"}); err != nil {
		aggErr := env.AggregateError{}
		if ok := errors.As(err, &aggErr); ok {
			// The first error is enough for a readable log line
			return nil, aggErr.Errors[0]
		}
		return nil, err
	}

	return cfg, nil
}

func (cfg *Config) Level() slog.Level {
	switch strings.ToLower(cfg.LogLevel) {
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
