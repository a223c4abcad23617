package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cast"
)

type Config struct {
	DatabaseURL string
	Port        string
	Env         string
	LogLevel    string

	// Remote worker host; empty runs the host in-process
	WorkerHostURL  string
	WorkerHostPort string

	ChartCacheSize        int
	ChartTimeout          time.Duration
	SourceRefreshSchedule string
	DefaultDataSourceID   string
}

func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("⚠️  .env file not found, using system environment variables")
	}

	cfg := &Config{
		DatabaseURL:           os.Getenv("DATABASE_URL"),
		Port:                  os.Getenv("PORT"),
		Env:                   os.Getenv("ENV"),
		LogLevel:              os.Getenv("LOG_LEVEL"),
		WorkerHostURL:         os.Getenv("WORKER_HOST_URL"),
		WorkerHostPort:        os.Getenv("WORKER_HOST_PORT"),
		ChartCacheSize:        cast.ToInt(os.Getenv("CHART_CACHE_SIZE")),
		ChartTimeout:          cast.ToDuration(os.Getenv("CHART_TIMEOUT")),
		SourceRefreshSchedule: os.Getenv("SOURCE_REFRESH_SCHEDULE"),
		DefaultDataSourceID:   os.Getenv("DEFAULT_DATA_SOURCE_ID"),
	}

	// Default values
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.Env == "" {
		cfg.Env = "development"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.WorkerHostPort == "" {
		cfg.WorkerHostPort = "8090"
	}
	if cfg.ChartCacheSize <= 0 {
		cfg.ChartCacheSize = 512
	}
	if cfg.ChartTimeout <= 0 {
		cfg.ChartTimeout = 30 * time.Second
	}

	return cfg
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
