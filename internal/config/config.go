// Package config loads server configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
)

// Storage backends
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// Config is the server configuration
type Config struct {
	HTTPAddr string     `env:"BLOCKLOCKER_HTTP_ADDR" envDefault:":8080"`
	LogLevel slog.Level `env:"BLOCKLOCKER_LOG_LEVEL" envDefault:"info"`

	// TickRate is the number of main loop ticks per second
	TickRate             int    `env:"BLOCKLOCKER_TICK_RATE" envDefault:"20"`
	ResolveIntervalTicks int    `env:"BLOCKLOCKER_RESOLVE_INTERVAL_TICKS" envDefault:"60"`
	MainQueueSize        int    `env:"BLOCKLOCKER_MAIN_QUEUE_SIZE" envDefault:"1024"`
	NotFoundTag          string `env:"BLOCKLOCKER_NOT_FOUND_TAG" envDefault:"[Player not found]"`

	DirectoryURL       string        `env:"BLOCKLOCKER_DIRECTORY_URL" envDefault:"https://api.mojang.com/profiles/minecraft"`
	DirectoryTimeout   time.Duration `env:"BLOCKLOCKER_DIRECTORY_TIMEOUT" envDefault:"10s"`
	DirectoryBatchSize int           `env:"BLOCKLOCKER_DIRECTORY_BATCH_SIZE" envDefault:"10"`

	StorageType string `env:"STORAGE_TYPE" envDefault:"memory"`
	RedisURL    string `env:"REDIS_URL"`
}

// Load parses the environment into a validated Config
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges and cross-field requirements
func (c Config) Validate() error {
	if c.TickRate <= 0 {
		return errors.New("BLOCKLOCKER_TICK_RATE must be positive")
	}
	if c.ResolveIntervalTicks <= 0 {
		return errors.New("BLOCKLOCKER_RESOLVE_INTERVAL_TICKS must be positive")
	}
	if c.DirectoryBatchSize <= 0 {
		return errors.New("BLOCKLOCKER_DIRECTORY_BATCH_SIZE must be positive")
	}
	if c.DirectoryURL == "" {
		return errors.New("BLOCKLOCKER_DIRECTORY_URL is required")
	}
	switch c.StorageType {
	case StorageTypeMemory:
	case StorageTypeRedis:
		if c.RedisURL == "" {
			return errors.New("REDIS_URL required when STORAGE_TYPE=redis")
		}
	default:
		return fmt.Errorf("unknown STORAGE_TYPE %q", c.StorageType)
	}
	return nil
}

// ResolveInterval is the time between resolver drains
func (c Config) ResolveInterval() time.Duration {
	return time.Duration(c.ResolveIntervalTicks) * time.Second / time.Duration(c.TickRate)
}
