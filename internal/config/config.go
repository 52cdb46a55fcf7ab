package config

import (
	"fmt"
	"math"
	"os"
	"strconv"

	"gointegral/internal/errors"
)

// DefaultMaxPartitions bounds n so one request cannot exhaust memory
const DefaultMaxPartitions = 10_000_000

// Config represents the complete application configuration
type Config struct {
	Integration IntegrationConfig
	Server      ServerConfig
	Database    DatabaseConfig
	Export      ExportConfig
}

// IntegrationConfig holds the comparison scenario
type IntegrationConfig struct {
	A           float64
	B           float64
	N           int
	Seed          uint64 // 0 means seed from the clock
	Parallelism   int
	MaxPartitions int
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	GinMode string
}

// DatabaseConfig holds the optional results database
type DatabaseConfig struct {
	URL string
}

// ExportConfig holds file export settings
type ExportConfig struct {
	Path string
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	integration, err := loadIntegrationConfig()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load integration configuration")
	}

	config := &Config{
		Integration: *integration,
		Server:      *loadServerConfig(),
		Database:    DatabaseConfig{URL: getEnvOrDefault("DATABASE_URL", "")},
		Export:      ExportConfig{Path: getEnvOrDefault("EXPORT_PATH", "")},
	}

	if err := Validate(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadIntegrationConfig() (*IntegrationConfig, error) {
	a, err := getEnvFloat("INTEGRATION_A", 0.5)
	if err != nil {
		return nil, err
	}
	b, err := getEnvFloat("INTEGRATION_B", 20.5)
	if err != nil {
		return nil, err
	}
	n, err := getEnvInt("INTEGRATION_N", 10)
	if err != nil {
		return nil, err
	}
	seed, err := getEnvUint("MC_SEED", 0)
	if err != nil {
		return nil, err
	}
	parallelism, err := getEnvInt("PARALLELISM", 1)
	if err != nil {
		return nil, err
	}
	maxPartitions, err := getEnvInt("MAX_PARTITIONS", DefaultMaxPartitions)
	if err != nil {
		return nil, err
	}

	return &IntegrationConfig{
		A:             a,
		B:             b,
		N:             n,
		Seed:          seed,
		Parallelism:   parallelism,
		MaxPartitions: maxPartitions,
	}, nil
}

func loadServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:    getEnvOrDefault("PORT", "8080"),
		GinMode: getEnvOrDefault("GIN_MODE", "release"),
	}
}

// Validate checks the scenario is computable
func Validate(config *Config) error {
	ic := config.Integration
	if math.IsNaN(ic.A) || math.IsInf(ic.A, 0) || math.IsNaN(ic.B) || math.IsInf(ic.B, 0) {
		return errors.ConfigInvalid("INTEGRATION_A and INTEGRATION_B must be finite")
	}
	if ic.N <= 0 {
		return errors.ConfigInvalid("INTEGRATION_N must be positive")
	}
	if ic.MaxPartitions < 1 {
		return errors.ConfigInvalid("MAX_PARTITIONS must be positive")
	}
	if ic.N > ic.MaxPartitions {
		return errors.ConfigInvalid(fmt.Sprintf("INTEGRATION_N must not exceed MAX_PARTITIONS (%d)", ic.MaxPartitions))
	}
	if ic.Parallelism < 1 {
		return errors.ConfigInvalid("PARALLELISM must be at least 1")
	}
	if config.Server.Port == "" {
		return errors.ConfigInvalid("PORT is required")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		return 0, errors.ConfigInvalid(key + " must be an integer")
	}
	return intValue, nil
}

func getEnvUint(key string, defaultValue uint64) (uint64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	uintValue, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, errors.ConfigInvalid(key + " must be a non-negative integer")
	}
	return uintValue, nil
}

func getEnvFloat(key string, defaultValue float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	floatValue, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, errors.ConfigInvalid(key + " must be a number")
	}
	return floatValue, nil
}
