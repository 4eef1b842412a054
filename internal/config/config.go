package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Table configuration
	GamblerName     string
	OpeningBankroll int64 // cents
	DefaultWager    int64 // cents
	ShoeDecks       int

	// Storage
	StorageType string // "memory" or "sqlite"
	DataDir     string

	// Elasticsearch analytics (optional)
	ElasticsearchURL   string
	ElasticsearchIndex string
	SyncInterval       time.Duration

	// Environment
	Environment string // "development" or "production"
}

// Load reads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		// Only return error if file exists but couldn't be loaded
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	// Get working directory for resource paths
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}

	openingBankroll, err := getEnvCents("OPENING_BANKROLL", 100_00)
	if err != nil {
		return nil, err
	}

	defaultWager, err := getEnvCents("DEFAULT_WAGER", 10_00)
	if err != nil {
		return nil, err
	}

	shoeDecks, err := getEnvInt("SHOE_DECKS", 6)
	if err != nil {
		return nil, err
	}

	syncInterval, err := getEnvDuration("ES_SYNC_INTERVAL", time.Minute)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		GamblerName:        getEnvWithDefault("GAMBLER_NAME", "Gambler"),
		OpeningBankroll:    openingBankroll,
		DefaultWager:       defaultWager,
		ShoeDecks:          shoeDecks,
		StorageType:        getEnvWithDefault("STORAGE_TYPE", "memory"),
		DataDir:            getEnvWithDefault("DATA_DIR", filepath.Join(wd, "data")),
		ElasticsearchURL:   os.Getenv("ELASTICSEARCH_URL"),
		ElasticsearchIndex: getEnvWithDefault("ELASTICSEARCH_INDEX", "angeleyes"),
		SyncInterval:       syncInterval,
		Environment:        getEnvWithDefault("ENVIRONMENT", "development"),
	}

	// Validate required fields
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	// Create data directory if it doesn't exist
	if cfg.StorageType == "sqlite" {
		if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	return cfg, nil
}

// validate checks if all required configuration is present
func (c *Config) validate() error {
	if c.OpeningBankroll <= 0 {
		return fmt.Errorf("OPENING_BANKROLL must be positive")
	}
	if c.DefaultWager <= 0 {
		return fmt.Errorf("DEFAULT_WAGER must be positive")
	}
	if c.DefaultWager > c.OpeningBankroll {
		return fmt.Errorf("DEFAULT_WAGER cannot exceed OPENING_BANKROLL")
	}
	if c.ShoeDecks < 1 {
		return fmt.Errorf("SHOE_DECKS must be at least 1")
	}
	if c.StorageType != "memory" && c.StorageType != "sqlite" {
		return fmt.Errorf("STORAGE_TYPE must be \"memory\" or \"sqlite\", got %q", c.StorageType)
	}
	return nil
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// AnalyticsEnabled returns true if round results should be indexed to Elasticsearch
func (c *Config) AnalyticsEnabled() bool {
	return c.ElasticsearchURL != ""
}

// getEnvWithDefault returns environment variable value or default if not set
func getEnvWithDefault(key, defaultValue string) string {
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
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}

// getEnvCents parses a dollar amount (e.g. "100" or "100.50") into cents
func getEnvCents(key string, defaultValue int64) (int64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	dollars, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a dollar amount: %w", key, err)
	}
	return int64(dollars*100 + 0.5), nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration (e.g. \"30s\"): %w", key, err)
	}
	return d, nil
}
