package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"swertres/database"

	"github.com/shopspring/decimal"
)

// Config holds all application configuration
type Config struct {
	// Database configuration
	DatabaseURL  string
	DatabaseName string

	// NATS configuration
	NATSServers string // NATS server addresses (comma-separated)

	// Draw schedule configuration
	Timezone        string // IANA timezone the draw calendar runs in
	DrawHorizonDays int    // How many days ahead draws are created

	// Exposure configuration
	StraightExposureCeiling decimal.Decimal
	RambolExposureCeiling   decimal.Decimal

	// Environment
	Environment string // "development" or "production"
}

var (
	instance *Config
	once     sync.Once
	mu       sync.Mutex // Protects instance for test setup
)

// Get returns the global configuration instance
func Get() *Config {
	mu.Lock()
	defer mu.Unlock()

	// If instance is already set (e.g., by tests), return it
	if instance != nil {
		return instance
	}

	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			// In test environment, use a default test config instead of panicking
			if os.Getenv("GO_TEST") == "1" || os.Getenv("ENVIRONMENT") == "test" {
				instance = NewTestConfig()
			} else {
				panic(fmt.Sprintf("failed to load config: %v", err))
			}
		}
	})
	return instance
}

// GetDatabaseURL constructs the full database URL by combining base URL and database name
func (c *Config) GetDatabaseURL() string {
	return database.ConstructDatabaseURL(c.DatabaseURL, c.DatabaseName)
}

// load loads configuration from environment variables
func load() (*Config, error) {
	config := &Config{
		// Database
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		DatabaseName: os.Getenv("DATABASE_NAME"),

		// NATS
		NATSServers: getEnvWithDefault("NATS_SERVERS", "nats://nats:4222"),

		// Draw schedule
		Timezone:        getEnvWithDefault("LOTTO_TIMEZONE", "Asia/Manila"),
		DrawHorizonDays: 14,

		// Exposure ceilings per combination
		StraightExposureCeiling: decimal.NewFromInt(5000),
		RambolExposureCeiling:   decimal.NewFromInt(10000),

		// Environment
		Environment: os.Getenv("ENVIRONMENT"),
	}

	// Override defaults if environment variables are set
	if days := os.Getenv("DRAW_HORIZON_DAYS"); days != "" {
		if parsedDays, err := strconv.Atoi(days); err == nil && parsedDays > 0 {
			config.DrawHorizonDays = parsedDays
		}
	}
	if ceiling := os.Getenv("STRAIGHT_EXPOSURE_CEILING"); ceiling != "" {
		parsed, err := decimal.NewFromString(ceiling)
		if err != nil {
			return nil, fmt.Errorf("invalid STRAIGHT_EXPOSURE_CEILING: %w", err)
		}
		config.StraightExposureCeiling = parsed
	}
	if ceiling := os.Getenv("RAMBOL_EXPOSURE_CEILING"); ceiling != "" {
		parsed, err := decimal.NewFromString(ceiling)
		if err != nil {
			return nil, fmt.Errorf("invalid RAMBOL_EXPOSURE_CEILING: %w", err)
		}
		config.RambolExposureCeiling = parsed
	}

	// Set default environment if not specified
	if config.Environment == "" {
		config.Environment = "development"
	}

	if config.Environment != "test" {
		// Validate required configuration
		if config.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required")
		}
		// If DatabaseName is provided, ensure it's not empty
		if config.DatabaseName != "" && strings.TrimSpace(config.DatabaseName) == "" {
			return nil, fmt.Errorf("DATABASE_NAME cannot be empty when provided")
		}
	}

	return config, nil
}

// getEnvWithDefault returns the environment variable value or a default if not set
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// Test helpers - only use in tests

// SetTestConfig overrides the global config instance for testing
// This should only be called from test files
func SetTestConfig(testConfig *Config) {
	mu.Lock()
	defer mu.Unlock()
	instance = testConfig
}

// ResetConfig resets the global config instance and sync.Once for testing
// This should only be called from test files
func ResetConfig() {
	mu.Lock()
	defer mu.Unlock()
	instance = nil
	once = sync.Once{}
}

// NewTestConfig creates a minimal config suitable for unit tests
func NewTestConfig() *Config {
	return &Config{
		Environment:             "test",
		Timezone:                "Asia/Manila",
		DrawHorizonDays:         14,
		StraightExposureCeiling: decimal.NewFromInt(5000),
		RambolExposureCeiling:   decimal.NewFromInt(10000),
	}
}
