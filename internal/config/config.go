// Package config loads the export configuration from the environment,
// with an optional .env file for local development.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds one export run's configuration.
type Config struct {
	// Plentymarkets API
	Domain   string
	Username string
	Password string
	Protocol string

	// Export scope
	Language        string
	Country         string
	MultishopID     *int
	AvailabilityIDs []int

	// PriceID and RrpID select the sales-price definitions used for
	// price and strike-through price. Zero means resolve them from the
	// shop's sales-price configuration during initialization.
	PriceID int
	RrpID   int

	ItemsPerPage int

	// HTTP
	Timeout time.Duration

	// Cache
	RedisAddr string
	CacheTTL  time.Duration

	// Output
	OutputFile string

	// Logging
	LogLevel  string
	LogPretty bool
}

// Load reads the configuration from the environment. A .env file in
// the working directory is loaded first when present.
func Load() (*Config, error) {
	godotenv.Load()

	cfg := &Config{
		Domain:       getEnv("PLENTY_DOMAIN", ""),
		Username:     getEnv("PLENTY_USERNAME", ""),
		Password:     getEnv("PLENTY_PASSWORD", ""),
		Protocol:     getEnv("PLENTY_PROTOCOL", "https"),
		Language:     getEnv("EXPORT_LANGUAGE", "en"),
		Country:      getEnv("EXPORT_COUNTRY", "DE"),
		PriceID:      getEnvAsInt("EXPORT_PRICE_ID", 0),
		RrpID:        getEnvAsInt("EXPORT_RRP_ID", 0),
		ItemsPerPage: getEnvAsInt("EXPORT_ITEMS_PER_PAGE", 100),
		Timeout:      getEnvAsDuration("PLENTY_TIMEOUT", 30*time.Second),
		RedisAddr:    getEnv("REDIS_ADDR", ""),
		CacheTTL:     getEnvAsDuration("CACHE_TTL", 15*time.Minute),
		OutputFile:   getEnv("EXPORT_OUTPUT", "export.json"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		LogPretty:    getEnvAsBool("LOG_PRETTY", false),
	}

	if raw := os.Getenv("EXPORT_MULTISHOP_ID"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid EXPORT_MULTISHOP_ID: %w", err)
		}
		cfg.MultishopID = &id
	}

	ids, err := parseIntList(os.Getenv("EXPORT_AVAILABILITY_IDS"))
	if err != nil {
		return nil, fmt.Errorf("invalid EXPORT_AVAILABILITY_IDS: %w", err)
	}
	cfg.AvailabilityIDs = ids

	return cfg, nil
}

// Validate ensures all configuration values are coherent.
func (c *Config) Validate() error {
	if c.Domain == "" {
		return fmt.Errorf("domain cannot be empty")
	}
	if c.Username == "" {
		return fmt.Errorf("username cannot be empty")
	}
	if c.Password == "" {
		return fmt.Errorf("password cannot be empty")
	}
	if c.Protocol != "http" && c.Protocol != "https" {
		return fmt.Errorf("protocol must be http or https")
	}
	if c.Language == "" {
		return fmt.Errorf("language cannot be empty")
	}
	if c.Country == "" {
		return fmt.Errorf("country cannot be empty")
	}
	if c.PriceID < 0 {
		return fmt.Errorf("price id cannot be negative")
	}
	if c.RrpID < 0 {
		return fmt.Errorf("rrp id cannot be negative")
	}
	if c.ItemsPerPage <= 0 {
		return fmt.Errorf("items per page must be positive")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.CacheTTL < 0 {
		return fmt.Errorf("cache ttl cannot be negative")
	}
	if c.OutputFile == "" {
		return fmt.Errorf("output file cannot be empty")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func parseIntList(raw string) ([]int, error) {
	if raw == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	ids := make([]int, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.Atoi(part)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
