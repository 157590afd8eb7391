package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Backend names accepted by BACKEND.
const (
	BackendSQLite  = "sqlite"
	BackendGraphQL = "graphql"
)

// Config holds all configuration for the application
type Config struct {
	Env       string
	Server    ServerConfig
	Backend   BackendConfig
	Database  DatabaseConfig
	Cache     CacheConfig
	Ownership OwnershipConfig
	Security  SecurityConfig
	Address   AddressConfig
	CORS      CORSConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port string
	Host string
	Addr string // Combined host:port for convenience
}

// BackendConfig selects where wealth data comes from.
type BackendConfig struct {
	Kind              string
	GraphQLEndpoint   string
	EnrichConcurrency int
}

// DatabaseConfig holds database-specific configuration
type DatabaseConfig struct {
	Path string
}

// CacheConfig holds query cache settings.
type CacheConfig struct {
	TTL           time.Duration
	SweepSchedule string
}

// OwnershipConfig holds ownership save rules.
type OwnershipConfig struct {
	EnforceSum bool
}

// SecurityConfig holds secrets. LCBKey is empty when none is configured.
type SecurityConfig struct {
	LCBKey string
}

// AddressConfig holds the address lookup API settings.
type AddressConfig struct {
	URL string
}

// CORSConfig holds CORS-specific configuration
type CORSConfig struct {
	AllowedOrigins []string
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	ttl, err := getDuration("CACHE_TTL", 5*time.Minute)
	if err != nil {
		return nil, err
	}
	concurrency, err := getInt("ENRICH_CONCURRENCY", 4)
	if err != nil {
		return nil, err
	}
	if concurrency < 1 {
		return nil, fmt.Errorf("ENRICH_CONCURRENCY must be at least 1, got %d", concurrency)
	}
	enforce, err := getBool("OWNERSHIP_ENFORCE_SUM", true)
	if err != nil {
		return nil, err
	}

	config := &Config{
		Env: getEnv("APP_ENV", "development"),
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "5001"),
			Host: getEnv("SERVER_HOST", "localhost"),
		},
		Backend: BackendConfig{
			Kind:              strings.ToLower(getEnv("BACKEND", BackendSQLite)),
			GraphQLEndpoint:   getEnv("GRAPHQL_ENDPOINT", "http://localhost:4000/graphql"),
			EnrichConcurrency: concurrency,
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/wealth_manager.db"),
		},
		Cache: CacheConfig{
			TTL:           ttl,
			SweepSchedule: getEnv("CACHE_SWEEP_SCHEDULE", "@every 1m"),
		},
		Ownership: OwnershipConfig{
			EnforceSum: enforce,
		},
		Security: SecurityConfig{
			LCBKey: os.Getenv("LCB_ENCRYPTION_KEY"),
		},
		Address: AddressConfig{
			URL: getEnv("ADDRESS_API_URL", "https://api-adresse.data.gouv.fr/search/"),
		},
		CORS: CORSConfig{
			AllowedOrigins: getList("CORS_ALLOWED_ORIGINS", []string{
				"http://localhost:3000",
				"http://localhost",
			}),
		},
	}

	switch config.Backend.Kind {
	case BackendSQLite, BackendGraphQL:
	default:
		return nil, fmt.Errorf("BACKEND must be %q or %q, got %q", BackendSQLite, BackendGraphQL, config.Backend.Kind)
	}

	// Combine host and port
	config.Server.Addr = fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port)

	return config, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return d, nil
}

func getInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return n, nil
}

func getBool(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return b, nil
}

// getList splits a comma-separated variable, dropping empty items.
func getList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
