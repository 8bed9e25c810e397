package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

type Config struct {
	// Server Config
	HTTPAddress  string
	GRPCAddress  string // empty disables the gRPC listener
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// Storage Config
	Storage     string
	DatabaseURL string

	// Ledger Config
	EnforceActive bool
}

// Load reads an optional .env file and then the process environment
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: could not read .env file: %v", err)
	}
	return FromEnv()
}

// FromEnv builds the configuration from environment variables alone
func FromEnv() (*Config, error) {
	cfg := &Config{
		// Server
		HTTPAddress:  getEnv("HTTP_ADDRESS", ":8000"),
		GRPCAddress:  getEnvAllowEmpty("GRPC_ADDRESS", ":9090"),
		ReadTimeout:  getEnvAsDuration("READ_TIMEOUT", 15*time.Second),
		WriteTimeout: getEnvAsDuration("WRITE_TIMEOUT", 15*time.Second),

		// Storage
		Storage:     getEnv("STORAGE", StorageMemory),
		DatabaseURL: databaseURL(),

		// Ledger
		EnforceActive: getEnvAsBool("LEDGER_ENFORCE_ACTIVE", false),
	}

	if cfg.Storage != StorageMemory && cfg.Storage != StoragePostgres {
		return nil, fmt.Errorf("invalid STORAGE %q: must be %q or %q", cfg.Storage, StorageMemory, StoragePostgres)
	}

	return cfg, nil
}

// databaseURL prefers DB_CONN_STR and otherwise builds it from the individual vars
func databaseURL() string {
	if connStr := os.Getenv("DB_CONN_STR"); connStr != "" {
		return connStr
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		getEnv("DB_HOST", "localhost"),
		getEnvAsInt("DB_PORT", 5432),
		getEnv("DB_USER", "postgres"),
		getEnv("DB_PASSWORD", "postgres"),
		getEnv("DB_NAME", "bank"),
		getEnv("DB_SSLMODE", "disable"),
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAllowEmpty(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok {
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
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
