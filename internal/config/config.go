// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for our application
type Config struct {
	App         AppConfig
	Server      ServerConfig
	Storage     StorageConfig
	Redis       RedisConfig
	SQLite      SQLiteConfig
	Transaction TransactionConfig
	Catalog     CatalogConfig
	Checkout    CheckoutConfig
	Security    SecurityConfig
	Logging     LoggingConfig
}

// AppConfig contains application-level configuration
type AppConfig struct {
	Name        string
	Version     string
	Environment string
	Debug       bool
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// StorageConfig selects the backing key-value store for receipts
type StorageConfig struct {
	Driver      string // redis, sqlite or memory
	ReceiptsKey string
}

// RedisConfig contains Redis configuration
type RedisConfig struct {
	Host         string
	Port         string
	Password     string
	DB           int
	PoolSize     int
	MinIdleConns int
}

// SQLiteConfig contains the embedded database configuration
type SQLiteConfig struct {
	Path string
}

// TransactionConfig contains the remote transaction service configuration
type TransactionConfig struct {
	BaseURL string
	Timeout time.Duration
}

// CatalogConfig contains the remote item catalog configuration
type CatalogConfig struct {
	BaseURL string
	Timeout time.Duration
}

// CheckoutConfig contains checkout-related defaults
type CheckoutConfig struct {
	MerchantRef string
}

// SecurityConfig contains security-related configuration
type SecurityConfig struct {
	RateLimitPerMinute int
	CORSAllowedOrigins []string
	CORSAllowedMethods []string
	CORSAllowedHeaders []string
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string
	Format string
}

// Load loads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found, using environment variables")
	}

	config := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "POS Companion"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			Environment: getEnv("APP_ENV", "development"),
			Debug:       getEnvAsBool("APP_DEBUG", true),
		},
		Server: ServerConfig{
			Port:         getEnv("APP_PORT", "8080"),
			ReadTimeout:  getEnvAsDuration("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout: getEnvAsDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:  getEnvAsDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
		},
		Storage: StorageConfig{
			Driver:      getEnv("STORAGE_DRIVER", "sqlite"),
			ReceiptsKey: getEnv("STORAGE_RECEIPTS_KEY", "saved_receipts"),
		},
		Redis: RedisConfig{
			Host:         getEnv("REDIS_HOST", "localhost"),
			Port:         getEnv("REDIS_PORT", "6379"),
			Password:     getEnv("REDIS_PASSWORD", ""),
			DB:           getEnvAsInt("REDIS_DB", 0),
			PoolSize:     getEnvAsInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: getEnvAsInt("REDIS_MIN_IDLE_CONNS", 5),
		},
		SQLite: SQLiteConfig{
			Path: getEnv("SQLITE_PATH", "data/pos-companion.db"),
		},
		Transaction: TransactionConfig{
			BaseURL: getEnv("TRANSACTION_API_BASE_URL", "http://localhost:8090/api/v1"),
			Timeout: getEnvAsDuration("TRANSACTION_API_TIMEOUT", 5*time.Second),
		},
		Catalog: CatalogConfig{
			BaseURL: getEnv("CATALOG_API_BASE_URL", "http://localhost:8090/api/v1"),
			Timeout: getEnvAsDuration("CATALOG_API_TIMEOUT", 5*time.Second),
		},
		Checkout: CheckoutConfig{
			MerchantRef: getEnv("CHECKOUT_MERCHANT_REF", ""),
		},
		Security: SecurityConfig{
			RateLimitPerMinute: getEnvAsInt("RATE_LIMIT_PER_MINUTE", 100),
			CORSAllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000", "http://localhost:8081"}),
			CORSAllowedMethods: getEnvAsSlice("CORS_ALLOWED_METHODS", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
			CORSAllowedHeaders: getEnvAsSlice("CORS_ALLOWED_HEADERS", []string{"Origin", "Content-Type", "Accept"}),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "debug"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case "redis":
		if c.Redis.Host == "" {
			return fmt.Errorf("REDIS_HOST is required when STORAGE_DRIVER=redis")
		}
	case "sqlite":
		if c.SQLite.Path == "" {
			return fmt.Errorf("SQLITE_PATH is required when STORAGE_DRIVER=sqlite")
		}
	case "memory":
		// No external dependencies to check
	default:
		return fmt.Errorf("unsupported STORAGE_DRIVER: %s", c.Storage.Driver)
	}

	if c.Storage.ReceiptsKey == "" {
		return fmt.Errorf("STORAGE_RECEIPTS_KEY is required")
	}

	if c.Transaction.BaseURL == "" {
		return fmt.Errorf("TRANSACTION_API_BASE_URL is required")
	}

	if c.Catalog.BaseURL == "" {
		return fmt.Errorf("CATALOG_API_BASE_URL is required")
	}

	// Validate server port
	if c.Server.Port == "" {
		return fmt.Errorf("APP_PORT is required")
	}

	return nil
}

// IsDevelopment returns true if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction returns true if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetRedisAddr returns the Redis address
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}

// Helper functions for environment variable parsing

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
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		return strings.Split(value, ",")
	}
	return defaultValue
}
