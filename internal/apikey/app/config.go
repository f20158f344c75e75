package app

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/aussiebroadwan/apikey/internal/apikey/domain"
)

// PepperDisabled turns peppering off when used as APIKEY_PEPPER_FILE.
const PepperDisabled = "none"

type Config struct {
	DatabaseDriver  string // Database backend: sqlite, gorm-sqlite, postgres, mysql (default: sqlite)
	DatabaseDSN     string // File path for sqlite, connection string otherwise (default: apikeys.db)
	PepperFile      string // Path to the hashing pepper, "none" disables (default: pepper)
	HashAlgorithm   string // argon2id or bcrypt (default: argon2id)
	PrefixLength    int    // Length of the public key prefix (default: 8)
	SecretLength    int    // Length of the secret part (default: 32)
	KeyHeader       string // Header API keys are read from (default: Api-Key)
	AdminSecretFile string // HS256 secret for admin tokens, generated if missing (default: admin.secret)
	Issuer          string // Issuer of admin tokens (default: apikey-service)

	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
	InventoryInterval   time.Duration // How often stored keys are counted for metrics (default: 1m)
}

// LoadConfig reads the configuration from the environment. A .env file in
// the working directory, if any, is applied first without overriding
// variables that are already set.
func LoadConfig() Config {
	_ = godotenv.Load()

	return Config{
		DatabaseDriver:  getEnvOrDefault("APIKEY_DATABASE_DRIVER", "sqlite"),
		DatabaseDSN:     getEnvOrDefault("APIKEY_DATABASE_DSN", "apikeys.db"),
		PepperFile:      getEnvOrDefault("APIKEY_PEPPER_FILE", "pepper"),
		HashAlgorithm:   getEnvOrDefault("APIKEY_HASH_ALGORITHM", "argon2id"),
		PrefixLength:    getEnvIntOrDefault("APIKEY_PREFIX_LENGTH", 8),
		SecretLength:    getEnvIntOrDefault("APIKEY_SECRET_LENGTH", 32),
		KeyHeader:       getEnvOrDefault("APIKEY_HEADER", "Api-Key"),
		AdminSecretFile: getEnvOrDefault("APIKEY_ADMIN_SECRET_FILE", "admin.secret"),
		Issuer:          getEnvOrDefault("APIKEY_ISSUER", "apikey-service"),

		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		InventoryInterval:   getEnvDurationOrDefault("INVENTORY_INTERVAL", time.Minute),
	}
}

// Validate rejects settings the key generator or the schema cannot honour.
func (c Config) Validate() error {
	if c.PrefixLength < 1 || c.PrefixLength > domain.MaxPrefixLength {
		return fmt.Errorf("APIKEY_PREFIX_LENGTH must be between 1 and %d, got %d", domain.MaxPrefixLength, c.PrefixLength)
	}
	if c.SecretLength < 1 {
		return fmt.Errorf("APIKEY_SECRET_LENGTH must be positive, got %d", c.SecretLength)
	}
	return nil
}

// PepperPath is the pepper file to load, or "" when peppering is off.
func (c Config) PepperPath() string {
	if c.PepperFile == PepperDisabled {
		return ""
	}
	return c.PepperFile
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Bare integers are seconds.
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}

	return defaultValue
}
