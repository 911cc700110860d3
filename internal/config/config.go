package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all application configuration
type Config struct {
	Database DatabaseConfig
	Queue    QueueConfig
	API      APIConfig
	Auth     AuthConfig
	Worker   WorkerConfig
}

// DatabaseConfig holds database connection configuration
type DatabaseConfig struct {
	Host          string
	Port          int
	User          string
	Password      string
	DBName        string
	SSLMode       string
	MigrationsDir string
}

// QueueConfig holds notification queue configuration (Redis)
type QueueConfig struct {
	RedisURL  string
	QueueName string
}

// APIConfig holds API server configuration
type APIConfig struct {
	Port int
}

// AuthConfig holds JWT configuration
type AuthConfig struct {
	SecretKey          string
	TokenExpiryMinutes int
}

// WorkerConfig holds notification worker configuration
type WorkerConfig struct {
	Concurrency   int
	MaxRetryCount int
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	apiPort, err := strconv.Atoi(getEnv("API_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid API_PORT: %w", err)
	}

	tokenExpiry, err := strconv.Atoi(getEnv("TOKEN_EXPIRY_MINUTES", "720"))
	if err != nil {
		return nil, fmt.Errorf("invalid TOKEN_EXPIRY_MINUTES: %w", err)
	}

	workerConcurrency, err := strconv.Atoi(getEnv("WORKER_CONCURRENCY", "3"))
	if err != nil {
		return nil, fmt.Errorf("invalid WORKER_CONCURRENCY: %w", err)
	}

	maxRetryCount, err := strconv.Atoi(getEnv("MAX_RETRY_COUNT", "3"))
	if err != nil {
		return nil, fmt.Errorf("invalid MAX_RETRY_COUNT: %w", err)
	}

	secret := getEnv("JWT_SECRET", "")
	if secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	return &Config{
		Database: DatabaseConfig{
			Host:          getEnv("DB_HOST", "localhost"),
			Port:          dbPort,
			User:          getEnv("DB_USER", "site_backend"),
			Password:      getEnv("DB_PASSWORD", "site_backend"),
			DBName:        getEnv("DB_NAME", "site_backend"),
			SSLMode:       getEnv("DB_SSLMODE", "disable"),
			MigrationsDir: getEnv("MIGRATIONS_DIR", "migrations"),
		},
		Queue: QueueConfig{
			RedisURL:  getEnv("REDIS_URL", "redis://localhost:6379/0"),
			QueueName: getEnv("QUEUE_NAME", "staff_notifications"),
		},
		API: APIConfig{
			Port: apiPort,
		},
		Auth: AuthConfig{
			SecretKey:          secret,
			TokenExpiryMinutes: tokenExpiry,
		},
		Worker: WorkerConfig{
			Concurrency:   workerConcurrency,
			MaxRetryCount: maxRetryCount,
		},
	}, nil
}

// DSN returns the database connection string
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// URL returns the database connection string in URL form, as required by
// the migration tooling.
func (d *DatabaseConfig) URL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
