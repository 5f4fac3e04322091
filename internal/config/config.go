package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Server  ServerConfig
	MongoDB MongoDBConfig
	Redis   RedisConfig
	Auth    AuthConfig
	Log     LogConfig
	OTEL    OTELConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port              string
	DefaultExerciseID string
}

// MongoDBConfig holds document store connection configuration
type MongoDBConfig struct {
	URI          string
	Database     string
	Username     string
	AuthSource   string
	ServerKey    string // secret bound to the connection; never validated locally
	QueryTimeout time.Duration
}

// RedisConfig holds Redis connection configuration.
// An empty Addr disables persisted queries.
type RedisConfig struct {
	Addr     string
	Password string
	APQTTL   time.Duration
}

// AuthConfig holds request token configuration.
// An empty JWTSecret disables token verification.
type AuthConfig struct {
	JWTSecret string
	Required  bool
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level  string
	Format string
}

// OTELConfig holds OpenTelemetry exporter configuration
type OTELConfig struct {
	Enabled        bool
	Endpoint       string
	URLPrefix      string // "/otlp" for Grafana Cloud, "" for a plain collector
	Insecure       bool
	ServiceName    string
	ServiceVersion string
	Environment    string
	InstanceID     string
	Token          string
}

// Load reads configuration from environment variables
// It attempts to load from .env file first, then falls back to system env vars
func Load() (*Config, error) {
	// Try to load .env file (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:              getEnv("PORT", "4000"),
			DefaultExerciseID: getEnv("DEFAULT_EXERCISE_ID", "378901583609462864"),
		},
		MongoDB: MongoDBConfig{
			URI:          getEnv("MONGODB_URI", "mongodb://localhost:27017"),
			Database:     getEnv("MONGODB_DATABASE", "gymgraph"),
			Username:     getEnv("MONGODB_USERNAME", ""),
			AuthSource:   getEnv("MONGODB_AUTH_SOURCE", "admin"),
			ServerKey:    getEnv("DATABASE_SERVER_KEY", ""),
			QueryTimeout: getEnvAsDuration("STORE_QUERY_TIMEOUT", 10*time.Second),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			APQTTL:   getEnvAsDuration("APQ_TTL", 24*time.Hour),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("AUTH_JWT_SECRET", ""),
			Required:  getEnvAsBool("AUTH_REQUIRED", false),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		OTEL: OTELConfig{
			Enabled:        getEnvAsBool("OTEL_ENABLED", false),
			Endpoint:       getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
			URLPrefix:      getEnv("OTEL_URL_PREFIX", ""),
			Insecure:       getEnvAsBool("OTEL_INSECURE", false),
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "gymgraph"),
			ServiceVersion: getEnv("OTEL_SERVICE_VERSION", "dev"),
			Environment:    getEnv("OTEL_ENVIRONMENT", "development"),
			InstanceID:     getEnv("OTEL_INSTANCE_ID", ""),
			Token:          getEnv("OTEL_TOKEN", ""),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required configuration is present.
// A missing DATABASE_SERVER_KEY is not an error here: it surfaces at the first store query.
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	if c.MongoDB.Database == "" {
		return fmt.Errorf("MONGODB_DATABASE is required")
	}
	if c.Auth.Required && c.Auth.JWTSecret == "" {
		return fmt.Errorf("AUTH_JWT_SECRET is required when AUTH_REQUIRED is set")
	}
	if c.OTEL.Enabled && c.OTEL.Endpoint == "" {
		return fmt.Errorf("OTEL_EXPORTER_OTLP_ENDPOINT is required when OTEL_ENABLED is set")
	}
	return nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsDuration accepts Go durations ("5s") or a bare number of seconds
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(valueStr); err == nil {
		return d
	}
	secs, err := strconv.ParseInt(valueStr, 10, 64)
	if err != nil {
		return defaultValue
	}
	return time.Duration(secs) * time.Second
}
