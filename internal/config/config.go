package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	PostgreSQL PostgreSQLConfig
	Server     ServerConfig
	OpenAI     OpenAIConfig
	Matching   MatchingConfig
	Logging    LoggingConfig
}

// PostgreSQLConfig holds PostgreSQL database configuration
type PostgreSQLConfig struct {
	DSN                string // full connection string, takes precedence
	Host               string
	Port               int
	User               string
	Password           string
	Database           string
	SSLMode            string
	MaxConnections     int
	MaxIdleConnections int
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port           int
	Host           string
	GinMode        string
	AllowedOrigins string
}

// OpenAIConfig holds configuration for the OpenAI-compatible extraction API
type OpenAIConfig struct {
	APIKey      string
	APIBase     string
	ChatModel   string
	Temperature float64
	TopP        float64
	MaxTokens   int
	Timeout     int
	Enabled     bool
}

// MatchingConfig holds matcher limits
type MatchingConfig struct {
	TopK int
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	JSON  bool
	Debug bool
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (optional)
	_ = godotenv.Load()

	cfg := &Config{
		PostgreSQL: PostgreSQLConfig{
			DSN:                getEnv("DATABASE_URL", getEnv("PG_DSN", "")),
			Host:               getEnv("PG_HOST", "localhost"),
			Port:               getEnvAsInt("PG_PORT", 5432),
			User:               getEnv("PG_USER", "postgres"),
			Password:           getEnv("PG_PASSWORD", ""),
			Database:           getEnv("PG_DATABASE", "lead_qualifier"),
			SSLMode:            getEnv("PG_SSLMODE", "disable"),
			MaxConnections:     getEnvAsInt("PG_MAX_CONNECTIONS", 25),
			MaxIdleConnections: getEnvAsInt("PG_MAX_IDLE_CONNECTIONS", 5),
		},
		Server: ServerConfig{
			Port:           getEnvAsInt("SERVER_PORT", 8080),
			Host:           getEnv("SERVER_HOST", "0.0.0.0"),
			GinMode:        getEnv("GIN_MODE", "release"),
			AllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
		},
		OpenAI: OpenAIConfig{
			APIKey:      getEnv("OPENAI_API_KEY", ""),
			APIBase:     getEnv("OPENAI_API_BASE", "https://api.openai.com/v1"),
			ChatModel:   getEnv("OPENAI_CHAT_MODEL", "gpt-4o-mini"),
			Temperature: getEnvAsFloat("OPENAI_CHAT_TEMPERATURE", 0.2),
			TopP:        getEnvAsFloat("OPENAI_CHAT_TOP_P", 0.7),
			MaxTokens:   getEnvAsInt("OPENAI_CHAT_MAX_TOKENS", 1024),
			Timeout:     getEnvAsInt("OPENAI_TIMEOUT", 30),
			Enabled:     getEnv("OPENAI_API_KEY", "") != "",
		},
		Matching: MatchingConfig{
			TopK: getEnvAsInt("MATCH_TOP_K", 3),
		},
		Logging: LoggingConfig{
			JSON:  getEnv("LOG_FORMAT", "json") == "json",
			Debug: getEnv("LOG_LEVEL", "info") == "debug",
		},
	}

	return cfg, nil
}

// GetPostgreSQLDSN returns PostgreSQL connection string
func (c *Config) GetPostgreSQLDSN() string {
	if c.PostgreSQL.DSN != "" {
		return c.PostgreSQL.DSN
	}

	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.PostgreSQL.Host,
		c.PostgreSQL.Port,
		c.PostgreSQL.User,
		c.PostgreSQL.Password,
		c.PostgreSQL.Database,
		c.PostgreSQL.SSLMode,
	)
}

// Helper functions

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer value for %s, using default %d", key, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		log.Printf("Warning: Invalid float value for %s, using default %f", key, defaultValue)
		return defaultValue
	}
	return value
}
