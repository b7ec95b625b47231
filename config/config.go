package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	App        AppConfig
	Navigation NavigationConfig
}

type ServerConfig struct {
	Port        string
	CORSOrigins string
}

// DatabaseConfig points at the incident log. An empty Host disables it.
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// RedisConfig points at the live event feed. An empty URL disables it.
type RedisConfig struct {
	URL string
}

type AppConfig struct {
	Environment string
	LogLevel    string
	Version     string
}

type NavigationConfig struct {
	TopologyPath    string
	RoutePolicy     string
	ScreamThreshold float64
	SnapshotCron    string
	AgentAPIKey     string
	OperatorAPIKey  string
	EventsRateLimit float64
	EventsBurst     int
}

func (d DatabaseConfig) Enabled() bool { return d.Host != "" }

func (r RedisConfig) Enabled() bool { return r.URL != "" }

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:        getEnv("PORT", "8080"),
			CORSOrigins: getEnv("CORS_ORIGINS", "http://localhost:3000"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", ""),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "sentinel"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			URL: getEnv("REDIS_URL", ""),
		},
		App: AppConfig{
			Environment: getEnv("APP_ENV", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
		},
		Navigation: NavigationConfig{
			TopologyPath:    getEnv("TOPOLOGY_PATH", "config/mall.yaml"),
			RoutePolicy:     getEnv("ROUTE_POLICY", "danger-fallback"),
			ScreamThreshold: getEnvAsFloat("SCREAM_THRESHOLD", 0.5),
			SnapshotCron:    getEnv("SNAPSHOT_CRON", "@every 30s"),
			AgentAPIKey:     getEnv("AGENT_API_KEY", ""),
			OperatorAPIKey:  getEnv("OPERATOR_API_KEY", ""),
			EventsRateLimit: getEnvAsFloat("EVENTS_RATE_LIMIT", 20),
			EventsBurst:     getEnvAsInt("EVENTS_BURST", 40),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if c.Navigation.TopologyPath == "" {
		return fmt.Errorf("TOPOLOGY_PATH is required")
	}

	switch c.Navigation.RoutePolicy {
	case "danger-fallback", "fallback", "strict":
	default:
		return fmt.Errorf("ROUTE_POLICY must be danger-fallback or strict, got %q", c.Navigation.RoutePolicy)
	}

	if t := c.Navigation.ScreamThreshold; t <= 0 || t > 1 {
		return fmt.Errorf("SCREAM_THRESHOLD must be in (0, 1], got %v", t)
	}

	if c.Navigation.EventsRateLimit < 0 || c.Navigation.EventsBurst < 0 {
		return fmt.Errorf("EVENTS_RATE_LIMIT and EVENTS_BURST must not be negative")
	}

	if c.App.Environment == "production" && c.Navigation.AgentAPIKey == "" {
		return fmt.Errorf("AGENT_API_KEY is required in production")
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
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer for %s, using default: %d", key, defaultValue)
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
		log.Printf("Warning: Invalid number for %s, using default: %v", key, defaultValue)
		return defaultValue
	}

	return value
}
