package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/FreePeak/pet-mcp-server/internal/logger"
)

// Config holds all server configuration
type Config struct {
	ServerPort     int
	TransportMode  string
	LogLevel       string
	StoreType      string
	SeedSamplePets bool
	DBConfig       DatabaseConfig
	ServerInfo     ServerInfo
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Type     string
	Host     string
	Port     int
	User     string
	Password string
	Name     string
}

// ServerInfo is advertised to clients during initialize
type ServerInfo struct {
	Name        string
	Version     string
	Description string
}

// LoadConfig loads the configuration from a .env file (if present) and
// environment variables
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load .env file: %w", err)
		}
		logger.Debug("No .env file found, using environment variables only")
	}

	port, err := strconv.Atoi(getEnv("SERVER_PORT", "9090"))
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT: %w", err)
	}

	storeType := strings.ToLower(getEnv("STORE_TYPE", "memory"))
	defaultDBPort := "3306"
	if storeType == "postgres" {
		defaultDBPort = "5432"
	}
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", defaultDBPort))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	seed, err := strconv.ParseBool(getEnv("SEED_SAMPLE_PETS", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid SEED_SAMPLE_PETS: %w", err)
	}

	cfg := &Config{
		ServerPort:     port,
		TransportMode:  getEnv("TRANSPORT_MODE", "http"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		StoreType:      storeType,
		SeedSamplePets: seed,
		DBConfig: DatabaseConfig{
			Type:     storeType,
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     dbPort,
			User:     getEnv("DB_USER", ""),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", ""),
		},
		ServerInfo: ServerInfo{
			Name:        getEnv("MCP_SERVER_NAME", "Pet Adoption API"),
			Version:     getEnv("MCP_SERVER_VERSION", "2.0.0"),
			Description: getEnv("MCP_SERVER_DESCRIPTION", "A pet adoption service with MCP tool integration"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the settings that select code paths
func (c *Config) Validate() error {
	switch c.TransportMode {
	case "http", "stdio":
	default:
		return fmt.Errorf("unsupported transport mode: %s", c.TransportMode)
	}

	switch c.StoreType {
	case "memory", "mysql", "postgres":
	default:
		return fmt.Errorf("unsupported store type: %s", c.StoreType)
	}

	return nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
