package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configVars = []string{
	"SERVER_PORT", "TRANSPORT_MODE", "LOG_LEVEL", "STORE_TYPE", "SEED_SAMPLE_PETS",
	"DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME",
	"MCP_SERVER_NAME", "MCP_SERVER_VERSION", "MCP_SERVER_DESCRIPTION",
}

// clearEnv unsets every variable LoadConfig reads and hides any local .env file
func clearEnv(t *testing.T) {
	t.Helper()

	for _, v := range configVars {
		t.Setenv(v, "")
		require.NoError(t, os.Unsetenv(v))
	}

	cwd, _ := os.Getwd()
	envPath := filepath.Join(cwd, ".env")
	tempPath := filepath.Join(cwd, ".env.bak")
	if _, err := os.Stat(envPath); err == nil {
		require.NoError(t, os.Rename(envPath, tempPath))
		t.Cleanup(func() {
			if err := os.Rename(tempPath, envPath); err != nil {
				t.Logf("Failed to restore .env file: %v", err)
			}
		})
	}
}

func TestGetEnv(t *testing.T) {
	t.Setenv("TEST_ENV_VAR", "test_value")

	value := getEnv("TEST_ENV_VAR", "default_value")
	assert.Equal(t, "test_value", value)

	value = getEnv("NON_EXISTING_VAR", "default_value")
	assert.Equal(t, "default_value", value)
}

func TestLoadConfigDefaults(t *testing.T) {
	clearEnv(t)

	config, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 9090, config.ServerPort)
	assert.Equal(t, "http", config.TransportMode)
	assert.Equal(t, "info", config.LogLevel)
	assert.Equal(t, "memory", config.StoreType)
	assert.False(t, config.SeedSamplePets)
	assert.Equal(t, "localhost", config.DBConfig.Host)
	assert.Equal(t, 3306, config.DBConfig.Port)
	assert.Equal(t, "", config.DBConfig.User)
	assert.Equal(t, "Pet Adoption API", config.ServerInfo.Name)
	assert.Equal(t, "2.0.0", config.ServerInfo.Version)
	assert.NotEmpty(t, config.ServerInfo.Description)
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	clearEnv(t)

	t.Setenv("SERVER_PORT", "8080")
	t.Setenv("TRANSPORT_MODE", "stdio")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("STORE_TYPE", "postgres")
	t.Setenv("SEED_SAMPLE_PETS", "true")
	t.Setenv("DB_HOST", "db.example.com")
	t.Setenv("DB_USER", "testuser")
	t.Setenv("DB_PASSWORD", "testpass")
	t.Setenv("DB_NAME", "pets")
	t.Setenv("MCP_SERVER_NAME", "Shelter")

	config, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 8080, config.ServerPort)
	assert.Equal(t, "stdio", config.TransportMode)
	assert.Equal(t, "debug", config.LogLevel)
	assert.Equal(t, "postgres", config.StoreType)
	assert.True(t, config.SeedSamplePets)
	assert.Equal(t, "postgres", config.DBConfig.Type)
	assert.Equal(t, "db.example.com", config.DBConfig.Host)
	assert.Equal(t, 5432, config.DBConfig.Port)
	assert.Equal(t, "testuser", config.DBConfig.User)
	assert.Equal(t, "testpass", config.DBConfig.Password)
	assert.Equal(t, "pets", config.DBConfig.Name)
	assert.Equal(t, "Shelter", config.ServerInfo.Name)
}

func TestLoadConfigRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"bad port", "SERVER_PORT", "not-a-port"},
		{"bad db port", "DB_PORT", "x"},
		{"bad seed flag", "SEED_SAMPLE_PETS", "maybe"},
		{"bad transport", "TRANSPORT_MODE", "sse"},
		{"bad store", "STORE_TYPE", "mongo"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := LoadConfig()
			assert.Error(t, err)
		})
	}
}
