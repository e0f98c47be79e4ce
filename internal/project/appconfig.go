package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/piwi3910/FurniCut/internal/model"
)

// DefaultConfigDir returns the default directory for application configuration.
// On all platforms this is ~/.furnicut/
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".furnicut")
}

// DefaultConfigPath returns the default path for the application config file.
func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.json")
}

// DefaultDataDir returns the directory the CLI stores sheets in when none
// is configured.
func DefaultDataDir() string {
	return filepath.Join(DefaultConfigDir(), "sheets")
}

// SaveAppConfig persists an AppConfig to the given path as JSON.
// It creates any missing parent directories automatically.
func SaveAppConfig(path string, config model.AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// LoadAppConfig reads an AppConfig from the given path.
// If the file does not exist, it returns DefaultAppConfig with no error.
// Fields missing from the file keep their defaults.
func LoadAppConfig(path string) (model.AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return model.DefaultAppConfig(), nil
		}
		return model.AppConfig{}, fmt.Errorf("failed to read config: %w", err)
	}
	config := model.DefaultAppConfig()
	if err := json.Unmarshal(data, &config); err != nil {
		return model.AppConfig{}, fmt.Errorf("failed to parse config: %w", err)
	}
	config.Normalize()
	return config, nil
}

// ApplyEnv overrides config values from FURNICUT_* environment variables.
func ApplyEnv(config *model.AppConfig) {
	if v := os.Getenv("FURNICUT_LISTEN_ADDR"); v != "" {
		config.ListenAddr = v
	}
	if v := os.Getenv("FURNICUT_DATA_DIR"); v != "" {
		config.DataDir = v
	}
	if v := os.Getenv("FURNICUT_LOG_FILE"); v != "" {
		config.LogFile = v
	}
	if v := os.Getenv("FURNICUT_LOG_LEVEL"); v != "" {
		config.LogLevel = v
	}
}
