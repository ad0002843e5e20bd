package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"fut/pkg/logging"

	"gopkg.in/yaml.v3"
)

const (
	userConfigDir  = ".config/fut"
	configFileName = "config.yaml"
)

func GetDefaultConfigPathOrPanic() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		panic(fmt.Errorf("could not determine user config directory: %w", err))
	}

	return filepath.Join(homeDir, userConfigDir)
}

// FilePath returns the config.yaml path inside configPath.
func FilePath(configPath string) string {
	return filepath.Join(configPath, configFileName)
}

// LoadConfig loads config.yaml from the specified directory over the defaults.
func LoadConfig(configPath string) (Config, error) {
	configFilePath := FilePath(configPath)
	config := GetDefaultConfig()

	data, err := os.ReadFile(configFilePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logging.Debug("Config", "No config.yaml found at %s, using defaults", configFilePath)
			return config, nil
		}
		return Config{}, newConfigurationError(configFilePath, ErrorTypeIO, err)
	}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return Config{}, newConfigurationError(configFilePath, ErrorTypeParse, err,
			"Check the YAML syntax", "Durations use Go syntax such as 90s or 5m")
	}
	if err := Validate(config); err != nil {
		return Config{}, newConfigurationError(configFilePath, ErrorTypeValidation, err)
	}
	logging.Debug("Config", "Loaded configuration from %s", configFilePath)
	return config, nil
}

// SaveConfig writes config to config.yaml in configPath, creating the directory.
func SaveConfig(configPath string, config Config) error {
	if err := Validate(config); err != nil {
		return err
	}
	data, err := yaml.Marshal(config)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(configPath, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return os.WriteFile(FilePath(configPath), data, 0o644)
}

// JarPath is where the validator jar lives for this configuration.
func (c Config) JarPath(configPath string) string {
	if c.Validator.Path != "" {
		return c.Validator.Path
	}
	return filepath.Join(configPath, jarFileName)
}
