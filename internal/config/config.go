package config

import (
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/inkognito-mcp/inkognito/internal/entity"
)

// Load loads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	// Set defaults
	config := GetDefaults()

	// Configure viper
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath("/etc/inkognito/")
	viper.AddConfigPath("$HOME/.inkognito/")

	// Environment variable overrides
	viper.SetEnvPrefix("INKOGNITO")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Use specific config file if provided
	if configPath != "" {
		viper.SetConfigFile(configPath)
	}

	// Read configuration
	if err := viper.ReadInConfig(); err != nil {
		// Config file not found is not an error - we'll use defaults
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Unmarshal into config struct
	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate configuration
	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// validateConfig validates the loaded configuration
func validateConfig(config *Config) error {
	if config.Server.Port <= 0 || config.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", config.Server.Port)
	}

	if config.Anonymizer.ScoreThreshold < 0 || config.Anonymizer.ScoreThreshold > 1 {
		return fmt.Errorf("invalid score threshold: %f (must be in [0,1])", config.Anonymizer.ScoreThreshold)
	}

	if config.Anonymizer.DateShiftDays < 0 {
		return fmt.Errorf("invalid date shift window: %d days", config.Anonymizer.DateShiftDays)
	}

	for _, name := range config.Anonymizer.EntityTypes {
		if name == "all" {
			continue
		}
		if entity.Parse(name) == entity.Unknown {
			return fmt.Errorf("unknown entity type in allow-list: %s", name)
		}
	}

	if config.Detector.Mode != "builtin" && config.Detector.Mode != "http" {
		return fmt.Errorf("invalid detector mode: %s (must be builtin or http)", config.Detector.Mode)
	}

	if config.Detector.Mode == "http" && config.Detector.Endpoint == "" {
		return fmt.Errorf("detector mode http requires an endpoint")
	}

	if config.Logging.Level != "debug" && config.Logging.Level != "info" && config.Logging.Level != "warn" && config.Logging.Level != "error" {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", config.Logging.Level)
	}

	if config.Logging.Format != "json" && config.Logging.Format != "console" {
		return fmt.Errorf("invalid log format: %s (must be json or console)", config.Logging.Format)
	}

	return nil
}

// Watch starts watching the configuration file for changes
func Watch(config *Config, callback func(*Config)) error {
	viper.WatchConfig()
	viper.OnConfigChange(func(e fsnotify.Event) {
		newConfig := GetDefaults()
		if err := viper.Unmarshal(newConfig); err != nil {
			// Log error but don't crash
			return
		}

		if err := validateConfig(newConfig); err != nil {
			// Log error but don't crash
			return
		}

		callback(newConfig)
	})

	return nil
}
