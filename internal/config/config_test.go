package config

import (
	"os"
	"path/filepath"
	"testing"
)

// TestLoad tests configuration loading and validation
func TestLoad(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		cfg := GetDefaults()
		if err := validateConfig(cfg); err != nil {
			t.Errorf("Defaults should validate: %v", err)
		}
		if cfg.Server.Port != 8080 {
			t.Errorf("Expected default port 8080, got %d", cfg.Server.Port)
		}
		if cfg.Anonymizer.ScoreThreshold != 0.5 {
			t.Errorf("Expected default threshold 0.5, got %f", cfg.Anonymizer.ScoreThreshold)
		}
		if cfg.Anonymizer.DateShiftDays != 365 {
			t.Errorf("Expected default date window 365, got %d", cfg.Anonymizer.DateShiftDays)
		}
		if cfg.Detector.Mode != "builtin" {
			t.Errorf("Expected builtin detector, got %s", cfg.Detector.Mode)
		}
	})

	t.Run("FromFile", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "config.yaml")
		content := `
server:
  port: 9090
anonymizer:
  score_threshold: 0.8
  entity_types:
    - EMAIL_ADDRESS
    - US_SSN
logging:
  level: debug
  format: console
`
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}

		cfg, err := Load(path)
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if cfg.Server.Port != 9090 {
			t.Errorf("Expected port 9090, got %d", cfg.Server.Port)
		}
		if cfg.Anonymizer.ScoreThreshold != 0.8 {
			t.Errorf("Expected threshold 0.8, got %f", cfg.Anonymizer.ScoreThreshold)
		}
		if len(cfg.Anonymizer.EntityTypes) != 2 {
			t.Errorf("Expected 2 entity types, got %v", cfg.Anonymizer.EntityTypes)
		}
		// Untouched sections keep their defaults.
		if cfg.Anonymizer.DateShiftDays != 365 {
			t.Errorf("Unset field should keep default, got %d", cfg.Anonymizer.DateShiftDays)
		}
	})
}

// TestValidateConfig tests rejection of invalid settings
func TestValidateConfig(t *testing.T) {
	mutations := []struct {
		name   string
		mutate func(*Config)
	}{
		{"BadPort", func(c *Config) { c.Server.Port = 0 }},
		{"ThresholdTooHigh", func(c *Config) { c.Anonymizer.ScoreThreshold = 1.5 }},
		{"NegativeThreshold", func(c *Config) { c.Anonymizer.ScoreThreshold = -0.1 }},
		{"NegativeDateWindow", func(c *Config) { c.Anonymizer.DateShiftDays = -1 }},
		{"UnknownEntityType", func(c *Config) { c.Anonymizer.EntityTypes = []string{"NOT_A_TYPE"} }},
		{"BadDetectorMode", func(c *Config) { c.Detector.Mode = "quantum" }},
		{"HTTPDetectorNoEndpoint", func(c *Config) { c.Detector.Mode = "http"; c.Detector.Endpoint = "" }},
		{"BadLogLevel", func(c *Config) { c.Logging.Level = "trace" }},
		{"BadLogFormat", func(c *Config) { c.Logging.Format = "xml" }},
	}

	for _, tt := range mutations {
		t.Run(tt.name, func(t *testing.T) {
			cfg := GetDefaults()
			tt.mutate(cfg)
			if err := validateConfig(cfg); err == nil {
				t.Error("Expected validation error")
			}
		})
	}

	t.Run("AllEntityTypesKeyword", func(t *testing.T) {
		cfg := GetDefaults()
		cfg.Anonymizer.EntityTypes = []string{"all"}
		if err := validateConfig(cfg); err != nil {
			t.Errorf("\"all\" should be accepted: %v", err)
		}
	})
}
