// Package config provides configuration loading and management for phenoflux.
// It handles loading configuration from YAML files and provides default values.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration loaded from YAML
type Config struct {
	// Analysis parameters
	Analysis struct {
		// SampleLabel identifies the plant sample in recorded observations
		SampleLabel string `yaml:"sampleLabel"`

		// MeasurementLabels optionally renames the stack's measurements in
		// observation variable names; empty means use native coordinates
		MeasurementLabels []string `yaml:"measurementLabels"`
	} `yaml:"analysis"`

	// Debug parameters
	Debug struct {
		// Mode controls debug visual output: "none" or "print"
		Mode string `yaml:"mode"`

		// OutDir is the directory debug visuals are written into
		OutDir string `yaml:"outDir"`
	} `yaml:"debug"`

	// Output parameters
	Output struct {
		// ResultsFile is the path the observation JSON is written to
		ResultsFile string `yaml:"resultsFile"`

		// ExportENVI enables exporting the efficiency map as an ENVI cube
		ExportENVI bool `yaml:"exportEnvi"`

		// ENVIFile is the base path of the ENVI export (.hdr/.raw pair)
		ENVIFile string `yaml:"enviFile"`

		// Verbose controls the level of logging output
		Verbose bool `yaml:"verbose"`
	} `yaml:"output"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	// Set default analysis parameters
	cfg.Analysis.SampleLabel = "default"
	cfg.Analysis.MeasurementLabels = nil

	// Set default debug parameters
	cfg.Debug.Mode = "none"
	cfg.Debug.OutDir = "debug_output"

	// Set default output parameters
	cfg.Output.ResultsFile = "results.json"
	cfg.Output.ExportENVI = false
	cfg.Output.ENVIFile = "yii_map"
	cfg.Output.Verbose = true

	return cfg
}

// LoadConfig loads configuration from a YAML file
// If the file doesn't exist, it returns the default configuration
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	// Check if config file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	// Read config file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Parse YAML
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to a YAML file
func SaveConfig(cfg *Config, configPath string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	// Marshal config to YAML
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	// Write to file
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// CreateDefaultConfigFile creates a default configuration file at the specified path
func CreateDefaultConfigFile(configPath string) error {
	cfg := DefaultConfig()
	return SaveConfig(cfg, configPath)
}
