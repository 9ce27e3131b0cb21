// Copyright 2025 the doc6 authors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	// Default settings
	Defaults struct {
		Format  string `yaml:"format"`
		Verbose bool   `yaml:"verbose"`
		Debug   bool   `yaml:"debug"`
		NoColor bool   `yaml:"no_color"`
	} `yaml:"defaults"`

	// Classifier configuration
	Classifier struct {
		Enabled bool `yaml:"enabled"`
		// Model is the embedding model used for semantic classification.
		Model string `yaml:"model"`
		// APIKeyEnv names the environment variable holding the provider key.
		APIKeyEnv string `yaml:"api_key_env"`
	} `yaml:"classifier"`

	// Extraction configuration
	Extraction struct {
		// Layout selects the W-2 region layout by name.
		Layout string `yaml:"layout"`
		// LayoutFile points at a YAML file overriding built-in box regions.
		LayoutFile string `yaml:"layout_file"`
	} `yaml:"extraction"`

	// Profiles for different processing scenarios
	Profiles map[string]Profile `yaml:"profiles"`
}

// Profile represents a processing profile with specific settings
type Profile struct {
	Format      string `yaml:"format"`
	Verbose     bool   `yaml:"verbose"`
	Debug       bool   `yaml:"debug"`
	NoColor     bool   `yaml:"no_color"`
	Description string `yaml:"description"`
}

// LoadConfig loads configuration from the specified file path
func LoadConfig(configPath string) (*Config, error) {
	// Default configuration
	config := &Config{
		Profiles: make(map[string]Profile),
	}

	// Set default values
	config.Defaults.Format = "text"
	config.Defaults.Verbose = false
	config.Defaults.Debug = false
	config.Defaults.NoColor = false

	config.Classifier.Enabled = true
	config.Classifier.Model = "text-embedding-004"
	config.Classifier.APIKeyEnv = "GEMINI_API_KEY"

	config.Extraction.Layout = "standard_layout"

	// Add default batch profile for unattended runs
	config.Profiles["batch"] = Profile{
		Format:      "json",
		Verbose:     false,
		Debug:       false,
		NoColor:     true,
		Description: "Machine-readable output for unattended batch processing",
	}

	// If no config file specified, return default config
	if configPath == "" {
		return config, nil
	}

	// Read config file
	cleanPath := filepath.Clean(configPath)
	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Store default values before unmarshaling
	defaultClassifierEnabled := config.Classifier.Enabled

	// Parse YAML
	err = yaml.Unmarshal(data, config)
	if err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	// Restore defaults if not explicitly set in config file.
	// This handles the case where YAML unmarshaling sets bool fields to false
	// when they're not present in the config file.
	if !containsField(data, "classifier", "enabled") {
		config.Classifier.Enabled = defaultClassifierEnabled
	}

	if err := ValidateConfig(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// FindConfigFile looks for a configuration file in standard locations
func FindConfigFile() string {
	// Check current directory first - prioritize config.yaml
	if fileExists("config.yaml") {
		return "config.yaml"
	}
	if fileExists("doc6.yaml") {
		return "doc6.yaml"
	}
	if fileExists("doc6.yml") {
		return "doc6.yml"
	}

	// Check for .doc6.yaml in current directory (project-specific config)
	if fileExists(".doc6.yaml") {
		return ".doc6.yaml"
	}
	if fileExists(".doc6.yml") {
		return ".doc6.yml"
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	// Check legacy locations in home directory
	homeConfig := filepath.Join(home, ".doc6.yaml")
	if fileExists(homeConfig) {
		return homeConfig
	}
	homeConfig = filepath.Join(home, ".doc6.yml")
	if fileExists(homeConfig) {
		return homeConfig
	}

	// Check XDG config directory
	xdgConfig := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfig == "" {
		xdgConfig = filepath.Join(home, ".config")
	}
	xdgConfigFile := filepath.Join(xdgConfig, "doc6", "config.yaml")
	if fileExists(xdgConfigFile) {
		return xdgConfigFile
	}
	xdgConfigFile = filepath.Join(xdgConfig, "doc6", "config.yml")
	if fileExists(xdgConfigFile) {
		return xdgConfigFile
	}

	return ""
}

// fileExists checks if a file exists and is not a directory
func fileExists(filename string) bool {
	info, err := os.Stat(filename)
	if os.IsNotExist(err) {
		return false
	}
	return !info.IsDir()
}

// ListProfiles returns a list of available profile names
func (c *Config) ListProfiles() []string {
	profiles := make([]string, 0, len(c.Profiles))
	for name := range c.Profiles {
		profiles = append(profiles, name)
	}
	return profiles
}

// GetProfile returns a profile by name, or nil if not found
func (c *Config) GetProfile(name string) *Profile {
	if profile, exists := c.Profiles[name]; exists {
		return &profile
	}
	return nil
}

// APIKey resolves the embedding provider key from the configured environment
// variable. Empty when unset, which disables semantic classification.
func (c *Config) APIKey() string {
	if c.Classifier.APIKeyEnv == "" {
		return ""
	}
	return os.Getenv(c.Classifier.APIKeyEnv)
}

// containsField checks if a nested field exists in the YAML data
func containsField(data []byte, path ...string) bool {
	var yamlData map[string]interface{}
	err := yaml.Unmarshal(data, &yamlData)
	if err != nil {
		return false
	}

	current := yamlData
	for i, key := range path {
		if i == len(path)-1 {
			// Last key - check if it exists
			_, exists := current[key]
			return exists
		}
		// Intermediate key - navigate deeper
		if next, ok := current[key].(map[string]interface{}); ok {
			current = next
		} else {
			return false
		}
	}
	return false
}

// ValidateConfig validates the configuration
func ValidateConfig(config *Config) error {
	if config == nil {
		return fmt.Errorf("configuration cannot be nil")
	}

	switch config.Defaults.Format {
	case "", "text", "json", "yaml":
	default:
		return fmt.Errorf("unknown output format %q", config.Defaults.Format)
	}

	if config.Extraction.LayoutFile != "" {
		if !fileExists(config.Extraction.LayoutFile) {
			return fmt.Errorf("layout file %q does not exist", config.Extraction.LayoutFile)
		}
	}

	return nil
}

// LoadConfigOrDefault loads configuration from configFile (or searches standard
// locations when configFile is empty). If loading fails, it returns a default
// configuration so callers never crash on a missing or bad config file.
func LoadConfigOrDefault(configFile string) *Config {
	configPath := configFile
	if configPath == "" {
		configPath = FindConfigFile()
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		cfg, _ = LoadConfig("")
	}
	return cfg
}
