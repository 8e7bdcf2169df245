package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the project configuration file looked up in the scan root.
const FileName = ".envwarn.config"

// Config represents the envwarn configuration file
type Config struct {
	Prefix    string        `yaml:"prefix"`    // overrides the default variable prefix
	Languages []string      `yaml:"languages"` // overrides the default language set
	Ignores   IgnoresConfig `yaml:"ignores"`
}

// IgnoresConfig contains ignore rules for environment variables
type IgnoresConfig struct {
	Missing []string `yaml:"missing"` // Variables to ignore when reporting as missing
	Folders []string `yaml:"folders"` // Folders whose findings are suppressed
}

// Load reads the configuration file from the given directory. A missing
// file yields the default configuration and no error.
func Load(rootPath string) (*Config, error) {
	configPath := filepath.Join(rootPath, FileName)

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return Default(), nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &config, nil
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Ignores: IgnoresConfig{
			Missing: []string{},
			Folders: []string{},
		},
	}
}

// ShouldIgnoreMissing reports whether a missing variable is configured
// to be skipped. Matching is exact, including case.
func (c *Config) ShouldIgnoreMissing(name string) bool {
	for _, ignored := range c.Ignores.Missing {
		if ignored == name {
			return true
		}
	}
	return false
}
