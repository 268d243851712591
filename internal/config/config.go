// Package config loads and persists the ethopy-analysis configuration.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// ConfigDirName is the per-project configuration directory.
const ConfigDirName = ".ethopy"

// Config represents the complete ethopy-analysis configuration
type Config struct {
	Version  int            `json:"version" mapstructure:"version"`
	Database DatabaseConfig `json:"database" mapstructure:"database"`
	Schemas  SchemasConfig  `json:"schemas" mapstructure:"schemas"`
	Paths    PathsConfig    `json:"paths" mapstructure:"paths"`
	Logging  LoggingConfig  `json:"logging" mapstructure:"logging"`
}

// DatabaseConfig locates the experiment database snapshot
type DatabaseConfig struct {
	Path string `json:"path" mapstructure:"path"`
}

// SchemasConfig locates the condition-class declaration file
type SchemasConfig struct {
	Path string `json:"path" mapstructure:"path"`
}

// PathsConfig contains output locations for plots and reports
type PathsConfig struct {
	Output  string `json:"output" mapstructure:"output"`
	Reports string `json:"reports" mapstructure:"reports"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Format string `json:"format" mapstructure:"format"`
	Level  string `json:"level" mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version: 1,
		Database: DatabaseConfig{
			Path: filepath.Join(ConfigDirName, "ethopy.db"),
		},
		Schemas: SchemasConfig{
			Path: filepath.Join(ConfigDirName, "SCHEMAS.toml"),
		},
		Paths: PathsConfig{
			Output:  "./output",
			Reports: "./reports",
		},
		Logging: LoggingConfig{
			Format: "human",
			Level:  "info",
		},
	}
}

// LoadConfig loads configuration from config.json.
// Search order: explicit path (when non-empty), ./.ethopy, $HOME/.ethopy.
// A missing file yields the defaults, not an error.
func LoadConfig(explicitPath string) (*Config, error) {
	v := viper.New()

	v.SetDefault("version", 1)
	v.SetDefault("logging.format", "human")
	v.SetDefault("logging.level", "info")

	v.SetConfigName("config")
	v.SetConfigType("json")
	if explicitPath != "" {
		v.AddConfigPath(explicitPath)
	}
	v.AddConfigPath(ConfigDirName)
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ConfigDirName))
	}

	v.SetEnvPrefix("ETHOPY")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes the configuration to <dir>/config.json
func (c *Config) Save(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(filepath.Join(dir, "config.json"), data, 0644)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Version != 1 {
		return &ConfigError{Field: "version", Message: "unsupported config version"}
	}
	if c.Database.Path == "" {
		return &ConfigError{Field: "database.path", Message: "database path is required"}
	}
	return nil
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}
