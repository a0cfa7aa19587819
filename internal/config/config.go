// Package config provides configuration types and defaults for wand.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is prepended to environment overrides, e.g. WAND_OUTPUT_ROOT.
const EnvPrefix = "WAND"

// LocalConfigPath is checked before the user config directory.
const LocalConfigPath = ".wand/config.yaml"

// Config holds all configuration options for wand.
type Config struct {
	TemplatesPath  string   `mapstructure:"templates_path" yaml:"templates_path"`
	ExternalPaths  []string `mapstructure:"external_paths" yaml:"external_paths"`
	OutputRoot     string   `mapstructure:"output_root" yaml:"output_root"`
	LogLevel       string   `mapstructure:"log_level" yaml:"log_level"`
	LogJSON        bool     `mapstructure:"log_json" yaml:"log_json"`
	RequireOptions bool     `mapstructure:"require_options" yaml:"require_options"`
	SkipManifest   bool     `mapstructure:"skip_manifest" yaml:"skip_manifest"`
}

// Defaults returns the configuration used when nothing is set.
func Defaults() Config {
	return Config{
		TemplatesPath: "templates/",
		OutputRoot:    "./output",
		LogLevel:      "info",
	}
}

// Validate checks that the configuration can drive a session.
func (c Config) Validate() error {
	if strings.TrimSpace(c.TemplatesPath) == "" {
		return errors.New("templates_path is required")
	}
	if strings.TrimSpace(c.OutputRoot) == "" {
		return errors.New("output_root is required")
	}
	for i, p := range c.ExternalPaths {
		if strings.TrimSpace(p) == "" {
			return fmt.Errorf("external_paths[%d]: path is empty", i)
		}
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	return nil
}

// Load reads configuration into a fresh viper instance. An explicit path
// must exist; otherwise .wand/config.yaml and then
// ~/.config/wand/config.yaml are tried, and a missing file means defaults.
// Environment variables with the WAND_ prefix override file values.
func Load(path string) (Config, string, error) {
	v := viper.New()
	defaults := Defaults()
	v.SetDefault("templates_path", defaults.TemplatesPath)
	v.SetDefault("external_paths", defaults.ExternalPaths)
	v.SetDefault("output_root", defaults.OutputRoot)
	v.SetDefault("log_level", defaults.LogLevel)
	v.SetDefault("log_json", defaults.LogJSON)
	v.SetDefault("require_options", defaults.RequireOptions)
	v.SetDefault("skip_manifest", defaults.SkipManifest)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else if _, err := os.Stat(LocalConfigPath); err == nil {
		v.SetConfigFile(LocalConfigPath)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "wand"))
		}
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, "", fmt.Errorf("config: read: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, "", fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, "", fmt.Errorf("config: %w", err)
	}
	return cfg, v.ConfigFileUsed(), nil
}

// WriteDefault writes the default configuration to path, creating parent
// directories. An existing file is left alone.
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config: %s already exists", path)
	}
	data, err := yaml.Marshal(Defaults())
	if err != nil {
		return fmt.Errorf("config: encode defaults: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("config: creating config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("config: writing config file: %w", err)
	}
	return nil
}
