// Package config loads lorekeep settings from config file, environment, and
// defaults, layered through viper.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds the resolved settings for a run.
type Config struct {
	SourceDir   string   `mapstructure:"source_dir"`
	VaultDir    string   `mapstructure:"vault_dir"`
	StatePath   string   `mapstructure:"state_path"`
	CatalogPath string   `mapstructure:"catalog_path"`
	LogPath     string   `mapstructure:"log_path"`
	Types       []string `mapstructure:"types"`
}

// Load reads lorekeep.yaml from the working directory or the user config
// directory, applies LOREKEEP_* environment overrides, and fills defaults.
// A missing config file is not an error.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("lorekeep")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if configDir, err := os.UserConfigDir(); err == nil {
		v.AddConfigPath(filepath.Join(configDir, "lorekeep"))
	}

	v.SetEnvPrefix("LOREKEEP")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("source_dir", "data")
	v.SetDefault("vault_dir", "vault")
	v.SetDefault("state_path", filepath.Join(".lorekeep", "state.json"))
	v.SetDefault("catalog_path", filepath.Join(".lorekeep", "catalog.db"))
	v.SetDefault("log_path", filepath.Join(".lorekeep", "lorekeep.log"))
	v.SetDefault("types", []string{})

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &cfg, nil
}
