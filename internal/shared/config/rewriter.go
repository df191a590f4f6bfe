package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// RewriterConfig contains all configuration for the cover art rewriter.
type RewriterConfig struct {
	TracksPath string        `mapstructure:"tracks_path"`
	BaseURL    string        `mapstructure:"base_url"`
	Workers    int           `mapstructure:"workers"`
	Write      WriteConfig   `mapstructure:"write"`
	Logging    LoggingConfig `mapstructure:"logging"`
}

// LoadRewriter loads the rewriter configuration from the given path.
// If configPath is empty, it looks for coverfix.yaml in the config/ directory.
// Environment variables with COVERFIX_ prefix override config file values.
func LoadRewriter(configPath string) (*RewriterConfig, error) {
	v := viper.New()

	v.SetDefault("tracks_path", "src/data/tracks.json")
	v.SetDefault("base_url", "https://tune-mu.vercel.app")
	v.SetDefault("workers", 1)
	v.SetDefault("write.atomic", false)
	v.SetDefault("write.lock", true)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("coverfix")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix("COVERFIX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg RewriterConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &cfg, nil
}
