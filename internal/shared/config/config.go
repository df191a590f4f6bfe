package config

// LoggingConfig contains logging-related configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// WriteConfig controls how the catalog file is written back.
type WriteConfig struct {
	Atomic bool `mapstructure:"atomic"`
	Lock   bool `mapstructure:"lock"`
}
