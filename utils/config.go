package utils

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/spf13/viper"

	"github.com/ruinedyourlife/netcode/utils/netcode"
)

// Config holds the configuration of a parse run.
type Config struct {
	SourceDir          string        `mapstructure:"source_dir"`
	Extensions         []string      `mapstructure:"extensions"`
	Filter             []string      `mapstructure:"filter"`               // file names to keep, empty = all
	PackagesOfInterest []string      `mapstructure:"packages_of_interest"` // keep files mentioning one of these
	Workers            int           `mapstructure:"workers"`              // 0 = GOMAXPROCS
	Output             OutputConfig  `mapstructure:"output"`
	Log                LogConfig     `mapstructure:"log"`
	Trace              netcode.Trace `mapstructure:"trace"`
}

type OutputConfig struct {
	Path   string `mapstructure:"path"`
	Format string `mapstructure:"format"` // json | yaml
	Report string `mapstructure:"report"`
	SQLite string `mapstructure:"sqlite"`
}

type LogConfig struct {
	Level string        `mapstructure:"level"`
	File  FileLogConfig `mapstructure:"file"`
}

// FileLogConfig configures the rotated JSON log file.
type FileLogConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	Path       string `mapstructure:"path"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

// LoadConfig reads the optional config file at path. Environment variables
// prefixed NETCODE_ override file values (NETCODE_LOG_LEVEL, NETCODE_WORKERS).
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix("NETCODE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("source_dir", "sources/decompiled")
	v.SetDefault("extensions", []string{".as"})
	v.SetDefault("filter", []string{})
	v.SetDefault("packages_of_interest", []string{})
	v.SetDefault("workers", 0)

	v.SetDefault("output.path", "schemas/packets.json")
	v.SetDefault("output.format", "json")
	v.SetDefault("output.report", "reports/parse_report.txt")
	v.SetDefault("output.sqlite", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.file.enabled", false)
	v.SetDefault("log.file.path", "logs/netcode.log")
	v.SetDefault("log.file.max_size_mb", 50)
	v.SetDefault("log.file.max_backups", 3)
	v.SetDefault("log.file.max_age_days", 14)
	v.SetDefault("log.file.compress", true)

	v.SetDefault("trace.parse_steps", false)
	v.SetDefault("trace.source_lines", false)
	v.SetDefault("trace.emitted_definitions", false)
	v.SetDefault("trace.section_headers", false)
}

// Validate checks the configuration and resolves runtime defaults.
func (cfg *Config) Validate() error {
	if _, err := ParseLogLevel(cfg.Log.Level); err != nil {
		return err
	}
	if cfg.Output.Format != FormatJSON && cfg.Output.Format != FormatYAML {
		return fmt.Errorf("invalid output format: %s (must be json/yaml)", cfg.Output.Format)
	}
	if cfg.Workers < 0 {
		return fmt.Errorf("invalid workers: %d", cfg.Workers)
	}
	if cfg.Workers == 0 {
		cfg.Workers = runtime.GOMAXPROCS(0)
	}
	if len(cfg.Extensions) == 0 {
		return fmt.Errorf("at least one source extension is required")
	}
	if cfg.Log.File.Enabled && cfg.Log.File.Path == "" {
		return fmt.Errorf("log.file.path is required when log.file.enabled=true")
	}
	return nil
}
