// Package config loads eqnorm settings with Viper from flags, EQNORM_*
// environment variables and an optional .eqnorm.yml file.
package config

import (
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"

	"github.com/heal-research/eqnorm/internal/normalize"
)

const EnvPrefix = "EQNORM"

// DefaultProfile is used when no profile is configured and the command has
// no fallback of its own.
const DefaultProfile = "generated"

type Config struct {
	Profile       string      `mapstructure:"profile"`
	ProfileFile   string      `mapstructure:"profile_file"`
	ProgressEvery int         `mapstructure:"progress_every"`
	Workers       int         `mapstructure:"workers"`
	Index         string      `mapstructure:"index"`
	IndexReset    bool        `mapstructure:"index_reset"`
	Log           LogConfig   `mapstructure:"log"`
	Watch         WatchConfig `mapstructure:"watch"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type WatchConfig struct {
	Debounce time.Duration `mapstructure:"debounce"`
}

// SetDefaults registers the default for every key so environment variables
// are picked up by Unmarshal even without a config file.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("profile", "")
	v.SetDefault("profile_file", "")
	v.SetDefault("progress_every", 0)
	v.SetDefault("workers", runtime.NumCPU())
	v.SetDefault("index", "")
	v.SetDefault("index_reset", false)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("watch.debounce", 200*time.Millisecond)
}

// Init wires environment lookup and, when file is set or .eqnorm.yml
// exists in the working directory, the config file.
func Init(v *viper.Viper, file string) error {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName(".eqnorm")
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok && file == "" {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

// Load decodes and validates the settings held by v.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.ProfileFile == "" && c.Profile != "" {
		known := false
		for _, name := range normalize.BuiltinNames() {
			if name == c.Profile {
				known = true
				break
			}
		}
		if !known {
			return fmt.Errorf("profile %q is not built in (known: %s)", c.Profile, strings.Join(normalize.BuiltinNames(), ", "))
		}
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("log format must be json or console, got %q", c.Log.Format)
	}
	if c.Watch.Debounce < 0 {
		return fmt.Errorf("watch debounce must not be negative")
	}
	return nil
}

// ProfileName returns the configured built-in profile. When none is set it
// returns fallback, or DefaultProfile if fallback is empty.
func (c *Config) ProfileName(fallback string) string {
	switch {
	case c.Profile != "":
		return c.Profile
	case fallback != "":
		return fallback
	}
	return DefaultProfile
}

// LoadProfile resolves the configured profile, preferring ProfileFile.
func (c *Config) LoadProfile(fallback string) (*normalize.Profile, error) {
	if c.ProfileFile != "" {
		return normalize.LoadProfile(c.ProfileFile)
	}
	return normalize.Builtin(c.ProfileName(fallback))
}
