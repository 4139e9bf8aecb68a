package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// AppDirName is the per-user directory holding config, state and logs
const AppDirName = ".studio-play"

// EnvPrefix prefixes every environment override, e.g. STUDIO_TRANSITION_SECONDS
const EnvPrefix = "STUDIO"

// Config holds all configuration for the application.
// The values are read by Viper from flags, environment variables, a config file and defaults,
// in that order of precedence.
type Config struct {
	TransitionSeconds int           `mapstructure:"transition_seconds"`
	TickInterval      time.Duration `mapstructure:"tick_interval"`
	ClassesDir        string        `mapstructure:"classes_dir"`
	BuiltinClasses    bool          `mapstructure:"builtin_classes"`
	StateFile         string        `mapstructure:"state_file"`
	Log               LogConfig     `mapstructure:"log"`

	ConfigFile string `mapstructure:"-"` // File the config was read from, "" if none
}

// LogConfig controls the rotating log file
type LogConfig struct {
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

// appDir returns ~/.studio-play, or a relative directory if the home directory is unknown
func appDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}
	return filepath.Join(homeDir, AppDirName)
}

func setDefaults(v *viper.Viper) {
	dir := appDir()
	v.SetDefault("transition_seconds", 10)
	v.SetDefault("tick_interval", "1s")
	v.SetDefault("classes_dir", filepath.Join(dir, "classes"))
	v.SetDefault("builtin_classes", true)
	v.SetDefault("state_file", filepath.Join(dir, "ui_state.json"))
	v.SetDefault("log.file", filepath.Join(dir, "studio_play.log"))
	v.SetDefault("log.max_size_mb", 10)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age_days", 28)
}

// newFlagSet declares the command line flags. Flag names use dashes, config keys underscores.
func newFlagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.StringP("config", "c", "", "config file (default ~/"+AppDirName+"/config.yaml)")
	fs.IntP("transition-seconds", "t", 10, "transition length between workouts, in seconds")
	fs.Duration("tick-interval", time.Second, "length of one countdown second (for rehearsals)")
	fs.String("classes-dir", "", "directory of class YAML files")
	fs.Bool("builtin-classes", true, "include the built-in classes")
	fs.String("state-file", "", "file remembering the last selected class")
	fs.String("log-file", "", "rotating log file")
	return fs
}

// flagKeys maps flag names to config keys
var flagKeys = map[string]string{
	"transition-seconds": "transition_seconds",
	"tick-interval":      "tick_interval",
	"classes-dir":        "classes_dir",
	"builtin-classes":    "builtin_classes",
	"state-file":         "state_file",
	"log-file":           "log.file",
}

// Load parses args and resolves the configuration. It returns pflag.ErrHelp when -h was given.
func Load(name string, args []string) (Config, error) {
	fs := newFlagSet(name)
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	v := viper.New()
	setDefaults(v)

	// --- Environment Variable Handling ---
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Only flags that were set override the other sources
	for flagName, key := range flagKeys {
		if f := fs.Lookup(flagName); f != nil && f.Changed {
			if err := v.BindPFlag(key, f); err != nil {
				return Config{}, fmt.Errorf("bind flag %s: %w", flagName, err)
			}
		}
	}

	// --- Read Config File ---
	configFile, _ := fs.GetString("config")
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(appDir())
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	cfg.ConfigFile = v.ConfigFileUsed()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects values the app cannot run with
func (c Config) Validate() error {
	var errs []error
	if c.TransitionSeconds <= 0 {
		errs = append(errs, fmt.Errorf("transition_seconds must be positive, got %d", c.TransitionSeconds))
	}
	if c.TickInterval <= 0 {
		errs = append(errs, fmt.Errorf("tick_interval must be positive, got %s", c.TickInterval))
	}
	if c.ClassesDir == "" && !c.BuiltinClasses {
		errs = append(errs, errors.New("no class source: set classes_dir or enable builtin_classes"))
	}
	if c.Log.MaxSizeMB < 0 || c.Log.MaxBackups < 0 || c.Log.MaxAgeDays < 0 {
		errs = append(errs, errors.New("log rotation limits must not be negative"))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
