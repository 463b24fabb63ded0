// Package config handles configuration loading and defaults.
package config

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/idilsaglam/tasks/internal/logging"
	"github.com/idilsaglam/tasks/internal/store/jsonstore"
)

// Default values.
const (
	DefaultDataFile  = jsonstore.DefaultFileName
	DefaultTheme     = "classic"
	DefaultLogLevel  = "warn"
	DefaultLogFormat = "text"
	DefaultColor     = "auto"
)

// Config holds the full configuration for tasks.
type Config struct {
	// Backing JSON file
	DataFile string `toml:"data_file"`

	// Output
	Theme string `toml:"theme"`
	Color string `toml:"color"`
	Group bool   `toml:"group"`

	// Hold an exclusive lock on <data_file>.lock while a command runs
	Lock bool `toml:"lock"`

	// Logging
	LogLevel  string `toml:"log_level"`
	LogFormat string `toml:"log_format"`
}

// Load loads configuration from multiple sources in priority order:
// 1. Defaults
// 2. User config file (tasks/tasks.toml under the user config dir)
// 3. Project config file (tasks.toml or .tasks.toml in current directory)
// 4. Environment variables
// 5. CLI flags
//
// It returns the positional arguments left after flag parsing.
func Load(fs *flag.FlagSet, args []string) (*Config, []string, error) {
	cfg := &Config{}
	setDefaults(cfg)

	if p := findUserConfigFile(); p != "" {
		if err := loadConfigFile(cfg, p); err != nil {
			return nil, nil, fmt.Errorf("loading user config file %s: %w", p, err)
		}
	}
	if p := findProjectConfigFile(); p != "" {
		if err := loadConfigFile(cfg, p); err != nil {
			return nil, nil, fmt.Errorf("loading project config file %s: %w", p, err)
		}
	}

	if err := loadFromEnv(cfg); err != nil {
		return nil, nil, err
	}

	rest, err := parseFlags(cfg, fs, args)
	if err != nil {
		return nil, nil, fmt.Errorf("parsing flags: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	return cfg, rest, nil
}

func setDefaults(cfg *Config) {
	cfg.DataFile = DefaultDataFile
	cfg.Theme = DefaultTheme
	cfg.Color = DefaultColor
	cfg.LogLevel = DefaultLogLevel
	cfg.LogFormat = DefaultLogFormat
}

func loadConfigFile(cfg *Config, path string) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	return nil
}

func loadFromEnv(cfg *Config) error {
	if v := os.Getenv("TASKS_DB"); v != "" {
		cfg.DataFile = v
	}
	if v := os.Getenv("TASKS_THEME"); v != "" {
		cfg.Theme = v
	}
	if v := os.Getenv("TASKS_COLOR"); v != "" {
		cfg.Color = v
	}
	if v := os.Getenv("TASKS_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("TASKS_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
	if v := os.Getenv("TASKS_LOCK"); v != "" {
		b, ok := boolFromString(v)
		if !ok {
			return fmt.Errorf("TASKS_LOCK: invalid boolean %q", v)
		}
		cfg.Lock = b
	}
	return nil
}

func parseFlags(cfg *Config, fs *flag.FlagSet, args []string) ([]string, error) {
	if fs == nil {
		fs = flag.NewFlagSet("tasks", flag.ContinueOnError)
	}
	fs.StringVar(&cfg.DataFile, "db", cfg.DataFile, "path to the JSON task file")
	fs.StringVar(&cfg.Theme, "theme", cfg.Theme, "output theme: classic, neon, mono")
	fs.StringVar(&cfg.Color, "color", cfg.Color, "color output: auto, always, never")
	fs.BoolVar(&cfg.Group, "group", cfg.Group, "group ls output by pending/done")
	fs.BoolVar(&cfg.Lock, "lock", cfg.Lock, "hold an exclusive lock on the task file while running")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn, error")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "log format: text, json, logfmt")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return fs.Args(), nil
}

// Validate rejects values no component understands.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.DataFile) == "" {
		return fmt.Errorf("data_file is empty")
	}
	switch strings.ToLower(c.Theme) {
	case "classic", "neon", "mono":
	default:
		return fmt.Errorf("unknown theme %q", c.Theme)
	}
	switch strings.ToLower(c.Color) {
	case "auto", "always", "never":
	default:
		return fmt.Errorf("unknown color mode %q", c.Color)
	}
	if !logging.ValidFormat(c.LogFormat) {
		return fmt.Errorf("unknown log format %q", c.LogFormat)
	}
	return nil
}

// LockPath is the lock file guarding DataFile.
func (c *Config) LockPath() string {
	return c.DataFile + ".lock"
}

// findProjectConfigFile looks for a config file in the current directory.
func findProjectConfigFile() string {
	for _, name := range []string{"tasks.toml", ".tasks.toml"} {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// findUserConfigFile checks $XDG_CONFIG_HOME (or the OS config dir), then ~/.config.
func findUserConfigFile() string {
	var candidates []string
	if dir, err := os.UserConfigDir(); err == nil {
		candidates = append(candidates, filepath.Join(dir, "tasks", "tasks.toml"))
	}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".config", "tasks", "tasks.toml"))
	}
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

func boolFromString(v string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true, true
	case "0", "false", "no", "off":
		return false, true
	}
	return false, false
}
