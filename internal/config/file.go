// Package config loads claude-tmux-hop configuration.
//
// Ambient settings (logging, telemetry, command timeouts, picker theme)
// come from a YAML file merged with CLAUDE_TMUX_HOP_* environment
// variables. Runtime behavior lives in tmux global options (see Options)
// so users tune it from tmux.conf without a second file.
//
// Precedence (highest to lowest):
//  1. Environment variables (CLAUDE_TMUX_HOP_*)
//  2. Config file
//  3. Built-in defaults
//
// Config file search order:
//  1. .claude-tmux-hop.yaml in current directory
//  2. ~/.config/claude-tmux-hop/config.yaml
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the ambient configuration, everything that is decided per
// machine rather than per tmux server.
type Config struct {
	// Logging. An empty or "off" level disables file logging entirely.
	LogLevel  string `yaml:"log_level"`
	LogFile   string `yaml:"log_file"`   // empty means the default state-dir path
	LogFormat string `yaml:"log_format"` // "json" (default) or "text"

	// CommandTimeout bounds external commands (tmux, ps, notifiers) when
	// the caller supplies no deadline. Go duration string; "0" or "off"
	// removes the bound.
	CommandTimeout string `yaml:"command_timeout"`

	// OTEL
	OTELEndpoint string `yaml:"otel_endpoint"`
	OTELHeaders  string `yaml:"otel_headers"` // Comma-separated key=value pairs

	// PickerTheme selects the picker color scheme: "auto" (default),
	// "dark", or "light".
	PickerTheme string `yaml:"picker_theme"`

	// Parsed durations (not from YAML, set after loading)
	CommandTimeoutDuration time.Duration `yaml:"-"`

	// ConfigFile is the path to the config file that was loaded (empty if none).
	ConfigFile string `yaml:"-"`
}

// Defaults returns a Config with all default values.
func Defaults() *Config {
	return &Config{
		CommandTimeout: "5s",
		PickerTheme:    "auto",
	}
}

// Load reads configuration from file and environment variables.
// Environment variables always override file values.
func Load() (*Config, error) {
	cfg := Defaults()

	if path, data, err := findConfigFile(); err == nil {
		var fileCfg Config
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
		cfg.ConfigFile = path
		mergeFile(cfg, &fileCfg)
	}

	mergeEnv(cfg)

	var err error
	cfg.CommandTimeoutDuration, err = parseDurationOrDisable(cfg.CommandTimeout, 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid command timeout %q: %w", cfg.CommandTimeout, err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file and returns its path and contents.
func findConfigFile() (string, []byte, error) {
	// 1. Current directory
	if data, err := os.ReadFile(".claude-tmux-hop.yaml"); err == nil {
		return ".claude-tmux-hop.yaml", data, nil
	}

	// 2. XDG config dir / ~/.config
	if home, err := os.UserHomeDir(); err == nil {
		path := filepath.Join(home, ".config", "claude-tmux-hop", "config.yaml")
		if data, err := os.ReadFile(path); err == nil {
			return path, data, nil
		}
	}

	return "", nil, fmt.Errorf("no config file found")
}

// mergeFile applies non-zero file values onto cfg.
func mergeFile(cfg *Config, file *Config) {
	if file.LogLevel != "" {
		cfg.LogLevel = file.LogLevel
	}
	if file.LogFile != "" {
		cfg.LogFile = file.LogFile
	}
	if file.LogFormat != "" {
		cfg.LogFormat = file.LogFormat
	}
	if file.CommandTimeout != "" {
		cfg.CommandTimeout = file.CommandTimeout
	}
	if file.OTELEndpoint != "" {
		cfg.OTELEndpoint = file.OTELEndpoint
	}
	if file.OTELHeaders != "" {
		cfg.OTELHeaders = file.OTELHeaders
	}
	if file.PickerTheme != "" {
		cfg.PickerTheme = file.PickerTheme
	}
}

// mergeEnv applies environment variables onto cfg. Env always wins.
func mergeEnv(cfg *Config) {
	if v := os.Getenv("CLAUDE_TMUX_HOP_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("CLAUDE_TMUX_HOP_LOG_FILE"); v != "" {
		cfg.LogFile = v
	}
	if v := os.Getenv("CLAUDE_TMUX_HOP_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
	if v := os.Getenv("CLAUDE_TMUX_HOP_COMMAND_TIMEOUT"); v != "" {
		cfg.CommandTimeout = v
	}
	if v := os.Getenv("CLAUDE_TMUX_HOP_PICKER_THEME"); v != "" {
		cfg.PickerTheme = v
	}
	if v := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"); v != "" {
		cfg.OTELEndpoint = v
	}
	if v := os.Getenv("OTEL_EXPORTER_OTLP_HEADERS"); v != "" {
		cfg.OTELHeaders = v
	}

	// The debug switch beats the configured level, so a hook misbehaving
	// on someone's machine can be traced without editing files.
	if v := os.Getenv("CLAUDE_TMUX_HOP_DEBUG"); v == "true" || v == "1" {
		cfg.LogLevel = "debug"
	}
}

// parseDurationOrDisable parses a duration string. "0", "off", "disable" return 0.
// Empty string returns the fallback value.
func parseDurationOrDisable(s string, fallback time.Duration) (time.Duration, error) {
	if s == "" {
		return fallback, nil
	}
	if s == "0" || s == "off" || s == "disable" {
		return 0, nil
	}
	return time.ParseDuration(s)
}
