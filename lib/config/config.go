// Copyright 2026 The Docshell Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides configuration loading for docshell.
//
// Configuration is loaded from a single YAML file specified by:
//   - DOCSHELL_CONFIG environment variable, or
//   - --config flag passed to the command
//
// There are no fallbacks or automatic discovery; this keeps the
// daemon's behavior deterministic and auditable. Environment variables
// never override config values — the only expansion performed is
// ${HOME} and similar path variables for portability.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the docshell configuration.
type Config struct {
	// Credentials is the path to the identity-provider secret file.
	// Its content is opaque to docshell; a missing file is fatal at
	// startup, before the daemon detaches.
	Credentials string `yaml:"credentials"`

	// Filename is the display name given to the remote document when
	// setup creates it.
	Filename string `yaml:"filename"`

	// ValidCommands is the comma-separated whitelist of program names
	// the gate may execute.
	ValidCommands string `yaml:"valid_commands"`

	// PIDPath is the daemon's lock file.
	PIDPath string `yaml:"pid_path"`

	// SleepTime is the polling interval in whole seconds.
	SleepTime int `yaml:"sleep_time"`

	// StateDir holds the file-id and token files written at setup.
	StateDir string `yaml:"state_dir"`

	// LogPath is the daemon's JSON log file. Empty logs to stderr only.
	LogPath string `yaml:"log_path"`

	// LogLevel is debug, info, warn, or error.
	LogLevel string `yaml:"log_level"`

	// API configures the document service endpoint.
	API APIConfig `yaml:"api"`
}

// APIConfig configures the document API client.
type APIConfig struct {
	// BaseURL is the document service endpoint.
	BaseURL string `yaml:"base_url"`
}

// Default returns the default configuration. Defaults ensure all fields
// have sensible zero-values; the config file itself is still required.
func Default() *Config {
	homeDir, _ := os.UserHomeDir()
	stateDir := filepath.Join(homeDir, ".docshell")

	return &Config{
		Filename:      "Docshell",
		ValidCommands: "ls, pwd, echo",
		PIDPath:       filepath.Join(stateDir, "docshell.pid"),
		SleepTime:     30,
		StateDir:      stateDir,
		LogPath:       filepath.Join(stateDir, "docshell.log"),
		LogLevel:      "info",
		API: APIConfig{
			BaseURL: "https://docs.googleapis.com",
		},
	}
}

// Load loads configuration from the DOCSHELL_CONFIG environment
// variable. This is the only way to load configuration without an
// explicit path.
func Load() (*Config, error) {
	configPath := os.Getenv("DOCSHELL_CONFIG")
	if configPath == "" {
		return nil, fmt.Errorf("DOCSHELL_CONFIG environment variable not set; " +
			"set it to the path of your docshell.yaml config file, or use --config flag")
	}
	return LoadFile(configPath)
}

// LoadFile loads configuration from a specific file path, merging over
// the defaults and expanding ${VAR} patterns in paths.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}

	cfg.expandVariables()
	return cfg, nil
}

// expandVariables expands ${VAR} and ${VAR:-default} patterns in paths.
func (c *Config) expandVariables() {
	vars := map[string]string{
		"DOCSHELL_STATE": c.StateDir,
		"HOME":           os.Getenv("HOME"),
	}

	c.StateDir = expandVars(c.StateDir, vars)
	vars["DOCSHELL_STATE"] = c.StateDir // Update for dependent paths.

	c.Credentials = expandVars(c.Credentials, vars)
	c.PIDPath = expandVars(c.PIDPath, vars)
	c.LogPath = expandVars(c.LogPath, vars)
}

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}

		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if c.Credentials == "" {
		errs = append(errs, fmt.Errorf("credentials is required"))
	}
	if c.Filename == "" {
		errs = append(errs, fmt.Errorf("filename is required"))
	}
	if c.ValidCommands == "" {
		errs = append(errs, fmt.Errorf("valid_commands is required"))
	}
	if c.PIDPath == "" {
		errs = append(errs, fmt.Errorf("pid_path is required"))
	}
	if c.SleepTime <= 0 {
		errs = append(errs, fmt.Errorf("sleep_time must be a positive number of seconds"))
	}
	if c.StateDir == "" {
		errs = append(errs, fmt.Errorf("state_dir is required"))
	}
	if c.API.BaseURL == "" {
		errs = append(errs, fmt.Errorf("api.base_url is required"))
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log_level must be one of: debug, info, warn, error"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// Interval returns the polling interval as a duration.
func (c *Config) Interval() time.Duration {
	return time.Duration(c.SleepTime) * time.Second
}

// FileIDPath is the single-line file holding the remote document id.
func (c *Config) FileIDPath() string {
	return filepath.Join(c.StateDir, "fid")
}

// TokenPath is the token blob written by the identity flow.
func (c *Config) TokenPath() string {
	return filepath.Join(c.StateDir, "token")
}

// JournalPath is the local cycle journal.
func (c *Config) JournalPath() string {
	return filepath.Join(c.StateDir, "journal.cbor")
}
