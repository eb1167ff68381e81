package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// fileConfig holds defaults read from the YAML config file. Flags given on
// the command line take precedence.
type fileConfig struct {
	Width        int    `yaml:"width"`
	OSC8         string `yaml:"osc8"`
	HeadingColor string `yaml:"heading_color"`
	LogLevel     string `yaml:"log_level"`
	Links        bool   `yaml:"links"`
	Boring       bool   `yaml:"boring"`
}

func defaultFileConfig() fileConfig {
	return fileConfig{
		OSC8:         "auto",
		HeadingColor: "blue",
		LogLevel:     "warn",
	}
}

// defaultConfigPath returns the config file path under XDG_CONFIG_HOME.
func defaultConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, _ := os.UserHomeDir()
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "mdv", "config.yaml")
}

// loadConfig reads path over the defaults. A missing file is only an error
// when the path was given explicitly.
func loadConfig(path string, explicit bool) (fileConfig, error) {
	cfg := defaultFileConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(normalizePath(path))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config file: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func (c fileConfig) validate() error {
	if c.Width < 0 {
		return fmt.Errorf("width cannot be negative")
	}
	if _, err := resolveOSC8(c.OSC8); err != nil {
		return fmt.Errorf("osc8: %w", err)
	}
	return nil
}

// newLogger returns a console logger writing to w at the named level.
func newLogger(w io.Writer, level string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return zerolog.Nop(), err
	}
	out := zerolog.ConsoleWriter{
		Out:        w,
		NoColor:    !isTerminal(w),
		TimeFormat: time.Kitchen,
	}
	return zerolog.New(out).With().Timestamp().Logger().Level(lvl), nil
}
