package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

// Config represents the meshdata configuration file
// (~/.config/meshdata/config.yaml). Every field is optional.
type Config struct {
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	// Server
	ServerAddress string `yaml:"server_address"`

	// Importer. Mmap is a pointer so "mmap: false" can be told apart from
	// an absent key.
	Mmap *bool `yaml:"mmap"`

	// Encoding of layouts written by generate: yaml or json.
	LayoutFormat string `yaml:"layout_format"`
}

func configPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "meshdata", "config.yaml")
}

// LoadConfig reads the config file at path, or at the default location when
// path is empty. A missing file yields a zero Config; a malformed one is an
// error.
func LoadConfig(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		path = configPath()
	}
	if path == "" {
		return Config{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			return Config{}, nil
		}
		return Config{}, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// applyLoggingConfig applies config file defaults to the logging flags when
// they were not explicitly set.
func applyLoggingConfig(c *cli.Command, cfg Config) {
	if cfg.LogLevel != "" && !c.IsSet("log-level") {
		logLevel = cfg.LogLevel
	}
	if cfg.LogFormat != "" && !c.IsSet("log-format") {
		logFormat = cfg.LogFormat
	}
	if debug {
		logLevel = "debug"
	}
}

// applyImportConfig applies the mmap default unless --no-mmap was given.
func applyImportConfig(c *cli.Command, cfg Config) {
	if cfg.Mmap != nil && !c.IsSet("no-mmap") {
		noMmap = !*cfg.Mmap
	}
}

// applyServeConfig applies config file defaults to serve command variables.
func applyServeConfig(c *cli.Command, cfg Config, addr *string) {
	applyImportConfig(c, cfg)
	if cfg.ServerAddress != "" && !c.IsSet("addr") {
		*addr = cfg.ServerAddress
	}
}

// applyGenerateConfig applies the layout encoding default.
func applyGenerateConfig(c *cli.Command, cfg Config, format *string) {
	if cfg.LayoutFormat != "" && !c.IsSet("format") {
		*format = cfg.LayoutFormat
	}
}
