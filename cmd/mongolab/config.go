package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/pelletier/go-toml"
	"github.com/vinicius-lino-figueiredo/mongolab/domain"
)

// Environment variables read after the config file.
const (
	envAPIKey   = "MONGOLAB_API_KEY"
	envProxyURL = "MONGOLAB_PROXY_URL"
)

// Config holds the settings of the command line client.
type Config struct {
	APIKey   string `toml:"api_key"`
	Version  string `toml:"version"`
	ProxyURL string `toml:"proxy_url"`
	BaseURL  string `toml:"base_url"`
	Timeout  string `toml:"timeout"`
}

// LoadConfig reads the TOML file at path, if any, and applies the
// environment on top of it. A missing file is only an error when path was
// given explicitly.
func LoadConfig(path string, explicit bool, getenv func(string) string) (Config, error) {
	var cfg Config
	if path != "" {
		b, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := toml.Unmarshal(b, &cfg); err != nil {
				return Config{}, fmt.Errorf("parsing %s: %w", path, err)
			}
		case errors.Is(err, fs.ErrNotExist) && !explicit:
		default:
			return Config{}, err
		}
	}
	if v := getenv(envAPIKey); v != "" {
		cfg.APIKey = v
	}
	if v := getenv(envProxyURL); v != "" {
		cfg.ProxyURL = v
	}
	if cfg.Version == "" {
		cfg.Version = string(domain.V1)
	}
	return cfg, nil
}

// TimeoutDuration parses Timeout. Empty means no timeout.
func (c Config) TimeoutDuration() (time.Duration, error) {
	if c.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout %q: %w", c.Timeout, err)
	}
	return d, nil
}
