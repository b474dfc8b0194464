// Package config loads the optional zonectl config file. Everything has a
// default; a missing file is not an error.
package config

import (
	"io/fs"
	"net/netip"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

const (
	defaultSearchSeconds      = 5
	defaultReadTimeoutSeconds = 2
)

type Config struct {
	// SearchSeconds is the discovery collection window.
	SearchSeconds int `toml:"search_seconds"`
	// ReadTimeoutSeconds bounds each single datagram read during
	// discovery.
	ReadTimeoutSeconds int `toml:"read_timeout_seconds"`
	// Aliases maps memorable device names to IPv4 addresses.
	Aliases map[string]string `toml:"aliases"`
}

func Default() Config {
	return Config{
		SearchSeconds:      defaultSearchSeconds,
		ReadTimeoutSeconds: defaultReadTimeoutSeconds,
		Aliases:            map[string]string{},
	}
}

// DefaultPath returns the conventional config location, or "" when the
// user config directory cannot be determined.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "zonectl", "config.toml")
}

// Load reads the config file at path, filling in defaults for anything the
// file does not set. An empty path or a missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, errors.Wrapf(err, "parse config %s", path)
	}
	if cfg.SearchSeconds <= 0 {
		return Config{}, errors.Errorf("config %s: search_seconds must be positive", path)
	}
	if cfg.ReadTimeoutSeconds <= 0 {
		return Config{}, errors.Errorf("config %s: read_timeout_seconds must be positive", path)
	}
	if cfg.Aliases == nil {
		cfg.Aliases = map[string]string{}
	}
	return cfg, nil
}

func (c Config) Window() time.Duration {
	return time.Duration(c.SearchSeconds) * time.Second
}

func (c Config) ReadTimeout() time.Duration {
	return time.Duration(c.ReadTimeoutSeconds) * time.Second
}

// Resolve turns a device target, either a literal IPv4 address or a
// configured alias, into an address.
func (c Config) Resolve(target string) (netip.Addr, error) {
	if aliased, ok := c.Aliases[target]; ok {
		target = aliased
	}
	addr, err := netip.ParseAddr(target)
	if err != nil {
		return netip.Addr{}, errors.Errorf("unknown device %q: not an address or configured alias", target)
	}
	if !addr.Is4() {
		return netip.Addr{}, errors.Errorf("device %q: only IPv4 addresses are supported", target)
	}
	return addr, nil
}
