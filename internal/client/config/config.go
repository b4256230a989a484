package config

import (
	"os"
	"path/filepath"
	"time"
)

// Config holds runtime settings for the taskctl client.
//
// Fields:
//   - ServerURL: base URL of the TaskFlow HTTP API.
//   - TokenFile: where the token from register/login is cached.
//   - Timeout: per-request HTTP timeout.
type Config struct {
	ServerURL string
	TokenFile string
	Timeout   time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:5000"
	c.TokenFile = defaultTokenFile()
	c.Timeout = 10 * time.Second
}

func defaultTokenFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "taskflow", "token")
}

// LoadConfig applies defaults and then the global flags found in args. It
// returns the arguments left after the global flags, starting with the
// command name.
func LoadConfig(args []string) (*Config, []string, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	rest, err := parseFlags(cfg, args)
	if err != nil {
		return nil, nil, err
	}
	return cfg, rest, nil
}
