package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
)

// parseFlags reads the global flags that precede the command:
//
//	-a, --server string       base URL of the API
//	    --token-file string   token cache location
//	    --timeout duration    request timeout
//
// Parsing stops at the first non-flag argument so that command flags are
// left for the command itself.
func parseFlags(cfg *Config, args []string) ([]string, error) {
	fs := pflag.NewFlagSet("taskctl", pflag.ContinueOnError)
	fs.SetInterspersed(false)

	fs.StringVarP(&cfg.ServerURL, "server", "a", cfg.ServerURL, "base URL of the TaskFlow API")
	fs.StringVar(&cfg.TokenFile, "token-file", cfg.TokenFile, "file caching the identity token")
	fs.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "HTTP request timeout")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if !strings.HasPrefix(cfg.ServerURL, "http://") && !strings.HasPrefix(cfg.ServerURL, "https://") {
		cfg.ServerURL = "http://" + cfg.ServerURL
	}
	cfg.ServerURL = strings.TrimRight(cfg.ServerURL, "/")

	if cfg.Timeout <= 0 {
		return nil, fmt.Errorf("timeout must be positive, got %s", cfg.Timeout)
	}

	return fs.Args(), nil
}
