package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "http://127.0.0.1:5000", c.ServerURL)
	assert.Equal(t, 10*time.Second, c.Timeout)
	assert.Equal(t, "token", filepath.Base(c.TokenFile))
}

func TestLoadConfig(t *testing.T) {
	var defaults Config
	defaults.LoadDefaults()

	tests := []struct {
		name     string
		args     []string
		expected *Config
		rest     []string
		wantErr  bool
	}{
		{
			name:     "defaults only",
			args:     []string{"tasks"},
			expected: &defaults,
			rest:     []string{"tasks"},
		},
		{
			name: "global flags before command",
			args: []string{"-a", "localhost:8080/", "--token-file", "/tmp/t", "--timeout", "3s", "add", "-p", "high", "title"},
			expected: &Config{
				ServerURL: "http://localhost:8080",
				TokenFile: "/tmp/t",
				Timeout:   3 * time.Second,
			},
			rest: []string{"add", "-p", "high", "title"},
		},
		{
			name:    "bad timeout",
			args:    []string{"--timeout", "soon", "tasks"},
			wantErr: true,
		},
		{
			name:    "zero timeout",
			args:    []string{"--timeout", "0s"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, rest, err := LoadConfig(tt.args)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			if diff := cmp.Diff(tt.expected, cfg); diff != "" {
				t.Errorf("config mismatch (-want +got):\n%s", diff)
			}
			assert.Equal(t, tt.rest, rest)
		})
	}
}
