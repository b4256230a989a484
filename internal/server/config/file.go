package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/taskflow/internal/flagx"
	"github.com/dmitrijs2005/taskflow/internal/timex"
	"gopkg.in/yaml.v3"
)

// FileConfig is the on-disk shape of the configuration. Durations accept
// "24h" style strings or integer nanoseconds. Keys that are absent keep the
// value they had before the file was read.
type FileConfig struct {
	EndpointAddrHTTP      string          `json:"endpoint_addr_http" yaml:"endpoint_addr_http"`
	EndpointAddrGRPC      string          `json:"endpoint_addr_grpc" yaml:"endpoint_addr_grpc"`
	DatabaseDSN           string          `json:"database_dsn" yaml:"database_dsn"`
	MongoDatabase         string          `json:"mongo_database" yaml:"mongo_database"`
	SecretKey             string          `json:"secret_key" yaml:"secret_key"`
	TokenValidityDuration *timex.Duration `json:"token_ttl" yaml:"token_ttl"`
	LogLevel              string          `json:"log_level" yaml:"log_level"`
	S3RootUser            string          `json:"s3_root_user" yaml:"s3_root_user"`
	S3RootPassword        string          `json:"s3_root_password" yaml:"s3_root_password"`
	S3Bucket              string          `json:"s3_bucket" yaml:"s3_bucket"`
	S3Region              string          `json:"s3_region" yaml:"s3_region"`
	S3BaseEndpoint        string          `json:"s3_base_endpoint" yaml:"s3_base_endpoint"`
	PresignExpiry         *timex.Duration `json:"presign_expiry" yaml:"presign_expiry"`
}

// parseFile overlays the file named by -c/-config onto config. Files ending
// in .yaml or .yml are decoded as YAML, anything else as JSON. An unreadable
// or malformed file panics.
func parseFile(config *Config) {
	path := flagx.ConfigFile()
	if path == "" {
		return
	}

	fc, err := readFile(path)
	if err != nil {
		panic(err)
	}
	fc.apply(config)
}

func readFile(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	fc := &FileConfig{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, fc)
	default:
		err = json.Unmarshal(data, fc)
	}
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return fc, nil
}

func (fc *FileConfig) apply(config *Config) {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}

	set(&config.EndpointAddrHTTP, fc.EndpointAddrHTTP)
	set(&config.EndpointAddrGRPC, fc.EndpointAddrGRPC)
	set(&config.DatabaseDSN, fc.DatabaseDSN)
	set(&config.MongoDatabase, fc.MongoDatabase)
	set(&config.SecretKey, fc.SecretKey)
	set(&config.LogLevel, fc.LogLevel)
	set(&config.S3RootUser, fc.S3RootUser)
	set(&config.S3RootPassword, fc.S3RootPassword)
	set(&config.S3Bucket, fc.S3Bucket)
	set(&config.S3Region, fc.S3Region)
	set(&config.S3BaseEndpoint, fc.S3BaseEndpoint)

	if fc.TokenValidityDuration != nil {
		config.TokenValidityDuration = fc.TokenValidityDuration.Duration
	}
	if fc.PresignExpiry != nil {
		config.PresignExpiry = fc.PresignExpiry.Duration
	}
}
