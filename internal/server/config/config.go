// Package config handles configuration for the server: defaults, an optional
// JSON or YAML file, and command-line flags, applied in that order.
package config

import "time"

// DefaultSecretKey is the development signing secret.
const DefaultSecretKey = "secretKey"

// Config holds runtime settings for the TaskFlow server.
//
// Fields:
//   - EndpointAddrHTTP: bind address of the REST API.
//   - EndpointAddrGRPC: bind address of the gRPC health endpoint; empty disables it.
//   - DatabaseDSN: "memory", a PostgreSQL DSN (pgx) or a MongoDB URI.
//   - MongoDatabase: database name used with a MongoDB URI.
//   - SecretKey: HMAC secret for signing identity tokens (HS256).
//   - TokenValidityDuration: lifetime of issued tokens.
//   - LogLevel: debug, info, warn or error.
//   - S3*: object storage for task attachments; an empty bucket disables attachments.
//   - PresignExpiry: lifetime of presigned upload/download URLs.
type Config struct {
	EndpointAddrHTTP      string
	EndpointAddrGRPC      string
	DatabaseDSN           string
	MongoDatabase         string
	SecretKey             string
	TokenValidityDuration time.Duration
	LogLevel              string
	S3RootUser            string
	S3RootPassword        string
	S3Bucket              string
	S3Region              string
	S3BaseEndpoint        string
	PresignExpiry         time.Duration
}

// LoadDefaults populates Config with development defaults.
// NOTE: the secret key must be overridden outside local runs.
func (c *Config) LoadDefaults() {
	c.EndpointAddrHTTP = ":5000"
	c.EndpointAddrGRPC = ":50051"
	c.DatabaseDSN = "memory"
	c.MongoDatabase = "taskflow"
	c.SecretKey = DefaultSecretKey
	c.TokenValidityDuration = 24 * time.Hour
	c.LogLevel = "info"
	c.S3RootUser = "admin"
	c.S3RootPassword = "secretpassword"
	c.S3Bucket = "attachments"
	c.S3Region = "us-east-1"
	c.S3BaseEndpoint = "http://127.0.0.1:9000/"
	c.PresignExpiry = 15 * time.Minute
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional config file and finally from command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseFile(cfg)
	parseFlags(cfg)
	return cfg
}
