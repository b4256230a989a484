package common

import "time"

const (
	// AuthorizationHeaderName carries the bearer token on HTTP requests.
	AuthorizationHeaderName = "Authorization"

	// BearerScheme is the only accepted authorization scheme.
	BearerScheme = "Bearer"

	// DefaultTokenTTL is the lifetime of identity tokens when none is configured.
	DefaultTokenTTL = 24 * time.Hour
)
