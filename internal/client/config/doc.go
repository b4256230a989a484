// Package config holds taskctl settings: where the server lives, where the
// identity token is cached and how long requests may take.
package config
