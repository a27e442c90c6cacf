// Package config handles configuration for the server component,
// including defaults, JSON overlay, and command-line flags.
package config

import "time"

// Config holds runtime settings for the todo server.
//
// Fields:
//   - EndpointAddrHTTP: bind address for the public HTTP endpoint.
//   - MongoURI / MongoDatabase: document store connection settings.
//   - SecretKey: HMAC secret for signing JWTs (HS256). Do not use test defaults in prod.
//   - TokenValidityDuration: access token lifetime.
//   - QueryTimeout: per-operation deadline handed to the store client.
//   - BcryptCost: work factor for password hashing.
type Config struct {
	EndpointAddrHTTP      string
	MongoURI              string
	MongoDatabase         string
	SecretKey             string
	TokenValidityDuration time.Duration
	QueryTimeout          time.Duration
	BcryptCost            int
}

// LoadDefaults populates Config with sensible development defaults.
// NOTE: These values are insecure for production and should be overridden.
func (c *Config) LoadDefaults() {
	c.EndpointAddrHTTP = ":8080"
	c.MongoURI = "mongodb://localhost:27017"
	c.MongoDatabase = "todokeeper"
	c.SecretKey = "secretKey"
	c.TokenValidityDuration = 7 * 24 * time.Hour
	c.QueryTimeout = 10 * time.Second
	c.BcryptCost = 10
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file and finally from command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
