// Package config holds runtime settings for the Amora CLI.
package config

import "time"

// Config holds runtime settings for the client.
//
// Fields:
//   - APIEndpointURL: base URL of the REST API (including the version prefix).
//   - WSEndpointURL: base URL of the chat websocket endpoint.
//   - RequestTimeout: client-wide HTTP timeout.
//   - DatabasePath: path of the local sqlite database holding the session.
//   - LocationUpdateInterval: how often the background location updater runs.
//   - Latitude/Longitude: optional fixed coordinates for discovery and the
//     location updater (a terminal has no geolocation device).
//   - MinAge/MaxAge: default discovery age bounds.
//   - Google*: OAuth client settings for the Google handoff.
type Config struct {
	APIEndpointURL         string
	WSEndpointURL          string
	RequestTimeout         time.Duration
	DatabasePath           string
	LocationUpdateInterval time.Duration
	Latitude               *float64
	Longitude              *float64
	MinAge                 int
	MaxAge                 int
	GoogleClientID         string
	GoogleClientSecret     string
	GoogleRedirectURL      string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIEndpointURL = "http://localhost:8000/api/v1"
	c.WSEndpointURL = "ws://localhost:8000/api/v1/chat/ws"
	c.RequestTimeout = 15 * time.Second
	c.DatabasePath = "amora.db"
	c.LocationUpdateInterval = 5 * time.Minute
	c.MinAge = 18
	c.MaxAge = 99
	c.GoogleRedirectURL = "urn:ietf:wg:oauth:2.0:oob"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
