package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/avetisovm/amora/internal/flagx"
	"github.com/avetisovm/amora/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so intervals can be given either as strings like "15s" or
// as integer nanoseconds. After parsing, set values are copied into the
// runtime Config.
type JsonConfig struct {
	APIEndpointURL         string         `json:"api_endpoint_url"`
	WSEndpointURL          string         `json:"ws_endpoint_url"`
	RequestTimeout         timex.Duration `json:"request_timeout"`
	DatabasePath           string         `json:"database_path"`
	LocationUpdateInterval timex.Duration `json:"location_update_interval"`
	Latitude               *float64       `json:"latitude"`
	Longitude              *float64       `json:"longitude"`
	MinAge                 int            `json:"min_age"`
	MaxAge                 int            `json:"max_age"`
	GoogleClientID         string         `json:"google_client_id"`
	GoogleClientSecret     string         `json:"google_client_secret"`
	GoogleRedirectURL      string         `json:"google_redirect_url"`
}

// parseJson overlays cfg with values loaded from a JSON file named by the
// -c/-config flags. Missing file flag means no JSON is loaded. Fields absent
// from the file keep their current values. Panics on read or unmarshal
// errors, matching the fail-fast startup policy.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.APIEndpointURL != "" {
		cfg.APIEndpointURL = jc.APIEndpointURL
	}
	if jc.WSEndpointURL != "" {
		cfg.WSEndpointURL = jc.WSEndpointURL
	}
	if jc.RequestTimeout.Duration != 0 {
		cfg.RequestTimeout = time.Duration(jc.RequestTimeout.Duration)
	}
	if jc.DatabasePath != "" {
		cfg.DatabasePath = jc.DatabasePath
	}
	if jc.LocationUpdateInterval.Duration != 0 {
		cfg.LocationUpdateInterval = time.Duration(jc.LocationUpdateInterval.Duration)
	}
	if jc.Latitude != nil {
		cfg.Latitude = jc.Latitude
	}
	if jc.Longitude != nil {
		cfg.Longitude = jc.Longitude
	}
	if jc.MinAge != 0 {
		cfg.MinAge = jc.MinAge
	}
	if jc.MaxAge != 0 {
		cfg.MaxAge = jc.MaxAge
	}
	if jc.GoogleClientID != "" {
		cfg.GoogleClientID = jc.GoogleClientID
	}
	if jc.GoogleClientSecret != "" {
		cfg.GoogleClientSecret = jc.GoogleClientSecret
	}
	if jc.GoogleRedirectURL != "" {
		cfg.GoogleRedirectURL = jc.GoogleRedirectURL
	}
}
