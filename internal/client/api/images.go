package api

import "strings"

// apiPathPrefix is the versioned prefix the API base URL carries; static
// image paths are served from the bare host.
const apiPathPrefix = "/api/v1"

// ImageURL resolves a photo URL from the API. Absolute URLs pass through;
// relative paths are joined onto the API host with the version prefix
// stripped.
func (c *HTTPClient) ImageURL(raw string) string {
	if raw == "" {
		return ""
	}
	if strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://") || strings.HasPrefix(raw, "data:") {
		return raw
	}

	base := strings.TrimSuffix(c.baseURL, apiPathPrefix)
	if !strings.HasPrefix(raw, "/") {
		raw = "/" + raw
	}
	return base + raw
}
