package ratelimit

import (
	"strings"
	"time"
)

// EndpointConfig represents rate limiting configuration for a specific endpoint.
type EndpointConfig struct {
	Path   string // Endpoint path; a trailing "/" makes it a prefix match
	Method string
	Limit  int           // Maximum requests per window; 0 means unlimited
	Window time.Duration // Time window
	Burst  int           // Burst capacity (defaults to Limit if 0)
	// Key groups endpoints into one bucket. Defaults to Path.
	Key string
}

// DefaultEndpointConfigs returns the endpoint-specific limits. Locate and fit
// may fetch and render remote pages, so they share one strict bucket.
func DefaultEndpointConfigs() []EndpointConfig {
	return []EndpointConfig{
		{Path: "/health", Method: "GET", Limit: 0},
		{Path: "/v1/locate", Method: "POST", Limit: 30, Window: time.Minute, Burst: 5, Key: "page"},
		{Path: "/v1/fit", Method: "POST", Limit: 30, Window: time.Minute, Burst: 5, Key: "page"},
		{Path: "/v1/fields", Method: "POST", Limit: 120, Window: time.Minute, Burst: 20},
	}
}

// MatchEndpoint matches a request path and method to an endpoint configuration.
// Exact matches win over prefix matches. Returns nil when nothing matches.
func MatchEndpoint(path string, method string, configs []EndpointConfig) *EndpointConfig {
	var prefix *EndpointConfig
	for i := range configs {
		c := configs[i]
		if c.Method != method {
			continue
		}
		if c.Key == "" {
			c.Key = c.Path
		}
		if c.Path == path {
			return &c
		}
		if prefix == nil && strings.HasSuffix(c.Path, "/") && strings.HasPrefix(path, c.Path) {
			prefix = &c
		}
	}
	return prefix
}
