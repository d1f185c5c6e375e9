package ratelimit

import "strings"

var unlimited = EndpointConfig{Tier: TierUnlimited}

// MatchEndpoint returns the configuration governing a request, or nil when
// the default limit applies. A config path matches the path itself and every
// path below it; exact matches win over prefix matches.
func MatchEndpoint(path string, method string, configs []EndpointConfig) *EndpointConfig {
	if path == "/health" {
		return &unlimited
	}

	var best *EndpointConfig
	for i := range configs {
		c := &configs[i]
		if c.Method != "*" && c.Method != method {
			continue
		}
		if c.Path == path {
			return c
		}
		prefix := strings.TrimSuffix(c.Path, "/") + "/"
		if strings.HasPrefix(path, prefix) && (best == nil || len(c.Path) > len(best.Path)) {
			best = c
		}
	}
	return best
}
