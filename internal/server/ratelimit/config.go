package ratelimit

import (
	"strconv"
	"strings"
	"time"
)

// Tier groups endpoints that share one budget per client.
type Tier string

// Rate-limit tiers
const (
	TierExpensive Tier = "expensive" // export, import, extract
	TierWrite     Tier = "write"     // state mutations
	TierRead      Tier = "read"      // everything else
	TierUnlimited Tier = "unlimited" // health
)

// EndpointConfig assigns a limit to the requests matching Path and Method.
type EndpointConfig struct {
	Path   string        // exact path, or a prefix when it ends with "/"
	Method string        // HTTP method, "*" for any
	Tier   Tier          // budget the request draws from
	Limit  int           // maximum requests per window, 0 for unlimited
	Window time.Duration // time window
	Burst  int           // burst capacity (defaults to Limit if 0)
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	CleanupInterval time.Duration
	Whitelist       map[string]bool
	Blacklist       map[string]bool
	EndpointConfigs []EndpointConfig
}

// LoadConfig builds the configuration from environment variables looked up with getenv.
func LoadConfig(getenv func(string) string) *Config {
	env := envReader(getenv)
	if !env.lookupBool("RATE_LIMIT_ENABLED", true) {
		return &Config{Enabled: false}
	}

	expensive := env.lookupInt("RATE_LIMIT_EXPORT_LIMIT", 30)
	writes := env.lookupInt("RATE_LIMIT_WRITE_LIMIT", 300)

	return &Config{
		Enabled:         true,
		DefaultLimit:    env.lookupInt("RATE_LIMIT_DEFAULT_LIMIT", 1000),
		DefaultWindow:   env.lookupDuration("RATE_LIMIT_DEFAULT_WINDOW", time.Minute),
		CleanupInterval: env.lookupDuration("RATE_LIMIT_CLEANUP_INTERVAL", 5*time.Minute),
		Whitelist:       parseIPList(env.lookupString("RATE_LIMIT_WHITELIST", "")),
		Blacklist:       parseIPList(env.lookupString("RATE_LIMIT_BLACKLIST", "")),
		EndpointConfigs: DefaultEndpointConfigs(expensive, writes),
	}
}

// DefaultEndpointConfigs returns the tiered endpoint limits. expensive and
// writes are per-minute limits for the first two tiers.
func DefaultEndpointConfigs(expensive, writes int) []EndpointConfig {
	strict := func(path, method string) EndpointConfig {
		return EndpointConfig{Path: path, Method: method, Tier: TierExpensive, Limit: expensive, Window: time.Minute, Burst: max(expensive/6, 1)}
	}
	write := func(method string) EndpointConfig {
		return EndpointConfig{Path: "/state", Method: method, Tier: TierWrite, Limit: writes, Window: time.Minute, Burst: max(writes/10, 1)}
	}
	return []EndpointConfig{
		// Tier 1: rendering and extraction
		strict("/export", "*"),
		strict("/import", "POST"),
		strict("/extract", "POST"),

		// Tier 2: state mutations, including every sub-resource under /state/
		write("POST"),
		write("PUT"),
		write("PATCH"),
		write("DELETE"),

		// Tier 3: reads use the default limit
		// Tier 4: health is unlimited, see MatchEndpoint
	}
}

// envReader parses typed values, falling back to the default on absence or parse failure.
type envReader func(string) string

func (e envReader) lookupString(key, defaultValue string) string {
	if value := e(key); value != "" {
		return value
	}
	return defaultValue
}

func (e envReader) lookupInt(key string, defaultValue int) int {
	if v, err := strconv.Atoi(e(key)); err == nil {
		return v
	}
	return defaultValue
}

func (e envReader) lookupBool(key string, defaultValue bool) bool {
	if v, err := strconv.ParseBool(e(key)); err == nil {
		return v
	}
	return defaultValue
}

func (e envReader) lookupDuration(key string, defaultValue time.Duration) time.Duration {
	if v, err := time.ParseDuration(e(key)); err == nil {
		return v
	}
	return defaultValue
}

// parseIPList parses a comma-separated list of IP addresses into a set.
func parseIPList(list string) map[string]bool {
	result := make(map[string]bool)
	for _, ip := range strings.Split(list, ",") {
		if ip = strings.TrimSpace(ip); ip != "" {
			result[ip] = true
		}
	}
	return result
}
