package ratelimit

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock is advanced by hand so refill tests do not sleep.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func newTestLimiter(t *testing.T, cfg *Config) (*Limiter, *fakeClock) {
	t.Helper()
	l := NewLimiter(cfg)
	t.Cleanup(l.Stop)
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	l.now = clock.now
	return l, clock
}

func TestBucket_TakeAndRefill(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	b := newBucket(10, 1.0, start)

	for i := 0; i < 10; i++ {
		allowed, _, _ := b.take(start)
		require.True(t, allowed, "request %d should be allowed", i+1)
	}
	allowed, remaining, reset := b.take(start)
	assert.False(t, allowed, "11th request should be denied")
	assert.Equal(t, 0, remaining)
	assert.Equal(t, start.Add(10*time.Second), reset)
	assert.Equal(t, time.Second, b.retryAfter())

	allowed, _, _ = b.take(start.Add(1100 * time.Millisecond))
	assert.True(t, allowed, "one token refills after a second")
}

func TestLimiter_DefaultTier(t *testing.T) {
	l, _ := newTestLimiter(t, &Config{Enabled: true, DefaultLimit: 10, DefaultWindow: time.Minute})

	for i := 0; i < 10; i++ {
		allowed, info := l.Allow("127.0.0.1", "/state", "GET")
		require.True(t, allowed, "request %d should be allowed", i+1)
		assert.Equal(t, TierRead, info.Tier)
		assert.Equal(t, 10, info.Limit)
	}

	allowed, info := l.Allow("127.0.0.1", "/state", "GET")
	assert.False(t, allowed)
	assert.Greater(t, info.RetryAfter, time.Duration(0))

	// Other clients have their own budget.
	allowed, _ = l.Allow("10.0.0.2", "/state", "GET")
	assert.True(t, allowed)
}

func TestLimiter_Refill(t *testing.T) {
	l, clock := newTestLimiter(t, &Config{Enabled: true, DefaultLimit: 60, DefaultWindow: time.Minute})
	for i := 0; i < 60; i++ {
		l.Allow("c", "/state", "GET")
	}
	allowed, _ := l.Allow("c", "/state", "GET")
	require.False(t, allowed)

	clock.advance(time.Second)
	allowed, _ = l.Allow("c", "/state", "GET")
	assert.True(t, allowed)
}

func TestLimiter_WhitelistAndBlacklist(t *testing.T) {
	l, _ := newTestLimiter(t, &Config{
		Enabled:       true,
		DefaultLimit:  1,
		DefaultWindow: time.Minute,
		Whitelist:     map[string]bool{"10.0.0.1": true},
		Blacklist:     map[string]bool{"10.0.0.66": true},
	})

	for i := 0; i < 5; i++ {
		allowed, _ := l.Allow("10.0.0.1", "/state", "GET")
		assert.True(t, allowed)
	}
	allowed, _ := l.Allow("10.0.0.66", "/health", "GET")
	assert.False(t, allowed)
}

func TestLimiter_Disabled(t *testing.T) {
	l, _ := newTestLimiter(t, LoadConfig(func(k string) string {
		if k == "RATE_LIMIT_ENABLED" {
			return "false"
		}
		return ""
	}))
	for i := 0; i < 100; i++ {
		allowed, _ := l.Allow("c", "/export", "POST")
		require.True(t, allowed)
	}
}

func TestLimiter_TiersShareBudget(t *testing.T) {
	l, _ := newTestLimiter(t, &Config{
		Enabled:         true,
		DefaultLimit:    1000,
		DefaultWindow:   time.Minute,
		EndpointConfigs: DefaultEndpointConfigs(6, 300),
	})

	// Burst for the expensive tier is 1: export and import draw from the same bucket.
	allowed, info := l.Allow("c", "/export", "POST")
	require.True(t, allowed)
	assert.Equal(t, TierExpensive, info.Tier)

	allowed, _ = l.Allow("c", "/import", "POST")
	assert.False(t, allowed)

	// Writes and reads are unaffected.
	allowed, info = l.Allow("c", "/state/work/w1", "PATCH")
	assert.True(t, allowed)
	assert.Equal(t, TierWrite, info.Tier)
	allowed, _ = l.Allow("c", "/state", "GET")
	assert.True(t, allowed)
}

func TestLimiter_HealthUnlimited(t *testing.T) {
	l, _ := newTestLimiter(t, &Config{Enabled: true, DefaultLimit: 1, DefaultWindow: time.Minute})
	for i := 0; i < 50; i++ {
		allowed, info := l.Allow("c", "/health", "GET")
		require.True(t, allowed)
		assert.Equal(t, TierUnlimited, info.Tier)
	}
}

func TestLimiter_Concurrent(t *testing.T) {
	l, _ := newTestLimiter(t, &Config{Enabled: true, DefaultLimit: 100, DefaultWindow: time.Hour})

	var allowedCount atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := l.Allow("c", "/state", "GET"); ok {
				allowedCount.Add(1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(100), allowedCount.Load())
}

func TestLimiter_Cleanup(t *testing.T) {
	l, clock := newTestLimiter(t, &Config{Enabled: true, DefaultLimit: 10, DefaultWindow: time.Minute})
	for i := 0; i < 3; i++ {
		l.Allow(fmt.Sprintf("client-%d", i), "/state", "GET")
	}

	clock.advance(30 * time.Minute)
	l.Allow("client-0", "/state", "GET")
	clock.advance(45 * time.Minute)

	assert.Equal(t, 2, l.cleanup(time.Hour))
	assert.Len(t, l.buckets, 1)
}

func TestNewLimiter_NilConfig(t *testing.T) {
	l := NewLimiter(nil)
	defer l.Stop()
	allowed, info := l.Allow("c", "/anything", "GET")
	assert.True(t, allowed)
	assert.Equal(t, 1000, info.Limit)
	l.Stop()
}

func TestMatchEndpoint(t *testing.T) {
	configs := DefaultEndpointConfigs(30, 300)
	tests := []struct {
		path, method string
		want         Tier
	}{
		{"/health", "GET", TierUnlimited},
		{"/export", "GET", TierExpensive},
		{"/export", "POST", TierExpensive},
		{"/import", "POST", TierExpensive},
		{"/state/resume", "PUT", TierWrite},
		{"/state", "DELETE", TierWrite},
		{"/state/custom-sections/s1/items/i1", "PATCH", TierWrite},
		{"/state", "GET", ""},
		{"/stateful", "POST", ""},
		{"/preview", "GET", ""},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			ec := MatchEndpoint(tt.path, tt.method, configs)
			if tt.want == "" {
				assert.Nil(t, ec)
				return
			}
			require.NotNil(t, ec)
			assert.Equal(t, tt.want, ec.Tier)
		})
	}
}

func TestLoadConfig(t *testing.T) {
	env := map[string]string{
		"RATE_LIMIT_DEFAULT_LIMIT": "50",
		"RATE_LIMIT_EXPORT_LIMIT":  "12",
		"RATE_LIMIT_WHITELIST":     "10.0.0.1, 10.0.0.2,",
		"RATE_LIMIT_WRITE_LIMIT":   "not-a-number",
	}
	cfg := LoadConfig(func(k string) string { return env[k] })

	assert.True(t, cfg.Enabled)
	assert.Equal(t, 50, cfg.DefaultLimit)
	assert.Equal(t, time.Minute, cfg.DefaultWindow)
	assert.Equal(t, map[string]bool{"10.0.0.1": true, "10.0.0.2": true}, cfg.Whitelist)
	assert.Empty(t, cfg.Blacklist)

	export := MatchEndpoint("/export", "POST", cfg.EndpointConfigs)
	require.NotNil(t, export)
	assert.Equal(t, 12, export.Limit)
	write := MatchEndpoint("/state", "PUT", cfg.EndpointConfigs)
	require.NotNil(t, write)
	assert.Equal(t, 300, write.Limit, "unparseable values fall back to the default")
}
