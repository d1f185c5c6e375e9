// Package ratelimit provides per-client, per-tier token bucket rate limiting.
package ratelimit

import (
	"sync"
	"time"
)

// bucket refills at a steady rate up to its capacity.
type bucket struct {
	mu         sync.Mutex
	capacity   float64
	refillRate float64 // tokens per second
	tokens     float64
	lastRefill time.Time
	lastAccess time.Time
}

func newBucket(capacity int, refillRate float64, now time.Time) *bucket {
	return &bucket{
		capacity:   float64(capacity),
		refillRate: refillRate,
		tokens:     float64(capacity),
		lastRefill: now,
		lastAccess: now,
	}
}

func (b *bucket) refill(now time.Time) {
	if elapsed := now.Sub(b.lastRefill); elapsed > 0 {
		b.tokens = min(b.capacity, b.tokens+elapsed.Seconds()*b.refillRate)
		b.lastRefill = now
	}
}

// take consumes one token if available and reports the bucket state afterwards.
func (b *bucket) take(now time.Time) (allowed bool, remaining int, resetTime time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.refill(now)
	b.lastAccess = now
	if b.tokens >= 1 {
		b.tokens--
		allowed = true
	}

	remaining = int(b.tokens)
	resetTime = now
	if missing := b.capacity - b.tokens; missing > 0 {
		resetTime = now.Add(time.Duration(missing / b.refillRate * float64(time.Second)))
	}
	return allowed, remaining, resetTime
}

// retryAfter is the wait until one token is available.
func (b *bucket) retryAfter() time.Duration {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.tokens >= 1 {
		return 0
	}
	return time.Duration((1 - b.tokens) / b.refillRate * float64(time.Second))
}

func (b *bucket) idleSince(cutoff time.Time) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastAccess.Before(cutoff)
}

// Info contains information about rate limit status.
type Info struct {
	Allowed    bool
	Tier       Tier
	Limit      int
	Remaining  int
	ResetTime  time.Time
	RetryAfter time.Duration
}

// Limiter manages rate limiting for multiple clients.
type Limiter struct {
	config *Config
	now    func() time.Time

	mu      sync.Mutex
	buckets map[string]*bucket // client + tier -> bucket

	stopOnce sync.Once
	stop     chan struct{}
}

// NewLimiter creates a new rate limiter with the given configuration.
func NewLimiter(config *Config) *Limiter {
	if config == nil {
		config = &Config{
			Enabled:         true,
			DefaultLimit:    1000,
			DefaultWindow:   time.Minute,
			CleanupInterval: 5 * time.Minute,
		}
	}

	l := &Limiter{
		config:  config,
		now:     time.Now,
		buckets: make(map[string]*bucket),
		stop:    make(chan struct{}),
	}
	if config.Enabled && config.CleanupInterval > 0 {
		go l.cleanupLoop(config.CleanupInterval)
	}
	return l
}

// Allow checks if a request from the given client is allowed for the specified endpoint.
func (l *Limiter) Allow(clientID string, endpoint string, method string) (bool, Info) {
	if !l.config.Enabled || l.config.Whitelist[clientID] {
		return true, Info{Allowed: true}
	}
	if l.config.Blacklist[clientID] {
		return false, Info{Allowed: false}
	}

	ec := MatchEndpoint(endpoint, method, l.config.EndpointConfigs)
	if ec == nil {
		ec = &EndpointConfig{
			Tier:   TierRead,
			Limit:  l.config.DefaultLimit,
			Window: l.config.DefaultWindow,
			Burst:  l.config.DefaultLimit,
		}
	}
	if ec.Limit <= 0 || ec.Window <= 0 {
		return true, Info{Allowed: true, Tier: ec.Tier}
	}

	now := l.now()
	b := l.bucketFor(clientID+":"+string(ec.Tier), ec, now)
	allowed, remaining, resetTime := b.take(now)

	info := Info{
		Allowed:   allowed,
		Tier:      ec.Tier,
		Limit:     ec.Limit,
		Remaining: remaining,
		ResetTime: resetTime,
	}
	if !allowed {
		info.RetryAfter = b.retryAfter()
	}
	return allowed, info
}

func (l *Limiter) bucketFor(key string, ec *EndpointConfig, now time.Time) *bucket {
	l.mu.Lock()
	defer l.mu.Unlock()
	if b, ok := l.buckets[key]; ok {
		return b
	}
	capacity := ec.Burst
	if capacity <= 0 {
		capacity = ec.Limit
	}
	b := newBucket(capacity, float64(ec.Limit)/ec.Window.Seconds(), now)
	l.buckets[key] = b
	return b
}

func (l *Limiter) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			l.cleanup(time.Hour)
		case <-l.stop:
			return
		}
	}
}

// cleanup removes buckets that have not been used within maxIdle.
func (l *Limiter) cleanup(maxIdle time.Duration) int {
	cutoff := l.now().Add(-maxIdle)
	l.mu.Lock()
	defer l.mu.Unlock()
	removed := 0
	for key, b := range l.buckets {
		if b.idleSince(cutoff) {
			delete(l.buckets, key)
			removed++
		}
	}
	return removed
}

// Stop stops the cleanup goroutine. Stop is idempotent.
func (l *Limiter) Stop() {
	l.stopOnce.Do(func() { close(l.stop) })
}
