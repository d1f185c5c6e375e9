package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// DefaultJWTExpirationHours is used when JWT_EXPIRATION_HOURS is unset.
const DefaultJWTExpirationHours = 24

// JWTConfig holds configuration for API token signing and verification.
type JWTConfig struct {
	Secret          string
	ExpirationHours int
}

// NewJWTConfig creates a JWT configuration from environment variables.
// It reads JWT_SECRET (required) and JWT_EXPIRATION_HOURS (default: 24).
func NewJWTConfig() (*JWTConfig, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required but not set")
	}
	return newJWTConfig(secret, os.Getenv("JWT_EXPIRATION_HOURS"))
}

// OptionalJWTConfig is NewJWTConfig for callers where auth is opt-in:
// it returns nil, nil when JWT_SECRET is unset.
func OptionalJWTConfig() (*JWTConfig, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, nil
	}
	return newJWTConfig(secret, os.Getenv("JWT_EXPIRATION_HOURS"))
}

func newJWTConfig(secret, expiration string) (*JWTConfig, error) {
	hours := DefaultJWTExpirationHours
	if expiration != "" {
		var err error
		hours, err = strconv.Atoi(expiration)
		if err != nil {
			return nil, fmt.Errorf("invalid JWT_EXPIRATION_HOURS: %v", err)
		}
	}

	cfg := &JWTConfig{Secret: secret, ExpirationHours: hours}
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Expiration returns the token lifetime.
func (c *JWTConfig) Expiration() time.Duration {
	return time.Duration(c.ExpirationHours) * time.Hour
}

func (c *JWTConfig) normalize() error {
	if c.Secret == "" {
		return fmt.Errorf("JWT_SECRET cannot be empty")
	}
	if c.ExpirationHours < 1 {
		return fmt.Errorf("JWT_EXPIRATION_HOURS must be at least 1 hour, got: %d", c.ExpirationHours)
	}
	return nil
}
