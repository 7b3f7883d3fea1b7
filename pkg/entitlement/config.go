package entitlement

import "time"

// Config carries the evaluator's runtime policy knobs. Fields map to the
// environment variables recognized by this core.
type Config struct {
	// CacheTTLSeconds is the lifetime of a cached entitlement snapshot.
	CacheTTLSeconds int `env:"ENTITLEMENT_CACHE_TTL_SECONDS" envDefault:"3600"`

	// GraceEnabled keeps a downgraded merchant on its previous plan's
	// entitlements for GraceDays after the downgrade.
	GraceEnabled bool `env:"ENABLE_GRACE_PERIOD_FOR_DOWNGRADES" envDefault:"false"`

	// GraceDays is the length of the post-downgrade grace window.
	GraceDays int `env:"DOWNGRADE_GRACE_PERIOD_DAYS" envDefault:"7"`
}

// DefaultConfig returns the documented defaults.
func DefaultConfig() Config {
	return Config{
		CacheTTLSeconds: 3600,
		GraceEnabled:    false,
		GraceDays:       7,
	}
}

// Validate rejects negative values.
func (c Config) Validate() error {
	if c.CacheTTLSeconds < 0 || c.GraceDays < 0 {
		return ErrInvalidConfig
	}
	return nil
}

// CacheTTL returns the snapshot lifetime as a duration.
func (c Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}
