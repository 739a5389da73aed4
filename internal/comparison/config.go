package comparison

import (
	"golang.org/x/text/currency"
)

// DefaultCurrency is used when a listing or result carries no currency.
const DefaultCurrency = "JOD"

// Config holds the settings for basket comparison.
type Config struct {
	DefaultCurrency string `mapstructure:"default_currency"`
	Parallelism     int    `mapstructure:"parallelism"`      // concurrent per-store calculations
	MaxBasketItems  int    `mapstructure:"max_basket_items"` // enforced by callers
}

// DefaultConfig returns the default comparison configuration.
func DefaultConfig() *Config {
	return &Config{
		DefaultCurrency: DefaultCurrency,
		Parallelism:     4,
		MaxBasketItems:  100,
	}
}

// Validate validates the configuration and returns an error if invalid.
func (c *Config) Validate() error {
	if c.DefaultCurrency == "" {
		return ErrInvalidConfig{Field: "default_currency", Reason: "cannot be empty"}
	}
	if _, err := currency.ParseISO(c.DefaultCurrency); err != nil {
		return ErrInvalidConfig{Field: "default_currency", Reason: "must be an ISO 4217 code"}
	}
	if c.Parallelism < 1 {
		return ErrInvalidConfig{Field: "parallelism", Reason: "must be at least 1"}
	}
	if c.MaxBasketItems < 1 {
		return ErrInvalidConfig{Field: "max_basket_items", Reason: "must be at least 1"}
	}
	return nil
}

// ErrInvalidConfig is returned when the configuration is invalid.
type ErrInvalidConfig struct {
	Field  string
	Reason string
}

func (e ErrInvalidConfig) Error() string {
	return e.Field + ": " + e.Reason
}
