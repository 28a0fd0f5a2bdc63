package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all vault configuration
type Config struct {
	// Custody identity
	VaultAddress string

	// Ceilings in 6-decimal normalized units
	AggregateCap  uint64
	WithdrawalCap uint64

	// Registry settings
	MaxAssets int

	// Oracle settings
	MaxPriceAge time.Duration
	MinPrice    uint64
	FeedURL     string

	// Snapshot settings
	SnapshotDir string
}

// NewConfig creates a new configuration with default values
func NewConfig() *Config {
	return &Config{
		VaultAddress:  "vault-core",
		AggregateCap:  1_000_000 * 1_000_000, // $1,000,000
		WithdrawalCap: 50_000 * 1_000_000,    // $50,000
		MaxAssets:     32,
		MaxPriceAge:   time.Hour,
		MinPrice:      1_000_000, // $0.01 in 8-decimal price units
		SnapshotDir:   "~/.vault-core",
	}
}

// LoadFromEnvironment loads configuration from environment variables
func (c *Config) LoadFromEnvironment() {
	if addr := os.Getenv("VAULT_ADDRESS"); addr != "" {
		c.VaultAddress = addr
	}

	if cap := os.Getenv("VAULT_AGGREGATE_CAP"); cap != "" {
		if v, err := strconv.ParseUint(cap, 10, 64); err == nil {
			c.AggregateCap = v
		}
	}

	if cap := os.Getenv("VAULT_WITHDRAWAL_CAP"); cap != "" {
		if v, err := strconv.ParseUint(cap, 10, 64); err == nil {
			c.WithdrawalCap = v
		}
	}

	if max := os.Getenv("VAULT_MAX_ASSETS"); max != "" {
		if m, err := strconv.Atoi(max); err == nil {
			c.MaxAssets = m
		}
	}

	if age := os.Getenv("VAULT_MAX_PRICE_AGE"); age != "" {
		if d, err := time.ParseDuration(age); err == nil {
			c.MaxPriceAge = d
		}
	}

	if min := os.Getenv("VAULT_MIN_PRICE"); min != "" {
		if v, err := strconv.ParseUint(min, 10, 64); err == nil {
			c.MinPrice = v
		}
	}

	if url := os.Getenv("VAULT_FEED_URL"); url != "" {
		c.FeedURL = url
	}

	if dir := os.Getenv("VAULT_SNAPSHOT_DIR"); dir != "" {
		c.SnapshotDir = dir
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.VaultAddress == "" {
		return fmt.Errorf("vault address cannot be empty")
	}

	if c.AggregateCap == 0 {
		return fmt.Errorf("aggregate cap must be non-zero")
	}

	if c.WithdrawalCap == 0 || c.WithdrawalCap > c.AggregateCap {
		return fmt.Errorf("withdrawal cap must be non-zero and at most the aggregate cap, got: %d", c.WithdrawalCap)
	}

	if c.MaxAssets < 1 || c.MaxAssets > 256 {
		return fmt.Errorf("max assets must be between 1 and 256, got: %d", c.MaxAssets)
	}

	if c.MaxPriceAge <= 0 {
		return fmt.Errorf("max price age must be positive, got: %v", c.MaxPriceAge)
	}

	return nil
}
