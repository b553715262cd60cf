// Hirstart Recosys - Click Statistics and Article Recommendation
// Copyright 2026 The Hirstart Recosys Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sanchomuzax/hirstart-recosys

package recommend

import (
	"fmt"
	"time"
)

// TopK is how many of the highest-scored candidates the pick is drawn from.
const TopK = 5

// Config configures the recommendation engine.
type Config struct {
	// Seed seeds the random source. Zero seeds from the clock.
	Seed int64 `json:"seed"`

	// Timeout bounds one Recommend or Dismiss call.
	Timeout time.Duration `json:"timeout"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Seed:    0,
		Timeout: 5 * time.Second,
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must be non-negative, got %s", c.Timeout)
	}
	return nil
}
