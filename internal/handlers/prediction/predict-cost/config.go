package predictcost

import (
	"fmt"
	"time"
)

type Config struct {
	Enabled        bool          `mapstructure:"enabled"`
	Timeout        time.Duration `mapstructure:"timeout"`
	HistoryEnabled bool          `mapstructure:"history_enabled"`
	AlertsEnabled  bool          `mapstructure:"alerts_enabled"`
}

func DefaultConfig() *Config {
	return &Config{
		Enabled:        true,
		Timeout:        10 * time.Second,
		HistoryEnabled: true,
		AlertsEnabled:  true,
	}
}

func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	return nil
}
