package predictionhistory

import (
	"fmt"
	"time"
)

type Config struct {
	Enabled      bool          `mapstructure:"enabled"`
	Timeout      time.Duration `mapstructure:"timeout"`
	DefaultLimit int           `mapstructure:"default_limit"`
	SheetName    string        `mapstructure:"sheet_name"`
}

func DefaultConfig() *Config {
	return &Config{
		Enabled:      true,
		Timeout:      10 * time.Second,
		DefaultLimit: 10,
		SheetName:    "Predictions",
	}
}

func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.DefaultLimit < 1 {
		return fmt.Errorf("default_limit must be at least 1")
	}
	if c.SheetName == "" {
		return fmt.Errorf("sheet_name is required")
	}
	return nil
}
