package authsignup

import (
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
)

type Config struct {
	Enabled           bool          `mapstructure:"enabled"`
	Timeout           time.Duration `mapstructure:"timeout"`
	BcryptCost        int           `mapstructure:"bcrypt_cost"`
	MinPasswordLength int           `mapstructure:"min_password_length"`
	SendWelcomeEmail  bool          `mapstructure:"send_welcome_email"`
}

func DefaultConfig() *Config {
	return &Config{
		Enabled:           true,
		Timeout:           15 * time.Second,
		BcryptCost:        bcrypt.DefaultCost,
		MinPasswordLength: 6,
		SendWelcomeEmail:  true,
	}
}

func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("bcrypt_cost must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}
	if c.MinPasswordLength < 1 {
		return fmt.Errorf("min_password_length must be positive")
	}
	return nil
}
