package oracle

import (
	"fmt"

	go_ora "github.com/sijms/go-ora/v2"
)

// Config contains Oracle-specific connection options.
type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	Service  string

	// Owners are the additional schema owners searched in catalog queries,
	// alongside the connected user.
	Owners []string
}

// DefaultPort returns the default Oracle listener port.
func DefaultPort() int {
	return 1521
}

// ConnectionString builds a go-ora connection URL from the config.
func (c *Config) ConnectionString() string {
	port := c.Port
	if port == 0 {
		port = DefaultPort()
	}
	return go_ora.BuildUrl(c.Host, port, c.Service, c.User, c.Password, nil)
}

// Validate checks the required connection fields.
func (c *Config) Validate() error {
	if c.Host == "" {
		return fmt.Errorf("host is required")
	}
	if c.User == "" {
		return fmt.Errorf("user is required")
	}
	if c.Service == "" {
		return fmt.Errorf("service is required")
	}
	return nil
}
