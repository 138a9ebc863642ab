package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all configuration for oraviz-engine.
// Configuration can come from YAML file (config.yaml) or environment variables.
// Environment variables always override YAML values for fields that support both.
// Secrets (the Oracle password) must only come from environment variables.
type Config struct {
	// Server configuration
	BindAddr string `yaml:"bind_addr" env:"BIND_ADDR" env-default:"127.0.0.1"`
	Port     string `yaml:"port" env:"PORT" env-default:"3080"`
	Env      string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	Version  string `yaml:"-"` // Set at load time, not from config

	// Oracle catalog connection
	Oracle OracleConfig `yaml:"oracle"`

	// Chart rendering defaults
	Chart ChartConfig `yaml:"chart"`

	// PatternsFile optionally points to a YAML file overriding the built-in
	// column-role pattern lists.
	PatternsFile string `yaml:"patterns_file" env:"PATTERNS_FILE" env-default:""`
}

// OracleConfig holds Oracle connection settings for catalog metadata access.
type OracleConfig struct {
	Host     string `yaml:"host" env:"ORACLE_HOST" env-default:"localhost"`
	Port     int    `yaml:"port" env:"ORACLE_PORT" env-default:"1521"`
	User     string `yaml:"user" env:"ORACLE_USER" env-default:"system"`
	Password string `yaml:"-" env:"ORACLE_PASSWORD"` // Secret - not in YAML
	Service  string `yaml:"service" env:"ORACLE_SERVICE" env-default:"FREEPDB1"`

	// OwnersStr is a comma-separated list of schema owners to search in
	// addition to the connected user.
	OwnersStr string `yaml:"owners" env:"ORACLE_OWNERS" env-default:""`

	// Owners is the parsed form of OwnersStr (not from config file).
	Owners []string `yaml:"-"`
}

// ChartConfig holds default layout settings for generated chart specs.
type ChartConfig struct {
	Responsive bool `yaml:"responsive" env:"CHART_RESPONSIVE" env-default:"true"`
	Width      int  `yaml:"width" env:"CHART_WIDTH" env-default:"800"`
	Height     int  `yaml:"height" env:"CHART_HEIGHT" env-default:"600"`
}

// Load reads configuration from config.yaml with environment variable
// overrides. The version parameter is injected at build time and set on the
// returned Config. A missing config.yaml is not an error; defaults and
// environment variables still apply.
func Load(version string) (*Config, error) {
	cfg := &Config{
		Version: version,
	}

	if _, err := os.Stat("config.yaml"); err == nil {
		if err := cleanenv.ReadConfig("config.yaml", cfg); err != nil {
			return nil, fmt.Errorf("failed to read config.yaml: %w", err)
		}
	} else {
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("failed to read environment: %w", err)
		}
	}

	cfg.parseComplexFields()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// parseComplexFields handles fields that need post-processing after loading.
func (c *Config) parseComplexFields() {
	c.Oracle.Owners = parseOwners(c.Oracle.OwnersStr)
}

func (c *Config) validate() error {
	if c.Oracle.Port <= 0 || c.Oracle.Port > 65535 {
		return fmt.Errorf("oracle port %d out of range", c.Oracle.Port)
	}
	if c.Chart.Width <= 0 || c.Chart.Height <= 0 {
		return fmt.Errorf("chart dimensions must be positive")
	}
	return nil
}

// parseOwners splits a comma-separated owner list, trimming whitespace and
// dropping empty entries. Owner names are uppercased to match the catalog.
func parseOwners(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	owners := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		owners = append(owners, strings.ToUpper(p))
	}
	if len(owners) == 0 {
		return nil
	}
	return owners
}
