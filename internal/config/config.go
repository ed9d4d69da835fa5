package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	Catalog   CatalogConfig   `yaml:"catalog"`
	Tailscale TailscaleConfig `yaml:"tailscale"`
	MCP       MCPConfig       `yaml:"mcp"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
}

type AuthConfig struct {
	APIKey string `yaml:"api_key"`
}

// Catalog drivers.
const (
	CatalogFile     = "file"
	CatalogSQLite   = "sqlite"
	CatalogPostgres = "postgres"
)

// CatalogConfig selects where exercises are read from. For the file
// driver an empty path means the bundled seed.
type CatalogConfig struct {
	Driver string `yaml:"driver"`
	Path   string `yaml:"path"`
}

type TailscaleConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Hostname string `yaml:"hostname"`
	StateDir string `yaml:"state_dir"`
}

type MCPConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// DSN returns a PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	sslmode := d.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, sslmode)
}

// Load reads config from a YAML file, then applies environment variable overrides.
// Env vars use the prefix TRAINPLAN_ and underscore-separated paths:
//
//	TRAINPLAN_SERVER_HOST, TRAINPLAN_SERVER_PORT,
//	TRAINPLAN_DB_HOST, TRAINPLAN_DB_PORT, TRAINPLAN_DB_NAME,
//	TRAINPLAN_DB_USER, TRAINPLAN_DB_PASSWORD, TRAINPLAN_DB_SSLMODE,
//	TRAINPLAN_AUTH_API_KEY, TRAINPLAN_CATALOG_DRIVER, TRAINPLAN_CATALOG_PATH,
//	TRAINPLAN_TAILSCALE_ENABLED, TRAINPLAN_TAILSCALE_HOSTNAME
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)
	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("TRAINPLAN_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("TRAINPLAN_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("TRAINPLAN_DB_HOST"); v != "" {
		cfg.Database.Host = v
	}
	if v := os.Getenv("TRAINPLAN_DB_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Database.Port = port
		}
	}
	if v := os.Getenv("TRAINPLAN_DB_NAME"); v != "" {
		cfg.Database.Name = v
	}
	if v := os.Getenv("TRAINPLAN_DB_USER"); v != "" {
		cfg.Database.User = v
	}
	if v := os.Getenv("TRAINPLAN_DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("TRAINPLAN_DB_SSLMODE"); v != "" {
		cfg.Database.SSLMode = v
	}
	if v := os.Getenv("TRAINPLAN_AUTH_API_KEY"); v != "" {
		cfg.Auth.APIKey = v
	}
	if v := os.Getenv("TRAINPLAN_CATALOG_DRIVER"); v != "" {
		cfg.Catalog.Driver = v
	}
	if v := os.Getenv("TRAINPLAN_CATALOG_PATH"); v != "" {
		cfg.Catalog.Path = v
	}
	if v := os.Getenv("TRAINPLAN_TAILSCALE_ENABLED"); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			cfg.Tailscale.Enabled = enabled
		}
	}
	if v := os.Getenv("TRAINPLAN_TAILSCALE_HOSTNAME"); v != "" {
		cfg.Tailscale.Hostname = v
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Catalog.Driver == "" {
		cfg.Catalog.Driver = CatalogFile
	}
	if cfg.MCP.Path == "" {
		cfg.MCP.Path = "/mcp"
	}
	if cfg.Tailscale.Hostname == "" {
		cfg.Tailscale.Hostname = "trainplan"
	}
}

func (c *Config) validate() error {
	if c.Server.Port == 0 {
		return fmt.Errorf("server.port is required")
	}
	if c.Database.Host == "" {
		return fmt.Errorf("database.host is required")
	}
	if c.Database.Port == 0 {
		return fmt.Errorf("database.port is required")
	}
	if c.Database.Name == "" {
		return fmt.Errorf("database.name is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database.user is required")
	}
	if c.Auth.APIKey == "" {
		return fmt.Errorf("auth.api_key is required")
	}
	switch c.Catalog.Driver {
	case CatalogFile, CatalogPostgres:
	case CatalogSQLite:
		if c.Catalog.Path == "" {
			return fmt.Errorf("catalog.path is required for the sqlite driver")
		}
	default:
		return fmt.Errorf("catalog.driver must be one of file, sqlite, postgres; got %q", c.Catalog.Driver)
	}
	return nil
}
