package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/dsecrist80/workout-tracker-sub000/internal/engine"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	Tailscale TailscaleConfig `yaml:"tailscale"`
	Engine    engine.Config   `yaml:"engine"`
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

type TailscaleConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Hostname string `yaml:"hostname"`
	StateDir string `yaml:"state_dir"`
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

// Load reads config from a YAML file, then applies environment variable
// overrides. The engine section starts from the model defaults, so a config
// file only needs to name the tunables it changes.
//
// Env vars use the prefix WT_ and underscore-separated paths:
//
//	WT_SERVER_HOST, WT_SERVER_PORT,
//	WT_DB_HOST, WT_DB_PORT, WT_DB_NAME,
//	WT_DB_USER, WT_DB_PASSWORD, WT_DB_SSLMODE,
//	WT_AUTH_API_KEY,
//	WT_TAILSCALE_ENABLED, WT_TAILSCALE_HOSTNAME, WT_TAILSCALE_STATE_DIR
func Load(path string) (*Config, error) {
	cfg := &Config{Engine: engine.DefaultConfig()}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("WT_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("WT_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("WT_DB_HOST"); v != "" {
		cfg.Database.Host = v
	}
	if v := os.Getenv("WT_DB_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Database.Port = port
		}
	}
	if v := os.Getenv("WT_DB_NAME"); v != "" {
		cfg.Database.Name = v
	}
	if v := os.Getenv("WT_DB_USER"); v != "" {
		cfg.Database.User = v
	}
	if v := os.Getenv("WT_DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("WT_DB_SSLMODE"); v != "" {
		cfg.Database.SSLMode = v
	}
	if v := os.Getenv("WT_AUTH_API_KEY"); v != "" {
		cfg.Auth.APIKey = v
	}
	if v := os.Getenv("WT_TAILSCALE_ENABLED"); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			cfg.Tailscale.Enabled = enabled
		}
	}
	if v := os.Getenv("WT_TAILSCALE_HOSTNAME"); v != "" {
		cfg.Tailscale.Hostname = v
	}
	if v := os.Getenv("WT_TAILSCALE_STATE_DIR"); v != "" {
		cfg.Tailscale.StateDir = v
	}
}

func (c *Config) validate() error {
	if c.Server.Port == 0 && !c.Tailscale.Enabled {
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
	if c.Tailscale.Enabled && c.Tailscale.Hostname == "" {
		return fmt.Errorf("tailscale.hostname is required when tailscale is enabled")
	}
	if err := validateEngine(c.Engine); err != nil {
		return err
	}
	return nil
}

func validateEngine(e engine.Config) error {
	rates := map[string]float64{
		"engine.local_recovery_rate":    e.LocalRecoveryRate,
		"engine.systemic_recovery_rate": e.SystemicRecoveryRate,
		"engine.stimulus_decay_rate":    e.StimulusDecayRate,
	}
	for name, r := range rates {
		if r <= 0 || r >= 1 {
			return fmt.Errorf("%s must be in (0, 1)", name)
		}
	}
	if e.BaseFatiguePerSet <= 0 {
		return fmt.Errorf("engine.base_fatigue_per_set must be positive")
	}
	if e.DeloadThreshold <= 0 || e.DeloadThreshold >= 1 {
		return fmt.Errorf("engine.deload_threshold must be in (0, 1)")
	}
	if e.ProgressionThreshold <= e.ModerateReadiness {
		return fmt.Errorf("engine.progression_threshold must exceed engine.moderate_readiness")
	}
	return nil
}
