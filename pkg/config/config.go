package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/osmtools/condroute/pkg/validation"
)

// Config is the top-level server configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Logging LoggingConfig `yaml:"logging"`
	Routing RoutingConfig `yaml:"routing"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	ListenAddr      string        `yaml:"listen_addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// LoggingConfig holds log output settings.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// RoutingConfig holds cost-model settings.
type RoutingConfig struct {
	// Multiplier applied when an active "no" restriction cannot be
	// attributed to the querying vehicle class.
	UnknownRestrictionPenalty float64 `yaml:"unknown_restriction_penalty"`

	// Default node expansion budget for route queries that do not set one.
	DefaultMaxExpansions int `yaml:"default_max_expansions"`

	// Per-highway-class cost multiplier overrides, e.g. motorway: 4.0.
	SpeedFactors map[string]float64 `yaml:"speed_factors"`

	// Per-profile dimension and speed overrides keyed by profile name.
	Profiles map[string]ProfileConfig `yaml:"profiles"`
}

// ProfileConfig overrides the built-in dimensions of a routing profile.
// Zero values leave the built-in default in place.
type ProfileConfig struct {
	WeightTonnes float64 `yaml:"weight_tonnes"`
	HeightMeters float64 `yaml:"height_meters"`
	SpeedKmh     float64 `yaml:"speed_kmh"`
}

// Default returns a configuration with sensible defaults for every field.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			ListenAddr:      ":8080",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 15 * time.Second,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Routing: RoutingConfig{
			UnknownRestrictionPenalty: 1.5,
			DefaultMaxExpansions:      1_000_000,
		},
	}
}

// Load reads a YAML config file and merges it over the defaults.
// An empty path returns the defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	cfg.applyDefaults()
	return cfg, nil
}

// applyDefaults fills in zero-valued fields after unmarshalling.
func (c *Config) applyDefaults() {
	d := Default()
	c.Server.ListenAddr = validation.DefaultOr(c.Server.ListenAddr, d.Server.ListenAddr)
	c.Server.ReadTimeout = validation.DefaultOrDuration(c.Server.ReadTimeout, d.Server.ReadTimeout)
	c.Server.WriteTimeout = validation.DefaultOrDuration(c.Server.WriteTimeout, d.Server.WriteTimeout)
	c.Server.ShutdownTimeout = validation.DefaultOrDuration(c.Server.ShutdownTimeout, d.Server.ShutdownTimeout)
	c.Logging.Level = validation.DefaultOr(c.Logging.Level, d.Logging.Level)
	c.Routing.UnknownRestrictionPenalty = validation.DefaultOrFloat(c.Routing.UnknownRestrictionPenalty, d.Routing.UnknownRestrictionPenalty)
	if c.Routing.DefaultMaxExpansions <= 0 {
		c.Routing.DefaultMaxExpansions = d.Routing.DefaultMaxExpansions
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	cv := validation.NewConfigValidator("Config").
		Required("Server.ListenAddr", c.Server.ListenAddr).
		MinDuration("Server.ReadTimeout", c.Server.ReadTimeout, time.Second).
		MinDuration("Server.WriteTimeout", c.Server.WriteTimeout, time.Second).
		MinDuration("Server.ShutdownTimeout", c.Server.ShutdownTimeout, time.Second).
		OneOf("Logging.Level", c.Logging.Level, []string{"debug", "info", "warn", "error"}).
		RangeFloat("Routing.UnknownRestrictionPenalty", c.Routing.UnknownRestrictionPenalty, 1.0, 100.0).
		Positive("Routing.DefaultMaxExpansions", c.Routing.DefaultMaxExpansions)

	for highway, factor := range c.Routing.SpeedFactors {
		cv.PositiveFloat(fmt.Sprintf("Routing.SpeedFactors[%s]", highway), factor)
	}

	for name, p := range c.Routing.Profiles {
		cv.Custom(fmt.Sprintf("Routing.Profiles[%s]", name), func() error {
			if p.WeightTonnes < 0 {
				return fmt.Errorf("weight_tonnes %g must be non-negative", p.WeightTonnes)
			}
			if p.HeightMeters < 0 {
				return fmt.Errorf("height_meters %g must be non-negative", p.HeightMeters)
			}
			if p.SpeedKmh < 0 {
				return fmt.Errorf("speed_kmh %g must be non-negative", p.SpeedKmh)
			}
			return nil
		})
	}

	return cv.Validate()
}
