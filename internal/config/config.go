package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Courses   CoursesConfig   `mapstructure:"courses"`
	Elevation ElevationConfig `mapstructure:"elevation"`
	Engine    EngineConfig    `mapstructure:"engine"`
	Clubs     []ClubConfig    `mapstructure:"clubs"`
	Log       LogConfig       `mapstructure:"log"`
}

type ServerConfig struct {
	Port        int      `mapstructure:"port"`
	CorsOrigins []string `mapstructure:"cors_origins"`
}

// CoursesConfig holds the course feed settings
type CoursesConfig struct {
	FeedURL  string        `mapstructure:"feed_url"`
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

// ElevationConfig holds the elevation service settings. Leaving the API key
// empty disables elevation adjustment entirely; lookups then fall back to
// horizontal distance.
type ElevationConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Enabled bool   `mapstructure:"enabled"`
}

// EngineConfig holds the engine's tuning constants
type EngineConfig struct {
	DispersionCoefficient float64 `mapstructure:"dispersion_coefficient"`
	BaseZoom              float64 `mapstructure:"base_zoom"`
	MaxZoom               float64 `mapstructure:"max_zoom"`
	CameraCeiling         float64 `mapstructure:"camera_ceiling"`
	CameraFactor          float64 `mapstructure:"camera_factor"`
	ElevationFactor       float64 `mapstructure:"elevation_factor"`
}

// ClubConfig seeds the club store
type ClubConfig struct {
	Name     string `mapstructure:"name"`
	Distance int    `mapstructure:"distance"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from file and environment variables.
func Load() (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("courses.feed_url", "https://swingify.s3.ap-southeast-2.amazonaws.com")
	v.SetDefault("courses.cache_ttl", 10*time.Minute)
	v.SetDefault("elevation.api_key", "")
	v.SetDefault("elevation.enabled", true)
	v.SetDefault("engine.dispersion_coefficient", 0.10)
	v.SetDefault("engine.base_zoom", 0.0005)
	v.SetDefault("engine.max_zoom", 0.003)
	v.SetDefault("engine.camera_ceiling", 1000.0)
	v.SetDefault("engine.camera_factor", 2.3)
	v.SetDefault("engine.elevation_factor", 0.7)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("clubs", defaultClubs())

	// Config file (optional)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	_ = v.ReadInConfig() // OK if missing

	// Environment variables: SWINGIFY_ELEVATION_API_KEY → elevation.api_key
	v.SetEnvPrefix("SWINGIFY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks that required configuration fields are present and sane.
func (c *Config) Validate() error {
	var errs []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port must be 1-65535, got %d", c.Server.Port))
	}
	if c.Courses.FeedURL == "" {
		errs = append(errs, "courses.feed_url is required")
	}
	if c.Courses.CacheTTL <= 0 {
		errs = append(errs, "courses.cache_ttl must be positive")
	}
	if c.Engine.DispersionCoefficient <= 0 || c.Engine.DispersionCoefficient >= 1 {
		errs = append(errs, fmt.Sprintf("engine.dispersion_coefficient must be in (0, 1), got %g", c.Engine.DispersionCoefficient))
	}
	if c.Engine.BaseZoom <= 0 {
		errs = append(errs, "engine.base_zoom must be positive")
	}
	if c.Engine.MaxZoom < c.Engine.BaseZoom {
		errs = append(errs, "engine.max_zoom must be >= engine.base_zoom")
	}
	if c.Engine.CameraCeiling <= 0 {
		errs = append(errs, "engine.camera_ceiling must be positive")
	}
	if c.Engine.CameraFactor <= 0 {
		errs = append(errs, "engine.camera_factor must be positive")
	}
	if c.Engine.ElevationFactor <= 0 {
		errs = append(errs, "engine.elevation_factor must be positive")
	}
	// elevation.enabled without an API key is not an error: lookups
	// degrade to horizontal distance at runtime
	for _, club := range c.Clubs {
		if club.Name == "" || club.Distance <= 0 {
			errs = append(errs, fmt.Sprintf("invalid seed club %q (distance %d)", club.Name, club.Distance))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// defaultClubs is a representative starting bag; players tune their own
// distances through the API.
func defaultClubs() []map[string]interface{} {
	return []map[string]interface{}{
		{"name": "Driver", "distance": 230},
		{"name": "3 Wood", "distance": 215},
		{"name": "5 Iron", "distance": 170},
		{"name": "7 Iron", "distance": 150},
		{"name": "9 Iron", "distance": 125},
		{"name": "Pitching Wedge", "distance": 110},
		{"name": "Sand Wedge", "distance": 80},
		{"name": "Putter", "distance": 10},
	}
}
