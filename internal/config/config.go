package config

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sells-group/roster-cli/internal/model"
)

// Validation modes accepted by Config.Validate.
const (
	ModeSync    = "sync"
	ModeCombine = "combine"
	ModeExport  = "export"
	ModeCache   = "cache"
)

// Config holds the full application configuration.
type Config struct {
	API     APIConfig     `yaml:"api" mapstructure:"api"`
	Geocode GeocodeConfig `yaml:"geocode" mapstructure:"geocode"`
	Fetch   FetchConfig   `yaml:"fetch" mapstructure:"fetch"`
	Output  OutputConfig  `yaml:"output" mapstructure:"output"`
	Seasons SeasonsConfig `yaml:"seasons" mapstructure:"seasons"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

// APIConfig configures the upstream roster API.
type APIConfig struct {
	BaseURL     string  `yaml:"base_url" mapstructure:"base_url"`
	TimeoutSecs int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	UserAgent   string  `yaml:"user_agent" mapstructure:"user_agent"`
	RatePerSec  float64 `yaml:"rate_per_sec" mapstructure:"rate_per_sec"`
}

// GeocodeConfig configures the geocoder, its retry policy and its cache.
type GeocodeConfig struct {
	BaseURL          string  `yaml:"base_url" mapstructure:"base_url"`
	UserAgent        string  `yaml:"user_agent" mapstructure:"user_agent"`
	Email            string  `yaml:"email" mapstructure:"email"`
	TimeoutSecs      int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	RatePerSec       float64 `yaml:"rate_per_sec" mapstructure:"rate_per_sec"`
	MaxAttempts      int     `yaml:"max_attempts" mapstructure:"max_attempts"`
	InitialBackoffMs int     `yaml:"initial_backoff_ms" mapstructure:"initial_backoff_ms"`
	Multiplier       float64 `yaml:"multiplier" mapstructure:"multiplier"`
	CacheEnabled     bool    `yaml:"cache_enabled" mapstructure:"cache_enabled"`
	CachePath        string  `yaml:"cache_path" mapstructure:"cache_path"`
	CacheTTLDays     int     `yaml:"cache_ttl_days" mapstructure:"cache_ttl_days"`
}

// FetchConfig holds fetch-mode defaults.
type FetchConfig struct {
	Limit    int    `yaml:"limit" mapstructure:"limit"`
	Division string `yaml:"division" mapstructure:"division"`
}

// OutputConfig locates the combined dataset and the audit slices.
type OutputConfig struct {
	Dir         string `yaml:"dir" mapstructure:"dir"`
	DatasetFile string `yaml:"dataset_file" mapstructure:"dataset_file"`
	SlicesDir   string `yaml:"slices_dir" mapstructure:"slices_dir"`
}

// SeasonsConfig overlays the built-in year → season id tables.
type SeasonsConfig struct {
	Men   map[string]string `yaml:"men" mapstructure:"men"`
	Women map[string]string `yaml:"women" mapstructure:"women"`
}

// Overrides returns the season overlay keyed by division.
func (s SeasonsConfig) Overrides() map[model.Division]map[string]string {
	out := map[model.Division]map[string]string{}
	if len(s.Men) > 0 {
		out[model.DivisionMen] = s.Men
	}
	if len(s.Women) > 0 {
		out[model.DivisionWomen] = s.Women
	}
	return out
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("ROSTER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("api.base_url", "https://api.ussquash.com/resources")
	v.SetDefault("api.timeout_secs", 30)
	v.SetDefault("api.user_agent", "roster-cli/1.0")
	v.SetDefault("api.rate_per_sec", 5.0)
	v.SetDefault("geocode.base_url", "https://nominatim.openstreetmap.org")
	v.SetDefault("geocode.user_agent", "roster-cli/1.0")
	v.SetDefault("geocode.timeout_secs", 10)
	v.SetDefault("geocode.rate_per_sec", 1.0)
	v.SetDefault("geocode.max_attempts", 3)
	v.SetDefault("geocode.initial_backoff_ms", 1000)
	v.SetDefault("geocode.multiplier", 2.0)
	v.SetDefault("geocode.cache_enabled", true)
	v.SetDefault("geocode.cache_path", "geocode_cache.db")
	v.SetDefault("geocode.cache_ttl_days", 90)
	v.SetDefault("fetch.limit", 200)
	v.SetDefault("fetch.division", "both")
	v.SetDefault("output.dir", ".")
	v.SetDefault("output.dataset_file", "players.json")
	v.SetDefault("output.slices_dir", "slices")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the settings a command mode depends on.
func (c *Config) Validate(mode string) error {
	var problems []string

	switch mode {
	case ModeSync:
		if strings.TrimSpace(c.API.BaseURL) == "" {
			problems = append(problems, "api.base_url is required")
		}
		if c.Fetch.Limit <= 0 {
			problems = append(problems, "fetch.limit must be positive")
		}
		if _, err := model.ParseDivisionSelector(c.Fetch.Division); err != nil {
			problems = append(problems, fmt.Sprintf("fetch.division %q must be men, women or both", c.Fetch.Division))
		}
		problems = append(problems, c.validateGeocode()...)
	case ModeCombine, ModeExport:
	case ModeCache:
		if strings.TrimSpace(c.Geocode.CachePath) == "" {
			problems = append(problems, "geocode.cache_path is required")
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if strings.TrimSpace(c.Output.Dir) == "" {
		problems = append(problems, "output.dir is required")
	}

	if len(problems) > 0 {
		return eris.Errorf("config: invalid for %s: %s", mode, strings.Join(problems, "; "))
	}
	return nil
}

func (c *Config) validateGeocode() []string {
	var problems []string
	g := c.Geocode
	if strings.TrimSpace(g.UserAgent) == "" {
		problems = append(problems, "geocode.user_agent is required")
	}
	if g.MaxAttempts < 1 {
		problems = append(problems, "geocode.max_attempts must be at least 1")
	}
	if g.InitialBackoffMs < 0 {
		problems = append(problems, "geocode.initial_backoff_ms must not be negative")
	}
	if g.Multiplier < 1 {
		problems = append(problems, "geocode.multiplier must be at least 1")
	}
	if g.RatePerSec <= 0 {
		problems = append(problems, "geocode.rate_per_sec must be positive")
	}
	if g.CacheEnabled && strings.TrimSpace(g.CachePath) == "" {
		problems = append(problems, "geocode.cache_path is required when the cache is enabled")
	}
	return problems
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
