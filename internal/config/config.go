package config

import (
	"errors"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Census       CensusConfig       `yaml:"census" mapstructure:"census"`
	BLS          BLSConfig          `yaml:"bls" mapstructure:"bls"`
	Education    EducationConfig    `yaml:"education" mapstructure:"education"`
	Demographics DemographicsConfig `yaml:"demographics" mapstructure:"demographics"`
	HTTP         HTTPConfig         `yaml:"http" mapstructure:"http"`
	Resilience   ResilienceConfig   `yaml:"resilience" mapstructure:"resilience"`
	Cache        CacheConfig        `yaml:"cache" mapstructure:"cache"`
	Batch        BatchConfig        `yaml:"batch" mapstructure:"batch"`
	Server       ServerConfig       `yaml:"server" mapstructure:"server"`
	Monitoring   MonitoringConfig   `yaml:"monitoring" mapstructure:"monitoring"`
	Log          LogConfig          `yaml:"log" mapstructure:"log"`
}

// CensusConfig configures the Census Bureau data API.
type CensusConfig struct {
	APIKey          string   `yaml:"api_key" mapstructure:"api_key"`
	BaseURL         string   `yaml:"base_url" mapstructure:"base_url"`
	ACSYear         string   `yaml:"acs_year" mapstructure:"acs_year"`
	CBPYear         string   `yaml:"cbp_year" mapstructure:"cbp_year"`
	HistoricalYears []string `yaml:"historical_years" mapstructure:"historical_years"`
}

// BLSConfig configures the BLS public data API. Without an API key the
// employment adapter serves estimates.
type BLSConfig struct {
	APIKey  string `yaml:"api_key" mapstructure:"api_key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// EducationConfig configures College Scorecard and the CCD school directory.
// Without an API key the education adapter serves estimates.
type EducationConfig struct {
	APIKey           string `yaml:"api_key" mapstructure:"api_key"`
	ScorecardBaseURL string `yaml:"scorecard_base_url" mapstructure:"scorecard_base_url"`
	CCDBaseURL       string `yaml:"ccd_base_url" mapstructure:"ccd_base_url"`
	CCDYear          string `yaml:"ccd_year" mapstructure:"ccd_year"`
	MaxPages         int    `yaml:"max_pages" mapstructure:"max_pages"`
}

// DemographicsConfig configures report generation.
type DemographicsConfig struct {
	AdapterTimeoutSecs int `yaml:"adapter_timeout_secs" mapstructure:"adapter_timeout_secs"`
}

// HTTPConfig configures the shared upstream HTTP client.
type HTTPConfig struct {
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	MaxRetries  int    `yaml:"max_retries" mapstructure:"max_retries"`
	UserAgent   string `yaml:"user_agent" mapstructure:"user_agent"`
}

// ResilienceConfig configures per-upstream circuit breakers.
type ResilienceConfig struct {
	FailureThreshold int `yaml:"failure_threshold" mapstructure:"failure_threshold"`
	ResetTimeoutSecs int `yaml:"reset_timeout_secs" mapstructure:"reset_timeout_secs"`
}

// CacheConfig configures the report cache backend.
type CacheConfig struct {
	Enabled     bool   `yaml:"enabled" mapstructure:"enabled"`
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	SQLitePath  string `yaml:"sqlite_path" mapstructure:"sqlite_path"`
	RedisAddr   string `yaml:"redis_addr" mapstructure:"redis_addr"`
	TTLHours    int    `yaml:"ttl_hours" mapstructure:"ttl_hours"`
}

// BatchConfig configures batch report generation.
type BatchConfig struct {
	MaxConcurrentCities int `yaml:"max_concurrent_cities" mapstructure:"max_concurrent_cities"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port            int      `yaml:"port" mapstructure:"port"`
	RateLimitPerMin int      `yaml:"rate_limit_per_min" mapstructure:"rate_limit_per_min"`
	AllowedOrigins  []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
}

// MonitoringConfig configures upstream health alerts.
type MonitoringConfig struct {
	WebhookURL            string  `yaml:"webhook_url" mapstructure:"webhook_url"`
	CheckIntervalSecs     int     `yaml:"check_interval_secs" mapstructure:"check_interval_secs"`
	FailureRateThreshold  float64 `yaml:"failure_rate_threshold" mapstructure:"failure_rate_threshold"`
	FallbackRateThreshold float64 `yaml:"fallback_rate_threshold" mapstructure:"fallback_rate_threshold"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from .env, config.yaml and the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, eris.Wrap(err, "config: read .env")
	}

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("DEMOGRAPHICS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Keys without a default must still be registered for AutomaticEnv to
	// reach them through Unmarshal.
	v.SetDefault("census.api_key", "")
	v.SetDefault("census.base_url", "https://api.census.gov/data")
	v.SetDefault("census.acs_year", "2022")
	v.SetDefault("census.cbp_year", "2021")
	v.SetDefault("census.historical_years", []string{"2019", "2020", "2021", "2022"})
	v.SetDefault("bls.api_key", "")
	v.SetDefault("bls.base_url", "https://api.bls.gov/publicAPI/v2")
	v.SetDefault("education.api_key", "")
	v.SetDefault("education.scorecard_base_url", "https://api.data.gov/ed/collegescorecard/v1")
	v.SetDefault("education.ccd_base_url", "https://educationdata.urban.org/api/v1")
	v.SetDefault("education.ccd_year", "2022")
	v.SetDefault("education.max_pages", 20)
	v.SetDefault("demographics.adapter_timeout_secs", 8)
	v.SetDefault("http.timeout_secs", 30)
	v.SetDefault("http.max_retries", 3)
	v.SetDefault("http.user_agent", "demographics-cli/1.0")
	v.SetDefault("resilience.failure_threshold", 5)
	v.SetDefault("resilience.reset_timeout_secs", 30)
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.driver", "sqlite")
	v.SetDefault("cache.database_url", "")
	v.SetDefault("cache.sqlite_path", "demographics.db")
	v.SetDefault("cache.redis_addr", "localhost:6379")
	v.SetDefault("cache.ttl_hours", 24)
	v.SetDefault("batch.max_concurrent_cities", 4)
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.rate_limit_per_min", 60)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("monitoring.webhook_url", "")
	v.SetDefault("monitoring.check_interval_secs", 300)
	v.SetDefault("monitoring.failure_rate_threshold", 0.5)
	v.SetDefault("monitoring.fallback_rate_threshold", 0)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

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

// Validate checks the settings a command depends on. mode is one of
// "report", "batch", "serve" or "cache".
func (c *Config) Validate(mode string) error {
	var errs []string

	switch mode {
	case "report", "batch", "serve", "cache":
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if c.Demographics.AdapterTimeoutSecs <= 0 {
		errs = append(errs, "demographics.adapter_timeout_secs must be > 0")
	}
	if c.Census.ACSYear == "" {
		errs = append(errs, "census.acs_year is required")
	}

	if c.Cache.Enabled || mode == "cache" {
		switch c.Cache.Driver {
		case "sqlite":
			if c.Cache.SQLitePath == "" {
				errs = append(errs, "cache.sqlite_path is required for the sqlite driver")
			}
		case "postgres":
			if c.Cache.DatabaseURL == "" {
				errs = append(errs, "cache.database_url is required for the postgres driver")
			}
		case "redis":
			if c.Cache.RedisAddr == "" {
				errs = append(errs, "cache.redis_addr is required for the redis driver")
			}
		default:
			errs = append(errs, "cache.driver must be one of sqlite, postgres, redis")
		}
		if c.Cache.TTLHours <= 0 {
			errs = append(errs, "cache.ttl_hours must be > 0")
		}
	}

	if mode == "batch" && (c.Batch.MaxConcurrentCities < 1 || c.Batch.MaxConcurrentCities > 32) {
		errs = append(errs, "batch.max_concurrent_cities must be between 1 and 32")
	}

	if mode == "serve" {
		if c.Server.Port <= 0 {
			errs = append(errs, "server.port must be > 0")
		}
		if c.Server.RateLimitPerMin < 0 {
			errs = append(errs, "server.rate_limit_per_min must be >= 0")
		}
	}

	if len(errs) > 0 {
		return eris.Errorf("config: %s", strings.Join(errs, "; "))
	}
	return nil
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
