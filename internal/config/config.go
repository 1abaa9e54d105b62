package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type HTTPConfig struct {
	Host        string
	Port        int
	CORSOrigins []string
}

type SocrataConfig struct {
	BaseURL    string
	Dataset    string
	AppToken   string
	Timeout    time.Duration
	MaxRetries int
	Backoff    time.Duration
}

type CacheConfig struct {
	TTL  time.Duration
	Size int
}

type DashboardConfig struct {
	DefaultLimit int
	MaxLimit     int
	YearMin      int
	YearMax      int
	SampleBound  int
	SampleSeed   int64
	TopK         int
}

type AuthConfig struct {
	AccessSecret string
}

type Config struct {
	Environment string
	HTTP        HTTPConfig
	Socrata     SocrataConfig
	Cache       CacheConfig
	Dashboard   DashboardConfig
	Auth        AuthConfig
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("app")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("./deploy")

	v.AutomaticEnv()

	_ = v.ReadInConfig()

	cfg := &Config{
		Environment: v.GetString("APP_ENV"),
		HTTP: HTTPConfig{
			Host:        v.GetString("HTTP_HOST"),
			Port:        v.GetInt("HTTP_PORT"),
			CORSOrigins: splitOrigins(v.GetString("HTTP_CORS_ORIGINS")),
		},
		Socrata: SocrataConfig{
			BaseURL:    v.GetString("SOCRATA_BASE_URL"),
			Dataset:    v.GetString("SOCRATA_DATASET"),
			AppToken:   v.GetString("SOCRATA_APP_TOKEN"),
			Timeout:    v.GetDuration("SOCRATA_TIMEOUT"),
			MaxRetries: v.GetInt("SOCRATA_MAX_RETRIES"),
			Backoff:    v.GetDuration("SOCRATA_RETRY_BACKOFF"),
		},
		Cache: CacheConfig{
			TTL:  v.GetDuration("CACHE_TTL"),
			Size: v.GetInt("CACHE_SIZE"),
		},
		Dashboard: DashboardConfig{
			DefaultLimit: v.GetInt("DASHBOARD_DEFAULT_LIMIT"),
			MaxLimit:     v.GetInt("DASHBOARD_MAX_LIMIT"),
			YearMin:      v.GetInt("DASHBOARD_YEAR_MIN"),
			YearMax:      v.GetInt("DASHBOARD_YEAR_MAX"),
			SampleBound:  v.GetInt("DASHBOARD_SAMPLE_BOUND"),
			SampleSeed:   v.GetInt64("DASHBOARD_SAMPLE_SEED"),
			TopK:         v.GetInt("DASHBOARD_TOP_K"),
		},
		Auth: AuthConfig{
			AccessSecret: v.GetString("JWT_ACCESS_SECRET"),
		},
	}

	applyDefaults(cfg)

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.HTTP.Host == "" {
		cfg.HTTP.Host = "0.0.0.0"
	}
	if cfg.HTTP.Port == 0 {
		cfg.HTTP.Port = 7090
	}
	if cfg.Socrata.BaseURL == "" {
		cfg.Socrata.BaseURL = "https://data.cityofnewyork.us"
	}
	if cfg.Socrata.Dataset == "" {
		cfg.Socrata.Dataset = "p937-wjvj"
	}
	if cfg.Socrata.Timeout <= 0 {
		cfg.Socrata.Timeout = 30 * time.Second
	}
	if cfg.Socrata.MaxRetries == 0 {
		cfg.Socrata.MaxRetries = 2
	}
	if cfg.Socrata.Backoff <= 0 {
		cfg.Socrata.Backoff = 500 * time.Millisecond
	}
	if cfg.Cache.TTL <= 0 {
		cfg.Cache.TTL = time.Hour
	}
	if cfg.Cache.Size <= 0 {
		cfg.Cache.Size = 128
	}
	if cfg.Dashboard.DefaultLimit <= 0 {
		cfg.Dashboard.DefaultLimit = 20000
	}
	if cfg.Dashboard.MaxLimit <= 0 {
		cfg.Dashboard.MaxLimit = 50000
	}
	if cfg.Dashboard.YearMin <= 0 {
		cfg.Dashboard.YearMin = 2010
	}
	if cfg.Dashboard.YearMax <= 0 {
		cfg.Dashboard.YearMax = 2024
	}
	if cfg.Dashboard.SampleBound <= 0 {
		cfg.Dashboard.SampleBound = 15000
	}
	if cfg.Dashboard.SampleSeed == 0 {
		cfg.Dashboard.SampleSeed = 42
	}
	if cfg.Dashboard.TopK <= 0 {
		cfg.Dashboard.TopK = 5
	}
}

func validate(cfg *Config) error {
	if cfg.Dashboard.YearMin > cfg.Dashboard.YearMax {
		return fmt.Errorf("DASHBOARD_YEAR_MIN %d exceeds DASHBOARD_YEAR_MAX %d",
			cfg.Dashboard.YearMin, cfg.Dashboard.YearMax)
	}
	if cfg.Dashboard.DefaultLimit > cfg.Dashboard.MaxLimit {
		return fmt.Errorf("DASHBOARD_DEFAULT_LIMIT %d exceeds DASHBOARD_MAX_LIMIT %d",
			cfg.Dashboard.DefaultLimit, cfg.Dashboard.MaxLimit)
	}
	return nil
}

func splitOrigins(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
