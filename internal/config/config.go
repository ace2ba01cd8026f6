package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"ChartDesk/internal/calculator"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultPath is read when CONFIG_PATH is unset.
const DefaultPath = "configs/config.yaml"

// Config holds all application configuration.
type Config struct {
	Server struct {
		Addr         string        `yaml:"addr" default:":8080" validate:"required"`
		ReadTimeout  time.Duration `yaml:"read_timeout" default:"10s"`
		WriteTimeout time.Duration `yaml:"write_timeout" default:"30s"`
	} `yaml:"server"`
	DataSource struct {
		Provider string        `yaml:"provider" default:"yahoo" validate:"oneof=yahoo binance rest mock"`
		BaseURL  string        `yaml:"base_url" validate:"required_if=Provider rest"`
		APIKey   string        `yaml:"api_key"`
		Proxy    string        `yaml:"proxy"`
		Timeout  time.Duration `yaml:"timeout" default:"15s"`
	} `yaml:"data_source"`
	Cache struct {
		Backend string        `yaml:"backend" default:"memory" validate:"oneof=memory redis none"`
		TTL     time.Duration `yaml:"ttl" default:"10m"`
	} `yaml:"cache"`
	Redis struct {
		Addr     string `yaml:"addr" default:"localhost:6379"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db" validate:"gte=0"`
	} `yaml:"redis"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path" default:"data/chartdesk.db"`
	} `yaml:"database"`
	Schedule struct {
		WarmupCron string   `yaml:"warmup_cron" default:"0 30 22 * * 1-5"`
		ScanCron   string   `yaml:"scan_cron"`
		Watchlist  []string `yaml:"watchlist"`
		Period     string   `yaml:"period" default:"2y"`
		Frequency  string   `yaml:"frequency" default:"daily"`
		RunOnStart bool     `yaml:"run_on_start"`
	} `yaml:"schedule"`
	Indicators calculator.Config `yaml:"indicators"`
	Log        struct {
		Level       string `yaml:"level" default:"info" validate:"oneof=debug info warn error"`
		Environment string `yaml:"environment" default:"development" validate:"oneof=development production"`
	} `yaml:"log"`
}

var validate = validator.New()

// Load reads config from a YAML file, then applies .env and environment
// variable overrides and fills defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	if path == "" {
		path = DefaultPath
	}

	cfg := &Config{}
	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := defaults.Set(cfg); err != nil {
		return nil, fmt.Errorf("apply defaults: %w", err)
	}
	cfg.Indicators = cfg.Indicators.Normalized()
	return cfg, nil
}

func (c *Config) applyEnv() error {
	setString("SERVER_ADDR", &c.Server.Addr)
	setString("DATA_PROVIDER", &c.DataSource.Provider)
	setString("DATA_BASE_URL", &c.DataSource.BaseURL)
	setString("DATA_API_KEY", &c.DataSource.APIKey)
	setString("HTTPS_PROXY", &c.DataSource.Proxy)
	setString("CACHE_BACKEND", &c.Cache.Backend)
	setString("REDIS_ADDR", &c.Redis.Addr)
	setString("REDIS_PASSWORD", &c.Redis.Password)
	setString("SQLITE_PATH", &c.Database.SQLitePath)
	setString("CRON_WARMUP", &c.Schedule.WarmupCron)
	setString("CRON_SCAN", &c.Schedule.ScanCron)
	setString("LOG_LEVEL", &c.Log.Level)
	setString("ENVIRONMENT", &c.Log.Environment)

	if v := os.Getenv("WATCHLIST"); v != "" {
		c.Schedule.Watchlist = nil
		for _, s := range strings.Split(v, ",") {
			if s = strings.TrimSpace(s); s != "" {
				c.Schedule.Watchlist = append(c.Schedule.Watchlist, s)
			}
		}
	}
	if v := os.Getenv("CACHE_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("CACHE_TTL: %w", err)
		}
		c.Cache.TTL = d
	}
	if v := os.Getenv("REDIS_DB"); v != "" {
		db, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("REDIS_DB: %w", err)
		}
		c.Redis.DB = db
	}
	if v := os.Getenv("RUN_ON_START"); v != "" {
		c.Schedule.RunOnStart, _ = strconv.ParseBool(v)
	}
	return nil
}

func setString(key string, dst *string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
