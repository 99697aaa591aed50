package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment" default:"development" validate:"required"`
	DataDir     string `yaml:"data_dir" default:"." validate:"required"`
	Server      struct {
		Port            int           `yaml:"port" default:"8501" validate:"gt=0,lte=65535"`
		ReadTimeout     time.Duration `yaml:"read_timeout" default:"15s"`
		WriteTimeout    time.Duration `yaml:"write_timeout" default:"30s"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
		MaxUploadBytes  int64         `yaml:"max_upload_bytes" default:"10485760" validate:"gt=0"`
		UploadRate      float64       `yaml:"upload_rate" default:"2"`
		UploadBurst     int           `yaml:"upload_burst" default:"5"`
	} `yaml:"server"`
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path" default:"/metrics"`
	} `yaml:"metrics"`
	Log struct {
		Level  string `yaml:"level" default:"info" validate:"oneof=debug info warn error"`
		Format string `yaml:"format" default:"console" validate:"oneof=json console"`
		Output string `yaml:"output" default:"stdout"`
	} `yaml:"log"`
	Cache struct {
		TTL             time.Duration `yaml:"ttl" default:"10m"`
		MemoryMaxSize   int           `yaml:"memory_max_size" default:"256" validate:"gt=0"`
		CleanupInterval time.Duration `yaml:"cleanup_interval" default:"5m" validate:"gt=0"`
		Redis           struct {
			Enabled      bool          `yaml:"enabled"`
			Addr         string        `yaml:"addr" default:"localhost:6379"`
			Password     string        `yaml:"password"`
			DB           int           `yaml:"db"`
			Prefix       string        `yaml:"prefix" default:"forecastdash"`
			PoolSize     int           `yaml:"pool_size" default:"10" validate:"gt=0"`
			MinIdleConns int           `yaml:"min_idle_conns" default:"2" validate:"gte=0"`
			PoolTimeout  time.Duration `yaml:"pool_timeout" default:"30s"`
		} `yaml:"redis"`
	} `yaml:"cache"`
	Dashboards []Dashboard `yaml:"dashboards" validate:"required,min=1,dive"`
}

// Dashboard describes one page: a history CSV, a forecast CSV and optional saved charts.
type Dashboard struct {
	Name           string  `yaml:"name" validate:"required"`
	Title          string  `yaml:"title" validate:"required"`
	HistoryFile    string  `yaml:"history_file" validate:"required"`
	ForecastFile   string  `yaml:"forecast_file" validate:"required"`
	Model          string  `yaml:"model"`
	HistoryColumn  string  `yaml:"history_column" default:"Inflation_YoY"`
	ForecastColumn string  `yaml:"forecast_column" default:"Forecast"`
	YLabel         string  `yaml:"y_label" default:"Inflation YoY (%)"`
	ChartTitle     string  `yaml:"chart_title" default:"History, model proxy, and forecast"`
	Images         []Image `yaml:"images" validate:"dive"`
}

type Image struct {
	Path  string `yaml:"path" validate:"required"`
	Title string `yaml:"title"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(b)
}

// Parse decodes YAML, applies defaults and validates.
func Parse(b []byte) (*Config, error) {
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := c.applyDefaults(); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &c, nil
}

// LoadWithEnv loads .env (if present), the YAML file, and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	_ = godotenv.Load()

	c, err := Load(path)
	if err != nil {
		return nil, err
	}
	if err := c.applyEnv(); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

func (c *Config) applyDefaults() error {
	if err := defaults.Set(c); err != nil {
		return fmt.Errorf("config defaults: %w", err)
	}
	for i := range c.Dashboards {
		if err := defaults.Set(&c.Dashboards[i]); err != nil {
			return fmt.Errorf("dashboard %d defaults: %w", i, err)
		}
	}
	return nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("DASH_DATA_DIR"); v != "" {
		c.DataDir = v
	}
	if v := os.Getenv("DASH_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("DASH_PORT: %w", err)
		}
		c.Server.Port = port
	}
	if v := os.Getenv("DASH_REDIS_ADDR"); v != "" {
		c.Cache.Redis.Addr = v
		c.Cache.Redis.Enabled = true
	}
	if v := os.Getenv("DASH_LOG_LEVEL"); v != "" {
		c.Log.Level = strings.ToLower(v)
	}
	return nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("%s failed on '%s'", fe.Namespace(), fe.Tag())
		}
		return err
	}

	seen := make(map[string]struct{}, len(c.Dashboards))
	for _, d := range c.Dashboards {
		if url.PathEscape(d.Name) != d.Name {
			return fmt.Errorf("dashboards: name %q is not URL safe", d.Name)
		}
		if _, ok := seen[d.Name]; ok {
			return fmt.Errorf("dashboards: duplicate name %q", d.Name)
		}
		seen[d.Name] = struct{}{}
	}
	return nil
}

// Dashboard returns the dashboard named name.
func (c *Config) Dashboard(name string) (Dashboard, bool) {
	for _, d := range c.Dashboards {
		if d.Name == name {
			return d, true
		}
	}
	return Dashboard{}, false
}
