package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment" default:"development"`
	Server      struct {
		Port            int           `yaml:"port" default:"8080"`
		ReadTimeout     time.Duration `yaml:"read_timeout" default:"30s"`
		WriteTimeout    time.Duration `yaml:"write_timeout" default:"60s"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
		RateLimit       struct {
			Enabled bool    `yaml:"enabled" default:"true"`
			RPS     float64 `yaml:"rps" default:"5"`
			Burst   int     `yaml:"burst" default:"20"`
		} `yaml:"rate_limit"`
	} `yaml:"server"`
	Metrics struct {
		Enabled bool   `yaml:"enabled" default:"true"`
		Path    string `yaml:"path" default:"/metrics"`
	} `yaml:"metrics"`
	Logger struct {
		Level  string `yaml:"level" default:"info"`
		Format string `yaml:"format" default:"json"`
		Output string `yaml:"output" default:"stdout"`
	} `yaml:"logger"`
	Upstream struct {
		BaseURL string        `yaml:"base_url" default:"http://127.0.0.1:8080"`
		Timeout time.Duration `yaml:"timeout" default:"60s"`
		RPS     float64       `yaml:"rps" default:"4"`
		Burst   int           `yaml:"burst" default:"8"`
	} `yaml:"upstream"`
	Cache struct {
		MaxEntries int           `yaml:"max_entries" default:"1024"`
		TTL        time.Duration `yaml:"ttl" default:"1h"`
		SweepSpec  string        `yaml:"sweep_spec" default:"@every 5m"`
		Redis      struct {
			Enabled  bool          `yaml:"enabled"`
			Addr     string        `yaml:"addr" default:"localhost:6379"`
			Password string        `yaml:"password"`
			DB       int           `yaml:"db"`
			Prefix   string        `yaml:"prefix" default:"marketlens"`
			PoolSize int           `yaml:"pool_size" default:"10"`
			Timeout  time.Duration `yaml:"timeout" default:"500ms"`
		} `yaml:"redis"`
	} `yaml:"cache"`
	Pipelines struct {
		Valuation struct {
			IndexSymbol string `yaml:"index_symbol" default:"sh000001"`
			PESymbol    string `yaml:"pe_symbol" default:"上证"`
		} `yaml:"valuation"`
		SectorFlow struct {
			TopK         int `yaml:"top_k" default:"5"`
			RealtimeTopK int `yaml:"realtime_top_k" default:"3"`
		} `yaml:"sector_flow"`
		MarketFlow struct {
			Days int `yaml:"days" default:"100"`
		} `yaml:"market_flow"`
		Discreteness struct {
			HistoryDays int       `yaml:"history_days" default:"200"`
			Windows     []int     `yaml:"windows"`
			Limits      []float64 `yaml:"limits"`
			Keep        int       `yaml:"keep" default:"5"`
		} `yaml:"discreteness"`
		Screener struct {
			MaxAbsChangePct   float64 `yaml:"max_abs_change_pct" default:"2"`
			MinVolume         float64 `yaml:"min_volume" default:"30000"`
			MinTurnoverRate   float64 `yaml:"min_turnover_rate" default:"1"`
			Max60DayChangePct float64 `yaml:"max_60d_change_pct" default:"0.1"`
		} `yaml:"screener"`
		Statistic struct {
			Movers int `yaml:"movers" default:"60"`
		} `yaml:"statistic"`
	} `yaml:"pipelines"`
}

// Default returns a configuration with every default applied.
func Default() (*Config, error) {
	var c Config
	if err := applyDefaults(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(b)
}

// Parse decodes YAML on top of the defaults and validates the result.
func Parse(b []byte) (*Config, error) {
	var c Config
	if err := applyDefaults(&c); err != nil {
		return nil, err
	}

	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
// A .env file in the working directory is read first when present.
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

func (c *Config) applyEnv() error {
	if v := os.Getenv("ENVIRONMENT"); v != "" {
		c.Environment = v
	}
	if v := os.Getenv("AKTOOLS_BASE_URL"); v != "" {
		c.Upstream.BaseURL = v
	}
	if v := os.Getenv("HTTP_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("HTTP_PORT: %w", err)
		}
		c.Server.Port = port
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Logger.Level = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Cache.Redis.Addr = v
		c.Cache.Redis.Enabled = true
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.Cache.Redis.Password = v
	}
	if v := os.Getenv("SIDEWAYS_WINDOWS"); v != "" {
		windows, err := parseInts(v)
		if err != nil {
			return fmt.Errorf("SIDEWAYS_WINDOWS: %w", err)
		}
		c.Pipelines.Discreteness.Windows = windows
	}
	if v := os.Getenv("SIDEWAYS_LIMITS"); v != "" {
		limits, err := parseFloats(v)
		if err != nil {
			return fmt.Errorf("SIDEWAYS_LIMITS: %w", err)
		}
		c.Pipelines.Discreteness.Limits = limits
	}
	return nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Upstream.BaseURL == "" {
		return fmt.Errorf("upstream.base_url is required")
	}
	if c.Cache.MaxEntries <= 0 {
		return fmt.Errorf("cache.max_entries must be positive, got %d", c.Cache.MaxEntries)
	}
	if c.Cache.TTL <= 0 {
		return fmt.Errorf("cache.ttl must be positive, got %s", c.Cache.TTL)
	}
	d := c.Pipelines.Discreteness
	if len(d.Windows) != len(d.Limits) {
		return fmt.Errorf("pipelines.discreteness: %d windows but %d limits", len(d.Windows), len(d.Limits))
	}
	for _, w := range d.Windows {
		if w <= 0 {
			return fmt.Errorf("pipelines.discreteness.windows must be positive, got %d", w)
		}
	}
	for _, l := range d.Limits {
		if l <= 0 {
			return fmt.Errorf("pipelines.discreteness.limits must be positive, got %g", l)
		}
	}
	if c.Pipelines.Statistic.Movers <= 0 {
		return fmt.Errorf("pipelines.statistic.movers must be positive, got %d", c.Pipelines.Statistic.Movers)
	}
	if c.Pipelines.SectorFlow.TopK <= 0 || c.Pipelines.SectorFlow.RealtimeTopK <= 0 {
		return fmt.Errorf("pipelines.sector_flow top_k values must be positive")
	}
	return nil
}

func applyDefaults(c *Config) error {
	if err := defaults.Set(c); err != nil {
		return fmt.Errorf("config defaults: %w", err)
	}
	if len(c.Pipelines.Discreteness.Windows) == 0 {
		c.Pipelines.Discreteness.Windows = []int{5, 10, 15, 20}
		c.Pipelines.Discreteness.Limits = []float64{0.05, 0.07, 0.10, 0.12}
	}
	return nil
}

func parseInts(s string) ([]int, error) {
	parts := strings.Split(s, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

func parseFloats(s string) ([]float64, error) {
	parts := strings.Split(s, ",")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}
