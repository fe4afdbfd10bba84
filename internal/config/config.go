package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/MikeSquared-Agency/ForceRank/internal/ranking"
	"github.com/MikeSquared-Agency/ForceRank/internal/scoring"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Dataset  DatasetConfig  `yaml:"dataset"`
	Database DatabaseConfig `yaml:"database"`
	Hermes   HermesConfig   `yaml:"hermes"`
	Scoring  ScoringConfig  `yaml:"scoring"`
	Logging  LoggingConfig  `yaml:"logging"`
	Tracing  TracingConfig  `yaml:"tracing"`
}

type ServerConfig struct {
	Port            int    `yaml:"port"`
	MetricsPort     int    `yaml:"metrics_port"`
	AdminToken      string `yaml:"admin_token"`
	RateLimitPerMin int    `yaml:"rate_limit_per_min"`
}

const (
	SourceCSV      = "csv"
	SourcePostgres = "postgres"
)

type DatasetConfig struct {
	Source             string `yaml:"source"`
	CSVPath            string `yaml:"csv_path"`
	RefreshIntervalSec int    `yaml:"refresh_interval_sec"`
}

// RefreshInterval is zero when periodic reloads are off.
func (d DatasetConfig) RefreshInterval() time.Duration {
	return time.Duration(d.RefreshIntervalSec) * time.Second
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

type HermesConfig struct {
	URL string `yaml:"url"`
}

type ScoringConfig struct {
	Weights     scoring.WeightVector `yaml:"weights"`
	DefaultSort string               `yaml:"default_sort"`
	PageSize    int                  `yaml:"page_size"`
}

// Directive parses DefaultSort. Load has already validated it.
func (s ScoringConfig) Directive() ranking.SortDirective {
	d, err := ranking.ParseDirective(s.DefaultSort)
	if err != nil {
		return ranking.DefaultDirective()
	}
	return d
}

type TracingConfig struct {
	Enabled      bool    `yaml:"enabled"`
	OTLPEndpoint string  `yaml:"otlp_endpoint"`
	SamplingRate float64 `yaml:"sampling_rate"`
	Insecure     bool    `yaml:"insecure"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// SlogLevel maps the configured level name to a slog.Level, defaulting to info.
func (l LoggingConfig) SlogLevel() slog.Level {
	switch strings.ToLower(l.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func Load(path string) (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:            8700,
			MetricsPort:     8701,
			RateLimitPerMin: 600,
		},
		Dataset: DatasetConfig{
			Source:  SourceCSV,
			CSVPath: "Normalized_Force_Structure_Data.csv",
		},
		Hermes: HermesConfig{
			URL: "nats://localhost:4222",
		},
		Scoring: ScoringConfig{
			Weights:     scoring.DefaultWeights(),
			DefaultSort: "TotalRisk_asc",
			PageSize:    10,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Tracing: TracingConfig{
			SamplingRate: 1.0,
		},
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnv(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Dataset.Source {
	case SourceCSV:
		if c.Dataset.CSVPath == "" {
			return fmt.Errorf("dataset.csv_path required for csv source")
		}
	case SourcePostgres:
		if c.Database.URL == "" {
			return fmt.Errorf("database.url required for postgres source")
		}
	default:
		return fmt.Errorf("unknown dataset source %q", c.Dataset.Source)
	}
	if err := c.Scoring.Weights.Validate(); err != nil {
		return fmt.Errorf("scoring.weights: %w", err)
	}
	if _, err := ranking.ParseDirective(c.Scoring.DefaultSort); err != nil {
		return fmt.Errorf("scoring.default_sort: %w", err)
	}
	if c.Scoring.PageSize <= 0 {
		return fmt.Errorf("scoring.page_size must be positive, got %d", c.Scoring.PageSize)
	}
	return nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("FORCERANK_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = n
		}
	}
	if v := os.Getenv("FORCERANK_METRICS_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.MetricsPort = n
		}
	}
	if v := os.Getenv("FORCERANK_ADMIN_TOKEN"); v != "" {
		cfg.Server.AdminToken = v
	}
	if v := os.Getenv("FORCERANK_DATASET_SOURCE"); v != "" {
		cfg.Dataset.Source = v
	}
	if v := os.Getenv("FORCERANK_CSV_PATH"); v != "" {
		cfg.Dataset.CSVPath = v
	}
	if v := os.Getenv("FORCERANK_REFRESH_INTERVAL_SEC"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Dataset.RefreshIntervalSec = n
		}
	}
	if v := os.Getenv("FORCERANK_DATABASE_URL"); v != "" {
		cfg.Database.URL = v
	}
	if v := os.Getenv("FORCERANK_HERMES_URL"); v != "" {
		cfg.Hermes.URL = v
	}
	if v := os.Getenv("FORCERANK_DEFAULT_SORT"); v != "" {
		cfg.Scoring.DefaultSort = v
	}
	if v := os.Getenv("FORCERANK_PAGE_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Scoring.PageSize = n
		}
	}
	if v := os.Getenv("FORCERANK_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("FORCERANK_OTLP_ENDPOINT"); v != "" {
		cfg.Tracing.Enabled = true
		cfg.Tracing.OTLPEndpoint = v
	}
}
