// Package config provides the typed configuration surface for newscrawl.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/finscope/newscrawl/internal/logger"
)

// Sink backends.
const (
	SinkCSV      = "csv"
	SinkPostgres = "postgres"
)

// Config is the root configuration.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Logger    logger.Config   `mapstructure:"logger"`
	Crawler   CrawlerConfig   `mapstructure:"crawler"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Sink      SinkConfig      `mapstructure:"sink"`
	Enrich    EnrichConfig    `mapstructure:"enrich"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
}

// SchedulerConfig holds the periodic pipeline trigger settings.
type SchedulerConfig struct {
	// Cron is a standard 5-field cron spec for the crawl+enrich pipeline
	Cron string `mapstructure:"cron"`
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
	Debug       bool   `mapstructure:"debug"`
}

// CrawlerConfig holds crawl engine settings.
type CrawlerConfig struct {
	// UserAgent sent on every page request
	UserAgent string `mapstructure:"user_agent"`
	// RequestTimeout bounds a single page navigation
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	// Delay is the politeness pause between page requests
	Delay time.Duration `mapstructure:"delay"`
	// SourcesFile is the path to the source registry YAML
	SourcesFile string `mapstructure:"sources_file"`
}

// Validate checks the crawler configuration.
func (c *CrawlerConfig) Validate() error {
	if c.UserAgent == "" {
		return errors.New("crawler.user_agent is required")
	}
	if c.RequestTimeout <= 0 {
		return errors.New("crawler.request_timeout must be positive")
	}
	if c.Delay < 0 {
		return errors.New("crawler.delay must be non-negative")
	}
	return nil
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

// Validate checks the database configuration.
func (c *DatabaseConfig) Validate() error {
	if c.Host == "" || c.Port == "" {
		return errors.New("database.host and database.port are required")
	}
	if c.DBName == "" {
		return errors.New("database.dbname is required")
	}
	return nil
}

// SinkConfig selects and parameterizes the article sink.
type SinkConfig struct {
	// Backend is csv or postgres
	Backend string `mapstructure:"backend"`
	// CSVPath is the sink file path for the csv backend
	CSVPath string `mapstructure:"csv_path"`
}

// Validate checks the sink configuration.
func (c *SinkConfig) Validate() error {
	switch c.Backend {
	case SinkCSV:
		if c.CSVPath == "" {
			return errors.New("sink.csv_path is required for the csv backend")
		}
	case SinkPostgres:
	default:
		return fmt.Errorf("sink.backend must be %q or %q, got %q", SinkCSV, SinkPostgres, c.Backend)
	}
	return nil
}

// EnrichConfig holds enrichment collaborator settings.
type EnrichConfig struct {
	// ClassifierURL is the industry classifier endpoint
	ClassifierURL string `mapstructure:"classifier_url"`
	// ScorerURL is the sentiment scorer endpoint
	ScorerURL string `mapstructure:"scorer_url"`
	// BatchSize is the number of texts per model call
	BatchSize int `mapstructure:"batch_size"`
	// TargetIndustries limits sentiment scoring to these industry labels
	TargetIndustries []string `mapstructure:"target_industries"`
	// RequestTimeout bounds a single model call
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// Validate checks the enrichment configuration.
func (c *EnrichConfig) Validate() error {
	if c.BatchSize <= 0 {
		return errors.New("enrich.batch_size must be positive")
	}
	if c.RequestTimeout <= 0 {
		return errors.New("enrich.request_timeout must be positive")
	}
	return nil
}

// Load unmarshals the viper state into a validated Config.
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal configuration: %w", err)
	}

	if err := cfg.Crawler.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Sink.Validate(); err != nil {
		return nil, err
	}
	if cfg.Sink.Backend == SinkPostgres {
		if err := cfg.Database.Validate(); err != nil {
			return nil, err
		}
	}
	if err := cfg.Enrich.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}
