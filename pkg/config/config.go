package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`
	Backend struct {
		Type         string        `yaml:"type"`
		BatchSize    int           `yaml:"batch_size"`
		BatchTimeout time.Duration `yaml:"batch_timeout"`
	} `yaml:"backend"`
	Kafka struct {
		Brokers      []string `yaml:"brokers"`
		RecordsTopic string   `yaml:"records_topic"`
		CandlesTopic string   `yaml:"candles_topic"`
		LogsTopic    string   `yaml:"logs_topic"`
		RequiredAcks int      `yaml:"required_acks"`
		Compression  string   `yaml:"compression"`
		Producer     struct {
			MaxAttempts  int           `yaml:"max_attempts"`
			Linger       time.Duration `yaml:"linger"`
			BatchBytes   int           `yaml:"batch_bytes"`
			BatchSize    int           `yaml:"batch_size"`
			WriteTimeout time.Duration `yaml:"write_timeout"`
			ReadTimeout  time.Duration `yaml:"read_timeout"`
			Async        bool          `yaml:"async"`
		} `yaml:"producer"`
		Consumer struct {
			GroupID    string        `yaml:"group_id"`
			Workers    int           `yaml:"workers"`
			BufferSize int           `yaml:"buffer_size"`
			RetryMax   int           `yaml:"retry_max"`
			BackoffMin time.Duration `yaml:"backoff_min"`
			BackoffMax time.Duration `yaml:"backoff_max"`
			DLQTopic   string        `yaml:"dlq_topic"`
			MinBytes   int           `yaml:"min_bytes"`
			MaxBytes   int           `yaml:"max_bytes"`
		} `yaml:"consumer"`
	} `yaml:"kafka"`
	ClickHouse struct {
		Host             string        `yaml:"host"`
		Port             int           `yaml:"port"`
		Database         string        `yaml:"database"`
		User             string        `yaml:"user"`
		Password         string        `yaml:"password"`
		UseHTTP          bool          `yaml:"use_http"`
		AsyncInsert      bool          `yaml:"async_insert"`
		WaitForAsync     bool          `yaml:"wait_for_async_insert"`
		DialTimeout      time.Duration `yaml:"dial_timeout"`
		ReadTimeout      time.Duration `yaml:"read_timeout"`
		WriteTimeout     time.Duration `yaml:"write_timeout"`
		MaxExecutionTime time.Duration `yaml:"max_execution_time"`
	} `yaml:"clickhouse"`
	Binance struct {
		WebSocketURL   string        `yaml:"websocket_url"`
		ReconnectDelay time.Duration `yaml:"reconnect_delay"`
		PingInterval   time.Duration `yaml:"ping_interval"`
	} `yaml:"binance"`
	Taapi struct {
		BaseURL     string        `yaml:"base_url"`
		APIKey      string        `yaml:"api_key"`
		Exchange    string        `yaml:"exchange"`
		MinInterval time.Duration `yaml:"min_interval"`
		DailyQuota  int           `yaml:"daily_quota"`
		RetryMax    int           `yaml:"retry_max"`
		RetryPause  time.Duration `yaml:"retry_pause"`
		Timeout     time.Duration `yaml:"timeout"`
	} `yaml:"taapi"`
	Coingecko struct {
		BaseURL string        `yaml:"base_url"`
		APIKey  string        `yaml:"api_key"`
		Timeout time.Duration `yaml:"timeout"`
	} `yaml:"coingecko"`
	Analysis struct {
		Source        string        `yaml:"source"` // local | taapi
		Symbols       []string      `yaml:"symbols"`
		Interval      string        `yaml:"interval"`
		MinIndicators int           `yaml:"min_indicators"`
		CycleInterval time.Duration `yaml:"cycle_interval"`
		CacheTTL      time.Duration `yaml:"cache_ttl"`
		Redis         struct {
			Enabled  bool   `yaml:"enabled"`
			Addr     string `yaml:"addr"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
		} `yaml:"redis"`
	} `yaml:"analysis"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	c.applyDefaults()

	// Validate required fields
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	// Override with environment variables
	if v := os.Getenv("TAAPI_API_KEY"); v != "" {
		c.Taapi.APIKey = v
	}
	if v := os.Getenv("COINGECKO_API_KEY"); v != "" {
		c.Coingecko.APIKey = v
	}
	if v := os.Getenv("SYMBOLS"); v != "" {
		c.Analysis.Symbols = strings.Split(v, ",")
	}
	if v := os.Getenv("INDICATOR_SOURCE"); v != "" {
		c.Analysis.Source = v
	}
	if v := os.Getenv("BACKEND"); v != "" {
		c.Backend.Type = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("KAFKA_RECORDS_TOPIC"); v != "" {
		c.Kafka.RecordsTopic = v
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

func (c *Config) applyDefaults() {
	if c.Analysis.Source == "" {
		c.Analysis.Source = "local"
	}
	if c.Analysis.Interval == "" {
		c.Analysis.Interval = "1h"
	}
	if c.Analysis.MinIndicators == 0 {
		c.Analysis.MinIndicators = 8
	}
	if c.Taapi.BaseURL == "" {
		c.Taapi.BaseURL = "https://api.taapi.io"
	}
	if c.Taapi.Exchange == "" {
		c.Taapi.Exchange = "binance"
	}
	if c.Taapi.MinInterval == 0 {
		c.Taapi.MinInterval = 18 * time.Second
	}
	if c.Taapi.RetryMax == 0 {
		c.Taapi.RetryMax = 5
	}
	if c.Taapi.RetryPause == 0 {
		c.Taapi.RetryPause = 30 * time.Second
	}
	if c.Coingecko.BaseURL == "" {
		c.Coingecko.BaseURL = "https://api.coingecko.com/api/v3"
	}
	if c.Binance.WebSocketURL == "" {
		c.Binance.WebSocketURL = "wss://stream.binance.com:9443"
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Backend.Type == "" {
		return fmt.Errorf("backend.type is required")
	}
	if c.Backend.Type != "kafka" && c.Backend.Type != "clickhouse" {
		return fmt.Errorf("backend.type must be 'kafka' or 'clickhouse', got '%s'", c.Backend.Type)
	}
	if len(c.Analysis.Symbols) == 0 {
		return fmt.Errorf("analysis.symbols cannot be empty")
	}
	if c.Analysis.Source != "local" && c.Analysis.Source != "taapi" {
		return fmt.Errorf("analysis.source must be 'local' or 'taapi', got '%s'", c.Analysis.Source)
	}
	if c.Analysis.Source == "taapi" && c.Taapi.APIKey == "" {
		return fmt.Errorf("taapi.api_key is required when analysis.source is 'taapi'")
	}
	switch c.Analysis.Interval {
	case "1h", "4h", "1d":
	default:
		return fmt.Errorf("analysis.interval must be one of 1h, 4h, 1d, got '%s'", c.Analysis.Interval)
	}
	return nil
}
