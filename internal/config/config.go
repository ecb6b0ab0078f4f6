package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Store     StoreConfig     `mapstructure:"store"`
	HL7       HL7Config       `mapstructure:"hl7"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

type ServerConfig struct {
	Port           int           `mapstructure:"port"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	MaxBodyBytes   int64         `mapstructure:"max_body_bytes"`
}

type StoreConfig struct {
	// Backend selects the store client: "postgrest" (default) or
	// "postgres".
	Backend           string          `mapstructure:"backend"`
	PostgREST         PostgRESTConfig `mapstructure:"postgrest"`
	Postgres          PostgresConfig  `mapstructure:"postgres"`
	ExistenceCacheTTL time.Duration   `mapstructure:"existence_cache_ttl"`
}

// PostgRESTConfig carries the REST endpoint and credentials. Both fields
// can be overridden from the environment (RIS_STORE_BASE_URL,
// RIS_STORE_API_KEY) so the key never has to live in the config file.
type PostgRESTConfig struct {
	BaseURL  string        `mapstructure:"base_url" envconfig:"STORE_BASE_URL"`
	APIKey   string        `mapstructure:"api_key" envconfig:"STORE_API_KEY"`
	Timeout  time.Duration `mapstructure:"timeout" ignored:"true"`
	RetryMax int           `mapstructure:"retry_max" ignored:"true"`
}

type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password" envconfig:"STORE_DB_PASSWORD"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
}

type HL7Config struct {
	// DefaultProfile is the field-index layout applied when the sender
	// has no override. Profiles is keyed by sending application (MSH-3).
	DefaultProfile ProfileConfig            `mapstructure:"default_profile"`
	Profiles       map[string]ProfileConfig `mapstructure:"profiles"`
}

// ProfileConfig mirrors mapper.Profile; zero fields inherit the built-in
// default layout.
type ProfileConfig struct {
	AccessionFields []int  `mapstructure:"accession_fields"`
	ExamField       int    `mapstructure:"exam_field"`
	PriorityField   int    `mapstructure:"priority_field"`
	StartField      int    `mapstructure:"start_field"`
	DefaultModality string `mapstructure:"default_modality"`
}

type RateLimitConfig struct {
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("/app")
	viper.AddConfigPath("/app/config")

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Credentials may come from the environment instead of the file.
	if err := envconfig.Process("ris", &config.Store.PostgREST); err != nil {
		return nil, fmt.Errorf("failed to process env overrides: %w", err)
	}
	if err := envconfig.Process("ris", &config.Store.Postgres); err != nil {
		return nil, fmt.Errorf("failed to process env overrides: %w", err)
	}

	applyDefaults(&config)
	return &config, nil
}

func applyDefaults(c *Config) {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 15 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 30 * time.Second
	}
	if c.Server.RequestTimeout == 0 {
		c.Server.RequestTimeout = 30 * time.Second
	}
	if c.Server.MaxBodyBytes == 0 {
		c.Server.MaxBodyBytes = 1 << 20
	}
	if c.Store.Backend == "" {
		c.Store.Backend = "postgrest"
	}
	if c.Store.ExistenceCacheTTL == 0 {
		c.Store.ExistenceCacheTTL = 15 * time.Minute
	}
	if c.RateLimit.RequestsPerSecond == 0 {
		c.RateLimit.RequestsPerSecond = 50
	}
	if c.RateLimit.Burst == 0 {
		c.RateLimit.Burst = 100
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
}
