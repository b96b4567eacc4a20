package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	apperrors "verse-embed/internal/app/errors"
)

// Config is the explicit configuration of one pipeline run. It is built once and
// passed to every component at construction.
type Config struct {
	CorpusPath         string        `yaml:"corpus_path" validate:"required"`
	OutputDir          string        `yaml:"output_dir" validate:"required"`
	Provider           string        `yaml:"provider" validate:"oneof=openai gemini mock"`
	Model              string        `yaml:"model" validate:"required"`
	Dimensions         int           `yaml:"dimensions" validate:"gte=0"`
	BaseURL            string        `yaml:"base_url,omitempty" validate:"omitempty,url"`
	CheckpointInterval int           `yaml:"checkpoint_interval" validate:"min=1"`
	ProgressEvery      int           `yaml:"progress_every" validate:"min=1"`
	RequestDelay       time.Duration `yaml:"request_delay" validate:"gte=0"`
	Timeout            time.Duration `yaml:"timeout" validate:"gt=0"`
	Resume             bool          `yaml:"resume"`
	EmitJS             bool          `yaml:"emit_js"`
	EmitHelpers        bool          `yaml:"emit_helpers"`
	ShowProgress       bool          `yaml:"show_progress"`
	Development        bool          `yaml:"development"`

	Retry    RetryConfig    `yaml:"retry"`
	Cache    CacheConfig    `yaml:"cache"`
	Database DatabaseConfig `yaml:"database"`
	Publish  PublishConfig  `yaml:"publish"`
	Metrics  MetricsConfig  `yaml:"metrics"`

	// Credentials never come from the YAML file
	APIKeys APIKeys `yaml:"-"`
}

// RetryConfig represents retry settings of the embedding client
type RetryConfig struct {
	MaxAttempts   int           `yaml:"max_attempts" validate:"min=1,max=10"`
	RateLimitBase time.Duration `yaml:"rate_limit_base" validate:"gte=0"`
	FixedDelay    time.Duration `yaml:"fixed_delay" validate:"gte=0"`
}

// CacheConfig configures the embedding cache used to make re-runs cheap
type CacheConfig struct {
	RedisURL Secret        `yaml:"redis_url,omitempty"`
	Prefix   string        `yaml:"prefix"`
	TTL      time.Duration `yaml:"ttl" validate:"gte=0"`
}

// DatabaseConfig configures the optional SQL result sink
type DatabaseConfig struct {
	Driver string `yaml:"driver,omitempty" validate:"omitempty,oneof=sqlite3 postgres"`
	DSN    Secret `yaml:"dsn,omitempty"`
	Table  string `yaml:"table"`
}

// PublishConfig configures uploading the final dataset to an S3 compatible bucket
type PublishConfig struct {
	Endpoint  string `yaml:"endpoint,omitempty"`
	Bucket    string `yaml:"bucket,omitempty" validate:"required_with=Endpoint"`
	Prefix    string `yaml:"prefix"`
	UseSSL    bool   `yaml:"use_ssl"`
	AccessKey Secret `yaml:"-"`
	SecretKey Secret `yaml:"-"`
}

// MetricsConfig configures the Prometheus push gateway
type MetricsConfig struct {
	PushgatewayURL string `yaml:"pushgateway_url,omitempty" validate:"omitempty,url"`
	Job            string `yaml:"job"`
}

// Default returns the configuration used when no file or overrides are given
func Default() *Config {
	return &Config{
		CorpusPath:         DefaultCorpusPath,
		OutputDir:          DefaultOutputDir,
		Provider:           ProviderOpenAI,
		CheckpointInterval: DefaultCheckpointInterval,
		ProgressEvery:      DefaultProgressEvery,
		RequestDelay:       DefaultRequestDelay,
		Timeout:            DefaultTimeout,
		EmitJS:             true,
		EmitHelpers:        true,
		Retry: RetryConfig{
			MaxAttempts:   DefaultMaxAttempts,
			RateLimitBase: DefaultRateLimitBase,
			FixedDelay:    DefaultFixedDelay,
		},
		Cache: CacheConfig{
			Prefix: DefaultCachePrefix,
			TTL:    DefaultCacheTTL,
		},
		Database: DatabaseConfig{
			Table: DefaultDBTable,
		},
		Publish: PublishConfig{
			Prefix: DefaultPublishPrefix,
			UseSSL: true,
		},
		Metrics: MetricsConfig{
			Job: DefaultMetricsJob,
		},
	}
}

// LoadFile overlays a YAML configuration file on top of the defaults
func LoadFile(configPath string) (*Config, error) {
	cfg := Default()
	if configPath == "" {
		return cfg, nil
	}

	configPath = os.ExpandEnv(configPath)
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	return cfg, nil
}

// ApplyEnv overlays VEMBED_* variables, service endpoints and credentials
func (c *Config) ApplyEnv() error {
	c.CorpusPath = getEnvOrDefault("VEMBED_CORPUS", c.CorpusPath)
	c.OutputDir = getEnvOrDefault("VEMBED_OUTPUT_DIR", c.OutputDir)
	c.Provider = strings.ToLower(getEnvOrDefault("VEMBED_PROVIDER", c.Provider))
	c.Model = getEnvOrDefault("VEMBED_MODEL", c.Model)
	c.BaseURL = getEnvOrDefault("VEMBED_BASE_URL", c.BaseURL)

	if v := os.Getenv("VEMBED_CHECKPOINT_INTERVAL"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return apperrors.InvalidField("VEMBED_CHECKPOINT_INTERVAL", err.Error())
		}
		c.CheckpointInterval = n
	}

	endpoints := GetServiceEndpoints()
	if endpoints.RedisURL.IsSet() {
		c.Cache.RedisURL = endpoints.RedisURL
	}
	if endpoints.DatabaseURL.IsSet() {
		c.Database.DSN = endpoints.DatabaseURL
		if c.Database.Driver == "" {
			c.Database.Driver = "postgres"
		}
	}
	if endpoints.MinioEndpoint != "" {
		c.Publish.Endpoint = endpoints.MinioEndpoint
	}
	c.Publish.AccessKey = endpoints.MinioAccessKey
	c.Publish.SecretKey = endpoints.MinioSecretKey
	if endpoints.PushgatewayURL != "" {
		c.Metrics.PushgatewayURL = endpoints.PushgatewayURL
	}

	c.APIKeys = *GetAPIKeys()

	return nil
}

// Normalize fills model defaults that depend on the selected provider
func (c *Config) Normalize() {
	c.Provider = strings.ToLower(strings.TrimSpace(c.Provider))
	defaults := GetModelDefaults(c.Provider)
	if c.Model == "" {
		c.Model = defaults.Model
	}
	if c.Dimensions == 0 && c.Model == defaults.Model {
		c.Dimensions = defaults.Dimensions
	}
}

// Validate checks struct constraints and the retry ranges. Errors match
// apperrors.ErrInvalidConfig.
func (c *Config) Validate() error {
	if err := c.validate(); err != nil {
		return fmt.Errorf("%w: %w", apperrors.ErrInvalidConfig, err)
	}
	return nil
}

func (c *Config) validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}
	if err := ValidateTimeout(c.Timeout, "request"); err != nil {
		return err
	}
	return ValidateRetryConfig(c.Retry)
}

// Load is the main entry point for configuration loading
func Load(configPath string) (*Config, error) {
	if err := LoadEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	cfg, err := LoadFile(configPath)
	if err != nil {
		return nil, err
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, fmt.Errorf("failed to apply environment: %w", err)
	}

	return cfg, nil
}
