package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Upstream UpstreamConfig `mapstructure:"upstream"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Pricing  PricingConfig  `mapstructure:"pricing"`
	Log      LogConfig      `mapstructure:"log"`
}

// ServerConfig holds the HTTP listener settings
type ServerConfig struct {
	Port int    `mapstructure:"port" validate:"min=1,max=65535"`
	Host string `mapstructure:"host"`
}

// UpstreamConfig holds the managed catalog backend settings
type UpstreamConfig struct {
	BaseURL              string        `mapstructure:"base_url" validate:"required,url"`
	APIKey               string        `mapstructure:"api_key"`
	Timeout              int           `mapstructure:"timeout" validate:"min=1"`
	MaxRetries           int           `mapstructure:"max_retries" validate:"min=0"`
	MaxWorkers           int           `mapstructure:"max_workers" validate:"min=1"`
	MaxRequestsPerSecond int           `mapstructure:"max_requests_per_second" validate:"min=1"`
	PageSize             int           `mapstructure:"page_size" validate:"min=1,max=1000"`
	Cooldown             time.Duration `mapstructure:"cooldown"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string `mapstructure:"host" validate:"required"`
	Port     int    `mapstructure:"port" validate:"min=1,max=65535"`
	Name     string `mapstructure:"name" validate:"required"`
	User     string `mapstructure:"user" validate:"required"`
	Password string `mapstructure:"password"`
}

// DSN returns the pgx connection string
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		d.Host, d.Port, d.User, d.Password, d.Name)
}

// RedisConfig holds Redis connection details
type RedisConfig struct {
	Host           string `mapstructure:"host" validate:"required"`
	Port           int    `mapstructure:"port" validate:"min=1,max=65535"`
	Password       string `mapstructure:"password"`
	Database       int    `mapstructure:"database" validate:"min=0"`
	ConsumerGroup  string `mapstructure:"consumer_group" validate:"required"`
	MinIdleTime    int    `mapstructure:"min_idle_time" validate:"min=1"`
	BundleInfoTTL  int    `mapstructure:"bundle_info_ttl" validate:"min=0"`
	SaveEveryPages int    `mapstructure:"save_every_pages" validate:"min=1"`
	ReadBlock      int    `mapstructure:"read_block" validate:"min=0"`
	ClaimBatch     int    `mapstructure:"claim_batch" validate:"min=0"`
}

// PricingConfig holds the discount policy. Rates are decimal strings holding
// fractions, "0.1" = 10%.
type PricingConfig struct {
	CurrencySymbol string             `mapstructure:"currency_symbol" validate:"required"`
	LevelRates     LevelRatesConfig   `mapstructure:"level_rates"`
	Subscription   SubscriptionConfig `mapstructure:"subscription"`
}

type LevelRatesConfig struct {
	Arc    string `mapstructure:"arc" validate:"rate"`
	Saga   string `mapstructure:"saga" validate:"rate"`
	Volume string `mapstructure:"volume" validate:"rate"`
	Book   string `mapstructure:"book" validate:"rate"`
}

type SubscriptionConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	DiscountRate string `mapstructure:"discount_rate" validate:"rate"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=trace debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=text json"`
}

// Load loads configuration from a YAML file with environment variable overrides.
// An empty path looks for config.yaml in the current directory.
func Load(path string) (*Config, error) {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	setDefaults(v)

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil, fmt.Errorf("config.yaml file not found in current directory")
		}
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := Validate(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.host", "localhost")

	v.SetDefault("upstream.base_url", "http://localhost:54321")
	v.SetDefault("upstream.api_key", "")
	v.SetDefault("upstream.timeout", 30)
	v.SetDefault("upstream.max_retries", 3)
	v.SetDefault("upstream.max_workers", 10)
	v.SetDefault("upstream.max_requests_per_second", 20)
	v.SetDefault("upstream.page_size", 200)
	v.SetDefault("upstream.cooldown", "5m")

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "storefront")
	v.SetDefault("database.user", "storefront_user")
	v.SetDefault("database.password", "storefront_pass")

	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.database", 0)
	v.SetDefault("redis.consumer_group", "storefront_consumer")
	v.SetDefault("redis.min_idle_time", 120)
	v.SetDefault("redis.bundle_info_ttl", 3600)
	v.SetDefault("redis.save_every_pages", 10)
	v.SetDefault("redis.read_block", 5)
	v.SetDefault("redis.claim_batch", 10)

	v.SetDefault("pricing.currency_symbol", "$")
	v.SetDefault("pricing.level_rates.arc", "0.10")
	v.SetDefault("pricing.level_rates.saga", "0.20")
	v.SetDefault("pricing.level_rates.volume", "0.30")
	v.SetDefault("pricing.level_rates.book", "0.40")
	v.SetDefault("pricing.subscription.enabled", true)
	v.SetDefault("pricing.subscription.discount_rate", "0.10")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}
