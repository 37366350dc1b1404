// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the storefront backend
type Config struct {
	App      AppConfig
	Server   ServerConfig
	Redis    RedisConfig
	Session  SessionConfig
	Security SecurityConfig
	Catalog  CatalogConfig
	Shipping ShippingConfig
	External ExternalConfig
	Logging  LoggingConfig
}

// AppConfig contains application-level configuration
type AppConfig struct {
	Name         string
	Version      string
	Environment  string
	Debug        bool
	BaseURL      string
	SupportEmail string
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// RedisConfig contains Redis configuration
type RedisConfig struct {
	Host         string
	Port         string
	Password     string
	DB           int
	PoolSize     int
	MinIdleConns int
}

// SessionConfig contains shopper session cookie configuration
type SessionConfig struct {
	Secret     string
	CookieName string
	TTL        time.Duration
}

// SecurityConfig contains security-related configuration
type SecurityConfig struct {
	RateLimitPerMinute int
	CORSAllowedOrigins []string
	CORSAllowedMethods []string
	CORSAllowedHeaders []string
	MaxRequestBody     int64
}

// CatalogConfig contains the external product catalog configuration
type CatalogConfig struct {
	URL            string
	CacheTTL       time.Duration
	RequestTimeout time.Duration
}

// ShippingOption represents one configurable shipping rate offered at checkout
type ShippingOption struct {
	Name    string
	Amount  int64 // minor units
	MinDays int64
	MaxDays int64
}

// ShippingConfig contains shipping rates and country restrictions
type ShippingConfig struct {
	Currency         string
	AllowedCountries []string
	Options          []ShippingOption
}

// ExternalConfig contains external service configurations
type ExternalConfig struct {
	Stripe  StripeConfig
	Webhook WebhookConfig
}

// StripeConfig contains Stripe payment configuration
type StripeConfig struct {
	SecretKey      string
	PublishableKey string
}

// WebhookConfig contains the outbound order notification configuration
type WebhookConfig struct {
	OrderURL string
	Timeout  time.Duration
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string
	Format string
}

// Load loads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found, using environment variables")
	}

	config := &Config{
		App: AppConfig{
			Name:         getEnv("APP_NAME", "BookTokPrint Storefront"),
			Version:      getEnv("APP_VERSION", "1.0.0"),
			Environment:  getEnv("APP_ENV", "development"),
			Debug:        getEnvAsBool("APP_DEBUG", true),
			BaseURL:      getEnv("BASE_URL", "http://localhost:8080"),
			SupportEmail: getEnv("SUPPORT_EMAIL", "hello@booktokprint.com"),
		},
		Server: ServerConfig{
			Port:         getEnv("APP_PORT", "8080"),
			ReadTimeout:  getEnvAsDuration("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout: getEnvAsDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:  getEnvAsDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
		},
		Redis: RedisConfig{
			Host:         getEnv("REDIS_HOST", "localhost"),
			Port:         getEnv("REDIS_PORT", "6379"),
			Password:     getEnv("REDIS_PASSWORD", ""),
			DB:           getEnvAsInt("REDIS_DB", 0),
			PoolSize:     getEnvAsInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: getEnvAsInt("REDIS_MIN_IDLE_CONNS", 5),
		},
		Session: SessionConfig{
			Secret:     getEnv("SESSION_SECRET", "your-super-secret-session-key-change-in-production"),
			CookieName: getEnv("SESSION_COOKIE_NAME", "shopper_session"),
			TTL:        getEnvAsDuration("SESSION_TTL", 30*24*time.Hour),
		},
		Security: SecurityConfig{
			RateLimitPerMinute: getEnvAsInt("RATE_LIMIT_PER_MINUTE", 100),
			CORSAllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
			CORSAllowedMethods: getEnvAsSlice("CORS_ALLOWED_METHODS", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
			CORSAllowedHeaders: getEnvAsSlice("CORS_ALLOWED_HEADERS", []string{"Origin", "Content-Type", "Accept"}),
			MaxRequestBody:     getEnvAsInt64("MAX_REQUEST_BODY", 1<<20), // 1MB
		},
		Catalog: CatalogConfig{
			URL:            getEnv("PRODUCT_API_URL", "https://msm.slash48.net/api/internal/v2/store/booktok/product-list"),
			CacheTTL:       getEnvAsDuration("CATALOG_CACHE_TTL", 60*time.Second),
			RequestTimeout: getEnvAsDuration("CATALOG_REQUEST_TIMEOUT", 10*time.Second),
		},
		Shipping: ShippingConfig{
			Currency:         getEnv("SHIPPING_CURRENCY", "gbp"),
			AllowedCountries: getEnvAsSlice("SHIPPING_ALLOWED_COUNTRIES", []string{"GB"}),
			Options: getEnvAsShippingOptions("SHIPPING_OPTIONS", []ShippingOption{
				{Name: "Standard Shipping", Amount: 399, MinDays: 3, MaxDays: 5},
				{Name: "Express Shipping", Amount: 799, MinDays: 1, MaxDays: 2},
			}),
		},
		External: ExternalConfig{
			Stripe: StripeConfig{
				SecretKey:      getEnv("STRIPE_SECRET_KEY", ""),
				PublishableKey: getEnv("STRIPE_PUBLISHABLE_KEY", ""),
			},
			Webhook: WebhookConfig{
				OrderURL: getEnv("ORDER_WEBHOOK_URL", ""),
				Timeout:  getEnvAsDuration("ORDER_WEBHOOK_TIMEOUT", 10*time.Second),
			},
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "debug"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	// Validate session secret
	if len(c.Session.Secret) < 32 {
		return fmt.Errorf("SESSION_SECRET must be at least 32 characters long")
	}

	// Validate Redis configuration
	if c.Redis.Host == "" {
		return fmt.Errorf("REDIS_HOST is required")
	}

	// Validate server port
	if c.Server.Port == "" {
		return fmt.Errorf("APP_PORT is required")
	}

	// Validate catalog configuration
	if c.Catalog.URL == "" {
		return fmt.Errorf("PRODUCT_API_URL is required")
	}

	// Validate shipping configuration
	if c.Shipping.Currency == "" {
		return fmt.Errorf("SHIPPING_CURRENCY is required")
	}
	if len(c.Shipping.AllowedCountries) == 0 {
		return fmt.Errorf("SHIPPING_ALLOWED_COUNTRIES is required")
	}
	if len(c.Shipping.Options) == 0 {
		return fmt.Errorf("SHIPPING_OPTIONS is required")
	}

	return nil
}

// IsDevelopment returns true if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction returns true if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetRedisAddr returns the Redis address
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}

// Helper functions for environment variable parsing

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		return strings.Split(value, ",")
	}
	return defaultValue
}

// getEnvAsShippingOptions parses shipping options from the environment in the
// form "Name:amount:minDays:maxDays[,...]" with amount in minor units.
func getEnvAsShippingOptions(key string, defaultValue []ShippingOption) []ShippingOption {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	options, err := ParseShippingOptions(value)
	if err != nil {
		return defaultValue
	}
	return options
}

// ParseShippingOptions parses a comma-separated shipping option list
func ParseShippingOptions(value string) ([]ShippingOption, error) {
	var options []ShippingOption
	for _, raw := range strings.Split(value, ",") {
		parts := strings.Split(strings.TrimSpace(raw), ":")
		if len(parts) != 4 {
			return nil, fmt.Errorf("invalid shipping option %q: want Name:amount:minDays:maxDays", raw)
		}

		amount, err := strconv.ParseInt(parts[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid shipping amount %q: %w", parts[1], err)
		}
		minDays, err := strconv.ParseInt(parts[2], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid shipping minimum days %q: %w", parts[2], err)
		}
		maxDays, err := strconv.ParseInt(parts[3], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid shipping maximum days %q: %w", parts[3], err)
		}

		options = append(options, ShippingOption{
			Name:    parts[0],
			Amount:  amount,
			MinDays: minDays,
			MaxDays: maxDays,
		})
	}

	return options, nil
}
