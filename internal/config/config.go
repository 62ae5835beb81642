// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Environment string
	Server      ServerConfig
	Backend     BackendConfig
	State       StateConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	Auth        AuthConfig
	Checkout    CheckoutConfig
	Catalog     CatalogConfig
	AWS         AWSConfig
	RateLimit   RateLimitConfig
	I18n        I18nConfig
	Frontend    FrontendConfig
}

type FrontendConfig struct {
	AllowedOrigins []string
}

type ServerConfig struct {
	Port         string
	Host         string
	ReadTimeout  int
	WriteTimeout int
	IdleTimeout  int
}

// BackendConfig points at the remote REST API that owns products, users and orders.
type BackendConfig struct {
	BaseURL        string
	RequestTimeout int // in seconds
}

type StateConfig struct {
	Driver       string // memory, postgres or redis
	CookieName   string
	CookieMaxAge int // in seconds
	CookieSecure bool
}

type DatabaseConfig struct {
	Host         string
	Port         string
	User         string
	Password     string
	Database     string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  int
	LogLevel     string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	TTL      int // in hours
}

type AuthConfig struct {
	AdminRoles []string
}

type CheckoutConfig struct {
	DiscountThreshold int64
	DiscountRate      string
	TaxRate           string
	ShippingAddress   string
	ShippingCommune   string
	ShippingRegion    string
}

type CatalogConfig struct {
	PageSize         int
	PlaceholderImage string
}

type AWSConfig struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	S3Bucket        string
	CloudFrontURL   string
	LocalUploadURL  string
	LocalUploadDir  string
}

type RateLimitConfig struct {
	GeneralPerSecond int
	GeneralBurst     int
	AuthPerMinute    int
	AuthBurst        int
}

type I18nConfig struct {
	DefaultLocale string
}

func Load() (*Config, error) {
	// Load .env file if it exists
	godotenv.Load()

	config := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "3000"),
			Host:         getEnv("SERVER_HOST", "localhost"),
			ReadTimeout:  getEnvAsInt("SERVER_READ_TIMEOUT", 15),
			WriteTimeout: getEnvAsInt("SERVER_WRITE_TIMEOUT", 30),
			IdleTimeout:  getEnvAsInt("SERVER_IDLE_TIMEOUT", 60),
		},
		Backend: BackendConfig{
			BaseURL:        getEnv("BACKEND_BASE_URL", "http://localhost:8080/api"),
			RequestTimeout: getEnvAsInt("BACKEND_REQUEST_TIMEOUT", 10),
		},
		State: StateConfig{
			Driver:       strings.ToLower(getEnv("STATE_DRIVER", "memory")),
			CookieName:   getEnv("VISITOR_COOKIE_NAME", "sf_visitor"),
			CookieMaxAge: getEnvAsInt("VISITOR_COOKIE_MAX_AGE", 60*60*24*30),
			CookieSecure: getEnvAsBool("VISITOR_COOKIE_SECURE", false),
		},
		Database: DatabaseConfig{
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnv("DB_PORT", "5432"),
			User:         getEnv("DB_USER", "postgres"),
			Password:     getEnv("DB_PASSWORD", ""),
			Database:     getEnv("DB_NAME", "storefront_state"),
			SSLMode:      getEnv("DB_SSL_MODE", "disable"),
			MaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns: getEnvAsInt("DB_MAX_IDLE_CONNS", 25),
			MaxLifetime:  getEnvAsInt("DB_MAX_LIFETIME", 300),
			LogLevel:     getEnv("DB_LOG_LEVEL", "silent"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			TTL:      getEnvAsInt("REDIS_STATE_TTL", 24*30),
		},
		Auth: AuthConfig{
			AdminRoles: getEnvAsList("ADMIN_ROLES", []string{"ADMIN", "ADMINISTRADOR"}),
		},
		Checkout: CheckoutConfig{
			DiscountThreshold: int64(getEnvAsInt("CHECKOUT_DISCOUNT_THRESHOLD", 59990)),
			DiscountRate:      getEnv("CHECKOUT_DISCOUNT_RATE", "0.10"),
			TaxRate:           getEnv("CHECKOUT_TAX_RATE", "0.19"),
			ShippingAddress:   getEnv("CHECKOUT_SHIPPING_ADDRESS", "Dirección Principal"),
			ShippingCommune:   getEnv("CHECKOUT_SHIPPING_COMMUNE", "Santiago"),
			ShippingRegion:    getEnv("CHECKOUT_SHIPPING_REGION", "Metropolitana"),
		},
		Catalog: CatalogConfig{
			PageSize:         getEnvAsInt("CATALOG_PAGE_SIZE", 6),
			PlaceholderImage: getEnv("CATALOG_PLACEHOLDER_IMAGE", "https://placehold.co/400x400?text=Sin+Imagen"),
		},
		AWS: AWSConfig{
			Region:          getEnv("AWS_REGION", "us-east-1"),
			AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
			S3Bucket:        getEnv("AWS_S3_BUCKET", "perfume-storefront-images"),
			CloudFrontURL:   getEnv("AWS_CLOUDFRONT_URL", ""),
			LocalUploadURL:  getEnv("LOCAL_UPLOAD_URL", "http://localhost:3000/uploads"),
			LocalUploadDir:  getEnv("LOCAL_UPLOAD_DIR", "./uploads"),
		},
		RateLimit: RateLimitConfig{
			GeneralPerSecond: getEnvAsInt("RATE_LIMIT_PER_SECOND", 10),
			GeneralBurst:     getEnvAsInt("RATE_LIMIT_BURST", 20),
			AuthPerMinute:    getEnvAsInt("AUTH_RATE_LIMIT_PER_MINUTE", 10),
			AuthBurst:        getEnvAsInt("AUTH_RATE_LIMIT_BURST", 5),
		},
		I18n: I18nConfig{
			DefaultLocale: getEnv("DEFAULT_LOCALE", "es"),
		},
		Frontend: FrontendConfig{
			AllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173"}),
		},
	}

	return config, config.Validate()
}

func (c *Config) Validate() error {
	if c.Backend.BaseURL == "" {
		return fmt.Errorf("backend base URL is required")
	}

	switch c.State.Driver {
	case "memory", "postgres", "redis":
	default:
		return fmt.Errorf("unknown state driver %q", c.State.Driver)
	}

	if c.State.Driver == "memory" && c.Environment == "production" {
		return fmt.Errorf("memory state driver is not allowed in production")
	}

	if c.Database.Password == "" && c.State.Driver == "postgres" && c.Environment == "production" {
		return fmt.Errorf("database password is required in production")
	}

	if c.Catalog.PageSize <= 0 {
		return fmt.Errorf("catalog page size must be positive")
	}

	return nil
}

// Helper functions
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

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(strings.ToLower(value)); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
