// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the storefront API
type Config struct {
	App      AppConfig
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Security SecurityConfig
	Session  SessionConfig
	PayFast  PayFastConfig
	Email    EmailConfig
	Business BusinessConfig
	Internal InternalConfig
	Invoice  InvoiceConfig
	Logging  LoggingConfig
}

// AppConfig contains application-level configuration
type AppConfig struct {
	Name        string
	Version     string
	Environment string
	Debug       bool
	// SiteURL is the public origin of the storefront, used for return and cancel URLs.
	SiteURL string
	// APIURL is the public origin of this service, used for the PayFast notify URL.
	APIURL string
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	RequestTimeout  time.Duration
	MaxRequestBytes int64
}

// DatabaseConfig contains database connection configuration
type DatabaseConfig struct {
	Host         string
	Port         string
	Name         string
	User         string
	Password     string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  time.Duration
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

// JWTConfig contains JWT token configuration
type JWTConfig struct {
	Secret            string
	AccessTokenExpiry time.Duration
}

// SecurityConfig contains security-related configuration
type SecurityConfig struct {
	BcryptCost         int
	RateLimitPerMinute int
	CORSAllowedOrigins []string
	CORSAllowedMethods []string
	CORSAllowedHeaders []string
	TrustedProxies     []string
}

// SessionConfig controls the anonymous shopping session
type SessionConfig struct {
	CookieName   string
	CookieSecure bool
	TTL          time.Duration
	SyncQueue    int
}

// PayFastConfig contains PayFast merchant configuration
type PayFastConfig struct {
	MerchantID      string
	MerchantKey     string
	Passphrase      string
	ProcessURL      string
	VerifySignature bool
}

// Configured reports whether merchant credentials are present.
func (p PayFastConfig) Configured() bool {
	return p.MerchantID != "" && p.MerchantKey != ""
}

// EmailConfig contains email service configuration
type EmailConfig struct {
	Provider   string
	APIKey     string
	APIBaseURL string
	FromEmail  string
	FromName   string
	ReplyTo    string
	SMTPHost   string
	SMTPPort   int
	SMTPUser   string
	SMTPPass   string
	SMTPUseTLS bool
	Timeout    time.Duration
}

// BusinessConfig identifies the shop owner
type BusinessConfig struct {
	Name           string
	Email          string
	WhatsAppNumber string
}

// InternalConfig protects service-to-service endpoints
type InternalConfig struct {
	Token string
}

// InvoiceConfig contains invoice PDF configuration
type InvoiceConfig struct {
	Enabled        bool
	WkhtmltopdfBin string
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
			Name:        getEnv("APP_NAME", "DK Code Insights Store"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			Environment: getEnv("APP_ENV", "development"),
			Debug:       getEnvAsBool("APP_DEBUG", true),
			SiteURL:     strings.TrimRight(getEnv("SITE_URL", "http://localhost:5173"), "/"),
			APIURL:      strings.TrimRight(getEnv("API_URL", "http://localhost:8080"), "/"),
		},
		Server: ServerConfig{
			Port:            getEnv("APP_PORT", "8080"),
			ReadTimeout:     getEnvAsDuration("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:    getEnvAsDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:     getEnvAsDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
			RequestTimeout:  getEnvAsDuration("SERVER_REQUEST_TIMEOUT", 20*time.Second),
			MaxRequestBytes: getEnvAsInt64("SERVER_MAX_REQUEST_BYTES", 1<<20),
		},
		Database: DatabaseConfig{
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnv("DB_PORT", "5432"),
			Name:         getEnv("DB_NAME", "storefront"),
			User:         getEnv("DB_USER", "storefront"),
			Password:     getEnv("DB_PASSWORD", "storefront"),
			SSLMode:      getEnv("DB_SSL_MODE", "disable"),
			MaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns: getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
			MaxLifetime:  getEnvAsDuration("DB_MAX_LIFETIME", 300*time.Second),
		},
		Redis: RedisConfig{
			Host:         getEnv("REDIS_HOST", "localhost"),
			Port:         getEnv("REDIS_PORT", "6379"),
			Password:     getEnv("REDIS_PASSWORD", ""),
			DB:           getEnvAsInt("REDIS_DB", 0),
			PoolSize:     getEnvAsInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: getEnvAsInt("REDIS_MIN_IDLE_CONNS", 2),
		},
		JWT: JWTConfig{
			Secret:            getEnv("JWT_SECRET", "change-me-change-me-change-me-change-me"),
			AccessTokenExpiry: getEnvAsDuration("JWT_ACCESS_EXPIRE", 24*time.Hour),
		},
		Security: SecurityConfig{
			BcryptCost:         getEnvAsInt("BCRYPT_COST", 12),
			RateLimitPerMinute: getEnvAsInt("RATE_LIMIT_PER_MINUTE", 120),
			CORSAllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173", "http://localhost:3000"}),
			CORSAllowedMethods: getEnvAsSlice("CORS_ALLOWED_METHODS", []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}),
			CORSAllowedHeaders: getEnvAsSlice("CORS_ALLOWED_HEADERS", []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Session-ID", "X-Request-ID"}),
			TrustedProxies:     getEnvAsSlice("TRUSTED_PROXIES", []string{}),
		},
		Session: SessionConfig{
			CookieName:   getEnv("SESSION_COOKIE_NAME", "session_id"),
			CookieSecure: getEnvAsBool("SESSION_COOKIE_SECURE", false),
			TTL:          getEnvAsDuration("SESSION_TTL", 24*time.Hour),
			SyncQueue:    getEnvAsInt("CART_SYNC_QUEUE", 256),
		},
		PayFast: PayFastConfig{
			MerchantID:      getEnv("PAYFAST_MERCHANT_ID", ""),
			MerchantKey:     getEnv("PAYFAST_MERCHANT_KEY", ""),
			Passphrase:      getEnv("PAYFAST_PASSPHRASE", ""),
			ProcessURL:      getEnv("PAYFAST_PROCESS_URL", "https://www.payfast.co.za/eng/process"),
			VerifySignature: getEnvAsBool("PAYFAST_VERIFY_SIGNATURE", false),
		},
		Email: EmailConfig{
			Provider:   getEnv("EMAIL_PROVIDER", "resend"),
			APIKey:     getEnv("EMAIL_API_KEY", getEnv("RESEND_API_KEY", "")),
			APIBaseURL: getEnv("EMAIL_API_BASE_URL", ""),
			FromEmail:  getEnv("FROM_EMAIL", "orders@dkcodeinsights.co.za"),
			FromName:   getEnv("FROM_NAME", "DK Code Insights"),
			ReplyTo:    getEnv("REPLY_TO_EMAIL", ""),
			SMTPHost:   getEnv("SMTP_HOST", ""),
			SMTPPort:   getEnvAsInt("SMTP_PORT", 587),
			SMTPUser:   getEnv("SMTP_USER", ""),
			SMTPPass:   getEnv("SMTP_PASS", ""),
			SMTPUseTLS: getEnvAsBool("SMTP_USE_TLS", false),
			Timeout:    getEnvAsDuration("EMAIL_TIMEOUT", 15*time.Second),
		},
		Business: BusinessConfig{
			Name:           getEnv("BUSINESS_NAME", "DK Code Insights"),
			Email:          getEnv("BUSINESS_EMAIL", ""),
			WhatsAppNumber: getEnv("BUSINESS_WHATSAPP", "27660462575"),
		},
		Internal: InternalConfig{
			Token: getEnv("INTERNAL_API_TOKEN", ""),
		},
		Invoice: InvoiceConfig{
			Enabled:        getEnvAsBool("INVOICE_PDF_ENABLED", true),
			WkhtmltopdfBin: getEnv("WKHTMLTOPDF_PATH", ""),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
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
	if len(c.JWT.Secret) < 32 {
		return errors.New("JWT_SECRET must be at least 32 characters long")
	}

	if c.Database.Host == "" {
		return errors.New("DB_HOST is required")
	}
	if c.Database.Name == "" {
		return errors.New("DB_NAME is required")
	}
	if c.Database.User == "" {
		return errors.New("DB_USER is required")
	}

	if c.Redis.Host == "" {
		return errors.New("REDIS_HOST is required")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT is required")
	}

	if c.Session.TTL <= 0 {
		return errors.New("SESSION_TTL must be positive")
	}

	// PayFast credentials are checked per checkout so the shop can still run EFT orders without them.
	if c.IsProduction() && c.Internal.Token == "" {
		return errors.New("INTERNAL_API_TOKEN is required in production")
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

// GetDatabaseDSN returns the database connection string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// GetRedisAddr returns the Redis address
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}

// NotifyURL is the public PayFast ITN endpoint of this service.
func (c *Config) NotifyURL() string {
	return c.App.APIURL + "/api/v1/webhooks/payfast"
}

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
		parts := strings.Split(value, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		return out
	}
	return defaultValue
}
