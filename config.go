package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	aws_pkg "github.com/JayaSurya-Dev/hand-crafted-paper-e-commerce/pkg/aws"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Config holds all configuration for the storefront.
type Config struct {
	Port        string
	Env         string
	ServiceName string

	DatabaseURL      string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresHost     string
	PostgresPort     string
	PostgresSSLMode  string
	PostgresTimeZone string

	SessionBackend string // redis, dynamodb or memory
	SessionCookie  string
	SessionTTL     time.Duration
	SessionSecure  bool
	RedisURL       string
	SessionTable   string

	CatalogCacheTTL time.Duration

	StripePublicKey     string
	StripeSecretKey     string
	StripeWebhookSecret string
	StripeCurrency      string

	FreeDeliveryThreshold      decimal.Decimal
	StandardDeliveryPercentage decimal.Decimal

	MailchimpAPIKey     string
	MailchimpDataCenter string
	MailchimpListID     string

	SMTPHost     string
	SMTPPort     string
	SMTPUser     string
	SMTPPassword string
	SMTPFrom     string
	StaffEmail   string

	JWTSecret string

	OrderEventsTopicARN string
	OrderEventsQueueURL string
	MediaBucket         string

	CloudWatchEnabled   bool
	CloudWatchNamespace string
	CloudWatchLogGroup  string

	CORSAllowedOrigins []string
}

// secretSource is satisfied by aws_pkg.SecretsClient.
type secretSource interface {
	GetSecretMap(ctx context.Context, name string) (map[string]string, error)
}

// LoadConfig reads configuration from the environment (and a .env file when
// present) with optional Secrets Manager overrides.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg, err := configFromEnv()
	if err != nil {
		return nil, err
	}

	if os.Getenv("AWS_USE_SECRETS") == "true" {
		awsCfg, err := aws_pkg.LoadAWSConfig(context.Background())
		if err != nil {
			return nil, err
		}
		applySecrets(context.Background(), cfg, aws_pkg.NewSecretsClient(awsCfg))
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func configFromEnv() (*Config, error) {
	threshold, err := decimal.NewFromString(getEnv("FREE_DELIVERY_THRESHOLD", "50"))
	if err != nil {
		return nil, fmt.Errorf("FREE_DELIVERY_THRESHOLD: %w", err)
	}
	percentage, err := decimal.NewFromString(getEnv("STANDARD_DELIVERY_PERCENTAGE", "10"))
	if err != nil {
		return nil, fmt.Errorf("STANDARD_DELIVERY_PERCENTAGE: %w", err)
	}
	sessionTTL, err := time.ParseDuration(getEnv("SESSION_TTL", "336h"))
	if err != nil {
		return nil, fmt.Errorf("SESSION_TTL: %w", err)
	}
	cacheTTL, err := time.ParseDuration(getEnv("CATALOG_CACHE_TTL", "10m"))
	if err != nil {
		return nil, fmt.Errorf("CATALOG_CACHE_TTL: %w", err)
	}

	return &Config{
		Port:        getEnv("PORT", "8000"),
		Env:         getEnv("ENV", "development"),
		ServiceName: getEnv("SERVICE_NAME", "hand-crafted"),

		DatabaseURL:      os.Getenv("DATABASE_URL"),
		PostgresUser:     os.Getenv("POSTGRES_USER"),
		PostgresPassword: os.Getenv("POSTGRES_PASSWORD"),
		PostgresDB:       os.Getenv("POSTGRES_DB"),
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
		PostgresTimeZone: getEnv("POSTGRES_TIMEZONE", "UTC"),

		SessionBackend: strings.ToLower(getEnv("SESSION_BACKEND", "redis")),
		SessionCookie:  getEnv("SESSION_COOKIE", "sessionid"),
		SessionTTL:     sessionTTL,
		SessionSecure:  getEnvBool("SESSION_COOKIE_SECURE", false),
		RedisURL:       getEnv("REDIS_URL", "redis://localhost:6379/0"),
		SessionTable:   getEnv("DDB_TABLE_SESSIONS", "Sessions"),

		CatalogCacheTTL: cacheTTL,

		StripePublicKey:     os.Getenv("STRIPE_PUBLIC_KEY"),
		StripeSecretKey:     os.Getenv("STRIPE_SECRET_KEY"),
		StripeWebhookSecret: os.Getenv("STRIPE_WEBHOOK_SECRET"),
		StripeCurrency:      getEnv("STRIPE_CURRENCY", "usd"),

		FreeDeliveryThreshold:      threshold,
		StandardDeliveryPercentage: percentage,

		MailchimpAPIKey:     os.Getenv("MAILCHIMP_API_KEY"),
		MailchimpDataCenter: os.Getenv("MAILCHIMP_DATA_CENTER"),
		MailchimpListID:     os.Getenv("MAILCHIMP_LIST_ID"),

		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPPort:     getEnv("SMTP_PORT", "587"),
		SMTPUser:     os.Getenv("SMTP_USER"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		SMTPFrom:     getEnv("SMTP_FROM", "orders@handcraftedpaper.com"),
		StaffEmail:   os.Getenv("STAFF_EMAIL"),

		JWTSecret: strings.TrimSpace(os.Getenv("JWT_SECRET")),

		OrderEventsTopicARN: os.Getenv("SNS_ORDER_EVENTS_TOPIC_ARN"),
		OrderEventsQueueURL: os.Getenv("SQS_ORDER_EVENTS_QUEUE_URL"),
		MediaBucket:         os.Getenv("S3_MEDIA_BUCKET"),

		CloudWatchEnabled:   getEnvBool("CLOUDWATCH_ENABLED", false),
		CloudWatchNamespace: getEnv("CLOUDWATCH_NAMESPACE", "HandCrafted"),
		CloudWatchLogGroup:  os.Getenv("CLOUDWATCH_LOG_GROUP"),

		CORSAllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000")),
	}, nil
}

// applySecrets overrides credentials with the values kept in Secrets Manager.
// Missing secrets leave the environment values in place.
func applySecrets(ctx context.Context, cfg *Config, sm secretSource) {
	override := func(name string, targets map[string]*string) {
		m, err := sm.GetSecretMap(ctx, name)
		if err != nil {
			return
		}
		for key, target := range targets {
			if v, ok := m[key]; ok && v != "" {
				*target = v
			}
		}
	}

	override("hand-crafted/DB_CREDENTIALS", map[string]*string{
		"POSTGRES_USER":     &cfg.PostgresUser,
		"POSTGRES_PASSWORD": &cfg.PostgresPassword,
		"POSTGRES_DB":       &cfg.PostgresDB,
		"POSTGRES_HOST":     &cfg.PostgresHost,
		"POSTGRES_PORT":     &cfg.PostgresPort,
	})
	override("hand-crafted/STRIPE", map[string]*string{
		"STRIPE_PUBLIC_KEY":     &cfg.StripePublicKey,
		"STRIPE_SECRET_KEY":     &cfg.StripeSecretKey,
		"STRIPE_WEBHOOK_SECRET": &cfg.StripeWebhookSecret,
	})
	override("hand-crafted/MAILCHIMP", map[string]*string{
		"MAILCHIMP_API_KEY":     &cfg.MailchimpAPIKey,
		"MAILCHIMP_DATA_CENTER": &cfg.MailchimpDataCenter,
		"MAILCHIMP_LIST_ID":     &cfg.MailchimpListID,
	})
	override("hand-crafted/SMTP", map[string]*string{
		"SMTP_USER":     &cfg.SMTPUser,
		"SMTP_PASSWORD": &cfg.SMTPPassword,
	})
	override("hand-crafted/JWT", map[string]*string{
		"JWT_SECRET": &cfg.JWTSecret,
	})
}

func (c *Config) validate() error {
	if c.DatabaseURL == "" && (c.PostgresUser == "" || c.PostgresPassword == "" || c.PostgresDB == "" || c.PostgresHost == "") {
		return fmt.Errorf("database config incomplete")
	}
	if c.StripeSecretKey == "" {
		return fmt.Errorf("STRIPE_SECRET_KEY is required")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	switch c.SessionBackend {
	case "redis", "dynamodb", "memory":
	default:
		return fmt.Errorf("unknown SESSION_BACKEND %q", c.SessionBackend)
	}
	if c.StandardDeliveryPercentage.IsNegative() || c.FreeDeliveryThreshold.IsNegative() {
		return fmt.Errorf("delivery settings must not be negative")
	}
	return nil
}

// DSN returns DATABASE_URL when set, otherwise builds the connection string
// from the POSTGRES_* settings.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		c.PostgresHost, c.PostgresUser, c.PostgresPassword, c.PostgresDB, c.PostgresPort, c.PostgresSSLMode, c.PostgresTimeZone,
	)
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSuffix(strings.TrimSpace(part), "/"); part != "" {
			out = append(out, part)
		}
	}
	return out
}
