package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (port, etc.)
// - default: Values common across all environments (timezone, timeout, etc.), standard settings
// - mail credentials are never required at startup; they are read per request
// -----------------------------------------------------------------------------

type Config struct {
	Server   ServerConfig
	CORS     CORSConfig
	Log      LogConfig
	Cookie   CookieConfig
	Mail     MailConfig
	Breaker  BreakerConfig
	Receipt  ReceiptConfig
	Checkout CheckoutConfig
	Session  SessionConfig
	Redis    RedisConfig
	AMQP     AMQPConfig
	Catalog  CatalogConfig
}

type ServerConfig struct {
	Port string `envconfig:"PORT" required:"true"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:8080"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level          string `envconfig:"LOG_LEVEL" default:"info"`
	TimeZone       string `envconfig:"LOG_TIMEZONE" default:"Asia/Manila"`
	TimeFormat     string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02 15:04:05.000"`
	TimeZoneOffset int    `envconfig:"LOG_TIMEZONE_OFFSET" default:"28800"` // 8*60*60
}

type CookieConfig struct {
	Domain   string `envconfig:"COOKIE_DOMAIN" default:""`
	Secure   bool   `envconfig:"COOKIE_SECURE" default:"false"`
	SameSite string `envconfig:"COOKIE_SAME_SITE" default:"Lax"`
}

// MailConfig mirrors the SMTP settings of the receipt endpoint.
type MailConfig struct {
	Host              string        `envconfig:"SMTP_HOST" default:"smtp.gmail.com"`
	Port              int           `envconfig:"SMTP_PORT" default:"587"`
	Secure            bool          `envconfig:"SMTP_SECURE" default:"false"` // true for 465, false for STARTTLS on 587
	RequireTLS        bool          `envconfig:"SMTP_REQUIRE_TLS" default:"false"`
	Username          string        `envconfig:"SMTP_USER"`
	Password          string        `envconfig:"SMTP_PASS"`
	ConnectionTimeout time.Duration `envconfig:"SMTP_CONNECTION_TIMEOUT" default:"10s"`
	Verify            bool          `envconfig:"SMTP_VERIFY" default:"true"`
	FromName          string        `envconfig:"MAIL_FROM_NAME" default:"ARC APPAREL"`
	FromAddress       string        `envconfig:"MAIL_FROM_ADDRESS"`
}

// Sender falls back to the SMTP account when no explicit sender address is set.
func (c MailConfig) Sender() string {
	if c.FromAddress != "" {
		return c.FromAddress
	}
	return c.Username
}

type BreakerConfig struct {
	Enabled             bool          `envconfig:"SMTP_BREAKER_ENABLED" default:"true"`
	ConsecutiveFailures uint32        `envconfig:"SMTP_BREAKER_FAILURES" default:"3"`
	OpenTimeout         time.Duration `envconfig:"SMTP_BREAKER_OPEN_TIMEOUT" default:"30s"`
}

type ReceiptConfig struct {
	BrandName     string        `envconfig:"RECEIPT_BRAND_NAME" default:"ARC APPAREL"`
	Tagline       string        `envconfig:"RECEIPT_TAGLINE" default:"Order Confirmation"`
	CurrencyGlyph string        `envconfig:"RECEIPT_CURRENCY_GLYPH" default:"₱"`
	PromoText     string        `envconfig:"RECEIPT_PROMO_TEXT" default:""`
	PromoURL      string        `envconfig:"RECEIPT_PROMO_URL" default:""`
	Copyright     string        `envconfig:"RECEIPT_COPYRIGHT" default:"© 2026 ARC APPAREL INC."`
	ServiceURL    string        `envconfig:"RECEIPT_SERVICE_URL" default:""`
	ClientTimeout time.Duration `envconfig:"RECEIPT_CLIENT_TIMEOUT" default:"30s"`
}

type CheckoutConfig struct {
	ResetDelay      time.Duration `envconfig:"CHECKOUT_RESET_DELAY" default:"6s"`
	TestSendEnabled bool          `envconfig:"CHECKOUT_TEST_SEND_ENABLED" default:"false"`
}

type SessionConfig struct {
	CookieName    string        `envconfig:"SESSION_COOKIE_NAME" default:"arc_session"`
	CookieMaxAge  time.Duration `envconfig:"SESSION_COOKIE_MAX_AGE" default:"720h"`
	IdleTTL       time.Duration `envconfig:"SESSION_IDLE_TTL" default:"30m"`
	SweepInterval time.Duration `envconfig:"SESSION_SWEEP_INTERVAL" default:"1m"`
	CartTTL       time.Duration `envconfig:"SESSION_CART_TTL" default:"24h"` // in-memory cart store only
}

type RedisConfig struct {
	Addr     string        `envconfig:"REDIS_ADDR" default:""`
	Password string        `envconfig:"REDIS_PASSWORD" default:""`
	DB       int           `envconfig:"REDIS_DB" default:"0"`
	CartTTL  time.Duration `envconfig:"REDIS_CART_TTL" default:"168h"`
}

type AMQPConfig struct {
	URL      string `envconfig:"AMQP_URL" default:""`
	Exchange string `envconfig:"AMQP_EXCHANGE" default:"storefront"`
}

type CatalogConfig struct {
	Path string `envconfig:"CATALOG_PATH" default:""`
}

func (c RedisConfig) Enabled() bool { return c.Addr != "" }
func (c AMQPConfig) Enabled() bool  { return c.URL != "" }

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	return cfg, nil
}

// LoadMailConfig re-reads only the SMTP settings, so rotated credentials apply to the next send.
func LoadMailConfig() (MailConfig, error) {
	var cfg MailConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return MailConfig{}, fmt.Errorf("failed to process mail env config: %w", err)
	}
	return cfg, nil
}

func NewTestConfig() Config {
	return Config{
		Server: ServerConfig{
			Port: "8889", // Test port
		},
		Log: LogConfig{
			Level:          "error", // Error level only for tests
			TimeZone:       "Asia/Manila",
			TimeFormat:     "2006-01-02 15:04:05.000",
			TimeZoneOffset: 28800,
		},
		Cookie: CookieConfig{SameSite: "Lax"},
		Mail: MailConfig{
			Host:              "localhost",
			Port:              2525,
			Username:          "shop@example.com",
			Password:          "secret",
			ConnectionTimeout: 2 * time.Second,
			Verify:            true,
			FromName:          "ARC APPAREL",
		},
		Receipt: ReceiptConfig{
			BrandName:     "ARC APPAREL",
			Tagline:       "Order Confirmation",
			CurrencyGlyph: "₱",
			Copyright:     "© 2026 ARC APPAREL INC.",
		},
		Checkout: CheckoutConfig{
			ResetDelay:      6 * time.Second,
			TestSendEnabled: true,
		},
		Session: SessionConfig{
			CookieName:    "arc_session",
			CookieMaxAge:  time.Hour,
			IdleTTL:       30 * time.Minute,
			SweepInterval: time.Minute,
			CartTTL:       24 * time.Hour,
		},
	}
}
