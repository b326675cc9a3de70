package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

const defaultJWTSecret = "a-very-secret-key-should-be-longer-and-random"

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	EnableDBCheck bool
	LogLevel      string

	JWTSecret string
	JWTIssuer string

	// Payment gateway
	GatewayBaseURL string
	GatewayAPIKey  string
	GatewayTimeout time.Duration
	WebhookSecret  string

	// Payment windows
	PixExpiry      time.Duration
	BoletoExpiry   time.Duration
	UnpaidOrderTTL time.Duration

	// Jobs
	ReconciliationCron      string
	ExpirySweepCron         string
	ReconciliationTolerance decimal.Decimal
	ReconciliationLockTTL   time.Duration

	// Optional infrastructure
	RedisURL              string
	RateLimit             string // ulule/limiter format, e.g. "100-M"
	PubSubProjectID       string
	PubSubTopic           string
	PubSubCredentialsJSON string
	CORSAllowedOrigins    []string

	EventWorkers   int
	EventQueueSize int
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	cfg := &Config{
		DatabaseURL:           v.GetString("PGSQL_URL"),
		Port:                  v.GetString("PORT"),
		IsProduction:          v.GetBool("IS_PRODUCTION"),
		EnableDBCheck:         v.GetBool("ENABLE_DB_CHECK"),
		LogLevel:              strings.ToLower(v.GetString("LOG_LEVEL")),
		JWTSecret:             v.GetString("JWT_SECRET"),
		JWTIssuer:             v.GetString("JWT_ISSUER"),
		GatewayBaseURL:        strings.TrimRight(v.GetString("GATEWAY_BASE_URL"), "/"),
		GatewayAPIKey:         v.GetString("GATEWAY_API_KEY"),
		WebhookSecret:         v.GetString("WEBHOOK_SECRET"),
		ReconciliationCron:    v.GetString("RECONCILIATION_CRON"),
		ExpirySweepCron:       v.GetString("EXPIRY_SWEEP_CRON"),
		RedisURL:              v.GetString("REDIS_URL"),
		RateLimit:             v.GetString("RATE_LIMIT"),
		PubSubProjectID:       v.GetString("PUBSUB_PROJECT_ID"),
		PubSubTopic:           v.GetString("PUBSUB_TOPIC"),
		PubSubCredentialsJSON: v.GetString("PUBSUB_CREDENTIALS_JSON"),
		CORSAllowedOrigins:    splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		EventWorkers:          v.GetInt("EVENT_WORKERS"),
		EventQueueSize:        v.GetInt("EVENT_QUEUE_SIZE"),
	}

	var err error
	durations := []struct {
		key    string
		target *time.Duration
	}{
		{"GATEWAY_TIMEOUT", &cfg.GatewayTimeout},
		{"PIX_EXPIRY", &cfg.PixExpiry},
		{"BOLETO_EXPIRY", &cfg.BoletoExpiry},
		{"UNPAID_ORDER_TTL", &cfg.UnpaidOrderTTL},
		{"RECONCILIATION_LOCK_TTL", &cfg.ReconciliationLockTTL},
	}
	for _, d := range durations {
		if *d.target, err = parseDuration(v, d.key); err != nil {
			return nil, err
		}
	}

	cfg.ReconciliationTolerance, err = decimal.NewFromString(v.GetString("RECONCILIATION_TOLERANCE"))
	if err != nil || cfg.ReconciliationTolerance.IsNegative() {
		return nil, fmt.Errorf("invalid RECONCILIATION_TOLERANCE %q", v.GetString("RECONCILIATION_TOLERANCE"))
	}

	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}
	if cfg.JWTSecret == defaultJWTSecret {
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}
	if cfg.GatewayBaseURL == "" {
		log.Println("Warning: GATEWAY_BASE_URL not set. Payment requests will fail.")
	}
	if cfg.WebhookSecret == "" {
		log.Println("Warning: WEBHOOK_SECRET not set. Webhook signatures will NOT be verified.")
	}
	if cfg.EventWorkers <= 0 {
		cfg.EventWorkers = 1
	}
	if cfg.EventQueueSize <= 0 {
		cfg.EventQueueSize = 256
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("ENABLE_DB_CHECK", false)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("JWT_SECRET", defaultJWTSecret)
	v.SetDefault("JWT_ISSUER", "checkout-settlement")
	v.SetDefault("GATEWAY_BASE_URL", "")
	v.SetDefault("GATEWAY_API_KEY", "")
	v.SetDefault("GATEWAY_TIMEOUT", "10s")
	v.SetDefault("WEBHOOK_SECRET", "")
	v.SetDefault("PIX_EXPIRY", "30m")
	v.SetDefault("BOLETO_EXPIRY", "168h")
	v.SetDefault("UNPAID_ORDER_TTL", "1h")
	v.SetDefault("RECONCILIATION_CRON", "0 0 2 * * *")
	v.SetDefault("EXPIRY_SWEEP_CRON", "0 */5 * * * *")
	v.SetDefault("RECONCILIATION_TOLERANCE", "0.01")
	v.SetDefault("RECONCILIATION_LOCK_TTL", "5m")
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("RATE_LIMIT", "300-M")
	v.SetDefault("PUBSUB_PROJECT_ID", "")
	v.SetDefault("PUBSUB_TOPIC", "")
	v.SetDefault("PUBSUB_CREDENTIALS_JSON", "")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "")
	v.SetDefault("EVENT_WORKERS", 4)
	v.SetDefault("EVENT_QUEUE_SIZE", 256)
}

func parseDuration(v *viper.Viper, key string) (time.Duration, error) {
	raw := v.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid value for %s (%q)", key, raw)
	}
	return d, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
