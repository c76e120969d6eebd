package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds application configuration
type Config struct {
	Port          string
	Env           string
	LogLevel      string
	PublicBaseURL string

	// Remote salon backend
	SalonAPIBaseURL string
	SalonAPIToken   string
	SalonAPITimeout time.Duration
	SalonTokenTTL   time.Duration

	// Booking math
	TaxRate        float64 // e.g. 0.15 for 15% ISV
	ReservationFee float64 // fixed deposit due at booking time
	IncludeItems   bool    // attach the service as a line item on create

	// Auth
	UserJWTSecret string

	// Booking sessions
	SessionTTL time.Duration

	// Directory cache
	RedisAddr         string
	RedisPassword     string
	RedisTLS          bool
	DirectoryCacheTTL time.Duration

	// Confirmation notifications
	EmailProvider     string // "sendgrid", "ses", "endpoint" or "" for stub
	EmailEndpointURL  string
	SendGridAPIKey    string
	SendGridFromEmail string
	SendGridFromName  string

	AWSRegion          string
	AWSAccessKeyID     string
	AWSSecretAccessKey string
	SESFromEmail       string
	SESFromName        string

	CORSAllowedOrigins string
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:          getEnv("PORT", "8080"),
		Env:           getEnv("ENV", "development"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		PublicBaseURL: getEnv("PUBLIC_BASE_URL", ""),

		SalonAPIBaseURL: getEnv("SALON_API_BASE_URL", "http://localhost/glamora-bk/public/api"),
		SalonAPIToken:   getEnv("SALON_API_TOKEN", ""),
		SalonAPITimeout: getEnvAsDuration("SALON_API_TIMEOUT", 20*time.Second),
		SalonTokenTTL:   getEnvAsDuration("SALON_TOKEN_TTL", 0),

		TaxRate:        getEnvAsFloat("TAX_RATE", 0.15),
		ReservationFee: getEnvAsFloat("RESERVATION_FEE", 300),
		IncludeItems:   getEnvAsBool("BOOKING_INCLUDE_ITEMS", true),

		UserJWTSecret: getEnv("USER_JWT_SECRET", ""),

		SessionTTL: getEnvAsDuration("BOOKING_SESSION_TTL", 30*time.Minute),

		RedisAddr:         getEnv("REDIS_ADDR", "redis:6379"),
		RedisPassword:     getEnv("REDIS_PASSWORD", ""),
		RedisTLS:          getEnvAsBool("REDIS_TLS", false),
		DirectoryCacheTTL: getEnvAsDuration("DIRECTORY_CACHE_TTL", 5*time.Minute),

		EmailProvider:     getEnv("EMAIL_PROVIDER", ""),
		EmailEndpointURL:  getEnv("EMAIL_ENDPOINT_URL", ""),
		SendGridAPIKey:    getEnv("SENDGRID_API_KEY", ""),
		SendGridFromEmail: getEnv("SENDGRID_FROM_EMAIL", ""),
		SendGridFromName:  getEnv("SENDGRID_FROM_NAME", "Glamora Salon"),

		AWSRegion:          getEnv("AWS_REGION", "us-east-1"),
		AWSAccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
		SESFromEmail:       getEnv("SES_FROM_EMAIL", ""),
		SESFromName:        getEnv("SES_FROM_NAME", "Glamora Salon"),
		CORSAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", ""),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsFloat retrieves an environment variable as a float or returns a default value
func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}
