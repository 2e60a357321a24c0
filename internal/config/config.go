package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port               string
	Env                string
	LogLevel           string
	CORSAllowedOrigins []string
	RateLimitRPS       float64
	RateLimitBurst     int

	// Text generation
	GeneratorProvider string
	GeminiAPIKey      string
	GeminiModel       string
	FallbackProvider  string
	BedrockModelID    string
	AnalysisTimeout   time.Duration

	// Widget sessions
	SessionTTL  time.Duration
	MinFillTime time.Duration

	// Lead dispatch
	LeadSink            string
	LeadNotifyEmail     string
	DispatchMaxAttempts int
	DispatchBaseDelay   time.Duration
	LeadQueueURL        string
	LeadQueueKey        string

	// Email
	EmailProvider     string
	SendGridAPIKey    string
	SendGridFromEmail string
	SendGridFromName  string
	SESFromEmail      string
	SESFromName       string
	MailgunDomain     string
	MailgunAPIKey     string
	MailgunFromEmail  string
	MailgunFromName   string

	// AWS
	AWSRegion           string
	AWSAccessKeyID      string
	AWSSecretAccessKey  string
	AWSEndpointOverride string

	// Redis
	RedisAddr     string
	RedisPassword string
	RedisTLS      bool
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:               getEnv("PORT", "8080"),
		Env:                getEnv("ENV", "development"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", nil),
		RateLimitRPS:       getEnvAsFloat("RATE_LIMIT_RPS", 2),
		RateLimitBurst:     getEnvAsInt("RATE_LIMIT_BURST", 20),

		GeneratorProvider: strings.ToLower(strings.TrimSpace(getEnv("GENERATOR_PROVIDER", "gemini"))),
		GeminiAPIKey:      getEnv("GEMINI_API_KEY", ""),
		GeminiModel:       getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		FallbackProvider:  strings.ToLower(strings.TrimSpace(getEnv("FALLBACK_PROVIDER", ""))),
		BedrockModelID:    getEnv("BEDROCK_MODEL_ID", ""),
		AnalysisTimeout:   getEnvAsDuration("ANALYSIS_TIMEOUT", 20*time.Second),

		SessionTTL:  getEnvAsDuration("SESSION_TTL", 30*time.Minute),
		MinFillTime: getEnvAsDuration("MIN_FILL_TIME", 0),

		LeadSink:            strings.ToLower(strings.TrimSpace(getEnv("LEAD_SINK", "log"))),
		LeadNotifyEmail:     getEnv("LEAD_NOTIFY_EMAIL", "creativeiyke@gmail.com"),
		DispatchMaxAttempts: getEnvAsInt("DISPATCH_MAX_ATTEMPTS", 3),
		DispatchBaseDelay:   getEnvAsDuration("DISPATCH_BASE_DELAY", 2*time.Second),
		LeadQueueURL:        getEnv("LEAD_QUEUE_URL", ""),
		LeadQueueKey:        getEnv("LEAD_QUEUE_KEY", "leads:outbox"),

		EmailProvider:     strings.ToLower(strings.TrimSpace(getEnv("EMAIL_PROVIDER", "sendgrid"))),
		SendGridAPIKey:    getEnv("SENDGRID_API_KEY", ""),
		SendGridFromEmail: getEnv("SENDGRID_FROM_EMAIL", ""),
		SendGridFromName:  getEnv("SENDGRID_FROM_NAME", "CreativeIyke"),
		SESFromEmail:      getEnv("SES_FROM_EMAIL", ""),
		SESFromName:       getEnv("SES_FROM_NAME", "CreativeIyke"),
		MailgunDomain:     getEnv("MAILGUN_DOMAIN", ""),
		MailgunAPIKey:     getEnv("MAILGUN_API_KEY", ""),
		MailgunFromEmail:  getEnv("MAILGUN_FROM_EMAIL", ""),
		MailgunFromName:   getEnv("MAILGUN_FROM_NAME", "CreativeIyke"),

		AWSRegion:           getEnv("AWS_REGION", "eu-west-2"),
		AWSAccessKeyID:      getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey:  getEnv("AWS_SECRET_ACCESS_KEY", ""),
		AWSEndpointOverride: getEnv("AWS_ENDPOINT_OVERRIDE", ""),

		RedisAddr:     getEnv("REDIS_ADDR", "redis:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisTLS:      getEnvAsBool("REDIS_TLS", false),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
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

// getEnvAsList splits a comma separated variable, dropping blanks.
func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
