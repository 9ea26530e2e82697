package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port           string
	DatabasePath   string
	Environment    string
	AllowedOrigins string
	BaseURL        string

	SessionDuration time.Duration

	OpenAIAPIKey  string
	OpenAIBaseURL string
	OpenAIModel   string

	MailgunDomain      string
	MailgunAPIKey      string
	MailgunSenderEmail string
	MailgunSenderName  string

	S3AccountID       string
	S3AccessKeyID     string
	S3AccessKeySecret string
	S3Bucket          string
	S3PublicURL       string
}

func Load() *Config {
	// A missing .env file is fine, variables may be set directly
	_ = godotenv.Load()

	cfg := &Config{
		Port:           getEnv("PORT", "8080"),
		DatabasePath:   getEnv("DATABASE_PATH", "deckbuilder.db"),
		Environment:    getEnv("ENVIRONMENT", "production"),
		AllowedOrigins: getEnv("ALLOWED_ORIGINS", "http://localhost:8080"),
		BaseURL:        getEnv("BASE_URL", "http://localhost:8080"),

		SessionDuration: getDurationEnv("SESSION_DURATION", 7*24*time.Hour),

		OpenAIAPIKey:  getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL: getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		OpenAIModel:   getEnv("OPENAI_MODEL", "dall-e-3"),

		MailgunDomain:      getEnv("MAILGUN_DOMAIN", ""),
		MailgunAPIKey:      getEnv("MAILGUN_API_KEY", ""),
		MailgunSenderEmail: getEnv("MAILGUN_SENDER_EMAIL", "noreply@deckbuilder.app"),
		MailgunSenderName:  getEnv("MAILGUN_SENDER_NAME", "Deck Builder"),

		S3AccountID:       getEnv("S3_ACCOUNT_ID", ""),
		S3AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", ""),
		S3AccessKeySecret: getEnv("S3_ACCESS_KEY_SECRET", ""),
		S3Bucket:          getEnv("S3_BUCKET", ""),
		S3PublicURL:       getEnv("S3_PUBLIC_URL", ""),
	}
	return cfg
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func (c *Config) ImageGenerationEnabled() bool {
	return c.OpenAIAPIKey != ""
}

func (c *Config) StorageEnabled() bool {
	return c.S3AccountID != "" && c.S3AccessKeyID != "" && c.S3AccessKeySecret != "" && c.S3Bucket != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
