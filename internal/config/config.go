package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config collects every setting the services need. It is built once in
// main and passed into constructors; nothing reads the environment at
// call time.
type Config struct {
	Port        string
	DatabaseURL string
	RedisURL    string

	JWTSecret string
	TokenTTL  time.Duration

	// Razorpay
	RazorpayKeyID         string
	RazorpayKeySecret     string
	RazorpayWebhookSecret string

	// SMTP
	SMTPHost  string
	SMTPPort  string
	SMTPUser  string
	SMTPPass  string
	EmailFrom string

	// MSG91 SMS OTP
	Msg91AuthKey    string
	Msg91TemplateID string
	Msg91BaseURL    string
	OTPTTL          time.Duration
	OTPMaxAttempts  int

	// S3 document storage
	S3Region        string
	S3Bucket        string
	S3AccessKey     string
	S3SecretKey     string
	S3Endpoint      string
	S3PublicBaseURL string
}

// Load reads configuration from the environment. Only DATABASE_URL and
// JWT_SECRET are hard requirements; everything else has a default or
// degrades the related feature.
func Load() (*Config, error) {
	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		RedisURL:    getEnv("REDIS_URL", "redis://localhost:6379/0"),

		JWTSecret: os.Getenv("JWT_SECRET"),
		TokenTTL:  getEnvDuration("TOKEN_TTL", 24*time.Hour),

		RazorpayKeyID:         os.Getenv("RAZORPAY_KEY_ID"),
		RazorpayKeySecret:     os.Getenv("RAZORPAY_KEY_SECRET"),
		RazorpayWebhookSecret: os.Getenv("RAZORPAY_WEBHOOK_SECRET"),

		SMTPHost:  os.Getenv("SMTP_HOST"),
		SMTPPort:  getEnv("SMTP_PORT", "587"),
		SMTPUser:  os.Getenv("SMTP_USER"),
		SMTPPass:  os.Getenv("SMTP_PASS"),
		EmailFrom: os.Getenv("EMAIL_FROM"),

		Msg91AuthKey:    os.Getenv("MSG91_AUTH_KEY"),
		Msg91TemplateID: os.Getenv("MSG91_TEMPLATE_ID"),
		Msg91BaseURL:    getEnv("MSG91_BASE_URL", "https://api.msg91.com/api/v5"),
		OTPTTL:          getEnvDuration("OTP_TTL", 10*time.Minute),
		OTPMaxAttempts:  getEnvInt("OTP_MAX_ATTEMPTS", 5),

		S3Region:        getEnv("S3_REGION", "ap-south-1"),
		S3Bucket:        os.Getenv("S3_BUCKET"),
		S3AccessKey:     os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey:     os.Getenv("S3_SECRET_KEY"),
		S3Endpoint:      os.Getenv("S3_ENDPOINT"),
		S3PublicBaseURL: os.Getenv("S3_PUBLIC_BASE_URL"),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
