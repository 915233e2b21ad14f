// Package infra holds process-level plumbing: configuration, logging,
// the database pool and the HTTP server lifecycle.
package infra

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config is the application configuration, loaded from environment
// variables. DATABASE_URL is optional: without it the service runs on
// in-memory repositories, which is the development default.
type Config struct {
	AppEnv      string
	Port        string
	DatabaseURL string
	JWTSecret   string

	GroqAPIKey    string
	GroqModel     string
	GroqBaseURL   string
	GeminiAPIKey  string
	GeminiModel   string
	GeminiBaseURL string

	ProviderCooldown time.Duration
	ProviderTimeout  time.Duration

	SlideQuota        int
	EditConsumesQuota bool
	JobRetention      time.Duration
	StoragePath       string
	DefaultLocale     string

	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
	RateLimitPerMin  int
}

// LoadConfig reads the environment and applies defaults.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:      getEnv("APP_ENV", "development"),
		Port:        getEnv("PORT", "8080"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		JWTSecret:   os.Getenv("JWT_SECRET"),

		GroqAPIKey:    os.Getenv("GROQ_API_KEY"),
		GroqModel:     getEnv("GROQ_MODEL", "llama-3.1-8b-instant"),
		GroqBaseURL:   getEnv("GROQ_BASE_URL", "https://api.groq.com/openai/v1"),
		GeminiAPIKey:  os.Getenv("GEMINI_API_KEY"),
		GeminiModel:   getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
		GeminiBaseURL: getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"),

		ProviderCooldown: time.Second * time.Duration(getEnvInt("PROVIDER_COOLDOWN_SECONDS", 60)),
		ProviderTimeout:  time.Second * time.Duration(getEnvInt("PROVIDER_TIMEOUT_SECONDS", 90)),

		SlideQuota:        getEnvInt("SLIDE_QUOTA", 50),
		EditConsumesQuota: getEnvBool("EDIT_CONSUMES_QUOTA", false),
		JobRetention:      time.Hour * time.Duration(getEnvInt("JOB_RETENTION_HOURS", 24)),
		StoragePath:       getEnv("STORAGE_PATH", "./data"),
		DefaultLocale:     getEnv("DEFAULT_LOCALE", "en"),

		HTTPReadTimeout:  time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout: time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 120)),
		HTTPIdleTimeout:  time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		RateLimitPerMin:  getEnvInt("RATE_LIMIT_PER_MINUTE", 30),
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.GroqAPIKey == "" && cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("at least one of GROQ_API_KEY or GEMINI_API_KEY is required")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
