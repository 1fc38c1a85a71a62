package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all service configuration loaded from environment variables.
type Config struct {
	Port            string
	BindAddr        string
	AllowedOrigin   string
	PostgresDSN     string
	StreamAPIKey    string
	StreamAPISecret string
	GeminiAPIKey    string
	GeminiModel     string
	RequestTimeout  time.Duration
	LogFile         string
}

func Load() *Config {
	// .env is optional; deployments use the process environment.
	_ = godotenv.Load()

	return &Config{
		Port:            getenv("PORT", "8080"),
		BindAddr:        getenv("BIND_ADDR", "127.0.0.1"),
		AllowedOrigin:   getenv("ALLOWED_ORIGIN", "http://localhost:5173"),
		PostgresDSN:     getenv("POSTGRES_DSN", ""),
		StreamAPIKey:    getenv("STREAM_API_KEY", ""),
		StreamAPISecret: getenv("STREAM_API_SECRET", ""),
		GeminiAPIKey:    getenv("GEMINI_API_KEY", ""),
		GeminiModel:     getenv("GEMINI_MODEL", "gemini-2.0-flash"),
		RequestTimeout:  time.Duration(getenvInt("REQUEST_TIMEOUT", 60)) * time.Second,
		LogFile:         getenv("LOG_FILE", ""),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}
