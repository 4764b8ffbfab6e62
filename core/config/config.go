package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	OTel     OTelConfig
	Telegram TelegramConfig
	Store    StoreConfig
	OpenAI   OpenAIConfig
	Env      string
	Port     string
}

type TelegramConfig struct {
	BotToken string
	APIRoot  string
}

// StoreConfig selects the task store backend. The PostgREST endpoint (URL +
// service key) is the default; setting DSN switches to a direct Postgres
// connection instead.
type StoreConfig struct {
	URL        string
	ServiceKey string
	DSN        string
	MaxConns   int32
	MinConns   int32
}

type OTelConfig struct {
	Endpoint       string
	Headers        string
	ServiceName    string
	ServiceVersion string
}

type OpenAIConfig struct {
	APIKey         string
	BaseURL        string
	Model          string
	ExtractTimeout time.Duration
}

// Load loads configuration from environment variables. In development it
// additionally reads a local .env file.
func Load() (Config, error) {
	if getEnv("TDOG_ENV", "development") == "development" {
		_ = godotenv.Load(".env")
	}

	cfg := Config{
		Env:  getEnv("TDOG_ENV", "development"),
		Port: getEnv("PORT", "8080"),
		Telegram: TelegramConfig{
			BotToken: getEnv("TELEGRAM_BOT_TOKEN", ""),
			APIRoot:  getEnv("TELEGRAM_API_ROOT", "https://api.telegram.org"),
		},
		Store: StoreConfig{
			URL:        getEnv("SUPABASE_URL", ""),
			ServiceKey: getEnv("SUPABASE_SERVICE_KEY", ""),
			DSN:        getEnv("DATABASE_URL", ""),
			MaxConns:   getEnvInt32("DB_MAX_CONNS", 10),
			MinConns:   getEnvInt32("DB_MIN_CONNS", 2),
		},
		OpenAI: OpenAIConfig{
			APIKey:         getEnv("OPENAI_API_KEY", ""),
			BaseURL:        getEnv("OPENAI_BASE_URL", ""),
			Model:          getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			ExtractTimeout: time.Duration(getEnvInt("EXTRACT_TIMEOUT_SECONDS", 20)) * time.Second,
		},
		OTel: OTelConfig{
			Endpoint:       getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
			Headers:        getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""),
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "taskdog"),
			ServiceVersion: getEnv("OTEL_SERVICE_VERSION", "dev"),
		},
	}

	if cfg.Telegram.BotToken == "" {
		return Config{}, fmt.Errorf("TELEGRAM_BOT_TOKEN is required")
	}
	if cfg.OpenAI.APIKey == "" {
		return Config{}, fmt.Errorf("OPENAI_API_KEY is required")
	}
	if cfg.Store.DSN == "" && (cfg.Store.URL == "" || cfg.Store.ServiceKey == "") {
		return Config{}, fmt.Errorf("SUPABASE_URL and SUPABASE_SERVICE_KEY are required (or DATABASE_URL for a direct Postgres store)")
	}

	return cfg, nil
}

func (c Config) IsProduction() bool {
	return c.Env == "production"
}

func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

func (c OTelConfig) Enabled() bool {
	return c.Endpoint != ""
}

// UsesPostgres reports whether the direct Postgres store was configured.
func (c StoreConfig) UsesPostgres() bool {
	return c.DSN != ""
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt32(key string, fallback int32) int32 {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.ParseInt(value, 10, 32); err == nil {
			return int32(i)
		}
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}
