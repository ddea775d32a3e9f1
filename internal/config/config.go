package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

var (
	ErrInvalidProvider = errors.New("invalid LLM_PROVIDER")
	ErrInvalidFallback = errors.New("fallback coordinates out of range")
	ErrInvalidAddr     = errors.New("HTTP_ADDR is required")
)

const (
	ProviderGemini     = "gemini"
	ProviderOpenRouter = "openrouter"
	ProviderMock       = "mock"
)

type Config struct {
	HTTP      HTTPConfig
	Database  DatabaseConfig
	Geocoding GeocodingConfig
	Weather   WeatherConfig
	LLM       LLMConfig
	Fallback  FallbackConfig
	Telegram  TelegramConfig
	Log       LogConfig
	RateLimit RateLimitConfig
}

type HTTPConfig struct {
	Addr            string
	ShutdownTimeout time.Duration
}

// DatabaseConfig - пустой URL значит справочник пользователей в памяти
type DatabaseConfig struct {
	URL string
}

type GeocodingConfig struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

type WeatherConfig struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

type LLMConfig struct {
	Provider   string
	Gemini     GeminiConfig
	OpenRouter OpenRouterConfig
	Timeout    time.Duration
}

type GeminiConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

type OpenRouterConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// FallbackConfig - точка, которую возвращает геокодер при отказе
type FallbackConfig struct {
	Lat float64
	Lng float64
}

type TelegramConfig struct {
	Token      string
	SessionTTL time.Duration
}

type LogConfig struct {
	Level  string
	Format string
}

// RateLimitConfig - лимит запросов на клиента (IP или чат), 0 выключает лимит
type RateLimitConfig struct {
	RequestsPerMinute int
}

func (c RateLimitConfig) Enabled() bool {
	return c.RequestsPerMinute > 0
}

func Load() (*Config, error) {
	loadEnvFile()

	providerTimeout := time.Duration(getEnvIntOrDefault("PROVIDER_TIMEOUT_SEC", 10)) * time.Second

	cfg := &Config{
		HTTP: HTTPConfig{
			Addr:            getEnvOrDefault("HTTP_ADDR", ":5000"),
			ShutdownTimeout: time.Duration(getEnvIntOrDefault("SHUTDOWN_TIMEOUT_SEC", 10)) * time.Second,
		},
		Database: DatabaseConfig{
			URL: os.Getenv("DATABASE_URL"),
		},
		Geocoding: GeocodingConfig{
			APIKey:  os.Getenv("OPENCAGE_API_KEY"),
			BaseURL: getEnvOrDefault("OPENCAGE_BASE_URL", "https://api.opencagedata.com"),
			Timeout: providerTimeout,
		},
		Weather: WeatherConfig{
			APIKey:  os.Getenv("WEATHER_API_KEY"),
			BaseURL: getEnvOrDefault("WEATHER_BASE_URL", "https://api.weatherapi.com"),
			Timeout: providerTimeout,
		},
		LLM: LLMConfig{
			Provider: strings.ToLower(getEnvOrDefault("LLM_PROVIDER", ProviderGemini)),
			Gemini: GeminiConfig{
				APIKey:  os.Getenv("GEMINI_API_KEY"),
				Model:   getEnvOrDefault("GEMINI_MODEL", "gemini-1.5-flash"),
				BaseURL: os.Getenv("GEMINI_BASE_URL"),
			},
			OpenRouter: OpenRouterConfig{
				APIKey:  os.Getenv("OPENROUTER_API_KEY"),
				Model:   getEnvOrDefault("OPENROUTER_MODEL", "google/gemini-flash-1.5"),
				BaseURL: getEnvOrDefault("OPENROUTER_BASE_URL", "https://openrouter.ai/api/v1"),
			},
			Timeout: time.Duration(getEnvIntOrDefault("LLM_TIMEOUT_SEC", 60)) * time.Second,
		},
		Fallback: FallbackConfig{
			Lat: getEnvFloatOrDefault("FALLBACK_LAT", 26.9124),
			Lng: getEnvFloatOrDefault("FALLBACK_LNG", 75.7873),
		},
		Telegram: TelegramConfig{
			Token:      os.Getenv("TELEGRAM_BOT_TOKEN"),
			SessionTTL: time.Duration(getEnvIntOrDefault("SESSION_TTL_SEC", 86400)) * time.Second,
		},
		Log: LogConfig{
			Level:  getEnvOrDefault("LOG_LEVEL", "info"),
			Format: getEnvOrDefault("LOG_FORMAT", "json"),
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: getEnvIntOrDefault("RATE_LIMIT_PER_MINUTE", 0),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate не требует ключей провайдеров: без ключа адаптер просто работает на fallback
func (c *Config) Validate() error {
	if c.HTTP.Addr == "" {
		return ErrInvalidAddr
	}
	switch c.LLM.Provider {
	case ProviderGemini, ProviderOpenRouter, ProviderMock:
	default:
		return ErrInvalidProvider
	}
	if c.Fallback.Lat < -90 || c.Fallback.Lat > 90 || c.Fallback.Lng < -180 || c.Fallback.Lng > 180 {
		return ErrInvalidFallback
	}
	return nil
}

// loadEnvFile подхватывает .env, уже выставленные переменные не перетираются
func loadEnvFile() {
	path := getEnvOrDefault("ENV_FILE", ".env")
	if _, err := os.Stat(path); err == nil {
		_ = godotenv.Load(path)
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}
