package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	NodeEnv       string
	Port          string
	JWTSecret     string
	DefaultBranch string
	Location      *time.Location
	Database      DatabaseConfig
	AI            AIConfig
	Notify        NotifyConfig
	Scheduler     SchedulerConfig
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	Database string
	Alter    bool

	// Embedded PostgreSQL, used when Host is localhost and Password is empty
	EmbeddedDataPath string
	EmbeddedPort     uint32
}

// Embedded reports whether Connect should start its own PostgreSQL
func (d DatabaseConfig) Embedded() bool {
	return d.Host == "localhost" && d.Password == ""
}

// AIConfig holds Gemini configuration
type AIConfig struct {
	GeminiAPIKey string
	GeminiModel  string
}

// NotifyConfig holds outbound notification configuration
type NotifyConfig struct {
	WhatsAppBaseURL string
	TelegramToken   string
	TelegramChatID  int64
}

// SchedulerConfig holds background job configuration
type SchedulerConfig struct {
	ReloadInterval time.Duration
}

// IsDevelopment reports whether the node runs in development mode
func (c *Config) IsDevelopment() bool {
	return c.NodeEnv == "development"
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	loc := time.Local
	if tz := os.Getenv("TIMEZONE"); tz != "" {
		l, err := time.LoadLocation(tz)
		if err != nil {
			return nil, fmt.Errorf("invalid TIMEZONE %q: %w", tz, err)
		}
		loc = l
	}

	reload, err := time.ParseDuration(getEnv("RELOAD_INTERVAL", "5m"))
	if err != nil {
		return nil, fmt.Errorf("invalid RELOAD_INTERVAL: %w", err)
	}

	embeddedPort, err := strconv.ParseUint(getEnv("PG_EMBEDDED_PORT", "5433"), 10, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid PG_EMBEDDED_PORT: %w", err)
	}

	var chatID int64
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		chatID, err = strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid TELEGRAM_CHAT_ID: %w", err)
		}
	}

	return &Config{
		NodeEnv:       getEnv("NODE_ENV", "development"),
		Port:          getEnv("PORT", "3210"),
		JWTSecret:     jwtSecret,
		DefaultBranch: getEnv("DEFAULT_BRANCH", "sp-01"),
		Location:      loc,
		Database: DatabaseConfig{
			Host:     getEnv("PG_HOST", "localhost"),
			Port:     getEnv("PG_PORT", "5432"),
			Username: getEnv("PG_USERNAME", "postgres"),
			Password: os.Getenv("PG_PASSWORD"),
			Database: getEnv("PG_DATABASE", "swiftlog"),
			Alter:    getEnv("DB_ALTER", "false") == "true",

			EmbeddedDataPath: getEnv("PG_EMBEDDED_DATA", "./db_data"),
			EmbeddedPort:     uint32(embeddedPort),
		},
		AI: AIConfig{
			GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
			GeminiModel:  getEnv("GEMINI_MODEL", "gemini-3-flash-preview"),
		},
		Notify: NotifyConfig{
			WhatsAppBaseURL: getEnv("WHATSAPP_BASE_URL", "https://wa.me/"),
			TelegramToken:   os.Getenv("TELEGRAM_BOT_TOKEN"),
			TelegramChatID:  chatID,
		},
		Scheduler: SchedulerConfig{
			ReloadInterval: reload,
		},
	}, nil
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
