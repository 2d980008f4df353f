package conf

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/muratcankoptayyy/tevkil-platform/internal/biz/domain"
	"github.com/muratcankoptayyy/tevkil-platform/internal/data"
)

// Config represents application configuration
type Config struct {
	// HTTP server configuration
	Server ServerConfig

	// WhatsApp Cloud API configuration
	WhatsApp WhatsAppConfig

	// AI configuration (optional)
	AI AIConfig

	// Database configuration
	Database DatabaseConfig

	// Netgsm SMS configuration (optional)
	SMS SMSConfig

	// Message broker configuration (optional)
	AMQP AMQPConfig

	// Bot behaviour
	Bot BotConfig

	// Prompts configuration (loaded from YAML)
	Prompts *PromptsConfig

	// Debug mode
	Debug bool
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port       string
	AdminToken string // Admin API is disabled when empty
}

// WhatsAppConfig contains Meta WhatsApp Cloud API configuration
type WhatsAppConfig struct {
	PhoneNumberID string
	AccessToken   string
	APIVersion    string
	VerifyToken   string
}

// AIConfig contains AI backend configuration
type AIConfig struct {
	APIKey         string
	BaseURL        string
	Model          string
	TimeoutSeconds int
}

// DatabaseConfig contains database configuration
type DatabaseConfig struct {
	URL    string // postgres://... selects PostgreSQL
	DBPath string // SQLite file otherwise
}

// SMSConfig contains Netgsm configuration
type SMSConfig struct {
	Username string
	Password string
	Sender   string
}

// AMQPConfig contains message broker configuration
type AMQPConfig struct {
	URL      string
	Exchange string
}

// BotConfig contains reply and identity settings
type BotConfig struct {
	SiteURL      string
	SupportEmail string
	CountryCode  string
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() *Config {
	defaults := domain.DefaultBotConfig()

	// SQLite DB path
	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		homeDir, _ := os.UserHomeDir()
		dbPath = filepath.Join(homeDir, ".tevkil", "tevkil.db")
	}

	// AI timeout
	aiTimeout := int(defaults.AITimeout / time.Second)
	if val := os.Getenv("AI_TIMEOUT_SECONDS"); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil && parsed > 0 {
			aiTimeout = parsed
		}
	}

	// GitHub Models tokens are accepted as the AI key
	aiKey := os.Getenv("AI_API_KEY")
	if aiKey == "" {
		aiKey = os.Getenv("GITHUB_TOKEN")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	// Load prompts from YAML
	promptsConfig, err := LoadPromptsConfig(os.Getenv("PROMPTS_CONFIG_PATH"))
	if err != nil {
		promptsConfig = DefaultPromptsConfig()
	}

	return &Config{
		Server: ServerConfig{
			Port:       port,
			AdminToken: os.Getenv("ADMIN_TOKEN"),
		},
		WhatsApp: WhatsAppConfig{
			PhoneNumberID: os.Getenv("META_PHONE_NUMBER_ID"),
			AccessToken:   os.Getenv("META_ACCESS_TOKEN"),
			APIVersion:    envOr("META_API_VERSION", "v21.0"),
			VerifyToken:   os.Getenv("META_WEBHOOK_VERIFY_TOKEN"),
		},
		AI: AIConfig{
			APIKey:         aiKey,
			BaseURL:        os.Getenv("AI_BASE_URL"),
			Model:          os.Getenv("AI_MODEL"),
			TimeoutSeconds: aiTimeout,
		},
		Database: DatabaseConfig{
			URL:    os.Getenv("DATABASE_URL"),
			DBPath: dbPath,
		},
		SMS: SMSConfig{
			Username: os.Getenv("NETGSM_USERNAME"),
			Password: os.Getenv("NETGSM_PASSWORD"),
			Sender:   envOr("NETGSM_SENDER", "TEVKIL"),
		},
		AMQP: AMQPConfig{
			URL:      os.Getenv("AMQP_URL"),
			Exchange: envOr("AMQP_EXCHANGE", data.DefaultExchange),
		},
		Bot: BotConfig{
			SiteURL:      strings.TrimRight(envOr("SITE_BASE_URL", defaults.SiteURL), "/"),
			SupportEmail: envOr("SUPPORT_EMAIL", defaults.SupportEmail),
			CountryCode:  envOr("COUNTRY_CODE", defaults.CountryCode),
		},
		Prompts: promptsConfig,
		Debug:   os.Getenv("DEBUG") == "true",
	}
}

func envOr(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

// ToBotConfig converts to the conversation configuration
func (c *Config) ToBotConfig() domain.BotConfig {
	return domain.BotConfig{
		SiteURL:      c.Bot.SiteURL,
		SupportEmail: c.Bot.SupportEmail,
		CountryCode:  c.Bot.CountryCode,
		AITimeout:    time.Duration(c.AI.TimeoutSeconds) * time.Second,
		ProposalTTL:  domain.ProposalTTL,
	}
}

// ToAIConfig converts to the AI adapter configuration
func (c *Config) ToAIConfig() data.AIConfig {
	prompts := c.Prompts
	if prompts == nil {
		prompts = DefaultPromptsConfig()
	}

	return data.AIConfig{
		APIKey:  c.AI.APIKey,
		BaseURL: c.AI.BaseURL,
		Model:   c.AI.Model,
		Prompts: data.AIPrompts{
			ExtractSystem:  prompts.Extract.System,
			Extract:        prompts.Extract.User,
			ClassifySystem: prompts.Classify.System,
			Classify:       prompts.Classify.User,
			CorrectSystem:  prompts.Correct.System,
			Correct:        prompts.Correct.User,
		},
	}
}

// ToDataOptions converts to the repository options
func (c *Config) ToDataOptions() data.Options {
	return data.Options{
		DatabaseURL: c.Database.URL,
		SQLitePath:  c.Database.DBPath,
		WhatsApp: data.WhatsAppConfig{
			PhoneNumberID: c.WhatsApp.PhoneNumberID,
			AccessToken:   c.WhatsApp.AccessToken,
			APIVersion:    c.WhatsApp.APIVersion,
			VerifyToken:   c.WhatsApp.VerifyToken,
		},
		AI: c.ToAIConfig(),
		SMS: data.SMSConfig{
			Username: c.SMS.Username,
			Password: c.SMS.Password,
			Sender:   c.SMS.Sender,
		},
		AMQPURL:      c.AMQP.URL,
		AMQPExchange: c.AMQP.Exchange,
		ProposalTTL:  domain.ProposalTTL,
	}
}

// Validate validates the configuration for the webhook server
func (c *Config) Validate() error {
	if c.WhatsApp.PhoneNumberID == "" || c.WhatsApp.AccessToken == "" {
		return &ConfigError{Field: "META_PHONE_NUMBER_ID/META_ACCESS_TOKEN", Message: "required"}
	}
	if c.WhatsApp.VerifyToken == "" {
		return &ConfigError{Field: "META_WEBHOOK_VERIFY_TOKEN", Message: "required"}
	}
	if c.Database.URL != "" && !strings.HasPrefix(c.Database.URL, "postgres://") && !strings.HasPrefix(c.Database.URL, "postgresql://") {
		return &ConfigError{Field: "DATABASE_URL", Message: "must be a postgres:// URL"}
	}
	if c.SMS.Username != "" && c.SMS.Password == "" {
		return &ConfigError{Field: "NETGSM_PASSWORD", Message: "required when NETGSM_USERNAME is set"}
	}
	return nil
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}
