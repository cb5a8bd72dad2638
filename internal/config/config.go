package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreSQLite   = "sqlite"

	ProviderGemini   = "gemini"
	ProviderOpenAI   = "openai"
	ProviderDeepSeek = "deepseek"
	ProviderNone     = "none"
)

type Config struct {
	Port     string
	Env      string
	LogLevel string

	Store          string
	DatabaseURL    string
	SQLitePath     string
	RedisURL       string
	PromptCacheTTL time.Duration

	AIProvider       string
	AIKey            string
	AIModel          string
	AIBaseURL        string
	AITimeout        time.Duration
	AIRateLimitRPS   float64
	AIBreakerFailure uint32

	AdminToken  string
	FrontendURL string

	PromptsFile     string
	SeedInboxFile   string
	EMLDir          string
	GmailToken      string
	GmailMaxResults int64
}

func LoadConfig() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		Port:     GetEnv("PORT", "8000"),
		Env:      GetEnv("ENV", "development"),
		LogLevel: GetEnv("LOG_LEVEL", "info"),

		Store:          strings.ToLower(GetEnv("STORE", StoreSQLite)),
		DatabaseURL:    GetEnv("DATABASE_URL", ""),
		SQLitePath:     GetEnv("SQLITE_PATH", "emails.db"),
		RedisURL:       GetEnv("REDIS_URL", ""),
		PromptCacheTTL: time.Duration(GetEnvInt("PROMPT_CACHE_TTL_SECONDS", 300)) * time.Second,

		AIProvider:       strings.ToLower(GetEnv("AI_PROVIDER", ProviderGemini)),
		AIKey:            GetEnv("AI_API_KEY", GetEnv("GEMINI_API_KEY", "")),
		AIModel:          GetEnv("AI_MODEL", ""),
		AIBaseURL:        GetEnv("AI_BASE_URL", ""),
		AITimeout:        time.Duration(GetEnvInt("AI_TIMEOUT_SECONDS", 30)) * time.Second,
		AIRateLimitRPS:   GetEnvFloat("AI_RATE_LIMIT_RPS", 2),
		AIBreakerFailure: uint32(GetEnvInt("AI_BREAKER_FAILURES", 5)),

		AdminToken:  GetEnv("ADMIN_TOKEN", ""),
		FrontendURL: GetEnv("FRONTEND_URL", "*"),

		PromptsFile:     GetEnv("PROMPTS_FILE", ""),
		SeedInboxFile:   GetEnv("SEED_INBOX_FILE", "mock_inbox.json"),
		EMLDir:          GetEnv("EML_DIR", ""),
		GmailToken:      GetEnv("GMAIL_ACCESS_TOKEN", ""),
		GmailMaxResults: int64(GetEnvInt("GMAIL_MAX_RESULTS", 20)),
	}
	if cfg.AIModel == "" {
		cfg.AIModel = DefaultModel(cfg.AIProvider)
	}
	return cfg, nil
}

func GetEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func GetEnvInt(key string, defaultValue int) int {
	v, err := strconv.Atoi(GetEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return v
}

func GetEnvFloat(key string, defaultValue float64) float64 {
	v, err := strconv.ParseFloat(GetEnv(key, ""), 64)
	if err != nil {
		return defaultValue
	}
	return v
}

// DefaultModel returns the model used when AI_MODEL is not set.
func DefaultModel(provider string) string {
	switch provider {
	case ProviderDeepSeek:
		return "deepseek-chat"
	case ProviderOpenAI:
		return "gpt-4o-mini"
	case ProviderGemini:
		return "gemini-2.0-flash"
	default:
		return ""
	}
}

// AIEnabled reports whether a provider should be constructed at all. Without
// one every LLM call takes its fallback path.
func (c *Config) AIEnabled() bool {
	return c.AIProvider != ProviderNone && c.AIKey != ""
}

func (c *Config) Validate() error {
	switch c.Store {
	case StoreMemory, StoreSQLite:
	case StorePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required when STORE=postgres")
		}
	default:
		return fmt.Errorf("unknown STORE %q", c.Store)
	}
	switch c.AIProvider {
	case ProviderGemini, ProviderOpenAI, ProviderDeepSeek, ProviderNone:
	default:
		return fmt.Errorf("unknown AI_PROVIDER %q", c.AIProvider)
	}
	if c.AITimeout <= 0 {
		return fmt.Errorf("AI_TIMEOUT_SECONDS must be positive")
	}
	return nil
}
