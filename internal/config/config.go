package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Discord  DiscordConfig
	Keys     APIKeys
	Ai       AIConfig
	Flow     FlowConfig
}

type AppConfig struct {
	Port        string `validate:"required"`
	Environment string
	LogFilePath string `validate:"required"`
	NatsURL     string
	RedisURL    string
	JwtSecret   string
	OtelEnabled bool
}

type DatabaseConfig struct {
	Connection string `validate:"required"`
}

type DiscordConfig struct {
	Token   string `validate:"required"`
	GuildID string // empty registers slash commands globally
}

type APIKeys struct {
	GoogleGemini      string
	RecipeSearchKey   string
	RecipeSearchCX    string
	RecipeSearchURL   string
	RecipeCacheTTL    time.Duration
	EventsSubjectRoot string
}

type AIConfig struct {
	LLMProvider   string `validate:"oneof=gemini ollama"`
	LLMModel      string `validate:"required"`
	OllamaBaseURL string
}

// FlowConfig holds the conversational policy knobs.
type FlowConfig struct {
	MaxSessions         int           `validate:"min=1"`
	SessionTTL          time.Duration `validate:"required"`
	PromptExpiry        time.Duration `validate:"required"`
	ExternalCallTimeout time.Duration `validate:"required"`
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:        getEnv("APP_PORT", "3000"),
			Environment: getEnv("GO_ENV", "development"),
			LogFilePath: getEnv("LOG_FILE_PATH", "logs/bot.log"),
			NatsURL:     getEnv("NATS_URL", ""),
			RedisURL:    getEnv("REDIS_URL", "redis://localhost:6379"),
			JwtSecret:   getEnv("JWT_SECRET", ""),
			OtelEnabled: getEnvAsBool("OTEL_ENABLED", false),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DATABASE_URL", getEnv("DB_CONNECTION_STRING", "")),
		},
		Discord: DiscordConfig{
			Token:   getEnv("DISCORD_TOKEN", ""),
			GuildID: getEnv("DISCORD_GUILD_ID", ""),
		},
		Keys: APIKeys{
			GoogleGemini:      getEnv("GEMINI_API_KEY", ""),
			RecipeSearchKey:   getEnv("RECIPE_SEARCH_API_KEY", ""),
			RecipeSearchCX:    getEnv("RECIPE_SEARCH_ENGINE_ID", ""),
			RecipeSearchURL:   getEnv("RECIPE_SEARCH_URL", "https://www.googleapis.com/customsearch/v1"),
			RecipeCacheTTL:    getEnvAsDuration("RECIPE_CACHE_TTL", 24*time.Hour),
			EventsSubjectRoot: getEnv("EVENTS_SUBJECT_ROOT", "events"),
		},
		Ai: AIConfig{
			LLMProvider:   getEnv("LLM_PROVIDER", "gemini"),
			LLMModel:      getEnv("LLM_MODEL", "gemini-1.5-flash"),
			OllamaBaseURL: getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
		},
		Flow: FlowConfig{
			MaxSessions:         getEnvAsInt("MAX_SESSIONS", 3),
			SessionTTL:          getEnvAsDuration("SESSION_TTL", 10*time.Minute),
			PromptExpiry:        getEnvAsDuration("PROMPT_EXPIRY", 60*time.Second),
			ExternalCallTimeout: getEnvAsDuration("EXTERNAL_CALL_TIMEOUT", 20*time.Second),
		},
	}
}

var validate = validator.New()

// Validate checks every section the chat bot needs to boot.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// ValidateLocal checks the sections needed without a chat platform token.
func (c *Config) ValidateLocal() error {
	for _, section := range []interface{}{c.App, c.Database, c.Ai, c.Flow} {
		if err := validate.Struct(section); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}
