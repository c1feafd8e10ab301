package config

import (
	"log"

	"github.com/caarlos0/env/v6"
)

type LLMProvider string

const (
	ProviderOpenAI LLMProvider = "openai"
	ProviderYandex LLMProvider = "yandex"
)

type Config struct {
	// Telegram surface; an empty token disables the bot.
	TelegramBotToken string `env:"TELEGRAM_BOT_TOKEN"`
	AdminUserID      int64  `env:"ADMIN_USER"`

	// LLM settings
	LLMProvider      LLMProvider `env:"LLM_PROVIDER" envDefault:"openai"`
	APIKeyEnv        string      `env:"API_KEY_ENV" envDefault:"GROQ_API_KEY"`
	OpenAIBaseURL    string      `env:"OPENAI_BASE_URL" envDefault:"https://api.groq.com/openai/v1"`
	OpenAIModel      string      `env:"OPENAI_MODEL" envDefault:"llama-3.3-70b-versatile"`
	MaxTokens        int         `env:"LLM_MAX_TOKENS" envDefault:"300"`
	Temperature      float32     `env:"LLM_TEMPERATURE" envDefault:"0.7"`
	YandexOAuthToken string      `env:"YANDEX_OAUTH_TOKEN"`
	YandexFolderID   string      `env:"YANDEX_FOLDER_ID"`
	HistoryLimit     int         `env:"CHAT_HISTORY_LIMIT" envDefault:"0"`

	// Prompts
	SystemPromptPath string `env:"SYSTEM_PROMPT_PATH"`

	// Storage
	DataFilePath    string `env:"DATA_FILE_PATH" envDefault:"lost_found_data.json"`
	LogFilePath     string `env:"LOG_FILE_PATH" envDefault:"logs/chat.jsonl"`
	SecretsFilePath string `env:"SECRETS_FILE_PATH" envDefault:".secrets.env"`

	// HTTP API; empty disables it.
	HTTPAddr string `env:"HTTP_ADDR" envDefault:":8080"`

	// Daily digest for the admin, cron syntax.
	DigestSchedule string `env:"DIGEST_SCHEDULE" envDefault:"0 21 * * *"`

	// Formatting
	MessageParseMode string `env:"MESSAGE_PARSE_MODE" envDefault:"HTML"`
}

func New() *Config {
	cfg, err := Parse()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	return cfg
}

// Parse reads the environment without exiting on error.
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
