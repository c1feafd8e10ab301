package llm

import (
	"fmt"
	"strings"

	"campus-lostfound/internal/config"
)

const (
	ProviderOpenAI = "openai"
	ProviderYandex = "yandex"
)

// Factory creates LLM clients with consistent logic
type Factory struct {
	APIKey           string
	BaseURL          string
	Model            string
	MaxTokens        int
	Temperature      float32
	YandexOAuthToken string
	YandexFolderID   string
}

// NewFactory takes the already resolved credential for the OpenAI-compatible provider.
func NewFactory(cfg *config.Config, apiKey string) *Factory {
	return &Factory{
		APIKey:           apiKey,
		BaseURL:          cfg.OpenAIBaseURL,
		Model:            cfg.OpenAIModel,
		MaxTokens:        cfg.MaxTokens,
		Temperature:      cfg.Temperature,
		YandexOAuthToken: cfg.YandexOAuthToken,
		YandexFolderID:   cfg.YandexFolderID,
	}
}

// CreateClient returns a nil Client without error when the provider has no
// credential, which leaves the chat relay in its unavailable state.
func (f *Factory) CreateClient(provider string) (Client, error) {
	switch strings.ToLower(provider) {
	case ProviderOpenAI, "":
		if f.APIKey == "" {
			return nil, nil
		}
		return NewOpenAI(f.APIKey, f.Model, OpenAIOptions{
			BaseURL:     f.BaseURL,
			MaxTokens:   f.MaxTokens,
			Temperature: f.Temperature,
		}), nil
	case ProviderYandex:
		if f.YandexOAuthToken == "" || f.YandexFolderID == "" {
			return nil, nil
		}
		c, err := NewYandex(f.YandexOAuthToken, f.YandexFolderID)
		if err != nil {
			return nil, err
		}
		return c, nil
	default:
		return nil, fmt.Errorf("unknown llm provider: %s", provider)
	}
}
