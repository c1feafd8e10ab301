package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/sashabaranov/go-openai"
)

// GroqBaseURL is the OpenAI-compatible endpoint of the default completion service.
const GroqBaseURL = "https://api.groq.com/openai/v1"

var ErrEmptyCompletion = errors.New("completion service returned no content")

// OpenAIClient talks to any OpenAI-compatible chat completion API.
type OpenAIClient struct {
	client      *openai.Client
	model       string
	maxTokens   int
	temperature float32
}

// OpenAIOptions tune the completion request. Zero values leave the service defaults.
type OpenAIOptions struct {
	BaseURL     string
	MaxTokens   int
	Temperature float32
	// HTTPClient replaces the default transport, mostly for tests.
	HTTPClient *http.Client
}

func NewOpenAI(apiKey, model string, opts OpenAIOptions) *OpenAIClient {
	config := openai.DefaultConfig(apiKey)
	if opts.BaseURL != "" {
		config.BaseURL = opts.BaseURL
	}
	if opts.HTTPClient != nil {
		config.HTTPClient = opts.HTTPClient
	}
	return &OpenAIClient{
		client:      openai.NewClientWithConfig(config),
		model:       model,
		maxTokens:   opts.MaxTokens,
		temperature: opts.Temperature,
	}
}

func (c *OpenAIClient) Generate(ctx context.Context, messages []Message) (Response, error) {
	oaMsgs := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, m := range messages {
		oaMsgs = append(oaMsgs, openai.ChatCompletionMessage{Role: m.Role, Content: m.Content})
	}

	req := openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    oaMsgs,
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return Response{}, fmt.Errorf("failed to create chat completion: %w", err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return Response{}, ErrEmptyCompletion
	}

	model := resp.Model
	if model == "" {
		model = c.model
	}
	return Response{
		Content:          resp.Choices[0].Message.Content,
		Model:            model,
		PromptTokens:     resp.Usage.PromptTokens,
		CompletionTokens: resp.Usage.CompletionTokens,
		TotalTokens:      resp.Usage.TotalTokens,
	}, nil
}
