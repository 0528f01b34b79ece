package generativeAI

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/FACorreiaa/go-travel-planner/internal/types"
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"

	DefaultGeminiModel = "gemini-2.0-flash"
)

// ErrMissingAPIKey is returned when a client is built without a credential.
var ErrMissingAPIKey = errors.New("generation API key is not set")

// TextGenerator is a one-shot, text-in/text-out model call.
type TextGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
	Model() string
}

// GeneratorConfig selects and configures a TextGenerator.
type GeneratorConfig struct {
	Provider    string
	APIKey      string
	BaseURL     string // only used by the openai provider
	Model       string
	Temperature float32
}

// NewTextGenerator builds the client for the configured provider.
func NewTextGenerator(ctx context.Context, cfg GeneratorConfig) (TextGenerator, error) {
	switch strings.ToLower(cfg.Provider) {
	case ProviderGemini, "":
		client, err := NewAIClient(ctx, cfg.APIKey, cfg.Model, cfg.Temperature)
		if err != nil {
			return nil, err
		}
		return client, nil
	case ProviderOpenAI:
		client, err := NewOpenAIClient(cfg.APIKey, cfg.BaseURL, cfg.Model, cfg.Temperature)
		if err != nil {
			return nil, err
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unsupported generation provider: %s", cfg.Provider)
	}
}

var _ TextGenerator = (*AIClient)(nil)

// AIClient talks to the Gemini API.
type AIClient struct {
	client *genai.Client
	model  string
	config *genai.GenerateContentConfig
}

func NewAIClient(ctx context.Context, apiKey, model string, temperature float32) (*AIClient, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	if model == "" {
		model = DefaultGeminiModel
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return &AIClient{
		client: client,
		model:  model,
		config: &genai.GenerateContentConfig{Temperature: genai.Ptr[float32](temperature)},
	}, nil
}

func (ai *AIClient) Model() string {
	return ai.model
}

// GenerateContent sends a single prompt, with no chat history, and returns the completion text.
func (ai *AIClient) GenerateContent(ctx context.Context, prompt string) (string, error) {
	result, err := ai.client.Models.GenerateContent(ctx, ai.model, genai.Text(prompt), ai.config)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}
	txt := result.Text()
	if strings.TrimSpace(txt) == "" {
		return "", types.ErrEmptyResponse
	}
	return txt, nil
}

type timeoutGenerator struct {
	TextGenerator
	timeout time.Duration
}

// WithTimeout bounds every GenerateContent call made through g.
func WithTimeout(g TextGenerator, timeout time.Duration) TextGenerator {
	return &timeoutGenerator{TextGenerator: g, timeout: timeout}
}

func (t *timeoutGenerator) GenerateContent(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.TextGenerator.GenerateContent(ctx, prompt)
}
