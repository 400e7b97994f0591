package llm

import (
	"context"
	"fmt"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// Request is the universal chat-completion request passed to providers.
// Model may override the provider's configured default.
type Request struct {
	Model       string
	System      string
	Message     string
	Temperature float64
	MaxTokens   int
}

// Result is a normalized successful provider response
type Result struct {
	Content          string
	Model            string
	PromptTokens     int
	CompletionTokens int
}

// Provider is one generation backend in the fallback chain. Every provider
// speaks the same chat-completion contract; vendor envelopes are normalized
// behind this interface.
type Provider interface {
	Name() string
	Model() string
	Tier() string
	Confidence() float64
	Chat(ctx context.Context, req Request) (*Result, error)
	// Ping reports reachability for the status endpoint.
	Ping(ctx context.Context) error
}

// ProviderConfig describes one provider entry. Providers are attempted in
// ascending Priority order.
type ProviderConfig struct {
	Name       string  `mapstructure:"name"`
	BaseURL    string  `mapstructure:"base_url"`
	APIKey     string  `mapstructure:"api_key"`
	Model      string  `mapstructure:"model"`
	Tier       string  `mapstructure:"tier"`
	Confidence float64 `mapstructure:"confidence"`
	Priority   int     `mapstructure:"priority"`
	TimeoutSec int     `mapstructure:"timeout_seconds"`
}

const defaultTimeout = 8 * time.Second

// OpenAICompatProvider talks to any OpenAI-compatible chat-completions
// endpoint (OpenAI, OpenRouter, Ollama's /v1, LM Studio, ...), selected by
// base URL and API key.
type OpenAICompatProvider struct {
	name       string
	model      string
	tier       string
	confidence float64
	client     *openai.Client
}

func NewOpenAICompatProvider(cfg ProviderConfig) *OpenAICompatProvider {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	timeout := defaultTimeout
	if cfg.TimeoutSec > 0 {
		timeout = time.Duration(cfg.TimeoutSec) * time.Second
	}
	clientCfg.HTTPClient = &http.Client{Timeout: timeout}

	confidence := cfg.Confidence
	if confidence == 0 {
		confidence = 0.8
	}
	tier := cfg.Tier
	if tier == "" {
		tier = "secondary"
	}

	return &OpenAICompatProvider{
		name:       cfg.Name,
		model:      cfg.Model,
		tier:       tier,
		confidence: confidence,
		client:     openai.NewClientWithConfig(clientCfg),
	}
}

func (p *OpenAICompatProvider) Name() string        { return p.name }
func (p *OpenAICompatProvider) Model() string       { return p.model }
func (p *OpenAICompatProvider) Tier() string        { return p.tier }
func (p *OpenAICompatProvider) Confidence() float64 { return p.confidence }

func (p *OpenAICompatProvider) Chat(ctx context.Context, req Request) (*Result, error) {
	model := req.Model
	if model == "" {
		model = p.model
	}

	messages := []openai.ChatCompletionMessage{}
	if req.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.System,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: req.Message,
	})

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       model,
		Messages:    messages,
		MaxTokens:   req.MaxTokens,
		Temperature: float32(req.Temperature),
	})
	if err != nil {
		return nil, fmt.Errorf("provider %s: %w", p.name, err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("provider %s: empty choices in response", p.name)
	}

	usedModel := resp.Model
	if usedModel == "" {
		usedModel = model
	}

	return &Result{
		Content:          resp.Choices[0].Message.Content,
		Model:            usedModel,
		PromptTokens:     resp.Usage.PromptTokens,
		CompletionTokens: resp.Usage.CompletionTokens,
	}, nil
}

// Ping lists models with a short deadline; a reachable endpoint answers even
// when no model is loaded.
func (p *OpenAICompatProvider) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if _, err := p.client.ListModels(ctx); err != nil {
		return fmt.Errorf("provider %s unreachable: %w", p.name, err)
	}
	return nil
}

// BuildProviders constructs the ordered provider list from configuration.
// Entries without an API key are kept only if they point at a local endpoint
// (base URL set), mirroring how local runtimes need no auth.
func BuildProviders(cfgs []ProviderConfig, logger *zap.Logger) []Provider {
	ordered := make([]ProviderConfig, len(cfgs))
	copy(ordered, cfgs)
	for i := 1; i < len(ordered); i++ {
		for j := i; j > 0 && ordered[j].Priority < ordered[j-1].Priority; j-- {
			ordered[j], ordered[j-1] = ordered[j-1], ordered[j]
		}
	}

	var providers []Provider
	for _, c := range ordered {
		if c.APIKey == "" && c.BaseURL == "" {
			logger.Warn("Skipping provider without api key or base url",
				zap.String("provider", c.Name))
			continue
		}
		providers = append(providers, NewOpenAICompatProvider(c))
		logger.Info("Registered provider",
			zap.String("provider", c.Name),
			zap.String("model", c.Model),
			zap.Int("priority", c.Priority))
	}
	return providers
}
