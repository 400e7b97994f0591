package llm

import (
	"context"
	"time"

	"github.com/openagora/agora/internal/agent"
	"github.com/openagora/agora/internal/metrics"
	"github.com/openagora/agora/internal/models"
	"go.uber.org/zap"
)

// FallbackConfidence is the reduced confidence reported when no provider
// answered and a static response was served. Kept well below any provider's
// default so disclosure consumers can tell generation from fallback.
const FallbackConfidence = 0.3

// Response is the single normalized shape every generation resolves to,
// whether a provider answered or the chain was exhausted.
type Response struct {
	Content          string          `json:"content"`
	Confidence       float64         `json:"confidence"`
	Sources          []models.Source `json:"sources"`
	ProcessingTimeMs int64           `json:"processing_time_ms"`
	LLMUsed          bool            `json:"llm_used"`
	Provider         string          `json:"provider,omitempty"`
	Model            string          `json:"model"`
	Tier             string          `json:"tier"`
}

// Chain attempts providers strictly in priority order and normalizes
// success or exhaustion into a Response. It never returns an error:
// exhaustion is a normal terminal outcome, not an exceptional one.
type Chain struct {
	providers   []Provider
	temperature float64
	maxTokens   int
	logger      *zap.Logger
}

func NewChain(providers []Provider, temperature float64, maxTokens int, logger *zap.Logger) *Chain {
	if temperature == 0 {
		temperature = 0.7
	}
	if maxTokens == 0 {
		maxTokens = 1024
	}
	return &Chain{
		providers:   providers,
		temperature: temperature,
		maxTokens:   maxTokens,
		logger:      logger,
	}
}

// Providers exposes the configured chain for the status endpoint.
func (c *Chain) Providers() []Provider {
	return c.providers
}

// Generate answers a chat request for an agent persona. The system prompt is
// resolved from the persona registry; when every provider fails, the static
// response for that persona and session is served with LLMUsed=false.
func (c *Chain) Generate(ctx context.Context, message, agentType, sessionType string, multiAgent bool) *Response {
	system := agent.Resolve(agentType, sessionType, multiAgent)
	resp := c.Complete(ctx, Request{System: system, Message: message})
	if !resp.LLMUsed {
		resp.Content = FallbackResponse(agentType, sessionType)
	}
	return resp
}

// Complete runs the fallback chain for an arbitrary prompt. One attempt per
// provider: a failed attempt is logged and the next provider is tried.
// Failures are never surfaced to the caller.
func (c *Chain) Complete(ctx context.Context, req Request) *Response {
	start := time.Now()
	if req.Temperature == 0 {
		req.Temperature = c.temperature
	}
	if req.MaxTokens == 0 {
		req.MaxTokens = c.maxTokens
	}

	for _, p := range c.providers {
		result, err := p.Chat(ctx, req)
		if err != nil {
			metrics.ProviderAttempts.WithLabelValues(p.Name(), "error").Inc()
			c.logger.Warn("Provider failed, advancing chain",
				zap.String("provider", p.Name()),
				zap.String("model", p.Model()),
				zap.Error(err))
			continue
		}

		metrics.ProviderAttempts.WithLabelValues(p.Name(), "success").Inc()
		c.logger.Info("Provider answered",
			zap.String("provider", p.Name()),
			zap.String("model", result.Model),
			zap.Int("completion_tokens", result.CompletionTokens),
			zap.Duration("elapsed", time.Since(start)))

		return &Response{
			Content:          result.Content,
			Confidence:       p.Confidence(),
			Sources:          []models.Source{},
			ProcessingTimeMs: time.Since(start).Milliseconds(),
			LLMUsed:          true,
			Provider:         p.Name(),
			Model:            result.Model,
			Tier:             p.Tier(),
		}
	}

	metrics.ChainExhaustions.Inc()
	c.logger.Warn("All providers exhausted, serving static response",
		zap.Int("providers_tried", len(c.providers)))

	return &Response{
		Content:          genericFallback,
		Confidence:       FallbackConfidence,
		Sources:          []models.Source{},
		ProcessingTimeMs: time.Since(start).Milliseconds(),
		LLMUsed:          false,
		Model:            "static-fallback",
		Tier:             "fallback",
	}
}
