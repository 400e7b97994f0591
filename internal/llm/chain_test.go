package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeProvider struct {
	name    string
	model   string
	tier    string
	conf    float64
	content string
	err     error
	calls   int
}

func (f *fakeProvider) Name() string        { return f.name }
func (f *fakeProvider) Model() string       { return f.model }
func (f *fakeProvider) Tier() string        { return f.tier }
func (f *fakeProvider) Confidence() float64 { return f.conf }

func (f *fakeProvider) Chat(ctx context.Context, req Request) (*Result, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &Result{Content: f.content, Model: f.model}, nil
}

func (f *fakeProvider) Ping(ctx context.Context) error { return f.err }

func newTestChain(providers ...Provider) *Chain {
	return NewChain(providers, 0.7, 256, zap.NewNop())
}

func TestChain_FirstSuccessWins(t *testing.T) {
	first := &fakeProvider{name: "primary", model: "model-a", tier: "primary", conf: 0.9, content: "from primary"}
	second := &fakeProvider{name: "secondary", model: "model-b", tier: "secondary", conf: 0.8, content: "from secondary"}

	resp := newTestChain(first, second).Complete(context.Background(), Request{Message: "hello"})

	require.True(t, resp.LLMUsed)
	assert.Equal(t, "primary", resp.Provider)
	assert.Equal(t, "from primary", resp.Content)
	assert.Equal(t, 0.9, resp.Confidence)
	// First success stops the chain: the second provider is never tried.
	assert.Equal(t, 0, second.calls)
}

func TestChain_AdvancesPastFailures(t *testing.T) {
	tests := []struct {
		name    string
		failing int
	}{
		{"first fails", 1},
		{"first two fail", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var providers []Provider
			var fakes []*fakeProvider
			for i := 0; i < tt.failing; i++ {
				f := &fakeProvider{name: "down", err: errors.New("connection refused")}
				providers = append(providers, f)
				fakes = append(fakes, f)
			}
			ok := &fakeProvider{name: "up", model: "model-k", tier: "local", conf: 0.7, content: "answer"}
			providers = append(providers, ok)

			resp := newTestChain(providers...).Complete(context.Background(), Request{Message: "hi"})

			require.True(t, resp.LLMUsed)
			assert.Equal(t, "up", resp.Provider)
			assert.Equal(t, "model-k", resp.Model)
			for _, f := range fakes {
				assert.Equal(t, 1, f.calls, "each failing provider gets exactly one attempt")
			}
		})
	}
}

func TestChain_ExhaustionServesStaticResponse(t *testing.T) {
	down1 := &fakeProvider{name: "a", err: errors.New("timeout")}
	down2 := &fakeProvider{name: "b", err: errors.New("401 unauthorized")}

	resp := newTestChain(down1, down2).Complete(context.Background(), Request{Message: "hi"})

	require.NotNil(t, resp)
	assert.False(t, resp.LLMUsed)
	assert.NotEmpty(t, resp.Content)
	assert.Equal(t, "fallback", resp.Tier)
	assert.Equal(t, FallbackConfidence, resp.Confidence)
	assert.Less(t, resp.Confidence, 0.7, "fallback confidence must be clearly reduced")
}

func TestChain_EmptyChainStillAnswers(t *testing.T) {
	resp := newTestChain().Complete(context.Background(), Request{Message: "hi"})
	assert.False(t, resp.LLMUsed)
	assert.NotEmpty(t, resp.Content)
}

func TestGenerate_FallbackKeyedByAgentAndSession(t *testing.T) {
	chain := newTestChain(&fakeProvider{name: "down", err: errors.New("unreachable")})

	resp := chain.Generate(context.Background(), "test", "archive", "regulatory", false)

	require.False(t, resp.LLMUsed)
	assert.Contains(t, resp.Content, "regulatory")
	assert.Equal(t, resp.Content, FallbackResponse("archive", "regulatory"))
}

func TestGenerate_SystemPromptFromPersona(t *testing.T) {
	p := &fakeProvider{name: "up", model: "m", tier: "primary", conf: 0.9, content: "ok"}
	captured := ""
	chainUnderTest := newTestChain(providerFunc(func(ctx context.Context, req Request) (*Result, error) {
		captured = req.System
		return p.Chat(ctx, req)
	}, p))

	resp := chainUnderTest.Generate(context.Background(), "question", "codex", "standards", false)

	require.True(t, resp.LLMUsed)
	assert.Contains(t, captured, "Codex")
	assert.Contains(t, captured, "standards")
}

// providerFunc lets a test intercept Chat while delegating metadata.
type chatFn func(ctx context.Context, req Request) (*Result, error)

type wrappedProvider struct {
	*fakeProvider
	fn chatFn
}

func providerFunc(fn chatFn, base *fakeProvider) Provider {
	return &wrappedProvider{fakeProvider: base, fn: fn}
}

func (w *wrappedProvider) Chat(ctx context.Context, req Request) (*Result, error) {
	return w.fn(ctx, req)
}

func TestFallbackResponse_Deterministic(t *testing.T) {
	a := FallbackResponse("discourse", "plenary")
	b := FallbackResponse("discourse", "plenary")
	assert.Equal(t, a, b)
	assert.Contains(t, a, "plenary")
}

func TestFallbackResponse_UnknownAgentUsesGeneric(t *testing.T) {
	got := FallbackResponse("oracle", "plenary")
	assert.Equal(t, FallbackResponse("multi", "plenary"), got)
}

func TestBuildProviders_OrderAndSkipping(t *testing.T) {
	cfgs := []ProviderConfig{
		{Name: "local", BaseURL: "http://localhost:11434/v1", Model: "llama3.1:8b", Priority: 3},
		{Name: "cloud", APIKey: "sk-test", Model: "gpt-4o-mini", Priority: 1},
		{Name: "unconfigured", Priority: 2},
	}

	providers := BuildProviders(cfgs, zap.NewNop())

	require.Len(t, providers, 2, "entry without key or base url is skipped")
	assert.Equal(t, "cloud", providers[0].Name())
	assert.Equal(t, "local", providers[1].Name())
}
