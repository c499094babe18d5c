package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sullytools/editguru/internal/models"
)

func TestDetectProviderFromModel(t *testing.T) {
	assert.Equal(t, "anthropic", detectProviderFromModel("claude-haiku-4-5"))
	assert.Equal(t, "anthropic", detectProviderFromModel("claude-sonnet-4-5"))
	assert.Equal(t, "openai", detectProviderFromModel("gpt-4o-mini"))
	assert.Equal(t, "openai", detectProviderFromModel("o4-mini"))
}

func TestNewClient_KnownModels(t *testing.T) {
	c, err := NewClient("gpt-4o-mini")
	require.NoError(t, err)
	assert.IsType(t, &OpenAIClient{}, c)

	c, err = NewClient("claude-haiku-4-5")
	require.NoError(t, err)
	assert.IsType(t, &AnthropicClient{}, c)
}

// An unrecognized model is rejected at startup rather than being priced at
// zero, which would let a run escape the spend ceiling entirely.
func TestNewClient_UnknownModelRejected(t *testing.T) {
	_, err := NewClient("gpt-99-turbo")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown model")
	assert.Contains(t, err.Error(), "gpt-99-turbo")
}

func TestCompletionCost(t *testing.T) {
	// gpt-4o-mini: $0.15/Mtok in, $0.60/Mtok out.
	cost := CompletionCost("gpt-4o-mini", models.TokenUsage{PromptTokens: 1_000_000, CompletionTokens: 1_000_000})
	assert.InDelta(t, 0.75, cost, 1e-9)
}

func TestCompletionCost_CachedDiscount(t *testing.T) {
	full := CompletionCost("claude-haiku-4-5", models.TokenUsage{PromptTokens: 1000})
	cached := CompletionCost("claude-haiku-4-5", models.TokenUsage{PromptTokens: 1000, CachedTokens: 1000})
	assert.Less(t, cached, full)
	assert.InDelta(t, full*0.1, cached, 1e-9)
}

func TestCompletionCost_UnknownModelZero(t *testing.T) {
	assert.Zero(t, CompletionCost("made-up", models.TokenUsage{PromptTokens: 100}))
}
