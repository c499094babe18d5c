package llm

import (
	"fmt"
	"sort"
	"strings"
)

// detectProviderFromModel infers the provider from the model name.
func detectProviderFromModel(model string) string {
	if strings.HasPrefix(model, "claude") {
		return "anthropic"
	}
	return "openai"
}

// NewClient returns the backend for the given model, or an error when the
// model is not in the pricing table. Rejecting unknown models up front means
// a typo fails at startup instead of running with a cost of zero.
func NewClient(model string) (Client, error) {
	if !KnownModel(model) {
		known := KnownModels()
		sort.Strings(known)
		return nil, fmt.Errorf("unknown model %q (supported: %s)", model, strings.Join(known, ", "))
	}
	switch detectProviderFromModel(model) {
	case "anthropic":
		return NewAnthropicClient(), nil
	default:
		return NewOpenAIClient(), nil
	}
}
