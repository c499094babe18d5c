package llm

import "github.com/sullytools/editguru/internal/models"

// rate is the price per million tokens for one model.
type rate struct {
	input  float64
	output float64
}

// priceTable holds per-Mtok rates for every model the CLI accepts. A model
// missing from the table is rejected at startup so a typo cannot run with a
// silently wrong cost of zero.
var priceTable = map[string]rate{
	"gpt-4o":            {input: 2.50, output: 10.00},
	"gpt-4o-mini":       {input: 0.15, output: 0.60},
	"gpt-4.1":           {input: 2.00, output: 8.00},
	"gpt-4.1-mini":      {input: 0.40, output: 1.60},
	"gpt-4.1-nano":      {input: 0.10, output: 0.40},
	"o4-mini":           {input: 1.10, output: 4.40},
	"claude-opus-4-1":   {input: 15.00, output: 75.00},
	"claude-sonnet-4-5": {input: 3.00, output: 15.00},
	"claude-haiku-4-5":  {input: 1.00, output: 5.00},
}

// KnownModel reports whether the pricing table covers the model.
func KnownModel(model string) bool {
	_, ok := priceTable[model]
	return ok
}

// KnownModels lists every model the pricing table covers, unsorted.
func KnownModels() []string {
	names := make([]string, 0, len(priceTable))
	for name := range priceTable {
		names = append(names, name)
	}
	return names
}

// CompletionCost prices one completion in dollars. Cached prompt tokens are
// billed at a tenth of the input rate, matching both providers' discount.
func CompletionCost(model string, usage models.TokenUsage) float64 {
	r, ok := priceTable[model]
	if !ok {
		return 0
	}
	fresh := usage.PromptTokens - usage.CachedTokens
	if fresh < 0 {
		fresh = 0
	}
	cost := float64(fresh) * r.input / 1e6
	cost += float64(usage.CachedTokens) * r.input * 0.1 / 1e6
	cost += float64(usage.CompletionTokens) * r.output / 1e6
	return cost
}
