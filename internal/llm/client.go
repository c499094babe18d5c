// Package llm implements the completion backends the control loop talks to:
// OpenAI (Responses API) and Anthropic (Messages API) behind a common
// interface, with a pricing table that turns token usage into dollars.
package llm

import (
	"context"

	"github.com/sullytools/editguru/internal/models"
	"github.com/sullytools/editguru/internal/tools"
)

// Request is one completion call. Tools may be empty to disable tool calling
// entirely (the planning phase does this).
type Request struct {
	ModelConfig  models.ModelConfig
	Instructions string
	History      []models.ConversationItem
	Tools        []tools.Spec
}

// Response is the backend's answer: assistant text and/or requested tool
// calls, plus the usage and cost the budget guard needs.
type Response struct {
	Items        []models.ConversationItem
	FinishReason models.FinishReason
	Usage        models.TokenUsage
	Cost         float64
}

// Client is a completion backend. A failed call means the backend is
// unavailable; the control loop halts and surfaces it to the operator.
type Client interface {
	Complete(ctx context.Context, req Request) (Response, error)
}

const defaultMaxTokens = 4096

// maxTokensOrDefault applies the default response budget when unset. The
// Anthropic API requires max_tokens on every request.
func maxTokensOrDefault(cfg models.ModelConfig) int {
	if cfg.MaxTokens > 0 {
		return cfg.MaxTokens
	}
	return defaultMaxTokens
}

// schemaForTool converts a declared tool shape into a JSON-schema object of
// the form both backends accept.
func schemaForTool(spec tools.Spec) (properties map[string]any, required []string) {
	properties = make(map[string]any, len(spec.Parameters))
	for _, p := range spec.Parameters {
		prop := map[string]any{
			"type":        p.Type,
			"description": p.Description,
		}
		if p.Type == "array" {
			prop["items"] = map[string]any{"type": p.Items}
		}
		properties[p.Name] = prop
		if p.Required {
			required = append(required, p.Name)
		}
	}
	return properties, required
}
