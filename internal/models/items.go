// Package models defines the conversation data model shared by the control
// loop, the completion backends, and the CLI renderer.
package models

// ItemType identifies the kind of a ConversationItem.
type ItemType string

const (
	ItemTypeUserMessage        ItemType = "user_message"
	ItemTypeAssistantMessage   ItemType = "assistant_message"
	ItemTypeFunctionCall       ItemType = "function_call"
	ItemTypeFunctionCallOutput ItemType = "function_call_output"
)

// ConversationItem is one entry in the session history. Exactly one of the
// type-specific field groups is populated, selected by Type.
type ConversationItem struct {
	Type    ItemType `json:"type"`
	Content string   `json:"content,omitempty"`

	// FunctionCall fields
	CallID    string `json:"call_id,omitempty"`
	Name      string `json:"name,omitempty"`
	Arguments string `json:"arguments,omitempty"`
	Reason    string `json:"reason,omitempty"`

	// FunctionCallOutput payload
	Output *FunctionCallOutputPayload `json:"output,omitempty"`
}

// FunctionCallOutputPayload is the result of an executed tool call, fed back
// into the conversation so the model can adapt to failures.
type FunctionCallOutputPayload struct {
	Content string `json:"content"`
	Success *bool  `json:"success,omitempty"`
}

// FinishReason describes why a completion stopped.
type FinishReason string

const (
	FinishReasonStop      FinishReason = "stop"
	FinishReasonToolCalls FinishReason = "tool_calls"
	FinishReasonLength    FinishReason = "length"
)

// TokenUsage reports token counts for a single completion.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	CachedTokens     int `json:"cached_tokens,omitempty"`
}

// ModelConfig selects the completion model and its sampling parameters.
type ModelConfig struct {
	Model       string  `json:"model"`
	Temperature float64 `json:"temperature,omitempty"`
	MaxTokens   int     `json:"max_tokens,omitempty"`
}

// ExtractFunctionCalls filters items down to the function calls.
func ExtractFunctionCalls(items []ConversationItem) []ConversationItem {
	var calls []ConversationItem
	for _, item := range items {
		if item.Type == ItemTypeFunctionCall {
			calls = append(calls, item)
		}
	}
	return calls
}
