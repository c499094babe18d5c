package llm

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/sullytools/editguru/internal/models"
	"github.com/sullytools/editguru/internal/tools"
)

// AnthropicClient talks to the Anthropic Messages API. Construct with
// NewAnthropicClient, which reads ANTHROPIC_API_KEY from the environment.
//
// Prompt caching: the system blocks and the last tool definition carry
// ephemeral cache_control breakpoints, and on multi-turn requests so does the
// penultimate message's last content block. This keeps the stable prefix of
// every request cache-eligible, which is where most of the spend goes on an
// agent loop.
type AnthropicClient struct {
	client anthropic.Client
}

func NewAnthropicClient() *AnthropicClient {
	return &AnthropicClient{client: anthropic.NewClient()}
}

func (c *AnthropicClient) Complete(ctx context.Context, req Request) (Response, error) {
	messages, err := c.buildMessages(req.History)
	if err != nil {
		return Response{}, err
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(req.ModelConfig.Model),
		MaxTokens: int64(maxTokensOrDefault(req.ModelConfig)),
		Messages:  messages,
	}
	if blocks := c.buildSystemBlocks(req.Instructions); len(blocks) > 0 {
		params.System = blocks
	}
	if req.ModelConfig.Temperature > 0 {
		params.Temperature = anthropic.Float(req.ModelConfig.Temperature)
	}
	if len(req.Tools) > 0 {
		params.Tools = c.buildToolDefinitions(req.Tools)
	}

	resp, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return Response{}, fmt.Errorf("anthropic completion: %w", err)
	}

	items, finishReason := c.parseContent(resp)
	usage := models.TokenUsage{
		PromptTokens:     int(resp.Usage.InputTokens),
		CompletionTokens: int(resp.Usage.OutputTokens),
		CachedTokens:     int(resp.Usage.CacheReadInputTokens),
	}
	return Response{
		Items:        items,
		FinishReason: finishReason,
		Usage:        usage,
		Cost:         CompletionCost(req.ModelConfig.Model, usage),
	}, nil
}

func (c *AnthropicClient) buildSystemBlocks(instructions string) []anthropic.TextBlockParam {
	if instructions == "" {
		return nil
	}
	return []anthropic.TextBlockParam{{
		Text:         instructions,
		CacheControl: anthropic.NewCacheControlEphemeralParam(),
	}}
}

// buildToolDefinitions converts tool shapes into Anthropic tool params. Only
// the last tool gets a cache breakpoint; caching covers everything before the
// breakpoint, so one marker at the end covers the whole tool block.
func (c *AnthropicClient) buildToolDefinitions(specs []tools.Spec) []anthropic.ToolUnionParam {
	defs := make([]anthropic.ToolUnionParam, 0, len(specs))
	for i, spec := range specs {
		properties, required := schemaForTool(spec)
		tool := anthropic.ToolParam{
			Name:        spec.Name,
			Description: anthropic.String(spec.Description),
			InputSchema: anthropic.ToolInputSchemaParam{
				Properties: properties,
				Required:   required,
			},
		}
		if i == len(specs)-1 {
			tool.CacheControl = anthropic.NewCacheControlEphemeralParam()
		}
		defs = append(defs, anthropic.ToolUnionParam{OfTool: &tool})
	}
	return defs
}

// buildMessages converts conversation history into Messages API form.
// Function calls become assistant tool_use blocks and their outputs become
// user tool_result blocks, which is the pairing the API requires.
func (c *AnthropicClient) buildMessages(history []models.ConversationItem) ([]anthropic.MessageParam, error) {
	var messages []anthropic.MessageParam
	for _, item := range history {
		switch item.Type {
		case models.ItemTypeUserMessage:
			messages = append(messages, anthropic.NewUserMessage(anthropic.NewTextBlock(item.Content)))
		case models.ItemTypeAssistantMessage:
			messages = append(messages, anthropic.NewAssistantMessage(anthropic.NewTextBlock(item.Content)))
		case models.ItemTypeFunctionCall:
			input := json.RawMessage(item.Arguments)
			if len(input) == 0 {
				input = json.RawMessage("{}")
			}
			messages = append(messages, anthropic.NewAssistantMessage(
				anthropic.NewToolUseBlock(item.CallID, input, item.Name)))
		case models.ItemTypeFunctionCallOutput:
			content := ""
			isError := false
			if item.Output != nil {
				content = item.Output.Content
				isError = item.Output.Success != nil && !*item.Output.Success
			}
			messages = append(messages, anthropic.NewUserMessage(
				anthropic.NewToolResultBlock(item.CallID, content, isError)))
		}
	}

	// Cache breakpoint on the penultimate message: everything up to and
	// including it is the stable prefix of the next request.
	if len(messages) >= 2 {
		penultimate := &messages[len(messages)-2]
		if n := len(penultimate.Content); n > 0 {
			setCacheControl(&penultimate.Content[n-1])
		}
	}
	return messages, nil
}

// setCacheControl marks whichever block variant is populated.
func setCacheControl(block *anthropic.ContentBlockParamUnion) {
	cc := anthropic.NewCacheControlEphemeralParam()
	switch {
	case block.OfText != nil:
		block.OfText.CacheControl = cc
	case block.OfToolUse != nil:
		block.OfToolUse.CacheControl = cc
	case block.OfToolResult != nil:
		block.OfToolResult.CacheControl = cc
	}
}

func (c *AnthropicClient) parseContent(resp *anthropic.Message) ([]models.ConversationItem, models.FinishReason) {
	var items []models.ConversationItem
	finishReason := models.FinishReasonStop

	for _, block := range resp.Content {
		switch block.Type {
		case "text":
			items = append(items, models.ConversationItem{
				Type:    models.ItemTypeAssistantMessage,
				Content: block.Text,
			})
		case "tool_use":
			items = append(items, models.ConversationItem{
				Type:      models.ItemTypeFunctionCall,
				CallID:    block.ID,
				Name:      block.Name,
				Arguments: string(block.Input),
			})
			finishReason = models.FinishReasonToolCalls
		}
	}

	if resp.StopReason == anthropic.StopReasonMaxTokens {
		finishReason = models.FinishReasonLength
	}
	if len(items) == 0 {
		items = append(items, models.ConversationItem{Type: models.ItemTypeAssistantMessage})
	}
	return items, finishReason
}
