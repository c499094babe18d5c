package llm

import (
	"context"
	"fmt"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/responses"
	"github.com/openai/openai-go/v3/shared"

	"github.com/sullytools/editguru/internal/models"
	"github.com/sullytools/editguru/internal/tools"
)

// OpenAIClient talks to the OpenAI Responses API. The zero value is not
// usable; construct with NewOpenAIClient, which reads OPENAI_API_KEY from the
// environment via the SDK's default option chain.
type OpenAIClient struct {
	client openai.Client
}

func NewOpenAIClient() *OpenAIClient {
	return &OpenAIClient{client: openai.NewClient()}
}

// Complete sends the conversation to the Responses API and converts the
// output back into conversation items.
func (c *OpenAIClient) Complete(ctx context.Context, req Request) (Response, error) {
	params := responses.ResponseNewParams{
		Model: shared.ResponsesModel(req.ModelConfig.Model),
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: c.buildInput(req.History),
		},
	}
	if req.Instructions != "" {
		params.Instructions = openai.String(req.Instructions)
	}
	if req.ModelConfig.Temperature > 0 {
		params.Temperature = openai.Float(req.ModelConfig.Temperature)
	}
	if req.ModelConfig.MaxTokens > 0 {
		params.MaxOutputTokens = openai.Int(int64(req.ModelConfig.MaxTokens))
	}
	if len(req.Tools) > 0 {
		params.Tools = c.buildToolDefinitions(req.Tools)
	}

	resp, err := c.client.Responses.New(ctx, params)
	if err != nil {
		return Response{}, fmt.Errorf("openai completion: %w", err)
	}

	items, finishReason := c.parseOutput(resp)
	usage := models.TokenUsage{
		PromptTokens:     int(resp.Usage.InputTokens),
		CompletionTokens: int(resp.Usage.OutputTokens),
		CachedTokens:     int(resp.Usage.InputTokensDetails.CachedTokens),
	}
	return Response{
		Items:        items,
		FinishReason: finishReason,
		Usage:        usage,
		Cost:         CompletionCost(req.ModelConfig.Model, usage),
	}, nil
}

// buildInput converts conversation history into Responses API input items.
// Assistant messages are fed back as output messages so the API sees the
// prior turns exactly as it produced them.
func (c *OpenAIClient) buildInput(history []models.ConversationItem) responses.ResponseInputParam {
	items := make(responses.ResponseInputParam, 0, len(history))
	for _, item := range history {
		switch item.Type {
		case models.ItemTypeUserMessage:
			items = append(items, responses.ResponseInputItemUnionParam{
				OfMessage: &responses.EasyInputMessageParam{
					Role: responses.EasyInputMessageRoleUser,
					Content: responses.EasyInputMessageContentUnionParam{
						OfString: openai.String(item.Content),
					},
				},
			})
		case models.ItemTypeAssistantMessage:
			items = append(items, responses.ResponseInputItemUnionParam{
				OfOutputMessage: &responses.ResponseOutputMessageParam{
					Content: []responses.ResponseOutputMessageContentUnionParam{
						{OfOutputText: &responses.ResponseOutputTextParam{Text: item.Content}},
					},
					Status: responses.ResponseOutputMessageStatusCompleted,
				},
			})
		case models.ItemTypeFunctionCall:
			items = append(items, responses.ResponseInputItemUnionParam{
				OfFunctionCall: &responses.ResponseFunctionToolCallParam{
					CallID:    item.CallID,
					Name:      item.Name,
					Arguments: item.Arguments,
				},
			})
		case models.ItemTypeFunctionCallOutput:
			content := ""
			if item.Output != nil {
				content = item.Output.Content
			}
			items = append(items, responses.ResponseInputItemUnionParam{
				OfFunctionCallOutput: &responses.ResponseInputItemFunctionCallOutputParam{
					CallID: item.CallID,
					Output: responses.ResponseInputItemFunctionCallOutputOutputUnionParam{
						OfString: openai.String(content),
					},
				},
			})
		}
	}
	return items
}

func (c *OpenAIClient) buildToolDefinitions(specs []tools.Spec) []responses.ToolUnionParam {
	defs := make([]responses.ToolUnionParam, 0, len(specs))
	for _, spec := range specs {
		properties, required := schemaForTool(spec)
		defs = append(defs, responses.ToolUnionParam{
			OfFunction: &responses.FunctionToolParam{
				Name:        spec.Name,
				Description: openai.String(spec.Description),
				Parameters: map[string]any{
					"type":       "object",
					"properties": properties,
					"required":   required,
				},
				Strict: openai.Bool(false),
			},
		})
	}
	return defs
}

// parseOutput converts Responses API output items into conversation items.
// Any function_call in the output means the turn is not finished.
func (c *OpenAIClient) parseOutput(resp *responses.Response) ([]models.ConversationItem, models.FinishReason) {
	var items []models.ConversationItem
	finishReason := models.FinishReasonStop

	for _, out := range resp.Output {
		switch out.Type {
		case "message":
			text := ""
			for _, content := range out.Content {
				if content.Type == "output_text" {
					text += content.Text
				}
			}
			items = append(items, models.ConversationItem{
				Type:    models.ItemTypeAssistantMessage,
				Content: text,
			})
		case "function_call":
			items = append(items, models.ConversationItem{
				Type:      models.ItemTypeFunctionCall,
				CallID:    out.CallID,
				Name:      out.Name,
				Arguments: out.Arguments,
			})
			finishReason = models.FinishReasonToolCalls
		}
	}

	if len(items) == 0 {
		items = append(items, models.ConversationItem{Type: models.ItemTypeAssistantMessage})
	}
	return items, finishReason
}
