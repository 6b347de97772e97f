// Package anthropic provides a model wrapper for the Anthropic Claude API.
// It adapts the canonical swarm transcript into the Messages API format and
// classifies the completion back into a model.Reply, translating synthetic
// transfer_to_<agent> tool calls into handoff directives.
package anthropic

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/shared/constant"

	"github.com/hupe1980/agentswarm/core"
	"github.com/hupe1980/agentswarm/model"
)

// Options configures the Anthropic model adapter (temperature, model id,
// max tokens, API key). Extend via functional options to preserve stability.
type Options struct {
	Model       anthropic.Model
	Temperature float64
	MaxTokens   int64
	APIKey      string
}

// Model wraps the Anthropic Messages API behind the generic model.Model interface.
type Model struct {
	client *anthropic.Client
	opts   Options
}

// NewModel creates a new Anthropic model using the official client
func NewModel(optFns ...func(o *Options)) *Model {
	opts := Options{
		Model:       anthropic.ModelClaude3_5Sonnet20241022,
		Temperature: 0.7,
		MaxTokens:   4096,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	var clientOpts []option.RequestOption
	if opts.APIKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(opts.APIKey))
	}

	client := anthropic.NewClient(clientOpts...)

	return &Model{client: &client, opts: opts}
}

// NewModelFromClient creates a new Anthropic model from an existing client
func NewModelFromClient(client *anthropic.Client, optFns ...func(o *Options)) *Model {
	opts := Options{
		Model:       anthropic.ModelClaude3_5Sonnet20241022,
		Temperature: 0.7,
		MaxTokens:   4096,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &Model{client: client, opts: opts}
}

// Complete implements model.Model.
func (m *Model) Complete(ctx context.Context, req model.Request) (*model.Reply, error) {
	params := anthropic.MessageNewParams{
		Model:       m.opts.Model,
		Messages:    buildMessages(req),
		MaxTokens:   m.opts.MaxTokens,
		Temperature: anthropic.Float(m.opts.Temperature),
	}

	if req.SystemPrompt != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.SystemPrompt}}
	}

	defs := append([]model.ToolDefinition{}, req.Tools...)
	defs = append(defs, model.HandoffToolDefinitions(req.HandoffTargets)...)
	if len(defs) > 0 {
		params.Tools = buildTools(defs)
	}

	resp, err := m.client.Messages.New(ctx, params)
	if err != nil {
		return nil, classifyError(err)
	}

	reply := &model.Reply{}
	for _, block := range resp.Content {
		switch block.Type {
		case "text":
			textBlock := block.AsText()
			if textBlock.Text != "" {
				if reply.Text != "" {
					reply.Text += "\n"
				}
				reply.Text += textBlock.Text
			}
		case "tool_use":
			toolBlock := block.AsToolUse()
			if target, ok := model.HandoffTarget(toolBlock.Name); ok {
				reply.Handoffs = append(reply.Handoffs, target)
				continue
			}
			args := map[string]any{}
			if toolBlock.Input != nil {
				if err := json.Unmarshal(toolBlock.Input, &args); err != nil {
					args = map[string]any{"_raw": string(toolBlock.Input)}
				}
			}
			reply.ToolCalls = append(reply.ToolCalls, core.ToolCall{
				CallID:    toolBlock.ID,
				Name:      toolBlock.Name,
				Arguments: args,
			})
		}
	}

	return reply, nil
}

// Info returns metadata describing this Anthropic model implementation.
func (m *Model) Info() model.Info {
	return model.Info{
		Name:          string(m.opts.Model),
		Provider:      "anthropic",
		SupportsTools: true,
	}
}

// buildMessages converts the canonical transcript to Anthropic message
// format. The requesting agent's contributions use the assistant role with
// tool_use / tool_result pairing; other participants are rendered as
// attributed user text.
func buildMessages(req model.Request) []anthropic.MessageParam {
	var messages []anthropic.MessageParam

	for _, m := range req.Messages {
		switch content := m.Content.(type) {
		case core.TextContent:
			switch m.Sender {
			case req.AgentName:
				messages = append(messages, anthropic.NewAssistantMessage(anthropic.NewTextBlock(content.Text)))
			case core.TaskAuthor:
				messages = append(messages, anthropic.NewUserMessage(anthropic.NewTextBlock(content.Text)))
			default:
				messages = append(messages, anthropic.NewUserMessage(anthropic.NewTextBlock(attributed(m.Sender, content.Text))))
			}
		case core.ToolCallContent:
			if m.Sender != req.AgentName {
				messages = append(messages, anthropic.NewUserMessage(anthropic.NewTextBlock(attributed(m.Sender, "invoked tools"))))
				continue
			}
			blocks := make([]anthropic.ContentBlockParamUnion, 0, len(content.Calls))
			for _, call := range content.Calls {
				var input any = call.Arguments
				if input == nil {
					input = map[string]any{}
				}
				blocks = append(blocks, anthropic.NewToolUseBlock(call.CallID, input, call.Name))
			}
			messages = append(messages, anthropic.NewAssistantMessage(blocks...))
		case core.ToolResultContent:
			payload := renderToolResult(content.Result)
			if m.Sender == req.AgentName {
				messages = append(messages, anthropic.NewUserMessage(
					anthropic.NewToolResultBlock(content.Result.CallID, payload, content.Result.Failed())))
			} else {
				messages = append(messages, anthropic.NewUserMessage(anthropic.NewTextBlock(attributed(m.Sender, payload))))
			}
		case core.HandoffContent:
			messages = append(messages, anthropic.NewUserMessage(
				anthropic.NewTextBlock(attributed(m.Sender, "transferred the conversation to "+content.Target))))
		case core.ErrorContent:
			messages = append(messages, anthropic.NewUserMessage(
				anthropic.NewTextBlock(attributed(core.OrchestratorAuthor, content.Code+": "+content.Detail))))
		case core.NoticeContent:
			messages = append(messages, anthropic.NewUserMessage(
				anthropic.NewTextBlock(attributed(core.OrchestratorAuthor, content.Text))))
		}
	}

	return messages
}

func attributed(sender, text string) string {
	return fmt.Sprintf("[%s] %s", sender, text)
}

func renderToolResult(res core.ToolResult) string {
	if res.Failed() {
		return fmt.Sprintf("tool %s failed (%s): %s", res.Name, res.ErrorKind, res.ErrorDetail)
	}
	data, err := json.Marshal(res.Result)
	if err != nil {
		return fmt.Sprintf("%v", res.Result)
	}
	return string(data)
}

// buildTools converts tool definitions to Anthropic tool format
func buildTools(defs []model.ToolDefinition) []anthropic.ToolUnionParam {
	tools := make([]anthropic.ToolUnionParam, len(defs))

	for i, def := range defs {
		inputSchema := anthropic.ToolInputSchemaParam{
			Type: constant.Object("object"),
		}

		if def.Parameters != nil {
			if properties, exists := def.Parameters["properties"]; exists {
				inputSchema.Properties = properties
			}
			if required, exists := def.Parameters["required"]; exists {
				switch req := required.(type) {
				case []string:
					inputSchema.Required = req
				case []any:
					var reqStrings []string
					for _, r := range req {
						if s, ok := r.(string); ok {
							reqStrings = append(reqStrings, s)
						}
					}
					inputSchema.Required = reqStrings
				}
			}
		}

		tools[i] = anthropic.ToolUnionParamOfTool(inputSchema, def.Name)
	}

	return tools
}

// classifyError maps SDK failures onto the transient error taxonomy so the
// orchestrator retry policy stays provider agnostic.
func classifyError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &model.TimeoutError{Provider: "anthropic", Err: err}
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	var apierr *anthropic.Error
	if errors.As(err, &apierr) {
		if apierr.StatusCode == 429 || apierr.StatusCode >= 500 {
			return &model.UnavailableError{Provider: "anthropic", Err: err}
		}
		return fmt.Errorf("anthropic api error: %w", err)
	}
	return &model.UnavailableError{Provider: "anthropic", Err: err}
}
