// Package openai provides an implementation of model.Model using the OpenAI
// Chat Completions API (including function/tool calling). It adapts the
// canonical swarm transcript into the SDK's message format and classifies
// the completion back into a model.Reply, translating synthetic
// transfer_to_<agent> tool calls into handoff directives.
package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/openai/openai-go"

	"github.com/hupe1980/agentswarm/core"
	"github.com/hupe1980/agentswarm/model"
)

// Options configure the OpenAI model adapter. Fields mirror a subset of Chat
// Completion parameters intentionally kept minimal; extend via functional
// options without breaking callers.
type Options struct {
	Model               string
	Temperature         float64
	MaxCompletionTokens int64
}

// Model wraps the OpenAI Chat Completions API behind the generic model.Model interface.
type Model struct {
	client *openai.Client
	opts   Options
}

// NewModel creates a new OpenAI model using the official client
func NewModel(optFns ...func(o *Options)) *Model {
	client := openai.NewClient()
	return NewModelFromClient(&client, optFns...)
}

// NewModelFromClient creates a new OpenAI model from an existing client
func NewModelFromClient(client *openai.Client, optFns ...func(o *Options)) *Model {
	opts := Options{
		Model:               openai.ChatModelGPT4oMini,
		Temperature:         0.7,
		MaxCompletionTokens: 4096,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Model{client: client, opts: opts}
}

// Complete implements model.Model.
func (m *Model) Complete(ctx context.Context, req model.Request) (*model.Reply, error) {
	params := m.buildParams(req)

	resp, err := m.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, classifyError(err)
	}
	if len(resp.Choices) == 0 {
		return nil, &model.UnavailableError{Provider: "openai", Err: fmt.Errorf("no choices returned")}
	}

	msg := resp.Choices[0].Message
	reply := &model.Reply{Text: msg.Content}

	for _, tc := range msg.ToolCalls {
		if target, ok := model.HandoffTarget(tc.Function.Name); ok {
			reply.Handoffs = append(reply.Handoffs, target)
			continue
		}
		reply.ToolCalls = append(reply.ToolCalls, core.ToolCall{
			CallID:    tc.ID,
			Name:      tc.Function.Name,
			Arguments: parseArguments(tc.Function.Arguments),
		})
	}

	return reply, nil
}

// Info returns metadata describing this OpenAI model implementation.
func (m *Model) Info() model.Info {
	return model.Info{Name: m.opts.Model, Provider: "openai", SupportsTools: true}
}

// buildParams assembles the OpenAI request parameters including tool and
// synthetic handoff tool definitions.
func (m *Model) buildParams(req model.Request) openai.ChatCompletionNewParams {
	params := openai.ChatCompletionNewParams{
		Messages:            buildMessages(req),
		Model:               m.opts.Model,
		Temperature:         openai.Float(m.opts.Temperature),
		MaxCompletionTokens: openai.Int(m.opts.MaxCompletionTokens),
	}

	defs := append([]model.ToolDefinition{}, req.Tools...)
	defs = append(defs, model.HandoffToolDefinitions(req.HandoffTargets)...)
	if len(defs) == 0 {
		return params
	}

	tools := make([]openai.ChatCompletionToolParam, len(defs))
	for i, tdef := range defs {
		tools[i] = openai.ChatCompletionToolParam{
			Type: "function",
			Function: openai.FunctionDefinitionParam{
				Name:        tdef.Name,
				Description: openai.String(tdef.Description),
				Parameters:  tdef.Parameters,
			},
		}
	}
	params.Tools = tools

	return params
}

// buildMessages converts the canonical transcript into OpenAI chat messages.
// The requesting agent's own contributions map onto the assistant role with
// proper tool call / tool result pairing; everything authored by other
// participants is rendered as attributed user text so the provider's strict
// pairing rules are never violated by foreign tool traffic.
func buildMessages(req model.Request) []openai.ChatCompletionMessageParamUnion {
	var messages []openai.ChatCompletionMessageParamUnion

	if req.SystemPrompt != "" {
		messages = append(messages, openai.SystemMessage(req.SystemPrompt))
	}

	for _, m := range req.Messages {
		switch content := m.Content.(type) {
		case core.TextContent:
			switch m.Sender {
			case req.AgentName:
				messages = append(messages, openai.AssistantMessage(content.Text))
			case core.TaskAuthor:
				messages = append(messages, openai.UserMessage(content.Text))
			default:
				messages = append(messages, openai.UserMessage(attributed(m.Sender, content.Text)))
			}
		case core.ToolCallContent:
			if m.Sender != req.AgentName {
				messages = append(messages, openai.UserMessage(attributed(m.Sender, describeToolCalls(content.Calls))))
				continue
			}
			toolCalls := make([]openai.ChatCompletionMessageToolCallParam, len(content.Calls))
			for i, call := range content.Calls {
				toolCalls[i] = openai.ChatCompletionMessageToolCallParam{
					ID:   call.CallID,
					Type: "function",
					Function: openai.ChatCompletionMessageToolCallFunctionParam{
						Name:      call.Name,
						Arguments: marshalArguments(call.Arguments),
					},
				}
			}
			messages = append(messages, openai.ChatCompletionMessageParamUnion{
				OfAssistant: &openai.ChatCompletionAssistantMessageParam{
					Role:      "assistant",
					ToolCalls: toolCalls,
				},
			})
		case core.ToolResultContent:
			payload := renderToolResult(content.Result)
			if m.Sender == req.AgentName {
				messages = append(messages, openai.ToolMessage(payload, content.Result.CallID))
			} else {
				messages = append(messages, openai.UserMessage(attributed(m.Sender, payload)))
			}
		case core.HandoffContent:
			messages = append(messages, openai.UserMessage(
				attributed(m.Sender, "transferred the conversation to "+content.Target)))
		case core.ErrorContent:
			messages = append(messages, openai.UserMessage(
				attributed(core.OrchestratorAuthor, content.Code+": "+content.Detail)))
		case core.NoticeContent:
			messages = append(messages, openai.UserMessage(
				attributed(core.OrchestratorAuthor, content.Text)))
		}
	}

	return messages
}

func attributed(sender, text string) string {
	return fmt.Sprintf("[%s] %s", sender, text)
}

func describeToolCalls(calls []core.ToolCall) string {
	names := make([]byte, 0, 64)
	for i, c := range calls {
		if i > 0 {
			names = append(names, ", "...)
		}
		names = append(names, c.Name...)
	}
	return "called tools: " + string(names)
}

// renderToolResult serializes a tool outcome for the model. Failures carry
// the error kind so the issuing agent can self-correct.
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

func marshalArguments(args map[string]any) string {
	if len(args) == 0 {
		return "{}"
	}
	data, err := json.Marshal(args)
	if err != nil {
		return "{}"
	}
	return string(data)
}

func parseArguments(raw string) map[string]any {
	if raw == "" {
		return map[string]any{}
	}
	var args map[string]any
	if err := json.Unmarshal([]byte(raw), &args); err != nil {
		return map[string]any{"_raw": raw}
	}
	return args
}

// classifyError maps SDK failures onto the transient error taxonomy so the
// orchestrator retry policy stays provider agnostic.
func classifyError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &model.TimeoutError{Provider: "openai", Err: err}
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	var apierr *openai.Error
	if errors.As(err, &apierr) {
		if apierr.StatusCode == 429 || apierr.StatusCode >= 500 {
			return &model.UnavailableError{Provider: "openai", Err: err}
		}
		return fmt.Errorf("openai api error: %w", err)
	}
	// Connection level failures have no status code attached.
	return &model.UnavailableError{Provider: "openai", Err: err}
}
