package anthropic

import (
	"context"
	"errors"
	"testing"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/agentswarm/core"
	"github.com/hupe1980/agentswarm/model"
)

func TestBuildMessagesRoles(t *testing.T) {
	req := model.Request{
		AgentName: "analyst",
		Messages: []core.Message{
			core.NewTaskMessage("What is TSLA trading at?"),
			core.NewToolCallMessage("analyst", []core.ToolCall{
				{CallID: "c1", Name: "stock_quote", Arguments: map[string]any{"symbol": "TSLA"}},
			}),
			core.NewToolResultMessage("analyst", core.ToolResult{
				CallID: "c1", Name: "stock_quote", Result: map[string]any{"price": 250.0},
			}),
			core.NewTextMessage("analyst", "TSLA trades at 250.0"),
			core.NewTextMessage("planner", "write it up"),
		},
	}

	messages := buildMessages(req)
	require.Len(t, messages, 5)

	assert.Equal(t, anthropic.MessageParamRoleUser, messages[0].Role)
	assert.Equal(t, anthropic.MessageParamRoleAssistant, messages[1].Role) // tool_use
	assert.Equal(t, anthropic.MessageParamRoleUser, messages[2].Role)      // tool_result
	assert.Equal(t, anthropic.MessageParamRoleAssistant, messages[3].Role)
	assert.Equal(t, anthropic.MessageParamRoleUser, messages[4].Role)
}

func TestBuildTools(t *testing.T) {
	tools := buildTools([]model.ToolDefinition{
		{
			Name:        "stock_quote",
			Description: "quote lookup",
			Parameters: map[string]any{
				"type":       "object",
				"properties": map[string]any{"symbol": map[string]any{"type": "string"}},
				"required":   []string{"symbol"},
			},
		},
	})

	require.Len(t, tools, 1)
	require.NotNil(t, tools[0].OfTool)
	assert.Equal(t, "stock_quote", tools[0].OfTool.Name)
	assert.Equal(t, []string{"symbol"}, tools[0].OfTool.InputSchema.Required)
}

func TestRenderToolResult(t *testing.T) {
	ok := core.ToolResult{Name: "stock_quote", Result: map[string]any{"price": 250.0}}
	assert.Equal(t, `{"price":250}`, renderToolResult(ok))

	failed := core.ToolResult{Name: "stock_quote", ErrorKind: core.ToolErrorNotFound, ErrorDetail: "not registered"}
	assert.Equal(t, "tool stock_quote failed (tool_not_found): not registered", renderToolResult(failed))
}

func TestClassifyError(t *testing.T) {
	var te *model.TimeoutError
	assert.ErrorAs(t, classifyError(context.DeadlineExceeded), &te)

	assert.ErrorIs(t, classifyError(context.Canceled), context.Canceled)

	var ue *model.UnavailableError
	assert.ErrorAs(t, classifyError(errors.New("connection refused")), &ue)

	assert.ErrorAs(t, classifyError(&anthropic.Error{StatusCode: 529}), &ue)
	assert.False(t, model.IsTransient(classifyError(&anthropic.Error{StatusCode: 400})))
}

func TestInfo(t *testing.T) {
	m := NewModel()
	info := m.Info()
	assert.Equal(t, "anthropic", info.Provider)
	assert.True(t, info.SupportsTools)
}
