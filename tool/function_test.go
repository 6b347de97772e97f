package tool

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sumSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"a": map[string]any{"type": "number"},
			"b": map[string]any{"type": "number"},
		},
		"required": []string{"a", "b"},
	}
}

func TestFunctionToolCall(t *testing.T) {
	sum := NewFunctionTool("calculate_sum", "Calculate the sum of two numbers", sumSchema(),
		func(ctx context.Context, args map[string]any) (any, error) {
			return args["a"].(float64) + args["b"].(float64), nil
		},
	)

	assert.Equal(t, "calculate_sum", sum.Name())
	assert.Equal(t, "Calculate the sum of two numbers", sum.Description())
	assert.Equal(t, "object", sum.Parameters()["type"])

	result, err := sum.Call(context.Background(), map[string]any{"a": 1.0, "b": 2.0})
	require.NoError(t, err)
	assert.Equal(t, 3.0, result)
}

func TestFunctionToolValidationError(t *testing.T) {
	sum := NewFunctionTool("calculate_sum", "sum", sumSchema(),
		func(ctx context.Context, args map[string]any) (any, error) {
			t.Fatal("fn must not run on invalid args")
			return nil, nil
		},
	)

	_, err := sum.Call(context.Background(), map[string]any{"a": 1.0})

	var toolErr *ToolError
	require.ErrorAs(t, err, &toolErr)
	assert.Equal(t, "VALIDATION_ERROR", toolErr.Code)
	assert.Equal(t, "calculate_sum", toolErr.Tool)
}

func TestFunctionToolExecutionError(t *testing.T) {
	flaky := NewFunctionTool("flaky", "fails", map[string]any{"type": "object", "properties": map[string]any{}},
		func(ctx context.Context, args map[string]any) (any, error) {
			return nil, errors.New("upstream down")
		},
	)

	_, err := flaky.Call(context.Background(), map[string]any{})

	var toolErr *ToolError
	require.ErrorAs(t, err, &toolErr)
	assert.Equal(t, "EXECUTION_ERROR", toolErr.Code)
	assert.Equal(t, "upstream down", toolErr.Message)
}

func TestFunctionToolPreservesToolError(t *testing.T) {
	custom := NewToolError("quota", "monthly quota exceeded", "QUOTA_EXCEEDED")
	tl := NewFunctionTool("quota", "quota check", map[string]any{"type": "object", "properties": map[string]any{}},
		func(ctx context.Context, args map[string]any) (any, error) {
			return nil, custom
		},
	)

	_, err := tl.Call(context.Background(), map[string]any{})

	var toolErr *ToolError
	require.ErrorAs(t, err, &toolErr)
	assert.Equal(t, "QUOTA_EXCEEDED", toolErr.Code)
}

func TestNewFunctionToolFromStruct(t *testing.T) {
	type args struct {
		Symbol string `json:"symbol" description:"Ticker symbol"`
	}
	quote := NewFunctionToolFromStruct("stock_quote", "Look up a quote", args{},
		func(ctx context.Context, a map[string]any) (any, error) {
			return map[string]any{"symbol": a["symbol"]}, nil
		},
	)

	props := quote.Parameters()["properties"].(map[string]any)
	assert.Contains(t, props, "symbol")

	_, err := quote.Call(context.Background(), map[string]any{})
	assert.Error(t, err)

	result, err := quote.Call(context.Background(), map[string]any{"symbol": "TSLA"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"symbol": "TSLA"}, result)
}

func TestToolErrorMessage(t *testing.T) {
	withCode := NewToolError("quote", "boom", "EXECUTION_ERROR")
	assert.Equal(t, "tool error [EXECUTION_ERROR] in quote: boom", withCode.Error())

	noCode := &ToolError{Tool: "quote", Message: "boom"}
	assert.Equal(t, "tool error in quote: boom", noCode.Error())
}
