package swarm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/agentswarm/core"
	"github.com/hupe1980/agentswarm/logging"
	"github.com/hupe1980/agentswarm/model"
	"github.com/hupe1980/agentswarm/tool"
)

func newInvokerAgent(tools ...string) *Agent {
	return NewAgent("analyst", model.NewMockModel("m"), func(o *AgentOptions) {
		o.Tools = tools
	})
}

func openSchema() map[string]any {
	return map[string]any{"type": "object", "properties": map[string]any{}}
}

func TestInvokeSuccess(t *testing.T) {
	catalog := tool.NewCatalog(tool.NewFunctionTool("price_lookup", "lookup", openSchema(),
		func(ctx context.Context, args map[string]any) (any, error) {
			return map[string]any{"price": 250.0}, nil
		},
	))
	iv := newToolInvoker(catalog, time.Second, 0, logging.NoOpLogger{})

	results := iv.Invoke(context.Background(), newInvokerAgent("price_lookup"), []core.ToolCall{
		{CallID: "c1", Name: "price_lookup", Arguments: map[string]any{"symbol": "TSLA"}},
	})

	require.Len(t, results, 1)
	assert.False(t, results[0].Failed())
	assert.Equal(t, "c1", results[0].CallID)
	assert.Equal(t, 250.0, results[0].Result["price"])
}

func TestInvokeNotAllowed(t *testing.T) {
	catalog := tool.NewCatalog(tool.NewFunctionTool("price_lookup", "lookup", openSchema(),
		func(ctx context.Context, args map[string]any) (any, error) { return nil, nil },
	))
	iv := newToolInvoker(catalog, time.Second, 0, logging.NoOpLogger{})

	results := iv.Invoke(context.Background(), newInvokerAgent(), []core.ToolCall{
		{CallID: "c1", Name: "price_lookup"},
	})

	require.Len(t, results, 1)
	assert.Equal(t, core.ToolErrorNotAllowed, results[0].ErrorKind)
	assert.Contains(t, results[0].ErrorDetail, "not allowed")
}

func TestInvokeNotFound(t *testing.T) {
	iv := newToolInvoker(tool.NewCatalog(), time.Second, 0, logging.NoOpLogger{})

	results := iv.Invoke(context.Background(), newInvokerAgent("ghost"), []core.ToolCall{
		{CallID: "c1", Name: "ghost"},
	})

	require.Len(t, results, 1)
	assert.Equal(t, core.ToolErrorNotFound, results[0].ErrorKind)
}

func TestInvokeExecutionError(t *testing.T) {
	catalog := tool.NewCatalog(tool.NewFunctionTool("flaky", "fails", openSchema(),
		func(ctx context.Context, args map[string]any) (any, error) {
			return nil, errors.New("upstream unavailable")
		},
	))
	iv := newToolInvoker(catalog, time.Second, 0, logging.NoOpLogger{})

	results := iv.Invoke(context.Background(), newInvokerAgent("flaky"), []core.ToolCall{
		{CallID: "c1", Name: "flaky"},
	})

	require.Len(t, results, 1)
	assert.Equal(t, core.ToolErrorExecution, results[0].ErrorKind)
	assert.Contains(t, results[0].ErrorDetail, "upstream unavailable")
}

func TestInvokeTimeout(t *testing.T) {
	// The body ignores its context on purpose; the invoker must still
	// produce a timeout result at the deadline.
	catalog := tool.NewCatalog(tool.NewFunctionTool("slow", "sleeps", openSchema(),
		func(ctx context.Context, args map[string]any) (any, error) {
			time.Sleep(300 * time.Millisecond)
			return map[string]any{"done": true}, nil
		},
	))
	iv := newToolInvoker(catalog, 30*time.Millisecond, 0, logging.NoOpLogger{})

	start := time.Now()
	results := iv.Invoke(context.Background(), newInvokerAgent("slow"), []core.ToolCall{
		{CallID: "c1", Name: "slow"},
	})

	require.Len(t, results, 1)
	assert.Equal(t, core.ToolErrorTimeout, results[0].ErrorKind)
	assert.Less(t, time.Since(start), 250*time.Millisecond)
}

func TestInvokePanicRecovered(t *testing.T) {
	catalog := tool.NewCatalog(tool.NewFunctionTool("boom", "panics", openSchema(),
		func(ctx context.Context, args map[string]any) (any, error) {
			panic("kaboom")
		},
	))
	iv := newToolInvoker(catalog, time.Second, 0, logging.NoOpLogger{})

	results := iv.Invoke(context.Background(), newInvokerAgent("boom"), []core.ToolCall{
		{CallID: "c1", Name: "boom"},
	})

	require.Len(t, results, 1)
	assert.Equal(t, core.ToolErrorExecution, results[0].ErrorKind)
	assert.Contains(t, results[0].ErrorDetail, "panicked")
}

func TestInvokePreservesIssuanceOrder(t *testing.T) {
	// Completion order is reversed on purpose; results must still come back
	// in issuance order.
	delays := map[string]time.Duration{"a": 60 * time.Millisecond, "b": 30 * time.Millisecond, "c": 0}
	echo := func(name string) tool.Tool {
		return tool.NewFunctionTool(name, "echo", openSchema(),
			func(ctx context.Context, args map[string]any) (any, error) {
				time.Sleep(delays[name])
				return map[string]any{"tool": name}, nil
			},
		)
	}
	catalog := tool.NewCatalog(echo("a"), echo("b"), echo("c"))
	iv := newToolInvoker(catalog, time.Second, 0, logging.NoOpLogger{})

	results := iv.Invoke(context.Background(), newInvokerAgent("a", "b", "c"), []core.ToolCall{
		{CallID: "c1", Name: "a"},
		{CallID: "c2", Name: "b"},
		{CallID: "c3", Name: "c"},
	})

	require.Len(t, results, 3)
	assert.Equal(t, []string{"c1", "c2", "c3"}, []string{results[0].CallID, results[1].CallID, results[2].CallID})
	assert.Equal(t, "a", results[0].Result["tool"])
	assert.Equal(t, "b", results[1].Result["tool"])
	assert.Equal(t, "c", results[2].Result["tool"])
}

func TestInvokeWrapsScalarResult(t *testing.T) {
	catalog := tool.NewCatalog(tool.NewFunctionTool("answer", "scalar", openSchema(),
		func(ctx context.Context, args map[string]any) (any, error) {
			return 42, nil
		},
	))
	iv := newToolInvoker(catalog, time.Second, 0, logging.NoOpLogger{})

	results := iv.Invoke(context.Background(), newInvokerAgent("answer"), []core.ToolCall{
		{CallID: "c1", Name: "answer"},
	})

	require.Len(t, results, 1)
	assert.Equal(t, 42, results[0].Result["result"])
}

func TestInvokeEmptyBatch(t *testing.T) {
	iv := newToolInvoker(tool.NewCatalog(), time.Second, 0, logging.NoOpLogger{})
	assert.Nil(t, iv.Invoke(context.Background(), newInvokerAgent(), nil))
}
