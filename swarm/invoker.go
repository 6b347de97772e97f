package swarm

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/hupe1980/agentswarm/core"
	"github.com/hupe1980/agentswarm/logging"
	"github.com/hupe1980/agentswarm/tool"
)

// ToolInvoker executes the batch of tool calls issued in one agent reply.
// Guarantees:
//   - Exactly one ToolResult per ToolCall, even on failure, panic or timeout
//   - Results are returned in call issuance order, not completion order, so
//     transcript replay is deterministic regardless of I/O timing
//   - A per-call timeout bounds every execution; a tool body that ignores
//     its context can delay its own result but never block the orchestrator
//     past the deadline
//
// Calls within a batch are independent by construction (the agent cannot
// have seen any of their results yet) and may run concurrently, bounded by
// maxParallel.
type ToolInvoker struct {
	catalog     *tool.Catalog
	timeout     time.Duration
	maxParallel int
	logger      logging.Logger
}

func newToolInvoker(catalog *tool.Catalog, timeout time.Duration, maxParallel int, logger logging.Logger) *ToolInvoker {
	return &ToolInvoker{
		catalog:     catalog,
		timeout:     timeout,
		maxParallel: maxParallel,
		logger:      logger,
	}
}

// Invoke executes calls on behalf of issuer and returns one result per call,
// in issuance order.
func (iv *ToolInvoker) Invoke(ctx context.Context, issuer *Agent, calls []core.ToolCall) []core.ToolResult {
	n := len(calls)
	if n == 0 {
		return nil
	}

	// Fast path: single call, execute inline.
	if n == 1 {
		return []core.ToolResult{iv.invokeSingle(ctx, issuer, calls[0])}
	}

	maxPar := iv.maxParallel
	if maxPar <= 0 || maxPar > n {
		maxPar = n
	}

	results := make([]core.ToolResult, n)
	var wg sync.WaitGroup
	sem := make(chan struct{}, maxPar)

	batchStart := time.Now()
	for i := range calls {
		wg.Add(1)
		sem <- struct{}{}
		go func(idx int, call core.ToolCall) {
			defer wg.Done()
			defer func() { <-sem }()
			results[idx] = iv.invokeSingle(ctx, issuer, call)
		}(i, calls[i])
	}
	wg.Wait()

	iv.logger.Debug("tool batch complete",
		"agent", issuer.Name(),
		"count", n,
		"parallelism", maxPar,
		"duration_ms", time.Since(batchStart).Milliseconds(),
	)

	return results
}

// invokeSingle resolves one call into exactly one result.
func (iv *ToolInvoker) invokeSingle(ctx context.Context, issuer *Agent, call core.ToolCall) core.ToolResult {
	result := core.ToolResult{CallID: call.CallID, Name: call.Name}

	if !issuer.AllowsTool(call.Name) {
		result.ErrorKind = core.ToolErrorNotAllowed
		result.ErrorDetail = fmt.Sprintf("agent %q is not allowed to invoke tool %q", issuer.Name(), call.Name)
		logging.LogToolCall(iv.logger, issuer.Name(), call.Name, call.CallID, 0, string(result.ErrorKind))
		return result
	}

	impl, ok := iv.catalog.Lookup(call.Name)
	if !ok {
		result.ErrorKind = core.ToolErrorNotFound
		result.ErrorDetail = fmt.Sprintf("tool %q is not registered", call.Name)
		logging.LogToolCall(iv.logger, issuer.Name(), call.Name, call.CallID, 0, string(result.ErrorKind))
		return result
	}

	callCtx, cancel := context.WithTimeout(ctx, iv.timeout)
	defer cancel()

	start := time.Now()
	value, err := iv.runGuarded(callCtx, impl, call)
	dur := time.Since(start)

	switch {
	case err == nil:
		result.Result = toResultMap(value)
	case callCtx.Err() == context.DeadlineExceeded:
		result.ErrorKind = core.ToolErrorTimeout
		result.ErrorDetail = fmt.Sprintf("tool %q exceeded the %s timeout", call.Name, iv.timeout)
	default:
		result.ErrorKind = core.ToolErrorExecution
		result.ErrorDetail = err.Error()
	}

	logging.LogToolCall(iv.logger, issuer.Name(), call.Name, call.CallID, dur, string(result.ErrorKind))

	return result
}

// runGuarded executes the tool body on its own goroutine so a body that
// ignores its context cannot hold the invoker past the deadline, and
// recovers panics into plain errors.
func (iv *ToolInvoker) runGuarded(ctx context.Context, impl tool.Tool, call core.ToolCall) (any, error) {
	type outcome struct {
		value any
		err   error
	}
	ch := make(chan outcome, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				iv.logger.Error("tool panic", "tool", call.Name, "recover", r, "stack", string(debug.Stack()))
				ch <- outcome{err: fmt.Errorf("tool %q panicked: %v", call.Name, r)}
			}
		}()
		args := call.Arguments
		if args == nil {
			args = map[string]any{}
		}
		value, err := impl.Call(ctx, args)
		ch <- outcome{value: value, err: err}
	}()

	select {
	case out := <-ch:
		return out.value, out.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// toResultMap normalizes a tool return value into the mapping shape carried
// by ToolResult.
func toResultMap(value any) map[string]any {
	switch v := value.(type) {
	case nil:
		return map[string]any{}
	case map[string]any:
		return v
	default:
		return map[string]any{"result": v}
	}
}
