// Package model defines the language model client abstraction consumed by
// the swarm orchestrator. A Model turns the canonical transcript plus agent
// configuration into a Reply that may carry free text, tool call requests
// and handoff directives. Provider adapters live in the openai and anthropic
// subpackages; MockModel provides deterministic scripted replies for tests
// and examples.
package model

import (
	"context"
	"fmt"
	"sync"

	"github.com/hupe1980/agentswarm/core"
)

// ToolDefinition declaratively exposes a callable function to the model.
// Parameters is a JSON Schema object (draft agnostic, minimal subset expected).
type ToolDefinition struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

// Request captures the normalized model input produced by the orchestrator
// for one agent turn. Messages is the canonical transcript; per-agent
// visibility filtering is a collaborator concern.
type Request struct {
	AgentName      string           `json:"agent_name"`
	SystemPrompt   string           `json:"system_prompt"`
	Messages       []core.Message   `json:"messages"`
	Tools          []ToolDefinition `json:"tools,omitempty"`
	HandoffTargets []string         `json:"handoff_targets,omitempty"`
}

// Reply is the classified outcome of one model completion. The orchestrator
// switches exhaustively on its populated fields: plain text, one or more
// tool calls, a handoff directive, or any combination.
type Reply struct {
	Text      string          `json:"text,omitempty"`
	ToolCalls []core.ToolCall `json:"tool_calls,omitempty"`
	Handoffs  []string        `json:"handoffs,omitempty"`
}

// Info contains metadata about a model implementation.
type Info struct {
	Name          string `json:"name"`
	Provider      string `json:"provider"` // "openai", "anthropic", "mock", etc.
	SupportsTools bool   `json:"supports_tools"`
}

// Model is the minimal interface required to drive an agent turn.
type Model interface {
	// Complete produces one reply for the given request. Implementations
	// must respect ctx cancellation so an external stop aborts in-flight
	// calls. Transient failures are reported as *UnavailableError or
	// *TimeoutError so the orchestrator can retry.
	Complete(ctx context.Context, req Request) (*Reply, error)

	// Info returns information about the model implementation.
	Info() Info
}

// mockStep is one scripted MockModel outcome: a reply or an error.
type mockStep struct {
	reply *Reply
	err   error
}

// MockModel is a lightweight in-memory Model useful for tests & examples.
// Scripted replies are returned in order; once the script is exhausted the
// model keeps answering with a configurable default text, which makes turn
// limit behavior easy to exercise.
type MockModel struct {
	mu          sync.Mutex
	info        Info
	steps       []mockStep
	defaultText string
	calls       int
}

// NewMockModel constructs a MockModel with basic tool support enabled.
func NewMockModel(name string) *MockModel {
	return &MockModel{
		info:        Info{Name: name, Provider: "mock", SupportsTools: true},
		defaultText: "OK",
	}
}

// Enqueue appends a scripted reply.
func (m *MockModel) Enqueue(reply Reply) *MockModel {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.steps = append(m.steps, mockStep{reply: &reply})
	return m
}

// EnqueueError appends a scripted failure.
func (m *MockModel) EnqueueError(err error) *MockModel {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.steps = append(m.steps, mockStep{err: err})
	return m
}

// SetDefaultText changes the reply text used once the script is exhausted.
func (m *MockModel) SetDefaultText(text string) { m.mu.Lock(); m.defaultText = text; m.mu.Unlock() }

// Calls returns how many completions have been requested.
func (m *MockModel) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Complete implements Model.
func (m *MockModel) Complete(ctx context.Context, req Request) (*Reply, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if len(m.steps) == 0 {
		return &Reply{Text: m.defaultText}, nil
	}
	step := m.steps[0]
	m.steps = m.steps[1:]
	if step.err != nil {
		return nil, step.err
	}
	reply := *step.reply
	return &reply, nil
}

// Info implements Model.
func (m *MockModel) Info() Info { return m.info }

var _ Model = (*MockModel)(nil)

// String renders a compact reply description used in logs.
func (r *Reply) String() string {
	return fmt.Sprintf("reply{text=%d chars, tool_calls=%d, handoffs=%d}", len(r.Text), len(r.ToolCalls), len(r.Handoffs))
}
