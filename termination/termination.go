// Package termination defines the predicates that end an orchestration run:
// a text mention in agent output, an exhausted turn budget, or an external
// stop signal raised by the caller. Conditions combine with Or semantics and
// report which member fired so the stop reason is observable.
package termination

import (
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/hupe1980/agentswarm/core"
)

// Condition is a predicate over conversation state. Implementations must be
// side effect free with respect to the state they inspect.
type Condition interface {
	// Satisfied reports whether the run should terminate.
	Satisfied(state *core.ConversationState) bool

	// String names the condition; after an Or fires it names the member
	// that fired, which the orchestrator records as the stop reason.
	String() string
}

// textMention terminates once any agent-authored text contains the pattern.
type textMention struct {
	pattern string
}

// TextMention creates a condition satisfied when a message authored by an
// agent contains pattern as an exact substring. The initial task message is
// never considered, so a task that quotes the stop token cannot end the run
// on turn one.
func TextMention(pattern string) Condition {
	return &textMention{pattern: pattern}
}

func (c *textMention) Satisfied(state *core.ConversationState) bool {
	for _, msg := range state.Messages() {
		if msg.Sender == core.TaskAuthor || msg.Sender == core.OrchestratorAuthor {
			continue
		}
		if text, ok := msg.Text(); ok && strings.Contains(text, c.pattern) {
			return true
		}
	}
	return false
}

func (c *textMention) String() string { return fmt.Sprintf("TextMention(%q)", c.pattern) }

// turnLimit terminates once the turn counter reaches max. This is the
// backstop against runaway loops: it guarantees progress even if no agent
// ever requests termination.
type turnLimit struct {
	max int
}

// TurnLimit creates a condition satisfied when turnCount >= max.
func TurnLimit(max int) Condition {
	return &turnLimit{max: max}
}

func (c *turnLimit) Satisfied(state *core.ConversationState) bool {
	return state.TurnCount() >= c.max
}

func (c *turnLimit) String() string { return fmt.Sprintf("TurnLimit(%d)", c.max) }

// External terminates when the caller raises an out-of-band stop signal.
// The orchestrator checks it at the top of every loop iteration, ahead of
// all other conditions, and additionally watches Done() so in-flight model
// and tool calls abort instead of running to completion.
type External struct {
	fired atomic.Bool
	once  sync.Once
	done  chan struct{}
}

// NewExternal creates an unsignalled external stop condition.
func NewExternal() *External {
	return &External{done: make(chan struct{})}
}

// Set raises the stop signal. Safe to call from any goroutine, idempotent.
func (c *External) Set() {
	c.fired.Store(true)
	c.once.Do(func() { close(c.done) })
}

// Done returns a channel closed when the signal has been raised.
func (c *External) Done() <-chan struct{} { return c.done }

// Satisfied implements Condition; the conversation state is irrelevant.
func (c *External) Satisfied(*core.ConversationState) bool { return c.fired.Load() }

func (c *External) String() string { return "External" }

// orCondition combines members with OR semantics, recording the first
// satisfied member for observability.
type orCondition struct {
	mu         sync.Mutex
	conditions []Condition
	fired      Condition
}

// Or combines conditions; the combined condition is satisfied as soon as any
// member is, and String() then names the member that fired.
func Or(conditions ...Condition) Condition {
	return &orCondition{conditions: conditions}
}

func (c *orCondition) Satisfied(state *core.ConversationState) bool {
	for _, cond := range c.conditions {
		if cond.Satisfied(state) {
			c.mu.Lock()
			if c.fired == nil {
				c.fired = cond
			}
			c.mu.Unlock()
			return true
		}
	}
	return false
}

func (c *orCondition) String() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fired != nil {
		return c.fired.String()
	}
	names := make([]string, len(c.conditions))
	for i, cond := range c.conditions {
		names[i] = cond.String()
	}
	return "Or(" + strings.Join(names, ", ") + ")"
}

// Externals walks a condition tree collecting External members so the
// orchestrator can wire their signals into context cancellation.
func Externals(cond Condition) []*External {
	switch c := cond.(type) {
	case nil:
		return nil
	case *External:
		return []*External{c}
	case *orCondition:
		var out []*External
		for _, member := range c.conditions {
			out = append(out, Externals(member)...)
		}
		return out
	default:
		return nil
	}
}
