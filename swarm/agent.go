package swarm

import (
	"fmt"

	"github.com/hupe1980/agentswarm/model"
)

// AgentOptions configures an Agent instance.
//
// Use functional options with NewAgent to override defaults.
type AgentOptions struct {
	SystemPrompt   string
	Tools          []string
	HandoffTargets []string
}

// Agent is a named participant bound to a model client, a fixed set of tool
// names it may invoke and a fixed set of peers it may hand off to. Agents
// are created once at swarm construction and are immutable for the
// conversation's lifetime.
type Agent struct {
	name           string
	systemPrompt   string
	llm            model.Model
	tools          []string
	handoffTargets []string

	toolSet map[string]struct{}
}

// NewAgent creates an agent with sensible defaults: no tools, no handoff
// targets and a minimal system prompt derived from the name.
func NewAgent(name string, llm model.Model, optFns ...func(o *AgentOptions)) *Agent {
	opts := AgentOptions{
		SystemPrompt: fmt.Sprintf("You are %s, a helpful AI assistant.", name),
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	toolSet := make(map[string]struct{}, len(opts.Tools))
	for _, t := range opts.Tools {
		toolSet[t] = struct{}{}
	}

	return &Agent{
		name:           name,
		systemPrompt:   opts.SystemPrompt,
		llm:            llm,
		tools:          opts.Tools,
		handoffTargets: opts.HandoffTargets,
		toolSet:        toolSet,
	}
}

// Name returns the unique agent identifier.
func (a *Agent) Name() string { return a.name }

// SystemPrompt returns the agent's instruction text.
func (a *Agent) SystemPrompt() string { return a.systemPrompt }

// Model returns the bound model client.
func (a *Agent) Model() model.Model { return a.llm }

// Tools returns the names of the tools the agent may invoke.
func (a *Agent) Tools() []string { return a.tools }

// HandoffTargets returns the names of the agents this agent may hand off to.
func (a *Agent) HandoffTargets() []string { return a.handoffTargets }

// AllowsTool reports whether the agent may invoke the named tool.
func (a *Agent) AllowsTool(name string) bool {
	_, ok := a.toolSet[name]
	return ok
}

// AllowsHandoff reports whether the agent may transfer control to target.
func (a *Agent) AllowsHandoff(target string) bool {
	for _, t := range a.handoffTargets {
		if t == target {
			return true
		}
	}
	return false
}
