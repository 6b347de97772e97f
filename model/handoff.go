package model

import "strings"

// HandoffToolPrefix prefixes the synthetic tool names through which handoff
// targets are exposed to providers. An agent allowed to hand off to "writer"
// sees a callable "transfer_to_writer" tool; adapters translate such calls
// into Reply.Handoffs and never surface them as catalog tool calls.
const HandoffToolPrefix = "transfer_to_"

// HandoffToolDefinitions builds one synthetic transfer tool per allowed target.
func HandoffToolDefinitions(targets []string) []ToolDefinition {
	defs := make([]ToolDefinition, 0, len(targets))
	for _, target := range targets {
		defs = append(defs, ToolDefinition{
			Name:        HandoffToolPrefix + target,
			Description: "Transfer the conversation to the " + target + " agent. Use when that agent is better suited to continue.",
			Parameters: map[string]any{
				"type":       "object",
				"properties": map[string]any{},
			},
		})
	}
	return defs
}

// HandoffTarget reports whether toolName is a synthetic transfer tool and,
// if so, which agent it targets.
func HandoffTarget(toolName string) (string, bool) {
	if !strings.HasPrefix(toolName, HandoffToolPrefix) {
		return "", false
	}
	target := strings.TrimPrefix(toolName, HandoffToolPrefix)
	if target == "" {
		return "", false
	}
	return target, true
}
