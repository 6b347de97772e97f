// Package core defines the data model shared by every part of AgentSwarm:
// the immutable Message with its closed content union (text, tool calls,
// tool results, handoff directives, errors and notices) and the append-only
// ConversationState that is the single source of truth for what every agent
// has seen.
package core
