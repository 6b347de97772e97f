// Package testutil provides small builders shared by tests: fluent
// construction of model replies and scripted conversations without
// repeating struct literals everywhere.
package testutil

import (
	"github.com/hupe1980/agentswarm/core"
	"github.com/hupe1980/agentswarm/model"
)

// ReplyBuilder assembles a model.Reply step by step.
type ReplyBuilder struct {
	reply model.Reply
}

// NewReply starts an empty reply.
func NewReply() *ReplyBuilder { return &ReplyBuilder{} }

// Text sets the free text portion.
func (b *ReplyBuilder) Text(text string) *ReplyBuilder {
	b.reply.Text = text
	return b
}

// ToolCall appends a tool call with the given id, name and arguments.
func (b *ReplyBuilder) ToolCall(callID, name string, args map[string]any) *ReplyBuilder {
	b.reply.ToolCalls = append(b.reply.ToolCalls, core.ToolCall{
		CallID:    callID,
		Name:      name,
		Arguments: args,
	})
	return b
}

// Handoff appends a handoff target.
func (b *ReplyBuilder) Handoff(target string) *ReplyBuilder {
	b.reply.Handoffs = append(b.reply.Handoffs, target)
	return b
}

// Build returns the assembled reply by value.
func (b *ReplyBuilder) Build() model.Reply { return b.reply }
