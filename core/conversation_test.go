package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConversationAppendAssignsSequence(t *testing.T) {
	state := NewConversationState("planner")

	first := state.Append(NewTaskMessage("task"))
	second := state.Append(NewTextMessage("planner", "plan"))

	assert.Equal(t, 0, first.Seq)
	assert.Equal(t, 1, second.Seq)
	assert.Equal(t, 2, state.Len())
}

func TestConversationMessagesIsDefensiveCopy(t *testing.T) {
	state := NewConversationState("planner")
	state.Append(NewTaskMessage("task"))

	msgs := state.Messages()
	msgs[0].Sender = "tampered"

	fresh := state.Messages()
	assert.Equal(t, TaskAuthor, fresh[0].Sender)
}

func TestConversationMessagesFrom(t *testing.T) {
	state := NewConversationState("planner")
	state.Append(NewTaskMessage("task"))
	state.Append(NewTextMessage("planner", "one"))
	state.Append(NewTextMessage("planner", "two"))

	tail := state.MessagesFrom(1)
	require.Len(t, tail, 2)
	assert.Equal(t, 1, tail[0].Seq)
	assert.Equal(t, 2, tail[1].Seq)

	assert.Nil(t, state.MessagesFrom(3))
	assert.Len(t, state.MessagesFrom(-5), 3)
}

func TestConversationActiveAgent(t *testing.T) {
	state := NewConversationState("planner")
	assert.Equal(t, "planner", state.ActiveAgent())

	state.SetActiveAgent("writer")
	assert.Equal(t, "writer", state.ActiveAgent())
}

func TestConversationTurnCount(t *testing.T) {
	state := NewConversationState("planner")
	assert.Equal(t, 0, state.TurnCount())
	assert.Equal(t, 1, state.AdvanceTurn())
	assert.Equal(t, 2, state.AdvanceTurn())
	assert.Equal(t, 2, state.TurnCount())
}

func TestConversationMarkTerminated(t *testing.T) {
	state := NewConversationState("planner")

	state.MarkTerminated("TurnLimit(5)")
	assert.True(t, state.Terminated())
	assert.False(t, state.Aborted())
	assert.Equal(t, "TurnLimit(5)", state.StopReason())

	// First recorded reason wins.
	state.MarkTerminated("other")
	assert.Equal(t, "TurnLimit(5)", state.StopReason())
}

func TestConversationMarkAborted(t *testing.T) {
	state := NewConversationState("planner")

	state.MarkAborted("retry budget exhausted")
	assert.True(t, state.Terminated())
	assert.True(t, state.Aborted())
	assert.Equal(t, "retry budget exhausted", state.StopReason())
}

func TestConversationLast(t *testing.T) {
	state := NewConversationState("planner")

	_, ok := state.Last()
	assert.False(t, ok)

	state.Append(NewTaskMessage("task"))
	state.Append(NewTextMessage("planner", "plan"))

	last, ok := state.Last()
	require.True(t, ok)
	text, _ := last.Text()
	assert.Equal(t, "plan", text)
}
