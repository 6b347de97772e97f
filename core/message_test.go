package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewID(t *testing.T) {
	id := NewID()
	assert.NotEmpty(t, id)
	assert.Len(t, id, 36) // UUID length
	assert.NotEqual(t, id, NewID())
}

func TestNewTaskMessage(t *testing.T) {
	msg := NewTaskMessage("fetch TSLA price")

	assert.Equal(t, TaskAuthor, msg.Sender)
	assert.Equal(t, Broadcast, msg.Recipient)
	assert.NotEmpty(t, msg.ID)
	assert.False(t, msg.Timestamp.IsZero())

	text, ok := msg.Text()
	assert.True(t, ok)
	assert.Equal(t, "fetch TSLA price", text)
}

func TestNewToolCallMessage(t *testing.T) {
	calls := []ToolCall{
		{CallID: "c1", Name: "price_lookup", Arguments: map[string]any{"symbol": "TSLA"}},
		{CallID: "c2", Name: "news_digest", Arguments: map[string]any{"query": "Tesla"}},
	}
	msg := NewToolCallMessage("analyst", calls)

	assert.Equal(t, "analyst", msg.Sender)
	got := msg.GetToolCalls()
	assert.Len(t, got, 2)
	assert.Equal(t, "c1", got[0].CallID)
	assert.Equal(t, "c2", got[1].CallID)

	_, ok := msg.Text()
	assert.False(t, ok)
}

func TestNewToolResultMessage(t *testing.T) {
	res := ToolResult{CallID: "c1", Name: "price_lookup", Result: map[string]any{"price": 250.0}}
	msg := NewToolResultMessage("analyst", res)

	assert.Equal(t, "analyst", msg.Sender)
	assert.Equal(t, "analyst", msg.Recipient)

	got, ok := msg.GetToolResult()
	assert.True(t, ok)
	assert.Equal(t, "c1", got.CallID)
	assert.False(t, got.Failed())
}

func TestToolResultFailed(t *testing.T) {
	assert.False(t, ToolResult{}.Failed())
	assert.True(t, ToolResult{ErrorKind: ToolErrorTimeout}.Failed())
	assert.True(t, ToolResult{ErrorKind: ToolErrorNotAllowed}.Failed())
}

func TestNewHandoffMessage(t *testing.T) {
	msg := NewHandoffMessage("planner", "writer", "")

	assert.Equal(t, "planner", msg.Sender)
	assert.Equal(t, "writer", msg.Recipient)

	target, ok := msg.GetHandoff()
	assert.True(t, ok)
	assert.Equal(t, "writer", target)
}

func TestNewErrorMessage(t *testing.T) {
	msg := NewErrorMessage("planner", ErrorCodeInvalidHandoffTarget, "no such target")

	assert.Equal(t, OrchestratorAuthor, msg.Sender)
	assert.Equal(t, "planner", msg.Recipient)

	content, ok := msg.Content.(ErrorContent)
	assert.True(t, ok)
	assert.Equal(t, ErrorCodeInvalidHandoffTarget, content.Code)
}

func TestNewNoticeMessage(t *testing.T) {
	msg := NewNoticeMessage("extra handoff targets ignored")

	content, ok := msg.Content.(NoticeContent)
	assert.True(t, ok)
	assert.Equal(t, NoticeLevelWarn, content.Level)
}
