package console

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"

	"github.com/hupe1980/agentswarm/core"
)

func newTestConsole(t *testing.T) (*Console, *bytes.Buffer) {
	t.Helper()
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })

	var buf bytes.Buffer
	return New(func(o *Options) { o.Output = &buf }), &buf
}

func TestConsoleRendersText(t *testing.T) {
	c, buf := newTestConsole(t)

	c.OnMessage(core.NewTextMessage("planner", "delegating to the analyst"))

	out := buf.String()
	assert.Contains(t, out, "[planner]")
	assert.Contains(t, out, "delegating to the analyst")
}

func TestConsoleRendersToolTraffic(t *testing.T) {
	c, buf := newTestConsole(t)

	c.OnMessage(core.NewToolCallMessage("analyst", []core.ToolCall{
		{CallID: "c1", Name: "stock_quote", Arguments: map[string]any{"symbol": "TSLA"}},
	}))
	c.OnMessage(core.NewToolResultMessage("analyst", core.ToolResult{
		CallID: "c1", Name: "stock_quote", Result: map[string]any{"price": 250.0},
	}))

	out := buf.String()
	assert.Contains(t, out, `-> stock_quote({"symbol":"TSLA"}) [c1]`)
	assert.Contains(t, out, `<- stock_quote: {"price":250}`)
}

func TestConsoleRendersFailedToolResult(t *testing.T) {
	c, buf := newTestConsole(t)

	c.OnMessage(core.NewToolResultMessage("analyst", core.ToolResult{
		CallID: "c1", Name: "stock_quote",
		ErrorKind:   core.ToolErrorTimeout,
		ErrorDetail: "exceeded the 30s timeout",
	}))

	out := buf.String()
	assert.Contains(t, out, "stock_quote failed")
	assert.Contains(t, out, "exceeded the 30s timeout")
}

func TestConsoleRendersHandoffErrorAndNotice(t *testing.T) {
	c, buf := newTestConsole(t)

	c.OnMessage(core.NewHandoffMessage("planner", "writer", ""))
	c.OnMessage(core.NewErrorMessage("planner", core.ErrorCodeInvalidHandoffTarget, "no such target"))
	c.OnMessage(core.NewNoticeMessage("extra targets ignored"))

	out := buf.String()
	assert.Contains(t, out, "== planner handed off to writer ==")
	assert.Contains(t, out, "!! invalid_handoff_target: no such target")
	assert.Contains(t, out, ".. extra targets ignored")
}

func TestConsoleHidesPayloadsWhenDisabled(t *testing.T) {
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })

	var buf bytes.Buffer
	c := New(func(o *Options) {
		o.Output = &buf
		o.ShowToolPayloads = false
	})

	c.OnMessage(core.NewToolCallMessage("analyst", []core.ToolCall{
		{CallID: "c1", Name: "stock_quote", Arguments: map[string]any{"symbol": "TSLA"}},
	}))

	out := buf.String()
	assert.Contains(t, out, "-> stock_quote [c1]")
	assert.NotContains(t, out, "TSLA")
}

func TestConsoleSummary(t *testing.T) {
	c, buf := newTestConsole(t)

	state := core.NewConversationState("planner")
	state.AdvanceTurn()
	state.MarkTerminated(`TextMention("TERMINATE")`)

	c.Summary(state)

	out := buf.String()
	assert.Contains(t, out, "run finished after 1 turns")
	assert.Contains(t, out, `TextMention("TERMINATE")`)
}
