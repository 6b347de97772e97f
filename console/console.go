// Package console renders the conversation transcript to a terminal as it
// unfolds. It implements swarm.Sink and is purely observational: rendering
// failures are swallowed and never affect orchestration.
package console

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/fatih/color"

	"github.com/hupe1980/agentswarm/core"
)

// Options configure the console sink.
type Options struct {
	// Output receives the rendered transcript. Defaults to os.Stdout.
	Output io.Writer
	// ShowToolPayloads toggles printing full tool arguments and results.
	ShowToolPayloads bool
}

// Console is a terminal transcript sink.
type Console struct {
	mu               sync.Mutex
	out              io.Writer
	showToolPayloads bool
	start            time.Time
	count            int

	sender  *color.Color
	system  *color.Color
	toolDim *color.Color
	errCol  *color.Color
}

// New creates a console sink writing to os.Stdout unless overridden.
func New(optFns ...func(o *Options)) *Console {
	opts := Options{Output: os.Stdout, ShowToolPayloads: true}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Console{
		out:              opts.Output,
		showToolPayloads: opts.ShowToolPayloads,
		start:            time.Now(),
		sender:           color.New(color.FgCyan, color.Bold),
		system:           color.New(color.FgYellow),
		toolDim:          color.New(color.FgHiBlack),
		errCol:           color.New(color.FgRed),
	}
}

// OnMessage implements swarm.Sink.
func (c *Console) OnMessage(msg core.Message) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.count++

	switch content := msg.Content.(type) {
	case core.TextContent:
		c.header(msg.Sender)
		fmt.Fprintln(c.out, content.Text)
	case core.ToolCallContent:
		c.header(msg.Sender)
		for _, call := range content.Calls {
			if c.showToolPayloads {
				c.toolDim.Fprintf(c.out, "-> %s(%s) [%s]\n", call.Name, compactJSON(call.Arguments), call.CallID)
			} else {
				c.toolDim.Fprintf(c.out, "-> %s [%s]\n", call.Name, call.CallID)
			}
		}
	case core.ToolResultContent:
		res := content.Result
		if res.Failed() {
			c.errCol.Fprintf(c.out, "<- %s failed (%s): %s\n", res.Name, res.ErrorKind, res.ErrorDetail)
			return
		}
		if c.showToolPayloads {
			c.toolDim.Fprintf(c.out, "<- %s: %s\n", res.Name, compactJSON(res.Result))
		} else {
			c.toolDim.Fprintf(c.out, "<- %s: ok\n", res.Name)
		}
	case core.HandoffContent:
		c.system.Fprintf(c.out, "== %s handed off to %s ==\n", msg.Sender, content.Target)
	case core.ErrorContent:
		c.errCol.Fprintf(c.out, "!! %s: %s\n", content.Code, content.Detail)
	case core.NoticeContent:
		c.system.Fprintf(c.out, ".. %s\n", content.Text)
	}
}

// Summary prints a closing line once the run has finished.
func (c *Console) Summary(state *core.ConversationState) {
	c.mu.Lock()
	defer c.mu.Unlock()
	verdict := "finished"
	if state.Aborted() {
		verdict = "aborted"
	}
	c.system.Fprintf(c.out, "\n--- run %s after %d turns, %d messages in %s (%s) ---\n",
		verdict, state.TurnCount(), state.Len(), time.Since(c.start).Round(time.Millisecond), state.StopReason())
}

func (c *Console) header(sender string) {
	c.sender.Fprintf(c.out, "\n[%s]\n", sender)
}

func compactJSON(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}
