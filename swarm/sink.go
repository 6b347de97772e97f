package swarm

import "github.com/hupe1980/agentswarm/core"

// Sink observes messages as they are appended to the transcript. Sinks are
// purely observational: they must never block for long or attempt to alter
// orchestration. A sink that needs to resume from an arbitrary point can
// replay via ConversationState.MessagesFrom using the Seq of the last
// message it saw.
type Sink interface {
	OnMessage(msg core.Message)
}

// SinkFunc adapts a plain function to the Sink interface.
type SinkFunc func(msg core.Message)

// OnMessage implements Sink.
func (f SinkFunc) OnMessage(msg core.Message) { f(msg) }
