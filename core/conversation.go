package core

import (
	"sync"
	"time"
)

// ConversationState tracks one orchestration run: the append-only transcript,
// the single active agent, the turn counter and the terminal flags. It is
// mutated only by the orchestrator loop; reads take a shared lock and hand
// out defensive copies so observers can never perturb the run.
//
// Contract:
//   - The transcript is never rewound or edited in place; Append assigns the
//     next sequence number and fixes the message.
//   - Exactly one active agent at any instant.
//   - Once Terminated or Aborted is set, no further messages are appended.
type ConversationState struct {
	mu          sync.RWMutex
	transcript  []Message
	activeAgent string
	turnCount   int
	terminated  bool
	aborted     bool
	stopReason  string
	created     time.Time
	updated     time.Time
}

// NewConversationState creates an empty state with the given active agent.
func NewConversationState(initialAgent string) *ConversationState {
	now := time.Now().UTC()
	return &ConversationState{activeAgent: initialAgent, created: now, updated: now}
}

// Append assigns the next sequence number to msg, appends it and returns the
// stored message.
func (s *ConversationState) Append(msg Message) Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	msg.Seq = len(s.transcript)
	s.transcript = append(s.transcript, msg)
	s.updated = time.Now().UTC()
	return msg
}

// Messages returns a defensive copy of the full transcript.
func (s *ConversationState) Messages() []Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Message, len(s.transcript))
	copy(out, s.transcript)
	return out
}

// MessagesFrom returns a copy of the transcript starting at sequence seq.
// Sinks use it to resume observation from any point.
func (s *ConversationState) MessagesFrom(seq int) []Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if seq < 0 {
		seq = 0
	}
	if seq >= len(s.transcript) {
		return nil
	}
	out := make([]Message, len(s.transcript)-seq)
	copy(out, s.transcript[seq:])
	return out
}

// Len returns the number of appended messages.
func (s *ConversationState) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.transcript)
}

// Last returns the most recently appended message, if any.
func (s *ConversationState) Last() (Message, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.transcript) == 0 {
		return Message{}, false
	}
	return s.transcript[len(s.transcript)-1], true
}

// ActiveAgent returns the name of the agent currently holding the floor.
func (s *ConversationState) ActiveAgent() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activeAgent
}

// SetActiveAgent transfers the floor to the named agent.
func (s *ConversationState) SetActiveAgent(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activeAgent = name
	s.updated = time.Now().UTC()
}

// TurnCount returns the number of completed turns.
func (s *ConversationState) TurnCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.turnCount
}

// AdvanceTurn increments the turn counter and returns the new count.
func (s *ConversationState) AdvanceTurn() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.turnCount++
	return s.turnCount
}

// Terminated reports whether the run has reached a terminal state.
func (s *ConversationState) Terminated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.terminated
}

// Aborted reports whether the run ended with a fatal orchestration failure.
func (s *ConversationState) Aborted() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.aborted
}

// StopReason names the termination condition that fired, or the abort cause.
func (s *ConversationState) StopReason() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stopReason
}

// MarkTerminated flags the run as cleanly finished, recording which
// condition fired. The first recorded reason wins.
func (s *ConversationState) MarkTerminated(reason string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.terminated {
		return
	}
	s.terminated = true
	s.stopReason = reason
	s.updated = time.Now().UTC()
}

// MarkAborted flags the run as fatally failed. An aborted state is also
// terminal so callers can rely on a single check.
func (s *ConversationState) MarkAborted(reason string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.terminated {
		return
	}
	s.terminated = true
	s.aborted = true
	s.stopReason = reason
	s.updated = time.Now().UTC()
}

// Created returns the state creation time.
func (s *ConversationState) Created() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.created
}

// Updated returns the time of the last mutation.
func (s *ConversationState) Updated() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.updated
}
