package core

import (
	"time"

	"github.com/google/uuid"
)

// Broadcast is the recipient of messages addressed to every participant.
const Broadcast = "*"

// TaskAuthor is the sender recorded on the initial task message. Text
// authored by it never satisfies a text-mention termination condition.
const TaskAuthor = "user"

// OrchestratorAuthor is the sender recorded on engine-authored error and
// notice messages (invalid handoff targets, ignored extra targets).
const OrchestratorAuthor = "orchestrator"

// Content is the closed union of message payload kinds. Concrete types
// implement the unexported isContent marker so the orchestrator can switch
// exhaustively over reply kinds instead of inspecting loosely typed maps.
type Content interface{ isContent() }

// TextContent is a plain text segment authored by an agent or the task submitter.
type TextContent struct {
	Text string `json:"text"`
}

func (TextContent) isContent() {}

// ToolCallContent carries one or more tool invocation requests issued in a
// single agent reply. The calls are independent by construction: the agent
// cannot have seen any of their results yet.
type ToolCallContent struct {
	Calls []ToolCall `json:"calls"`
}

func (ToolCallContent) isContent() {}

// ToolResultContent carries the outcome of exactly one preceding ToolCall,
// matched by CallID.
type ToolResultContent struct {
	Result ToolResult `json:"result"`
}

func (ToolResultContent) isContent() {}

// HandoffContent records an accepted transfer of conversational control to
// the named target agent.
type HandoffContent struct {
	Target string `json:"target"`
	Note   string `json:"note,omitempty"`
}

func (HandoffContent) isContent() {}

// ErrorContent records a recoverable failure surfaced into the transcript,
// e.g. a handoff to a target outside the issuing agent's allowed set.
type ErrorContent struct {
	Code   string `json:"code"`
	Detail string `json:"detail"`
}

func (ErrorContent) isContent() {}

// NoticeContent is a warning-level note appended by the orchestrator, e.g.
// when extra handoff targets in a reply are ignored.
type NoticeContent struct {
	Level string `json:"level"`
	Text  string `json:"text"`
}

func (NoticeContent) isContent() {}

// Error codes used in ErrorContent.
const (
	ErrorCodeInvalidHandoffTarget = "invalid_handoff_target"
)

// NoticeLevelWarn marks advisory notices that do not affect control flow.
const NoticeLevelWarn = "warn"

// ToolCall is a structured request to invoke an external capability by name.
type ToolCall struct {
	CallID    string         `json:"call_id"`
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments,omitempty"`
}

// ToolErrorKind classifies tool invocation failures. The empty kind means
// the call succeeded.
type ToolErrorKind string

const (
	// ToolErrorNone marks a successful tool result.
	ToolErrorNone ToolErrorKind = ""
	// ToolErrorNotAllowed is produced when the issuing agent may not use the tool.
	ToolErrorNotAllowed ToolErrorKind = "tool_not_allowed"
	// ToolErrorNotFound is produced when the tool name is not in the catalog.
	ToolErrorNotFound ToolErrorKind = "tool_not_found"
	// ToolErrorExecution wraps any error raised by the tool body.
	ToolErrorExecution ToolErrorKind = "tool_execution_error"
	// ToolErrorTimeout is produced when the per-call timeout elapses.
	ToolErrorTimeout ToolErrorKind = "tool_timeout"
)

// ToolResult is the outcome of a single ToolCall. Exactly one result is
// produced per call, even on failure; the conversation never stalls waiting
// for a result that will never arrive.
type ToolResult struct {
	CallID      string         `json:"call_id"`
	Name        string         `json:"name"`
	Result      map[string]any `json:"result,omitempty"`
	ErrorKind   ToolErrorKind  `json:"error_kind,omitempty"`
	ErrorDetail string         `json:"error_detail,omitempty"`
}

// Failed reports whether the result carries an error instead of a payload.
func (r ToolResult) Failed() bool { return r.ErrorKind != ToolErrorNone }

// Message is the immutable unit of conversation content. Once appended to a
// ConversationState its Seq is fixed and the append sequence is the canonical
// order every agent observes.
type Message struct {
	ID        string    `json:"id"`
	Seq       int       `json:"seq"`
	Sender    string    `json:"sender"`
	Recipient string    `json:"recipient"`
	Content   Content   `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// NewID generates a unique identifier for messages and tool calls.
func NewID() string { return uuid.NewString() }

func newMessage(sender, recipient string, content Content) Message {
	return Message{
		ID:        NewID(),
		Sender:    sender,
		Recipient: recipient,
		Content:   content,
		Timestamp: time.Now().UTC(),
	}
}

// NewTaskMessage creates the initial broadcast message carrying the task.
func NewTaskMessage(task string) Message {
	return newMessage(TaskAuthor, Broadcast, TextContent{Text: task})
}

// NewTextMessage creates an agent-authored broadcast text message.
func NewTextMessage(sender, text string) Message {
	return newMessage(sender, Broadcast, TextContent{Text: text})
}

// NewToolCallMessage records the tool calls issued in one agent reply.
func NewToolCallMessage(sender string, calls []ToolCall) Message {
	return newMessage(sender, Broadcast, ToolCallContent{Calls: calls})
}

// NewToolResultMessage records one tool outcome, addressed to the issuing agent.
func NewToolResultMessage(issuer string, result ToolResult) Message {
	return newMessage(issuer, issuer, ToolResultContent{Result: result})
}

// NewHandoffMessage records an accepted control transfer from sender to target.
func NewHandoffMessage(sender, target, note string) Message {
	return newMessage(sender, target, HandoffContent{Target: target, Note: note})
}

// NewErrorMessage creates an orchestrator-authored error addressed to one agent.
func NewErrorMessage(recipient, code, detail string) Message {
	return newMessage(OrchestratorAuthor, recipient, ErrorContent{Code: code, Detail: detail})
}

// NewNoticeMessage creates an orchestrator-authored warning notice.
func NewNoticeMessage(text string) Message {
	return newMessage(OrchestratorAuthor, Broadcast, NoticeContent{Level: NoticeLevelWarn, Text: text})
}

// Text returns the plain text payload and whether the message carries one.
func (m Message) Text() (string, bool) {
	tc, ok := m.Content.(TextContent)
	if !ok {
		return "", false
	}
	return tc.Text, true
}

// GetToolCalls returns the tool calls carried by the message preserving
// their issuance order, or nil for non tool-call messages.
func (m Message) GetToolCalls() []ToolCall {
	tc, ok := m.Content.(ToolCallContent)
	if !ok {
		return nil
	}
	return tc.Calls
}

// GetToolResult returns the tool result carried by the message, if any.
func (m Message) GetToolResult() (ToolResult, bool) {
	rc, ok := m.Content.(ToolResultContent)
	if !ok {
		return ToolResult{}, false
	}
	return rc.Result, true
}

// GetHandoff returns the handoff target carried by the message, if any.
func (m Message) GetHandoff() (string, bool) {
	hc, ok := m.Content.(HandoffContent)
	if !ok {
		return "", false
	}
	return hc.Target, true
}
