package swarm

import "fmt"

// OrchestrationAbortedError is the fatal failure returned when a run cannot
// continue: the model retry budget is exhausted or the caller's context was
// cancelled without an external stop condition. Tool and routing failures
// are never fatal; they are absorbed into the transcript.
type OrchestrationAbortedError struct {
	Reason string
	Err    error
}

// Error implements the error interface.
func (e *OrchestrationAbortedError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("orchestration aborted: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("orchestration aborted: %s", e.Reason)
}

// Unwrap returns the underlying cause.
func (e *OrchestrationAbortedError) Unwrap() error { return e.Err }
