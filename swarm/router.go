package swarm

import "github.com/hupe1980/agentswarm/model"

// HandoffOutcome classifies the routing decision for one agent reply.
type HandoffOutcome int

const (
	// Stay keeps the floor with the current speaker.
	Stay HandoffOutcome = iota
	// TransferTo passes control to the named target.
	TransferTo
	// InvalidTarget rejects a handoff outside the issuing agent's allowed
	// set. Recoverable: the agent keeps the floor and may retry.
	InvalidTarget
)

// String returns the outcome name for logs and stop reasons.
func (o HandoffOutcome) String() string {
	switch o {
	case Stay:
		return "stay"
	case TransferTo:
		return "transfer"
	case InvalidTarget:
		return "invalid_target"
	default:
		return "unknown"
	}
}

// RouteResult is the full routing decision: the outcome, the target it
// applies to, and any extra targets that were named but ignored.
type RouteResult struct {
	Outcome HandoffOutcome
	// Target is the transfer destination for TransferTo, or the rejected
	// name for InvalidTarget.
	Target string
	// Ignored lists additional handoff targets named in the same reply.
	// Only the first target is honored; the rest are surfaced as a warning
	// notice rather than silently dropped.
	Ignored []string
}

// Route decides, from an agent's reply, whether control passes to another
// named agent or remains with the current speaker. Pure function, no side
// effects: the orchestrator applies the result.
func Route(reply *model.Reply, issuer *Agent) RouteResult {
	if reply == nil || len(reply.Handoffs) == 0 {
		return RouteResult{Outcome: Stay}
	}

	target := reply.Handoffs[0]
	result := RouteResult{Target: target}
	if len(reply.Handoffs) > 1 {
		result.Ignored = reply.Handoffs[1:]
	}

	if issuer.AllowsHandoff(target) {
		result.Outcome = TransferTo
	} else {
		result.Outcome = InvalidTarget
	}

	return result
}
