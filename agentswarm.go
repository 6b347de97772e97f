// Package agentswarm provides a high-level façade over the swarm
// orchestration engine. Most applications interact with it by:
//  1. Registering tools in a tool.Catalog
//  2. Building agents with swarm.NewAgent (model client, allowed tools,
//     allowed handoff targets)
//  3. Calling Run with a task, an initial agent and a termination condition
//
// The façade delegates orchestration to swarm.Orchestrator while keeping
// setup ergonomics concise. Defaults are safe for local development and
// testing; production deployments typically supply a structured logger and
// explicit termination conditions.
package agentswarm

import (
	"context"

	"github.com/hupe1980/agentswarm/core"
	"github.com/hupe1980/agentswarm/swarm"
)

// Run constructs an orchestrator for the given roster and executes one
// conversation. It is shorthand for swarm.New followed by Orchestrator.Run.
func Run(
	ctx context.Context,
	task string,
	initialAgent string,
	agents []*swarm.Agent,
	optFns ...func(o *swarm.Options),
) (*core.ConversationState, error) {
	orchestrator, err := swarm.New(agents, optFns...)
	if err != nil {
		return nil, err
	}
	return orchestrator.Run(ctx, task, initialAgent)
}
