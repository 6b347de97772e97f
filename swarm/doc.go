// Package swarm implements the orchestration engine that coordinates a team
// of conversational agents. The Orchestrator runs a strictly sequential
// loop: exactly one agent holds the floor at any instant, its model reply is
// classified into text, tool calls and handoff directives, tool calls are
// dispatched (concurrently within the turn, joined before the turn ends) and
// handoffs transfer the floor to validated peers. The loop ends when a
// termination condition fires or a fatal orchestration failure aborts the run.
package swarm
