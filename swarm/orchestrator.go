package swarm

import (
	"context"
	"fmt"
	"time"

	"github.com/hupe1980/agentswarm/core"
	"github.com/hupe1980/agentswarm/logging"
	"github.com/hupe1980/agentswarm/model"
	"github.com/hupe1980/agentswarm/termination"
	"github.com/hupe1980/agentswarm/tool"
)

// DefaultTurnLimit backstops runs constructed without an explicit
// termination condition.
const DefaultTurnLimit = 25

// Options holds dependency + configuration overrides passed to New().
// Every timeout and retry count is an explicit field with a documented
// default; there are no hidden constants.
type Options struct {
	// Catalog is the shared tool registry. Defaults to an empty catalog.
	Catalog *tool.Catalog
	// Termination ends the run. Defaults to TurnLimit(DefaultTurnLimit).
	Termination termination.Condition
	// Logger receives structured engine logs. Defaults to NoOpLogger.
	Logger logging.Logger
	// Sinks observe appended messages. Defaults to none.
	Sinks []Sink
	// ToolTimeout bounds each tool call. Defaults to 30s.
	ToolTimeout time.Duration
	// MaxToolParallel caps concurrent tool executions within one turn.
	// 0 means the batch size (no explicit limit).
	MaxToolParallel int
	// MaxModelAttempts is the total completion attempts per turn before a
	// transient model failure escalates to an abort. Defaults to 3.
	MaxModelAttempts int
	// RetryBackoff is the base delay between attempts, growing linearly
	// (backoff * attempt). Defaults to 500ms.
	RetryBackoff time.Duration
}

// Orchestrator is the control loop: it holds conversation state, picks the
// next active agent, requests its reply, routes tool calls and handoffs,
// checks termination and repeats. Exactly one agent is invoked at a time;
// no two agents ever run concurrently within the same conversation.
type Orchestrator struct {
	agents map[string]*Agent
	order  []string

	catalog *tool.Catalog
	cond    termination.Condition
	invoker *ToolInvoker
	logger  logging.Logger
	sinks   []Sink

	maxModelAttempts int
	retryBackoff     time.Duration
}

// New validates the roster and constructs an Orchestrator. Malformed
// configurations (duplicate names, self-handoffs, dangling handoff targets,
// unknown tool names) are rejected here, never at run time.
func New(agents []*Agent, optFns ...func(o *Options)) (*Orchestrator, error) {
	opts := Options{
		Catalog:          tool.NewCatalog(),
		Logger:           logging.NoOpLogger{},
		ToolTimeout:      30 * time.Second,
		MaxModelAttempts: 3,
		RetryBackoff:     500 * time.Millisecond,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Termination == nil {
		opts.Termination = termination.TurnLimit(DefaultTurnLimit)
	}
	if opts.Catalog == nil {
		opts.Catalog = tool.NewCatalog()
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}

	if len(agents) == 0 {
		return nil, fmt.Errorf("at least one agent is required")
	}

	registry := make(map[string]*Agent, len(agents))
	order := make([]string, 0, len(agents))
	for _, a := range agents {
		if a.Name() == "" {
			return nil, fmt.Errorf("agent name must not be empty")
		}
		if a.Name() == core.TaskAuthor || a.Name() == core.OrchestratorAuthor {
			return nil, fmt.Errorf("agent name %q is reserved", a.Name())
		}
		if _, exists := registry[a.Name()]; exists {
			return nil, fmt.Errorf("duplicate agent name %q", a.Name())
		}
		registry[a.Name()] = a
		order = append(order, a.Name())
	}

	for _, a := range agents {
		for _, target := range a.HandoffTargets() {
			if target == a.Name() {
				return nil, fmt.Errorf("agent %q declares a self-handoff", a.Name())
			}
			if _, exists := registry[target]; !exists {
				return nil, fmt.Errorf("agent %q declares handoff target %q which is not registered", a.Name(), target)
			}
		}
		for _, name := range a.Tools() {
			if _, exists := opts.Catalog.Lookup(name); !exists {
				return nil, fmt.Errorf("agent %q declares tool %q which is not in the catalog", a.Name(), name)
			}
		}
	}

	return &Orchestrator{
		agents:           registry,
		order:            order,
		catalog:          opts.Catalog,
		cond:             opts.Termination,
		invoker:          newToolInvoker(opts.Catalog, opts.ToolTimeout, opts.MaxToolParallel, opts.Logger),
		logger:           opts.Logger,
		sinks:            opts.Sinks,
		maxModelAttempts: opts.MaxModelAttempts,
		retryBackoff:     opts.RetryBackoff,
	}, nil
}

// Agents returns the registered agent names in registration order.
func (o *Orchestrator) Agents() []string {
	out := make([]string, len(o.order))
	copy(out, o.order)
	return out
}

// Run executes one conversation: the task message is appended, the initial
// agent takes the floor and the loop continues until a termination
// condition fires or a fatal failure aborts the run. The returned state is
// terminal either way; err is non-nil only for aborts.
func (o *Orchestrator) Run(ctx context.Context, task, initialAgent string) (*core.ConversationState, error) {
	state := core.NewConversationState(initialAgent)

	if _, ok := o.agents[initialAgent]; !ok {
		err := &OrchestrationAbortedError{Reason: fmt.Sprintf("initial agent %q is not registered", initialAgent)}
		state.MarkAborted(err.Reason)
		return state, err
	}

	log := logging.WithRun(o.logger, core.NewID())

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	// External stop signals must abort in-flight model and tool calls, not
	// wait for their natural completion.
	externals := termination.Externals(o.cond)
	for _, ext := range externals {
		go func(ext *termination.External) {
			select {
			case <-runCtx.Done():
			case <-ext.Done():
				cancel()
			}
		}(ext)
	}

	o.append(state, core.NewTaskMessage(task))

	for !state.Terminated() {
		// Checked at the top of every iteration, taking priority over all
		// other conditions.
		if fired, ok := externalFired(externals); ok {
			state.MarkTerminated(fired.String())
			break
		}
		if err := runCtx.Err(); err != nil {
			abort := &OrchestrationAbortedError{Reason: "run context cancelled", Err: err}
			state.MarkAborted(abort.Error())
			return state, abort
		}

		agent := o.agents[state.ActiveAgent()]

		reply, err := o.complete(runCtx, log, agent, state)
		if err != nil {
			if fired, ok := externalFired(externals); ok {
				state.MarkTerminated(fired.String())
				break
			}
			abort := &OrchestrationAbortedError{Reason: fmt.Sprintf("model failure for agent %q", agent.Name()), Err: err}
			state.MarkAborted(abort.Error())
			return state, abort
		}

		o.applyReply(runCtx, log, state, agent, reply)

		state.AdvanceTurn()
		if o.cond.Satisfied(state) {
			state.MarkTerminated(o.cond.String())
		}
	}

	log.Info("run finished",
		"turns", state.TurnCount(),
		"messages", state.Len(),
		"stop_reason", state.StopReason(),
	)

	return state, nil
}

// applyReply absorbs one classified reply into the conversation: text, then
// tool calls with their joined results, then the handoff. Tool results are
// always resolved and appended before the handoff takes effect, so the
// target agent (or the re-invoked issuer) sees them in the transcript.
func (o *Orchestrator) applyReply(ctx context.Context, log logging.Logger, state *core.ConversationState, agent *Agent, reply *model.Reply) {
	if reply.Text != "" {
		o.append(state, core.NewTextMessage(agent.Name(), reply.Text))
	}

	if len(reply.ToolCalls) > 0 {
		calls := ensureCallIDs(reply.ToolCalls)
		o.append(state, core.NewToolCallMessage(agent.Name(), calls))

		results := o.invoker.Invoke(ctx, agent, calls)
		for _, res := range results {
			o.append(state, core.NewToolResultMessage(agent.Name(), res))
		}
	}

	route := Route(reply, agent)
	if len(route.Ignored) > 0 {
		o.append(state, core.NewNoticeMessage(fmt.Sprintf(
			"reply from %q named multiple handoff targets; honoring %q and ignoring %v",
			agent.Name(), route.Target, route.Ignored,
		)))
	}

	switch route.Outcome {
	case TransferTo:
		o.append(state, core.NewHandoffMessage(agent.Name(), route.Target, ""))
		state.SetActiveAgent(route.Target)
		logging.LogHandoff(log, agent.Name(), route.Target)
	case InvalidTarget:
		o.append(state, core.NewErrorMessage(agent.Name(), core.ErrorCodeInvalidHandoffTarget, fmt.Sprintf(
			"agent %q may not hand off to %q; allowed targets: %v",
			agent.Name(), route.Target, agent.HandoffTargets(),
		)))
		log.Warn("invalid handoff target", "agent", agent.Name(), "target", route.Target)
	case Stay:
		// Control remains with the same agent for another turn; the turn
		// limit bounds replies that neither call tools nor hand off.
	}
}

// complete requests one reply from the agent's model, retrying transient
// failures with linear backoff up to the configured attempt budget.
func (o *Orchestrator) complete(ctx context.Context, log logging.Logger, agent *Agent, state *core.ConversationState) (*model.Reply, error) {
	req := model.Request{
		AgentName:      agent.Name(),
		SystemPrompt:   agent.SystemPrompt(),
		Messages:       state.Messages(),
		Tools:          o.toolDefinitions(agent),
		HandoffTargets: agent.HandoffTargets(),
	}
	modelName := agent.Model().Info().Name

	var lastErr error
	for attempt := 1; attempt <= o.maxModelAttempts; attempt++ {
		start := time.Now()
		reply, err := agent.Model().Complete(ctx, req)
		logging.LogModelCall(log, agent.Name(), modelName, attempt, time.Since(start), err)
		if err == nil {
			log.Debug("model reply", "agent", agent.Name(), "reply", reply.String())
			return reply, nil
		}

		lastErr = err
		if !model.IsTransient(err) || ctx.Err() != nil {
			return nil, err
		}

		if attempt < o.maxModelAttempts {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(o.retryBackoff * time.Duration(attempt)):
			}
		}
	}

	return nil, lastErr
}

// toolDefinitions exposes the agent's allowed subset of the catalog.
func (o *Orchestrator) toolDefinitions(agent *Agent) []model.ToolDefinition {
	defs := make([]model.ToolDefinition, 0, len(agent.Tools()))
	for _, name := range agent.Tools() {
		t, ok := o.catalog.Lookup(name)
		if !ok {
			continue // validated at construction
		}
		defs = append(defs, model.ToolDefinition{
			Name:        t.Name(),
			Description: t.Description(),
			Parameters:  t.Parameters(),
		})
	}
	return defs
}

// append stores the message and notifies sinks with the sequenced copy.
func (o *Orchestrator) append(state *core.ConversationState, msg core.Message) {
	stored := state.Append(msg)
	for _, sink := range o.sinks {
		sink.OnMessage(stored)
	}
}

func externalFired(externals []*termination.External) (*termination.External, bool) {
	for _, ext := range externals {
		if ext.Satisfied(nil) {
			return ext, true
		}
	}
	return nil, false
}

// ensureCallIDs assigns IDs to calls the provider left blank so results can
// always be paired with their originating call.
func ensureCallIDs(calls []core.ToolCall) []core.ToolCall {
	out := make([]core.ToolCall, len(calls))
	copy(out, calls)
	for i := range out {
		if out[i].CallID == "" {
			out[i].CallID = core.NewID()
		}
	}
	return out
}
