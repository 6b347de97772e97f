package agentswarm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/agentswarm/model"
	"github.com/hupe1980/agentswarm/swarm"
	"github.com/hupe1980/agentswarm/termination"
)

func TestRun(t *testing.T) {
	llm := model.NewMockModel("m")
	llm.SetDefaultText("all set. TERMINATE")

	state, err := Run(context.Background(), "summarize the task", "assistant",
		[]*swarm.Agent{swarm.NewAgent("assistant", llm)},
		func(o *swarm.Options) {
			o.Termination = termination.Or(termination.TextMention("TERMINATE"), termination.TurnLimit(5))
		},
	)
	require.NoError(t, err)

	assert.True(t, state.Terminated())
	assert.Equal(t, `TextMention("TERMINATE")`, state.StopReason())
	assert.Equal(t, 2, state.Len())
}

func TestRunRejectsBadRoster(t *testing.T) {
	_, err := Run(context.Background(), "task", "assistant", nil)
	assert.Error(t, err)
}
