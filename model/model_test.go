package model

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/agentswarm/core"
)

func TestMockModelScriptedReplies(t *testing.T) {
	m := NewMockModel("test")
	m.Enqueue(Reply{Text: "first"})
	m.Enqueue(Reply{ToolCalls: []core.ToolCall{{CallID: "c1", Name: "quote"}}})

	reply, err := m.Complete(context.Background(), Request{})
	require.NoError(t, err)
	assert.Equal(t, "first", reply.Text)

	reply, err = m.Complete(context.Background(), Request{})
	require.NoError(t, err)
	require.Len(t, reply.ToolCalls, 1)
	assert.Equal(t, "quote", reply.ToolCalls[0].Name)

	// Script exhausted, default text takes over.
	reply, err = m.Complete(context.Background(), Request{})
	require.NoError(t, err)
	assert.Equal(t, "OK", reply.Text)

	assert.Equal(t, 3, m.Calls())
}

func TestMockModelScriptedError(t *testing.T) {
	m := NewMockModel("test")
	m.EnqueueError(&UnavailableError{Provider: "mock", Err: errors.New("down")})

	_, err := m.Complete(context.Background(), Request{})
	var ue *UnavailableError
	assert.ErrorAs(t, err, &ue)
}

func TestMockModelRespectsContext(t *testing.T) {
	m := NewMockModel("test")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := m.Complete(ctx, Request{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, m.Calls())
}

func TestIsTransient(t *testing.T) {
	assert.True(t, IsTransient(&UnavailableError{Provider: "openai", Err: errors.New("429")}))
	assert.True(t, IsTransient(&TimeoutError{Provider: "anthropic", Err: context.DeadlineExceeded}))
	assert.True(t, IsTransient(context.DeadlineExceeded))

	assert.False(t, IsTransient(errors.New("invalid api key")))
	assert.False(t, IsTransient(context.Canceled))
	assert.False(t, IsTransient(nil))
}

func TestTransientErrorsUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	assert.ErrorIs(t, &UnavailableError{Provider: "openai", Err: cause}, cause)
	assert.ErrorIs(t, &TimeoutError{Provider: "openai", Err: cause}, cause)
}
