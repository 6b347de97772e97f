package tool

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func namedTool(name string) Tool {
	return NewFunctionTool(name, "test tool", map[string]any{"type": "object", "properties": map[string]any{}},
		func(ctx context.Context, args map[string]any) (any, error) { return nil, nil },
	)
}

func TestCatalogRegisterAndLookup(t *testing.T) {
	c := NewCatalog(namedTool("quote"))

	got, ok := c.Lookup("quote")
	require.True(t, ok)
	assert.Equal(t, "quote", got.Name())

	_, ok = c.Lookup("missing")
	assert.False(t, ok)

	require.NoError(t, c.Register(namedTool("news")))
	assert.Equal(t, 2, c.Len())
}

func TestCatalogRejectsDuplicates(t *testing.T) {
	c := NewCatalog(namedTool("quote"))

	err := c.Register(namedTool("quote"))
	assert.ErrorContains(t, err, "already registered")

	assert.Panics(t, func() {
		NewCatalog(namedTool("quote"), namedTool("quote"))
	})
}

func TestCatalogNamesSorted(t *testing.T) {
	c := NewCatalog(namedTool("news"), namedTool("quote"), namedTool("chart"))
	assert.Equal(t, []string{"chart", "news", "quote"}, c.Names())
}
