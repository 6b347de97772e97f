package tool

import (
	"fmt"
	"sort"
	"sync"
)

// Catalog maps tool names to their implementations. It is the single
// registry shared by every agent in a swarm; per-agent allowance is a
// separate name set enforced by the invoker.
type Catalog struct {
	mu    sync.RWMutex
	tools map[string]Tool
}

// NewCatalog creates a catalog pre-populated with the given tools.
// Duplicate names panic: a swarm with an ambiguous tool registry is a
// programming error, not a runtime condition.
func NewCatalog(tools ...Tool) *Catalog {
	c := &Catalog{tools: make(map[string]Tool, len(tools))}
	for _, t := range tools {
		if err := c.Register(t); err != nil {
			panic(err)
		}
	}
	return c
}

// Register adds a tool, rejecting duplicate names.
func (c *Catalog) Register(t Tool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.tools[t.Name()]; exists {
		return fmt.Errorf("tool %q already registered", t.Name())
	}
	c.tools[t.Name()] = t
	return nil
}

// Lookup returns the named tool and whether it is registered.
func (c *Catalog) Lookup(name string) (Tool, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	t, ok := c.tools[name]
	return t, ok
}

// Names returns all registered tool names sorted for determinism.
func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.tools))
	for name := range c.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered tools.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.tools)
}
