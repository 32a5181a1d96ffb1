package plugin

import (
	"fmt"
	"sort"
	"sync"
)

// Args holds the per-unit arguments read from a definitions manifest and
// passed to the unit's DefinitionsFunc. Values are plain JSON types.
type Args map[string]interface{}

// DefinitionsFunc is the entry point of a plugin definitions unit: it
// instantiates every plugin the unit defines, each holding a handle to
// the owning Manager.
type DefinitionsFunc func(host *Manager, args Args) ([]Plugin, error)

// Catalog maps definitions unit names to their entry points. Plugin
// packages register themselves into a catalog which is injected into the
// Manager; discovery resolves filesystem entries against it instead of
// importing code dynamically.
type Catalog struct {
	mu    sync.RWMutex
	units map[string]DefinitionsFunc
}

// NewCatalog creates an empty definitions catalog.
func NewCatalog() *Catalog {
	return &Catalog{units: make(map[string]DefinitionsFunc)}
}

// Register adds a definitions unit under the given name.
// Returns ErrDuplicateUnit if the name is already taken.
func (c *Catalog) Register(unit string, fn DefinitionsFunc) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.units[unit]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateUnit, unit)
	}
	c.units[unit] = fn
	return nil
}

// MustRegister adds a definitions unit and panics on duplicate names.
// Intended for wiring the built-in units at startup.
func (c *Catalog) MustRegister(unit string, fn DefinitionsFunc) {
	if err := c.Register(unit, fn); err != nil {
		panic(err)
	}
}

// Lookup returns the entry point registered under the given unit name.
func (c *Catalog) Lookup(unit string) (DefinitionsFunc, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	fn, ok := c.units[unit]
	return fn, ok
}

// Units returns the registered unit names, sorted.
func (c *Catalog) Units() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.units))
	for name := range c.units {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered units.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.units)
}
