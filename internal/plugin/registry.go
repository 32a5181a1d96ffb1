package plugin

import (
	"fmt"
	"sync"

	"github.com/jmrbcu/fstool/pkg/logger"
)

// ExtensionRegistry holds the named extension points of the host and the
// extenders registered against them.
//
// Thread-safe: all mutations are guarded by a mutex. The reference usage
// is single-writer during discovery followed by read-mostly access.
type ExtensionRegistry struct {
	mu     sync.RWMutex
	points map[string]*ExtensionPoint
}

// NewExtensionRegistry creates an empty extension point registry.
func NewExtensionRegistry() *ExtensionRegistry {
	return &ExtensionRegistry{points: make(map[string]*ExtensionPoint)}
}

// Register adds an extension point to the registry.
// Returns ErrDuplicateExtensionPoint if the id is already taken; the
// registration already in place keeps its extenders.
func (r *ExtensionRegistry) Register(point *ExtensionPoint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.points[point.ID()]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateExtensionPoint, point.ID())
	}

	logger.Debug("[plugin] registering extension point: %s", point.ID())
	r.points[point.ID()] = point
	return nil
}

// Remove drops an extension point from the registry. Absence is a no-op.
func (r *ExtensionRegistry) Remove(point *ExtensionPoint) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.points[point.ID()]; exists {
		logger.Debug("[plugin] removing extension point: %s", point.ID())
		delete(r.points, point.ID())
	}
}

// Get returns the extension point with the given id.
func (r *ExtensionRegistry) Get(id string) (*ExtensionPoint, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	point, ok := r.points[id]
	return point, ok
}

// RegisterExtender appends the extender to its target extension point.
// Returns ErrNotAnExtender if the extender is missing its target id or
// callback, ErrUnknownExtensionPoint if the target was never registered.
// Registration is idempotent by extender name.
func (r *ExtensionRegistry) RegisterExtender(ext Extender) error {
	if !ext.valid() {
		return fmt.Errorf("%w: %q must carry a name, a target extension point id and a callback", ErrNotAnExtender, ext.Name)
	}

	r.mu.RLock()
	point, ok := r.points[ext.Target]
	r.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %q targeted by extender %q", ErrUnknownExtensionPoint, ext.Target, ext.Name)
	}

	logger.Debug("[plugin] registering extender %q to extension point: %s", ext.Name, ext.Target)
	point.addExtender(ext)
	return nil
}

// RemoveExtender drops the extender from its target extension point.
// Absence of the extender or of its target is silently ignored.
func (r *ExtensionRegistry) RemoveExtender(ext Extender) {
	r.mu.RLock()
	point, ok := r.points[ext.Target]
	r.mu.RUnlock()
	if !ok {
		return
	}
	point.removeExtender(ext.Name)
}

// Len returns the number of registered extension points.
func (r *ExtensionRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.points)
}
