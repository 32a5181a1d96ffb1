package plugin

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/jmrbcu/fstool/pkg/logger"
)

// Manager is the plugin host orchestrator. It owns the plugin table, the
// extension point registry and the service registry for the process
// lifetime, and drives the discovery → configuration → enablement pipeline.
//
// All registries are guarded by mutexes; the intended discipline is a
// single writer during discovery and lifecycle, and read-mostly access to
// extension points and services after enablement.
type Manager struct {
	mu sync.RWMutex

	// searchPaths are the directories scanned for plugin definitions.
	searchPaths []string

	loader     *Loader
	catalog    *Catalog
	extensions *ExtensionRegistry
	services   *serviceRegistry

	// plugins holds the accepted plugins keyed by id; pluginOrder
	// preserves discovery order.
	plugins     map[string]Plugin
	pluginOrder []string

	// disabled collects the plugins rejected by the disable policy.
	disabled []Plugin

	// sorted caches the dependency-first load order. It is dropped
	// whenever the plugin table changes.
	sorted []Plugin
}

// Config holds the configuration for creating a Manager.
// Follows the Config → Complete() → New() construction pattern.
type Config struct {
	// SearchPaths are the directories to scan for plugin definitions.
	// Paths that do not exist are skipped at discovery time.
	SearchPaths []string

	// Catalog maps definitions unit names to their entry points.
	Catalog *Catalog
}

// CompletedConfig is the validated and completed manager configuration.
type CompletedConfig struct {
	*Config
}

// Complete fills in defaults for the manager configuration.
func (c *Config) Complete() CompletedConfig {
	if c.Catalog == nil {
		c.Catalog = NewCatalog()
	}
	return CompletedConfig{c}
}

// New creates a new Manager from the completed configuration.
func (c CompletedConfig) New() *Manager {
	return &Manager{
		searchPaths: c.SearchPaths,
		catalog:     c.Catalog,
		loader:      NewLoader(c.Catalog),
		extensions:  NewExtensionRegistry(),
		services:    newServiceRegistry(),
		plugins:     make(map[string]Plugin),
	}
}

// Catalog returns the definitions catalog used by discovery.
func (m *Manager) Catalog() *Catalog {
	return m.catalog
}

// SearchPaths returns the configured plugin search paths.
func (m *Manager) SearchPaths() []string {
	out := make([]string, len(m.searchPaths))
	copy(out, m.searchPaths)
	return out
}

// --- Discovery ---

// FindPlugins scans the search paths for plugin definitions and registers
// every accepted plugin with the manager. Plugins whose id is listed in
// disabledIDs are skipped, as are plugins shipped disabled and plugins
// depending (directly or through earlier-discovered plugins) on a disabled
// id. Load failures are logged and reduce the candidate set without
// aborting the pass.
//
// After all paths are scanned the accepted plugins' extension points are
// registered first and their extenders second, so an extender never fails
// validation merely because its target belongs to a plugin that sorts
// later in discovery. Registration and resolution errors abort the call
// without corrupting manager state.
func (m *Manager) FindPlugins(disabledIDs ...string) error {
	session := uuid.NewString()[:8]
	logger.Debug("[plugin] starting plugin discovery (session %s)", session)

	disabled := make(map[string]bool, len(disabledIDs))
	for _, id := range disabledIDs {
		disabled[id] = true
	}

	for _, path := range m.searchPaths {
		abs, err := filepath.Abs(path)
		if err != nil {
			continue
		}
		entries, err := os.ReadDir(abs)
		if err != nil {
			if !os.IsNotExist(err) {
				logger.Warn("[plugin] skipping search path %s: %v", abs, err)
			}
			continue
		}

		// os.ReadDir sorts entries by name, keeping discovery deterministic.
		for _, entry := range entries {
			for _, p := range m.loader.Load(m, filepath.Join(abs, entry.Name())) {
				m.admit(p, disabled)
			}
		}
	}

	if err := m.registerDeclarations(); err != nil {
		return err
	}

	m.mu.RLock()
	accepted := len(m.plugins)
	rejected := len(m.disabled)
	m.mu.RUnlock()
	logger.Debug("[plugin] discovery finished (session %s): %d plugins accepted, %d disabled",
		session, accepted, rejected)
	return nil
}

// admit applies the disable policy to one discovered plugin, in discovery
// order, and accepts it into the plugin table when it passes.
func (m *Manager) admit(p Plugin, disabled map[string]bool) {
	desc := p.Descriptor()

	var disabledDeps []string
	for _, dep := range desc.Depends {
		if disabled[dep] {
			disabledDeps = append(disabledDeps, dep)
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	switch {
	case !desc.Enabled:
		logger.Debug("[plugin] plugin disabled by default: %s", desc.ID)
		disabled[desc.ID] = true
		m.disabled = append(m.disabled, p)

	case disabled[desc.ID]:
		logger.Debug("[plugin] plugin disabled by user: %s", desc.ID)
		m.disabled = append(m.disabled, p)

	case len(disabledDeps) > 0:
		logger.Debug("[plugin] plugin disabled because of disabled dependencies: %s --> %v",
			desc.ID, disabledDeps)
		disabled[desc.ID] = true
		m.disabled = append(m.disabled, p)

	default:
		if _, exists := m.plugins[desc.ID]; exists {
			// First writer wins; later duplicates are dropped.
			logger.Debug("[plugin] duplicate plugin id %s, keeping first discovery", desc.ID)
			return
		}
		logger.Debug("[plugin] found plugin: %s", desc.ID)
		m.plugins[desc.ID] = p
		m.pluginOrder = append(m.pluginOrder, desc.ID)
		m.sorted = nil
	}
}

// registerDeclarations runs the two-phase registration pass: every
// accepted plugin's extension points first, then every accepted plugin's
// extenders in dependency order.
func (m *Manager) registerDeclarations() error {
	m.mu.RLock()
	order := make([]string, len(m.pluginOrder))
	copy(order, m.pluginOrder)
	m.mu.RUnlock()

	for _, id := range order {
		p, _ := m.Plugin(id)
		provider, ok := p.(ExtensionPointProvider)
		if !ok {
			continue
		}
		for _, point := range provider.ExtensionPoints() {
			if err := m.extensions.Register(point); err != nil {
				return err
			}
		}
	}

	logger.Debug("[plugin] registering all extenders")
	plugins, err := m.Plugins()
	if err != nil {
		return err
	}
	for _, p := range plugins {
		provider, ok := p.(ExtenderProvider)
		if !ok {
			continue
		}
		for _, ext := range provider.Extenders() {
			if err := m.extensions.RegisterExtender(ext); err != nil {
				return err
			}
		}
	}
	return nil
}

// --- Lifecycle ---

// ConfigurePlugins invokes Configure exactly once on every accepted
// plugin, in dependency order.
func (m *Manager) ConfigurePlugins() error {
	plugins, err := m.Plugins()
	if err != nil {
		return err
	}
	for _, p := range plugins {
		logger.Debug("[plugin] configuring plugin: %s", p.Descriptor().ID)
		if err := p.Configure(); err != nil {
			return fmt.Errorf("plugin %q Configure() failed: %w", p.Descriptor().ID, err)
		}
	}
	return nil
}

// EnablePlugins invokes Enable exactly once on every accepted plugin, in
// dependency order. When notify is non-nil it is called with enabled=false
// right before and enabled=true right after each plugin's Enable. By the
// time a plugin's Enable runs, every plugin earlier in dependency order
// has completed both Configure and Enable.
func (m *Manager) EnablePlugins(notify func(enabled bool, p Plugin)) error {
	plugins, err := m.Plugins()
	if err != nil {
		return err
	}
	for _, p := range plugins {
		if notify != nil {
			notify(false, p)
		}
		logger.Debug("[plugin] enabling plugin: %s", p.Descriptor().ID)
		if err := p.Enable(); err != nil {
			return fmt.Errorf("plugin %q Enable() failed: %w", p.Descriptor().ID, err)
		}
		if notify != nil {
			notify(true, p)
		}
	}
	return nil
}

// --- Plugin table ---

// Plugin returns an accepted plugin by id.
func (m *Manager) Plugin(id string) (Plugin, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.plugins[id]
	return p, ok
}

// Plugins returns the accepted plugins sorted by their dependencies. The
// order is computed once and cached; it is recomputed only after the
// plugin table changes. Resolution failures (missing dependency, cycle)
// propagate to the caller and leave no cached order behind.
func (m *Manager) Plugins() ([]Plugin, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.sorted == nil {
		order, err := m.newResolver().LoadOrder(m.pluginOrder)
		if err != nil {
			return nil, err
		}
		sorted := make([]Plugin, 0, len(order))
		for _, id := range order {
			sorted = append(sorted, m.plugins[id])
		}
		m.sorted = sorted
	}

	out := make([]Plugin, len(m.sorted))
	copy(out, m.sorted)
	return out, nil
}

// DisabledPlugins returns the plugins rejected by the disable policy, in
// discovery order.
func (m *Manager) DisabledPlugins() []Plugin {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Plugin, len(m.disabled))
	copy(out, m.disabled)
	return out
}

// Dependencies returns the transitive dependencies of the plugin, sorted
// dependency-first. With includeSelf the plugin's own id closes the list.
func (m *Manager) Dependencies(id string, includeSelf bool) ([]string, error) {
	m.mu.RLock()
	r := m.newResolver()
	m.mu.RUnlock()
	return r.Resolve(id, includeSelf)
}

// newResolver snapshots the dependency declarations of the accepted
// plugins. Callers must hold at least a read lock.
func (m *Manager) newResolver() *resolver {
	depends := make(map[string][]string, len(m.plugins))
	for id, p := range m.plugins {
		depends[id] = p.Descriptor().Depends
	}
	return &resolver{depends: depends}
}

// PluginIDs returns the ids of the accepted plugins, sorted.
func (m *Manager) PluginIDs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.plugins))
	for id := range m.plugins {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// --- Extension points ---

// RegisterExtensionPoint adds an extension point to the host registry.
// The application may call this directly for points it owns; plugin
// declared points are registered automatically during discovery.
func (m *Manager) RegisterExtensionPoint(point *ExtensionPoint) error {
	return m.extensions.Register(point)
}

// RemoveExtensionPoint drops an extension point. Absence is a no-op.
func (m *Manager) RemoveExtensionPoint(point *ExtensionPoint) {
	m.extensions.Remove(point)
}

// ExtensionPoint returns the extension point with the given id.
func (m *Manager) ExtensionPoint(id string) (*ExtensionPoint, bool) {
	return m.extensions.Get(id)
}

// RegisterExtender appends an extender to its target extension point.
func (m *Manager) RegisterExtender(ext Extender) error {
	return m.extensions.RegisterExtender(ext)
}

// RemoveExtender drops an extender; absence is silently ignored.
func (m *Manager) RemoveExtender(ext Extender) {
	m.extensions.RemoveExtender(ext)
}

// Contributions evaluates the extension point with the given id.
func (m *Manager) Contributions(id string) ([]Contribution, error) {
	point, ok := m.extensions.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownExtensionPoint, id)
	}
	return point.Contributions()
}

// --- Services ---

// RegisterService publishes a service instance or a ServiceFactory under
// a unique id. Enable is the designated place for plugins to call this.
func (m *Manager) RegisterService(id string, service interface{}) error {
	return m.services.Register(id, service)
}

// UnregisterService removes a published service.
func (m *Manager) UnregisterService(id string) error {
	return m.services.Unregister(id)
}

// GetService looks up a service by id, materializing factories on first
// access. Absence yields (nil, false).
func (m *Manager) GetService(id string) (interface{}, bool) {
	return m.services.Get(id)
}
