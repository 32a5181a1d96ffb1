package plugin

import (
	"errors"
)

// Sentinel errors returned by the plugin host. Callers match them with
// errors.Is; most are wrapped with the offending id for diagnostics.
var (
	// ErrDuplicateExtensionPoint is returned when registering an extension
	// point whose id is already taken.
	ErrDuplicateExtensionPoint = errors.New("duplicated extension point")

	// ErrUnknownExtensionPoint is returned when an extender targets an
	// extension point that was never registered.
	ErrUnknownExtensionPoint = errors.New("unknown extension point")

	// ErrNotAnExtender is returned when an extender value is missing its
	// target extension point id or its callback.
	ErrNotAnExtender = errors.New("not an extender")

	// ErrExtenderContract is returned when an extender fails to produce
	// its contributions. The read is aborted and nothing is cached.
	ErrExtenderContract = errors.New("extender contract violation")

	// ErrMissingPlugin is returned when resolving an id that is not in
	// the plugin table.
	ErrMissingPlugin = errors.New("missing plugin")

	// ErrMissingDependency is returned when a plugin depends on an id
	// that is not in the plugin table.
	ErrMissingDependency = errors.New("missing dependency")

	// ErrCyclicDependency is returned when the dependency graph of the
	// accepted plugins contains a cycle.
	ErrCyclicDependency = errors.New("cyclic dependency detected")

	// ErrDuplicateService is returned when registering a service whose id
	// is already taken.
	ErrDuplicateService = errors.New("existing service")

	// ErrServiceNotFound is returned when unregistering a service id that
	// was never registered.
	ErrServiceNotFound = errors.New("service not found")

	// ErrPluginLoad marks a discovery-time load failure. Load failures
	// are logged and skipped; they never abort the discovery pass.
	ErrPluginLoad = errors.New("plugin load failure")

	// ErrIncompleteDescriptor is returned when a plugin descriptor is
	// missing one of its required identity fields.
	ErrIncompleteDescriptor = errors.New("incomplete plugin descriptor")

	// ErrDuplicateUnit is returned when registering a definitions unit
	// whose name is already taken in the catalog.
	ErrDuplicateUnit = errors.New("definitions unit already registered")
)
