// Package plugin implements the fstool plugin host: discovery of
// self-describing plugin units from filesystem search paths, dependency
// ordered lifecycle execution, named extension points that plugins extend
// cooperatively, and a process-wide service registry.
//
// A plugin unit is registered in a Catalog under a unit name. Discovery
// walks the configured search paths looking for definition manifests
// (directories, single manifest files, or zip archives), resolves each
// manifest to its catalog unit and instantiates every plugin the unit
// defines. The Manager then linearizes the accepted plugins by their
// declared dependencies and drives configure() and enable() in that order.
//
// Plugins contribute to each other through extension points: named slots
// holding extender callbacks that are evaluated lazily and cached, and
// through services: named values (or factories) published for lookup.
package plugin

import (
	"fmt"
)

// Descriptor carries the identity metadata every plugin must declare.
// All identity fields are required; Depends and Enabled are behavioral
// defaults (Enabled=false ships the plugin disabled).
type Descriptor struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Version     string   `json:"version"`
	Description string   `json:"description"`
	Platform    string   `json:"platform"`
	Author      string   `json:"author"`
	AuthorEmail string   `json:"authorEmail"`
	Depends     []string `json:"depends"`
	Enabled     bool     `json:"enabled"`
}

// Validate checks that every identity field is present. A descriptor
// failing validation makes its plugin unloadable.
func (d Descriptor) Validate() error {
	fields := []struct {
		name  string
		value string
	}{
		{"id", d.ID},
		{"name", d.Name},
		{"version", d.Version},
		{"description", d.Description},
		{"platform", d.Platform},
		{"author", d.Author},
		{"authorEmail", d.AuthorEmail},
	}
	for _, f := range fields {
		if f.value == "" {
			return fmt.Errorf("%w: missing %s (plugin %q)", ErrIncompleteDescriptor, f.name, d.ID)
		}
	}
	return nil
}

// Plugin is the capability contract every discovered unit must satisfy.
// A plugin is instantiated once per discovery run with a handle to the
// owning Manager and lives for the process lifetime; it is never destroyed,
// only marked disabled.
type Plugin interface {
	// Descriptor returns the plugin's identity metadata.
	Descriptor() Descriptor

	// Configure is called once per plugin, in dependency order, before any
	// plugin is enabled. It must not publish services.
	Configure() error

	// Enable is called once per plugin, in dependency order, after every
	// plugin has been configured. This is the place to publish services
	// and perform cross-plugin wiring: when it runs, every plugin earlier
	// in dependency order has completed both Configure and Enable.
	Enable() error
}

// ExtensionPointProvider is an optional plugin interface for plugins that
// declare extension points. The manager probes for it after discovery and
// registers all declared points before any extender is registered.
type ExtensionPointProvider interface {
	Plugin

	// ExtensionPoints returns the extension points declared by this plugin.
	ExtensionPoints() []*ExtensionPoint
}

// ExtenderProvider is an optional plugin interface for plugins that extend
// extension points. The manager probes for it after all extension points
// have been registered, so an extender never fails validation merely
// because its target belongs to a plugin discovered later.
type ExtenderProvider interface {
	Plugin

	// Extenders returns the extenders contributed by this plugin.
	Extenders() []Extender
}
