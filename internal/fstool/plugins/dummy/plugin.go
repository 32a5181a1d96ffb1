// Package dummy ships two inert example plugins: one packaged as a
// directory unit and one as a single-file unit. Both exist to demonstrate
// the packaging conventions and the disable list; neither contributes
// anything.
package dummy

import (
	"github.com/jmrbcu/fstool/internal/plugin"
)

const (
	// PluginName is the unique identifier of the directory-unit plugin.
	PluginName = "dummy"

	// FilePluginName is the unique identifier of the single-file-unit
	// plugin.
	FilePluginName = "dummy_file"
)

// Definitions is the entry point of the dummy definitions unit.
func Definitions(host *plugin.Manager, args plugin.Args) ([]plugin.Plugin, error) {
	return []plugin.Plugin{&dummyPlugin{
		desc: plugin.Descriptor{
			ID:          PluginName,
			Name:        "Dummy",
			Version:     "0.1",
			Description: "Just a dummy plugin",
			Platform:    "all",
			Author:      "Jon Doe",
			AuthorEmail: "jon@doe.com",
			Enabled:     true,
		},
	}}, nil
}

// FileDefinitions is the entry point of the dummy_file definitions unit,
// the single-file packaging analog of Definitions.
func FileDefinitions(host *plugin.Manager, args plugin.Args) ([]plugin.Plugin, error) {
	return []plugin.Plugin{&dummyPlugin{
		desc: plugin.Descriptor{
			ID:          FilePluginName,
			Name:        "Dummy File",
			Version:     "0.1",
			Description: "Just a dummy plugin in a file",
			Platform:    "all",
			Author:      "Jon Doe",
			AuthorEmail: "jon@doe.com",
			Enabled:     true,
		},
	}}, nil
}

type dummyPlugin struct {
	desc plugin.Descriptor
}

func (p *dummyPlugin) Descriptor() plugin.Descriptor { return p.desc }

func (p *dummyPlugin) Configure() error { return nil }

func (p *dummyPlugin) Enable() error { return nil }
