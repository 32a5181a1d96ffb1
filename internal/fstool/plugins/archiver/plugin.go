// Package archiver contributes the stock zip and tar.gz archivers to the
// archivers extension point declared by the basic plugin.
package archiver

import (
	"github.com/jmrbcu/fstool/internal/fstool/plugins/basic"
	"github.com/jmrbcu/fstool/internal/plugin"
)

// PluginName is the unique identifier for this plugin.
const PluginName = "archiver"

// Definitions is the entry point of the archiver definitions unit.
func Definitions(host *plugin.Manager, args plugin.Args) ([]plugin.Plugin, error) {
	return []plugin.Plugin{&archiverPlugin{}}, nil
}

type archiverPlugin struct{}

func (p *archiverPlugin) Descriptor() plugin.Descriptor {
	return plugin.Descriptor{
		ID:          PluginName,
		Name:        "Archiver",
		Version:     "0.1",
		Description: "Archiver plugin",
		Platform:    "all",
		Author:      "Jon Doe",
		AuthorEmail: "jon@doe.com",
		Depends:     []string{basic.PluginName},
		Enabled:     true,
	}
}

func (p *archiverPlugin) Configure() error { return nil }

func (p *archiverPlugin) Enable() error { return nil }

// Extenders contributes the stock archivers.
func (p *archiverPlugin) Extenders() []plugin.Extender {
	return []plugin.Extender{{
		Name:   "archiver.formats",
		Target: basic.ArchiversExtensionPoint,
		Func: func() ([]plugin.Contribution, error) {
			return []plugin.Contribution{&ZipArchiver{}, &TgzArchiver{}}, nil
		},
	}}
}
