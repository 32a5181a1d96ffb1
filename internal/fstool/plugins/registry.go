// Package plugins wires the bundled definitions units into a catalog.
package plugins

import (
	"github.com/jmrbcu/fstool/internal/fstool/plugins/archiver"
	"github.com/jmrbcu/fstool/internal/fstool/plugins/basic"
	"github.com/jmrbcu/fstool/internal/fstool/plugins/directory"
	"github.com/jmrbcu/fstool/internal/fstool/plugins/dummy"
	"github.com/jmrbcu/fstool/internal/plugin"
)

// NewInTreeCatalog creates a catalog with the bundled definitions units.
// The bundled plugins are:
// - basic: core filesystem commands and the filesystem manager service
// - directory: mkdir/rmdir commands on top of the filesystem service
// - archiver: zip and tar.gz archivers for the archivers extension point
// - dummy / dummy_file: inert packaging examples
func NewInTreeCatalog() *plugin.Catalog {
	catalog := plugin.NewCatalog()
	catalog.MustRegister(basic.PluginName, basic.Definitions)
	catalog.MustRegister(directory.PluginName, directory.Definitions)
	catalog.MustRegister(archiver.PluginName, archiver.Definitions)
	catalog.MustRegister(dummy.PluginName, dummy.Definitions)
	catalog.MustRegister(dummy.FilePluginName, dummy.FileDefinitions)
	return catalog
}
