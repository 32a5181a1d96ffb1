package fstool

import (
	"os"
	"path/filepath"

	"github.com/jmrbcu/fstool/internal/plugin"
	"github.com/jmrbcu/fstool/pkg/logger"
	"github.com/jmrbcu/fstool/pkg/utils/json"
)

// ScaffoldManifests writes a definitions manifest into the search path for
// every catalog unit that does not have one yet, so the bundled plugins
// are discoverable out of the box. Existing manifests are left alone,
// including ones the user edited to pass custom args.
func ScaffoldManifests(path string, catalog *plugin.Catalog) error {
	for _, unit := range catalog.Units() {
		manifest := filepath.Join(path, unit, plugin.DefinitionsName)
		if _, err := os.Stat(manifest); err == nil {
			continue
		}

		data, err := json.MarshalIndent(plugin.Manifest{Unit: unit}, "", "  ")
		if err != nil {
			return err
		}
		if err := os.MkdirAll(filepath.Dir(manifest), 0755); err != nil {
			return err
		}
		if err := os.WriteFile(manifest, data, 0644); err != nil {
			return err
		}
		logger.Debug("[fstool] scaffolded plugin manifest: %s", manifest)
	}
	return nil
}
