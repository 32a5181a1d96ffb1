package plugin

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jmrbcu/fstool/pkg/logger"
	"github.com/jmrbcu/fstool/pkg/utils/json"
)

// DefinitionsName is the fixed name of a plugin definitions manifest.
// It is a protocol constant of the discovery convention, not configurable
// per plugin.
const DefinitionsName = "plugin_definitions.json"

// Manifest is the on-disk description of a definitions unit. The unit
// name defaults to the filesystem entry's stem; Args are handed to the
// unit's DefinitionsFunc verbatim.
type Manifest struct {
	Unit string `json:"unit"`
	Args Args   `json:"args"`
}

// Loader turns filesystem entries into live plugin instances by resolving
// definition manifests against an injected catalog of registered units.
type Loader struct {
	catalog *Catalog
}

// NewLoader creates a loader resolving units against the given catalog.
func NewLoader(catalog *Catalog) *Loader {
	return &Loader{catalog: catalog}
}

// Load classifies the filesystem entry, reads its definitions manifest and
// instantiates every plugin the matching catalog unit defines. Any failure
// is logged and treated as "no plugins found at this path": discovery of
// the remaining entries continues unaffected.
func (l *Loader) Load(host *Manager, path string) []Plugin {
	unit, manifest, err := l.inspect(path)
	if err != nil {
		logger.Error("[plugin] error loading plugin: %s in: %s, reason: %v",
			filepath.Base(path), filepath.Dir(path), err)
		return nil
	}
	if unit == "" {
		// Not a plugin entry.
		return nil
	}

	plugins, err := l.instantiate(host, unit, manifest.Args)
	if err != nil {
		logger.Error("[plugin] error loading plugin: %s in: %s, reason: %v",
			filepath.Base(path), filepath.Dir(path), err)
		return nil
	}
	return plugins
}

// inspect classifies a filesystem entry and reads its manifest.
// A returned empty unit name means the entry is not a plugin candidate.
func (l *Loader) inspect(path string) (string, Manifest, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", Manifest{}, err
	}

	switch {
	case info.IsDir():
		// Directory unit: expects a contained definitions manifest.
		data, err := os.ReadFile(filepath.Join(path, DefinitionsName))
		if os.IsNotExist(err) {
			logger.Debug("[plugin] no %s in directory %s, skipping", DefinitionsName, path)
			return "", Manifest{}, nil
		}
		if err != nil {
			return "", Manifest{}, err
		}
		return l.decode(filepath.Base(path), data)

	case strings.HasSuffix(path, ".zip"):
		// Archive unit: the manifest lives at the archive root.
		data, err := readFromArchive(path, DefinitionsName)
		if err != nil {
			return "", Manifest{}, err
		}
		return l.decode(stem(path), data)

	case strings.HasSuffix(path, ".json") && !strings.HasPrefix(filepath.Base(path), "_"):
		// Single-file unit: the file itself is the definitions manifest,
		// named after its stem.
		data, err := os.ReadFile(path)
		if err != nil {
			return "", Manifest{}, err
		}
		return l.decode(stem(path), data)

	default:
		return "", Manifest{}, nil
	}
}

// decode parses a manifest, defaulting the unit name to the entry stem.
func (l *Loader) decode(defaultUnit string, data []byte) (string, Manifest, error) {
	var manifest Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return "", Manifest{}, fmt.Errorf("%w: invalid manifest: %v", ErrPluginLoad, err)
	}
	if manifest.Unit == "" {
		manifest.Unit = defaultUnit
	}
	return manifest.Unit, manifest, nil
}

// instantiate resolves the unit in the catalog and creates its plugins,
// validating every descriptor.
func (l *Loader) instantiate(host *Manager, unit string, args Args) ([]Plugin, error) {
	fn, ok := l.catalog.Lookup(unit)
	if !ok {
		return nil, fmt.Errorf("%w: no definitions unit %q in catalog", ErrPluginLoad, unit)
	}

	plugins, err := fn(host, args)
	if err != nil {
		return nil, fmt.Errorf("%w: unit %q: %v", ErrPluginLoad, unit, err)
	}

	for _, p := range plugins {
		if err := p.Descriptor().Validate(); err != nil {
			return nil, fmt.Errorf("%w: unit %q: %v", ErrPluginLoad, unit, err)
		}
	}
	return plugins, nil
}

// readFromArchive extracts a single file from the root of a zip archive.
func readFromArchive(archivePath, name string) ([]byte, error) {
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	for _, f := range r.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		defer rc.Close()
		return io.ReadAll(rc)
	}
	return nil, fmt.Errorf("%w: %s not found in archive %s", ErrPluginLoad, name, archivePath)
}

// stem returns the file name without its extension.
func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
