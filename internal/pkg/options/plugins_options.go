package options

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"
)

// PluginsOptions holds the top-level configuration for the plugin host.
// Aligned with the fstool configuration file.
type PluginsOptions struct {
	// Paths lists the directories scanned for plugin definitions, in
	// precedence order.
	Paths []string `json:"paths" mapstructure:"paths"`
	// Disable lists plugin ids that must not be enabled. Plugins that
	// depend on a disabled id are disabled with it.
	Disable []string `json:"disable" mapstructure:"disable"`
	// StateDB is the bolt database file persisting per-plugin enablement
	// overrides between runs.
	StateDB string `json:"state-db" mapstructure:"state-db"`
}

// NewPluginsOptions returns a new instance of PluginsOptions with the
// default search path and state database location.
func NewPluginsOptions() *PluginsOptions {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return &PluginsOptions{
		Paths:   []string{filepath.Join(home, ".fstool", "plugins")},
		Disable: []string{"dummy"},
		StateDB: filepath.Join(home, ".fstool", "plugins.db"),
	}
}

// Validate checks PluginsOptions fields.
func (o *PluginsOptions) Validate() []error {
	var errs []error

	if len(o.Paths) == 0 {
		errs = append(errs, fmt.Errorf("at least one plugin search path is required"))
	}
	for _, path := range o.Paths {
		if path == "" {
			errs = append(errs, fmt.Errorf("plugin search path must not be empty"))
		}
	}
	if o.StateDB == "" {
		errs = append(errs, fmt.Errorf("plugin state database path must not be empty"))
	}

	return errs
}

// AddFlags adds flags for the plugins options.
func (o *PluginsOptions) AddFlags(fs *pflag.FlagSet) {
	fs.StringSliceVar(&o.Paths, "plugin-path", o.Paths, "Directories scanned for plugin definitions.")
	fs.StringSliceVar(&o.Disable, "disable-plugin", o.Disable, "Plugin ids that must not be enabled.")
	fs.StringVar(&o.StateDB, "state-db", o.StateDB, "Bolt database file persisting plugin enablement state.")
}
