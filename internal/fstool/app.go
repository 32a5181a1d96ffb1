package fstool

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jmrbcu/fstool/internal/fstool/store/boltdb"
	"github.com/jmrbcu/fstool/internal/pkg/options"
	"github.com/jmrbcu/fstool/internal/plugin"
	"github.com/jmrbcu/fstool/pkg/logger"
)

// ArgumentsExtensionPoint is the application-owned extension point plugins
// extend to contribute commands. Contributions are *cobra.Command values.
const ArgumentsExtensionPoint = "application.arguments"

// App owns the plugin host for one fstool invocation: it boots the plugin
// pipeline and mounts the contributed commands onto the root command.
type App struct {
	opts    *options.PluginsOptions
	manager *plugin.Manager
	store   *boltdb.StateStore
	db      *boltdb.DB
	out     io.Writer
}

// NewApp creates the application around an in-tree definitions catalog and
// the resolved plugin options.
func NewApp(catalog *plugin.Catalog, opts *options.PluginsOptions, out io.Writer) *App {
	cfg := &plugin.Config{
		SearchPaths: opts.Paths,
		Catalog:     catalog,
	}
	return &App{
		opts:    opts,
		manager: cfg.Complete().New(),
		out:     out,
	}
}

// Manager returns the plugin host.
func (a *App) Manager() *plugin.Manager {
	return a.manager
}

// Store returns the plugin state store. It is available after Bootstrap.
func (a *App) Store() *boltdb.StateStore {
	return a.store
}

// Close releases the state database.
func (a *App) Close() error {
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}

// Bootstrap runs the plugin pipeline: it registers the application-owned
// extension point and default commands, scaffolds definition manifests for
// the bundled units, merges the persisted enablement overrides with the
// configured disable list and drives discovery, configuration and
// enablement in dependency order.
func (a *App) Bootstrap() error {
	point := plugin.NewExtensionPoint(ArgumentsExtensionPoint)
	if err := a.manager.RegisterExtensionPoint(point); err != nil {
		return err
	}
	err := a.manager.RegisterExtender(plugin.Extender{
		Name:   "application.defaults",
		Target: ArgumentsExtensionPoint,
		Func:   a.defaultCommands,
	})
	if err != nil {
		return err
	}

	if len(a.opts.Paths) > 0 {
		if err := ScaffoldManifests(a.opts.Paths[0], a.manager.Catalog()); err != nil {
			logger.Warn("[fstool] could not scaffold bundled plugin manifests: %v", err)
		}
	}

	disabled := append([]string{}, a.opts.Disable...)
	db, err := boltdb.Open(a.opts.StateDB)
	if err != nil {
		logger.Warn("[fstool] plugin state database unavailable: %v", err)
	} else {
		a.db = db
		a.store = boltdb.NewStateStore(db)
		stored, err := a.store.DisabledIDs()
		if err != nil {
			return err
		}
		disabled = append(disabled, stored...)
	}

	if err := a.manager.FindPlugins(disabled...); err != nil {
		return err
	}
	if err := a.manager.ConfigurePlugins(); err != nil {
		return err
	}
	return a.manager.EnablePlugins(nil)
}

// Mount attaches every command contributed through the arguments extension
// point to the root command. Two contributions under the same command name
// are a configuration error.
func (a *App) Mount(root *cobra.Command) error {
	contributions, err := a.manager.Contributions(ArgumentsExtensionPoint)
	if err != nil {
		return err
	}

	seen := make(map[string]bool, len(contributions))
	for _, existing := range root.Commands() {
		seen[existing.Name()] = true
	}
	for _, item := range contributions {
		command, ok := item.(*cobra.Command)
		if !ok {
			return fmt.Errorf("contribution to %s is %T, want *cobra.Command",
				ArgumentsExtensionPoint, item)
		}
		if seen[command.Name()] {
			return fmt.Errorf("we have a command with the same name: %s", command.Name())
		}
		seen[command.Name()] = true
		root.AddCommand(command)
	}
	return nil
}

// defaultCommands contributes the application's built-in commands.
func (a *App) defaultCommands() ([]plugin.Contribution, error) {
	list := &cobra.Command{
		Use:   "list [path]",
		Short: "list a directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "."
			if len(args) > 0 {
				path = args[0]
			}
			return a.list(path)
		},
	}

	listPlugins := &cobra.Command{
		Use:   "list-plugins",
		Short: "list all available plugins (not including disabled ones)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.listPlugins()
		},
	}

	return []plugin.Contribution{list, listPlugins}, nil
}

func (a *App) list(path string) error {
	entries, err := os.ReadDir(path)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		fmt.Fprintln(a.out, filepath.Join(path, entry.Name()))
	}
	return nil
}

func (a *App) listPlugins() error {
	plugins, err := a.manager.Plugins()
	if err != nil {
		return err
	}
	for _, p := range plugins {
		desc := p.Descriptor()
		fmt.Fprintf(a.out, "%s: %s\n", desc.Name, desc.Description)
		fmt.Fprintf(a.out, "Dependencies: %v\n\n", desc.Depends)
	}
	return nil
}
