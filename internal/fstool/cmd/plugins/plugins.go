// Package plugins implements the `fstool plugins` administration commands.
package plugins

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"github.com/jmrbcu/fstool/internal/fstool"
	"github.com/jmrbcu/fstool/internal/fstool/store/boltdb"
	"github.com/jmrbcu/fstool/internal/plugin"
	"github.com/jmrbcu/fstool/pkg/utils/templates"
)

// NewCmdPlugins creates the `plugins` command group.
func NewCmdPlugins(app *fstool.App, out io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plugins",
		Short: "Manage fstool plugins",
		Long: templates.LongDesc(`
			Inspect and manage the plugins discovered in the search paths.

			Enablement changes are persisted in the plugin state database and
			take effect on the next run.`),
		Run: func(cmd *cobra.Command, args []string) {
			_ = cmd.Help()
		},
	}

	cmd.AddCommand(newCmdList(app, out))
	cmd.AddCommand(newCmdEnable(app, out))
	cmd.AddCommand(newCmdDisable(app, out))
	cmd.AddCommand(newCmdWatch(app, out))
	return cmd
}

func newCmdList(app *fstool.App, out io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List discovered plugins and their status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			enabled, err := app.Manager().Plugins()
			if err != nil {
				return err
			}

			table := uitable.New()
			table.AddRow("ID", "NAME", "VERSION", "STATUS", "DEPENDS")
			for _, p := range enabled {
				desc := p.Descriptor()
				table.AddRow(desc.ID, desc.Name, desc.Version,
					color.GreenString("enabled"), strings.Join(desc.Depends, ", "))
			}
			for _, p := range app.Manager().DisabledPlugins() {
				desc := p.Descriptor()
				table.AddRow(desc.ID, desc.Name, desc.Version,
					color.RedString("disabled"), strings.Join(desc.Depends, ", "))
			}

			fmt.Fprintln(out, table)
			return nil
		},
	}
}

func newCmdEnable(app *fstool.App, out io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "enable <id>",
		Short: "Enable a plugin on the next run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := stateStore(app)
			if err != nil {
				return err
			}
			// Dropping the override reverts the plugin to its shipped
			// default, which is enabled for every bundled plugin.
			if err := store.Delete(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(out, "plugin %q enabled, restart fstool to load it\n", args[0])
			return nil
		},
	}
}

func newCmdDisable(app *fstool.App, out io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "disable <id>",
		Short: "Disable a plugin on the next run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := stateStore(app)
			if err != nil {
				return err
			}
			if err := store.Put(boltdb.PluginState{ID: args[0], Disabled: true}); err != nil {
				return err
			}
			fmt.Fprintf(out, "plugin %q disabled, plugins depending on it will not load\n", args[0])
			return nil
		},
	}
}

func newCmdWatch(app *fstool.App, out io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Watch the search paths for plugin definition changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			watcher, err := plugin.NewWatcher(app.Manager().SearchPaths())
			if err != nil {
				return err
			}
			defer watcher.Close()

			stop := make(chan os.Signal, 1)
			signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
			defer signal.Stop(stop)

			fmt.Fprintln(out, "watching for plugin definition changes, press Ctrl+C to stop")
			for {
				select {
				case event, ok := <-watcher.Events():
					if !ok {
						return nil
					}
					fmt.Fprintf(out, "%s %s\n", event.Op, event.Path)
				case <-stop:
					return nil
				}
			}
		},
	}
}

func stateStore(app *fstool.App) (*boltdb.StateStore, error) {
	store := app.Store()
	if store == nil {
		return nil, fmt.Errorf("plugin state database is not available")
	}
	return store, nil
}
