// Package directory contributes directory commands on top of the
// filesystem service published by the basic plugin.
package directory

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmrbcu/fstool/internal/fstool"
	"github.com/jmrbcu/fstool/internal/fstool/plugins/basic"
	"github.com/jmrbcu/fstool/internal/plugin"
)

// PluginName is the unique identifier for this plugin.
const PluginName = "directory"

// Definitions is the entry point of the directory definitions unit.
func Definitions(host *plugin.Manager, args plugin.Args) ([]plugin.Plugin, error) {
	return []plugin.Plugin{&directoryPlugin{host: host}}, nil
}

type directoryPlugin struct {
	host *plugin.Manager
}

func (p *directoryPlugin) Descriptor() plugin.Descriptor {
	return plugin.Descriptor{
		ID:          PluginName,
		Name:        "Directory commands",
		Version:     "0.1",
		Description: "Directory related commands",
		Platform:    "all",
		Author:      "Jon Doe",
		AuthorEmail: "jon@doe.com",
		Depends:     []string{basic.PluginName},
		Enabled:     true,
	}
}

func (p *directoryPlugin) Configure() error { return nil }

func (p *directoryPlugin) Enable() error { return nil }

// Extenders contributes the mkdir and rmdir commands.
func (p *directoryPlugin) Extenders() []plugin.Extender {
	return []plugin.Extender{{
		Name:   "directory.commands",
		Target: fstool.ArgumentsExtensionPoint,
		Func:   p.commands,
	}}
}

func (p *directoryPlugin) commands() ([]plugin.Contribution, error) {
	mkdir := &cobra.Command{
		Use:   "mkdir <path>",
		Short: "create a new directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fsm, err := p.filesystem()
			if err != nil {
				return err
			}
			return fsm.Mkdir(args[0])
		},
	}

	rmdir := &cobra.Command{
		Use:   "rmdir <path>",
		Short: "removes a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fsm, err := p.filesystem()
			if err != nil {
				return err
			}
			return fsm.Rmdir(args[0])
		},
	}

	return []plugin.Contribution{mkdir, rmdir}, nil
}

func (p *directoryPlugin) filesystem() (*basic.FileSystemManager, error) {
	service, ok := p.host.GetService(basic.FilesystemService)
	if !ok {
		return nil, fmt.Errorf("service %q is not registered", basic.FilesystemService)
	}
	fsm, ok := service.(*basic.FileSystemManager)
	if !ok {
		return nil, fmt.Errorf("service %q is %T, want *basic.FileSystemManager",
			basic.FilesystemService, service)
	}
	return fsm, nil
}
