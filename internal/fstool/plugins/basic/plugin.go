// Package basic ships the core filesystem commands and publishes the
// filesystem manager service the other bundled plugins build on.
package basic

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmrbcu/fstool/internal/fstool"
	"github.com/jmrbcu/fstool/internal/plugin"
	"github.com/jmrbcu/fstool/pkg/logger"
)

const (
	// PluginName is the unique identifier for this plugin.
	PluginName = "basic"

	// ArchiversExtensionPoint collects Archiver contributions; the
	// archiver plugin is the stock extender.
	ArchiversExtensionPoint = "archivers"

	// FilesystemService is the id the FileSystemManager is published
	// under. Any plugin can request it from the host by name instead of
	// importing this package.
	FilesystemService = "filesystem.manager"
)

// Definitions is the entry point of the basic definitions unit.
func Definitions(host *plugin.Manager, args plugin.Args) ([]plugin.Plugin, error) {
	return []plugin.Plugin{&basicPlugin{host: host}}, nil
}

type basicPlugin struct {
	host *plugin.Manager
}

func (p *basicPlugin) Descriptor() plugin.Descriptor {
	return plugin.Descriptor{
		ID:          PluginName,
		Name:        "Basic commands",
		Version:     "0.1",
		Description: "Basic commands",
		Platform:    "all",
		Author:      "Jon Doe",
		AuthorEmail: "jon@doe.com",
		Enabled:     true,
	}
}

func (p *basicPlugin) Configure() error {
	logger.Debug("[basic] configured")
	return nil
}

// Enable publishes the filesystem manager as a lazy service: the manager
// is built on first request, once every archiver contribution is in place.
func (p *basicPlugin) Enable() error {
	return p.host.RegisterService(FilesystemService, plugin.ServiceFactory(func() interface{} {
		archivers, err := p.archivers()
		if err != nil {
			logger.Warn("[basic] no archivers available: %v", err)
		}
		return NewFileSystemManager(archivers)
	}))
}

// ExtensionPoints declares the archivers extension point.
func (p *basicPlugin) ExtensionPoints() []*plugin.ExtensionPoint {
	return []*plugin.ExtensionPoint{plugin.NewExtensionPoint(ArchiversExtensionPoint)}
}

// Extenders contributes the touch, remove and compress commands.
func (p *basicPlugin) Extenders() []plugin.Extender {
	return []plugin.Extender{{
		Name:   "basic.commands",
		Target: fstool.ArgumentsExtensionPoint,
		Func:   p.commands,
	}}
}

func (p *basicPlugin) commands() ([]plugin.Contribution, error) {
	touch := &cobra.Command{
		Use:   "touch <filename>",
		Short: "create a new file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fsm, err := p.filesystem()
			if err != nil {
				return err
			}
			return fsm.Touch(args[0])
		},
	}

	remove := &cobra.Command{
		Use:   "remove <filename>",
		Short: "removes a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fsm, err := p.filesystem()
			if err != nil {
				return err
			}
			return fsm.Remove(args[0])
		},
	}

	compress := &cobra.Command{
		Use:   "compress <filename> <file-type>",
		Short: "compress a file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			fsm, err := p.filesystem()
			if err != nil {
				return err
			}
			return fsm.Compress(args[0], args[1])
		},
	}

	return []plugin.Contribution{touch, remove, compress}, nil
}

// filesystem fetches the published manager service.
func (p *basicPlugin) filesystem() (*FileSystemManager, error) {
	service, ok := p.host.GetService(FilesystemService)
	if !ok {
		return nil, fmt.Errorf("service %q is not registered", FilesystemService)
	}
	fsm, ok := service.(*FileSystemManager)
	if !ok {
		return nil, fmt.Errorf("service %q is %T, want *FileSystemManager", FilesystemService, service)
	}
	return fsm, nil
}

// archivers evaluates the archivers extension point into typed values.
func (p *basicPlugin) archivers() ([]Archiver, error) {
	contributions, err := p.host.Contributions(ArchiversExtensionPoint)
	if err != nil {
		return nil, err
	}
	archivers := make([]Archiver, 0, len(contributions))
	for _, item := range contributions {
		archiver, ok := item.(Archiver)
		if !ok {
			return nil, fmt.Errorf("contribution to %s is %T, want Archiver",
				ArchiversExtensionPoint, item)
		}
		archivers = append(archivers, archiver)
	}
	return archivers, nil
}
