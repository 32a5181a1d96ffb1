package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/jmrbcu/fstool/internal/fstool"
	cmdplugins "github.com/jmrbcu/fstool/internal/fstool/cmd/plugins"
	"github.com/jmrbcu/fstool/internal/fstool/plugins"
	"github.com/jmrbcu/fstool/internal/pkg/options"
	"github.com/jmrbcu/fstool/pkg/logger"
	"github.com/jmrbcu/fstool/pkg/utils/templates"
	"github.com/jmrbcu/fstool/pkg/version"
)

// NewDefaultFSToolCommand creates the `fstool` command with default arguments.
func NewDefaultFSToolCommand() *cobra.Command {
	return NewFSToolCommand(os.Stdin, os.Stdout, os.Stderr, os.Args[1:])
}

// NewFSToolCommand builds the fstool command tree. The plugin pipeline runs
// before the tree is final because plugins contribute the commands
// themselves; the plugin flags are pre-parsed from args for that reason.
func NewFSToolCommand(in io.Reader, out, errOut io.Writer, args []string) *cobra.Command {
	opts := options.NewPluginsOptions()

	cmds := &cobra.Command{
		Use:   "fstool",
		Short: "fstool is an extensible filesystem toolbox",
		Long: templates.LongDesc(fmt.Sprintf(`%s
			fstool is a filesystem toolbox assembled from plugins.

			Every command besides this help is contributed by a plugin through
			the application.arguments extension point. Drop new plugin
			definitions into a search path to extend the tool; manage them
			with the plugins command group.`, Banner())),
		Run:          runHelp,
		SilenceUsage: true,
	}

	flags := cmds.PersistentFlags()
	addGlobalFlags(flags)
	opts.AddFlags(flags)
	_ = viper.BindPFlags(flags)

	preParse(flags, args)
	if globalVerbose {
		logger.SetVerbose(true)
	}
	if err := LoadConfig(globalConfigFile, flags, opts); err != nil {
		logger.Warn("[fstool] could not load configuration: %v", err)
	}
	if errs := opts.Validate(); len(errs) > 0 {
		for _, err := range errs {
			logger.Error("[fstool] invalid plugin options: %v", err)
		}
	}

	app := fstool.NewApp(plugins.NewInTreeCatalog(), opts, out)
	// Plugins may hold resources open; release them after the executed
	// command returns.
	cmds.PersistentPostRunE = func(*cobra.Command, []string) error {
		return app.Close()
	}

	// Built-in commands go in first so a plugin contributing a command
	// with the same name is rejected by Mount instead of colliding.
	cmds.AddCommand(cmdplugins.NewCmdPlugins(app, out))
	cmds.AddCommand(newCmdVersion(out))

	if err := app.Bootstrap(); err != nil {
		logger.Error("[fstool] plugin bootstrap failed: %v", err)
	} else if err := app.Mount(cmds); err != nil {
		logger.Error("[fstool] could not mount plugin commands: %v", err)
	}

	return cmds
}

// preParse parses the global and plugin flags ahead of cobra's own pass so
// their values can steer plugin discovery. Unknown flags belong to
// contributed subcommands and are ignored here.
func preParse(flags *pflag.FlagSet, args []string) {
	flags.ParseErrorsWhitelist.UnknownFlags = true
	if err := flags.Parse(args); err != nil {
		logger.Debug("[fstool] flag pre-parse: %v", err)
	}
}

func newCmdVersion(out io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the fstool version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			info := version.Get()
			fmt.Fprintf(out, "fstool %s (%s, built %s, %s %s)\n",
				info.GitVersion, info.GitCommit, info.BuildDate, info.GoVersion, info.Platform)
		},
	}
}

func runHelp(cmd *cobra.Command, args []string) {
	_ = cmd.Help()
}
