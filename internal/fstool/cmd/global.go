package cmd

import (
	"github.com/spf13/pflag"
)

var (
	globalConfigFile string
	globalVerbose    bool
)

func addGlobalFlags(flags *pflag.FlagSet) {
	flags.StringVar(&globalConfigFile,
		"config",
		"",
		"Path to the fstool configuration file (default: ~/.fstool/config.yaml)")
	flags.BoolVarP(&globalVerbose,
		"verbose",
		"v",
		false,
		"Enable debug logging")
}
