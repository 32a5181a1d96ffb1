package cmd

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/jmrbcu/fstool/internal/pkg/options"
	"github.com/jmrbcu/fstool/pkg/logger"
)

// LoadConfig reads the fstool configuration file and overlays its plugins
// section onto the options. Flags set explicitly on the command line win
// over the file, so only keys whose flags are untouched are overlaid.
// With an empty path the default locations are searched and a missing file
// is not an error; an explicit path must exist.
func LoadConfig(path string, flags *pflag.FlagSet, opts *options.PluginsOptions) error {
	if path != "" {
		viper.SetConfigFile(path)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(filepath.Join(home, ".fstool"))
		}
		viper.AddConfigPath(".")
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("FSTOOL")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); notFound && path == "" {
			return nil
		}
		return err
	}
	logger.Debug("[fstool] using config file: %s", viper.ConfigFileUsed())

	var fromFile options.PluginsOptions
	if err := viper.UnmarshalKey("plugins", &fromFile); err != nil {
		return err
	}

	if !flags.Changed("plugin-path") && len(fromFile.Paths) > 0 {
		opts.Paths = fromFile.Paths
	}
	if !flags.Changed("disable-plugin") && fromFile.Disable != nil {
		opts.Disable = fromFile.Disable
	}
	if !flags.Changed("state-db") && fromFile.StateDB != "" {
		opts.StateDB = fromFile.StateDB
	}
	return nil
}
