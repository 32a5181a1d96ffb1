package fstool_test

import (
	"bytes"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmrbcu/fstool/internal/fstool"
	"github.com/jmrbcu/fstool/internal/fstool/plugins"
	"github.com/jmrbcu/fstool/internal/fstool/store/boltdb"
	"github.com/jmrbcu/fstool/internal/pkg/options"
	"github.com/jmrbcu/fstool/internal/plugin"
)

func testOptions(t *testing.T) *options.PluginsOptions {
	t.Helper()
	dir := t.TempDir()
	return &options.PluginsOptions{
		Paths:   []string{filepath.Join(dir, "plugins")},
		Disable: []string{"dummy"},
		StateDB: filepath.Join(dir, "plugins.db"),
	}
}

func bootedApp(t *testing.T, opts *options.PluginsOptions) *fstool.App {
	t.Helper()
	app := fstool.NewApp(plugins.NewInTreeCatalog(), opts, &bytes.Buffer{})
	t.Cleanup(func() { app.Close() })
	require.NoError(t, app.Bootstrap())
	return app
}

func TestBootstrapLoadsBundledPlugins(t *testing.T) {
	opts := testOptions(t)
	app := bootedApp(t, opts)

	assert.Equal(t, []string{"archiver", "basic", "directory", "dummy_file"},
		app.Manager().PluginIDs())

	var disabled []string
	for _, p := range app.Manager().DisabledPlugins() {
		disabled = append(disabled, p.Descriptor().ID)
	}
	assert.Equal(t, []string{"dummy"}, disabled)

	// Bundled manifests were scaffolded into the search path.
	for _, unit := range []string{"basic", "directory", "archiver", "dummy", "dummy_file"} {
		_, err := os.Stat(filepath.Join(opts.Paths[0], unit, plugin.DefinitionsName))
		assert.NoError(t, err, unit)
	}
}

func TestMountContributedCommands(t *testing.T) {
	app := bootedApp(t, testOptions(t))

	root := &cobra.Command{Use: "fstool"}
	require.NoError(t, app.Mount(root))

	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	sort.Strings(names)
	assert.Equal(t, []string{"compress", "list", "list-plugins", "mkdir", "remove", "touch"}, names)

	// Mounting twice trips the duplicate command check.
	err := app.Mount(root)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "same name")
}

func TestMountRejectsCollisionWithExistingCommands(t *testing.T) {
	app := bootedApp(t, testOptions(t))

	// A command already on the root, like the built-in admin commands,
	// must not be silently shadowed by a plugin contribution.
	root := &cobra.Command{Use: "fstool"}
	root.AddCommand(&cobra.Command{Use: "touch"})

	err := app.Mount(root)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "same name: touch")
}

func TestContributedCommandsExecute(t *testing.T) {
	app := bootedApp(t, testOptions(t))

	root := &cobra.Command{Use: "fstool", SilenceUsage: true}
	require.NoError(t, app.Mount(root))

	work := t.TempDir()
	target := filepath.Join(work, "notes.txt")

	root.SetArgs([]string{"touch", target})
	require.NoError(t, root.Execute())
	_, err := os.Stat(target)
	require.NoError(t, err)

	root.SetArgs([]string{"compress", target, "zip"})
	require.NoError(t, root.Execute())
	_, err = os.Stat(filepath.Join(work, "notes.zip"))
	require.NoError(t, err)

	root.SetArgs([]string{"mkdir", filepath.Join(work, "subdir")})
	require.NoError(t, root.Execute())

	root.SetArgs([]string{"rmdir", filepath.Join(work, "subdir")})
	require.NoError(t, root.Execute())

	root.SetArgs([]string{"remove", target})
	require.NoError(t, root.Execute())
	_, err = os.Stat(target)
	assert.True(t, os.IsNotExist(err))
}

func TestStoredOverridesDisablePlugins(t *testing.T) {
	opts := testOptions(t)

	db, err := boltdb.Open(opts.StateDB)
	require.NoError(t, err)
	require.NoError(t, boltdb.NewStateStore(db).Put(boltdb.PluginState{
		ID:       "archiver",
		Disabled: true,
	}))
	require.NoError(t, db.Close())

	app := bootedApp(t, opts)
	assert.NotContains(t, app.Manager().PluginIDs(), "archiver")
}

func TestListPluginsOutput(t *testing.T) {
	opts := testOptions(t)
	out := &bytes.Buffer{}
	app := fstool.NewApp(plugins.NewInTreeCatalog(), opts, out)
	defer app.Close()
	require.NoError(t, app.Bootstrap())

	root := &cobra.Command{Use: "fstool"}
	require.NoError(t, app.Mount(root))

	root.SetArgs([]string{"list-plugins"})
	require.NoError(t, root.Execute())

	assert.Contains(t, out.String(), "Basic commands: Basic commands")
	assert.Contains(t, out.String(), "Directory commands: Directory related commands")
	assert.NotContains(t, out.String(), "Just a dummy plugin\n")
}
