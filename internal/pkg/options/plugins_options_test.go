package options

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPluginsOptionsDefaults(t *testing.T) {
	opts := NewPluginsOptions()

	require.Len(t, opts.Paths, 1)
	assert.Contains(t, opts.Paths[0], ".fstool")
	assert.Equal(t, []string{"dummy"}, opts.Disable)
	assert.NotEmpty(t, opts.StateDB)
	assert.Empty(t, opts.Validate())
}

func TestPluginsOptionsValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*PluginsOptions)
		errs   int
	}{
		{name: "defaults", mutate: func(o *PluginsOptions) {}, errs: 0},
		{name: "no paths", mutate: func(o *PluginsOptions) { o.Paths = nil }, errs: 1},
		{name: "empty path", mutate: func(o *PluginsOptions) { o.Paths = []string{""} }, errs: 1},
		{name: "no state db", mutate: func(o *PluginsOptions) { o.StateDB = "" }, errs: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := NewPluginsOptions()
			tt.mutate(opts)
			assert.Len(t, opts.Validate(), tt.errs)
		})
	}
}

func TestPluginsOptionsAddFlags(t *testing.T) {
	opts := NewPluginsOptions()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	opts.AddFlags(fs)

	err := fs.Parse([]string{
		"--plugin-path=/opt/fstool/plugins",
		"--disable-plugin=dummy,archiver",
		"--state-db=/tmp/plugins.db",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"/opt/fstool/plugins"}, opts.Paths)
	assert.Equal(t, []string{"dummy", "archiver"}, opts.Disable)
	assert.Equal(t, "/tmp/plugins.db", opts.StateDB)
}
