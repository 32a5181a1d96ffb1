package plugin

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// discoverFixture lays the given plugins out on disk, one definitions unit
// per plugin, named so discovery visits them in argument order, and returns
// a manager ready for FindPlugins.
func discoverFixture(t *testing.T, plugins ...*fakePlugin) *Manager {
	t.Helper()
	dir := t.TempDir()
	catalog := NewCatalog()

	for i, p := range plugins {
		p := p
		unit := fmt.Sprintf("unit%02d", i)
		catalog.MustRegister(unit, func(host *Manager, args Args) ([]Plugin, error) {
			return []Plugin{p}, nil
		})
		writeFile(t, filepath.Join(dir, fmt.Sprintf("%02d_%s", i, p.desc.ID), DefinitionsName),
			fmt.Sprintf(`{"unit": %q}`, unit))
	}
	return newTestManager(t, catalog, dir)
}

func pluginIDs(plugins []Plugin) []string {
	ids := make([]string, 0, len(plugins))
	for _, p := range plugins {
		ids = append(ids, p.Descriptor().ID)
	}
	return ids
}

func TestManagerLifecycleRunsInDependencyOrder(t *testing.T) {
	core := &fakePlugin{desc: testDescriptor("core", nil, true)}
	ext1 := &fakePlugin{desc: testDescriptor("ext1", []string{"core"}, true)}
	ext2 := &fakePlugin{desc: testDescriptor("ext2", []string{"core", "ext1"}, true)}

	// Discovered in reverse dependency order on purpose.
	m := discoverFixture(t, ext2, ext1, core)
	require.NoError(t, m.FindPlugins())

	plugins, err := m.Plugins()
	require.NoError(t, err)
	assert.Equal(t, []string{"core", "ext1", "ext2"}, pluginIDs(plugins))

	require.NoError(t, m.ConfigurePlugins())
	require.NoError(t, m.EnablePlugins(nil))

	for _, p := range []*fakePlugin{core, ext1, ext2} {
		assert.Equal(t, 1, p.configured, p.desc.ID)
		assert.Equal(t, 1, p.enabled, p.desc.ID)
	}

	deps, err := m.Dependencies("ext2", true)
	require.NoError(t, err)
	assert.Equal(t, []string{"core", "ext1", "ext2"}, deps)
}

func TestManagerEnableNotifications(t *testing.T) {
	core := &fakePlugin{desc: testDescriptor("core", nil, true)}
	ext1 := &fakePlugin{desc: testDescriptor("ext1", []string{"core"}, true)}

	m := discoverFixture(t, ext1, core)
	require.NoError(t, m.FindPlugins())
	require.NoError(t, m.ConfigurePlugins())

	var trace []string
	err := m.EnablePlugins(func(enabled bool, p Plugin) {
		if enabled {
			trace = append(trace, "after:"+p.Descriptor().ID)
		} else {
			trace = append(trace, "before:"+p.Descriptor().ID)
		}
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"before:core", "after:core", "before:ext1", "after:ext1"}, trace)
}

func TestManagerDisableCascade(t *testing.T) {
	base := &fakePlugin{desc: testDescriptor("base", nil, true)}
	child := &fakePlugin{desc: testDescriptor("child", []string{"base"}, true)}
	loner := &fakePlugin{desc: testDescriptor("loner", nil, true)}

	m := discoverFixture(t, base, child, loner)
	require.NoError(t, m.FindPlugins("base"))

	assert.Equal(t, []string{"loner"}, m.PluginIDs())
	assert.ElementsMatch(t, []string{"base", "child"}, pluginIDs(m.DisabledPlugins()))
}

func TestManagerShippedDisabledCascades(t *testing.T) {
	dormant := &fakePlugin{desc: testDescriptor("dormant", nil, false)}
	child := &fakePlugin{desc: testDescriptor("child", []string{"dormant"}, true)}

	m := discoverFixture(t, dormant, child)
	require.NoError(t, m.FindPlugins())

	assert.Empty(t, m.PluginIDs())
	assert.ElementsMatch(t, []string{"dormant", "child"}, pluginIDs(m.DisabledPlugins()))
}

func TestManagerDuplicateIDFirstWins(t *testing.T) {
	first := &fakePlugin{desc: testDescriptor("basic", nil, true)}
	second := &fakePlugin{desc: testDescriptor("basic", nil, true)}

	m := discoverFixture(t, first, second)
	require.NoError(t, m.FindPlugins())

	require.NoError(t, m.ConfigurePlugins())
	assert.Equal(t, 1, first.configured)
	assert.Equal(t, 0, second.configured)
}

func TestManagerMissingDependencyFailsDiscovery(t *testing.T) {
	orphan := &fakePlugin{desc: testDescriptor("orphan", []string{"ghost"}, true)}

	m := discoverFixture(t, orphan)
	err := m.FindPlugins()
	require.ErrorIs(t, err, ErrMissingDependency)

	_, err = m.Plugins()
	assert.ErrorIs(t, err, ErrMissingDependency)
}

func TestManagerRegistersDeclarationsAcrossDiscoveryOrder(t *testing.T) {
	// The extender is discovered before the plugin owning its target point;
	// registration must still succeed because points register first.
	contributor := &fakePlugin{
		desc: testDescriptor("contributor", []string{"host"}, true),
		extenders: []Extender{
			staticExtender("contributor.items", "app.items", "a", "b"),
		},
	}
	host := &fakePlugin{
		desc:   testDescriptor("host", nil, true),
		points: []*ExtensionPoint{NewExtensionPoint("app.items")},
	}

	m := discoverFixture(t, contributor, host)
	require.NoError(t, m.FindPlugins())

	items, err := m.Contributions("app.items")
	require.NoError(t, err)
	assert.Equal(t, []Contribution{"a", "b"}, items)
}

func TestManagerContributionsUnknownPoint(t *testing.T) {
	m := discoverFixture(t)
	require.NoError(t, m.FindPlugins())

	_, err := m.Contributions("no.such.point")
	assert.ErrorIs(t, err, ErrUnknownExtensionPoint)
}

func TestManagerServices(t *testing.T) {
	m := discoverFixture(t)

	require.NoError(t, m.RegisterService("config", map[string]string{"key": "value"}))

	err := m.RegisterService("config", "other")
	require.ErrorIs(t, err, ErrDuplicateService)

	svc, ok := m.GetService("config")
	require.True(t, ok)
	assert.Equal(t, map[string]string{"key": "value"}, svc)

	_, ok = m.GetService("absent")
	assert.False(t, ok)

	require.NoError(t, m.UnregisterService("config"))
	err = m.UnregisterService("config")
	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestManagerServiceFactoryMemoized(t *testing.T) {
	m := discoverFixture(t)

	calls := 0
	factory := ServiceFactory(func() interface{} {
		calls++
		return &struct{ n int }{n: calls}
	})
	require.NoError(t, m.RegisterService("lazy", factory))

	first, ok := m.GetService("lazy")
	require.True(t, ok)
	second, ok := m.GetService("lazy")
	require.True(t, ok)

	assert.Equal(t, 1, calls)
	assert.Same(t, first, second)
}

func TestManagerConfigureFailureAborts(t *testing.T) {
	core := &fakePlugin{desc: testDescriptor("core", nil, true)}
	bad := &fakePlugin{
		desc:        testDescriptor("bad", []string{"core"}, true),
		onConfigure: func() error { return fmt.Errorf("no config file") },
	}
	tail := &fakePlugin{desc: testDescriptor("tail", []string{"bad"}, true)}

	m := discoverFixture(t, core, bad, tail)
	require.NoError(t, m.FindPlugins())

	err := m.ConfigurePlugins()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `plugin "bad"`)
	assert.Equal(t, 1, core.configured)
	assert.Equal(t, 0, tail.configured)
}
