package plugin

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func staticExtender(name, target string, items ...Contribution) Extender {
	return Extender{
		Name:   name,
		Target: target,
		Func: func() ([]Contribution, error) {
			return items, nil
		},
	}
}

func TestContributionsConcatenateInRegistrationOrder(t *testing.T) {
	point := NewExtensionPoint("commands")
	point.addExtender(staticExtender("p1.cmds", "commands", "a", "b"))
	point.addExtender(staticExtender("p2.cmds", "commands", "c"))

	items, err := point.Contributions()
	require.NoError(t, err)
	assert.Equal(t, []Contribution{"a", "b", "c"}, items)
}

func TestContributionsAreCachedUntilInvalidated(t *testing.T) {
	calls := 0
	point := NewExtensionPoint("commands")
	point.addExtender(Extender{
		Name:   "p1.cmds",
		Target: "commands",
		Func: func() ([]Contribution, error) {
			calls++
			return []Contribution{"a"}, nil
		},
	})

	first, err := point.Contributions()
	require.NoError(t, err)
	second, err := point.Contributions()
	require.NoError(t, err)

	assert.Equal(t, 1, calls, "extenders run once until invalidated")
	// The cached slice is returned identically, not a fresh evaluation.
	assert.Same(t, &first[0], &second[0])

	point.Invalidate()
	_, err = point.Contributions()
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestContributionsAbortOnExtenderFailure(t *testing.T) {
	good := 0
	point := NewExtensionPoint("commands")
	point.addExtender(Extender{
		Name:   "good",
		Target: "commands",
		Func: func() ([]Contribution, error) {
			good++
			return []Contribution{"a"}, nil
		},
	})
	point.addExtender(Extender{
		Name:   "bad",
		Target: "commands",
		Func: func() ([]Contribution, error) {
			return nil, errors.New("boom")
		},
	})

	_, err := point.Contributions()
	require.ErrorIs(t, err, ErrExtenderContract)

	// No partial cache: fixing nothing, a retry re-invokes the good extender.
	_, err = point.Contributions()
	require.ErrorIs(t, err, ErrExtenderContract)
	assert.Equal(t, 2, good)
}

func TestAddExtenderIsIdempotentByName(t *testing.T) {
	point := NewExtensionPoint("commands")
	point.addExtender(staticExtender("p1.cmds", "commands", "a"))
	point.addExtender(staticExtender("p1.cmds", "commands", "duplicate"))

	items, err := point.Contributions()
	require.NoError(t, err)
	assert.Equal(t, []Contribution{"a"}, items)
	assert.Len(t, point.Extenders(), 1)
}

func TestRemoveExtenderInvalidatesCache(t *testing.T) {
	point := NewExtensionPoint("commands")
	point.addExtender(staticExtender("p1.cmds", "commands", "a"))
	point.addExtender(staticExtender("p2.cmds", "commands", "b"))

	items, err := point.Contributions()
	require.NoError(t, err)
	assert.Len(t, items, 2)

	point.removeExtender("p1.cmds")
	items, err = point.Contributions()
	require.NoError(t, err)
	assert.Equal(t, []Contribution{"b"}, items)

	// Removing an absent extender is a no-op.
	point.removeExtender("ghost")
}

func TestExtensionRegistryDuplicateID(t *testing.T) {
	registry := NewExtensionRegistry()
	first := NewExtensionPoint("commands")
	first.addExtender(staticExtender("p1.cmds", "commands", "a"))

	require.NoError(t, registry.Register(first))
	err := registry.Register(NewExtensionPoint("commands"))
	require.ErrorIs(t, err, ErrDuplicateExtensionPoint)

	// The first registration keeps its extenders.
	point, ok := registry.Get("commands")
	require.True(t, ok)
	assert.Same(t, first, point)
	assert.Len(t, point.Extenders(), 1)
}

func TestExtensionRegistryRemoveIsIdempotent(t *testing.T) {
	registry := NewExtensionRegistry()
	point := NewExtensionPoint("commands")
	require.NoError(t, registry.Register(point))

	registry.Remove(point)
	registry.Remove(point)

	_, ok := registry.Get("commands")
	assert.False(t, ok)
}

func TestRegisterExtenderValidation(t *testing.T) {
	registry := NewExtensionRegistry()
	require.NoError(t, registry.Register(NewExtensionPoint("commands")))

	tests := []struct {
		name    string
		ext     Extender
		wantErr error
	}{
		{
			name:    "missing target",
			ext:     Extender{Name: "x", Func: func() ([]Contribution, error) { return nil, nil }},
			wantErr: ErrNotAnExtender,
		},
		{
			name:    "missing func",
			ext:     Extender{Name: "x", Target: "commands"},
			wantErr: ErrNotAnExtender,
		},
		{
			name:    "missing name",
			ext:     Extender{Target: "commands", Func: func() ([]Contribution, error) { return nil, nil }},
			wantErr: ErrNotAnExtender,
		},
		{
			name:    "unknown target",
			ext:     staticExtender("x", "ghost"),
			wantErr: ErrUnknownExtensionPoint,
		},
		{
			name: "valid",
			ext:  staticExtender("x", "commands", "a"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := registry.RegisterExtender(tt.ext)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRemoveExtenderSilentOnAbsence(t *testing.T) {
	registry := NewExtensionRegistry()
	require.NoError(t, registry.Register(NewExtensionPoint("commands")))

	// Neither an unknown target nor an unknown extender is an error.
	registry.RemoveExtender(staticExtender("x", "ghost"))
	registry.RemoveExtender(staticExtender("x", "commands"))
}
