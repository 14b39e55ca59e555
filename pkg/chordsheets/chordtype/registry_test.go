package chordtype

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAliasesResolveToSameType(t *testing.T) {
	r := New()
	for _, ct := range r.All() {
		byKey, ok := r.Get(ct.Key())
		require.True(t, ok, ct.Key())

		for _, alias := range ct.Aliases {
			byAlias, ok := r.Get(alias)
			require.True(t, ok, alias)
			assert.Equal(t, byKey.Intervals, byAlias.Intervals, "alias %q of %q", alias, ct.Key())
		}
	}
}

func TestEmptyQualityIsMajor(t *testing.T) {
	r := New()
	assert.True(t, r.Has(""))

	ct, ok := r.Get("")
	require.True(t, ok)
	assert.Equal(t, "major", ct.Name)
	assert.Equal(t, []int{0, 4, 7}, ct.Semitones())
}

func TestLookupIsCaseSensitive(t *testing.T) {
	r := New()
	maj, ok := r.Get("M7")
	require.True(t, ok)
	min, ok := r.Get("m7")
	require.True(t, ok)

	assert.Equal(t, "major seventh", maj.Name)
	assert.Equal(t, "minor seventh", min.Name)
}

func TestExtendAppendsAliases(t *testing.T) {
	r := New()
	base, ok := r.Get("M7")
	require.True(t, ok)

	ext, err := r.Extend("M7", Extension{Aliases: []string{"7M"}})
	require.NoError(t, err)

	assert.Equal(t, base.Name, ext.Name)
	assert.Equal(t, base.Intervals, ext.Intervals)
	assert.Equal(t, append(base.Aliases, "7M"), ext.Aliases, "base aliases first, extension appended")
	assert.False(t, r.Has("7M"), "Extend must not register")
}

func TestExtendOverridesFields(t *testing.T) {
	r := New()
	ext, err := r.Extend("sus4", Extension{
		Name:      "suspended fourth add nine",
		Intervals: []string{"1P", "4P", "5P", "9M"},
		Aliases:   []string{"sus4", "sus4add9b"},
	})
	require.NoError(t, err)

	assert.Equal(t, "suspended fourth add nine", ext.Name)
	assert.Equal(t, []string{"1P", "4P", "5P", "9M"}, ext.Intervals)
	assert.Equal(t, []string{"sus4", "sus", "sus4", "sus4add9b"}, ext.Aliases, "duplicates are kept")
}

func TestExtendUnknownBaseIsConfigError(t *testing.T) {
	r := New()
	before := r.Len()

	_, err := r.Extend("nonexistent", Extension{})
	require.Error(t, err)

	var cfgErr *ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "nonexistent", cfgErr.Base)
	assert.ErrorIs(t, err, ErrUnknownChordType)
	assert.Contains(t, err.Error(), "nonexistent")
	assert.Equal(t, before, r.Len())
}

func TestApplyIsAllOrNothing(t *testing.T) {
	r := New()
	before := r.Len()

	err := r.Apply([]Custom{
		{Extends: "M7", Extension: Extension{Aliases: []string{"7M"}}},
		{Extends: "missing", Extension: Extension{Aliases: []string{"zz"}}},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownChordType)
	assert.False(t, r.Has("7M"), "first entry must not leak into the registry")
	assert.Equal(t, before, r.Len())
}

func TestApplyRenamingExtensionReplacesBase(t *testing.T) {
	r := New()
	before := r.Len()

	err := r.Apply([]Custom{{
		Extends: "M7",
		Extension: Extension{
			Name:      "major seven nine",
			Intervals: []string{"1P", "3M", "5P", "7M", "9M"},
		},
	}})
	require.NoError(t, err)
	assert.Equal(t, before, r.Len())
	assert.False(t, r.Has("major seventh"), "old name is gone")

	for _, ct := range r.All() {
		for _, key := range append([]string{ct.Name}, ct.Aliases...) {
			if key == "" {
				continue
			}
			got, ok := r.Get(key)
			require.True(t, ok, key)
			assert.Equal(t, ct.Intervals, got.Intervals, "%q of %q", key, ct.Key())
		}
	}

	for _, alias := range []string{"maj7", "M7", "Δ"} {
		got, ok := r.Get(alias)
		require.True(t, ok, alias)
		assert.Equal(t, "major seven nine", got.Name, alias)
	}
}

func TestApplyPreconfigured(t *testing.T) {
	r := New()
	before := r.Len()
	require.NoError(t, r.Apply(Preconfigured()))

	aug, ok := r.Get("7(5+)")
	require.True(t, ok)
	orig, _ := New().Get("7#5")
	assert.Equal(t, orig.Intervals, aug.Intervals)
	for _, alias := range []string{"7#5", "+7", "7(5+)", "7(+5)", "7+5"} {
		assert.True(t, r.Has(alias), alias)
	}

	maj7, ok := r.Get("7M")
	require.True(t, ok)
	assert.Equal(t, "major seventh", maj7.Name)
	assert.Subset(t, maj7.Aliases, []string{"maj7", "M7", "7M"})

	m9, ok := r.Get("m7(9)")
	require.True(t, ok)
	assert.Equal(t, "minor ninth", m9.Name)

	sus, ok := r.Get("sus4#5")
	require.True(t, ok)
	assert.Equal(t, "suspended four sharp five", sus.Name)
	assert.Equal(t, []int{0, 5, 8}, sus.Semitones())
	bySecondAlias, ok := r.Get("4(5+)")
	require.True(t, ok)
	assert.Equal(t, sus, bySecondAlias)

	// three extensions replace their base entries, one definition is new
	assert.Equal(t, before+1, r.Len())
}

func TestRegisterRejectsInvalidTypes(t *testing.T) {
	r := New()
	assert.ErrorIs(t, r.Register(ChordType{Intervals: []string{"1P"}}), ErrInvalidChordType)
	assert.ErrorIs(t, r.Register(ChordType{Name: "empty"}), ErrInvalidChordType)
	assert.ErrorIs(t, r.Register(ChordType{Name: "bad", Intervals: []string{"3P"}}), ErrInvalidChordType)
}

func TestGetReturnsCopies(t *testing.T) {
	r := New()
	ct, ok := r.Get("m7")
	require.True(t, ok)
	ct.Aliases[0] = "mutated"

	again, _ := r.Get("m7")
	assert.Equal(t, "m7", again.Aliases[0])
}

func TestRegisterCustomChordTypesIsIdempotent(t *testing.T) {
	require.NoError(t, RegisterCustomChordTypes())
	n := Default().Len()
	require.NoError(t, RegisterCustomChordTypes())

	assert.True(t, IsInitialized())
	assert.Equal(t, n, Default().Len())
	assert.True(t, Default().Has("7M"))
	assert.True(t, Default().Has("sus4#5"))
}

func TestLoadCustomTypes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chord_types.yaml")
	doc := `chord_types:
  - extends: m7b5
    aliases: ["m7(b5)", "min7b5"]
  - name: mu major
    intervals: [1P, 2M, 3M, 5P]
    aliases: [mu, add2sus]
  - extends: mu major
    aliases: [mu2]
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	customs, err := LoadCustomTypes(path)
	require.NoError(t, err)
	require.Len(t, customs, 3)
	assert.Equal(t, "m7b5", customs[0].Extends)
	assert.Equal(t, []string{"m7(b5)", "min7b5"}, customs[0].Aliases)

	r := New()
	require.NoError(t, r.Apply(customs))

	half, ok := r.Get("m7(b5)")
	require.True(t, ok)
	assert.Equal(t, "half-diminished", half.Name)

	mu, ok := r.Get("mu2")
	require.True(t, ok)
	assert.Equal(t, []string{"mu", "add2sus", "mu2"}, mu.Aliases)
}

func TestLoadCustomTypesErrors(t *testing.T) {
	_, err := LoadCustomTypes(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = ParseCustomTypes([]byte("chord_types: [unclosed"))
	assert.Error(t, err)
}

func TestCloneIsIndependent(t *testing.T) {
	r := New()
	c := r.Clone()
	require.NoError(t, c.Apply(Preconfigured()))

	assert.True(t, c.Has("7M"))
	assert.False(t, r.Has("7M"))
	assert.Equal(t, r.Len()+1, c.Len())
}
