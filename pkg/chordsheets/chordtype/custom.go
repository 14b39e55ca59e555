package chordtype

import (
	"fmt"
	"os"
	"sync"
	"sync/atomic"

	"gopkg.in/yaml.v3"
)

// Custom describes one custom chord type: an extension of an existing type
// when Extends is set, otherwise a brand-new definition.
type Custom struct {
	Extends   string `yaml:"extends,omitempty"`
	Extension `yaml:",inline"`
}

// Resolve computes the chord type the custom entry describes against r.
func (c Custom) Resolve(r *Registry) (ChordType, error) {
	if c.Extends != "" {
		return r.Extend(c.Extends, c.Extension)
	}
	t := ChordType{Name: c.Name, Intervals: c.Intervals, Aliases: c.Aliases}
	if err := t.validate(); err != nil {
		return ChordType{}, err
	}
	return t, nil
}

// Preconfigured returns the custom chord types every registry carries on
// top of the base dictionary.
func Preconfigured() []Custom {
	return []Custom{
		{Extends: "7#5", Extension: Extension{Aliases: []string{"7(5+)", "7(+5)", "7+5"}}},
		{Extends: "M7", Extension: Extension{Aliases: []string{"7M"}}},
		{Extends: "m9", Extension: Extension{Aliases: []string{"m7(9)"}}},
		{Extension: Extension{
			Name:      "suspended four sharp five",
			Intervals: []string{"1P", "4P", "5A"},
			Aliases:   []string{"sus4#5", "4(5+)"},
		}},
	}
}

// Apply resolves every custom entry before registering any of them, so a
// configuration error leaves the registry untouched. Entries may extend
// types introduced by earlier entries in the same list.
func (r *Registry) Apply(customs []Custom) error {
	staged := r.snapshot()
	for _, c := range customs {
		t, err := c.Resolve(staged)
		if err != nil {
			return err
		}
		if c.Extends != "" {
			// An extension modifies its base in place, even when renamed.
			if err := t.validate(); err != nil {
				return err
			}
			staged.put(staged.index[c.Extends], t)
			continue
		}
		if err := staged.Register(t); err != nil {
			return err
		}
	}
	r.types, r.index = staged.types, staged.index
	return nil
}

// Clone returns an independent copy of r.
func (r *Registry) Clone() *Registry {
	return r.snapshot()
}

func (r *Registry) snapshot() *Registry {
	s := &Registry{
		types: make([]ChordType, len(r.types)),
		index: make(map[string]int, len(r.index)),
	}
	for i, t := range r.types {
		s.types[i] = t.clone()
	}
	for k, v := range r.index {
		s.index[k] = v
	}
	return s
}

// ------------------------ Process-wide registry ------------------------

var (
	defaultRegistry = New()
	registerOnce    sync.Once
	registerErr     error
	initialized     atomic.Bool
)

// Default returns the process-wide registry used by the tokenizer and the
// transposer.
func Default() *Registry {
	return defaultRegistry
}

// RegisterCustomChordTypes registers the preconfigured custom chord types
// into the default registry. It runs once per process; later calls return
// the first result. Callers must treat an error as fatal.
func RegisterCustomChordTypes() error {
	registerOnce.Do(func() {
		registerErr = defaultRegistry.Apply(Preconfigured())
		if registerErr == nil {
			initialized.Store(true)
		}
	})
	return registerErr
}

// IsInitialized reports whether RegisterCustomChordTypes has completed
// successfully.
func IsInitialized() bool {
	return initialized.Load()
}

// ------------------------ YAML configuration ------------------------

type customFile struct {
	ChordTypes []Custom `yaml:"chord_types"`
}

// ParseCustomTypes decodes a YAML document with a top-level chord_types list.
func ParseCustomTypes(data []byte) ([]Custom, error) {
	var f customFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing chord types: %w", err)
	}
	return f.ChordTypes, nil
}

// LoadCustomTypes reads custom chord types from a YAML file.
func LoadCustomTypes(path string) ([]Custom, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading chord types file: %w", err)
	}
	return ParseCustomTypes(data)
}
