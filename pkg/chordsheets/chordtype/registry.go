// Package chordtype holds the chord-symbol knowledge base: chord types with
// their interval sets and every alias spelling they are written with.
//
// The process-wide default registry is written once at startup by
// RegisterCustomChordTypes and only read afterwards. Registration must
// happen before any tokenization; the registry does no locking of its own.
package chordtype

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/himanishpuri/ChordSheets/pkg/chordsheets/note"
)

var (
	// ErrUnknownChordType is wrapped by ConfigError when an extension names
	// a base type that does not exist.
	ErrUnknownChordType = errors.New("unknown chord type")

	// ErrInvalidChordType reports a definition without a name or alias, or
	// with unparseable intervals.
	ErrInvalidChordType = errors.New("invalid chord type")
)

// ConfigError is a fatal startup error: a custom chord type extends a base
// type that is not in the registry.
type ConfigError struct {
	Base string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("chordtype: cannot extend %q: %v", e.Base, ErrUnknownChordType)
}

func (e *ConfigError) Unwrap() error { return ErrUnknownChordType }

// ChordType is a named interval set with its alias spellings. Aliases are
// case-sensitive: "M7" and "m7" are different chords.
type ChordType struct {
	Name      string   `json:"name" yaml:"name"`
	Intervals []string `json:"intervals" yaml:"intervals"`
	Aliases   []string `json:"aliases" yaml:"aliases"`
}

// Key is the registry identity of the type: its name, or its first alias
// for unnamed types.
func (t ChordType) Key() string {
	if t.Name != "" {
		return t.Name
	}
	if len(t.Aliases) > 0 {
		return t.Aliases[0]
	}
	return ""
}

// Symbol is the shortest conventional suffix for the type.
func (t ChordType) Symbol() string {
	if len(t.Aliases) > 0 {
		return t.Aliases[0]
	}
	return t.Name
}

// Semitones returns the interval set as semitone offsets from the root.
func (t ChordType) Semitones() []int {
	out := make([]int, 0, len(t.Intervals))
	for _, s := range t.Intervals {
		if iv, err := note.ParseInterval(s); err == nil {
			out = append(out, iv.Semitones())
		}
	}
	return out
}

func (t ChordType) clone() ChordType {
	return ChordType{
		Name:      t.Name,
		Intervals: slices.Clone(t.Intervals),
		Aliases:   slices.Clone(t.Aliases),
	}
}

func (t ChordType) validate() error {
	if t.Key() == "" {
		return fmt.Errorf("chordtype: %w: no name or alias", ErrInvalidChordType)
	}
	if len(t.Intervals) == 0 {
		return fmt.Errorf("chordtype: %w: %q has no intervals", ErrInvalidChordType, t.Key())
	}
	for _, s := range t.Intervals {
		if _, err := note.ParseInterval(s); err != nil {
			return fmt.Errorf("chordtype: %w: %q: %v", ErrInvalidChordType, t.Key(), err)
		}
	}
	return nil
}

// Registry indexes chord types by name and alias.
type Registry struct {
	types []ChordType
	index map[string]int
}

// New returns a registry loaded with the base chord dictionary.
func New() *Registry {
	r := &Registry{index: make(map[string]int, len(baseTypes)*4)}
	for _, entry := range baseTypes {
		t := ChordType{
			Name:      entry[1],
			Intervals: strings.Fields(entry[0]),
			Aliases:   strings.Fields(entry[2]),
		}
		if err := r.Register(t); err != nil {
			panic(fmt.Sprintf("chordtype: bad base entry %q: %v", t.Key(), err))
		}
	}
	return r
}

// Get resolves a chord type by name or alias. The empty quality is the
// major triad.
func (r *Registry) Get(nameOrAlias string) (ChordType, bool) {
	if nameOrAlias == "" {
		nameOrAlias = "major"
	}
	idx, ok := r.index[nameOrAlias]
	if !ok {
		return ChordType{}, false
	}
	return r.types[idx].clone(), true
}

// Has reports whether the quality resolves to a chord type.
func (r *Registry) Has(nameOrAlias string) bool {
	if nameOrAlias == "" {
		return true
	}
	_, ok := r.index[nameOrAlias]
	return ok
}

// All returns every registered type in registration order.
func (r *Registry) All() []ChordType {
	out := make([]ChordType, len(r.types))
	for i, t := range r.types {
		out[i] = t.clone()
	}
	return out
}

// Len returns the number of registered types.
func (r *Registry) Len() int { return len(r.types) }

// Register adds a type, indexing it under its name and every alias. A type
// with the same key as an existing entry replaces that entry. Later
// registrations win alias collisions.
func (r *Registry) Register(t ChordType) error {
	if err := t.validate(); err != nil {
		return err
	}
	idx, exists := r.index[t.Key()]
	if !exists || r.types[idx].Key() != t.Key() {
		idx = len(r.types)
		r.types = append(r.types, ChordType{})
	}
	r.put(idx, t)
	return nil
}

// put stores t in slot idx, dropping every index entry of the type it
// replaces.
func (r *Registry) put(idx int, t ChordType) {
	for k, v := range r.index {
		if v == idx {
			delete(r.index, k)
		}
	}
	t = t.clone()
	r.types[idx] = t
	if t.Name != "" {
		r.index[t.Name] = idx
	}
	for _, alias := range t.Aliases {
		r.index[alias] = idx
	}
}

// Extension modifies an existing chord type. A non-empty Name or Intervals
// overrides the base field; Aliases are appended to the base aliases.
type Extension struct {
	Name      string   `yaml:"name,omitempty"`
	Intervals []string `yaml:"intervals,omitempty"`
	Aliases   []string `yaml:"aliases,omitempty"`
}

// Extend merges ext into the type registered as base and returns the
// result without registering it. An unknown base yields a *ConfigError.
func (r *Registry) Extend(base string, ext Extension) (ChordType, error) {
	t, ok := r.Get(base)
	if !ok || base == "" {
		return ChordType{}, &ConfigError{Base: base}
	}

	merged := ChordType{
		Name:      t.Name,
		Intervals: t.Intervals,
		Aliases:   append(t.Aliases, ext.Aliases...),
	}
	if ext.Name != "" {
		merged.Name = ext.Name
	}
	if len(ext.Intervals) > 0 {
		merged.Intervals = slices.Clone(ext.Intervals)
	}
	return merged, nil
}
