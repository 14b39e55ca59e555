// Package transpose shifts chord symbols by semitones and re-spells the
// result in its simplest enharmonic form.
//
// Spelling rule: a natural note name wins when one exists; otherwise the
// result is spelled with a sharp when moving up and a flat when moving
// down. Tonic and slash bass are transposed independently with the same
// rule.
package transpose

import (
	"fmt"
	"strings"

	"github.com/himanishpuri/ChordSheets/pkg/chordsheets/chord"
	"github.com/himanishpuri/ChordSheets/pkg/chordsheets/note"
	"github.com/himanishpuri/ChordSheets/pkg/chordsheets/tokenizer"
)

// Direction is a one-semitone transposition step.
type Direction int

const (
	Down Direction = -1
	Up   Direction = 1
)

// ParseDirection accepts "up" or "down" (case-insensitive).
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up":
		return Up, nil
	case "down":
		return Down, nil
	}
	return 0, fmt.Errorf("invalid direction %q: want \"up\" or \"down\"", s)
}

// Semitones returns +1 for Up and -1 for Down.
func (d Direction) Semitones() int {
	if d < 0 {
		return -1
	}
	return 1
}

func (d Direction) String() string {
	if d < 0 {
		return "down"
	}
	return "up"
}

// TransposedChord is the respelled result of a transposition.
type TransposedChord struct {
	Tonic   string `json:"tonic"`
	Quality string `json:"quality"`
	Bass    string `json:"bass,omitempty"`
}

func (c TransposedChord) String() string {
	return chord.Symbol{Tonic: c.Tonic, Quality: c.Quality, Bass: c.Bass}.String()
}

// Chord transposes a raw chord spelling by n semitones. Parts that are not
// note names are carried over verbatim: an unreadable tonic leaves the
// whole value unchanged and an unreadable slash bass is kept as written.
func Chord(value string, n int) TransposedChord {
	sym := chord.Split(value)
	if sym.Tonic == "" {
		return TransposedChord{Quality: value}
	}
	return symbol(sym, n)
}

func symbol(sym chord.Symbol, n int) TransposedChord {
	out := TransposedChord{Tonic: shift(sym.Tonic, n), Quality: sym.Quality, Bass: sym.Bass}
	if sym.IsSlash() {
		out.Bass = shift(sym.Bass, n)
	}
	return out
}

// shift transposes a note name, passing anything else through.
func shift(name string, n int) string {
	out, err := note.Transpose(name, n)
	if err != nil {
		return name
	}
	return out
}

// Steps transposes a chord spelling by n semitones and returns the new
// spelling. Values that do not start with a note name, or that cannot be
// reassembled from their parts, come back unchanged.
func Steps(value string, n int) string {
	return steps(chord.Split(value), value, n)
}

func steps(sym chord.Symbol, value string, n int) string {
	if sym.Tonic == "" || sym.String() != value {
		return value
	}
	return symbol(sym, n).String()
}

// String transposes a chord spelling one semitone in direction d.
func String(value string, d Direction) string {
	return Steps(value, d.Semitones())
}

// TokenSteps transposes a token by n semitones around the tonic the
// tokenizer recognized.
func TokenSteps(tok tokenizer.ChordToken, n int) string {
	return steps(tok.Symbol(), tok.Value, n)
}

// TokenChord is Chord for a token, split at its recognized tonic.
func TokenChord(tok tokenizer.ChordToken, n int) TransposedChord {
	sym := tok.Symbol()
	if sym.Tonic == "" {
		return TransposedChord{Quality: tok.Value}
	}
	return symbol(sym, n)
}

// Transpose transposes a token one semitone in direction d.
func Transpose(tok tokenizer.ChordToken, d Direction) string {
	return TokenSteps(tok, d.Semitones())
}
