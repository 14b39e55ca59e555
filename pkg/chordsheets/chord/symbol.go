// Package chord models chord symbols as a composite of a tonic, a quality
// and an optional slash bass, and recognizes them against a chord-type
// registry.
package chord

import (
	"strings"

	"github.com/himanishpuri/ChordSheets/pkg/chordsheets/chordtype"
	"github.com/himanishpuri/ChordSheets/pkg/chordsheets/note"
)

// Symbol is a chord symbol split into its parts. Bass is empty unless the
// symbol is a slash chord.
type Symbol struct {
	Tonic   string `json:"tonic"`
	Quality string `json:"quality"`
	Bass    string `json:"bass,omitempty"`
}

// IsSlash reports whether the symbol carries a bass note.
func (s Symbol) IsSlash() bool {
	return s.Bass != ""
}

// String reassembles the symbol.
func (s Symbol) String() string {
	if !s.IsSlash() {
		return s.Tonic + s.Quality
	}
	return s.Tonic + s.Quality + "/" + s.Bass
}

// Split cuts a chord spelling into its parts without consulting the
// registry. The tonic ends at the first character that is not part of a
// note name; the bass follows the last "/" of the remainder.
func Split(value string) Symbol {
	tonic, _ := note.SplitPrefix(value)
	return SplitAfter(value, len(tonic))
}

// SplitAfter is Split with the tonic fixed to the first n bytes of value.
func SplitAfter(value string, n int) Symbol {
	tonic, rest := value[:n], value[n:]
	if i := strings.LastIndex(rest, "/"); i >= 0 {
		return Symbol{Tonic: tonic, Quality: rest[:i], Bass: rest[i+1:]}
	}
	return Symbol{Tonic: tonic, Quality: rest}
}

// Recognize reports whether word is exactly one chord symbol known to r.
// The accidental run after the root letter is tried greedily first, then
// shorter. A remainder containing "/" that is not itself a registered
// quality is read as <quality>/<bass>, and the bass must be a note.
func Recognize(word string, r *chordtype.Registry) (Symbol, bool) {
	tonic, _ := note.SplitPrefix(word)
	if tonic == "" {
		return Symbol{}, false
	}

	for {
		rest := word[len(tonic):]
		if r.Has(rest) {
			return Symbol{Tonic: tonic, Quality: rest}, true
		}
		if i := strings.LastIndex(rest, "/"); i >= 0 {
			quality, bass := rest[:i], rest[i+1:]
			if r.Has(quality) && note.IsNote(bass) {
				return Symbol{Tonic: tonic, Quality: quality, Bass: bass}, true
			}
		}

		shorter := note.TrimAccidental(tonic)
		if shorter == tonic {
			return Symbol{}, false
		}
		tonic = shorter
	}
}
