package chord

import (
	"fmt"

	"github.com/himanishpuri/ChordSheets/pkg/chordsheets/chordtype"
	"github.com/himanishpuri/ChordSheets/pkg/chordsheets/note"
)

// Info describes a recognized chord: its parts, its type and its spelled
// chord tones.
type Info struct {
	Symbol Symbol              `json:"symbol"`
	Type   chordtype.ChordType `json:"type"`
	Notes  []string            `json:"notes"`
}

// Describe recognizes value and spells its chord tones from the type's
// intervals.
func Describe(value string, r *chordtype.Registry) (Info, error) {
	sym, ok := Recognize(value, r)
	if !ok {
		return Info{}, fmt.Errorf("not a chord: %q", value)
	}
	ct, _ := r.Get(sym.Quality)

	root, err := note.Parse(sym.Tonic)
	if err != nil {
		return Info{}, err
	}

	notes := make([]string, 0, len(ct.Intervals))
	for _, s := range ct.Intervals {
		iv, err := note.ParseInterval(s)
		if err != nil {
			return Info{}, fmt.Errorf("chord type %q: %w", ct.Key(), err)
		}
		notes = append(notes, note.AddInterval(root, iv).String())
	}

	return Info{Symbol: sym, Type: ct, Notes: notes}, nil
}
