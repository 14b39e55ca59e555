package chordsheets

import (
	"github.com/himanishpuri/ChordSheets/pkg/chordsheets/edits"
	"github.com/himanishpuri/ChordSheets/pkg/chordsheets/sheet"
)

// DocumentResult is the outcome of transposing every chord block of a
// Markdown document.
type DocumentResult struct {
	Text   string        `json:"text"`   // Transposed document
	Edits  edits.Batch   `json:"edits"`  // Edits that turn the input into Text
	Blocks []sheet.Block `json:"blocks"` // Chord blocks of the input
	Steps  int           `json:"steps"`  // Semitones applied
}
