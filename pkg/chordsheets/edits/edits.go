// Package edits turns chord tokens into text replacements and applies
// them to a document.
package edits

import (
	"errors"
	"fmt"
	"strings"

	"github.com/himanishpuri/ChordSheets/pkg/chordsheets/tokenizer"
	"github.com/himanishpuri/ChordSheets/pkg/chordsheets/transpose"
)

var (
	ErrLengthMismatch = errors.New("tokens and replacements differ in length")
	ErrOverlap        = errors.New("edits overlap or are out of order")
	ErrOutOfRange     = errors.New("edit outside document bounds")
)

// Edit replaces the half-open byte range [From, To) with Insert.
type Edit struct {
	From   int    `json:"from"`
	To     int    `json:"to"`
	Insert string `json:"insert"`
}

// Batch is a list of edits ordered by ascending From.
type Batch []Edit

// Collect pairs each token's span with the replacement at the same index.
// Order is kept as given; nothing is merged or sorted.
func Collect(tokens []tokenizer.ChordToken, replacements []string) (Batch, error) {
	if len(tokens) != len(replacements) {
		return nil, fmt.Errorf("collect %d tokens with %d replacements: %w",
			len(tokens), len(replacements), ErrLengthMismatch)
	}
	batch := make(Batch, len(tokens))
	for i, tok := range tokens {
		batch[i] = Edit{From: tok.Span.From, To: tok.Span.To, Insert: replacements[i]}
	}
	return batch, nil
}

// Build transposes every token one semitone in direction d.
func Build(tokens []tokenizer.ChordToken, d transpose.Direction) Batch {
	return BuildSteps(tokens, d.Semitones())
}

// BuildSteps transposes every token by n semitones.
func BuildSteps(tokens []tokenizer.ChordToken, n int) Batch {
	batch := make(Batch, len(tokens))
	for i, tok := range tokens {
		batch[i] = Edit{From: tok.Span.From, To: tok.Span.To, Insert: transpose.TokenSteps(tok, n)}
	}
	return batch
}

// Validate checks that the batch is ordered, non-overlapping and inside a
// document of size bytes.
func (b Batch) Validate(size int) error {
	prev := 0
	for i, e := range b {
		if e.From < 0 || e.To > size || e.From > e.To {
			return fmt.Errorf("edit %d [%d,%d) in %d bytes: %w", i, e.From, e.To, size, ErrOutOfRange)
		}
		if e.From < prev {
			return fmt.Errorf("edit %d starts at %d before %d: %w", i, e.From, prev, ErrOverlap)
		}
		prev = e.To
	}
	return nil
}

// Apply returns text with every edit applied. The batch is validated first;
// on error text is returned unchanged.
func Apply(text string, b Batch) (string, error) {
	if err := b.Validate(len(text)); err != nil {
		return text, err
	}

	var sb strings.Builder
	sb.Grow(len(text))
	last := 0
	for _, e := range b {
		sb.WriteString(text[last:e.From])
		sb.WriteString(e.Insert)
		last = e.To
	}
	sb.WriteString(text[last:])
	return sb.String(), nil
}
