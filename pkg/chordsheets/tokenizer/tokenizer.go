// Package tokenizer finds chord symbols in free-form chord-sheet text.
package tokenizer

import (
	"iter"
	"slices"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"

	"github.com/himanishpuri/ChordSheets/pkg/chordsheets/chord"
	"github.com/himanishpuri/ChordSheets/pkg/chordsheets/chordtype"
)

// Span is a half-open [From, To) byte range in the containing document.
type Span struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// Len returns the span length in bytes.
func (s Span) Len() int { return s.To - s.From }

// ChordToken is one chord symbol found in the text. Value is the exact
// source substring; Quality is everything after the tonic, slash bass
// included.
type ChordToken struct {
	Value   string `json:"value"`
	Tonic   string `json:"tonic"`
	Quality string `json:"quality"`
	Span    Span   `json:"span"`
}

// Symbol splits the token into its chord-quality and bass parts. The
// recognized tonic is kept, so a quality starting with an accidental stays
// in the quality.
func (t ChordToken) Symbol() chord.Symbol {
	if t.Tonic != "" && strings.HasPrefix(t.Value, t.Tonic) {
		return chord.SplitAfter(t.Value, len(t.Tonic))
	}
	return chord.Split(t.Value)
}

// Characters that may wrap a chord without belonging to it.
const (
	leadingPunct  = "([{|\"'*"
	trailingPunct = ")]}|,.;:!?\"'*"
)

var wordLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Whitespace", Pattern: `[\s\p{Z}]+`},
	{Name: "Word", Pattern: `[^\s\p{Z}]+`},
})

var wordType = wordLexer.Symbols()["Word"]

// Tokenizer recognizes chords against a chord-type registry.
type Tokenizer struct {
	registry *chordtype.Registry
}

// New returns a tokenizer bound to r.
func New(r *chordtype.Registry) *Tokenizer {
	return &Tokenizer{registry: r}
}

// Tokenize returns the chord tokens of text in source order. Spans are
// shifted by baseOffset so they address the full document. The sequence
// can be ranged over any number of times; each pass re-scans text.
func (tk *Tokenizer) Tokenize(text string, baseOffset int) iter.Seq[ChordToken] {
	return func(yield func(ChordToken) bool) {
		lex, err := wordLexer.LexString("", text)
		if err != nil {
			return
		}
		for {
			tok, err := lex.Next()
			if err != nil || tok.EOF() {
				return
			}
			if tok.Type != wordType {
				continue
			}
			ct, ok := tk.match(tok.Value)
			if !ok {
				continue
			}
			ct.Span.From += baseOffset + tok.Pos.Offset
			ct.Span.To += baseOffset + tok.Pos.Offset
			if !yield(ct) {
				return
			}
		}
	}
}

// Tokens collects Tokenize into a slice.
func (tk *Tokenizer) Tokens(text string, baseOffset int) []ChordToken {
	return slices.Collect(tk.Tokenize(text, baseOffset))
}

// match finds the longest leftmost chord inside word once wrapping
// punctuation is peeled off. Span offsets are relative to the word.
func (tk *Tokenizer) match(word string) (ChordToken, bool) {
	lead := 0
	for lead < len(word) && strings.IndexByte(leadingPunct, word[lead]) >= 0 {
		lead++
	}
	trail := 0
	for trail < len(word)-lead && strings.IndexByte(trailingPunct, word[len(word)-1-trail]) >= 0 {
		trail++
	}

	for start := 0; start <= lead; start++ {
		for end := len(word); end >= len(word)-trail && end > start; end-- {
			candidate := word[start:end]
			sym, ok := chord.Recognize(candidate, tk.registry)
			if !ok {
				continue
			}
			return ChordToken{
				Value:   candidate,
				Tonic:   sym.Tonic,
				Quality: candidate[len(sym.Tonic):],
				Span:    Span{From: start, To: end},
			}, true
		}
	}
	return ChordToken{}, false
}

// Tokenize scans text with the process-wide registry.
func Tokenize(text string, baseOffset int) iter.Seq[ChordToken] {
	return New(chordtype.Default()).Tokenize(text, baseOffset)
}

// Tokens scans text with the process-wide registry.
func Tokens(text string, baseOffset int) []ChordToken {
	return New(chordtype.Default()).Tokens(text, baseOffset)
}
