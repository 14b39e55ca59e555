// Package sheet locates chord blocks in Markdown documents and transposes
// them as a whole.
//
// A chord block is a fenced code block whose info string names the block
// language, "chords" by default:
//
//	```chords
//	C   G/B   Am7   F
//	```
package sheet

import (
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/himanishpuri/ChordSheets/pkg/chordsheets/edits"
	"github.com/himanishpuri/ChordSheets/pkg/chordsheets/tokenizer"
)

// DefaultLanguage is the fence info string used when none is given.
const DefaultLanguage = "chords"

// Block is the content of one chord block. From and To are byte offsets
// into the document; Text is the document slice between them.
type Block struct {
	Language string `json:"language"`
	From     int    `json:"from"`
	To       int    `json:"to"`
	Text     string `json:"text"`
}

// Contains reports whether a cursor at offset lies inside the block. The
// end of the last line counts as inside.
func (b Block) Contains(offset int) bool {
	return offset >= b.From && offset <= b.To
}

var markdown = goldmark.New()

// FindBlocks returns every non-empty chord block of src in document order.
func FindBlocks(src, language string) []Block {
	if language == "" {
		language = DefaultLanguage
	}
	source := []byte(src)
	doc := markdown.Parser().Parse(text.NewReader(source))

	var blocks []Block
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		fcb, ok := n.(*ast.FencedCodeBlock)
		if !ok {
			return ast.WalkContinue, nil
		}
		if string(fcb.Language(source)) != language {
			return ast.WalkSkipChildren, nil
		}
		lines := fcb.Lines()
		if lines.Len() == 0 {
			return ast.WalkSkipChildren, nil
		}
		from, to := lines.At(0).Start, lines.At(lines.Len()-1).Stop
		blocks = append(blocks, Block{
			Language: language,
			From:     from,
			To:       to,
			Text:     src[from:to],
		})
		return ast.WalkSkipChildren, nil
	})
	return blocks
}

// BlockAt returns the chord block containing offset.
func BlockAt(src, language string, offset int) (Block, bool) {
	for _, b := range FindBlocks(src, language) {
		if b.Contains(offset) {
			return b, true
		}
	}
	return Block{}, false
}

// Tokens tokenizes every chord block of src. Spans address the whole
// document.
func Tokens(tk *tokenizer.Tokenizer, src, language string) []tokenizer.ChordToken {
	var out []tokenizer.ChordToken
	for _, b := range FindBlocks(src, language) {
		out = append(out, tk.Tokens(b.Text, b.From)...)
	}
	return out
}

// Transpose shifts every chord in every chord block of src by n semitones.
// It returns the new document and the batch that produced it.
func Transpose(tk *tokenizer.Tokenizer, src, language string, n int) (string, edits.Batch, error) {
	batch := edits.BuildSteps(Tokens(tk, src, language), n)
	out, err := edits.Apply(src, batch)
	if err != nil {
		return src, nil, err
	}
	return out, batch, nil
}
