package main

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/himanishpuri/ChordSheets/pkg/chordsheets/tokenizer"
)

var (
	chordStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("213")).Bold(true)
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
)

// highlight renders every token span of text with render. Tokens must be
// ascending and disjoint, with spans relative to text.
func highlight(text string, tokens []tokenizer.ChordToken, render func(string) string) string {
	var sb strings.Builder
	last := 0
	for _, tok := range tokens {
		if tok.Span.From < last || tok.Span.To > len(text) {
			continue
		}
		sb.WriteString(text[last:tok.Span.From])
		sb.WriteString(render(text[tok.Span.From:tok.Span.To]))
		last = tok.Span.To
	}
	sb.WriteString(text[last:])
	return sb.String()
}

func renderChord(s string) string {
	return chordStyle.Render(s)
}
