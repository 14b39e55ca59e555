package tokenizer

import (
	"unicode/utf16"
	"unicode/utf8"
)

// UTF16Spans returns a copy of toks with spans counted in UTF-16 code units
// of text instead of bytes, as JavaScript strings index them. Spans must be
// byte offsets into text in ascending order.
func UTF16Spans(text string, toks []ChordToken) []ChordToken {
	out := make([]ChordToken, len(toks))
	pos, units := 0, 0
	advance := func(to int) int {
		if to < pos {
			pos, units = 0, 0
		}
		for pos < to && pos < len(text) {
			r, size := utf8.DecodeRuneInString(text[pos:])
			if n := utf16.RuneLen(r); n > 0 {
				units += n
			} else {
				units++
			}
			pos += size
		}
		return units
	}
	for i, tok := range toks {
		tok.Span = Span{From: advance(tok.Span.From), To: advance(tok.Span.To)}
		out[i] = tok
	}
	return out
}
