package tokenizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUTF16SpansASCII(t *testing.T) {
	text := "Play C G Am F"
	toks := Tokens(text, 0)
	assert.Equal(t, toks, UTF16Spans(text, toks))
}

func TestUTF16SpansMultibyte(t *testing.T) {
	// "é" is 2 bytes and 1 unit, "𝄞" is 4 bytes and 2 units.
	text := "é 𝄞 B♭m7 G"
	toks := Tokens(text, 0)
	require.Len(t, toks, 2)

	got := UTF16Spans(text, toks)
	assert.Equal(t, Span{From: 5, To: 9}, got[0].Span)
	assert.Equal(t, Span{From: 10, To: 11}, got[1].Span)
	assert.Equal(t, "B♭m7", got[0].Value)

	// Input is not modified.
	assert.Equal(t, 8, toks[0].Span.From)
}
