package sheet

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/himanishpuri/ChordSheets/pkg/chordsheets/chordtype"
	"github.com/himanishpuri/ChordSheets/pkg/chordsheets/tokenizer"
)

const song = "# Let It Be\n\nIntro: C G in prose.\n\n```chords\nC  G/B\nAm F\n```\n\n```js\nconst C = 1\n```\n\n```chords\nDm7\n```\n"

func TestFindBlocks(t *testing.T) {
	blocks := FindBlocks(song, "")
	require.Len(t, blocks, 2)

	first := strings.Index(song, "C  G/B")
	assert.Equal(t, Block{
		Language: "chords",
		From:     first,
		To:       first + len("C  G/B\nAm F\n"),
		Text:     "C  G/B\nAm F\n",
	}, blocks[0])
	assert.Equal(t, "Dm7\n", blocks[1].Text)
	for _, b := range blocks {
		assert.Equal(t, b.Text, song[b.From:b.To])
	}
}

func TestFindBlocksOtherLanguage(t *testing.T) {
	src := "```chordpro\nE A\n```\n\n```chords\nC\n```\n"
	blocks := FindBlocks(src, "chordpro")
	require.Len(t, blocks, 1)
	assert.Equal(t, "E A\n", blocks[0].Text)
}

func TestFindBlocksSkipsEmptyAndUntagged(t *testing.T) {
	src := "```chords\n```\n\n```\nC G\n```\n\n    C G indented\n"
	assert.Empty(t, FindBlocks(src, DefaultLanguage))
}

func TestBlockAt(t *testing.T) {
	cursor := strings.Index(song, "Am F")
	b, ok := BlockAt(song, "", cursor)
	require.True(t, ok)
	assert.Equal(t, "C  G/B\nAm F\n", b.Text)

	b, ok = BlockAt(song, "", strings.Index(song, "Dm7")+3)
	require.True(t, ok)
	assert.Equal(t, "Dm7\n", b.Text)

	_, ok = BlockAt(song, "", strings.Index(song, "Intro"))
	assert.False(t, ok)
	_, ok = BlockAt(song, "", strings.Index(song, "const"))
	assert.False(t, ok)
}

func TestTokensUseDocumentOffsets(t *testing.T) {
	tk := tokenizer.New(chordtype.New())
	toks := Tokens(tk, song, "")
	require.Len(t, toks, 5)
	for _, tok := range toks {
		assert.Equal(t, tok.Value, song[tok.Span.From:tok.Span.To])
	}
}

func TestTranspose(t *testing.T) {
	tk := tokenizer.New(chordtype.New())
	out, batch, err := Transpose(tk, song, "", 1)
	require.NoError(t, err)
	assert.Len(t, batch, 5)

	want := "# Let It Be\n\nIntro: C G in prose.\n\n```chords\nC#  G#/C\nA#m F#\n```\n\n```js\nconst C = 1\n```\n\n```chords\nD#m7\n```\n"
	assert.Equal(t, want, out)

	back, _, err := Transpose(tk, out, "", -1)
	require.NoError(t, err)
	assert.Equal(t, song, back)
}

func TestTransposeWithoutBlocks(t *testing.T) {
	tk := tokenizer.New(chordtype.New())
	out, batch, err := Transpose(tk, "just C and G in text", "", 3)
	require.NoError(t, err)
	assert.Empty(t, batch)
	assert.Equal(t, "just C and G in text", out)
}
