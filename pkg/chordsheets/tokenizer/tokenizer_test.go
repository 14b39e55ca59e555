package tokenizer

import (
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/himanishpuri/ChordSheets/pkg/chordsheets/chordtype"
)

func TestMain(m *testing.M) {
	if err := chordtype.RegisterCustomChordTypes(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func TestTokenizeProseLine(t *testing.T) {
	text := "Play C G Am F"
	got := Tokens(text, 0)

	want := []ChordToken{
		{Value: "C", Tonic: "C", Quality: "", Span: Span{From: 5, To: 6}},
		{Value: "G", Tonic: "G", Quality: "", Span: Span{From: 7, To: 8}},
		{Value: "Am", Tonic: "A", Quality: "m", Span: Span{From: 9, To: 11}},
		{Value: "F", Tonic: "F", Quality: "", Span: Span{From: 12, To: 13}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("tokens mismatch (-want +got):\n%s", diff)
	}
	for _, tok := range got {
		assert.Equal(t, tok.Value, text[tok.Span.From:tok.Span.To])
	}
}

func TestTokenizeBaseOffset(t *testing.T) {
	doc := "# Song\n\n```chords\nAm7  D/F#\n```\n"
	blockStart := len("# Song\n\n```chords\n")
	block := "Am7  D/F#\n"

	got := Tokens(block, blockStart)
	require.Len(t, got, 2)

	assert.Equal(t, "Am7", doc[got[0].Span.From:got[0].Span.To])
	assert.Equal(t, "D/F#", doc[got[1].Span.From:got[1].Span.To])
	assert.Equal(t, "/F#", got[1].Quality)
	assert.Equal(t, "F#", got[1].Symbol().Bass)
}

func TestTokenizeStripsPunctuation(t *testing.T) {
	tests := []struct {
		text  string
		value string
		from  int
	}{
		{"(Am)", "Am", 1},
		{"C,", "C", 0},
		{"|G7|", "G7", 1},
		{"E7(5+),", "E7(5+)", 0},
		{"\"Dm7\"", "Dm7", 1},
		{"[Bb]", "Bb", 1},
		{"*Fsus4*", "Fsus4", 1},
	}
	for _, tt := range tests {
		got := Tokens(tt.text, 0)
		require.Len(t, got, 1, tt.text)
		assert.Equal(t, tt.value, got[0].Value, tt.text)
		assert.Equal(t, tt.from, got[0].Span.From, tt.text)
		assert.Equal(t, tt.from+len(tt.value), got[0].Span.To, tt.text)
	}
}

func TestTokenizeSkipsNonChords(t *testing.T) {
	text := "Verse: the sun is Bright, Amen! cmaj7 H7 Am/xyz ... ||"
	assert.Empty(t, Tokens(text, 0))
}

func TestTokenizeUnicodeSpaces(t *testing.T) {
	// no-break space (2 bytes) and em space (3 bytes)
	text := "C\u00a0G\u2003Am"
	got := Tokens(text, 0)

	want := []ChordToken{
		{Value: "C", Tonic: "C", Quality: "", Span: Span{From: 0, To: 1}},
		{Value: "G", Tonic: "G", Quality: "", Span: Span{From: 3, To: 4}},
		{Value: "Am", Tonic: "A", Quality: "m", Span: Span{From: 7, To: 9}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("tokens mismatch (-want +got):\n%s", diff)
	}
}

func TestTokenizeChordSheet(t *testing.T) {
	text := "[Verse]\nC        G/B      Am7    Fmaj7\nWhen the night has come\n\n[Chorus]\nF  G  C7(5+)  Dm7(9)  Esus4#5\n"
	var values []string
	for tok := range Tokenize(text, 0) {
		values = append(values, tok.Value)
	}
	assert.Equal(t, []string{"C", "G/B", "Am7", "Fmaj7", "F", "G", "C7(5+)", "Dm7(9)", "Esus4#5"}, values)
}

func TestTokenizeIsRestartable(t *testing.T) {
	text := "Em  C  G  D\nEm C G D"
	seq := Tokenize(text, 10)

	first := collect(seq)
	second := collect(seq)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("second pass differs (-first +second):\n%s", diff)
	}
	assert.Len(t, first, 8)

	if diff := cmp.Diff(first, Tokens(text, 10)); diff != "" {
		t.Fatalf("re-tokenizing differs:\n%s", diff)
	}
}

func TestTokenizeEarlyStop(t *testing.T) {
	n := 0
	for range Tokenize("A B C D E F G", 0) {
		n++
		if n == 3 {
			break
		}
	}
	assert.Equal(t, 3, n)
}

func TestTokenizeSpansAreDisjointAndAscending(t *testing.T) {
	text := "C#m7b5 F#7#9 Bbmaj9 Ebm6 Ab13 Db7sus4 Gb6/9 Cb5\n(E) [A] |D| B7(+5)."
	got := Tokens(text, 0)
	require.Len(t, got, 12)
	for i := 1; i < len(got); i++ {
		assert.LessOrEqual(t, got[i-1].Span.To, got[i].Span.From)
	}
	for _, tok := range got {
		assert.Equal(t, tok.Value, text[tok.Span.From:tok.Span.To])
		assert.Equal(t, tok.Value, tok.Tonic+tok.Quality)
	}
}

func TestTokenizeEmpty(t *testing.T) {
	assert.Empty(t, Tokens("", 0))
	assert.Empty(t, Tokens("   \n\t ", 0))
}

func TestTokenizeUsesGivenRegistry(t *testing.T) {
	r := chordtype.New()
	tk := New(r)
	assert.Empty(t, tk.Tokens("C7M", 0), "base registry has no 7M alias")

	require.NoError(t, r.Apply(chordtype.Preconfigured()))
	got := tk.Tokens("C7M", 0)
	require.Len(t, got, 1)
	assert.Equal(t, "7M", got[0].Quality)
}

func collect(seq func(func(ChordToken) bool)) []ChordToken {
	var out []ChordToken
	seq(func(tok ChordToken) bool {
		out = append(out, tok)
		return true
	})
	return out
}
