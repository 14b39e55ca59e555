package note

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		pitchClass int
		wantErr    bool
	}{
		{name: "natural", input: "C", pitchClass: 0},
		{name: "sharp", input: "F#", pitchClass: 6},
		{name: "flat", input: "Bb", pitchClass: 10},
		{name: "double flat", input: "Ebb", pitchClass: 2},
		{name: "unicode sharp", input: "G♯", pitchClass: 8},
		{name: "unicode flat", input: "D♭", pitchClass: 1},
		{name: "wraps below C", input: "Cb", pitchClass: 11},
		{name: "wraps above B", input: "B#", pitchClass: 0},
		{name: "empty", input: "", wantErr: true},
		{name: "lowercase letter", input: "c", wantErr: true},
		{name: "not a letter", input: "H", wantErr: true},
		{name: "trailing quality", input: "Cm", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := Parse(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				assert.False(t, IsNote(tt.input))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.pitchClass, n.PitchClass())
		})
	}
}

func TestSplitPrefix(t *testing.T) {
	tests := []struct {
		input, tonic, rest string
	}{
		{"C", "C", ""},
		{"C#m7", "C#", "m7"},
		{"Bbmaj7", "Bb", "maj7"},
		{"Ebb", "Ebb", ""},
		{"G/B", "G", "/B"},
		{"F♯m", "F♯", "m"},
		{"hello", "", "hello"},
		{"", "", ""},
	}
	for _, tt := range tests {
		tonic, rest := SplitPrefix(tt.input)
		assert.Equal(t, tt.tonic, tonic, "tonic of %q", tt.input)
		assert.Equal(t, tt.rest, rest, "rest of %q", tt.input)
	}
}

func TestTransposeAllPitchClasses(t *testing.T) {
	up := map[string]string{
		"C": "C#", "C#": "D", "D": "D#", "D#": "E", "E": "F", "F": "F#",
		"F#": "G", "G": "G#", "G#": "A", "A": "A#", "A#": "B", "B": "C",
	}
	down := map[string]string{
		"C": "B", "C#": "C", "D": "Db", "D#": "D", "E": "Eb", "F": "E",
		"F#": "F", "G": "Gb", "G#": "G", "A": "Ab", "A#": "A", "B": "Bb",
	}

	for in, want := range up {
		got, err := Transpose(in, 1)
		require.NoError(t, err)
		assert.Equal(t, want, got, "%s up", in)
	}
	for in, want := range down {
		got, err := Transpose(in, -1)
		require.NoError(t, err)
		assert.Equal(t, want, got, "%s down", in)
	}
}

func TestTransposeRoundTrip(t *testing.T) {
	for pc := 0; pc < 12; pc++ {
		name := Spell(pc, false)

		up, err := Transpose(name, 1)
		require.NoError(t, err)
		back, err := Transpose(up, -1)
		require.NoError(t, err)

		n, err := Parse(back)
		require.NoError(t, err)
		assert.Equal(t, pc, n.PitchClass(), "%s -> %s -> %s", name, up, back)
	}
}

func TestTransposeFullCycle(t *testing.T) {
	for _, start := range []string{"C", "Fb", "E#", "Bbb", "G#"} {
		orig, err := Parse(start)
		require.NoError(t, err)

		up, down := start, start
		for i := 0; i < 12; i++ {
			up, err = Transpose(up, 1)
			require.NoError(t, err)
			down, err = Transpose(down, -1)
			require.NoError(t, err)
		}

		nu, _ := Parse(up)
		nd, _ := Parse(down)
		assert.Equal(t, orig.PitchClass(), nu.PitchClass(), "%s up 12", start)
		assert.Equal(t, orig.PitchClass(), nd.PitchClass(), "%s down 12", start)
	}
}

func TestTransposeCanonicalizesOddSpellings(t *testing.T) {
	got, err := Transpose("Fb", 1)
	require.NoError(t, err)
	assert.Equal(t, "F", got)

	got, err = Transpose("E#", -1)
	require.NoError(t, err)
	assert.Equal(t, "E", got)

	got, err = Transpose("Cb", 0)
	require.NoError(t, err)
	assert.Equal(t, "Cb", got, "zero shift keeps the spelling")
}

func TestSimplify(t *testing.T) {
	cases := map[string]string{"Fb": "E", "E#": "F", "Cbb": "Bb", "B##": "C#", "Db": "Db"}
	for in, want := range cases {
		got, err := Simplify(in)
		require.NoError(t, err)
		assert.Equal(t, want, got, in)
	}
}

func TestIntervals(t *testing.T) {
	semis := map[string]int{
		"1P": 0, "2M": 2, "3m": 3, "3M": 4, "4P": 5, "5d": 6, "5P": 7,
		"5A": 8, "6m": 8, "6M": 9, "7d": 9, "7m": 10, "7M": 11,
		"9m": 13, "9M": 14, "9A": 15, "11P": 17, "11A": 18, "13m": 20, "13M": 21,
	}
	for s, want := range semis {
		iv, err := ParseInterval(s)
		require.NoError(t, err, s)
		assert.Equal(t, want, iv.Semitones(), s)
		assert.Equal(t, s, iv.String())
	}

	for _, s := range []string{"5AA", "7dd"} {
		iv, err := ParseInterval(s)
		require.NoError(t, err, s)
		assert.Equal(t, 2, iv.Count, s)
		assert.Equal(t, s, iv.String())
	}

	for _, bad := range []string{"", "P", "3", "3P", "5M", "4m", "3X", "0P", "3MM", "5Ad", "3 M"} {
		_, err := ParseInterval(bad)
		assert.Error(t, err, bad)
	}
}

func TestAddIntervalSpelling(t *testing.T) {
	tests := []struct {
		root     string
		interval string
		want     string
	}{
		{"C", "3M", "E"},
		{"C", "7M", "B"},
		{"F#", "3m", "A"},
		{"F#", "5P", "C#"},
		{"Bb", "3M", "D"},
		{"Eb", "7m", "Db"},
		{"G", "5A", "D#"},
		{"B", "5d", "F"},
		{"Ab", "9m", "Bbb"},
	}
	for _, tt := range tests {
		root, err := Parse(tt.root)
		require.NoError(t, err)
		iv, err := ParseInterval(tt.interval)
		require.NoError(t, err)
		assert.Equal(t, tt.want, AddInterval(root, iv).String(), "%s + %s", tt.root, tt.interval)
	}
}
