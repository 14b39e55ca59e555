package note

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// Interval is a diatonic interval in shorthand notation: a number followed
// by a quality (P perfect, M major, m minor, A augmented, d diminished).
// "3M" is a major third, "5A" an augmented fifth, "9m" a minor ninth.
type Interval struct {
	Number  int
	Quality byte
	// Count repeats A or d for doubly augmented/diminished intervals.
	Count int
}

// perfectDegrees marks the unison, fourth and fifth (0-based, mod 7).
var perfectDegrees = [7]bool{true, false, false, true, true, false, false}

// intervalGrammar is the participle grammar for interval shorthand. A and d
// may repeat; P, M and m may not.
//
//nolint:govet // participle grammar tags are not standard struct tags
type intervalGrammar struct {
	Number  int    `parser:"@Number"`
	Quality string `parser:"@( \"P\" | \"M\" | \"m\" | \"A\"+ | \"d\"+ )"`
}

var intervalLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Number", Pattern: `[0-9]+`},
	{Name: "Quality", Pattern: `[PMmAd]`},
})

var intervalParser = participle.MustBuild[intervalGrammar](
	participle.Lexer(intervalLexer),
)

// ParseInterval parses shorthand such as "1P", "3m", "11A" or "7d".
func ParseInterval(s string) (Interval, error) {
	if s == "" {
		return Interval{}, fmt.Errorf("empty interval")
	}
	parsed, err := intervalParser.ParseString("", s)
	if err != nil {
		return Interval{}, fmt.Errorf("invalid interval %q: %w", s, err)
	}
	num := parsed.Number
	if num < 1 || parsed.Quality == "" {
		return Interval{}, fmt.Errorf("invalid interval number in %q", s)
	}
	q := parsed.Quality[0]
	iv := Interval{Number: num, Quality: q, Count: len(parsed.Quality)}

	perfect := perfectDegrees[(num-1)%7]
	switch q {
	case 'P':
		if !perfect || iv.Count != 1 {
			return Interval{}, fmt.Errorf("interval %q cannot be perfect", s)
		}
	case 'M', 'm':
		if perfect || iv.Count != 1 {
			return Interval{}, fmt.Errorf("interval %q cannot be major or minor", s)
		}
	}
	return iv, nil
}

// Semitones returns the interval size in semitones.
func (iv Interval) Semitones() int {
	degree := (iv.Number - 1) % 7
	octaves := (iv.Number - 1) / 7
	base := naturalPitch[degree] + 12*octaves

	switch iv.Quality {
	case 'm':
		return base - 1
	case 'A':
		return base + iv.Count
	case 'd':
		if perfectDegrees[degree] {
			return base - iv.Count
		}
		return base - iv.Count - 1
	}
	return base
}

func (iv Interval) String() string {
	return strconv.Itoa(iv.Number) + strings.Repeat(string(iv.Quality), max(iv.Count, 1))
}

// AddInterval spells the note that lies the given interval above root.
// The letter follows the interval number, so a minor third above F# is A
// and a major seventh above C is B.
func AddInterval(root Note, iv Interval) Note {
	idx := letterIndex(root.Letter)
	targetLetter := letters[(idx+iv.Number-1)%7]
	targetPitch := root.PitchClass() + iv.Semitones()

	acc := mod12(targetPitch - naturalPitch[letterIndex(targetLetter)])
	if acc > 6 {
		acc -= 12
	}
	return Note{Letter: targetLetter, Accidental: acc}
}
