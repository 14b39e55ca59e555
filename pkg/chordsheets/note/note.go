// Package note implements note-name parsing, pitch-class arithmetic and
// deterministic enharmonic spelling for chord symbols.
package note

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

const letters = "CDEFGAB"

// naturalPitch holds the pitch class of each natural letter, indexed like letters.
var naturalPitch = [7]int{0, 2, 4, 5, 7, 9, 11}

var (
	sharpNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}
	flatNames  = [12]string{"C", "Db", "D", "Eb", "E", "F", "Gb", "G", "Ab", "A", "Bb", "B"}
)

// accidentalSymbols lists every accepted accidental spelling and its
// semitone offset. Longer unicode symbols come first so prefix matching
// stays unambiguous.
var accidentalSymbols = []struct {
	symbol string
	offset int
}{
	{"♯", 1},
	{"♭", -1},
	{"#", 1},
	{"b", -1},
}

// Note is a spelled pitch class: a natural letter plus a signed number of
// accidentals (positive for sharps, negative for flats).
type Note struct {
	Letter     byte
	Accidental int
}

// noteGrammar is the participle grammar for a bare note name such as "C",
// "F#" or "Bbb".
//
//nolint:govet // participle grammar tags are not standard struct tags
type noteGrammar struct {
	Letter      string   `parser:"@Letter"`
	Accidentals []string `parser:"@Accidental*"`
}

var noteLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Letter", Pattern: `[A-G]`},
	{Name: "Accidental", Pattern: `♯|♭|#|b`},
})

var noteParser = participle.MustBuild[noteGrammar](
	participle.Lexer(noteLexer),
)

// Parse parses a note name. The letter must be uppercase A-G; any number
// of sharps or flats may follow.
func Parse(name string) (Note, error) {
	if name == "" {
		return Note{}, fmt.Errorf("empty note name")
	}
	parsed, err := noteParser.ParseString("", name)
	if err != nil {
		return Note{}, fmt.Errorf("invalid note name %q: %w", name, err)
	}

	n := Note{Letter: parsed.Letter[0]}
	for _, acc := range parsed.Accidentals {
		n.Accidental += accidentalOffset(acc)
	}
	return n, nil
}

// IsNote reports whether name parses as a note.
func IsNote(name string) bool {
	_, err := Parse(name)
	return err == nil
}

func accidentalOffset(symbol string) int {
	for _, a := range accidentalSymbols {
		if a.symbol == symbol {
			return a.offset
		}
	}
	return 0
}

func letterIndex(letter byte) int {
	return strings.IndexByte(letters, letter)
}

// PitchClass returns the note's pitch class in 0..11.
func (n Note) PitchClass() int {
	return mod12(naturalPitch[letterIndex(n.Letter)] + n.Accidental)
}

// String renders the note with ASCII accidentals.
func (n Note) String() string {
	var sb strings.Builder
	sb.WriteByte(n.Letter)
	switch {
	case n.Accidental > 0:
		sb.WriteString(strings.Repeat("#", n.Accidental))
	case n.Accidental < 0:
		sb.WriteString(strings.Repeat("b", -n.Accidental))
	}
	return sb.String()
}

// SplitPrefix splits s into its leading note name and the remainder. The
// accidental run is consumed greedily. If s does not start with an
// uppercase A-G the tonic is empty and rest is s.
func SplitPrefix(s string) (tonic, rest string) {
	if s == "" || letterIndex(s[0]) < 0 {
		return "", s
	}
	i := 1
	for i < len(s) {
		matched := false
		for _, a := range accidentalSymbols {
			if strings.HasPrefix(s[i:], a.symbol) {
				i += len(a.symbol)
				matched = true
				break
			}
		}
		if !matched {
			break
		}
	}
	return s[:i], s[i:]
}

// TrimAccidental removes the last accidental from a note name. A bare
// letter is returned unchanged.
func TrimAccidental(name string) string {
	if len(name) <= 1 {
		return name
	}
	for _, a := range accidentalSymbols {
		if strings.HasSuffix(name, a.symbol) {
			return strings.TrimSuffix(name, a.symbol)
		}
	}
	return name
}

// Spell returns the simplest name for a pitch class: the natural letter
// when one exists, otherwise a single sharp, or a single flat when
// preferFlats is set.
func Spell(pitchClass int, preferFlats bool) string {
	pc := mod12(pitchClass)
	if preferFlats {
		return flatNames[pc]
	}
	return sharpNames[pc]
}

// Transpose shifts a note name by the given number of semitones and
// re-spells it. Ascending shifts use sharps, descending shifts use flats.
// A zero shift returns name unchanged.
func Transpose(name string, semitones int) (string, error) {
	n, err := Parse(name)
	if err != nil {
		return "", err
	}
	if semitones == 0 {
		return name, nil
	}
	return Spell(n.PitchClass()+semitones, semitones < 0), nil
}

// Simplify re-spells a note in its simplest form, keeping the flat or sharp
// flavour of the original.
func Simplify(name string) (string, error) {
	n, err := Parse(name)
	if err != nil {
		return "", err
	}
	return Spell(n.PitchClass(), n.Accidental < 0), nil
}

func mod12(v int) int {
	return ((v % 12) + 12) % 12
}
