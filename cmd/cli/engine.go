package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/himanishpuri/ChordSheets/pkg/chordsheets"
	"github.com/himanishpuri/ChordSheets/pkg/chordsheets/edits"
	"github.com/himanishpuri/ChordSheets/pkg/chordsheets/tokenizer"
	"github.com/himanishpuri/ChordSheets/pkg/chordsheets/transpose"
	"github.com/himanishpuri/ChordSheets/pkg/logger"
	"github.com/himanishpuri/ChordSheets/pkg/utils"
)

var (
	plainText     bool
	jsonOutput    bool
	highlightText bool

	direction    string
	steps        int
	cursor       int
	writeInPlace bool
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize [file]",
	Short: "List the chord symbols of a sheet",
	Long: `Lists every chord symbol with its tonic, quality and byte span.
Reads stdin when no file (or "-") is given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTokenize,
}

var transposeCmd = &cobra.Command{
	Use:   "transpose [files...]",
	Short: "Transpose the chords of one or more sheets",
	Long: `Transposes every chord inside chord blocks (or the whole text with --plain).
Several files are processed concurrently. Without --write the results are
printed; with --write each file is replaced atomically.`,
	Example: `  chordsheets transpose song.md
  chordsheets transpose --direction down --steps 2 --write songs/*.md
  chordsheets transpose --cursor 120 song.md
  echo "C G Am F" | chordsheets transpose --plain`,
	RunE: runTranspose,
}

var infoCmd = &cobra.Command{
	Use:   "info <chord>...",
	Short: "Describe chord symbols",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runInfo,
}

var typesCmd = &cobra.Command{
	Use:   "types [query]",
	Short: "List registered chord types",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runTypes,
}

func init() {
	tokenizeCmd.Flags().BoolVar(&plainText, "plain", false, "Treat the whole input as one chord block")
	tokenizeCmd.Flags().BoolVar(&jsonOutput, "json", false, "Print tokens as JSON")
	tokenizeCmd.Flags().BoolVar(&highlightText, "highlight", false, "Print the input with chords highlighted")

	transposeCmd.Flags().StringVarP(&direction, "direction", "d", "up", `Direction: "up" or "down"`)
	transposeCmd.Flags().IntVarP(&steps, "steps", "n", 1, "Number of semitones")
	transposeCmd.Flags().IntVar(&cursor, "cursor", -1, "Only transpose the chord block containing this byte offset")
	transposeCmd.Flags().BoolVarP(&writeInPlace, "write", "w", false, "Write results back to the files")
	transposeCmd.Flags().BoolVar(&plainText, "plain", false, "Treat the whole input as one chord block")
}

func readInput(args []string) (string, string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", "", fmt.Errorf("reading stdin: %w", err)
		}
		return "<stdin>", string(data), nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", "", fmt.Errorf("reading %s: %w", args[0], err)
	}
	return args[0], string(data), nil
}

// documentTokens tokenizes either the chord blocks of a Markdown document or
// the whole text.
func documentTokens(svc chordsheets.Service, text string, plain bool) []tokenizer.ChordToken {
	if plain {
		return svc.Tokenize(text, 0)
	}
	return svc.TokenizeDocument(text)
}

func runTokenize(cmd *cobra.Command, args []string) error {
	name, text, err := readInput(args)
	if err != nil {
		return err
	}
	svc := mustService()
	defer svc.Close()

	toks := documentTokens(svc, text, plainText)
	logger.Debugf("%s: %d chord tokens", name, len(toks))

	out := cmd.OutOrStdout()
	switch {
	case jsonOutput:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(toks)
	case highlightText:
		fmt.Fprint(out, highlight(text, toks, renderChord))
		return nil
	}

	if len(toks) == 0 {
		fmt.Fprintln(out, mutedStyle.Render("No chords found"))
		return nil
	}
	fmt.Fprintln(out, headerStyle.Render(fmt.Sprintf("%-12s %-6s %-12s %s", "CHORD", "TONIC", "QUALITY", "SPAN")))
	for _, tok := range toks {
		fmt.Fprintf(out, "%-12s %-6s %-12s %d-%d\n", tok.Value, tok.Tonic, tok.Quality, tok.Span.From, tok.Span.To)
	}
	return nil
}

// resolveSteps turns a direction and a step count into signed semitones.
func resolveSteps(dir string, n int) (int, error) {
	d, err := transpose.ParseDirection(dir)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("steps must not be negative, got %d", n)
	}
	return n * d.Semitones(), nil
}

// transposeText transposes one input according to the command flags and
// returns the new text and the number of chords changed.
func transposeText(svc chordsheets.Service, text string, n int) (string, int, error) {
	switch {
	case plainText:
		batch := edits.BuildSteps(svc.Tokenize(text, 0), n)
		out, err := edits.Apply(text, batch)
		return out, len(batch), err
	case cursor >= 0:
		b, ok := svc.BlockAt(text, cursor)
		if !ok {
			return text, 0, fmt.Errorf("no chord block at offset %d", cursor)
		}
		batch := edits.BuildSteps(svc.Tokenize(b.Text, b.From), n)
		out, err := edits.Apply(text, batch)
		return out, len(batch), err
	default:
		res, err := svc.TransposeDocument(text, n)
		if err != nil {
			return text, 0, err
		}
		return res.Text, len(res.Edits), nil
	}
}

type transposeResult struct {
	name   string
	text   string
	chords int
}

func runTranspose(cmd *cobra.Command, args []string) error {
	n, err := resolveSteps(direction, steps)
	if err != nil {
		return err
	}
	svc := mustService()
	defer svc.Close()
	out := cmd.OutOrStdout()

	if len(args) == 0 || (len(args) == 1 && args[0] == "-") {
		_, text, err := readInput(nil)
		if err != nil {
			return err
		}
		res, _, err := transposeText(svc, text, n)
		if err != nil {
			return err
		}
		fmt.Fprint(out, res)
		return nil
	}

	results := make([]transposeResult, len(args))
	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(runtime.NumCPU())
	for i, path := range args {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("reading %s: %w", path, err)
			}
			text, count, err := transposeText(svc, string(data), n)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			if writeInPlace && count > 0 {
				if err := utils.WriteFileAtomic(path, []byte(text)); err != nil {
					return err
				}
			}
			results[i] = transposeResult{name: path, text: text, chords: count}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for _, r := range results {
		if writeInPlace {
			fmt.Fprintf(out, "%s %s\n", r.name, mutedStyle.Render(fmt.Sprintf("(%d chords, %+d)", r.chords, n)))
			continue
		}
		if len(results) > 1 {
			fmt.Fprintln(out, headerStyle.Render("==> "+r.name+" <=="))
		}
		fmt.Fprint(out, r.text)
	}
	logger.Infof("Transposed %d file(s) by %+d", len(results), n)
	return nil
}

func runInfo(cmd *cobra.Command, args []string) error {
	svc := mustService()
	defer svc.Close()
	out := cmd.OutOrStdout()

	failed := 0
	for _, value := range args {
		info, err := svc.ChordInfo(value)
		if err != nil {
			fmt.Fprintln(out, errorStyle.Render(value+": not a chord"))
			failed++
			continue
		}
		name := info.Type.Name
		if name == "" {
			name = mutedStyle.Render("(unnamed)")
		}
		fmt.Fprintf(out, "%s  %s\n", renderChord(value), name)
		fmt.Fprintf(out, "  intervals: %s\n", strings.Join(info.Type.Intervals, " "))
		fmt.Fprintf(out, "  notes:     %s\n", strings.Join(info.Notes, " "))
		tok := tokenizer.ChordToken{Value: value, Tonic: info.Symbol.Tonic}
		fmt.Fprintf(out, "  up: %s  down: %s\n",
			transpose.Transpose(tok, transpose.Up), transpose.Transpose(tok, transpose.Down))
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d symbols are not chords", failed, len(args))
	}
	return nil
}

func runTypes(cmd *cobra.Command, args []string) error {
	svc := mustService()
	defer svc.Close()
	out := cmd.OutOrStdout()

	query := ""
	if len(args) > 0 {
		query = args[0]
	}
	types := svc.ChordTypes(query)
	for _, t := range types {
		name := t.Name
		if name == "" {
			name = "(unnamed)"
		}
		fmt.Fprintf(out, "%-28s %-16s %s\n", name, strings.Join(t.Intervals, " "), strings.Join(t.Aliases, " "))
	}
	fmt.Fprintln(out, mutedStyle.Render(fmt.Sprintf("%d chord types", len(types))))
	return nil
}
