package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/himanishpuri/ChordSheets/pkg/chordsheets"
	"github.com/himanishpuri/ChordSheets/pkg/logger"
)

// Global flags
var (
	dbPath        string
	typesFile     string
	blockLanguage string
	verbose       bool
)

var rootCmd = &cobra.Command{
	Use:   "chordsheets",
	Short: "Tokenize and transpose chord sheets",
	Long: `chordsheets finds chord symbols in plain text and Markdown chord sheets
and transposes them by semitones with simple enharmonic spelling.

Chord blocks in Markdown are fenced code blocks tagged "chords":

  ` + "```chords" + `
  C   G/B   Am7   Fmaj7
  ` + "```",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if verbose {
			logger.SetLevel(logger.DEBUG)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.GetLogger().Sync()
	},
}

func init() {
	// .env is optional; load it before flag defaults read the environment.
	_ = godotenv.Load()

	rootCmd.PersistentFlags().StringVar(&dbPath, "db", getEnvOrDefault("CHORDSHEETS_DB_PATH", "chordsheets.sqlite3"), "Path to the SQLite sheet library")
	rootCmd.PersistentFlags().StringVar(&typesFile, "types", os.Getenv("CHORDSHEETS_TYPES_FILE"), "YAML file with extra chord types")
	rootCmd.PersistentFlags().StringVar(&blockLanguage, "lang", getEnvOrDefault("CHORDSHEETS_BLOCK_LANGUAGE", "chords"), "Fence info string of chord blocks")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(tokenizeCmd, transposeCmd, infoCmd, typesCmd, watchCmd, libraryCmd)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// createService creates a new chordsheets service with configured options
func createService() (chordsheets.Service, error) {
	opts := []chordsheets.Option{
		chordsheets.WithDBPath(dbPath),
		chordsheets.WithBlockLanguage(blockLanguage),
	}
	if typesFile != "" {
		opts = append(opts, chordsheets.WithChordTypesFile(typesFile))
	}
	return chordsheets.NewService(opts...)
}

// mustService builds the service or exits: a chord-type configuration error
// is fatal.
func mustService() chordsheets.Service {
	svc, err := createService()
	if err != nil {
		logger.Fatalf("Service initialization failed: %v", err)
	}
	return svc
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
