package chordsheets

import (
	"os"

	"github.com/himanishpuri/ChordSheets/pkg/chordsheets/sheet"
)

type Config struct {
	DBPath         string
	ChordTypesFile string
	BlockLanguage  string
	Logger         Logger
	Storage        Storage
}

type Option func(*Config)

func WithDBPath(path string) Option {
	return func(c *Config) {
		c.DBPath = path
	}
}

// WithChordTypesFile loads extra chord types from a YAML file on top of the
// preconfigured ones.
func WithChordTypesFile(path string) Option {
	return func(c *Config) {
		c.ChordTypesFile = path
	}
}

// WithBlockLanguage sets the fence info string that marks chord blocks.
func WithBlockLanguage(lang string) Option {
	return func(c *Config) {
		c.BlockLanguage = lang
	}
}

func WithLogger(log Logger) Option {
	return func(c *Config) {
		c.Logger = log
	}
}

func WithStorage(storage Storage) Option {
	return func(c *Config) {
		c.Storage = storage
	}
}

// OptionsFromEnv reads CHORDSHEETS_DB_PATH, CHORDSHEETS_TYPES_FILE and
// CHORDSHEETS_BLOCK_LANGUAGE. Unset variables contribute no option.
func OptionsFromEnv() []Option {
	var opts []Option
	if v := os.Getenv("CHORDSHEETS_DB_PATH"); v != "" {
		opts = append(opts, WithDBPath(v))
	}
	if v := os.Getenv("CHORDSHEETS_TYPES_FILE"); v != "" {
		opts = append(opts, WithChordTypesFile(v))
	}
	if v := os.Getenv("CHORDSHEETS_BLOCK_LANGUAGE"); v != "" {
		opts = append(opts, WithBlockLanguage(v))
	}
	return opts
}

func defaultConfig() *Config {
	return &Config{
		DBPath:        "chordsheets.sqlite3",
		BlockLanguage: sheet.DefaultLanguage,
		Logger:        nil,
	}
}
