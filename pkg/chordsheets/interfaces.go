package chordsheets

import (
	"context"
	"io"

	"github.com/himanishpuri/ChordSheets/pkg/chordsheets/chord"
	"github.com/himanishpuri/ChordSheets/pkg/chordsheets/chordtype"
	"github.com/himanishpuri/ChordSheets/pkg/chordsheets/edits"
	"github.com/himanishpuri/ChordSheets/pkg/chordsheets/sheet"
	"github.com/himanishpuri/ChordSheets/pkg/chordsheets/tokenizer"
	"github.com/himanishpuri/ChordSheets/pkg/chordsheets/transpose"
	"github.com/himanishpuri/ChordSheets/pkg/models"
)

type Service interface {
	Tokenize(text string, baseOffset int) []tokenizer.ChordToken
	TokenizeDocument(markdown string) []tokenizer.ChordToken
	Transpose(tok tokenizer.ChordToken, d transpose.Direction) string
	BuildEditBatch(tokens []tokenizer.ChordToken, d transpose.Direction) edits.Batch
	TransposeDocument(markdown string, steps int) (*DocumentResult, error)
	BlockAt(markdown string, offset int) (sheet.Block, bool)
	ChordInfo(value string) (chord.Info, error)
	ChordTypes(query string) []chordtype.ChordType

	AddSheet(ctx context.Context, title, artist, body string) (string, error)
	GetSheet(ctx context.Context, id string) (*models.Sheet, error)
	ListSheets(ctx context.Context) ([]models.Sheet, error)
	DeleteSheet(ctx context.Context, id string) error
	TransposeSheet(ctx context.Context, id string, steps int) (*models.Sheet, error)
	ExportSheets(ctx context.Context, w io.Writer) (int, error)
	ImportSheets(ctx context.Context, r io.Reader) (int, error)
	Close() error
}

// ModifyFunc derives a new body and semitone delta from a stored sheet.
type ModifyFunc func(current models.Sheet) (body string, deltaSemitones int, err error)

type Storage interface {
	SaveSheet(title, artist, body string) (string, error)
	PutSheets(sheets []models.Sheet) (int, error)
	GetSheet(id string) (*models.Sheet, error)
	ListSheets() ([]models.Sheet, error)
	DeleteSheet(id string) error
	ModifySheet(id string, fn ModifyFunc) (*models.Sheet, error)
	Close() error
}

type Logger interface {
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
	Debugf(format string, args ...any)
}
