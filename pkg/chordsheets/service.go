package chordsheets

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/himanishpuri/ChordSheets/pkg/chordsheets/chord"
	"github.com/himanishpuri/ChordSheets/pkg/chordsheets/chordtype"
	"github.com/himanishpuri/ChordSheets/pkg/chordsheets/edits"
	"github.com/himanishpuri/ChordSheets/pkg/chordsheets/sheet"
	"github.com/himanishpuri/ChordSheets/pkg/chordsheets/tokenizer"
	"github.com/himanishpuri/ChordSheets/pkg/chordsheets/transpose"
	"github.com/himanishpuri/ChordSheets/pkg/logger"
	"github.com/himanishpuri/ChordSheets/pkg/models"
)

// chordService is the default implementation of the Service interface.
type chordService struct {
	registry  *chordtype.Registry
	tokenizer *tokenizer.Tokenizer
	log       Logger
	config    *Config

	mu      sync.Mutex
	storage Storage
}

// NewService registers the custom chord types and returns a ready service.
// A chord-type configuration error is returned as is and must be treated
// as fatal. The sheet library is opened on first use.
func NewService(opts ...Option) (Service, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.Logger == nil {
		cfg.Logger = logger.GetLogger()
	}
	if cfg.BlockLanguage == "" {
		cfg.BlockLanguage = sheet.DefaultLanguage
	}

	if err := chordtype.RegisterCustomChordTypes(); err != nil {
		return nil, fmt.Errorf("registering custom chord types: %w", err)
	}

	registry := chordtype.Default()
	if cfg.ChordTypesFile != "" {
		customs, err := chordtype.LoadCustomTypes(cfg.ChordTypesFile)
		if err != nil {
			return nil, err
		}
		registry = registry.Clone()
		if err := registry.Apply(customs); err != nil {
			return nil, fmt.Errorf("chord types file %s: %w", cfg.ChordTypesFile, err)
		}
		cfg.Logger.Infof("Loaded %d chord types from %s", len(customs), cfg.ChordTypesFile)
	}
	cfg.Logger.Debugf("Chord type registry ready with %d types", registry.Len())

	return &chordService{
		registry:  registry,
		tokenizer: tokenizer.New(registry),
		log:       cfg.Logger,
		config:    cfg,
		storage:   cfg.Storage,
	}, nil
}

// ------------------------ Engine ------------------------

// Tokenize returns the chord tokens of a block of text.
func (s *chordService) Tokenize(text string, baseOffset int) []tokenizer.ChordToken {
	return s.tokenizer.Tokens(text, baseOffset)
}

// TokenizeDocument returns the chord tokens of every chord block of a
// Markdown document.
func (s *chordService) TokenizeDocument(markdown string) []tokenizer.ChordToken {
	return sheet.Tokens(s.tokenizer, markdown, s.config.BlockLanguage)
}

// Transpose transposes one token a semitone up or down.
func (s *chordService) Transpose(tok tokenizer.ChordToken, d transpose.Direction) string {
	return transpose.Transpose(tok, d)
}

// BuildEditBatch transposes every token and pairs the results with their
// spans.
func (s *chordService) BuildEditBatch(tokens []tokenizer.ChordToken, d transpose.Direction) edits.Batch {
	return edits.Build(tokens, d)
}

// TransposeDocument transposes every chord block of a Markdown document by
// steps semitones.
func (s *chordService) TransposeDocument(markdown string, steps int) (*DocumentResult, error) {
	text, batch, err := sheet.Transpose(s.tokenizer, markdown, s.config.BlockLanguage, steps)
	if err != nil {
		return nil, fmt.Errorf("transposing document: %w", err)
	}
	return &DocumentResult{
		Text:   text,
		Edits:  batch,
		Blocks: sheet.FindBlocks(markdown, s.config.BlockLanguage),
		Steps:  steps,
	}, nil
}

// BlockAt returns the chord block under the cursor.
func (s *chordService) BlockAt(markdown string, offset int) (sheet.Block, bool) {
	return sheet.BlockAt(markdown, s.config.BlockLanguage, offset)
}

// ChordInfo describes a single chord symbol.
func (s *chordService) ChordInfo(value string) (chord.Info, error) {
	return chord.Describe(value, s.registry)
}

// ChordTypes lists registered chord types whose name or an alias contains
// query. An empty query lists everything.
func (s *chordService) ChordTypes(query string) []chordtype.ChordType {
	all := s.registry.All()
	if query == "" {
		return all
	}
	out := make([]chordtype.ChordType, 0)
	for _, t := range all {
		if strings.Contains(t.Name, query) {
			out = append(out, t)
			continue
		}
		for _, a := range t.Aliases {
			if strings.Contains(a, query) {
				out = append(out, t)
				break
			}
		}
	}
	return out
}

// ------------------------ Library ------------------------

func (s *chordService) store() (Storage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.storage != nil {
		return s.storage, nil
	}
	stor, err := NewSQLiteStorage(s.config.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage: %w", err)
	}
	s.log.Debugf("Opened sheet library at %s", s.config.DBPath)
	s.storage = stor
	return stor, nil
}

// AddSheet stores a Markdown sheet. Saving the same title and artist again
// replaces the stored body.
func (s *chordService) AddSheet(ctx context.Context, title, artist, body string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if strings.TrimSpace(title) == "" {
		return "", fmt.Errorf("sheet title is required")
	}
	stor, err := s.store()
	if err != nil {
		return "", err
	}
	id, err := stor.SaveSheet(title, artist, body)
	if err != nil {
		return "", fmt.Errorf("failed to save sheet: %w", err)
	}
	s.log.Infof("Saved sheet %q by %q as %s", title, artist, id)
	return id, nil
}

// GetSheet retrieves a sheet by ID.
func (s *chordService) GetSheet(ctx context.Context, id string) (*models.Sheet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	stor, err := s.store()
	if err != nil {
		return nil, err
	}
	return stor.GetSheet(id)
}

// ListSheets returns all stored sheets.
func (s *chordService) ListSheets(ctx context.Context) ([]models.Sheet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	stor, err := s.store()
	if err != nil {
		return nil, err
	}
	return stor.ListSheets()
}

// DeleteSheet removes a sheet.
func (s *chordService) DeleteSheet(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	stor, err := s.store()
	if err != nil {
		return err
	}
	if err := stor.DeleteSheet(id); err != nil {
		return err
	}
	s.log.Infof("Deleted sheet %s", id)
	return nil
}

// TransposeSheet transposes every chord block of a stored sheet and saves
// the result in the same transaction.
func (s *chordService) TransposeSheet(ctx context.Context, id string, steps int) (*models.Sheet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	stor, err := s.store()
	if err != nil {
		return nil, err
	}
	if steps == 0 {
		return stor.GetSheet(id)
	}

	updated, err := stor.ModifySheet(id, func(current models.Sheet) (string, int, error) {
		if err := ctx.Err(); err != nil {
			return "", 0, err
		}
		text, batch, err := sheet.Transpose(s.tokenizer, current.Body, s.config.BlockLanguage, steps)
		if err != nil {
			return "", 0, err
		}
		s.log.Debugf("Sheet %s: %d chord edits", id, len(batch))
		return text, steps, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to transpose sheet: %w", err)
	}
	s.log.Infof("Transposed sheet %s by %+d (net %+d)", id, steps, updated.Semitones)
	return updated, nil
}

// Close releases all resources held by the service.
func (s *chordService) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.storage == nil {
		return nil
	}
	return s.storage.Close()
}
