//go:build !js && !wasm
// +build !js,!wasm

package main

import (
	"fmt"
	"time"

	"github.com/himanishpuri/ChordSheets/pkg/chordsheets/edits"
	"github.com/himanishpuri/ChordSheets/pkg/chordsheets/tokenizer"
	"github.com/himanishpuri/ChordSheets/pkg/chordsheets/transpose"
	"github.com/himanishpuri/ChordSheets/pkg/models"
)

// MaxBodyBytes caps request bodies; chord sheets are small text files.
const MaxBodyBytes = 1 << 20

// Shift selects a transposition: Steps semitones (default 1) in Direction
// (default "up").
type Shift struct {
	Direction string `json:"direction,omitempty"`
	Steps     *int   `json:"steps,omitempty"`
}

// Semitones returns the signed shift.
func (s Shift) Semitones() (int, error) {
	dir := s.Direction
	if dir == "" {
		dir = transpose.Up.String()
	}
	d, err := transpose.ParseDirection(dir)
	if err != nil {
		return 0, err
	}
	n := 1
	if s.Steps != nil {
		n = *s.Steps
	}
	if n < 0 {
		return 0, fmt.Errorf("steps must not be negative, got %d", n)
	}
	return n * d.Semitones(), nil
}

// TokenizeRequest is the request body for POST /api/tokenize
type TokenizeRequest struct {
	Text       string `json:"text"`
	BaseOffset int    `json:"base_offset"`
	// Document tokenizes only the chord blocks of a Markdown document.
	Document bool `json:"document"`
}

type TokenizeResponse struct {
	Tokens []tokenizer.ChordToken `json:"tokens"`
	Count  int                    `json:"count"`
}

// TransposeRequest is the request body for POST /api/transpose
type TransposeRequest struct {
	Chords []string `json:"chords" binding:"required"`
	Shift
}

type TransposedDTO struct {
	Chord  string                    `json:"chord"`
	Result string                    `json:"result"`
	Parts  transpose.TransposedChord `json:"parts"`
}

type TransposeResponse struct {
	Semitones int             `json:"semitones"`
	Chords    []TransposedDTO `json:"chords"`
}

// EditsRequest is the request body for POST /api/edits. Either Tokens or
// Text must be given; Text is tokenized at BaseOffset.
type EditsRequest struct {
	Tokens     []tokenizer.ChordToken `json:"tokens"`
	Text       string                 `json:"text"`
	BaseOffset int                    `json:"base_offset"`
	Shift
}

// Validate checks if the request is valid
func (r *EditsRequest) Validate() error {
	if len(r.Tokens) == 0 && r.Text == "" {
		return fmt.Errorf("tokens or text is required")
	}
	return nil
}

type EditsResponse struct {
	Edits edits.Batch `json:"edits"`
	Count int         `json:"count"`
}

// DocumentTransposeRequest is the request body for POST /api/document/transpose
type DocumentTransposeRequest struct {
	Markdown string `json:"markdown" binding:"required"`
	Shift
}

// AddSheetRequest is the request body for POST /api/sheets
type AddSheetRequest struct {
	Title  string `json:"title" binding:"required"`
	Artist string `json:"artist"`
	Body   string `json:"body" binding:"required"`
}

type AddSheetResponse struct {
	Message string `json:"message"`
	ID      string `json:"id"`
	Title   string `json:"title"`
	Artist  string `json:"artist"`
}

// SheetTransposeRequest is the request body for POST /api/sheets/:id/transpose
type SheetTransposeRequest struct {
	Shift
}

type ListSheetsResponse struct {
	Sheets []models.SheetSummary `json:"sheets"`
	Count  int                   `json:"count"`
}

type DeleteSheetResponse struct {
	Message string `json:"message"`
	ID      string `json:"id"`
}

type HealthResponse struct {
	Status     string    `json:"status"`
	Time       time.Time `json:"time"`
	ChordTypes int       `json:"chord_types"`
}

// ErrorResponse is the standard error response format
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code,omitempty"`
}
