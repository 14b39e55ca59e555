//go:build !js && !wasm
// +build !js,!wasm

package main

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/himanishpuri/ChordSheets/pkg/chordsheets"
	"github.com/himanishpuri/ChordSheets/pkg/chordsheets/edits"
	"github.com/himanishpuri/ChordSheets/pkg/chordsheets/tokenizer"
	"github.com/himanishpuri/ChordSheets/pkg/chordsheets/transpose"
	"github.com/himanishpuri/ChordSheets/pkg/logger"
	"github.com/himanishpuri/ChordSheets/pkg/models"
	"github.com/himanishpuri/ChordSheets/pkg/utils"
)

// Server encapsulates the HTTP server and its dependencies
type Server struct {
	service chordsheets.Service
	config  *ServerConfig
	log     chordsheets.Logger
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port           int
	DBPath         string
	BlockLanguage  string
	AllowedOrigins []string
}

// NewServer creates a new server instance
func NewServer(service chordsheets.Service, config *ServerConfig) *Server {
	return &Server{
		service: service,
		config:  config,
		log:     logger.GetLogger(),
	}
}

// respondError writes an error response
func (s *Server) respondError(c *gin.Context, statusCode int, message string) {
	c.AbortWithStatusJSON(statusCode, ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
		Code:    statusCode,
	})
}

// bindJSON decodes a size-limited JSON body into req, answering 400 on
// failure.
func (s *Server) bindJSON(c *gin.Context, req any) bool {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxBodyBytes)
	if err := c.ShouldBindJSON(req); err != nil {
		s.respondError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return false
	}
	return true
}

// semitones resolves a Shift, answering 400 on failure.
func (s *Server) semitones(c *gin.Context, shift Shift) (int, bool) {
	n, err := shift.Semitones()
	if err != nil {
		s.respondError(c, http.StatusBadRequest, err.Error())
		return 0, false
	}
	return n, true
}

// sheetID reads and checks the :id path parameter.
func (s *Server) sheetID(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if !utils.IsUUID(id) {
		s.respondError(c, http.StatusBadRequest, "Invalid sheet ID")
		return "", false
	}
	return id, true
}

// respondLibraryError maps a library error to a status code.
func (s *Server) respondLibraryError(c *gin.Context, err error, action string) {
	if errors.Is(err, chordsheets.ErrSheetNotFound) {
		s.respondError(c, http.StatusNotFound, "Sheet not found")
		return
	}
	s.log.Errorf("Failed to %s: %v", action, err)
	s.respondError(c, http.StatusInternalServerError, "Failed to "+action)
}

// ------------------------ Meta ------------------------

// handleRoot handles GET /
func (s *Server) handleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": "ChordSheets API",
		"version": "1.0.0",
		"endpoints": gin.H{
			"health":            "GET /health",
			"chordTypes":        "GET /api/chord-types?q=",
			"chordInfo":         "GET /api/chords/{value}",
			"tokenize":          "POST /api/tokenize",
			"transpose":         "POST /api/transpose",
			"edits":             "POST /api/edits",
			"transposeDocument": "POST /api/document/transpose",
			"listSheets":        "GET /api/sheets",
			"addSheet":          "POST /api/sheets",
			"getSheet":          "GET /api/sheets/{id}",
			"deleteSheet":       "DELETE /api/sheets/{id}",
			"transposeSheet":    "POST /api/sheets/{id}/transpose",
		},
	})
}

// handleHealth handles GET /health
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:     "healthy",
		Time:       time.Now().UTC(),
		ChordTypes: len(s.service.ChordTypes("")),
	})
}

// ------------------------ Engine ------------------------

// handleChordTypes handles GET /api/chord-types
func (s *Server) handleChordTypes(c *gin.Context) {
	types := s.service.ChordTypes(strings.TrimSpace(c.Query("q")))
	c.JSON(http.StatusOK, gin.H{
		"chord_types": types,
		"count":       len(types),
	})
}

// handleChordInfo handles GET /api/chords/:value
func (s *Server) handleChordInfo(c *gin.Context) {
	value := c.Param("value")
	info, err := s.service.ChordInfo(value)
	if err != nil {
		s.respondError(c, http.StatusNotFound, err.Error())
		return
	}
	c.JSON(http.StatusOK, info)
}

// handleTokenize handles POST /api/tokenize
func (s *Server) handleTokenize(c *gin.Context) {
	var req TokenizeRequest
	if !s.bindJSON(c, &req) {
		return
	}
	if req.BaseOffset < 0 {
		s.respondError(c, http.StatusBadRequest, "base_offset must not be negative")
		return
	}

	var toks []tokenizer.ChordToken
	if req.Document {
		toks = s.service.TokenizeDocument(req.Text)
	} else {
		toks = s.service.Tokenize(req.Text, req.BaseOffset)
	}
	if toks == nil {
		toks = []tokenizer.ChordToken{}
	}
	c.JSON(http.StatusOK, TokenizeResponse{Tokens: toks, Count: len(toks)})
}

// handleTranspose handles POST /api/transpose
func (s *Server) handleTranspose(c *gin.Context) {
	var req TransposeRequest
	if !s.bindJSON(c, &req) {
		return
	}
	n, ok := s.semitones(c, req.Shift)
	if !ok {
		return
	}

	out := make([]TransposedDTO, len(req.Chords))
	for i, value := range req.Chords {
		tok := tokenizer.ChordToken{Value: value}
		if toks := s.service.Tokenize(value, 0); len(toks) == 1 && toks[0].Value == value {
			tok = toks[0]
		}
		out[i] = TransposedDTO{
			Chord:  value,
			Result: transpose.TokenSteps(tok, n),
			Parts:  transpose.TokenChord(tok, n),
		}
	}
	c.JSON(http.StatusOK, TransposeResponse{Semitones: n, Chords: out})
}

// handleEdits handles POST /api/edits
func (s *Server) handleEdits(c *gin.Context) {
	var req EditsRequest
	if !s.bindJSON(c, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		s.respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	n, ok := s.semitones(c, req.Shift)
	if !ok {
		return
	}

	toks := req.Tokens
	if len(toks) == 0 {
		toks = s.service.Tokenize(req.Text, req.BaseOffset)
	}
	batch := edits.BuildSteps(toks, n)
	if batch == nil {
		batch = edits.Batch{}
	}
	c.JSON(http.StatusOK, EditsResponse{Edits: batch, Count: len(batch)})
}

// handleTransposeDocument handles POST /api/document/transpose
func (s *Server) handleTransposeDocument(c *gin.Context) {
	var req DocumentTransposeRequest
	if !s.bindJSON(c, &req) {
		return
	}
	n, ok := s.semitones(c, req.Shift)
	if !ok {
		return
	}

	res, err := s.service.TransposeDocument(req.Markdown, n)
	if err != nil {
		s.respondError(c, http.StatusUnprocessableEntity, err.Error())
		return
	}
	c.JSON(http.StatusOK, res)
}

// ------------------------ Library ------------------------

// handleListSheets handles GET /api/sheets
func (s *Server) handleListSheets(c *gin.Context) {
	sheets, err := s.service.ListSheets(c.Request.Context())
	if err != nil {
		s.respondLibraryError(c, err, "list sheets")
		return
	}

	summaries := make([]models.SheetSummary, len(sheets))
	for i, sh := range sheets {
		summaries[i] = sh.Summary()
	}
	c.JSON(http.StatusOK, ListSheetsResponse{Sheets: summaries, Count: len(summaries)})
}

// handleAddSheet handles POST /api/sheets
func (s *Server) handleAddSheet(c *gin.Context) {
	var req AddSheetRequest
	if !s.bindJSON(c, &req) {
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		s.respondError(c, http.StatusBadRequest, "title is required")
		return
	}

	id, err := s.service.AddSheet(c.Request.Context(), req.Title, req.Artist, req.Body)
	if err != nil {
		s.respondLibraryError(c, err, "add sheet")
		return
	}
	c.JSON(http.StatusCreated, AddSheetResponse{
		Message: "Sheet saved",
		ID:      id,
		Title:   req.Title,
		Artist:  req.Artist,
	})
}

// handleGetSheet handles GET /api/sheets/:id
func (s *Server) handleGetSheet(c *gin.Context) {
	id, ok := s.sheetID(c)
	if !ok {
		return
	}
	sheet, err := s.service.GetSheet(c.Request.Context(), id)
	if err != nil {
		s.respondLibraryError(c, err, "get sheet")
		return
	}
	c.JSON(http.StatusOK, sheet)
}

// handleDeleteSheet handles DELETE /api/sheets/:id
func (s *Server) handleDeleteSheet(c *gin.Context) {
	id, ok := s.sheetID(c)
	if !ok {
		return
	}
	if err := s.service.DeleteSheet(c.Request.Context(), id); err != nil {
		s.respondLibraryError(c, err, "delete sheet")
		return
	}
	c.JSON(http.StatusOK, DeleteSheetResponse{Message: "Sheet deleted", ID: id})
}

// handleTransposeSheet handles POST /api/sheets/:id/transpose
func (s *Server) handleTransposeSheet(c *gin.Context) {
	id, ok := s.sheetID(c)
	if !ok {
		return
	}
	var req SheetTransposeRequest
	if c.Request.ContentLength != 0 && !s.bindJSON(c, &req) {
		return
	}
	n, ok := s.semitones(c, req.Shift)
	if !ok {
		return
	}

	sheet, err := s.service.TransposeSheet(c.Request.Context(), id, n)
	if err != nil {
		s.respondLibraryError(c, err, "transpose sheet")
		return
	}
	c.JSON(http.StatusOK, sheet)
}
