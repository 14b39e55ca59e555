package models

import "time"

// Sheet is a stored Markdown chord sheet.
type Sheet struct {
	ID          string    `json:"id"`           // UUID
	Title       string    `json:"title"`        // Song title
	Artist      string    `json:"artist"`       // Artist name
	Body        string    `json:"body"`         // Markdown source
	ContentHash string    `json:"content_hash"` // BLAKE3 digest of Body
	Semitones   int       `json:"semitones"`    // Net transposition since the sheet was saved
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// SheetSummary is a Sheet without its body, used for listings.
type SheetSummary struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Artist    string    `json:"artist"`
	Semitones int       `json:"semitones"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Summary drops the body.
func (s Sheet) Summary() SheetSummary {
	return SheetSummary{ID: s.ID, Title: s.Title, Artist: s.Artist, Semitones: s.Semitones, UpdatedAt: s.UpdatedAt}
}
