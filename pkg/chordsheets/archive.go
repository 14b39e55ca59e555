package chordsheets

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/ulikunitz/xz"

	"github.com/himanishpuri/ChordSheets/pkg/models"
)

// ExportSheets writes the whole library to w as xz-compressed JSON and
// returns the number of sheets written.
func (s *chordService) ExportSheets(ctx context.Context, w io.Writer) (int, error) {
	sheets, err := s.ListSheets(ctx)
	if err != nil {
		return 0, err
	}

	xw, err := xz.NewWriter(w)
	if err != nil {
		return 0, fmt.Errorf("creating xz writer: %w", err)
	}
	archive := models.Archive{
		Version:    models.ArchiveVersion,
		ExportedAt: time.Now().UTC(),
		Sheets:     sheets,
	}
	if err := json.NewEncoder(xw).Encode(archive); err != nil {
		xw.Close()
		return 0, fmt.Errorf("encoding archive: %w", err)
	}
	if err := xw.Close(); err != nil {
		return 0, fmt.Errorf("closing xz writer: %w", err)
	}

	s.log.Infof("Exported %d sheets", len(sheets))
	return len(sheets), nil
}

// ImportSheets reads an archive produced by ExportSheets and upserts its
// sheets by title and artist. Nothing is written if any sheet fails.
func (s *chordService) ImportSheets(ctx context.Context, r io.Reader) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	xr, err := xz.NewReader(r)
	if err != nil {
		return 0, fmt.Errorf("opening xz stream: %w", err)
	}
	var archive models.Archive
	if err := json.NewDecoder(xr).Decode(&archive); err != nil {
		return 0, fmt.Errorf("decoding archive: %w", err)
	}
	if archive.Version != models.ArchiveVersion {
		return 0, fmt.Errorf("unsupported archive version %d", archive.Version)
	}

	stor, err := s.store()
	if err != nil {
		return 0, err
	}
	n, err := stor.PutSheets(archive.Sheets)
	if err != nil {
		return 0, fmt.Errorf("failed to import sheets: %w", err)
	}
	s.log.Infof("Imported %d sheets", n)
	return n, nil
}
