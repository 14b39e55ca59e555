package chordsheets

import (
	"github.com/himanishpuri/ChordSheets/pkg/chordsheets/storage"
	"github.com/himanishpuri/ChordSheets/pkg/models"
)

// ErrSheetNotFound is returned by library operations for unknown IDs.
var ErrSheetNotFound = storage.ErrSheetNotFound

// storageAdapter adapts the storage.DBClient to implement the Storage interface.
type storageAdapter struct {
	db *storage.DBClient
}

// NewSQLiteStorage creates a new SQLite storage backend.
func NewSQLiteStorage(dbPath string) (Storage, error) {
	db, err := storage.NewDBClientWithPath(dbPath)
	if err != nil {
		return nil, err
	}
	return &storageAdapter{db: db}, nil
}

func (s *storageAdapter) SaveSheet(title, artist, body string) (string, error) {
	return s.db.SaveSheet(title, artist, body)
}

func (s *storageAdapter) PutSheets(sheets []models.Sheet) (int, error) {
	return s.db.PutSheets(sheets)
}

func (s *storageAdapter) GetSheet(id string) (*models.Sheet, error) {
	return s.db.GetSheet(id)
}

func (s *storageAdapter) ListSheets() ([]models.Sheet, error) {
	return s.db.ListSheets()
}

func (s *storageAdapter) DeleteSheet(id string) error {
	return s.db.DeleteSheet(id)
}

func (s *storageAdapter) ModifySheet(id string, fn ModifyFunc) (*models.Sheet, error) {
	return s.db.ModifySheet(id, storage.ModifyFunc(fn))
}

func (s *storageAdapter) Close() error {
	return s.db.Close()
}
