//go:build !js && !wasm
// +build !js,!wasm

package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/himanishpuri/ChordSheets/pkg/models"
	"github.com/himanishpuri/ChordSheets/pkg/utils"
)

const DefaultDBFile = "chordsheets.sqlite3"
const errDBClientNil = "db client is nil"

// ErrSheetNotFound is returned for IDs with no stored sheet.
var ErrSheetNotFound = errors.New("sheet not found")

type DBClient struct {
	DB *gorm.DB
	db *sql.DB
}

type Sheet struct {
	ID          string `gorm:"primaryKey;type:varchar(36)"`
	Title       string `gorm:"uniqueIndex:idx_sheet_unique,priority:1;index:idx_sheet_meta,priority:2" json:"title"`
	Artist      string `gorm:"uniqueIndex:idx_sheet_unique,priority:2;index:idx_sheet_meta,priority:1" json:"artist"`
	Body        string `gorm:"type:text" json:"body"`
	ContentHash string `gorm:"type:char(64);index:idx_content_hash" json:"content_hash"`
	Semitones   int    `json:"semitones"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (s Sheet) toModel() models.Sheet {
	return models.Sheet{
		ID:          s.ID,
		Title:       s.Title,
		Artist:      s.Artist,
		Body:        s.Body,
		ContentHash: s.ContentHash,
		Semitones:   s.Semitones,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

func NewDBClient() (*DBClient, error) {
	dbPath := os.Getenv("CHORDSHEETS_DB_PATH")
	if dbPath == "" {
		dbPath = DefaultDBFile
	}
	return NewDBClientWithPath(dbPath)
}

func NewDBClientWithPath(dbPath string) (*DBClient, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := utils.MakeDir(dir); err != nil {
			return nil, fmt.Errorf("creating db dir: %w", err)
		}
	}

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	}

	db, err := gorm.Open(sqlite.Open(dbPath+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("getting sql.DB from gorm: %w", err)
	}

	// sqlite allows a single writer.
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := db.AutoMigrate(&Sheet{}); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("auto migrate: %w", err)
	}

	return &DBClient{DB: db, db: sqlDB}, nil
}

func (c *DBClient) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	return c.db.Close()
}

func (c *DBClient) ready() error {
	if c == nil || c.DB == nil {
		return errors.New(errDBClientNil)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey) ||
		strings.Contains(err.Error(), "UNIQUE constraint failed") ||
		strings.Contains(err.Error(), "constraint failed")
}

// SaveSheet stores a sheet keyed by title and artist. Saving over an
// existing entry replaces its body and resets its transposition; the ID is
// kept.
func (c *DBClient) SaveSheet(title, artist, body string) (string, error) {
	return c.PutSheet(models.Sheet{Title: title, Artist: artist, Body: body})
}

// PutSheet upserts s by title and artist. A new entry takes s.ID when it is
// a valid UUID, otherwise a fresh one.
func (c *DBClient) PutSheet(s models.Sheet) (string, error) {
	if err := c.ready(); err != nil {
		return "", err
	}

	hash := utils.ContentHash(s.Body)
	var row Sheet

	err := c.DB.Where("title = ? AND artist = ?", s.Title, s.Artist).First(&row).Error
	if err == nil {
		if row.ContentHash == hash && row.Semitones == s.Semitones {
			return row.ID, nil
		}
		updates := map[string]any{"body": s.Body, "content_hash": hash, "semitones": s.Semitones}
		if err := c.DB.Model(&row).Updates(updates).Error; err != nil {
			return "", fmt.Errorf("updating sheet: %w", err)
		}
		return row.ID, nil
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", fmt.Errorf("querying existing sheet: %w", err)
	}

	id := s.ID
	if !utils.IsUUID(id) {
		id = utils.GenerateUUID()
	}
	row = Sheet{
		ID:          id,
		Title:       s.Title,
		Artist:      s.Artist,
		Body:        s.Body,
		ContentHash: hash,
		Semitones:   s.Semitones,
	}
	if err := c.DB.Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			if fetchErr := c.DB.Where("title = ? AND artist = ?", s.Title, s.Artist).First(&row).Error; fetchErr != nil {
				return "", fmt.Errorf("fetching sheet after constraint violation: %w", fetchErr)
			}
			return row.ID, nil
		}
		return "", fmt.Errorf("creating sheet: %w", err)
	}

	return row.ID, nil
}

func (c *DBClient) GetSheet(id string) (*models.Sheet, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}
	var row Sheet
	if err := c.DB.Where("id = ?", id).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("sheet %s: %w", id, ErrSheetNotFound)
		}
		return nil, fmt.Errorf("querying sheet: %w", err)
	}
	s := row.toModel()
	return &s, nil
}

// ListSheets returns every sheet ordered by artist then title.
func (c *DBClient) ListSheets() ([]models.Sheet, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}
	var rows []Sheet
	if err := c.DB.Order("artist, title").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("listing sheets: %w", err)
	}
	out := make([]models.Sheet, len(rows))
	for i, r := range rows {
		out[i] = r.toModel()
	}
	return out, nil
}

func (c *DBClient) DeleteSheet(id string) error {
	if err := c.ready(); err != nil {
		return err
	}
	res := c.DB.Where("id = ?", id).Delete(&Sheet{})
	if res.Error != nil {
		return fmt.Errorf("deleting sheet: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("sheet %s: %w", id, ErrSheetNotFound)
	}
	return nil
}

// ModifyFunc computes a new body and a semitone delta from the current
// sheet.
type ModifyFunc func(current models.Sheet) (body string, deltaSemitones int, err error)

// ModifySheet reads, rewrites and stores a sheet in one transaction. An
// error from fn rolls the transaction back.
func (c *DBClient) ModifySheet(id string, fn ModifyFunc) (*models.Sheet, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}

	var out models.Sheet
	err := c.DB.Transaction(func(tx *gorm.DB) error {
		var row Sheet
		if err := tx.Where("id = ?", id).First(&row).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("sheet %s: %w", id, ErrSheetNotFound)
			}
			return err
		}

		body, delta, err := fn(row.toModel())
		if err != nil {
			return err
		}

		row.Body = body
		row.ContentHash = utils.ContentHash(body)
		row.Semitones += delta
		if err := tx.Save(&row).Error; err != nil {
			return fmt.Errorf("saving sheet: %w", err)
		}
		out = row.toModel()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateSheet replaces the body of a sheet and adds deltaSemitones to its
// net transposition.
func (c *DBClient) UpdateSheet(id, body string, deltaSemitones int) (*models.Sheet, error) {
	return c.ModifySheet(id, func(models.Sheet) (string, int, error) {
		return body, deltaSemitones, nil
	})
}

// PutSheets upserts sheets in a single transaction and returns how many
// were written.
func (c *DBClient) PutSheets(sheets []models.Sheet) (int, error) {
	if err := c.ready(); err != nil {
		return 0, err
	}
	n := 0
	err := c.DB.Transaction(func(tx *gorm.DB) error {
		inner := &DBClient{DB: tx}
		for _, s := range sheets {
			if _, err := inner.PutSheet(s); err != nil {
				return fmt.Errorf("importing %q by %q: %w", s.Title, s.Artist, err)
			}
			n++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return n, nil
}
