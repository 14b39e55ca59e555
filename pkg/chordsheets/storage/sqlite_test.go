//go:build !js && !wasm
// +build !js,!wasm

package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/himanishpuri/ChordSheets/pkg/models"
	"github.com/himanishpuri/ChordSheets/pkg/utils"
)

const letItBe = "# Let It Be\n\n```chords\nC G Am F\n```\n"

// Helper function to create a temporary test database
func setupTestDB(t *testing.T) (*DBClient, string) {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test_chordsheets.sqlite3")
	t.Setenv("CHORDSHEETS_DB_PATH", dbPath)

	client, err := NewDBClient()
	if err != nil {
		t.Fatalf("Failed to create test DB client: %v", err)
	}
	t.Cleanup(func() {
		client.Close()
	})

	return client, dbPath
}

func TestNewDBClient(t *testing.T) {
	client, dbPath := setupTestDB(t)

	if client.DB == nil {
		t.Fatal("Expected non-nil GORM DB handle")
	}
	if client.db == nil {
		t.Fatal("Expected non-nil sql.DB handle")
	}
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Errorf("Database file was not created at %s", dbPath)
	}
}

func TestNewDBClientWithPathCreatesDirs(t *testing.T) {
	customPath := filepath.Join(t.TempDir(), "nested", "dir", "custom.db")

	client, err := NewDBClientWithPath(customPath)
	if err != nil {
		t.Fatalf("Failed to create DB with custom path: %v", err)
	}
	defer client.Close()

	if _, err := os.Stat(customPath); os.IsNotExist(err) {
		t.Errorf("Database file was not created at custom path %s", customPath)
	}
}

func TestSaveSheet(t *testing.T) {
	client, _ := setupTestDB(t)

	id, err := client.SaveSheet("Let It Be", "The Beatles", letItBe)
	if err != nil {
		t.Fatalf("Failed to save sheet: %v", err)
	}
	if !utils.IsUUID(id) {
		t.Fatalf("Expected UUID, got %q", id)
	}

	sheet, err := client.GetSheet(id)
	if err != nil {
		t.Fatalf("Failed to get sheet: %v", err)
	}
	if sheet.Title != "Let It Be" || sheet.Artist != "The Beatles" {
		t.Errorf("Unexpected metadata: %+v", sheet)
	}
	if sheet.Body != letItBe {
		t.Errorf("Body mismatch: %q", sheet.Body)
	}
	if sheet.ContentHash != utils.ContentHash(letItBe) {
		t.Errorf("Hash mismatch: %s", sheet.ContentHash)
	}
	if sheet.Semitones != 0 {
		t.Errorf("Expected 0 semitones, got %d", sheet.Semitones)
	}
	if sheet.CreatedAt.IsZero() {
		t.Error("Expected CreatedAt to be set")
	}
}

func TestSaveSheetDeduplicates(t *testing.T) {
	client, _ := setupTestDB(t)

	id1, err := client.SaveSheet("Let It Be", "The Beatles", letItBe)
	if err != nil {
		t.Fatalf("first save: %v", err)
	}
	if _, err := client.UpdateSheet(id1, "changed", 3); err != nil {
		t.Fatalf("update: %v", err)
	}

	id2, err := client.SaveSheet("Let It Be", "The Beatles", letItBe)
	if err != nil {
		t.Fatalf("second save: %v", err)
	}
	if id1 != id2 {
		t.Errorf("Expected same ID for duplicate, got %s and %s", id1, id2)
	}

	sheet, err := client.GetSheet(id1)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if sheet.Body != letItBe || sheet.Semitones != 0 {
		t.Errorf("Expected body restored and transposition reset, got %+v", sheet)
	}

	sheets, err := client.ListSheets()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(sheets) != 1 {
		t.Errorf("Expected 1 sheet, got %d", len(sheets))
	}
}

func TestGetSheetNotFound(t *testing.T) {
	client, _ := setupTestDB(t)

	_, err := client.GetSheet(utils.GenerateUUID())
	if !errors.Is(err, ErrSheetNotFound) {
		t.Fatalf("Expected ErrSheetNotFound, got %v", err)
	}
}

func TestListSheetsOrdered(t *testing.T) {
	client, _ := setupTestDB(t)

	for _, s := range [][2]string{
		{"Yesterday", "The Beatles"},
		{"Hallelujah", "Leonard Cohen"},
		{"Help!", "The Beatles"},
	} {
		if _, err := client.SaveSheet(s[0], s[1], "```chords\nC\n```\n"); err != nil {
			t.Fatalf("save %s: %v", s[0], err)
		}
	}

	sheets, err := client.ListSheets()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	var titles []string
	for _, s := range sheets {
		titles = append(titles, s.Title)
	}
	want := []string{"Hallelujah", "Help!", "Yesterday"}
	if len(titles) != len(want) {
		t.Fatalf("Expected %v, got %v", want, titles)
	}
	for i := range want {
		if titles[i] != want[i] {
			t.Errorf("Position %d: expected %s, got %s", i, want[i], titles[i])
		}
	}
}

func TestDeleteSheet(t *testing.T) {
	client, _ := setupTestDB(t)

	id, err := client.SaveSheet("Let It Be", "The Beatles", letItBe)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := client.DeleteSheet(id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := client.GetSheet(id); !errors.Is(err, ErrSheetNotFound) {
		t.Errorf("Expected sheet to be gone, got %v", err)
	}
	if err := client.DeleteSheet(id); !errors.Is(err, ErrSheetNotFound) {
		t.Errorf("Expected ErrSheetNotFound on second delete, got %v", err)
	}
}

func TestUpdateSheetAccumulatesSemitones(t *testing.T) {
	client, _ := setupTestDB(t)

	id, err := client.SaveSheet("Let It Be", "The Beatles", letItBe)
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	if _, err := client.UpdateSheet(id, "one", 2); err != nil {
		t.Fatalf("update 1: %v", err)
	}
	sheet, err := client.UpdateSheet(id, "two", -5)
	if err != nil {
		t.Fatalf("update 2: %v", err)
	}
	if sheet.Semitones != -3 {
		t.Errorf("Expected -3 semitones, got %d", sheet.Semitones)
	}
	if sheet.Body != "two" || sheet.ContentHash != utils.ContentHash("two") {
		t.Errorf("Unexpected body/hash: %+v", sheet)
	}
}

func TestModifySheetRollsBack(t *testing.T) {
	client, _ := setupTestDB(t)

	id, err := client.SaveSheet("Let It Be", "The Beatles", letItBe)
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	boom := errors.New("boom")
	_, err = client.ModifySheet(id, func(models.Sheet) (string, int, error) {
		return "", 0, boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Expected boom, got %v", err)
	}

	sheet, err := client.GetSheet(id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if sheet.Body != letItBe {
		t.Errorf("Expected body untouched, got %q", sheet.Body)
	}

	if _, err := client.UpdateSheet(utils.GenerateUUID(), "x", 1); !errors.Is(err, ErrSheetNotFound) {
		t.Errorf("Expected ErrSheetNotFound, got %v", err)
	}
}

func TestPutSheetsKeepsIDs(t *testing.T) {
	client, _ := setupTestDB(t)

	id := utils.GenerateUUID()
	n, err := client.PutSheets([]models.Sheet{
		{ID: id, Title: "Let It Be", Artist: "The Beatles", Body: letItBe, Semitones: 2},
		{ID: "bogus", Title: "Help!", Artist: "The Beatles", Body: "x"},
	})
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if n != 2 {
		t.Errorf("Expected 2 written, got %d", n)
	}

	sheet, err := client.GetSheet(id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if sheet.Semitones != 2 {
		t.Errorf("Expected semitones preserved, got %d", sheet.Semitones)
	}
}

func TestNilClient(t *testing.T) {
	var client *DBClient
	if _, err := client.SaveSheet("a", "b", "c"); err == nil {
		t.Error("Expected error from nil client")
	}
	if err := client.Close(); err != nil {
		t.Errorf("Close on nil client: %v", err)
	}
}
