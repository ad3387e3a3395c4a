package database

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/mrlokans/whoarder/internal/clippings"
	"github.com/mrlokans/whoarder/internal/entities"
)

// setupTestDB creates a fresh test database
func setupTestDB(t *testing.T) *Database {
	t.Helper()
	db, err := NewDatabaseWithLogLevel(filepath.Join(t.TempDir(), "test.db"), "silent")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func buildCollection(t *testing.T, blocks ...[]string) *clippings.Collection {
	t.Helper()
	var lines []string
	for _, block := range blocks {
		lines = append(lines, block...)
		lines = append(lines, clippings.Delimiter)
	}
	coll, err := clippings.Build(lines)
	require.NoError(t, err)
	return coll
}

var (
	princeHighlight = []string{
		"Le Petit Prince (Antoine de Saint-Exupéry)",
		"- Your Highlight on Page 42 | Location 123-140 | Added on Monday, 1 January 2024",
		"",
		"Il fit un petit dessin.",
	}
	princeNote = []string{
		"Le Petit Prince (Antoine de Saint-Exupéry)",
		"- Your Note on Page 43 | Location 150 | Added on Monday, 1 January 2024",
		"",
		"Un mouton.",
	}
	murakamiHighlight = []string{
		"我的职业是小说家 (村上春树)",
		"- 您在第 117 页（位置 #117-118）的标注 | 添加于 2018年8月5日星期日 上午8:06:49",
		"",
		"写小说这份活计...",
	}
)

func TestDatabase_SaveCollection(t *testing.T) {
	db := setupTestDB(t)

	coll := buildCollection(t, princeHighlight, murakamiHighlight, princeNote)

	result, err := db.SaveCollection(coll)
	require.NoError(t, err)
	assert.Equal(t, SaveResult{
		BooksCreated:       2,
		ClippingsProcessed: 3,
		ClippingsCreated:   3,
	}, result)

	books, err := db.GetAllBooks()
	require.NoError(t, err)
	require.Len(t, books, 2)

	// Books keep their order of first appearance
	assert.Equal(t, "Le Petit Prince", books[0].Title)
	assert.Equal(t, "Antoine de Saint-Exupéry", books[0].Author)
	assert.Equal(t, "我的职业是小说家", books[1].Title)

	require.Len(t, books[0].Clippings, 2)
	assert.Equal(t, "Highlight", books[0].Clippings[0].Type)
	assert.Equal(t, "Page 42", books[0].Clippings[0].Page)
	assert.Equal(t, "123-140", books[0].Clippings[0].Location)
	assert.Equal(t, "Monday, 1 January 2024", books[0].Clippings[0].AddedOn)
	assert.Equal(t, "Note", books[0].Clippings[1].Type)
}

func TestDatabase_SaveCollection_Reimport(t *testing.T) {
	db := setupTestDB(t)

	_, err := db.SaveCollection(buildCollection(t, princeHighlight))
	require.NoError(t, err)

	result, err := db.SaveCollection(buildCollection(t, princeHighlight, princeNote))
	require.NoError(t, err)
	assert.Equal(t, 0, result.BooksCreated)
	assert.Equal(t, 1, result.ClippingsCreated)
	assert.Equal(t, 1, result.ClippingsSkipped)

	books, clippingsCount, err := db.GetStats()
	require.NoError(t, err)
	assert.Equal(t, int64(1), books)
	assert.Equal(t, int64(2), clippingsCount)
}

func TestDatabase_SaveCollection_DuplicatesInOneFile(t *testing.T) {
	db := setupTestDB(t)

	result, err := db.SaveCollection(buildCollection(t, princeHighlight, princeHighlight))
	require.NoError(t, err)
	assert.Equal(t, 2, result.ClippingsProcessed)
	assert.Equal(t, 1, result.ClippingsCreated)
	assert.Equal(t, 1, result.ClippingsSkipped)
}

func TestDatabase_GetBookByID(t *testing.T) {
	db := setupTestDB(t)

	_, err := db.SaveCollection(buildCollection(t, murakamiHighlight))
	require.NoError(t, err)

	book, err := db.GetBookByTitleAndAuthor("我的职业是小说家", "村上春树")
	require.NoError(t, err)

	byID, err := db.GetBookByID(book.ID)
	require.NoError(t, err)
	require.Len(t, byID.Clippings, 1)
	assert.Equal(t, "page 117", byID.Clippings[0].Page)

	_, err = db.GetBookByID(book.ID + 100)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestExternalID(t *testing.T) {
	c := clippings.Clipping{Book: "B", Author: "A", Type: "Highlight", Location: "1", Date: "d", Contents: "x"}

	assert.Equal(t, ExternalID(c), ExternalID(c))
	assert.Len(t, ExternalID(c), 36)

	other := c
	other.Contents = "y"
	assert.NotEqual(t, ExternalID(c), ExternalID(other))
}

func TestDatabase_ImportSessions(t *testing.T) {
	db := setupTestDB(t)

	_, err := db.GetLastCompletedImport("clips.txt")
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))

	first, err := db.CreateImportSession("clips.txt", "hash-1")
	require.NoError(t, err)
	assert.Equal(t, entities.ImportStatusRunning, first.Status)

	stored, err := db.GetImportSessions(1)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, entities.ImportStatusRunning, stored[0].Status)
	assert.Nil(t, stored[0].CompletedAt)

	require.NoError(t, db.CompleteImportSession(first, SaveResult{ClippingsProcessed: 2, ClippingsCreated: 2, BooksCreated: 1}, nil))

	failed, err := db.CreateImportSession("clips.txt", "hash-2")
	require.NoError(t, err)
	require.NoError(t, db.CompleteImportSession(failed, SaveResult{}, errors.New("invalid clipping")))

	last, err := db.GetLastCompletedImport("clips.txt")
	require.NoError(t, err)
	assert.Equal(t, first.ID, last.ID)
	assert.Equal(t, "hash-1", last.FileHash)
	assert.Equal(t, 2, last.ClippingsCreated)
	assert.NotNil(t, last.CompletedAt)

	sessions, err := db.GetImportSessions(10)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, entities.ImportStatusFailed, sessions[0].Status)
	assert.Equal(t, "invalid clipping", sessions[0].Errors)
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, gormlogger.Silent, ParseLogLevel("silent"))
	assert.Equal(t, gormlogger.Error, ParseLogLevel("ERROR"))
	assert.Equal(t, gormlogger.Info, ParseLogLevel("info"))
	assert.Equal(t, gormlogger.Warn, ParseLogLevel("warn"))
	assert.Equal(t, gormlogger.Warn, ParseLogLevel("bogus"))
}

func TestDatabase_Ping(t *testing.T) {
	db := setupTestDB(t)
	assert.NoError(t, db.Ping())

	require.NoError(t, db.Close())
	assert.Error(t, db.Ping())
}
