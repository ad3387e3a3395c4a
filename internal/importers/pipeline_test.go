package importers

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/whoarder/internal/clippings"
	"github.com/mrlokans/whoarder/internal/database"
	"github.com/mrlokans/whoarder/internal/entities"
)

const validClippings = "Le Petit Prince (Antoine de Saint-Exupéry)\n" +
	"- Your Highlight on Page 42 | Location 123-140 | Added on Monday, 1 January 2024\n" +
	"\n" +
	"Il fit un petit dessin.\n" +
	"==========\n" +
	"我的职业是小说家 (村上春树)\n" +
	"- 您在第 117 页（位置 #117-118）的标注 | 添加于 2018年8月5日星期日 上午8:06:49\n" +
	"\n" +
	"写小说这份活计...\n" +
	"==========\n"

const malformedClippings = "Title (Author)\n" +
	"- Your Highlight on Page 1 | Location 1 | Added on Monday, 1 January 2024\n" +
	"not blank\n" +
	"content\n" +
	"==========\n"

type mockStore struct {
	saved       []*clippings.Collection
	sessions    []*entities.ImportSession
	completions []error
	saveErr     error
}

func (m *mockStore) SaveCollection(coll *clippings.Collection) (database.SaveResult, error) {
	if m.saveErr != nil {
		return database.SaveResult{}, m.saveErr
	}
	m.saved = append(m.saved, coll)
	return database.SaveResult{ClippingsProcessed: coll.Len(), ClippingsCreated: coll.Len()}, nil
}

func (m *mockStore) CreateImportSession(source, fileHash string) (*entities.ImportSession, error) {
	session := &entities.ImportSession{Source: source, FileHash: fileHash, Status: entities.ImportStatusRunning}
	m.sessions = append(m.sessions, session)
	return session, nil
}

func (m *mockStore) CompleteImportSession(session *entities.ImportSession, _ database.SaveResult, importErr error) error {
	m.completions = append(m.completions, importErr)
	if importErr != nil {
		session.Status = entities.ImportStatusFailed
	} else {
		session.Status = entities.ImportStatusCompleted
	}
	return nil
}

func TestPipeline_ImportBytes(t *testing.T) {
	store := &mockStore{}
	pipeline := NewPipeline(store)

	result, err := pipeline.ImportBytes("upload.txt", []byte(validClippings))
	require.NoError(t, err)

	assert.Equal(t, "upload.txt", result.Source)
	assert.Equal(t, 2, result.Books)
	assert.Equal(t, 2, result.ClippingsCreated)
	assert.Equal(t, FileHash([]byte(validClippings)), result.FileHash)

	require.Len(t, store.sessions, 1)
	assert.Equal(t, entities.ImportStatusCompleted, store.sessions[0].Status)
	assert.Equal(t, []error{nil}, store.completions)
}

func TestPipeline_ImportBytes_InvalidRecord(t *testing.T) {
	store := &mockStore{}
	pipeline := NewPipeline(store)

	_, err := pipeline.ImportBytes("upload.txt", []byte(malformedClippings))
	require.Error(t, err)

	var invalid *clippings.InvalidRecordError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, "not blank", invalid.Block[2])

	assert.Empty(t, store.saved)
	require.Len(t, store.sessions, 1)
	assert.Equal(t, entities.ImportStatusFailed, store.sessions[0].Status)
}

func TestPipeline_ImportBytes_SaveError(t *testing.T) {
	store := &mockStore{saveErr: errors.New("disk full")}
	pipeline := NewPipeline(store)

	_, err := pipeline.ImportBytes("upload.txt", []byte(validClippings))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.Equal(t, entities.ImportStatusFailed, store.sessions[0].Status)
}

func TestPipeline_ImportFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "My Clippings.txt")
	require.NoError(t, os.WriteFile(path, []byte(validClippings), 0o644))

	store := &mockStore{}
	result, err := NewPipeline(store).ImportFile(path)
	require.NoError(t, err)
	assert.Equal(t, path, result.Source)
	assert.Equal(t, 2, result.ClippingsProcessed)
}

func TestPipeline_ImportFile_Missing(t *testing.T) {
	store := &mockStore{}
	_, err := NewPipeline(store).ImportFile(filepath.Join(t.TempDir(), "missing.txt"))
	require.Error(t, err)
	assert.Empty(t, store.sessions)
}

func TestPipeline_WithDatabase(t *testing.T) {
	db, err := database.NewDatabaseWithLogLevel(filepath.Join(t.TempDir(), "test.db"), "silent")
	require.NoError(t, err)
	defer db.Close()

	pipeline := NewPipeline(db)

	first, err := pipeline.ImportBytes("clips.txt", []byte(validClippings))
	require.NoError(t, err)
	assert.Equal(t, 2, first.ClippingsCreated)

	second, err := pipeline.ImportBytes("clips.txt", []byte(validClippings))
	require.NoError(t, err)
	assert.Equal(t, 0, second.ClippingsCreated)
	assert.Equal(t, 2, second.ClippingsSkipped)

	last, err := db.GetLastCompletedImport("clips.txt")
	require.NoError(t, err)
	assert.Equal(t, first.FileHash, last.FileHash)
}

func TestFileHash(t *testing.T) {
	assert.Equal(t, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855", FileHash(nil))
}
