package importers

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"

	"github.com/mrlokans/whoarder/internal/clippings"
	"github.com/mrlokans/whoarder/internal/database"
	"github.com/mrlokans/whoarder/internal/entities"
	"github.com/mrlokans/whoarder/internal/logger"
)

// Store persists parsed collections and records import sessions.
// *database.Database implements it.
type Store interface {
	SaveCollection(coll *clippings.Collection) (database.SaveResult, error)
	CreateImportSession(source, fileHash string) (*entities.ImportSession, error)
	CompleteImportSession(session *entities.ImportSession, result database.SaveResult, importErr error) error
}

var _ Store = (*database.Database)(nil)

// Result describes one finished import.
type Result struct {
	Source   string `json:"source"`
	FileHash string `json:"file_hash"`
	Books    int    `json:"books"`
	database.SaveResult
}

// Pipeline handles the import workflow:
// decode → split → parse → save, with an import session around it.
type Pipeline struct {
	store      Store
	parserOpts []clippings.Option
}

// NewPipeline creates a pipeline writing to store. opts are passed to every
// parser the pipeline creates, e.g. to register extra locale grammars.
func NewPipeline(store Store, opts ...clippings.Option) *Pipeline {
	return &Pipeline{store: store, parserOpts: opts}
}

// ImportFile reads the clippings file at path and imports it.
func (p *Pipeline) ImportFile(path string) (Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Result{}, fmt.Errorf("failed to read clippings file: %w", err)
	}
	return p.ImportBytes(path, data)
}

// ImportBytes imports raw clippings content. source names the origin of data
// in the import session. Parse failures are returned unwrapped so callers can
// inspect them with errors.As.
func (p *Pipeline) ImportBytes(source string, data []byte) (Result, error) {
	hash := FileHash(data)

	session, err := p.store.CreateImportSession(source, hash)
	if err != nil {
		return Result{}, fmt.Errorf("failed to create import session: %w", err)
	}

	coll, err := clippings.FromBytes(data, p.parserOpts...)
	if err != nil {
		p.complete(session, database.SaveResult{}, err)
		return Result{}, err
	}

	saved, err := p.store.SaveCollection(coll)
	p.complete(session, saved, err)
	if err != nil {
		return Result{}, fmt.Errorf("failed to save clippings: %w", err)
	}

	logger.Info("Imported clippings", map[string]interface{}{
		"source":  source,
		"created": saved.ClippingsCreated,
		"skipped": saved.ClippingsSkipped,
	})

	return Result{
		Source:     source,
		FileHash:   hash,
		Books:      len(coll.BookAuthors()),
		SaveResult: saved,
	}, nil
}

func (p *Pipeline) complete(session *entities.ImportSession, result database.SaveResult, importErr error) {
	if err := p.store.CompleteImportSession(session, result, importErr); err != nil {
		logger.Error("Failed to record import session", err, map[string]interface{}{"source": session.Source})
	}
}

// FileHash returns the hex sha256 of data.
func FileHash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
