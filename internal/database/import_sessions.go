package database

import (
	"time"

	"github.com/mrlokans/whoarder/internal/entities"
)

// CreateImportSession records the start of an import of source.
func (d *Database) CreateImportSession(source, fileHash string) (*entities.ImportSession, error) {
	session := &entities.ImportSession{
		Source:    source,
		FileHash:  fileHash,
		Status:    entities.ImportStatusRunning,
		StartedAt: time.Now(),
	}
	if err := d.DB.Create(session).Error; err != nil {
		return nil, err
	}
	return session, nil
}

// CompleteImportSession stores the outcome of an import. A non-nil importErr
// marks the session failed.
func (d *Database) CompleteImportSession(session *entities.ImportSession, result SaveResult, importErr error) error {
	now := time.Now()
	session.CompletedAt = &now
	session.ClippingsProcessed = result.ClippingsProcessed
	session.ClippingsCreated = result.ClippingsCreated
	session.BooksCreated = result.BooksCreated

	if importErr != nil {
		session.Status = entities.ImportStatusFailed
		session.Errors = importErr.Error()
	} else {
		session.Status = entities.ImportStatusCompleted
	}

	return d.DB.Save(session).Error
}

// GetLastCompletedImport returns the most recent successful import of source.
func (d *Database) GetLastCompletedImport(source string) (*entities.ImportSession, error) {
	var session entities.ImportSession
	err := d.DB.
		Where("source = ? AND status = ?", source, entities.ImportStatusCompleted).
		Order("id DESC").
		First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (d *Database) GetImportSessions(limit int) ([]entities.ImportSession, error) {
	var sessions []entities.ImportSession
	err := d.DB.Order("id DESC").Limit(limit).Find(&sessions).Error
	return sessions, err
}
