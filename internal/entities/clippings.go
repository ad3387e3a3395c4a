package entities

import (
	"time"
)

type ImportStatus string

const (
	ImportStatusRunning   ImportStatus = "running"
	ImportStatusCompleted ImportStatus = "completed"
	ImportStatusFailed    ImportStatus = "failed"
)

type Book struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	Title     string     `gorm:"uniqueIndex:idx_books_title_author;size:512" json:"title"`
	Author    string     `gorm:"uniqueIndex:idx_books_title_author;size:256" json:"author,omitempty"`
	Clippings []Clipping `gorm:"foreignKey:BookID" json:"clippings,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

type Clipping struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	BookID   uint   `gorm:"index" json:"book_id"`
	Type     string `gorm:"index;size:32" json:"type"`
	Page     string `gorm:"size:64" json:"page,omitempty"`
	Location string `gorm:"size:64" json:"location,omitempty"`
	AddedOn  string `gorm:"size:128" json:"added_on"` // Verbatim, locale-specific
	Contents string `gorm:"type:text" json:"contents"`

	// Name-based UUID of all parsed fields; re-importing the same file is a no-op
	ExternalID string `gorm:"uniqueIndex;size:36" json:"external_id"`

	CreatedAt time.Time `json:"created_at"`
}

type ImportSession struct {
	ID                 uint         `gorm:"primaryKey" json:"id"`
	Source             string       `gorm:"index;size:1024" json:"source"` // File path or upload name
	FileHash           string       `gorm:"size:64" json:"file_hash,omitempty"`
	Status             ImportStatus `gorm:"size:20;default:'running'" json:"status"`
	ClippingsProcessed int          `json:"clippings_processed"`
	ClippingsCreated   int          `json:"clippings_created"`
	BooksCreated       int          `json:"books_created"`
	Errors             string       `gorm:"type:text" json:"errors,omitempty"`
	StartedAt          time.Time    `json:"started_at"`
	CompletedAt        *time.Time   `json:"completed_at,omitempty"`
}

func (Book) TableName() string {
	return "books"
}

func (Clipping) TableName() string {
	return "clippings"
}

func (ImportSession) TableName() string {
	return "import_sessions"
}
