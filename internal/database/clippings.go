package database

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mrlokans/whoarder/internal/clippings"
	"github.com/mrlokans/whoarder/internal/entities"
)

var clippingNamespace = uuid.MustParse("6f1c2a8e-3b7d-4c59-9e2a-5d8f0b1c7a44")

// SaveResult counts what one SaveCollection call did.
type SaveResult struct {
	BooksCreated       int `json:"books_created"`
	ClippingsProcessed int `json:"clippings_processed"`
	ClippingsCreated   int `json:"clippings_created"`
	ClippingsSkipped   int `json:"clippings_skipped"`
}

// ExternalID derives a stable identifier from every parsed field of c.
func ExternalID(c clippings.Clipping) string {
	key := strings.Join([]string{
		c.Book, c.Author, string(c.Type), c.Page, c.Location, c.Date, c.Contents,
	}, "\x1f")
	return uuid.NewSHA1(clippingNamespace, []byte(key)).String()
}

// SaveCollection stores all clippings of coll in one transaction. Books are
// created in order of first appearance; clippings already stored (same
// ExternalID) are skipped.
func (d *Database) SaveCollection(coll *clippings.Collection) (SaveResult, error) {
	var result SaveResult

	err := d.DB.Transaction(func(tx *gorm.DB) error {
		bookIDs := make(map[clippings.BookAuthor]uint)
		seen := make(map[string]bool)

		for _, c := range coll.Clippings() {
			result.ClippingsProcessed++

			pair := c.BookAuthor()
			bookID, ok := bookIDs[pair]
			if !ok {
				book, created, err := findOrCreateBook(tx, pair)
				if err != nil {
					return err
				}
				if created {
					result.BooksCreated++
				}
				bookID = book.ID
				bookIDs[pair] = bookID
			}

			externalID := ExternalID(c)
			if seen[externalID] {
				result.ClippingsSkipped++
				continue
			}
			seen[externalID] = true

			var count int64
			if err := tx.Model(&entities.Clipping{}).Where("external_id = ?", externalID).Count(&count).Error; err != nil {
				return fmt.Errorf("failed to look up clipping: %w", err)
			}
			if count > 0 {
				result.ClippingsSkipped++
				continue
			}

			row := entities.Clipping{
				BookID:     bookID,
				Type:       string(c.Type),
				Page:       c.Page,
				Location:   c.Location,
				AddedOn:    c.Date,
				Contents:   c.Contents,
				ExternalID: externalID,
			}
			if err := tx.Create(&row).Error; err != nil {
				return fmt.Errorf("failed to save clipping for %q: %w", c.Book, err)
			}
			result.ClippingsCreated++
		}
		return nil
	})
	if err != nil {
		return SaveResult{}, err
	}

	return result, nil
}

func findOrCreateBook(tx *gorm.DB, pair clippings.BookAuthor) (*entities.Book, bool, error) {
	var book entities.Book
	err := tx.Where("title = ? AND author = ?", pair.Book, pair.Author).First(&book).Error
	if err == nil {
		return &book, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, fmt.Errorf("failed to look up book %q: %w", pair.Book, err)
	}

	book = entities.Book{Title: pair.Book, Author: pair.Author}
	if err := tx.Create(&book).Error; err != nil {
		return nil, false, fmt.Errorf("failed to create book %q: %w", pair.Book, err)
	}
	return &book, true, nil
}

func preloadClippings(db *gorm.DB) *gorm.DB {
	return db.Order("id ASC")
}

// GetAllBooks returns every book with its clippings, both in import order.
func (d *Database) GetAllBooks() ([]entities.Book, error) {
	var books []entities.Book
	err := d.DB.Preload("Clippings", preloadClippings).Order("id ASC").Find(&books).Error
	return books, err
}

func (d *Database) GetBookByID(id uint) (*entities.Book, error) {
	var book entities.Book
	err := d.DB.Preload("Clippings", preloadClippings).First(&book, id).Error
	if err != nil {
		return nil, err
	}
	return &book, nil
}

func (d *Database) GetBookByTitleAndAuthor(title, author string) (*entities.Book, error) {
	var book entities.Book
	err := d.DB.Preload("Clippings", preloadClippings).
		Where("title = ? AND author = ?", title, author).
		First(&book).Error
	if err != nil {
		return nil, err
	}
	return &book, nil
}

func (d *Database) GetStats() (totalBooks int64, totalClippings int64, err error) {
	if err = d.DB.Model(&entities.Book{}).Count(&totalBooks).Error; err != nil {
		return
	}
	err = d.DB.Model(&entities.Clipping{}).Count(&totalClippings).Error
	return
}
