package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mrlokans/whoarder/internal/entities"
)

// BookReader is satisfied by *database.Database.
type BookReader interface {
	GetAllBooks() ([]entities.Book, error)
	GetBookByID(id uint) (*entities.Book, error)
	GetStats() (totalBooks int64, totalClippings int64, err error)
}

type BooksController struct {
	reader BookReader
}

func NewBooksController(reader BookReader) *BooksController {
	return &BooksController{
		reader: reader,
	}
}

func (controller *BooksController) GetAllBooks(c *gin.Context) {
	books, err := controller.reader.GetAllBooks()
	if err != nil {
		respondInternalError(c, err, "list books")
		return
	}
	if books == nil {
		books = []entities.Book{}
	}
	c.IndentedJSON(http.StatusOK, gin.H{"books": books, "count": len(books)})
}

func (controller *BooksController) GetBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	book, err := controller.reader.GetBookByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		respondNotFound(c, "book")
		return
	}
	if err != nil {
		respondInternalError(c, err, "get book")
		return
	}

	c.IndentedJSON(http.StatusOK, book)
}

func (controller *BooksController) GetStats(c *gin.Context) {
	totalBooks, totalClippings, err := controller.reader.GetStats()
	if err != nil {
		respondInternalError(c, err, "book stats")
		return
	}

	c.IndentedJSON(http.StatusOK, gin.H{
		"total_books":     totalBooks,
		"total_clippings": totalClippings,
	})
}
