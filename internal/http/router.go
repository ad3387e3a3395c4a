package http

import (
	"github.com/gin-gonic/gin"
)

const defaultMaxFileSize = 10 * 1024 * 1024

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	maxFileSize := cfg.MaxFileSizeBytes
	if maxFileSize <= 0 {
		maxFileSize = defaultMaxFileSize
	}
	// Multipart bodies above this spill to temp files instead of memory.
	router.MaxMultipartMemory = maxFileSize + 1024*1024

	// A nil *database.Database stored in Pinger would not compare equal to nil.
	var db Pinger
	if cfg.Database != nil {
		db = cfg.Database
	}
	router.GET("/health", NewHealthController(db, cfg.Version).Status)

	api := router.Group("/api")

	clippingsController := NewClippingsController(cfg.Importer, maxFileSize, cfg.ParserOptions...)
	api.POST("/clippings/parse", clippingsController.Parse)
	if cfg.Importer != nil {
		api.POST("/clippings/import", clippingsController.Import)
	}

	if cfg.Database != nil {
		books := NewBooksController(cfg.Database)
		api.GET("/books", books.GetAllBooks)
		api.GET("/books/:id", books.GetBook)
		api.GET("/stats", books.GetStats)

		imports := NewImportsController(cfg.Database)
		api.GET("/imports", imports.List)
	}

	return router
}
