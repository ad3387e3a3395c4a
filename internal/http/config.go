package http

import (
	"github.com/mrlokans/whoarder/internal/clippings"
	"github.com/mrlokans/whoarder/internal/database"
)

// RouterConfig contains all dependencies needed to create the HTTP router.
type RouterConfig struct {
	Database *database.Database
	Importer ClippingsImporter

	// Upload limit for clippings files
	MaxFileSizeBytes int64

	// Extra parser options, e.g. additional locale grammars
	ParserOptions []clippings.Option

	Version string
}
