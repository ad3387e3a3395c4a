package http

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/whoarder/internal/clippings"
	"github.com/mrlokans/whoarder/internal/importers"
)

const clippingsFormField = "clippings_file"

// ClippingsImporter is satisfied by *importers.Pipeline.
type ClippingsImporter interface {
	ImportBytes(source string, data []byte) (importers.Result, error)
}

type ClippingsController struct {
	importer    ClippingsImporter
	maxFileSize int64
	parserOpts  []clippings.Option
}

func NewClippingsController(importer ClippingsImporter, maxFileSize int64, opts ...clippings.Option) *ClippingsController {
	return &ClippingsController{
		importer:    importer,
		maxFileSize: maxFileSize,
		parserOpts:  opts,
	}
}

type ParseResponse struct {
	Clippings []clippings.Clipping   `json:"clippings"`
	Books     []clippings.BookAuthor `json:"books"`
}

// Parse returns the clippings of the uploaded file without storing them.
func (c *ClippingsController) Parse(ctx *gin.Context) {
	data, _, ok := c.readUpload(ctx)
	if !ok {
		return
	}

	coll, err := clippings.FromBytes(data, c.parserOpts...)
	if err != nil {
		respondParseError(ctx, err)
		return
	}

	response := ParseResponse{
		Clippings: coll.Clippings(),
		Books:     coll.BookAuthors(),
	}
	if response.Clippings == nil {
		response.Clippings = []clippings.Clipping{}
	}
	ctx.JSON(http.StatusOK, response)
}

// Import parses the uploaded file and stores it.
func (c *ClippingsController) Import(ctx *gin.Context) {
	data, filename, ok := c.readUpload(ctx)
	if !ok {
		return
	}

	result, err := c.importer.ImportBytes("upload:"+filename, data)
	if err != nil {
		respondParseError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, result)
}

func (c *ClippingsController) readUpload(ctx *gin.Context) ([]byte, string, bool) {
	file, header, err := ctx.Request.FormFile(clippingsFormField)
	if err != nil {
		respondBadRequest(ctx, "Clippings file not provided")
		return nil, "", false
	}
	defer file.Close()

	tooLarge := fmt.Sprintf("File too large (max %d bytes)", c.maxFileSize)
	if header.Size > c.maxFileSize {
		respondBadRequest(ctx, tooLarge)
		return nil, "", false
	}

	data, err := io.ReadAll(io.LimitReader(file, c.maxFileSize+1))
	if err != nil {
		respondBadRequest(ctx, "Failed to read clippings file")
		return nil, "", false
	}
	if int64(len(data)) > c.maxFileSize {
		respondBadRequest(ctx, tooLarge)
		return nil, "", false
	}

	return data, header.Filename, true
}

func respondParseError(ctx *gin.Context, err error) {
	var invalid *clippings.InvalidRecordError
	var decodeErr *clippings.DecodeError

	switch {
	case errors.As(err, &invalid):
		ctx.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error: invalid.Err.Error(),
			Block: invalid.Block,
		})
	case errors.As(err, &decodeErr):
		respondBadRequest(ctx, decodeErr.Error())
	default:
		respondInternalError(ctx, err, "clippings import")
	}
}
