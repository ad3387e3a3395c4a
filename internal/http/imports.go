package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/whoarder/internal/entities"
)

const defaultImportsLimit = 20

// ImportHistory is satisfied by *database.Database.
type ImportHistory interface {
	GetImportSessions(limit int) ([]entities.ImportSession, error)
}

type ImportsController struct {
	history ImportHistory
}

func NewImportsController(history ImportHistory) *ImportsController {
	return &ImportsController{history: history}
}

// List returns the most recent import sessions, newest first.
func (c *ImportsController) List(ctx *gin.Context) {
	limit := defaultImportsLimit
	if raw := ctx.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			respondBadRequest(ctx, "invalid limit")
			return
		}
		limit = parsed
	}

	sessions, err := c.history.GetImportSessions(limit)
	if err != nil {
		respondInternalError(ctx, err, "list imports")
		return
	}
	if sessions == nil {
		sessions = []entities.ImportSession{}
	}
	ctx.JSON(http.StatusOK, gin.H{"imports": sessions, "count": len(sessions)})
}
