package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Digitalbradley/adbrain-legal-sub000/internal/history"
	"github.com/Digitalbradley/adbrain-legal-sub000/internal/types"
)

// ListHistoryRequest represents query parameters for listing runs
type ListHistoryRequest struct {
	Limit int `form:"limit" json:"limit" binding:"omitempty,min=1,max=500" jsonschema:"minimum=1,maximum=500"`
}

// ListHistoryResponse lists recorded validation runs
type ListHistoryResponse struct {
	Runs  []types.FeedRecord `json:"runs" jsonschema:"required"`
	Total int                `json:"total" jsonschema:"required"`
}

// ListHistory returns recent validation runs, newest first
// @Summary List validation runs
// @Tags history
// @Produce json
// @Param limit query int false "Number of runs to return" default(50) minimum(1) maximum(500)
// @Success 200 {object} ListHistoryResponse
// @Failure 400 {object} map[string]string "Bad request"
// @Failure 404 {object} map[string]string "History disabled"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /api/history [get]
func ListHistory(c *gin.Context) {
	if historyStore == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "history is disabled"})
		return
	}

	var req ListHistoryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	runs, err := historyStore.List(c.Request.Context(), req.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list validation runs"})
		return
	}
	c.JSON(http.StatusOK, ListHistoryResponse{Runs: runs, Total: len(runs)})
}

// GetHistory returns one recorded validation run
// @Summary Get a validation run
// @Tags history
// @Produce json
// @Param feedId path string true "Feed ID"
// @Success 200 {object} types.FeedRecord
// @Failure 404 {object} map[string]string "Not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /api/history/{feedId} [get]
func GetHistory(c *gin.Context) {
	if historyStore == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "history is disabled"})
		return
	}

	record, err := historyStore.Get(c.Request.Context(), c.Param("feedId"))
	switch {
	case errors.Is(err, history.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "validation run not found"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load validation run"})
	default:
		c.JSON(http.StatusOK, record)
	}
}
