package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Digitalbradley/adbrain-legal-sub000/internal/merchant"
	"github.com/Digitalbradley/adbrain-legal-sub000/internal/pipeline"
	"github.com/Digitalbradley/adbrain-legal-sub000/internal/reconcile"
	"github.com/Digitalbradley/adbrain-legal-sub000/internal/session"
	"github.com/Digitalbradley/adbrain-legal-sub000/internal/types"
)

// UploadResponse is returned after a feed upload
type UploadResponse struct {
	FeedID   string                  `json:"feedId" jsonschema:"required"`
	FileName string                  `json:"fileName,omitempty"`
	Encoding string                  `json:"encoding,omitempty"`
	Headers  []string                `json:"headers" jsonschema:"required"`
	Rows     []types.Row             `json:"data,omitempty"`
	RowCount int                     `json:"rowCount"`
	Errors   []types.StructuralIssue `json:"errors" jsonschema:"required"`
	Warnings []types.StructuralIssue `json:"warnings" jsonschema:"required"`
}

// FeedResponse describes an open feed session
type FeedResponse struct {
	FeedID      string                  `json:"feedId" jsonschema:"required"`
	FileName    string                  `json:"fileName,omitempty"`
	Headers     []string                `json:"headers" jsonschema:"required"`
	Rows        []types.Row             `json:"data" jsonschema:"required"`
	Warnings    []types.StructuralIssue `json:"warnings"`
	IssueCount  int                     `json:"issueCount"`
	ValidatedAt *time.Time              `json:"validatedAt,omitempty"`
}

// ValidateResponse is returned by a validation run
type ValidateResponse struct {
	FeedID       string                   `json:"feedId" jsonschema:"required"`
	Results      *types.ValidationResults `json:"results" jsonschema:"required"`
	Removed      int                      `json:"removed"`
	Added        int                      `json:"added"`
	HistorySaved bool                     `json:"historySaved"`
}

// FocusRequest marks a row as navigated to
type FocusRequest struct {
	OfferID string `json:"offerId" binding:"required" jsonschema:"required"`
}

// EditRequest carries new text for one cell
type EditRequest struct {
	OfferID string `json:"offerId" binding:"required" jsonschema:"required"`
	Field   string `json:"field" binding:"required" jsonschema:"required"`
	Text    string `json:"text"`
}

// EditResponse reports the field check and, once reconciled, the row state
type EditResponse struct {
	OfferID       string                  `json:"offerId"`
	Field         string                  `json:"field"`
	ContentIssues []types.ContentIssue    `json:"contentIssues"`
	Pending       bool                    `json:"pending"`
	Row           *reconcile.RowState     `json:"row,omitempty"`
	OpenIssues    []types.ValidationIssue `json:"openIssues"`
	IssueCount    int                     `json:"issueCount"`
	Events        []session.Event         `json:"events"`
}

// IssuesResponse lists open issues of a feed
type IssuesResponse struct {
	FeedID string                  `json:"feedId"`
	Issues []types.ValidationIssue `json:"issues"`
	Count  int                     `json:"count"`
}

// EventsResponse lists engine notifications
type EventsResponse struct {
	FeedID string          `json:"feedId"`
	Events []session.Event `json:"events"`
	Last   uint64          `json:"last"`
}

// UploadFeed parses an uploaded feed and opens a session for it
// @Summary Upload a product feed
// @Description Accepts a multipart "file" field or a raw CSV/XLSX body and returns the parsed rows
// @Tags feeds
// @Accept multipart/form-data
// @Produce json
// @Param file formData file false "Feed file"
// @Param fileName query string false "File name for raw bodies"
// @Success 201 {object} UploadResponse
// @Failure 400 {object} map[string]string "Bad request"
// @Failure 413 {object} map[string]string "Feed too large"
// @Failure 422 {object} UploadResponse "Structural errors"
// @Router /api/feeds [post]
func UploadFeed(c *gin.Context) {
	fileName, content, err := readUpload(c)
	if err != nil {
		status := http.StatusBadRequest
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	parsed, err := runner.Parse(c.Request.Context(), pipeline.Input{
		FileName: fileName,
		Content:  content,
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result := parsed.Result
	response := UploadResponse{
		FeedID:   parsed.FeedID,
		FileName: parsed.FileName,
		Encoding: parsed.Encoding,
		Headers:  result.Headers,
		Errors:   result.Errors,
		Warnings: result.Warnings,
	}
	if result.Failed() {
		c.JSON(http.StatusUnprocessableEntity, response)
		return
	}

	sessions.Open(parsed.FeedID, parsed.FileName, result)
	response.Rows = result.Rows
	response.RowCount = len(result.Rows)
	c.JSON(http.StatusCreated, response)
}

func readUpload(c *gin.Context) (string, []byte, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes)

	if fh, err := c.FormFile("file"); err == nil {
		f, err := fh.Open()
		if err != nil {
			return "", nil, fmt.Errorf("failed to open upload: %w", err)
		}
		defer f.Close()
		content, err := io.ReadAll(f)
		if err != nil {
			return "", nil, fmt.Errorf("failed to read upload: %w", err)
		}
		return fh.Filename, content, nil
	}

	content, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return "", nil, fmt.Errorf("failed to read request body: %w", err)
	}
	if len(content) == 0 {
		return "", nil, errors.New("a feed file is required")
	}
	return c.DefaultQuery("fileName", "feed.csv"), content, nil
}

// GetFeed returns the current rows of an open feed
// @Summary Get an open feed
// @Tags feeds
// @Produce json
// @Param feedId path string true "Feed ID"
// @Success 200 {object} FeedResponse
// @Failure 404 {object} map[string]string "Unknown feed"
// @Router /api/feeds/{feedId} [get]
func GetFeed(c *gin.Context) {
	feed, ok := lookupFeed(c)
	if !ok {
		return
	}

	headers, rows := feed.Snapshot()
	response := FeedResponse{
		FeedID:     feed.ID,
		FileName:   feed.FileName,
		Headers:    headers,
		Rows:       rows,
		Warnings:   feed.Warnings(),
		IssueCount: feed.Engine().IssueCount(),
	}
	if at, ok := feed.ValidatedAt(); ok {
		response.ValidatedAt = &at
	}
	c.JSON(http.StatusOK, response)
}

// CloseFeed drops an open feed session
// @Summary Close an open feed
// @Tags feeds
// @Param feedId path string true "Feed ID"
// @Success 204
// @Failure 404 {object} map[string]string "Unknown feed"
// @Router /api/feeds/{feedId} [delete]
func CloseFeed(c *gin.Context) {
	if err := sessions.Close(c.Param("feedId")); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

// ValidateFeed sends the current rows to the merchant validator
// @Summary Validate an open feed
// @Description Runs the merchant validator, reconciles the returned issues with the current rows and records the run
// @Tags feeds
// @Produce json
// @Param feedId path string true "Feed ID"
// @Success 200 {object} ValidateResponse
// @Failure 404 {object} map[string]string "Unknown feed"
// @Failure 502 {object} map[string]string "Merchant validator failed"
// @Failure 503 {object} map[string]string "Too many validations in flight"
// @Router /api/feeds/{feedId}/validate [post]
func ValidateFeed(c *gin.Context) {
	feed, ok := lookupFeed(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	if err := validationSem.Acquire(ctx, 1); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "validation capacity exhausted"})
		return
	}
	defer validationSem.Release(1)

	feed.Flush()
	headers, rows := feed.Snapshot()
	validated, err := runner.Validate(ctx, pipeline.ValidateInput{
		FeedID:   feed.ID,
		FileName: feed.FileName,
		Headers:  headers,
		Rows:     rows,
		Engine:   feed.Engine(),
	})
	if validated == nil {
		status := http.StatusBadGateway
		var reqErr *merchant.RequestError
		if errors.As(err, &reqErr) && reqErr.Status == http.StatusTooManyRequests {
			status = http.StatusTooManyRequests
		}
		log.Error().Err(err).Str("feed_id", feed.ID).Msg("Validation failed")
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		log.Error().Err(err).Str("feed_id", feed.ID).Msg("Validation run not recorded")
	}
	feed.MarkValidated(time.Now().UTC())

	c.JSON(http.StatusOK, ValidateResponse{
		FeedID:       feed.ID,
		Results:      validated.Results,
		Removed:      validated.Sweep.Removed,
		Added:        validated.Sweep.Added,
		HistorySaved: validated.Record != nil,
	})
}

// FocusRow marks a row as explicitly navigated to
// @Summary Focus a row
// @Tags feeds
// @Accept json
// @Produce json
// @Param feedId path string true "Feed ID"
// @Param request body FocusRequest true "Row to focus"
// @Success 200 {object} reconcile.RowState
// @Failure 400 {object} map[string]string "Bad request"
// @Failure 404 {object} map[string]string "Unknown feed or offer"
// @Router /api/feeds/{feedId}/focus [post]
func FocusRow(c *gin.Context) {
	feed, ok := lookupFeed(c)
	if !ok {
		return
	}

	var req FocusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !feed.Focus(req.OfferID) {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("unknown offer %s", req.OfferID)})
		return
	}
	row, _ := feed.Engine().Row(req.OfferID)
	c.JSON(http.StatusOK, row)
}

// EditField stores new text for a cell and reconciles open issues
// @Summary Edit a field
// @Description Checks the new text against the content rules and schedules reconciliation; sync=true reconciles before responding
// @Tags feeds
// @Accept json
// @Produce json
// @Param feedId path string true "Feed ID"
// @Param sync query bool false "Reconcile before responding"
// @Param request body EditRequest true "Edit"
// @Success 200 {object} EditResponse "Reconciled"
// @Success 202 {object} EditResponse "Reconciliation scheduled"
// @Failure 400 {object} map[string]string "Bad request or read-only field"
// @Failure 404 {object} map[string]string "Unknown feed or offer"
// @Router /api/feeds/{feedId}/edits [post]
func EditField(c *gin.Context) {
	feed, ok := lookupFeed(c)
	if !ok {
		return
	}

	var req EditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	immediate, _ := strconv.ParseBool(c.DefaultQuery("sync", "false"))

	seq := feed.LastEvent()
	if err := feed.Edit(req.OfferID, req.Field, req.Text, immediate); err != nil {
		if errors.Is(err, session.ErrReadOnlyField) {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("field %s cannot be edited", req.Field)})
			return
		}
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("unknown offer %s", req.OfferID)})
		return
	}

	engine := feed.Engine()
	contentIssues := runner.Registry().ValidateField(req.Field, req.Text)
	if contentIssues == nil {
		contentIssues = []types.ContentIssue{}
	}
	response := EditResponse{
		OfferID:       req.OfferID,
		Field:         req.Field,
		ContentIssues: contentIssues,
		Pending:       !immediate,
		OpenIssues:    engine.OpenIssues(),
		IssueCount:    engine.IssueCount(),
		Events:        feed.Events(seq),
	}
	if row, ok := engine.Row(req.OfferID); ok {
		response.Row = &row
	}

	status := http.StatusOK
	if !immediate {
		status = http.StatusAccepted
	}
	c.JSON(status, response)
}

// ListIssues returns the open issues of a feed
// @Summary List open issues
// @Tags feeds
// @Produce json
// @Param feedId path string true "Feed ID"
// @Success 200 {object} IssuesResponse
// @Failure 404 {object} map[string]string "Unknown feed"
// @Router /api/feeds/{feedId}/issues [get]
func ListIssues(c *gin.Context) {
	feed, ok := lookupFeed(c)
	if !ok {
		return
	}

	issues := feed.Engine().OpenIssues()
	c.JSON(http.StatusOK, IssuesResponse{
		FeedID: feed.ID,
		Issues: issues,
		Count:  len(issues),
	})
}

// ListEvents returns engine notifications after the given sequence number
// @Summary List reconciliation events
// @Tags feeds
// @Produce json
// @Param feedId path string true "Feed ID"
// @Param since query int false "Return events after this sequence number" default(0)
// @Success 200 {object} EventsResponse
// @Failure 400 {object} map[string]string "Bad request"
// @Failure 404 {object} map[string]string "Unknown feed"
// @Router /api/feeds/{feedId}/events [get]
func ListEvents(c *gin.Context) {
	feed, ok := lookupFeed(c)
	if !ok {
		return
	}

	since, err := strconv.ParseUint(c.DefaultQuery("since", "0"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "since must be a non-negative integer"})
		return
	}
	c.JSON(http.StatusOK, EventsResponse{
		FeedID: feed.ID,
		Events: feed.Events(since),
		Last:   feed.LastEvent(),
	})
}

func lookupFeed(c *gin.Context) (*session.Feed, bool) {
	feedID := c.Param("feedId")
	feed, err := sessions.Get(feedID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("unknown feed %s", feedID)})
		return nil, false
	}
	return feed, true
}
