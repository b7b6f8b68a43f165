// Package handlers implements the feed check HTTP API.
package handlers

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/sync/semaphore"

	"github.com/Digitalbradley/adbrain-legal-sub000/internal/history"
	"github.com/Digitalbradley/adbrain-legal-sub000/internal/pipeline"
	"github.com/Digitalbradley/adbrain-legal-sub000/internal/session"
)

// DefaultMaxUploadBytes caps uploaded feeds when Deps leaves it unset
const DefaultMaxUploadBytes = 50 << 20

// Deps are the collaborators shared by the handlers
type Deps struct {
	Runner   *pipeline.Runner
	Sessions *session.Manager
	// History is optional; the history endpoints answer 404 without it
	History history.Store
	// MaxConcurrentValidations bounds calls to the merchant validator
	MaxConcurrentValidations int64
	MaxUploadBytes           int64
}

var (
	runner         *pipeline.Runner
	sessions       *session.Manager
	historyStore   history.Store
	validationSem  *semaphore.Weighted
	maxUploadBytes int64 = DefaultMaxUploadBytes
)

// Init sets the handler dependencies. It must run before routes are served.
func Init(deps Deps) {
	runner = deps.Runner
	sessions = deps.Sessions
	historyStore = deps.History

	limit := deps.MaxConcurrentValidations
	if limit <= 0 {
		limit = 4
	}
	validationSem = semaphore.NewWeighted(limit)

	maxUploadBytes = DefaultMaxUploadBytes
	if deps.MaxUploadBytes > 0 {
		maxUploadBytes = deps.MaxUploadBytes
	}
}

// RegisterRoutes mounts the feed and history endpoints on group
func RegisterRoutes(group *gin.RouterGroup) {
	feeds := group.Group("/feeds")
	{
		feeds.POST("", UploadFeed)
		feeds.GET("/:feedId", GetFeed)
		feeds.DELETE("/:feedId", CloseFeed)
		feeds.POST("/:feedId/validate", ValidateFeed)
		feeds.POST("/:feedId/focus", FocusRow)
		feeds.POST("/:feedId/edits", EditField)
		feeds.GET("/:feedId/issues", ListIssues)
		feeds.GET("/:feedId/events", ListEvents)
	}

	runs := group.Group("/history")
	{
		runs.GET("", ListHistory)
		runs.GET("/:feedId", GetHistory)
	}
}
