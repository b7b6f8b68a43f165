package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Digitalbradley/adbrain-legal-sub000/internal/history"
	"github.com/Digitalbradley/adbrain-legal-sub000/internal/merchant"
	"github.com/Digitalbradley/adbrain-legal-sub000/internal/pipeline"
	"github.com/Digitalbradley/adbrain-legal-sub000/internal/session"
	"github.com/Digitalbradley/adbrain-legal-sub000/internal/storage"
	"github.com/Digitalbradley/adbrain-legal-sub000/internal/types"
	"github.com/Digitalbradley/adbrain-legal-sub000/internal/validators"
)

var shortTitleFeed = "id,title,description,link,image_link\n" +
	"P1,Short," + strings.Repeat("d", 120) + ",https://x.com/p1,https://x.com/p1.jpg\n"

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	registry := validators.NewRegistry()
	config := pipeline.DefaultConfig()
	config.Source = types.SourceAPI
	hist := history.NewFileStore(store)
	Init(Deps{
		Runner: pipeline.NewRunner(config, registry, merchant.NewLocalValidator(registry),
			pipeline.WithStorage(store),
			pipeline.WithHistory(hist),
		),
		Sessions: session.NewManager(session.Options{
			Policy:   config.Policy,
			Debounce: 10 * time.Millisecond,
		}),
		History:        hist,
		MaxUploadBytes: 1 << 20,
	})

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/health", HealthCheck)
	RegisterRoutes(router.Group("/api"))
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func uploadMultipart(t *testing.T, router *gin.Engine, fileName, content string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", fileName)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/feeds", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestUploadFeed(t *testing.T) {
	router := setupRouter(t)

	w := uploadMultipart(t, router, "feed.csv", shortTitleFeed)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	resp := decode[UploadResponse](t, w)
	assert.NotEmpty(t, resp.FeedID)
	assert.Equal(t, "feed.csv", resp.FileName)
	assert.Equal(t, 1, resp.RowCount)
	assert.Empty(t, resp.Errors)
	require.Len(t, resp.Rows, 1)
	assert.Equal(t, "Short", resp.Rows[0].Get("title"))

	get := doJSON(t, router, http.MethodGet, "/api/feeds/"+resp.FeedID, nil)
	require.Equal(t, http.StatusOK, get.Code)
	feed := decode[FeedResponse](t, get)
	assert.Equal(t, []string{"id", "title", "description", "link", "image_link"}, feed.Headers)
	assert.Nil(t, feed.ValidatedAt)
}

func TestUploadRawBody(t *testing.T) {
	router := setupRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/feeds?fileName=raw.csv", strings.NewReader(shortTitleFeed))
	req.Header.Set("Content-Type", "text/csv")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "raw.csv", decode[UploadResponse](t, w).FileName)
}

func TestUploadFeedErrors(t *testing.T) {
	tests := []struct {
		name       string
		content    string
		wantStatus int
		wantType   types.IssueType
	}{
		{name: "header only", content: "id,title\n", wantStatus: http.StatusUnprocessableEntity, wantType: types.IssueNoDataRows},
		{name: "whitespace", content: "   \n", wantStatus: http.StatusUnprocessableEntity, wantType: types.IssueEmptyFeed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupRouter(t)
			w := uploadMultipart(t, router, "feed.csv", tt.content)
			require.Equal(t, tt.wantStatus, w.Code)

			resp := decode[UploadResponse](t, w)
			require.Len(t, resp.Errors, 1)
			assert.Equal(t, tt.wantType, resp.Errors[0].Type)
			assert.Empty(t, resp.Rows)

			assert.Equal(t, http.StatusNotFound, doJSON(t, router, http.MethodGet, "/api/feeds/"+resp.FeedID, nil).Code)
		})
	}

	t.Run("empty body", func(t *testing.T) {
		router := setupRouter(t)
		req := httptest.NewRequest(http.MethodPost, "/api/feeds", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("too large", func(t *testing.T) {
		router := setupRouter(t)
		Init(Deps{Runner: runner, Sessions: sessions, History: historyStore, MaxUploadBytes: 16})
		req := httptest.NewRequest(http.MethodPost, "/api/feeds", strings.NewReader(shortTitleFeed))
		req.Header.Set("Content-Type", "text/csv")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	})
}

func TestValidateEditFlow(t *testing.T) {
	router := setupRouter(t)
	feedID := decode[UploadResponse](t, uploadMultipart(t, router, "feed.csv", shortTitleFeed)).FeedID

	w := doJSON(t, router, http.MethodPost, "/api/feeds/"+feedID+"/validate", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	validated := decode[ValidateResponse](t, w)
	assert.True(t, validated.HistorySaved)
	require.Len(t, validated.Results.Issues, 1)
	assert.Equal(t, "title", validated.Results.Issues[0].Field)
	assert.Equal(t, types.IssueWarning, validated.Results.Issues[0].Type)

	w = doJSON(t, router, http.MethodPost, "/api/feeds/"+feedID+"/focus", FocusRequest{OfferID: "P1"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode[map[string]any](t, w)["focused"])

	w = doJSON(t, router, http.MethodPost, "/api/feeds/"+feedID+"/edits?sync=true", EditRequest{
		OfferID: "P1",
		Field:   "title",
		Text:    "Trail running shoe with grippy outsole",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	edit := decode[EditResponse](t, w)
	assert.False(t, edit.Pending)
	assert.Empty(t, edit.ContentIssues)
	assert.Equal(t, 0, edit.IssueCount)
	require.NotNil(t, edit.Row)
	assert.False(t, edit.Row.Focused)
	require.Len(t, edit.Events, 2)
	assert.Equal(t, session.EventIssueRemoved, edit.Events[0].Kind)
	assert.Equal(t, session.EventAllResolved, edit.Events[1].Kind)

	w = doJSON(t, router, http.MethodGet, "/api/feeds/"+feedID+"/issues", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, decode[IssuesResponse](t, w).Count)

	w = doJSON(t, router, http.MethodGet, "/api/feeds/"+feedID, nil)
	feed := decode[FeedResponse](t, w)
	assert.Equal(t, "Trail running shoe with grippy outsole", feed.Rows[0].Get("title"))
	assert.NotNil(t, feed.ValidatedAt)

	w = doJSON(t, router, http.MethodGet, "/api/feeds/"+feedID+"/events?since=1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	events := decode[EventsResponse](t, w)
	assert.Equal(t, uint64(2), events.Last)
	require.Len(t, events.Events, 1)
	assert.Equal(t, session.EventAllResolved, events.Events[0].Kind)
}

func TestEditDebounced(t *testing.T) {
	router := setupRouter(t)
	feedID := decode[UploadResponse](t, uploadMultipart(t, router, "feed.csv", shortTitleFeed)).FeedID
	require.Equal(t, http.StatusOK, doJSON(t, router, http.MethodPost, "/api/feeds/"+feedID+"/validate", nil).Code)

	w := doJSON(t, router, http.MethodPost, "/api/feeds/"+feedID+"/edits", EditRequest{
		OfferID: "P1",
		Field:   "title",
		Text:    "https://not-a-title.example",
	})
	require.Equal(t, http.StatusAccepted, w.Code)
	edit := decode[EditResponse](t, w)
	assert.True(t, edit.Pending)
	require.NotEmpty(t, edit.ContentIssues)
	assert.Equal(t, types.SeverityError, edit.ContentIssues[0].Severity)
}

func TestFeedNotFound(t *testing.T) {
	router := setupRouter(t)

	tests := []struct {
		method string
		path   string
		body   any
	}{
		{http.MethodGet, "/api/feeds/feed_missing", nil},
		{http.MethodDelete, "/api/feeds/feed_missing", nil},
		{http.MethodPost, "/api/feeds/feed_missing/validate", nil},
		{http.MethodPost, "/api/feeds/feed_missing/focus", FocusRequest{OfferID: "P1"}},
		{http.MethodPost, "/api/feeds/feed_missing/edits", EditRequest{OfferID: "P1", Field: "title"}},
		{http.MethodGet, "/api/feeds/feed_missing/issues", nil},
		{http.MethodGet, "/api/feeds/feed_missing/events", nil},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			assert.Equal(t, http.StatusNotFound, doJSON(t, router, tt.method, tt.path, tt.body).Code)
		})
	}
}

func TestBadRequests(t *testing.T) {
	router := setupRouter(t)
	feedID := decode[UploadResponse](t, uploadMultipart(t, router, "feed.csv", shortTitleFeed)).FeedID

	assert.Equal(t, http.StatusBadRequest, doJSON(t, router, http.MethodPost, "/api/feeds/"+feedID+"/focus", map[string]string{}).Code)
	assert.Equal(t, http.StatusBadRequest, doJSON(t, router, http.MethodPost, "/api/feeds/"+feedID+"/edits", map[string]string{"offerId": "P1"}).Code)
	assert.Equal(t, http.StatusNotFound, doJSON(t, router, http.MethodPost, "/api/feeds/"+feedID+"/focus", FocusRequest{OfferID: "P9"}).Code)
	assert.Equal(t, http.StatusNotFound, doJSON(t, router, http.MethodPost, "/api/feeds/"+feedID+"/edits", EditRequest{OfferID: "P9", Field: "title"}).Code)
	assert.Equal(t, http.StatusBadRequest, doJSON(t, router, http.MethodGet, "/api/feeds/"+feedID+"/events?since=-1", nil).Code)
}

func TestEditOfferIDRejected(t *testing.T) {
	router := setupRouter(t)
	feedID := decode[UploadResponse](t, uploadMultipart(t, router, "feed.csv", shortTitleFeed)).FeedID

	w := doJSON(t, router, http.MethodPost, "/api/feeds/"+feedID+"/edits?sync=true", EditRequest{OfferID: "P1", Field: "id", Text: "P9"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "cannot be edited")

	// the offer keeps its id
	w = doJSON(t, router, http.MethodPost, "/api/feeds/"+feedID+"/edits?sync=true", EditRequest{OfferID: "P1", Field: "title", Text: "Still short"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, http.StatusNotFound, doJSON(t, router, http.MethodPost, "/api/feeds/"+feedID+"/edits", EditRequest{OfferID: "P9", Field: "title"}).Code)
}

func TestCloseFeed(t *testing.T) {
	router := setupRouter(t)
	feedID := decode[UploadResponse](t, uploadMultipart(t, router, "feed.csv", shortTitleFeed)).FeedID

	assert.Equal(t, http.StatusNoContent, doJSON(t, router, http.MethodDelete, "/api/feeds/"+feedID, nil).Code)
	assert.Equal(t, http.StatusNotFound, doJSON(t, router, http.MethodGet, "/api/feeds/"+feedID, nil).Code)
}

func TestHistoryEndpoints(t *testing.T) {
	router := setupRouter(t)
	feedID := decode[UploadResponse](t, uploadMultipart(t, router, "feed.csv", shortTitleFeed)).FeedID
	require.Equal(t, http.StatusOK, doJSON(t, router, http.MethodPost, "/api/feeds/"+feedID+"/validate", nil).Code)

	w := doJSON(t, router, http.MethodGet, "/api/history?limit=10", nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[ListHistoryResponse](t, w)
	require.Equal(t, 1, list.Total)
	assert.Equal(t, feedID, list.Runs[0].FeedID)
	assert.Equal(t, types.SourceAPI, list.Runs[0].Source)

	w = doJSON(t, router, http.MethodGet, "/api/history/"+feedID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "feed.csv", decode[types.FeedRecord](t, w).FileName)

	assert.Equal(t, http.StatusNotFound, doJSON(t, router, http.MethodGet, "/api/history/feed_missing", nil).Code)
	assert.Equal(t, http.StatusBadRequest, doJSON(t, router, http.MethodGet, "/api/history?limit=1000", nil).Code)
}

func TestHistoryDisabled(t *testing.T) {
	router := setupRouter(t)
	Init(Deps{Runner: runner, Sessions: sessions})

	assert.Equal(t, http.StatusNotFound, doJSON(t, router, http.MethodGet, "/api/history", nil).Code)
	assert.Equal(t, http.StatusNotFound, doJSON(t, router, http.MethodGet, "/api/history/feed_x", nil).Code)
}

func TestHealthCheck(t *testing.T) {
	router := setupRouter(t)
	uploadMultipart(t, router, "feed.csv", shortTitleFeed)

	w := doJSON(t, router, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	health := decode[HealthResponse](t, w)
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, "not configured", health.Database)
	assert.Equal(t, 1, health.Sessions)
}
