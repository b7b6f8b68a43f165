package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/Digitalbradley/adbrain-legal-sub000/config"
	"github.com/Digitalbradley/adbrain-legal-sub000/internal/middleware"
)

func testRouter(apiKey string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{
		Server:    config.ServerConfig{APIKey: apiKey},
		RateLimit: config.RateLimitConfig{RequestsPerSecond: 100, Burst: 100},
	}
	logger := zerolog.Nop()
	return newRouter(cfg, &logger)
}

func TestRouterPublicEndpoints(t *testing.T) {
	router := testRouter("secret")

	tests := []struct {
		path string
		want int
	}{
		{path: "/health", want: http.StatusOK},
		{path: "/metrics", want: http.StatusOK},
		{path: "/docs/doc.json", want: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestRouterAPIRequiresKey(t *testing.T) {
	router := testRouter("secret")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/history", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/history", nil)
	req.Header.Set(middleware.APIKeyHeader, "secret")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.NotEqual(t, http.StatusUnauthorized, w.Code)
}
