package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func TestSwaggerRouteRegistration(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	assert.NotPanics(t, func() {
		router.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	})

	found := false
	for _, route := range router.Routes() {
		if route.Path == "/docs/*any" && route.Method == http.MethodGet {
			found = true
			break
		}
	}
	assert.True(t, found, "swagger route should be registered")
}

func TestRegisterRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	RegisterRoutes(router.Group("/api"))

	want := map[string]bool{
		"POST /api/feeds":                  false,
		"GET /api/feeds/:feedId":           false,
		"DELETE /api/feeds/:feedId":        false,
		"POST /api/feeds/:feedId/validate": false,
		"POST /api/feeds/:feedId/focus":    false,
		"POST /api/feeds/:feedId/edits":    false,
		"GET /api/feeds/:feedId/issues":    false,
		"GET /api/feeds/:feedId/events":    false,
		"GET /api/history":                 false,
		"GET /api/history/:feedId":         false,
	}
	for _, route := range router.Routes() {
		key := route.Method + " " + route.Path
		if _, ok := want[key]; ok {
			want[key] = true
		}
	}
	for route, registered := range want {
		assert.True(t, registered, route)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/unknown", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
