package docs

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readDoc(t *testing.T) map[string]interface{} {
	t.Helper()
	doc := SwaggerInfo.ReadDoc()
	require.NotEmpty(t, doc)

	var parsed map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(doc), &parsed), "ReadDoc should return valid JSON")
	return parsed
}

func TestSwaggerInfoMetadata(t *testing.T) {
	assert.Equal(t, "Feed Check API", SwaggerInfo.Title)
	assert.Equal(t, "1.0", SwaggerInfo.Version)
	assert.Equal(t, "/", SwaggerInfo.BasePath)
	assert.Equal(t, "swagger", SwaggerInfo.InfoInstanceName)
}

func TestSwaggerInfoReadDoc(t *testing.T) {
	parsed := readDoc(t)

	info, ok := parsed["info"].(map[string]interface{})
	require.True(t, ok, "JSON should have info section")
	assert.Equal(t, "Feed Check API", info["title"])
	assert.Equal(t, "1.0", info["version"])
	assert.Equal(t, "2.0", parsed["swagger"])
}

func TestSwaggerInfoHasEndpoints(t *testing.T) {
	paths, ok := readDoc(t)["paths"].(map[string]interface{})
	require.True(t, ok, "JSON should have paths section")

	expectedPaths := []string{
		"/health",
		"/api/feeds",
		"/api/feeds/{feedId}",
		"/api/feeds/{feedId}/validate",
		"/api/feeds/{feedId}/focus",
		"/api/feeds/{feedId}/edits",
		"/api/feeds/{feedId}/issues",
		"/api/feeds/{feedId}/events",
		"/api/history",
		"/api/history/{feedId}",
	}
	for _, path := range expectedPaths {
		_, exists := paths[path]
		assert.True(t, exists, "Path %s should exist in swagger spec", path)
	}
}

func TestSwaggerInfoHasDefinitions(t *testing.T) {
	definitions, ok := readDoc(t)["definitions"].(map[string]interface{})
	require.True(t, ok, "JSON should have definitions section")

	expectedTypes := []string{
		"handlers.UploadResponse",
		"handlers.ValidateResponse",
		"handlers.EditRequest",
		"handlers.EditResponse",
		"reconcile.RowState",
		"types.ValidationIssue",
		"types.FeedRecord",
	}
	for _, typeName := range expectedTypes {
		_, exists := definitions[typeName]
		assert.True(t, exists, "Type %s should exist in swagger definitions", typeName)
	}
}
