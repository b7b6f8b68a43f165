// Schema Generator
//
// Generates JSON Schema files for the records exchanged with API clients:
// upload and validation responses, live-edit messages and history records.
//
// Usage:
//
//	go run ./cmd/schema-gen -out ./schemas
//
// Output:
//
//	<out>/feeds.json
//	<out>/edits.json
//	<out>/history.json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/invopop/jsonschema"

	"github.com/Digitalbradley/adbrain-legal-sub000/internal/handlers"
	"github.com/Digitalbradley/adbrain-legal-sub000/internal/reconcile"
	"github.com/Digitalbradley/adbrain-legal-sub000/internal/session"
	"github.com/Digitalbradley/adbrain-legal-sub000/internal/types"
)

// SchemaGroup represents a group of related schemas
type SchemaGroup struct {
	Name   string
	Types  []any
	Output string
}

func main() {
	outputDir := flag.String("out", "./schemas", "output directory")
	flag.Parse()

	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create output directory: %v\n", err)
		os.Exit(1)
	}

	for _, group := range schemaGroups() {
		schema := generateGroupSchema(group)
		outputPath := filepath.Join(*outputDir, group.Output)

		if err := writeSchema(schema, outputPath); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write %s: %v\n", group.Output, err)
			os.Exit(1)
		}

		fmt.Printf("Generated %s\n", outputPath)
	}

	fmt.Println("Schema generation complete!")
}

func schemaGroups() []SchemaGroup {
	return []SchemaGroup{
		{
			Name: "feeds",
			Types: []any{
				handlers.UploadResponse{},
				handlers.FeedResponse{},
				handlers.ValidateResponse{},
				handlers.IssuesResponse{},
				types.StructuralIssue{},
				types.ContentIssue{},
				types.ValidationResults{},
			},
			Output: "feeds.json",
		},
		{
			Name: "edits",
			Types: []any{
				handlers.FocusRequest{},
				handlers.EditRequest{},
				handlers.EditResponse{},
				handlers.EventsResponse{},
				reconcile.RowState{},
				session.Event{},
			},
			Output: "edits.json",
		},
		{
			Name: "history",
			Types: []any{
				handlers.ListHistoryRequest{},
				handlers.ListHistoryResponse{},
				types.FeedRecord{},
			},
			Output: "history.json",
		},
	}
}

// generateGroupSchema creates a combined schema with all types in a group
func generateGroupSchema(group SchemaGroup) map[string]any {
	reflector := &jsonschema.Reflector{}
	definitions := make(map[string]any)

	for _, t := range group.Types {
		schema := reflector.Reflect(t)

		for name, def := range schema.Definitions {
			definitions[name] = def
		}
	}

	return map[string]any{
		"$schema":     "https://json-schema.org/draft/2020-12/schema",
		"$id":         fmt.Sprintf("https://feedcheck.dev/schemas/%s.json", group.Name),
		"title":       fmt.Sprintf("%s API Types", capitalize(group.Name)),
		"description": fmt.Sprintf("JSON Schema for %s API types generated from Go structs", group.Name),
		"$defs":       definitions,
	}
}

// writeSchema writes a schema to a JSON file
func writeSchema(schema map[string]any, path string) error {
	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal schema: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}

func capitalize(s string) string {
	if len(s) == 0 {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
