// Package artifacts persists the outputs of a scan run: the schema
// document the proxy consumes, a human-readable endpoint listing, and an
// OpenAPI rendering of the discovered API.
package artifacts

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/brsantos/springmcp/internal/adapter/outbound/openapidoc"
	"github.com/brsantos/springmcp/internal/domain"
)

// SchemaFileName is the persisted schema artifact consumed at proxy
// start-up and served at the well-known discovery path.
const SchemaFileName = "mcp_schema.json"

// OpenAPIFileName is the OpenAPI rendering written alongside the schema.
const OpenAPIFileName = "openapi.json"

// Writer writes scan artifacts to an output directory.
type Writer struct {
	openapi *openapidoc.Builder
	logger  *slog.Logger
}

// NewWriter creates a Writer.
func NewWriter(logger *slog.Logger) *Writer {
	return &Writer{
		openapi: openapidoc.NewBuilder(logger),
		logger:  logger.With("component", "artifact_writer"),
	}
}

// Write creates the output directory if needed and writes the schema,
// README and OpenAPI artifacts into it.
func (w *Writer) Write(dir string, schema domain.Schema) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating output directory %s: %w", dir, err)
	}

	schemaJSON, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling schema: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, SchemaFileName), schemaJSON, 0o644); err != nil {
		return fmt.Errorf("writing schema artifact: %w", err)
	}

	doc := w.openapi.Build(schema)
	docJSON, err := doc.MarshalJSON()
	if err != nil {
		return fmt.Errorf("marshalling OpenAPI document: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, OpenAPIFileName), docJSON, 0o644); err != nil {
		return fmt.Errorf("writing OpenAPI artifact: %w", err)
	}

	if err := os.WriteFile(filepath.Join(dir, "README.md"), []byte(readme(schema)), 0o644); err != nil {
		return fmt.Errorf("writing README artifact: %w", err)
	}

	w.logger.Info("Wrote scan artifacts.",
		slog.String("dir", dir),
		slog.Int("endpoint_count", len(schema.Endpoints)))
	return nil
}

// ReadSchema loads a previously written schema artifact. Unknown keys in
// the document are tolerated.
func ReadSchema(path string) (domain.Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Schema{}, fmt.Errorf("reading schema file %s: %w", path, err)
	}
	var schema domain.Schema
	if err := json.Unmarshal(data, &schema); err != nil {
		return domain.Schema{}, fmt.Errorf("parsing schema file %s: %w", path, err)
	}
	return schema, nil
}

func readme(schema domain.Schema) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s MCP Server\n\n", schema.Name)
	sb.WriteString("Automatically generated MCP proxy for a Spring Boot application.\n\n")
	fmt.Fprintf(&sb, "Total endpoints: %d\n\n", len(schema.Endpoints))
	for _, ep := range schema.Endpoints {
		fmt.Fprintf(&sb, "- **%s** `%s`: %s\n", ep.Method, ep.Path, ep.Description)
	}
	return sb.String()
}
