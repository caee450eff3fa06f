// Package javasrc recovers endpoint and model metadata from Spring Boot
// source text. It deliberately works with regular expressions over raw
// source rather than a real Java parser: the input projects are scanned
// as-is, without a compiler on hand, so every extraction here is a
// heuristic with documented failure modes.
package javasrc

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/brsantos/springmcp/internal/domain"
)

var (
	// Classes carrying any of these annotations are treated as data models.
	modelMarkerRe = regexp.MustCompile(`@(Entity|Data|Serializable)\b`)

	classNameRe = regexp.MustCompile(`class\s+(\w+)`)

	// Only the exact "private <Type> <name>;" shape is captured. Fields
	// with initializers, extra modifiers or multi-token generics are
	// silently skipped rather than partially recovered.
	fieldRe = regexp.MustCompile(`private\s+(\w+\s+\w+)\s*;`)
)

// ModelExtractor detects data-holding classes in a single source file and
// returns their schema-mapped fields.
type ModelExtractor struct {
	logger *slog.Logger
}

// NewModelExtractor creates a ModelExtractor.
func NewModelExtractor(logger *slog.Logger) *ModelExtractor {
	return &ModelExtractor{
		logger: logger.With("component", "model_extractor"),
	}
}

// Extract returns a class-name to field-list mapping for one file's text.
// The mapping is empty when the file carries no model marker annotation.
//
// All fields found anywhere in the file are attributed to the first class
// declared in it. Files holding several classes therefore misattribute
// fields; Spring projects conventionally keep one public class per file,
// which keeps the shortcut workable.
func (e *ModelExtractor) Extract(content string) map[string][]domain.Field {
	models := make(map[string][]domain.Field)

	if !modelMarkerRe.MatchString(content) {
		return models
	}

	classMatch := classNameRe.FindStringSubmatch(content)
	if classMatch == nil {
		e.logger.Debug("Model marker present but no class declaration found.")
		return models
	}
	className := classMatch[1]

	fields := []domain.Field{}
	for _, fieldMatch := range fieldRe.FindAllStringSubmatch(content, -1) {
		parts := strings.Fields(fieldMatch[1])
		if len(parts) != 2 {
			continue
		}
		fieldType, fieldName := parts[0], parts[1]
		fields = append(fields, domain.Field{
			Name: fieldName,
			Type: domain.JSONSchemaKind(fieldType),
		})
	}

	models[className] = fields
	e.logger.Debug("Extracted model.",
		slog.String("class", className),
		slog.Int("field_count", len(fields)))
	return models
}
