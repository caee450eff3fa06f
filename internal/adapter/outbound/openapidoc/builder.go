// Package openapidoc renders a scanned schema as an OpenAPI 3 document so
// the proxied API stays consumable by ordinary OpenAPI tooling.
package openapidoc

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/brsantos/springmcp/internal/domain"
)

// Builder converts a schema document into an openapi3.T.
type Builder struct {
	logger *slog.Logger
}

// NewBuilder creates a Builder.
func NewBuilder(logger *slog.Logger) *Builder {
	return &Builder{
		logger: logger.With("component", "openapi_builder"),
	}
}

// Build assembles the OpenAPI document. Duplicate (path, method) pairs in
// the schema collapse to the later declaration, matching the proxy's
// routing table.
func (b *Builder) Build(schema domain.Schema) *openapi3.T {
	doc := &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:   schema.Name,
			Version: "1.0.0",
		},
		Paths: openapi3.NewPaths(),
		Components: &openapi3.Components{
			Schemas: make(openapi3.Schemas),
		},
	}

	for name, fields := range schema.Models {
		doc.Components.Schemas[name] = openapi3.NewSchemaRef("", modelSchema(fields))
	}

	for _, ep := range schema.Endpoints {
		op := b.operation(schema, ep)
		item := doc.Paths.Value(ep.Path)
		if item == nil {
			item = &openapi3.PathItem{}
			doc.Paths.Set(ep.Path, item)
		}
		item.SetOperation(strings.ToUpper(ep.Method), op)
	}

	b.logger.Debug("Built OpenAPI document.",
		slog.Int("path_count", doc.Paths.Len()),
		slog.Int("schema_count", len(doc.Components.Schemas)))
	return doc
}

func (b *Builder) operation(schema domain.Schema, ep domain.Endpoint) *openapi3.Operation {
	op := &openapi3.Operation{
		OperationID: fmt.Sprintf("%s_%s", ep.MethodName, strings.ToLower(ep.Method)),
		Summary:     ep.Description,
		Responses:   openapi3.NewResponses(),
	}

	for _, param := range ep.Parameters {
		switch {
		case param.PathVariable != "":
			p := openapi3.NewPathParameter(param.PathVariable)
			p.Schema = openapi3.NewSchemaRef("", kindSchema(domain.JSONSchemaKind(param.Type)))
			op.Parameters = append(op.Parameters, &openapi3.ParameterRef{Value: p})
		case param.RequestParam != "":
			p := openapi3.NewQueryParameter(param.RequestParam)
			p.Required = param.Required == nil || *param.Required
			p.Schema = openapi3.NewSchemaRef("", kindSchema(domain.JSONSchemaKind(param.Type)))
			op.Parameters = append(op.Parameters, &openapi3.ParameterRef{Value: p})
		case param.IsBody:
			op.RequestBody = &openapi3.RequestBodyRef{
				Value: openapi3.NewRequestBody().WithSchemaRef(
					bodySchemaRef(schema, param.Type),
					[]string{"application/json"},
				),
			}
		}
	}

	return op
}

// bodySchemaRef references the scanned model when the body type names one,
// and falls back to the coarse kind mapping otherwise.
func bodySchemaRef(schema domain.Schema, javaType string) *openapi3.SchemaRef {
	if _, ok := schema.Models[javaType]; ok {
		return openapi3.NewSchemaRef("#/components/schemas/"+javaType, nil)
	}
	return openapi3.NewSchemaRef("", kindSchema(domain.JSONSchemaKind(javaType)))
}

func modelSchema(fields []domain.Field) *openapi3.Schema {
	s := openapi3.NewObjectSchema()
	for _, f := range fields {
		s.Properties[f.Name] = openapi3.NewSchemaRef("", kindSchema(f.Type))
	}
	return s
}

func kindSchema(kind string) *openapi3.Schema {
	switch kind {
	case domain.KindInteger:
		return openapi3.NewIntegerSchema()
	case domain.KindNumber:
		return openapi3.NewFloat64Schema()
	case domain.KindBoolean:
		return openapi3.NewBoolSchema()
	case domain.KindArray:
		s := openapi3.NewArraySchema()
		s.Items = openapi3.NewSchemaRef("", openapi3.NewStringSchema())
		return s
	case domain.KindObject:
		return openapi3.NewObjectSchema()
	default:
		return openapi3.NewStringSchema()
	}
}
