// Package mcpsrv exposes every scanned endpoint as an MCP tool so AI
// assistants can call the proxied Spring Boot API through the Model
// Context Protocol.
package mcpsrv

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/brsantos/springmcp/internal/domain"
	"github.com/brsantos/springmcp/internal/usecase"
)

var toolNameCleanRe = regexp.MustCompile(`[^a-z0-9]+`)

// Register builds one MCP tool per endpoint in the schema and adds it to
// the server. Duplicate tool names overwrite, consistent with the HTTP
// routing table's later-wins behavior.
func Register(srv *server.MCPServer, schema domain.Schema, fw usecase.Forwarder, logger *slog.Logger) {
	log := logger.With("component", "mcp_registrar")
	for _, ep := range schema.Endpoints {
		tool := BuildTool(schema, ep)
		srv.AddTool(tool, Handler(ep, fw, logger))
		log.Debug("Registered MCP tool.",
			slog.String("tool", tool.Name),
			slog.String("method", ep.Method),
			slog.String("path", ep.Path))
	}
	log.Info("MCP tools registered.", slog.Int("tool_count", len(schema.Endpoints)))
}

// BuildTool synthesizes the tool definition for one endpoint. The input
// schema is derived from the endpoint's parameter descriptors; a body
// parameter whose declared type names a scanned model expands into an
// object schema built from that model's fields.
func BuildTool(schema domain.Schema, ep domain.Endpoint) mcp.Tool {
	properties := make(map[string]any)
	var required []string

	for _, param := range ep.Parameters {
		switch {
		case param.PathVariable != "":
			properties[param.PathVariable] = map[string]any{
				"type":        domain.JSONSchemaKind(param.Type),
				"description": fmt.Sprintf("Path variable %q of %s", param.PathVariable, ep.Path),
			}
			required = append(required, param.PathVariable)
		case param.RequestParam != "":
			properties[param.RequestParam] = map[string]any{
				"type":        domain.JSONSchemaKind(param.Type),
				"description": fmt.Sprintf("Query parameter %q", param.RequestParam),
			}
			if param.Required == nil || *param.Required {
				required = append(required, param.RequestParam)
			}
		case param.IsBody:
			properties[param.Name] = bodyProperty(schema, param)
			required = append(required, param.Name)
		}
	}

	return mcp.Tool{
		Name:        ToolName(schema.Name, ep),
		Description: ep.Description,
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: properties,
			Required:   required,
		},
	}
}

// Handler produces the tool handler forwarding a call to the backend.
func Handler(ep domain.Endpoint, fw usecase.Forwarder, logger *slog.Logger) server.ToolHandlerFunc {
	log := logger.With("component", "mcp_tool_handler",
		slog.String("method", ep.Method), slog.String("path", ep.Path))

	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()

		call := usecase.ForwardCall{
			Method:     ep.Method,
			Path:       ep.Path,
			PathValues: map[string]string{},
			Query:      url.Values{},
		}

		for _, param := range ep.Parameters {
			switch {
			case param.PathVariable != "":
				if v, ok := args[param.PathVariable]; ok {
					call.PathValues[param.PathVariable] = fmt.Sprintf("%v", v)
				}
			case param.RequestParam != "":
				if v, ok := args[param.RequestParam]; ok {
					call.Query.Set(param.RequestParam, fmt.Sprintf("%v", v))
				}
			case param.IsBody:
				v, ok := args[param.Name]
				if !ok {
					continue
				}
				body, err := json.Marshal(v)
				if err != nil {
					log.Warn("Failed to marshal body argument.", slog.Any("error", err))
					return mcp.NewToolResultError(fmt.Sprintf("invalid body argument %q: %v", param.Name, err)), nil
				}
				call.Body = body
				call.ContentType = "application/json"
			}
		}

		result, err := fw.Forward(ctx, call)
		if err != nil {
			log.Error("Tool invocation failed.", slog.Any("error", err))
			return mcp.NewToolResultError(fmt.Sprintf("backend call failed: %v", err)), nil
		}
		if result.StatusCode >= http.StatusBadRequest {
			return mcp.NewToolResultError(fmt.Sprintf("HTTP %d: %s", result.StatusCode, result.Body)), nil
		}
		return mcp.NewToolResultText(string(result.Body)), nil
	}
}

// ToolName derives a stable tool identifier from the server name, verb and
// path, e.g. "myapi_get_api_items_id".
func ToolName(serverName string, ep domain.Endpoint) string {
	raw := strings.ToLower(serverName + "_" + ep.Method + "_" + ep.Path)
	name := toolNameCleanRe.ReplaceAllString(raw, "_")
	return strings.Trim(name, "_")
}

func bodyProperty(schema domain.Schema, param domain.Parameter) map[string]any {
	if fields, ok := schema.Models[param.Type]; ok {
		props := make(map[string]any, len(fields))
		for _, f := range fields {
			props[f.Name] = map[string]any{"type": f.Type}
		}
		return map[string]any{
			"type":        "object",
			"description": fmt.Sprintf("Request body of type %s", param.Type),
			"properties":  props,
		}
	}
	return map[string]any{
		"type":        domain.JSONSchemaKind(param.Type),
		"description": fmt.Sprintf("Request body of type %s", param.Type),
	}
}
