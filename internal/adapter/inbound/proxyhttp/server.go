// Package proxyhttp re-exposes every endpoint of a scanned schema over
// HTTP, forwarding each call to the original backend. Handlers are built
// once from the schema document at start-up; there is no per-request
// routing logic beyond net/http's own matching.
package proxyhttp

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/brsantos/springmcp/internal/adapter/outbound/openapidoc"
	"github.com/brsantos/springmcp/internal/domain"
	"github.com/brsantos/springmcp/internal/usecase"
)

// SchemaPath is the well-known discovery path serving the schema document
// unmodified.
const SchemaPath = "/.well-known/mcp-schema.json"

// OpenAPIPath serves the OpenAPI rendering of the schema.
const OpenAPIPath = "/openapi.json"

var bodyMethods = map[string]struct{}{
	http.MethodPost:  {},
	http.MethodPut:   {},
	http.MethodPatch: {},
}

var allowedMethods = map[string]struct{}{
	http.MethodGet:    {},
	http.MethodPost:   {},
	http.MethodPut:    {},
	http.MethodDelete: {},
	http.MethodPatch:  {},
}

// Server holds the immutable schema and the forwarder shared by every
// generated handler. Handlers themselves are stateless per call.
type Server struct {
	schema      domain.Schema
	forwarder   usecase.Forwarder
	logger      *slog.Logger
	schemaJSON  []byte
	openapiJSON []byte
}

// New creates a proxy server for the given schema. The schema is provided
// explicitly here and never mutated afterwards.
func New(schema domain.Schema, fw usecase.Forwarder, logger *slog.Logger) (*Server, error) {
	schemaJSON, err := json.Marshal(schema)
	if err != nil {
		return nil, fmt.Errorf("marshalling schema: %w", err)
	}
	openapiJSON, err := openapidoc.NewBuilder(logger).Build(schema).MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("marshalling OpenAPI document: %w", err)
	}
	return &Server{
		schema:      schema,
		forwarder:   fw,
		logger:      logger.With("component", "proxy_server"),
		schemaJSON:  schemaJSON,
		openapiJSON: openapiJSON,
	}, nil
}

type routeKey struct {
	method string
	path   string
}

// Handler builds the routing table from the schema and registers one
// handler per distinct (method, path). Duplicate declarations collapse to
// the later one, so later registration wins.
func (s *Server) Handler() http.Handler {
	routes := make(map[routeKey]domain.Endpoint)
	var order []routeKey
	for _, ep := range s.schema.Endpoints {
		if _, ok := allowedMethods[ep.Method]; !ok {
			s.logger.Warn("Skipping endpoint with unsupported method.",
				slog.String("method", ep.Method), slog.String("path", ep.Path))
			continue
		}
		key := routeKey{method: ep.Method, path: ep.Path}
		if _, seen := routes[key]; !seen {
			order = append(order, key)
		}
		routes[key] = ep
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET "+SchemaPath, s.handleSchema)
	mux.HandleFunc("GET "+OpenAPIPath, s.handleOpenAPI)
	registered := 0
	for _, key := range order {
		ep := routes[key]
		if err := register(mux, key, s.endpointHandler(ep)); err != nil {
			s.logger.Warn("Skipping unregistrable route.",
				slog.String("method", key.method), slog.String("path", key.path),
				slog.Any("error", err))
			continue
		}
		registered++
		s.logger.Debug("Registered proxy route.",
			slog.String("method", key.method), slog.String("path", key.path))
	}
	s.logger.Info("Proxy routes registered.", slog.Int("route_count", registered))

	return corsMiddleware(mux)
}

// register shields route registration from ServeMux panics. Scanned paths
// can conflict in ways the (method, path) dedup cannot see, e.g. two
// routes whose wildcard segments differ only by name, or a segment that is
// not a valid pattern. Such routes are reported as an error and skipped;
// earlier registrations stay in place.
func register(mux *http.ServeMux, key routeKey, h http.Handler) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("registering %s %s: %v", key.method, key.path, r)
		}
	}()
	mux.Handle(key.method+" "+key.path, h)
	return nil
}

func (s *Server) handleSchema(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write(s.schemaJSON)
}

func (s *Server) handleOpenAPI(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write(s.openapiJSON)
}

// endpointHandler builds the forwarding handler for one endpoint. At
// request time it reconstructs the original call shape purely from the
// schema's parameter descriptors.
func (s *Server) endpointHandler(ep domain.Endpoint) http.Handler {
	log := s.logger.With(slog.String("method", ep.Method), slog.String("path", ep.Path))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		call := usecase.ForwardCall{
			Method:     ep.Method,
			Path:       ep.Path,
			PathValues: map[string]string{},
			Query:      url.Values{},
		}

		for _, param := range ep.Parameters {
			switch {
			case param.PathVariable != "":
				call.PathValues[param.PathVariable] = r.PathValue(param.PathVariable)
			case param.RequestParam != "":
				// Absent parameters pass through as absent; required-ness
				// is not validated at this layer.
				if r.URL.Query().Has(param.RequestParam) {
					call.Query.Set(param.RequestParam, r.URL.Query().Get(param.RequestParam))
				}
			}
		}

		if _, ok := bodyMethods[ep.Method]; ok {
			if strings.Contains(r.Header.Get("Content-Type"), "application/json") {
				body, err := io.ReadAll(r.Body)
				if err != nil {
					log.Warn("Failed to read request body.", slog.Any("error", err))
					http.Error(w, "failed to read request body", http.StatusBadRequest)
					return
				}
				call.Body = body
				call.ContentType = "application/json"
			}
		}

		result, err := s.forwarder.Forward(r.Context(), call)
		if err != nil {
			log.Error("Forwarding failed.", slog.Any("error", err))
			http.Error(w, fmt.Sprintf("backend call failed: %v", err), http.StatusBadGateway)
			return
		}

		copyHeaders(w.Header(), result.Header)
		w.WriteHeader(result.StatusCode)
		w.Write(result.Body)
	})
}

// copyHeaders relays backend headers. Framing headers are left for
// net/http to recompute.
func copyHeaders(dst, src http.Header) {
	for key, values := range src {
		switch http.CanonicalHeaderKey(key) {
		case "Content-Length", "Transfer-Encoding", "Connection":
			continue
		}
		for _, v := range values {
			dst.Add(key, v)
		}
	}
}

// corsMiddleware mirrors the permissive policy of the generated server
// this proxy replaces: any origin, any method, any header.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, PATCH, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "*")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
