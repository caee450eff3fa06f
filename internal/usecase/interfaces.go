package usecase

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/brsantos/springmcp/internal/domain"
)

// Standard errors returned by use cases and adapters.
var (
	// ErrBackendUnavailable wraps outbound failures surfaced to the
	// proxy's own caller.
	ErrBackendUnavailable = errors.New("backend unavailable")
)

// ProjectScanner walks a Spring Boot project tree and extracts endpoint and
// model metadata from its source files.
type ProjectScanner interface {
	Scan(projectDir string) (domain.ScanResult, error)
}

// ArtifactWriter persists the assembled schema document and its companion
// artifacts (endpoint listing, OpenAPI document) to an output directory.
type ArtifactWriter interface {
	Write(dir string, schema domain.Schema) error
}

// ForwardCall is one reconstructed backend call. The proxy and the MCP tool
// handlers both describe their calls this way.
type ForwardCall struct {
	// Method is the HTTP verb of the original endpoint.
	Method string

	// Path is the endpoint's template path (e.g. "/v1/users/{id}").
	Path string

	// PathValues maps template variable names to the values collected from
	// the inbound call. They are substituted into Path before forwarding.
	PathValues map[string]string

	// Query holds the collected query parameters. Absent required
	// parameters are passed through as absent; this layer does not
	// validate them.
	Query url.Values

	// Body is the raw request payload, nil when the call carries none.
	Body []byte

	// ContentType is set alongside Body.
	ContentType string
}

// ForwardResult is the backend's response, relayed verbatim.
type ForwardResult struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Forwarder relays one reconstructed call to the original backend. The
// context bounds the outbound request; a cancelled inbound connection must
// cancel the forwarded call as well.
type Forwarder interface {
	Forward(ctx context.Context, call ForwardCall) (*ForwardResult, error)
}
