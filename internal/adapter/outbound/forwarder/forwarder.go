// Package forwarder relays reconstructed calls to the original Spring Boot
// backend over plain HTTP.
package forwarder

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/brsantos/springmcp/internal/usecase"
)

// Forwarder implements usecase.Forwarder using net/http.
type Forwarder struct {
	client  *http.Client
	baseURL string
	logger  *slog.Logger
}

// New creates a Forwarder targeting the given backend base URL. A trailing
// slash on the base URL is tolerated.
func New(client *http.Client, baseURL string, logger *slog.Logger) *Forwarder {
	if client == nil {
		client = http.DefaultClient
	}
	return &Forwarder{
		client:  client,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		logger:  logger.With("component", "forwarder"),
	}
}

// Forward issues the outbound call and returns the backend's response
// verbatim. Path-variable values are substituted into the template path
// before the URL is built. The backend's status code is returned as-is,
// whatever it is; only transport-level failures produce an error.
func (f *Forwarder) Forward(ctx context.Context, call usecase.ForwardCall) (*usecase.ForwardResult, error) {
	log := f.logger.With(
		slog.String("method", call.Method),
		slog.String("path", call.Path))

	path := call.Path
	for name, value := range call.PathValues {
		path = strings.ReplaceAll(path, "{"+name+"}", value)
	}

	targetURL := f.baseURL + path
	var body io.Reader
	if call.Body != nil {
		body = bytes.NewReader(call.Body)
	}

	req, err := http.NewRequestWithContext(ctx, call.Method, targetURL, body)
	if err != nil {
		log.Error("Failed to create outbound request", slog.Any("error", err))
		return nil, fmt.Errorf("creating request for %s: %w", targetURL, err)
	}
	if len(call.Query) > 0 {
		req.URL.RawQuery = call.Query.Encode()
	}
	if call.Body != nil && call.ContentType != "" {
		req.Header.Set("Content-Type", call.ContentType)
	}

	log.Debug("Forwarding request", slog.String("url", req.URL.String()))
	resp, err := f.client.Do(req)
	if err != nil {
		log.Error("Backend request failed", slog.Any("error", err))
		return nil, fmt.Errorf("%w: %v", usecase.ErrBackendUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Error("Failed to read backend response", slog.Any("error", err))
		return nil, fmt.Errorf("reading backend response: %w", err)
	}

	log.Debug("Backend responded",
		slog.Int("status_code", resp.StatusCode),
		slog.Int("body_size", len(respBody)))

	return &usecase.ForwardResult{
		StatusCode: resp.StatusCode,
		Header:     resp.Header.Clone(),
		Body:       respBody,
	}, nil
}
