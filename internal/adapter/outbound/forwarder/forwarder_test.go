package forwarder_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brsantos/springmcp/internal/adapter/outbound/forwarder"
	"github.com/brsantos/springmcp/internal/usecase"
)

func newTestForwarder(t *testing.T, handler http.Handler) *forwarder.Forwarder {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	return forwarder.New(server.Client(), server.URL, logger)
}

func TestForwarder_Forward(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)
	ctx := context.Background()

	t.Run("POST relays body and content type", func(t *testing.T) {
		fw := newTestForwarder(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(http.MethodPost, r.Method)
			assert.Equal("/v1/users", r.URL.Path)
			assert.Equal("application/json", r.Header.Get("Content-Type"))
			body, _ := io.ReadAll(r.Body)
			assert.JSONEq(`{"name":"ada"}`, string(body))

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"id":1,"name":"ada"}`))
		}))

		result, err := fw.Forward(ctx, usecase.ForwardCall{
			Method:      http.MethodPost,
			Path:        "/v1/users",
			Body:        []byte(`{"name":"ada"}`),
			ContentType: "application/json",
		})
		require.NoError(err)
		assert.Equal(http.StatusCreated, result.StatusCode)
		assert.JSONEq(`{"id":1,"name":"ada"}`, string(result.Body))
		assert.Equal("application/json", result.Header.Get("Content-Type"))
	})

	t.Run("path variables are substituted into the outgoing path", func(t *testing.T) {
		fw := newTestForwarder(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal("/api/items/42", r.URL.Path)
			w.WriteHeader(http.StatusOK)
		}))

		result, err := fw.Forward(ctx, usecase.ForwardCall{
			Method:     http.MethodGet,
			Path:       "/api/items/{id}",
			PathValues: map[string]string{"id": "42"},
		})
		require.NoError(err)
		assert.Equal(http.StatusOK, result.StatusCode)
	})

	t.Run("query parameters are attached", func(t *testing.T) {
		fw := newTestForwarder(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal("term", r.URL.Query().Get("q"))
			assert.Equal("10", r.URL.Query().Get("max"))
			w.WriteHeader(http.StatusOK)
		}))

		_, err := fw.Forward(ctx, usecase.ForwardCall{
			Method: http.MethodGet,
			Path:   "/search",
			Query:  url.Values{"q": {"term"}, "max": {"10"}},
		})
		require.NoError(err)
	})

	t.Run("backend error status is relayed, not turned into an error", func(t *testing.T) {
		fw := newTestForwarder(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		}))

		result, err := fw.Forward(ctx, usecase.ForwardCall{
			Method: http.MethodGet,
			Path:   "/broken",
		})
		require.NoError(err)
		assert.Equal(http.StatusInternalServerError, result.StatusCode)
		assert.Contains(string(result.Body), "boom")
	})

	t.Run("unreachable backend surfaces ErrBackendUnavailable", func(t *testing.T) {
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
		fw := forwarder.New(&http.Client{}, "http://127.0.0.1:1", logger)

		_, err := fw.Forward(ctx, usecase.ForwardCall{Method: http.MethodGet, Path: "/x"})
		require.Error(err)
		assert.ErrorIs(err, usecase.ErrBackendUnavailable)
	})

	t.Run("cancelled context aborts the call", func(t *testing.T) {
		fw := newTestForwarder(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			<-r.Context().Done()
		}))

		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		_, err := fw.Forward(cancelled, usecase.ForwardCall{Method: http.MethodGet, Path: "/slow"})
		require.Error(err)
	})
}
