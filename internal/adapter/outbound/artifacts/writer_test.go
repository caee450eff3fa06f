package artifacts_test

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brsantos/springmcp/internal/adapter/outbound/artifacts"
	"github.com/brsantos/springmcp/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func sampleSchema() domain.Schema {
	return domain.NewSchema("MyAPI", []domain.Endpoint{
		{
			Path:        "/v1/users",
			Method:      "POST",
			MethodName:  "createUser",
			Description: "Creates a user.",
			Parameters:  []domain.Parameter{{Name: "user", Type: "UserDto", IsBody: true}},
		},
	}, map[string][]domain.Field{
		"UserDto": {{Name: "name", Type: "string"}},
	})
}

func TestWriter_Write(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	schema := sampleSchema()

	require.NoError(t, artifacts.NewWriter(testLogger()).Write(dir, schema))

	t.Run("schema round-trips", func(t *testing.T) {
		loaded, err := artifacts.ReadSchema(filepath.Join(dir, artifacts.SchemaFileName))
		require.NoError(t, err)
		assert.Equal(t, schema, loaded)
	})

	t.Run("openapi document is valid JSON with the endpoint path", func(t *testing.T) {
		data, err := os.ReadFile(filepath.Join(dir, artifacts.OpenAPIFileName))
		require.NoError(t, err)
		var doc map[string]any
		require.NoError(t, json.Unmarshal(data, &doc))
		paths, ok := doc["paths"].(map[string]any)
		require.True(t, ok)
		assert.Contains(t, paths, "/v1/users")
	})

	t.Run("readme lists endpoints", func(t *testing.T) {
		data, err := os.ReadFile(filepath.Join(dir, "README.md"))
		require.NoError(t, err)
		assert.Contains(t, string(data), "# MyAPI MCP Server")
		assert.Contains(t, string(data), "- **POST** `/v1/users`: Creates a user.")
	})
}

func TestReadSchema_ToleratesUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schema.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"name": "X",
		"endpoints": [],
		"models": {},
		"futureField": {"ignored": true}
	}`), 0o644))

	schema, err := artifacts.ReadSchema(path)
	require.NoError(t, err)
	assert.Equal(t, "X", schema.Name)
}

func TestReadSchema_MissingFile(t *testing.T) {
	_, err := artifacts.ReadSchema(filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, err)
}
