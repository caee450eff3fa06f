package openapidoc_test

import (
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brsantos/springmcp/internal/adapter/outbound/openapidoc"
	"github.com/brsantos/springmcp/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func testSchema() domain.Schema {
	required := true
	return domain.NewSchema("MyAPI", []domain.Endpoint{
		{
			Path:        "/v1/users/{id}",
			Method:      "GET",
			MethodName:  "getUser",
			Description: "Fetches one user.",
			Parameters: []domain.Parameter{
				{Name: "id", Type: "Long", PathVariable: "id"},
				{Name: "verbose", Type: "boolean", RequestParam: "verbose", Required: &required},
			},
			ResponseType: "UserDto",
		},
		{
			Path:        "/v1/users",
			Method:      "POST",
			MethodName:  "createUser",
			Description: "Creates a user.",
			Parameters: []domain.Parameter{
				{Name: "user", Type: "UserDto", IsBody: true},
			},
			ResponseType: "UserDto",
		},
	}, map[string][]domain.Field{
		"UserDto": {
			{Name: "id", Type: "integer"},
			{Name: "name", Type: "string"},
		},
	})
}

func TestBuilder_Build(t *testing.T) {
	doc := openapidoc.NewBuilder(testLogger()).Build(testSchema())

	assert.Equal(t, "MyAPI", doc.Info.Title)
	assert.Equal(t, 2, doc.Paths.Len())

	get := doc.Paths.Value("/v1/users/{id}").Get
	require.NotNil(t, get)
	assert.Equal(t, "Fetches one user.", get.Summary)
	require.Len(t, get.Parameters, 2)

	pathParam := get.Parameters[0].Value
	assert.Equal(t, "id", pathParam.Name)
	assert.Equal(t, "path", pathParam.In)
	assert.True(t, pathParam.Required)
	assert.True(t, pathParam.Schema.Value.Type.Is("integer"))

	queryParam := get.Parameters[1].Value
	assert.Equal(t, "verbose", queryParam.Name)
	assert.Equal(t, "query", queryParam.In)
	assert.True(t, queryParam.Schema.Value.Type.Is("boolean"))

	post := doc.Paths.Value("/v1/users").Post
	require.NotNil(t, post)
	require.NotNil(t, post.RequestBody)
	media := post.RequestBody.Value.Content.Get("application/json")
	require.NotNil(t, media)
	assert.Equal(t, "#/components/schemas/UserDto", media.Schema.Ref)

	userSchema := doc.Components.Schemas["UserDto"]
	require.NotNil(t, userSchema)
	assert.Contains(t, userSchema.Value.Properties, "id")
	assert.Contains(t, userSchema.Value.Properties, "name")
}

func TestBuilder_DuplicateRouteLaterWins(t *testing.T) {
	schema := domain.NewSchema("Dup", []domain.Endpoint{
		{Path: "/dup", Method: "GET", MethodName: "first", Description: "old"},
		{Path: "/dup", Method: "GET", MethodName: "second", Description: "new"},
	}, nil)

	doc := openapidoc.NewBuilder(testLogger()).Build(schema)
	require.Equal(t, 1, doc.Paths.Len())
	assert.Equal(t, "new", doc.Paths.Value("/dup").Get.Summary)
}

func TestBuilder_EmptySchema(t *testing.T) {
	doc := openapidoc.NewBuilder(testLogger()).Build(domain.NewSchema("Empty", nil, nil))
	assert.Equal(t, 0, doc.Paths.Len())
}
