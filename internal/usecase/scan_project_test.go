package usecase_test

import (
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brsantos/springmcp/internal/domain"
	"github.com/brsantos/springmcp/internal/usecase"
)

type stubScanner struct {
	result domain.ScanResult
	err    error
}

func (s *stubScanner) Scan(projectDir string) (domain.ScanResult, error) {
	return s.result, s.err
}

type recordingWriter struct {
	dir    string
	schema domain.Schema
	err    error
	calls  int
}

func (w *recordingWriter) Write(dir string, schema domain.Schema) error {
	w.calls++
	w.dir = dir
	w.schema = schema
	return w.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestScanProjectUseCase_Execute(t *testing.T) {
	endpoints := []domain.Endpoint{{
		Path:       "/v1/users",
		Method:     "POST",
		MethodName: "createUser",
		Parameters: []domain.Parameter{{Name: "user", Type: "UserDto", IsBody: true}},
	}}
	models := map[string][]domain.Field{
		"UserDto": {{Name: "name", Type: "string"}},
	}

	scanner := &stubScanner{result: domain.ScanResult{
		BasePackage: "com.example",
		Endpoints:   endpoints,
		Models:      models,
	}}
	writer := &recordingWriter{}

	uc := usecase.NewScanProjectUseCase(scanner, writer, testLogger())
	schema, err := uc.Execute("/proj", "/out", "MyAPI")
	require.NoError(t, err)

	assert.Equal(t, "MyAPI", schema.Name)
	assert.Equal(t, endpoints, schema.Endpoints)
	assert.Equal(t, models, schema.Models)

	assert.Equal(t, 1, writer.calls)
	assert.Equal(t, "/out", writer.dir)
	assert.Equal(t, schema, writer.schema)
}

func TestScanProjectUseCase_ScanErrorPropagates(t *testing.T) {
	scanner := &stubScanner{err: errors.New("project path does not exist")}
	writer := &recordingWriter{}

	uc := usecase.NewScanProjectUseCase(scanner, writer, testLogger())
	_, err := uc.Execute("/missing", "/out", "MyAPI")
	require.Error(t, err)
	assert.Zero(t, writer.calls, "nothing is written when the scan fails")
}

func TestScanProjectUseCase_EmptyScanStillAssembles(t *testing.T) {
	scanner := &stubScanner{result: domain.ScanResult{}}

	uc := usecase.NewScanProjectUseCase(scanner, nil, testLogger())
	schema, err := uc.Execute("/proj", "", "Empty")
	require.NoError(t, err)

	assert.Equal(t, "Empty", schema.Name)
	assert.NotNil(t, schema.Endpoints)
	assert.Empty(t, schema.Endpoints)
	assert.NotNil(t, schema.Models)
}

func TestScanProjectUseCase_WriterErrorPropagates(t *testing.T) {
	scanner := &stubScanner{result: domain.ScanResult{}}
	writer := &recordingWriter{err: errors.New("disk full")}

	uc := usecase.NewScanProjectUseCase(scanner, writer, testLogger())
	_, err := uc.Execute("/proj", "/out", "MyAPI")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}
