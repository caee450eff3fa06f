package usecase

import (
	"fmt"
	"log/slog"

	"github.com/brsantos/springmcp/internal/domain"
)

// ScanProjectUseCase orchestrates the one-shot extraction pipeline: scan
// the project tree, assemble the schema document, and persist it together
// with its companion artifacts.
type ScanProjectUseCase struct {
	scanner ProjectScanner
	writer  ArtifactWriter
	logger  *slog.Logger
}

// NewScanProjectUseCase creates a ScanProjectUseCase.
func NewScanProjectUseCase(scanner ProjectScanner, writer ArtifactWriter, logger *slog.Logger) *ScanProjectUseCase {
	return &ScanProjectUseCase{
		scanner: scanner,
		writer:  writer,
		logger:  logger.With("usecase", "ScanProject"),
	}
}

// Execute runs the pipeline and returns the assembled schema. A missing
// project root is fatal and propagates; per-file and per-match failures
// were already absorbed inside the scanner. Zero discovered endpoints is a
// valid outcome reported with a warning.
func (uc *ScanProjectUseCase) Execute(projectDir, outputDir, serverName string) (domain.Schema, error) {
	log := uc.logger.With(slog.String("project", projectDir), slog.String("server_name", serverName))
	log.Info("Starting project scan")

	result, err := uc.scanner.Scan(projectDir)
	if err != nil {
		log.Error("Project scan failed", slog.Any("error", err))
		return domain.Schema{}, fmt.Errorf("scanning project %s: %w", projectDir, err)
	}

	if len(result.Endpoints) == 0 {
		log.Warn("No endpoints discovered; the schema will be empty.")
	}

	schema := domain.NewSchema(serverName, result.Endpoints, result.Models)
	log.Info("Schema assembled",
		slog.Int("endpoint_count", len(schema.Endpoints)),
		slog.Int("model_count", len(schema.Models)),
		slog.String("base_package", result.BasePackage))

	if uc.writer != nil && outputDir != "" {
		if err := uc.writer.Write(outputDir, schema); err != nil {
			log.Error("Failed to write artifacts", slog.Any("error", err))
			return domain.Schema{}, fmt.Errorf("writing artifacts to %s: %w", outputDir, err)
		}
		log.Info("Artifacts written", slog.String("output", outputDir))
	}

	return schema, nil
}
