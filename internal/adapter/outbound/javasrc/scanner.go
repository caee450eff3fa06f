package javasrc

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/schollz/progressbar/v3"

	"github.com/brsantos/springmcp/internal/domain"
)

var (
	entryPointRe = regexp.MustCompile(`@SpringBootApplication`)
	packageRe    = regexp.MustCompile(`package\s+([\w.]+);`)
)

// Scanner walks a Spring Boot project tree and drives the extractors over
// every Java source file under the conventional src/main/java root.
type Scanner struct {
	models    *ModelExtractor
	endpoints *EndpointExtractor
	logger    *slog.Logger

	// ShowProgress renders a per-file progress bar on stderr. Off by
	// default so tests and servers stay quiet.
	ShowProgress bool
}

// NewScanner creates a Scanner with its two extractors.
func NewScanner(logger *slog.Logger) *Scanner {
	return &Scanner{
		models:    NewModelExtractor(logger),
		endpoints: NewEndpointExtractor(logger),
		logger:    logger.With("component", "project_scanner"),
	}
}

// Scan extracts endpoints and models from every source file in the project.
// A missing project root is fatal; everything below that is recovered per
// file. Finding no source files at all yields an empty result and a
// warning, not an error.
func (s *Scanner) Scan(projectDir string) (domain.ScanResult, error) {
	if _, err := os.Stat(projectDir); err != nil {
		return domain.ScanResult{}, fmt.Errorf("project path %q does not exist: %w", projectDir, err)
	}

	files, err := s.enumerateSources(projectDir)
	if err != nil {
		return domain.ScanResult{}, fmt.Errorf("enumerating source files: %w", err)
	}

	result := domain.ScanResult{
		Endpoints: []domain.Endpoint{},
		Models:    map[string][]domain.Field{},
	}

	if len(files) == 0 {
		s.logger.Warn("No Java files found in the project path. Check if the path is correct.",
			slog.String("project", projectDir))
		return result, nil
	}

	result.BasePackage = s.detectBasePackage(files)

	var bar *progressbar.ProgressBar
	if s.ShowProgress {
		bar = progressbar.NewOptions(len(files),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSetDescription("[scanning]"),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
	}

	for _, file := range files {
		s.scanFile(file, &result)
		if bar != nil {
			_ = bar.Add(1)
		}
	}

	s.logger.Info("Scan complete.",
		slog.Int("endpoint_count", len(result.Endpoints)),
		slog.Int("model_count", len(result.Models)),
		slog.String("base_package", result.BasePackage))
	return result, nil
}

// scanFile runs both extractors over one file. Any per-file failure is
// logged and the file skipped; the scan as a whole never aborts here.
func (s *Scanner) scanFile(file string, result *domain.ScanResult) {
	log := s.logger.With(slog.String("file", file))
	log.Debug("Scanning file.")

	content, err := readSource(file)
	if err != nil {
		log.Error("Skipping unreadable file.", slog.Any("error", err))
		return
	}

	// Models are extracted unconditionally; later files overwrite
	// same-named models.
	for name, fields := range s.models.Extract(content) {
		result.Models[name] = fields
	}

	if IsController(content) {
		result.Endpoints = append(result.Endpoints, s.endpoints.Extract(content)...)
	}
}

// enumerateSources lists every .java file under a src/main/java directory,
// in directory-traversal order. Unreadable subtrees are logged and skipped.
func (s *Scanner) enumerateSources(projectDir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(projectDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			s.logger.Warn("Skipping unreadable path.", slog.String("path", path), slog.Any("error", err))
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if d.Name() == ".git" || d.Name() == "target" || d.Name() == "build" {
				return filepath.SkipDir
			}
			return nil
		}
		rel := filepath.ToSlash(path)
		if strings.Contains(rel, "/src/main/java/") && strings.HasSuffix(rel, ".java") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

// detectBasePackage finds the application entry point and derives the base
// package from its package declaration, dropping the last segment (assumed
// to be the entry file's own sub-package) when the name is deep enough.
// Returns "" when no entry point exists anywhere; that is informational
// context only, never fatal.
func (s *Scanner) detectBasePackage(files []string) string {
	for _, file := range files {
		content, err := readSource(file)
		if err != nil {
			s.logger.Error("Skipping file during base package detection.",
				slog.String("file", file), slog.Any("error", err))
			continue
		}
		if !entryPointRe.MatchString(content) {
			continue
		}
		pkgMatch := packageRe.FindStringSubmatch(content)
		if pkgMatch == nil {
			continue
		}
		pkg := pkgMatch[1]
		parts := strings.Split(pkg, ".")
		if len(parts) > 2 {
			return strings.Join(parts[:len(parts)-1], ".")
		}
		return pkg
	}
	return ""
}

// readSource reads one file and verifies it decodes as UTF-8. Files that
// fail either step are skipped by the callers, not fatal.
func readSource(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("file %q is not valid UTF-8", path)
	}
	return string(data), nil
}
