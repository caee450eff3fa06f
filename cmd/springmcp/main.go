package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	mcpGoServer "github.com/mark3labs/mcp-go/server"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/brsantos/springmcp/configs"
	"github.com/brsantos/springmcp/internal/adapter/inbound/mcpsrv"
	"github.com/brsantos/springmcp/internal/adapter/inbound/proxyhttp"
	"github.com/brsantos/springmcp/internal/adapter/outbound/artifacts"
	"github.com/brsantos/springmcp/internal/adapter/outbound/forwarder"
	"github.com/brsantos/springmcp/internal/adapter/outbound/javasrc"
	"github.com/brsantos/springmcp/internal/domain"
	"github.com/brsantos/springmcp/internal/usecase"
)

const version = "0.1.0"

func main() {
	// === Command Line Flags ===
	var (
		projectDir string
		outputDir  string
		serverName string
		serve      bool
		transport  string
	)
	flag.StringVar(&projectDir, "project", "", "Spring Boot project directory to scan")
	flag.StringVar(&outputDir, "output", "", "Directory to write generated artifacts (schema, OpenAPI, README)")
	flag.StringVar(&serverName, "name", "", "Server name for the generated schema (overrides config)")
	flag.BoolVar(&serve, "serve", false, "Start the forwarding proxy and MCP server after scanning")
	flag.StringVar(&transport, "transport", "sse", "MCP transport mode: sse or stdio")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// === Configuration ===
	cfg, err := configs.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if serverName != "" {
		cfg.ServerName = serverName
	}

	// === Logging ===
	logLevel := cfg.ParsedLogLevel()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)
	logger.Info("Logger initialized.", slog.String("level", logLevel.String()))

	// === OpenTelemetry Initialization ===
	shutdownOtel, err := initOtelProvider(cfg)
	if err != nil {
		logger.Error("Failed to initialize OpenTelemetry.", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := shutdownOtel(context.Background()); err != nil {
			logger.Error("Failed to shutdown OpenTelemetry TracerProvider.", slog.Any("error", err))
		}
	}()

	if projectDir == "" && !serve {
		fmt.Fprintln(os.Stderr, "Nothing to do: pass -project to scan, -serve to run, or both.")
		flag.Usage()
		os.Exit(2)
	}

	// === Schema Acquisition ===
	var schema domain.Schema
	switch {
	case projectDir != "":
		scanner := javasrc.NewScanner(logger)
		scanner.ShowProgress = transport != "stdio"

		var writer usecase.ArtifactWriter
		if outputDir != "" {
			writer = artifacts.NewWriter(logger)
		}
		scanUC := usecase.NewScanProjectUseCase(scanner, writer, logger)
		schema, err = scanUC.Execute(projectDir, outputDir, cfg.ServerName)
		if err != nil {
			logger.Error("Project scan failed.", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("Project scanned.",
			slog.Int("endpoint_count", len(schema.Endpoints)),
			slog.Int("model_count", len(schema.Models)))
	case serve:
		// No fresh scan; load the schema persisted by a previous run.
		schemaPath := filepath.Join(outputDir, artifacts.SchemaFileName)
		if outputDir == "" {
			schemaPath = artifacts.SchemaFileName
		}
		schema, err = artifacts.ReadSchema(schemaPath)
		if err != nil {
			logger.Error("Failed to load schema file. Scan a project first with -project.",
				slog.String("path", schemaPath), slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("Schema loaded from file.",
			slog.String("path", schemaPath),
			slog.Int("endpoint_count", len(schema.Endpoints)))
	}

	if !serve {
		return
	}

	// === Dependency Injection ===
	httpClient := &http.Client{Timeout: cfg.HTTPClientTimeout}
	fw := forwarder.New(httpClient, cfg.BackendURL, logger)
	logger.Info("Forwarder configured.", slog.String("backend_url", cfg.BackendURL))

	proxySrv, err := proxyhttp.New(schema, fw, logger)
	if err != nil {
		logger.Error("Failed to build proxy server.", slog.Any("error", err))
		os.Exit(1)
	}

	mcpSrv := mcpGoServer.NewMCPServer(schema.Name, version)
	mcpsrv.Register(mcpSrv, schema, fw, logger)

	// === Transport Mode Selection ===
	switch transport {
	case "stdio":
		logger.Info("Starting in STDIO mode")
		stdioServer := mcpGoServer.NewStdioServer(mcpSrv)
		if err := stdioServer.Listen(ctx, os.Stdin, os.Stdout); err != nil {
			logger.Error("STDIO server error", slog.Any("error", err))
			os.Exit(1)
		}

	case "sse":
		sseServer := mcpGoServer.NewSSEServer(mcpSrv, mcpGoServer.WithBaseURL("http://"+cfg.MCPListenAddr))

		proxyServer := &http.Server{
			Addr:         cfg.ListenAddr,
			Handler:      proxySrv.Handler(),
			ReadTimeout:  cfg.ServerReadTimeout,
			WriteTimeout: cfg.ServerWriteTimeout,
			IdleTimeout:  cfg.ServerIdleTimeout,
		}
		go func() {
			logger.Info("Proxy HTTP server starting.", slog.String("address", proxyServer.Addr))
			if err := proxyServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("Proxy HTTP server failed to start.", slog.Any("error", err))
				stop()
			}
		}()

		go func() {
			logger.Info("MCP SSE server starting.", slog.String("address", cfg.MCPListenAddr))
			if err := sseServer.Start(cfg.MCPListenAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("MCP SSE server failed to start.", slog.Any("error", err))
				stop()
			}
		}()

		// Wait for interrupt signal.
		<-ctx.Done()

		logger.Info("Shutting down servers...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		if err := proxyServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("Proxy HTTP server graceful shutdown failed.", slog.Any("error", err))
		}
		if err := sseServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("MCP SSE server graceful shutdown failed.", slog.Any("error", err))
		}
		logger.Info("Servers shut down gracefully.")

	default:
		logger.Error("Invalid transport mode", slog.String("transport", transport))
		os.Exit(1)
	}
}

// initOtelProvider initializes the OpenTelemetry SDK and sets up the OTLP
// trace exporter. It returns a shutdown function to be called on exit.
func initOtelProvider(cfg *configs.Config) (func(context.Context) error, error) {
	ctx := context.Background()

	if cfg.OtelExporterOtlpEndpoint == "" {
		slog.Info("OTEL_EXPORTER_OTLP_ENDPOINT not set, OpenTelemetry tracing disabled.")
		return func(context.Context) error { return nil }, nil
	}

	slog.Info("Initializing OTLP exporter.", slog.String("endpoint", cfg.OtelExporterOtlpEndpoint))

	grpcOpts := []grpc.DialOption{}
	if cfg.OtelExporterOtlpInsecure {
		grpcOpts = append(grpcOpts, grpc.WithTransportCredentials(insecure.NewCredentials()))
		slog.Warn("Using insecure connection for OTLP exporter.")
	}

	conn, err := grpc.NewClient(cfg.OtelExporterOtlpEndpoint, grpcOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create gRPC connection to OTLP endpoint: %w", err)
	}

	traceExporter, err := otlptracegrpc.New(ctx, otlptracegrpc.WithGRPCConn(conn))
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to create OTLP trace exporter: %w", err)
	}

	r, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceNameKey.String("springmcp"),
		),
	)
	if err != nil {
		_ = traceExporter.Shutdown(ctx)
		_ = conn.Close()
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(traceExporter),
		sdktrace.WithResource(r),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))

	return func(ctx context.Context) error {
		providerErr := tp.Shutdown(ctx)
		connErr := conn.Close()
		return errors.Join(providerErr, connErr)
	}, nil
}
