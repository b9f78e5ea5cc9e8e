package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/trace"
	"google.golang.org/genai"

	"github.com/promptforge/studio/internal/config"
	"github.com/promptforge/studio/internal/conversation"
	"github.com/promptforge/studio/internal/creation"
	"github.com/promptforge/studio/internal/enhance"
	"github.com/promptforge/studio/internal/imagegen"
	"github.com/promptforge/studio/internal/imagegen/gemini"
	"github.com/promptforge/studio/internal/imagegen/imagen"
	"github.com/promptforge/studio/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Setup structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(logger)

	if err := initTracer(); err != nil {
		logger.Error("failed to initialize tracer", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// One client per backend, constructed once from validated settings and
	// injected into each service. A nil client makes credential-missing
	// failures surface per request as configuration errors.
	var geminiClient *genai.Client
	if cfg.GeminiAPIKey != "" {
		geminiClient, err = genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  cfg.GeminiAPIKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			logger.Error("failed to create Gemini client", "error", err)
			os.Exit(1)
		}
	} else {
		logger.Warn("GEMINI_API_KEY is not set; generation requests will fail")
	}

	manager := imagegen.NewManager(imagegen.WithLogger(logger))
	defer manager.Close()

	manager.Register(imagegen.ModelGeminiFlashImage,
		gemini.New(geminiClient, gemini.APIModelFlashImage))

	// The Imagen path is selected once per deployment: Vertex-backed when
	// a project is configured, not-implemented otherwise.
	if cfg.VertexEnabled() {
		vertexClient, err := genai.NewClient(ctx, &genai.ClientConfig{
			Backend:  genai.BackendVertexAI,
			Project:  cfg.GoogleCloudProject,
			Location: cfg.GoogleCloudLocation,
		})
		if err != nil {
			logger.Error("failed to create Vertex client", "error", err)
			os.Exit(1)
		}
		manager.Register(imagegen.ModelImagen4,
			imagen.New(vertexClient, imagen.APIModelImagen4))
		logger.Info("imagen model served by Vertex AI",
			"project", cfg.GoogleCloudProject,
			"location", cfg.GoogleCloudLocation,
		)
	} else {
		manager.Register(imagegen.ModelImagen4,
			imagegen.NewNotImplemented(imagegen.ModelImagen4))
		logger.Info("imagen model registered as not implemented")
	}

	enhancer := enhance.New(geminiClient, logger)
	transcript := conversation.NewTranscript()
	pipeline := creation.NewPipeline(manager, logger)

	handler := server.NewHandler(enhancer, transcript, pipeline, logger)
	router := server.NewRouter(handler, logger)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second, // image generation calls are slow
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("starting server", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("forced shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server exited")
}

// initTracer initializes OpenTelemetry tracing with a stdout exporter.
func initTracer() error {
	exporter, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
	if err != nil {
		return fmt.Errorf("failed to create stdout exporter: %w", err)
	}

	tp := trace.NewTracerProvider(
		trace.WithBatcher(exporter),
	)

	otel.SetTracerProvider(tp)

	return nil
}
