package imagegen

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Manager implements Generator routing for multiple models, dispatching
// each request to the provider registered for its Model.
type Manager struct {
	// Model to provider mapping
	providers map[Model]Generator

	// Logger for structured logging (optional)
	logger *slog.Logger

	tracer trace.Tracer

	mu sync.RWMutex
}

// ManagerOption configures the Manager.
type ManagerOption func(*Manager)

// WithLogger sets a structured logger for the manager.
func WithLogger(logger *slog.Logger) ManagerOption {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager creates a Manager with no registered providers.
//
// Example:
//
//	manager := imagegen.NewManager(imagegen.WithLogger(logger))
//	manager.Register(imagegen.ModelGeminiFlashImage, geminiProvider)
func NewManager(opts ...ManagerOption) *Manager {
	m := &Manager{
		providers: make(map[Model]Generator),
		logger:    slog.Default(),
		tracer:    otel.Tracer("imagegen"),
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Register registers a provider for a model identifier.
func (m *Manager) Register(model Model, gen Generator) *Manager {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.providers[model] = gen
	return m
}

// Models returns all registered model identifiers.
func (m *Manager) Models() []Model {
	m.mu.RLock()
	defer m.mu.RUnlock()

	models := make([]Model, 0, len(m.providers))
	for model := range m.providers {
		models = append(models, model)
	}
	return models
}

// Generate creates an image from a text prompt using the provider
// registered for the given model. Provider failures are converted to the
// package's typed errors before returning; no raw provider error crosses
// this boundary.
func (m *Manager) Generate(ctx context.Context, prompt string, model Model) (*Image, error) {
	if err := ValidatePrompt(prompt); err != nil {
		return nil, err
	}

	gen, err := m.getProvider(model)
	if err != nil {
		m.logger.Warn("unsupported model requested", "model", model.String())
		return nil, err
	}

	start := time.Now()

	m.logger.Debug("starting image generation",
		"model", model.String(),
		"prompt_length", len(prompt),
	)

	ctx, span := m.tracer.Start(ctx, "imagegen.Generate",
		trace.WithAttributes(attribute.String("model", model.String())))
	defer span.End()

	img, err := gen.Generate(ctx, prompt)
	duration := time.Since(start)

	if err != nil {
		err = m.normalizeError(err, model)

		if errors.Is(err, ErrNoImageData) {
			m.logger.Error("response contained no image data",
				"model", model.String(),
				"duration_ms", duration.Milliseconds(),
			)
		} else {
			m.logger.Error("generation failed",
				"model", model.String(),
				"duration_ms", duration.Milliseconds(),
				"error", err.Error(),
			)
		}

		return nil, err
	}

	m.logger.Info("generation completed",
		"model", model.String(),
		"duration_ms", duration.Milliseconds(),
		"mime_type", img.MIMEType,
		"image_bytes", len(img.Data),
	)

	return img, nil
}

// Close releases all provider resources.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var errs []error
	for model, gen := range m.providers {
		if err := gen.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing %s: %w", model, err))
		}
	}
	m.providers = make(map[Model]Generator)

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// getProvider returns the provider registered for the given model.
func (m *Manager) getProvider(model Model) (Generator, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	gen, ok := m.providers[model]
	if !ok {
		return nil, &UnsupportedModelError{Model: model}
	}
	return gen, nil
}

// normalizeError passes the package's typed errors through and wraps
// anything else as an UpstreamError.
func (m *Manager) normalizeError(err error, model Model) error {
	if errors.Is(err, ErrNotConfigured) || errors.Is(err, ErrNoImageData) ||
		IsNotImplementedError(err) || IsUpstreamError(err) {
		return err
	}
	return &UpstreamError{Model: model.String(), Err: err}
}
