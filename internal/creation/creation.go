// Package creation tracks the image generation pipeline for one session:
// in-flight state, the latest result, and the history of past generations.
package creation

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/promptforge/studio/internal/imagegen"
)

// State of the generation pipeline.
type State int

const (
	StateIdle State = iota
	StateGenerating
	StateSucceeded
	StateFailed
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateGenerating:
		return "generating"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

var (
	// ErrEmptyPrompt is returned when no final prompt exists to generate
	// from.
	ErrEmptyPrompt = errors.New("no prompt to generate from")

	// ErrGenerationInFlight is returned when a generation is already
	// running. At most one generation is in flight per session.
	ErrGenerationInFlight = errors.New("a generation is already in flight")
)

// HistoryEntry records one successful generation. Entries are append-only
// and ordered newest first.
type HistoryEntry struct {
	Src    string `json:"src"`
	Prompt string `json:"prompt"`
}

// Generator dispatches a prompt to a hosted model. *imagegen.Manager
// satisfies it.
type Generator interface {
	Generate(ctx context.Context, prompt string, model imagegen.Model) (*imagegen.Image, error)
}

// Pipeline is the creation state machine for one session. History is
// appended only by the success transition, by a single logical writer at a
// time.
type Pipeline struct {
	gen    Generator
	logger *slog.Logger

	mu        sync.Mutex
	state     State
	imageURL  string
	lastError string
	history   []HistoryEntry
}

// NewPipeline creates an idle pipeline dispatching to the given generator.
func NewPipeline(gen Generator, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{gen: gen, logger: logger}
}

// Generate runs one generation. The prompt is a snapshot captured at this
// call boundary; later transcript edits never affect the history entry.
// On success the data URI is stored and a HistoryEntry is prepended; on
// failure the error message is stored verbatim and history is untouched.
// Succeeded and Failed are not terminal.
func (p *Pipeline) Generate(ctx context.Context, prompt string, model imagegen.Model) (string, error) {
	p.mu.Lock()
	if prompt == "" {
		p.mu.Unlock()
		return "", ErrEmptyPrompt
	}
	if p.state == StateGenerating {
		p.mu.Unlock()
		return "", ErrGenerationInFlight
	}
	// Entering Generating clears the prior result and error.
	p.state = StateGenerating
	p.imageURL = ""
	p.lastError = ""
	p.mu.Unlock()

	img, err := p.gen.Generate(ctx, prompt, model)

	p.mu.Lock()
	defer p.mu.Unlock()

	if err != nil {
		p.state = StateFailed
		p.lastError = err.Error()
		return "", err
	}

	url := img.DataURI()
	p.state = StateSucceeded
	p.imageURL = url
	p.history = append([]HistoryEntry{{Src: url, Prompt: prompt}}, p.history...)

	p.logger.Info("generation recorded",
		"model", model.String(),
		"history_size", len(p.history),
	)

	return url, nil
}

// State returns the current pipeline state.
func (p *Pipeline) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// ImageURL returns the data URI of the latest successful generation, or
// empty.
func (p *Pipeline) ImageURL() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.imageURL
}

// LastError returns the stored failure message, verbatim, or empty.
func (p *Pipeline) LastError() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastError
}

// History returns a copy of the history, newest first.
func (p *Pipeline) History() []HistoryEntry {
	p.mu.Lock()
	defer p.mu.Unlock()

	entries := make([]HistoryEntry, len(p.history))
	copy(entries, p.history)
	return entries
}

// Clear resets the current result and error but keeps the history, which
// is append-only for the life of the session.
func (p *Pipeline) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state != StateGenerating {
		p.state = StateIdle
	}
	p.imageURL = ""
	p.lastError = ""
}
