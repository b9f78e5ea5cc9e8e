package imagegen

import (
	"errors"
	"fmt"
)

var (
	// ErrNotConfigured is returned when a provider lacks a required
	// credential or project setting. No network call is attempted.
	ErrNotConfigured = errors.New("provider not configured")

	// ErrNoImageData is returned when an upstream call succeeded but no
	// inline image payload was found among the response parts. This is a
	// data error, not a transport fault, and is logged distinctly.
	ErrNoImageData = errors.New("no image data in response")

	// ErrEmptyPrompt is returned for empty generation prompts.
	ErrEmptyPrompt = errors.New("prompt cannot be empty")
)

// UnsupportedModelError is returned when a model identifier has no
// registered provider.
type UnsupportedModelError struct {
	Model Model
}

func (e *UnsupportedModelError) Error() string {
	return fmt.Sprintf("model %s is not supported", e.Model)
}

// IsUnsupportedModelError checks if an error is an UnsupportedModelError.
func IsUnsupportedModelError(err error) bool {
	var umErr *UnsupportedModelError
	return errors.As(err, &umErr)
}

// NotImplementedError is returned for a recognized model whose backing
// provider path is intentionally not available in this deployment.
type NotImplementedError struct {
	Model Model
}

func (e *NotImplementedError) Error() string {
	return fmt.Sprintf("the %s model is not yet implemented", e.Model)
}

// IsNotImplementedError checks if an error is a NotImplementedError.
func IsNotImplementedError(err error) bool {
	var niErr *NotImplementedError
	return errors.As(err, &niErr)
}

// UpstreamError wraps an error raised by the hosted model call itself.
type UpstreamError struct {
	Model string
	Err   error // Underlying error from the provider
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("generation failed for %s: %s", e.Model, e.Message())
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// Message extracts a human-readable message from the underlying error,
// falling back to a generic string when the error carries none.
func (e *UpstreamError) Message() string {
	if e.Err == nil || e.Err.Error() == "" {
		return "unknown error"
	}
	return e.Err.Error()
}

// IsUpstreamError checks if an error is an UpstreamError.
func IsUpstreamError(err error) bool {
	var upErr *UpstreamError
	return errors.As(err, &upErr)
}
