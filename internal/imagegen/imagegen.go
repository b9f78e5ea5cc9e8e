// Package imagegen routes image generation requests to hosted model
// providers and normalizes their responses and failures.
package imagegen

import (
	"context"
	"encoding/base64"
	"fmt"
)

// Model identifies a hosted image generation backend.
type Model string

const (
	// ModelGeminiFlashImage is served by the Gemini API.
	ModelGeminiFlashImage Model = "gemini-2.5-flash-image-preview"

	// ModelImagen4 is served by Vertex AI when a project is configured,
	// otherwise by a stub that reports the model as not implemented.
	ModelImagen4 Model = "imagen-4.0-generate-001"
)

// String returns the model identifier.
func (m Model) String() string {
	return string(m)
}

// Image is a single generated image.
type Image struct {
	// Data contains the raw image bytes
	Data []byte

	// MIMEType of the generated image
	MIMEType string
}

// DataURI encodes the image as a data URI string suitable for direct display.
func (img *Image) DataURI() string {
	return fmt.Sprintf("data:%s;base64,%s", img.MIMEType, base64.StdEncoding.EncodeToString(img.Data))
}

// Generator is the provider interface for a single image generation backend.
// Implement this interface to add support for new models or providers.
type Generator interface {
	// Generate creates an image from a text prompt.
	Generate(ctx context.Context, prompt string) (*Image, error)

	// Close releases any resources held by the generator.
	Close() error
}
