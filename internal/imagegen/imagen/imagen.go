// Package imagen provides an imagegen.Generator for Imagen models served
// by Vertex AI, using the same Go SDK as the Gemini provider with the
// Vertex backend.
package imagen

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/promptforge/studio/internal/imagegen"
)

// APIModelImagen4 is the API model name for Imagen 4.
const APIModelImagen4 = "imagen-4.0-generate-001"

// defaultMIMEType is assumed when Vertex omits the media type of a
// generated image.
const defaultMIMEType = "image/png"

// ImageBatchGenerator is the slice of the genai SDK this provider calls.
// *genai.Models satisfies it.
type ImageBatchGenerator interface {
	GenerateImages(ctx context.Context, model string, prompt string, config *genai.GenerateImagesConfig) (*genai.GenerateImagesResponse, error)
}

// Generator implements imagegen.Generator using Vertex AI.
type Generator struct {
	models ImageBatchGenerator
	model  string
}

var _ imagegen.Generator = (*Generator)(nil)

// New creates a Generator from a Vertex-backed genai client. A nil client
// marks the provider as unconfigured.
func New(client *genai.Client, model string) *Generator {
	g := &Generator{model: model}
	if client != nil {
		g.models = client.Models
	}
	return g
}

// NewWithImageBatchGenerator creates a Generator from a raw batch
// generator. Used in tests to substitute the SDK.
func NewWithImageBatchGenerator(models ImageBatchGenerator, model string) *Generator {
	return &Generator{models: models, model: model}
}

// Generate creates a single image from a text prompt.
func (g *Generator) Generate(ctx context.Context, prompt string) (*imagegen.Image, error) {
	if err := imagegen.ValidatePrompt(prompt); err != nil {
		return nil, err
	}

	if g.models == nil {
		return nil, fmt.Errorf("%w: GOOGLE_CLOUD_PROJECT is not set", imagegen.ErrNotConfigured)
	}

	result, err := g.models.GenerateImages(ctx, g.model, prompt, &genai.GenerateImagesConfig{
		NumberOfImages: 1,
	})
	if err != nil {
		return nil, &imagegen.UpstreamError{Model: g.model, Err: err}
	}

	return firstGeneratedImage(result)
}

// Close releases any resources held by the generator.
func (g *Generator) Close() error {
	return nil
}

// firstGeneratedImage returns the first image in a Vertex batch response.
func firstGeneratedImage(result *genai.GenerateImagesResponse) (*imagegen.Image, error) {
	if result == nil {
		return nil, imagegen.ErrNoImageData
	}

	for _, generated := range result.GeneratedImages {
		if generated.Image == nil || len(generated.Image.ImageBytes) == 0 {
			continue
		}

		mimeType := generated.Image.MIMEType
		if mimeType == "" {
			mimeType = defaultMIMEType
		}

		return &imagegen.Image{
			Data:     generated.Image.ImageBytes,
			MIMEType: mimeType,
		}, nil
	}

	return nil, imagegen.ErrNoImageData
}
