// Package gemini provides an imagegen.Generator backed by the Gemini API
// via the official Go SDK: https://github.com/googleapis/go-genai
package gemini

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/promptforge/studio/internal/imagegen"
)

// APIModelFlashImage is the API model name for Gemini 2.5 Flash Image.
const APIModelFlashImage = "gemini-2.5-flash-image-preview"

// ContentGenerator is the slice of the genai SDK this provider calls.
// *genai.Models satisfies it.
type ContentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Generator implements imagegen.Generator using the Gemini API.
type Generator struct {
	models ContentGenerator
	model  string
}

var _ imagegen.Generator = (*Generator)(nil)

// New creates a Generator from a shared genai client. A nil client marks
// the provider as unconfigured; every request then fails with a
// configuration error before any network call.
func New(client *genai.Client, model string) *Generator {
	g := &Generator{model: model}
	if client != nil {
		g.models = client.Models
	}
	return g
}

// NewWithContentGenerator creates a Generator from a raw content
// generator. Used in tests to substitute the SDK.
func NewWithContentGenerator(models ContentGenerator, model string) *Generator {
	return &Generator{models: models, model: model}
}

// Generate creates an image from a text prompt. The first response part
// carrying inline binary image data is authoritative; remaining parts are
// ignored.
func (g *Generator) Generate(ctx context.Context, prompt string) (*imagegen.Image, error) {
	if err := imagegen.ValidatePrompt(prompt); err != nil {
		return nil, err
	}

	if g.models == nil {
		return nil, fmt.Errorf("%w: GEMINI_API_KEY is not set", imagegen.ErrNotConfigured)
	}

	contents := []*genai.Content{
		{
			Parts: []*genai.Part{
				{Text: prompt},
			},
		},
	}

	genConfig := &genai.GenerateContentConfig{
		// Enable image output
		ResponseModalities: []string{"TEXT", "IMAGE"},
	}

	result, err := g.models.GenerateContent(ctx, g.model, contents, genConfig)
	if err != nil {
		return nil, &imagegen.UpstreamError{Model: g.model, Err: err}
	}

	return firstInlineImage(result)
}

// Close releases any resources held by the generator.
func (g *Generator) Close() error {
	// The genai.Client doesn't require explicit closing in the current SDK
	return nil
}

// firstInlineImage scans the response's content parts in order and returns
// the first part carrying inline binary image data. Text and thought parts
// are skipped; a response with no inline part is a data error.
func firstInlineImage(result *genai.GenerateContentResponse) (*imagegen.Image, error) {
	if result == nil {
		return nil, imagegen.ErrNoImageData
	}

	for _, candidate := range result.Candidates {
		if candidate.Content == nil {
			continue
		}

		for _, part := range candidate.Content.Parts {
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				return &imagegen.Image{
					Data:     part.InlineData.Data,
					MIMEType: part.InlineData.MIMEType,
				}, nil
			}
		}
	}

	return nil, imagegen.ErrNoImageData
}
