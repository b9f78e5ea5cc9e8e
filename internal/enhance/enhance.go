// Package enhance turns a terse user idea into a structured
// photographic-style prompt by submitting it to a hosted text model with a
// fixed instruction template.
package enhance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/genai"
)

// APIModelFlash is the text model that performs the enhancement.
const APIModelFlash = "gemini-2.5-flash"

// promptTemplate is the fixed instruction the user's raw idea is
// interpolated into. Safety filtering is disabled for all harm categories
// below; this broadens acceptable photographic content at the cost of
// removing moderation, and callers must be aware of that risk posture.
const promptTemplate = `You are a creative partner that helps the user enhance their prompts following Google's templates, guidelines and docs for using the Gemini 2.5 Flash image model. It helps take a basic prompt and add things like scene camera, angle, lighting, mode, photograph, look, etc. this will only be used for different kinds of photographic prompts. Never for any other art style.

The user wants a photorealistic image. Use photography terms. Mention camera angles, lens types, lighting, and fine details to guide the model toward a photorealistic result.

Here is the template to follow:
A photorealistic [shot type] of [subject], [action or expression], set in [environment]. The scene is illuminated by [lighting description], creating a [mood] atmosphere. Captured with a [camera/lens details], emphasizing [key textures and details]. The image should be in a [aspect ratio] format.

There may be variations, i.e. professional dslr photo vs iPhone selfie vs SOOC jpg vs VSCO Instagram influencer style etc.
Don't go overboard with the prompt enhancement - no "captivating", vivid, dramatic, etc. The goal is to look like real photos.

Based on the user's input, generate a new, enhanced prompt that follows this structure.

User input: "{prompt}"`

var (
	// ErrNotConfigured is returned when no API credential is configured.
	ErrNotConfigured = errors.New("enhancement service not configured")

	// ErrEmptyIdea is returned for empty user input.
	ErrEmptyIdea = errors.New("idea cannot be empty")

	// ErrEmptyReply is returned when the model produced no text. The
	// caller must see a failure rather than an empty assistant message.
	ErrEmptyReply = errors.New("model returned an empty reply")
)

// ContentGenerator is the slice of the genai SDK this service calls.
// *genai.Models satisfies it.
type ContentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Service enhances raw prompt ideas via a hosted text model. Each call is
// stateless from the model's perspective; no conversation history beyond
// the triggering message is forwarded.
type Service struct {
	models ContentGenerator
	model  string
	logger *slog.Logger
	tracer trace.Tracer
}

// New creates a Service from a shared genai client. A nil client marks the
// service as unconfigured; every request then fails before any network
// call.
func New(client *genai.Client, logger *slog.Logger) *Service {
	s := &Service{
		model:  APIModelFlash,
		logger: logger,
		tracer: otel.Tracer("enhance"),
	}
	if client != nil {
		s.models = client.Models
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// NewWithContentGenerator creates a Service from a raw content generator.
// Used in tests to substitute the SDK.
func NewWithContentGenerator(models ContentGenerator, logger *slog.Logger) *Service {
	s := New(nil, logger)
	s.models = models
	return s
}

// Enhance interpolates the raw idea into the instruction template and
// returns the model's refined photographic prompt. Upstream failures are
// wrapped and surfaced; an empty reply is a failure, not a success.
func (s *Service) Enhance(ctx context.Context, idea string) (string, error) {
	if strings.TrimSpace(idea) == "" {
		return "", ErrEmptyIdea
	}

	if s.models == nil {
		return "", fmt.Errorf("%w: GEMINI_API_KEY is not set", ErrNotConfigured)
	}

	start := time.Now()

	s.logger.Debug("starting prompt enhancement", "idea_length", len(idea))

	ctx, span := s.tracer.Start(ctx, "enhance.Enhance")
	defer span.End()

	fullPrompt := strings.ReplaceAll(promptTemplate, "{prompt}", idea)

	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{Text: fullPrompt},
			},
		},
	}

	genConfig := &genai.GenerateContentConfig{
		SafetySettings: blockNoneSafetySettings(),
	}

	result, err := s.models.GenerateContent(ctx, s.model, contents, genConfig)
	duration := time.Since(start)

	if err != nil {
		s.logger.Error("enhancement failed",
			"duration_ms", duration.Milliseconds(),
			"error", err.Error(),
		)
		return "", fmt.Errorf("enhancement request failed: %w", err)
	}

	reply := strings.TrimSpace(result.Text())
	if reply == "" {
		s.logger.Error("enhancement returned no text",
			"duration_ms", duration.Milliseconds(),
		)
		return "", ErrEmptyReply
	}

	s.logger.Info("enhancement completed",
		"duration_ms", duration.Milliseconds(),
		"reply_length", len(reply),
	)

	return reply, nil
}

// blockNoneSafetySettings disables safety filtering for all harm
// categories, matching the policy of the source system.
func blockNoneSafetySettings() []*genai.SafetySetting {
	categories := []genai.HarmCategory{
		genai.HarmCategoryHarassment,
		genai.HarmCategoryHateSpeech,
		genai.HarmCategorySexuallyExplicit,
		genai.HarmCategoryDangerousContent,
	}

	settings := make([]*genai.SafetySetting, 0, len(categories))
	for _, category := range categories {
		settings = append(settings, &genai.SafetySetting{
			Category:  category,
			Threshold: genai.HarmBlockThresholdBlockNone,
		})
	}
	return settings
}
