package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/promptforge/studio/internal/conversation"
	"github.com/promptforge/studio/internal/creation"
	"github.com/promptforge/studio/internal/imagegen"
)

// Enhancer refines a raw idea into a photographic prompt.
type Enhancer interface {
	Enhance(ctx context.Context, idea string) (string, error)
}

// Handler handles HTTP requests for the studio API.
type Handler struct {
	enhancer   Enhancer
	transcript *conversation.Transcript
	pipeline   *creation.Pipeline
	logger     *slog.Logger
}

// NewHandler creates a new API handler.
func NewHandler(enhancer Enhancer, transcript *conversation.Transcript, pipeline *creation.Pipeline, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		enhancer:   enhancer,
		transcript: transcript,
		pipeline:   pipeline,
		logger:     logger,
	}
}

// ChatRequest is a prompt refinement request.
type ChatRequest struct {
	Prompt string `json:"prompt" binding:"required"`
}

// ChatResponse carries the assistant's refined prompt.
type ChatResponse struct {
	Reply string `json:"reply"`
}

// Chat appends the user's idea to the transcript, runs the enhancement
// service, and appends the assistant's reply. Any upstream failure returns
// the transcript to Idle without an assistant message.
func (h *Handler) Chat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	msg, err := h.transcript.Submit(req.Prompt)
	if err != nil {
		if errors.Is(err, conversation.ErrEnhancementPending) {
			c.JSON(http.StatusConflict, gin.H{"error": "An enhancement request is already pending"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	reply, err := h.enhancer.Enhance(c.Request.Context(), msg.Content)
	if err != nil {
		h.transcript.Fail()
		h.logger.Error("chat enhancement failed", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to enhance prompt.", "details": err.Error()})
		return
	}

	h.transcript.Complete(reply)
	c.JSON(http.StatusOK, ChatResponse{Reply: reply})
}

// GenerateImageRequest is an image generation request. The prompt is the
// caller's snapshot of the final prompt at trigger time.
type GenerateImageRequest struct {
	Prompt string `json:"prompt" binding:"required"`
	Model  string `json:"model" binding:"required"`
}

// GenerateImageResponse carries the generated image as a data URI.
type GenerateImageResponse struct {
	ImageURL string `json:"imageUrl"`
}

// GenerateImage runs one generation through the creation pipeline and maps
// the typed failure taxonomy onto HTTP statuses.
func (h *Handler) GenerateImage(c *gin.Context) {
	var req GenerateImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	url, err := h.pipeline.Generate(c.Request.Context(), req.Prompt, imagegen.Model(req.Model))
	if err != nil {
		h.respondGenerateError(c, req.Model, err)
		return
	}

	c.JSON(http.StatusOK, GenerateImageResponse{ImageURL: url})
}

// respondGenerateError maps generation failures to the API's status codes.
func (h *Handler) respondGenerateError(c *gin.Context, model string, err error) {
	switch {
	case errors.Is(err, creation.ErrGenerationInFlight):
		c.JSON(http.StatusConflict, gin.H{"error": "A generation is already in flight"})

	case errors.Is(err, creation.ErrEmptyPrompt), errors.Is(err, imagegen.ErrEmptyPrompt):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please generate a prompt first."})

	case imagegen.IsUnsupportedModelError(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Model " + model + " is not supported."})

	case imagegen.IsNotImplementedError(err):
		c.JSON(http.StatusNotImplemented, gin.H{"error": "The Imagen model is not yet implemented."})

	case errors.Is(err, imagegen.ErrNotConfigured):
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})

	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate image.", "details": err.Error()})
	}
}

// Messages returns the chat transcript in insertion order.
func (h *Handler) Messages(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"messages":    h.transcript.Messages(),
		"finalPrompt": h.transcript.FinalPrompt(),
	})
}

// History returns past generations, newest first.
func (h *Handler) History(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"history": h.pipeline.History()})
}

// ResetSession starts a new creation: the transcript, final prompt, image
// and error are cleared; history is kept for the life of the session.
func (h *Handler) ResetSession(c *gin.Context) {
	h.transcript.Reset()
	h.pipeline.Clear()
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Health reports liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}
