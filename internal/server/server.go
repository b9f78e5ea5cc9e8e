// Package server wires the studio's HTTP surface: the prompt enhancement
// chat, the image generation endpoint, and the session state reads.
package server

import (
	"log/slog"

	"github.com/gin-gonic/gin"
)

// NewRouter builds the gin engine with all routes and middleware.
func NewRouter(h *Handler, logger *slog.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestID(), RequestLogger(logger))

	router.GET("/health", h.Health)

	api := router.Group("/api")
	api.POST("/chat", h.Chat)
	api.POST("/generate-image", h.GenerateImage)
	api.GET("/messages", h.Messages)
	api.GET("/history", h.History)
	api.POST("/session/reset", h.ResetSession)

	return router
}
