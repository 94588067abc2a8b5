// Package router wires the HTTP routes of the document QA service.
package router

import (
	"github.com/gin-gonic/gin"

	"github.com/kart-io/docuchat/internal/docuchat/handler"
)

// Register registers all service routes on the engine.
func Register(engine *gin.Engine, h *handler.Handler) {
	engine.GET("/", h.Root)
	engine.GET("/available_models", h.AvailableModels)
	engine.GET("/uploaded_files", h.UploadedFiles)
	engine.GET("/stats", h.Stats)

	engine.POST("/ingest_data", h.Ingest)
	engine.POST("/remove_data", h.Remove)
	engine.POST("/agent", h.Agent)
}
