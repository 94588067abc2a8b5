// Package handler provides the HTTP handlers for the document QA
// service.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kart-io/docuchat/internal/docuchat/biz"
	"github.com/kart-io/docuchat/pkg/errno"
	"github.com/kart-io/docuchat/pkg/log"
)

// Handler handles document QA HTTP requests.
type Handler struct {
	service biz.Service
}

// New creates a Handler.
func New(service biz.Service) *Handler {
	return &Handler{service: service}
}

// Root answers the service greeting.
func (h *Handler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "docuchat is up and running"})
}

// AvailableModels lists chat models, excluding the embedding model.
func (h *Handler) AvailableModels(c *gin.Context) {
	models, err := h.service.AvailableModels(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"models": models})
}

// UploadedFiles lists stored document names as a bare array.
func (h *Handler) UploadedFiles(c *gin.Context) {
	files, err := h.service.UploadedFiles(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	if files == nil {
		files = []string{}
	}
	c.JSON(http.StatusOK, files)
}

// Ingest uploads and indexes a document. The document name comes from
// the file_name query parameter and the bytes from the multipart
// "content" field.
func (h *Handler) Ingest(c *gin.Context) {
	fileName := c.Query("file_name")
	if fileName == "" {
		respondError(c, errno.ErrInvalidRequest.WithMessage("file_name query parameter is required"))
		return
	}

	fileHeader, err := c.FormFile("content")
	if err != nil {
		respondError(c, errno.ErrInvalidRequest.WithMessage("multipart field %q is required", "content").WithCause(err))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondError(c, errno.ErrStorageWrite.WithCause(err))
		return
	}
	defer file.Close()

	chunks, err := h.service.Ingest(c.Request.Context(), fileName, file)
	if err != nil {
		respondError(c, err)
		return
	}

	log.Infow("ingest request served", "file", fileName, "chunks", chunks)
	c.JSON(http.StatusOK, gin.H{"message": "File " + fileName + " ingested successfully"})
}

// RemoveRequest is the removal request body.
type RemoveRequest struct {
	FileName string `json:"file_name" binding:"required"`
}

// Remove deletes a document's vectors and file.
func (h *Handler) Remove(c *gin.Context) {
	var req RemoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errno.ErrInvalidRequest.WithCause(err))
		return
	}

	if _, err := h.service.Remove(c.Request.Context(), req.FileName); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "File " + req.FileName + " removed successfully"})
}

// AgentRequest is the question-answering request body.
type AgentRequest struct {
	Query string `json:"query" binding:"required"`
	LLM   string `json:"llm" binding:"required"`
}

// Agent answers a question with the requested chat model.
func (h *Handler) Agent(c *gin.Context) {
	var req AgentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errno.ErrInvalidRequest.WithCause(err))
		return
	}

	answer, err := h.service.Ask(c.Request.Context(), req.LLM, req.Query)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, answer)
}

// Stats returns service counters.
func (h *Handler) Stats(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.Stats(c.Request.Context()))
}

// respondError translates an error into its HTTP status and body.
func respondError(c *gin.Context, err error) {
	e := errno.FromError(err)
	if e.HTTP >= http.StatusInternalServerError {
		log.Errorw("request failed", "path", c.FullPath(), "code", e.Code, "error", err.Error())
	}
	c.JSON(e.HTTP, gin.H{"code": e.Code, "message": e.Message})
}
