package api

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"VectorRAG/internal/rag/interfaces"
	"VectorRAG/internal/ragservice/service"
	"VectorRAG/pkg/logger"
)

// API provides the HTTP handlers for the RAG service.
type API struct {
	service *service.Service
	logger  *logger.Logger
}

// NewAPI creates a new API handler.
func NewAPI(service *service.Service, logger *logger.Logger) *API {
	return &API{
		service: service,
		logger:  logger,
	}
}

// IngestDocumentHandler accepts a raw text document and stores it as
// embedded chunks.
func (a *API) IngestDocumentHandler(c *gin.Context) {
	var payload struct {
		Text string `json:"text"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		a.logger.WithError(err).Warn("Invalid ingest payload")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	// Empty text is a valid zero-chunk ingestion, not a client error.
	resp, err := a.service.IngestText(c.Request.Context(), payload.Text)
	if err != nil {
		a.writeError(c, err, "Failed to ingest document")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// UploadPDFHandler accepts a multipart PDF upload, extracts its text, and
// stores it as embedded chunks. The upload is staged in a temporary file
// that is removed when the request finishes.
func (a *API) UploadPDFHandler(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A PDF file is required in the 'file' field"})
		return
	}
	if !strings.EqualFold(filepath.Ext(file.Filename), ".pdf") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only .pdf files are accepted"})
		return
	}

	tmp, err := os.CreateTemp("", "upload-*.pdf")
	if err != nil {
		a.logger.WithError(err).Error("Failed to create temp file for upload")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process upload"})
		return
	}
	tmpPath := tmp.Name()
	tmp.Close()
	defer os.Remove(tmpPath)

	if err := c.SaveUploadedFile(file, tmpPath); err != nil {
		a.logger.WithError(err).Error("Failed to save uploaded PDF")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process upload"})
		return
	}

	resp, err := a.service.IngestPDF(c.Request.Context(), tmpPath)
	if err != nil {
		a.writeError(c, err, "Failed to ingest PDF")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// QueryHandler answers a question from the stored chunks.
func (a *API) QueryHandler(c *gin.Context) {
	question := strings.TrimSpace(c.Query("q"))
	if question == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Query parameter 'q' is required"})
		return
	}

	topK := 0
	if raw := c.Query("top_k"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Query parameter 'top_k' must be a positive integer"})
			return
		}
		topK = parsed
	}

	result, err := a.service.Answer(c.Request.Context(), question, topK)
	if err != nil {
		a.writeError(c, err, "Failed to answer query")
		return
	}

	c.JSON(http.StatusOK, result)
}

// writeError maps a service error to an HTTP response. Failures of the
// embedding model, the generation model, or the vector store surface as 502
// because the dependency, not this service, refused the work.
func (a *API) writeError(c *gin.Context, err error, message string) {
	a.logger.WithError(err).Error(message)

	if errors.Is(err, interfaces.ErrInvalidArgument) {
		c.JSON(http.StatusBadRequest, gin.H{"error": message})
		return
	}

	var svcErr *interfaces.ServiceError
	if errors.As(err, &svcErr) {
		c.JSON(http.StatusBadGateway, gin.H{"error": message})
		return
	}

	c.JSON(http.StatusInternalServerError, gin.H{"error": message})
}
