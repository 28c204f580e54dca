package service

import (
	"context"
	"math"
	"strings"

	"VectorRAG/internal/rag/interfaces"
	"VectorRAG/internal/rag/pipeline"
	"VectorRAG/internal/rag/schema"
	"VectorRAG/pkg/logger"
)

const (
	// previewLimit is the maximum number of characters of chunk text returned
	// to callers; the ellipsis is always appended, matching the established
	// response contract.
	previewLimit    = 400
	previewEllipsis = "..."

	noInfoAnswer = "No relevant information found."

	msgDocumentStored = "Document stored and indexed"
	msgPDFStored      = "PDF processed and stored"
	msgNoPDFText      = "No readable text found in PDF"
)

// PDFExtractor extracts plain text from a PDF file on disk.
type PDFExtractor interface {
	Load(ctx context.Context, path string) (string, error)
}

// IngestResponse is the caller-facing result of an ingestion request.
type IngestResponse struct {
	Message string `json:"message"`
	DocID   string `json:"doc_id,omitempty"`
	Chunks  int    `json:"chunks"`
}

// Service ties the ingestion, retrieval, and QA pipelines together behind
// the operations the API layer exposes. It holds no per-request state, so a
// single instance serves concurrent requests.
type Service struct {
	ingestion   *pipeline.IngestionPipeline
	retrieval   *pipeline.RetrievalPipeline
	qa          *pipeline.QAPipeline
	pdfLoader   PDFExtractor
	defaultTopK int
	log         *logger.Logger
}

// NewService creates the service and its pipelines.
func NewService(
	splitter interfaces.Splitter,
	embedder interfaces.Embedder,
	generator interfaces.Generator,
	store interfaces.ChunkStore,
	pdfLoader PDFExtractor,
	workers int,
	defaultTopK int,
	log *logger.Logger,
) *Service {
	if defaultTopK <= 0 {
		defaultTopK = 5
	}
	return &Service{
		ingestion:   pipeline.NewIngestionPipeline(splitter, embedder, store, workers, log),
		retrieval:   pipeline.NewRetrievalPipeline(embedder, store, log),
		qa:          pipeline.NewQAPipeline(generator, log),
		pdfLoader:   pdfLoader,
		defaultTopK: defaultTopK,
		log:         log,
	}
}

// IngestText ingests raw text under a new document ID. Empty text is a
// successful zero-chunk ingestion.
func (s *Service) IngestText(ctx context.Context, text string) (*IngestResponse, error) {
	result, err := s.ingestion.Run(ctx, text)
	if err != nil {
		return nil, err
	}
	return &IngestResponse{
		Message: msgDocumentStored,
		DocID:   result.DocID,
		Chunks:  result.ChunkCount,
	}, nil
}

// IngestPDF extracts text from the PDF at path and ingests it. A PDF without
// readable text short-circuits with a descriptive message before any
// embedding or store call.
func (s *Service) IngestPDF(ctx context.Context, path string) (*IngestResponse, error) {
	text, err := s.pdfLoader.Load(ctx, path)
	if err != nil {
		return nil, interfaces.NewServiceError("extract pdf text", err)
	}

	if strings.TrimSpace(text) == "" {
		return &IngestResponse{Message: msgNoPDFText}, nil
	}

	result, err := s.ingestion.Run(ctx, text)
	if err != nil {
		return nil, err
	}
	return &IngestResponse{
		Message: msgPDFStored,
		DocID:   result.DocID,
		Chunks:  result.ChunkCount,
	}, nil
}

// Answer retrieves the chunks nearest to the question and synthesizes an
// answer from them. topK <= 0 falls back to the configured default. When the
// store returns nothing, the terminal "no relevant information" answer is
// returned without calling the generation model.
func (s *Service) Answer(ctx context.Context, question string, topK int) (*schema.AnswerResult, error) {
	if topK <= 0 {
		topK = s.defaultTopK
	}

	retrieved, err := s.retrieval.Run(ctx, question, topK)
	if err != nil {
		return nil, err
	}

	if len(retrieved) == 0 {
		return &schema.AnswerResult{
			Answer:     noInfoAnswer,
			ChunksUsed: []schema.ChunkRef{},
		}, nil
	}

	answer, err := s.qa.Run(ctx, question, retrieved)
	if err != nil {
		return nil, err
	}

	chunksUsed := make([]schema.ChunkRef, len(retrieved))
	for i, chunk := range retrieved {
		chunksUsed[i] = schema.ChunkRef{
			ChunkIndex: chunk.ChunkIndex,
			Score:      roundScore(chunk.Score),
			Preview:    preview(chunk.Text),
		}
	}

	return &schema.AnswerResult{Answer: answer, ChunksUsed: chunksUsed}, nil
}

// roundScore rounds a similarity score to 3 decimal places for the response
// payload.
func roundScore(score float64) float64 {
	return math.Round(score*1000) / 1000
}

// preview truncates text to previewLimit characters. The ellipsis marker is
// appended unconditionally.
func preview(text string) string {
	runes := []rune(text)
	if len(runes) > previewLimit {
		runes = runes[:previewLimit]
	}
	return string(runes) + previewEllipsis
}
