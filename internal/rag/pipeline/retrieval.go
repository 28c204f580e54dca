package pipeline

import (
	"context"
	"fmt"

	"VectorRAG/internal/rag/interfaces"
	"VectorRAG/internal/rag/schema"
	"VectorRAG/pkg/logger"
)

// RetrievalPipeline orchestrates the process of retrieving the chunks most
// relevant to a question.
type RetrievalPipeline struct {
	embedder interfaces.Embedder
	store    interfaces.ChunkStore
	log      *logger.Logger
}

// NewRetrievalPipeline creates a new RetrievalPipeline.
func NewRetrievalPipeline(embedder interfaces.Embedder, store interfaces.ChunkStore, log *logger.Logger) *RetrievalPipeline {
	return &RetrievalPipeline{
		embedder: embedder,
		store:    store,
		log:      log,
	}
}

// Run embeds the question and queries the store for the topK nearest chunks.
// Results keep the store's ranking untouched; an empty result set is a valid
// outcome, not an error.
func (p *RetrievalPipeline) Run(ctx context.Context, question string, topK int) ([]schema.RetrievedChunk, error) {
	vec, err := p.embedder.Embed(ctx, question)
	if err != nil {
		p.log.WithError(err).Error("Failed to embed question")
		return nil, interfaces.NewServiceError("embed question", err)
	}

	results, err := p.store.Search(ctx, vec, topK)
	if err != nil {
		p.log.WithError(err).Error("Vector search failed")
		return nil, interfaces.NewServiceError("vector search", err)
	}

	p.log.Info(fmt.Sprintf("Retrieved %d chunks from vector store", len(results)))
	return results, nil
}
