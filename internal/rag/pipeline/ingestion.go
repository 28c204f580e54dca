package pipeline

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"VectorRAG/internal/rag/interfaces"
	"VectorRAG/internal/rag/schema"
	"VectorRAG/pkg/logger"
)

// IngestionPipeline orchestrates the process of splitting, embedding, and
// storing one document's text under a freshly generated doc ID.
type IngestionPipeline struct {
	splitter interfaces.Splitter
	embedder interfaces.Embedder
	store    interfaces.ChunkStore
	workers  int
	log      *logger.Logger
}

// NewIngestionPipeline creates a new IngestionPipeline. workers bounds the
// number of concurrent embedding calls per ingestion.
func NewIngestionPipeline(
	splitter interfaces.Splitter,
	embedder interfaces.Embedder,
	store interfaces.ChunkStore,
	workers int,
	log *logger.Logger,
) *IngestionPipeline {
	if workers <= 0 {
		workers = 1
	}
	return &IngestionPipeline{
		splitter: splitter,
		embedder: embedder,
		store:    store,
		workers:  workers,
		log:      log,
	}
}

// Run executes the entire ingestion pipeline for one text.
//
// Embedding calls fan out concurrently up to the worker bound, but each chunk
// record keeps the index of its position in the split sequence, so the
// persisted order never depends on completion order. The bulk write happens
// only after every embedding call has succeeded; any failure aborts the whole
// ingestion with nothing persisted.
//
// Empty text is a successful zero-chunk ingestion: no embedding or store
// calls are made.
func (p *IngestionPipeline) Run(ctx context.Context, text string) (*schema.IngestResult, error) {
	docID := uuid.New().String()

	chunks := p.splitter.Split(text)
	if len(chunks) == 0 {
		p.log.WithField("doc_id", docID).Info("Ingestion produced no chunks, nothing to persist")
		return &schema.IngestResult{DocID: docID, ChunkCount: 0}, nil
	}
	p.log.WithField("doc_id", docID).Info(fmt.Sprintf("Split text into %d chunks", len(chunks)))

	records := make([]schema.Chunk, len(chunks))

	eg, gCtx := errgroup.WithContext(ctx)
	eg.SetLimit(p.workers)
	for idx, chunkText := range chunks {
		eg.Go(func() error {
			vec, err := p.embedder.Embed(gCtx, chunkText)
			if err != nil {
				return interfaces.NewServiceError("embed chunk", err)
			}
			records[idx] = schema.Chunk{
				DocID:      docID,
				ChunkIndex: idx,
				Text:       chunkText,
				Embedding:  vec,
			}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		p.log.WithError(err).Error("Embedding failed, aborting ingestion")
		return nil, err
	}

	if err := p.store.BulkInsert(ctx, records); err != nil {
		p.log.WithError(err).Error("Failed to persist chunk records")
		return nil, interfaces.NewServiceError("persist chunks", err)
	}

	p.log.WithField("doc_id", docID).Info(fmt.Sprintf("Successfully ingested %d chunks", len(records)))
	return &schema.IngestResult{DocID: docID, ChunkCount: len(records)}, nil
}
