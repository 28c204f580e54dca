package chunkstore

import (
	"context"
	"fmt"

	"github.com/milvus-io/milvus-sdk-go/v2/client"
	"github.com/milvus-io/milvus-sdk-go/v2/entity"

	"VectorRAG/internal/database/milvus"
	"VectorRAG/internal/rag/interfaces"
	"VectorRAG/internal/rag/schema"
	"VectorRAG/pkg/logger"
)

// Schema fields of the Milvus chunk collection.
const (
	FieldDocID      = "doc_id"
	FieldChunkIndex = "chunk_index"
	FieldText       = "text"
	FieldEmbedding  = "embedding"
)

// MilvusChunkStore is an alternative ChunkStore backend on Milvus, selected
// by configuration for deployments without MongoDB Atlas. The collection uses
// an inner-product metric so higher scores rank first, matching the contract
// the pipelines expect.
type MilvusChunkStore struct {
	log        *logger.Logger
	client     client.Client
	collection string
}

// NewMilvusChunkStore creates a MilvusChunkStore over an existing client.
func NewMilvusChunkStore(milvusClient *milvus.MilvusClient, collectionName string, log *logger.Logger) (*MilvusChunkStore, error) {
	if milvusClient == nil || milvusClient.Client == nil {
		return nil, fmt.Errorf("milvus client is not initialized")
	}
	return &MilvusChunkStore{
		log:        log,
		client:     milvusClient.Client,
		collection: collectionName,
	}, nil
}

// BulkInsert writes all chunk records as one insert call.
func (s *MilvusChunkStore) BulkInsert(ctx context.Context, chunks []schema.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	docIDs := make([]string, len(chunks))
	indices := make([]int64, len(chunks))
	texts := make([]string, len(chunks))
	embeddings := make([][]float32, len(chunks))
	for i, chunk := range chunks {
		docIDs[i] = chunk.DocID
		indices[i] = int64(chunk.ChunkIndex)
		texts[i] = chunk.Text
		embeddings[i] = chunk.Embedding
	}

	dim := len(embeddings[0])
	docIDCol := entity.NewColumnVarChar(FieldDocID, docIDs)
	indexCol := entity.NewColumnInt64(FieldChunkIndex, indices)
	textCol := entity.NewColumnVarChar(FieldText, texts)
	embeddingCol := entity.NewColumnFloatVector(FieldEmbedding, dim, embeddings)

	_, err := s.client.Insert(ctx, s.collection, "" /* default partition */, docIDCol, indexCol, textCol, embeddingCol)
	if err != nil {
		return fmt.Errorf("failed to insert chunks into Milvus: %w", err)
	}

	s.log.WithField("chunks", len(chunks)).Info(fmt.Sprintf("Inserted chunk records into Milvus collection: %s", s.collection))
	return nil
}

// Search performs a vector similarity search and returns up to topK chunks in
// Milvus score order (best first), which callers must preserve.
func (s *MilvusChunkStore) Search(ctx context.Context, vector []float32, topK int) ([]schema.RetrievedChunk, error) {
	if topK <= 0 {
		return nil, fmt.Errorf("%w: topK must be positive, got %d", interfaces.ErrInvalidArgument, topK)
	}

	if err := s.client.LoadCollection(ctx, s.collection, false); err != nil {
		return nil, fmt.Errorf("failed to load collection '%s': %w", s.collection, err)
	}

	searchParams, _ := entity.NewIndexIvfFlatSearchParam(10)
	outputFields := []string{FieldChunkIndex, FieldText}

	searchResults, err := s.client.Search(
		ctx, s.collection, []string{}, "", outputFields,
		[]entity.Vector{entity.FloatVector(vector)},
		FieldEmbedding, entity.IP, topK, searchParams,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to search in Milvus: %w", err)
	}

	var results []schema.RetrievedChunk
	for _, res := range searchResults {
		findColumn := func(name string) entity.Column {
			for _, field := range res.Fields {
				if field.Name() == name {
					return field
				}
			}
			return nil
		}

		indexCol, ok := findColumn(FieldChunkIndex).(*entity.ColumnInt64)
		if !ok {
			s.log.Warn("Search result is missing chunk_index field or has wrong type, skipping.")
			continue
		}
		textCol, ok := findColumn(FieldText).(*entity.ColumnVarChar)
		if !ok {
			s.log.Warn("Search result is missing text field or has wrong type, skipping.")
			continue
		}

		indexData := indexCol.Data()
		textData := textCol.Data()
		for i := 0; i < res.ResultCount; i++ {
			results = append(results, schema.RetrievedChunk{
				ChunkIndex: int(indexData[i]),
				Text:       textData[i],
				Score:      float64(res.Scores[i]),
			})
		}
	}

	return results, nil
}

// compile-time check to ensure MilvusChunkStore implements the ChunkStore interface
var _ interfaces.ChunkStore = (*MilvusChunkStore)(nil)
