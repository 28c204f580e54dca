package chunkstore

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"VectorRAG/internal/rag/interfaces"
	"VectorRAG/internal/rag/schema"
	"VectorRAG/pkg/logger"
)

// MongoChunkStore implements the ChunkStore interface on top of a MongoDB
// Atlas collection with a Vector Search index on the "embedding" field.
type MongoChunkStore struct {
	collection          *mongo.Collection
	indexName           string
	candidateMultiplier int
	minCandidates       int
	log                 *logger.Logger
}

// NewMongoChunkStore creates a MongoChunkStore over the given collection.
// indexName is the Atlas Vector Search index to query. The candidate pool for
// a search is topK*candidateMultiplier with minCandidates as a floor, giving
// the approximate search room to find true nearest neighbors.
func NewMongoChunkStore(db *mongo.Database, collectionName, indexName string, candidateMultiplier, minCandidates int, log *logger.Logger) *MongoChunkStore {
	if candidateMultiplier <= 0 {
		candidateMultiplier = 20
	}
	if minCandidates <= 0 {
		minCandidates = 100
	}
	return &MongoChunkStore{
		collection:          db.Collection(collectionName),
		indexName:           indexName,
		candidateMultiplier: candidateMultiplier,
		minCandidates:       minCandidates,
		log:                 log,
	}
}

// BulkInsert persists all chunk records in a single write. A nil or empty
// slice is a no-op so empty ingestions never touch the database.
func (s *MongoChunkStore) BulkInsert(ctx context.Context, chunks []schema.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	docs := make([]interface{}, len(chunks))
	for i, chunk := range chunks {
		docs[i] = chunk
	}

	if _, err := s.collection.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("failed to bulk insert chunks: %w", err)
	}

	s.log.WithField("chunks", len(chunks)).Info("Inserted chunk records into MongoDB")
	return nil
}

// Search runs a $vectorSearch aggregation and returns up to topK chunks in
// the score order produced by Atlas (best first). The order is returned
// untouched; it is the authoritative ranking.
func (s *MongoChunkStore) Search(ctx context.Context, vector []float32, topK int) ([]schema.RetrievedChunk, error) {
	if topK <= 0 {
		return nil, fmt.Errorf("%w: topK must be positive, got %d", interfaces.ErrInvalidArgument, topK)
	}

	numCandidates := topK * s.candidateMultiplier
	if numCandidates < s.minCandidates {
		numCandidates = s.minCandidates
	}

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$vectorSearch", Value: bson.D{
			{Key: "index", Value: s.indexName},
			{Key: "path", Value: "embedding"},
			{Key: "queryVector", Value: vector},
			{Key: "numCandidates", Value: numCandidates},
			{Key: "limit", Value: topK},
		}}},
		bson.D{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 0},
			{Key: "chunk_index", Value: 1},
			{Key: "text", Value: 1},
			{Key: "score", Value: bson.D{{Key: "$meta", Value: "vectorSearchScore"}}},
		}}},
	}

	cursor, err := s.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("vector search aggregation failed: %w", err)
	}
	defer cursor.Close(ctx)

	var results []schema.RetrievedChunk
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("failed to decode vector search results: %w", err)
	}

	return results, nil
}

// compile-time check to ensure MongoChunkStore implements the ChunkStore interface
var _ interfaces.ChunkStore = (*MongoChunkStore)(nil)
