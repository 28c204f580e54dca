package schema

// Chunk is one contiguous, possibly overlapping slice of a document's text
// together with its embedding. Chunks are the only persisted records in the
// system; the owning document exists solely as the shared DocID value.
// The bson tags match the collection layout expected by the Atlas
// $vectorSearch index (path: "embedding").
type Chunk struct {
	DocID      string    `bson:"doc_id" json:"doc_id"`
	ChunkIndex int       `bson:"chunk_index" json:"chunk_index"`
	Text       string    `bson:"text" json:"text"`
	Embedding  []float32 `bson:"embedding" json:"embedding"`
}

// RetrievedChunk is a transient pairing of a chunk with the similarity score
// assigned by the vector store for one query. It is never persisted.
type RetrievedChunk struct {
	ChunkIndex int     `bson:"chunk_index" json:"chunk_index"`
	Text       string  `bson:"text" json:"text"`
	Score      float64 `bson:"score" json:"score"`
}

// IngestResult reports the outcome of one ingestion.
type IngestResult struct {
	DocID      string `json:"doc_id"`
	ChunkCount int    `json:"chunks"`
}

// ChunkRef is the caller-facing reference to a chunk used for an answer:
// its index, its rounded score, and a truncated preview instead of the full
// text.
type ChunkRef struct {
	ChunkIndex int     `json:"chunk_index"`
	Score      float64 `json:"score"`
	Preview    string  `json:"preview"`
}

// AnswerResult combines a generated answer with the ranked chunk references
// that produced it.
type AnswerResult struct {
	Answer     string     `json:"answer"`
	ChunksUsed []ChunkRef `json:"chunks_used"`
}
