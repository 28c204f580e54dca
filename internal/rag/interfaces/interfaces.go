package interfaces

import (
	"context"
	"errors"
	"fmt"

	"VectorRAG/internal/rag/schema"
)

// ErrInvalidArgument reports unusable caller-supplied parameters, such as a
// non-positive chunk size. Check it with errors.Is.
var ErrInvalidArgument = errors.New("invalid argument")

// ServiceError wraps a failed call to an external collaborator (embedding
// model, vector store, or generation model). Op names the call that failed;
// the underlying cause is available through Unwrap.
type ServiceError struct {
	Op  string
	Err error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError wraps err as a ServiceError for the given operation.
func NewServiceError(op string, err error) *ServiceError {
	return &ServiceError{Op: op, Err: err}
}

// Splitter splits raw text into ordered chunk strings.
type Splitter interface {
	Split(text string) []string
}

// Embedder produces a fixed-length vector representation for a single text.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Generator produces natural-language text from a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// ChunkStore persists chunk records and answers nearest-neighbor queries.
// Search results come back in the store's similarity order (best first); that
// order is authoritative and callers must not re-sort it.
type ChunkStore interface {
	BulkInsert(ctx context.Context, chunks []schema.Chunk) error
	Search(ctx context.Context, vector []float32, topK int) ([]schema.RetrievedChunk, error)
}
