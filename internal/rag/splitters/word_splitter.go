package splitters

import (
	"fmt"
	"strings"

	"VectorRAG/internal/rag/interfaces"
)

// Default window parameters, in whitespace-delimited words.
const (
	DefaultChunkSize = 300
	DefaultOverlap   = 50
)

// WordSplitter implements the Splitter interface by producing fixed-size
// windows of whitespace-delimited words, each window overlapping the previous
// one so retrieval keeps context across chunk boundaries.
type WordSplitter struct {
	ChunkSize int
	Overlap   int
}

// NewWordSplitter creates a WordSplitter. chunkSize must be positive and
// overlap must be non-negative and smaller than chunkSize; a step of zero or
// less would never terminate.
func NewWordSplitter(chunkSize, overlap int) (*WordSplitter, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("%w: chunk size must be positive, got %d", interfaces.ErrInvalidArgument, chunkSize)
	}
	if overlap < 0 {
		return nil, fmt.Errorf("%w: overlap must be non-negative, got %d", interfaces.ErrInvalidArgument, overlap)
	}
	if overlap >= chunkSize {
		return nil, fmt.Errorf("%w: overlap %d must be smaller than chunk size %d", interfaces.ErrInvalidArgument, overlap, chunkSize)
	}
	return &WordSplitter{ChunkSize: chunkSize, Overlap: overlap}, nil
}

// Split splits text into overlapping word windows. Empty or whitespace-only
// text yields no chunks. The final window may be shorter than ChunkSize.
// Identical input always yields identical output.
func (s *WordSplitter) Split(text string) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	step := s.ChunkSize - s.Overlap
	var chunks []string
	for start := 0; start < len(words); start += step {
		end := start + s.ChunkSize
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, strings.Join(words[start:end], " "))
		if end == len(words) {
			break
		}
	}
	return chunks
}

// compile-time check to ensure WordSplitter implements the Splitter interface
var _ interfaces.Splitter = (*WordSplitter)(nil)
