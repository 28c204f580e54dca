package pipeline

import (
	"context"
	"errors"
	"sync"
	"time"

	"VectorRAG/internal/rag/schema"
	"VectorRAG/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New("pipeline-test")
}

// fakeEmbedder returns a one-element vector derived from the text length and
// records every text it was asked to embed.
type fakeEmbedder struct {
	mu       sync.Mutex
	calls    []string
	err      error
	delay    func(text string) time.Duration
	embedded func(text string) []float32
}

func (f *fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if f.delay != nil {
		select {
		case <-time.After(f.delay(text)):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	f.mu.Lock()
	f.calls = append(f.calls, text)
	f.mu.Unlock()

	if f.err != nil {
		return nil, f.err
	}
	if f.embedded != nil {
		return f.embedded(text), nil
	}
	return []float32{float32(len(text))}, nil
}

func (f *fakeEmbedder) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// fakeStore records bulk inserts and serves canned search results.
type fakeStore struct {
	mu          sync.Mutex
	inserted    [][]schema.Chunk
	insertErr   error
	searchRes   []schema.RetrievedChunk
	searchErr   error
	searchCalls int
	lastTopK    int
	lastVector  []float32
}

func (f *fakeStore) BulkInsert(ctx context.Context, chunks []schema.Chunk) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.insertErr != nil {
		return f.insertErr
	}
	f.inserted = append(f.inserted, chunks)
	return nil
}

func (f *fakeStore) Search(ctx context.Context, vector []float32, topK int) ([]schema.RetrievedChunk, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searchCalls++
	f.lastTopK = topK
	f.lastVector = vector
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.searchRes, nil
}

// fakeGenerator records the prompt it received.
type fakeGenerator struct {
	mu     sync.Mutex
	prompt string
	answer string
	err    error
	calls  int
}

func (f *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.prompt = prompt
	if f.err != nil {
		return "", f.err
	}
	return f.answer, nil
}

var errBoom = errors.New("boom")
