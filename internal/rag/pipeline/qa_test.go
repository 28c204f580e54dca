package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"VectorRAG/internal/rag/interfaces"
	"VectorRAG/internal/rag/schema"
)

func TestQA_PromptContainsFullTextsInRankOrder(t *testing.T) {
	generator := &fakeGenerator{answer: "42"}
	p := NewQAPipeline(generator, testLogger())

	chunks := []schema.RetrievedChunk{
		{ChunkIndex: 3, Text: "alpha body", Score: 0.9},
		{ChunkIndex: 1, Text: "beta body", Score: 0.8},
	}

	answer, err := p.Run(context.Background(), "what is the answer?", chunks)
	require.NoError(t, err)
	assert.Equal(t, "42", answer)

	assert.Contains(t, generator.prompt, "alpha body\nbeta body", "full texts joined by a line break, in rank order")
	assert.Contains(t, generator.prompt, "what is the answer?")
	assert.Contains(t, generator.prompt, "say you don't know")
	assert.Less(t,
		strings.Index(generator.prompt, "alpha body"),
		strings.Index(generator.prompt, "beta body"))
}

func TestQA_GeneratorFailure(t *testing.T) {
	generator := &fakeGenerator{err: errBoom}
	p := NewQAPipeline(generator, testLogger())

	_, err := p.Run(context.Background(), "q", []schema.RetrievedChunk{{Text: "ctx"}})
	require.Error(t, err)

	var svcErr *interfaces.ServiceError
	assert.True(t, errors.As(err, &svcErr))
	assert.True(t, errors.Is(err, errBoom))
}
