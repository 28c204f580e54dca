package pipeline

import (
	"context"
	"strings"

	"VectorRAG/internal/rag/interfaces"
	"VectorRAG/internal/rag/schema"
	"VectorRAG/pkg/logger"
)

// QAPipeline is responsible for generating an answer based on a question and
// retrieved chunks.
type QAPipeline struct {
	generator interfaces.Generator
	log       *logger.Logger
}

// NewQAPipeline creates a new QAPipeline.
func NewQAPipeline(generator interfaces.Generator, log *logger.Logger) *QAPipeline {
	return &QAPipeline{
		generator: generator,
		log:       log,
	}
}

// Run builds the prompt from the ranked chunks and calls the generation model.
func (p *QAPipeline) Run(ctx context.Context, question string, chunks []schema.RetrievedChunk) (string, error) {
	prompt := p.buildPrompt(question, chunks)

	p.log.Info("Sending prompt to LLM to generate answer")
	answer, err := p.generator.Generate(ctx, prompt)
	if err != nil {
		p.log.WithError(err).Error("LLM failed to generate answer")
		return "", interfaces.NewServiceError("generate answer", err)
	}

	return answer, nil
}

// buildPrompt concatenates the full (untruncated) chunk texts in ranked
// order, then instructs the model to answer only from that context and to
// admit when the answer is not present.
func (p *QAPipeline) buildPrompt(question string, chunks []schema.RetrievedChunk) string {
	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Text
	}
	context := strings.Join(texts, "\n")

	var sb strings.Builder
	sb.WriteString("Use the context below to answer the question.\n")
	sb.WriteString("If the answer is not present in the context, say you don't know.\n\n")
	sb.WriteString("Context:\n")
	sb.WriteString(context)
	sb.WriteString("\n\nQuestion:\n")
	sb.WriteString(question)
	return sb.String()
}
