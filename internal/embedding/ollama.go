package embedding

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	ollama "github.com/ollama/ollama/api"
)

// OllamaModel 是一个用于 Ollama API 的 Embedding 模型客户端。
type OllamaModel struct {
	client    *ollama.Client // Ollama 客户端实例。
	model     string         // 要使用的模型名称。
	dimension int            // 期望的向量维度，0 表示不校验。
}

// NewOllamaModel 创建一个新的 OllamaModel 客户端。
//
// 参数:
//
//	model: 要使用的模型名称。
//	baseURL: Ollama 服务的基准 URL。如果为空，则默认为 "http://localhost:11434"。
//	dimension: 期望的嵌入向量维度。传 0 表示跳过维度校验。
//	timeout: 单次调用的超时时间。
//
// 返回值:
//
//	*OllamaModel: 新创建的 OllamaModel 客户端实例。
//	error: 如果基准 URL 无效，则返回错误。
func NewOllamaModel(model, baseURL string, dimension int, timeout time.Duration) (*OllamaModel, error) {
	// 如果 baseURL 为空，则使用默认地址。
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}

	parsedURL, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}

	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	// 创建一个带有超时设置的 HTTP 客户端。
	hc := &http.Client{
		Timeout: timeout,
	}

	client := ollama.NewClient(parsedURL, hc)

	return &OllamaModel{client: client, model: model, dimension: dimension}, nil
}

// Embed 为单个文本生成嵌入向量，并校验返回向量的维度。
func (m *OllamaModel) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := m.client.Embed(ctx, &ollama.EmbedRequest{
		Model: m.model,
		Input: text,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get embeddings from ollama: %w", err)
	}

	if len(resp.Embeddings) == 0 {
		return nil, fmt.Errorf("no embeddings returned")
	}

	vec := resp.Embeddings[0]
	if m.dimension > 0 && len(vec) != m.dimension {
		return nil, fmt.Errorf("embedding dimension mismatch: expected %d, got %d", m.dimension, len(vec))
	}

	return vec, nil
}

// EmbedBatch 为一批文本生成嵌入向量。
func (m *OllamaModel) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	resp, err := m.client.Embed(ctx, &ollama.EmbedRequest{
		Model: m.model,
		Input: texts,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get batch embeddings from ollama: %w", err)
	}

	if m.dimension > 0 {
		for i, vec := range resp.Embeddings {
			if len(vec) != m.dimension {
				return nil, fmt.Errorf("embedding %d dimension mismatch: expected %d, got %d", i, m.dimension, len(vec))
			}
		}
	}

	return resp.Embeddings, nil
}

var _ Embedding = (*OllamaModel)(nil)
