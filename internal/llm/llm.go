package llm

import (
	"context"
	"fmt"
	"time"
)

// LLM 定义了所有大型语言模型客户端必须实现的通用接口。
type LLM interface {
	// Generate 根据提示词生成一段文本回答。
	Generate(ctx context.Context, prompt string) (string, error)
}

// NewClient 是一个工厂函数，根据提供商创建并返回一个实现了 LLM 接口的客户端。
func NewClient(provider, model, baseURL string, timeout time.Duration) (LLM, error) {
	switch provider {
	case "ollama":
		return NewOllama(model, baseURL, timeout)
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", provider)
	}
}
