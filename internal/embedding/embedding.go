package embedding

import (
	"fmt"
	"time"
)

// NewEmdModel 根据指定的提供商创建并返回一个新的 Embedding 模型实例。
// 当前部署只使用 Ollama，但工厂保留了按提供商扩展的入口。
func NewEmdModel(provider, model, baseURL string, dimension int, timeout time.Duration) (Embedding, error) {
	switch ModelType(provider) {
	case Ollama:
		return NewOllamaModel(model, baseURL, dimension, timeout)
	default:
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}
}
