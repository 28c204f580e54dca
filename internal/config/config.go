package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// AppInfo 对应 'app' 部分，包含应用程序的基本信息。
type AppInfo struct {
	Name        string `yaml:"name"`        // 应用程序名称
	Version     string `yaml:"version"`     // 应用程序版本
	Environment string `yaml:"environment"` // 运行环境 (例如: "development", "production")
}

// LoggerConfig 定义了日志记录器的配置。
type LoggerConfig struct {
	Level string `yaml:"level"` // 日志级别 (例如: "info", "debug", "warn", "error")
}

// ServerConfig 定义了 HTTP 服务的监听配置。
type ServerConfig struct {
	Address string `yaml:"address"` // 监听地址 (例如: ":8080")
}

// MongoConfig 定义了 MongoDB 数据库的连接配置。
type MongoConfig struct {
	Address     string `yaml:"address"`     // MongoDB 连接 URI
	Username    string `yaml:"username"`    // 用户名
	Password    string `yaml:"password"`    // 密码
	Database    string `yaml:"database"`    // 数据库名称
	Collection  string `yaml:"collection"`  // 分块记录所在的集合
	VectorIndex string `yaml:"vectorIndex"` // Atlas Vector Search 索引名称
}

// MilvusConfig 定义了 Milvus 数据库的连接配置。
type MilvusConfig struct {
	Address    string `yaml:"address"`    // Milvus 服务地址
	Collection string `yaml:"collection"` // 分块记录所在的集合
}

// DatabaseConfigs 包含所有数据库的配置。
type DatabaseConfigs struct {
	MongoDB MongoConfig  `yaml:"mongodb"` // MongoDB 数据库配置
	Milvus  MilvusConfig `yaml:"milvus"`  // Milvus 数据库配置
}

// VectorStoreConfig 选择向量检索使用的后端。
type VectorStoreConfig struct {
	Backend string `yaml:"backend"` // "mongodb" 或 "milvus"
}

// OllamaConfig 定义了 Ollama 服务的模型与超时配置。
type OllamaConfig struct {
	BaseURL        string `yaml:"baseURL"`        // Ollama 服务的基准 URL
	EmbedModel     string `yaml:"embedModel"`     // 嵌入模型名称
	LLMModel       string `yaml:"llmModel"`       // 生成模型名称
	Dimension      int    `yaml:"dimension"`      // 嵌入向量维度，0 表示不校验
	TimeoutSeconds int    `yaml:"timeoutSeconds"` // 单次调用的超时时间 (秒)
}

// ChunkingConfig 定义了文本分块参数。
type ChunkingConfig struct {
	Size    int `yaml:"size"`    // 每个分块的词数
	Overlap int `yaml:"overlap"` // 相邻分块重叠的词数
}

// RetrievalConfig 定义了检索参数。
type RetrievalConfig struct {
	TopK                int `yaml:"topK"`                // 默认返回的分块数量
	CandidateMultiplier int `yaml:"candidateMultiplier"` // 候选池大小 = TopK * 该系数
	MinCandidates       int `yaml:"minCandidates"`       // 候选池大小下限
}

// IngestConfig 定义了摄取流水线的并发参数。
type IngestConfig struct {
	Workers int `yaml:"workers"` // 并发嵌入调用的上限
}

// RateLimiterConfig 定义了限流器的配置。
type RateLimiterConfig struct {
	Enabled  bool    `yaml:"enabled"`
	Rate     float64 `yaml:"rate"` // 每秒速率
	Capacity int     `yaml:"capacity"`
}

// MiddlewareConfig 包含所有中间件的配置。
type MiddlewareConfig struct {
	RateLimiter RateLimiterConfig `yaml:"rateLimiter"`
}

// AppConfig 是整个 YAML 文件的根结构，包含了应用程序的所有配置。
type AppConfig struct {
	App         AppInfo           `yaml:"app"`         // 应用程序信息
	Logger      LoggerConfig      `yaml:"logger"`      // 日志记录器配置
	Server      ServerConfig      `yaml:"server"`      // HTTP 服务配置
	Middleware  MiddlewareConfig  `yaml:"middleware"`  // 中间件配置
	Databases   DatabaseConfigs   `yaml:"databases"`   // 数据库配置
	VectorStore VectorStoreConfig `yaml:"vectorStore"` // 向量检索后端选择
	Ollama      OllamaConfig      `yaml:"ollama"`      // Ollama 配置
	Chunking    ChunkingConfig    `yaml:"chunking"`    // 分块配置
	Retrieval   RetrievalConfig   `yaml:"retrieval"`   // 检索配置
	Ingest      IngestConfig      `yaml:"ingest"`      // 摄取配置
}

// LoadConfig 函数从指定路径加载并解析 YAML 配置文件。
//
// 参数:
//
//	path: YAML 配置文件的路径。
//
// 返回值:
//
//	*AppConfig: 解析后的应用程序配置结构体。
//	error: 如果文件读取或解析失败，则返回错误。
func LoadConfig(path string) (*AppConfig, error) {
	// 读取 YAML 文件内容。
	yamlFile, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("无法读取 YAML 文件 '%s': %w", path, err)
	}
	var cfg AppConfig
	// 将 YAML 内容解析到 cfg 结构体中。
	if err := yaml.Unmarshal(yamlFile, &cfg); err != nil {
		return nil, fmt.Errorf("解析 YAML 文件失败: %w", err)
	}
	cfg.applyDefaults()
	return &cfg, nil
}

// applyDefaults 为缺省项填充默认值，保证配置文件可以只写关心的字段。
func (c *AppConfig) applyDefaults() {
	if c.Server.Address == "" {
		c.Server.Address = ":8080"
	}
	if c.Logger.Level == "" {
		c.Logger.Level = "info"
	}
	if c.VectorStore.Backend == "" {
		c.VectorStore.Backend = "mongodb"
	}
	if c.Ollama.BaseURL == "" {
		c.Ollama.BaseURL = "http://localhost:11434"
	}
	if c.Ollama.EmbedModel == "" {
		c.Ollama.EmbedModel = "mxbai-embed-large:latest"
	}
	if c.Ollama.LLMModel == "" {
		c.Ollama.LLMModel = "llama3.2:latest"
	}
	if c.Ollama.TimeoutSeconds <= 0 {
		c.Ollama.TimeoutSeconds = 30
	}
	if c.Chunking.Size <= 0 {
		c.Chunking.Size = 300
	}
	if c.Chunking.Overlap < 0 {
		c.Chunking.Overlap = 0
	}
	if c.Chunking.Overlap >= c.Chunking.Size {
		c.Chunking.Overlap = 50
	}
	if c.Retrieval.TopK <= 0 {
		c.Retrieval.TopK = 5
	}
	if c.Retrieval.CandidateMultiplier <= 0 {
		c.Retrieval.CandidateMultiplier = 20
	}
	if c.Retrieval.MinCandidates <= 0 {
		c.Retrieval.MinCandidates = 100
	}
	if c.Ingest.Workers <= 0 {
		c.Ingest.Workers = 4
	}
	if c.Databases.MongoDB.Database == "" {
		c.Databases.MongoDB.Database = "vector_search"
	}
	if c.Databases.MongoDB.Collection == "" {
		c.Databases.MongoDB.Collection = "document_chunks"
	}
	if c.Databases.MongoDB.VectorIndex == "" {
		c.Databases.MongoDB.VectorIndex = "vector_index"
	}
	if c.Databases.Milvus.Collection == "" {
		c.Databases.Milvus.Collection = "document_chunks"
	}
}
