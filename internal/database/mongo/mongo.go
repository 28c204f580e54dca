package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"VectorRAG/internal/config"
)

// Connect 建立并返回一个 MongoDB 客户端实例。
// 客户端由调用方持有并在进程关闭时显式断开，避免 import 副作用式的全局连接。
func Connect(ctx context.Context, cfg *config.MongoConfig) (*mongo.Client, error) {
	clientOptions := options.Client().ApplyURI(cfg.Address)
	// 如果配置了用户名和密码，则设置认证信息。
	if cfg.Username != "" && cfg.Password != "" {
		clientOptions.SetAuth(options.Credential{
			Username: cfg.Username,
			Password: cfg.Password,
		})
	}

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	c, err := mongo.Connect(connectCtx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("无法连接到 MongoDB: %w", err)
	}

	// 检查连接是否成功（Ping 数据库）。
	if err := c.Ping(connectCtx, nil); err != nil {
		return nil, fmt.Errorf("无法 Ping MongoDB: %w", err)
	}

	return c, nil
}

// Disconnect 安全地断开 MongoDB 客户端连接。
func Disconnect(ctx context.Context, c *mongo.Client) error {
	if c == nil {
		return nil
	}
	return c.Disconnect(ctx)
}

// HealthCheck 检查 MongoDB 连接的健康状况。
func HealthCheck(ctx context.Context, c *mongo.Client) error {
	if c == nil {
		return fmt.Errorf("MongoDB 客户端未初始化")
	}
	return c.Ping(ctx, nil)
}
