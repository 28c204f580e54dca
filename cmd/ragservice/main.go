package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"VectorRAG/internal/config"
	"VectorRAG/internal/database/milvus"
	"VectorRAG/internal/database/mongo"
	"VectorRAG/internal/embedding"
	"VectorRAG/internal/llm"
	"VectorRAG/internal/rag/interfaces"
	"VectorRAG/internal/rag/loaders"
	"VectorRAG/internal/rag/splitters"
	"VectorRAG/internal/rag/storages/chunkstore"
	"VectorRAG/internal/ragservice/api"
	"VectorRAG/internal/ragservice/service"
	"VectorRAG/pkg/logger"
	"VectorRAG/pkg/ratelimiter"
)

const defaultConfigPath = "config/config.yaml"

func main() {
	configPath := defaultConfigPath
	if p := os.Getenv("RAG_CONFIG"); p != "" {
		configPath = p
	}

	// Load configuration
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Init(logger.ParseLevel(cfg.Logger.Level))
	serviceLogger := logger.New("RAGService")

	ctx := context.Background()

	// Connect to the configured vector store backend
	store, closeStore, err := buildChunkStore(ctx, cfg, serviceLogger)
	if err != nil {
		serviceLogger.WithError(err).Fatal("Failed to initialize vector store")
	}
	serviceLogger.WithField("backend", cfg.VectorStore.Backend).Info("Vector store ready")

	// Create the Ollama-backed models
	timeout := time.Duration(cfg.Ollama.TimeoutSeconds) * time.Second
	embedder, err := embedding.NewEmdModel("ollama", cfg.Ollama.EmbedModel, cfg.Ollama.BaseURL, cfg.Ollama.Dimension, timeout)
	if err != nil {
		serviceLogger.WithError(err).Fatal("Failed to create embedding model")
	}
	generator, err := llm.NewClient("ollama", cfg.Ollama.LLMModel, cfg.Ollama.BaseURL, timeout)
	if err != nil {
		serviceLogger.WithError(err).Fatal("Failed to create LLM client")
	}

	splitter, err := splitters.NewWordSplitter(cfg.Chunking.Size, cfg.Chunking.Overlap)
	if err != nil {
		serviceLogger.WithError(err).Fatal("Invalid chunking configuration")
	}

	svc := service.NewService(
		splitter,
		embedder,
		generator,
		store,
		loaders.NewPdfLoader(),
		cfg.Ingest.Workers,
		cfg.Retrieval.TopK,
		serviceLogger,
	)

	// Setup HTTP server
	gin.SetMode(gin.ReleaseMode)
	router := gin.Default()

	var limiter *ratelimiter.KeyedLimiter
	if cfg.Middleware.RateLimiter.Enabled {
		limiter = ratelimiter.NewKeyedLimiter(cfg.Middleware.RateLimiter.Rate, cfg.Middleware.RateLimiter.Capacity)
	}
	api.RegisterRoutes(router, api.NewAPI(svc, serviceLogger), limiter)

	srv := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: router,
	}

	// Start server
	go func() {
		serviceLogger.Info("Starting HTTP server on " + srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serviceLogger.WithError(err).Fatal("HTTP server failed to start")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	serviceLogger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		serviceLogger.WithError(err).Error("Server forced to shutdown")
	}

	if err := closeStore(shutdownCtx); err != nil {
		serviceLogger.WithError(err).Error("Error disconnecting from vector store")
	}

	serviceLogger.Info("Server gracefully stopped")
}

// buildChunkStore connects to the backend named in the configuration and
// returns the store together with a shutdown function for its connection.
func buildChunkStore(ctx context.Context, cfg *config.AppConfig, log *logger.Logger) (interfaces.ChunkStore, func(context.Context) error, error) {
	switch cfg.VectorStore.Backend {
	case "mongodb":
		client, err := mongo.Connect(ctx, &cfg.Databases.MongoDB)
		if err != nil {
			return nil, nil, err
		}
		db := client.Database(cfg.Databases.MongoDB.Database)
		store := chunkstore.NewMongoChunkStore(
			db,
			cfg.Databases.MongoDB.Collection,
			cfg.Databases.MongoDB.VectorIndex,
			cfg.Retrieval.CandidateMultiplier,
			cfg.Retrieval.MinCandidates,
			log,
		)
		return store, func(c context.Context) error { return mongo.Disconnect(c, client) }, nil

	case "milvus":
		client, err := milvus.NewClient(ctx, &cfg.Databases.Milvus)
		if err != nil {
			return nil, nil, err
		}
		store, err := chunkstore.NewMilvusChunkStore(client, cfg.Databases.Milvus.Collection, log)
		if err != nil {
			client.Close()
			return nil, nil, err
		}
		return store, func(context.Context) error { client.Close(); return nil }, nil

	default:
		return nil, nil, fmt.Errorf("unknown vector store backend: %q", cfg.VectorStore.Backend)
	}
}
