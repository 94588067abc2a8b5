package docuchat

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"

	"github.com/kart-io/docuchat/internal/docuchat/biz"
	"github.com/kart-io/docuchat/internal/docuchat/docstore"
	"github.com/kart-io/docuchat/internal/docuchat/handler"
	"github.com/kart-io/docuchat/internal/docuchat/loader"
	"github.com/kart-io/docuchat/internal/docuchat/router"
	"github.com/kart-io/docuchat/internal/docuchat/splitter"
	"github.com/kart-io/docuchat/internal/docuchat/store"
	"github.com/kart-io/docuchat/pkg/llm"
	"github.com/kart-io/docuchat/pkg/llm/ollama"
	"github.com/kart-io/docuchat/pkg/log"
)

// Run builds the service from opts and serves it until SIGINT or
// SIGTERM.
func Run(opts *Options) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := opts.Log.Init(appName); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = log.Sync() }()
	log.Infow("starting docuchat", "addr", opts.HTTP.Addr)

	docs, err := docstore.New(opts.Docstore.Dir)
	if err != nil {
		return fmt.Errorf("failed to open document store: %w", err)
	}

	vectors, err := newVectorStore(ctx, opts)
	if err != nil {
		return err
	}
	defer func() { _ = vectors.Close(context.Background()) }()

	provider := ollama.NewProviderWithConfig(&ollama.Config{
		BaseURL:    opts.Ollama.BaseURL,
		EmbedModel: opts.Ollama.EmbedModel,
		ChatModel:  opts.Ollama.ChatModel,
		Timeout:    opts.Ollama.Timeout,
		MaxRetries: opts.Ollama.MaxRetries,
	})
	if err := provider.Ping(ctx); err != nil {
		log.Warnw("ollama is not reachable, continuing anyway", "base_url", opts.Ollama.BaseURL, "error", err.Error())
	}

	redisClient := newRedisClient(ctx, opts)
	if redisClient != nil {
		defer func() { _ = redisClient.Close() }()
	}

	var embedder llm.EmbeddingProvider = provider
	if redisClient != nil {
		embedder = llm.NewCachedEmbeddingProvider(provider, redisClient, nil)
	}

	split, err := splitter.New(opts.RAG.ChunkSize, opts.RAG.ChunkOverlap)
	if err != nil {
		return fmt.Errorf("invalid chunking configuration: %w", err)
	}

	ingester := biz.NewIngester(docs, loader.NewRegistry(), split, embedder, vectors)
	remover := biz.NewRemover(docs, vectors)
	agents := biz.NewAgentCache(func(model string) *biz.Answerer {
		return biz.NewAnswerer(vectors, embedder, provider.ForModel(model), &biz.AnswererConfig{
			TopK:           opts.RAG.TopK,
			PromptTemplate: opts.RAG.SystemPrompt,
		})
	}, opts.Cache.AgentTTL)
	answerCache := biz.NewAnswerCache(redisClient, &biz.AnswerCacheConfig{
		Enabled:   opts.Cache.Enabled && redisClient != nil,
		TTL:       opts.Cache.TTL,
		KeyPrefix: opts.Cache.KeyPrefix,
	})

	service := biz.NewQAService(ingester, remover, agents, answerCache, docs, provider, opts.Ollama.EmbedModel)

	engine := newEngine(opts)
	router.Register(engine, handler.New(service))

	return serve(ctx, opts, engine)
}

// newVectorStore builds the configured vector store backend and makes
// sure its collection exists.
func newVectorStore(ctx context.Context, opts *Options) (store.VectorStore, error) {
	switch opts.RAG.Driver {
	case "memory":
		log.Infow("using in-memory vector store")
		return store.NewMemoryStore(), nil
	case "milvus":
		milvusStore, err := store.NewMilvusStore(opts.Milvus, opts.RAG.Collection, opts.RAG.EmbeddingDim)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to milvus: %w", err)
		}
		if err := milvusStore.EnsureCollection(ctx); err != nil {
			_ = milvusStore.Close(context.Background())
			return nil, fmt.Errorf("failed to ensure collection %q: %w", opts.RAG.Collection, err)
		}
		log.Infow("milvus vector store ready", "address", opts.Milvus.Address, "collection", opts.RAG.Collection)
		return milvusStore, nil
	default:
		return nil, fmt.Errorf("unknown vector store driver %q", opts.RAG.Driver)
	}
}

// newRedisClient connects to Redis when the answer cache is enabled.
// An unreachable Redis disables caching instead of failing startup.
func newRedisClient(ctx context.Context, opts *Options) *goredis.Client {
	if !opts.Cache.Enabled {
		return nil
	}

	client := goredis.NewClient(&goredis.Options{
		Addr:        opts.Redis.Addr,
		Password:    opts.Redis.Password,
		DB:          opts.Redis.DB,
		DialTimeout: opts.Redis.DialTimeout,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		log.Warnw("failed to connect to redis, caching disabled", "addr", opts.Redis.Addr, "error", err.Error())
		_ = client.Close()
		return nil
	}

	log.Infow("redis connected", "addr", opts.Redis.Addr)
	return client
}

func newEngine(opts *Options) *gin.Engine {
	if !opts.Log.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	return engine
}

// serve runs the HTTP server until ctx is canceled, then shuts it down
// gracefully within the configured timeout.
func serve(ctx context.Context, opts *Options, engine *gin.Engine) error {
	srv := &http.Server{
		Addr:         opts.HTTP.Addr,
		Handler:      engine,
		ReadTimeout:  opts.HTTP.ReadTimeout,
		WriteTimeout: opts.HTTP.WriteTimeout,
		IdleTimeout:  opts.HTTP.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infow("http server listening", "addr", opts.HTTP.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
	}

	log.Infow("shutting down", "timeout", opts.HTTP.ShutdownTimeout.String())
	shutdownCtx, cancel := context.WithTimeout(context.Background(), opts.HTTP.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	log.Infow("server stopped")
	return nil
}
