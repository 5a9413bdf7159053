package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/kailas-cloud/partdex/internal/config"
	dbRedis "github.com/kailas-cloud/partdex/internal/db/redis"
	dompart "github.com/kailas-cloud/partdex/internal/domain/part"
	logpkg "github.com/kailas-cloud/partdex/internal/logger"
	"github.com/kailas-cloud/partdex/internal/metrics"
	partrepo "github.com/kailas-cloud/partdex/internal/repository/part"
	"github.com/kailas-cloud/partdex/internal/repository/querycache"
	vectorrepo "github.com/kailas-cloud/partdex/internal/repository/vector"
	chiTransport "github.com/kailas-cloud/partdex/internal/transport/chi"
	openaiTransport "github.com/kailas-cloud/partdex/internal/transport/openai"
	healthuc "github.com/kailas-cloud/partdex/internal/usecase/health"
	partsuc "github.com/kailas-cloud/partdex/internal/usecase/parts"
	searchuc "github.com/kailas-cloud/partdex/internal/usecase/search"
	"github.com/kailas-cloud/partdex/internal/version"
)

func main() {
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting partdex API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("db_addrs", cfg.Database.Addrs),
	)

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Password: cfg.Database.Password,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Register search metrics explicitly (no init())
	metrics.RegisterSearchMetrics()

	embedder := openaiTransport.NewEmbedder(&openaiTransport.EmbedderConfig{
		APIKey:     cfg.Embedding.APIKey,
		BaseURL:    cfg.Embedding.BaseURL,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
		Logger:     logger,
	})
	logger.Info("Embedder created",
		zap.String("model", cfg.Embedding.Model),
		zap.Int("dimensions", cfg.Embedding.Dimensions),
	)

	var explainer searchuc.Explainer = noopExplainer{}
	if cfg.Completion.Model != "" {
		explainer = openaiTransport.NewCompleter(&openaiTransport.CompleterConfig{
			APIKey:    cfg.Completion.APIKey,
			BaseURL:   cfg.Completion.BaseURL,
			Model:     cfg.Completion.Model,
			MaxTokens: cfg.Completion.MaxTokens,
			Logger:    logger,
		})
		logger.Info("Explanation completer created", zap.String("model", cfg.Completion.Model))
	}

	// Repositories
	vectorStore := vectorrepo.New(store, cfg.Storage.KeyPrefix)
	partStore := partrepo.New(store, cfg.Storage.KeyPrefix)
	cacheTTL := time.Duration(cfg.Search.CacheTTLDays) * 24 * time.Hour
	resultCache := querycache.New(store, cfg.Storage.KeyPrefix, cacheTTL, logger)

	// Use case services
	searchSvc := searchuc.New(vectorStore, partStore, embedder, explainer, resultCache,
		searchuc.Options{
			Alpha:          cfg.Search.HybridAlpha,
			K1:             cfg.Search.BM25K1,
			B:              cfg.Search.BM25B,
			LexicalFusion:  cfg.Search.LexicalFusion,
			FetchWorkers:   cfg.Search.VectorFetchWorkers,
			ExplainWorkers: cfg.Search.ExplainWorkers,
		}, logger)
	partsSvc := partsuc.New(partStore, vectorStore, embedder,
		cfg.Search.DefaultPageSize, cfg.Search.MaxPageSize, logger)
	healthSvc := healthuc.New(store, embedder)

	server := chiTransport.NewServer(searchSvc, partsSvc, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.RegisterRoutes(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// noopExplainer disables enrichment when no completion model is
// configured; every result gets the generic fallback reason.
type noopExplainer struct{}

func (noopExplainer) Explain(context.Context, string, dompart.Part) (string, error) {
	return "", nil
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
