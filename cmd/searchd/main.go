package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/karthikg/litesearch/internal/analytics/collector"
	"github.com/karthikg/litesearch/internal/indexer"
	"github.com/karthikg/litesearch/internal/searcher/cache"
	"github.com/karthikg/litesearch/internal/searcher/executor"
	"github.com/karthikg/litesearch/internal/searcher/handler"
	"github.com/karthikg/litesearch/internal/source"
	"github.com/karthikg/litesearch/pkg/config"
	"github.com/karthikg/litesearch/pkg/health"
	"github.com/karthikg/litesearch/pkg/kafka"
	"github.com/karthikg/litesearch/pkg/logger"
	"github.com/karthikg/litesearch/pkg/metrics"
	"github.com/karthikg/litesearch/pkg/postgres"
	"github.com/karthikg/litesearch/pkg/redis"
	"github.com/karthikg/litesearch/pkg/resilience"
)

func main() {
	configPath := flag.String("config", "configs/development.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Info("starting search service", "corpus_source", cfg.Corpus.Source)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New()
		shutdownMetrics := metrics.StartServer(cfg.Metrics.Port)
		defer shutdownMetrics(context.Background())
	}

	checker := health.NewChecker()

	corpus, pgClient, err := buildCorpus(ctx, cfg)
	if err != nil {
		slog.Error("failed to set up corpus", "error", err)
		os.Exit(1)
	}
	if pgClient != nil {
		defer pgClient.Close()
		checker.Register("postgres", true, health.PingCheck(pgClient.Ping))
	}

	var queryCache *cache.QueryCache
	if cfg.Redis.Enabled {
		var redisClient *redis.Client
		err := resilience.DefaultRetry.Do(ctx, "redis-connect", func() error {
			var connErr error
			redisClient, connErr = redis.NewClient(cfg.Redis)
			return connErr
		})
		if err != nil {
			slog.Error("failed to connect to redis", "error", err)
			os.Exit(1)
		}
		defer redisClient.Close()
		queryCache = cache.New(redisClient, cfg.Redis.CacheTTL, m)
		checker.Register("redis", false, health.PingCheck(redisClient.Ping))
	}

	var queryColl, indexColl *collector.BatchCollector
	if cfg.Analytics.Enabled {
		queryProducer := kafka.NewProducer(cfg.Kafka, cfg.Kafka.Topics.QueryEvents)
		defer queryProducer.Close()
		queryColl = collector.New(queryProducer, cfg.Analytics.BatchSize, cfg.Analytics.FlushInterval)
		queryColl.Start(ctx)
		defer queryColl.Close()

		indexProducer := kafka.NewProducer(cfg.Kafka, cfg.Kafka.Topics.IndexEvents)
		defer indexProducer.Close()
		indexColl = collector.New(indexProducer, cfg.Analytics.BatchSize, cfg.Analytics.FlushInterval)
		indexColl.Start(ctx)
		defer indexColl.Close()
	}

	builder := indexer.New(corpus, m, indexColl)
	if err := builder.Build(ctx); err != nil {
		slog.Error("index build failed", "error", err)
		os.Exit(1)
	}
	checker.Register("index", true, health.StaticCheck("index built"))

	exec := executor.New(builder.Index())
	h := handler.New(builder.Index(), exec, builder.Normalizer(), queryCache, queryColl, m)
	router := handler.NewRouter(h, checker, m, cfg.Server.RequestTimeout)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		slog.Info("search service listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown failed", "error", err)
	}
	slog.Info("search service stopped")
}

// buildCorpus creates the configured corpus implementation. The returned
// postgres client is nil for the file corpus.
func buildCorpus(ctx context.Context, cfg *config.Config) (source.Corpus, *postgres.Client, error) {
	switch cfg.Corpus.Source {
	case "file", "":
		return source.NewFileCorpus(cfg.Corpus.DocsFile, cfg.Corpus.NoiseWordsFile), nil, nil
	case "postgres":
		var client *postgres.Client
		err := resilience.DefaultRetry.Do(ctx, "postgres-connect", func() error {
			var connErr error
			client, connErr = postgres.New(cfg.Postgres)
			return connErr
		})
		if err != nil {
			return nil, nil, err
		}
		return source.NewPostgresCorpus(client, cfg.Corpus), client, nil
	default:
		return nil, nil, fmt.Errorf("unknown corpus source %q", cfg.Corpus.Source)
	}
}
