// cmd/chat-assistant/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"catalog-assistant/internal/api"
	"catalog-assistant/internal/catalog"
	"catalog-assistant/internal/common/camunda"
	"catalog-assistant/internal/common/config"
	"catalog-assistant/internal/common/database"
	"catalog-assistant/internal/common/logger"
	"catalog-assistant/internal/common/observability"
	"catalog-assistant/internal/conversation"
	"catalog-assistant/internal/response"

	acq "catalog-assistant/internal/workers/ai-conversation/answer-catalog-query"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting chat assistant...", zap.String("environment", cfg.App.Environment))

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	// --- Init Redis (optional) ---
	var rdb *redis.Client
	if cache := database.NewRedis(cfg.Database.Redis); cache != nil {
		err = retryWithBackoff(func() error {
			return cache.Ping(ctx)
		}, 10, 2*time.Second, zapLog, "Redis connection")
		if err != nil {
			zapLog.Warn("redis unavailable, retrieval cache disabled", zap.Error(err))
			cache.Close()
		} else {
			defer cache.Close()
			rdb = cache.Client
			zapLog.Info("Redis connected successfully")
		}
	}

	// --- Init Elasticsearch (only when it backs product search) ---
	var es *elasticsearch.Client
	if cfg.Chat.ProductSearch == config.ProductSearchElasticsearch {
		var esClient *database.ElasticsearchClient
		err = retryWithBackoff(func() error {
			var err error
			esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
			if err != nil {
				return err
			}
			return esClient.Ping(ctx)
		}, 15, 2*time.Second, zapLog, "Elasticsearch connection")
		if err != nil {
			zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
		}
		es = esClient.Client
		zapLog.Info("Elasticsearch connected successfully")
	}

	// --- Chat engine ---
	formatter, err := response.NewFormatterFromConfig(cfg.Chat)
	if err != nil {
		zapLog.Fatal("invalid chat formatting settings", zap.Error(err))
	}
	gateway := catalog.NewGatewayFromConfig(cfg, pg.DB, rdb, es, log)
	engine := conversation.NewEngine(gateway, formatter, obs, log)

	// --- Zeebe worker (optional) ---
	var zeebeClient *camunda.Client
	var jobWorker worker.JobWorker
	if cfg.Camunda.Enabled {
		err = retryWithBackoff(func() error {
			var err error
			zeebeClient, err = camunda.NewClient(cfg.Camunda)
			return err
		}, 10, 2*time.Second, zapLog, "Zeebe client initialization")
		if err != nil {
			zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
		}
		zapLog.Info("Zeebe client connected successfully")

		wcfg := config.GetWorkerConfig(cfg, acq.TaskType)
		handler := acq.NewHandler(acq.LoadConfig(wcfg), engine, log)
		jobWorker = camunda.StartWorker(zeebeClient.GetClient(), acq.TaskType, wcfg, handler.Handle, zapLog)
	}

	// --- HTTP API ---
	ready := func(ctx context.Context) error {
		if err := pg.Ping(ctx); err != nil {
			return err
		}
		if zeebeClient != nil {
			return zeebeClient.HealthCheck(ctx)
		}
		return nil
	}
	sessions := api.NewSessions(engine, cfg.Chat.SessionIdleTTL(), log)
	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	go sessions.Run(sweepCtx, time.Minute)
	router := api.NewRouter(api.NewHandler(sessions, log), ready, cfg.Server.AllowOrigins, log)

	srv := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		zapLog.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Error("HTTP server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	stopSweep()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error stopping HTTP server", zap.Error(err))
	}
	if jobWorker != nil {
		jobWorker.Close()
		jobWorker.AwaitClose()
	}
	if zeebeClient != nil {
		if err := zeebeClient.Close(); err != nil {
			zapLog.Error("Error closing Zeebe client", zap.Error(err))
		}
	}

	zapLog.Info("Chat assistant stopped gracefully")
}
