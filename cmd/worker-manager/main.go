// cmd/worker-manager/main.go
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

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"investr-engine/internal/api"
	"investr-engine/internal/common/camunda"
	"investr-engine/internal/common/config"
	"investr-engine/internal/common/database"
	"investr-engine/internal/common/logger"
	"investr-engine/internal/common/observability"
	"investr-engine/internal/common/validation"
	"investr-engine/internal/investment/engine"
	"investr-engine/internal/investment/features"
	"investr-engine/internal/investment/history"
	"investr-engine/internal/investment/model"
	"investr-engine/internal/investment/simcache"
	"investr-engine/pkg/registry"

	rp "investr-engine/internal/workers/investment/recommend-property"
	rr "investr-engine/internal/workers/investment/record-recommendation"
	sm "investr-engine/internal/workers/investment/simulate-mortgage"
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
		logger.New("info", "console").Fatal("config load failed", zap.Error(err))
	}

	zapLog, err := logger.NewFromConfig(cfg.Logging)
	if err != nil {
		zapLog = logger.New(cfg.Logging.Level, cfg.Logging.Format)
		zapLog.Warn("falling back to default log output", zap.Error(err))
	}
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...",
		zap.String("app", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	obs, err := observability.New(cfg.App.Name)
	if err != nil {
		zapLog.Warn("OpenTelemetry metrics disabled", zap.Error(err))
	}
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Model & engine ---
	adapter, err := model.Load(cfg.Model.ArtifactPath, features.V1, log)
	if err != nil {
		zapLog.Fatal("model artifact load failed", zap.Error(err))
	}
	eng := engine.New(adapter, nil, log, engine.WithObservability(obs))

	reg, err := registry.LoadRegistry(cfg.Model.RegistryPath)
	if err != nil {
		zapLog.Fatal("activity registry load failed", zap.Error(err))
	}
	if err := reg.Validate(); err != nil {
		zapLog.Fatal("activity registry invalid", zap.Error(err))
	}

	// --- Init Redis with retry ---
	var redisClient *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		redisClient, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return redisClient.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")

	var rdb *redis.Client
	if err != nil {
		// the cache is optional; simulations are computed without it
		zapLog.Error("redis unavailable, simulation cache disabled", zap.Error(err))
	} else {
		defer redisClient.Close()
		rdb = redisClient.Client
		zapLog.Info("Redis connected successfully")
	}

	// --- Init history sinks ---
	var recorder *history.Recorder
	if cfg.History.Enabled {
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

		store := history.NewPostgresStore(pg.DB)
		if err := store.EnsureSchema(ctx); err != nil {
			zapLog.Fatal("history schema setup failed", zap.Error(err))
		}

		var esClient *database.ElasticsearchClient
		err = retryWithBackoff(func() error {
			var err error
			esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
			if err != nil {
				return err
			}
			return esClient.Ping()
		}, 15, 2*time.Second, zapLog, "Elasticsearch connection")

		if err != nil {
			zapLog.Error("elasticsearch unavailable, recommendations will not be indexed", zap.Error(err))
			recorder = history.NewRecorder(store, nil, log)
		} else {
			zapLog.Info("Elasticsearch connected successfully")
			recorder = history.NewRecorder(store,
				history.NewElasticsearchIndexer(esClient.Client, cfg.History.Index), log)
		}
	}

	// --- Init Zeebe Client with retry ---
	var zeebe *camunda.Client
	err = retryWithBackoff(func() error {
		var err error
		zeebe, err = camunda.NewClientWithConfig(&camunda.ClientConfig{
			GatewayAddress:         cfg.Camunda.BrokerAddress,
			UsePlaintextConnection: true,
			ConnectionTimeout:      config.GetDuration(cfg.Camunda.RequestTimeout),
		})
		return err
	}, 10, 2*time.Second, zapLog, "Zeebe client initialization")

	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	zapLog.Info("Zeebe client connected successfully")

	// --- Register workers ---
	workers := camunda.NewWorkers(zeebe.Zeebe(), log)

	schemaFor := func(taskType string) *validation.Schema {
		schema, err := reg.InputValidator(taskType)
		if err != nil {
			zapLog.Fatal("no input schema for worker", zap.String("taskType", taskType), zap.Error(err))
		}
		return schema
	}

	if taskType := rp.TaskType; config.IsWorkerEnabled(cfg, taskType) {
		wcfg := config.GetWorkerConfig(cfg, taskType)
		handler := rp.NewHandler(rp.LoadConfig(wcfg), eng, schemaFor(taskType), log)
		workers.Start(taskType, wcfg, handler.Handle)
	}

	if taskType := sm.TaskType; config.IsWorkerEnabled(cfg, taskType) {
		wcfg := config.GetWorkerConfig(cfg, taskType)
		handler := sm.NewHandler(sm.LoadConfig(wcfg, cfg.Cache), eng, rdb, schemaFor(taskType), log)
		workers.Start(taskType, wcfg, handler.Handle)
	}

	if taskType := rr.TaskType; recorder != nil && config.IsWorkerEnabled(cfg, taskType) {
		wcfg := config.GetWorkerConfig(cfg, taskType)
		handler := rr.NewHandler(rr.LoadConfig(wcfg), recorder, schemaFor(taskType), log)
		workers.Start(taskType, wcfg, handler.Handle)
	}
	zapLog.Info("Workers registered", zap.Strings("taskTypes", workers.Running()))

	// --- HTTP API ---
	checks := map[string]api.ReadinessCheck{
		"zeebe": zeebe.HealthCheck,
	}
	if rdb != nil {
		checks["redis"] = redisClient.Ping
	}

	gin.SetMode(gin.ReleaseMode)
	router := api.NewRouter(eng, api.Options{
		RateLimitRPS:   cfg.API.RateLimitRPS,
		RateLimitBurst: cfg.API.RateLimitBurst,
		Cache:          simcache.New(rdb, time.Duration(cfg.Cache.SimulationTTL)*time.Second, log),
		Checks:         checks,
	}, log)
	server := api.NewServer(cfg.API, router)

	go func() {
		zapLog.Info("HTTP API listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Error("HTTP API server failed", zap.Error(err))
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error shutting down HTTP API", zap.Error(err))
	}

	workers.Close()

	if err := zeebe.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}
