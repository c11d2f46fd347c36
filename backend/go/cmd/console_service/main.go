package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"VectorConsole/backend/go/internal/config"
	"VectorConsole/backend/go/internal/console_service/api"
	"VectorConsole/backend/go/internal/console_service/foldercache"
	"VectorConsole/backend/go/internal/console_service/processing"
	"VectorConsole/backend/go/internal/console_service/service"
	"VectorConsole/backend/go/internal/console_service/store"
	"VectorConsole/backend/go/internal/database/kafka"
	"VectorConsole/backend/go/internal/database/mongo"
	"VectorConsole/backend/go/internal/database/mysql"
	"VectorConsole/backend/go/internal/database/redis"
	httpserver "VectorConsole/backend/go/pkg/http"
	"VectorConsole/backend/go/pkg/logger"
)

func main() {
	cfg, err := config.LoadConfig("")
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger.Init(logger.ParseLevel(cfg.Logger.Level))
	appLogger := logger.New("console_service", "", "")
	appLogger.With("environment", cfg.App.Environment).Info("Logger initialized")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Store 只在这里创建一次，随进程结束
	persister, closeStorage, err := openPersister(ctx, cfg)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to open storage")
	}
	defer closeStorage()

	st := store.New(store.WithPersister(persister), store.WithLogger(appLogger.With("component", "store")))
	if err := st.Load(ctx); err != nil {
		appLogger.WithError(err).Fatal("Failed to load entities")
	}
	appLogger.With("driver", cfg.Storage.Driver).Info("Entity store loaded")

	cache, err := openFolderCache(ctx, cfg, st, appLogger)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to set up folder cache")
	}

	dispatcher, err := startProcessing(ctx, cfg, st, appLogger)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to start processing notifier")
	}

	svc := service.NewService(st, cache, dispatcher, cfg.Uploads.MaxBytes(), appLogger.With("component", "service"))

	verifier, err := api.NewKeyVerifier(cfg.Auth.APIKeyHashes, config.Duration(cfg.Auth.CacheTTL, 5*time.Minute), cfg.Auth.CacheSize)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to create API key verifier")
	}
	if len(cfg.Auth.APIKeyHashes) == 0 {
		appLogger.Warn("auth.apiKeyHashes is empty; every authenticated request will be rejected")
	}

	if cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := api.SetupRouter(api.NewHandler(svc), verifier, appLogger.With("component", "api"))

	srv, err := httpserver.NewServer(cfg, router)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to create HTTP server")
	}

	go func() {
		appLogger.Info("Starting HTTP server on " + srv.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.WithError(err).Fatal("HTTP server failed")
		}
	}()

	<-ctx.Done()
	appLogger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.Duration(cfg.Server.ShutdownTimeout, 10*time.Second))
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.WithError(err).Error("Server forced to shutdown")
	}
	if err := dispatcher.Close(); err != nil {
		appLogger.WithError(err).Error("Error closing processing dispatcher")
	}
	appLogger.Info("Server gracefully stopped")
}

// openPersister 根据 storage.driver 选择持久化后端。
func openPersister(ctx context.Context, cfg *config.AppConfig) (store.Persister, func(), error) {
	switch cfg.Storage.Driver {
	case "mysql":
		db, err := mysql.GetDB(&cfg.Databases.MySQL)
		if err != nil {
			return nil, nil, err
		}
		p := store.NewGormPersister(db)
		if cfg.Storage.AutoMigrate {
			if err := p.AutoMigrate(ctx); err != nil {
				return nil, nil, fmt.Errorf("auto migrate: %w", err)
			}
		}
		return p, func() { _ = mysql.Close() }, nil

	case "mongo":
		client, err := mongo.GetClient(&cfg.Databases.MongoDB)
		if err != nil {
			return nil, nil, err
		}
		p := store.NewMongoPersister(client, mongo.DatabaseName(&cfg.Databases.MongoDB))
		if cfg.Storage.AutoMigrate {
			if err := p.EnsureIndexes(ctx); err != nil {
				return nil, nil, fmt.Errorf("ensure indexes: %w", err)
			}
		}
		return p, func() { _ = mongo.Close(context.Background()) }, nil

	default:
		return store.NopPersister(), func() {}, nil
	}
}

// openFolderCache 创建导航缓存，并为所有已有项目预热。
func openFolderCache(ctx context.Context, cfg *config.AppConfig, st *store.Store, appLogger *logger.Logger) (*foldercache.Cache, error) {
	opts := []foldercache.Option{
		foldercache.WithLogger(appLogger.With("component", "foldercache")),
		foldercache.WithParallelism(cfg.FolderCache.Parallelism),
	}
	if cfg.FolderCache.RedisMirror {
		rdb, err := redis.GetClient(&cfg.Databases.Redis)
		if err != nil {
			return nil, err
		}
		mirror := foldercache.NewRedisMirror(rdb, redis.Namespace(cfg.FolderCache.KeyPrefix), config.Duration(cfg.FolderCache.TTL, 0))
		opts = append(opts, foldercache.WithMirror(mirror))
	}

	cache := foldercache.New(st, opts...)
	if cfg.FolderCache.RedisMirror {
		if err := cache.Warm(ctx); err != nil {
			appLogger.WithError(err).Warn("Folder cache warm-up from Redis failed")
		}
	}
	for _, p := range st.GetProjects() {
		// 失败时 Refresh 已记录警告并保留镜像中的旧值
		_, _ = cache.Refresh(ctx, p.ID)
	}
	return cache, nil
}

// startProcessing 按 processing.mode 创建派发器；kafka 模式同时启动结果消费者。
func startProcessing(ctx context.Context, cfg *config.AppConfig, st *store.Store, appLogger *logger.Logger) (processing.Dispatcher, error) {
	pc := cfg.Processing
	procLogger := appLogger.With("component", "processing")

	if pc.Mode != "kafka" {
		return processing.NewSimulator(st, config.Duration(pc.Delay, 3*time.Second), pc.ErrorRate,
			processing.WithSimulatorLogger(procLogger)), nil
	}

	admin, err := kafka.GetClient(&cfg.Databases.Kafka, pc.JobsTopic, pc.ResultsTopic)
	if err != nil {
		return nil, err
	}
	if err := admin.Close(); err != nil {
		procLogger.WithError(err).Warn("Error closing Kafka admin connection")
	}

	consumer := processing.NewResultConsumer(cfg.Databases.Kafka.Brokers, pc.ResultsTopic, pc.GroupID, st, procLogger)
	consumer.Start(ctx)
	go func() {
		<-ctx.Done()
		if err := consumer.Close(); err != nil {
			procLogger.WithError(err).Error("Error closing Kafka result consumer")
		}
	}()
	return processing.NewKafkaDispatcher(cfg.Databases.Kafka.Brokers, pc.JobsTopic, procLogger), nil
}
