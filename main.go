package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmdshop/cmdshop/internal/auth"
	"github.com/cmdshop/cmdshop/internal/cmds/export"
	"github.com/cmdshop/cmdshop/internal/cmds/handler"
	"github.com/cmdshop/cmdshop/internal/cmds/repository"
	"github.com/cmdshop/cmdshop/internal/cmds/service"
	"github.com/cmdshop/cmdshop/internal/config"
	"github.com/cmdshop/cmdshop/internal/database"
	"github.com/cmdshop/cmdshop/internal/storage"
	"github.com/cmdshop/cmdshop/pkg/logger"
	"github.com/cmdshop/cmdshop/pkg/metrics"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

const shutdownGrace = 10 * time.Second

func main() {
	// LOG_LEVEL: debug|info|warn|error|fatal; re-read once .env is loaded
	logger.Init(os.Getenv("LOG_LEVEL"))

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Init(cfg.LogLevel)
	logger.Infow("config loaded", "store", cfg.Store.Driver, "redis", cfg.Redis.Enabled(), "minio", cfg.MinIO.Configured(), "auth_required", cfg.Auth.Required)
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient = redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr(), Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Warnw("redis unavailable; rate limiting falls back to memory and logout is disabled", "addr", cfg.Redis.Addr(), "err", err)
			_ = redisClient.Close()
			redisClient = nil
		} else {
			defer func() { _ = redisClient.Close() }()
		}
	}

	var (
		repo        repository.Repository
		mongoClient *mongo.Client
	)
	switch cfg.Store.Driver {
	case config.DriverMongo:
		mongoClient, err = database.Retry(ctx, 5, time.Second, func(ctx context.Context) (*mongo.Client, error) {
			return database.ConnectMongo(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout)
		})
		if err != nil {
			logger.Fatalf("mongo: %v", err)
		}
		mr := repository.NewMongoRepo(mongoClient.Database(cfg.MongoDB.Database).Collection(cfg.MongoDB.Collection))
		if err := mr.EnsureIndexes(ctx); err != nil {
			logger.Warnw("could not ensure cmd indexes", "err", err)
		}
		repo = mr
		logger.Infow("using MongoDB store", "database", cfg.MongoDB.Database, "collection", cfg.MongoDB.Collection)
	default:
		repo = repository.NewMemoryRepo()
		logger.Warn("using in-memory store; cmds are lost on restart")
	}
	svc := service.New(repo)

	var exp handler.Exporter
	if cfg.MinIO.Configured() {
		objects, err := storage.NewMinIOStorage(ctx, &cfg.MinIO)
		if err != nil {
			logger.Warnw("snapshot export disabled", "endpoint", cfg.MinIO.Endpoint, "err", err)
		} else {
			exp = export.NewExporter(svc, objects, cfg.Export.URLTTL)
		}
	}

	verifier, kind, err := auth.SelectVerifier(ctx, cfg.Auth)
	if err != nil {
		logger.Fatalf("auth: %v", err)
	}
	if verifier != nil {
		logger.Infow("token verifier ready", "kind", kind, "required", cfg.Auth.Required)
	}

	metrics.RegisterCollectors(prometheus.DefaultRegisterer)

	r := newRouter(routerDeps{
		cfg:         cfg,
		svc:         svc,
		exporter:    exp,
		verifier:    verifier,
		revocations: auth.NewRedisRevocationList(redisClient),
		redis:       redisClient,
	})

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("cmdshop listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			logger.Errorw("server failed", "err", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorw("graceful shutdown failed", "err", err)
	}
	if mongoClient != nil {
		if err := mongoClient.Disconnect(shutdownCtx); err != nil {
			logger.Errorw("mongo disconnect failed", "err", err)
		}
	}
	logger.Info("stopped")
}
