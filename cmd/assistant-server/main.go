// cmd/assistant-server/main.go
package main

import (
	"context"
	stderrors "errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"seller-assistant/internal/api"
	"seller-assistant/internal/app"
	"seller-assistant/internal/common/camunda"
	"seller-assistant/internal/common/config"
	"seller-assistant/internal/common/database"
	"seller-assistant/internal/common/logger"
	"seller-assistant/internal/common/observability"
	"seller-assistant/internal/credentials"
	"seller-assistant/internal/sale"
	gr "seller-assistant/internal/workers/messaging/generate-reply"
	pds "seller-assistant/internal/workers/sales/plan-daily-sale"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		zap.NewExample().Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format).
		With(zap.String("service", cfg.App.Name), zap.String("environment", cfg.App.Environment))
	defer func() { _ = zapLog.Sync() }()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting seller assistant...")

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Redis credential store with retry ---
	rdb, err := database.ConnectRedis(ctx, cfg.Redis, app.RetryPolicy(cfg), log)
	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer func() { _ = rdb.Close() }()
	zapLog.Info("Redis connected successfully", zap.String("address", cfg.Redis.Address))

	store := credentials.NewRedisStore(rdb, cfg.Redis.CredentialKey)
	bootstrapCredential(ctx, store, cfg.LLM.APIKey, log)

	// --- Reply pipeline ---
	completer := app.NewCompleter(cfg)
	pipeline, err := app.NewPipeline(cfg, completer, log, obs)
	if err != nil {
		zapLog.Fatal("reply pipeline init failed", zap.Error(err))
	}
	zapLog.Info("Reply pipeline ready", zap.String("model", completer.Model()), zap.String("baseURL", cfg.LLM.BaseURL))

	// --- Sale scheduler ---
	scheduler := app.NewScheduler(cfg, log, nil)
	if cfg.Sale.Enabled {
		go scheduler.Run(ctx)
	} else {
		zapLog.Info("daily sale scheduling disabled")
	}

	// --- Zeebe workers ---
	if cfg.Camunda.Enabled {
		client, workers := startWorkers(ctx, cfg, pipeline, store, scheduler, log, obs)
		defer func() { _ = client.Close() }()
		defer workers.Stop()
	}

	// --- HTTP API, health & metrics ---
	if cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	handler := api.NewHandler(pipeline, store, scheduler, func(ctx context.Context) error {
		return database.Ping(ctx, rdb)
	}, log)

	srv := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      api.NewRouter(handler, log),
		ReadTimeout:  config.GetDuration(cfg.Server.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.Server.WriteTimeout),
	}

	go func() {
		zapLog.Info("HTTP server listening", zap.String("address", cfg.Server.Address))
		if err := srv.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			zapLog.Error("HTTP server failed", zap.Error(err))
			stop()
		}
	}()

	// --- Graceful Shutdown ---
	<-ctx.Done()
	zapLog.Info("Shutdown signal received, stopping...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeout))
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("HTTP server shutdown failed", zap.Error(err))
	}

	zapLog.Info("Seller assistant stopped gracefully")
}

// bootstrapCredential seeds the store from configuration when nothing has been saved yet.
func bootstrapCredential(ctx context.Context, store credentials.Store, configured string, log logger.Logger) {
	if configured == "" {
		return
	}
	status, err := credentials.GetStatus(ctx, store)
	if err != nil {
		log.Warn("credential status unavailable", map[string]interface{}{"error": err.Error()})
		return
	}
	if status.Configured {
		return
	}
	if err := store.Save(ctx, configured); err != nil {
		log.Warn("credential bootstrap failed", map[string]interface{}{"error": err.Error()})
		return
	}
	log.Info("API credential bootstrapped from configuration", map[string]interface{}{
		"masked": credentials.Mask(configured),
	})
}

func startWorkers(
	ctx context.Context,
	cfg *config.Config,
	replier gr.Replier,
	store credentials.Store,
	scheduler *sale.Scheduler,
	log logger.Logger,
	obs *observability.Observability,
) (*camunda.Client, *camunda.Workers) {
	client, err := camunda.Connect(ctx, cfg.Camunda, app.RetryPolicy(cfg), log)
	if err != nil {
		logger.Unwrap(log).Fatal("zeebe client failed after retries", zap.Error(err))
	}

	workers := camunda.NewWorkers(client.Raw(), log)

	workers.Start(gr.TaskType, config.GetWorkerConfig(cfg, gr.TaskType),
		gr.NewHandler(gr.LoadConfig(cfg), replier, store, log, obs))
	workers.Start(pds.TaskType, config.GetWorkerConfig(cfg, pds.TaskType),
		pds.NewHandler(pds.LoadConfig(cfg), scheduler, log, obs))

	return client, workers
}
