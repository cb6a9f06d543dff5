package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"jobmarket-workers/internal/common/camunda"
	"jobmarket-workers/internal/common/config"
	"jobmarket-workers/internal/common/logger"
	"jobmarket-workers/internal/common/observability"
	"jobmarket-workers/internal/common/validation"
	"jobmarket-workers/internal/salary"
	"jobmarket-workers/internal/snapshot"
	aa "jobmarket-workers/internal/workers/market/aggregate-analytics"
	bd "jobmarket-workers/internal/workers/market/build-dashboard"
	es "jobmarket-workers/internal/workers/market/estimate-salary"
	"jobmarket-workers/pkg/registry"
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
		bootLog := logger.New("info", "console")
		bootLog.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...",
		zap.String("app", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	obs := observability.New(cfg.App.Name, nil, log)
	if err := obs.EnableTracing(cfg.Tracing); err != nil {
		zapLog.Fatal("tracing setup failed", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := obs.Shutdown(ctx); err != nil {
			zapLog.Error("observability shutdown failed", zap.Error(err))
		}
	}()

	var zeebe *camunda.Client
	err = retryWithBackoff(func() error {
		var err error
		zeebe, err = camunda.NewClient(camunda.ConfigFrom(cfg.Camunda))
		return err
	}, 10, 2*time.Second, zapLog, "Zeebe client initialization")
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	defer zeebe.Close()
	zapLog.Info("Zeebe client connected successfully", zap.String("gateway", cfg.Camunda.BrokerAddress))

	chain, err := snapshot.FromConfig(cfg, log)
	if err != nil {
		zapLog.Fatal("snapshot source setup failed", zap.Error(err))
	}
	defer chain.Close()

	estimators, err := salary.NewRegional(cfg.Estimator.Tables)
	if err != nil {
		zapLog.Fatal("estimator tables invalid", zap.Error(err))
	}
	zapLog.Info("Salary estimators ready", zap.Strings("regions", estimators.Regions()))

	reg, err := registry.LoadRegistry(cfg.Registry.Path)
	if err != nil {
		zapLog.Warn("activity registry unavailable, input validation disabled", zap.Error(err))
	}
	validatorFor := func(taskType string) *validation.Validator {
		v, err := validation.NewValidator(reg.InputSchema(taskType))
		if err != nil {
			zapLog.Fatal("invalid input schema", zap.String("taskType", taskType), zap.Error(err))
		}
		return v
	}

	pool := camunda.NewPool(zeebe.Raw(), log)
	defaultRegion := snapshot.NormalizeRegion(cfg.Snapshots.DefaultRegion)

	{
		wcfg := config.GetWorkerConfig(cfg, es.TaskType)
		handler := es.NewHandler(
			&es.Config{
				Timeout:       time.Duration(wcfg.Timeout) * time.Millisecond,
				DefaultRegion: defaultRegion,
			},
			estimators, validatorFor(es.TaskType), obs, log,
		)
		pool.Start(es.TaskType, wcfg, handler.Handle)
	}

	{
		wcfg := config.GetWorkerConfig(cfg, aa.TaskType)
		handler := aa.NewHandler(
			&aa.Config{
				Timeout:       time.Duration(wcfg.Timeout) * time.Millisecond,
				DefaultRegion: defaultRegion,
			},
			chain.Source, validatorFor(aa.TaskType), obs, log,
		)
		pool.Start(aa.TaskType, wcfg, handler.Handle)
	}

	{
		wcfg := config.GetWorkerConfig(cfg, bd.TaskType)
		handler := bd.NewHandler(
			&bd.Config{
				Timeout:       time.Duration(wcfg.Timeout) * time.Millisecond,
				DefaultRegion: defaultRegion,
			},
			chain.Source, validatorFor(bd.TaskType), obs, log,
		)
		pool.Start(bd.TaskType, wcfg, handler.Handle)
	}
	zapLog.Info("Workers registered", zap.Strings("taskTypes", pool.TaskTypes()))

	// --- Health & Metrics Server ---
	var server *http.Server
	if cfg.Metrics.Enabled {
		mux := http.NewServeMux()
		mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			writeStatus(w, http.StatusOK, "healthy")
		})
		mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
			if err := zeebe.HealthCheck(r.Context()); err != nil {
				writeStatus(w, http.StatusServiceUnavailable, "not ready")
				return
			}
			writeStatus(w, http.StatusOK, "ready")
		})
		mux.Handle("/metrics", promhttp.Handler())

		server = &http.Server{Addr: cfg.Metrics.Address, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			zapLog.Info("Health/Metrics server listening", zap.String("address", cfg.Metrics.Address))
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				zapLog.Error("Health/Metrics server failed", zap.Error(err))
			}
		}()
	}

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool.Close()
	if server != nil {
		if err := server.Shutdown(shutdownCtx); err != nil {
			zapLog.Error("Error stopping Health/Metrics server", zap.Error(err))
		}
	}

	zapLog.Info("Worker manager stopped gracefully")
}

func writeStatus(w http.ResponseWriter, code int, status string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{
		"status": status,
		"time":   time.Now().Format(time.RFC3339),
	})
}
