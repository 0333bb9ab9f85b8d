package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/transitdocs/doctrack/internal/bootstrap"
	"github.com/transitdocs/doctrack/internal/config"
	"github.com/transitdocs/doctrack/internal/core/domain"
	"github.com/transitdocs/doctrack/internal/observability/logging"
	"github.com/transitdocs/doctrack/internal/observability/metrics"
)

const serviceName = "worker"

const jobTimeout = 5 * time.Minute

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := logging.NewJSONLogger(serviceName, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("bootstrap failed", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	workerMetrics := metrics.NewWorkerMetrics(serviceName)
	metricsServer := &http.Server{
		Addr:    ":" + cfg.WorkerMetricsPort,
		Handler: metricsMux(workerMetrics),
	}
	go func() {
		logger.Info("worker metrics listening", "addr", metricsServer.Addr)
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("worker metrics server failed", "error", err)
		}
	}()

	logger.Info("worker subscribed", "subject", cfg.NATSSubject)
	err = app.Queue.SubscribeProcessingJobs(ctx, func(handlerCtx context.Context, job domain.ProcessingJob) error {
		processCtx, cancel := context.WithTimeout(handlerCtx, jobTimeout)
		defer cancel()

		if !job.UploadedAt.IsZero() {
			workerMetrics.ObserveQueueLag(serviceName, time.Since(job.UploadedAt))
		}
		workerMetrics.StartJob()
		start := time.Now()
		category, processErr := app.ProcessUC.Process(processCtx, job)
		workerMetrics.FinishJob(serviceName, category, time.Since(start), processErr)
		if processErr != nil {
			logger.Error("processing failed",
				"job_id", job.ID,
				"filename", job.Filename,
				"error", processErr,
			)
			return processErr
		}
		logger.Info("document processed",
			"job_id", job.ID,
			"filename", job.Filename,
			"category", category,
		)
		return nil
	})
	if err != nil {
		logger.Error("worker subscribe failed", "error", err)
		os.Exit(1)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = metricsServer.Shutdown(shutdownCtx)
}

func metricsMux(m *metrics.WorkerMetrics) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}
