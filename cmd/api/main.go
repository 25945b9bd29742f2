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

	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	_ "github.com/noah-isme/offline-learning-api/api/swagger"
	"github.com/noah-isme/offline-learning-api/internal/handler"
	"github.com/noah-isme/offline-learning-api/internal/notifier"
	"github.com/noah-isme/offline-learning-api/internal/repository"
	"github.com/noah-isme/offline-learning-api/internal/risk"
	"github.com/noah-isme/offline-learning-api/internal/service"
	"github.com/noah-isme/offline-learning-api/pkg/cache"
	"github.com/noah-isme/offline-learning-api/pkg/config"
	"github.com/noah-isme/offline-learning-api/pkg/database"
	"github.com/noah-isme/offline-learning-api/pkg/export"
	"github.com/noah-isme/offline-learning-api/pkg/jobs"
	"github.com/noah-isme/offline-learning-api/pkg/logger"
	"github.com/noah-isme/offline-learning-api/pkg/storage"
)

// @title Offline Learning Analytics API
// @version 1.0.0
// @description Student analytics, risk classification, alerts and report exports
// @BasePath /api/v1
// @schemes http

const reportJobType = "report"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if err := run(cfg, logr); err != nil {
		logr.Fatal("server failed", zap.Error(err))
	}
}

func run(cfg *config.Config, logr *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	var redisClient *redis.Client
	if client, err := cache.NewRedis(cfg.Redis); err != nil {
		logr.Warn("redis unavailable, running without cache", zap.Error(err))
	} else {
		redisClient = client
	}

	metricsSvc := service.NewMetricsService()
	validate := validator.New()

	studentRepo := repository.NewStudentRepository(db)
	recordRepo := repository.NewRecordRepository(db)
	syllabusRepo := repository.NewSyllabusRepository(db)
	reportRepo := repository.NewReportRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	defer cacheRepo.Close() //nolint:errcheck

	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Analytics.SyllabusCacheTTL, logr, redisClient != nil)

	provider := risk.NewProvider(risk.ProviderConfig{
		ModelPath:   cfg.Risk.ModelPath,
		SearchPaths: cfg.Risk.SearchPaths,
		Logger:      logr,
		Recorder:    metricsSvc,
	})

	analyticsSvc := service.NewAnalyticsService(studentRepo, recordRepo, provider, metricsSvc, logr, service.AnalyticsServiceConfig{
		CohortMaxStudents: cfg.Analytics.CohortMaxStudents,
	})
	riskSvc := service.NewRiskService(provider, provider, analyticsSvc, validate, logr)
	syllabusSvc := service.NewSyllabusService(syllabusRepo, recordRepo, studentRepo, cacheSvc, metricsSvc, cfg.Analytics.SyllabusCacheTTL, logr)
	if err := syllabusSvc.InvalidateCatalog(ctx); err != nil {
		logr.Warn("flush syllabus cache", zap.Error(err))
	}

	var alertNotifier service.AlertNotifier
	if cfg.Telegram.Enabled {
		tg, err := notifier.NewTelegram(cfg.Telegram, logr)
		if err != nil {
			logr.Warn("telegram notifier disabled", zap.Error(err))
		} else {
			alertNotifier = tg
		}
	}
	alertSvc := service.NewAlertService(analyticsSvc, alertNotifier, logr)

	var (
		reportHandler *handler.ReportHandler
		reportQueue   *jobs.Queue
	)
	if cfg.Reports.Enabled {
		files, err := storage.NewLocalStorage(cfg.Reports.StorageDir)
		if err != nil {
			return fmt.Errorf("init report storage: %w", err)
		}
		exportSvc := service.NewExportService(analyticsSvc, files, service.ExportConfig{ResultTTL: cfg.Reports.ResultTTL}, logr, export.NewCSVExporter(), export.NewPDFExporter())
		worker := service.NewReportWorker(reportRepo, exportSvc, metricsSvc, logr)

		var reportSvc *service.ReportService
		reportQueue = jobs.NewQueue(reportJobType, worker.Handle, jobs.QueueConfig{
			Workers:    cfg.Reports.WorkerConcurrency,
			MaxRetries: cfg.Reports.WorkerRetries,
			RetryDelay: 2 * time.Second,
			JobTimeout: 2 * time.Minute,
			OnFailure: func(ctx context.Context, job jobs.Job, err error) {
				reportSvc.HandleFailure(ctx, job, err)
			},
			Logger: logr,
		})
		reportSvc = service.NewReportService(reportRepo, reportQueue, exportSvc, validate, logr, service.ReportServiceConfig{
			APIPrefix:       cfg.APIPrefix,
			ResultTTL:       cfg.Reports.ResultTTL,
			CleanupInterval: cfg.Reports.CleanupInterval,
		})

		reportQueue.Start(ctx)
		defer reportQueue.Stop()
		reportSvc.RecoverPendingJobs(ctx)
		reportSvc.StartCleanup(ctx)
		reportHandler = handler.NewReportHandler(reportSvc, logr)
	}

	checks := []handler.ReadinessCheck{{Name: "database", Ping: db.PingContext}}
	if redisClient != nil {
		checks = append(checks, handler.ReadinessCheck{Name: "cache", Ping: cacheRepo.Ping})
	}
	var queueStats interface{ Stats() jobs.Stats }
	if reportQueue != nil {
		queueStats = reportQueue
	}

	router := newRouter(cfg, logr, metricsSvc, routes{
		analytics: handler.NewAnalyticsHandler(analyticsSvc),
		risk:      handler.NewRiskHandler(riskSvc),
		alerts:    handler.NewAlertHandler(alertSvc),
		syllabus:  handler.NewSyllabusHandler(syllabusSvc),
		reports:   reportHandler,
		metrics:   handler.NewMetricsHandler(metricsSvc, queueStats, provider, checks...),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
