package main

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/offline-learning-api/internal/handler"
	"github.com/noah-isme/offline-learning-api/internal/middleware"
	"github.com/noah-isme/offline-learning-api/internal/service"
	"github.com/noah-isme/offline-learning-api/pkg/config"
	"github.com/noah-isme/offline-learning-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/offline-learning-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/offline-learning-api/pkg/middleware/requestid"
)

type routes struct {
	analytics *handler.AnalyticsHandler
	risk      *handler.RiskHandler
	alerts    *handler.AlertHandler
	syllabus  *handler.SyllabusHandler
	reports   *handler.ReportHandler
	metrics   *handler.MetricsHandler
}

func newRouter(cfg *config.Config, logr *zap.Logger, metricsSvc *service.MetricsService, h routes) *gin.Engine {
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc, "/metrics"))
	r.Use(middleware.WithResponseMeta())

	r.GET("/health", h.metrics.Health)
	r.GET("/ready", h.metrics.Ready)
	r.GET("/metrics", h.metrics.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.GET("/metrics/summary", h.metrics.Summary)

	analytics := api.Group("/analytics")
	analytics.GET("/students/:id", h.analytics.Student)
	analytics.GET("/cohort", h.analytics.Cohort)
	analytics.GET("/subjects/:subject", h.analytics.Subject)

	risk := api.Group("/risk")
	risk.GET("/status", h.risk.Status)
	risk.POST("/predict", h.risk.Predict)
	risk.GET("/students", h.risk.Roster)
	risk.GET("/students/:id", h.risk.Student)

	alerts := api.Group("/alerts")
	alerts.GET("/students/:id", h.alerts.Student)
	alerts.GET("/summary", h.alerts.Summary)
	alerts.POST("/notify", h.alerts.Notify)

	api.GET("/syllabus", h.syllabus.Catalog)
	api.GET("/syllabus/students/:id", h.syllabus.Plan)

	if h.reports != nil {
		reports := api.Group("/reports")
		reports.POST("", h.reports.Create)
		reports.GET("/:id", h.reports.Status)
		reports.GET("/:id/download", h.reports.Download)
	}

	return r
}
