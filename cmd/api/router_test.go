package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/noah-isme/offline-learning-api/internal/handler"
	"github.com/noah-isme/offline-learning-api/pkg/config"
)

func testRoutes() routes {
	return routes{
		analytics: handler.NewAnalyticsHandler(nil),
		risk:      handler.NewRiskHandler(nil),
		alerts:    handler.NewAlertHandler(nil),
		syllabus:  handler.NewSyllabusHandler(nil),
		metrics:   handler.NewMetricsHandler(nil, nil, nil),
	}
}

func TestRouterServesHealth(t *testing.T) {
	cfg := &config.Config{Env: config.EnvProduction, APIPrefix: "/api/v1"}
	router := newRouter(cfg, zap.NewNop(), nil, testRoutes())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouterOmitsReportsWhenDisabled(t *testing.T) {
	cfg := &config.Config{Env: config.EnvProduction, APIPrefix: "/api/v1"}
	router := newRouter(cfg, zap.NewNop(), nil, testRoutes())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/reports/job-1", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/docs/index.html", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouterMountsAPIPrefix(t *testing.T) {
	cfg := &config.Config{Env: config.EnvProduction, APIPrefix: "/api/v1"}
	router := newRouter(cfg, zap.NewNop(), nil, testRoutes())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/risk/status", nil))
	// handlers without a service answer with the internal error envelope
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
