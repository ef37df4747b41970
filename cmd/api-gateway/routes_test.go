package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/grindsup/trainer-gateway/internal/handler"
	"github.com/grindsup/trainer-gateway/internal/service"
	"github.com/grindsup/trainer-gateway/pkg/config"
)

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{Env: config.EnvProduction, APIPrefix: "/api/v1"}
	metrics := service.NewMetricsService()
	return newRouter(cfg, zap.NewNop(), metrics, routeHandlers{
		sessions: service.NewSessionService(nil, config.JWTConfig{Secret: "test"}, 0, nil),
		metrics:  handler.NewMetricsHandler(metrics, nil),
	})
}

func TestRouterProtectsTrainerRoutes(t *testing.T) {
	r := newTestRouter()

	for _, route := range []struct{ method, path string }{
		{http.MethodGet, "/api/v1/appointments"},
		{http.MethodDelete, "/api/v1/appointments/rows/series-abc"},
		{http.MethodGet, "/api/v1/calendar"},
		{http.MethodGet, "/api/v1/students/3/plans"},
		{http.MethodGet, "/api/v1/reports/export"},
		{http.MethodGet, "/api/v1/auth/me"},
	} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(route.method, route.path, nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code, route.path)
	}
}

func TestRouterOperationalEndpoints(t *testing.T) {
	r := newTestRouter()

	for _, path := range []string{"/health", "/ready", "/metrics"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/docs/index.html", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
