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
	_ "time/tzdata"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	_ "github.com/grindsup/trainer-gateway/api/swagger"
	"github.com/grindsup/trainer-gateway/internal/handler"
	"github.com/grindsup/trainer-gateway/internal/repository"
	"github.com/grindsup/trainer-gateway/internal/service"
	"github.com/grindsup/trainer-gateway/pkg/backend"
	"github.com/grindsup/trainer-gateway/pkg/cache"
	"github.com/grindsup/trainer-gateway/pkg/config"
	"github.com/grindsup/trainer-gateway/pkg/database"
	"github.com/grindsup/trainer-gateway/pkg/jobs"
	"github.com/grindsup/trainer-gateway/pkg/logger"
	"github.com/grindsup/trainer-gateway/pkg/markdown"
)

// @title GrindSup Trainer Gateway
// @version 1.0.0
// @description Backend-for-frontend serving the GrindSup trainer screens
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

// kvBackend is the store shared by sessions, trainer ids and cached reports.
type kvBackend interface {
	service.KVStore
	service.CacheRepository
}

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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logr.Sugar().Fatalw("invalid timezone", "timezone", cfg.Timezone, "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metrics := service.NewMetricsService()
	client, err := backend.New(cfg.Backend, backend.WithObserver(metrics), backend.WithLogger(logr))
	if err != nil {
		logr.Sugar().Fatalw("invalid backend configuration", "error", err)
	}

	store, checks, closeStore, err := openStore(ctx, cfg, metrics, logr)
	if err != nil {
		logr.Sugar().Fatalw("failed to open session store", "store", cfg.Session.Store, "error", err)
	}
	defer closeStore()

	validate := service.NewValidator()

	appointmentRepo := repository.NewAppointmentRepository(client, loc)
	studentRepo := repository.NewStudentRepository(client, loc)

	sessions := service.NewSessionService(store, cfg.JWT, cfg.Session.TTL, logr)
	trainers := service.NewTrainerResolver(store, repository.NewTrainerRepository(client), cfg.Session.TTL, metrics, logr)
	authSvc := service.NewAuthService(repository.NewAuthRepository(client), sessions, trainers, validate, logr)

	reportCache := service.NewCacheService(store, metrics, cfg.Reports.CacheTTL, logr, cfg.Reports.CacheEnabled)
	reportSvc := service.NewReportService(repository.NewReportRepository(client), reportCache, validate, logr)

	appointmentSvc := service.NewAppointmentService(appointmentRepo, validate, metrics, logr, loc)
	appointmentSvc.InvalidateReportsOnChange(reportSvc)

	studentSvc := service.NewStudentService(studentRepo, validate, logr, loc)
	exerciseSvc := service.NewExerciseService(repository.NewExerciseRepository(client), validate, logr)
	planSvc := service.NewPlanService(repository.NewPlanRepository(client, loc), studentSvc, markdown.New(), validate, logr, loc)

	r := newRouter(cfg, logr, metrics, routeHandlers{
		sessions:     sessions,
		trainers:     trainers,
		auth:         handler.NewAuthHandler(authSvc),
		appointments: handler.NewAppointmentHandler(appointmentSvc, validate, loc),
		calendar:     handler.NewCalendarHandler(appointmentSvc, service.NewCalendarService(loc), validate),
		students:     handler.NewStudentHandler(studentSvc, planSvc),
		exercises:    handler.NewExerciseHandler(exerciseSvc),
		plans:        handler.NewPlanHandler(planSvc),
		reports:      handler.NewReportHandler(reportSvc, logr),
		metrics:      handler.NewMetricsHandler(metrics, checks),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "store", cfg.Session.Store, "backend", cfg.Backend.BaseURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Warn("graceful shutdown failed", zap.Error(err))
	}
	logr.Info("server stopped")
}

// openStore connects the configured key-value backend. SQL stores get their
// schema and an hourly purge of expired rows.
func openStore(ctx context.Context, cfg *config.Config, metrics *service.MetricsService, logr *zap.Logger) (kvBackend, map[string]handler.ReadinessCheck, func(), error) {
	switch cfg.Session.Store {
	case config.SessionStoreRedis:
		client, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, nil, err
		}
		kv := repository.NewRedisKVRepository(client, logr)
		checks := map[string]handler.ReadinessCheck{config.SessionStoreRedis: kv.Ping}
		return kv, checks, func() { closeRedis(client, logr) }, nil
	default:
		db, err := database.Open(ctx, cfg)
		if err != nil {
			return nil, nil, nil, err
		}
		if err := database.EnsureKVSchema(ctx, db); err != nil {
			_ = db.Close()
			return nil, nil, nil, err
		}

		kv := repository.NewKVRepository(db, metrics)
		purge := jobs.NewPeriodic("kv-purge", func(ctx context.Context) error {
			removed, err := kv.PurgeExpired(ctx)
			if err == nil && removed > 0 {
				logr.Info("expired session entries purged", zap.Int64("removed", removed))
			}
			return err
		}, jobs.PeriodicConfig{Interval: time.Hour, Timeout: time.Minute, Logger: logr})
		purge.Start(ctx)

		checks := map[string]handler.ReadinessCheck{
			cfg.Session.Store: db.PingContext,
		}
		return kv, checks, func() {
			purge.Stop()
			if err := db.Close(); err != nil {
				logr.Warn("close session database", zap.Error(err))
			}
		}, nil
	}
}

func closeRedis(client *redis.Client, logr *zap.Logger) {
	if err := client.Close(); err != nil {
		logr.Warn("close redis", zap.Error(err))
	}
}
