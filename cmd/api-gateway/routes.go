package main

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/grindsup/trainer-gateway/internal/handler"
	"github.com/grindsup/trainer-gateway/internal/middleware"
	"github.com/grindsup/trainer-gateway/internal/service"
	"github.com/grindsup/trainer-gateway/pkg/config"
	"github.com/grindsup/trainer-gateway/pkg/logger"
	corsmiddleware "github.com/grindsup/trainer-gateway/pkg/middleware/cors"
	reqidmiddleware "github.com/grindsup/trainer-gateway/pkg/middleware/requestid"
)

type routeHandlers struct {
	sessions     *service.SessionService
	trainers     *service.TrainerResolver
	auth         *handler.AuthHandler
	appointments *handler.AppointmentHandler
	calendar     *handler.CalendarHandler
	students     *handler.StudentHandler
	exercises    *handler.ExerciseHandler
	plans        *handler.PlanHandler
	reports      *handler.ReportHandler
	metrics      *handler.MetricsHandler
}

func newRouter(cfg *config.Config, logr *zap.Logger, metrics *service.MetricsService, h routeHandlers) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	r.GET("/health", h.metrics.Health)
	r.GET("/ready", h.metrics.Ready)
	r.GET("/metrics", h.metrics.Prometheus)

	if cfg.EnableDocs && cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	audit := func(action, resource string) gin.HandlerFunc {
		return middleware.Audit(logr, action, resource)
	}

	auth := api.Group("/auth")
	auth.POST("/login", h.auth.Login)
	auth.POST("/oauth/callback", h.auth.OAuthCallback)

	signedIn := api.Group("")
	signedIn.Use(middleware.Session(h.sessions))
	signedIn.POST("/auth/logout", h.auth.Logout)
	signedIn.GET("/auth/me", h.auth.Me)
	signedIn.GET("/metrics/summary", h.metrics.Snapshot)

	trainer := signedIn.Group("")
	trainer.Use(middleware.RequireTrainer(h.trainers))

	appointments := trainer.Group("/appointments")
	appointments.GET("", h.appointments.List)
	appointments.POST("", audit("create", "appointment"), h.appointments.Create)
	appointments.DELETE("/rows/:key", audit("delete_row", "appointment"), h.appointments.DeleteRow)
	appointments.GET("/:id", h.appointments.Get)
	appointments.PATCH("/:id/schedule", audit("reschedule", "appointment"), h.appointments.Reschedule)
	appointments.DELETE("/:id", audit("delete", "appointment"), h.appointments.Delete)
	appointments.POST("/:id/students/:studentId", audit("add_student", "appointment"), h.appointments.AddStudent)
	appointments.DELETE("/:id/students/:studentId", audit("remove_student", "appointment"), h.appointments.RemoveStudent)

	trainer.GET("/calendar", h.calendar.Month)

	students := trainer.Group("/students")
	students.GET("", h.students.List)
	students.POST("", audit("create", "student"), h.students.Create)
	students.GET("/:id", h.students.Get)
	students.PUT("/:id", audit("update", "student"), h.students.Update)
	students.DELETE("/:id", audit("delete", "student"), h.students.Delete)
	students.GET("/:id/plans", h.students.Plans)

	exercises := trainer.Group("/exercises")
	exercises.GET("", h.exercises.List)
	exercises.POST("", audit("create", "exercise"), h.exercises.Create)
	exercises.GET("/:id", h.exercises.Get)
	exercises.PUT("/:id", audit("update", "exercise"), h.exercises.Update)
	exercises.DELETE("/:id", audit("delete", "exercise"), h.exercises.Delete)

	trainer.POST("/plans", audit("create", "plan"), h.plans.Create)
	trainer.GET("/plans/:id", h.plans.Get)
	trainer.POST("/plans/:id/routines", audit("create", "routine"), h.plans.CreateRoutine)
	trainer.DELETE("/routines/:id", audit("delete", "routine"), h.plans.DeleteRoutine)

	trainer.GET("/reports/summary", h.reports.Summary)
	trainer.GET("/reports/export", h.reports.Export)

	return r
}
