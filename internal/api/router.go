package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/campushq/student-system/internal/api/handler"
	"github.com/campushq/student-system/internal/api/middleware"
	"github.com/campushq/student-system/internal/core/domain"
	"github.com/campushq/student-system/internal/core/ports"
	"github.com/campushq/student-system/internal/core/service"
	"github.com/campushq/student-system/internal/infrastructure/config"
	mongodb "github.com/campushq/student-system/internal/infrastructure/db/mongo"
	redisdb "github.com/campushq/student-system/internal/infrastructure/db/redis"
	"github.com/campushq/student-system/internal/pkg/token"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, tokens *token.Manager, audit ports.AuditSink, cfg *config.Config, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("studentms"))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	studentRepo := mongodb.NewStudentRepository(db)
	revocation := redisdb.NewRevocationStore(rdb)

	authService := service.NewAuthService(userRepo, tokens, revocation, audit, log)
	studentService := service.NewStudentService(studentRepo, audit, log)

	authHandler := handler.NewAuthHandler(authService)
	studentHandler := handler.NewStudentHandler(studentService, cfg.UploadDir)

	authMW := middleware.Auth(tokens, revocation)
	adminMW := middleware.RBAC(domain.RoleAdmin)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/logout", authHandler.Logout, authMW)
	e.GET("/auth/me", authHandler.Me, authMW)
	e.PATCH("/auth/users/:id/role", authHandler.ChangeRole, authMW, adminMW)
	e.PATCH("/auth/users/:id/active", authHandler.SetActive, authMW, adminMW)
	e.DELETE("/auth/users/:id", authHandler.DeleteUser, authMW, adminMW)

	// --- Student routes ---
	students := e.Group("/api/students", authMW)
	students.GET("", studentHandler.List)
	students.GET("/search", studentHandler.Search)
	students.GET("/:id", studentHandler.Get)
	students.POST("", studentHandler.Create)
	students.PUT("/:id", studentHandler.Update)
	students.PATCH("/:id/status", studentHandler.UpdateStatus)
	students.DELETE("/:id", studentHandler.Delete)
	students.DELETE("", studentHandler.DeleteAll, adminMW)
	students.POST("/:id/document", studentHandler.UploadDocument)

	// --- Uploaded documents ---
	e.Static("/uploads", cfg.UploadDir)

	// --- Observability ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)           // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?

	return e
}
