package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/studentmonitor/student-monitor-api/internal/api/handler"
	"github.com/studentmonitor/student-monitor-api/internal/api/middleware"
	"github.com/studentmonitor/student-monitor-api/internal/core/service"
	mongostore "github.com/studentmonitor/student-monitor-api/internal/infrastructure/db/mongo"
	redisstore "github.com/studentmonitor/student-monitor-api/internal/infrastructure/db/redis"
)

// Options carries the tunables the router needs beyond its data stores.
type Options struct {
	RememberMeSecret string
	BcryptCost       int
	HashConcurrency  int
}

// Router bundles the Echo instance with the services main needs for
// bootstrap.
type Router struct {
	Echo     *echo.Echo
	Users    *service.UserManagementService
	Students *service.StudentRecordService
}

// NewRouter builds the Echo instance with all routes registered. The
// middleware order is fixed: recover, request id, logging, metrics, session
// resolution, then the authorization guard; no handler runs before the guard
// has decided.
func NewRouter(db *mongo.Database, rdb *redis.Client, opts Options, log zerolog.Logger) *Router {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("studentmonitor"))

	// --- Dependencies ---
	userRepo := mongostore.NewUserRepository(db)
	studentRepo := mongostore.NewStudentRepository(db)
	sessionStore := redisstore.NewSessionStore(rdb)

	credentials := service.NewBcryptCredentialService(opts.BcryptCost, opts.HashConcurrency)
	sessions := service.NewSessionManager(sessionStore, userRepo, opts.RememberMeSecret, log)
	registration := service.NewRegistrationService(userRepo, credentials, log)
	auth := service.NewAuthService(userRepo, credentials, log)
	users := service.NewUserManagementService(userRepo, credentials, sessions, log)
	students := service.NewStudentRecordService(studentRepo, log)

	e.Use(middleware.ResolveSession(sessions, log))
	e.Use(middleware.Guard())

	authHandler := handler.NewAuthHandler(registration, users)
	loginHandler := handler.NewLoginHandler(auth, sessions, log)
	webHandler := handler.NewWebHandler(students)
	userHandler := handler.NewUserHandler(users)
	studentHandler := handler.NewStudentHandler(students)

	// --- Public surface ---
	e.GET("/", webHandler.Home)
	e.GET("/register", webHandler.RegisterPage)
	e.GET("/login", loginHandler.LoginPage)
	e.POST("/login", loginHandler.Login)
	e.POST("/logout", loginHandler.Logout)
	e.POST("/auth/signup", authHandler.Signup)
	e.GET("/api/check-username", authHandler.CheckUsername)
	e.GET("/api/check-email", authHandler.CheckEmail)

	// --- Authenticated record surface ---
	e.GET("/api/students", studentHandler.List)
	e.POST("/api/students", studentHandler.Create)
	e.GET("/api/students/:id", studentHandler.Get)
	e.DELETE("/api/students/:id", studentHandler.Delete)
	e.GET("/api/students/:id/performance", studentHandler.ListPerformance)
	e.POST("/api/students/:id/performance", studentHandler.AddPerformance)
	e.PUT("/api/me/password", userHandler.ChangePassword)

	// --- Admin surface ---
	e.GET("/admin/users", userHandler.ListUsers)
	e.PUT("/admin/users/:id/enabled", userHandler.SetEnabled)
	e.DELETE("/admin/users/:id", userHandler.DeleteUser)

	// --- Health and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())

	return &Router{Echo: e, Users: users, Students: students}
}
