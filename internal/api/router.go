package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/storehouse/access-api/docs"
	"github.com/storehouse/access-api/internal/api/handler"
	"github.com/storehouse/access-api/internal/api/middleware"
	"github.com/storehouse/access-api/internal/core/domain"
	"github.com/storehouse/access-api/internal/core/ports"
)

// Dependencies carries everything the router wires into routes. Mongo and
// Redis are only used by the readiness probe and may be nil in tests.
type Dependencies struct {
	AuthService   ports.AuthService
	RecordService ports.RecordService
	AuditService  ports.AuditService
	Logger        zerolog.Logger

	Mongo *mongo.Database
	Redis *redis.Client
}

// NewRouter builds and returns the Echo instance with all routes registered.
// Route-to-tier binding happens here and nowhere else:
//
//	open          → /signup, /signin, /api/v1/*, health, metrics, swagger
//	authenticated → /secret (Basic or Bearer)
//	admin         → /users, /api/v2/*
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("storehouse"))

	// --- Access tiers ---
	authenticated := middleware.Authenticate(deps.AuthService)
	adminOnly := middleware.RBAC(domain.RoleAdmin)

	// --- Auth routes ---
	authHandler := handler.NewAuthHandler(deps.AuthService)
	e.POST("/signup", authHandler.Signup)
	e.POST("/signin", authHandler.Signin)

	userHandler := handler.NewUserHandler(deps.AuthService)
	e.GET("/secret", userHandler.Secret, authenticated)
	e.GET("/users", userHandler.Users, authenticated, adminOnly)

	auditHandler := handler.NewAuditHandler(deps.AuditService)
	e.GET("/users/:username/audit", auditHandler.Trail, authenticated, adminOnly)

	// --- Versioned CRUD resources ---
	recordHandler := handler.NewRecordHandler(deps.RecordService)

	v1 := e.Group("/api/v1")
	registerRecordRoutes(v1, recordHandler)

	v2 := e.Group("/api/v2", authenticated, adminOnly)
	registerRecordRoutes(v2, recordHandler)

	// --- Operational endpoints ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	healthHandler := handler.NewHealthHandler()
	e.GET("/health", healthHandler.Liveness)
	if deps.Mongo != nil && deps.Redis != nil {
		healthDepsHandler := handler.NewHealthDependenciesHandler(deps.Mongo, deps.Redis)
		e.GET("/health/ready", healthDepsHandler.Readiness)
	}

	return e
}

func registerRecordRoutes(g *echo.Group, h *handler.RecordHandler) {
	g.POST("/:collection", h.Create)
	g.GET("/:collection", h.List)
	g.GET("/:collection/:id", h.Get)
	g.PUT("/:collection/:id", h.Update)
	g.DELETE("/:collection/:id", h.Delete)
}
