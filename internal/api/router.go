package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	redislib "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/rwandabill/identity-service/internal/api/handler"
	"github.com/rwandabill/identity-service/internal/api/middleware"
	"github.com/rwandabill/identity-service/internal/core/domain"
	"github.com/rwandabill/identity-service/internal/core/service"
	"github.com/rwandabill/identity-service/internal/infrastructure/config"
	mongodb "github.com/rwandabill/identity-service/internal/infrastructure/db/mongo"
	redisdb "github.com/rwandabill/identity-service/internal/infrastructure/db/redis"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redislib.Client, cfg *config.Config, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("identity"))

	// --- Dependencies ---
	identityRepo := mongodb.NewIdentityRepository(db)
	tokens := service.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	throttle := redisdb.NewLoginThrottle(rdb, cfg.LoginMaxAttempts, cfg.LoginWindow)
	identityService := service.NewIdentityService(identityRepo, tokens, throttle, log)

	authHandler := handler.NewAuthHandler(identityService)
	identityHandler := handler.NewIdentityHandler(identityService)

	authRequired := middleware.Auth(tokens)
	adminOnly := middleware.RBAC(identityRepo, domain.RoleAdmin, domain.RoleSuperAdmin)
	superAdminOnly := middleware.RBAC(identityRepo, domain.RoleSuperAdmin)

	// --- Auth routes ---
	e.POST("/auth/signup", authHandler.Signup)
	e.POST("/auth/signup/admin", authHandler.SignupAdmin, authRequired)
	e.POST("/auth/signup/superadmin", authHandler.SignupSuperAdmin, middleware.OptionalAuth(tokens))
	e.POST("/auth/login", authHandler.Login)
	e.GET("/auth/me", authHandler.Me, authRequired)

	// --- Identity routes ---
	identities := e.Group("/identities", authRequired)
	identities.GET("", identityHandler.List, adminOnly)
	identities.GET("/admins", identityHandler.ListAdmins, superAdminOnly)
	identities.GET("/:id", identityHandler.GetByID, adminOnly)
	identities.GET("/email/:email", identityHandler.GetByEmail, adminOnly)
	identities.POST("/:id/approve", identityHandler.Approve)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
