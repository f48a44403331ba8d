package http

import (
	"context"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/leavehub/leavehub/internal/auth"
	"github.com/leavehub/leavehub/internal/cache"
	"github.com/leavehub/leavehub/internal/config"
	"github.com/leavehub/leavehub/internal/domain/user"
	"github.com/leavehub/leavehub/internal/http/handlers"
	"github.com/leavehub/leavehub/internal/http/middlewares"
	"github.com/leavehub/leavehub/internal/observability"
	"github.com/leavehub/leavehub/internal/repo/postgres"
)

func NewRouter(log *slog.Logger, pool *pgxpool.Pool, cfg config.Config, reg *prometheus.Registry, store cache.Store) *gin.Engine {
	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}

	slog.SetDefault(log)

	r := gin.New()

	prom := observability.NewProm(reg)

	// middleware
	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestLogger())
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware(cfg.AllowedOrigins))
	r.Use(middlewares.MaxBodyBytes(1 << 20))
	r.Use(prom.GinHandleMiddleware())
	r.Use(otelgin.Middleware("leavehub"))

	// health
	ping := func() error {
		if pool == nil {
			return nil
		}

		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
		defer cancel()

		return pool.Ping(ctx)
	}

	h := handlers.NewHealthHandler(ping)
	r.GET("/healthz", h.Healthz)
	r.GET("/readyz", h.Readyz)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	// wire up token manager and repositories
	jwtManager := auth.NewManager(
		cfg.JWTSecret,
		cfg.JWTIssuer,
		cfg.JWTAudience,
		time.Duration(cfg.JWTTTLDays)*24*time.Hour,
		cfg.JWTEnforceExpiry,
	)

	usersRepo := postgres.NewUsersRepo(pool, prom)
	leaveRepo := postgres.NewLeaveRequestsRepo(pool, prom)

	authHandler := handlers.NewAuthHandler(usersRepo, usersRepo, jwtManager)
	leaveHandler := handlers.NewLeaveHandler(leaveRepo, store, prom)

	authMw := middlewares.NewAuthMiddleware(jwtManager)
	loginLimiter := middlewares.NewRateLimiter(10, time.Minute)

	api := r.Group("/api")
	api.Use(middlewares.RequireJSON())

	authGroup := api.Group("/auth")
	authGroup.POST("/login", loginLimiter.RateLimiterMiddleware(middlewares.KeyByIP), authHandler.Login)
	authGroup.POST("/register", loginLimiter.RateLimiterMiddleware(middlewares.KeyByIP), authHandler.Register)

	lr := api.Group("/leaverequest")
	lr.Use(authMw.RequireAuth())

	// self-service surface
	userOnly := authMw.RequireRole(user.RoleUser)
	lr.POST("", userOnly, leaveHandler.Submit)
	lr.GET("/user/:userId", userOnly, leaveHandler.History)
	lr.DELETE("/:id", userOnly, leaveHandler.Cancel)

	// review and reporting surface
	adminOnly := authMw.RequireRole(user.RoleAdmin)
	lr.GET("/admin", adminOnly, leaveHandler.AdminList)
	lr.PUT("/approve/:id", adminOnly, leaveHandler.Approve)
	lr.PUT("/reject/:id", adminOnly, leaveHandler.Reject)
	lr.POST("/reports/generate-excel", adminOnly, leaveHandler.Report)
	lr.GET("/admin/leave-balances", adminOnly, leaveHandler.Balances)

	return r
}
