package handler

import (
	"payment-gateway-core/internal/admin"
	"payment-gateway-core/internal/adapter/http/middleware"
	redisStore "payment-gateway-core/internal/adapter/storage/redis"
	"payment-gateway-core/internal/auth"
	"payment-gateway-core/internal/core/ports"
	"payment-gateway-core/internal/dispatcher"
	"payment-gateway-core/internal/lifecycle"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds every dependency SetupRouter needs to wire routes.
type RouterDeps struct {
	Lifecycle      *lifecycle.Engine
	Dispatcher     *dispatcher.Dispatcher
	Auth           *auth.Service
	Admin          *admin.Ops
	OperatorSecret []byte // HMAC key for OperatorAuth's JWTs
	RateLimitStore *redisStore.RateLimitStore // nil = rate limiting disabled
	HealthCheckers []ports.HealthChecker
	Metrics        ports.MetricsSink
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(1 << 20)) // 1 MB request body limit

	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	swagger := r.Group("/swagger")
	{
		swagger.GET("", SwaggerUI)
		swagger.GET("/spec", SwaggerSpec)
	}

	rules := middleware.DefaultRateLimitRules()
	rl := func(group string) gin.HandlerFunc {
		if deps.RateLimitStore == nil {
			return func(c *gin.Context) { c.Next() }
		}
		rule, ok := rules[group]
		if !ok {
			return func(c *gin.Context) { c.Next() }
		}
		return middleware.RateLimiter(deps.RateLimitStore, group, rule, deps.Metrics, deps.Logger)
	}

	teamAuth := middleware.TeamSignatureAuth(deps.Auth.VerifyRequest, deps.Logger)
	paymentHandler := NewPaymentHandler(deps.Lifecycle, deps.Dispatcher)

	v1 := r.Group("/api/v1")

	payments := v1.Group("/payments", teamAuth)
	{
		payments.POST("/init", rl("payments_init"), paymentHandler.Init)
		payments.POST("/showform", rl("payments_mutate"), paymentHandler.ShowForm)
		payments.POST("/authorize", rl("payments_mutate"), paymentHandler.Authorize)
		payments.POST("/confirm", rl("payments_mutate"), paymentHandler.Confirm)
		payments.POST("/cancel", rl("payments_mutate"), paymentHandler.Cancel)
		payments.POST("/state", rl("payments_state"), paymentHandler.GetState)
	}

	operatorAuth := middleware.OperatorAuth(deps.OperatorSecret, deps.Logger)
	adminHandler := NewAdminHandler(deps.Admin)

	adminGroup := v1.Group("/admin", operatorAuth)
	{
		adminGroup.POST("/bulk-delete", rl("admin_bulk_delete"), adminHandler.BulkDelete)
		adminGroup.POST("/teams", rl("admin_register_team"), adminHandler.RegisterTeam)
	}

	return r
}
