package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/checkout_settlement/cmd/docs"
	portssvc "github.com/SscSPs/checkout_settlement/internal/core/ports/services"
	"github.com/SscSPs/checkout_settlement/internal/middleware"
	"github.com/SscSPs/checkout_settlement/internal/platform/config"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/ulule/limiter/v3"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces.
// A nil rateLimiter disables rate limiting.
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	rateLimiter *limiter.Limiter,
) {
	setupCORS(r, cfg)

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	var limit []gin.HandlerFunc
	if rateLimiter != nil {
		limit = append(limit, middleware.RateLimit(rateLimiter))
	}

	// Gateway callbacks authenticate with a body signature instead of a JWT
	var verifier middleware.SignatureVerifier
	if cfg.WebhookSecret != "" {
		verifier = middleware.HMACVerifier{Secret: []byte(cfg.WebhookSecret)}
	}
	public := r.Group("/api/v1", limit...)
	registerWebhookRoutes(public, services.Webhook, middleware.WebhookSignature(verifier))

	setupAPIV1Routes(r, cfg, services, limit)

	setupSwaggerRoutes(r, cfg)
}

// setupAPIV1Routes configures the authenticated /api/v1 group and delegates to entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	service *portssvc.ServiceContainer,
	limit []gin.HandlerFunc,
) {
	// Auth runs first so the limiter can key on the tenant
	handlers := append([]gin.HandlerFunc{middleware.AuthMiddleware(cfg.JWTSecret, cfg.JWTIssuer)}, limit...)
	v1 := r.Group("/api/v1", handlers...)

	registerCheckoutRoutes(v1, service.Checkout)
	registerLedgerRoutes(v1, service.Ledger)
	registerReconciliationRoutes(v1, service.Reconciliation)
	registerWithdrawalRoutes(v1, service.Withdrawal)
}

func setupCORS(r *gin.Engine, cfg *config.Config) {
	corsConfig := cors.DefaultConfig()
	switch {
	case len(cfg.CORSAllowedOrigins) > 0:
		corsConfig.AllowOrigins = cfg.CORSAllowedOrigins
		corsConfig.AllowCredentials = true
	case cfg.IsProduction:
		// production without an allowlist serves same-origin only
		slog.Warn("CORS_ALLOWED_ORIGINS not set, cross-origin requests are rejected")
		return
	default:
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AddAllowHeaders("Authorization", middleware.RequestIDHeader)
	corsConfig.AddExposeHeaders(middleware.RequestIDHeader, "X-RateLimit-Limit", "X-RateLimit-Remaining")
	r.Use(cors.New(corsConfig))
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
