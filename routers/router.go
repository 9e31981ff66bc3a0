package routers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/qr-forever/resolver/authorization"
	"github.com/qr-forever/resolver/handlers"
	"github.com/qr-forever/resolver/ledger"
	"github.com/qr-forever/resolver/meta"
	"github.com/qr-forever/resolver/metrics"
	"github.com/qr-forever/resolver/middleware"
	"github.com/qr-forever/resolver/notifications"
	"github.com/qr-forever/resolver/ratelimit"
	"github.com/qr-forever/resolver/resolver"
)

type Config struct {
	AdminToken           string
	RateLimitPerMinute   int
	PublicResolveEnabled bool
}

//SetupRouter wires the routing branches in strict precedence order:
//health -> admin subtree (own gate) -> resolver-configured gate ->
//rate limit -> authenticated api routes -> public resolve -> not found
func SetupRouter(storage meta.Storage, authService *authorization.Service, creditLedger *ledger.Ledger,
	resolverService *resolver.Resolver, limiter *ratelimit.Limiter, billingNotifier *notifications.BillingNotifier,
	config Config) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	adminTokenMiddleware := middleware.AdminToken{Token: config.AdminToken}
	adminHandler := handlers.NewAdminKeysHandler(storage, creditLedger)

	adminAPI := router.Group("/api/admin")
	{
		adminAPI.POST("/keys/create", adminTokenMiddleware.AdminAuth(adminHandler.CreateHandler))
		adminAPI.POST("/keys/topup", adminTokenMiddleware.AdminAuth(adminHandler.TopUpHandler))
		adminAPI.GET("/keys/:id", adminTokenMiddleware.AdminAuth(adminHandler.GetHandler))
		adminAPI.POST("/keys/:id/activate", adminTokenMiddleware.AdminAuth(adminHandler.ActivateHandler))
		adminAPI.POST("/keys/:id/deactivate", adminTokenMiddleware.AdminAuth(adminHandler.DeactivateHandler))
	}

	apiHandler := handlers.NewAPIHandler(resolverService, creditLedger, billingNotifier)
	pageHandler := handlers.NewPageHandler(resolverService)

	gated := router.Group("", middleware.RequireResolver(resolverService), middleware.RateLimit(limiter, config.RateLimitPerMinute))
	{
		gated.GET("/api/me", middleware.KeyAuth(apiHandler.MeHandler, authService))
		gated.GET("/api/resolve/:id", middleware.KeyAuth(apiHandler.ResolveHandler, authService))

		if config.PublicResolveEnabled {
			gated.GET("/r/:id", pageHandler.Handler)
		} else {
			gated.GET("/r/:id", middleware.KeyAuth(pageHandler.Handler, authService))
		}
	}

	if metrics.Enabled {
		router.GET("/prometheus", adminTokenMiddleware.AdminAuth(gin.WrapH(promhttp.Handler())))
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, middleware.ErrorResponse{Error: middleware.ErrNotFound})
	})

	return router
}
