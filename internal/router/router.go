package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"xchain-backend/internal/app"
	"xchain-backend/internal/config"
	"xchain-backend/internal/handlers"
	"xchain-backend/internal/middleware"
)

// SetupRouter registers every route on a new gin engine
func SetupRouter(c *app.ServiceContainer) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	logger := c.Log
	if len(c.Config.Admin.AllowedIPs) == 0 {
		logger.Info("No admin.allowedIPs configured, using localhost-only mode")
	}
	localhostOnly := middleware.NewLocalhostOnly(logger, c.Config.Admin.AllowedIPs)
	auth := middleware.NewAuthMiddleware(c.Tokens, logger)
	adminAuth := middleware.NewAdminAuthMiddleware(c.Config.Admin.TOTPSecret, logger)

	r.GET("/ping", handlers.PingHandler)
	var natsCheck handlers.ConnectionChecker
	if c.NATSClient != nil {
		natsCheck = c.NATSClient
	}
	r.GET("/health", handlers.HealthCheckHandler(c.DB, natsCheck))
	r.GET("/metrics", localhostOnly.Restrict(), gin.WrapH(promhttp.Handler()))

	wsHandler := handlers.NewWebSocketHandler(c.Hub, logger)
	r.GET("/ws/orders", localhostOnly.Restrict(), wsHandler.HandleOrders)

	SetupBridgeRoutes(r.Group("/api/v1", auth.RequireAuth()), c, adminAuth.RequireTOTP())

	r.NoRoute(func(ctx *gin.Context) {
		ctx.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"code":    "NOT_FOUND",
			"error":   "endpoint not found: " + ctx.Request.URL.Path,
		})
	})
	return r
}

// WithCORS wraps h with the configured CORS policy; no origins allows all
func WithCORS(cfg config.CORSConfig, h http.Handler) http.Handler {
	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	// wildcard origins cannot carry credentials
	allowCredentials := cfg.AllowCredentials && !(len(origins) == 1 && origins[0] == "*")

	maxAge := cfg.MaxAge
	if maxAge <= 0 {
		maxAge = 3600
	}
	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.TOTPHeader},
		ExposedHeaders:   []string{"Content-Length", "Content-Type"},
		AllowCredentials: allowCredentials,
		MaxAge:           maxAge,
	}).Handler(h)
}
