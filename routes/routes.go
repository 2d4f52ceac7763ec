package routes

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"voyago/config"
	"voyago/handlers"
	"voyago/middleware"
)

// RegisterCatalogRoutes registers the bundle and recommendation endpoints.
func RegisterCatalogRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/bundles", hb.GetBundlesHandler)
	r.GET("/recommendations", hb.GetRecommendationsHandler)
}

// RegisterWatchRoutes registers price watch management endpoints.
func RegisterWatchRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/watches")
	{
		api.POST("", hb.CreateWatchHandler)
		api.GET("", hb.ListWatchesHandler)
		api.DELETE("/:id", hb.DeleteWatchHandler)
	}
}

// RegisterConciergeRoutes registers the websocket concierge endpoint.
func RegisterConciergeRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/ws/concierge/:clientID", hb.ConciergeSocketHandler)
}

// RegisterSystemRoutes registers health and debug endpoints.
func RegisterSystemRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/health", hb.HealthHandler)
	r.GET("/debug/stats", hb.StatsHandler)
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.RateLimitMiddleware(config.AppConfig.MaxRequestsPerMin))

	RegisterCatalogRoutes(r, hb)
	RegisterWatchRoutes(r, hb)
	RegisterConciergeRoutes(r, hb)
	RegisterSystemRoutes(r, hb)
}
