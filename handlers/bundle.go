package handlers

import (
	"github.com/gin-gonic/gin"
)

// HandlerBundle groups every HTTP and websocket handler the router mounts.
// Handlers close over their service dependencies at wiring time.
type HandlerBundle struct {
	// Catalog endpoints
	GetBundlesHandler         gin.HandlerFunc
	GetRecommendationsHandler gin.HandlerFunc

	// Watch endpoints
	CreateWatchHandler gin.HandlerFunc
	ListWatchesHandler gin.HandlerFunc
	DeleteWatchHandler gin.HandlerFunc

	// Concierge endpoint
	ConciergeSocketHandler gin.HandlerFunc

	// System endpoints
	HealthHandler gin.HandlerFunc
	StatsHandler  gin.HandlerFunc
}
