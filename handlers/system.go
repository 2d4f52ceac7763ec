package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	catalogRepo "voyago/database/repository/catalog"
	watchRepo "voyago/database/repository/watch"
	"voyago/realtime"
)

// Health answers GET /health.
func Health() gin.HandlerFunc {
	started := time.Now()
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"uptime": time.Since(started).Round(time.Second).String(),
		})
	}
}

// Stats answers GET /debug/stats with coarse operational counters.
func Stats(catalog catalogRepo.CatalogRepository, watches watchRepo.WatchRepository, hub *realtime.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		flights, err := catalog.CountFlights()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "catalog unavailable"})
			return
		}
		lodgings, err := catalog.CountLodgings()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "catalog unavailable"})
			return
		}
		activeWatches, err := watches.CountActive()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "watch store unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"flights":        flights,
			"lodgings":       lodgings,
			"active_watches": activeWatches,
			"live_sessions":  hub.ClientCount(),
		})
	}
}
