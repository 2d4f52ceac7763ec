package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"

	"voyago/models"
	"voyago/services/deals"
)

// Bundle results are stable within a short window; repeated identical
// queries are served from the cache.
const bundleCacheTTL = 60 * time.Second

// GetBundles answers GET /bundles. Query params: destination (required),
// origin, date, budget, amenities (comma-separated). A nil cache disables
// response caching.
func GetBundles(engine deals.BundleEngine, cache *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		dest := c.Query("destination")
		if dest == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "destination is required"})
			return
		}

		cacheKey := "bundles:" + c.Request.URL.RawQuery
		if cache != nil {
			if cached, err := cache.Get(c.Request.Context(), cacheKey).Result(); err == nil {
				c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(cached))
				return
			}
		}

		var budget *float64
		if raw := c.Query("budget"); raw != "" {
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid budget"})
				return
			}
			budget = &v
		}

		var amenities []string
		if raw := c.Query("amenities"); raw != "" {
			for _, a := range strings.Split(raw, ",") {
				if a = strings.TrimSpace(a); a != "" {
					amenities = append(amenities, a)
				}
			}
		}

		bundles, err := engine.CreateBundles(dest, c.Query("origin"), c.Query("date"), budget, amenities)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "bundle search failed"})
			return
		}
		if bundles == nil {
			bundles = []models.Bundle{}
		}

		payload := gin.H{"destination": dest, "bundles": bundles}
		if cache != nil {
			if b, err := json.Marshal(payload); err == nil {
				cache.Set(c.Request.Context(), cacheKey, b, bundleCacheTTL)
			}
		}
		c.JSON(http.StatusOK, payload)
	}
}

// GetRecommendations answers GET /recommendations with flat flight and
// lodging candidates. Category narrows to "Flight" or "Lodging".
func GetRecommendations(engine deals.BundleEngine) gin.HandlerFunc {
	return func(c *gin.Context) {
		dest := c.Query("destination")
		if dest == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "destination is required"})
			return
		}

		var budget *float64
		if raw := c.Query("budget"); raw != "" {
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid budget"})
				return
			}
			budget = &v
		}

		category := models.CandidateType(c.Query("category"))
		switch category {
		case "", models.CandidateFlight, models.CandidateLodging:
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "category must be Flight or Lodging"})
			return
		}

		recs, err := engine.GetRecommendations(dest, budget, category, c.Query("date"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "recommendation search failed"})
			return
		}
		if recs == nil {
			recs = []models.Candidate{}
		}
		c.JSON(http.StatusOK, gin.H{"destination": dest, "results": recs})
	}
}
