package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	watchRepo "voyago/database/repository/watch"
	"voyago/models"
	"voyago/utils"
)

// CreateWatch answers POST /api/watches. The identity comes from an
// optional bearer token; absent or invalid credentials fall back to the
// demo identity.
func CreateWatch(watches watchRepo.WatchRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Destination string  `json:"destination" binding:"required"`
			TargetPrice float64 `json:"target_price"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
			return
		}
		if input.TargetPrice <= 0 {
			input.TargetPrice = 2000
		}

		watch := models.Watch{
			ID:          uuid.New().String(),
			UserID:      utils.UserIDFromToken(bearerToken(c)),
			Destination: input.Destination,
			TargetPrice: input.TargetPrice,
			IsActive:    true,
			CreatedAt:   time.Now().UTC(),
		}
		if err := watches.Create(watch); err != nil {
			utils.JSONError(c, http.StatusInternalServerError, "failed to create watch", "")
			return
		}
		c.JSON(http.StatusCreated, watch)
	}
}

// ListWatches answers GET /api/watches for the caller's identity.
func ListWatches(watches watchRepo.WatchRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := utils.UserIDFromToken(bearerToken(c))
		list, err := watches.ListByUser(userID)
		if err != nil {
			utils.JSONError(c, http.StatusInternalServerError, "failed to list watches", "")
			return
		}
		if list == nil {
			list = []models.Watch{}
		}
		c.JSON(http.StatusOK, gin.H{"watches": list})
	}
}

// DeleteWatch answers DELETE /api/watches/:id. Watches are deactivated,
// never removed.
func DeleteWatch(watches watchRepo.WatchRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		if err := watches.Deactivate(id); err != nil {
			utils.JSONError(c, http.StatusNotFound, "watch not found", "")
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": id, "status": "inactive"})
	}
}

func bearerToken(c *gin.Context) string {
	const prefix = "Bearer "
	header := c.GetHeader("Authorization")
	if len(header) > len(prefix) && header[:len(prefix)] == prefix {
		return header[len(prefix):]
	}
	return ""
}
