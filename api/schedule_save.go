package api

import (
	"net/http"

	"github.com/dmm8rgbc4y-sudo/jantomo/internal/schedule"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ScheduleSave applies a submitted list of {date, slot} items for the
// caller. The whole list commits or none of it does; the response carries
// the number of items that actually changed something.
func (a *API) ScheduleSave(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(uint)

	var items []schedule.Item
	if err := c.ShouldBind(&items); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid request body",
			"requestID": requestID,
		})

		zap.L().Error("Can't bind request body", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	changes, err := a.Schedules.SaveBatch(userID, items)
	if err != nil {
		if isValidationError(err) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":     err.Error(),
				"requestID": requestID,
			})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to save schedule", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"changes": changes,
	})
}
