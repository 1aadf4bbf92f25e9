package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/dmm8rgbc4y-sudo/jantomo/internal/schedule"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ScheduleFetch returns the caller's own entries for the requested week,
// selected with ?week=N relative to the current Monday.
func (a *API) ScheduleFetch(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(uint)

	week, err := strconv.Atoi(c.DefaultQuery("week", "0"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "week must be an integer",
			"requestID": requestID,
		})
		return
	}

	dates := schedule.DateStrings(schedule.WeekDates(time.Now(), week))

	saved, err := a.Schedules.GetRange([]uint{userID}, dates)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to fetch schedule", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	slots := make(map[string]string, len(saved))
	for k, v := range saved {
		slots[k.Date] = v
	}

	c.JSON(http.StatusOK, gin.H{
		"week":  week,
		"dates": dates,
		"slots": slots,
	})
}
