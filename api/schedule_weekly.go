package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/dmm8rgbc4y-sudo/jantomo/internal/schedule"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ScheduleWeekly returns the merged weekly grid: the caller plus all
// accepted friends, one batched schedule read, ordered self-first then
// friends in the order they were added.
func (a *API) ScheduleWeekly(c *gin.Context) {
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

	friendIDs, err := a.Friends.ListAcceptedIDs(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to list friends", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	allIDs := append([]uint{userID}, friendIDs...)

	names, err := a.Friends.NamesByID(allIDs)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to fetch usernames", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	schedules, err := a.Schedules.GetRange(allIDs, dates)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to fetch schedules", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	data := schedule.BuildWeekly(userID, friendIDs, dates, names, schedules)

	c.JSON(http.StatusOK, gin.H{
		"week":  week,
		"dates": dates,
		"data":  data,
	})
}
