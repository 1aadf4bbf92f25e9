package api

import (
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/dmm8rgbc4y-sudo/jantomo/internal/schedule"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// MaintenanceCleanup sweeps rows nobody will ever look at again: schedule
// entries older than the retention window and device tokens whose expiry
// is equally far in the past. Protected by a shared key, safe to call as
// often as the hosting platform's cron wants to.
func (a *API) MaintenanceCleanup(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	key := c.Query("key")
	expected := viper.GetString("maintenance.key")

	if subtle.ConstantTimeCompare([]byte(key), []byte(expected)) != 1 {
		c.JSON(http.StatusForbidden, gin.H{
			"error":     "Unauthorized",
			"requestID": requestID,
		})
		return
	}

	// Same local calendar day the weekly views are built from, so the
	// sweep and the views agree on what "today" is around midnight
	retention := viper.GetInt("maintenance.retention_days")
	cutoff := time.Now().AddDate(0, 0, -retention)

	deletedEntries, err := a.Schedules.DeleteOlderThan(cutoff.Format(schedule.DateLayout))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to sweep schedule entries", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	deletedTokens, err := a.Devices.DeleteExpiredBefore(cutoff)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to sweep device tokens", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	zap.L().Info("Maintenance sweep finished",
		zap.Int64("deleted_entries", deletedEntries),
		zap.Int64("deleted_tokens", deletedTokens),
	)

	c.JSON(http.StatusOK, gin.H{
		"deleted_entries": deletedEntries,
		"deleted_tokens":  deletedTokens,
	})
}
