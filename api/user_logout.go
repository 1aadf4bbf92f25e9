package api

import (
	"net/http"

	"github.com/dmm8rgbc4y-sudo/jantomo/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UserLogout revokes the caller's own device token. Sessions on other
// devices stay untouched.
func (a *API) UserLogout(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	token, err := c.Cookie(middleware.CookieName)
	if err == nil {
		if err := a.Devices.RevokeOne(token); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":     "Internal server error",
				"requestID": requestID,
			})

			zap.L().Error("Failed to revoke device token", zap.Error(err), zap.String("requestID", requestID))
			return
		}
	}

	middleware.ClearLoginCookie(c)
	c.Status(http.StatusNoContent)
}
