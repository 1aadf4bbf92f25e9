// Package middleware contains any custom middleware used in the app
package middleware

import (
	"errors"
	"net/http"

	"github.com/dmm8rgbc4y-sudo/jantomo/internal/device"
	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// CookieName is the cookie carrying the device token.
const CookieName = "device_token"

// SetLoginCookie writes the device token cookie the way every login-ish
// handler needs it: HttpOnly, Lax, 30 day max-age, secure when SSL is on.
func SetLoginCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, token, int(device.TokenTTL.Seconds()), "/", "", viper.GetBool("host.ssl.enabled"), true)
}

// ClearLoginCookie removes the device token cookie from the browser.
func ClearLoginCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, "", -1, "/", "", viper.GetBool("host.ssl.enabled"), true)
}

// NewDeviceTokenMiddleware authenticates the device token cookie once per
// request and stores the resulting user ID in the context. Requests with
// a missing, unknown, revoked or expired token get a 401; when the token
// itself is the cause the cookie is cleared so the browser stops sending
// a dead token.
func NewDeviceTokenMiddleware(d *device.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.MustGet("requestID").(string)

		token, err := c.Cookie(CookieName)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":     "not_logged_in",
				"requestID": requestID,
			})
			return
		}

		userID, err := d.Authenticate(token)
		if err != nil {
			switch {
			case errors.Is(err, device.ErrTokenExpired):
				ClearLoginCookie(c)
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
					"error":     "token_expired",
					"requestID": requestID,
				})
			case errors.Is(err, device.ErrTokenNotFound), errors.Is(err, device.ErrTokenRevoked):
				ClearLoginCookie(c)
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
					"error":     "token_invalid",
					"requestID": requestID,
				})
			default:
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error":     "internal_server_error",
					"requestID": requestID,
				})

				zap.L().Error("Failed to authenticate device token", zap.Error(err), zap.String("requestID", requestID))
			}
			return
		}

		c.Set("userID", userID)
		c.Next()
	}
}
