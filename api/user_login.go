package api

import (
	"errors"
	"net/http"

	"github.com/dmm8rgbc4y-sudo/jantomo/internal/credential"
	"github.com/dmm8rgbc4y-sudo/jantomo/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type loginBody struct {
	Username string `json:"username"`
	PIN      string `json:"pin"`
}

func (a *API) UserLogin(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	var data loginBody
	if err := c.ShouldBind(&data); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid request body",
			"requestID": requestID,
		})

		zap.L().Error("Can't bind request body", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	userID, err := a.Users.Verify(data.Username, data.PIN)
	if err != nil {
		switch {
		case errors.Is(err, credential.ErrUnknownUser):
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
				"error":     "User not found",
				"requestID": requestID,
			})
		case errors.Is(err, credential.ErrWrongPIN):
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":     "Invalid credentials",
				"requestID": requestID,
			})
		case isValidationError(err):
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error":     err.Error(),
				"requestID": requestID,
			})
		default:
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error":     "Internal server error",
				"requestID": requestID,
			})

			zap.L().Error("Failed to verify credentials", zap.Error(err), zap.String("requestID", requestID))
		}
		return
	}

	// Logging in supersedes every other active session of the account,
	// revocation and the fresh issue happen in one transaction
	token, err := a.Devices.Rotate(userID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to rotate device token", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	middleware.SetLoginCookie(c, token)

	c.JSON(http.StatusOK, gin.H{
		"userID": userID,
	})
}
