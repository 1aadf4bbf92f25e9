package api

import (
	"errors"
	"net/http"

	"github.com/dmm8rgbc4y-sudo/jantomo/internal/credential"
	"github.com/dmm8rgbc4y-sudo/jantomo/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type registerBody struct {
	Username string `json:"username"`
	PIN      string `json:"pin"`
}

func (a *API) UserRegister(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	var data registerBody
	if err := c.ShouldBind(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid request body",
			"requestID": requestID,
		})

		zap.L().Error("Can't bind request body", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	userID, err := a.Users.Register(data.Username, data.PIN)
	if err != nil {
		if errors.Is(err, credential.ErrDuplicateUsername) {
			c.JSON(http.StatusConflict, gin.H{
				"error":     "This username is already registered. Please login or pick a different name",
				"requestID": requestID,
			})
			return
		}

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

		zap.L().Error("Failed to register user", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	token, err := a.Devices.Issue(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to issue device token", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	middleware.SetLoginCookie(c, token)

	c.JSON(http.StatusCreated, gin.H{
		"userID": userID,
	})
}
