package api

import (
	"errors"
	"net/http"

	"github.com/dmm8rgbc4y-sudo/jantomo/internal/friend"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type friendRequestBody struct {
	Username string `json:"username" binding:"required"`
}

func (a *API) FriendRequest(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(uint)

	var data friendRequestBody
	if err := c.ShouldBind(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Username field can't be empty",
			"requestID": requestID,
		})
		return
	}

	relationID, err := a.Friends.SendRequest(userID, data.Username)
	if err != nil {
		switch {
		case errors.Is(err, friend.ErrUnknownUser):
			c.JSON(http.StatusNotFound, gin.H{
				"error":     "User not found",
				"requestID": requestID,
			})
		case errors.Is(err, friend.ErrSelfRequest):
			c.JSON(http.StatusBadRequest, gin.H{
				"error":     "You can't send a friend request to yourself",
				"requestID": requestID,
			})
		case errors.Is(err, friend.ErrAlreadyRelated):
			c.JSON(http.StatusConflict, gin.H{
				"error":     "You already have a relation with this user",
				"requestID": requestID,
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":     "Internal server error",
				"requestID": requestID,
			})

			zap.L().Error("Failed to send friend request", zap.Error(err), zap.String("requestID", requestID))
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"relationID": relationID,
	})
}
