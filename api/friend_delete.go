package api

import (
	"errors"
	"net/http"

	"github.com/dmm8rgbc4y-sudo/jantomo/internal/friend"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type friendDeleteBody struct {
	FriendID uint `json:"friend_id" binding:"required"`
}

// FriendDelete removes a relation no matter which side created it.
func (a *API) FriendDelete(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(uint)

	var data friendDeleteBody
	if err := c.ShouldBind(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "No deletion target provided",
			"requestID": requestID,
		})
		return
	}

	if err := a.Friends.Remove(userID, data.FriendID); err != nil {
		if errors.Is(err, friend.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error":     "Friend relation not found",
				"requestID": requestID,
			})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to delete friend relation", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.Status(http.StatusNoContent)
}
