package api

import (
	"errors"
	"net/http"

	"github.com/dmm8rgbc4y-sudo/jantomo/internal/friend"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// FriendInbox lists the users whose requests to the caller are still
// pending, oldest first.
func (a *API) FriendInbox(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(uint)

	senders, err := a.Friends.PendingFor(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to list inbox", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	type sender struct {
		ID       uint   `json:"id"`
		Username string `json:"username"`
	}

	out := make([]sender, 0, len(senders))
	for _, u := range senders {
		out = append(out, sender{ID: u.ID, Username: u.Username})
	}

	c.JSON(http.StatusOK, gin.H{
		"requests": out,
	})
}

type friendRespondBody struct {
	Action     string `json:"action" binding:"required"`
	FromUserID uint   `json:"from_user_id" binding:"required"`
}

// FriendRespond accepts or rejects a pending request, addressed by the
// user who sent it.
func (a *API) FriendRespond(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(uint)

	var data friendRespondBody
	if err := c.ShouldBind(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid request body",
			"requestID": requestID,
		})
		return
	}

	if data.Action != "accept" && data.Action != "reject" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "action must be accept or reject",
			"requestID": requestID,
		})
		return
	}

	pendingID, err := a.Friends.PendingRequest(data.FromUserID, userID)
	if err == nil {
		err = a.Friends.Respond(pendingID, userID, data.Action == "accept")
	}
	if err != nil {
		if errors.Is(err, friend.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error":     "No pending request from this user",
				"requestID": requestID,
			})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to respond to friend request", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"action": data.Action,
	})
}
