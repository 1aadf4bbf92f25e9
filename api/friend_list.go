package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// FriendList returns the caller's accepted friends in the order the
// relations were created.
func (a *API) FriendList(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(uint)

	ids, err := a.Friends.ListAcceptedIDs(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to list friends", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	names, err := a.Friends.NamesByID(ids)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to fetch usernames", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	type entry struct {
		ID       uint   `json:"id"`
		Username string `json:"username"`
	}

	out := make([]entry, 0, len(ids))
	for _, id := range ids {
		out = append(out, entry{ID: id, Username: names[id]})
	}

	c.JSON(http.StatusOK, gin.H{
		"friends": out,
	})
}
