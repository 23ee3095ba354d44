package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/zgsm-ai/tool-reply/internal/model"
)

// getIdentityFromHeaders extracts request headers and creates the Identity
// used for logging and metrics labels
func getIdentityFromHeaders(c *gin.Context) model.Identity {
	caller := c.GetHeader("x-caller")
	if caller == "" {
		caller = "agent"
	}

	return model.NewIdentity(
		c.GetHeader("x-request-id"),
		c.GetHeader("x-agent-id"),
		c.GetHeader("x-user-id"),
		caller,
		c.GetHeader("authorization"),
	)
}
