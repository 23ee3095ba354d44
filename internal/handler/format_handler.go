package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zgsm-ai/tool-reply/internal/bootstrap"
	"github.com/zgsm-ai/tool-reply/internal/logic"
	"github.com/zgsm-ai/tool-reply/internal/types"
)

// FormatHandler handles formatting requests
func FormatHandler(svcCtx *bootstrap.ServiceContext) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req types.FormatRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		identity := getIdentityFromHeaders(c)
		l := logic.NewFormatLogic(c.Request.Context(), svcCtx, identity)

		resp, err := l.Format(&req)
		if err != nil {
			apiErr := toAPIError(err)
			c.AbortWithStatusJSON(apiErr.StatusCode, apiErr)
			return
		}

		c.JSON(http.StatusOK, resp)
	}
}

// toAPIError maps pipeline failures onto the HTTP error envelope
func toAPIError(err error) *types.APIError {
	switch {
	case types.IsGenerationError(err):
		return types.NewGenerationFailedError()
	case types.IsValidationError(err):
		return types.NewValidationFailedError()
	default:
		return types.NewInternalError()
	}
}
