package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zgsm-ai/tool-reply/internal/bootstrap"
	"github.com/zgsm-ai/tool-reply/internal/logic"
	"github.com/zgsm-ai/tool-reply/internal/types"
)

// StylesHandler lists the selectable response styles for a tool category
func StylesHandler(svcCtx *bootstrap.ServiceContext) gin.HandlerFunc {
	return func(c *gin.Context) {
		category := types.ToolCategory(c.Param("category"))

		l := logic.NewStylesLogic(c.Request.Context(), svcCtx)
		c.JSON(http.StatusOK, l.Styles(category))
	}
}
