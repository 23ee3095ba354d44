package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zgsm-ai/tool-reply/internal/bootstrap"
	"github.com/zgsm-ai/tool-reply/internal/logic"
	"github.com/zgsm-ai/tool-reply/internal/types"
)

// AlertsHandler returns the currently active performance alerts
func AlertsHandler(svcCtx *bootstrap.ServiceContext) gin.HandlerFunc {
	return func(c *gin.Context) {
		l := logic.NewMonitorLogic(c.Request.Context(), svcCtx)
		c.JSON(http.StatusOK, l.ActiveAlerts())
	}
}

// MonitorConfigHandler applies a runtime monitor configuration update
func MonitorConfigHandler(svcCtx *bootstrap.ServiceContext) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req types.MonitorConfigRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		l := logic.NewMonitorLogic(c.Request.Context(), svcCtx)
		l.UpdateConfiguration(&req)

		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}
