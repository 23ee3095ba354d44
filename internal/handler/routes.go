package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/zgsm-ai/tool-reply/internal/bootstrap"
)

func RegisterHandlers(router *gin.Engine, serverCtx *bootstrap.ServiceContext) {
	apiGroup := router.Group("/tool-reply/api")
	{
		apiGroup.POST("/v1/responses/format", FormatHandler(serverCtx))
		apiGroup.GET("/v1/styles/:category", StylesHandler(serverCtx))
		apiGroup.GET("/v1/monitor/alerts", AlertsHandler(serverCtx))
		apiGroup.PUT("/v1/monitor/config", MonitorConfigHandler(serverCtx))
	}
	router.GET("/metrics", MetricsHandler(serverCtx))
}
