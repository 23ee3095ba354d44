package logic

import (
	"context"

	"github.com/zgsm-ai/tool-reply/internal/bootstrap"
	"github.com/zgsm-ai/tool-reply/internal/types"
)

// MonitorLogic serves the monitor's alert and configuration operations
type MonitorLogic struct {
	ctx    context.Context
	svcCtx *bootstrap.ServiceContext
}

// NewMonitorLogic creates monitor logic for one request
func NewMonitorLogic(ctx context.Context, svcCtx *bootstrap.ServiceContext) *MonitorLogic {
	return &MonitorLogic{
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

// ActiveAlerts returns the unexpired performance alerts
func (l *MonitorLogic) ActiveAlerts() *types.AlertsResponse {
	return &types.AlertsResponse{
		Alerts: l.svcCtx.Monitor.GetActiveAlerts(),
	}
}

// UpdateConfiguration applies a runtime monitor configuration change
func (l *MonitorLogic) UpdateConfiguration(req *types.MonitorConfigRequest) {
	l.svcCtx.Monitor.UpdateConfiguration(req.Enabled, req.StageThresholds)
}
