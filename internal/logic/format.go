package logic

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/zgsm-ai/tool-reply/internal/bootstrap"
	"github.com/zgsm-ai/tool-reply/internal/logger"
	"github.com/zgsm-ai/tool-reply/internal/model"
	"github.com/zgsm-ai/tool-reply/internal/timeout"
	"github.com/zgsm-ai/tool-reply/internal/types"
	"go.uber.org/zap"
)

// defaultGenerationTimeout bounds a generation attempt when no timeout is
// configured
const defaultGenerationTimeout = 30 * time.Second

// FormatLogic orchestrates one formatting request: monitoring lifecycle,
// pipeline invocation bounded by the generation deadline, and async logging.
type FormatLogic struct {
	ctx      context.Context
	svcCtx   *bootstrap.ServiceContext
	identity model.Identity
}

// NewFormatLogic creates format logic for one request
func NewFormatLogic(ctx context.Context, svcCtx *bootstrap.ServiceContext, identity model.Identity) *FormatLogic {
	return &FormatLogic{
		ctx:      ctx,
		svcCtx:   svcCtx,
		identity: identity,
	}
}

// Format runs the pipeline for the request and returns the formatted
// response with its monitoring summary
func (l *FormatLogic) Format(req *types.FormatRequest) (*types.FormatAPIResponse, error) {
	contextID := l.identity.RequestID
	if contextID == "" {
		contextID = uuid.New().String()
	}

	fc := req.ToFormattingContext(contextID, l.svcCtx.Config.Response.ToResponseConfig())
	if fc.AgentID == "" {
		fc.AgentID = l.identity.AgentID
	}
	if fc.UserID == "" {
		fc.UserID = l.identity.UserID
	}

	tracker := l.svcCtx.Monitor.StartMonitoring(fc)

	// The pipeline imposes no timeout of its own; the deadline lives here
	perCall := defaultGenerationTimeout
	if l.svcCtx.Config.LLM.TimeoutSec > 0 {
		perCall = time.Duration(l.svcCtx.Config.LLM.TimeoutSec) * time.Second
	}
	budget := timeout.NewBudget(perCall)
	genCtx, cancel := timeout.Bound(l.ctx, perCall, budget)
	defer cancel()

	response, formatErr := l.svcCtx.Pipeline.Format(genCtx, fc, tracker)

	monitoring, monitorErr := l.svcCtx.Monitor.CompleteMonitoring(tracker, response)
	if monitorErr != nil {
		logger.Warn("monitoring completion failed",
			zap.String("contextID", contextID),
			zap.Error(monitorErr),
		)
	}

	formatLog := l.buildFormatLog(fc, response, monitoring)
	if formatErr != nil {
		formatLog.AddError(classifyError(formatErr), formatErr)
		l.svcCtx.LogRecord.LogAsync(formatLog)
		return nil, formatErr
	}

	l.svcCtx.LogRecord.LogAsync(formatLog)

	return &types.FormatAPIResponse{
		Response:   response,
		Monitoring: monitoring,
	}, nil
}

// buildFormatLog assembles the request log record from the pipeline and
// monitoring outcomes
func (l *FormatLogic) buildFormatLog(fc *types.FormattingContext, response *types.FormattedResponse, monitoring *types.MonitoringResult) *model.FormatLog {
	formatLog := &model.FormatLog{
		Identity:  l.identity,
		Timestamp: time.Now(),
		ContextID: fc.ContextID,
		ToolID:    fc.Result.ToolID,
		Category:  string(fc.Category),
	}

	if response != nil {
		formatLog.Success = true
		formatLog.Style = string(response.Style)
		formatLog.CacheHit = response.Metrics.CacheHit
		formatLog.ResponseLength = len(response.Content)
		formatLog.QualityScore = response.QualityScore
		formatLog.PromptTokens = response.Metrics.PromptTokens
		formatLog.ResponseTokens = response.Metrics.ResponseTokens
	}

	if monitoring != nil {
		formatLog.Stages = monitoring.Metrics
		formatLog.Bottlenecks = monitoring.Bottlenecks
		formatLog.Alerts = monitoring.Alerts
		formatLog.Suggestions = monitoring.Suggestions
	}

	return formatLog
}

// classifyError maps a pipeline failure to its error type for logging
func classifyError(err error) types.ErrorType {
	switch {
	case types.IsGenerationError(err):
		return types.ErrGeneration
	case types.IsValidationError(err):
		return types.ErrValidation
	default:
		return types.ErrServerError
	}
}
