package monitor

import (
	"fmt"
	"sync"
	"time"

	"github.com/zgsm-ai/tool-reply/internal/config"
	"github.com/zgsm-ai/tool-reply/internal/logger"
	"github.com/zgsm-ai/tool-reply/internal/types"
	"go.uber.org/zap"
)

// DefaultStageThresholds holds the per-stage latency budgets in
// milliseconds. All of them are overridable via configuration.
var DefaultStageThresholds = map[string]int64{
	types.StageTemplateRetrieval:      50,
	types.StageSystemPromptGeneration: 100,
	types.StageLLMGeneration:          2000,
	types.StagePostProcessing:         50,
	types.StageQualityScoring:         100,
	types.StageCacheOperations:        25,
	types.StageTotalProcessingTime:    3000,
}

// severityBreakpoints maps duration/threshold ratios to severities,
// checked highest first. Kept as data so cutoffs stay tunable.
var severityBreakpoints = []struct {
	Ratio    float64
	Severity types.Severity
}{
	{5, types.SeverityCritical},
	{3, types.SeverityHigh},
	{2, types.SeverityMedium},
}

// Alerting limits, independent of the bottleneck thresholds
const (
	alertTotalTimeMs    = 5000
	alertGenerationMs   = 3000
	defaultAlertTTL     = 5 * time.Minute
	defaultHistoryLimit = 100
)

// Tracker accumulates stage timings for one in-flight formatting request.
// Each request owns its tracker; completion is terminal.
type Tracker struct {
	contextID string
	category  types.ToolCategory
	startTime time.Time
	enabled   bool

	mu        sync.Mutex
	stages    map[string]int64
	completed bool
}

// ContextID returns the id of the request being tracked
func (t *Tracker) ContextID() string {
	return t.contextID
}

// StartTime returns when tracking began
func (t *Tracker) StartTime() time.Time {
	return t.startTime
}

// PerformanceMonitor wraps pipeline invocations with per-stage timers,
// classifies overruns into bottlenecks, and raises alerts. It is safe for
// concurrent use by multiple in-flight requests.
type PerformanceMonitor struct {
	mu         sync.RWMutex
	enabled    bool
	thresholds map[string]int64
	alertTTL   time.Duration

	alerts  *AlertStore
	history *historyRing
}

// NewPerformanceMonitor creates a monitor from configuration. Thresholds
// absent from the config fall back to the built-in defaults.
func NewPerformanceMonitor(c config.MonitorConfig) *PerformanceMonitor {
	thresholds := make(map[string]int64, len(DefaultStageThresholds))
	for stage, ms := range DefaultStageThresholds {
		thresholds[stage] = ms
	}
	for stage, ms := range c.StageThresholds {
		thresholds[stage] = ms
	}

	alertTTL := defaultAlertTTL
	if c.AlertTTLSec > 0 {
		alertTTL = time.Duration(c.AlertTTLSec) * time.Second
	}
	historyLimit := c.AlertHistoryLimit
	if historyLimit <= 0 {
		historyLimit = defaultHistoryLimit
	}

	return &PerformanceMonitor{
		enabled:    c.Enabled,
		thresholds: thresholds,
		alertTTL:   alertTTL,
		alerts:     NewAlertStore(historyLimit),
		history:    newHistoryRing(historyLimit),
	}
}

// StartMonitoring creates the tracker for one formatting request. When
// monitoring is disabled a no-op tracker is returned; completing it yields
// zero-valued metrics and no bottlenecks.
func (pm *PerformanceMonitor) StartMonitoring(fc *types.FormattingContext) *Tracker {
	pm.mu.RLock()
	enabled := pm.enabled
	pm.mu.RUnlock()

	return &Tracker{
		contextID: fc.ContextID,
		category:  fc.Category,
		startTime: time.Now(),
		enabled:   enabled,
		stages:    make(map[string]int64),
	}
}

// RecordStageCompletion stores the elapsed wall-clock time since startTime
// against the stage name
func (pm *PerformanceMonitor) RecordStageCompletion(t *Tracker, stage string, startTime time.Time) {
	if t == nil || !t.enabled {
		return
	}

	elapsed := time.Since(startTime).Milliseconds()

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.completed {
		return
	}
	t.stages[stage] = elapsed
}

// CompleteMonitoring finalizes the tracker: assembles stage metrics,
// classifies bottlenecks, generates suggestions and raises alerts.
// It is terminal; completing the same tracker twice is an error.
func (pm *PerformanceMonitor) CompleteMonitoring(t *Tracker, result *types.FormattedResponse) (*types.MonitoringResult, error) {
	if t == nil {
		return nil, fmt.Errorf("nil tracker")
	}

	t.mu.Lock()
	if t.completed {
		t.mu.Unlock()
		return nil, fmt.Errorf("tracker for context %s already completed", t.contextID)
	}
	t.completed = true
	metrics := pm.assembleMetrics(t)
	t.mu.Unlock()

	out := &types.MonitoringResult{
		ContextID: t.contextID,
		Category:  t.category,
		Metrics:   metrics,
	}

	if !t.enabled {
		out.Metrics = types.ProcessingStageMetrics{}
		return out, nil
	}

	out.Bottlenecks = pm.detectBottlenecks(metrics)
	out.Suggestions = generateSuggestions(t.category, metrics, out.Bottlenecks)
	out.Alerts = pm.raiseAlerts(t.contextID, metrics)

	pm.history.add(out)

	if len(out.Bottlenecks) > 0 {
		logger.Warn("performance bottlenecks detected",
			zap.String("contextID", t.contextID),
			zap.String("category", string(t.category)),
			zap.Int("bottlenecks", len(out.Bottlenecks)),
			zap.Int64("totalMs", metrics.TotalProcessingTime),
		)
	}

	return out, nil
}

// assembleMetrics builds the stage metrics snapshot. Absent stages default
// to 0; total time is wall clock from tracker start. Caller holds t.mu.
func (pm *PerformanceMonitor) assembleMetrics(t *Tracker) types.ProcessingStageMetrics {
	return types.ProcessingStageMetrics{
		TemplateRetrieval:      t.stages[types.StageTemplateRetrieval],
		SystemPromptGeneration: t.stages[types.StageSystemPromptGeneration],
		LLMGeneration:          t.stages[types.StageLLMGeneration],
		PostProcessing:         t.stages[types.StagePostProcessing],
		QualityScoring:         t.stages[types.StageQualityScoring],
		CacheOperations:        t.stages[types.StageCacheOperations],
		TotalProcessingTime:    time.Since(t.startTime).Milliseconds(),
	}
}

// detectBottlenecks emits a bottleneck for every stage whose duration
// exceeds its configured threshold
func (pm *PerformanceMonitor) detectBottlenecks(metrics types.ProcessingStageMetrics) []types.PerformanceBottleneck {
	pm.mu.RLock()
	thresholds := make(map[string]int64, len(pm.thresholds))
	for stage, ms := range pm.thresholds {
		thresholds[stage] = ms
	}
	pm.mu.RUnlock()

	var bottlenecks []types.PerformanceBottleneck
	for _, stage := range []string{
		types.StageTemplateRetrieval,
		types.StageSystemPromptGeneration,
		types.StageLLMGeneration,
		types.StagePostProcessing,
		types.StageQualityScoring,
		types.StageCacheOperations,
		types.StageTotalProcessingTime,
	} {
		threshold, ok := thresholds[stage]
		if !ok || threshold <= 0 {
			continue
		}
		duration := metrics.Stage(stage)
		if duration <= threshold {
			continue
		}

		severity := classifySeverity(float64(duration) / float64(threshold))
		bottlenecks = append(bottlenecks, types.PerformanceBottleneck{
			Stage:          stage,
			DurationMs:     duration,
			ThresholdMs:    threshold,
			Severity:       severity,
			Impact:         stageImpact(stage, duration, threshold),
			Recommendation: stageRecommendation(stage),
		})
	}

	return bottlenecks
}

// classifySeverity grades a duration/threshold ratio against the breakpoints
func classifySeverity(ratio float64) types.Severity {
	for _, bp := range severityBreakpoints {
		if ratio >= bp.Ratio {
			return bp.Severity
		}
	}
	return types.SeverityLow
}

// raiseAlerts checks the alerting limits, which apply independently of the
// bottleneck thresholds
func (pm *PerformanceMonitor) raiseAlerts(contextID string, metrics types.ProcessingStageMetrics) []types.PerformanceAlert {
	var raised []types.PerformanceAlert

	if metrics.TotalProcessingTime > alertTotalTimeMs {
		raised = append(raised, pm.alerts.Raise(
			"slow_response",
			types.SeverityHigh,
			fmt.Sprintf("total processing time %dms exceeded %dms", metrics.TotalProcessingTime, alertTotalTimeMs),
			contextID,
			pm.alertTTL,
		))
	}

	if metrics.LLMGeneration > alertGenerationMs {
		raised = append(raised, pm.alerts.Raise(
			"slow_generation",
			types.SeverityHigh,
			fmt.Sprintf("generation time %dms exceeded %dms", metrics.LLMGeneration, alertGenerationMs),
			contextID,
			pm.alertTTL,
		))
	}

	return raised
}

// GetActiveAlerts returns unexpired alerts, most recent first
func (pm *PerformanceMonitor) GetActiveAlerts() []types.PerformanceAlert {
	return pm.alerts.Active(time.Now())
}

// RecentResults returns the retained monitoring history, most recent first
func (pm *PerformanceMonitor) RecentResults() []*types.MonitoringResult {
	return pm.history.snapshot()
}

// UpdateConfiguration applies a runtime configuration change. A nil enabled
// leaves the flag untouched; thresholds given here override per stage.
func (pm *PerformanceMonitor) UpdateConfiguration(enabled *bool, stageThresholds map[string]int64) {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	if enabled != nil {
		pm.enabled = *enabled
	}
	for stage, ms := range stageThresholds {
		if ms > 0 {
			pm.thresholds[stage] = ms
		}
	}

	logger.Info("monitor configuration updated",
		zap.Bool("enabled", pm.enabled),
		zap.Any("thresholds", pm.thresholds),
	)
}

// ApplyConfig applies a full MonitorConfig, used by the config watcher
func (pm *PerformanceMonitor) ApplyConfig(c config.MonitorConfig) {
	enabled := c.Enabled
	pm.UpdateConfiguration(&enabled, c.StageThresholds)
}

// historyRing retains the most recent N monitoring results
type historyRing struct {
	mu      sync.Mutex
	limit   int
	results []*types.MonitoringResult
}

func newHistoryRing(limit int) *historyRing {
	return &historyRing{limit: limit}
}

func (h *historyRing) add(r *types.MonitoringResult) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.results = append(h.results, r)
	if len(h.results) > h.limit {
		h.results = h.results[len(h.results)-h.limit:]
	}
}

func (h *historyRing) snapshot() []*types.MonitoringResult {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]*types.MonitoringResult, 0, len(h.results))
	for i := len(h.results) - 1; i >= 0; i-- {
		out = append(out, h.results[i])
	}
	return out
}
