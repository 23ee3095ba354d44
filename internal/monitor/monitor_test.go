package monitor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zgsm-ai/tool-reply/internal/config"
	"github.com/zgsm-ai/tool-reply/internal/types"
)

func newTestMonitor(enabled bool) *PerformanceMonitor {
	return NewPerformanceMonitor(config.MonitorConfig{Enabled: enabled})
}

func testFormattingContext(contextID string) *types.FormattingContext {
	return &types.FormattingContext{
		ContextID: contextID,
		Category:  types.CategoryWorkspace,
	}
}

func TestClassifySeverity(t *testing.T) {
	tests := []struct {
		name  string
		ratio float64
		want  types.Severity
	}{
		{"exactly 5x is critical", 5.0, types.SeverityCritical},
		{"above 5x is critical", 8.2, types.SeverityCritical},
		{"exactly 3x is high", 3.0, types.SeverityHigh},
		{"between 3x and 5x is high", 4.9, types.SeverityHigh},
		{"exactly 2x is medium", 2.0, types.SeverityMedium},
		{"just under 2x is low", 1.99, types.SeverityLow},
		{"just over threshold is low", 1.01, types.SeverityLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classifySeverity(tt.ratio))
		})
	}
}

func TestDetectBottlenecks(t *testing.T) {
	pm := newTestMonitor(true)

	t.Run("at threshold emits nothing", func(t *testing.T) {
		metrics := types.ProcessingStageMetrics{TemplateRetrieval: 50}
		assert.Empty(t, pm.detectBottlenecks(metrics))
	})

	t.Run("over threshold emits one bottleneck", func(t *testing.T) {
		metrics := types.ProcessingStageMetrics{TemplateRetrieval: 51}
		got := pm.detectBottlenecks(metrics)
		require.Len(t, got, 1)
		assert.Equal(t, types.StageTemplateRetrieval, got[0].Stage)
		assert.Equal(t, int64(51), got[0].DurationMs)
		assert.Equal(t, int64(50), got[0].ThresholdMs)
		assert.Equal(t, types.SeverityLow, got[0].Severity)
		assert.NotEmpty(t, got[0].Impact)
		assert.NotEmpty(t, got[0].Recommendation)
	})

	t.Run("severity follows the ratio", func(t *testing.T) {
		metrics := types.ProcessingStageMetrics{
			TemplateRetrieval: 250,  // 5x of 50
			LLMGeneration:     6000, // 3x of 2000
			PostProcessing:    100,  // 2x of 50
			CacheOperations:   30,   // 1.2x of 25
		}
		got := pm.detectBottlenecks(metrics)
		require.Len(t, got, 4)

		bySeverity := map[string]types.Severity{}
		for _, b := range got {
			bySeverity[b.Stage] = b.Severity
		}
		assert.Equal(t, types.SeverityCritical, bySeverity[types.StageTemplateRetrieval])
		assert.Equal(t, types.SeverityHigh, bySeverity[types.StageLLMGeneration])
		assert.Equal(t, types.SeverityMedium, bySeverity[types.StagePostProcessing])
		assert.Equal(t, types.SeverityLow, bySeverity[types.StageCacheOperations])
	})
}

func TestRaiseAlerts(t *testing.T) {
	t.Run("total over 5000ms raises an alert", func(t *testing.T) {
		pm := newTestMonitor(true)
		alerts := pm.raiseAlerts("ctx-1", types.ProcessingStageMetrics{TotalProcessingTime: 5001})
		require.Len(t, alerts, 1)
		assert.Equal(t, "slow_response", alerts[0].Type)
		assert.Len(t, pm.GetActiveAlerts(), 1)
	})

	t.Run("total of 4999ms raises none", func(t *testing.T) {
		pm := newTestMonitor(true)
		assert.Empty(t, pm.raiseAlerts("ctx-2", types.ProcessingStageMetrics{TotalProcessingTime: 4999}))
		assert.Empty(t, pm.GetActiveAlerts())
	})

	t.Run("generation over 3000ms raises an alert", func(t *testing.T) {
		pm := newTestMonitor(true)
		alerts := pm.raiseAlerts("ctx-3", types.ProcessingStageMetrics{LLMGeneration: 3001})
		require.Len(t, alerts, 1)
		assert.Equal(t, "slow_generation", alerts[0].Type)
	})

	t.Run("both limits raise two alerts", func(t *testing.T) {
		pm := newTestMonitor(true)
		alerts := pm.raiseAlerts("ctx-4", types.ProcessingStageMetrics{
			TotalProcessingTime: 6000,
			LLMGeneration:       4000,
		})
		assert.Len(t, alerts, 2)
	})
}

func TestCompleteMonitoring(t *testing.T) {
	pm := newTestMonitor(true)
	fc := testFormattingContext("ctx-complete")

	tracker := pm.StartMonitoring(fc)
	pm.RecordStageCompletion(tracker, types.StageTemplateRetrieval, time.Now().Add(-10*time.Millisecond))

	result, err := pm.CompleteMonitoring(tracker, nil)
	require.NoError(t, err)
	assert.Equal(t, "ctx-complete", result.ContextID)
	assert.Equal(t, types.CategoryWorkspace, result.Category)
	assert.GreaterOrEqual(t, result.Metrics.TemplateRetrieval, int64(10))
	assert.GreaterOrEqual(t, result.Metrics.TotalProcessingTime, int64(0))
}

func TestCompleteMonitoringTwiceFails(t *testing.T) {
	pm := newTestMonitor(true)
	tracker := pm.StartMonitoring(testFormattingContext("ctx-twice"))

	_, err := pm.CompleteMonitoring(tracker, nil)
	require.NoError(t, err)

	_, err = pm.CompleteMonitoring(tracker, nil)
	assert.Error(t, err)
}

func TestRecordAfterCompleteIsIgnored(t *testing.T) {
	pm := newTestMonitor(true)
	tracker := pm.StartMonitoring(testFormattingContext("ctx-late"))

	_, err := pm.CompleteMonitoring(tracker, nil)
	require.NoError(t, err)

	// Late recording must not panic or alter anything
	pm.RecordStageCompletion(tracker, types.StageLLMGeneration, time.Now().Add(-time.Second))
}

func TestDisabledMonitoring(t *testing.T) {
	pm := newTestMonitor(false)
	tracker := pm.StartMonitoring(testFormattingContext("ctx-disabled"))

	pm.RecordStageCompletion(tracker, types.StageLLMGeneration, time.Now().Add(-time.Second))

	result, err := pm.CompleteMonitoring(tracker, nil)
	require.NoError(t, err)
	assert.Equal(t, types.ProcessingStageMetrics{}, result.Metrics)
	assert.Empty(t, result.Bottlenecks)
	assert.Empty(t, result.Suggestions)
	assert.Empty(t, result.Alerts)
}

func TestUpdateConfiguration(t *testing.T) {
	pm := newTestMonitor(true)

	pm.UpdateConfiguration(nil, map[string]int64{types.StageTemplateRetrieval: 500})

	// Below the new threshold, no bottleneck
	assert.Empty(t, pm.detectBottlenecks(types.ProcessingStageMetrics{TemplateRetrieval: 400}))

	// Disabling via the flag makes new trackers no-ops
	disabled := false
	pm.UpdateConfiguration(&disabled, nil)
	tracker := pm.StartMonitoring(testFormattingContext("ctx-toggled"))
	assert.False(t, tracker.enabled)
}

func TestMonitoringHistoryBounded(t *testing.T) {
	pm := NewPerformanceMonitor(config.MonitorConfig{Enabled: true, AlertHistoryLimit: 5})

	for i := 0; i < 8; i++ {
		tracker := pm.StartMonitoring(testFormattingContext("ctx-history"))
		_, err := pm.CompleteMonitoring(tracker, nil)
		require.NoError(t, err)
	}

	assert.Len(t, pm.RecentResults(), 5)
}
