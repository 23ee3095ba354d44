package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/zgsm-ai/tool-reply/internal/model"
	"github.com/zgsm-ai/tool-reply/internal/types"
)

// MetricsInterface is implemented by the Prometheus metrics service
type MetricsInterface interface {
	// RecordFormatLog records metrics from a completed formatting request
	RecordFormatLog(log *model.FormatLog)
}

// MetricsService handles Prometheus metrics collection
type MetricsService struct {
	// Request metrics
	requestsTotal *prometheus.CounterVec

	// Latency metrics
	stageLatency      *prometheus.HistogramVec
	generationLatency *prometheus.HistogramVec
	totalLatency      *prometheus.HistogramVec

	// Quality metrics
	qualityScore *prometheus.HistogramVec

	// Token metrics
	promptTokensTotal   *prometheus.CounterVec
	responseTokensTotal *prometheus.CounterVec

	// Monitoring outcome metrics
	bottlenecksTotal *prometheus.CounterVec
	alertsTotal      *prometheus.CounterVec

	// Error metrics
	errorsTotal *prometheus.CounterVec
}

// NewMetricsService creates a new metrics service
func NewMetricsService() *MetricsService {
	ms := &MetricsService{
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tool_reply_requests_total",
				Help: "Total number of formatting requests",
			},
			[]string{"category", "style", "cache_hit"},
		),

		stageLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tool_reply_stage_latency_ms",
				Help:    "Per-stage processing latency in milliseconds",
				Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2000},
			},
			[]string{"stage", "category"},
		),

		generationLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tool_reply_generation_latency_ms",
				Help:    "Generation backend latency in milliseconds",
				Buckets: []float64{100, 250, 500, 1000, 2000, 3000, 5000, 10000},
			},
			[]string{"category", "style"},
		),

		totalLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tool_reply_total_latency_ms",
				Help:    "Total request processing latency in milliseconds",
				Buckets: []float64{10, 50, 100, 250, 500, 1000, 2000, 3000, 5000, 10000},
			},
			[]string{"category"},
		),

		qualityScore: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tool_reply_quality_score",
				Help:    "Distribution of response quality scores",
				Buckets: []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1.0},
			},
			[]string{"category", "style"},
		),

		promptTokensTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tool_reply_prompt_tokens_total",
				Help: "Total number of prompt tokens sent to the backend",
			},
			[]string{"category"},
		),

		responseTokensTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tool_reply_response_tokens_total",
				Help: "Total number of response tokens generated",
			},
			[]string{"category"},
		),

		bottlenecksTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tool_reply_bottlenecks_total",
				Help: "Total number of detected performance bottlenecks",
			},
			[]string{"stage", "severity"},
		),

		alertsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tool_reply_alerts_total",
				Help: "Total number of raised performance alerts",
			},
			[]string{"type", "severity"},
		),

		errorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tool_reply_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"error_type", "category"},
		),
	}

	// Register all metrics
	prometheus.MustRegister(
		ms.requestsTotal,
		ms.stageLatency,
		ms.generationLatency,
		ms.totalLatency,
		ms.qualityScore,
		ms.promptTokensTotal,
		ms.responseTokensTotal,
		ms.bottlenecksTotal,
		ms.alertsTotal,
		ms.errorsTotal,
	)

	return ms
}

// RecordFormatLog records metrics from a FormatLog entry
func (ms *MetricsService) RecordFormatLog(log *model.FormatLog) {
	ms.requestsTotal.With(prometheus.Labels{
		"category":  log.Category,
		"style":     log.Style,
		"cache_hit": boolLabel(log.CacheHit),
	}).Inc()

	ms.recordStageLatencies(log)

	if log.Stages.LLMGeneration > 0 {
		ms.generationLatency.With(prometheus.Labels{
			"category": log.Category,
			"style":    log.Style,
		}).Observe(float64(log.Stages.LLMGeneration))
	}

	if log.Stages.TotalProcessingTime > 0 {
		ms.totalLatency.With(prometheus.Labels{
			"category": log.Category,
		}).Observe(float64(log.Stages.TotalProcessingTime))
	}

	if log.Success && !log.CacheHit {
		ms.qualityScore.With(prometheus.Labels{
			"category": log.Category,
			"style":    log.Style,
		}).Observe(log.QualityScore)
	}

	if log.PromptTokens > 0 {
		ms.promptTokensTotal.With(prometheus.Labels{
			"category": log.Category,
		}).Add(float64(log.PromptTokens))
	}
	if log.ResponseTokens > 0 {
		ms.responseTokensTotal.With(prometheus.Labels{
			"category": log.Category,
		}).Add(float64(log.ResponseTokens))
	}

	for _, b := range log.Bottlenecks {
		ms.bottlenecksTotal.With(prometheus.Labels{
			"stage":    b.Stage,
			"severity": string(b.Severity),
		}).Inc()
	}

	for _, a := range log.Alerts {
		ms.alertsTotal.With(prometheus.Labels{
			"type":     a.Type,
			"severity": string(a.Severity),
		}).Inc()
	}

	for _, entry := range log.Error {
		for errorType := range entry {
			ms.errorsTotal.With(prometheus.Labels{
				"error_type": string(errorType),
				"category":   log.Category,
			}).Inc()
		}
	}
}

// recordStageLatencies observes every recorded stage with a nonzero duration
func (ms *MetricsService) recordStageLatencies(log *model.FormatLog) {
	stages := map[string]int64{
		types.StageTemplateRetrieval:      log.Stages.TemplateRetrieval,
		types.StageSystemPromptGeneration: log.Stages.SystemPromptGeneration,
		types.StageLLMGeneration:          log.Stages.LLMGeneration,
		types.StagePostProcessing:         log.Stages.PostProcessing,
		types.StageQualityScoring:         log.Stages.QualityScoring,
		types.StageCacheOperations:        log.Stages.CacheOperations,
	}

	for stage, duration := range stages {
		if duration > 0 {
			ms.stageLatency.With(prometheus.Labels{
				"stage":    stage,
				"category": log.Category,
			}).Observe(float64(duration))
		}
	}
}

func boolLabel(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
