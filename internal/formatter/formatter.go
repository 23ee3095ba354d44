package formatter

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/zgsm-ai/tool-reply/internal/cache"
	"github.com/zgsm-ai/tool-reply/internal/client"
	"github.com/zgsm-ai/tool-reply/internal/logger"
	"github.com/zgsm-ai/tool-reply/internal/monitor"
	"github.com/zgsm-ai/tool-reply/internal/prompt"
	"github.com/zgsm-ai/tool-reply/internal/template"
	"github.com/zgsm-ai/tool-reply/internal/tokenizer"
	"github.com/zgsm-ai/tool-reply/internal/types"
	"go.uber.org/zap"
)

// Pipeline turns a tool execution result into a persona-consistent reply:
// cache check, prompt build, generation, post-processing, quality scoring,
// write-through. It is stateless per call; the cache is the only shared
// mutable resource it touches.
type Pipeline struct {
	cache     cache.ResponseCache
	templates *template.Store
	builder   *prompt.Builder
	generator client.Generator
	tokens    *tokenizer.TokenCounter
	monitor   *monitor.PerformanceMonitor
}

// NewPipeline wires the formatting pipeline from its collaborators
func NewPipeline(
	responseCache cache.ResponseCache,
	templates *template.Store,
	builder *prompt.Builder,
	generator client.Generator,
	tokens *tokenizer.TokenCounter,
	perfMonitor *monitor.PerformanceMonitor,
) *Pipeline {
	return &Pipeline{
		cache:     responseCache,
		templates: templates,
		builder:   builder,
		generator: generator,
		tokens:    tokens,
		monitor:   perfMonitor,
	}
}

// Format runs the full pipeline for one request, recording stage timings on
// the tracker. It fails with a GenerationError when the backend fails or
// returns empty text, and a ValidationError when the post-processed content
// is below the minimum length; generation failures are not retried here.
func (p *Pipeline) Format(ctx context.Context, fc *types.FormattingContext, tracker *monitor.Tracker) (*types.FormattedResponse, error) {
	cfg := fc.Config.Resolve(fc.Category)

	logger.Info("formatting request started",
		zap.String("contextID", fc.ContextID),
		zap.String("toolID", fc.Result.ToolID),
		zap.String("category", string(fc.Category)),
		zap.String("style", string(cfg.ResponseStyle)),
	)

	if !cfg.EnableLLMFormatting {
		return p.passthrough(fc, cfg), nil
	}

	var fingerprint string
	if cfg.EnableCaching {
		cacheStart := time.Now()
		fingerprint = cache.Fingerprint(fc, cfg.ResponseStyle)
		cached, ok, err := p.cache.Get(ctx, fingerprint)
		p.monitor.RecordStageCompletion(tracker, types.StageCacheOperations, cacheStart)

		if err != nil {
			// Failed reads degrade to a miss; caching never fails a request
			logger.Warn("cache read failed, treating as miss",
				zap.String("contextID", fc.ContextID),
				zap.Error(err),
			)
		}
		if ok {
			hit := *cached
			hit.Metrics.CacheHit = true
			hit.Metrics.GenerationTimeMs = 0
			logger.Info("cache hit",
				zap.String("contextID", fc.ContextID),
				zap.String("fingerprint", fingerprint),
			)
			return &hit, nil
		}
	}

	templateStart := time.Now()
	tmpl := p.builder.RetrieveTemplate(fc.Category, cfg.ResponseStyle)
	p.monitor.RecordStageCompletion(tracker, types.StageTemplateRetrieval, templateStart)

	promptStart := time.Now()
	systemPrompt := p.builder.BuildSystemPrompt(fc, cfg, tmpl)
	userContext := p.builder.BuildUserContext(fc, cfg, tmpl)
	p.monitor.RecordStageCompletion(tracker, types.StageSystemPromptGeneration, promptStart)

	generationStart := time.Now()
	generated, err := p.generator.Generate(ctx, systemPrompt, userContext.Text, client.GenerationMeta{
		AgentID:   fc.AgentID,
		ToolID:    fc.Result.ToolID,
		ContextID: fc.ContextID,
	})
	generationElapsed := time.Since(generationStart)
	p.monitor.RecordStageCompletion(tracker, types.StageLLMGeneration, generationStart)

	if err != nil {
		logger.Error("generation backend failed",
			zap.String("contextID", fc.ContextID),
			zap.Error(err),
		)
		return nil, types.NewGenerationError("backend call failed", err)
	}
	if strings.TrimSpace(generated) == "" {
		logger.Error("generation backend returned empty content",
			zap.String("contextID", fc.ContextID),
		)
		return nil, types.NewGenerationError("backend returned empty content", nil)
	}

	postStart := time.Now()
	content, err := postProcess(generated, cfg, userContext.PreFormatted.Enhance(), fc.ContextID)
	p.monitor.RecordStageCompletion(tracker, types.StagePostProcessing, postStart)
	if err != nil {
		logger.Error("post-processing rejected content",
			zap.String("contextID", fc.ContextID),
			zap.Error(err),
		)
		return nil, err
	}

	scoreStart := time.Now()
	qualityScore := Score(content, fc, cfg)
	p.monitor.RecordStageCompletion(tracker, types.StageQualityScoring, scoreStart)

	response := &types.FormattedResponse{
		ID:      uuid.New().String(),
		Content: content,
		Style:   cfg.ResponseStyle,
		Metrics: types.GenerationMetrics{
			GenerationTimeMs: generationElapsed.Milliseconds(),
			PromptTokens:     p.tokens.CountPromptTokens(systemPrompt, userContext.Text),
			ResponseTokens:   p.tokens.CountTokens(content),
			CacheHit:         false,
		},
		QualityScore: qualityScore,
		FallbackUsed: false,
		Timestamp:    time.Now(),
	}

	if cfg.EnableCaching {
		cacheStart := time.Now()
		ttl := time.Duration(cfg.CacheTTLSeconds) * time.Second
		if err := p.cache.Set(ctx, fingerprint, response, ttl); err != nil {
			// Best-effort write-through
			logger.Warn("cache write failed",
				zap.String("contextID", fc.ContextID),
				zap.Error(err),
			)
		}
		p.monitor.RecordStageCompletion(tracker, types.StageCacheOperations, cacheStart)
	}

	return response, nil
}

// passthrough returns the raw tool result as the response content, used
// when formatting is disabled by configuration
func (p *Pipeline) passthrough(fc *types.FormattingContext, cfg types.ResponseConfig) *types.FormattedResponse {
	return &types.FormattedResponse{
		ID:           uuid.New().String(),
		Content:      rawResultText(fc.Result),
		Style:        cfg.ResponseStyle,
		Metrics:      types.GenerationMetrics{},
		QualityScore: 0,
		FallbackUsed: false,
		Timestamp:    time.Now(),
	}
}

// rawResultText renders a tool result without any generation: the error
// message for failures, the pre-formatted block when one exists, otherwise
// the payload as JSON.
func rawResultText(result types.ToolExecutionResult) string {
	if !result.Success && result.Error != nil {
		return result.Error.Message
	}

	if pf := prompt.DetectPreFormatted(result.Data); pf.Found {
		return pf.Content
	}

	if len(result.Data) > 0 {
		if encoded, err := json.Marshal(result.Data); err == nil {
			return string(encoded)
		}
	}
	return ""
}

// AvailableStyles lists the selectable styles for a category, degrading to
// a single conversational entry when the lookup fails
func (p *Pipeline) AvailableStyles(category types.ToolCategory) []types.StyleInfo {
	return p.templates.GetAvailableStyles(category)
}
