package types

import "time"

// ToolError carries the failure details of a tool invocation
type ToolError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// ToolExecutionResult is the immutable record of a completed tool invocation.
// It is produced by the tool-execution subsystem and consumed read-only here.
type ToolExecutionResult struct {
	ToolID      string         `json:"tool_id"`
	Success     bool           `json:"success"`
	Data        map[string]any `json:"data,omitempty"`
	Error       *ToolError     `json:"error,omitempty"`
	StartedAt   time.Time      `json:"started_at"`
	CompletedAt time.Time      `json:"completed_at"`
	DurationMs  int64          `json:"duration_ms"`
}

// AgentPersona describes the voice the formatted reply should carry
type AgentPersona struct {
	Background         string            `json:"background,omitempty"`
	Personality        string            `json:"personality,omitempty"`
	CommunicationStyle string            `json:"communication_style,omitempty"`
	Expertise          string            `json:"expertise,omitempty"`
	Preferences        map[string]string `json:"preferences,omitempty"`
}

// UserPreferences holds per-user formatting preferences
type UserPreferences struct {
	Tone           string        `json:"tone,omitempty"`
	MaxLength      int           `json:"max_length,omitempty"`
	IncludeEmojis  bool          `json:"include_emojis"`
	IncludeMetrics bool          `json:"include_metrics"`
	Style          ResponseStyle `json:"style,omitempty"`
}

// ConversationTurn is one entry of recent conversation history
type ConversationTurn struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp,omitempty"`
}

// ConfigOverride is a partial ResponseConfig applied per tool category.
// Nil fields inherit the base configuration.
type ConfigOverride struct {
	MaxResponseLength *int           `json:"max_response_length,omitempty"`
	IncludeEmojis     *bool          `json:"include_emojis,omitempty"`
	IncludeNextSteps  *bool          `json:"include_next_steps,omitempty"`
	IncludeMetrics    *bool          `json:"include_metrics,omitempty"`
	ResponseStyle     *ResponseStyle `json:"response_style,omitempty"`
	EnableCaching     *bool          `json:"enable_caching,omitempty"`
	CacheTTLSeconds   *int           `json:"cache_ttl_seconds,omitempty"`
}

// ResponseConfig controls how a tool result is turned into text
type ResponseConfig struct {
	EnableLLMFormatting   bool                             `json:"enable_llm_formatting"`
	MaxResponseLength     int                              `json:"max_response_length"`
	IncludeEmojis         bool                             `json:"include_emojis"`
	IncludeNextSteps      bool                             `json:"include_next_steps"`
	IncludeMetrics        bool                             `json:"include_metrics"`
	ResponseStyle         ResponseStyle                    `json:"response_style"`
	EnableCaching         bool                             `json:"enable_caching"`
	CacheTTLSeconds       int                              `json:"cache_ttl_seconds"`
	ToolCategoryOverrides map[ToolCategory]*ConfigOverride `json:"tool_category_overrides,omitempty"`
}

// Resolve returns a copy of the config with the override for the given
// category applied. The receiver is never mutated.
func (c ResponseConfig) Resolve(category ToolCategory) ResponseConfig {
	resolved := c
	resolved.ToolCategoryOverrides = nil

	override, ok := c.ToolCategoryOverrides[category]
	if !ok || override == nil {
		return resolved
	}

	if override.MaxResponseLength != nil {
		resolved.MaxResponseLength = *override.MaxResponseLength
	}
	if override.IncludeEmojis != nil {
		resolved.IncludeEmojis = *override.IncludeEmojis
	}
	if override.IncludeNextSteps != nil {
		resolved.IncludeNextSteps = *override.IncludeNextSteps
	}
	if override.IncludeMetrics != nil {
		resolved.IncludeMetrics = *override.IncludeMetrics
	}
	if override.ResponseStyle != nil {
		resolved.ResponseStyle = *override.ResponseStyle
	}
	if override.EnableCaching != nil {
		resolved.EnableCaching = *override.EnableCaching
	}
	if override.CacheTTLSeconds != nil {
		resolved.CacheTTLSeconds = *override.CacheTTLSeconds
	}

	return resolved
}

// FormattingContext is the immutable per-request input of the pipeline.
// It is created once per formatting request and never mutated.
type FormattingContext struct {
	ContextID       string              `json:"context_id"`
	Timestamp       time.Time           `json:"timestamp"`
	Result          ToolExecutionResult `json:"result"`
	Category        ToolCategory        `json:"category"`
	Intent          string              `json:"intent,omitempty"`
	UserMessage     string              `json:"user_message,omitempty"`
	AgentID         string              `json:"agent_id"`
	Persona         AgentPersona        `json:"persona"`
	Capabilities    []string            `json:"capabilities,omitempty"`
	UserID          string              `json:"user_id"`
	Preferences     UserPreferences     `json:"preferences"`
	History         []ConversationTurn  `json:"history,omitempty"`
	Config          ResponseConfig      `json:"config"`
	FallbackEnabled bool                `json:"fallback_enabled"`
}

// PromptTemplate holds the system-prompt skeleton and response-shape hints
// for one (category, style) pair. Looked up, never mutated by the pipeline.
type PromptTemplate struct {
	Category     ToolCategory  `json:"category"`
	Style        ResponseStyle `json:"style"`
	SystemPrompt string        `json:"system_prompt"`
	SuccessShape string        `json:"success_shape"`
	ErrorShape   string        `json:"error_shape"`
	PartialShape string        `json:"partial_shape"`
}

// StyleInfo describes one selectable response style for a category
type StyleInfo struct {
	Name            ResponseStyle `json:"name"`
	Description     string        `json:"description"`
	Characteristics []string      `json:"characteristics"`
}

// GenerationMetrics records how a single response was produced
type GenerationMetrics struct {
	GenerationTimeMs int64 `json:"generation_time_ms"`
	PromptTokens     int   `json:"prompt_tokens"`
	ResponseTokens   int   `json:"response_tokens"`
	CacheHit         bool  `json:"cache_hit"`
}

// FormattedResponse is the unit cached and returned by the pipeline
type FormattedResponse struct {
	ID           string            `json:"id"`
	Content      string            `json:"content"`
	Style        ResponseStyle     `json:"style"`
	Metrics      GenerationMetrics `json:"metrics"`
	QualityScore float64           `json:"quality_score"`
	FallbackUsed bool              `json:"fallback_used"`
	Timestamp    time.Time         `json:"timestamp"`
}

// ProcessingStageMetrics holds per-stage durations in milliseconds.
// TotalProcessingTime is wall clock from request start to completion and is
// not required to equal the sum of the other stages.
type ProcessingStageMetrics struct {
	TemplateRetrieval      int64 `json:"template_retrieval_ms"`
	SystemPromptGeneration int64 `json:"system_prompt_generation_ms"`
	LLMGeneration          int64 `json:"llm_generation_ms"`
	PostProcessing         int64 `json:"post_processing_ms"`
	QualityScoring         int64 `json:"quality_scoring_ms"`
	CacheOperations        int64 `json:"cache_operations_ms"`
	TotalProcessingTime    int64 `json:"total_processing_time_ms"`
}

// Stage returns the recorded duration for a stage name, 0 if unknown
func (m ProcessingStageMetrics) Stage(name string) int64 {
	switch name {
	case StageTemplateRetrieval:
		return m.TemplateRetrieval
	case StageSystemPromptGeneration:
		return m.SystemPromptGeneration
	case StageLLMGeneration:
		return m.LLMGeneration
	case StagePostProcessing:
		return m.PostProcessing
	case StageQualityScoring:
		return m.QualityScoring
	case StageCacheOperations:
		return m.CacheOperations
	case StageTotalProcessingTime:
		return m.TotalProcessingTime
	}
	return 0
}

// PerformanceBottleneck is a stage whose duration exceeded its threshold
type PerformanceBottleneck struct {
	Stage          string   `json:"stage"`
	DurationMs     int64    `json:"duration_ms"`
	ThresholdMs    int64    `json:"threshold_ms"`
	Severity       Severity `json:"severity"`
	Impact         string   `json:"impact"`
	Recommendation string   `json:"recommendation"`
}

// PerformanceAlert is raised when a request crosses an alerting limit.
// Alerts expire after their TTL and are excluded from active queries.
type PerformanceAlert struct {
	ID        string        `json:"id"`
	Type      string        `json:"type"`
	Severity  Severity      `json:"severity"`
	Message   string        `json:"message"`
	ContextID string        `json:"context_id"`
	Timestamp time.Time     `json:"timestamp"`
	Active    bool          `json:"active"`
	TTL       time.Duration `json:"ttl"`
}

// Expired reports whether the alert's TTL has elapsed at the given time
func (a *PerformanceAlert) Expired(now time.Time) bool {
	return now.After(a.Timestamp.Add(a.TTL))
}

// MonitoringResult bundles everything the monitor derives on completion
type MonitoringResult struct {
	ContextID   string                  `json:"context_id"`
	Category    ToolCategory            `json:"category"`
	Metrics     ProcessingStageMetrics  `json:"metrics"`
	Bottlenecks []PerformanceBottleneck `json:"bottlenecks,omitempty"`
	Suggestions []string                `json:"suggestions,omitempty"`
	Alerts      []PerformanceAlert      `json:"alerts,omitempty"`
}
