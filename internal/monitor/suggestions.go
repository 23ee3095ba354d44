package monitor

import "github.com/zgsm-ai/tool-reply/internal/types"

// stageImpacts describes what a slow stage costs the caller
var stageImpacts = map[string]string{
	types.StageTemplateRetrieval:      "template lookup delays every downstream stage",
	types.StageSystemPromptGeneration: "prompt assembly adds latency before generation can start",
	types.StageLLMGeneration:          "generation dominates response time as perceived by the user",
	types.StagePostProcessing:         "post-processing delays delivery of an already generated reply",
	types.StageQualityScoring:         "scoring delays delivery of an already generated reply",
	types.StageCacheOperations:        "slow cache access erodes the benefit of caching",
	types.StageTotalProcessingTime:    "overall latency directly degrades the user experience",
}

// stageRecommendations is the per-stage remediation advice attached to
// bottlenecks
var stageRecommendations = map[string]string{
	types.StageTemplateRetrieval:      "preload templates at startup or cache lookups per category",
	types.StageSystemPromptGeneration: "shorten persona blocks or precompute static prompt sections",
	types.StageLLMGeneration:          "reduce prompt size, lower the target length, or use a faster model",
	types.StagePostProcessing:         "profile truncation and emoji stripping on large responses",
	types.StageQualityScoring:         "scoring is pure computation; check for oversized content",
	types.StageCacheOperations:        "check cache backend latency and payload sizes",
	types.StageTotalProcessingTime:    "inspect the per-stage breakdown to find the dominant stage",
}

func stageImpact(stage string, duration, threshold int64) string {
	if impact, ok := stageImpacts[stage]; ok {
		return impact
	}
	return "stage exceeded its latency budget"
}

func stageRecommendation(stage string) string {
	if rec, ok := stageRecommendations[stage]; ok {
		return rec
	}
	return "investigate the stage for avoidable work"
}

// suggestionRule triggers optimization advice when a stage exceeds a limit
// that is stricter than the bottleneck threshold
type suggestionRule struct {
	Stage   string
	LimitMs int64
	Advice  string
}

// globalSuggestionRules apply to every category
var globalSuggestionRules = []suggestionRule{
	{types.StageTotalProcessingTime, 1000, "consider streaming the reply to improve perceived latency"},
	{types.StageLLMGeneration, 1500, "trim the prompt or switch to a lower-latency model"},
	{types.StageCacheOperations, 50, "cache round-trips are slow; verify backend health and key sizes"},
}

// categorySuggestionRules add category-specific advice
var categorySuggestionRules = map[types.ToolCategory][]suggestionRule{
	types.CategoryWorkspace: {
		{types.StageTemplateRetrieval, 75, "workspace tools fire frequently; keep their templates hot"},
	},
	types.CategorySocialMedia: {
		{types.StagePostProcessing, 75, "social replies are emoji-heavy; profile emoji handling"},
	},
	types.CategoryExternalAPI: {
		{types.StageSystemPromptGeneration, 150, "external API payloads inflate prompts; drop unused payload fields"},
	},
	types.CategoryWorkflow: {
		{types.StageLLMGeneration, 2500, "workflow summaries run long; cap the target length for this category"},
	},
	types.CategoryResearch: {
		{types.StageLLMGeneration, 2500, "research results are verbose; summarize payloads before prompting"},
	},
}

// generateSuggestions collects deduplicated advice from the rule tables and
// from high-severity bottlenecks, in stable order
func generateSuggestions(category types.ToolCategory, metrics types.ProcessingStageMetrics, bottlenecks []types.PerformanceBottleneck) []string {
	var suggestions []string
	seen := make(map[string]bool)

	add := func(s string) {
		if s == "" || seen[s] {
			return
		}
		seen[s] = true
		suggestions = append(suggestions, s)
	}

	for _, rule := range globalSuggestionRules {
		if metrics.Stage(rule.Stage) > rule.LimitMs {
			add(rule.Advice)
		}
	}
	for _, rule := range categorySuggestionRules[category] {
		if metrics.Stage(rule.Stage) > rule.LimitMs {
			add(rule.Advice)
		}
	}

	for _, b := range bottlenecks {
		if b.Severity == types.SeverityHigh || b.Severity == types.SeverityCritical {
			add(b.Recommendation)
		}
	}

	return suggestions
}
