package types

// ToolCategory classifies the tool whose result is being formatted
type ToolCategory string

const (
	CategoryWorkspace   ToolCategory = "workspace"
	CategorySocialMedia ToolCategory = "social-media"
	CategoryExternalAPI ToolCategory = "external-api"
	CategoryWorkflow    ToolCategory = "workflow"
	CategoryResearch    ToolCategory = "research"
	CategoryCustom      ToolCategory = "custom"
)

// AllCategories lists every recognized tool category
var AllCategories = []ToolCategory{
	CategoryWorkspace,
	CategorySocialMedia,
	CategoryExternalAPI,
	CategoryWorkflow,
	CategoryResearch,
	CategoryCustom,
}

// ResponseStyle selects the voice of the formatted reply
type ResponseStyle string

const (
	StyleConversational ResponseStyle = "conversational"
	StyleBusiness       ResponseStyle = "business"
	StyleTechnical      ResponseStyle = "technical"
	StyleCasual         ResponseStyle = "casual"
)

// AllStyles lists every recognized response style
var AllStyles = []ResponseStyle{
	StyleConversational,
	StyleBusiness,
	StyleTechnical,
	StyleCasual,
}

// ExecutionState classifies a tool result for prompt guidance
type ExecutionState string

const (
	StateSuccess        ExecutionState = "SUCCESS"
	StatePartialSuccess ExecutionState = "PARTIAL_SUCCESS"
	StateError          ExecutionState = "ERROR"
)

// Stage names for the formatting pipeline. Each stage is timed independently
// by the performance monitor.
const (
	StageTemplateRetrieval      = "templateRetrieval"
	StageSystemPromptGeneration = "systemPromptGeneration"
	StageLLMGeneration          = "llmGeneration"
	StagePostProcessing         = "postProcessing"
	StageQualityScoring         = "qualityScoring"
	StageCacheOperations        = "cacheOperations"
	StageTotalProcessingTime    = "totalProcessingTime"
)

// Severity grades a bottleneck or alert
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)
