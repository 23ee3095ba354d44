package template

import (
	"fmt"

	"github.com/zgsm-ai/tool-reply/internal/types"
)

// categoryFraming describes the task domain injected into each built-in
// system prompt skeleton
var categoryFraming = map[types.ToolCategory]string{
	types.CategoryWorkspace:   "workspace tools such as email, calendars and documents",
	types.CategorySocialMedia: "social media publishing and engagement tools",
	types.CategoryExternalAPI: "third-party API integrations",
	types.CategoryWorkflow:    "multi-step workflow and automation tools",
	types.CategoryResearch:    "research, search and summarization tools",
	types.CategoryCustom:      "custom tools configured for this agent",
}

var styleVoice = map[types.ResponseStyle]string{
	types.StyleConversational: "Write naturally, as if speaking with the user. Keep the reply warm and easy to follow.",
	types.StyleBusiness:       "Write in a professional, outcome-focused tone. Lead with what was accomplished.",
	types.StyleTechnical:      "Write precisely. Include concrete values, identifiers and timing where available.",
	types.StyleCasual:         "Keep it light and friendly. Short sentences are fine.",
}

// buildDefaultTemplate composes the built-in template for one
// (category, style) pair
func buildDefaultTemplate(category types.ToolCategory, style types.ResponseStyle) *types.PromptTemplate {
	systemPrompt := fmt.Sprintf(
		"You are an assistant reporting the outcome of %s on the user's behalf. %s Never invent results that are not present in the tool output.",
		categoryFraming[category],
		styleVoice[style],
	)

	return &types.PromptTemplate{
		Category:     category,
		Style:        style,
		SystemPrompt: systemPrompt,
		SuccessShape: "Confirm what was done and surface the most useful details from the result.",
		ErrorShape:   "Explain what went wrong in plain terms and suggest what the user can do next.",
		PartialShape: "Describe what was completed, what remains, and the next step to finish.",
	}
}
