package prompt

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/zgsm-ai/tool-reply/internal/logger"
	"github.com/zgsm-ai/tool-reply/internal/template"
	"github.com/zgsm-ai/tool-reply/internal/types"
	"go.uber.org/zap"
)

// recentTurnsUsed is how many trailing conversation turns are included in
// the user context
const recentTurnsUsed = 3

// Builder assembles the system prompt and user-turn context for a
// formatting request
type Builder struct {
	templates *template.Store
}

// NewBuilder creates a prompt builder backed by the given template store
func NewBuilder(templates *template.Store) *Builder {
	return &Builder{templates: templates}
}

// UserContext is the assembled user-turn context plus the classification
// that drove it
type UserContext struct {
	Text         string
	State        types.ExecutionState
	PreFormatted PreFormatted
}

// ClassifyExecutionState maps a tool result to the guidance class:
// SUCCESS when it succeeded, PARTIAL_SUCCESS when it failed but still
// carries result data, ERROR otherwise.
func ClassifyExecutionState(result types.ToolExecutionResult) types.ExecutionState {
	if result.Success {
		return types.StateSuccess
	}
	if len(result.Data) > 0 {
		return types.StatePartialSuccess
	}
	return types.StateError
}

// RetrieveTemplate looks up the template for (category, style). Lookup
// failure returns nil and degrades to the built-in fallback prompt; it never
// aborts the request.
func (b *Builder) RetrieveTemplate(category types.ToolCategory, style types.ResponseStyle) *types.PromptTemplate {
	tmpl, err := b.templates.GetTemplate(category, style)
	if err != nil {
		logger.Warn("template lookup failed, using fallback prompt",
			zap.String("category", string(category)),
			zap.String("style", string(style)),
			zap.Error(err),
		)
		return nil
	}
	return tmpl
}

// BuildSystemPrompt produces the system prompt from the template and the
// agent persona. A nil template selects the minimal built-in prompt.
func (b *Builder) BuildSystemPrompt(fc *types.FormattingContext, cfg types.ResponseConfig, tmpl *types.PromptTemplate) string {
	if tmpl == nil {
		return b.fallbackSystemPrompt(fc, cfg)
	}

	var sb strings.Builder
	sb.WriteString(tmpl.SystemPrompt)

	persona := fc.Persona
	if persona.Background != "" {
		sb.WriteString("\n\nAbout you: " + persona.Background)
	}
	if persona.Personality != "" {
		sb.WriteString("\nPersonality: " + persona.Personality)
	}
	if persona.CommunicationStyle != "" {
		sb.WriteString("\nCommunication style: " + persona.CommunicationStyle)
	}
	if persona.Expertise != "" {
		sb.WriteString("\nExpertise: " + persona.Expertise)
	}
	for key, value := range persona.Preferences {
		sb.WriteString(fmt.Sprintf("\nPreference (%s): %s", key, value))
	}

	if len(fc.Capabilities) > 0 {
		sb.WriteString("\n\nYou can help with: " + strings.Join(fc.Capabilities, ", "))
	}

	return sb.String()
}

// fallbackSystemPrompt is the minimal prompt used when the template store
// cannot serve the request
func (b *Builder) fallbackSystemPrompt(fc *types.FormattingContext, cfg types.ResponseConfig) string {
	var sb strings.Builder
	sb.WriteString("You are an assistant reporting a tool result to the user.")

	if fc.Persona.Background != "" {
		sb.WriteString(" " + fc.Persona.Background)
	}
	if fc.Persona.CommunicationStyle != "" {
		sb.WriteString(" Communication style: " + fc.Persona.CommunicationStyle + ".")
	}

	sb.WriteString(fmt.Sprintf(" Respond in a %s voice, within roughly %d characters.",
		cfg.ResponseStyle, cfg.MaxResponseLength))

	return sb.String()
}

// BuildUserContext assembles the user-turn context: the tool result, the
// state-specific guidance (or the enhance instruction when the payload
// already carries formatted content), recent conversation, and the user's
// formatting preferences.
func (b *Builder) BuildUserContext(fc *types.FormattingContext, cfg types.ResponseConfig, tmpl *types.PromptTemplate) UserContext {
	state := ClassifyExecutionState(fc.Result)
	preFormatted := DetectPreFormatted(fc.Result.Data)

	var sb strings.Builder

	if fc.UserMessage != "" {
		sb.WriteString("The user asked: " + fc.UserMessage + "\n")
	}
	if fc.Intent != "" {
		sb.WriteString("Inferred intent: " + fc.Intent + "\n")
	}

	sb.WriteString(fmt.Sprintf("\nTool %q finished with state %s.\n", fc.Result.ToolID, state))

	if preFormatted.Enhance() {
		sb.WriteString("\nThe tool already produced formatted content, shown below between markers.\n")
		sb.WriteString("Wrap it in a short conversational reply. Do NOT summarize, recreate, shorten or truncate it; include it verbatim.\n")
		sb.WriteString("---BEGIN CONTENT---\n")
		sb.WriteString(preFormatted.Content)
		sb.WriteString("\n---END CONTENT---\n")
	} else {
		b.writeResultData(&sb, fc)
		sb.WriteString("\n" + stateGuidance(state, tmpl, cfg) + "\n")
		sb.WriteString(fmt.Sprintf("Keep the reply within %d characters.\n", cfg.MaxResponseLength))
	}

	if turns := recentTurns(fc.History); len(turns) > 0 {
		sb.WriteString("\nRecent conversation:\n")
		for _, turn := range turns {
			sb.WriteString(fmt.Sprintf("%s: %s\n", turn.Role, turn.Content))
		}
	}

	if cfg.IncludeEmojis {
		sb.WriteString("\nA few fitting emojis are welcome.\n")
	} else {
		sb.WriteString("\nDo not use emojis.\n")
	}
	if cfg.IncludeMetrics {
		sb.WriteString(fmt.Sprintf("Mention that the operation took %dms.\n", fc.Result.DurationMs))
	}

	return UserContext{
		Text:         sb.String(),
		State:        state,
		PreFormatted: preFormatted,
	}
}

// writeResultData appends the raw tool outcome for the model to work from
func (b *Builder) writeResultData(sb *strings.Builder, fc *types.FormattingContext) {
	if fc.Result.Error != nil {
		sb.WriteString(fmt.Sprintf("Error: %s", fc.Result.Error.Message))
		if fc.Result.Error.Code != "" {
			sb.WriteString(fmt.Sprintf(" (code %s)", fc.Result.Error.Code))
		}
		sb.WriteString("\n")
	}

	if len(fc.Result.Data) > 0 {
		encoded, err := json.Marshal(fc.Result.Data)
		if err == nil {
			sb.WriteString("Result data: " + string(encoded) + "\n")
		}
	}
}

// stateGuidance returns the instruction matching the execution state,
// preferring the template's response-shape hint
func stateGuidance(state types.ExecutionState, tmpl *types.PromptTemplate, cfg types.ResponseConfig) string {
	var shape, base string

	switch state {
	case types.StateSuccess:
		base = "Summarize the value delivered to the user."
		if tmpl != nil {
			shape = tmpl.SuccessShape
		}
	case types.StatePartialSuccess:
		base = "Explain what progress was made and what the next steps are."
		if tmpl != nil {
			shape = tmpl.PartialShape
		}
	default:
		base = "Explain what failed and how the user can remedy it."
		if tmpl != nil {
			shape = tmpl.ErrorShape
		}
	}

	if shape != "" {
		base += " " + shape
	}
	if cfg.IncludeNextSteps && state != types.StateSuccess {
		base += " Finish with a concrete next step."
	}
	return base
}

func recentTurns(history []types.ConversationTurn) []types.ConversationTurn {
	if len(history) <= recentTurnsUsed {
		return history
	}
	return history[len(history)-recentTurnsUsed:]
}
