package formatter

import (
	"strings"

	"github.com/zgsm-ai/tool-reply/internal/types"
	"github.com/zgsm-ai/tool-reply/internal/utils"
)

// Score weights. Contributions are additive and the final score is capped
// at 1.0.
const (
	scoreBase         = 0.5
	scoreLengthWeight = 0.2
	scoreToolWeight   = 0.1
	scoreIntentWeight = 0.1
	scoreStyleWeight  = 0.1

	// lengthTargetRatio is the fraction of the configured maximum that counts
	// as the ideal response length
	lengthTargetRatio = 0.7
)

// Score rates generated text against its originating context, in [0, 1].
// It is pure: identical inputs always yield an identical score.
func Score(text string, fc *types.FormattingContext, cfg types.ResponseConfig) float64 {
	score := scoreBase

	score += lengthContribution(text, cfg.MaxResponseLength)

	lowered := strings.ToLower(text)

	if fc.Result.ToolID != "" && strings.Contains(lowered, strings.ToLower(fc.Result.ToolID)) {
		score += scoreToolWeight
	}

	if mentionsIntent(lowered, fc.Intent) {
		score += scoreIntentWeight
	}

	if adheresToStyle(text, lowered, cfg.ResponseStyle) {
		score += scoreStyleWeight
	}

	if score > 1.0 {
		score = 1.0
	}
	return score
}

// lengthContribution scales linearly with proximity to the target length,
// capped at the full weight
func lengthContribution(text string, maxLength int) float64 {
	target := lengthTargetRatio * float64(maxLength)
	if target <= 0 {
		return 0
	}

	ratio := float64(len(text)) / target
	if ratio > 1.0 {
		ratio = 1.0
	}
	return scoreLengthWeight * ratio
}

// mentionsIntent reports whether any word of the intent string appears in
// the lowered text
func mentionsIntent(lowered, intent string) bool {
	for _, word := range strings.Fields(strings.ToLower(intent)) {
		if strings.Contains(lowered, word) {
			return true
		}
	}
	return false
}

// adheresToStyle applies the per-style heuristics: casual replies carry an
// exclamation or emoji, business replies have some substance, technical
// replies mention timings, conversational replies are not one-liners.
func adheresToStyle(text, lowered string, style types.ResponseStyle) bool {
	switch style {
	case types.StyleCasual:
		return strings.Contains(text, "!") || utils.ContainsEmoji(text)
	case types.StyleBusiness:
		return len(text) > 50
	case types.StyleTechnical:
		return strings.Contains(lowered, "ms")
	case types.StyleConversational:
		return len(text) > 30
	}
	return false
}
