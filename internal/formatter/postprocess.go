package formatter

import (
	"strings"

	"github.com/zgsm-ai/tool-reply/internal/logger"
	"github.com/zgsm-ai/tool-reply/internal/types"
	"github.com/zgsm-ai/tool-reply/internal/utils"
	"go.uber.org/zap"
)

const (
	// minResponseLength is the floor below which post-processed content is
	// rejected as unusable
	minResponseLength = 10

	ellipsis = "..."
)

// postProcess trims the generated text, enforces the length ceiling unless
// the content is length-exempt, and strips emoji when configured off.
// Content shorter than the floor after processing is a ValidationError.
func postProcess(content string, cfg types.ResponseConfig, lengthExempt bool, contextID string) (string, error) {
	processed := strings.TrimSpace(content)

	if !lengthExempt && cfg.MaxResponseLength > 0 {
		if runes := []rune(processed); len(runes) > cfg.MaxResponseLength {
			// A ceiling below the ellipsis length leaves no room for content
			cut := cfg.MaxResponseLength - len(ellipsis)
			if cut < 0 {
				cut = 0
			}
			processed = string(runes[:cut]) + ellipsis
			logger.Info("response truncated",
				zap.String("contextID", contextID),
				zap.Int("originalLength", len(runes)),
				zap.Int("maxLength", cfg.MaxResponseLength),
			)
		}
	}

	if !cfg.IncludeEmojis {
		processed = utils.StripEmojis(processed)
	}

	processed = strings.TrimSpace(processed)

	if length := len([]rune(processed)); length < minResponseLength {
		return "", types.NewValidationError("post-processed content below minimum length", length)
	}

	return processed, nil
}
