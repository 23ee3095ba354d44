package types

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestResponseConfigResolve(t *testing.T) {
	maxLen := 200
	emojis := false
	style := StyleTechnical

	base := ResponseConfig{
		EnableLLMFormatting: true,
		MaxResponseLength:   500,
		IncludeEmojis:       true,
		ResponseStyle:       StyleConversational,
		EnableCaching:       true,
		CacheTTLSeconds:     300,
		ToolCategoryOverrides: map[ToolCategory]*ConfigOverride{
			CategoryExternalAPI: {
				MaxResponseLength: &maxLen,
				IncludeEmojis:     &emojis,
				ResponseStyle:     &style,
			},
		},
	}

	t.Run("override applied for its category", func(t *testing.T) {
		resolved := base.Resolve(CategoryExternalAPI)
		assert.Equal(t, 200, resolved.MaxResponseLength)
		assert.False(t, resolved.IncludeEmojis)
		assert.Equal(t, StyleTechnical, resolved.ResponseStyle)
		// Unset override fields inherit the base
		assert.True(t, resolved.EnableCaching)
		assert.Equal(t, 300, resolved.CacheTTLSeconds)
	})

	t.Run("other categories keep the base", func(t *testing.T) {
		resolved := base.Resolve(CategoryWorkspace)
		assert.Equal(t, 500, resolved.MaxResponseLength)
		assert.True(t, resolved.IncludeEmojis)
		assert.Equal(t, StyleConversational, resolved.ResponseStyle)
	})

	t.Run("receiver is not mutated", func(t *testing.T) {
		_ = base.Resolve(CategoryExternalAPI)
		assert.Equal(t, 500, base.MaxResponseLength)
		assert.True(t, base.IncludeEmojis)
	})
}

func TestErrorClassification(t *testing.T) {
	genErr := NewGenerationError("backend call failed", errors.New("connection refused"))
	valErr := NewValidationError("too short", 4)

	assert.True(t, IsGenerationError(genErr))
	assert.False(t, IsGenerationError(valErr))
	assert.True(t, IsValidationError(valErr))
	assert.False(t, IsValidationError(genErr))

	t.Run("wrapped errors are still recognized", func(t *testing.T) {
		wrapped := fmt.Errorf("format failed: %w", genErr)
		assert.True(t, IsGenerationError(wrapped))
	})

	t.Run("generation error unwraps its cause", func(t *testing.T) {
		cause := errors.New("connection refused")
		err := NewGenerationError("backend call failed", cause)
		assert.ErrorIs(t, err, cause)
	})
}

func TestPerformanceAlertExpired(t *testing.T) {
	alert := PerformanceAlert{
		Timestamp: time.Now(),
		TTL:       5 * time.Minute,
	}

	assert.False(t, alert.Expired(alert.Timestamp.Add(4*time.Minute)))
	assert.True(t, alert.Expired(alert.Timestamp.Add(6*time.Minute)))
}

func TestStageAccessor(t *testing.T) {
	m := ProcessingStageMetrics{
		TemplateRetrieval: 10,
		LLMGeneration:     1500,
	}

	assert.Equal(t, int64(10), m.Stage(StageTemplateRetrieval))
	assert.Equal(t, int64(1500), m.Stage(StageLLMGeneration))
	assert.Equal(t, int64(0), m.Stage(StagePostProcessing))
	assert.Equal(t, int64(0), m.Stage("unknown"))
}
