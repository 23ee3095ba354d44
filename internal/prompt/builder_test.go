package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zgsm-ai/tool-reply/internal/template"
	"github.com/zgsm-ai/tool-reply/internal/types"
)

func TestClassifyExecutionState(t *testing.T) {
	tests := []struct {
		name   string
		result types.ToolExecutionResult
		want   types.ExecutionState
	}{
		{
			name:   "success",
			result: types.ToolExecutionResult{Success: true},
			want:   types.StateSuccess,
		},
		{
			name: "failure with data is partial success",
			result: types.ToolExecutionResult{
				Success: false,
				Data:    map[string]any{"sent": 3, "failed": 1},
			},
			want: types.StatePartialSuccess,
		},
		{
			name:   "failure without data is error",
			result: types.ToolExecutionResult{Success: false},
			want:   types.StateError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyExecutionState(tt.result))
		})
	}
}

func testContext() *types.FormattingContext {
	return &types.FormattingContext{
		ContextID:   "ctx-1",
		UserMessage: "send the weekly report",
		Intent:      "send report email",
		AgentID:     "agent-1",
		Persona: types.AgentPersona{
			Background:         "an operations assistant for a small logistics team",
			CommunicationStyle: "warm and direct",
		},
		Capabilities: []string{"email", "calendar"},
		Result: types.ToolExecutionResult{
			ToolID:     "email_sender",
			Success:    true,
			Data:       map[string]any{"recipient": "team@example.com"},
			DurationMs: 420,
		},
		Category: types.CategoryWorkspace,
	}
}

func testConfig() types.ResponseConfig {
	return types.ResponseConfig{
		EnableLLMFormatting: true,
		MaxResponseLength:   500,
		IncludeEmojis:       true,
		IncludeNextSteps:    true,
		ResponseStyle:       types.StyleBusiness,
	}
}

func TestBuildSystemPrompt(t *testing.T) {
	b := NewBuilder(template.NewStore())
	fc := testContext()
	cfg := testConfig()

	tmpl := b.RetrieveTemplate(fc.Category, cfg.ResponseStyle)
	require.NotNil(t, tmpl)

	got := b.BuildSystemPrompt(fc, cfg, tmpl)
	assert.Contains(t, got, tmpl.SystemPrompt)
	assert.Contains(t, got, fc.Persona.Background)
	assert.Contains(t, got, fc.Persona.CommunicationStyle)
	assert.Contains(t, got, "email, calendar")
}

func TestBuildSystemPromptFallback(t *testing.T) {
	b := NewBuilder(template.NewStore())
	fc := testContext()
	cfg := testConfig()

	got := b.BuildSystemPrompt(fc, cfg, nil)
	assert.Contains(t, got, fc.Persona.Background)
	assert.Contains(t, got, string(cfg.ResponseStyle))
	assert.Contains(t, got, "500")
}

func TestRetrieveTemplateFailureReturnsNil(t *testing.T) {
	b := NewBuilder(template.NewStore())

	assert.Nil(t, b.RetrieveTemplate("no-such-category", types.StyleBusiness))
}

func TestBuildUserContext(t *testing.T) {
	b := NewBuilder(template.NewStore())
	fc := testContext()
	cfg := testConfig()
	tmpl := b.RetrieveTemplate(fc.Category, cfg.ResponseStyle)

	got := b.BuildUserContext(fc, cfg, tmpl)

	assert.Equal(t, types.StateSuccess, got.State)
	assert.Contains(t, got.Text, fc.UserMessage)
	assert.Contains(t, got.Text, fc.Intent)
	assert.Contains(t, got.Text, "email_sender")
	assert.Contains(t, got.Text, "team@example.com")
	assert.Contains(t, got.Text, "500")
}

func TestBuildUserContextEnhanceMode(t *testing.T) {
	b := NewBuilder(template.NewStore())
	fc := testContext()
	cfg := testConfig()

	table := "| File | Status |\n|---|---|\n" + strings.Repeat("| report.pdf | uploaded |\n", 5)
	fc.Result.Data = map[string]any{"table": table}

	got := b.BuildUserContext(fc, cfg, nil)

	assert.True(t, got.PreFormatted.Enhance())
	assert.Contains(t, got.Text, "---BEGIN CONTENT---")
	assert.Contains(t, got.Text, table)
	assert.Contains(t, got.Text, "Do NOT summarize")
	// No length ceiling is applied in enhance mode
	assert.NotContains(t, got.Text, "Keep the reply within")
}

func TestBuildUserContextRecentTurns(t *testing.T) {
	b := NewBuilder(template.NewStore())
	fc := testContext()
	cfg := testConfig()

	fc.History = []types.ConversationTurn{
		{Role: "user", Content: "turn one"},
		{Role: "assistant", Content: "turn two"},
		{Role: "user", Content: "turn three"},
		{Role: "assistant", Content: "turn four"},
		{Role: "user", Content: "turn five"},
	}

	got := b.BuildUserContext(fc, cfg, nil)

	// Only the last 3 turns are included
	assert.NotContains(t, got.Text, "turn one")
	assert.NotContains(t, got.Text, "turn two")
	assert.Contains(t, got.Text, "turn three")
	assert.Contains(t, got.Text, "turn four")
	assert.Contains(t, got.Text, "turn five")
}

func TestBuildUserContextPreferences(t *testing.T) {
	b := NewBuilder(template.NewStore())
	fc := testContext()

	t.Run("emojis disabled", func(t *testing.T) {
		cfg := testConfig()
		cfg.IncludeEmojis = false
		got := b.BuildUserContext(fc, cfg, nil)
		assert.Contains(t, got.Text, "Do not use emojis")
	})

	t.Run("metrics enabled", func(t *testing.T) {
		cfg := testConfig()
		cfg.IncludeMetrics = true
		got := b.BuildUserContext(fc, cfg, nil)
		assert.Contains(t, got.Text, "420ms")
	})
}
