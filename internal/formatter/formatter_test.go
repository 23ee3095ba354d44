package formatter

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zgsm-ai/tool-reply/internal/cache"
	"github.com/zgsm-ai/tool-reply/internal/client/mocks"
	"github.com/zgsm-ai/tool-reply/internal/config"
	"github.com/zgsm-ai/tool-reply/internal/monitor"
	"github.com/zgsm-ai/tool-reply/internal/prompt"
	"github.com/zgsm-ai/tool-reply/internal/template"
	"github.com/zgsm-ai/tool-reply/internal/types"
)

type pipelineFixture struct {
	pipeline *Pipeline
	monitor  *monitor.PerformanceMonitor
	cache    *cache.MemoryCache
	gen      *mocks.MockGenerator
}

func newPipelineFixture(t *testing.T) *pipelineFixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	mc, err := cache.NewMemoryCache(config.CacheConfig{})
	require.NoError(t, err)
	t.Cleanup(func() { mc.Close() })

	templates := template.NewStore()
	gen := mocks.NewMockGenerator(ctrl)
	perfMonitor := monitor.NewPerformanceMonitor(config.MonitorConfig{Enabled: true})

	return &pipelineFixture{
		pipeline: NewPipeline(mc, templates, prompt.NewBuilder(templates), gen, nil, perfMonitor),
		monitor:  perfMonitor,
		cache:    mc,
		gen:      gen,
	}
}

func formatContext(contextID string) *types.FormattingContext {
	return &types.FormattingContext{
		ContextID:   contextID,
		Timestamp:   time.Now(),
		UserMessage: "send the report to the team",
		Intent:      "send report email",
		AgentID:     "agent-1",
		Result: types.ToolExecutionResult{
			ToolID:  "email_sender",
			Success: true,
			Data:    map[string]any{"recipient": "user@example.com"},
		},
		Category: types.CategoryWorkspace,
		Config: types.ResponseConfig{
			EnableLLMFormatting: true,
			MaxResponseLength:   500,
			IncludeEmojis:       true,
			ResponseStyle:       types.StyleBusiness,
			EnableCaching:       false,
			CacheTTLSeconds:     60,
		},
	}
}

func (f *pipelineFixture) format(t *testing.T, fc *types.FormattingContext) (*types.FormattedResponse, error) {
	t.Helper()
	tracker := f.monitor.StartMonitoring(fc)
	return f.pipeline.Format(context.Background(), fc, tracker)
}

func TestFormatEndToEnd(t *testing.T) {
	f := newPipelineFixture(t)
	f.gen.EXPECT().
		Generate(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return("Email sent to user@example.com.", nil)

	got, err := f.format(t, formatContext("ctx-e2e"))
	require.NoError(t, err)

	assert.NotEmpty(t, got.ID)
	assert.Contains(t, got.Content, "user@example.com")
	assert.Equal(t, types.StyleBusiness, got.Style)
	assert.False(t, got.Metrics.CacheHit)
	assert.False(t, got.FallbackUsed)
	assert.Greater(t, got.QualityScore, 0.5)
}

func TestFormatCacheHit(t *testing.T) {
	f := newPipelineFixture(t)
	f.gen.EXPECT().
		Generate(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return("Email sent to user@example.com.", nil).
		Times(1)

	first := formatContext("ctx-first")
	first.Config.EnableCaching = true

	firstResp, err := f.format(t, first)
	require.NoError(t, err)
	require.False(t, firstResp.Metrics.CacheHit)
	f.cache.Wait()

	// Identical request with a different context id and timestamp
	second := formatContext("ctx-second")
	second.Config.EnableCaching = true
	second.Timestamp = time.Now().Add(time.Minute)

	secondResp, err := f.format(t, second)
	require.NoError(t, err)
	assert.True(t, secondResp.Metrics.CacheHit)
	assert.Zero(t, secondResp.Metrics.GenerationTimeMs)
	assert.Equal(t, firstResp.Content, secondResp.Content)
}

func TestFormatCachedCopyIsIsolated(t *testing.T) {
	f := newPipelineFixture(t)
	f.gen.EXPECT().
		Generate(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return("Email sent to user@example.com.", nil).
		Times(1)

	first := formatContext("ctx-a")
	first.Config.EnableCaching = true
	_, err := f.format(t, first)
	require.NoError(t, err)
	f.cache.Wait()

	hitCtx := formatContext("ctx-b")
	hitCtx.Config.EnableCaching = true
	hit, err := f.format(t, hitCtx)
	require.NoError(t, err)
	hit.Content = "mutated"

	again, err := f.format(t, formatContextWithCaching("ctx-c"))
	require.NoError(t, err)
	if again.Content != "Email sent to user@example.com." {
		t.Errorf("cache hit returned a shared value, got %q", again.Content)
	}
}

func formatContextWithCaching(contextID string) *types.FormattingContext {
	fc := formatContext(contextID)
	fc.Config.EnableCaching = true
	return fc
}

func TestFormatGenerationFailure(t *testing.T) {
	f := newPipelineFixture(t)
	f.gen.EXPECT().
		Generate(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return("", errors.New("backend unavailable")).
		Times(1)

	_, err := f.format(t, formatContext("ctx-fail"))
	require.Error(t, err)
	assert.True(t, types.IsGenerationError(err))
}

func TestFormatEmptyOutput(t *testing.T) {
	tests := []struct {
		name   string
		output string
	}{
		{"empty string", ""},
		{"whitespace only", "   \n\t  "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newPipelineFixture(t)
			f.gen.EXPECT().
				Generate(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
				Return(tt.output, nil)

			_, err := f.format(t, formatContext("ctx-empty"))
			require.Error(t, err)
			assert.True(t, types.IsGenerationError(err))
		})
	}
}

func TestFormatTruncation(t *testing.T) {
	f := newPipelineFixture(t)
	f.gen.EXPECT().
		Generate(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(strings.Repeat("x", 1000), nil)

	fc := formatContext("ctx-trunc")
	fc.Config.MaxResponseLength = 100

	got, err := f.format(t, fc)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(got.Content), 100)
	assert.True(t, strings.HasSuffix(got.Content, "..."))
}

func TestFormatPreFormattedExemption(t *testing.T) {
	f := newPipelineFixture(t)

	table := "| File | Status |\n|---|---|\n" + strings.Repeat("| report.pdf | uploaded |\n", 10)
	require.Greater(t, len(table), 200)

	reply := "Here is the upload summary you asked for:\n\n" + table
	f.gen.EXPECT().
		Generate(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(reply, nil)

	fc := formatContext("ctx-exempt")
	fc.Config.MaxResponseLength = 100
	fc.Result.Data = map[string]any{"table": table}

	got, err := f.format(t, fc)
	require.NoError(t, err)
	assert.Greater(t, len(got.Content), 100, "pre-formatted content must not be truncated")
	assert.Contains(t, got.Content, strings.TrimRight(table, "\n"))
}

func TestFormatStripsEmojis(t *testing.T) {
	f := newPipelineFixture(t)
	f.gen.EXPECT().
		Generate(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return("Email sent to user@example.com \U0001F389", nil)

	fc := formatContext("ctx-emoji")
	fc.Config.IncludeEmojis = false

	got, err := f.format(t, fc)
	require.NoError(t, err)
	assert.NotContains(t, got.Content, "\U0001F389")
	assert.Contains(t, got.Content, "user@example.com")
}

func TestFormatValidationFailure(t *testing.T) {
	f := newPipelineFixture(t)
	f.gen.EXPECT().
		Generate(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return("Done.", nil)

	_, err := f.format(t, formatContext("ctx-short"))
	require.Error(t, err)
	assert.True(t, types.IsValidationError(err))
}

func TestFormatPassthrough(t *testing.T) {
	f := newPipelineFixture(t)
	// The generator must never be called when formatting is disabled

	fc := formatContext("ctx-raw")
	fc.Config.EnableLLMFormatting = false

	got, err := f.format(t, fc)
	require.NoError(t, err)
	assert.Contains(t, got.Content, "user@example.com")
	assert.False(t, got.Metrics.CacheHit)
}

func TestFormatCacheFailureDegradesToMiss(t *testing.T) {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	templates := template.NewStore()
	gen := mocks.NewMockGenerator(ctrl)
	gen.EXPECT().
		Generate(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return("Email sent to user@example.com.", nil)

	perfMonitor := monitor.NewPerformanceMonitor(config.MonitorConfig{Enabled: true})
	p := NewPipeline(failingCache{}, templates, prompt.NewBuilder(templates), gen, nil, perfMonitor)

	fc := formatContextWithCaching("ctx-cache-down")
	tracker := perfMonitor.StartMonitoring(fc)

	got, err := p.Format(context.Background(), fc, tracker)
	require.NoError(t, err, "cache failures must never fail the request")
	assert.Contains(t, got.Content, "user@example.com")
}

// failingCache errors on every operation
type failingCache struct{}

func (failingCache) Get(context.Context, string) (*types.FormattedResponse, bool, error) {
	return nil, false, errors.New("cache backend down")
}

func (failingCache) Set(context.Context, string, *types.FormattedResponse, time.Duration) error {
	return errors.New("cache backend down")
}

func (failingCache) Close() error { return nil }
