package formatter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zgsm-ai/tool-reply/internal/types"
)

func postConfig(maxLength int, includeEmojis bool) types.ResponseConfig {
	return types.ResponseConfig{
		MaxResponseLength: maxLength,
		IncludeEmojis:     includeEmojis,
	}
}

func TestPostProcessTrims(t *testing.T) {
	got, err := postProcess("  \n The upload finished successfully. \t ", postConfig(500, true), false, "ctx")
	require.NoError(t, err)
	assert.Equal(t, "The upload finished successfully.", got)
}

func TestPostProcessTruncation(t *testing.T) {
	long := strings.Repeat("a", 1000)

	got, err := postProcess(long, postConfig(100, true), false, "ctx")
	require.NoError(t, err)
	assert.LessOrEqual(t, len([]rune(got)), 100)
	assert.True(t, strings.HasSuffix(got, "..."))
}

func TestPostProcessTinyMaxLength(t *testing.T) {
	long := strings.Repeat("a", 1000)

	// A ceiling smaller than the ellipsis must not panic; the remainder is
	// below the minimum length and rejected
	for _, maxLength := range []int{1, 2, 3} {
		_, err := postProcess(long, postConfig(maxLength, true), false, "ctx")
		require.Error(t, err)
		assert.True(t, types.IsValidationError(err))
	}
}

func TestPostProcessExemption(t *testing.T) {
	long := strings.Repeat("b", 1000)

	got, err := postProcess(long, postConfig(100, true), true, "ctx")
	require.NoError(t, err)
	assert.Equal(t, long, got, "length-exempt content must not be truncated")
}

func TestPostProcessStripsEmojis(t *testing.T) {
	got, err := postProcess("Upload complete \U0001F389 all files are in place ✅", postConfig(500, false), false, "ctx")
	require.NoError(t, err)
	assert.Equal(t, "Upload complete  all files are in place", got)
}

func TestPostProcessKeepsEmojisWhenEnabled(t *testing.T) {
	content := "Upload complete \U0001F389 all files are in place"

	got, err := postProcess(content, postConfig(500, true), false, "ctx")
	require.NoError(t, err)
	assert.Equal(t, content, got)
}

func TestPostProcessTooShort(t *testing.T) {
	_, err := postProcess("Done.", postConfig(500, true), false, "ctx")
	require.Error(t, err)
	assert.True(t, types.IsValidationError(err))
}

func TestPostProcessTooShortAfterStripping(t *testing.T) {
	// Long enough before stripping, too short after
	_, err := postProcess("Ok \U0001F44D\U0001F44D\U0001F44D\U0001F44D\U0001F44D\U0001F44D", postConfig(500, false), false, "ctx")
	require.Error(t, err)
	assert.True(t, types.IsValidationError(err))
}
