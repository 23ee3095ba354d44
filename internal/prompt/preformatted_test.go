package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectPreFormatted(t *testing.T) {
	markdownTable := "| Name | Status |\n|---|---|\n| report.pdf | uploaded |\n| data.csv | uploaded |"

	tests := []struct {
		name      string
		data      map[string]any
		wantFound bool
		wantField string
	}{
		{
			name:      "markdown table at top level",
			data:      map[string]any{"report": markdownTable},
			wantFound: true,
			wantField: "report",
		},
		{
			name:      "bold markers",
			data:      map[string]any{"summary": "**Done.** All three files were uploaded to the shared drive folder."},
			wantFound: true,
			wantField: "summary",
		},
		{
			name:      "paragraph breaks",
			data:      map[string]any{"text": "First paragraph describing the outcome in detail.\n\nSecond paragraph with follow-up items."},
			wantFound: true,
			wantField: "text",
		},
		{
			name:      "nested one level down",
			data:      map[string]any{"result": map[string]any{"table": markdownTable}},
			wantFound: true,
			wantField: "table",
		},
		{
			name:      "too short",
			data:      map[string]any{"summary": "**Done.**"},
			wantFound: false,
		},
		{
			name:      "plain text without markers",
			data:      map[string]any{"message": "The upload finished without any errors and everything is in place now."},
			wantFound: false,
		},
		{
			name:      "non-candidate field name",
			data:      map[string]any{"blob": markdownTable},
			wantFound: false,
		},
		{
			name:      "empty payload",
			data:      nil,
			wantFound: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DetectPreFormatted(tt.data)
			assert.Equal(t, tt.wantFound, got.Found)
			if tt.wantFound {
				assert.Equal(t, tt.wantField, got.Field)
				assert.NotEmpty(t, got.Content)
			}
		})
	}
}

func TestPreFormattedLongestMatchWins(t *testing.T) {
	short := "**Short** but still long enough to pass the minimum size check."
	long := "| A | B |\n|---|---|\n" + strings.Repeat("| x | y |\n", 20)

	got := DetectPreFormatted(map[string]any{"summary": short, "table": long})
	assert.True(t, got.Found)
	assert.Equal(t, "table", got.Field)
}

func TestPreFormattedEnhance(t *testing.T) {
	t.Run("over 100 chars switches to enhance mode", func(t *testing.T) {
		content := "| File | Status |\n|---|---|\n" + strings.Repeat("| report.pdf | uploaded |\n", 5)
		pf := DetectPreFormatted(map[string]any{"table": content})
		assert.True(t, pf.Enhance())
	})

	t.Run("between 50 and 100 chars is found but not enhanced", func(t *testing.T) {
		content := "**Uploaded.** Files are now available in the folder."
		pf := DetectPreFormatted(map[string]any{"summary": content})
		assert.True(t, pf.Found)
		assert.False(t, pf.Enhance())
	})
}
