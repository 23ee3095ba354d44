package prompt

import (
	"encoding/json"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/zgsm-ai/tool-reply/internal/utils"
)

const (
	// Minimum length for a payload field to count as pre-formatted content
	preFormattedMinLen = 50

	// Above this length the builder switches to enhance-don't-regenerate mode
	preFormattedEnhanceLen = 100
)

// candidateFields is the fixed set of payload field names inspected for
// already human-readable content, at the top level and one level down
var candidateFields = []string{
	"formatted",
	"formatted_content",
	"formattedContent",
	"report",
	"table",
	"markdown",
	"summary",
	"content",
	"text",
	"output",
	"message",
	"body",
	"details",
}

// PreFormatted describes structured, already human-readable text found in a
// tool result payload. Content is the matched text so callers never have to
// re-derive it.
type PreFormatted struct {
	Found   bool
	Field   string
	Content string
}

// Enhance reports whether the content is substantial enough to be wrapped
// rather than regenerated
func (p PreFormatted) Enhance() bool {
	return p.Found && len(p.Content) > preFormattedEnhanceLen
}

// DetectPreFormatted scans the result payload for a field that already holds
// human-readable formatted text: at least 50 characters carrying a markdown
// table delimiter, bold markers, or emoji/paragraph breaks. Top-level fields
// and one level of nesting are checked; the first and longest match wins.
func DetectPreFormatted(data map[string]any) PreFormatted {
	if len(data) == 0 {
		return PreFormatted{}
	}

	encoded, err := json.Marshal(data)
	if err != nil {
		return PreFormatted{}
	}

	root := gjson.ParseBytes(encoded)
	best := PreFormatted{}

	consider := func(field, value string) {
		if len(value) < preFormattedMinLen || !looksFormatted(value) {
			return
		}
		if !best.Found || len(value) > len(best.Content) {
			best = PreFormatted{Found: true, Field: field, Content: value}
		}
	}

	for _, field := range candidateFields {
		if v := root.Get(field); v.Type == gjson.String {
			consider(field, v.String())
		}
	}

	// One level of nesting: each object-valued top-level field is checked
	// against the same candidate set
	root.ForEach(func(_, value gjson.Result) bool {
		if !value.IsObject() {
			return true
		}
		for _, field := range candidateFields {
			if v := value.Get(field); v.Type == gjson.String {
				consider(field, v.String())
			}
		}
		return true
	})

	return best
}

// looksFormatted checks for markdown table delimiters, bold markers, or
// emoji/paragraph breaks
func looksFormatted(s string) bool {
	if strings.Contains(s, "|") && strings.Contains(s, "---") {
		return true
	}
	if strings.Contains(s, "**") {
		return true
	}
	if strings.Contains(s, "\n\n") {
		return true
	}
	return utils.ContainsEmoji(s)
}
