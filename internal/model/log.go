package model

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/zgsm-ai/tool-reply/internal/types"
)

// FormatLog is the record written for every formatting request, feeding the
// JSONL log files, Loki, and the metrics service.
type FormatLog struct {
	Identity  Identity  `json:"identity"`
	Timestamp time.Time `json:"timestamp"`

	ContextID string `json:"context_id"`
	ToolID    string `json:"tool_id"`
	Category  string `json:"category"`
	Style     string `json:"style"`

	// Outcome
	Success        bool    `json:"success"`
	CacheHit       bool    `json:"cache_hit"`
	ResponseLength int     `json:"response_length"`
	QualityScore   float64 `json:"quality_score"`

	// Token statistics
	PromptTokens   int `json:"prompt_tokens"`
	ResponseTokens int `json:"response_tokens"`

	// Latency metrics (in milliseconds)
	Stages types.ProcessingStageMetrics `json:"stages"`

	// Monitoring outcome
	Bottlenecks []types.PerformanceBottleneck `json:"bottlenecks,omitempty"`
	Alerts      []types.PerformanceAlert      `json:"alerts,omitempty"`
	Suggestions []string                      `json:"suggestions,omitempty"`

	// Error information
	Error []map[types.ErrorType]string `json:"error,omitempty"`
}

// toStringJSON converts the log entry to indented JSON string
func (fl *FormatLog) toStringJSON(indent string) (string, error) {
	buf := &bytes.Buffer{}
	encoder := json.NewEncoder(buf)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", indent)
	err := encoder.Encode(fl)
	if err != nil {
		return "", err
	}
	// Remove the newline added by Encode()
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// ToJSON converts the log entry to a single-line JSON string
func (fl *FormatLog) ToJSON() (string, error) {
	return fl.toStringJSON("")
}

// ToPrettyJSON converts the log entry to 2-space-indented JSON
func (fl *FormatLog) ToPrettyJSON() (string, error) {
	return fl.toStringJSON("  ")
}

// FromJSON creates a FormatLog from a JSON string
func FromJSON(jsonStr string) (*FormatLog, error) {
	var log FormatLog
	err := json.Unmarshal([]byte(jsonStr), &log)
	if err != nil {
		return nil, err
	}
	return &log, nil
}

// AddError appends an error entry with type and message
func (fl *FormatLog) AddError(errorType types.ErrorType, err error) {
	if fl.Error == nil {
		fl.Error = make([]map[types.ErrorType]string, 0)
	}
	fl.Error = append(fl.Error, map[types.ErrorType]string{
		errorType: err.Error(),
	})
}

// LogBatch represents a batch of logs for uploading to Loki
type LogBatch struct {
	Streams []LogStream `json:"streams"`
}

// LogStream represents a stream of logs with labels
type LogStream struct {
	Stream map[string]string `json:"stream"`
	Values [][]string        `json:"values"`
}

// CreateLokiStream creates a Loki-compatible log stream for a single entry
func CreateLokiStream(log *FormatLog) *LogStream {
	labels := map[string]string{
		"service":   "tool-reply",
		"agent_id":  log.Identity.AgentID,
		"category":  log.Category,
		"cache_hit": boolToString(log.CacheHit),
	}

	logJSON, _ := log.ToJSON()

	return &LogStream{
		Stream: labels,
		Values: [][]string{
			{
				timestampToNano(log.Timestamp),
				logJSON,
			},
		},
	}
}

func boolToString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

func timestampToNano(t time.Time) string {
	return strconv.FormatInt(t.UnixNano(), 10)
}
