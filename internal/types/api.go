package types

import "time"

// FormatRequest is the HTTP body of a formatting request. Absent config
// falls back to the service defaults.
type FormatRequest struct {
	Result       ToolExecutionResult `json:"result" binding:"required"`
	Category     ToolCategory        `json:"category" binding:"required"`
	Intent       string              `json:"intent,omitempty"`
	UserMessage  string              `json:"user_message,omitempty"`
	AgentID      string              `json:"agent_id,omitempty"`
	Persona      AgentPersona        `json:"persona,omitempty"`
	Capabilities []string            `json:"capabilities,omitempty"`
	UserID       string              `json:"user_id,omitempty"`
	Preferences  UserPreferences     `json:"preferences,omitempty"`
	History      []ConversationTurn  `json:"history,omitempty"`
	Config       *ResponseConfig     `json:"config,omitempty"`
}

// ToFormattingContext binds the request into the pipeline's input record,
// applying defaults for anything the request leaves unset
func (r *FormatRequest) ToFormattingContext(contextID string, defaults ResponseConfig) *FormattingContext {
	cfg := defaults
	if r.Config != nil {
		cfg = *r.Config
	}

	return &FormattingContext{
		ContextID:    contextID,
		Timestamp:    time.Now(),
		Result:       r.Result,
		Category:     r.Category,
		Intent:       r.Intent,
		UserMessage:  r.UserMessage,
		AgentID:      r.AgentID,
		Persona:      r.Persona,
		Capabilities: r.Capabilities,
		UserID:       r.UserID,
		Preferences:  r.Preferences,
		History:      r.History,
		Config:       cfg,
	}
}

// FormatAPIResponse is the HTTP body returned for a formatting request
type FormatAPIResponse struct {
	Response   *FormattedResponse `json:"response"`
	Monitoring *MonitoringResult  `json:"monitoring,omitempty"`
}

// StylesResponse lists the selectable styles for a category
type StylesResponse struct {
	Category ToolCategory `json:"category"`
	Styles   []StyleInfo  `json:"styles"`
}

// AlertsResponse lists the currently active performance alerts
type AlertsResponse struct {
	Alerts []PerformanceAlert `json:"alerts"`
}

// MonitorConfigRequest is a runtime monitor configuration update. Nil
// enabled leaves the flag untouched; thresholds override per stage.
type MonitorConfigRequest struct {
	Enabled         *bool            `json:"enabled,omitempty"`
	StageThresholds map[string]int64 `json:"stage_thresholds,omitempty"`
}
