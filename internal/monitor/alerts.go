package monitor

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/zgsm-ai/tool-reply/internal/types"
)

// AlertStore retains raised performance alerts. Expired alerts are pruned
// lazily on read and the retained history is capped; the oldest entries are
// dropped first.
type AlertStore struct {
	mu     sync.Mutex
	limit  int
	alerts []types.PerformanceAlert
}

// NewAlertStore creates a store retaining at most limit alerts
func NewAlertStore(limit int) *AlertStore {
	return &AlertStore{limit: limit}
}

// Raise records a new alert and returns it
func (s *AlertStore) Raise(alertType string, severity types.Severity, message, contextID string, ttl time.Duration) types.PerformanceAlert {
	alert := types.PerformanceAlert{
		ID:        uuid.New().String(),
		Type:      alertType,
		Severity:  severity,
		Message:   message,
		ContextID: contextID,
		Timestamp: time.Now(),
		Active:    true,
		TTL:       ttl,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.alerts = append(s.alerts, alert)
	if len(s.alerts) > s.limit {
		s.alerts = s.alerts[len(s.alerts)-s.limit:]
	}

	return alert
}

// Active returns unexpired alerts, most recent first, pruning expired
// entries along the way
func (s *AlertStore) Active(now time.Time) []types.PerformanceAlert {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.alerts[:0]
	for _, alert := range s.alerts {
		if !alert.Expired(now) {
			kept = append(kept, alert)
		}
	}
	s.alerts = kept

	out := make([]types.PerformanceAlert, 0, len(kept))
	for i := len(kept) - 1; i >= 0; i-- {
		out = append(out, kept[i])
	}
	return out
}

// Len reports the number of retained alerts, expired included
func (s *AlertStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.alerts)
}
