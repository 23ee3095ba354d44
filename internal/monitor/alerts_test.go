package monitor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/zgsm-ai/tool-reply/internal/types"
)

func TestAlertStoreExpiry(t *testing.T) {
	s := NewAlertStore(100)

	s.Raise("slow_response", types.SeverityHigh, "too slow", "ctx-1", 5*time.Minute)
	s.Raise("slow_generation", types.SeverityHigh, "generation slow", "ctx-2", time.Minute)

	now := time.Now()
	assert.Len(t, s.Active(now), 2)

	// Only the 5-minute alert survives past two minutes
	active := s.Active(now.Add(2 * time.Minute))
	assert.Len(t, active, 1)
	assert.Equal(t, "slow_response", active[0].Type)

	// Expired entries were pruned on read
	assert.Equal(t, 1, s.Len())

	assert.Empty(t, s.Active(now.Add(10*time.Minute)))
}

func TestAlertStoreCapped(t *testing.T) {
	s := NewAlertStore(3)

	for i := 0; i < 10; i++ {
		s.Raise("slow_response", types.SeverityHigh, "too slow", "ctx", 5*time.Minute)
	}

	assert.Equal(t, 3, s.Len())
	assert.Len(t, s.Active(time.Now()), 3)
}

func TestAlertStoreMostRecentFirst(t *testing.T) {
	s := NewAlertStore(100)

	first := s.Raise("slow_response", types.SeverityHigh, "first", "ctx-1", 5*time.Minute)
	second := s.Raise("slow_generation", types.SeverityHigh, "second", "ctx-2", 5*time.Minute)

	active := s.Active(time.Now())
	if len(active) != 2 {
		t.Fatalf("expected 2 active alerts, got %d", len(active))
	}
	assert.Equal(t, second.ID, active[0].ID)
	assert.Equal(t, first.ID, active[1].ID)
}
