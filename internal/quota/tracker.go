// Package quota tracks per-session daily usage against a fixed limit.
package quota

import (
	"context"
	"sync"
	"time"
)

// Usage is a snapshot of a session's quota state.
type Usage struct {
	UsageCount int       `json:"usage_count"`
	Limit      int       `json:"limit"`
	Remaining  int       `json:"remaining"`
	ResetTime  time.Time `json:"reset_time"`
}

// record holds the mutable per-session state.
type record struct {
	usageCount int
	date       time.Time // start of the day the count belongs to
	lastReset  time.Time
}

// Tracker is an in-memory daily usage counter keyed by session ID.
// Counts reset at local midnight and are not persisted across restarts.
type Tracker struct {
	mu         sync.Mutex
	sessions   map[string]*record
	dailyLimit int
	now        func() time.Time
}

// NewTracker creates a Tracker with the given daily limit.
func NewTracker(dailyLimit int) *Tracker {
	return &Tracker{
		sessions:   make(map[string]*record),
		dailyLimit: dailyLimit,
		now:        time.Now,
	}
}

// NewTrackerWithClock creates a Tracker with an injected clock, used by
// tests to exercise the midnight rollover.
func NewTrackerWithClock(dailyLimit int, now func() time.Time) *Tracker {
	t := NewTracker(dailyLimit)
	t.now = now
	return t
}

// get returns the session record, lazily creating it and resetting the
// count if the stored date is not today. Callers must hold t.mu.
func (t *Tracker) get(sessionID string) *record {
	current := t.now()
	today := startOfDay(current)

	rec, ok := t.sessions[sessionID]
	if !ok {
		rec = &record{date: today, lastReset: current}
		t.sessions[sessionID] = rec
		return rec
	}

	if !rec.date.Equal(today) {
		rec.usageCount = 0
		rec.date = today
		rec.lastReset = today
	}
	return rec
}

func (t *Tracker) usage(rec *record) Usage {
	remaining := t.dailyLimit - rec.usageCount
	if remaining < 0 {
		remaining = 0
	}
	return Usage{
		UsageCount: rec.usageCount,
		Limit:      t.dailyLimit,
		Remaining:  remaining,
		ResetTime:  startOfDay(t.now()).AddDate(0, 0, 1),
	}
}

// CheckLimit reports the session's current usage without consuming quota.
// Unknown sessions are created with a zero count.
func (t *Tracker) CheckLimit(sessionID string) Usage {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.usage(t.get(sessionID))
}

// IncrementUsage consumes one unit of quota. The re-check and increment
// happen under a single lock hold, so concurrent callers can never push a
// session past the daily limit. Returns false without mutation when the
// limit is already reached.
func (t *Tracker) IncrementUsage(sessionID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	rec := t.get(sessionID)
	if t.usage(rec).Remaining <= 0 {
		return false
	}
	rec.usageCount++
	return true
}

// Cleanup removes sessions whose stored date is before today.
// Returns the number of records removed.
func (t *Tracker) Cleanup() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	today := startOfDay(t.now())
	removed := 0
	for id, rec := range t.sessions {
		if rec.date.Before(today) {
			delete(t.sessions, id)
			removed++
		}
	}
	return removed
}

// StartCleanupTicker periodically drops stale session records until the
// context is cancelled.
func (t *Tracker) StartCleanupTicker(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				t.Cleanup()
			}
		}
	}()
}

// Count returns the number of tracked sessions.
func (t *Tracker) Count() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.sessions)
}

func startOfDay(ts time.Time) time.Time {
	return time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, ts.Location())
}
