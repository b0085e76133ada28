package quota

import (
	"sync"
	"testing"
	"time"
)

func TestCheckLimit_NewSession(t *testing.T) {
	tr := NewTracker(3)
	u := tr.CheckLimit("fresh")
	if u.UsageCount != 0 {
		t.Errorf("usage_count = %d, want 0", u.UsageCount)
	}
	if u.Limit != 3 {
		t.Errorf("limit = %d, want 3", u.Limit)
	}
	if u.Remaining != 3 {
		t.Errorf("remaining = %d, want 3", u.Remaining)
	}
}

func TestCheckLimit_DoesNotConsume(t *testing.T) {
	tr := NewTracker(3)
	for i := 0; i < 10; i++ {
		tr.CheckLimit("s")
	}
	if got := tr.CheckLimit("s").UsageCount; got != 0 {
		t.Errorf("usage_count after 10 checks = %d, want 0", got)
	}
}

func TestIncrementUsage_CountsToLimit(t *testing.T) {
	tr := NewTracker(3)
	for i := 1; i <= 3; i++ {
		if !tr.IncrementUsage("s") {
			t.Fatalf("increment %d failed, want success", i)
		}
		if got := tr.CheckLimit("s").UsageCount; got != i {
			t.Errorf("usage_count = %d, want %d", got, i)
		}
	}

	// The (k+1)th attempt fails and leaves the count unchanged.
	if tr.IncrementUsage("s") {
		t.Error("increment past limit succeeded, want failure")
	}
	u := tr.CheckLimit("s")
	if u.UsageCount != 3 {
		t.Errorf("usage_count after rejected increment = %d, want 3", u.UsageCount)
	}
	if u.Remaining != 0 {
		t.Errorf("remaining = %d, want 0", u.Remaining)
	}
}

func TestIncrementUsage_IndependentSessions(t *testing.T) {
	tr := NewTracker(1)
	if !tr.IncrementUsage("a") {
		t.Fatal("first increment for a failed")
	}
	if !tr.IncrementUsage("b") {
		t.Error("increment for b should be unaffected by a")
	}
}

func TestResetTime_NextMidnight(t *testing.T) {
	fixed := time.Date(2025, 6, 15, 13, 45, 0, 0, time.UTC)
	tr := NewTrackerWithClock(3, func() time.Time { return fixed })

	u := tr.CheckLimit("s")
	want := time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC)
	if !u.ResetTime.Equal(want) {
		t.Errorf("reset_time = %v, want %v", u.ResetTime, want)
	}
}

func TestDayRollover_ResetsOnce(t *testing.T) {
	current := time.Date(2025, 6, 15, 23, 0, 0, 0, time.UTC)
	tr := NewTrackerWithClock(3, func() time.Time { return current })

	tr.IncrementUsage("s")
	tr.IncrementUsage("s")
	if got := tr.CheckLimit("s").UsageCount; got != 2 {
		t.Fatalf("usage_count = %d, want 2", got)
	}

	// Cross midnight.
	current = time.Date(2025, 6, 16, 0, 30, 0, 0, time.UTC)
	u := tr.CheckLimit("s")
	if u.UsageCount != 0 {
		t.Errorf("usage_count after rollover = %d, want 0", u.UsageCount)
	}
	if u.Remaining != 3 {
		t.Errorf("remaining after rollover = %d, want 3", u.Remaining)
	}

	// A second check on the same day must not reset again.
	tr.IncrementUsage("s")
	if got := tr.CheckLimit("s").UsageCount; got != 1 {
		t.Errorf("usage_count = %d, want 1 (reset applied twice?)", got)
	}
}

func TestIncrementUsage_ConcurrentNeverExceedsLimit(t *testing.T) {
	tr := NewTracker(5)

	var wg sync.WaitGroup
	succeeded := make(chan bool, 50)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			succeeded <- tr.IncrementUsage("hot")
		}()
	}
	wg.Wait()
	close(succeeded)

	wins := 0
	for ok := range succeeded {
		if ok {
			wins++
		}
	}
	if wins != 5 {
		t.Errorf("successful increments = %d, want exactly 5", wins)
	}
	if got := tr.CheckLimit("hot").UsageCount; got != 5 {
		t.Errorf("usage_count = %d, want 5", got)
	}
}

func TestCleanup_DropsStaleSessions(t *testing.T) {
	current := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	tr := NewTrackerWithClock(3, func() time.Time { return current })

	tr.IncrementUsage("old")
	current = current.AddDate(0, 0, 1)
	tr.IncrementUsage("new")

	if removed := tr.Cleanup(); removed != 1 {
		t.Errorf("cleanup removed %d, want 1", removed)
	}
	if tr.Count() != 1 {
		t.Errorf("count = %d, want 1", tr.Count())
	}
	// Stale session comes back with a fresh count.
	if got := tr.CheckLimit("old").UsageCount; got != 0 {
		t.Errorf("usage_count for recreated session = %d, want 0", got)
	}
}
