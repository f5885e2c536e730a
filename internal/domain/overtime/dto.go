package overtime

import "time"

// AutoResult reports the outcome of an automatic overtime calculation.
// Counted is false when overtime is disabled for the tenant or the worked
// time past work end stayed below the minimum threshold.
type AutoResult struct {
	Counted      bool
	Minutes      int
	TotalMinutes int // day aggregate across entry types
}

// ManualRequestResult reports an accepted manual overtime request.
type ManualRequestResult struct {
	StartTime time.Time
	Reason    string
}

// FinishResult reports a closed manual overtime session.
type FinishResult struct {
	EndTime      time.Time
	Minutes      int
	TotalMinutes int
}

// MonthlySummary aggregates one employee's overtime for a calendar month.
type MonthlySummary struct {
	Month         time.Month
	Year          int
	AutoCount     int
	ManualCount   int
	PendingCount  int
	AutoMinutes   int
	ManualMinutes int
	TotalMinutes  int
}
