package domain

import "time"

// Mode selects how the engine reacts to previously ingested references.
type Mode int

const (
	// ModeIncremental stops a source at its first duplicate reference.
	ModeIncremental Mode = iota
	// ModeGapFill skips duplicates and crawls backward to the floor date.
	ModeGapFill
)

// String returns the mode name for logs and reports.
func (m Mode) String() string {
	if m == ModeGapFill {
		return "gap-fill"
	}
	return "incremental"
}

// Verdict is the outcome of one (source, date) run.
type Verdict struct {
	// Stopped indicates the source reached its historical frontier and
	// should be retired for the remainder of the run
	Stopped bool
	// Inserted is the count of newly ingested articles
	Inserted int
}

// StopReason explains why a source left the active set.
type StopReason string

const (
	// StopFrontier: a duplicate proved everything older is already known.
	StopFrontier StopReason = "frontier"
	// StopFloor: the run's floor date was crossed while still active.
	StopFloor StopReason = "floor"
	// StopError: a fatal error retired the source for this run.
	StopError StopReason = "error"
	// StopCancelled: the run was interrupted before the source finished.
	StopCancelled StopReason = "cancelled"
)

// SourceReport summarizes one source's participation in a run.
type SourceReport struct {
	Source   SourceTarget
	Inserted int
	Reason   StopReason
	// LastDate is the oldest calendar day this source was walked on
	LastDate time.Time
}

// RunReport summarizes a full orchestrator run.
type RunReport struct {
	RunID    string
	Mode     Mode
	Started  time.Time
	Finished time.Time
	Sources  []SourceReport
}

// TotalInserted sums inserted counts across all sources.
func (r *RunReport) TotalInserted() int {
	total := 0
	for _, s := range r.Sources {
		total += s.Inserted
	}
	return total
}
