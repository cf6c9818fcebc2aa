package recurrence

import "fmt"

// Outcome classifies how one bill fared during a generation run.
type Outcome string

const (
	// OutcomeGenerated: the bill's strategy ran; Inserted/Duplicates count
	// what happened to its candidates.
	OutcomeGenerated Outcome = "generated"

	// OutcomeSkipped: the bill was not expanded (unrecognized frequency,
	// invalid value, absent date). Never fatal to the batch.
	OutcomeSkipped Outcome = "skipped"

	// OutcomeFailed: the bill hit a storage error mid-expansion. The batch
	// continues with the next bill.
	OutcomeFailed Outcome = "failed"
)

// BillResult is the per-bill record of a generation run.
type BillResult struct {
	Bill          string
	Frequency     string
	FrequencyType string
	Outcome       Outcome
	Reason        string

	// Inserted counts occurrences persisted; Duplicates counts candidates
	// the existence guard suppressed.
	Inserted   int
	Duplicates int
}

// Report aggregates one engine run.
type Report struct {
	UserID  int64
	Reps    int
	Results []BillResult
}

// Inserted returns the total occurrences persisted across all bills.
func (r *Report) Inserted() int {
	var n int
	for _, res := range r.Results {
		n += res.Inserted
	}
	return n
}

// Duplicates returns the total candidates suppressed by the guard.
func (r *Report) Duplicates() int {
	var n int
	for _, res := range r.Results {
		n += res.Duplicates
	}
	return n
}

// Skipped returns how many bills were skipped.
func (r *Report) Skipped() int {
	return r.count(OutcomeSkipped)
}

// Failed returns how many bills failed.
func (r *Report) Failed() int {
	return r.count(OutcomeFailed)
}

func (r *Report) count(o Outcome) int {
	var n int
	for _, res := range r.Results {
		if res.Outcome == o {
			n++
		}
	}
	return n
}

// Summary renders the human-readable run summary recorded on the job row.
func (r *Report) Summary() string {
	return fmt.Sprintf(
		"Bill generation completed successfully for user %d with %d repetitions: %d dates inserted, %d duplicates suppressed, %d bills skipped, %d bills failed",
		r.UserID, r.Reps, r.Inserted(), r.Duplicates(), r.Skipped(), r.Failed(),
	)
}
