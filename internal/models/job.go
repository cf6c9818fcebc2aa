package models

import "time"

// JobStatus is the lifecycle state of a queued job.
// Transitions: pending -> running -> done | error. Terminal states are
// never revisited; a failed job stays error until a new row is submitted.
type JobStatus string

const (
	JobPending JobStatus = "pending"
	JobRunning JobStatus = "running"
	JobDone    JobStatus = "done"
	JobError   JobStatus = "error"
)

// Job is a unit of requested work. External tooling inserts pending rows;
// the worker owns the status and output fields from then on. Rows are never
// deleted by the worker and accumulate as history.
type Job struct {
	// ID is the unique identifier for the job (UUID format).
	ID string

	// Command is either "generate_bill_dates" (optionally followed by a
	// ":"-delimited JSON parameter object) or an opaque shell command.
	Command string

	// Status is the current lifecycle state.
	Status JobStatus

	// CreatedAt orders the queue; the worker consumes FIFO.
	CreatedAt time.Time

	// Output holds the success summary or failure detail once the job
	// reaches a terminal state.
	Output string
}
