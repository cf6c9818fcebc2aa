// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"time"

	"github.com/dkarlsen/billdates/internal/models"
)

// Store defines the interface for bill, occurrence and job persistence.
// This abstraction allows swapping storage backends (SQLite, MySQL, etc.)
// without changing the engine or the worker, and enables test doubles.
//
// The worker holds a single Store for its whole lifetime; calls are
// serialized by the single-threaded consumer loop.
type Store interface {
	// LoadBills returns all bill definitions for a user, ordered by
	// frequency kind then frequency type.
	LoadBills(ctx context.Context, userID int64) ([]models.Bill, error)

	// BillDateExists reports whether an occurrence with the exact
	// (description, date, user) triple has already been materialized.
	// This is the system's idempotency primitive.
	BillDateExists(ctx context.Context, description, date string, userID int64) (bool, error)

	// InsertBillDate persists a new occurrence. The ID field is
	// populated by the store when empty.
	InsertBillDate(ctx context.Context, d *models.BillDate) error

	// ListBillDates returns a user's occurrences with from <= date <= to,
	// ordered by date then description. Bounds are YYYY-MM-DD strings.
	ListBillDates(ctx context.Context, userID int64, from, to string) ([]models.BillDate, error)

	// PurgeBillDates deletes every occurrence row. It is not scoped to a
	// user; see the engine docs before calling.
	PurgeBillDates(ctx context.Context) error

	// DeleteExpiredOnceBills deletes "Once" bills whose literal date is
	// more than 2 days before now. Like PurgeBillDates it affects the
	// whole table.
	DeleteExpiredOnceBills(ctx context.Context, now time.Time) error

	// EnqueueJob inserts a new pending job for the given command and
	// returns the stored row.
	EnqueueJob(ctx context.Context, command string) (*models.Job, error)

	// NextPendingJob returns the oldest pending job, or nil when the
	// queue is empty.
	NextPendingJob(ctx context.Context) (*models.Job, error)

	// UpdateJobStatus durably records a job's status and output text.
	UpdateJobStatus(ctx context.Context, jobID string, status models.JobStatus, output string) error

	// ListRecentJobs returns up to limit jobs, newest first.
	ListRecentJobs(ctx context.Context, limit int) ([]models.Job, error)

	// Close releases any resources held by the store.
	Close() error
}
