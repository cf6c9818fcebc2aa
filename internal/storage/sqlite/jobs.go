package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dkarlsen/billdates/internal/models"
)

// EnqueueJob inserts a new pending job and returns the stored row.
func (s *SQLiteStore) EnqueueJob(ctx context.Context, command string) (*models.Job, error) {
	job := &models.Job{
		ID:        uuid.New().String(),
		Command:   command,
		Status:    models.JobPending,
		CreatedAt: time.Now(),
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO jobs (id, command, status, created_at) VALUES (?, ?, ?, ?)",
		job.ID, job.Command, string(job.Status), job.CreatedAt.UnixNano(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to enqueue job: %w", err)
	}
	return job, nil
}

// NextPendingJob returns the oldest pending job, or nil when the queue is
// empty. The fetch is not atomic with the caller's status update; running
// multiple consumers against one queue is unsupported.
func (s *SQLiteStore) NextPendingJob(ctx context.Context) (*models.Job, error) {
	job, err := s.scanJob(s.db.QueryRowContext(ctx,
		`SELECT id, command, status, created_at, output
		 FROM jobs
		 WHERE status = ?
		 ORDER BY created_at ASC
		 LIMIT 1`,
		string(models.JobPending),
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch pending job: %w", err)
	}
	return job, nil
}

// UpdateJobStatus durably records a job's status and output text.
func (s *SQLiteStore) UpdateJobStatus(ctx context.Context, jobID string, status models.JobStatus, output string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE jobs SET status = ?, output = ? WHERE id = ?",
		string(status), output, jobID,
	)
	if err != nil {
		return fmt.Errorf("failed to update job status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update job status: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("job not found: %s", jobID)
	}
	return nil
}

// ListRecentJobs returns up to limit jobs, newest first.
func (s *SQLiteStore) ListRecentJobs(ctx context.Context, limit int) ([]models.Job, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, command, status, created_at, output
		 FROM jobs
		 ORDER BY created_at DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []models.Job
	for rows.Next() {
		job, err := s.scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		jobs = append(jobs, *job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate jobs: %w", err)
	}

	return jobs, nil
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func (s *SQLiteStore) scanJob(row rowScanner) (*models.Job, error) {
	var (
		job       models.Job
		createdAt int64
		output    sql.NullString
	)
	if err := row.Scan(&job.ID, &job.Command, &job.Status, &createdAt, &output); err != nil {
		return nil, err
	}
	job.CreatedAt = time.Unix(0, createdAt)
	job.Output = output.String
	return &job, nil
}
