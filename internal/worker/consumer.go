// Package worker implements the polling job-queue consumer.
package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"github.com/dkarlsen/billdates/internal/metrics"
	"github.com/dkarlsen/billdates/internal/models"
	"github.com/dkarlsen/billdates/internal/recurrence"
	"github.com/dkarlsen/billdates/internal/storage"
)

const (
	// DefaultPollInterval is the sleep between queue polls.
	DefaultPollInterval = 2 * time.Second

	// DefaultShellTimeout bounds opaque shell jobs. Bill generation has no
	// timeout and is expected to finish within the poll interval's order
	// of magnitude.
	DefaultShellTimeout = 300 * time.Second

	// generateCommand tags a job as a bill-generation request. It may be
	// followed by ":" and a JSON object with user_id and num_reps.
	generateCommand = "generate_bill_dates"

	defaultUserID int64 = 1
	defaultReps         = 42
)

// Generator runs a bill-date generation pass. Satisfied by
// *recurrence.Engine.
type Generator interface {
	Generate(ctx context.Context, userID int64, reps int) (*recurrence.Report, error)
}

// Config tunes the consumer loop.
type Config struct {
	PollInterval time.Duration
	ShellTimeout time.Duration
}

// Consumer pulls jobs off the queue one at a time and executes them.
// It is single-threaded by design: the fetch-then-mark-running sequence
// is not atomic, so running several consumers against one queue can
// double-process a job.
type Consumer struct {
	store     storage.Store
	generator Generator
	heartbeat Heartbeat
	cfg       Config
}

// New creates a Consumer. A nil heartbeat defaults to NopHeartbeat; zero
// config durations take the package defaults.
func New(store storage.Store, generator Generator, heartbeat Heartbeat, cfg Config) *Consumer {
	if heartbeat == nil {
		heartbeat = NopHeartbeat{}
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultPollInterval
	}
	if cfg.ShellTimeout <= 0 {
		cfg.ShellTimeout = DefaultShellTimeout
	}
	return &Consumer{
		store:     store,
		generator: generator,
		heartbeat: heartbeat,
		cfg:       cfg,
	}
}

// Run polls the queue until the context is cancelled. A failed job or a
// transient store error never stops the loop; fetch errors are logged and
// retried on the next tick.
func (c *Consumer) Run(ctx context.Context) error {
	slog.Info("Consumer started", "poll_interval", c.cfg.PollInterval)
	for {
		c.heartbeat.Beat()

		job, err := c.store.NextPendingJob(ctx)
		switch {
		case err != nil:
			slog.Error("Failed to fetch pending job", "error", err)
		case job != nil:
			c.process(ctx, job)
		}

		select {
		case <-ctx.Done():
			slog.Info("Consumer stopping", "reason", ctx.Err())
			return ctx.Err()
		case <-time.After(c.cfg.PollInterval):
		}
	}
}

// process drives one job through running -> done/error.
func (c *Consumer) process(ctx context.Context, job *models.Job) {
	slog.Info("Processing job", "job_id", job.ID, "command", job.Command)

	// Durable write before execution begins.
	if err := c.store.UpdateJobStatus(ctx, job.ID, models.JobRunning, ""); err != nil {
		slog.Error("Failed to mark job running", "job_id", job.ID, "error", err)
		return
	}

	output, err := c.execute(ctx, job.Command)
	status := models.JobDone
	if err != nil {
		status = models.JobError
		output = err.Error()
		slog.Error("Job failed", "job_id", job.ID, "error", err)
	} else {
		slog.Info("Job done", "job_id", job.ID)
	}

	if err := c.store.UpdateJobStatus(ctx, job.ID, status, output); err != nil {
		slog.Error("Failed to record job result", "job_id", job.ID, "status", status, "error", err)
		return
	}
	metrics.JobsProcessed.WithLabelValues(string(status)).Inc()
}

// execute dispatches by command prefix: bill-generation requests go to the
// engine, everything else runs as an opaque shell command.
func (c *Consumer) execute(ctx context.Context, command string) (string, error) {
	if strings.HasPrefix(command, generateCommand) {
		return c.generate(ctx, command)
	}
	return c.runShell(ctx, command)
}

// generate invokes the recurrence engine with the job's parameters.
func (c *Consumer) generate(ctx context.Context, command string) (string, error) {
	userID, reps := parseGenerateParams(command)

	report, err := c.generator.Generate(ctx, userID, reps)
	if err != nil {
		metrics.GenerationRuns.WithLabelValues("error").Inc()
		return "", fmt.Errorf("bill generation failed: %w", err)
	}

	metrics.GenerationRuns.WithLabelValues("ok").Inc()
	metrics.DatesInserted.Add(float64(report.Inserted()))
	return report.Summary(), nil
}

// parseGenerateParams extracts user_id and num_reps from an optional
// ":"-delimited JSON payload. Malformed or absent JSON yields the
// defaults, not an error.
func parseGenerateParams(command string) (int64, int) {
	userID, reps := defaultUserID, defaultReps

	_, payload, found := strings.Cut(command, ":")
	if !found {
		return userID, reps
	}

	var params struct {
		UserID  *int64 `json:"user_id"`
		NumReps *int   `json:"num_reps"`
	}
	if err := json.Unmarshal([]byte(payload), &params); err != nil {
		slog.Warn("Malformed generation parameters, using defaults",
			"payload", payload, "error", err)
		return userID, reps
	}
	if params.UserID != nil {
		userID = *params.UserID
	}
	if params.NumReps != nil {
		reps = *params.NumReps
	}
	return userID, reps
}

// runShell executes the command via the shell with a hard timeout,
// capturing combined stdout/stderr. A non-zero exit fails the job with the
// captured output as the error detail.
func (c *Consumer) runShell(ctx context.Context, command string) (string, error) {
	cctx, cancel := context.WithTimeout(ctx, c.cfg.ShellTimeout)
	defer cancel()

	cmd := exec.CommandContext(cctx, "sh", "-c", command)
	out, err := cmd.CombinedOutput()
	output := string(out)

	if errors.Is(cctx.Err(), context.DeadlineExceeded) {
		return "", fmt.Errorf("command timed out after %s", c.cfg.ShellTimeout)
	}
	if err != nil {
		if strings.TrimSpace(output) == "" {
			output = err.Error()
		}
		return "", errors.New(output)
	}
	return output, nil
}
