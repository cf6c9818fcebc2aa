package recurrence

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/dkarlsen/billdates/internal/models"
)

// memStore is an in-memory storage.Store for engine tests.
type memStore struct {
	bills []models.Bill
	dates []models.BillDate
	jobs  []models.Job

	purges int
}

func (m *memStore) LoadBills(_ context.Context, userID int64) ([]models.Bill, error) {
	var out []models.Bill
	for _, b := range m.bills {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *memStore) BillDateExists(_ context.Context, description, date string, userID int64) (bool, error) {
	for _, d := range m.dates {
		if d.Description == description && d.Date == date && d.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) InsertBillDate(_ context.Context, d *models.BillDate) error {
	m.dates = append(m.dates, *d)
	return nil
}

func (m *memStore) ListBillDates(_ context.Context, userID int64, from, to string) ([]models.BillDate, error) {
	var out []models.BillDate
	for _, d := range m.dates {
		if d.UserID == userID && d.Date >= from && d.Date <= to {
			out = append(out, d)
		}
	}
	return out, nil
}

func (m *memStore) PurgeBillDates(context.Context) error {
	m.purges++
	m.dates = nil
	return nil
}

func (m *memStore) DeleteExpiredOnceBills(_ context.Context, now time.Time) error {
	cutoff := now.AddDate(0, 0, -2).Format(dateLayout)
	var kept []models.Bill
	for _, b := range m.bills {
		v := normalizeDate(b.FrequencyValue)
		if b.Frequency == models.FreqOnce && v != "" && v < cutoff {
			continue
		}
		kept = append(kept, b)
	}
	m.bills = kept
	return nil
}

func (m *memStore) EnqueueJob(_ context.Context, command string) (*models.Job, error) {
	job := models.Job{ID: command, Command: command, Status: models.JobPending, CreatedAt: time.Now()}
	m.jobs = append(m.jobs, job)
	return &job, nil
}

func (m *memStore) NextPendingJob(context.Context) (*models.Job, error) { return nil, nil }

func (m *memStore) UpdateJobStatus(_ context.Context, _ string, _ models.JobStatus, _ string) error {
	return nil
}

func (m *memStore) ListRecentJobs(context.Context, int) ([]models.Job, error) { return m.jobs, nil }

func (m *memStore) Close() error { return nil }

func newTestEngine(store *memStore, now string) *Engine {
	e := NewEngine(store)
	e.now = func() time.Time { return date(now) }
	return e
}

func TestEngineGenerate(t *testing.T) {
	ctx := context.Background()

	t.Run("unrecognized frequency skipped, valid bill still generates", func(t *testing.T) {
		store := &memStore{bills: []models.Bill{
			{UserID: 1, Description: "Mystery", Amount: 5, Frequency: "Fortnightly-ish", FrequencyValue: "1"},
			{UserID: 1, Description: "Rent", Amount: 1200, Frequency: models.FreqOncePerMonth,
				FrequencyType: models.TypeDayOfMonth, FrequencyValue: "1"},
		}}
		engine := newTestEngine(store, "2024-03-05 10:00:00")

		report, err := engine.Generate(ctx, 1, 3)
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}

		if report.Skipped() != 1 {
			t.Errorf("Skipped() = %d, want 1", report.Skipped())
		}
		if report.Failed() != 0 {
			t.Errorf("Failed() = %d, want 0", report.Failed())
		}
		if report.Inserted() != 3 {
			t.Errorf("Inserted() = %d, want 3", report.Inserted())
		}
		if len(store.dates) != 3 {
			t.Fatalf("stored %d dates, want 3", len(store.dates))
		}
		if store.dates[0].Date != "2024-03-01" {
			t.Errorf("first date = %s, want 2024-03-01", store.dates[0].Date)
		}
		if store.dates[0].Frequency != models.FreqOncePerMonth {
			t.Errorf("occurrence frequency = %q, want %q", store.dates[0].Frequency, models.FreqOncePerMonth)
		}
	})

	t.Run("purge runs before expansion", func(t *testing.T) {
		store := &memStore{
			bills: []models.Bill{
				{UserID: 1, Description: "Rent", Amount: 1200, Frequency: models.FreqOncePerMonth,
					FrequencyType: models.TypeDayOfMonth, FrequencyValue: "1"},
			},
			dates: []models.BillDate{{Description: "Stale", UserID: 1, Date: "2001-01-01"}},
		}
		engine := newTestEngine(store, "2024-03-05 10:00:00")

		if _, err := engine.Generate(ctx, 1, 2); err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		if store.purges != 1 {
			t.Errorf("purges = %d, want 1", store.purges)
		}
		for _, d := range store.dates {
			if d.Description == "Stale" {
				t.Error("stale occurrence survived the purge")
			}
		}
	})

	t.Run("expired once bills are dropped, recent ones expand", func(t *testing.T) {
		store := &memStore{bills: []models.Bill{
			{UserID: 1, Description: "Old dues", Frequency: models.FreqOnce, FrequencyValue: "2024-02-20"},
			{UserID: 1, Description: "Car reg", Amount: 80, Frequency: models.FreqOnce, FrequencyValue: "2024-03-20"},
		}}
		engine := newTestEngine(store, "2024-03-05 10:00:00")

		report, err := engine.Generate(ctx, 1, 5)
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}

		if len(store.dates) != 1 || store.dates[0].Description != "Car reg" {
			t.Fatalf("stored dates = %+v, want only Car reg", store.dates)
		}
		if store.dates[0].Date != "2024-03-20" {
			t.Errorf("once date = %s, want 2024-03-20", store.dates[0].Date)
		}
		if len(report.Results) != 1 {
			t.Errorf("results = %d, want 1 (expired bill deleted before load)", len(report.Results))
		}
	})

	t.Run("once bill with zero date is skipped", func(t *testing.T) {
		store := &memStore{bills: []models.Bill{
			{UserID: 1, Description: "Void", Frequency: models.FreqOnce, FrequencyValue: "0000-00-00"},
		}}
		engine := newTestEngine(store, "2024-03-05 10:00:00")

		report, err := engine.Generate(ctx, 1, 5)
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		if report.Skipped() != 1 || len(store.dates) != 0 {
			t.Errorf("skipped = %d, dates = %d; want 1 skip and no dates", report.Skipped(), len(store.dates))
		}
	})

	t.Run("mismatched frequency type is skipped", func(t *testing.T) {
		store := &memStore{bills: []models.Bill{
			{UserID: 1, Description: "Gym", Frequency: models.FreqOncePerMonth,
				FrequencyType: models.TypeStartingFrom, FrequencyValue: "5"},
		}}
		engine := newTestEngine(store, "2024-03-05 10:00:00")

		report, err := engine.Generate(ctx, 1, 3)
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		if report.Skipped() != 1 {
			t.Errorf("Skipped() = %d, want 1", report.Skipped())
		}
	})

	t.Run("negative repetition count generates nothing and does not panic", func(t *testing.T) {
		store := &memStore{bills: []models.Bill{
			{UserID: 1, Description: "Paper", Amount: 12, Frequency: models.FreqOncePerWeek,
				FrequencyType: models.TypeDayOfWeek, FrequencyValue: "0"},
			{UserID: 1, Description: "Box sub", Amount: 25, Frequency: models.FreqEveryTwoWeeks,
				FrequencyType: models.TypeStartingFrom, FrequencyValue: "2024-01-01"},
		}}
		engine := newTestEngine(store, "2024-03-05 10:00:00")

		// A job payload like {"num_reps": -1} is valid JSON and reaches the
		// engine as-is; it must behave like zero repetitions.
		report, err := engine.Generate(ctx, 1, -1)
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		if report.Inserted() != 0 || report.Failed() != 0 {
			t.Errorf("inserted=%d failed=%d, want 0/0", report.Inserted(), report.Failed())
		}
		if len(store.dates) != 0 {
			t.Errorf("stored %d dates, want 0", len(store.dates))
		}
	})

	t.Run("summary names user and repetitions", func(t *testing.T) {
		store := &memStore{}
		engine := newTestEngine(store, "2024-03-05 10:00:00")

		report, err := engine.Generate(ctx, 7, 42)
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		summary := report.Summary()
		if !strings.Contains(summary, "user 7") || !strings.Contains(summary, "42 repetitions") {
			t.Errorf("unexpected summary: %q", summary)
		}
	})
}

func TestProcessBillIdempotence(t *testing.T) {
	ctx := context.Background()
	store := &memStore{}
	engine := newTestEngine(store, "2024-03-05 10:00:00")
	period := PayPeriodFrom(engine.now())

	bill := models.Bill{
		UserID: 1, Description: "Rent", Amount: 1200,
		Frequency: models.FreqOncePerMonth, FrequencyType: models.TypeDayOfMonth, FrequencyValue: "15",
	}

	first := engine.processBill(ctx, period, bill, 4)
	if first.Inserted != 4 || first.Duplicates != 0 {
		t.Fatalf("first run: inserted=%d duplicates=%d, want 4/0", first.Inserted, first.Duplicates)
	}

	// Same window, same store: the guard must suppress every candidate.
	second := engine.processBill(ctx, period, bill, 4)
	if second.Inserted != 0 || second.Duplicates != 4 {
		t.Errorf("second run: inserted=%d duplicates=%d, want 0/4", second.Inserted, second.Duplicates)
	}
	if len(store.dates) != 4 {
		t.Errorf("stored %d dates after double run, want 4", len(store.dates))
	}
}
