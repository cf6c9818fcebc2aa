package recurrence

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dkarlsen/billdates/internal/models"
	"github.com/dkarlsen/billdates/internal/storage"
)

// Engine loads a user's bill definitions and expands each into concrete
// occurrences for the current pay period.
type Engine struct {
	store storage.Store
	now   func() time.Time
}

// NewEngine creates an Engine backed by the given store.
func NewEngine(store storage.Store) *Engine {
	return &Engine{store: store, now: time.Now}
}

// Generate runs a full generation pass for one user: it purges the
// occurrence table, drops expired "Once" bills, then expands every bill
// definition through its matching strategy, reps occurrences each.
//
// The purge and the expired-bill delete affect the WHOLE table, not just
// this user. Do not run Generate concurrently with itself or with readers
// that expect stable occurrence rows.
//
// A malformed bill never aborts the batch: validation problems and
// per-bill storage errors are recorded on the returned Report and
// processing continues. Only run-level failures (purge, load) return an
// error.
func (e *Engine) Generate(ctx context.Context, userID int64, reps int) (*Report, error) {
	now := e.now()

	if err := e.store.PurgeBillDates(ctx); err != nil {
		return nil, fmt.Errorf("failed to purge bill dates: %w", err)
	}
	if err := e.store.DeleteExpiredOnceBills(ctx, now); err != nil {
		return nil, fmt.Errorf("failed to delete expired once bills: %w", err)
	}

	period := PayPeriodFrom(now)

	bills, err := e.store.LoadBills(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load bills for user %d: %w", userID, err)
	}

	report := &Report{UserID: userID, Reps: reps}
	for _, bill := range bills {
		result := e.processBill(ctx, period, bill, reps)
		switch result.Outcome {
		case OutcomeSkipped:
			slog.Warn("Skipping bill",
				"bill", bill.Description,
				"frequency", bill.Frequency,
				"reason", result.Reason,
			)
		case OutcomeFailed:
			slog.Error("Bill processing failed",
				"bill", bill.Description,
				"frequency", bill.Frequency,
				"error", result.Reason,
			)
		default:
			slog.Debug("Processed bill",
				"bill", bill.Description,
				"frequency", bill.Frequency,
				"inserted", result.Inserted,
				"duplicates", result.Duplicates,
			)
		}
		report.Results = append(report.Results, result)
	}

	return report, nil
}

// processBill resolves the bill's polymorphic frequency value, expands it
// through the matching strategy, and persists the candidates.
func (e *Engine) processBill(ctx context.Context, period PayPeriod, bill models.Bill, reps int) BillResult {
	result := BillResult{
		Bill:          bill.Description,
		Frequency:     string(bill.Frequency),
		FrequencyType: bill.FrequencyType,
	}

	candidates, skip := expand(period, bill, reps)
	if skip != "" {
		result.Outcome = OutcomeSkipped
		result.Reason = skip
		return result
	}

	result.Outcome = OutcomeGenerated
	for _, date := range candidates {
		exists, err := e.store.BillDateExists(ctx, bill.Description, date, bill.UserID)
		if err != nil {
			result.Outcome = OutcomeFailed
			result.Reason = err.Error()
			return result
		}
		if exists {
			result.Duplicates++
			continue
		}
		if err := e.store.InsertBillDate(ctx, &models.BillDate{
			Description:   bill.Description,
			UserID:        bill.UserID,
			Amount:        bill.Amount,
			Date:          date,
			IsFuture:      bill.IsFuture,
			IsHeavy:       bill.IsHeavy,
			Frequency:     bill.Frequency,
			FrequencyType: bill.FrequencyType,
		}); err != nil {
			result.Outcome = OutcomeFailed
			result.Reason = err.Error()
			return result
		}
		result.Inserted++
	}
	return result
}

// expand dispatches a bill to its frequency strategy and returns the
// candidate dates, or a non-empty skip reason.
func expand(period PayPeriod, bill models.Bill, reps int) (candidates []string, skip string) {
	switch bill.Frequency {
	case models.FreqOnce:
		date := normalizeDate(bill.FrequencyValue)
		if date == "" {
			return nil, fmt.Sprintf("no usable date in %q", bill.FrequencyValue)
		}
		return []string{date}, ""

	case models.FreqOncePerMonth:
		if bill.FrequencyType != models.TypeDayOfMonth {
			return nil, fmt.Sprintf("unexpected frequency type %q", bill.FrequencyType)
		}
		day, err := parseDayOfMonth(bill.FrequencyValue)
		if err != nil {
			return nil, err.Error()
		}
		return expandMonthly(period.Today, day, reps,
			normalizeDate(bill.StartDate), normalizeDate(bill.EndDate)), ""

	case models.FreqEveryMonth, models.FreqEveryThreeMonths:
		return expandAnchored(bill, monthsFor(bill.Frequency)*30, reps)

	case models.FreqOncePerWeek:
		if bill.FrequencyType != models.TypeDayOfWeek {
			return nil, fmt.Sprintf("unexpected frequency type %q", bill.FrequencyType)
		}
		weekday, err := parseWeekday(bill.FrequencyValue)
		if err != nil {
			return nil, err.Error()
		}
		return expandWeekly(period.Today, weekday, reps), ""

	case models.FreqEveryWeek, models.FreqEveryTwoWeeks, models.FreqEveryFourWeeks:
		return expandAnchored(bill, weeksFor(bill.Frequency)*7, reps)

	default:
		return nil, fmt.Sprintf("unrecognized frequency %q", bill.Frequency)
	}
}

// expandAnchored handles both "Starting From" families.
func expandAnchored(bill models.Bill, stepDays, reps int) ([]string, string) {
	if bill.FrequencyType != models.TypeStartingFrom {
		return nil, fmt.Sprintf("unexpected frequency type %q", bill.FrequencyType)
	}
	anchor, err := parseAnchor(bill.FrequencyValue)
	if err != nil {
		return nil, err.Error()
	}
	return expandEveryNDays(anchor, stepDays, reps), ""
}

// monthsFor maps a monthly-interval frequency to its month count.
func monthsFor(f models.Frequency) int {
	if f == models.FreqEveryThreeMonths {
		return 3
	}
	return 1
}

// weeksFor maps a weekly-interval frequency to its week count.
func weeksFor(f models.Frequency) int {
	switch f {
	case models.FreqEveryTwoWeeks:
		return 2
	case models.FreqEveryFourWeeks:
		return 4
	default:
		return 1
	}
}
