package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/dkarlsen/billdates/internal/models"
)

// LoadBills returns all bill definitions for a user, ordered by frequency
// kind then frequency type so "Once" bills process before recurring ones.
func (s *SQLiteStore) LoadBills(ctx context.Context, userID int64) ([]models.Bill, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, description, amount, frequency, frequency_type,
		        frequency_value, start_date, end_date, is_future, is_heavy
		 FROM bills
		 WHERE user_id = ?
		 ORDER BY frequency, frequency_type`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load bills: %w", err)
	}
	defer rows.Close()

	var bills []models.Bill
	for rows.Next() {
		var b models.Bill
		if err := rows.Scan(
			&b.ID, &b.UserID, &b.Description, &b.Amount, &b.Frequency,
			&b.FrequencyType, &b.FrequencyValue, &b.StartDate, &b.EndDate,
			&b.IsFuture, &b.IsHeavy,
		); err != nil {
			return nil, fmt.Errorf("failed to scan bill: %w", err)
		}
		bills = append(bills, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bills: %w", err)
	}

	return bills, nil
}

// DeleteExpiredOnceBills deletes "Once" bills whose literal date is more
// than 2 days before now. The zero-date sentinel and empty values are left
// alone: they never expire.
func (s *SQLiteStore) DeleteExpiredOnceBills(ctx context.Context, now time.Time) error {
	cutoff := now.AddDate(0, 0, -2).Format("2006-01-02")
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM bills
		 WHERE frequency = ?
		 AND frequency_value <> ''
		 AND frequency_value <> '0000-00-00'
		 AND date(frequency_value) < ?`,
		string(models.FreqOnce), cutoff,
	)
	if err != nil {
		return fmt.Errorf("failed to delete expired once bills: %w", err)
	}
	return nil
}
