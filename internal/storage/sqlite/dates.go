package sqlite

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/dkarlsen/billdates/internal/models"
)

// BillDateExists reports whether an occurrence with the exact
// (description, date, user) triple already exists.
func (s *SQLiteStore) BillDateExists(ctx context.Context, description, date string, userID int64) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS(
		     SELECT 1 FROM bill_dates
		     WHERE description = ? AND date = ? AND user_id = ?
		 )`,
		description, date, userID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check bill date: %w", err)
	}
	return exists, nil
}

// InsertBillDate persists a new occurrence to the database.
func (s *SQLiteStore) InsertBillDate(ctx context.Context, d *models.BillDate) error {
	// Generate ID if not set
	if d.ID == "" {
		d.ID = uuid.New().String()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO bill_dates
		     (id, description, user_id, amount, date, is_future, is_heavy, frequency, frequency_type)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		d.ID, d.Description, d.UserID, d.Amount, d.Date,
		d.IsFuture, d.IsHeavy, string(d.Frequency), d.FrequencyType,
	)
	if err != nil {
		return fmt.Errorf("failed to insert bill date: %w", err)
	}
	return nil
}

// ListBillDates returns a user's occurrences within [from, to], ordered by
// date then description.
func (s *SQLiteStore) ListBillDates(ctx context.Context, userID int64, from, to string) ([]models.BillDate, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, description, user_id, amount, date, is_future, is_heavy, frequency, frequency_type
		 FROM bill_dates
		 WHERE user_id = ?
		 AND date BETWEEN ? AND ?
		 ORDER BY date, description`,
		userID, from, to,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list bill dates: %w", err)
	}
	defer rows.Close()

	var dates []models.BillDate
	for rows.Next() {
		var d models.BillDate
		if err := rows.Scan(
			&d.ID, &d.Description, &d.UserID, &d.Amount, &d.Date,
			&d.IsFuture, &d.IsHeavy, &d.Frequency, &d.FrequencyType,
		); err != nil {
			return nil, fmt.Errorf("failed to scan bill date: %w", err)
		}
		dates = append(dates, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bill dates: %w", err)
	}

	return dates, nil
}

// PurgeBillDates deletes every occurrence row. Occurrences have run-scoped
// lifetime: the engine rebuilds the table on every generation run.
func (s *SQLiteStore) PurgeBillDates(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM bill_dates"); err != nil {
		return fmt.Errorf("failed to purge bill dates: %w", err)
	}
	return nil
}
