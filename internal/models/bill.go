package models

// Frequency is the recurrence pattern category of a bill.
type Frequency string

// The closed set of recognized frequency kinds. The literal strings come
// from the billing domain that owns the bill table; they are stored as-is
// and matched exactly.
const (
	FreqOnce             Frequency = "Once"
	FreqOncePerMonth     Frequency = "Once Per Month"
	FreqEveryMonth       Frequency = "Every 1 Month"
	FreqEveryThreeMonths Frequency = "Every 3 Months"
	FreqOncePerWeek      Frequency = "Once Per Week"
	FreqEveryWeek        Frequency = "Every 1 Week"
	FreqEveryTwoWeeks    Frequency = "Every 2 Weeks"
	FreqEveryFourWeeks   Frequency = "Every 4 Weeks"
)

// Frequency-type qualifiers. Each frequency kind expects exactly one of
// these; a mismatch makes the bill a no-op for that run.
const (
	TypeDayOfMonth   = "Day of Month"
	TypeDayOfWeek    = "Day of Week"
	TypeStartingFrom = "Starting From"
)

// Bill represents a recurring or one-time payment obligation definition.
// Bills are owned by the external billing domain and are read-only here.
type Bill struct {
	// ID is the unique identifier for the bill (UUID format).
	ID string

	// UserID is the owning user.
	UserID int64

	// Description is the human-readable bill name (e.g. "Rent", "Gym").
	// It doubles as the dedup key component for generated occurrences.
	Description string

	// Amount is the bill amount.
	Amount float64

	// Frequency is the recurrence kind, one of the Freq* constants.
	Frequency Frequency

	// FrequencyType qualifies how FrequencyValue is interpreted
	// (Day of Month, Day of Week, Starting From).
	FrequencyType string

	// FrequencyValue is polymorphic: a day-of-month (1-31), a weekday
	// index (Sunday=0..Saturday=6, legacy convention), or a date string,
	// depending on Frequency. It is resolved to a typed parameter at the
	// engine's dispatch boundary.
	FrequencyValue string

	// StartDate and EndDate optionally bound monthly occurrences.
	// Empty or "0000-00-00" means unset.
	StartDate string
	EndDate   string

	// IsFuture and IsHeavy are display flags copied verbatim onto
	// generated occurrences.
	IsFuture bool
	IsHeavy  bool
}

// BillDate is one concrete calendar occurrence of a bill.
// Occurrences are derived from exactly one Bill and denormalize the
// originating frequency kind/type for audit.
type BillDate struct {
	// ID is the unique identifier for the occurrence (UUID format).
	ID string

	// Description is copied from the source bill.
	Description string

	// UserID is the owning user.
	UserID int64

	// Amount is copied from the source bill.
	Amount float64

	// Date is the concrete occurrence date, YYYY-MM-DD.
	Date string

	// IsFuture and IsHeavy are copied from the source bill.
	IsFuture bool
	IsHeavy  bool

	// Frequency and FrequencyType record which recurrence rule produced
	// this occurrence.
	Frequency     Frequency
	FrequencyType string
}
