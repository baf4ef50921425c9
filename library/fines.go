package library

// FinePolicy maps whole days late to a currency fine. Implementations must be
// pure: deterministic, no side effects.
type FinePolicy interface {
	CalculateFine(daysLate int) float64
}

// PerDayFine is a linear fine rate in currency units per day. Non-positive
// lateness is clamped to a zero fine; overdue detection never calls the
// policy in that case, but the policy is safe if it does.
type PerDayFine float64

func (r PerDayFine) CalculateFine(daysLate int) float64 {
	if daysLate <= 0 {
		return 0
	}
	return float64(daysLate) * float64(r)
}

// Config carries the per-kind loan policy. Historical documents show several
// divergent fine rates and loan periods; the defaults below are the canonical
// pick, and callers can override them without touching service code.
type Config struct {
	BookFinePerDay float64
	BookLoanDays   int
	CDFinePerDay   float64
	CDLoanDays     int
}

// DefaultConfig returns the canonical lending policy: books lend for 28 days
// at 0.5/day late, CDs for 7 days at 20/day late.
func DefaultConfig() Config {
	return Config{
		BookFinePerDay: 0.5,
		BookLoanDays:   28,
		CDFinePerDay:   20,
		CDLoanDays:     7,
	}
}
