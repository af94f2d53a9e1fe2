// Package schedule implements the installment schedule and arrears engine.
// Schedules are never persisted; they are recomputed on every read from a
// loan's start date, cadence, and installment count, so the derived view can
// never drift from the stored parameters.
package schedule

// Installment type labels. The set is closed; anything else disables
// schedule generation for that loan.
const (
	CadenceDaily      = "daily"
	CadenceWeekly     = "weekly"
	CadenceBiweekly   = "biweekly"
	CadenceMonthly    = "monthly"
	CadenceSemiannual = "semiannual"
)

// IntervalDays maps an installment-type label to its fixed interval length
// in days. Monthly is a fixed 30-day interval rather than a calendar-month
// increment; changing it would shift every computed due date for existing
// loans. Returns 0 for unrecognized labels.
func IntervalDays(installmentType string) int {
	switch installmentType {
	case CadenceDaily:
		return 1
	case CadenceWeekly:
		return 7
	case CadenceBiweekly:
		return 15
	case CadenceMonthly:
		return 30
	case CadenceSemiannual:
		return 180
	default:
		return 0
	}
}

// ValidCadence reports whether the label is in the closed cadence set.
func ValidCadence(installmentType string) bool {
	return IntervalDays(installmentType) > 0
}
