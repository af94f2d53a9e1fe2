package schedule

import (
	"github.com/somitihq/somiti-ledger/pkg/dates"
)

// Installment statuses, derived at evaluation time and never stored.
const (
	StatusPaid     = "paid"
	StatusDueToday = "due_today"
	StatusOverdue  = "overdue"
	StatusUpcoming = "upcoming"
)

// Installment is an ephemeral schedule entry. It has no identity across
// calls; the underlying collection list can change between requests.
type Installment struct {
	SequenceNumber int        `json:"sequence_number"`
	DueDate        dates.Date `json:"due_date"`
	Status         string     `json:"status,omitempty"`
}

// Generate produces the ordered due-date sequence for a loan: entry i
// (0-based) falls on start + i*interval days. Returns nil when the
// installment type is unrecognized or the count is not positive; callers
// skip such loans rather than failing the whole request.
func Generate(start dates.Date, installmentType string, count int) []Installment {
	interval := IntervalDays(installmentType)
	if interval == 0 || count <= 0 {
		return nil
	}

	installments := make([]Installment, 0, count)
	for i := 0; i < count; i++ {
		installments = append(installments, Installment{
			SequenceNumber: i + 1,
			DueDate:        start.AddDays(i * interval),
		})
	}
	return installments
}
