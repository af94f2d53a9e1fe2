package schedule

import (
	"github.com/shopspring/decimal"

	"github.com/somitihq/somiti-ledger/internal/domain"
	"github.com/somitihq/somiti-ledger/pkg/dates"
)

// Evaluation is the arrears view of a single loan as of one calendar date.
type Evaluation struct {
	DueToday    []Installment
	Overdue     []Installment
	Outstanding decimal.Decimal
}

// Evaluate classifies a loan's installments against its recorded
// collections. An installment is paid when some collection falls on exactly
// its due date; matching is by date coincidence, not amount. A payment made
// on a day with no scheduled installment settles nothing, and several
// payments on one day all match the same installment. That heuristic is
// inherited and kept for compatibility.
//
// Outstanding is the stored balance, already decremented by prior
// collections; it is exposed, not recomputed here.
func Evaluate(loan *domain.Loan, asOf dates.Date) Evaluation {
	eval := Evaluation{Outstanding: loan.TotalLoan}

	for _, inst := range Generate(loan.LoanDate, loan.InstallmentType, loan.Installments) {
		// The schedule is strictly increasing, so nothing past asOf
		// can be due yet.
		if inst.DueDate.After(asOf) {
			break
		}

		if paidOn(loan.Collections, inst.DueDate) {
			continue
		}

		if inst.DueDate.Equal(asOf) {
			inst.Status = StatusDueToday
			eval.DueToday = append(eval.DueToday, inst)
		} else {
			inst.Status = StatusOverdue
			eval.Overdue = append(eval.Overdue, inst)
		}
	}

	return eval
}

// FullSchedule returns every installment of the loan with its derived
// status, including future ones. Used by the member lookahead view.
func FullSchedule(loan *domain.Loan, asOf dates.Date) []Installment {
	installments := Generate(loan.LoanDate, loan.InstallmentType, loan.Installments)
	for i := range installments {
		installments[i].Status = classify(loan.Collections, installments[i].DueDate, asOf)
	}
	return installments
}

func classify(collections []domain.LoanCollection, due, asOf dates.Date) string {
	if paidOn(collections, due) {
		return StatusPaid
	}
	switch {
	case due.Equal(asOf):
		return StatusDueToday
	case due.Before(asOf):
		return StatusOverdue
	default:
		return StatusUpcoming
	}
}

func paidOn(collections []domain.LoanCollection, due dates.Date) bool {
	for _, c := range collections {
		if c.CollectionDate.Equal(due) {
			return true
		}
	}
	return false
}
