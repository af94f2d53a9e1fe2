package schedule

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/somitihq/somiti-ledger/internal/domain"
	"github.com/somitihq/somiti-ledger/pkg/dates"
)

func dailyLoan(start dates.Date, count int, collections ...domain.LoanCollection) *domain.Loan {
	return &domain.Loan{
		InstallmentType: CadenceDaily,
		Installments:    count,
		LoanDate:        start,
		TotalLoan:       decimal.NewFromInt(1000),
		Collections:     collections,
	}
}

func TestEvaluateNoCollections(t *testing.T) {
	// 5 daily installments, evaluated 3 days after the start: installments
	// 1-3 are overdue, installment 4 is due today, installment 5 is still
	// in the future.
	start := dates.New(2024, time.May, 1)
	loan := dailyLoan(start, 5)
	asOf := start.AddDays(3)

	eval := Evaluate(loan, asOf)

	require.Len(t, eval.Overdue, 3)
	assert.Equal(t, 1, eval.Overdue[0].SequenceNumber)
	assert.Equal(t, 2, eval.Overdue[1].SequenceNumber)
	assert.Equal(t, 3, eval.Overdue[2].SequenceNumber)
	for _, inst := range eval.Overdue {
		assert.Equal(t, StatusOverdue, inst.Status)
	}

	require.Len(t, eval.DueToday, 1)
	assert.Equal(t, 4, eval.DueToday[0].SequenceNumber)
	assert.Equal(t, asOf, eval.DueToday[0].DueDate)
	assert.Equal(t, StatusDueToday, eval.DueToday[0].Status)
}

func TestEvaluateAsOfBeyondSchedule(t *testing.T) {
	start := dates.New(2024, time.May, 1)
	loan := dailyLoan(start, 5)

	// Past the last due date: everything overdue, nothing due today.
	eval := Evaluate(loan, start.AddDays(10))
	assert.Len(t, eval.Overdue, 5)
	assert.Empty(t, eval.DueToday)
}

func TestEvaluatePaidByDateCoincidence(t *testing.T) {
	start := dates.New(2024, time.May, 1)
	loan := dailyLoan(start, 5,
		domain.LoanCollection{Amount: decimal.NewFromInt(100), CollectionDate: start},
		domain.LoanCollection{Amount: decimal.NewFromInt(100), CollectionDate: start.AddDays(2)},
	)

	eval := Evaluate(loan, start.AddDays(3))

	// Installments 1 and 3 are covered by matching collection dates;
	// installment 2 is overdue, installment 4 due today.
	require.Len(t, eval.Overdue, 1)
	assert.Equal(t, 2, eval.Overdue[0].SequenceNumber)
	require.Len(t, eval.DueToday, 1)
	assert.Equal(t, 4, eval.DueToday[0].SequenceNumber)
}

func TestEvaluateCollectionOnUnscheduledDateSettlesNothing(t *testing.T) {
	// Weekly cadence; a payment three days after the start matches no due
	// date, so installment 1 stays overdue. Inherited matching heuristic.
	start := dates.New(2024, time.May, 1)
	loan := &domain.Loan{
		InstallmentType: CadenceWeekly,
		Installments:    4,
		LoanDate:        start,
		TotalLoan:       decimal.NewFromInt(1000),
		Collections: []domain.LoanCollection{
			{Amount: decimal.NewFromInt(250), CollectionDate: start.AddDays(3)},
		},
	}

	eval := Evaluate(loan, start.AddDays(6))
	require.Len(t, eval.Overdue, 1)
	assert.Equal(t, 1, eval.Overdue[0].SequenceNumber)
}

func TestEvaluateUnrecognizedCadence(t *testing.T) {
	loan := &domain.Loan{
		InstallmentType: "lunar",
		Installments:    10,
		LoanDate:        dates.New(2024, time.May, 1),
		TotalLoan:       decimal.NewFromInt(1000),
	}

	eval := Evaluate(loan, dates.New(2024, time.June, 1))
	assert.Empty(t, eval.DueToday)
	assert.Empty(t, eval.Overdue)
	assert.True(t, eval.Outstanding.Equal(decimal.NewFromInt(1000)))
}

func TestEvaluateZeroInstallments(t *testing.T) {
	loan := dailyLoan(dates.New(2024, time.May, 1), 0)
	eval := Evaluate(loan, dates.New(2024, time.May, 10))
	assert.Empty(t, eval.DueToday)
	assert.Empty(t, eval.Overdue)
}

func TestEvaluateExposesStoredBalance(t *testing.T) {
	loan := dailyLoan(dates.New(2024, time.May, 1), 3)
	loan.TotalLoan = decimal.NewFromInt(640)

	eval := Evaluate(loan, dates.New(2024, time.May, 2))
	assert.True(t, eval.Outstanding.Equal(decimal.NewFromInt(640)))
}

func TestEvaluateIsIdempotent(t *testing.T) {
	start := dates.New(2024, time.May, 1)
	loan := dailyLoan(start, 7,
		domain.LoanCollection{Amount: decimal.NewFromInt(100), CollectionDate: start.AddDays(1)},
	)
	asOf := start.AddDays(4)

	first := Evaluate(loan, asOf)
	second := Evaluate(loan, asOf)
	assert.Equal(t, first, second)
}

func TestFullScheduleIncludesFuture(t *testing.T) {
	start := dates.New(2024, time.May, 1)
	loan := dailyLoan(start, 5,
		domain.LoanCollection{Amount: decimal.NewFromInt(100), CollectionDate: start},
	)

	all := FullSchedule(loan, start.AddDays(2))
	require.Len(t, all, 5)
	assert.Equal(t, StatusPaid, all[0].Status)
	assert.Equal(t, StatusOverdue, all[1].Status)
	assert.Equal(t, StatusDueToday, all[2].Status)
	assert.Equal(t, StatusUpcoming, all[3].Status)
	assert.Equal(t, StatusUpcoming, all[4].Status)
}
