package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/somitihq/somiti-ledger/internal/domain"
	"github.com/somitihq/somiti-ledger/internal/mocks"
	"github.com/somitihq/somiti-ledger/internal/schedule"
	"github.com/somitihq/somiti-ledger/pkg/dates"
	customError "github.com/somitihq/somiti-ledger/pkg/errors"
)

func newLoanService(loanRepo *mocks.MockLoanRepository, memberRepo *mocks.MockMemberRepository, notifier *mocks.MockNotifier) *LoanService {
	svc := NewLoanService(loanRepo, memberRepo, nil, nil, nil, nil)
	if notifier != nil {
		svc.notifier = notifier
	}
	return svc
}

func testMember() *domain.Member {
	return &domain.Member{
		ID:           uuid.New(),
		Role:         domain.RoleMember,
		MemberID:     "M-001",
		Name:         "Rahim Uddin",
		MobileNumber: "01711111111",
	}
}

func TestIssueLoan_PercentDividend(t *testing.T) {
	loanRepo := new(mocks.MockLoanRepository)
	memberRepo := new(mocks.MockMemberRepository)
	svc := newLoanService(loanRepo, memberRepo, nil)

	memberRepo.On("GetByMemberID", mock.Anything, "M-001").Return(testMember(), nil)
	loanRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Loan")).Return(nil)

	loan, err := svc.IssueLoan(context.Background(), &domain.IssueLoanRequest{
		MemberID:        "M-001",
		LoanAmount:      decimal.NewFromInt(1000),
		Dividend:        decimal.NewFromInt(10),
		DividendType:    domain.DividendTypePercent,
		InstallmentType: schedule.CadenceDaily,
		Installments:    10,
		Date:            "2024-01-01",
	})

	require.NoError(t, err)
	assert.True(t, loan.TotalLoan.Equal(decimal.NewFromInt(1100)), "total: %s", loan.TotalLoan)
	assert.True(t, loan.InstallmentAmount.Equal(decimal.NewFromInt(110)), "installment: %s", loan.InstallmentAmount)
	loanRepo.AssertExpectations(t)
}

func TestIssueLoan_FlatDividend(t *testing.T) {
	loanRepo := new(mocks.MockLoanRepository)
	memberRepo := new(mocks.MockMemberRepository)
	svc := newLoanService(loanRepo, memberRepo, nil)

	memberRepo.On("GetByMemberID", mock.Anything, "M-001").Return(testMember(), nil)
	loanRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Loan")).Return(nil)

	loan, err := svc.IssueLoan(context.Background(), &domain.IssueLoanRequest{
		MemberID:        "M-001",
		LoanAmount:      decimal.NewFromInt(5000),
		Dividend:        decimal.NewFromInt(500),
		DividendType:    domain.DividendTypeFlat,
		InstallmentType: schedule.CadenceWeekly,
		Installments:    11,
	})

	require.NoError(t, err)
	assert.True(t, loan.TotalLoan.Equal(decimal.NewFromInt(5500)))
	assert.True(t, loan.InstallmentAmount.Equal(decimal.NewFromInt(500)))
}

func TestIssueLoan_ZeroInstallments(t *testing.T) {
	loanRepo := new(mocks.MockLoanRepository)
	memberRepo := new(mocks.MockMemberRepository)
	svc := newLoanService(loanRepo, memberRepo, nil)

	memberRepo.On("GetByMemberID", mock.Anything, "M-001").Return(testMember(), nil)
	loanRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Loan")).Return(nil)

	loan, err := svc.IssueLoan(context.Background(), &domain.IssueLoanRequest{
		MemberID:        "M-001",
		LoanAmount:      decimal.NewFromInt(1000),
		DividendType:    domain.DividendTypeFlat,
		InstallmentType: schedule.CadenceDaily,
		Installments:    0,
	})

	require.NoError(t, err)
	assert.True(t, loan.InstallmentAmount.IsZero())
}

func TestIssueLoan_UnknownMember(t *testing.T) {
	loanRepo := new(mocks.MockLoanRepository)
	memberRepo := new(mocks.MockMemberRepository)
	svc := newLoanService(loanRepo, memberRepo, nil)

	memberRepo.On("GetByMemberID", mock.Anything, "M-404").Return(nil, sql.ErrNoRows)

	_, err := svc.IssueLoan(context.Background(), &domain.IssueLoanRequest{
		MemberID:        "M-404",
		LoanAmount:      decimal.NewFromInt(1000),
		DividendType:    domain.DividendTypeFlat,
		InstallmentType: schedule.CadenceDaily,
		Installments:    10,
	})

	require.Error(t, err)
	assert.True(t, customError.IsNotFound(err))
	loanRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestIssueLoan_RejectsUnknownCadence(t *testing.T) {
	loanRepo := new(mocks.MockLoanRepository)
	memberRepo := new(mocks.MockMemberRepository)
	svc := newLoanService(loanRepo, memberRepo, nil)

	memberRepo.On("GetByMemberID", mock.Anything, "M-001").Return(testMember(), nil)

	_, err := svc.IssueLoan(context.Background(), &domain.IssueLoanRequest{
		MemberID:        "M-001",
		LoanAmount:      decimal.NewFromInt(1000),
		DividendType:    domain.DividendTypeFlat,
		InstallmentType: "fortnightly-ish",
		Installments:    10,
	})

	require.Error(t, err)
	var businessErr *customError.BusinessError
	require.ErrorAs(t, err, &businessErr)
	assert.Equal(t, customError.ErrCodeInvalidCadence, businessErr.Code)
	loanRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRecordCollection_DecrementsBalance(t *testing.T) {
	loanRepo := new(mocks.MockLoanRepository)
	memberRepo := new(mocks.MockMemberRepository)
	svc := newLoanService(loanRepo, memberRepo, nil)

	loanID := uuid.New()
	loan := &domain.Loan{
		ID:                loanID,
		MemberID:          "M-001",
		InitialLoanAmount: decimal.NewFromInt(1000),
		TotalLoan:         decimal.NewFromInt(1100),
		Dividend:          decimal.NewFromInt(10),
		DividendType:      domain.DividendTypePercent,
		InstallmentType:   schedule.CadenceDaily,
		Installments:      10,
		InstallmentAmount: decimal.NewFromInt(110),
		LoanDate:          dates.New(2024, time.January, 1),
	}

	loanRepo.On("GetByID", mock.Anything, loanID).Return(loan, nil)
	loanRepo.On("AddCollection", mock.Anything, mock.AnythingOfType("*domain.LoanCollection")).Return(nil)
	loanRepo.On("UpdateBalance", mock.Anything, loanID, mock.MatchedBy(func(d decimal.Decimal) bool {
		return d.Equal(decimal.NewFromInt(600))
	})).Return(nil)

	resp, err := svc.RecordCollection(context.Background(), loanID, &domain.RecordCollectionRequest{
		Amount: decimal.NewFromInt(500),
		Date:   "2024-01-05",
	})

	require.NoError(t, err)
	assert.True(t, resp.CurrentDue.Equal(decimal.NewFromInt(600)))
	loanRepo.AssertExpectations(t)
}

func TestRecordCollection_FloorsAtZero(t *testing.T) {
	loanRepo := new(mocks.MockLoanRepository)
	memberRepo := new(mocks.MockMemberRepository)
	svc := newLoanService(loanRepo, memberRepo, nil)

	loanID := uuid.New()
	loan := &domain.Loan{
		ID:                loanID,
		MemberID:          "M-001",
		InitialLoanAmount: decimal.NewFromInt(1000),
		TotalLoan:         decimal.NewFromInt(600),
		Dividend:          decimal.NewFromInt(10),
		DividendType:      domain.DividendTypePercent,
		InstallmentType:   schedule.CadenceDaily,
		Installments:      10,
		InstallmentAmount: decimal.NewFromInt(110),
		LoanDate:          dates.New(2024, time.January, 1),
		Collections: []domain.LoanCollection{
			{Amount: decimal.NewFromInt(500), CollectionDate: dates.New(2024, time.January, 5)},
		},
	}

	loanRepo.On("GetByID", mock.Anything, loanID).Return(loan, nil)
	loanRepo.On("AddCollection", mock.Anything, mock.AnythingOfType("*domain.LoanCollection")).Return(nil)
	loanRepo.On("UpdateBalance", mock.Anything, loanID, mock.MatchedBy(func(d decimal.Decimal) bool {
		return d.IsZero()
	})).Return(nil)

	resp, err := svc.RecordCollection(context.Background(), loanID, &domain.RecordCollectionRequest{
		Amount: decimal.NewFromInt(700),
		Date:   "2024-01-06",
	})

	require.NoError(t, err)
	assert.True(t, resp.CurrentDue.IsZero())
	loanRepo.AssertExpectations(t)
}

func TestRecordCollection_LoanNotFound(t *testing.T) {
	loanRepo := new(mocks.MockLoanRepository)
	memberRepo := new(mocks.MockMemberRepository)
	svc := newLoanService(loanRepo, memberRepo, nil)

	loanID := uuid.New()
	loanRepo.On("GetByID", mock.Anything, loanID).Return(nil, sql.ErrNoRows)

	_, err := svc.RecordCollection(context.Background(), loanID, &domain.RecordCollectionRequest{
		Amount: decimal.NewFromInt(100),
	})

	require.Error(t, err)
	assert.True(t, customError.IsNotFound(err))
}

func TestRecordCollection_SendsSMS(t *testing.T) {
	loanRepo := new(mocks.MockLoanRepository)
	memberRepo := new(mocks.MockMemberRepository)
	notifier := new(mocks.MockNotifier)
	svc := newLoanService(loanRepo, memberRepo, notifier)

	loanID := uuid.New()
	loan := &domain.Loan{
		ID:                loanID,
		MemberID:          "M-001",
		InitialLoanAmount: decimal.NewFromInt(1000),
		TotalLoan:         decimal.NewFromInt(1000),
		DividendType:      domain.DividendTypeFlat,
		InstallmentType:   schedule.CadenceDaily,
		Installments:      10,
		LoanDate:          dates.New(2024, time.January, 1),
	}

	loanRepo.On("GetByID", mock.Anything, loanID).Return(loan, nil)
	loanRepo.On("AddCollection", mock.Anything, mock.Anything).Return(nil)
	loanRepo.On("UpdateBalance", mock.Anything, loanID, mock.Anything).Return(nil)
	memberRepo.On("GetByMemberID", mock.Anything, "M-001").Return(testMember(), nil)
	notifier.On("Dispatch", "01711111111", mock.AnythingOfType("string")).Return()

	_, err := svc.RecordCollection(context.Background(), loanID, &domain.RecordCollectionRequest{
		Amount:  decimal.NewFromInt(100),
		Date:    "2024-01-02",
		SendSMS: true,
	})

	require.NoError(t, err)
	notifier.AssertCalled(t, "Dispatch", "01711111111", mock.AnythingOfType("string"))
}

func TestDueToday_FlattensAcrossLoans(t *testing.T) {
	loanRepo := new(mocks.MockLoanRepository)
	memberRepo := new(mocks.MockMemberRepository)
	svc := newLoanService(loanRepo, memberRepo, nil)

	start := dates.New(2024, time.March, 1)
	loans := []*domain.Loan{
		{
			ID:                uuid.New(),
			MemberID:          "M-001",
			MemberName:        "Rahim Uddin",
			TotalLoan:         decimal.NewFromInt(1100),
			InstallmentType:   schedule.CadenceDaily,
			Installments:      5,
			InstallmentAmount: decimal.NewFromInt(220),
			LoanDate:          start,
		},
		{
			ID:                uuid.New(),
			MemberID:          "M-002",
			MemberName:        "Karim Mia",
			TotalLoan:         decimal.NewFromInt(2000),
			InstallmentType:   schedule.CadenceWeekly,
			Installments:      4,
			InstallmentAmount: decimal.NewFromInt(500),
			LoanDate:          start,
		},
	}

	loanRepo.On("List", mock.Anything).Return(loans, nil)
	memberRepo.On("GetByMemberID", mock.Anything, mock.AnythingOfType("string")).Return(testMember(), nil)

	// Day 3 of the daily loan; off-cycle for the weekly one.
	rows, err := svc.DueToday(context.Background(), start.AddDays(2))

	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "M-001", rows[0].MemberID)
	assert.Equal(t, 3, rows[0].InstallmentNo)
}

func TestOverdue_SkipsUnrecognizedCadence(t *testing.T) {
	loanRepo := new(mocks.MockLoanRepository)
	memberRepo := new(mocks.MockMemberRepository)
	svc := newLoanService(loanRepo, memberRepo, nil)

	start := dates.New(2024, time.March, 1)
	loans := []*domain.Loan{
		{
			ID:                uuid.New(),
			MemberID:          "M-001",
			TotalLoan:         decimal.NewFromInt(1000),
			InstallmentType:   "quarterly",
			Installments:      4,
			InstallmentAmount: decimal.NewFromInt(250),
			LoanDate:          start,
		},
	}

	loanRepo.On("List", mock.Anything).Return(loans, nil)

	rows, err := svc.Overdue(context.Background(), start.AddDays(90))

	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestMemberInstallments_FullSchedule(t *testing.T) {
	loanRepo := new(mocks.MockLoanRepository)
	memberRepo := new(mocks.MockMemberRepository)
	svc := newLoanService(loanRepo, memberRepo, nil)

	start := dates.New(2024, time.March, 1)
	loans := []*domain.Loan{
		{
			ID:                uuid.New(),
			MemberID:          "M-001",
			TotalLoan:         decimal.NewFromInt(500),
			InstallmentType:   schedule.CadenceDaily,
			Installments:      5,
			InstallmentAmount: decimal.NewFromInt(100),
			LoanDate:          start,
		},
	}

	loanRepo.On("ListByMemberID", mock.Anything, "M-001").Return(loans, nil)

	rows, err := svc.MemberInstallments(context.Background(), "M-001")

	require.NoError(t, err)
	require.Len(t, rows, 5)
	for i, row := range rows {
		assert.Equal(t, i+1, row.InstallmentNo)
		assert.Equal(t, start.AddDays(i), row.DueDate)
	}
}

func TestCloseLoanSummaries(t *testing.T) {
	loanRepo := new(mocks.MockLoanRepository)
	memberRepo := new(mocks.MockMemberRepository)
	svc := newLoanService(loanRepo, memberRepo, nil)

	member := testMember()
	loans := []*domain.Loan{
		{
			ID:        uuid.New(),
			MemberID:  member.MemberID,
			TotalLoan: decimal.NewFromInt(600),
			Collections: []domain.LoanCollection{
				{Amount: decimal.NewFromInt(500)},
			},
			InstallmentType: schedule.CadenceDaily,
			LoanDate:        dates.New(2024, time.January, 1),
		},
	}

	memberRepo.On("List", mock.Anything).Return([]*domain.Member{member}, nil)
	loanRepo.On("List", mock.Anything).Return(loans, nil)

	summaries, err := svc.CloseLoanSummaries(context.Background())

	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.True(t, summaries[0].TotalPaid.Equal(decimal.NewFromInt(500)))
	assert.True(t, summaries[0].DueAmount.Equal(decimal.NewFromInt(100)))
}

func TestRecordCollection_PurgesBackdatedCacheEntry(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	loanRepo := new(mocks.MockLoanRepository)
	memberRepo := new(mocks.MockMemberRepository)
	svc := NewLoanService(loanRepo, memberRepo, client, nil, nil, nil)

	loanID := uuid.New()
	loan := &domain.Loan{
		ID:                loanID,
		MemberID:          "M-001",
		InitialLoanAmount: decimal.NewFromInt(1000),
		TotalLoan:         decimal.NewFromInt(1100),
		Dividend:          decimal.NewFromInt(10),
		DividendType:      domain.DividendTypePercent,
		InstallmentType:   schedule.CadenceDaily,
		Installments:      10,
		InstallmentAmount: decimal.NewFromInt(110),
		LoanDate:          dates.New(2024, time.January, 1),
	}
	loanRepo.On("GetByID", mock.Anything, loanID).Return(loan, nil)
	loanRepo.On("AddCollection", mock.Anything, mock.Anything).Return(nil)
	loanRepo.On("UpdateBalance", mock.Anything, loanID, mock.Anything).Return(nil)

	// A due-today report was already cached for the collection's date.
	staleKey := dueTodayCachePrefix + "2024-01-05"
	require.NoError(t, mr.Set(staleKey, "[]"))

	_, err := svc.RecordCollection(context.Background(), loanID, &domain.RecordCollectionRequest{
		Amount: decimal.NewFromInt(110),
		Date:   "2024-01-05",
	})

	require.NoError(t, err)
	assert.False(t, mr.Exists(staleKey),
		"a back-dated collection must purge that date's cached report")
}
