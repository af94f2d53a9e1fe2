package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/somitihq/somiti-ledger/internal/domain"
	"github.com/somitihq/somiti-ledger/internal/mocks"
	"github.com/somitihq/somiti-ledger/internal/schedule"
	"github.com/somitihq/somiti-ledger/pkg/dates"
)

func newReportService(loanRepo *mocks.MockLoanRepository, dpsRepo *mocks.MockDpsRepository, fdrRepo *mocks.MockFdrRepository, memberRepo *mocks.MockMemberRepository, ledgerRepo *mocks.MockLedgerRepository) *ReportService {
	return NewReportService(loanRepo, dpsRepo, fdrRepo, memberRepo, ledgerRepo, nil, nil)
}

func TestCollectionsInRange_MergesProducts(t *testing.T) {
	loanRepo := new(mocks.MockLoanRepository)
	dpsRepo := new(mocks.MockDpsRepository)
	fdrRepo := new(mocks.MockFdrRepository)
	memberRepo := new(mocks.MockMemberRepository)
	svc := newReportService(loanRepo, dpsRepo, fdrRepo, memberRepo, nil)

	day := dates.New(2024, time.March, 10)
	loanRepo.On("ListCollectionsInRange", mock.Anything, day, day).Return([]domain.CollectionEntry{
		{ID: uuid.New(), MemberID: "M-001", Amount: decimal.NewFromInt(110), Date: day, Type: "loan"},
	}, nil)
	dpsRepo.On("ListCollectionsInRange", mock.Anything, day, day).Return([]domain.CollectionEntry{
		{ID: uuid.New(), MemberID: "M-002", Amount: decimal.NewFromInt(500), Date: day, Type: "dps"},
	}, nil)
	fdrRepo.On("ListSettingsInRange", mock.Anything, day, day).Return([]*domain.FdrSetting{
		{ID: uuid.New(), MemberID: "M-003", FdrAmount: decimal.NewFromInt(10000), CollectionDate: day},
	}, nil)
	memberRepo.On("GetByMemberID", mock.Anything, "M-003").Return(&domain.Member{Name: "Salma", MobileNumber: "019"}, nil)

	entries, err := svc.DailyCollections(context.Background(), day)

	require.NoError(t, err)
	require.Len(t, entries, 3)
	types := map[string]bool{}
	for _, e := range entries {
		types[e.Type] = true
	}
	assert.True(t, types["loan"] && types["dps"] && types["fdr"])
}

func TestDailySummary_BucketsTotals(t *testing.T) {
	loanRepo := new(mocks.MockLoanRepository)
	dpsRepo := new(mocks.MockDpsRepository)
	fdrRepo := new(mocks.MockFdrRepository)
	memberRepo := new(mocks.MockMemberRepository)
	ledgerRepo := new(mocks.MockLedgerRepository)
	svc := newReportService(loanRepo, dpsRepo, fdrRepo, memberRepo, ledgerRepo)

	day := dates.New(2024, time.March, 10)
	loanRepo.On("ListCollectionsInRange", mock.Anything, day, day).Return([]domain.CollectionEntry{
		{Amount: decimal.NewFromInt(110), Date: day, Type: "loan"},
		{Amount: decimal.NewFromInt(220), Date: day, Type: "loan"},
	}, nil)
	dpsRepo.On("ListCollectionsInRange", mock.Anything, day, day).Return([]domain.CollectionEntry{
		{Amount: decimal.NewFromInt(500), Date: day, Type: "dps"},
	}, nil)
	fdrRepo.On("ListSettingsInRange", mock.Anything, day, day).Return([]*domain.FdrSetting{}, nil)
	loanRepo.On("SumDisbursedInRange", mock.Anything, day, day).Return(decimal.NewFromInt(5000), nil)
	ledgerRepo.On("SumTransactionsInRange", mock.Anything, domain.TransactionDeposit, mock.Anything, mock.Anything).Return(decimal.NewFromInt(50), nil)
	ledgerRepo.On("SumTransactionsInRange", mock.Anything, domain.TransactionExpense, mock.Anything, mock.Anything).Return(decimal.NewFromInt(75), nil)

	summary, err := svc.DailySummary(context.Background(), day)

	require.NoError(t, err)
	assert.True(t, summary.TotalLoanCollection.Equal(decimal.NewFromInt(330)))
	assert.True(t, summary.TotalDpsCollection.Equal(decimal.NewFromInt(500)))
	assert.True(t, summary.TotalLoanDisbursed.Equal(decimal.NewFromInt(5000)))
	assert.True(t, summary.OtherIncome.Equal(decimal.NewFromInt(50)))
	assert.True(t, summary.OtherExpense.Equal(decimal.NewFromInt(75)))
}

func TestProfitReport_ProratesInterest(t *testing.T) {
	loanRepo := new(mocks.MockLoanRepository)
	memberRepo := new(mocks.MockMemberRepository)
	svc := newReportService(loanRepo, nil, nil, memberRepo, nil)

	start := dates.New(2024, time.January, 1)
	end := dates.New(2024, time.December, 31)

	// 1000 principal + 10% dividend: every collected taka is 1/11 interest.
	loans := []*domain.Loan{
		{
			ID:                uuid.New(),
			MemberID:          "M-001",
			MemberName:        "Rahim Uddin",
			InitialLoanAmount: decimal.NewFromInt(1000),
			TotalLoan:         decimal.NewFromInt(990),
			Dividend:          decimal.NewFromInt(10),
			DividendType:      domain.DividendTypePercent,
			InstallmentType:   schedule.CadenceDaily,
			Collections: []domain.LoanCollection{
				{Amount: decimal.NewFromInt(110), CollectionDate: dates.New(2024, time.February, 1)},
			},
		},
	}

	loanRepo.On("List", mock.Anything).Return(loans, nil)
	memberRepo.On("GetByMemberID", mock.Anything, "M-001").Return(&domain.Member{MobileNumber: "017"}, nil)

	report, err := svc.ProfitReport(context.Background(), start, end)

	require.NoError(t, err)
	require.Len(t, report.Entries, 1)
	assert.True(t, report.Entries[0].LoanInterest.Equal(decimal.NewFromInt(10)), "interest: %s", report.Entries[0].LoanInterest)
	assert.True(t, report.Entries[0].PrincipalReceived.Equal(decimal.NewFromInt(100)))
	assert.True(t, report.TotalProfit.Equal(decimal.NewFromInt(10)))
}

func TestMemberTransactions_FiltersByMember(t *testing.T) {
	loanRepo := new(mocks.MockLoanRepository)
	dpsRepo := new(mocks.MockDpsRepository)
	fdrRepo := new(mocks.MockFdrRepository)
	memberRepo := new(mocks.MockMemberRepository)
	svc := newReportService(loanRepo, dpsRepo, fdrRepo, memberRepo, nil)

	start := dates.New(2024, time.March, 1)
	end := dates.New(2024, time.March, 31)
	loanRepo.On("ListCollectionsInRange", mock.Anything, start, end).Return([]domain.CollectionEntry{
		{MemberID: "M-001", Amount: decimal.NewFromInt(110), Date: start, Type: "loan"},
		{MemberID: "M-002", Amount: decimal.NewFromInt(220), Date: start, Type: "loan"},
	}, nil)
	dpsRepo.On("ListCollectionsInRange", mock.Anything, start, end).Return([]domain.CollectionEntry{}, nil)
	fdrRepo.On("ListSettingsInRange", mock.Anything, start, end).Return([]*domain.FdrSetting{}, nil)

	report, err := svc.MemberTransactions(context.Background(), "M-001", start, end)

	require.NoError(t, err)
	assert.Equal(t, 1, report.Total)
	assert.Equal(t, "M-001", report.Transactions[0].MemberID)
}
