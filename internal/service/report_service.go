package service

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/somitihq/somiti-ledger/internal/config"
	"github.com/somitihq/somiti-ledger/internal/domain"
	"github.com/somitihq/somiti-ledger/internal/repository"
	"github.com/somitihq/somiti-ledger/pkg/dates"
	customError "github.com/somitihq/somiti-ledger/pkg/errors"
)

// ReportService assembles the cross-product views: the merged daily
// collection ledger, the daily summary, member balances, and the
// installment profit report.
type ReportService struct {
	loanRepo   repository.LoanRepository
	dpsRepo    repository.DpsRepository
	fdrRepo    repository.FdrRepository
	memberRepo repository.MemberRepository
	ledgerRepo repository.LedgerRepository
	logger     *slog.Logger
	loc        *time.Location
}

func NewReportService(
	loanRepo repository.LoanRepository,
	dpsRepo repository.DpsRepository,
	fdrRepo repository.FdrRepository,
	memberRepo repository.MemberRepository,
	ledgerRepo repository.LedgerRepository,
	cfg *config.Config,
	logger *slog.Logger,
) *ReportService {
	loc := time.UTC
	if cfg != nil {
		loc = cfg.GetTimezone()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportService{
		loanRepo:   loanRepo,
		dpsRepo:    dpsRepo,
		fdrRepo:    fdrRepo,
		memberRepo: memberRepo,
		ledgerRepo: ledgerRepo,
		logger:     logger,
		loc:        loc,
	}
}

// CollectionsInRange merges loan, DPS, and FDR movements for the date
// range into one ledger, newest date first.
func (s *ReportService) CollectionsInRange(ctx context.Context, start, end dates.Date) ([]domain.CollectionEntry, error) {
	loanEntries, err := s.loanRepo.ListCollectionsInRange(ctx, start, end)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	dpsEntries, err := s.dpsRepo.ListCollectionsInRange(ctx, start, end)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	fdrSettings, err := s.fdrRepo.ListSettingsInRange(ctx, start, end)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	entries := append([]domain.CollectionEntry{}, loanEntries...)
	entries = append(entries, dpsEntries...)
	for _, setting := range fdrSettings {
		entry := domain.CollectionEntry{
			ID:          setting.ID,
			MemberID:    setting.MemberID,
			Amount:      setting.FdrAmount,
			Description: setting.Description,
			Date:        setting.CollectionDate,
			Type:        "fdr",
		}
		if member, err := s.memberRepo.GetByMemberID(ctx, setting.MemberID); err == nil {
			entry.MemberName = member.Name
			entry.MobileNumber = member.MobileNumber
		}
		entries = append(entries, entry)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[j].Date.Before(entries[i].Date)
	})
	return entries, nil
}

// DailyCollections is the single-day slice of the merged ledger.
func (s *ReportService) DailyCollections(ctx context.Context, date dates.Date) ([]domain.CollectionEntry, error) {
	return s.CollectionsInRange(ctx, date, date)
}

// DailySummary totals the day's movements per product bucket.
func (s *ReportService) DailySummary(ctx context.Context, date dates.Date) (*domain.DailySummary, error) {
	entries, err := s.DailyCollections(ctx, date)
	if err != nil {
		return nil, err
	}

	summary := &domain.DailySummary{
		TotalLoanCollection: decimal.Zero,
		TotalLoanDisbursed:  decimal.Zero,
		TotalFdrCollection:  decimal.Zero,
		TotalFdrWithdraw:    decimal.Zero,
		TotalDpsCollection:  decimal.Zero,
		OtherIncome:         decimal.Zero,
		OtherExpense:        decimal.Zero,
	}

	for _, entry := range entries {
		switch entry.Type {
		case "loan":
			summary.TotalLoanCollection = summary.TotalLoanCollection.Add(entry.Amount)
		case "dps":
			summary.TotalDpsCollection = summary.TotalDpsCollection.Add(entry.Amount)
		case "fdr":
			summary.TotalFdrCollection = summary.TotalFdrCollection.Add(entry.Amount)
		}
	}

	disbursed, err := s.loanRepo.SumDisbursedInRange(ctx, date, date)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	summary.TotalLoanDisbursed = disbursed

	dayStart := date.Time(s.loc)
	dayEnd := date.AddDays(1).Time(s.loc)
	income, err := s.ledgerRepo.SumTransactionsInRange(ctx, domain.TransactionDeposit, dayStart, dayEnd)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	expense, err := s.ledgerRepo.SumTransactionsInRange(ctx, domain.TransactionExpense, dayStart, dayEnd)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	summary.OtherIncome = income
	summary.OtherExpense = expense

	return summary, nil
}

// MemberBalances aggregates every member's position across loans, DPS, and
// FDR.
func (s *ReportService) MemberBalances(ctx context.Context) ([]domain.MemberBalance, error) {
	members, err := s.memberRepo.ListByRole(ctx, domain.RoleMember)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	balances := []domain.MemberBalance{}
	for _, member := range members {
		balance := domain.MemberBalance{
			MemberID:            member.MemberID,
			Name:                member.Name,
			MobileNumber:        member.MobileNumber,
			Address:             member.Address,
			TotalLoanGiven:      decimal.Zero,
			TotalLoanCollection: decimal.Zero,
			TotalDpsDeposit:     decimal.Zero,
			TotalDpsBalance:     decimal.Zero,
			TotalFdrDeposit:     decimal.Zero,
		}

		loans, err := s.loanRepo.ListByMemberID(ctx, member.MemberID)
		if err != nil {
			return nil, customError.WrapDatabaseError(err)
		}
		for _, loan := range loans {
			balance.TotalLoanGiven = balance.TotalLoanGiven.Add(loan.InitialLoanAmount)
			balance.TotalLoanCollection = balance.TotalLoanCollection.Add(loan.TotalPaid())
		}

		settings, err := s.dpsRepo.ListSettingsByMember(ctx, member.MemberID)
		if err != nil {
			return nil, customError.WrapDatabaseError(err)
		}
		for _, setting := range settings {
			for _, c := range setting.Collections {
				balance.TotalDpsDeposit = balance.TotalDpsDeposit.Add(c.CollectedAmount)
			}
			balance.TotalDpsBalance = balance.TotalDpsBalance.Add(setting.TargetAmount)
		}

		fdrSettings, err := s.fdrRepo.ListSettingsByMember(ctx, member.MemberID)
		if err != nil {
			return nil, customError.WrapDatabaseError(err)
		}
		for _, setting := range fdrSettings {
			balance.TotalFdrDeposit = balance.TotalFdrDeposit.Add(setting.FdrAmount)
		}

		balances = append(balances, balance)
	}
	return balances, nil
}

// ProfitReport splits each loan collection in the range into its interest
// and principal portions, prorated by the loan's dividend share of the
// repayable total at issuance.
func (s *ReportService) ProfitReport(ctx context.Context, start, end dates.Date) (*domain.ProfitReport, error) {
	loans, err := s.loanRepo.List(ctx)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	report := &domain.ProfitReport{
		Entries:        []domain.ProfitEntry{},
		TotalProfit:    decimal.Zero,
		TotalPrincipal: decimal.Zero,
	}

	for _, loan := range loans {
		initialTotal := loan.InitialTotal()
		if initialTotal.IsZero() {
			continue
		}
		interestShare := initialTotal.Sub(loan.InitialLoanAmount).Div(initialTotal)

		mobile := ""
		if member, err := s.memberRepo.GetByMemberID(ctx, loan.MemberID); err == nil {
			mobile = member.MobileNumber
		}

		for _, c := range loan.Collections {
			if c.CollectionDate.Before(start) || c.CollectionDate.After(end) {
				continue
			}

			interest := c.Amount.Mul(interestShare).Round(2)
			principal := c.Amount.Sub(interest)

			report.Entries = append(report.Entries, domain.ProfitEntry{
				Date:              c.CollectionDate,
				MemberName:        loan.MemberName,
				MobileNumber:      mobile,
				Amount:            c.Amount,
				LoanInterest:      interest,
				PrincipalReceived: principal,
				Description:       c.Description,
			})
			report.TotalProfit = report.TotalProfit.Add(interest)
			report.TotalPrincipal = report.TotalPrincipal.Add(principal)
		}
	}

	sort.SliceStable(report.Entries, func(i, j int) bool {
		return report.Entries[i].Date.Before(report.Entries[j].Date)
	})
	return report, nil
}

// MemberTransactions is the date-ranged merged ledger narrowed to one
// member.
func (s *ReportService) MemberTransactions(ctx context.Context, memberID string, start, end dates.Date) (*domain.TransactionReport, error) {
	entries, err := s.CollectionsInRange(ctx, start, end)
	if err != nil {
		return nil, err
	}

	filtered := []domain.CollectionEntry{}
	for _, entry := range entries {
		if entry.MemberID == memberID {
			filtered = append(filtered, entry)
		}
	}

	return &domain.TransactionReport{
		StartDate:    start,
		EndDate:      end,
		Total:        len(filtered),
		Transactions: filtered,
	}, nil
}
