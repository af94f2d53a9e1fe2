package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/somitihq/somiti-ledger/internal/config"
	"github.com/somitihq/somiti-ledger/internal/domain"
	"github.com/somitihq/somiti-ledger/internal/notify"
	"github.com/somitihq/somiti-ledger/internal/repository"
	"github.com/somitihq/somiti-ledger/internal/schedule"
	"github.com/somitihq/somiti-ledger/pkg/dates"
	customError "github.com/somitihq/somiti-ledger/pkg/errors"
)

const dueTodayCachePrefix = "somiti:duetoday:"

type LoanService struct {
	loanRepo   repository.LoanRepository
	memberRepo repository.MemberRepository
	redis      *redis.Client
	notifier   notify.Notifier
	logger     *slog.Logger
	loc        *time.Location
	cacheTTL   time.Duration
}

func NewLoanService(
	loanRepo repository.LoanRepository,
	memberRepo repository.MemberRepository,
	redisClient *redis.Client,
	notifier notify.Notifier,
	cfg *config.Config,
	logger *slog.Logger,
) *LoanService {
	loc := time.UTC
	var ttl time.Duration
	if cfg != nil {
		loc = cfg.GetTimezone()
		ttl = cfg.GetDueTodayCacheTTL()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &LoanService{
		loanRepo:   loanRepo,
		memberRepo: memberRepo,
		redis:      redisClient,
		notifier:   notifier,
		logger:     logger,
		loc:        loc,
		cacheTTL:   ttl,
	}
}

// Timezone exposes the cooperative's local calendar for date parsing at the
// HTTP boundary.
func (s *LoanService) Timezone() *time.Location {
	return s.loc
}

// IssueLoan creates a loan contract. The total repayable is the principal
// plus the dividend, where a "%" dividend is a percentage of the principal
// and a flat dividend is an absolute amount. Amortization is flat: the total
// is spread evenly over the installment count.
func (s *LoanService) IssueLoan(ctx context.Context, request *domain.IssueLoanRequest) (*domain.Loan, error) {
	member, err := s.memberRepo.GetByMemberID(ctx, request.MemberID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapMemberNotFound(request.MemberID)
		}
		return nil, customError.WrapDatabaseError(err)
	}

	if request.LoanAmount.LessThanOrEqual(decimal.Zero) {
		return nil, customError.WrapValidation("loan amount must be greater than zero")
	}
	if !schedule.ValidCadence(request.InstallmentType) {
		// The legacy system accepted anything here and then silently
		// skipped the loan in every schedule view. Rejecting at
		// issuance keeps such loans out of the book entirely.
		return nil, customError.WrapInvalidCadence(request.InstallmentType)
	}

	loanDate := dates.Today(s.loc)
	if request.Date != "" {
		loanDate, err = dates.Parse(request.Date)
		if err != nil {
			return nil, customError.WrapValidation(err.Error())
		}
	}

	totalLoan := request.LoanAmount.Add(request.Dividend)
	if request.DividendType == domain.DividendTypePercent {
		totalLoan = request.LoanAmount.Add(
			request.LoanAmount.Mul(request.Dividend).Div(decimal.NewFromInt(100)),
		)
	}

	// Source leniency: zero installments yields a zero per-installment
	// amount, not an error.
	installmentAmount := decimal.Zero
	if request.Installments > 0 {
		installmentAmount = totalLoan.Div(decimal.NewFromInt(int64(request.Installments))).Round(2)
	}

	now := time.Now()
	loan := &domain.Loan{
		ID:                uuid.New(),
		MemberID:          member.MemberID,
		MemberName:        member.Name,
		InitialLoanAmount: request.LoanAmount,
		TotalLoan:         totalLoan,
		Dividend:          request.Dividend,
		DividendType:      request.DividendType,
		InstallmentType:   request.InstallmentType,
		Installments:      request.Installments,
		InstallmentAmount: installmentAmount,
		Description:       request.Description,
		SendSMS:           request.SendSMS,
		LoanDate:          loanDate,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := s.loanRepo.Create(ctx, loan); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	s.invalidateDueTodayCache(ctx)

	if request.SendSMS && s.notifier != nil {
		message := fmt.Sprintf("Dear %s, you have received a loan of %s today. Thank you for banking with us.",
			member.Name, totalLoan.StringFixed(2))
		s.notifier.Dispatch(member.MobileNumber, message)
	}

	return loan, nil
}

// RecordCollection appends a payment to a loan and decrements the
// outstanding balance, floored at zero. The new balance is recomputed from
// the initial amount and the full collection history rather than trusted
// from the stored field.
func (s *LoanService) RecordCollection(ctx context.Context, loanID uuid.UUID, request *domain.RecordCollectionRequest) (*domain.RecordCollectionResponse, error) {
	loan, err := s.loanRepo.GetByID(ctx, loanID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapLoanNotFound(loanID.String())
		}
		return nil, customError.WrapDatabaseError(err)
	}

	if request.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, customError.WrapValidation("collection amount must be greater than zero")
	}

	collectionDate := dates.Today(s.loc)
	if request.Date != "" {
		collectionDate, err = dates.Parse(request.Date)
		if err != nil {
			return nil, customError.WrapValidation(err.Error())
		}
	}

	newTotal := loan.InitialTotal().Sub(loan.TotalPaid()).Sub(request.Amount)
	if newTotal.IsNegative() {
		newTotal = decimal.Zero
	}

	collection := &domain.LoanCollection{
		ID:             uuid.New(),
		LoanID:         loan.ID,
		Amount:         request.Amount,
		Description:    request.Description,
		CollectionDate: collectionDate,
		SendSMS:        request.SendSMS,
		CreatedAt:      time.Now(),
	}

	if err := s.loanRepo.AddCollection(ctx, collection); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	if err := s.loanRepo.UpdateBalance(ctx, loan.ID, newTotal); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	loan.Collections = append(loan.Collections, *collection)
	loan.TotalLoan = newTotal

	s.invalidateDueTodayCache(ctx)

	if request.SendSMS && s.notifier != nil {
		if member, err := s.memberRepo.GetByMemberID(ctx, loan.MemberID); err == nil {
			message := fmt.Sprintf("Dear %s, your payment of %s has been received today. Thank you for banking with us.",
				member.Name, request.Amount.StringFixed(2))
			s.notifier.Dispatch(member.MobileNumber, message)
		}
	}

	return &domain.RecordCollectionResponse{Loan: loan, CurrentDue: newTotal}, nil
}

// DueToday flattens, across every loan, the installments falling due on
// asOf with no matching payment. The result is cached per calendar date and
// invalidated on any loan or collection write.
func (s *LoanService) DueToday(ctx context.Context, asOf dates.Date) ([]domain.DueInstallmentRow, error) {
	cacheKey := dueTodayCachePrefix + asOf.String()
	if cached := s.readCachedRows(ctx, cacheKey); cached != nil {
		return cached, nil
	}

	loans, err := s.loanRepo.List(ctx)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	rows := []domain.DueInstallmentRow{}
	for _, loan := range loans {
		eval := schedule.Evaluate(loan, asOf)
		for _, inst := range eval.DueToday {
			rows = append(rows, s.dueRow(ctx, loan, inst))
		}
	}

	s.writeCachedRows(ctx, cacheKey, rows)
	return rows, nil
}

// Overdue flattens, across every loan, the installments whose due date has
// passed without a matching payment. Loans with an unrecognized cadence are
// excluded; no schedule can be generated for them.
func (s *LoanService) Overdue(ctx context.Context, asOf dates.Date) ([]domain.DueInstallmentRow, error) {
	loans, err := s.loanRepo.List(ctx)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	rows := []domain.DueInstallmentRow{}
	for _, loan := range loans {
		eval := schedule.Evaluate(loan, asOf)
		for _, inst := range eval.Overdue {
			rows = append(rows, s.dueRow(ctx, loan, inst))
		}
	}
	return rows, nil
}

// MemberInstallments returns the full schedule, future installments
// included, for every loan of one member.
func (s *LoanService) MemberInstallments(ctx context.Context, memberID string) ([]domain.MemberInstallmentRow, error) {
	loans, err := s.loanRepo.ListByMemberID(ctx, memberID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	asOf := dates.Today(s.loc)
	rows := []domain.MemberInstallmentRow{}
	for _, loan := range loans {
		for _, inst := range schedule.FullSchedule(loan, asOf) {
			rows = append(rows, domain.MemberInstallmentRow{
				LoanID:            loan.ID,
				MemberID:          memberID,
				InstallmentNo:     inst.SequenceNumber,
				InstallmentAmount: loan.InstallmentAmount,
				DueDate:           inst.DueDate,
				Status:            inst.Status,
				InstallmentType:   loan.InstallmentType,
			})
		}
	}
	return rows, nil
}

// GetLoan fetches one loan with its collection history.
func (s *LoanService) GetLoan(ctx context.Context, loanID uuid.UUID) (*domain.Loan, error) {
	loan, err := s.loanRepo.GetByID(ctx, loanID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapLoanNotFound(loanID.String())
		}
		return nil, customError.WrapDatabaseError(err)
	}
	return loan, nil
}

// ListLoans returns all loans, optionally narrowed to one member.
func (s *LoanService) ListLoans(ctx context.Context, memberID string) ([]*domain.Loan, error) {
	var (
		loans []*domain.Loan
		err   error
	)
	if memberID != "" {
		loans, err = s.loanRepo.ListByMemberID(ctx, memberID)
	} else {
		loans, err = s.loanRepo.List(ctx)
	}
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return loans, nil
}

// LoansWithMembers produces the flattened all-loans listing: one row per
// collection, or a single zero row for a loan with no collections yet.
func (s *LoanService) LoansWithMembers(ctx context.Context) ([]domain.LoanWithMemberRow, error) {
	loans, err := s.loanRepo.List(ctx)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	rows := []domain.LoanWithMemberRow{}
	for _, loan := range loans {
		mobile := ""
		if member, err := s.memberRepo.GetByMemberID(ctx, loan.MemberID); err == nil {
			mobile = member.MobileNumber
		}

		totalPaid := loan.TotalPaid()
		base := domain.LoanWithMemberRow{
			LoanID:            loan.ID,
			MemberID:          loan.MemberID,
			MemberName:        loan.MemberName,
			MobileNumber:      mobile,
			InitialLoanAmount: loan.InitialLoanAmount,
			TotalLoan:         loan.TotalLoan,
			TotalPaid:         totalPaid,
			Due:               loan.TotalLoan,
			Installments:      loan.Installments,
			InstallmentType:   loan.InstallmentType,
			Amount:            decimal.Zero,
		}

		if len(loan.Collections) == 0 {
			rows = append(rows, base)
			continue
		}

		for _, c := range loan.Collections {
			row := base
			collectionDate := c.CollectionDate
			row.CollectionDate = &collectionDate
			row.Amount = c.Amount
			rows = append(rows, row)
		}
	}
	return rows, nil
}

// CloseLoanSummaries lists every member holding loans, with aggregate paid
// and due figures, for the loan close-out page.
func (s *LoanService) CloseLoanSummaries(ctx context.Context) ([]domain.MemberLoanSummary, error) {
	members, err := s.memberRepo.List(ctx)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	loans, err := s.loanRepo.List(ctx)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	byMember := make(map[string][]*domain.Loan)
	for _, loan := range loans {
		byMember[loan.MemberID] = append(byMember[loan.MemberID], loan)
	}

	summaries := []domain.MemberLoanSummary{}
	for _, member := range members {
		memberLoans := byMember[member.MemberID]
		if len(memberLoans) == 0 {
			continue
		}

		totalLoan := decimal.Zero
		totalPaid := decimal.Zero
		for _, loan := range memberLoans {
			totalLoan = totalLoan.Add(loan.TotalLoan)
			totalPaid = totalPaid.Add(loan.TotalPaid())
		}

		summaries = append(summaries, domain.MemberLoanSummary{
			Member:    member,
			Loans:     memberLoans,
			TotalLoan: totalLoan,
			TotalPaid: totalPaid,
			DueAmount: totalLoan.Sub(totalPaid),
		})
	}
	return summaries, nil
}

// CloseMemberLoans removes every loan of a member.
func (s *LoanService) CloseMemberLoans(ctx context.Context, memberID string) error {
	if err := s.loanRepo.DeleteByMemberID(ctx, memberID); err != nil {
		return customError.WrapDatabaseError(err)
	}
	s.invalidateDueTodayCache(ctx)
	return nil
}

func (s *LoanService) dueRow(ctx context.Context, loan *domain.Loan, inst schedule.Installment) domain.DueInstallmentRow {
	mobile := ""
	if member, err := s.memberRepo.GetByMemberID(ctx, loan.MemberID); err == nil {
		mobile = member.MobileNumber
	}

	return domain.DueInstallmentRow{
		MemberName:        loan.MemberName,
		MobileNumber:      mobile,
		MemberID:          loan.MemberID,
		LoanID:            loan.ID,
		InstallmentNo:     inst.SequenceNumber,
		InstallmentAmount: loan.InstallmentAmount,
		TotalLoan:         loan.TotalLoan,
		DueDate:           inst.DueDate,
		InstallmentType:   loan.InstallmentType,
	}
}

func (s *LoanService) readCachedRows(ctx context.Context, key string) []domain.DueInstallmentRow {
	if s.redis == nil {
		return nil
	}

	payload, err := s.redis.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logger.Warn("due-today cache read failed", "error", customError.WrapCacheError(err))
		}
		return nil
	}

	var rows []domain.DueInstallmentRow
	if err := json.Unmarshal(payload, &rows); err != nil {
		return nil
	}
	return rows
}

func (s *LoanService) writeCachedRows(ctx context.Context, key string, rows []domain.DueInstallmentRow) {
	if s.redis == nil {
		return
	}

	payload, err := json.Marshal(rows)
	if err != nil {
		return
	}
	if err := s.redis.Set(ctx, key, payload, s.cacheTTL).Err(); err != nil {
		s.logger.Warn("due-today cache write failed", "error", customError.WrapCacheError(err))
	}
}

// invalidateDueTodayCache purges every cached report date. Collections can
// be back-dated, so deleting only today's key would leave the entry for the
// collection's date serving a paid installment until the TTL expires.
func (s *LoanService) invalidateDueTodayCache(ctx context.Context) {
	if s.redis == nil {
		return
	}

	keys, err := s.redis.Keys(ctx, dueTodayCachePrefix+"*").Result()
	if err != nil {
		s.logger.Warn("due-today cache invalidation failed", "error", customError.WrapCacheError(err))
		return
	}
	if len(keys) == 0 {
		return
	}
	if err := s.redis.Del(ctx, keys...).Err(); err != nil {
		s.logger.Warn("due-today cache invalidation failed", "error", customError.WrapCacheError(err))
	}
}
