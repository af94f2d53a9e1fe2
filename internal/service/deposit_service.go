package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/somitihq/somiti-ledger/internal/config"
	"github.com/somitihq/somiti-ledger/internal/domain"
	"github.com/somitihq/somiti-ledger/internal/notify"
	"github.com/somitihq/somiti-ledger/internal/repository"
	"github.com/somitihq/somiti-ledger/pkg/dates"
	customError "github.com/somitihq/somiti-ledger/pkg/errors"
)

// DepositService covers both deposit products: DPS (recurring monthly
// deposits) and FDR (lump-sum fixed deposits). DPS installments step by
// calendar month from the enrollment start date, unlike loans, whose
// cadence is table-driven in fixed day counts.
type DepositService struct {
	dpsRepo    repository.DpsRepository
	fdrRepo    repository.FdrRepository
	memberRepo repository.MemberRepository
	notifier   notify.Notifier
	logger     *slog.Logger
	loc        *time.Location
}

func NewDepositService(
	dpsRepo repository.DpsRepository,
	fdrRepo repository.FdrRepository,
	memberRepo repository.MemberRepository,
	notifier notify.Notifier,
	cfg *config.Config,
	logger *slog.Logger,
) *DepositService {
	loc := time.UTC
	if cfg != nil {
		loc = cfg.GetTimezone()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &DepositService{
		dpsRepo:    dpsRepo,
		fdrRepo:    fdrRepo,
		memberRepo: memberRepo,
		notifier:   notifier,
		logger:     logger,
		loc:        loc,
	}
}

// --- DPS schemes ---

func (s *DepositService) CreateDpsScheme(ctx context.Context, request *domain.CreateDpsSchemeRequest) (*domain.DpsScheme, error) {
	status := request.Status
	if status == "" {
		status = domain.StatusActive
	}

	// No-profit schemes pay nothing on top of the deposits; any rate sent
	// with one is discarded. Profit schemes mature at the deposited base
	// plus the rate applied to it.
	rate := request.InterestRate
	if request.DpsType == domain.DpsTypeNoProfit {
		rate = decimal.Zero
	}
	base := request.MonthlyAmount.Mul(decimal.NewFromInt(int64(request.DurationMonths)))
	target := base
	if request.DpsType == domain.DpsTypeProfit && rate.IsPositive() {
		target = base.Add(base.Mul(rate).Div(decimal.NewFromInt(100)))
	}

	scheme := &domain.DpsScheme{
		ID:             uuid.New(),
		SchemeName:     request.SchemeName,
		DurationMonths: request.DurationMonths,
		MonthlyAmount:  request.MonthlyAmount,
		DpsType:        request.DpsType,
		InterestRate:   rate,
		TargetAmount:   target,
		Status:         status,
		CreatedAt:      time.Now(),
	}
	if scheme.SchemeName == "" {
		scheme.SchemeName = fmt.Sprintf("%d Months DPS", scheme.DurationMonths)
	}

	if err := s.dpsRepo.CreateScheme(ctx, scheme); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return scheme, nil
}

func (s *DepositService) ListDpsSchemes(ctx context.Context) ([]*domain.DpsScheme, error) {
	schemes, err := s.dpsRepo.ListSchemes(ctx)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return schemes, nil
}

func (s *DepositService) DeleteDpsScheme(ctx context.Context, id uuid.UUID) error {
	if err := s.dpsRepo.DeleteScheme(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return customError.WrapSchemeNotFound(id.String())
		}
		return customError.WrapDatabaseError(err)
	}
	return nil
}

// DpsManagementRows summarizes each scheme with its enrollment count.
func (s *DepositService) DpsManagementRows(ctx context.Context) ([]domain.DpsManagementRow, error) {
	schemes, err := s.dpsRepo.ListSchemes(ctx)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	rows := []domain.DpsManagementRow{}
	for _, scheme := range schemes {
		settings, err := s.dpsRepo.ListSettingsByScheme(ctx, scheme.ID)
		if err != nil {
			return nil, customError.WrapDatabaseError(err)
		}
		rows = append(rows, domain.DpsManagementRow{
			SchemeID:       scheme.ID,
			SchemeName:     scheme.SchemeName,
			StartDate:      scheme.CreatedAt,
			DurationMonths: scheme.DurationMonths,
			MonthlyAmount:  scheme.MonthlyAmount,
			TargetAmount:   scheme.TargetAmount,
			InterestRate:   scheme.InterestRate,
			TotalMembers:   len(settings),
			Status:         scheme.Status,
		})
	}
	return rows, nil
}

// --- DPS settings and collections ---

// EnrollDps opens a recurring-deposit account for a member, snapshotting
// the scheme terms at enrollment.
func (s *DepositService) EnrollDps(ctx context.Context, request *domain.CreateDpsSettingRequest) (*domain.DpsSetting, error) {
	if _, err := s.memberRepo.GetByMemberID(ctx, request.MemberID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapMemberNotFound(request.MemberID)
		}
		return nil, customError.WrapDatabaseError(err)
	}

	schemeID, err := uuid.Parse(request.SchemeID)
	if err != nil {
		return nil, customError.WrapValidation("invalid scheme id")
	}
	scheme, err := s.dpsRepo.GetScheme(ctx, schemeID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapSchemeNotFound(request.SchemeID)
		}
		return nil, customError.WrapDatabaseError(err)
	}

	date, err := dates.Parse(request.Date)
	if err != nil {
		return nil, customError.WrapValidation(err.Error())
	}
	startDate, err := dates.Parse(request.StartDate)
	if err != nil {
		return nil, customError.WrapValidation(err.Error())
	}

	status := request.Status
	if status == "" {
		status = domain.StatusActive
	}

	setting := &domain.DpsSetting{
		ID:             uuid.New(),
		Date:           date,
		StartDate:      startDate,
		MemberID:       request.MemberID,
		SchemeID:       scheme.ID,
		DurationMonths: scheme.DurationMonths,
		MonthlyAmount:  scheme.MonthlyAmount,
		InterestRate:   scheme.InterestRate,
		TargetAmount:   scheme.TargetAmount,
		Description:    request.Description,
		Status:         status,
		CreatedAt:      time.Now(),
	}

	if err := s.dpsRepo.CreateSetting(ctx, setting); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return setting, nil
}

// RecordDpsCollection appends one monthly deposit. The running balance is
// recomputed from history plus the new amount rather than trusted from the
// request.
func (s *DepositService) RecordDpsCollection(ctx context.Context, request *domain.RecordDpsCollectionRequest) (*domain.DpsSetting, error) {
	schemeID, err := uuid.Parse(request.SchemeID)
	if err != nil {
		return nil, customError.WrapValidation("invalid scheme id")
	}

	setting, err := s.dpsRepo.GetSettingByMemberAndScheme(ctx, request.MemberID, schemeID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapSettingNotFound(request.MemberID)
		}
		return nil, customError.WrapDatabaseError(err)
	}

	if request.CollectedAmount.LessThanOrEqual(decimal.Zero) {
		return nil, customError.WrapValidation("collected amount must be greater than zero")
	}

	date, err := dates.Parse(request.Date)
	if err != nil {
		return nil, customError.WrapValidation(err.Error())
	}

	balance := request.CollectedAmount
	for _, c := range setting.Collections {
		balance = balance.Add(c.CollectedAmount)
	}

	collection := &domain.DpsCollection{
		ID:              uuid.New(),
		SettingID:       setting.ID,
		Date:            date,
		CollectedAmount: request.CollectedAmount,
		Description:     request.Description,
		SMSSent:         request.SendSMS,
		Balance:         balance,
		CreatedAt:       time.Now(),
	}

	if err := s.dpsRepo.AddCollection(ctx, collection); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	setting.Collections = append(setting.Collections, *collection)

	if request.SendSMS && s.notifier != nil {
		if member, err := s.memberRepo.GetByMemberID(ctx, setting.MemberID); err == nil {
			message := fmt.Sprintf("Dear %s, your DPS deposit of %s has been received. Current balance: %s.",
				member.Name, request.CollectedAmount.StringFixed(2), balance.StringFixed(2))
			s.notifier.Dispatch(member.MobileNumber, message)
		}
	}

	return setting, nil
}

// DpsDueToday lists active settings whose monthly installment lands on
// asOf: some whole number of calendar months past the start date, within
// the scheme duration. Month stepping normalizes short months the way
// time.AddDate does.
func (s *DepositService) DpsDueToday(ctx context.Context, asOf dates.Date) ([]domain.DpsDueRow, error) {
	settings, err := s.dpsRepo.ListSettings(ctx, true)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	rows := []domain.DpsDueRow{}
	for _, setting := range settings {
		if !dpsInstallmentDue(setting, asOf) {
			continue
		}

		row := domain.DpsDueRow{
			MonthlyAmount: setting.MonthlyAmount,
			StartDate:     setting.StartDate,
		}
		if member, err := s.memberRepo.GetByMemberID(ctx, setting.MemberID); err == nil {
			row.MemberName = member.Name
			row.MobileNumber = member.MobileNumber
		}
		if scheme, err := s.dpsRepo.GetScheme(ctx, setting.SchemeID); err == nil {
			row.SchemeName = scheme.SchemeName
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func dpsInstallmentDue(setting *domain.DpsSetting, asOf dates.Date) bool {
	if asOf.Before(setting.StartDate) {
		return false
	}
	months := asOf.MonthsSince(setting.StartDate)
	if months < 0 || months >= setting.DurationMonths {
		return false
	}
	return setting.StartDate.AddMonths(months).Equal(asOf)
}

// DpsMemberReport aggregates a member's DPS accounts with their deposit
// histories.
func (s *DepositService) DpsMemberReport(ctx context.Context, memberID string) ([]domain.DpsMemberReport, error) {
	member, err := s.memberRepo.GetByMemberID(ctx, memberID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapMemberNotFound(memberID)
		}
		return nil, customError.WrapDatabaseError(err)
	}

	settings, err := s.dpsRepo.ListSettingsByMember(ctx, memberID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	reports := []domain.DpsMemberReport{}
	for _, setting := range settings {
		total := decimal.Zero
		for _, c := range setting.Collections {
			total = total.Add(c.CollectedAmount)
		}

		report := domain.DpsMemberReport{
			MemberID:          memberID,
			MemberName:        member.Name,
			MobileNumber:      member.MobileNumber,
			MonthlyAmount:     setting.MonthlyAmount,
			TotalInstallments: len(setting.Collections),
			TotalAmount:       total,
			Collections:       setting.Collections,
		}
		if scheme, err := s.dpsRepo.GetScheme(ctx, setting.SchemeID); err == nil {
			report.SchemeName = scheme.SchemeName
		}
		reports = append(reports, report)
	}
	return reports, nil
}

// DpsSchemeDetails pairs a scheme with its enrolled members.
func (s *DepositService) DpsSchemeDetails(ctx context.Context, schemeID uuid.UUID) (*domain.SchemeWithSettings, error) {
	scheme, err := s.dpsRepo.GetScheme(ctx, schemeID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapSchemeNotFound(schemeID.String())
		}
		return nil, customError.WrapDatabaseError(err)
	}

	settings, err := s.dpsRepo.ListSettingsByScheme(ctx, schemeID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	details := &domain.SchemeWithSettings{Scheme: scheme, Settings: []domain.SettingWithMember{}}
	for _, setting := range settings {
		entry := domain.SettingWithMember{Setting: setting}
		if member, err := s.memberRepo.GetByMemberID(ctx, setting.MemberID); err == nil {
			entry.Member = member
		}
		details.Settings = append(details.Settings, entry)
	}
	return details, nil
}

// --- FDR ---

func (s *DepositService) CreateFdrScheme(ctx context.Context, request *domain.CreateFdrSchemeRequest) (*domain.FdrScheme, error) {
	status := request.Status
	if status == "" {
		status = domain.StatusActive
	}

	startDate := dates.Today(s.loc)
	if request.StartDate != "" {
		var err error
		startDate, err = dates.Parse(request.StartDate)
		if err != nil {
			return nil, customError.WrapValidation(err.Error())
		}
	}

	scheme := &domain.FdrScheme{
		ID:             uuid.New(),
		SchemeName:     request.SchemeName,
		SchemeType:     request.SchemeType,
		DurationMonths: request.DurationMonths,
		InterestValue:  request.InterestValue,
		InterestType:   request.InterestType,
		StartDate:      startDate,
		Status:         status,
		CreatedAt:      time.Now(),
	}

	if err := s.fdrRepo.CreateScheme(ctx, scheme); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return scheme, nil
}

func (s *DepositService) ListFdrSchemes(ctx context.Context) ([]*domain.FdrScheme, error) {
	schemes, err := s.fdrRepo.ListSchemes(ctx)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return schemes, nil
}

// OpenFdr places a member's lump sum under a scheme, snapshotting the
// scheme terms.
func (s *DepositService) OpenFdr(ctx context.Context, request *domain.CreateFdrSettingRequest) (*domain.FdrSetting, error) {
	member, err := s.memberRepo.GetByMemberID(ctx, request.MemberID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapMemberNotFound(request.MemberID)
		}
		return nil, customError.WrapDatabaseError(err)
	}

	schemeID, err := uuid.Parse(request.SchemeID)
	if err != nil {
		return nil, customError.WrapValidation("invalid scheme id")
	}
	scheme, err := s.fdrRepo.GetScheme(ctx, schemeID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapSchemeNotFound(request.SchemeID)
		}
		return nil, customError.WrapDatabaseError(err)
	}

	if request.FdrAmount.LessThanOrEqual(decimal.Zero) {
		return nil, customError.WrapValidation("fdr amount must be greater than zero")
	}

	collectionDate, err := dates.Parse(request.CollectionDate)
	if err != nil {
		return nil, customError.WrapValidation(err.Error())
	}
	effectiveDate := collectionDate
	if request.EffectiveDate != "" {
		effectiveDate, err = dates.Parse(request.EffectiveDate)
		if err != nil {
			return nil, customError.WrapValidation(err.Error())
		}
	}

	status := request.Status
	if status == "" {
		status = domain.FdrStatusActive
	}

	setting := &domain.FdrSetting{
		ID:             uuid.New(),
		MemberID:       request.MemberID,
		SchemeID:       scheme.ID,
		CollectionDate: collectionDate,
		EffectiveDate:  effectiveDate,
		DurationMonths: scheme.DurationMonths,
		InterestValue:  scheme.InterestValue,
		InterestType:   scheme.InterestType,
		FdrAmount:      request.FdrAmount,
		Description:    request.Description,
		Status:         status,
		SendSMS:        request.SendSMS,
		CreatedAt:      time.Now(),
	}

	if err := s.fdrRepo.CreateSetting(ctx, setting); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	if request.SendSMS && s.notifier != nil {
		message := fmt.Sprintf("Dear %s, your fixed deposit of %s has been opened. Thank you for banking with us.",
			member.Name, request.FdrAmount.StringFixed(2))
		s.notifier.Dispatch(member.MobileNumber, message)
	}

	return setting, nil
}

// FdrRows flattens FDR settings with member and scheme info, optionally
// narrowed to a status.
func (s *DepositService) FdrRows(ctx context.Context, status string) ([]domain.FdrRow, error) {
	var (
		settings []*domain.FdrSetting
		err      error
	)
	if status != "" {
		settings, err = s.fdrRepo.ListSettingsByStatus(ctx, status)
	} else {
		settings, err = s.fdrRepo.ListSettings(ctx)
	}
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return s.fdrRowsFromSettings(ctx, settings), nil
}

// FdrRowsByMember lists one member's FDR accounts.
func (s *DepositService) FdrRowsByMember(ctx context.Context, memberID string) ([]domain.FdrRow, error) {
	settings, err := s.fdrRepo.ListSettingsByMember(ctx, memberID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return s.fdrRowsFromSettings(ctx, settings), nil
}

func (s *DepositService) fdrRowsFromSettings(ctx context.Context, settings []*domain.FdrSetting) []domain.FdrRow {
	rows := []domain.FdrRow{}
	for _, setting := range settings {
		row := domain.FdrRow{
			FdrID:          setting.ID,
			MemberID:       setting.MemberID,
			SchemeID:       setting.SchemeID,
			FdrAmount:      setting.FdrAmount,
			InterestValue:  setting.InterestValue,
			InterestType:   setting.InterestType,
			DurationMonths: setting.DurationMonths,
			EffectiveDate:  setting.EffectiveDate,
			CollectionDate: setting.CollectionDate,
			Status:         setting.Status,
			Description:    setting.Description,
		}
		if member, err := s.memberRepo.GetByMemberID(ctx, setting.MemberID); err == nil {
			row.MemberName = member.Name
			row.MobileNumber = member.MobileNumber
		}
		if scheme, err := s.fdrRepo.GetScheme(ctx, setting.SchemeID); err == nil {
			row.SchemeName = scheme.SchemeName
			row.SchemeType = scheme.SchemeType
		}
		rows = append(rows, row)
	}
	return rows
}

// WithdrawFdr deducts from a fixed deposit, flooring the remaining amount
// at zero. A fully drained deposit is marked withdrawn.
func (s *DepositService) WithdrawFdr(ctx context.Context, id uuid.UUID, request *domain.FdrWithdrawRequest) (*domain.FdrWithdrawResponse, error) {
	setting, err := s.fdrRepo.GetSetting(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapSettingNotFound(id.String())
		}
		return nil, customError.WrapDatabaseError(err)
	}

	if request.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, customError.WrapValidation("withdraw amount must be greater than zero")
	}

	remaining := setting.FdrAmount.Sub(request.Amount)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}

	if err := s.fdrRepo.UpdateAmount(ctx, id, remaining); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	if remaining.IsZero() {
		setting.FdrAmount = remaining
		setting.Status = domain.FdrStatusWithdrawn
		if err := s.fdrRepo.UpdateSetting(ctx, setting); err != nil {
			return nil, customError.WrapDatabaseError(err)
		}
	}

	return &domain.FdrWithdrawResponse{RemainingAmount: remaining}, nil
}

// UpdateFdr edits the mutable fields of an open deposit. Unset request
// fields keep their stored values.
func (s *DepositService) UpdateFdr(ctx context.Context, id uuid.UUID, request *domain.UpdateFdrRequest) (*domain.FdrSetting, error) {
	setting, err := s.fdrRepo.GetSetting(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapSettingNotFound(id.String())
		}
		return nil, customError.WrapDatabaseError(err)
	}

	if request.CollectionDate != "" {
		d, err := dates.Parse(request.CollectionDate)
		if err != nil {
			return nil, customError.WrapValidation("invalid collection_date")
		}
		setting.CollectionDate = d
	}
	if request.EffectiveDate != "" {
		d, err := dates.Parse(request.EffectiveDate)
		if err != nil {
			return nil, customError.WrapValidation("invalid effective_date")
		}
		setting.EffectiveDate = d
	}
	if request.FdrAmount.IsPositive() {
		setting.FdrAmount = request.FdrAmount
	}
	if request.Description != "" {
		setting.Description = request.Description
	}
	if request.Status != "" {
		setting.Status = request.Status
	}

	if err := s.fdrRepo.UpdateSetting(ctx, setting); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return setting, nil
}

// DeleteFdr removes an FDR account.
func (s *DepositService) DeleteFdr(ctx context.Context, id uuid.UUID) error {
	if err := s.fdrRepo.DeleteSetting(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return customError.WrapSettingNotFound(id.String())
		}
		return customError.WrapDatabaseError(err)
	}
	return nil
}

// FdrDueOnDate lists FDR accounts whose collection date is the given day.
func (s *DepositService) FdrDueOnDate(ctx context.Context, date dates.Date) ([]domain.FdrRow, error) {
	settings, err := s.fdrRepo.ListSettingsByCollectionDate(ctx, date)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return s.fdrRowsFromSettings(ctx, settings), nil
}
