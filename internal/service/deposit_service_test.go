package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/somitihq/somiti-ledger/internal/domain"
	"github.com/somitihq/somiti-ledger/internal/mocks"
	"github.com/somitihq/somiti-ledger/pkg/dates"
	customError "github.com/somitihq/somiti-ledger/pkg/errors"
)

func newDepositService(dpsRepo *mocks.MockDpsRepository, fdrRepo *mocks.MockFdrRepository, memberRepo *mocks.MockMemberRepository) *DepositService {
	return NewDepositService(dpsRepo, fdrRepo, memberRepo, nil, nil, nil)
}

func TestCreateDpsScheme_DerivesTarget(t *testing.T) {
	dpsRepo := new(mocks.MockDpsRepository)
	svc := newDepositService(dpsRepo, nil, nil)

	dpsRepo.On("CreateScheme", mock.Anything, mock.AnythingOfType("*domain.DpsScheme")).Return(nil)

	scheme, err := svc.CreateDpsScheme(context.Background(), &domain.CreateDpsSchemeRequest{
		DurationMonths: 12,
		MonthlyAmount:  decimal.NewFromInt(500),
		DpsType:        domain.DpsTypeNoProfit,
	})

	require.NoError(t, err)
	assert.True(t, scheme.TargetAmount.Equal(decimal.NewFromInt(6000)))
	assert.Equal(t, "12 Months DPS", scheme.SchemeName)
	assert.Equal(t, domain.StatusActive, scheme.Status)
}

func TestRecordDpsCollection_RunningBalance(t *testing.T) {
	dpsRepo := new(mocks.MockDpsRepository)
	memberRepo := new(mocks.MockMemberRepository)
	svc := newDepositService(dpsRepo, nil, memberRepo)

	schemeID := uuid.New()
	setting := &domain.DpsSetting{
		ID:            uuid.New(),
		MemberID:      "M-001",
		SchemeID:      schemeID,
		MonthlyAmount: decimal.NewFromInt(500),
		Collections: []domain.DpsCollection{
			{CollectedAmount: decimal.NewFromInt(500)},
			{CollectedAmount: decimal.NewFromInt(500)},
		},
	}

	dpsRepo.On("GetSettingByMemberAndScheme", mock.Anything, "M-001", schemeID).Return(setting, nil)
	dpsRepo.On("AddCollection", mock.Anything, mock.MatchedBy(func(c *domain.DpsCollection) bool {
		return c.Balance.Equal(decimal.NewFromInt(1500))
	})).Return(nil)

	_, err := svc.RecordDpsCollection(context.Background(), &domain.RecordDpsCollectionRequest{
		Date:            "2024-03-01",
		MemberID:        "M-001",
		SchemeID:        schemeID.String(),
		CollectedAmount: decimal.NewFromInt(500),
	})

	require.NoError(t, err)
	dpsRepo.AssertExpectations(t)
}

func TestDpsDueToday_CalendarMonthStepping(t *testing.T) {
	dpsRepo := new(mocks.MockDpsRepository)
	memberRepo := new(mocks.MockMemberRepository)
	svc := newDepositService(dpsRepo, nil, memberRepo)

	start := dates.New(2024, time.January, 15)
	settings := []*domain.DpsSetting{
		{
			ID:             uuid.New(),
			MemberID:       "M-001",
			SchemeID:       uuid.New(),
			StartDate:      start,
			DurationMonths: 12,
			MonthlyAmount:  decimal.NewFromInt(500),
			Status:         domain.StatusActive,
		},
	}

	dpsRepo.On("ListSettings", mock.Anything, true).Return(settings, nil)
	memberRepo.On("GetByMemberID", mock.Anything, "M-001").Return(&domain.Member{Name: "Rahim", MobileNumber: "017"}, nil)
	dpsRepo.On("GetScheme", mock.Anything, mock.Anything).Return(&domain.DpsScheme{SchemeName: "12 Months DPS"}, nil)

	// Two months in, on the anniversary day.
	rows, err := svc.DpsDueToday(context.Background(), dates.New(2024, time.March, 15))
	require.NoError(t, err)
	require.Len(t, rows, 1)

	// Off the anniversary day.
	rows, err = svc.DpsDueToday(context.Background(), dates.New(2024, time.March, 16))
	require.NoError(t, err)
	assert.Empty(t, rows)

	// Past the scheme duration.
	rows, err = svc.DpsDueToday(context.Background(), dates.New(2025, time.February, 15))
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestWithdrawFdr_FloorsAtZeroAndMarksWithdrawn(t *testing.T) {
	fdrRepo := new(mocks.MockFdrRepository)
	svc := newDepositService(nil, fdrRepo, nil)

	id := uuid.New()
	setting := &domain.FdrSetting{
		ID:        id,
		MemberID:  "M-001",
		FdrAmount: decimal.NewFromInt(5000),
		Status:    domain.FdrStatusActive,
	}

	fdrRepo.On("GetSetting", mock.Anything, id).Return(setting, nil)
	fdrRepo.On("UpdateAmount", mock.Anything, id, mock.MatchedBy(func(d decimal.Decimal) bool {
		return d.IsZero()
	})).Return(nil)
	fdrRepo.On("UpdateSetting", mock.Anything, mock.MatchedBy(func(s *domain.FdrSetting) bool {
		return s.Status == domain.FdrStatusWithdrawn
	})).Return(nil)

	resp, err := svc.WithdrawFdr(context.Background(), id, &domain.FdrWithdrawRequest{
		Amount: decimal.NewFromInt(9000),
	})

	require.NoError(t, err)
	assert.True(t, resp.RemainingAmount.IsZero())
	fdrRepo.AssertExpectations(t)
}

func TestWithdrawFdr_PartialKeepsActive(t *testing.T) {
	fdrRepo := new(mocks.MockFdrRepository)
	svc := newDepositService(nil, fdrRepo, nil)

	id := uuid.New()
	setting := &domain.FdrSetting{
		ID:        id,
		FdrAmount: decimal.NewFromInt(5000),
		Status:    domain.FdrStatusActive,
	}

	fdrRepo.On("GetSetting", mock.Anything, id).Return(setting, nil)
	fdrRepo.On("UpdateAmount", mock.Anything, id, mock.MatchedBy(func(d decimal.Decimal) bool {
		return d.Equal(decimal.NewFromInt(3000))
	})).Return(nil)

	resp, err := svc.WithdrawFdr(context.Background(), id, &domain.FdrWithdrawRequest{
		Amount: decimal.NewFromInt(2000),
	})

	require.NoError(t, err)
	assert.True(t, resp.RemainingAmount.Equal(decimal.NewFromInt(3000)))
	fdrRepo.AssertNotCalled(t, "UpdateSetting", mock.Anything, mock.Anything)
}

func TestWithdrawFdr_NotFound(t *testing.T) {
	fdrRepo := new(mocks.MockFdrRepository)
	svc := newDepositService(nil, fdrRepo, nil)

	id := uuid.New()
	fdrRepo.On("GetSetting", mock.Anything, id).Return(nil, sql.ErrNoRows)

	_, err := svc.WithdrawFdr(context.Background(), id, &domain.FdrWithdrawRequest{
		Amount: decimal.NewFromInt(100),
	})

	require.Error(t, err)
	assert.True(t, customError.IsNotFound(err))
}

func TestEnrollDps_SnapshotsSchemeTerms(t *testing.T) {
	dpsRepo := new(mocks.MockDpsRepository)
	memberRepo := new(mocks.MockMemberRepository)
	svc := newDepositService(dpsRepo, nil, memberRepo)

	schemeID := uuid.New()
	scheme := &domain.DpsScheme{
		ID:             schemeID,
		SchemeName:     "24 Months DPS",
		DurationMonths: 24,
		MonthlyAmount:  decimal.NewFromInt(1000),
		InterestRate:   decimal.NewFromInt(6),
		TargetAmount:   decimal.NewFromInt(24000),
	}

	memberRepo.On("GetByMemberID", mock.Anything, "M-001").Return(&domain.Member{MemberID: "M-001"}, nil)
	dpsRepo.On("GetScheme", mock.Anything, schemeID).Return(scheme, nil)
	dpsRepo.On("CreateSetting", mock.Anything, mock.MatchedBy(func(s *domain.DpsSetting) bool {
		return s.DurationMonths == 24 && s.MonthlyAmount.Equal(decimal.NewFromInt(1000))
	})).Return(nil)

	setting, err := svc.EnrollDps(context.Background(), &domain.CreateDpsSettingRequest{
		Date:      "2024-01-10",
		StartDate: "2024-02-01",
		MemberID:  "M-001",
		SchemeID:  schemeID.String(),
	})

	require.NoError(t, err)
	assert.True(t, setting.TargetAmount.Equal(decimal.NewFromInt(24000)))
	dpsRepo.AssertExpectations(t)
}

func TestUpdateFdr_AppliesOnlySetFields(t *testing.T) {
	fdrRepo := new(mocks.MockFdrRepository)
	svc := newDepositService(nil, fdrRepo, nil)

	id := uuid.New()
	setting := &domain.FdrSetting{
		ID:          id,
		MemberID:    "M-001",
		FdrAmount:   decimal.NewFromInt(5000),
		Description: "original",
		Status:      domain.FdrStatusActive,
	}

	fdrRepo.On("GetSetting", mock.Anything, id).Return(setting, nil)
	fdrRepo.On("UpdateSetting", mock.Anything, mock.MatchedBy(func(s *domain.FdrSetting) bool {
		return s.FdrAmount.Equal(decimal.NewFromInt(7000)) &&
			s.Description == "original" &&
			s.Status == domain.FdrStatusActive
	})).Return(nil)

	updated, err := svc.UpdateFdr(context.Background(), id, &domain.UpdateFdrRequest{
		FdrAmount: decimal.NewFromInt(7000),
	})

	require.NoError(t, err)
	assert.True(t, updated.FdrAmount.Equal(decimal.NewFromInt(7000)))
	fdrRepo.AssertExpectations(t)
}

func TestUpdateFdr_RejectsBadDate(t *testing.T) {
	fdrRepo := new(mocks.MockFdrRepository)
	svc := newDepositService(nil, fdrRepo, nil)

	id := uuid.New()
	fdrRepo.On("GetSetting", mock.Anything, id).Return(&domain.FdrSetting{ID: id}, nil)

	_, err := svc.UpdateFdr(context.Background(), id, &domain.UpdateFdrRequest{
		CollectionDate: "15-01-2024",
	})

	require.Error(t, err)
	var bizErr *customError.BusinessError
	require.ErrorAs(t, err, &bizErr)
	assert.Equal(t, customError.ErrCodeValidation, bizErr.Code)
	fdrRepo.AssertNotCalled(t, "UpdateSetting")
}

func TestCreateDpsScheme_ProfitTargetIncludesInterest(t *testing.T) {
	dpsRepo := new(mocks.MockDpsRepository)
	svc := newDepositService(dpsRepo, nil, nil)

	dpsRepo.On("CreateScheme", mock.Anything, mock.AnythingOfType("*domain.DpsScheme")).Return(nil)

	scheme, err := svc.CreateDpsScheme(context.Background(), &domain.CreateDpsSchemeRequest{
		DurationMonths: 12,
		MonthlyAmount:  decimal.NewFromInt(1000),
		DpsType:        domain.DpsTypeProfit,
		InterestRate:   decimal.NewFromInt(10),
	})

	require.NoError(t, err)
	// 12000 deposited plus 10% on maturity.
	assert.True(t, scheme.TargetAmount.Equal(decimal.NewFromInt(13200)),
		"target = %s", scheme.TargetAmount)
}

func TestCreateDpsScheme_NoProfitDiscardsRate(t *testing.T) {
	dpsRepo := new(mocks.MockDpsRepository)
	svc := newDepositService(dpsRepo, nil, nil)

	dpsRepo.On("CreateScheme", mock.Anything, mock.AnythingOfType("*domain.DpsScheme")).Return(nil)

	scheme, err := svc.CreateDpsScheme(context.Background(), &domain.CreateDpsSchemeRequest{
		DurationMonths: 12,
		MonthlyAmount:  decimal.NewFromInt(1000),
		DpsType:        domain.DpsTypeNoProfit,
		InterestRate:   decimal.NewFromInt(10),
	})

	require.NoError(t, err)
	assert.True(t, scheme.TargetAmount.Equal(decimal.NewFromInt(12000)))
	assert.True(t, scheme.InterestRate.IsZero())
}
