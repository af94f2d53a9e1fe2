package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/somitihq/somiti-ledger/internal/domain"
	"github.com/somitihq/somiti-ledger/pkg/dates"
)

type MockMemberRepository struct {
	mock.Mock
}

func (m *MockMemberRepository) Create(ctx context.Context, member *domain.Member) error {
	args := m.Called(ctx, member)
	return args.Error(0)
}

func (m *MockMemberRepository) GetByMemberID(ctx context.Context, memberID string) (*domain.Member, error) {
	args := m.Called(ctx, memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Member), args.Error(1)
}

func (m *MockMemberRepository) GetByCredentials(ctx context.Context, mobileNumber, password string) (*domain.Member, error) {
	args := m.Called(ctx, mobileNumber, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Member), args.Error(1)
}

func (m *MockMemberRepository) GetLast(ctx context.Context) (*domain.Member, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Member), args.Error(1)
}

func (m *MockMemberRepository) Update(ctx context.Context, member *domain.Member) error {
	args := m.Called(ctx, member)
	return args.Error(0)
}

func (m *MockMemberRepository) ListByRole(ctx context.Context, role string) ([]*domain.Member, error) {
	args := m.Called(ctx, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Member), args.Error(1)
}

func (m *MockMemberRepository) List(ctx context.Context) ([]*domain.Member, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Member), args.Error(1)
}

func (m *MockMemberRepository) SearchAgents(ctx context.Context, search string) ([]*domain.Member, error) {
	args := m.Called(ctx, search)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Member), args.Error(1)
}

func (m *MockMemberRepository) UpdateAccessList(ctx context.Context, memberID string, accessList []string) (*domain.Member, error) {
	args := m.Called(ctx, memberID, accessList)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Member), args.Error(1)
}

func (m *MockMemberRepository) DeleteAgent(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockLoanRepository struct {
	mock.Mock
}

func (m *MockLoanRepository) Create(ctx context.Context, loan *domain.Loan) error {
	args := m.Called(ctx, loan)
	return args.Error(0)
}

func (m *MockLoanRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Loan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}

func (m *MockLoanRepository) List(ctx context.Context) ([]*domain.Loan, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Loan), args.Error(1)
}

func (m *MockLoanRepository) ListByMemberID(ctx context.Context, memberID string) ([]*domain.Loan, error) {
	args := m.Called(ctx, memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Loan), args.Error(1)
}

func (m *MockLoanRepository) UpdateBalance(ctx context.Context, id uuid.UUID, totalLoan decimal.Decimal) error {
	args := m.Called(ctx, id, totalLoan)
	return args.Error(0)
}

func (m *MockLoanRepository) Update(ctx context.Context, loan *domain.Loan) error {
	args := m.Called(ctx, loan)
	return args.Error(0)
}

func (m *MockLoanRepository) AddCollection(ctx context.Context, collection *domain.LoanCollection) error {
	args := m.Called(ctx, collection)
	return args.Error(0)
}

func (m *MockLoanRepository) DeleteByMemberID(ctx context.Context, memberID string) error {
	args := m.Called(ctx, memberID)
	return args.Error(0)
}

func (m *MockLoanRepository) ListCollectionsInRange(ctx context.Context, start, end dates.Date) ([]domain.CollectionEntry, error) {
	args := m.Called(ctx, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CollectionEntry), args.Error(1)
}

func (m *MockLoanRepository) SumDisbursedInRange(ctx context.Context, start, end dates.Date) (decimal.Decimal, error) {
	args := m.Called(ctx, start, end)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

type MockDpsRepository struct {
	mock.Mock
}

func (m *MockDpsRepository) CreateScheme(ctx context.Context, scheme *domain.DpsScheme) error {
	args := m.Called(ctx, scheme)
	return args.Error(0)
}

func (m *MockDpsRepository) GetScheme(ctx context.Context, id uuid.UUID) (*domain.DpsScheme, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DpsScheme), args.Error(1)
}

func (m *MockDpsRepository) ListSchemes(ctx context.Context) ([]*domain.DpsScheme, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.DpsScheme), args.Error(1)
}

func (m *MockDpsRepository) DeleteScheme(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockDpsRepository) CreateSetting(ctx context.Context, setting *domain.DpsSetting) error {
	args := m.Called(ctx, setting)
	return args.Error(0)
}

func (m *MockDpsRepository) GetSettingByMemberAndScheme(ctx context.Context, memberID string, schemeID uuid.UUID) (*domain.DpsSetting, error) {
	args := m.Called(ctx, memberID, schemeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DpsSetting), args.Error(1)
}

func (m *MockDpsRepository) ListSettings(ctx context.Context, onlyActive bool) ([]*domain.DpsSetting, error) {
	args := m.Called(ctx, onlyActive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.DpsSetting), args.Error(1)
}

func (m *MockDpsRepository) ListSettingsByMember(ctx context.Context, memberID string) ([]*domain.DpsSetting, error) {
	args := m.Called(ctx, memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.DpsSetting), args.Error(1)
}

func (m *MockDpsRepository) ListSettingsByScheme(ctx context.Context, schemeID uuid.UUID) ([]*domain.DpsSetting, error) {
	args := m.Called(ctx, schemeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.DpsSetting), args.Error(1)
}

func (m *MockDpsRepository) AddCollection(ctx context.Context, collection *domain.DpsCollection) error {
	args := m.Called(ctx, collection)
	return args.Error(0)
}

func (m *MockDpsRepository) ListCollectionsInRange(ctx context.Context, start, end dates.Date) ([]domain.CollectionEntry, error) {
	args := m.Called(ctx, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CollectionEntry), args.Error(1)
}

type MockFdrRepository struct {
	mock.Mock
}

func (m *MockFdrRepository) CreateScheme(ctx context.Context, scheme *domain.FdrScheme) error {
	args := m.Called(ctx, scheme)
	return args.Error(0)
}

func (m *MockFdrRepository) GetScheme(ctx context.Context, id uuid.UUID) (*domain.FdrScheme, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FdrScheme), args.Error(1)
}

func (m *MockFdrRepository) ListSchemes(ctx context.Context) ([]*domain.FdrScheme, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.FdrScheme), args.Error(1)
}

func (m *MockFdrRepository) CreateSetting(ctx context.Context, setting *domain.FdrSetting) error {
	args := m.Called(ctx, setting)
	return args.Error(0)
}

func (m *MockFdrRepository) GetSetting(ctx context.Context, id uuid.UUID) (*domain.FdrSetting, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FdrSetting), args.Error(1)
}

func (m *MockFdrRepository) ListSettings(ctx context.Context) ([]*domain.FdrSetting, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.FdrSetting), args.Error(1)
}

func (m *MockFdrRepository) ListSettingsByMember(ctx context.Context, memberID string) ([]*domain.FdrSetting, error) {
	args := m.Called(ctx, memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.FdrSetting), args.Error(1)
}

func (m *MockFdrRepository) ListSettingsByStatus(ctx context.Context, status string) ([]*domain.FdrSetting, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.FdrSetting), args.Error(1)
}

func (m *MockFdrRepository) ListSettingsByCollectionDate(ctx context.Context, date dates.Date) ([]*domain.FdrSetting, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.FdrSetting), args.Error(1)
}

func (m *MockFdrRepository) ListSettingsInRange(ctx context.Context, start, end dates.Date) ([]*domain.FdrSetting, error) {
	args := m.Called(ctx, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.FdrSetting), args.Error(1)
}

func (m *MockFdrRepository) UpdateSetting(ctx context.Context, setting *domain.FdrSetting) error {
	args := m.Called(ctx, setting)
	return args.Error(0)
}

func (m *MockFdrRepository) UpdateAmount(ctx context.Context, id uuid.UUID, amount decimal.Decimal) error {
	args := m.Called(ctx, id, amount)
	return args.Error(0)
}

func (m *MockFdrRepository) DeleteSetting(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockLedgerRepository struct {
	mock.Mock
}

func (m *MockLedgerRepository) CreateIncomeExpenseCategory(ctx context.Context, category *domain.IncomeExpenseCategory) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockLedgerRepository) GetIncomeExpenseCategory(ctx context.Context, id uuid.UUID) (*domain.IncomeExpenseCategory, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.IncomeExpenseCategory), args.Error(1)
}

func (m *MockLedgerRepository) GetIncomeExpenseCategoryByName(ctx context.Context, name string) (*domain.IncomeExpenseCategory, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.IncomeExpenseCategory), args.Error(1)
}

func (m *MockLedgerRepository) ListIncomeExpenseCategories(ctx context.Context) ([]*domain.IncomeExpenseCategory, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.IncomeExpenseCategory), args.Error(1)
}

func (m *MockLedgerRepository) AddIncomeExpenseTransaction(ctx context.Context, categoryID uuid.UUID, txn *domain.CategoryTransaction) (*domain.IncomeExpenseCategory, error) {
	args := m.Called(ctx, categoryID, txn)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.IncomeExpenseCategory), args.Error(1)
}

func (m *MockLedgerRepository) CreateExpenseCategory(ctx context.Context, category *domain.ExpenseCategory) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockLedgerRepository) GetExpenseCategory(ctx context.Context, id uuid.UUID) (*domain.ExpenseCategory, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExpenseCategory), args.Error(1)
}

func (m *MockLedgerRepository) ListExpenseCategories(ctx context.Context) ([]*domain.ExpenseCategory, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ExpenseCategory), args.Error(1)
}

func (m *MockLedgerRepository) AddExpense(ctx context.Context, categoryID uuid.UUID, txn *domain.CategoryTransaction) (*domain.ExpenseCategory, error) {
	args := m.Called(ctx, categoryID, txn)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExpenseCategory), args.Error(1)
}

func (m *MockLedgerRepository) SumTransactionsInRange(ctx context.Context, txnType string, start, end time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, txnType, start, end)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockLedgerRepository) UpsertInitialCash(ctx context.Context, cash *domain.InitialCash) (*domain.InitialCash, error) {
	args := m.Called(ctx, cash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InitialCash), args.Error(1)
}

func (m *MockLedgerRepository) GetInitialCash(ctx context.Context) (*domain.InitialCash, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InitialCash), args.Error(1)
}

func (m *MockLedgerRepository) SaveOrgProfile(ctx context.Context, profile *domain.OrgProfile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *MockLedgerRepository) GetLatestOrgProfile(ctx context.Context) (*domain.OrgProfile, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OrgProfile), args.Error(1)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Dispatch(phone, message string) {
	m.Called(phone, message)
}
