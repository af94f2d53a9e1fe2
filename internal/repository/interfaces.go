package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/somitihq/somiti-ledger/internal/domain"
	"github.com/somitihq/somiti-ledger/pkg/dates"
)

// MemberRepository defines the interface for member and agent persistence
type MemberRepository interface {
	// Create creates a new member or agent
	Create(ctx context.Context, member *domain.Member) error

	// GetByMemberID retrieves a member by its ledger code
	GetByMemberID(ctx context.Context, memberID string) (*domain.Member, error)

	// GetByCredentials retrieves a member by mobile number and password
	GetByCredentials(ctx context.Context, mobileNumber, password string) (*domain.Member, error)

	// GetLast retrieves the most recently created member
	GetLast(ctx context.Context) (*domain.Member, error)

	// Update updates a member
	Update(ctx context.Context, member *domain.Member) error

	// ListByRole lists members with the given role, newest first
	ListByRole(ctx context.Context, role string) ([]*domain.Member, error)

	// List lists every member and agent
	List(ctx context.Context) ([]*domain.Member, error)

	// SearchAgents lists agents, optionally filtered by member ID or
	// mobile number
	SearchAgents(ctx context.Context, search string) ([]*domain.Member, error)

	// UpdateAccessList replaces an agent's access list
	UpdateAccessList(ctx context.Context, memberID string, accessList []string) (*domain.Member, error)

	// DeleteAgent removes an agent by row ID
	DeleteAgent(ctx context.Context, id uuid.UUID) error
}

// LoanRepository defines the interface for loan data operations
type LoanRepository interface {
	// Create creates a new loan
	Create(ctx context.Context, loan *domain.Loan) error

	// GetByID retrieves a loan with its collections
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Loan, error)

	// List retrieves all loans with their collections, newest first
	List(ctx context.Context) ([]*domain.Loan, error)

	// ListByMemberID retrieves a member's loans with collections
	ListByMemberID(ctx context.Context, memberID string) ([]*domain.Loan, error)

	// UpdateBalance sets the outstanding balance of a loan
	UpdateBalance(ctx context.Context, id uuid.UUID, totalLoan decimal.Decimal) error

	// Update updates mutable loan fields
	Update(ctx context.Context, loan *domain.Loan) error

	// AddCollection appends a collection to a loan
	AddCollection(ctx context.Context, collection *domain.LoanCollection) error

	// DeleteByMemberID closes out (removes) all loans of a member
	DeleteByMemberID(ctx context.Context, memberID string) error

	// ListCollectionsInRange returns collection ledger entries joined with
	// member info for the date range
	ListCollectionsInRange(ctx context.Context, start, end dates.Date) ([]domain.CollectionEntry, error)

	// SumDisbursedInRange totals initial loan amounts issued in the range
	SumDisbursedInRange(ctx context.Context, start, end dates.Date) (decimal.Decimal, error)
}

// DpsRepository defines the interface for recurring-deposit persistence
type DpsRepository interface {
	CreateScheme(ctx context.Context, scheme *domain.DpsScheme) error
	GetScheme(ctx context.Context, id uuid.UUID) (*domain.DpsScheme, error)
	ListSchemes(ctx context.Context) ([]*domain.DpsScheme, error)
	DeleteScheme(ctx context.Context, id uuid.UUID) error

	CreateSetting(ctx context.Context, setting *domain.DpsSetting) error
	GetSettingByMemberAndScheme(ctx context.Context, memberID string, schemeID uuid.UUID) (*domain.DpsSetting, error)
	ListSettings(ctx context.Context, onlyActive bool) ([]*domain.DpsSetting, error)
	ListSettingsByMember(ctx context.Context, memberID string) ([]*domain.DpsSetting, error)
	ListSettingsByScheme(ctx context.Context, schemeID uuid.UUID) ([]*domain.DpsSetting, error)

	// AddCollection appends a monthly deposit to a setting
	AddCollection(ctx context.Context, collection *domain.DpsCollection) error

	// ListCollectionsInRange returns deposit ledger entries joined with
	// member info for the date range
	ListCollectionsInRange(ctx context.Context, start, end dates.Date) ([]domain.CollectionEntry, error)
}

// FdrRepository defines the interface for fixed-deposit persistence
type FdrRepository interface {
	CreateScheme(ctx context.Context, scheme *domain.FdrScheme) error
	GetScheme(ctx context.Context, id uuid.UUID) (*domain.FdrScheme, error)
	ListSchemes(ctx context.Context) ([]*domain.FdrScheme, error)

	CreateSetting(ctx context.Context, setting *domain.FdrSetting) error
	GetSetting(ctx context.Context, id uuid.UUID) (*domain.FdrSetting, error)
	ListSettings(ctx context.Context) ([]*domain.FdrSetting, error)
	ListSettingsByMember(ctx context.Context, memberID string) ([]*domain.FdrSetting, error)
	ListSettingsByStatus(ctx context.Context, status string) ([]*domain.FdrSetting, error)
	ListSettingsByCollectionDate(ctx context.Context, date dates.Date) ([]*domain.FdrSetting, error)
	ListSettingsInRange(ctx context.Context, start, end dates.Date) ([]*domain.FdrSetting, error)
	UpdateSetting(ctx context.Context, setting *domain.FdrSetting) error
	UpdateAmount(ctx context.Context, id uuid.UUID, amount decimal.Decimal) error
	DeleteSetting(ctx context.Context, id uuid.UUID) error
}

// LedgerRepository defines the interface for the expense/income ledgers,
// the opening cash entry, and the organization profile
type LedgerRepository interface {
	CreateIncomeExpenseCategory(ctx context.Context, category *domain.IncomeExpenseCategory) error
	GetIncomeExpenseCategory(ctx context.Context, id uuid.UUID) (*domain.IncomeExpenseCategory, error)
	GetIncomeExpenseCategoryByName(ctx context.Context, name string) (*domain.IncomeExpenseCategory, error)
	ListIncomeExpenseCategories(ctx context.Context) ([]*domain.IncomeExpenseCategory, error)

	// AddIncomeExpenseTransaction appends a transaction and bumps the
	// matching running total in one database transaction
	AddIncomeExpenseTransaction(ctx context.Context, categoryID uuid.UUID, txn *domain.CategoryTransaction) (*domain.IncomeExpenseCategory, error)

	CreateExpenseCategory(ctx context.Context, category *domain.ExpenseCategory) error
	GetExpenseCategory(ctx context.Context, id uuid.UUID) (*domain.ExpenseCategory, error)
	ListExpenseCategories(ctx context.Context) ([]*domain.ExpenseCategory, error)
	AddExpense(ctx context.Context, categoryID uuid.UUID, txn *domain.CategoryTransaction) (*domain.ExpenseCategory, error)

	// SumTransactionsInRange totals category transactions of one type
	SumTransactionsInRange(ctx context.Context, txnType string, start, end time.Time) (decimal.Decimal, error)

	// UpsertInitialCash creates or replaces the singleton opening-cash row
	UpsertInitialCash(ctx context.Context, cash *domain.InitialCash) (*domain.InitialCash, error)
	GetInitialCash(ctx context.Context) (*domain.InitialCash, error)

	SaveOrgProfile(ctx context.Context, profile *domain.OrgProfile) error
	GetLatestOrgProfile(ctx context.Context) (*domain.OrgProfile, error)
}
