package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/somitihq/somiti-ledger/internal/domain"
	"github.com/somitihq/somiti-ledger/internal/repository"
	customError "github.com/somitihq/somiti-ledger/pkg/errors"
)

// LedgerService covers the side books: income/expense categories, the
// expense-only ledger, the opening cash entry, and the organization
// profile.
type LedgerService struct {
	ledgerRepo repository.LedgerRepository
}

func NewLedgerService(ledgerRepo repository.LedgerRepository) *LedgerService {
	return &LedgerService{ledgerRepo: ledgerRepo}
}

// CreateIncomeExpenseCategory opens a new bucket, or returns the existing
// one when the name is already taken.
func (s *LedgerService) CreateIncomeExpenseCategory(ctx context.Context, request *domain.CreateCategoryRequest) (*domain.IncomeExpenseCategory, error) {
	existing, err := s.ledgerRepo.GetIncomeExpenseCategoryByName(ctx, request.Name)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, customError.WrapDatabaseError(err)
	}

	category := &domain.IncomeExpenseCategory{
		ID:        uuid.New(),
		Name:      request.Name,
		CreatedAt: time.Now(),
	}
	if err := s.ledgerRepo.CreateIncomeExpenseCategory(ctx, category); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return category, nil
}

func (s *LedgerService) ListIncomeExpenseCategories(ctx context.Context) ([]*domain.IncomeExpenseCategory, error) {
	categories, err := s.ledgerRepo.ListIncomeExpenseCategories(ctx)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return categories, nil
}

// AddIncomeExpenseTransaction appends a deposit or expense entry to a
// category; the repository bumps the matching running total atomically.
func (s *LedgerService) AddIncomeExpenseTransaction(ctx context.Context, categoryID uuid.UUID, request *domain.AddTransactionRequest) (*domain.IncomeExpenseCategory, error) {
	if _, err := s.ledgerRepo.GetIncomeExpenseCategory(ctx, categoryID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapCategoryNotFound(categoryID.String())
		}
		return nil, customError.WrapDatabaseError(err)
	}

	txn := &domain.CategoryTransaction{
		ID:         uuid.New(),
		CategoryID: categoryID,
		Type:       request.Type,
		Amount:     request.Amount,
		Date:       time.Now(),
		Note:       request.Note,
	}

	category, err := s.ledgerRepo.AddIncomeExpenseTransaction(ctx, categoryID, txn)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return category, nil
}

func (s *LedgerService) CreateExpenseCategory(ctx context.Context, name string) (*domain.ExpenseCategory, error) {
	category := &domain.ExpenseCategory{
		ID:           uuid.New(),
		CategoryName: name,
		CreatedAt:    time.Now(),
	}
	if err := s.ledgerRepo.CreateExpenseCategory(ctx, category); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return category, nil
}

func (s *LedgerService) ListExpenseCategories(ctx context.Context) ([]*domain.ExpenseCategory, error) {
	categories, err := s.ledgerRepo.ListExpenseCategories(ctx)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return categories, nil
}

func (s *LedgerService) AddExpense(ctx context.Context, categoryID uuid.UUID, request *domain.AddExpenseRequest) (*domain.ExpenseCategory, error) {
	if _, err := s.ledgerRepo.GetExpenseCategory(ctx, categoryID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapCategoryNotFound(categoryID.String())
		}
		return nil, customError.WrapDatabaseError(err)
	}

	txn := &domain.CategoryTransaction{
		ID:         uuid.New(),
		CategoryID: categoryID,
		Type:       domain.TransactionExpense,
		Amount:     request.Amount,
		Date:       time.Now(),
		Note:       request.Note,
	}

	category, err := s.ledgerRepo.AddExpense(ctx, categoryID, txn)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return category, nil
}

// SetInitialCash creates or replaces the opening-cash entry. The books
// carry exactly one.
func (s *LedgerService) SetInitialCash(ctx context.Context, request *domain.SetInitialCashRequest) (*domain.InitialCash, error) {
	cash := &domain.InitialCash{
		ID:          uuid.New(),
		Date:        time.Now(),
		Amount:      request.Amount,
		Description: request.Description,
	}

	saved, err := s.ledgerRepo.UpsertInitialCash(ctx, cash)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return saved, nil
}

func (s *LedgerService) GetInitialCash(ctx context.Context) (*domain.InitialCash, error) {
	cash, err := s.ledgerRepo.GetInitialCash(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, customError.WrapDatabaseError(err)
	}
	return cash, nil
}

func (s *LedgerService) SaveOrgProfile(ctx context.Context, request *domain.SaveOrgProfileRequest) (*domain.OrgProfile, error) {
	profile := &domain.OrgProfile{
		ID:           uuid.New(),
		Title:        request.Title,
		LogoURL:      request.LogoURL,
		OrgName:      request.OrgName,
		Address:      request.Address,
		Date:         request.Date,
		MobileNumber: request.MobileNumber,
		CreatedAt:    time.Now(),
	}
	if err := s.ledgerRepo.SaveOrgProfile(ctx, profile); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return profile, nil
}

func (s *LedgerService) GetOrgProfile(ctx context.Context) (*domain.OrgProfile, error) {
	profile, err := s.ledgerRepo.GetLatestOrgProfile(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, customError.WrapDatabaseError(err)
	}
	return profile, nil
}
