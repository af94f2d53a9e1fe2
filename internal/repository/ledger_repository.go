package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/somitihq/somiti-ledger/internal/domain"
)

type ledgerRepository struct {
	db *sqlx.DB
}

func NewLedgerRepository(db *sqlx.DB) LedgerRepository {
	return &ledgerRepository{db: db}
}

func (r *ledgerRepository) CreateIncomeExpenseCategory(ctx context.Context, category *domain.IncomeExpenseCategory) error {
	query := `
		INSERT INTO income_expense_categories (id, name, total_deposit, total_expense, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.ExecContext(ctx, query,
		category.ID,
		category.Name,
		category.TotalDeposit,
		category.TotalExpense,
		category.CreatedAt,
	)

	return err
}

func (r *ledgerRepository) GetIncomeExpenseCategory(ctx context.Context, id uuid.UUID) (*domain.IncomeExpenseCategory, error) {
	query := `
		SELECT id, name, total_deposit, total_expense, created_at
		FROM income_expense_categories
		WHERE id = $1
	`

	var category domain.IncomeExpenseCategory
	if err := r.db.GetContext(ctx, &category, query, id); err != nil {
		return nil, err
	}

	if err := r.loadTransactions(ctx, &category.Transactions, category.ID); err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *ledgerRepository) GetIncomeExpenseCategoryByName(ctx context.Context, name string) (*domain.IncomeExpenseCategory, error) {
	query := `
		SELECT id, name, total_deposit, total_expense, created_at
		FROM income_expense_categories
		WHERE name = $1
	`

	var category domain.IncomeExpenseCategory
	if err := r.db.GetContext(ctx, &category, query, name); err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *ledgerRepository) ListIncomeExpenseCategories(ctx context.Context) ([]*domain.IncomeExpenseCategory, error) {
	query := `
		SELECT id, name, total_deposit, total_expense, created_at
		FROM income_expense_categories
		ORDER BY created_at DESC
	`

	var categories []*domain.IncomeExpenseCategory
	if err := r.db.SelectContext(ctx, &categories, query); err != nil {
		return nil, err
	}

	for _, category := range categories {
		if err := r.loadTransactions(ctx, &category.Transactions, category.ID); err != nil {
			return nil, err
		}
	}
	return categories, nil
}

func (r *ledgerRepository) AddIncomeExpenseTransaction(ctx context.Context, categoryID uuid.UUID, txn *domain.CategoryTransaction) (*domain.IncomeExpenseCategory, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	insert := `
		INSERT INTO category_transactions (id, category_id, type, amount, date, note)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	if _, err := tx.ExecContext(ctx, insert, txn.ID, categoryID, txn.Type, txn.Amount, txn.Date, txn.Note); err != nil {
		return nil, err
	}

	column := "total_deposit"
	if txn.Type == domain.TransactionExpense {
		column = "total_expense"
	}
	update := `UPDATE income_expense_categories SET ` + column + ` = ` + column + ` + $2 WHERE id = $1`
	if _, err := tx.ExecContext(ctx, update, categoryID, txn.Amount); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return r.GetIncomeExpenseCategory(ctx, categoryID)
}

func (r *ledgerRepository) CreateExpenseCategory(ctx context.Context, category *domain.ExpenseCategory) error {
	query := `
		INSERT INTO expense_categories (id, category_name, total_expense, created_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.db.ExecContext(ctx, query,
		category.ID,
		category.CategoryName,
		category.TotalExpense,
		category.CreatedAt,
	)

	return err
}

func (r *ledgerRepository) GetExpenseCategory(ctx context.Context, id uuid.UUID) (*domain.ExpenseCategory, error) {
	query := `
		SELECT id, category_name, total_expense, created_at
		FROM expense_categories
		WHERE id = $1
	`

	var category domain.ExpenseCategory
	if err := r.db.GetContext(ctx, &category, query, id); err != nil {
		return nil, err
	}

	if err := r.loadTransactions(ctx, &category.Transactions, category.ID); err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *ledgerRepository) ListExpenseCategories(ctx context.Context) ([]*domain.ExpenseCategory, error) {
	query := `
		SELECT id, category_name, total_expense, created_at
		FROM expense_categories
		ORDER BY created_at DESC
	`

	var categories []*domain.ExpenseCategory
	if err := r.db.SelectContext(ctx, &categories, query); err != nil {
		return nil, err
	}

	for _, category := range categories {
		if err := r.loadTransactions(ctx, &category.Transactions, category.ID); err != nil {
			return nil, err
		}
	}
	return categories, nil
}

func (r *ledgerRepository) AddExpense(ctx context.Context, categoryID uuid.UUID, txn *domain.CategoryTransaction) (*domain.ExpenseCategory, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	insert := `
		INSERT INTO category_transactions (id, category_id, type, amount, date, note)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	if _, err := tx.ExecContext(ctx, insert, txn.ID, categoryID, domain.TransactionExpense, txn.Amount, txn.Date, txn.Note); err != nil {
		return nil, err
	}

	update := `UPDATE expense_categories SET total_expense = total_expense + $2 WHERE id = $1`
	if _, err := tx.ExecContext(ctx, update, categoryID, txn.Amount); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return r.GetExpenseCategory(ctx, categoryID)
}

func (r *ledgerRepository) SumTransactionsInRange(ctx context.Context, txnType string, start, end time.Time) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM category_transactions
		WHERE type = $1 AND date BETWEEN $2 AND $3
	`

	var total decimal.Decimal
	if err := r.db.GetContext(ctx, &total, query, txnType, start, end); err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

func (r *ledgerRepository) UpsertInitialCash(ctx context.Context, cash *domain.InitialCash) (*domain.InitialCash, error) {
	// At most one row exists; the books have a single opening balance.
	query := `
		INSERT INTO initial_cash (id, date, amount, description)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE
		SET date = EXCLUDED.date, amount = EXCLUDED.amount, description = EXCLUDED.description
		RETURNING id, date, amount, description
	`

	existing, err := r.GetInitialCash(ctx)
	if err == nil && existing != nil {
		cash.ID = existing.ID
	}

	var saved domain.InitialCash
	if err := r.db.GetContext(ctx, &saved, query, cash.ID, cash.Date, cash.Amount, cash.Description); err != nil {
		return nil, err
	}
	return &saved, nil
}

func (r *ledgerRepository) GetInitialCash(ctx context.Context) (*domain.InitialCash, error) {
	query := `SELECT id, date, amount, description FROM initial_cash LIMIT 1`

	var cash domain.InitialCash
	if err := r.db.GetContext(ctx, &cash, query); err != nil {
		return nil, err
	}
	return &cash, nil
}

func (r *ledgerRepository) SaveOrgProfile(ctx context.Context, profile *domain.OrgProfile) error {
	query := `
		INSERT INTO org_profiles (id, title, logo_url, org_name, address, date, mobile_number, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.ExecContext(ctx, query,
		profile.ID,
		profile.Title,
		profile.LogoURL,
		profile.OrgName,
		profile.Address,
		profile.Date,
		profile.MobileNumber,
		profile.CreatedAt,
	)

	return err
}

func (r *ledgerRepository) GetLatestOrgProfile(ctx context.Context) (*domain.OrgProfile, error) {
	query := `
		SELECT id, title, logo_url, org_name, address, date, mobile_number, created_at
		FROM org_profiles
		ORDER BY created_at DESC
		LIMIT 1
	`

	var profile domain.OrgProfile
	if err := r.db.GetContext(ctx, &profile, query); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *ledgerRepository) loadTransactions(ctx context.Context, dst *[]domain.CategoryTransaction, categoryID uuid.UUID) error {
	query := `
		SELECT id, category_id, type, amount, date, note
		FROM category_transactions
		WHERE category_id = $1
		ORDER BY date
	`

	return r.db.SelectContext(ctx, dst, query, categoryID)
}
