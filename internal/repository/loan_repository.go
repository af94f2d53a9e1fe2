package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/somitihq/somiti-ledger/internal/domain"
	"github.com/somitihq/somiti-ledger/pkg/dates"
)

const loanColumns = `
	id, member_id, member_name, initial_loan_amount, total_loan, dividend,
	dividend_type, installment_type, installments, installment_amount,
	description, send_sms, loan_date, created_at, updated_at
`

type loanRepository struct {
	db *sqlx.DB
}

func NewLoanRepository(db *sqlx.DB) LoanRepository {
	return &loanRepository{db: db}
}

func (r *loanRepository) Create(ctx context.Context, loan *domain.Loan) error {
	query := `
		INSERT INTO loans (` + loanColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	_, err := r.db.ExecContext(ctx, query,
		loan.ID,
		loan.MemberID,
		loan.MemberName,
		loan.InitialLoanAmount,
		loan.TotalLoan,
		loan.Dividend,
		loan.DividendType,
		loan.InstallmentType,
		loan.Installments,
		loan.InstallmentAmount,
		loan.Description,
		loan.SendSMS,
		loan.LoanDate,
		loan.CreatedAt,
		loan.UpdatedAt,
	)

	return err
}

func (r *loanRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE id = $1`

	var loan domain.Loan
	if err := r.db.GetContext(ctx, &loan, query, id); err != nil {
		return nil, err
	}

	if err := r.attachCollections(ctx, []*domain.Loan{&loan}); err != nil {
		return nil, err
	}
	return &loan, nil
}

func (r *loanRepository) List(ctx context.Context) ([]*domain.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans ORDER BY loan_date DESC`

	var loans []*domain.Loan
	if err := r.db.SelectContext(ctx, &loans, query); err != nil {
		return nil, err
	}

	if err := r.attachCollections(ctx, loans); err != nil {
		return nil, err
	}
	return loans, nil
}

func (r *loanRepository) ListByMemberID(ctx context.Context, memberID string) ([]*domain.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE member_id = $1 ORDER BY loan_date DESC`

	var loans []*domain.Loan
	if err := r.db.SelectContext(ctx, &loans, query, memberID); err != nil {
		return nil, err
	}

	if err := r.attachCollections(ctx, loans); err != nil {
		return nil, err
	}
	return loans, nil
}

func (r *loanRepository) UpdateBalance(ctx context.Context, id uuid.UUID, totalLoan decimal.Decimal) error {
	query := `UPDATE loans SET total_loan = $2, updated_at = now() WHERE id = $1`

	_, err := r.db.ExecContext(ctx, query, id, totalLoan)
	return err
}

func (r *loanRepository) Update(ctx context.Context, loan *domain.Loan) error {
	query := `
		UPDATE loans
		SET total_loan = $2, dividend = $3, dividend_type = $4,
		    installment_type = $5, installments = $6, installment_amount = $7,
		    description = $8, send_sms = $9, updated_at = now()
		WHERE id = $1
	`

	_, err := r.db.ExecContext(ctx, query,
		loan.ID,
		loan.TotalLoan,
		loan.Dividend,
		loan.DividendType,
		loan.InstallmentType,
		loan.Installments,
		loan.InstallmentAmount,
		loan.Description,
		loan.SendSMS,
	)

	return err
}

func (r *loanRepository) AddCollection(ctx context.Context, collection *domain.LoanCollection) error {
	query := `
		INSERT INTO loan_collections (id, loan_id, amount, description, collection_date, send_sms, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.ExecContext(ctx, query,
		collection.ID,
		collection.LoanID,
		collection.Amount,
		collection.Description,
		collection.CollectionDate,
		collection.SendSMS,
		collection.CreatedAt,
	)

	return err
}

func (r *loanRepository) DeleteByMemberID(ctx context.Context, memberID string) error {
	// loan_collections rows go with their loans via ON DELETE CASCADE.
	_, err := r.db.ExecContext(ctx, `DELETE FROM loans WHERE member_id = $1`, memberID)
	return err
}

func (r *loanRepository) ListCollectionsInRange(ctx context.Context, start, end dates.Date) ([]domain.CollectionEntry, error) {
	query := `
		SELECT c.id, l.member_id, l.member_name,
		       COALESCE(m.mobile_number, '') AS mobile_number,
		       c.amount, c.description, c.collection_date AS date
		FROM loan_collections c
		JOIN loans l ON l.id = c.loan_id
		LEFT JOIN members m ON m.member_id = l.member_id
		WHERE c.collection_date BETWEEN $1 AND $2
		ORDER BY c.collection_date DESC
	`

	rows, err := r.db.QueryxContext(ctx, query, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.CollectionEntry
	for rows.Next() {
		var e domain.CollectionEntry
		if err := rows.Scan(&e.ID, &e.MemberID, &e.MemberName, &e.MobileNumber, &e.Amount, &e.Description, &e.Date); err != nil {
			return nil, err
		}
		e.Type = "loan"
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *loanRepository) SumDisbursedInRange(ctx context.Context, start, end dates.Date) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(initial_loan_amount), 0)
		FROM loans
		WHERE loan_date BETWEEN $1 AND $2
	`

	var total decimal.Decimal
	if err := r.db.GetContext(ctx, &total, query, start, end); err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

// attachCollections loads each loan's collection list, insertion-ordered.
func (r *loanRepository) attachCollections(ctx context.Context, loans []*domain.Loan) error {
	if len(loans) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, 0, len(loans))
	byID := make(map[uuid.UUID]*domain.Loan, len(loans))
	for _, loan := range loans {
		ids = append(ids, loan.ID)
		byID[loan.ID] = loan
	}

	query, args, err := sqlx.In(`
		SELECT id, loan_id, amount, description, collection_date, send_sms, created_at
		FROM loan_collections
		WHERE loan_id IN (?)
		ORDER BY created_at
	`, ids)
	if err != nil {
		return err
	}

	var collections []domain.LoanCollection
	if err := r.db.SelectContext(ctx, &collections, r.db.Rebind(query), args...); err != nil {
		return err
	}

	for _, c := range collections {
		loan := byID[c.LoanID]
		loan.Collections = append(loan.Collections, c)
	}
	return nil
}
