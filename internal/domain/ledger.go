package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/somitihq/somiti-ledger/pkg/dates"
)

const (
	TransactionDeposit = "deposit"
	TransactionExpense = "expense"
)

// IncomeExpenseCategory is a named bucket for miscellaneous income and
// expense, with running totals maintained alongside its transaction list.
type IncomeExpenseCategory struct {
	ID           uuid.UUID       `json:"id" db:"id"`
	Name         string          `json:"name" db:"name"`
	TotalDeposit decimal.Decimal `json:"total_deposit" db:"total_deposit"`
	TotalExpense decimal.Decimal `json:"total_expense" db:"total_expense"`
	CreatedAt    time.Time       `json:"created_at" db:"created_at"`

	Transactions []CategoryTransaction `json:"transactions" db:"-"`
}

// ExpenseCategory is an expense-only bucket.
type ExpenseCategory struct {
	ID           uuid.UUID       `json:"id" db:"id"`
	CategoryName string          `json:"category_name" db:"category_name"`
	TotalExpense decimal.Decimal `json:"total_expense" db:"total_expense"`
	CreatedAt    time.Time       `json:"created_at" db:"created_at"`

	Transactions []CategoryTransaction `json:"transactions" db:"-"`
}

// CategoryTransaction is one entry in a category's ledger.
type CategoryTransaction struct {
	ID         uuid.UUID       `json:"id" db:"id"`
	CategoryID uuid.UUID       `json:"category_id" db:"category_id"`
	Type       string          `json:"type" db:"type"`
	Amount     decimal.Decimal `json:"amount" db:"amount"`
	Date       time.Time       `json:"date" db:"date"`
	Note       string          `json:"note" db:"note"`
}

// InitialCash is the singleton opening-cash entry for the books.
type InitialCash struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	Date        time.Time       `json:"date" db:"date"`
	Amount      decimal.Decimal `json:"amount" db:"amount"`
	Description string          `json:"description" db:"description"`
}

// OrgProfile carries the branding shown on receipts and reports.
type OrgProfile struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Title        string    `json:"title" db:"title"`
	LogoURL      string    `json:"logo_url" db:"logo_url"`
	OrgName      string    `json:"org_name" db:"org_name"`
	Address      string    `json:"address" db:"address"`
	Date         string    `json:"date" db:"date"`
	MobileNumber string    `json:"mobile_number" db:"mobile_number"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// DTOs

type CreateCategoryRequest struct {
	Name string `json:"name" validate:"required"`
}

type AddTransactionRequest struct {
	Type   string          `json:"type" validate:"required,oneof=deposit expense"`
	Amount decimal.Decimal `json:"amount" validate:"required"`
	Note   string          `json:"note"`
}

type AddExpenseRequest struct {
	Amount decimal.Decimal `json:"amount" validate:"required"`
	Note   string          `json:"note"`
}

type SetInitialCashRequest struct {
	Amount      decimal.Decimal `json:"amount" validate:"required"`
	Description string          `json:"description"`
}

type SaveOrgProfileRequest struct {
	Title        string `json:"title"`
	LogoURL      string `json:"logo_url"`
	OrgName      string `json:"org_name"`
	Address      string `json:"address"`
	Date         string `json:"date"`
	MobileNumber string `json:"mobile_number"`
}

// Report shapes

// CollectionEntry is one row of the merged collection ledger across loans,
// DPS, and FDR.
type CollectionEntry struct {
	ID           uuid.UUID       `json:"id"`
	MemberID     string          `json:"member_id"`
	MemberName   string          `json:"member_name,omitempty"`
	MobileNumber string          `json:"mobile_number,omitempty"`
	Amount       decimal.Decimal `json:"amount"`
	Description  string          `json:"description,omitempty"`
	Date         dates.Date      `json:"date"`
	Type         string          `json:"type"`
}

// DailySummary totals the day's movements per bucket.
type DailySummary struct {
	TotalLoanCollection   decimal.Decimal `json:"total_loan_collection"`
	TotalLoanDisbursed    decimal.Decimal `json:"total_loan_disbursed"`
	TotalFdrCollection    decimal.Decimal `json:"total_fdr_collection"`
	TotalFdrWithdraw      decimal.Decimal `json:"total_fdr_withdraw"`
	TotalDpsCollection    decimal.Decimal `json:"total_dps_collection"`
	OtherIncome           decimal.Decimal `json:"other_income"`
	OtherExpense          decimal.Decimal `json:"other_expense"`
}

// MemberBalance aggregates one member's position across all products.
type MemberBalance struct {
	MemberID            string          `json:"member_id"`
	Name                string          `json:"name"`
	MobileNumber        string          `json:"mobile_number"`
	Address             string          `json:"address"`
	TotalLoanGiven      decimal.Decimal `json:"total_loan_given"`
	TotalLoanCollection decimal.Decimal `json:"total_loan_collection"`
	TotalDpsDeposit     decimal.Decimal `json:"total_dps_deposit"`
	TotalDpsBalance     decimal.Decimal `json:"total_dps_balance"`
	TotalFdrDeposit     decimal.Decimal `json:"total_fdr_deposit"`
}

// ProfitEntry is one collection row of the installment profit report.
type ProfitEntry struct {
	Date              dates.Date      `json:"date"`
	MemberName        string          `json:"member_name"`
	MobileNumber      string          `json:"mobile_number"`
	Amount            decimal.Decimal `json:"amount"`
	LoanInterest      decimal.Decimal `json:"loan_interest"`
	PrincipalReceived decimal.Decimal `json:"principal_received"`
	Description       string          `json:"description"`
}

// ProfitReport wraps the entries with their grand totals.
type ProfitReport struct {
	Entries        []ProfitEntry   `json:"entries"`
	TotalProfit    decimal.Decimal `json:"total_profit"`
	TotalPrincipal decimal.Decimal `json:"total_principal"`
}

// TransactionReport is the date-ranged merged ledger across all products.
type TransactionReport struct {
	StartDate    dates.Date        `json:"start_date"`
	EndDate      dates.Date        `json:"end_date"`
	Total        int               `json:"total"`
	Transactions []CollectionEntry `json:"transactions"`
}

type TransactionReportRequest struct {
	StartDate string `json:"start_date" validate:"required"`
	EndDate   string `json:"end_date" validate:"required"`
}
