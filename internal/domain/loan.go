package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/somitihq/somiti-ledger/pkg/dates"
)

const (
	DividendTypePercent = "%"
	DividendTypeFlat    = "flat"
)

// Loan represents a loan contract. TotalLoan is the outstanding
// principal+dividend balance; it is decremented by every collection and
// floored at zero.
type Loan struct {
	ID                uuid.UUID       `json:"id" db:"id"`
	MemberID          string          `json:"member_id" db:"member_id"`
	MemberName        string          `json:"member_name" db:"member_name"`
	InitialLoanAmount decimal.Decimal `json:"initial_loan_amount" db:"initial_loan_amount"`
	TotalLoan         decimal.Decimal `json:"total_loan" db:"total_loan"`
	Dividend          decimal.Decimal `json:"dividend" db:"dividend"`
	DividendType      string          `json:"dividend_type" db:"dividend_type"`
	InstallmentType   string          `json:"installment_type" db:"installment_type"`
	Installments      int             `json:"installments" db:"installments"`
	InstallmentAmount decimal.Decimal `json:"installment_amount" db:"installment_amount"`
	Description       string          `json:"description" db:"description"`
	SendSMS           bool            `json:"send_sms" db:"send_sms"`
	LoanDate          dates.Date      `json:"loan_date" db:"loan_date"`
	CreatedAt         time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at" db:"updated_at"`

	// Collections is populated by the repository; insertion-ordered,
	// append-only.
	Collections []LoanCollection `json:"collections" db:"-"`
}

// LoanCollection is one recorded installment payment against a loan.
type LoanCollection struct {
	ID             uuid.UUID       `json:"id" db:"id"`
	LoanID         uuid.UUID       `json:"loan_id" db:"loan_id"`
	Amount         decimal.Decimal `json:"amount" db:"amount"`
	Description    string          `json:"description" db:"description"`
	CollectionDate dates.Date      `json:"collection_date" db:"collection_date"`
	SendSMS        bool            `json:"send_sms" db:"send_sms"`
	CreatedAt      time.Time       `json:"created_at" db:"created_at"`
}

// InitialTotal reconstructs the repayable total at issuance, before any
// collections were applied against it.
func (l *Loan) InitialTotal() decimal.Decimal {
	if l.DividendType == DividendTypePercent {
		return l.InitialLoanAmount.Add(
			l.InitialLoanAmount.Mul(l.Dividend).Div(decimal.NewFromInt(100)),
		)
	}
	return l.InitialLoanAmount.Add(l.Dividend)
}

// TotalPaid sums the recorded collections.
func (l *Loan) TotalPaid() decimal.Decimal {
	total := decimal.Zero
	for _, c := range l.Collections {
		total = total.Add(c.Amount)
	}
	return total
}

// DTOs for requests and responses

type IssueLoanRequest struct {
	MemberID        string          `json:"member_id" validate:"required"`
	LoanAmount      decimal.Decimal `json:"loan_amount" validate:"required"`
	Dividend        decimal.Decimal `json:"dividend"`
	DividendType    string          `json:"dividend_type" validate:"required,oneof=% flat"`
	InstallmentType string          `json:"installment_type" validate:"required"`
	Installments    int             `json:"installments" validate:"gte=0"`
	Description     string          `json:"description"`
	SendSMS         bool            `json:"send_sms"`
	Date            string          `json:"date"`
}

type RecordCollectionRequest struct {
	Amount      decimal.Decimal `json:"amount" validate:"required"`
	Description string          `json:"description"`
	SendSMS     bool            `json:"send_sms"`
	Date        string          `json:"date"`
}

type RecordCollectionResponse struct {
	Loan       *Loan           `json:"loan"`
	CurrentDue decimal.Decimal `json:"current_due"`
}

// LoanWithMemberRow is one row of the all-loans listing: one row per
// collection, or a single zero row for loans with no collections yet.
type LoanWithMemberRow struct {
	LoanID            uuid.UUID       `json:"loan_id"`
	MemberID          string          `json:"member_id"`
	MemberName        string          `json:"member_name"`
	MobileNumber      string          `json:"mobile_number"`
	InitialLoanAmount decimal.Decimal `json:"initial_loan_amount"`
	TotalLoan         decimal.Decimal `json:"total_loan"`
	TotalPaid         decimal.Decimal `json:"total_paid"`
	Due               decimal.Decimal `json:"due"`
	Installments      int             `json:"installments"`
	InstallmentType   string          `json:"installment_type"`
	CollectionDate    *dates.Date     `json:"collection_date"`
	Amount            decimal.Decimal `json:"amount"`
}

// DueInstallmentRow is one due or overdue installment in the cross-loan
// aggregate views, flattened with member contact info.
type DueInstallmentRow struct {
	MemberName        string          `json:"member_name"`
	MobileNumber      string          `json:"mobile_number"`
	MemberID          string          `json:"member_id"`
	LoanID            uuid.UUID       `json:"loan_id"`
	InstallmentNo     int             `json:"installment_no"`
	InstallmentAmount decimal.Decimal `json:"installment_amount"`
	TotalLoan         decimal.Decimal `json:"total_loan"`
	DueDate           dates.Date      `json:"due_date"`
	InstallmentType   string          `json:"installment_type"`
}

// MemberInstallmentRow is one entry of a member's full schedule view,
// including future installments.
type MemberInstallmentRow struct {
	LoanID            uuid.UUID       `json:"loan_id"`
	MemberID          string          `json:"member_id"`
	InstallmentNo     int             `json:"installment_no"`
	InstallmentAmount decimal.Decimal `json:"installment_amount"`
	DueDate           dates.Date      `json:"due_date"`
	Status            string          `json:"status"`
	InstallmentType   string          `json:"installment_type"`
}

// MemberLoanSummary backs the loan close-out page: a member with loans and
// aggregate paid/due figures.
type MemberLoanSummary struct {
	Member    *Member         `json:"member"`
	Loans     []*Loan         `json:"loans"`
	TotalLoan decimal.Decimal `json:"total_loan"`
	TotalPaid decimal.Decimal `json:"total_paid"`
	DueAmount decimal.Decimal `json:"due_amount"`
}
