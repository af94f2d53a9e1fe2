package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/somitihq/somiti-ledger/pkg/dates"
)

const (
	DpsTypeProfit   = "profit"
	DpsTypeNoProfit = "no_profit"

	FdrTypeFixed        = "fixed_profit"
	FdrTypeMonthlyFixed = "monthly_fixed_profit"

	FdrStatusActive    = "active"
	FdrStatusWithdrawn = "withdrawn"
)

// DpsScheme is a recurring-deposit product: a fixed monthly amount for a
// fixed number of months toward a target.
type DpsScheme struct {
	ID             uuid.UUID       `json:"id" db:"id"`
	SchemeName     string          `json:"scheme_name" db:"scheme_name"`
	DurationMonths int             `json:"duration_months" db:"duration_months"`
	MonthlyAmount  decimal.Decimal `json:"monthly_amount" db:"monthly_amount"`
	DpsType        string          `json:"dps_type" db:"dps_type"`
	InterestRate   decimal.Decimal `json:"interest_rate" db:"interest_rate"`
	TargetAmount   decimal.Decimal `json:"target_amount" db:"target_amount"`
	Status         string          `json:"status" db:"status"`
	CreatedAt      time.Time       `json:"created_at" db:"created_at"`
}

// DpsSetting enrolls a member into a scheme. Scheme terms are snapshotted at
// enrollment so later scheme edits do not rewrite history. The cadence is
// calendar-monthly, implicit, not table-driven.
type DpsSetting struct {
	ID             uuid.UUID       `json:"id" db:"id"`
	Date           dates.Date      `json:"date" db:"date"`
	StartDate      dates.Date      `json:"start_date" db:"start_date"`
	MemberID       string          `json:"member_id" db:"member_id"`
	SchemeID       uuid.UUID       `json:"scheme_id" db:"scheme_id"`
	DurationMonths int             `json:"duration_months" db:"duration_months"`
	MonthlyAmount  decimal.Decimal `json:"monthly_amount" db:"monthly_amount"`
	InterestRate   decimal.Decimal `json:"interest_rate" db:"interest_rate"`
	TargetAmount   decimal.Decimal `json:"target_amount" db:"target_amount"`
	Description    string          `json:"description" db:"description"`
	Status         string          `json:"status" db:"status"`
	CreatedAt      time.Time       `json:"created_at" db:"created_at"`

	Collections []DpsCollection `json:"collections" db:"-"`
}

// DpsCollection is one monthly deposit against a setting.
type DpsCollection struct {
	ID              uuid.UUID       `json:"id" db:"id"`
	SettingID       uuid.UUID       `json:"setting_id" db:"setting_id"`
	Date            dates.Date      `json:"date" db:"date"`
	CollectedAmount decimal.Decimal `json:"collected_amount" db:"collected_amount"`
	Description     string          `json:"description" db:"description"`
	SMSSent         bool            `json:"sms_sent" db:"sms_sent"`
	Balance         decimal.Decimal `json:"balance" db:"balance"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`
}

// FdrScheme is a fixed-deposit product.
type FdrScheme struct {
	ID             uuid.UUID       `json:"id" db:"id"`
	SchemeName     string          `json:"scheme_name" db:"scheme_name"`
	SchemeType     string          `json:"scheme_type" db:"scheme_type"`
	DurationMonths int             `json:"duration_months" db:"duration_months"`
	InterestValue  decimal.Decimal `json:"interest_value" db:"interest_value"`
	InterestType   string          `json:"interest_type" db:"interest_type"`
	StartDate      dates.Date      `json:"start_date" db:"start_date"`
	Status         string          `json:"status" db:"status"`
	CreatedAt      time.Time       `json:"created_at" db:"created_at"`
}

// FdrSetting is a member's lump-sum deposit under a scheme, with terms
// snapshotted at opening. Amount is floored at zero on withdrawal.
type FdrSetting struct {
	ID             uuid.UUID       `json:"id" db:"id"`
	MemberID       string          `json:"member_id" db:"member_id"`
	SchemeID       uuid.UUID       `json:"scheme_id" db:"scheme_id"`
	CollectionDate dates.Date      `json:"collection_date" db:"collection_date"`
	EffectiveDate  dates.Date      `json:"effective_date" db:"effective_date"`
	DurationMonths int             `json:"duration_months" db:"duration_months"`
	InterestValue  decimal.Decimal `json:"interest_value" db:"interest_value"`
	InterestType   string          `json:"interest_type" db:"interest_type"`
	FdrAmount      decimal.Decimal `json:"fdr_amount" db:"fdr_amount"`
	Description    string          `json:"description" db:"description"`
	Status         string          `json:"status" db:"status"`
	SendSMS        bool            `json:"send_sms" db:"send_sms"`
	CreatedAt      time.Time       `json:"created_at" db:"created_at"`
}

// DTOs

type CreateDpsSchemeRequest struct {
	SchemeName     string          `json:"scheme_name"`
	DurationMonths int             `json:"duration_months" validate:"required,gt=0"`
	MonthlyAmount  decimal.Decimal `json:"monthly_amount" validate:"required"`
	DpsType        string          `json:"dps_type" validate:"required,oneof=profit no_profit"`
	InterestRate   decimal.Decimal `json:"interest_rate"`
	Status         string          `json:"status"`
}

type CreateDpsSettingRequest struct {
	Date        string `json:"date" validate:"required"`
	StartDate   string `json:"start_date" validate:"required"`
	MemberID    string `json:"member_id" validate:"required"`
	SchemeID    string `json:"scheme_id" validate:"required"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

type RecordDpsCollectionRequest struct {
	Date            string          `json:"date" validate:"required"`
	MemberID        string          `json:"member_id" validate:"required"`
	SchemeID        string          `json:"scheme_id" validate:"required"`
	CollectedAmount decimal.Decimal `json:"collected_amount" validate:"required"`
	Description     string          `json:"description"`
	SendSMS         bool            `json:"send_sms"`
	Balance         decimal.Decimal `json:"balance"`
}

type CreateFdrSchemeRequest struct {
	SchemeName     string          `json:"scheme_name" validate:"required"`
	SchemeType     string          `json:"scheme_type" validate:"required,oneof=fixed_profit monthly_fixed_profit"`
	DurationMonths int             `json:"duration_months" validate:"required,gt=0"`
	InterestValue  decimal.Decimal `json:"interest_value"`
	InterestType   string          `json:"interest_type" validate:"omitempty,oneof=% flat"`
	StartDate      string          `json:"start_date"`
	Status         string          `json:"status"`
}

type CreateFdrSettingRequest struct {
	MemberID       string          `json:"member_id" validate:"required"`
	SchemeID       string          `json:"scheme_id" validate:"required"`
	CollectionDate string          `json:"collection_date" validate:"required"`
	EffectiveDate  string          `json:"effective_date"`
	FdrAmount      decimal.Decimal `json:"fdr_amount" validate:"required"`
	Description    string          `json:"description"`
	Status         string          `json:"status"`
	SendSMS        bool            `json:"send_sms"`
}

type FdrWithdrawRequest struct {
	Amount decimal.Decimal `json:"amount" validate:"required"`
}

// UpdateFdrRequest carries the editable fields of an open deposit. Zero
// values leave the stored field untouched.
type UpdateFdrRequest struct {
	CollectionDate string          `json:"collection_date"`
	EffectiveDate  string          `json:"effective_date"`
	FdrAmount      decimal.Decimal `json:"fdr_amount"`
	Description    string          `json:"description"`
	Status         string          `json:"status" validate:"omitempty,oneof=active withdrawn"`
}

type FdrWithdrawResponse struct {
	RemainingAmount decimal.Decimal `json:"remaining_amount"`
}

// DpsDueRow is one setting whose monthly installment lands on the report
// date.
type DpsDueRow struct {
	MemberName    string          `json:"member_name"`
	MobileNumber  string          `json:"mobile_number"`
	SchemeName    string          `json:"scheme_name"`
	MonthlyAmount decimal.Decimal `json:"monthly_amount"`
	StartDate     dates.Date      `json:"start_date"`
}

// DpsMemberReport aggregates one member's DPS position.
type DpsMemberReport struct {
	MemberID          string          `json:"member_id"`
	MemberName        string          `json:"member_name"`
	MobileNumber      string          `json:"mobile_number"`
	SchemeName        string          `json:"scheme_name"`
	MonthlyAmount     decimal.Decimal `json:"monthly_amount"`
	TotalInstallments int             `json:"total_installments"`
	TotalAmount       decimal.Decimal `json:"total_amount"`
	Collections       []DpsCollection `json:"collections"`
}

// DpsManagementRow summarizes one scheme for the management page.
type DpsManagementRow struct {
	SchemeID       uuid.UUID       `json:"scheme_id"`
	SchemeName     string          `json:"scheme_name"`
	StartDate      time.Time       `json:"start_date"`
	DurationMonths int             `json:"duration_months"`
	MonthlyAmount  decimal.Decimal `json:"monthly_amount"`
	TargetAmount   decimal.Decimal `json:"target_amount"`
	InterestRate   decimal.Decimal `json:"interest_rate"`
	TotalMembers   int             `json:"total_members"`
	Status         string          `json:"status"`
}

// SchemeWithSettings pairs a scheme with its enrolled settings and member
// info.
type SchemeWithSettings struct {
	Scheme   *DpsScheme          `json:"scheme"`
	Settings []SettingWithMember `json:"settings"`
}

type SettingWithMember struct {
	Setting *DpsSetting `json:"setting"`
	Member  *Member     `json:"member"`
}

// FdrRow flattens a setting with its member and scheme for listing pages.
type FdrRow struct {
	FdrID          uuid.UUID       `json:"fdr_id"`
	MemberID       string          `json:"member_id"`
	MemberName     string          `json:"member_name"`
	MobileNumber   string          `json:"mobile_number"`
	SchemeID       uuid.UUID       `json:"scheme_id"`
	SchemeName     string          `json:"scheme_name"`
	SchemeType     string          `json:"scheme_type"`
	FdrAmount      decimal.Decimal `json:"fdr_amount"`
	InterestValue  decimal.Decimal `json:"interest_value"`
	InterestType   string          `json:"interest_type"`
	DurationMonths int             `json:"duration_months"`
	EffectiveDate  dates.Date      `json:"effective_date"`
	CollectionDate dates.Date      `json:"collection_date"`
	Status         string          `json:"status"`
	Description    string          `json:"description"`
}
