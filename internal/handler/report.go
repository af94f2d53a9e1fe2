package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/somitihq/somiti-ledger/internal/domain"
	"github.com/somitihq/somiti-ledger/internal/service"
	"github.com/somitihq/somiti-ledger/pkg/dates"
	"github.com/somitihq/somiti-ledger/pkg/response"
)

type ReportHandler struct {
	reports   *service.ReportService
	ledger    *service.LedgerService
	validator *validator.Validate
	loc       *time.Location
}

func NewReportHandler(reports *service.ReportService, ledger *service.LedgerService, loc *time.Location) *ReportHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &ReportHandler{
		reports:   reports,
		ledger:    ledger,
		validator: validator.New(),
		loc:       loc,
	}
}

// DailyCollections handles GET /api/v1/reports/daily-collections
func (h *ReportHandler) DailyCollections(w http.ResponseWriter, r *http.Request) {
	date, err := h.queryDate(r, "date")
	if err != nil {
		response.BadRequest(w, "Invalid date", err)
		return
	}

	entries, err := h.reports.DailyCollections(r.Context(), date)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, entries)
}

// DailySummary handles GET /api/v1/reports/daily-summary
func (h *ReportHandler) DailySummary(w http.ResponseWriter, r *http.Request) {
	date, err := h.queryDate(r, "date")
	if err != nil {
		response.BadRequest(w, "Invalid date", err)
		return
	}

	summary, err := h.reports.DailySummary(r.Context(), date)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, summary)
}

// MemberBalances handles GET /api/v1/reports/member-balances
func (h *ReportHandler) MemberBalances(w http.ResponseWriter, r *http.Request) {
	balances, err := h.reports.MemberBalances(r.Context())
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, balances)
}

// ProfitReport handles GET /api/v1/reports/profit
func (h *ReportHandler) ProfitReport(w http.ResponseWriter, r *http.Request) {
	start, end, err := h.rangeDates(r)
	if err != nil {
		response.BadRequest(w, "Invalid date range", err)
		return
	}

	report, err := h.reports.ProfitReport(r.Context(), start, end)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, report)
}

// MemberTransactions handles POST /api/v1/reports/members/{memberId}/transactions
func (h *ReportHandler) MemberTransactions(w http.ResponseWriter, r *http.Request) {
	var req domain.TransactionReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}
	if err := h.validator.Struct(&req); err != nil {
		response.BadRequest(w, "Validation failed", err)
		return
	}

	start, err := dates.Parse(req.StartDate)
	if err != nil {
		response.BadRequest(w, "Invalid start date", err)
		return
	}
	end, err := dates.Parse(req.EndDate)
	if err != nil {
		response.BadRequest(w, "Invalid end date", err)
		return
	}

	report, err := h.reports.MemberTransactions(r.Context(), mux.Vars(r)["memberId"], start, end)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, report)
}

// --- ledgers ---

// CreateIncomeExpenseCategory handles POST /api/v1/income-expense/categories
func (h *ReportHandler) CreateIncomeExpenseCategory(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}
	if err := h.validator.Struct(&req); err != nil {
		response.BadRequest(w, "Validation failed", err)
		return
	}

	category, err := h.ledger.CreateIncomeExpenseCategory(r.Context(), &req)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Created(w, category)
}

// ListIncomeExpenseCategories handles GET /api/v1/income-expense/categories
func (h *ReportHandler) ListIncomeExpenseCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.ledger.ListIncomeExpenseCategories(r.Context())
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, categories)
}

// AddIncomeExpenseTransaction handles POST /api/v1/income-expense/categories/{id}/transactions
func (h *ReportHandler) AddIncomeExpenseTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.BadRequest(w, "Invalid category ID", err)
		return
	}

	var req domain.AddTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}
	if err := h.validator.Struct(&req); err != nil {
		response.BadRequest(w, "Validation failed", err)
		return
	}

	category, err := h.ledger.AddIncomeExpenseTransaction(r.Context(), id, &req)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Created(w, category)
}

// CreateExpenseCategory handles POST /api/v1/expenses/categories
func (h *ReportHandler) CreateExpenseCategory(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}
	if err := h.validator.Struct(&req); err != nil {
		response.BadRequest(w, "Validation failed", err)
		return
	}

	category, err := h.ledger.CreateExpenseCategory(r.Context(), req.Name)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Created(w, category)
}

// ListExpenseCategories handles GET /api/v1/expenses/categories
func (h *ReportHandler) ListExpenseCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.ledger.ListExpenseCategories(r.Context())
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, categories)
}

// AddExpense handles POST /api/v1/expenses/categories/{id}/transactions
func (h *ReportHandler) AddExpense(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.BadRequest(w, "Invalid category ID", err)
		return
	}

	var req domain.AddExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}
	if err := h.validator.Struct(&req); err != nil {
		response.BadRequest(w, "Validation failed", err)
		return
	}

	category, err := h.ledger.AddExpense(r.Context(), id, &req)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Created(w, category)
}

// SetInitialCash handles POST /api/v1/initial-cash
func (h *ReportHandler) SetInitialCash(w http.ResponseWriter, r *http.Request) {
	var req domain.SetInitialCashRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}
	if err := h.validator.Struct(&req); err != nil {
		response.BadRequest(w, "Validation failed", err)
		return
	}

	cash, err := h.ledger.SetInitialCash(r.Context(), &req)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Created(w, cash)
}

// GetInitialCash handles GET /api/v1/initial-cash
func (h *ReportHandler) GetInitialCash(w http.ResponseWriter, r *http.Request) {
	cash, err := h.ledger.GetInitialCash(r.Context())
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, cash)
}

// SaveOrgProfile handles POST /api/v1/org-profile
func (h *ReportHandler) SaveOrgProfile(w http.ResponseWriter, r *http.Request) {
	var req domain.SaveOrgProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}

	profile, err := h.ledger.SaveOrgProfile(r.Context(), &req)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Created(w, profile)
}

// GetOrgProfile handles GET /api/v1/org-profile
func (h *ReportHandler) GetOrgProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.ledger.GetOrgProfile(r.Context())
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, profile)
}

func (h *ReportHandler) queryDate(r *http.Request, key string) (dates.Date, error) {
	if raw := r.URL.Query().Get(key); raw != "" {
		return dates.Parse(raw)
	}
	return dates.Today(h.loc), nil
}

func (h *ReportHandler) rangeDates(r *http.Request) (dates.Date, dates.Date, error) {
	start, err := h.queryDate(r, "start_date")
	if err != nil {
		return dates.Date{}, dates.Date{}, err
	}
	end, err := h.queryDate(r, "end_date")
	if err != nil {
		return dates.Date{}, dates.Date{}, err
	}
	return start, end, nil
}
