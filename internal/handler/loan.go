package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/somitihq/somiti-ledger/internal/domain"
	"github.com/somitihq/somiti-ledger/internal/service"
	"github.com/somitihq/somiti-ledger/pkg/dates"
	"github.com/somitihq/somiti-ledger/pkg/response"
)

type LoanHandler struct {
	service   *service.LoanService
	validator *validator.Validate
}

func NewLoanHandler(service *service.LoanService) *LoanHandler {
	return &LoanHandler{
		service:   service,
		validator: validator.New(),
	}
}

// IssueLoan handles POST /api/v1/loans
func (h *LoanHandler) IssueLoan(w http.ResponseWriter, r *http.Request) {
	var req domain.IssueLoanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}
	if err := h.validator.Struct(&req); err != nil {
		response.BadRequest(w, "Validation failed", err)
		return
	}

	loan, err := h.service.IssueLoan(r.Context(), &req)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Created(w, loan)
}

// RecordCollection handles POST /api/v1/loans/{loanId}/collections
func (h *LoanHandler) RecordCollection(w http.ResponseWriter, r *http.Request) {
	loanID, err := uuid.Parse(mux.Vars(r)["loanId"])
	if err != nil {
		response.BadRequest(w, "Invalid loan ID", err)
		return
	}

	var req domain.RecordCollectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}
	if err := h.validator.Struct(&req); err != nil {
		response.BadRequest(w, "Validation failed", err)
		return
	}

	resp, err := h.service.RecordCollection(r.Context(), loanID, &req)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Created(w, resp)
}

// DueToday handles GET /api/v1/installments/due-today
func (h *LoanHandler) DueToday(w http.ResponseWriter, r *http.Request) {
	asOf, err := h.asOfDate(r)
	if err != nil {
		response.BadRequest(w, "Invalid date", err)
		return
	}

	rows, err := h.service.DueToday(r.Context(), asOf)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, rows)
}

// Overdue handles GET /api/v1/installments/overdue
func (h *LoanHandler) Overdue(w http.ResponseWriter, r *http.Request) {
	asOf, err := h.asOfDate(r)
	if err != nil {
		response.BadRequest(w, "Invalid date", err)
		return
	}

	rows, err := h.service.Overdue(r.Context(), asOf)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, rows)
}

// MemberInstallments handles GET /api/v1/members/{memberId}/installments
func (h *LoanHandler) MemberInstallments(w http.ResponseWriter, r *http.Request) {
	memberID := mux.Vars(r)["memberId"]

	rows, err := h.service.MemberInstallments(r.Context(), memberID)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, rows)
}

// GetLoan handles GET /api/v1/loans/{loanId}
func (h *LoanHandler) GetLoan(w http.ResponseWriter, r *http.Request) {
	loanID, err := uuid.Parse(mux.Vars(r)["loanId"])
	if err != nil {
		response.BadRequest(w, "Invalid loan ID", err)
		return
	}

	loan, err := h.service.GetLoan(r.Context(), loanID)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, loan)
}

// ListLoans handles GET /api/v1/loans
func (h *LoanHandler) ListLoans(w http.ResponseWriter, r *http.Request) {
	loans, err := h.service.ListLoans(r.Context(), r.URL.Query().Get("member_id"))
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, loans)
}

// AllLoans handles GET /api/v1/loans/all, the flattened per-collection view
func (h *LoanHandler) AllLoans(w http.ResponseWriter, r *http.Request) {
	rows, err := h.service.LoansWithMembers(r.Context())
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, rows)
}

// CloseSummaries handles GET /api/v1/loans/close
func (h *LoanHandler) CloseSummaries(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.service.CloseLoanSummaries(r.Context())
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, summaries)
}

// CloseMemberLoans handles DELETE /api/v1/members/{memberId}/loans
func (h *LoanHandler) CloseMemberLoans(w http.ResponseWriter, r *http.Request) {
	memberID := mux.Vars(r)["memberId"]

	if err := h.service.CloseMemberLoans(r.Context(), memberID); err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, map[string]string{"member_id": memberID})
}

// asOfDate reads the optional ?date= query, defaulting to today in the
// cooperative's local calendar.
func (h *LoanHandler) asOfDate(r *http.Request) (dates.Date, error) {
	if raw := r.URL.Query().Get("date"); raw != "" {
		return dates.Parse(raw)
	}
	return dates.Today(h.service.Timezone()), nil
}
