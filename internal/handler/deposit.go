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

type DepositHandler struct {
	service   *service.DepositService
	validator *validator.Validate
	loc       *time.Location
}

func NewDepositHandler(service *service.DepositService, loc *time.Location) *DepositHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &DepositHandler{
		service:   service,
		validator: validator.New(),
		loc:       loc,
	}
}

// --- DPS ---

// CreateDpsScheme handles POST /api/v1/dps/schemes
func (h *DepositHandler) CreateDpsScheme(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateDpsSchemeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}
	if err := h.validator.Struct(&req); err != nil {
		response.BadRequest(w, "Validation failed", err)
		return
	}

	scheme, err := h.service.CreateDpsScheme(r.Context(), &req)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Created(w, scheme)
}

// ListDpsSchemes handles GET /api/v1/dps/schemes
func (h *DepositHandler) ListDpsSchemes(w http.ResponseWriter, r *http.Request) {
	schemes, err := h.service.ListDpsSchemes(r.Context())
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, schemes)
}

// DeleteDpsScheme handles DELETE /api/v1/dps/schemes/{id}
func (h *DepositHandler) DeleteDpsScheme(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.BadRequest(w, "Invalid scheme ID", err)
		return
	}

	if err := h.service.DeleteDpsScheme(r.Context(), id); err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, map[string]string{"id": id.String()})
}

// DpsManagement handles GET /api/v1/dps/management
func (h *DepositHandler) DpsManagement(w http.ResponseWriter, r *http.Request) {
	rows, err := h.service.DpsManagementRows(r.Context())
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, rows)
}

// DpsSchemeDetails handles GET /api/v1/dps/schemes/{id}
func (h *DepositHandler) DpsSchemeDetails(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.BadRequest(w, "Invalid scheme ID", err)
		return
	}

	details, err := h.service.DpsSchemeDetails(r.Context(), id)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, details)
}

// EnrollDps handles POST /api/v1/dps/settings
func (h *DepositHandler) EnrollDps(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateDpsSettingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}
	if err := h.validator.Struct(&req); err != nil {
		response.BadRequest(w, "Validation failed", err)
		return
	}

	setting, err := h.service.EnrollDps(r.Context(), &req)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Created(w, setting)
}

// RecordDpsCollection handles POST /api/v1/dps/collections
func (h *DepositHandler) RecordDpsCollection(w http.ResponseWriter, r *http.Request) {
	var req domain.RecordDpsCollectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}
	if err := h.validator.Struct(&req); err != nil {
		response.BadRequest(w, "Validation failed", err)
		return
	}

	setting, err := h.service.RecordDpsCollection(r.Context(), &req)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Created(w, setting)
}

// DpsDueToday handles GET /api/v1/dps/due-today
func (h *DepositHandler) DpsDueToday(w http.ResponseWriter, r *http.Request) {
	asOf, err := h.asOfDate(r)
	if err != nil {
		response.BadRequest(w, "Invalid date", err)
		return
	}

	rows, err := h.service.DpsDueToday(r.Context(), asOf)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, rows)
}

// DpsMemberReport handles GET /api/v1/dps/members/{memberId}/report
func (h *DepositHandler) DpsMemberReport(w http.ResponseWriter, r *http.Request) {
	reports, err := h.service.DpsMemberReport(r.Context(), mux.Vars(r)["memberId"])
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, reports)
}

// --- FDR ---

// CreateFdrScheme handles POST /api/v1/fdr/schemes
func (h *DepositHandler) CreateFdrScheme(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateFdrSchemeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}
	if err := h.validator.Struct(&req); err != nil {
		response.BadRequest(w, "Validation failed", err)
		return
	}

	scheme, err := h.service.CreateFdrScheme(r.Context(), &req)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Created(w, scheme)
}

// ListFdrSchemes handles GET /api/v1/fdr/schemes
func (h *DepositHandler) ListFdrSchemes(w http.ResponseWriter, r *http.Request) {
	schemes, err := h.service.ListFdrSchemes(r.Context())
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, schemes)
}

// OpenFdr handles POST /api/v1/fdr/settings
func (h *DepositHandler) OpenFdr(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateFdrSettingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}
	if err := h.validator.Struct(&req); err != nil {
		response.BadRequest(w, "Validation failed", err)
		return
	}

	setting, err := h.service.OpenFdr(r.Context(), &req)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Created(w, setting)
}

// ListFdr handles GET /api/v1/fdr/settings
func (h *DepositHandler) ListFdr(w http.ResponseWriter, r *http.Request) {
	rows, err := h.service.FdrRows(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, rows)
}

// MemberFdr handles GET /api/v1/fdr/members/{memberId}
func (h *DepositHandler) MemberFdr(w http.ResponseWriter, r *http.Request) {
	rows, err := h.service.FdrRowsByMember(r.Context(), mux.Vars(r)["memberId"])
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, rows)
}

// WithdrawFdr handles POST /api/v1/fdr/settings/{id}/withdraw
func (h *DepositHandler) WithdrawFdr(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.BadRequest(w, "Invalid FDR ID", err)
		return
	}

	var req domain.FdrWithdrawRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}
	if err := h.validator.Struct(&req); err != nil {
		response.BadRequest(w, "Validation failed", err)
		return
	}

	resp, err := h.service.WithdrawFdr(r.Context(), id, &req)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, resp)
}

// UpdateFdr handles PUT /api/v1/fdr/settings/{id}
func (h *DepositHandler) UpdateFdr(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.BadRequest(w, "Invalid FDR ID", err)
		return
	}

	var req domain.UpdateFdrRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}
	if err := h.validator.Struct(&req); err != nil {
		response.BadRequest(w, "Validation failed", err)
		return
	}

	setting, err := h.service.UpdateFdr(r.Context(), id, &req)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, setting)
}

// FdrDueToday handles GET /api/v1/fdr/due-today
func (h *DepositHandler) FdrDueToday(w http.ResponseWriter, r *http.Request) {
	asOf, err := h.asOfDate(r)
	if err != nil {
		response.BadRequest(w, "Invalid date", err)
		return
	}

	rows, err := h.service.FdrDueOnDate(r.Context(), asOf)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, rows)
}

// DeleteFdr handles DELETE /api/v1/fdr/settings/{id}
func (h *DepositHandler) DeleteFdr(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.BadRequest(w, "Invalid FDR ID", err)
		return
	}

	if err := h.service.DeleteFdr(r.Context(), id); err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, map[string]string{"id": id.String()})
}

func (h *DepositHandler) asOfDate(r *http.Request) (dates.Date, error) {
	if raw := r.URL.Query().Get("date"); raw != "" {
		return dates.Parse(raw)
	}
	return dates.Today(h.loc), nil
}
