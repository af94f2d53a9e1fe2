package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/somitihq/somiti-ledger/internal/domain"
	"github.com/somitihq/somiti-ledger/internal/service"
	"github.com/somitihq/somiti-ledger/pkg/response"
)

type MemberHandler struct {
	service   *service.MemberService
	validator *validator.Validate
}

func NewMemberHandler(service *service.MemberService) *MemberHandler {
	return &MemberHandler{
		service:   service,
		validator: validator.New(),
	}
}

// Register handles POST /api/v1/members
func (h *MemberHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}
	if err := h.validator.Struct(&req); err != nil {
		response.BadRequest(w, "Validation failed", err)
		return
	}

	member, err := h.service.Register(r.Context(), &req)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Created(w, member)
}

// GetMember handles GET /api/v1/members/{memberId}
func (h *MemberHandler) GetMember(w http.ResponseWriter, r *http.Request) {
	member, err := h.service.GetMember(r.Context(), mux.Vars(r)["memberId"])
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, member)
}

// LastMemberID handles GET /api/v1/members/last-id
func (h *MemberHandler) LastMemberID(w http.ResponseWriter, r *http.Request) {
	id, err := h.service.LastMemberID(r.Context())
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, map[string]string{"member_id": id})
}

// UpdateMember handles PUT /api/v1/members/{memberId}
func (h *MemberHandler) UpdateMember(w http.ResponseWriter, r *http.Request) {
	var req domain.UpdateMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}

	member, err := h.service.UpdateMember(r.Context(), mux.Vars(r)["memberId"], &req)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, member)
}

// ListMembers handles GET /api/v1/members
func (h *MemberHandler) ListMembers(w http.ResponseWriter, r *http.Request) {
	members, err := h.service.ListMembers(r.Context())
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, members)
}

// ListAgents handles GET /api/v1/agents
func (h *MemberHandler) ListAgents(w http.ResponseWriter, r *http.Request) {
	agents, err := h.service.ListAgents(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, agents)
}

// Login handles POST /api/v1/login
func (h *MemberHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}
	if err := h.validator.Struct(&req); err != nil {
		response.BadRequest(w, "Validation failed", err)
		return
	}

	resp, err := h.service.Login(r.Context(), &req)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, resp)
}

// UpdateAccessList handles PUT /api/v1/agents/{memberId}/access-list
func (h *MemberHandler) UpdateAccessList(w http.ResponseWriter, r *http.Request) {
	var req domain.UpdateAccessListRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}
	if err := h.validator.Struct(&req); err != nil {
		response.BadRequest(w, "Validation failed", err)
		return
	}

	member, err := h.service.UpdateAccessList(r.Context(), mux.Vars(r)["memberId"], &req)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, member)
}

// DeleteAgent handles DELETE /api/v1/agents/{id}
func (h *MemberHandler) DeleteAgent(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.BadRequest(w, "Invalid agent ID", err)
		return
	}

	if err := h.service.DeleteAgent(r.Context(), id); err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, map[string]string{"id": id.String()})
}
