package handler

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/somitihq/somiti-ledger/internal/domain"
	"github.com/somitihq/somiti-ledger/internal/mocks"
	"github.com/somitihq/somiti-ledger/internal/schedule"
	"github.com/somitihq/somiti-ledger/internal/service"
	"github.com/somitihq/somiti-ledger/pkg/dates"
)

func newLoanRouter(loanRepo *mocks.MockLoanRepository, memberRepo *mocks.MockMemberRepository) *mux.Router {
	svc := service.NewLoanService(loanRepo, memberRepo, nil, nil, nil, nil)
	h := NewLoanHandler(svc)

	router := mux.NewRouter()
	router.HandleFunc("/api/v1/loans", h.IssueLoan).Methods("POST")
	router.HandleFunc("/api/v1/loans/{loanId}/collections", h.RecordCollection).Methods("POST")
	router.HandleFunc("/api/v1/installments/due-today", h.DueToday).Methods("GET")
	router.HandleFunc("/api/v1/members/{memberId}/installments", h.MemberInstallments).Methods("GET")
	return router
}

func TestIssueLoanEndpoint(t *testing.T) {
	loanRepo := new(mocks.MockLoanRepository)
	memberRepo := new(mocks.MockMemberRepository)
	router := newLoanRouter(loanRepo, memberRepo)

	memberRepo.On("GetByMemberID", mock.Anything, "M-001").Return(&domain.Member{
		MemberID:     "M-001",
		Name:         "Rahim Uddin",
		MobileNumber: "017",
	}, nil)
	loanRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Loan")).Return(nil)

	body, _ := json.Marshal(map[string]interface{}{
		"member_id":        "M-001",
		"loan_amount":      "1000",
		"dividend":         "10",
		"dividend_type":    "%",
		"installment_type": "daily",
		"installments":     10,
		"date":             "2024-01-01",
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/loans", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp struct {
		Success bool        `json:"success"`
		Data    domain.Loan `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.True(t, resp.Data.TotalLoan.Equal(decimal.NewFromInt(1100)))
}

func TestIssueLoanEndpoint_BadDividendType(t *testing.T) {
	loanRepo := new(mocks.MockLoanRepository)
	memberRepo := new(mocks.MockMemberRepository)
	router := newLoanRouter(loanRepo, memberRepo)

	body, _ := json.Marshal(map[string]interface{}{
		"member_id":        "M-001",
		"loan_amount":      "1000",
		"dividend_type":    "percentish",
		"installment_type": "daily",
		"installments":     10,
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/loans", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	loanRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRecordCollectionEndpoint_LoanNotFound(t *testing.T) {
	loanRepo := new(mocks.MockLoanRepository)
	memberRepo := new(mocks.MockMemberRepository)
	router := newLoanRouter(loanRepo, memberRepo)

	loanID := uuid.New()
	loanRepo.On("GetByID", mock.Anything, loanID).Return(nil, sql.ErrNoRows)

	body, _ := json.Marshal(map[string]interface{}{"amount": "100"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/loans/"+loanID.String()+"/collections", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDueTodayEndpoint_ExplicitDate(t *testing.T) {
	loanRepo := new(mocks.MockLoanRepository)
	memberRepo := new(mocks.MockMemberRepository)
	router := newLoanRouter(loanRepo, memberRepo)

	start := dates.New(2024, time.March, 1)
	loanRepo.On("List", mock.Anything).Return([]*domain.Loan{
		{
			ID:                uuid.New(),
			MemberID:          "M-001",
			MemberName:        "Rahim Uddin",
			TotalLoan:         decimal.NewFromInt(1100),
			InstallmentType:   schedule.CadenceDaily,
			Installments:      5,
			InstallmentAmount: decimal.NewFromInt(220),
			LoanDate:          start,
		},
	}, nil)
	memberRepo.On("GetByMemberID", mock.Anything, "M-001").Return(&domain.Member{MobileNumber: "017"}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/installments/due-today?date=2024-03-02", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data []domain.DueInstallmentRow `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, 2, resp.Data[0].InstallmentNo)
	assert.Equal(t, "2024-03-02", resp.Data[0].DueDate.String())
}

func TestDueTodayEndpoint_MalformedDate(t *testing.T) {
	loanRepo := new(mocks.MockLoanRepository)
	memberRepo := new(mocks.MockMemberRepository)
	router := newLoanRouter(loanRepo, memberRepo)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/installments/due-today?date=03-02-2024", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
