package handler

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/somitihq/somiti-ledger/internal/mocks"
)

func TestSendSmsEndpoint(t *testing.T) {
	notifier := new(mocks.MockNotifier)
	notifier.On("Dispatch", "01711111111", "Office closed tomorrow").Return()
	h := NewSmsHandler(notifier, nil)

	body := `{"phone":"01711111111","message":"Office closed tomorrow"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/sms/send", bytes.NewReader([]byte(body)))
	rec := httptest.NewRecorder()

	h.SendSms(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	notifier.AssertExpectations(t)
}

func TestSendSmsEndpoint_MissingPhone(t *testing.T) {
	notifier := new(mocks.MockNotifier)
	h := NewSmsHandler(notifier, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sms/send",
		strings.NewReader(`{"message":"hello"}`))
	rec := httptest.NewRecorder()

	h.SendSms(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	notifier.AssertNotCalled(t, "Dispatch")
}

func TestSmsWebhookAcknowledges(t *testing.T) {
	h := NewSmsHandler(new(mocks.MockNotifier), nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sms/webhook",
		strings.NewReader("number=01711111111&status=delivered"))
	rec := httptest.NewRecorder()

	h.Webhook(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
