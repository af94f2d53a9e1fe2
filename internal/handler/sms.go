package handler

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/somitihq/somiti-ledger/internal/notify"
	"github.com/somitihq/somiti-ledger/pkg/response"
)

// SmsHandler exposes the gateway for ad-hoc sends and receives delivery
// callbacks from it.
type SmsHandler struct {
	notifier  notify.Notifier
	validator *validator.Validate
	logger    *slog.Logger
}

func NewSmsHandler(notifier notify.Notifier, logger *slog.Logger) *SmsHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &SmsHandler{
		notifier:  notifier,
		validator: validator.New(),
		logger:    logger,
	}
}

type sendSmsRequest struct {
	Phone   string `json:"phone" validate:"required"`
	Message string `json:"message" validate:"required"`
}

// SendSms handles POST /api/v1/sms/send. Dispatch is asynchronous, so a
// 200 here means queued, not delivered.
func (h *SmsHandler) SendSms(w http.ResponseWriter, r *http.Request) {
	var req sendSmsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}
	if err := h.validator.Struct(&req); err != nil {
		response.BadRequest(w, "Validation failed", err)
		return
	}

	h.notifier.Dispatch(req.Phone, req.Message)
	response.Success(w, map[string]string{"status": "queued"})
}

// Webhook handles POST /api/v1/sms/webhook. The gateway posts delivery
// reports here; they are logged and acknowledged, nothing more.
func (h *SmsHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<16))
	if err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}

	h.logger.Info("sms gateway callback", "payload", string(body))
	response.Success(w, map[string]string{"status": "received"})
}
