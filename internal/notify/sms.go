// Package notify sends outbound SMS through the cooperative's HTTP gateway.
// Dispatch is fire-and-forget: a gateway failure is logged and never
// propagated into the write path that triggered it.
package notify

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/somitihq/somiti-ledger/internal/config"
	apperrors "github.com/somitihq/somiti-ledger/pkg/errors"
)

// Notifier dispatches a message to a phone number without blocking the
// caller.
type Notifier interface {
	Dispatch(phone, message string)
}

// GatewayClient talks to the SMS HTTP gateway.
type GatewayClient struct {
	baseURL string
	apiKey  string
	timeout time.Duration
	enabled bool
	client  *http.Client
	logger  *slog.Logger
}

func NewGatewayClient(cfg config.SMSConfig, logger *slog.Logger) *GatewayClient {
	return &GatewayClient{
		baseURL: cfg.GatewayURL,
		apiKey:  cfg.APIKey,
		timeout: cfg.Timeout,
		enabled: cfg.Enabled,
		client:  &http.Client{Timeout: cfg.Timeout},
		logger:  logger,
	}
}

// Dispatch sends the message in the background. The enclosing ledger write
// has usually already committed; nothing here can roll it back.
func (g *GatewayClient) Dispatch(phone, message string) {
	if !g.enabled || phone == "" {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), g.timeout)
		defer cancel()

		if err := g.send(ctx, phone, message); err != nil {
			g.logger.Error("sms dispatch failed",
				"phone", phone,
				"error", apperrors.WrapNotificationFailure(err),
			)
			return
		}
		g.logger.Info("sms dispatched", "phone", phone)
	}()
}

func (g *GatewayClient) send(ctx context.Context, phone, message string) error {
	params := url.Values{}
	params.Set("key", g.apiKey)
	params.Set("number", phone)
	params.Set("message", message)
	params.Set("option", "2")
	params.Set("type", "sms")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("gateway returned status %d", resp.StatusCode)
	}
	return nil
}
