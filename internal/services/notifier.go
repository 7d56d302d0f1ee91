package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"itrportal/internal/config"
)

// Notifier delivers OTPs and transactional email to clients. Failures
// surface to callers; whether they abort the operation is caller policy.
type Notifier interface {
	SendOTP(ctx context.Context, phoneNumber, code string) error
	SendEmail(ctx context.Context, to, subject, htmlBody string) error
}

// Msg91Notifier sends SMS OTPs through the MSG91 HTTP API and email
// through the SMTP service
type Msg91Notifier struct {
	baseURL    string
	authKey    string
	templateID string
	client     *http.Client
	email      *EmailService
	logger     *zap.Logger
}

func NewMsg91Notifier(cfg *config.Config, email *EmailService, logger *zap.Logger) *Msg91Notifier {
	return &Msg91Notifier{
		baseURL:    cfg.Msg91BaseURL,
		authKey:    cfg.Msg91AuthKey,
		templateID: cfg.Msg91TemplateID,
		client:     &http.Client{Timeout: 10 * time.Second},
		email:      email,
		logger:     logger,
	}
}

type msg91OTPRequest struct {
	TemplateID string `json:"template_id"`
	Mobile     string `json:"mobile"`
	OTP        string `json:"otp"`
}

type msg91Response struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func (n *Msg91Notifier) SendOTP(ctx context.Context, phoneNumber, code string) error {
	payload := msg91OTPRequest{
		TemplateID: n.templateID,
		Mobile:     phoneNumber,
		OTP:        code,
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.baseURL+"/otp", bytes.NewBuffer(data))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("authkey", n.authKey)

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("otp request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var parsed msg91Response
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	if parsed.Type != "success" {
		return fmt.Errorf("otp delivery rejected: %s", parsed.Message)
	}

	n.logger.Debug("otp sent", zap.String("phone_number", phoneNumber))
	return nil
}

func (n *Msg91Notifier) SendEmail(ctx context.Context, to, subject, htmlBody string) error {
	return n.email.SendEmail(to, subject, htmlBody)
}
