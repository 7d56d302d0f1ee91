package handlers

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"itrportal/internal/middleware"
	"itrportal/internal/models"
	"itrportal/internal/repository"
	"itrportal/internal/services"
)

const webhookSecret = "whsec_handler_test"

// stubUserRepo embeds the interface so only the methods the webhook
// path touches need implementations
type stubUserRepo struct {
	repository.UserRepository
	user  *models.User
	saved bool
}

func (s *stubUserRepo) FindByID(_ context.Context, id uint) (*models.User, error) {
	if s.user == nil || s.user.ID != id {
		return nil, fmt.Errorf("unexpected user lookup for id %d", id)
	}
	copied := *s.user
	return &copied, nil
}

func (s *stubUserRepo) Save(_ context.Context, user *models.User) error {
	copied := *user
	s.user = &copied
	s.saved = true
	return nil
}

type stubPaymentRepo struct {
	repository.PaymentRepository
	payment *models.Payment
	events  int
}

func (s *stubPaymentRepo) FindByOrderID(_ context.Context, orderID string) (*models.Payment, error) {
	if s.payment == nil || s.payment.OrderID != orderID {
		return nil, nil
	}
	copied := *s.payment
	return &copied, nil
}

func (s *stubPaymentRepo) CompleteIfPending(_ context.Context, orderID, method, transactionID string, paidAt time.Time) (bool, error) {
	if s.payment == nil || s.payment.OrderID != orderID || s.payment.PaymentStatus != models.PaymentStatusPending {
		return false, nil
	}
	s.payment.PaymentStatus = models.PaymentStatusCompleted
	s.payment.PaymentMethod = method
	s.payment.TransactionID = transactionID
	s.payment.PaymentDate = &paidAt
	return true, nil
}

func (s *stubPaymentRepo) RecordWebhookEvent(_ context.Context, _ *models.WebhookEvent) error {
	s.events++
	return nil
}

func sign(body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func newWebhookServer(users *stubUserRepo, payments *stubPaymentRepo) *echo.Echo {
	svc := services.NewPaymentService(users, payments, nil, webhookSecret, zap.NewNop())
	h := NewPaymentHandler(svc)

	e := echo.New()
	e.HTTPErrorHandler = middleware.JSONErrorHandler
	e.POST("/api/v1/payments/webhook", h.Webhook)
	return e
}

func postWebhook(e *echo.Echo, body []byte, signature string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/webhook", strings.NewReader(string(body)))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set("X-Razorpay-Signature", signature)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestWebhookAcceptsValidSignature(t *testing.T) {
	users := &stubUserRepo{user: &models.User{ID: 9, Status: models.StatusInProgress}}
	payments := &stubPaymentRepo{payment: &models.Payment{
		UserID:        9,
		OrderID:       "order_webhook_1",
		Amount:        1499,
		PaymentStatus: models.PaymentStatusPending,
	}}
	e := newWebhookServer(users, payments)

	// Irregular whitespace in the body; the signature covers the exact
	// bytes, so verification must not depend on re-serialization.
	body := []byte(`{ "event" : "payment.captured",
		"payload": {"payment": {"entity": {"id": "pay_h1", "order_id": "order_webhook_1", "method": "upi", "created_at": 1700000000}}} }`)

	rec := postWebhook(e, body, sign(body, webhookSecret))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Webhook received", resp["message"])

	assert.Equal(t, models.PaymentStatusCompleted, payments.payment.PaymentStatus)
	assert.Equal(t, "UPI", payments.payment.PaymentMethod)
	assert.True(t, users.user.StepperStatus.IsCompleted)
	assert.Equal(t, models.StatusPaymentPending, users.user.Status)
	assert.Equal(t, 1, payments.events)
}

func TestWebhookRejectsBadSignature(t *testing.T) {
	users := &stubUserRepo{user: &models.User{ID: 9}}
	payments := &stubPaymentRepo{payment: &models.Payment{
		UserID:        9,
		OrderID:       "order_webhook_1",
		PaymentStatus: models.PaymentStatusPending,
	}}
	e := newWebhookServer(users, payments)

	body := []byte(`{"event":"payment.captured","payload":{"payment":{"entity":{"id":"pay_h1","order_id":"order_webhook_1","method":"upi","created_at":1700000000}}}}`)

	rec := postWebhook(e, body, sign(body, "wrong-secret"))

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "authentication_error", resp["error"])

	assert.Equal(t, models.PaymentStatusPending, payments.payment.PaymentStatus)
	assert.False(t, users.saved)
	assert.Zero(t, payments.events)
}

func TestWebhookRejectsMissingSignature(t *testing.T) {
	e := newWebhookServer(&stubUserRepo{}, &stubPaymentRepo{})

	body := []byte(`{"event":"payment.captured","payload":{}}`)
	rec := postWebhook(e, body, "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestWebhookAcksUnknownOrder(t *testing.T) {
	users := &stubUserRepo{}
	payments := &stubPaymentRepo{}
	e := newWebhookServer(users, payments)

	body := []byte(`{"event":"payment.captured","payload":{"payment":{"entity":{"id":"pay_h2","order_id":"order_unknown","method":"card","created_at":1700000000}}}}`)
	rec := postWebhook(e, body, sign(body, webhookSecret))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, users.saved)
}
