package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"itrportal/internal/apperr"
	"itrportal/internal/models"
	"itrportal/internal/repository"
)

// eventPaymentCaptured is the only gateway event that completes a
// payment; everything else is acknowledged and ignored.
const eventPaymentCaptured = "payment.captured"

// PaymentService owns the payment intent lifecycle: order creation
// against the gateway and exactly-once reconciliation of captured
// payments delivered over the webhook.
type PaymentService struct {
	users         repository.UserRepository
	payments      repository.PaymentRepository
	gateway       PaymentGateway
	webhookSecret string
	logger        *zap.Logger
}

func NewPaymentService(users repository.UserRepository, payments repository.PaymentRepository, gateway PaymentGateway, webhookSecret string, logger *zap.Logger) *PaymentService {
	return &PaymentService{
		users:         users,
		payments:      payments,
		gateway:       gateway,
		webhookSecret: webhookSecret,
		logger:        logger,
	}
}

// PaymentIntentResult is handed back to the client for the gateway
// checkout. Amount is in minor units as the gateway reports it.
type PaymentIntentResult struct {
	OrderID  string `json:"orderId"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// CreateIntent creates a gateway order sized by the user's current ITR
// price and records a PENDING payment. The price is snapshotted now;
// later income-source changes do not touch already-created intents.
func (s *PaymentService) CreateIntent(ctx context.Context, userID uint) (*PaymentIntentResult, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.ItrPrice <= 0 {
		return nil, apperr.InvalidState("no filing fee determined yet, complete the income sources step first")
	}

	receipt := fmt.Sprintf("receipt_%d_%d", user.ID, time.Now().Unix())

	order, err := s.gateway.CreateOrder(ctx, int64(user.ItrPrice)*100, "INR", receipt)
	if err != nil {
		return nil, fmt.Errorf("failed to create gateway order: %w", err)
	}

	payment := &models.Payment{
		UserID:        user.ID,
		OrderID:       order.ID,
		Amount:        user.ItrPrice,
		Currency:      order.Currency,
		PaymentStatus: models.PaymentStatusPending,
		PaymentMethod: "ONLINE",
		ItrType:       user.ItrType,
	}
	if err := s.payments.Create(ctx, payment); err != nil {
		return nil, err
	}

	s.logger.Info("payment intent created",
		zap.Uint("user_id", user.ID),
		zap.String("order_id", order.ID),
		zap.Int("amount", user.ItrPrice))

	return &PaymentIntentResult{
		OrderID:  order.ID,
		Amount:   order.Amount,
		Currency: order.Currency,
	}, nil
}

// capturedEvent mirrors the gateway webhook body for captured payments
type capturedEvent struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity struct {
				ID        string `json:"id"`
				OrderID   string `json:"order_id"`
				Method    string `json:"method"`
				CreatedAt int64  `json:"created_at"`
			} `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}

// Reconcile is the sole path that completes a payment. The signature is
// verified over the raw bytes as received, before any parsing. Unknown
// event types and unknown order references are acknowledged without
// error so the gateway does not retry them forever; duplicate
// deliveries of a captured event are no-ops.
func (s *PaymentService) Reconcile(ctx context.Context, rawBody []byte, signature string) error {
	if !VerifyWebhookSignature(rawBody, signature, s.webhookSecret) {
		return apperr.Authentication("invalid webhook signature")
	}

	var event capturedEvent
	if err := json.Unmarshal(rawBody, &event); err != nil {
		return apperr.InvalidInput("malformed webhook payload")
	}

	// Audit trail of every verified notification, raw bytes included
	s.recordEvent(ctx, event, rawBody)

	if event.Event != eventPaymentCaptured {
		s.logger.Debug("ignoring webhook event", zap.String("event", event.Event))
		return nil
	}

	entity := event.Payload.Payment.Entity

	payment, err := s.payments.FindByOrderID(ctx, entity.OrderID)
	if err != nil {
		return err
	}
	if payment == nil {
		// Unknown order reference. Acknowledge rather than fail, a
		// non-2xx here would trigger the gateway's retry storm.
		s.logger.Warn("captured event for unknown order", zap.String("order_id", entity.OrderID))
		return nil
	}

	paidAt := time.Unix(entity.CreatedAt, 0)
	applied, err := s.payments.CompleteIfPending(ctx, entity.OrderID, strings.ToUpper(entity.Method), entity.ID, paidAt)
	if err != nil {
		return err
	}
	if !applied {
		// Duplicate delivery; the transition already happened.
		s.logger.Info("duplicate capture event", zap.String("order_id", entity.OrderID))
		return nil
	}

	user, err := s.users.FindByID(ctx, payment.UserID)
	if err != nil {
		return err
	}
	user.StepperStatus.IsCompleted = true
	user.Status = models.StatusPaymentPending
	if err := s.users.Save(ctx, user); err != nil {
		return err
	}

	s.logger.Info("payment completed",
		zap.Uint("user_id", user.ID),
		zap.String("order_id", entity.OrderID),
		zap.String("transaction_id", entity.ID))

	return nil
}

// LatestCompletedFor returns the most recent COMPLETED payment for the
// user, or nil if there is none
func (s *PaymentService) LatestCompletedFor(ctx context.Context, userID uint) (*models.Payment, error) {
	return s.payments.LatestCompleted(ctx, userID)
}

func (s *PaymentService) recordEvent(ctx context.Context, event capturedEvent, rawBody []byte) {
	record := &models.WebhookEvent{
		PaymentGateway: models.PaymentGatewayRazorpay,
		EventType:      event.Event,
		OrderID:        event.Payload.Payment.Entity.OrderID,
		Payload:        json.RawMessage(rawBody),
	}
	if err := s.payments.RecordWebhookEvent(ctx, record); err != nil {
		s.logger.Warn("failed to record webhook event", zap.Error(err))
	}
}
