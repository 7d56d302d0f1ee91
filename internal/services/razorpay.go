package services

import (
	"context"
	"fmt"

	razorpay "github.com/razorpay/razorpay-go"
	"github.com/razorpay/razorpay-go/utils"

	"itrportal/internal/config"
)

// PaymentGateway creates orders with the external payment provider
type PaymentGateway interface {
	CreateOrder(ctx context.Context, amountMinorUnits int64, currency, receipt string) (*GatewayOrder, error)
}

// GatewayOrder is the provider's view of a created order. Amount is in
// minor units (paise).
type GatewayOrder struct {
	ID       string
	Amount   int64
	Currency string
}

// RazorpayClient creates orders through the Razorpay Go SDK
type RazorpayClient struct {
	client *razorpay.Client
}

func NewRazorpayClient(cfg *config.Config) *RazorpayClient {
	return &RazorpayClient{
		client: razorpay.NewClient(cfg.RazorpayKeyID, cfg.RazorpayKeySecret),
	}
}

func (c *RazorpayClient) CreateOrder(ctx context.Context, amountMinorUnits int64, currency, receipt string) (*GatewayOrder, error) {
	data := map[string]interface{}{
		"amount":   amountMinorUnits,
		"currency": currency,
		"receipt":  receipt,
	}

	resp, err := c.client.Order.Create(data, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create gateway order: %w", err)
	}

	order := &GatewayOrder{}
	if id, ok := resp["id"].(string); ok {
		order.ID = id
	}
	if amount, ok := resp["amount"].(float64); ok {
		order.Amount = int64(amount)
	}
	if cur, ok := resp["currency"].(string); ok {
		order.Currency = cur
	}
	if order.ID == "" {
		return nil, fmt.Errorf("gateway returned no order id")
	}

	return order, nil
}

// VerifyWebhookSignature checks the HMAC-SHA256 digest over the raw
// body as received on the wire. The body must not be re-serialized
// before this check; any byte difference breaks the digest.
func VerifyWebhookSignature(rawBody []byte, signature, secret string) bool {
	return utils.VerifyWebhookSignature(string(rawBody), signature, secret)
}
