package handlers

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"itrportal/internal/apperr"
	"itrportal/internal/services"
)

// razorpaySignatureHeader carries the HMAC of the webhook body
const razorpaySignatureHeader = "X-Razorpay-Signature"

type PaymentHandler struct {
	svc *services.PaymentService
}

func NewPaymentHandler(svc *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{svc: svc}
}

// CreateOrder creates a payment intent sized by the caller's current
// filing fee and returns the gateway order for checkout
func (h *PaymentHandler) CreateOrder(c echo.Context) error {
	result, err := h.svc.CreateIntent(c.Request().Context(), currentUserID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

// Webhook receives gateway notifications. The body is read raw and
// handed to reconciliation unparsed; signature verification must see
// the exact bytes from the wire.
func (h *PaymentHandler) Webhook(c echo.Context) error {
	rawBody, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return apperr.InvalidInput("failed to read webhook body")
	}

	signature := c.Request().Header.Get(razorpaySignatureHeader)

	if err := h.svc.Reconcile(c.Request().Context(), rawBody, signature); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, messageResponse{Message: "Webhook received"})
}

// LatestPayment returns the caller's most recent completed payment
func (h *PaymentHandler) LatestPayment(c echo.Context) error {
	payment, err := h.svc.LatestCompletedFor(c.Request().Context(), currentUserID(c))
	if err != nil {
		return err
	}
	if payment == nil {
		return apperr.NotFound("no completed payment found")
	}
	return c.JSON(http.StatusOK, payment)
}
