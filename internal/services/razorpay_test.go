package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"itrportal/internal/config"
)

func newTestRazorpayClient(baseURL string) *RazorpayClient {
	client := NewRazorpayClient(&config.Config{
		RazorpayKeyID:     "rzp_test_key",
		RazorpayKeySecret: "rzp_test_secret",
	})
	client.client.Order.Request.BaseURL = baseURL
	return client
}

func TestRazorpayCreateOrder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.True(t, strings.HasSuffix(r.URL.Path, "/orders"), "unexpected path %s", r.URL.Path)

		keyID, keySecret, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "rzp_test_key", keyID)
		assert.Equal(t, "rzp_test_secret", keySecret)

		var req map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, float64(149900), req["amount"])
		assert.Equal(t, "INR", req["currency"])
		assert.Equal(t, "receipt_7_1700000000", req["receipt"])

		json.NewEncoder(w).Encode(map[string]interface{}{
			"id":       "order_N8x1JdT2",
			"amount":   req["amount"],
			"currency": req["currency"],
			"status":   "created",
		})
	}))
	defer server.Close()

	client := newTestRazorpayClient(server.URL)

	order, err := client.CreateOrder(context.Background(), 149900, "INR", "receipt_7_1700000000")
	require.NoError(t, err)
	assert.Equal(t, "order_N8x1JdT2", order.ID)
	assert.Equal(t, int64(149900), order.Amount)
	assert.Equal(t, "INR", order.Currency)
}

func TestRazorpayCreateOrderGatewayError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"code":"BAD_REQUEST_ERROR","description":"amount must be at least 100"}}`))
	}))
	defer server.Close()

	client := newTestRazorpayClient(server.URL)

	_, err := client.CreateOrder(context.Background(), 1, "INR", "receipt_1_1")
	require.Error(t, err)
}

func TestVerifyWebhookSignature(t *testing.T) {
	secret := "whsec_verify"
	body := []byte(`{"event":"payment.captured","payload":{}}`)
	good := signBody(body, secret)

	cases := []struct {
		name      string
		body      []byte
		signature string
		want      bool
	}{
		{"valid", body, good, true},
		{"tampered body", []byte(`{"event":"payment.captured","payload":{ }}`), good, false},
		{"wrong secret", body, signBody(body, "other"), false},
		{"empty signature", body, "", false},
		{"truncated signature", body, good[:len(good)-2], false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, VerifyWebhookSignature(tc.body, tc.signature, secret))
		})
	}
}
