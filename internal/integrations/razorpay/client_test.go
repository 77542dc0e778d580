package razorpay

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noopLogger struct{}

func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}

func sign(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifySignature(t *testing.T) {
	client := NewClient("https://api.razorpay.test", "key_id", "secret", time.Second, noopLogger{})

	valid := sign("secret", "order_123", "pay_456")

	assert.True(t, client.VerifySignature("order_123", "pay_456", valid))

	// Подпись другим секретом не проходит
	assert.False(t, client.VerifySignature("order_123", "pay_456", sign("other", "order_123", "pay_456")))

	// Подпись другого платежа не проходит
	assert.False(t, client.VerifySignature("order_123", "pay_999", valid))

	assert.False(t, client.VerifySignature("order_123", "pay_456", ""))
	assert.False(t, client.VerifySignature("order_123", "pay_456", "not-hex"))
}

func TestCreateOrder(t *testing.T) {
	var gotPath, gotUser, gotPass string
	var gotBody map[string]interface{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotUser, gotPass, _ = r.BasicAuth()
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"id":       "order_123",
			"amount":   11813,
			"currency": "INR",
			"receipt":  "booking_1",
			"status":   "created",
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "key_id", "secret", time.Second, noopLogger{})

	order, err := client.CreateOrder(context.Background(), 118.13, "INR", "booking_1", map[string]string{"booking_id": "1"})
	require.NoError(t, err)

	assert.Equal(t, "/v1/orders", gotPath)
	assert.Equal(t, "key_id", gotUser)
	assert.Equal(t, "secret", gotPass)

	// Сумма конвертируется в минимальные единицы валюты
	assert.Equal(t, float64(11813), gotBody["amount"])

	assert.Equal(t, "order_123", order.ID)
	assert.Equal(t, int64(11813), order.Amount)
	assert.Equal(t, "created", order.Status)
}

func TestCreateOrder_Errors(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		body       string
		wantErr    error
	}{
		{
			name:       "заказ отклонен шлюзом",
			statusCode: http.StatusBadRequest,
			body:       `{"error": {"code": "BAD_REQUEST_ERROR", "description": "amount too low"}}`,
			wantErr:    ErrOrderRejected,
		},
		{
			name:       "шлюз недоступен",
			statusCode: http.StatusInternalServerError,
			body:       `{}`,
			wantErr:    ErrGatewayUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.statusCode)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			client := NewClient(srv.URL, "key_id", "secret", time.Second, noopLogger{})

			_, err := client.CreateOrder(context.Background(), 118.13, "INR", "booking_1", nil)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
