package razorpay

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client клиент платежного шлюза Razorpay
// Заказы создаются через REST API, подпись подтверждения проверяется
// локально: HMAC-SHA256 от "order_id|payment_id" на секретном ключе
type Client struct {
	baseURL    string
	keyID      string
	keySecret  string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента Razorpay
func NewClient(baseURL, keyID, keySecret string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL:   baseURL,
		keyID:     keyID,
		keySecret: keySecret,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// KeyID возвращает публичный ключ для инициализации checkout на клиенте
func (c *Client) KeyID() string {
	return c.keyID
}

// CreateOrder создает заказ на оплату
// amount в основных единицах валюты; шлюз принимает минимальные
// единицы (пайсы), конвертация выполняется здесь
func (c *Client) CreateOrder(ctx context.Context, amount float64, currency, receipt string, notes map[string]string) (*Order, error) {
	amountSubunits := int64(math.Round(amount * 100))

	body, err := json.Marshal(createOrderRequest{
		Amount:   amountSubunits,
		Currency: currency,
		Receipt:  receipt,
		Notes:    notes,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to marshal order request: %v", ErrInternal, err)
	}

	url := fmt.Sprintf("%s/v1/orders", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.keyID, c.keySecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		// Продолжаем обработку
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		var apiErr errorResponse
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Error.Description != "" {
			return nil, fmt.Errorf("%w: %s", ErrOrderRejected, apiErr.Error.Description)
		}
		return nil, fmt.Errorf("%w: status code %d", ErrOrderRejected, resp.StatusCode)
	default:
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: unexpected status code %d: %s", ErrGatewayUnavailable, resp.StatusCode, string(respBody))
	}

	var order Order
	if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrGatewayUnavailable, err)
	}

	c.log.Info("Razorpay order created: order_id=%s, amount=%d %s", order.ID, order.Amount, order.Currency)
	return &order, nil
}

// VerifySignature проверяет подпись подтверждения оплаты
// Сравнение через hmac.Equal - постоянное время, защита от timing-атак
func (c *Client) VerifySignature(orderID, paymentID, signature string) bool {
	mac := hmac.New(sha256.New, []byte(c.keySecret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(signature))
}
