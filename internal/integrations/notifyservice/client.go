package notifyservice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/m04kA/SMC-TutoringService/internal/domain"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
}

// Client клиент сервиса уведомлений
// Доставка уведомлений не влияет на исход операций бронирования:
// события отправляются в фоне, ошибки только логируются
type Client struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента сервиса уведомлений
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		timeout: timeout,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// BookingConfirmed отправляет событие подтверждения бронирования
func (c *Client) BookingConfirmed(event domain.BookingConfirmedEvent) {
	c.dispatch("booking.confirmed", event)
}

// BookingCancelled отправляет событие отмены бронирования
func (c *Client) BookingCancelled(event domain.BookingCancelledEvent) {
	c.dispatch("booking.cancelled", event)
}

// dispatch отправляет событие в фоне с собственным таймаутом
// Контекст вызывающей операции не используется: уведомление должно
// уйти даже после завершения HTTP-запроса, породившего событие
func (c *Client) dispatch(eventType string, payload interface{}) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
		defer cancel()

		if err := c.send(ctx, eventType, payload); err != nil {
			c.log.Warn("Failed to deliver notification event=%s: %v", eventType, err)
			return
		}

		c.log.Info("Notification delivered: event=%s", eventType)
	}()
}

func (c *Client) send(ctx context.Context, eventType string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%w: failed to marshal event: %v", ErrInternal, err)
	}

	url := fmt.Sprintf("%s/internal/events/%s", c.baseURL, eventType)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: failed to execute request: %v", ErrDeliveryFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: unexpected status code %d: %s", ErrDeliveryFailed, resp.StatusCode, string(respBody))
	}

	return nil
}
